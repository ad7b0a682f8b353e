package domain

// Campaign é o snapshot de uma campanha obtido na plataforma de anúncios.
// Não é alterado localmente durante a execução de uma sincronização.
type Campaign struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Status      string  `json:"status"`
	Budget      float64 `json:"budget"`
	Impressions int64   `json:"impressions"`
	Clicks      int64   `json:"clicks"`
	Conversions int64   `json:"conversions"`
	CreatedAt   string  `json:"created_at"`
}
