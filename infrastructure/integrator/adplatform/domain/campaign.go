package adplatformdomain

import "github.com/vfg2006/campaign-sync/internal/domain"

// Campaign é a campanha como vem da API da plataforma de anúncios
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

type Pagination struct {
	HasMore bool `json:"has_more"`
}

// CampaignPage é uma página da listagem GET /api/campaigns
type CampaignPage struct {
	Data       []Campaign `json:"data"`
	Pagination Pagination `json:"pagination"`
}

func (c Campaign) ToDomain() domain.Campaign {
	return domain.Campaign{
		ID:          c.ID,
		Name:        c.Name,
		Status:      c.Status,
		Budget:      c.Budget,
		Impressions: c.Impressions,
		Clicks:      c.Clicks,
		Conversions: c.Conversions,
		CreatedAt:   c.CreatedAt,
	}
}
