package syncing

import (
	"errors"
	"fmt"
)

// Erros específicos do pipeline de sincronização
var (
	// Fatais: interrompem a execução
	ErrFatalAuth  = errors.New("falha na autenticação com a plataforma de anúncios")
	ErrFatalFetch = errors.New("falha ao buscar as campanhas")

	// Por campanha: contabilizado e a execução segue
	ErrTransientSync = errors.New("falha ao sincronizar campanha")

	ErrThrottleLimit = errors.New("limite de esperas por throttling atingido")
)

type ErrorKind string

const (
	KindAuth  ErrorKind = "auth"
	KindFetch ErrorKind = "fetch"
	KindSync  ErrorKind = "sync"
)

// SyncError é um erro com contexto adicional do pipeline
type SyncError struct {
	Err        error     // Erro base (sentinela)
	Kind       ErrorKind // Etapa onde ocorreu
	CampaignID string    // Campanha envolvida (quando aplicável)
	Page       int       // Página envolvida (quando aplicável)
	Details    string    // Detalhes adicionais
	Cause      error     // Erro original
}

func (e *SyncError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("%s: %s", e.Err.Error(), e.Details)
	}
	return e.Err.Error()
}

// Unwrap expõe tanto o sentinela quanto a causa para errors.Is/As
func (e *SyncError) Unwrap() []error {
	if e.Cause == nil {
		return []error{e.Err}
	}
	return []error{e.Err, e.Cause}
}

func newAuthError(cause error) *SyncError {
	return &SyncError{
		Err:     ErrFatalAuth,
		Kind:    KindAuth,
		Details: cause.Error(),
		Cause:   cause,
	}
}

func newFetchError(page int, cause error) *SyncError {
	return &SyncError{
		Err:     ErrFatalFetch,
		Kind:    KindFetch,
		Page:    page,
		Details: fmt.Sprintf("página %d: %v", page, cause),
		Cause:   cause,
	}
}

func newCampaignError(campaignID string, attempts int, cause error) *SyncError {
	return &SyncError{
		Err:        ErrTransientSync,
		Kind:       KindSync,
		CampaignID: campaignID,
		Details:    fmt.Sprintf("campanha %s após %d tentativas: %v", campaignID, attempts, cause),
		Cause:      cause,
	}
}

// IsFatal indica se o erro deve interromper a execução (exit code != 0)
func IsFatal(err error) bool {
	return errors.Is(err, ErrFatalAuth) || errors.Is(err, ErrFatalFetch)
}
