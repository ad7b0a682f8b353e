package syncing

import (
	"context"

	"github.com/vfg2006/campaign-sync/internal/domain"
)

//go:generate mockgen -source=interfaces.go -destination=mocks/mock_syncer.go -package=mocks

// Syncer executa uma rodada completa do pipeline de campanhas
type Syncer interface {
	// Run autentica, busca todas as páginas, sincroniza e persiste cada campanha
	Run(ctx context.Context) (*domain.SyncReport, error)
}
