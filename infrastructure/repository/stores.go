package repository

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/vfg2006/campaign-sync/infrastructure/database/postgres"
	"github.com/vfg2006/campaign-sync/internal/config"
)

// Stores agrupa os repositórios conforme o modo de persistência.
// No modo USE_MOCK_DB nenhuma conexão é aberta e Conn fica nil.
type Stores struct {
	Campaigns CampaignRepository
	Runs      SyncRunRepository
	Conn      *postgres.Connection
}

func NewStores(ctx context.Context, cfg config.Database) (*Stores, error) {
	if cfg.UseMockDB {
		logrus.Info("USE_MOCK_DB habilitado: campanhas não serão gravadas no banco")
		return &Stores{
			Campaigns: NewDryRunCampaignRepository(),
			Runs:      NewMemorySyncRunRepository(),
		}, nil
	}

	conn, err := postgres.NewConnection(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("erro ao conectar ao PostgreSQL: %w", err)
	}
	logrus.Info("Conexão com PostgreSQL estabelecida com sucesso")

	return &Stores{
		Campaigns: NewCampaignRepository(conn),
		Runs:      NewSyncRunRepository(conn),
		Conn:      conn,
	}, nil
}

func (s *Stores) Close() error {
	if s.Conn == nil {
		return nil
	}
	return s.Conn.Close()
}
