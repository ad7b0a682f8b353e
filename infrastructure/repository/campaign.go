package repository

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/Masterminds/squirrel"
	"github.com/lib/pq"
	"github.com/vfg2006/campaign-sync/infrastructure/database/postgres"
	"github.com/vfg2006/campaign-sync/internal/domain"
	"github.com/vfg2006/campaign-sync/pkg/log"
)

//go:generate mockgen -source=campaign.go -destination=mocks/mock_campaign.go -package=mocks

const campaignsTable = "campaigns"

type CampaignRepository interface {
	Persist(ctx context.Context, campaign domain.Campaign) error
}

// PersistenceError embrulha a falha do banco ao gravar uma campanha
type PersistenceError struct {
	CampaignID string
	Code       string
	Err        error
}

func (e *PersistenceError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("Database error: %s (código: %s)", e.Err.Error(), e.Code)
	}
	return fmt.Sprintf("Database error: %s", e.Err.Error())
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}

type campaignRepository struct {
	db postgres.Queryer
}

func NewCampaignRepository(db postgres.Queryer) CampaignRepository {
	return &campaignRepository{
		db: db,
	}
}

// Persist faz upsert pelo id, com synced_at no horário da escrita
func (r *campaignRepository) Persist(ctx context.Context, campaign domain.Campaign) error {
	query := squirrel.StatementBuilder.
		Insert(campaignsTable).
		Columns("id", "name", "status", "budget", "impressions", "clicks", "conversions", "synced_at").
		Values(
			campaign.ID,
			campaign.Name,
			campaign.Status,
			campaign.Budget,
			campaign.Impressions,
			campaign.Clicks,
			campaign.Conversions,
			squirrel.Expr("NOW()"),
		).
		Suffix(`
			ON CONFLICT (id) DO UPDATE SET
				name = EXCLUDED.name,
				status = EXCLUDED.status,
				budget = EXCLUDED.budget,
				impressions = EXCLUDED.impressions,
				clicks = EXCLUDED.clicks,
				conversions = EXCLUDED.conversions,
				synced_at = EXCLUDED.synced_at
		`).
		PlaceholderFormat(squirrel.Dollar)

	sqlQuery, args, err := query.ToSql()
	if err != nil {
		return &PersistenceError{CampaignID: campaign.ID, Err: fmt.Errorf("erro ao construir a query: %w", err)}
	}

	if _, err := r.db.ExecContext(ctx, sqlQuery, args...); err != nil {
		persistErr := &PersistenceError{CampaignID: campaign.ID, Err: err}

		var pqErr *pq.Error
		if errors.As(err, &pqErr) {
			persistErr.Code = string(pqErr.Code)
		}

		return persistErr
	}

	return nil
}

// DryRunCampaignRepository não abre conexão: só registra a ação
type DryRunCampaignRepository struct {
	mu    sync.Mutex
	saved map[string]domain.Campaign
}

// NewDryRunCampaignRepository é usado quando USE_MOCK_DB está habilitado
func NewDryRunCampaignRepository() *DryRunCampaignRepository {
	return &DryRunCampaignRepository{
		saved: make(map[string]domain.Campaign),
	}
}

func (r *DryRunCampaignRepository) Persist(ctx context.Context, campaign domain.Campaign) error {
	r.mu.Lock()
	r.saved[campaign.ID] = campaign
	r.mu.Unlock()

	log.ForContext(ctx).WithField("campaign_id", campaign.ID).Infof("[MOCK DB] Saved campaign: %s", campaign.ID)
	return nil
}

// Saved devolve o que teria sido gravado, uma entrada por id
func (r *DryRunCampaignRepository) Saved() map[string]domain.Campaign {
	r.mu.Lock()
	defer r.mu.Unlock()

	saved := make(map[string]domain.Campaign, len(r.saved))
	for id, campaign := range r.saved {
		saved[id] = campaign
	}
	return saved
}
