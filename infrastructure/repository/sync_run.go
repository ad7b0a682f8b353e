package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"

	"github.com/Masterminds/squirrel"
	"github.com/vfg2006/campaign-sync/infrastructure/database/postgres"
	"github.com/vfg2006/campaign-sync/internal/domain"
)

//go:generate mockgen -source=sync_run.go -destination=mocks/mock_sync_run.go -package=mocks

const syncRunsTable = "sync_runs"

type SyncRunRepository interface {
	Create(ctx context.Context, run *domain.SyncRun) error
	Finish(ctx context.Context, run *domain.SyncRun) error
	GetLatest(ctx context.Context) (*domain.SyncRun, error)
}

type syncRunRepository struct {
	db postgres.Queryer
}

func NewSyncRunRepository(db postgres.Queryer) SyncRunRepository {
	return &syncRunRepository{
		db: db,
	}
}

func (r *syncRunRepository) Create(ctx context.Context, run *domain.SyncRun) error {
	query, args, err := squirrel.
		Insert(syncRunsTable).
		Columns("id", "started_at", "status").
		Values(run.ID, run.StartedAt, string(run.Status)).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return fmt.Errorf("erro ao construir a query: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("erro ao registrar execução %s: %w", run.ID, err)
	}

	return nil
}

func (r *syncRunRepository) Finish(ctx context.Context, run *domain.SyncRun) error {
	query, args, err := squirrel.
		Update(syncRunsTable).
		Set("finished_at", run.FinishedAt).
		Set("status", string(run.Status)).
		Set("total_campaigns", run.TotalCampaigns).
		Set("synced_campaigns", run.SyncedCampaigns).
		Set("failed_campaigns", run.FailedCampaigns).
		Set("error", run.Error).
		Where(squirrel.Eq{"id": run.ID}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return fmt.Errorf("erro ao construir a query: %w", err)
	}

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("erro ao finalizar execução %s: %w", run.ID, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("erro ao obter número de linhas afetadas: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("execução %s não encontrada", run.ID)
	}

	return nil
}

func (r *syncRunRepository) GetLatest(ctx context.Context) (*domain.SyncRun, error) {
	query, args, err := squirrel.
		Select("id, started_at, finished_at, status, total_campaigns, synced_campaigns, failed_campaigns, error").
		From(syncRunsTable).
		OrderBy("started_at DESC").
		Limit(1).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("erro ao construir a query: %w", err)
	}

	run := &domain.SyncRun{}
	var status string
	var finishedAt sql.NullTime
	var runErr sql.NullString

	err = r.db.QueryRowContext(ctx, query, args...).Scan(
		&run.ID,
		&run.StartedAt,
		&finishedAt,
		&status,
		&run.TotalCampaigns,
		&run.SyncedCampaigns,
		&run.FailedCampaigns,
		&runErr,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("erro ao escanear execução: %w", err)
	}

	run.Status = domain.SyncRunStatus(status)
	if finishedAt.Valid {
		run.FinishedAt = &finishedAt.Time
	}
	if runErr.Valid {
		run.Error = &runErr.String
	}

	return run, nil
}

// memorySyncRunRepository guarda as execuções em memória (modo USE_MOCK_DB)
type memorySyncRunRepository struct {
	mu     sync.Mutex
	runs   map[string]domain.SyncRun
	latest string
}

func NewMemorySyncRunRepository() SyncRunRepository {
	return &memorySyncRunRepository{
		runs: make(map[string]domain.SyncRun),
	}
}

func (r *memorySyncRunRepository) Create(_ context.Context, run *domain.SyncRun) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.runs[run.ID]; exists {
		return fmt.Errorf("execução %s já registrada", run.ID)
	}
	r.runs[run.ID] = *run
	r.latest = run.ID
	return nil
}

func (r *memorySyncRunRepository) Finish(_ context.Context, run *domain.SyncRun) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.runs[run.ID]; !exists {
		return fmt.Errorf("execução %s não encontrada", run.ID)
	}
	r.runs[run.ID] = *run
	return nil
}

func (r *memorySyncRunRepository) GetLatest(_ context.Context) (*domain.SyncRun, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.latest == "" {
		return nil, nil
	}
	run := r.runs[r.latest]
	return &run, nil
}
