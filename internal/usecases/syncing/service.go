package syncing

import (
	"context"
	"fmt"
	"time"

	"github.com/vfg2006/campaign-sync/infrastructure/integrator/adplatform/adclient"
	"github.com/vfg2006/campaign-sync/infrastructure/repository"
	"github.com/vfg2006/campaign-sync/internal/config"
	"github.com/vfg2006/campaign-sync/internal/domain"
	"github.com/vfg2006/campaign-sync/pkg/log"
	"github.com/vfg2006/campaign-sync/pkg/utils"
)

// SleepFunc espera pela duração informada ou até o contexto ser cancelado
type SleepFunc func(ctx context.Context, d time.Duration) error

// Service implementa o pipeline: autenticação, paginação, sync remoto e persistência
type Service struct {
	cfg       *config.Config
	client    adclient.Client
	campaigns repository.CampaignRepository
	runs      repository.SyncRunRepository
	sleep     SleepFunc
	now       func() time.Time
}

// NewService cria uma nova instância do serviço de sincronização
func NewService(
	cfg *config.Config,
	client adclient.Client,
	campaigns repository.CampaignRepository,
	runs repository.SyncRunRepository,
) *Service {
	return &Service{
		cfg:       cfg,
		client:    client,
		campaigns: campaigns,
		runs:      runs,
		sleep:     sleepContext,
		now:       time.Now,
	}
}

// WithSleep troca a função de espera (usado nos testes para registrar as esperas)
func (s *Service) WithSleep(sleep SleepFunc) *Service {
	s.sleep = sleep
	return s
}

// Run executa uma rodada completa. Erros de autenticação e de busca são fatais;
// falhas de campanhas individuais ficam no relatório.
func (s *Service) Run(ctx context.Context) (*domain.SyncReport, error) {
	if log.GetCorrelationID(ctx) == "" {
		ctx, _ = log.WithCorrelationID(ctx)
	}
	logger := log.ForContext(ctx)

	run, err := s.startRun(ctx)
	if err != nil {
		return nil, err
	}
	logger = logger.WithField("run_id", run.ID)

	logger.Info("Starting campaign sync...")

	logger.Info("Step 1: Getting access token...")
	accessToken, err := s.client.Authenticate(ctx, s.cfg.AdPlatform.Email, s.cfg.AdPlatform.Password)
	if err != nil {
		syncErr := newAuthError(err)
		logger.WithError(err).Error("Falha na autenticação")
		s.finishRun(ctx, run, nil, syncErr)
		return nil, syncErr
	}
	logger.Info("Got access token")

	logger.Info("Step 2: Fetching campaigns...")
	campaigns, err := s.FetchAllCampaigns(ctx, accessToken)
	if err != nil {
		logger.WithError(err).Error("Falha ao buscar campanhas")
		s.finishRun(ctx, run, nil, err)
		return nil, err
	}
	logger.Infof("Found %d campaigns", len(campaigns))

	logger.Info("Step 3: Syncing campaigns...")
	outcome, err := s.SyncAllCampaigns(ctx, accessToken, campaigns)

	report := &domain.SyncReport{
		RunID:             run.ID,
		TotalCampaigns:    outcome.Total,
		SyncedCampaigns:   outcome.Synced,
		FailedCampaignIDs: outcome.FailedIDs,
		Duration:          s.now().Sub(run.StartedAt),
	}

	if err != nil {
		logger.WithError(err).Warn("Sincronização interrompida")
		s.finishRun(ctx, run, report, err)
		return report, err
	}

	logger.Infof("Sync complete: %d/%d campaigns synced", report.SyncedCampaigns, report.TotalCampaigns)
	s.finishRun(ctx, run, report, nil)

	return report, nil
}

func (s *Service) startRun(ctx context.Context) (*domain.SyncRun, error) {
	id, err := utils.GenerateID()
	if err != nil {
		return nil, fmt.Errorf("erro ao gerar id da execução: %w", err)
	}

	run := &domain.SyncRun{
		ID:        id,
		StartedAt: s.now(),
		Status:    domain.SyncRunStatusRunning,
	}

	// Histórico não bloqueia a sincronização
	if err := s.runs.Create(ctx, run); err != nil {
		log.ForContext(ctx).WithField("run_id", id).WithError(err).Warn("Erro ao registrar início da execução")
	}

	return run, nil
}

func (s *Service) finishRun(ctx context.Context, run *domain.SyncRun, report *domain.SyncReport, runErr error) {
	finishedAt := s.now()
	run.FinishedAt = &finishedAt
	run.Status = domain.SyncRunStatusCompleted

	if report != nil {
		run.TotalCampaigns = report.TotalCampaigns
		run.SyncedCampaigns = report.SyncedCampaigns
		run.FailedCampaigns = len(report.FailedCampaignIDs)
	}

	if runErr != nil {
		message := runErr.Error()
		run.Status = domain.SyncRunStatusFailed
		run.Error = &message
	}

	// O contexto da execução pode já ter sido cancelado
	if err := s.runs.Finish(context.WithoutCancel(ctx), run); err != nil {
		log.ForContext(ctx).WithField("run_id", run.ID).WithError(err).Warn("Erro ao registrar fim da execução")
	}
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
