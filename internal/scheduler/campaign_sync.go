package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/go-co-op/gocron"
	"github.com/sirupsen/logrus"
	"github.com/vfg2006/campaign-sync/internal/config"
	"github.com/vfg2006/campaign-sync/internal/domain"
	"github.com/vfg2006/campaign-sync/internal/usecases/syncing"
	"github.com/vfg2006/campaign-sync/pkg/log"
)

// CampaignSyncConfig representa a configuração do agendador de sincronização de campanhas
type CampaignSyncConfig struct {
	CronSchedule string
	SyncEnabled  bool
}

// CampaignSyncStatus é o retrato do agendador exposto pela API
type CampaignSyncStatus struct {
	SyncEnabled         bool               `json:"sync_enabled"`
	SyncCron            string             `json:"sync_cron"`
	SyncRunning         bool               `json:"sync_running"`
	LastSyncStartedAt   time.Time          `json:"last_sync_started_at"`
	LastSyncCompletedAt time.Time          `json:"last_sync_completed_at"`
	LastReport          *domain.SyncReport `json:"last_report,omitempty"`
	LastError           string             `json:"last_error,omitempty"`
}

// CampaignSyncService gerencia o agendamento e execução da sincronização de campanhas.
// Execuções sobrepostas no mesmo processo são descartadas.
type CampaignSyncService struct {
	scheduler           *gocron.Scheduler
	config              CampaignSyncConfig
	syncer              syncing.Syncer
	baseCtx             context.Context
	syncRunning         bool
	syncMutex           sync.Mutex
	lastSyncStartedAt   time.Time
	lastSyncCompletedAt time.Time
	lastReport          *domain.SyncReport
	lastError           error
}

// NewCampaignSyncService cria uma nova instância do serviço de sincronização de campanhas
func NewCampaignSyncService(syncer syncing.Syncer, appConfig *config.Config) *CampaignSyncService {
	syncConfig := CampaignSyncConfig{
		CronSchedule: appConfig.Scheduler.CronSchedule,
		SyncEnabled:  appConfig.Scheduler.Enabled,
	}

	logrus.WithFields(logrus.Fields{
		"cron_schedule": syncConfig.CronSchedule,
		"sync_enabled":  syncConfig.SyncEnabled,
	}).Info("Configuração do agendador de campanhas carregada")

	return &CampaignSyncService{
		scheduler: gocron.NewScheduler(time.Local),
		config:    syncConfig,
		syncer:    syncer,
		baseCtx:   context.Background(),
	}
}

// Start inicia o agendador. O contexto também é usado pelas execuções disparadas.
func (s *CampaignSyncService) Start(ctx context.Context) error {
	s.syncMutex.Lock()
	s.baseCtx = ctx
	s.syncMutex.Unlock()

	if !s.config.SyncEnabled {
		logrus.Info("Sincronização agendada de campanhas desabilitada por configuração")
		return nil
	}

	logrus.WithField("cron", s.config.CronSchedule).Info("Iniciando agendador de sincronização de campanhas")

	_, err := s.scheduler.Cron(s.config.CronSchedule).Do(func() {
		if !s.tryAcquire() {
			logrus.Info("Sincronização de campanhas já em andamento, ignorando")
			return
		}
		s.syncCampaigns()
	})
	if err != nil {
		return fmt.Errorf("erro ao agendar sincronização de campanhas: %w", err)
	}

	s.scheduler.StartAsync()

	go func() {
		<-ctx.Done()
		logrus.Info("Parando agendador de sincronização de campanhas")
		s.scheduler.Stop()
	}()

	return nil
}

// TriggerManualSync dispara uma execução em background.
// Retorna false quando já existe uma execução em andamento.
func (s *CampaignSyncService) TriggerManualSync() bool {
	if !s.tryAcquire() {
		logrus.Info("Sincronização de campanhas já em andamento, ignorando solicitação manual")
		return false
	}

	logrus.Info("Iniciando sincronização manual de campanhas")
	go s.syncCampaigns()
	return true
}

// GetStatus retorna o status atual do agendador
func (s *CampaignSyncService) GetStatus() CampaignSyncStatus {
	s.syncMutex.Lock()
	defer s.syncMutex.Unlock()

	status := CampaignSyncStatus{
		SyncEnabled:         s.config.SyncEnabled,
		SyncCron:            s.config.CronSchedule,
		SyncRunning:         s.syncRunning,
		LastSyncStartedAt:   s.lastSyncStartedAt,
		LastSyncCompletedAt: s.lastSyncCompletedAt,
		LastReport:          s.lastReport,
	}
	if s.lastError != nil {
		status.LastError = s.lastError.Error()
	}

	return status
}

func (s *CampaignSyncService) tryAcquire() bool {
	s.syncMutex.Lock()
	defer s.syncMutex.Unlock()

	if s.syncRunning {
		return false
	}
	s.syncRunning = true
	s.lastSyncStartedAt = time.Now()
	return true
}

// syncCampaigns executa uma rodada; o chamador já marcou syncRunning
func (s *CampaignSyncService) syncCampaigns() {
	s.syncMutex.Lock()
	ctx := s.baseCtx
	s.syncMutex.Unlock()

	ctx, _ = log.WithCorrelationID(ctx)
	logger := log.ForContext(ctx)
	logger.Info("Iniciando sincronização de campanhas")

	report, err := s.syncer.Run(ctx)

	s.syncMutex.Lock()
	s.syncRunning = false
	s.lastSyncCompletedAt = time.Now()
	s.lastError = err
	if report != nil {
		s.lastReport = report
	}
	duration := s.lastSyncCompletedAt.Sub(s.lastSyncStartedAt)
	s.syncMutex.Unlock()

	if err != nil {
		logger.WithError(err).WithField("sync_fatal", syncing.IsFatal(err)).Error("Sincronização de campanhas falhou")
		return
	}

	logger.WithFields(log.Fields{
		"duration": duration.String(),
		"synced":   report.SyncedCampaigns,
		"total":    report.TotalCampaigns,
	}).Info("Sincronização de campanhas concluída")
}
