package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"
	"github.com/vfg2006/campaign-sync/infrastructure/integrator/adplatform/adclient"
	"github.com/vfg2006/campaign-sync/infrastructure/repository"
	"github.com/vfg2006/campaign-sync/internal/config"
	"github.com/vfg2006/campaign-sync/internal/usecases/syncing"
	"github.com/vfg2006/campaign-sync/pkg/log"
)

// Executa uma sincronização e sai: 0 ao concluir, 1 em falha fatal
func main() {
	os.Exit(run())
}

func run() int {
	log.Configure("info")

	cfg, err := config.NewConfig()
	if err != nil {
		logrus.WithError(err).Error("Erro ao carregar configuração")
		return 1
	}
	logrus.Infof("Nível de log configurado para: %s", log.Configure(cfg.App.LogLevel))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	stores, err := repository.NewStores(ctx, cfg.Database)
	if err != nil {
		logrus.WithError(err).Error("Erro ao inicializar persistência")
		return 1
	}
	defer func() {
		if err := stores.Close(); err != nil {
			logrus.WithError(err).Warn("Erro ao fechar conexão com PostgreSQL")
		}
	}()

	service := syncing.NewService(cfg, adclient.NewClient(cfg), stores.Campaigns, stores.Runs)

	ctx, correlationID := log.WithCorrelationID(ctx)
	logrus.WithField("correlation_id", correlationID).Info("Sincronização iniciada pela linha de comando")

	report, err := service.Run(ctx)
	if err != nil {
		logrus.WithError(err).WithField("fatal", syncing.IsFatal(err)).Error("Sync failed")
		return 1
	}

	logrus.WithFields(logrus.Fields{
		"run_id":   report.RunID,
		"duration": report.Duration.String(),
		"failed":   report.FailedCampaignIDs,
	}).Infof("Sync complete: %d/%d campaigns synced", report.SyncedCampaigns, report.TotalCampaigns)

	return 0
}
