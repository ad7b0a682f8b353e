package main

import (
	"context"

	"github.com/sirupsen/logrus"
	"github.com/vfg2006/campaign-sync/infrastructure/integrator/adplatform/adclient"
	"github.com/vfg2006/campaign-sync/infrastructure/repository"
	"github.com/vfg2006/campaign-sync/internal/api"
	"github.com/vfg2006/campaign-sync/internal/api/handler"
	"github.com/vfg2006/campaign-sync/internal/config"
	"github.com/vfg2006/campaign-sync/internal/scheduler"
	"github.com/vfg2006/campaign-sync/internal/usecases/authenticating"
	"github.com/vfg2006/campaign-sync/internal/usecases/syncing"
	"github.com/vfg2006/campaign-sync/pkg/log"
)

func main() {
	log.Configure("info")

	cfg, err := config.NewConfig()
	if err != nil {
		logrus.Fatal(err)
	}
	logrus.Infof("Nível de log configurado para: %s", log.Configure(cfg.App.LogLevel))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	stores, err := repository.NewStores(ctx, cfg.Database)
	if err != nil {
		logrus.WithError(err).Fatal("Erro ao inicializar persistência")
	}
	defer stores.Close()

	// Interface só recebe a conexão quando ela existe
	var db handler.Pinger
	if stores.Conn != nil {
		db = stores.Conn
	}

	authenticator := authenticating.NewService(cfg)
	syncService := syncing.NewService(cfg, adclient.NewClient(cfg), stores.Campaigns, stores.Runs)

	campaignSyncService := scheduler.NewCampaignSyncService(syncService, cfg)
	if err := campaignSyncService.Start(ctx); err != nil {
		logrus.WithError(err).Error("Erro ao iniciar o agendador de sincronização de campanhas")
	} else {
		logrus.Info("Agendador de sincronização de campanhas iniciado com sucesso")
	}

	server, err := api.New(cfg, authenticator, campaignSyncService, stores.Runs, db)
	if err != nil {
		logrus.Fatal(err)
	}

	if err := server.Run(ctx); err != nil {
		logrus.Error(err)
	}
}
