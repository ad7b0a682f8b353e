package handler

import (
	"net/http"

	"github.com/justinas/alice"
	"github.com/vfg2006/campaign-sync/infrastructure/repository"
	"github.com/vfg2006/campaign-sync/internal/api/handler/router"
	"github.com/vfg2006/campaign-sync/pkg/middleware"
)

func Healthcheck(db Pinger) []router.Route {
	return []router.Route{
		{
			Path:    "/healthcheck",
			Method:  http.MethodGet,
			Handler: HealthcheckHandler(db),
		},
	}
}

func Sync(controller SyncController, runs repository.SyncRunRepository) []router.Route {
	return []router.Route{
		{
			Path:        "/v1/sync",
			Method:      http.MethodPost,
			Handler:     TriggerSync(controller),
			Middlewares: []alice.Constructor{middleware.AdminOnly()},
		},
		{
			Path:        "/v1/sync/status",
			Method:      http.MethodGet,
			Handler:     GetSyncStatus(controller, runs),
			Middlewares: []alice.Constructor{middleware.AdminOnly()},
		},
	}
}
