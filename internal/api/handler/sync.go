package handler

import (
	"net/http"

	"github.com/pkg/errors"
	"github.com/vfg2006/campaign-sync/infrastructure/repository"
	"github.com/vfg2006/campaign-sync/internal/domain"
	"github.com/vfg2006/campaign-sync/internal/scheduler"
	"github.com/vfg2006/campaign-sync/pkg/apiErrors"
	"github.com/vfg2006/campaign-sync/pkg/log"
	"github.com/vfg2006/campaign-sync/pkg/middleware"
)

// SyncController é a parte do agendador usada pela API
type SyncController interface {
	TriggerManualSync() bool
	GetStatus() scheduler.CampaignSyncStatus
}

type syncStatusResponse struct {
	Scheduler scheduler.CampaignSyncStatus `json:"scheduler"`
	LatestRun *domain.SyncRun              `json:"latest_run,omitempty"`
}

// TriggerSync dispara uma sincronização em background
func TriggerSync(controller SyncController) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := log.ForContext(r.Context())
		if claims, ok := middleware.ClaimsFromContext(r.Context()); ok {
			logger = logger.WithField("sync_requested_by", claims.UserEmail)
		}
		logger.Info("INIT - TriggerSync")

		if !controller.TriggerManualSync() {
			apiErrors.WriteError(w, apiErrors.ErrSyncInProgress, "Já existe uma sincronização em andamento", nil)
			return
		}

		writeJSON(w, http.StatusAccepted, map[string]any{
			"message": "Sincronização iniciada com sucesso",
		})
	}
}

// GetSyncStatus retorna o estado do agendador e a última execução registrada
func GetSyncStatus(controller SyncController, runs repository.SyncRunRepository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log.ForContext(r.Context()).Info("INIT - GetSyncStatus")

		latest, err := runs.GetLatest(r.Context())
		if err != nil {
			err = errors.Wrap(err, "erro ao buscar última execução")
			log.ForContext(r.Context()).WithError(err).Error("Falha ao montar status da sincronização")
			apiErrors.WriteError(w, apiErrors.ErrDatabaseOperation, err.Error(), nil)
			return
		}

		writeJSON(w, http.StatusOK, syncStatusResponse{
			Scheduler: controller.GetStatus(),
			LatestRun: latest,
		})
	}
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.L.WithError(err).Warn("Erro ao escrever resposta")
	}
}
