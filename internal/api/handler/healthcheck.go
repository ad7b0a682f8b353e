package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"
)

// Pinger é satisfeito pela conexão postgres; nil no modo USE_MOCK_DB
type Pinger interface {
	Ping(ctx context.Context) error
}

type healthcheckResponse struct {
	Status   string `json:"status"`
	Time     string `json:"time"`
	Database string `json:"database"`
}

func HealthcheckHandler(db Pinger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		response := healthcheckResponse{
			Status:   "ok",
			Time:     time.Now().Format(time.RFC3339),
			Database: "mock",
		}
		status := http.StatusOK

		if db != nil {
			response.Database = "ok"
			if err := db.Ping(r.Context()); err != nil {
				logrus.WithError(err).Warn("healthcheck: banco indisponível")
				response.Status = "degraded"
				response.Database = "unreachable"
				status = http.StatusServiceUnavailable
			}
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		if err := json.NewEncoder(w).Encode(response); err != nil {
			logrus.WithError(err).Warn("error responding to healthcheck")
		}
	})
}
