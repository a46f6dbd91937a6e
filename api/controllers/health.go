package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/kozyhq/kozy-review-backend/api/responses"
	"github.com/kozyhq/kozy-review-backend/pkg/config"
	pkgerrors "github.com/kozyhq/kozy-review-backend/pkg/errors"
	"github.com/kozyhq/kozy-review-backend/pkg/logger"
)

const envHeader = "X-Kozy-Env"

// Pinger is the probe surface readiness checks call.
type Pinger interface {
	Ping(ctx context.Context) error
}

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set(envHeader, cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}

// HealthReady probes the database, redis and the artifact root. Any failing
// dependency fails readiness.
func HealthReady(cfg *config.Config, logg *logger.Logger, dbP, redisP, storeP Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set(envHeader, cfg.App.Env)

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		checks := []struct {
			name  string
			probe Pinger
		}{
			{"database", dbP},
			{"redis", redisP},
			{"artifact_store", storeP},
		}

		status := map[string]string{}
		for _, check := range checks {
			if check.probe == nil {
				continue
			}
			if err := check.probe.Ping(ctx); err != nil {
				status[check.name] = "down"
				responses.WriteError(r.Context(), logg, w,
					pkgerrors.Wrap(pkgerrors.CodeDependency, err, check.name+" unavailable").WithDetails(status))
				return
			}
			status[check.name] = "up"
		}

		responses.WriteSuccess(w, map[string]any{"status": "ready", "checks": status})
	}
}
