package controllers

import (
	"context"
	"net/http"

	"github.com/machbridge/machbridge-backend/api/responses"
	"github.com/machbridge/machbridge-backend/pkg/config"
	pkgerrors "github.com/machbridge/machbridge-backend/pkg/errors"
	"github.com/machbridge/machbridge-backend/pkg/logger"
	"github.com/machbridge/machbridge-backend/pkg/redis"
)

type pinger interface {
	Ping(ctx context.Context) error
}

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-MachBridge-Env", cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}

// HealthReady pings each dependency; any failure makes the instance
// not-ready.
func HealthReady(cfg *config.Config, logg *logger.Logger, deps map[string]pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-MachBridge-Env", cfg.App.Env)

		for name, dep := range deps {
			if dep == nil {
				continue
			}
			if err := dep.Ping(r.Context()); err != nil {
				ctx := r.Context()
				if logg != nil {
					ctx = logg.WithField(ctx, "dependency", name)
				}
				responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "dependency not ready"))
				return
			}
		}

		responses.WriteSuccess(w, map[string]string{"status": "ready"})
	}
}

// ReadinessDeps builds the dependency map for HealthReady. A nil redis
// client is skipped rather than reported as a failing dependency.
func ReadinessDeps(db pinger, rdb *redis.Client) map[string]pinger {
	deps := map[string]pinger{
		"postgres": db,
	}
	if rdb != nil {
		deps["redis"] = rdb
	}
	return deps
}
