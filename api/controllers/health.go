package controllers

import (
	"net/http"

	"github.com/squareeyes/storefront/api/responses"
	"github.com/squareeyes/storefront/pkg/config"
	pkgerrors "github.com/squareeyes/storefront/pkg/errors"
	"github.com/squareeyes/storefront/pkg/kv"
	"github.com/squareeyes/storefront/pkg/logger"
)

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-SquareEyes-Env", cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}

// HealthReady pings the persistence backend when it can be pinged;
// the in-memory backend is always ready.
func HealthReady(cfg *config.Config, logg *logger.Logger, backend kv.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		w.Header().Set("X-SquareEyes-Env", cfg.App.Env)

		if pinger, ok := backend.(kv.Pinger); ok {
			if err := pinger.Ping(ctx); err != nil {
				responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "storage not ready"))
				return
			}
		}

		responses.WriteSuccess(w, map[string]string{"status": "ready"})
	}
}
