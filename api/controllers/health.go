package controllers

import (
	"net/http"

	"github.com/glowmart/storefront-cart/api/responses"
	"github.com/glowmart/storefront-cart/pkg/config"
	pkgerrors "github.com/glowmart/storefront-cart/pkg/errors"
	"github.com/glowmart/storefront-cart/pkg/logger"
	"github.com/glowmart/storefront-cart/pkg/redis"
)

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-GlowMart-Env", cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}

// HealthReady reports ready only when the cart's persistence layer answers.
// A nil pinger means the service runs on the in-memory store and is always
// ready.
func HealthReady(cfg *config.Config, logg *logger.Logger, redisP redis.Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-GlowMart-Env", cfg.App.Env)

		if redisP != nil {
			if err := redisP.Ping(r.Context()); err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "redis unreachable"))
				return
			}
		}
		responses.WriteSuccess(w, map[string]string{"status": "ready"})
	}
}
