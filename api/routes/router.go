package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/glowmart/storefront-cart/api/controllers"
	cartcontrollers "github.com/glowmart/storefront-cart/api/controllers/cart"
	checkoutcontrollers "github.com/glowmart/storefront-cart/api/controllers/checkout"
	"github.com/glowmart/storefront-cart/api/middleware"
	cartsvc "github.com/glowmart/storefront-cart/internal/cart"
	checkoutsvc "github.com/glowmart/storefront-cart/internal/checkout"
	"github.com/glowmart/storefront-cart/pkg/config"
	"github.com/glowmart/storefront-cart/pkg/logger"
	"github.com/glowmart/storefront-cart/pkg/metrics"
	"github.com/glowmart/storefront-cart/pkg/redis"
)

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	redisClient *redis.Client,
	cartStore *cartsvc.Store,
	checkoutService *checkoutsvc.Service,
	httpMetrics *metrics.HTTPMetrics,
	rateLimiter *middleware.RateLimiter,
	metricsHandler http.Handler,
) http.Handler {
	r := chi.NewRouter()

	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.Metrics(httpMetrics),
		middleware.CORS(),
		middleware.Gzip(),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, readyPinger(redisClient)))
	})

	if metricsHandler != nil {
		r.Method(http.MethodGet, "/metrics", metricsHandler)
	}

	r.Route("/api/v1", func(r chi.Router) {
		if rateLimiter != nil {
			r.Use(rateLimiter.Middleware())
		}
		r.Use(middleware.Session(cfg.Session, cfg.JWT, logg))

		r.Route("/cart", func(r chi.Router) {
			r.Get("/", cartcontrollers.Fetch(cartStore, logg))
			r.Delete("/", cartcontrollers.Clear(cartStore, logg))
			r.Get("/summary", cartcontrollers.Summary(cartStore, logg))
			r.Get("/events", cartcontrollers.Events(cartStore, logg))
			r.Post("/items", cartcontrollers.AddItem(cartStore, logg))
			r.Put("/items/{productId}", cartcontrollers.SetQuantity(cartStore, logg))
			r.Delete("/items/{productId}", cartcontrollers.RemoveItem(cartStore, logg))
		})

		r.Route("/checkout", func(r chi.Router) {
			idempotent := middleware.Idempotency(idempotencyStore(redisClient), logg)
			r.With(idempotent).Post("/", checkoutcontrollers.SubmitOrder(checkoutService, logg))
			r.With(idempotent).Post("/buy-now", checkoutcontrollers.BuyNow(checkoutService, logg))
			r.Post("/redeem", checkoutcontrollers.Redeem(checkoutService, logg))
		})
	})

	return r
}

// readyPinger keeps the typed-nil *redis.Client from masquerading as a live
// Pinger when the service runs on the in-memory store.
func readyPinger(client *redis.Client) redis.Pinger {
	if client == nil {
		return nil
	}
	return client
}

func idempotencyStore(client *redis.Client) redis.IdempotencyStore {
	if client == nil {
		return nil
	}
	return client
}
