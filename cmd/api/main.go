package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/glowmart/storefront-cart/api/middleware"
	"github.com/glowmart/storefront-cart/api/routes"
	"github.com/glowmart/storefront-cart/internal/cart"
	"github.com/glowmart/storefront-cart/internal/checkout"
	"github.com/glowmart/storefront-cart/internal/orders"
	"github.com/glowmart/storefront-cart/pkg/config"
	"github.com/glowmart/storefront-cart/pkg/kv"
	"github.com/glowmart/storefront-cart/pkg/logger"
	"github.com/glowmart/storefront-cart/pkg/metrics"
	"github.com/glowmart/storefront-cart/pkg/redis"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "cart-api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "cart-api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	cartMetrics := metrics.NewCartMetrics(registry)
	httpMetrics := metrics.NewHTTPMetrics(registry)

	var (
		store       kv.Store
		bus         *cart.Broadcaster
		redisClient *redis.Client
		cartKeyFn   func(string) string
		buyNowKeyFn func(string) string
	)

	if cfg.Redis.Configured() {
		redisClient, err = redis.New(ctx, cfg.Redis)
		if err != nil {
			logg.Error(ctx, "failed to bootstrap redis", err)
			os.Exit(1)
		}
		defer func() {
			if err := redisClient.Close(); err != nil {
				logg.Error(context.Background(), "error closing redis", err)
			}
		}()

		transport, err := cart.NewRedisTransport(redisClient, cfg.Cart.ChangedChannel)
		if err != nil {
			logg.Error(ctx, "failed to build cart transport", err)
			os.Exit(1)
		}

		store = kv.NewRedis(redisClient)
		bus = cart.NewBroadcaster(transport, logg, cartMetrics)
		cartKeyFn = redisClient.CartKey
		buyNowKeyFn = redisClient.BuyNowKey

		go func() {
			if err := bus.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				logg.Error(context.Background(), "cart change listener stopped", err)
			}
		}()
	} else {
		if cfg.App.IsProd() {
			logg.Error(ctx, "redis is required in production", errors.New("redis not configured"))
			os.Exit(1)
		}
		logg.Warn(ctx, "redis not configured, using in-memory cart store")
		store = kv.NewMemory()
		bus = cart.NewBroadcaster(nil, logg, cartMetrics)
	}

	cartStore, err := cart.NewStore(cart.Params{
		KV:      store,
		Logger:  logg,
		Bus:     bus,
		Metrics: cartMetrics,
		KeyFn:   cartKeyFn,
		TTL:     cfg.Cart.TTL,
	})
	if err != nil {
		logg.Error(ctx, "failed to create cart store", err)
		os.Exit(1)
	}

	ordersClient, err := orders.NewClient(cfg.Backend, logg)
	if err != nil {
		logg.Error(ctx, "failed to create orders client", err)
		os.Exit(1)
	}

	checkoutService, err := checkout.NewService(checkout.Params{
		KV:     store,
		Cart:   cartStore,
		Orders: ordersClient,
		Logger: logg,
		KeyFn:  buyNowKeyFn,
		TTL:    cfg.Cart.BuyNowTTL,
	})
	if err != nil {
		logg.Error(ctx, "failed to create checkout service", err)
		os.Exit(1)
	}

	rateLimiter := middleware.NewRateLimiter(ctx, cfg.RateLimit, logg)
	defer rateLimiter.Shutdown()

	metricsHandler := promhttp.HandlerFor(registry, promhttp.HandlerOpts{})

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	startCtx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(startCtx, "starting cart api server")

	server := &http.Server{
		Addr:    addr,
		Handler: routes.NewRouter(cfg, logg, redisClient, cartStore, checkoutService, httpMetrics, rateLimiter, metricsHandler),
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logg.Error(context.Background(), "error during shutdown", err)
		}
		logg.Info(context.Background(), "cart api server stopped")
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logg.Error(startCtx, "cart api server stopped unexpectedly", err)
			os.Exit(1)
		}
	}
}
