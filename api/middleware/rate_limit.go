package middleware

import (
	"context"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/glowmart/storefront-cart/api/responses"
	"github.com/glowmart/storefront-cart/pkg/config"
	pkgerrors "github.com/glowmart/storefront-cart/pkg/errors"
	"github.com/glowmart/storefront-cart/pkg/logger"
)

type rateClient struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiter throttles per client IP. Stale entries are evicted by a
// background loop so the map does not grow with every visitor ever seen.
type RateLimiter struct {
	mu      sync.Mutex
	clients map[string]*rateClient

	limit         rate.Limit
	burst         int
	clientTTL     time.Duration
	cleanupPeriod time.Duration

	logg   *logger.Logger
	cancel context.CancelFunc
}

func NewRateLimiter(ctx context.Context, cfg config.RateLimitConfig, logg *logger.Logger) *RateLimiter {
	rl := &RateLimiter{
		clients:       make(map[string]*rateClient),
		limit:         rate.Limit(cfg.RequestsPerSecond),
		burst:         cfg.Burst,
		clientTTL:     cfg.ClientTTL,
		cleanupPeriod: cfg.CleanupPeriod,
		logg:          logg,
	}
	ctx, rl.cancel = context.WithCancel(ctx)
	go rl.cleanupLoop(ctx)
	return rl
}

func (rl *RateLimiter) Middleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !rl.limiterFor(clientIP(r)).Allow() {
				responses.WriteError(r.Context(), rl.logg, w,
					pkgerrors.New(pkgerrors.CodeRateLimit, "too many requests"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// Shutdown stops the eviction loop.
func (rl *RateLimiter) Shutdown() {
	rl.cancel()
}

func (rl *RateLimiter) limiterFor(ip string) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	entry, ok := rl.clients[ip]
	if !ok {
		entry = &rateClient{limiter: rate.NewLimiter(rl.limit, rl.burst)}
		rl.clients[ip] = entry
	}
	entry.lastSeen = time.Now()
	return entry.limiter
}

func (rl *RateLimiter) cleanupLoop(ctx context.Context) {
	ticker := time.NewTicker(rl.cleanupPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			rl.evictStale()
		case <-ctx.Done():
			return
		}
	}
}

func (rl *RateLimiter) evictStale() {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	for ip, entry := range rl.clients {
		if time.Since(entry.lastSeen) > rl.clientTTL {
			delete(rl.clients, ip)
		}
	}
}

func clientIP(r *http.Request) string {
	if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
		if first, _, ok := strings.Cut(forwarded, ","); ok {
			return strings.TrimSpace(first)
		}
		return strings.TrimSpace(forwarded)
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
