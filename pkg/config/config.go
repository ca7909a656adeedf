package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App       AppConfig
	Redis     RedisConfig
	Cart      CartConfig
	Session   SessionConfig
	JWT       JWTConfig
	Backend   BackendConfig
	RateLimit RateLimitConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.Backend.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"GLOWMART_APP_ENV" required:"true"`
	Port         string `envconfig:"GLOWMART_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"GLOWMART_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"GLOWMART_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type RedisConfig struct {
	URL          string        `envconfig:"GLOWMART_REDIS_URL"`
	Address      string        `envconfig:"GLOWMART_REDIS_ADDR"`
	Password     string        `envconfig:"GLOWMART_REDIS_PASSWORD"`
	DB           int           `envconfig:"GLOWMART_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"GLOWMART_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"GLOWMART_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"GLOWMART_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"GLOWMART_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"GLOWMART_REDIS_WRITE_TIMEOUT" default:"5s"`
}

// Configured reports whether a Redis endpoint was supplied. When it is not,
// the service falls back to the in-memory cart store (dev only).
func (r RedisConfig) Configured() bool {
	return r.URL != "" || r.Address != ""
}

type CartConfig struct {
	// TTL applied to a persisted cart; zero keeps carts forever.
	TTL time.Duration `envconfig:"GLOWMART_CART_TTL" default:"0"`
	// BuyNowTTL bounds how long a staged buy-now product survives before
	// the checkout surface redeems it.
	BuyNowTTL time.Duration `envconfig:"GLOWMART_CART_BUYNOW_TTL" default:"30m"`
	// ChangedChannel is the shared pub/sub channel carrying cart change
	// signals between instances.
	ChangedChannel string `envconfig:"GLOWMART_CART_CHANGED_CHANNEL" default:"gm:cart.changed"`
}

type SessionConfig struct {
	// CookieName holds the anonymous cart session cookie.
	CookieName string        `envconfig:"GLOWMART_SESSION_COOKIE" default:"gm_cart_session"`
	CookieTTL  time.Duration `envconfig:"GLOWMART_SESSION_COOKIE_TTL" default:"720h"`
	Secure     bool          `envconfig:"GLOWMART_SESSION_COOKIE_SECURE" default:"true"`
}

type JWTConfig struct {
	// Secret verifies bearer tokens minted by the backend so a signed-in
	// shopper's cart follows their account. Empty disables verification and
	// every request falls back to the session cookie.
	Secret string `envconfig:"GLOWMART_JWT_SECRET"`
	Issuer string `envconfig:"GLOWMART_JWT_ISSUER"`
}

type BackendConfig struct {
	// BaseURL of the storefront REST backend that owns orders, catalog and
	// authentication.
	BaseURL string        `envconfig:"GLOWMART_BACKEND_BASE_URL" required:"true"`
	Timeout time.Duration `envconfig:"GLOWMART_BACKEND_TIMEOUT" default:"15s"`
}

type RateLimitConfig struct {
	RequestsPerSecond float64       `envconfig:"GLOWMART_RATE_LIMIT_RPS" default:"25"`
	Burst             int           `envconfig:"GLOWMART_RATE_LIMIT_BURST" default:"50"`
	ClientTTL         time.Duration `envconfig:"GLOWMART_RATE_LIMIT_CLIENT_TTL" default:"10m"`
	CleanupPeriod     time.Duration `envconfig:"GLOWMART_RATE_LIMIT_CLEANUP" default:"1m"`
}

func (b BackendConfig) validate() error {
	parsed, err := url.Parse(b.BaseURL)
	if err != nil {
		return fmt.Errorf("parsing %s: %w", EnvBackendBaseURL, err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return fmt.Errorf("%s must be an absolute http(s) url", EnvBackendBaseURL)
	}
	return nil
}
