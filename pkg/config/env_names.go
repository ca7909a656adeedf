package config

// EnvPrefix scopes every environment variable the service reads.
const EnvPrefix = "GLOWMART"

const (
	AppEnvDev  = "development"
	AppEnvProd = "production"
)

const (
	EnvAppEnv         = "GLOWMART_APP_ENV"
	EnvPort           = "GLOWMART_APP_PORT"
	EnvRedisURL       = "GLOWMART_REDIS_URL"
	EnvBackendBaseURL = "GLOWMART_BACKEND_BASE_URL"
)
