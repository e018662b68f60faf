package config

// EnvPrefix namespaces every environment variable the service reads.
const EnvPrefix = ""

const (
	AppEnvDev  = "dev"
	AppEnvProd = "production"
)

// Environment variable names referenced outside struct tags (tests, errors).
const (
	EnvAppEnv       = "LAUNCHCOPY_APP_ENV"
	EnvPort         = "LAUNCHCOPY_APP_PORT"
	EnvDBDSN        = "LAUNCHCOPY_DB_DSN"
	EnvDBHost       = "LAUNCHCOPY_DB_HOST"
	EnvDBUser       = "LAUNCHCOPY_DB_USER"
	EnvDBName       = "LAUNCHCOPY_DB_NAME"
	EnvRedisURL     = "LAUNCHCOPY_REDIS_URL"
	EnvJWTSecret    = "LAUNCHCOPY_JWT_SECRET"
	EnvJWTIssuer    = "LAUNCHCOPY_JWT_ISSUER"
	EnvJWTExpMins   = "LAUNCHCOPY_JWT_EXPIRATION_MINUTES"
	EnvRefreshTTL   = "LAUNCHCOPY_REFRESH_TOKEN_TTL_MINUTES"
	EnvGeminiAPIKey = "LAUNCHCOPY_GEMINI_API_KEY"
	EnvStripeSecret = "LAUNCHCOPY_STRIPE_WEBHOOK_SECRET"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
