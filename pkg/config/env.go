package config

// EnvPrefix is handed to envconfig; every tag carries the full variable name.
const EnvPrefix = "WHOLESALE"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

const (
	EnvAppEnv                 = "WHOLESALE_APP_ENV"
	EnvPort                   = "WHOLESALE_APP_PORT"
	EnvLogLevel               = "WHOLESALE_LOG_LEVEL"
	EnvDBDSN                  = "WHOLESALE_DB_DSN"
	EnvDBHost                 = "WHOLESALE_DB_HOST"
	EnvDBUser                 = "WHOLESALE_DB_USER"
	EnvDBName                 = "WHOLESALE_DB_NAME"
	EnvRedisURL               = "WHOLESALE_REDIS_URL"
	EnvJWTSecret              = "WHOLESALE_JWT_SECRET"
	EnvJWTIssuer              = "WHOLESALE_JWT_ISSUER"
	EnvJWTExpMins             = "WHOLESALE_JWT_EXPIRATION_MINUTES"
	EnvRefreshTokenTTLMinutes = "WHOLESALE_REFRESH_TOKEN_TTL_MINUTES"
	EnvReportsDefaultWindow   = "WHOLESALE_REPORTS_DEFAULT_WINDOW"
	EnvCORSAllowedOrigins     = "WHOLESALE_CORS_ALLOWED_ORIGINS"
	EnvCronInterval           = "WHOLESALE_CRON_INTERVAL"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
