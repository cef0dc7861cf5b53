package config

const (
	// EnvPrefix is applied by envconfig when resolving variables.
	EnvPrefix = "VELVET"

	AppEnvDev  = "dev"
	AppEnvProd = "production"

	EnvAppEnv     = "VELVET_APP_ENV"
	EnvPort       = "VELVET_APP_PORT"
	EnvDBDSN      = "VELVET_DB_DSN"
	EnvDBHost     = "VELVET_DB_HOST"
	EnvDBUser     = "VELVET_DB_USER"
	EnvDBName     = "VELVET_DB_NAME"
	EnvRedisURL   = "VELVET_REDIS_URL"
	EnvJWTSecret  = "VELVET_JWT_SECRET"
	EnvJWTIssuer  = "VELVET_JWT_ISSUER"
	EnvJWTExpMins = "VELVET_JWT_EXPIRATION_MINUTES"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
