package config

// EnvPrefix scopes every envconfig lookup.
const EnvPrefix = "MACHBRIDGE"

const (
	AppEnvDev  = "development"
	AppEnvProd = "production"
)

const (
	EnvAppEnv   = "MACHBRIDGE_APP_ENV"
	EnvPort     = "MACHBRIDGE_APP_PORT"
	EnvDBDSN    = "MACHBRIDGE_DB_DSN"
	EnvDBHost   = "MACHBRIDGE_DB_HOST"
	EnvDBUser   = "MACHBRIDGE_DB_USER"
	EnvDBName   = "MACHBRIDGE_DB_NAME"
	EnvRedisURL = "MACHBRIDGE_REDIS_URL"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
