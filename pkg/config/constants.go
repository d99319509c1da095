package config

const (
	EnvPrefix = "GIFTCONNECT"

	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	StorageBackendMemory = "memory"
	StorageBackendSQL    = "sql"

	DBDriverPostgres = "postgres"
	DBDriverSQLite   = "sqlite"
)

const (
	EnvAppEnv         = "GIFTCONNECT_APP_ENV"
	EnvPort           = "GIFTCONNECT_APP_PORT"
	EnvStorageBackend = "GIFTCONNECT_STORAGE_BACKEND"

	EnvDBDSN    = "GIFTCONNECT_DB_DSN"
	EnvDBDriver = "GIFTCONNECT_DB_DRIVER"
	EnvDBHost   = "GIFTCONNECT_DB_HOST"
	EnvDBUser   = "GIFTCONNECT_DB_USER"
	EnvDBName   = "GIFTCONNECT_DB_NAME"

	EnvRedisURL               = "GIFTCONNECT_REDIS_URL"
	EnvRedisDisabled          = "GIFTCONNECT_REDIS_DISABLED"
	EnvJWTSecret              = "GIFTCONNECT_JWT_SECRET"
	EnvJWTIssuer              = "GIFTCONNECT_JWT_ISSUER"
	EnvJWTExpMins             = "GIFTCONNECT_JWT_EXPIRATION_MINUTES"
	EnvRefreshTokenTTLMinutes = "GIFTCONNECT_REFRESH_TOKEN_TTL_MINUTES"

	EnvSeedAdminPassword = "GIFTCONNECT_SEED_ADMIN_PASSWORD"
)

var discreteDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
