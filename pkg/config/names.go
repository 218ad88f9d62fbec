package config

// EnvPrefix is passed to envconfig; individual fields carry fully
// qualified envconfig tags so the prefix stays empty.
const EnvPrefix = ""

const (
	AppEnvDev  = "development"
	AppEnvProd = "production"
)

// Environment variable names, kept in one place so tests and error
// messages stay in sync with the struct tags.
const (
	EnvAppEnv         = "SQUAREEYES_APP_ENV"
	EnvAppPort        = "SQUAREEYES_APP_PORT"
	EnvLogLevel       = "SQUAREEYES_LOG_LEVEL"
	EnvCatalogBaseURL = "SQUAREEYES_CATALOG_BASE_URL"
	EnvStorageBackend = "SQUAREEYES_STORAGE_BACKEND"
	EnvDBDriver       = "SQUAREEYES_DB_DRIVER"
	EnvDBDSN          = "SQUAREEYES_DB_DSN"
	EnvRedisURL       = "SQUAREEYES_REDIS_URL"
	EnvRedisAddr      = "SQUAREEYES_REDIS_ADDR"
	EnvLuhnCheck      = "SQUAREEYES_FEATURE_LUHN_CHECK"
)
