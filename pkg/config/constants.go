package config

// EnvPrefix is applied by envconfig on top of the per-field names. The
// per-field tags already carry the full variable name, so the prefix stays
// empty and exists only to satisfy envconfig's API.
const EnvPrefix = ""

const (
	AppEnvDev  = "development"
	AppEnvProd = "production"
)

// Canonical environment variable names, shared with the config tests.
const (
	EnvAppEnv   = "KOZY_APP_ENV"
	EnvPort     = "KOZY_APP_PORT"
	EnvDBDSN    = "KOZY_DB_DSN"
	EnvDBHost   = "KOZY_DB_HOST"
	EnvDBUser   = "KOZY_DB_USER"
	EnvDBName   = "KOZY_DB_NAME"
	EnvRedisURL = "KOZY_REDIS_URL"

	EnvBaseURL    = "KOZY_BASE_URL"
	EnvProjectTTL = "KOZY_PROJECT_TTL"
	EnvUploadDir  = "KOZY_UPLOAD_DIR"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
