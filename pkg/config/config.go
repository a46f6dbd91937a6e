package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App              AppConfig
	DB               DBConfig
	Redis            RedisConfig
	Review           ReviewConfig
	Media            MediaConfig
	ResolveRateLimit ResolveRateLimitConfig
	Reaper           ReaperConfig
	FeatureFlags     FeatureFlagsConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.ensureDSN(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"KOZY_APP_ENV" required:"true"`
	Port         string `envconfig:"KOZY_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"KOZY_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"KOZY_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"KOZY_DB_DSN"`
	Driver string `envconfig:"KOZY_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"KOZY_DB_HOST"`
	LegacyPort     int    `envconfig:"KOZY_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"KOZY_DB_USER"`
	LegacyPassword string `envconfig:"KOZY_DB_PASSWORD"`
	LegacyName     string `envconfig:"KOZY_DB_NAME"`
	LegacySSLMode  string `envconfig:"KOZY_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"KOZY_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"KOZY_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"KOZY_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"KOZY_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"KOZY_REDIS_URL" required:"true"`
	Address      string        `envconfig:"KOZY_REDIS_ADDR"`
	Password     string        `envconfig:"KOZY_REDIS_PASSWORD"`
	DB           int           `envconfig:"KOZY_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"KOZY_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"KOZY_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"KOZY_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"KOZY_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"KOZY_REDIS_WRITE_TIMEOUT" default:"5s"`
}

// ReviewConfig drives the share/review lifecycle. ProjectTTL is consumed at
// creation time only; changing it never shifts already-minted deadlines.
type ReviewConfig struct {
	BaseURL          string        `envconfig:"KOZY_BASE_URL" default:"http://localhost:8080"`
	ProjectTTL       time.Duration `envconfig:"KOZY_PROJECT_TTL" default:"72h"`
	TokenRetryBudget int           `envconfig:"KOZY_TOKEN_RETRY_BUDGET" default:"5"`
}

type MediaConfig struct {
	UploadDir   string `envconfig:"KOZY_UPLOAD_DIR" default:"uploads"`
	MaxUploadMB int    `envconfig:"KOZY_MAX_UPLOAD_MB" default:"500"`
}

// ResolveRateLimitConfig throttles capability-link resolution to slow token
// guessing. Zero limits disable the middleware.
type ResolveRateLimitConfig struct {
	Window     time.Duration `envconfig:"KOZY_RESOLVE_RATE_LIMIT_WINDOW" default:"1m"`
	IPLimit    int           `envconfig:"KOZY_RESOLVE_RATE_LIMIT_IP_LIMIT" default:"60"`
	TokenLimit int           `envconfig:"KOZY_RESOLVE_RATE_LIMIT_TOKEN_LIMIT" default:"30"`
}

type ReaperConfig struct {
	Interval time.Duration `envconfig:"KOZY_REAPER_INTERVAL" default:"1h"`
	LockTTL  time.Duration `envconfig:"KOZY_REAPER_LOCK_TTL" default:"2h"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"KOZY_AUTO_MIGRATE" default:"false"`
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
		return nil
	}

	missing := []string{}
	legacyValues := map[string]string{
		EnvDBHost: db.LegacyHost,
		EnvDBUser: db.LegacyUser,
		EnvDBName: db.LegacyName,
	}
	for _, env := range legacyDBEnvVars {
		if legacyValues[env] == "" {
			missing = append(missing, env)
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("either %s or %s are required", EnvDBDSN, strings.Join(missing, ", "))
	}

	userInfo := url.User(db.LegacyUser)
	if db.LegacyPassword != "" {
		userInfo = url.UserPassword(db.LegacyUser, db.LegacyPassword)
	}

	u := &url.URL{
		Scheme: "postgres",
		User:   userInfo,
		Host:   fmt.Sprintf("%s:%d", db.LegacyHost, db.LegacyPort),
		Path:   db.LegacyName,
	}

	if db.LegacySSLMode != "" {
		q := u.Query()
		q.Set("sslmode", db.LegacySSLMode)
		u.RawQuery = q.Encode()
	}

	db.DSN = u.String()
	return nil
}
