package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App          AppConfig
	Catalog      CatalogConfig
	Storage      StorageConfig
	DB           DBConfig
	Redis        RedisConfig
	Checkout     CheckoutConfig
	FeatureFlags FeatureFlagsConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.Storage.validate(); err != nil {
		return nil, err
	}
	if cfg.Storage.IsRedis() && cfg.Redis.URL == "" && cfg.Redis.Address == "" {
		return nil, fmt.Errorf("%s or %s is required when the redis backend is selected", EnvRedisURL, EnvRedisAddr)
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"SQUAREEYES_APP_ENV" required:"true"`
	Port         string `envconfig:"SQUAREEYES_APP_PORT" default:"8080"`
	LogLevel     string `envconfig:"SQUAREEYES_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"SQUAREEYES_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type CatalogConfig struct {
	BaseURL  string        `envconfig:"SQUAREEYES_CATALOG_BASE_URL" default:"https://v2.api.noroff.dev/square-eyes"`
	Timeout  time.Duration `envconfig:"SQUAREEYES_CATALOG_TIMEOUT" default:"10s"`
	CacheTTL time.Duration `envconfig:"SQUAREEYES_CATALOG_CACHE_TTL" default:"5m"`
}

// Storage backends supported for cart/favourites/order persistence.
const (
	StorageBackendMemory = "memory"
	StorageBackendRedis  = "redis"
	StorageBackendDB     = "db"
)

type StorageConfig struct {
	Backend string `envconfig:"SQUAREEYES_STORAGE_BACKEND" default:"memory"`
}

func (s StorageConfig) IsRedis() bool {
	return strings.EqualFold(s.Backend, StorageBackendRedis)
}

func (s StorageConfig) IsDB() bool {
	return strings.EqualFold(s.Backend, StorageBackendDB)
}

func (s StorageConfig) validate() error {
	switch strings.ToLower(s.Backend) {
	case StorageBackendMemory, StorageBackendRedis, StorageBackendDB:
		return nil
	}
	return fmt.Errorf("unknown storage backend %q", s.Backend)
}

type DBConfig struct {
	Driver string `envconfig:"SQUAREEYES_DB_DRIVER" default:"sqlite"`
	DSN    string `envconfig:"SQUAREEYES_DB_DSN" default:"storefront.db"`

	MaxOpenConns    int           `envconfig:"SQUAREEYES_DB_MAX_OPEN_CONNS" default:"10"`
	MaxIdleConns    int           `envconfig:"SQUAREEYES_DB_MAX_IDLE_CONNS" default:"5"`
	ConnMaxLifetime time.Duration `envconfig:"SQUAREEYES_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"SQUAREEYES_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"SQUAREEYES_REDIS_URL"`
	Address      string        `envconfig:"SQUAREEYES_REDIS_ADDR"`
	Password     string        `envconfig:"SQUAREEYES_REDIS_PASSWORD"`
	DB           int           `envconfig:"SQUAREEYES_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"SQUAREEYES_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"SQUAREEYES_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"SQUAREEYES_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"SQUAREEYES_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"SQUAREEYES_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type CheckoutConfig struct {
	RecommendationLimit int `envconfig:"SQUAREEYES_RECOMMENDATION_LIMIT" default:"12"`
}

type FeatureFlagsConfig struct {
	// LuhnCheck gates the checksum pass on card numbers. Off by default;
	// length checks alone accept test numbers that fail the checksum.
	LuhnCheck bool `envconfig:"SQUAREEYES_FEATURE_LUHN_CHECK" default:"false"`
}
