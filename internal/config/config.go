package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/BurntSushi/toml"
)

const (
	defaultStorageEngine      = "redis"
	defaultMutationsPerMinute = 120
)

type Config struct {
	Environment string `toml:"environment"`
	Host        string `toml:"host"`
	Port        int    `toml:"port"`
	// prometheus metrics listener
	PrometheusMetricsHost string `toml:"prom_metrics_host"`
	PrometheusMetricsPort string `toml:"prom_metrics_port"`
	// logging
	LogLevel      string `toml:"log_level"`
	LogsPath      string `toml:"logs_path"`
	LogToStdout   bool   `toml:"log_to_stdout"`
	LogFormatJSON bool   `toml:"log_format_json"`
	SentryEnabled bool   `toml:"sentry_enabled"`
	// storage: redis, postgres or sqlite
	StorageEngine  string `toml:"storage_engine"`
	RedisHost      string `toml:"redis_host"`
	RedisPort      string `toml:"redis_port"`
	PostgresHost   string `toml:"postgres_host"`
	PostgresPort   string `toml:"postgres_port"`
	PostgresDBName string `toml:"postgres_db_name"`
	SqlitePath     string `toml:"sqlite_path"`
	// http api
	AllowedOrigins     []string `toml:"allowed_origins"`
	MutationsPerMinute int      `toml:"mutations_per_minute"`
}

type Toml struct {
	Development *Config
	Production  *Config
}

func (t *Toml) Get(env string) (*Config, error) {
	switch strings.ToLower(env) {
	case "dev", "development":
		return t.Development, nil
	case "prod", "production":
		return t.Production, nil
	default:
		return nil, fmt.Errorf("unknown env: %s", env)
	}
}

// Load reads the TOML file and returns the section for env, with defaults applied.
func Load(env, path string) (*Config, error) {
	var t Toml
	if _, err := toml.DecodeFile(path, &t); err != nil {
		return nil, fmt.Errorf("decode config [%s]: %w", path, err)
	}

	cfg, err := t.Get(env)
	if err != nil {
		return nil, err
	}
	if cfg == nil {
		return nil, fmt.Errorf("config section for env [%s] missing", env)
	}

	cfg.applyDefaults()
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("invalid config for env [%s]: %w", env, err)
	}

	return cfg, nil
}

func (c *Config) applyDefaults() {
	if c.StorageEngine == "" {
		c.StorageEngine = defaultStorageEngine
	}
	c.StorageEngine = strings.ToLower(strings.TrimSpace(c.StorageEngine))
	if c.MutationsPerMinute <= 0 {
		c.MutationsPerMinute = defaultMutationsPerMinute
	}
	if c.Environment == "" {
		c.Environment = "development"
	}
}

func (c *Config) validate() error {
	if c.Port <= 0 {
		return errors.New("port not set")
	}
	switch c.StorageEngine {
	case "redis":
	case "postgres":
		if c.PostgresHost == "" || c.PostgresDBName == "" {
			return errors.New("postgres storage needs postgres_host and postgres_db_name")
		}
	case "sqlite":
		if c.SqlitePath == "" {
			return errors.New("sqlite storage needs sqlite_path")
		}
	default:
		return fmt.Errorf("unknown storage engine: %s", c.StorageEngine)
	}
	return nil
}
