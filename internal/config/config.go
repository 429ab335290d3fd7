package config

import (
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	Env      string         `yaml:"env" mapstructure:"env"` // "dev" | "prod"
	Server   ServerConfig   `yaml:"server" mapstructure:"server"`
	Store    StoreConfig    `yaml:"store" mapstructure:"store"`
	Registry RegistryConfig `yaml:"registry" mapstructure:"registry"`
	Audit    AuditConfig    `yaml:"audit" mapstructure:"audit"`
	Archive  ArchiveConfig  `yaml:"archive" mapstructure:"archive"`
	Log      LogConfig      `yaml:"log" mapstructure:"log"`
}

type ServerConfig struct {
	HTTPAddr       string  `yaml:"http_addr" mapstructure:"http_addr"`
	GRPCAddr       string  `yaml:"grpc_addr" mapstructure:"grpc_addr"`
	RateLimitRPS   float64 `yaml:"rate_limit_rps" mapstructure:"rate_limit_rps"` // 0 disables
	RateLimitBurst int     `yaml:"rate_limit_burst" mapstructure:"rate_limit_burst"`
}

// StoreConfig selects the record backend: memory, sqlite or postgres.
type StoreConfig struct {
	Driver      string `yaml:"driver" mapstructure:"driver"`
	SQLitePath  string `yaml:"sqlite_path" mapstructure:"sqlite_path"`
	DatabaseURL string `yaml:"database_url" mapstructure:"database_url"`
}

type RegistryConfig struct {
	RequireRegistrar bool `yaml:"require_registrar" mapstructure:"require_registrar"`
}

// AuditConfig controls retention of the status event log.
type AuditConfig struct {
	RetentionDays      int `yaml:"retention_days" mapstructure:"retention_days"` // 0 keeps forever
	PruneIntervalHours int `yaml:"prune_interval_hours" mapstructure:"prune_interval_hours"`
}

type ArchiveConfig struct {
	Driver      string `yaml:"driver" mapstructure:"driver"` // memory | s3
	S3Bucket    string `yaml:"s3_bucket" mapstructure:"s3_bucket"`
	S3Region    string `yaml:"s3_region" mapstructure:"s3_region"`
	S3Endpoint  string `yaml:"s3_endpoint" mapstructure:"s3_endpoint"`
	S3PathStyle bool   `yaml:"s3_path_style" mapstructure:"s3_path_style"`
	S3Prefix    string `yaml:"s3_prefix" mapstructure:"s3_prefix"`
}

type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads configuration from an optional config.yaml in the working
// directory and CORNERSTONE_* environment variables.
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	v.SetEnvPrefix("CORNERSTONE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("env", "dev")
	v.SetDefault("server.http_addr", ":8080")
	v.SetDefault("server.grpc_addr", ":9090")
	v.SetDefault("server.rate_limit_rps", 50)
	v.SetDefault("server.rate_limit_burst", 100)
	v.SetDefault("store.driver", "sqlite")
	v.SetDefault("store.sqlite_path", "./data/cornerstone.db")
	v.SetDefault("store.database_url", "")
	v.SetDefault("registry.require_registrar", true)
	v.SetDefault("audit.retention_days", 365)
	v.SetDefault("audit.prune_interval_hours", 6)
	v.SetDefault("archive.driver", "memory")
	v.SetDefault("archive.s3_bucket", "")
	v.SetDefault("archive.s3_region", "us-east-1")
	v.SetDefault("archive.s3_endpoint", "")
	v.SetDefault("archive.s3_path_style", false)
	v.SetDefault("archive.s3_prefix", "")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	cfg.Env = strings.ToLower(strings.TrimSpace(cfg.Env))
	if cfg.Env != "dev" && cfg.Env != "prod" {
		// fail-soft: treat unknown as dev
		cfg.Env = "dev"
	}
	cfg.Store.Driver = strings.ToLower(strings.TrimSpace(cfg.Store.Driver))
	cfg.Archive.Driver = strings.ToLower(strings.TrimSpace(cfg.Archive.Driver))

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejects settings no command can run with.
func (c *Config) Validate() error {
	switch c.Store.Driver {
	case "memory", "sqlite":
	case "postgres":
		if c.Store.DatabaseURL == "" {
			return eris.New("config: store.database_url is required for the postgres driver")
		}
	default:
		return eris.Errorf("config: unknown store.driver %q", c.Store.Driver)
	}

	switch c.Archive.Driver {
	case "memory":
	case "s3":
		if c.Archive.S3Bucket == "" {
			return eris.New("config: archive.s3_bucket is required for the s3 driver")
		}
	default:
		return eris.Errorf("config: unknown archive.driver %q", c.Archive.Driver)
	}

	if c.Audit.RetentionDays < 0 || c.Audit.PruneIntervalHours < 0 {
		return eris.New("config: audit settings must not be negative")
	}
	return nil
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
