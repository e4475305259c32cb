package config

import (
	"bytes"
	"fmt"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	API       APIConfig       `mapstructure:"api"`
	Metrics   MetricsConfig   `mapstructure:"metrics"`
	Logging   LoggingConfig   `mapstructure:"logging"`
	Lookup    LookupConfig    `mapstructure:"lookup"`
	Cache     CacheConfig     `mapstructure:"cache"`
	Analytics AnalyticsConfig `mapstructure:"analytics"`
}

type APIConfig struct {
	Address    string `mapstructure:"address"`
	CORSOrigin string `mapstructure:"cors_origin"`
}

type MetricsConfig struct {
	Address string `mapstructure:"address"`
	Path    string `mapstructure:"path"`
}

type LoggingConfig struct {
	Level string `mapstructure:"level"`
}

type LookupConfig struct {
	Provider    string        `mapstructure:"provider"`
	Endpoint    string        `mapstructure:"endpoint"`
	Token       string        `mapstructure:"token"`
	Timeout     time.Duration `mapstructure:"timeout"`
	TTL         time.Duration `mapstructure:"ttl"`
	NegativeTTL time.Duration `mapstructure:"negative_ttl"`
	MMDBPath    string        `mapstructure:"mmdb_path"`
}

type CacheConfig struct {
	LookupCapacity int           `mapstructure:"lookup_capacity"`
	RecordCapacity int           `mapstructure:"record_capacity"`
	RecordTTL      time.Duration `mapstructure:"record_ttl"`
}

type AnalyticsConfig struct {
	Limit int `mapstructure:"limit"`
}

func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	return finish(v)
}

func LoadFromBytes(data []byte) (*Config, error) {
	v := viper.New()
	v.SetConfigType("yaml")

	if err := v.ReadConfig(bytes.NewReader(data)); err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	return finish(v)
}

func finish(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	applyDefaults(&cfg)
	if err := validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.API.Address == "" {
		cfg.API.Address = ":8080"
	}
	if cfg.API.CORSOrigin == "" {
		cfg.API.CORSOrigin = "*"
	}
	if cfg.Metrics.Address == "" {
		cfg.Metrics.Address = ":9090"
	}
	if cfg.Metrics.Path == "" {
		cfg.Metrics.Path = "/metrics"
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Lookup.Provider == "" {
		cfg.Lookup.Provider = "http"
	}
	if cfg.Lookup.Endpoint == "" {
		cfg.Lookup.Endpoint = "https://ipinfo.io"
	}
	if cfg.Lookup.Timeout == 0 {
		cfg.Lookup.Timeout = 3 * time.Second
	}
	if cfg.Lookup.TTL == 0 {
		cfg.Lookup.TTL = 5 * time.Minute
	}
	if cfg.Lookup.NegativeTTL == 0 {
		cfg.Lookup.NegativeTTL = 30 * time.Second
	}
	if cfg.Cache.LookupCapacity == 0 {
		cfg.Cache.LookupCapacity = 1000
	}
	if cfg.Cache.RecordCapacity == 0 {
		cfg.Cache.RecordCapacity = 500
	}
	if cfg.Cache.RecordTTL == 0 {
		cfg.Cache.RecordTTL = 60 * time.Second
	}
	if cfg.Analytics.Limit == 0 {
		cfg.Analytics.Limit = 1000
	}
}

func validate(cfg *Config) error {
	switch cfg.Lookup.Provider {
	case "http", "mmdb", "none":
	default:
		return fmt.Errorf("lookup.provider must be http, mmdb or none, got %q", cfg.Lookup.Provider)
	}
	if cfg.Lookup.Provider == "mmdb" && cfg.Lookup.MMDBPath == "" {
		return fmt.Errorf("lookup.mmdb_path is required for the mmdb provider")
	}
	if cfg.Cache.LookupCapacity < 0 || cfg.Cache.RecordCapacity < 0 {
		return fmt.Errorf("cache capacities must not be negative")
	}
	return nil
}
