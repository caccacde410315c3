package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/matst80/slask-storefront/pkg/common"
	"github.com/spf13/viper"
)

type Config struct {
	Listen   string               `mapstructure:"listen"`
	Country  string               `mapstructure:"country"`
	Log      LogConfig            `mapstructure:"log"`
	Catalog  CatalogConfig        `mapstructure:"catalog"`
	Redis    RedisConfig          `mapstructure:"redis"`
	Rabbit   RabbitConfig         `mapstructure:"rabbit"`
	CORS     CORSConfig           `mapstructure:"cors"`
	Sessions SessionConfig        `mapstructure:"sessions"`
	Server   common.TimeoutConfig `mapstructure:"server"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

type CatalogConfig struct {
	BaseURL           string        `mapstructure:"base_url"`
	Timeout           time.Duration `mapstructure:"timeout"`
	RequestsPerSecond float64       `mapstructure:"requests_per_second"`
	Burst             int           `mapstructure:"burst"`
}

// RedisConfig configures the response cache. An empty Addr disables it.
type RedisConfig struct {
	Addr     string        `mapstructure:"addr"`
	Password string        `mapstructure:"password"`
	DB       int           `mapstructure:"db"`
	TTL      time.Duration `mapstructure:"ttl"`
}

// RabbitConfig configures search tracking and catalog change events. An
// empty URL disables both.
type RabbitConfig struct {
	URL           string        `mapstructure:"url"`
	Prefix        string        `mapstructure:"prefix"`
	BatchSize     int           `mapstructure:"batch_size"`
	FlushInterval time.Duration `mapstructure:"flush_interval"`
}

type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

type SessionConfig struct {
	TTL           time.Duration `mapstructure:"ttl"`
	SweepInterval time.Duration `mapstructure:"sweep_interval"`
}

func setDefaults(v *viper.Viper) {
	timeouts := common.DefaultTimeoutConfig()
	v.SetDefault("listen", ":8080")
	v.SetDefault("country", "in")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("catalog.base_url", "http://localhost:3001")
	v.SetDefault("catalog.timeout", "10s")
	v.SetDefault("catalog.requests_per_second", 5.0)
	v.SetDefault("catalog.burst", 2)
	v.SetDefault("redis.addr", "")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.ttl", "5m")
	v.SetDefault("rabbit.url", "")
	v.SetDefault("rabbit.prefix", "global")
	v.SetDefault("rabbit.batch_size", 50)
	v.SetDefault("rabbit.flush_interval", "1s")
	v.SetDefault("cors.allowed_origins", []string{"http://localhost:5173", "http://localhost:8080"})
	v.SetDefault("sessions.ttl", "30m")
	v.SetDefault("sessions.sweep_interval", "1m")
	v.SetDefault("server.read_header", timeouts.ReadHeader)
	v.SetDefault("server.read", timeouts.Read)
	v.SetDefault("server.write", timeouts.Write)
	v.SetDefault("server.idle", timeouts.Idle)
	v.SetDefault("server.shutdown", timeouts.Shutdown)
	v.SetDefault("server.hook", timeouts.Hook)
}

// Load reads config.yaml from configPath when present, then applies
// STOREFRONT_ prefixed environment overrides (STOREFRONT_REDIS_ADDR and so
// on). REDIS_URL, REDIS_PASSWORD, RABBIT_HOST and COUNTRY are honoured as
// well.
func Load(configPath string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	if configPath != "" {
		v.AddConfigPath(configPath)
	}
	v.SetEnvPrefix("STOREFRONT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	_ = v.BindEnv("redis.addr", "STOREFRONT_REDIS_ADDR", "REDIS_URL")
	_ = v.BindEnv("redis.password", "STOREFRONT_REDIS_PASSWORD", "REDIS_PASSWORD")
	_ = v.BindEnv("rabbit.url", "STOREFRONT_RABBIT_URL", "RABBIT_HOST")
	_ = v.BindEnv("country", "STOREFRONT_COUNTRY", "COUNTRY")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if c.Listen == "" {
		return errors.New("config: listen address is required")
	}
	if c.Catalog.BaseURL == "" {
		return errors.New("config: catalog.base_url is required")
	}
	if c.Catalog.RequestsPerSecond <= 0 {
		return fmt.Errorf("config: catalog.requests_per_second must be positive, got %v", c.Catalog.RequestsPerSecond)
	}
	if c.Sessions.TTL <= 0 {
		return fmt.Errorf("config: sessions.ttl must be positive, got %v", c.Sessions.TTL)
	}
	if c.Sessions.SweepInterval <= 0 {
		return fmt.Errorf("config: sessions.sweep_interval must be positive, got %v", c.Sessions.SweepInterval)
	}
	return nil
}
