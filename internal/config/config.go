package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/norun9/gomarketplace-cartstore/kvstore"
)

// Config holds application configuration.
type Config struct {
	Namespace   string            `mapstructure:"namespace"`
	Backend     string            `mapstructure:"backend"`
	Redis       RedisConfig       `mapstructure:"redis"`
	SQLite      SQLiteConfig      `mapstructure:"sqlite"`
	Persistence PersistenceConfig `mapstructure:"persistence"`
	StrictIDs   bool              `mapstructure:"strict_ids"`
	Log         LogConfig         `mapstructure:"log"`
	Trace       TraceConfig       `mapstructure:"trace"`
}

// RedisConfig holds redis settings.
type RedisConfig struct {
	Addr string `mapstructure:"addr"`
}

// SQLiteConfig holds sqlite settings.
type SQLiteConfig struct {
	Path string `mapstructure:"path"`
}

// PersistenceConfig controls how cart writes reach the durable store.
type PersistenceConfig struct {
	Async   bool `mapstructure:"async"`
	Ordered bool `mapstructure:"ordered"`
}

// LogConfig holds logger settings.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"` // "json" or "text"
}

// TraceConfig selects the span exporter.
type TraceConfig struct {
	Exporter string `mapstructure:"exporter"` // "none", "stdout" or "otlp"
	Endpoint string `mapstructure:"endpoint"`
}

// Load reads configuration from .env, the config file and the environment.
// Env var overrides use prefix CARTSTORE_; REDIS_ADDR and
// OTEL_EXPORTER_OTLP_ENDPOINT are honoured as fallbacks.
func Load() (Config, error) {
	// .env is optional and never overrides variables already set
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}

	v := viper.New()

	// default values
	v.SetDefault("namespace", "@GoMarketPlace")
	v.SetDefault("backend", kvstore.BackendSQLite)
	v.SetDefault("redis.addr", "")
	v.SetDefault("sqlite.path", filepath.Join(os.Getenv("HOME"), ".local", "share", "cartstore", "cart.db"))
	v.SetDefault("persistence.async", false)
	v.SetDefault("persistence.ordered", true)
	v.SetDefault("strict_ids", false)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("trace.exporter", "none")
	v.SetDefault("trace.endpoint", "localhost:4317")

	v.SetConfigType("toml")

	cfgPath := os.Getenv("CARTSTORE_CONFIG")
	if cfgPath != "" {
		v.SetConfigFile(cfgPath)
	} else {
		if dir, err := os.UserConfigDir(); err == nil {
			v.AddConfigPath(filepath.Join(dir, "cartstore"))
		}
		v.SetConfigName("config")
	}

	v.SetEnvPrefix("CARTSTORE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	_ = v.BindEnv("redis.addr", "CARTSTORE_REDIS_ADDR", "REDIS_ADDR")
	_ = v.BindEnv("trace.endpoint", "CARTSTORE_TRACE_ENDPOINT", "OTEL_EXPORTER_OTLP_ENDPOINT")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgPath != "" || !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

// Validate checks values Load cannot default.
func (c Config) Validate() error {
	switch c.Backend {
	case kvstore.BackendMemory, kvstore.BackendSQLite:
	case kvstore.BackendRedis:
		if strings.TrimSpace(c.Redis.Addr) == "" {
			return fmt.Errorf("redis.addr is required for the redis backend")
		}
	default:
		return fmt.Errorf("backend must be one of memory, redis, sqlite: got %q", c.Backend)
	}

	switch c.Trace.Exporter {
	case "none", "stdout", "otlp":
	default:
		return fmt.Errorf("trace.exporter must be one of none, stdout, otlp: got %q", c.Trace.Exporter)
	}

	if strings.TrimSpace(c.Namespace) == "" {
		return fmt.Errorf("namespace is required")
	}
	return nil
}

// KVOptions returns the backend selection for kvstore.Open.
func (c Config) KVOptions() kvstore.Options {
	return kvstore.Options{
		Backend:    c.Backend,
		RedisAddr:  c.Redis.Addr,
		SQLitePath: c.SQLite.Path,
	}
}
