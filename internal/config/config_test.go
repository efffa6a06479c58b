package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/norun9/gomarketplace-cartstore/kvstore"
)

// isolate points Load at a config file in a temp dir and runs from an
// empty working directory so no stray .env is picked up.
func isolate(t *testing.T, toml string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(toml), 0o600))
	t.Setenv("CARTSTORE_CONFIG", path)
	t.Setenv("REDIS_ADDR", "")
	t.Setenv("OTEL_EXPORTER_OTLP_ENDPOINT", "")
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })
	return dir
}

func TestLoadDefaults(t *testing.T) {
	isolate(t, "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "@GoMarketPlace", cfg.Namespace)
	assert.Equal(t, kvstore.BackendSQLite, cfg.Backend)
	assert.True(t, cfg.Persistence.Ordered)
	assert.False(t, cfg.Persistence.Async)
	assert.False(t, cfg.StrictIDs)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, "none", cfg.Trace.Exporter)
	assert.Equal(t, "cart.db", filepath.Base(cfg.SQLite.Path))
}

func TestLoadFromFile(t *testing.T) {
	isolate(t, `
namespace = "@Shop"
backend = "redis"
strict_ids = true

[redis]
addr = "cache:6379"

[persistence]
async = true
ordered = false

[trace]
exporter = "stdout"
`)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "@Shop", cfg.Namespace)
	assert.Equal(t, kvstore.BackendRedis, cfg.Backend)
	assert.Equal(t, "cache:6379", cfg.Redis.Addr)
	assert.True(t, cfg.StrictIDs)
	assert.True(t, cfg.Persistence.Async)
	assert.False(t, cfg.Persistence.Ordered)
	assert.Equal(t, "stdout", cfg.Trace.Exporter)

	assert.Equal(t, kvstore.Options{Backend: "redis", RedisAddr: "cache:6379", SQLitePath: cfg.SQLite.Path}, cfg.KVOptions())
}

func TestLoadEnvOverrides(t *testing.T) {
	isolate(t, `backend = "redis"`)
	t.Setenv("CARTSTORE_BACKEND", "memory")
	t.Setenv("CARTSTORE_PERSISTENCE_ASYNC", "true")
	t.Setenv("CARTSTORE_LOG_LEVEL", "debug")
	t.Setenv("CARTSTORE_STRICT_IDS", "true")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, kvstore.BackendMemory, cfg.Backend)
	assert.True(t, cfg.Persistence.Async)
	assert.True(t, cfg.StrictIDs)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestLoadHonoursLegacyEnvNames(t *testing.T) {
	isolate(t, `backend = "redis"`)
	t.Setenv("REDIS_ADDR", "redis-cart:6379")
	t.Setenv("OTEL_EXPORTER_OTLP_ENDPOINT", "collector:4317")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "redis-cart:6379", cfg.Redis.Addr)
	assert.Equal(t, "collector:4317", cfg.Trace.Endpoint)
}

func TestLoadReadsDotEnv(t *testing.T) {
	dir := isolate(t, "")
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("CARTSTORE_NAMESPACE=@FromDotenv\n"), 0o600))
	t.Cleanup(func() { _ = os.Unsetenv("CARTSTORE_NAMESPACE") })

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "@FromDotenv", cfg.Namespace)
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	cases := map[string]string{
		"unknown backend":     `backend = "etcd"`,
		"redis without addr":  `backend = "redis"`,
		"unknown exporter":    "[trace]\nexporter = \"zipkin\"",
		"blank namespace":     `namespace = " "`,
		"malformed toml file": `backend = `,
	}
	for name, toml := range cases {
		t.Run(name, func(t *testing.T) {
			isolate(t, toml)
			_, err := Load()
			assert.Error(t, err)
		})
	}
}

func TestLoadMissingExplicitFile(t *testing.T) {
	isolate(t, "")
	t.Setenv("CARTSTORE_CONFIG", filepath.Join(t.TempDir(), "missing.toml"))

	_, err := Load()
	assert.Error(t, err)
}
