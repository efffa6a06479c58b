package main

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"

	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/norun9/gomarketplace-cartstore/internal/config"
	"github.com/norun9/gomarketplace-cartstore/kvstore"
)

func testConfig(t *testing.T) config.Config {
	t.Helper()
	return config.Config{
		Namespace:   "@GoMarketPlace",
		Backend:     kvstore.BackendSQLite,
		SQLite:      config.SQLiteConfig{Path: filepath.Join(t.TempDir(), "cart.db")},
		Persistence: config.PersistenceConfig{Ordered: true},
		Trace:       config.TraceConfig{Exporter: "none"},
	}
}

func runCmd(t *testing.T, cfg config.Config, args ...string) (string, error) {
	t.Helper()
	log, _ := logtest.NewNullLogger()
	var out bytes.Buffer
	err := run(context.Background(), args, cfg, log, &out)
	return out.String(), err
}

func TestCommandsShareTheDurableCart(t *testing.T) {
	cfg := testConfig(t)

	out, err := runCmd(t, cfg, "add", "--id", "p1", "--title", "Coffee", "--image", "u", "--price", "10")
	require.NoError(t, err)
	assert.Contains(t, out, "Coffee")
	assert.Contains(t, out, "x1")

	out, err = runCmd(t, cfg, "inc", "p1")
	require.NoError(t, err)
	assert.Contains(t, out, "x2")

	out, err = runCmd(t, cfg, "list")
	require.NoError(t, err)
	assert.Contains(t, out, "1 items, 2 units")

	_, err = runCmd(t, cfg, "dec", "p1")
	require.NoError(t, err)
	out, err = runCmd(t, cfg, "dec", "p1")
	require.NoError(t, err)
	assert.Contains(t, out, "Your cart is empty")
}

func TestHealth(t *testing.T) {
	out, err := runCmd(t, testConfig(t), "health")
	require.NoError(t, err)
	assert.Contains(t, out, "Cart (0 items")
}

func TestAsyncPersistenceIsFlushedBeforeExit(t *testing.T) {
	cfg := testConfig(t)
	cfg.Persistence.Async = true

	_, err := runCmd(t, cfg, "add", "--id", "p1")
	require.NoError(t, err)

	out, err := runCmd(t, cfg, "list")
	require.NoError(t, err)
	assert.Contains(t, out, "x1")
}

func TestStrictIDsSurfaceUnknownItems(t *testing.T) {
	cfg := testConfig(t)
	cfg.StrictIDs = true

	_, err := runCmd(t, cfg, "inc", "ghost")
	assert.ErrorContains(t, err, "unknown item")
}

func TestCommandErrors(t *testing.T) {
	cfg := testConfig(t)

	cases := map[string][]string{
		"no command":      nil,
		"unknown command": {"checkout"},
		"inc without id":  {"inc"},
		"bad price":       {"add", "--id", "p1", "--price", "ten"},
		"missing id":      {"add", "--title", "x"},
	}
	for name, args := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := runCmd(t, cfg, args...)
			assert.Error(t, err)
		})
	}
}
