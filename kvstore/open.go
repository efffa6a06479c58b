package kvstore

import (
	"context"
	"strings"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// Backend names accepted by Open.
const (
	BackendMemory = "memory"
	BackendRedis  = "redis"
	BackendSQLite = "sqlite"
)

// Options selects and configures a backend for Open.
type Options struct {
	Backend    string
	RedisAddr  string
	SQLitePath string
}

// Open builds the configured backend and initializes it.
func Open(ctx context.Context, opts Options, log logrus.FieldLogger) (Store, error) {
	log = loggerOrDefault(log)

	var (
		store Store
		err   error
	)
	switch strings.ToLower(strings.TrimSpace(opts.Backend)) {
	case BackendMemory, "":
		store = NewMemoryStore(log)
	case BackendRedis:
		store, err = NewRedisStore(opts.RedisAddr, WithRedisLogger(log))
	case BackendSQLite:
		store, err = NewSQLiteStore(opts.SQLitePath, log)
	default:
		return nil, errors.Errorf("kvstore: unknown backend %q", opts.Backend)
	}
	if err != nil {
		return nil, err
	}

	if err := store.Initialize(ctx); err != nil {
		_ = store.Close()
		return nil, err
	}
	return store, nil
}
