// kvstore/kvstore.go

// Package kvstore provides the durable key-value stores the cart is
// mirrored to. Every backend stores plain string values under string keys
// and overwrites a key wholesale on Set.
package kvstore

import (
	"context"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// ErrClosed is returned by a store used after Close.
var ErrClosed = errors.New("kvstore: closed")

// Store is the durable key-value collaborator of the cart store.
type Store interface {
	Initialize(ctx context.Context) error

	// Get returns ok=false when the key does not exist.
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Set(ctx context.Context, key, value string) error

	Ping(ctx context.Context) bool
	Close() error
}

func loggerOrDefault(log logrus.FieldLogger) logrus.FieldLogger {
	if log == nil {
		return logrus.StandardLogger()
	}
	return log
}
