package cartstore

import (
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/trace"
)

// DefaultNamespace is the key namespace used when none is configured.
const DefaultNamespace = "@GoMarketPlace"

// Key returns the fixed durable key for a namespace.
func Key(namespace string) string {
	return namespace + ":cart"
}

// Option configures a CartStore at Create time.
type Option func(*CartStore)

// WithNamespace stores the cart under "<namespace>:cart".
func WithNamespace(namespace string) Option {
	return func(s *CartStore) {
		if namespace != "" {
			s.key = Key(namespace)
		}
	}
}

// WithKey stores the cart under key as is.
func WithKey(key string) Option {
	return func(s *CartStore) {
		if key != "" {
			s.key = key
		}
	}
}

func WithLogger(log logrus.FieldLogger) Option {
	return func(s *CartStore) {
		if log != nil {
			s.log = log
		}
	}
}

func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(s *CartStore) {
		if tp != nil {
			s.tracer = tp.Tracer(tracerName)
		}
	}
}

// WithAsyncPersistence makes writes fire-and-forget. Mutating operations
// return as soon as the new cart is published; write failures are logged
// and passed to onError (which may be nil). Dispose waits for writes still
// in flight.
func WithAsyncPersistence(onError func(error)) Option {
	return func(s *CartStore) {
		s.async = true
		s.onError = onError
	}
}

// WithOrderedPersistence serializes writes and skips any write whose cart
// is older than one already written, so the durable value always ends at
// the latest published cart even when writes overlap.
func WithOrderedPersistence() Option {
	return func(s *CartStore) {
		s.ordered = true
	}
}

// WithStrictIDs makes Increment and Decrement fail with ErrUnknownItem for
// ids that are not in the cart. Without it those calls are no-ops.
func WithStrictIDs() Option {
	return func(s *CartStore) {
		s.strict = true
	}
}
