package cartstore

import "context"

type storeKey struct{}

// NewContext returns a copy of ctx that carries s.
func NewContext(ctx context.Context, s *CartStore) context.Context {
	return context.WithValue(ctx, storeKey{}, s)
}

// FromContext returns the store carried by ctx, if any.
func FromContext(ctx context.Context) (*CartStore, bool) {
	s, ok := ctx.Value(storeKey{}).(*CartStore)
	return s, ok && s != nil
}

// MustFromContext returns the store carried by ctx. It panics with a
// MisuseError when ctx was not built with NewContext.
func MustFromContext(ctx context.Context) *CartStore {
	s, ok := FromContext(ctx)
	if !ok {
		panic(&MisuseError{Op: "MustFromContext", Reason: "must be used within a context provisioned by NewContext"})
	}
	return s
}
