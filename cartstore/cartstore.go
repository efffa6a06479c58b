// cartstore/cartstore.go

// Package cartstore owns the in-memory cart of a client process. Every
// mutation is published to subscribers first and then written through to a
// durable key-value store under one fixed key; on Create the persisted cart
// is read back once.
package cartstore

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/norun9/gomarketplace-cartstore/cart"
	"github.com/norun9/gomarketplace-cartstore/kvstore"
)

const tracerName = "cartstore"

type subscription struct {
	id uuid.UUID
	fn func(cart.Cart)
}

// CartStore holds the authoritative cart. It is safe for concurrent use.
//
// Operations run one at a time: each computes its next cart from the
// current one and publishes it before the next operation starts. Writes to
// the durable store happen after that, outside the operation lock, so two
// overlapping writes may finish in either order unless the store was built
// WithOrderedPersistence.
type CartStore struct {
	kv     kvstore.Store
	key    string
	log    logrus.FieldLogger
	tracer trace.Tracer

	async   bool
	onError func(error)
	ordered bool
	strict  bool

	// opMu makes read-modify-publish atomic per operation.
	opMu sync.Mutex

	mu       sync.RWMutex
	products cart.Cart
	version  uint64
	ready    bool
	disposed bool
	loadErr  error
	subs     []subscription

	writeMu  sync.Mutex
	written  uint64
	inflight sync.WaitGroup
}

// Create builds a CartStore over kv and loads the persisted cart.
// The caller keeps ownership of kv; Dispose does not close it.
func Create(ctx context.Context, kv kvstore.Store, opts ...Option) (*CartStore, error) {
	if kv == nil {
		return nil, fmt.Errorf("cartstore: nil key-value store")
	}

	s := &CartStore{
		kv:       kv,
		key:      Key(DefaultNamespace),
		log:      logrus.StandardLogger(),
		tracer:   otel.Tracer(tracerName),
		products: cart.Empty(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.log = s.log.WithField("key", s.key)

	s.Load(ctx)
	return s, nil
}

// Load reads the persisted cart and publishes it. A missing key, a read
// failure or an unparsable value all result in an empty cart; the cause is
// logged and kept for LoadErr.
func (s *CartStore) Load(ctx context.Context) {
	ctx, span := s.tracer.Start(ctx, "cartstore.Load")
	defer span.End()

	s.lockLive("Load")
	defer s.opMu.Unlock()

	loaded, err := s.rehydrate(ctx)
	if err != nil {
		span.RecordError(err)
		s.log.WithError(err).Warn("cart store: starting with an empty cart")
	}
	span.SetAttributes(attribute.Int("cart.items", loaded.Len()))

	s.mu.Lock()
	s.loadErr = err
	s.ready = true
	s.mu.Unlock()

	s.commit(loaded)
}

func (s *CartStore) rehydrate(ctx context.Context) (cart.Cart, error) {
	raw, ok, err := s.kv.Get(ctx, s.key)
	if err != nil {
		return cart.Empty(), fmt.Errorf("%w: read %s: %w", ErrRehydration, s.key, err)
	}
	if !ok {
		s.log.Debug("cart store: no persisted cart")
		return cart.Empty(), nil
	}

	loaded, dropped, err := cart.Unmarshal([]byte(raw))
	if err != nil {
		return cart.Empty(), fmt.Errorf("%w: %w", ErrRehydration, err)
	}
	for _, d := range dropped {
		s.log.WithField("entry", d.String()).Warn("cart store: dropped persisted entry")
	}
	s.log.WithField("items", loaded.Len()).Info("cart store: loaded persisted cart")
	return loaded, nil
}

// AddToCart adds one unit of p. A product already in the cart keeps its
// stored title, image and price.
func (s *CartStore) AddToCart(ctx context.Context, p cart.Product) error {
	if err := p.Validate(); err != nil {
		return err
	}
	return s.mutate(ctx, "AddToCart", p.ID, func(c cart.Cart) (cart.Cart, error) {
		return c.Add(p), nil
	})
}

// Increment adds one unit to the item with the given id.
func (s *CartStore) Increment(ctx context.Context, id string) error {
	return s.mutate(ctx, "Increment", id, func(c cart.Cart) (cart.Cart, error) {
		if err := s.checkKnown(c, id); err != nil {
			return nil, err
		}
		return c.Increment(id), nil
	})
}

// Decrement removes one unit from the item with the given id. The item
// leaves the cart when its quantity reaches zero.
func (s *CartStore) Decrement(ctx context.Context, id string) error {
	return s.mutate(ctx, "Decrement", id, func(c cart.Cart) (cart.Cart, error) {
		if err := s.checkKnown(c, id); err != nil {
			return nil, err
		}
		return c.Decrement(id), nil
	})
}

func (s *CartStore) checkKnown(c cart.Cart, id string) error {
	if s.strict && !c.Has(id) {
		return fmt.Errorf("%w: %q", ErrUnknownItem, id)
	}
	return nil
}

func (s *CartStore) mutate(ctx context.Context, op, id string, next func(cart.Cart) (cart.Cart, error)) error {
	ctx, span := s.tracer.Start(ctx, "cartstore."+op, trace.WithAttributes(attribute.String("cart.item_id", id)))
	defer span.End()

	updated, version, err := s.apply(op, next)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}
	span.SetAttributes(
		attribute.Int("cart.items", updated.Len()),
		attribute.Int64("cart.version", int64(version)),
	)

	data, err := cart.Marshal(updated)
	if err != nil {
		if s.async {
			s.inflight.Done()
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return &PersistenceError{Key: s.key, Version: version, Err: err}
	}

	if s.async {
		go func() {
			defer s.inflight.Done()
			if err := s.write(context.WithoutCancel(ctx), version, string(data)); err != nil && s.onError != nil {
				s.onError(err)
			}
		}()
		return nil
	}

	if err := s.write(ctx, version, string(data)); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}
	return nil
}

// apply computes and publishes the next cart under opMu. In async mode it
// also registers the pending write before Dispose can start waiting.
func (s *CartStore) apply(op string, next func(cart.Cart) (cart.Cart, error)) (cart.Cart, uint64, error) {
	s.lockLive(op)
	defer s.opMu.Unlock()

	s.mu.RLock()
	current := s.products
	s.mu.RUnlock()

	updated, err := next(current)
	if err != nil {
		return nil, 0, err
	}
	version := s.commit(updated)
	if s.async {
		s.inflight.Add(1)
	}
	return updated, version, nil
}

// commit installs c as the current cart and publishes it. Callers hold opMu.
func (s *CartStore) commit(c cart.Cart) uint64 {
	s.mu.Lock()
	s.products = c
	s.version++
	version := s.version
	subs := make([]subscription, len(s.subs))
	copy(subs, s.subs)
	s.mu.Unlock()

	for _, sub := range subs {
		sub.fn(c.Clone())
	}
	return version
}

func (s *CartStore) write(ctx context.Context, version uint64, data string) error {
	ctx, span := s.tracer.Start(ctx, "cartstore.persist", trace.WithAttributes(attribute.Int64("cart.version", int64(version))))
	defer span.End()

	if s.ordered {
		s.writeMu.Lock()
		defer s.writeMu.Unlock()
		if version <= s.written {
			span.SetAttributes(attribute.Bool("cart.write_skipped", true))
			s.log.WithField("version", version).Debug("cart store: skipped stale write")
			return nil
		}
	}

	if err := s.kv.Set(ctx, s.key, data); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		s.log.WithError(err).WithField("version", version).Error("cart store: persist failed")
		return &PersistenceError{Key: s.key, Version: version, Err: err}
	}
	if s.ordered {
		s.written = version
	}
	return nil
}

// Products returns a copy of the current cart.
func (s *CartStore) Products() cart.Cart {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.products.Clone()
}

// Ready reports whether the first Load has completed.
func (s *CartStore) Ready() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.ready
}

// Healthy pings the durable store.
func (s *CartStore) Healthy(ctx context.Context) bool {
	return s.kv.Ping(ctx)
}

// LoadErr returns the error the last Load recovered from, if any.
func (s *CartStore) LoadErr() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loadErr
}

// Subscribe registers fn to receive every published cart, in subscription
// order, on the goroutine that performed the operation. fn must not call
// the store's mutating operations itself. The returned func unsubscribes
// and may be called more than once.
func (s *CartStore) Subscribe(fn func(cart.Cart)) func() {
	if fn == nil {
		panic(&MisuseError{Op: "Subscribe", Reason: "nil subscriber"})
	}

	s.mu.Lock()
	if s.disposed {
		s.mu.Unlock()
		panic(&MisuseError{Op: "Subscribe", Reason: "store is disposed"})
	}
	id := uuid.New()
	s.subs = append(s.subs, subscription{id: id, fn: fn})
	s.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() { s.unsubscribe(id) })
	}
}

func (s *CartStore) unsubscribe(id uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, sub := range s.subs {
		if sub.id == id {
			s.subs = append(s.subs[:i:i], s.subs[i+1:]...)
			return
		}
	}
}

// Dispose drops all subscribers and waits for writes still in flight, or
// until ctx is done. Any later operation panics with a MisuseError.
// Disposing twice is a no-op.
func (s *CartStore) Dispose(ctx context.Context) error {
	s.opMu.Lock()
	s.mu.Lock()
	already := s.disposed
	s.disposed = true
	s.subs = nil
	s.mu.Unlock()
	s.opMu.Unlock()

	if already {
		return nil
	}

	done := make(chan struct{})
	go func() {
		s.inflight.Wait()
		close(done)
	}()
	select {
	case <-done:
		s.log.Debug("cart store: disposed")
		return nil
	case <-ctx.Done():
		return fmt.Errorf("cartstore: dispose: %w", ctx.Err())
	}
}

// lockLive takes opMu, panicking if the store has been disposed.
func (s *CartStore) lockLive(op string) {
	s.opMu.Lock()
	s.mu.RLock()
	disposed := s.disposed
	s.mu.RUnlock()
	if disposed {
		s.opMu.Unlock()
		panic(&MisuseError{Op: op, Reason: "store is disposed"})
	}
}
