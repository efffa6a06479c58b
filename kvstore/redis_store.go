// kvstore/redis_store.go

package kvstore

import (
	"context"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/go-redis/redis/extra/redisotel/v8"
	"github.com/go-redis/redis/v8"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

const (
	defaultRedisAttempts      = 30
	defaultRedisRetryInterval = time.Second
	maxRedisRetryInterval     = 30 * time.Second
	redisPingTimeout          = 5 * time.Second
)

// RedisStore is a key-value store backed by Redis plain string keys.
type RedisStore struct {
	client *redis.Client
	log    logrus.FieldLogger

	attempts      int
	retryInterval time.Duration
}

// RedisOption configures a RedisStore.
type RedisOption func(*RedisStore)

// WithRedisLogger sets the logger used by the store.
func WithRedisLogger(log logrus.FieldLogger) RedisOption {
	return func(r *RedisStore) {
		r.log = loggerOrDefault(log).WithField("kvstore", "redis")
	}
}

// WithRedisRetry sets how many pings Initialize attempts and the first wait
// between them. Waits grow exponentially up to 30s.
func WithRedisRetry(attempts int, interval time.Duration) RedisOption {
	return func(r *RedisStore) {
		if attempts > 0 {
			r.attempts = attempts
		}
		if interval > 0 {
			r.retryInterval = interval
		}
	}
}

// NewRedisStore accepts a Redis URL ("redis://...") or a plain "host:port"
// address. A host without a port gets the default 6379.
func NewRedisStore(redisAddr string, opts ...RedisOption) (*RedisStore, error) {
	redisAddr = strings.TrimSpace(redisAddr)
	if redisAddr == "" {
		return nil, errors.New("kvstore: redis address is required")
	}

	options, err := redis.ParseURL(redisAddr)
	if err != nil {
		// not a redis:// URL, treat it as a plain address
		if !strings.Contains(redisAddr, ":") {
			redisAddr += ":6379"
		}
		options = &redis.Options{
			Addr:         redisAddr,
			MinIdleConns: 1,
			MaxRetries:   3,
			DialTimeout:  30 * time.Second,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 10 * time.Second,
			PoolSize:     10,
			PoolTimeout:  4 * time.Second,
			IdleTimeout:  180 * time.Second,
		}
	}

	client := redis.NewClient(options)
	client.AddHook(redisotel.NewTracingHook())

	r := &RedisStore{
		client:        client,
		log:           loggerOrDefault(nil).WithField("kvstore", "redis"),
		attempts:      defaultRedisAttempts,
		retryInterval: defaultRedisRetryInterval,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}

// Initialize pings Redis until it answers, backing off exponentially.
func (r *RedisStore) Initialize(ctx context.Context) error {
	r.log.Info("RedisStore: initializing connection")

	b := backoff.NewExponentialBackOff()
	b.InitialInterval = r.retryInterval
	b.MaxInterval = maxRedisRetryInterval
	b.MaxElapsedTime = 0
	policy := backoff.WithContext(backoff.WithMaxRetries(b, uint64(r.attempts-1)), ctx)

	attempt := 0
	err := backoff.RetryNotify(func() error {
		attempt++
		if r.Ping(ctx) {
			return nil
		}
		return errors.Errorf("ping failed (attempt %d/%d)", attempt, r.attempts)
	}, policy, func(err error, wait time.Duration) {
		r.log.WithError(err).Warnf("RedisStore: waiting %v before next attempt", wait)
	})
	if err != nil {
		return errors.Wrapf(err, "kvstore: connect to redis after %d attempts", attempt)
	}

	r.log.WithField("attempts", attempt).Info("RedisStore initialized")
	return nil
}

func (r *RedisStore) Get(ctx context.Context, key string) (string, bool, error) {
	val, err := r.client.Get(ctx, key).Result()
	if err == redis.Nil {
		return "", false, nil
	}
	if err != nil {
		return "", false, errors.Wrapf(err, "redis GET %s", key)
	}
	return val, true, nil
}

func (r *RedisStore) Set(ctx context.Context, key, value string) error {
	if err := r.client.Set(ctx, key, value, 0).Err(); err != nil {
		return errors.Wrapf(err, "redis SET %s", key)
	}
	return nil
}

// Ping checks that Redis answers within five seconds.
func (r *RedisStore) Ping(ctx context.Context) bool {
	pingCtx, cancel := context.WithTimeout(ctx, redisPingTimeout)
	defer cancel()

	if err := r.client.Ping(pingCtx).Err(); err != nil {
		r.log.WithError(err).Debug("RedisStore: ping failed")
		return false
	}
	return true
}

func (r *RedisStore) Close() error {
	return r.client.Close()
}
