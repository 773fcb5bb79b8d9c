// Package storage implements a resilient client over a remote key-value
// store.
//
// Get and Set are hard operations: a connection failure is retried with a
// bounded backoff and, once the budget is exhausted, surfaces to the caller
// as ErrConnLost. CacheGet and CacheSet are degraded-mode operations: they
// never surface connection failures. CacheSet mirrors every write into an
// in-process map before attempting the remote write, and CacheGet falls back
// to that mirror when the remote store is unreachable. The mirror never
// expires on its own; entries are only overwritten or lost on restart.
package storage

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"scoreapi/internal/platform/config"
	"scoreapi/internal/platform/metrics"
	"scoreapi/pkg/apperrors"
)

// Options controls the retry policy for hard reads and writes. Attempts and
// Backoff are injectable so tests can run with a zero-delay policy.
type Options struct {
	Attempts int
	Backoff  time.Duration
}

func (o Options) withDefaults() Options {
	if o.Attempts <= 0 {
		o.Attempts = 5
	}
	if o.Backoff <= 0 {
		o.Backoff = 10 * time.Millisecond
	}
	return o
}

// Client is a pooled key-value store client with an in-process fallback
// mirror for degraded-mode reads. It is safe for concurrent use; the mirror
// gives per-key last-write-wins semantics.
type Client struct {
	rdb    *redis.Client
	opts   Options
	logger *slog.Logger
	m      *metrics.Metrics

	mu     sync.RWMutex
	mirror map[string]string
}

// New wraps an existing redis client. The logger and metrics may be nil.
func New(rdb *redis.Client, opts Options, logger *slog.Logger, m *metrics.Metrics) *Client {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Client{
		rdb:    rdb,
		opts:   opts.withDefaults(),
		logger: logger,
		m:      m,
		mirror: make(map[string]string),
	}
}

// NewRedisClient builds the underlying redis client from configuration. The
// client owns its connection pool and re-establishes broken sessions on its
// own; the retry loop in this package only decides how long to keep trying.
// Internal go-redis retries are disabled so the policy lives in one place.
func NewRedisClient(cfg config.Redis) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:         cfg.Addr,
		DB:           cfg.DB,
		PoolSize:     cfg.PoolSize,
		DialTimeout:  cfg.DialTimeout,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		MaxRetries:   -1,
	})
}

// Health reports whether the remote store currently answers.
func (c *Client) Health(ctx context.Context) error {
	return c.rdb.Ping(ctx).Err()
}

// Get reads a key from the remote store, retrying connection failures.
// Returns ErrNotFound for a missing key and ErrConnLost after the retry
// budget is exhausted.
func (c *Client) Get(ctx context.Context, key string) (string, error) {
	if err := checkKey(key); err != nil {
		return "", err
	}
	var lastErr error
	for attempt := 0; attempt < c.opts.Attempts; attempt++ {
		if attempt > 0 {
			if err := c.backoff(ctx); err != nil {
				return "", err
			}
		}
		val, err := c.rdb.Get(ctx, key).Result()
		switch {
		case err == nil:
			return val, nil
		case errors.Is(err, redis.Nil):
			return "", ErrNotFound
		case ctx.Err() != nil:
			return "", ctx.Err()
		}
		lastErr = err
	}
	return "", fmt.Errorf("get %q after %d attempts: %w: %w", key, c.opts.Attempts, ErrConnLost, lastErr)
}

// Set writes a key to the remote store, retrying connection failures. A zero
// ttl stores the value without expiry.
func (c *Client) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	if err := checkKey(key); err != nil {
		return err
	}
	if ttl < 0 {
		return apperrors.Newf(apperrors.CodeBadRequest, "negative ttl %s for key %q", ttl, key)
	}
	var lastErr error
	for attempt := 0; attempt < c.opts.Attempts; attempt++ {
		if attempt > 0 {
			if err := c.backoff(ctx); err != nil {
				return err
			}
		}
		err := c.rdb.Set(ctx, key, value, ttl).Err()
		if err == nil {
			return nil
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		lastErr = err
	}
	return fmt.Errorf("set %q after %d attempts: %w: %w", key, c.opts.Attempts, ErrConnLost, lastErr)
}

// CacheSet writes the fallback mirror first, then best-effort the remote
// store. Connection failures are swallowed; malformed inputs still fail.
func (c *Client) CacheSet(ctx context.Context, key, value string, ttl time.Duration) error {
	if err := checkKey(key); err != nil {
		return err
	}
	if ttl < 0 {
		return apperrors.Newf(apperrors.CodeBadRequest, "negative ttl %s for key %q", ttl, key)
	}

	c.mu.Lock()
	c.mirror[key] = value
	c.mu.Unlock()

	if err := c.Set(ctx, key, value, ttl); err != nil {
		c.logger.WarnContext(ctx, "cache write degraded to local mirror", "key", key, "error", err)
	}
	return nil
}

// CacheGet reads a key, falling back to the in-process mirror when the remote
// store is unreachable. The second return value reports presence; connection
// failures never surface as errors.
func (c *Client) CacheGet(ctx context.Context, key string) (string, bool, error) {
	if err := checkKey(key); err != nil {
		return "", false, err
	}

	val, err := c.Get(ctx, key)
	switch {
	case err == nil:
		return val, true, nil
	case errors.Is(err, ErrNotFound):
		return "", false, nil
	}

	c.mu.RLock()
	val, ok := c.mirror[key]
	c.mu.RUnlock()
	if ok {
		if c.m != nil {
			c.m.IncrementFallbackReads()
		}
		c.logger.DebugContext(ctx, "cache read served from local mirror", "key", key)
		return val, true, nil
	}
	return "", false, nil
}

// Close releases the connection pool.
func (c *Client) Close() error {
	return c.rdb.Close()
}

func (c *Client) backoff(ctx context.Context) error {
	if c.m != nil {
		c.m.IncrementStoreRetries()
	}
	t := time.NewTimer(c.opts.Backoff)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

func checkKey(key string) error {
	if key == "" {
		return apperrors.New(apperrors.CodeBadRequest, "key must not be empty")
	}
	return nil
}
