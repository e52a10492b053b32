package cache

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"strings"
	"sync/atomic"
	"time"

	"smart-hr/internal/config"

	"github.com/redis/go-redis/v9"
)

const (
	keyPrefix  = "smart-hr:"
	DefaultTTL = 600 * time.Second

	defaultLockTTL = 30 * time.Second
	unlinkBatch    = 100
)

var ErrUnavailable = errors.New("redis unavailable")

// Redis is the shared tier for localized application text and the drop
// lock. It degrades to a miss or a no-op whenever the server is absent, so
// callers never branch on its health.
type Redis struct {
	client *redis.Client
	logger *log.Logger
	ttl    time.Duration

	warned atomic.Bool
}

func NewRedis(cfg config.RedisConfig, logger *log.Logger) *Redis {
	r := &Redis{logger: logger, ttl: cfg.CacheTTL}
	if r.ttl <= 0 {
		r.ttl = DefaultTTL
	}

	addr := cfg.Addr()
	if addr == "" {
		r.logf("[Cache] REDIS_HOST not set, shared cache disabled")
		return r
	}

	client := redis.NewClient(&redis.Options{
		Addr:         addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  2 * time.Second,
		ReadTimeout:  time.Second,
		WriteTimeout: time.Second,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		r.logf("[Cache] Redis unreachable, shared cache disabled addr=%s err=%v", addr, err)
		_ = client.Close()
		return r
	}

	r.client = client
	return r
}

func (r *Redis) Available() bool {
	return r != nil && r.client != nil
}

func (r *Redis) Ping(ctx context.Context) error {
	if !r.Available() {
		return ErrUnavailable
	}
	return r.client.Ping(ctx).Err()
}

func (r *Redis) Close() error {
	if !r.Available() {
		return nil
	}
	return r.client.Close()
}

// GetJSON decodes the cached value into out and reports whether it existed.
func (r *Redis) GetJSON(ctx context.Context, key string, out any) (bool, error) {
	if !r.Available() {
		return false, nil
	}
	b, err := r.client.Get(ctx, keyPrefix+key).Bytes()
	switch {
	case errors.Is(err, redis.Nil):
		return false, nil
	case err != nil:
		return false, r.degraded(err)
	case len(b) == 0:
		return false, nil
	}
	if err := json.Unmarshal(b, out); err != nil {
		return false, err
	}
	return true, nil
}

// SetJSON stores value for ttl, or for the configured TTL when ttl <= 0.
func (r *Redis) SetJSON(ctx context.Context, key string, value any, ttl time.Duration) error {
	if !r.Available() {
		return nil
	}
	b, err := json.Marshal(value)
	if err != nil {
		return err
	}
	if ttl <= 0 {
		ttl = r.ttl
	}
	return r.degraded(r.client.Set(ctx, keyPrefix+key, b, ttl).Err())
}

func (r *Redis) Delete(ctx context.Context, keys ...string) error {
	if !r.Available() || len(keys) == 0 {
		return nil
	}
	full := make([]string, len(keys))
	for i, k := range keys {
		full[i] = keyPrefix + k
	}
	return r.degraded(r.client.Unlink(ctx, full...).Err())
}

// InvalidateApplication drops every cached translation of one application.
func (r *Redis) InvalidateApplication(ctx context.Context, applicationID string) error {
	applicationID = strings.TrimSpace(applicationID)
	if !r.Available() || applicationID == "" {
		return nil
	}

	iter := r.client.Scan(ctx, 0, keyPrefix+"loc:"+applicationID+":*", unlinkBatch).Iterator()
	batch := make([]string, 0, unlinkBatch)
	flush := func() error {
		if len(batch) == 0 {
			return nil
		}
		err := r.client.Unlink(ctx, batch...).Err()
		batch = batch[:0]
		return err
	}
	for iter.Next(ctx) {
		batch = append(batch, iter.Val())
		if len(batch) == unlinkBatch {
			if err := flush(); err != nil {
				return r.degraded(err)
			}
		}
	}
	if err := iter.Err(); err != nil {
		return r.degraded(err)
	}
	return r.degraded(flush())
}

// SetIfNotExists backs the drop lock. Without Redis it never acquires, so
// callers must check Available first.
func (r *Redis) SetIfNotExists(ctx context.Context, key string, value string, ttl time.Duration) (bool, error) {
	if !r.Available() {
		return false, nil
	}
	if ttl <= 0 {
		ttl = defaultLockTTL
	}
	ok, err := r.client.SetNX(ctx, keyPrefix+key, value, ttl).Result()
	if err != nil {
		return false, r.degraded(err)
	}
	return ok, nil
}

// degraded logs the first runtime failure and passes err through.
func (r *Redis) degraded(err error) error {
	if err != nil && r.warned.CompareAndSwap(false, true) {
		r.logf("[Cache] Redis call failed, later failures are silent err=%v", err)
	}
	return err
}

func (r *Redis) logf(format string, args ...any) {
	if r != nil && r.logger != nil {
		r.logger.Printf(format, args...)
	}
}
