package redis

import (
	"errors"
	"time"

	"github.com/shelterseek/goapi/base/ctx"
)

// Forever marks a key that should never expire
const Forever = time.Duration(-1)

var (
	// ErrNotFound is returned when the key does not exist
	ErrNotFound = errors.New("redis: not found")
	// ErrNoTTL is returned by TTL when the key exists but has no expire
	ErrNoTTL = errors.New("redis: no ttl")
	// ErrNoPool is returned when no usable pool is configured
	ErrNoPool = errors.New("redis: no pool")
)

// Service is the redis abstraction used by cache providers and health checks
type Service interface {
	Get(context ctx.Ctx, key string) ([]byte, error)
	Set(context ctx.Ctx, key string, val []byte, expire time.Duration) error
	Del(context ctx.Ctx, keys ...string) (int, error)
	Exists(context ctx.Ctx, key string) (bool, error)
	TTL(context ctx.Ctx, key string) (int, error)
	Incr(context ctx.Ctx, key string) (int64, error)
	Incrby(context ctx.Ctx, key string, val int) (int64, error)
}
