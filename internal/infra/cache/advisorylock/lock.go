package advisorylock

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

// Cache подмножество команд Redis, необходимое блокировке.
// Реализуется *redis.Client.
type Cache interface {
	SetNX(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.BoolCmd
}

// Locker best-effort блокировка с TTL поверх Redis.
// Блокировка не снимается явно: она действует до истечения TTL.
type Locker struct {
	cache  Cache
	prefix string
}

// NewLocker создает блокировку. prefix добавляется ко всем ключам.
func NewLocker(cache Cache, prefix string) *Locker {
	return &Locker{cache: cache, prefix: prefix}
}

// NewRedisClient создает клиент Redis
func NewRedisClient(addr, password string, db int) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
}

// Acquire пытается взять блокировку key на ttl.
// true - блокировка взята этим вызовом, false - уже занята.
func (l *Locker) Acquire(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	if key == "" {
		return false, ErrEmptyKey
	}

	acquired, err := l.cache.SetNX(ctx, l.prefix+key, time.Now().UTC().Format(time.RFC3339), ttl).Result()
	if err != nil {
		return false, fmt.Errorf("%w: Acquire - setnx %s: %v", ErrCache, key, err)
	}

	return acquired, nil
}
