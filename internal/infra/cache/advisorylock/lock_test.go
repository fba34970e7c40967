package advisorylock

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeCache struct {
	keys map[string]time.Duration
	err  error
}

func (f *fakeCache) SetNX(_ context.Context, key string, _ interface{}, expiration time.Duration) *redis.BoolCmd {
	if f.err != nil {
		return redis.NewBoolResult(false, f.err)
	}
	if _, ok := f.keys[key]; ok {
		return redis.NewBoolResult(false, nil)
	}
	f.keys[key] = expiration
	return redis.NewBoolResult(true, nil)
}

func TestLocker_Acquire(t *testing.T) {
	cache := &fakeCache{keys: map[string]time.Duration{}}
	locker := NewLocker(cache, "restrictions:")

	ok, err := locker.Acquire(context.Background(), "los-automation:h1:rp1", time.Minute)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, time.Minute, cache.keys["restrictions:los-automation:h1:rp1"])

	ok, err = locker.Acquire(context.Background(), "los-automation:h1:rp1", time.Minute)
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = locker.Acquire(context.Background(), "los-automation:h1:rp2", time.Minute)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestLocker_AcquireErrors(t *testing.T) {
	locker := NewLocker(&fakeCache{err: errors.New("connection refused")}, "")

	_, err := locker.Acquire(context.Background(), "k", time.Minute)
	assert.ErrorIs(t, err, ErrCache)

	_, err = locker.Acquire(context.Background(), "", time.Minute)
	assert.ErrorIs(t, err, ErrEmptyKey)
}
