package cache

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	_ Cache = (*Memory)(nil)
	_ Cache = (*Redis)(nil)
)

func TestMemory_GetSet(t *testing.T) {
	c := NewMemory()
	ctx := context.Background()

	_, err := c.Get(ctx, "missing")
	assert.ErrorIs(t, err, ErrMiss)

	require.NoError(t, c.Set(ctx, "k", "v", time.Minute))
	v, err := c.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "v", v)

	require.NoError(t, c.Del(ctx, "k"))
	_, err = c.Get(ctx, "k")
	assert.ErrorIs(t, err, ErrMiss)
}

func TestMemory_Expiry(t *testing.T) {
	now := time.Now()
	c := NewMemory().WithClock(func() time.Time { return now })
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "k", "v", time.Hour))
	now = now.Add(59 * time.Minute)
	_, err := c.Get(ctx, "k")
	assert.NoError(t, err)

	now = now.Add(time.Minute)
	_, err = c.Get(ctx, "k")
	assert.ErrorIs(t, err, ErrMiss)
}

func TestMemory_SetNX(t *testing.T) {
	now := time.Now()
	c := NewMemory().WithClock(func() time.Time { return now })
	ctx := context.Background()

	ok, err := c.SetNX(ctx, "view", "ip:1", time.Hour)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = c.SetNX(ctx, "view", "ip:1", time.Hour)
	require.NoError(t, err)
	assert.False(t, ok)

	now = now.Add(time.Hour)
	ok, err = c.SetNX(ctx, "view", "ip:1", time.Hour)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestMemory_SetNXIsAtomic(t *testing.T) {
	c := NewMemory()
	ctx := context.Background()

	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		wins int
	)
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if ok, _ := c.SetNX(ctx, "k", "v", time.Minute); ok {
				mu.Lock()
				wins++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, 1, wins)
}

func TestMemory_IncrAndExpire(t *testing.T) {
	now := time.Now()
	c := NewMemory().WithClock(func() time.Time { return now })
	ctx := context.Background()

	n, err := c.Incr(ctx, "hits")
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
	require.NoError(t, c.Expire(ctx, "hits", time.Minute))

	n, err = c.Incr(ctx, "hits")
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	now = now.Add(time.Minute)
	n, err = c.Incr(ctx, "hits")
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}
