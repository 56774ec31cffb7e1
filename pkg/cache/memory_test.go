package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct{ t time.Time }

func (f *fakeClock) Now() time.Time          { return f.t }
func (f *fakeClock) Advance(d time.Duration) { f.t = f.t.Add(d) }

func TestMemoryCache_SetGet(t *testing.T) {
	ctx := context.Background()
	mc := NewMemoryCache()

	_, err := mc.Get(ctx, "missing")
	assert.ErrorIs(t, err, ErrCacheMiss)

	require.NoError(t, mc.Set(ctx, "k", "v", time.Minute))
	got, err := mc.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "v", got)

	require.NoError(t, mc.Delete(ctx, "k"))
	_, err = mc.Get(ctx, "k")
	assert.ErrorIs(t, err, ErrCacheMiss)
}

func TestMemoryCache_ExpiresOnRead(t *testing.T) {
	ctx := context.Background()
	clock := &fakeClock{t: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)}
	mc := NewMemoryCache(WithMemoryClock(clock.Now))

	require.NoError(t, mc.Set(ctx, "k", "v", time.Second))
	clock.Advance(500 * time.Millisecond)
	_, err := mc.Get(ctx, "k")
	require.NoError(t, err)

	clock.Advance(time.Second)
	_, err = mc.Get(ctx, "k")
	assert.ErrorIs(t, err, ErrCacheMiss)
	assert.Equal(t, 0, mc.Len())
}

func TestMemoryCache_BoundedSize(t *testing.T) {
	ctx := context.Background()
	mc := NewMemoryCache(WithMemoryMaxSize(2))

	require.NoError(t, mc.Set(ctx, "a", "1", 0))
	require.NoError(t, mc.Set(ctx, "b", "2", 0))
	require.NoError(t, mc.Set(ctx, "c", "3", 0))

	assert.Equal(t, 2, mc.Len())
	_, err := mc.Get(ctx, "a")
	assert.ErrorIs(t, err, ErrCacheMiss)
}

func TestGetJSON(t *testing.T) {
	ctx := context.Background()
	mc := NewMemoryCache()

	type payload struct {
		Name string `json:"name"`
	}

	require.NoError(t, SetJSON(ctx, mc, "good", payload{Name: "apple"}, time.Minute))
	require.NoError(t, mc.Set(ctx, "bad", "{bad-json", time.Minute))

	got, ok := GetJSON[payload](ctx, mc, "good")
	require.True(t, ok)
	assert.Equal(t, "apple", got.Name)

	_, ok = GetJSON[payload](ctx, mc, "bad")
	assert.False(t, ok)

	_, ok = GetJSON[payload](ctx, mc, "missing")
	assert.False(t, ok)

	_, ok = GetJSON[payload](ctx, nil, "good")
	assert.False(t, ok)
}
