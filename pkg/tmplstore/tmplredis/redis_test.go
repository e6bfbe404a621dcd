package tmplredis_test

import (
	"context"
	"testing"
	"time"

	"github.com/Abraxas-365/activemail/pkg/activemsg"
	"github.com/Abraxas-365/activemail/pkg/tmplstore/tmplmemory"
	"github.com/Abraxas-365/activemail/pkg/tmplstore/tmplredis"
	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// countingStore wraps a memory store and counts lookups.
type countingStore struct {
	*tmplmemory.MemoryStore
	lookups int
}

func (c *countingStore) Template(ctx context.Context, name string) (activemsg.TemplateOverride, error) {
	c.lookups++
	return c.MemoryStore.Template(ctx, name)
}

func setup(t *testing.T) (*miniredis.Miniredis, *countingStore, *tmplredis.CachedStore) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	backing := &countingStore{MemoryStore: tmplmemory.NewMemoryStore(map[string]activemsg.TemplateOverride{
		"WelcomeMessage": {"subject": "Cached"},
	})}
	return mr, backing, tmplredis.NewCachedStore(rdb, backing, tmplredis.WithTTL(time.Minute))
}

func TestCachedStore_ServesSecondLookupFromCache(t *testing.T) {
	ctx := context.Background()
	mr, backing, s := setup(t)

	first, err := s.Template(ctx, "WelcomeMessage")
	require.NoError(t, err)
	second, err := s.Template(ctx, "WelcomeMessage")
	require.NoError(t, err)

	assert.Equal(t, activemsg.TemplateOverride{"subject": "Cached"}, first)
	assert.Equal(t, first, second)
	assert.Equal(t, 1, backing.lookups)
	assert.True(t, mr.Exists("activemsg:template:WelcomeMessage"))
	assert.Equal(t, time.Minute, mr.TTL("activemsg:template:WelcomeMessage"))
}

func TestCachedStore_CachesMisses(t *testing.T) {
	ctx := context.Background()
	mr, backing, s := setup(t)

	for range 2 {
		o, err := s.Template(ctx, "Unknown")
		require.NoError(t, err)
		assert.Nil(t, o)
	}

	assert.Equal(t, 1, backing.lookups)
	got, err := mr.Get("activemsg:template:Unknown")
	require.NoError(t, err)
	assert.Equal(t, "{}", got)
}

func TestCachedStore_ExpiresEntries(t *testing.T) {
	ctx := context.Background()
	mr, backing, s := setup(t)

	_, err := s.Template(ctx, "WelcomeMessage")
	require.NoError(t, err)
	mr.FastForward(2 * time.Minute)
	_, err = s.Template(ctx, "WelcomeMessage")
	require.NoError(t, err)

	assert.Equal(t, 2, backing.lookups)
}

func TestCachedStore_SaveInvalidates(t *testing.T) {
	ctx := context.Background()
	_, backing, s := setup(t)

	_, err := s.Template(ctx, "WelcomeMessage")
	require.NoError(t, err)
	require.NoError(t, s.Save(ctx, "WelcomeMessage", activemsg.TemplateOverride{"subject": "Fresh"}))

	o, err := s.Template(ctx, "WelcomeMessage")
	require.NoError(t, err)
	assert.Equal(t, "Fresh", o["subject"])
	assert.Equal(t, 2, backing.lookups)

	names, err := s.Names(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"WelcomeMessage"}, names)
}

func TestCachedStore_FallsBackWhenRedisIsDown(t *testing.T) {
	ctx := context.Background()
	mr, backing, s := setup(t)
	mr.Close()

	o, err := s.Template(ctx, "WelcomeMessage")

	require.NoError(t, err)
	assert.Equal(t, "Cached", o["subject"])
	assert.Equal(t, 1, backing.lookups)
}
