package cache

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestCache(t *testing.T) *ShardCache {
	t.Helper()
	c, err := Open(filepath.Join(t.TempDir(), "cache.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })
	return c
}

func TestCache_PutGet(t *testing.T) {
	c := openTestCache(t)
	ctx := context.Background()

	require.NoError(t, c.Put(ctx, "shards/1/a.csv", []byte("payload-a")))

	data, hit, err := c.Get(ctx, "shards/1/a.csv")
	require.NoError(t, err)
	require.True(t, hit)
	assert.Equal(t, []byte("payload-a"), data)
}

func TestCache_Miss(t *testing.T) {
	c := openTestCache(t)

	data, hit, err := c.Get(context.Background(), "never-stored")
	require.NoError(t, err)
	assert.False(t, hit)
	assert.Nil(t, data)
}

func TestCache_PutReplaces(t *testing.T) {
	c := openTestCache(t)
	ctx := context.Background()

	require.NoError(t, c.Put(ctx, "p", []byte("old")))
	require.NoError(t, c.Put(ctx, "p", []byte("new")))

	data, hit, err := c.Get(ctx, "p")
	require.NoError(t, err)
	require.True(t, hit)
	assert.Equal(t, []byte("new"), data)
}
