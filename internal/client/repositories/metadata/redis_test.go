package metadata

import (
	"context"
	"os"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupRedis(t *testing.T) *RedisRepository {
	t.Helper()
	url := os.Getenv("GITEEKIT_TEST_REDIS_URL")
	if url == "" {
		t.Skip("GITEEKIT_TEST_REDIS_URL not set")
	}

	c, err := OpenRedis(context.Background(), url)
	require.NoError(t, err)

	r := NewRedisRepository(c, "giteekit-test-"+uuid.NewString())
	t.Cleanup(func() {
		_ = r.Clear(context.Background())
		_ = c.Close()
	})
	return r
}

func TestRedis_SetGetDelete(t *testing.T) {
	r := setupRedis(t)
	ctx := context.Background()

	v, err := r.Get(ctx, "absent")
	require.NoError(t, err)
	require.Nil(t, v)

	require.NoError(t, r.Set(ctx, "k", []byte("v")))
	v, err = r.Get(ctx, "k")
	require.NoError(t, err)
	require.Equal(t, []byte("v"), v)

	require.NoError(t, r.Delete(ctx, "k"))
	require.NoError(t, r.Delete(ctx, "k"))
	v, err = r.Get(ctx, "k")
	require.NoError(t, err)
	require.Nil(t, v)
}

func TestRedis_ListApplyClear(t *testing.T) {
	r := setupRedis(t)
	ctx := context.Background()

	require.NoError(t, r.Set(ctx, "gone", []byte("x")))
	require.NoError(t, r.Apply(ctx, Batch{
		Set:    map[string][]byte{"a": []byte("1"), "b": []byte("2")},
		Delete: []string{"gone"},
	}))

	m, err := r.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, map[string][]byte{"a": []byte("1"), "b": []byte("2")}, m)

	require.NoError(t, r.Clear(ctx))
	m, err = r.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, m)
}
