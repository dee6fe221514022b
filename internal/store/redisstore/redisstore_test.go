package redisstore

import (
	"context"
	"testing"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) (*Store, *miniredis.Miniredis) {
	t.Helper()
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	return New(client, "bq:"), mr
}

func TestLoadSaveDelete(t *testing.T) {
	ctx := context.Background()
	s, mr := newTestStore(t)

	_, ok, err := s.Load(ctx, "slots/u1")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, s.Save(ctx, "slots/u1", []byte(`[1,2,3]`)))
	assert.True(t, mr.Exists("bq:slots/u1"), "expected prefixed key in redis")

	v, ok, err := s.Load(ctx, "slots/u1")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, `[1,2,3]`, string(v))

	require.NoError(t, s.Delete(ctx, "slots/u1"))
	assert.False(t, mr.Exists("bq:slots/u1"))
}

func TestLoadSurfacesServerErrors(t *testing.T) {
	ctx := context.Background()
	s, mr := newTestStore(t)
	mr.SetError("LOADING")

	_, _, err := s.Load(ctx, "users")
	assert.Error(t, err)
	assert.Error(t, s.Save(ctx, "users", []byte("x")))
}

func TestConnect(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	defer mr.Close()

	s, err := Connect(context.Background(), Options{Addr: mr.Addr(), Prefix: "p:"}, zerolog.Nop())
	require.NoError(t, err)
	defer s.Close()

	require.NoError(t, s.Save(context.Background(), "k", []byte("v")))
	got, err := mr.Get("p:k")
	require.NoError(t, err)
	assert.Equal(t, "v", got)
}

func TestConnectFailsWithoutServer(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	addr := mr.Addr()
	mr.Close()

	_, err = Connect(context.Background(), Options{Addr: addr}, zerolog.Nop())
	assert.Error(t, err)
}
