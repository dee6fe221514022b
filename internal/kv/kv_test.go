package kv

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryRoundTrip(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	_, ok, err := m.Load(ctx, "users")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, m.Save(ctx, "users", []byte(`[]`)))
	v, ok, err := m.Load(ctx, "users")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, `[]`, string(v))

	require.NoError(t, m.Delete(ctx, "users"))
	require.NoError(t, m.Delete(ctx, "users"))
	_, ok, _ = m.Load(ctx, "users")
	assert.False(t, ok)
}

func TestMemoryCopiesValues(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	buf := []byte("abc")
	require.NoError(t, m.Save(ctx, "k", buf))
	buf[0] = 'x'

	v, _, _ := m.Load(ctx, "k")
	assert.Equal(t, "abc", string(v))
	v[1] = 'y'
	v2, _, _ := m.Load(ctx, "k")
	assert.Equal(t, "abc", string(v2))
}

func TestMemoryFailSaves(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	require.NoError(t, m.Save(ctx, "k", []byte("1")))

	boom := errors.New("disk full")
	m.FailSaves = boom
	assert.ErrorIs(t, m.Save(ctx, "k", []byte("2")), boom)
	assert.ErrorIs(t, m.Delete(ctx, "k"), boom)

	v, ok, _ := m.Load(ctx, "k")
	assert.True(t, ok)
	assert.Equal(t, "1", string(v))
}

func TestMemoryKeys(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	for _, k := range []string{"slots/b", "users", "slots/a"} {
		require.NoError(t, m.Save(ctx, k, nil))
	}
	assert.Equal(t, []string{"slots/a", "slots/b"}, m.Keys("slots/"))
}
