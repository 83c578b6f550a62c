package session_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/sessionkit/pkg/session"
)

func TestMemoryStore(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("read write destroy", func(t *testing.T) {
		t.Parallel()
		store := session.NewMemoryStore()

		_, err := store.Read(ctx, "id")
		assert.ErrorIs(t, err, session.ErrSessionNotFound)

		require.NoError(t, store.Write(ctx, "id", []byte("payload"), time.Minute))
		got, err := store.Read(ctx, "id")
		require.NoError(t, err)
		assert.Equal(t, []byte("payload"), got)

		require.NoError(t, store.Destroy(ctx, "id"))
		require.NoError(t, store.Destroy(ctx, "id"))
		_, err = store.Read(ctx, "id")
		assert.ErrorIs(t, err, session.ErrSessionNotFound)
	})

	t.Run("copies payloads", func(t *testing.T) {
		t.Parallel()
		store := session.NewMemoryStore()
		data := []byte("abc")

		require.NoError(t, store.Write(ctx, "id", data, 0))
		data[0] = 'x'

		got, err := store.Read(ctx, "id")
		require.NoError(t, err)
		assert.Equal(t, []byte("abc"), got)

		got[1] = 'y'
		again, err := store.Read(ctx, "id")
		require.NoError(t, err)
		assert.Equal(t, []byte("abc"), again)
	})

	t.Run("expires by ttl", func(t *testing.T) {
		t.Parallel()
		now := time.Now()
		store := session.NewMemoryStore(session.WithMemoryClock(func() time.Time { return now }))

		require.NoError(t, store.Write(ctx, "id", []byte("x"), time.Minute))
		now = now.Add(time.Minute)

		_, err := store.Read(ctx, "id")
		assert.ErrorIs(t, err, session.ErrSessionNotFound)
		assert.Equal(t, 0, store.Len())
	})

	t.Run("gc removes stale entries", func(t *testing.T) {
		t.Parallel()
		now := time.Now()
		store := session.NewMemoryStore(session.WithMemoryClock(func() time.Time { return now }))

		require.NoError(t, store.Write(ctx, "old", []byte("x"), 0))
		require.NoError(t, store.Write(ctx, "short", []byte("x"), time.Second))
		now = now.Add(10 * time.Minute)
		require.NoError(t, store.Write(ctx, "fresh", []byte("x"), 0))

		n, err := store.GC(ctx, 5*time.Minute)
		require.NoError(t, err)
		assert.Equal(t, 2, n)
		assert.Equal(t, 1, store.Len())
	})

	t.Run("bounded by max entries", func(t *testing.T) {
		t.Parallel()
		store := session.NewMemoryStore(session.WithMaxEntries(2))

		require.NoError(t, store.Write(ctx, "a", []byte("1"), 0))
		require.NoError(t, store.Write(ctx, "b", []byte("2"), 0))
		_, err := store.Read(ctx, "a")
		require.NoError(t, err)
		require.NoError(t, store.Write(ctx, "c", []byte("3"), 0))

		assert.Equal(t, 2, store.Len())
		_, err = store.Read(ctx, "b")
		assert.ErrorIs(t, err, session.ErrSessionNotFound)
	})
}

func TestNullStore(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	store := session.NewNullStore()

	require.NoError(t, store.Write(ctx, "id", []byte("x"), time.Minute))
	_, err := store.Read(ctx, "id")
	assert.ErrorIs(t, err, session.ErrSessionNotFound)
	assert.NoError(t, store.Destroy(ctx, "id"))

	m := newManager(t, testConfig(), session.WithStore(store))
	first := startDetached(t, m, "", clientA)
	require.NoError(t, first.Save(ctx))
	second := startDetached(t, m, first.ID(), clientA)
	assert.NotEqual(t, first.ID(), second.ID())
}
