package filestore_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/sessionkit/pkg/session"
	"github.com/dmitrymomot/sessionkit/pkg/session/filestore"
)

func TestStore(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("read write destroy", func(t *testing.T) {
		t.Parallel()
		store, err := filestore.New(t.TempDir())
		require.NoError(t, err)

		_, err = store.Read(ctx, "abc")
		assert.ErrorIs(t, err, session.ErrSessionNotFound)

		require.NoError(t, store.Write(ctx, "abc", []byte("payload"), time.Minute))
		assert.FileExists(t, filepath.Join(store.Dir(), "sess_abc"))

		got, err := store.Read(ctx, "abc")
		require.NoError(t, err)
		assert.Equal(t, []byte("payload"), got)

		require.NoError(t, store.Write(ctx, "abc", []byte("second"), time.Minute))
		got, err = store.Read(ctx, "abc")
		require.NoError(t, err)
		assert.Equal(t, []byte("second"), got)

		require.NoError(t, store.Destroy(ctx, "abc"))
		require.NoError(t, store.Destroy(ctx, "abc"))
		assert.NoFileExists(t, filepath.Join(store.Dir(), "sess_abc"))
	})

	t.Run("rejects path traversal", func(t *testing.T) {
		t.Parallel()
		store, err := filestore.New(t.TempDir())
		require.NoError(t, err)

		for _, id := range []string{"../escape", "a/b", "", "dot.dot"} {
			assert.ErrorIs(t, store.Write(ctx, id, []byte("x"), 0), filestore.ErrInvalidID, id)
			_, err := store.Read(ctx, id)
			assert.ErrorIs(t, err, session.ErrSessionNotFound, id)
		}
	})

	t.Run("expires by ttl", func(t *testing.T) {
		t.Parallel()
		now := time.Now()
		store, err := filestore.New(t.TempDir(), filestore.WithClock(func() time.Time { return now }))
		require.NoError(t, err)

		require.NoError(t, store.Write(ctx, "abc", []byte("x"), time.Minute))
		now = now.Add(time.Minute)

		_, err = store.Read(ctx, "abc")
		assert.ErrorIs(t, err, session.ErrSessionNotFound)
	})

	t.Run("truncated file", func(t *testing.T) {
		t.Parallel()
		store, err := filestore.New(t.TempDir())
		require.NoError(t, err)
		require.NoError(t, os.WriteFile(filepath.Join(store.Dir(), "sess_abc"), []byte("x"), 0o600))

		_, err = store.Read(ctx, "abc")
		assert.ErrorIs(t, err, session.ErrDecode)
	})

	t.Run("gc by mtime and expiry", func(t *testing.T) {
		t.Parallel()
		now := time.Now()
		store, err := filestore.New(t.TempDir(), filestore.WithClock(func() time.Time { return now }))
		require.NoError(t, err)

		require.NoError(t, store.Write(ctx, "old", []byte("x"), 0))
		old := now.Add(-2 * time.Hour)
		require.NoError(t, os.Chtimes(filepath.Join(store.Dir(), "sess_old"), old, old))

		require.NoError(t, store.Write(ctx, "expired", []byte("x"), time.Second))
		require.NoError(t, store.Write(ctx, "fresh", []byte("x"), time.Hour))
		require.NoError(t, os.WriteFile(filepath.Join(store.Dir(), "unrelated"), []byte("x"), 0o600))

		now = now.Add(time.Minute)
		n, err := store.GC(ctx, time.Hour)
		require.NoError(t, err)
		assert.Equal(t, 2, n)

		_, err = store.Read(ctx, "fresh")
		assert.NoError(t, err)
		assert.FileExists(t, filepath.Join(store.Dir(), "unrelated"))
	})

	t.Run("empty dir is rejected", func(t *testing.T) {
		t.Parallel()
		_, err := filestore.New("")
		assert.ErrorIs(t, err, filestore.ErrInvalidConfig)
	})
}
