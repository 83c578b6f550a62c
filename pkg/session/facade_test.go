package session_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/sessionkit/pkg/session"
)

func TestFacade(t *testing.T) {
	t.Parallel()

	t.Run("default fallback", func(t *testing.T) {
		t.Parallel()
		sess := startDetached(t, newManager(t, testConfig()), "", clientA)

		assert.Equal(t, "fallback", sess.Get("missing", "fallback"))
		assert.Nil(t, sess.Get("missing", nil))
	})

	t.Run("set has get delete", func(t *testing.T) {
		t.Parallel()
		sess := startDetached(t, newManager(t, testConfig()), "", clientA)

		require.NoError(t, sess.Set("k", "v"))
		assert.True(t, sess.Has("k"))
		assert.Equal(t, "v", sess.Get("k", nil))

		sess.Delete("k")
		assert.False(t, sess.Has("k"))
		sess.Delete("k")
	})

	t.Run("flash is one-shot", func(t *testing.T) {
		t.Parallel()
		sess := startDetached(t, newManager(t, testConfig()), "", clientA)

		require.NoError(t, sess.Set("k", "v"))
		assert.Equal(t, "v", sess.Flash("k", nil))
		assert.Nil(t, sess.Flash("k", nil))
		assert.False(t, sess.Has("k"))
	})

	t.Run("set outside active state", func(t *testing.T) {
		t.Parallel()
		sess := newManager(t, testConfig()).Detached("", clientA)

		assert.ErrorIs(t, sess.Set("k", "v"), session.ErrSessionNotActive)
		assert.False(t, sess.Has("k"))
		assert.Equal(t, "d", sess.Flash("k", "d"))
	})

	t.Run("fingerprint key is reserved", func(t *testing.T) {
		t.Parallel()
		sess := startDetached(t, newManager(t, testConfig()), "", clientA)
		fp := sess.Fingerprint()

		assert.ErrorIs(t, sess.Set(session.FingerprintKey, "forged"), session.ErrReservedKey)
		sess.Delete(session.FingerprintKey)
		assert.Nil(t, sess.Flash(session.FingerprintKey, nil))
		assert.False(t, sess.Has(session.FingerprintKey))
		assert.NotContains(t, sess.Keys(), session.FingerprintKey)
		assert.Equal(t, fp, sess.Fingerprint())
	})

	t.Run("keys are sorted", func(t *testing.T) {
		t.Parallel()
		sess := startDetached(t, newManager(t, testConfig()), "", clientA)

		require.NoError(t, sess.Set("b", 1))
		require.NoError(t, sess.Set("a", 2))
		assert.Equal(t, []string{"a", "b"}, sess.Keys())
	})

	t.Run("typed getters after round trip", func(t *testing.T) {
		t.Parallel()
		ctx := context.Background()
		m := newManager(t, testConfig())
		sess := startDetached(t, m, "", clientA)

		require.NoError(t, sess.Set("name", "alice"))
		require.NoError(t, sess.Set("count", 42))
		require.NoError(t, sess.Set("admin", true))
		require.NoError(t, sess.Set("ratio", 0.5))
		require.NoError(t, sess.Save(ctx))

		loaded := startDetached(t, m, sess.ID(), clientA)
		assert.Equal(t, "alice", loaded.GetString("name", ""))
		assert.Equal(t, 42, loaded.GetInt("count", 0))
		assert.True(t, loaded.GetBool("admin", false))
		assert.Equal(t, 7, loaded.GetInt("ratio", 7))
		assert.Equal(t, "x", loaded.GetString("count", "x"))
		assert.Equal(t, 0, loaded.GetInt("missing", 0))
	})
}

func TestFacade_NilAndEncoding(t *testing.T) {
	t.Parallel()

	t.Run("nil value reads as unset", func(t *testing.T) {
		t.Parallel()
		sess := startDetached(t, newManager(t, testConfig()), "", clientA)

		require.NoError(t, sess.Set("k", nil))
		assert.False(t, sess.Has("k"))
		assert.Equal(t, "d", sess.Get("k", "d"))
		assert.Equal(t, "d", sess.GetString("k", "d"))
		assert.NotContains(t, sess.Keys(), "k")
		assert.Equal(t, "d", sess.Flash("k", "d"))
	})

	t.Run("nil survives a round trip as unset", func(t *testing.T) {
		t.Parallel()
		m := newManager(t, testConfig())
		sess := startDetached(t, m, "", clientA)

		require.NoError(t, sess.Set("k", nil))
		require.NoError(t, sess.Save(context.Background()))

		loaded := startDetached(t, m, sess.ID(), clientA)
		assert.False(t, loaded.Has("k"))
		assert.Equal(t, 1, loaded.Get("k", 1))
	})

	t.Run("unserializable value is rejected", func(t *testing.T) {
		t.Parallel()
		sess := startDetached(t, newManager(t, testConfig()), "", clientA)

		err := sess.Set("ch", make(chan int))
		require.ErrorIs(t, err, session.ErrEncode)
		assert.NotErrorIs(t, err, session.ErrDecode)
		assert.False(t, sess.Has("ch"))
		assert.NoError(t, sess.Save(context.Background()))
	})
}
