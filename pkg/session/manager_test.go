package session_test

import (
	"context"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/sessionkit/pkg/session"
)

type closingStore struct {
	session.NullStore
	closed atomic.Bool
	gcRuns atomic.Int32
}

func (s *closingStore) GC(context.Context, time.Duration) (int, error) {
	s.gcRuns.Add(1)
	return 0, nil
}

func (s *closingStore) Close() error {
	s.closed.Store(true)
	return nil
}

func TestNew(t *testing.T) {
	t.Parallel()

	t.Run("missing secret", func(t *testing.T) {
		t.Parallel()
		_, err := session.New(session.WithTransport(session.NewHeaderTransport("X-Session")))
		assert.ErrorIs(t, err, session.ErrConfiguration)
	})

	t.Run("client reference without transport", func(t *testing.T) {
		t.Parallel()
		_, err := session.New(session.WithConfig(testConfig()))
		assert.ErrorIs(t, err, session.ErrConfiguration)
	})

	t.Run("no client reference needs no transport", func(t *testing.T) {
		t.Parallel()
		cfg := testConfig()
		cfg.UseClientReference = false
		m, err := session.New(session.WithConfig(cfg))
		require.NoError(t, err)
		require.NoError(t, m.Close())
	})

	t.Run("cookie manager provides default transport", func(t *testing.T) {
		t.Parallel()
		m, err := session.NewFromConfig(testConfig(), session.WithCookieManager(newCookieManager(t)))
		require.NoError(t, err)
		require.NoError(t, m.Close())
	})
}

func TestManager_Open(t *testing.T) {
	t.Parallel()
	m := newManager(t, testConfig())

	r := httptest.NewRequest("GET", "/", nil)
	r.Header.Set("User-Agent", "X")
	w := httptest.NewRecorder()

	sess := m.Open(w, r)
	assert.Equal(t, session.StateClosed, sess.State())
	assert.False(t, sess.Exists())

	ok, err := sess.Start(r.Context())
	require.NoError(t, err)
	assert.True(t, ok)
	assert.True(t, sess.Exists())
	assert.Equal(t, "Bearer "+sess.ID(), w.Header().Get("X-Session"))

	_, err = sess.Stop(r.Context())
	require.NoError(t, err)
	assert.False(t, sess.Exists())
	assert.Empty(t, w.Header().Get("X-Session"))
}

func TestManager_GC(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("delegates to store", func(t *testing.T) {
		t.Parallel()
		now := time.Now()
		clock := func() time.Time { return now }
		store := session.NewMemoryStore(session.WithMemoryClock(clock))
		m := newManager(t, testConfig(), session.WithStore(store), session.WithClock(clock))

		startDetached(t, m, "", clientA)
		startDetached(t, m, "", clientB)
		require.Equal(t, 2, store.Len())

		now = now.Add(time.Hour)
		n, err := m.GC(ctx)
		require.NoError(t, err)
		assert.Equal(t, 2, n)
		assert.Equal(t, 0, store.Len())
	})

	t.Run("store without collector", func(t *testing.T) {
		t.Parallel()
		m := newManager(t, testConfig(), session.WithStore(struct{ session.Store }{session.NewNullStore()}))
		n, err := m.GC(ctx)
		require.NoError(t, err)
		assert.Zero(t, n)
	})

	t.Run("background cleanup and close", func(t *testing.T) {
		t.Parallel()
		store := &closingStore{}
		cfg := testConfig()
		cfg.CleanupInterval = 10 * time.Millisecond
		m, err := session.New(
			session.WithConfig(cfg),
			session.WithStore(store),
			session.WithTransport(session.NewHeaderTransport("X-Session")),
		)
		require.NoError(t, err)

		assert.Eventually(t, func() bool { return store.gcRuns.Load() > 0 }, time.Second, 5*time.Millisecond)

		require.NoError(t, m.Close())
		require.NoError(t, m.Close())
		assert.True(t, store.closed.Load())
	})
}
