package session_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/sessionkit/pkg/fingerprint"
	"github.com/dmitrymomot/sessionkit/pkg/session"
)

const testSecret = "S"

var (
	clientA = fingerprint.Input{Address: "1.2.3.4", Agent: "X"}
	clientB = fingerprint.Input{Address: "9.9.9.9", Agent: "X"}
)

func testConfig() session.Config {
	cfg := session.DefaultConfig()
	cfg.Secret = testSecret
	return cfg
}

func newManager(t *testing.T, cfg session.Config, opts ...session.Option) *session.Manager {
	t.Helper()

	base := []session.Option{
		session.WithConfig(cfg),
		session.WithTransport(session.NewHeaderTransport("X-Session")),
	}
	m, err := session.New(append(base, opts...)...)
	require.NoError(t, err)
	t.Cleanup(func() { _ = m.Close() })
	return m
}

func startDetached(t *testing.T, m *session.Manager, id string, client fingerprint.Input) *session.Session {
	t.Helper()

	sess := m.Detached(id, client)
	ok, err := sess.Start(context.Background())
	require.NoError(t, err)
	require.True(t, ok)
	return sess
}

// failingStore fails the operations that are switched on.
type failingStore struct {
	*session.MemoryStore
	failRead    bool
	failWrite   bool
	failDestroy bool
}

var errBackend = errors.New("backend unavailable")

func (s *failingStore) Read(ctx context.Context, id string) ([]byte, error) {
	if s.failRead {
		return nil, errBackend
	}
	return s.MemoryStore.Read(ctx, id)
}

func (s *failingStore) Write(ctx context.Context, id string, data []byte, ttl time.Duration) error {
	if s.failWrite {
		return errBackend
	}
	return s.MemoryStore.Write(ctx, id, data, ttl)
}

func (s *failingStore) Destroy(ctx context.Context, id string) error {
	if s.failDestroy {
		return errBackend
	}
	return s.MemoryStore.Destroy(ctx, id)
}

type spyObserver struct {
	mu           sync.Mutex
	started      int
	resumed      int
	stopped      int
	regenerated  int
	mismatches   int
	missing      []fingerprint.Attribute
	storageFails []string
}

func (o *spyObserver) SessionStarted(resumed bool) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.started++
	if resumed {
		o.resumed++
	}
}

func (o *spyObserver) SessionStopped() {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.stopped++
}

func (o *spyObserver) SessionRegenerated() {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.regenerated++
}

func (o *spyObserver) FingerprintMismatch(bool) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.mismatches++
}

func (o *spyObserver) ClientAttributeMissing(attr fingerprint.Attribute, _ bool) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.missing = append(o.missing, attr)
}

func (o *spyObserver) StorageFailed(op string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.storageFails = append(o.storageFails, op)
}

// fakeClock is a manually advanced time source.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}
