package session

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/dmitrymomot/sessionkit/pkg/clientip"
	"github.com/dmitrymomot/sessionkit/pkg/cookie"
	"github.com/dmitrymomot/sessionkit/pkg/fingerprint"
	"github.com/dmitrymomot/sessionkit/pkg/logger"
)

// Manager holds process-wide session configuration and collaborators and
// hands out per-request Session handles. It is safe for concurrent use.
type Manager struct {
	store         Store
	transport     Transport
	config        Config
	cookieManager *cookie.Manager
	cookieOptions []cookie.Option
	logger        *slog.Logger
	observer      Observer
	newID         IDGenerator
	resolver      *clientip.Resolver
	errorHandler  ErrorHandler
	now           func() time.Time

	done      chan struct{}
	closeOnce sync.Once
	wg        sync.WaitGroup
}

// New creates a session manager. The configuration is validated here:
// a missing secret or an unusable transport setup yields ErrConfiguration.
func New(opts ...Option) (*Manager, error) {
	m := &Manager{
		config:   DefaultConfig(),
		logger:   logger.Discard(),
		observer: noopObserver{},
		newID:    RandomID,
		resolver: clientip.New(),
		now:      time.Now,
		done:     make(chan struct{}),
	}
	m.errorHandler = m.defaultErrorHandler

	for _, opt := range opts {
		opt(m)
	}

	if err := m.config.Validate(); err != nil {
		return nil, err
	}

	if m.store == nil {
		m.store = NewMemoryStore()
	}

	if m.transport == nil && m.config.UseClientReference {
		if m.cookieManager == nil {
			return nil, errors.Join(ErrConfiguration, errors.New("cookie manager or transport is required when client references are used"))
		}
		m.transport = NewCookieTransport(m.cookieManager, m.config.CookieName, m.config.SecureCookies, m.cookieOptions...)
	}

	m.logger = m.logger.With(logger.Component("session"))

	if m.config.CleanupInterval > 0 {
		if _, ok := m.store.(GarbageCollector); ok {
			m.wg.Add(1)
			go m.cleanupLoop()
		}
	}

	return m, nil
}

// NewFromConfig creates a Manager from the provided Config.
func NewFromConfig(cfg Config, opts ...Option) (*Manager, error) {
	return New(append([]Option{WithConfig(cfg)}, opts...)...)
}

// Config returns a copy of the manager configuration.
func (m *Manager) Config() Config {
	return m.config
}

// Open returns a Closed session handle bound to an HTTP exchange.
// Call Start on it before using the data facade.
func (m *Manager) Open(w http.ResponseWriter, r *http.Request) *Session {
	var ref ClientReference
	if m.config.UseClientReference && m.transport != nil {
		ref = &httpReference{transport: m.transport, w: w, r: r}
	}
	return m.newSession(ref, fingerprint.FromRequestWith(m.resolver, r), true)
}

// Detached returns a Closed session handle for headless execution such as
// background jobs. It resumes id when it is non-empty, otherwise Start
// creates a new session. Exists always reports false for such handles.
func (m *Manager) Detached(id string, client fingerprint.Input) *Session {
	return m.newSession(&staticReference{id: id}, client, false)
}

// GC removes stale sessions from stores that implement GarbageCollector.
// Stores that expire entries themselves report zero.
func (m *Manager) GC(ctx context.Context) (int, error) {
	gc, ok := m.store.(GarbageCollector)
	if !ok {
		return 0, nil
	}
	n, err := gc.GC(ctx, m.config.IdleTimeout)
	if err != nil {
		m.observer.StorageFailed("gc")
		return n, errors.Join(ErrStorage, err)
	}
	return n, nil
}

// Close stops background cleanup and closes the store when it has a
// Close method.
func (m *Manager) Close() error {
	var err error
	m.closeOnce.Do(func() {
		close(m.done)
		m.wg.Wait()
		if c, ok := m.store.(interface{ Close() error }); ok {
			err = c.Close()
		}
	})
	return err
}

func (m *Manager) cleanupLoop() {
	defer m.wg.Done()

	ticker := time.NewTicker(m.config.CleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			n, err := m.GC(context.Background())
			if err != nil {
				m.logger.Error("session cleanup failed", logger.Error(err))
				continue
			}
			if n > 0 {
				m.logger.Debug("expired sessions removed", logger.Count(n))
			}
		case <-m.done:
			return
		}
	}
}

// ttlFor returns the storage ttl for a session created at createdAt:
// the idle timeout, capped by what is left of the absolute lifetime.
func (m *Manager) ttlFor(createdAt time.Time) time.Duration {
	ttl := m.config.IdleTimeout
	if m.config.MaxLifetime > 0 {
		remaining := createdAt.Add(m.config.MaxLifetime).Sub(m.now())
		if ttl <= 0 || remaining < ttl {
			ttl = remaining
		}
	}
	return ttl
}

func (m *Manager) expired(createdAt time.Time) bool {
	return m.config.MaxLifetime > 0 && !m.now().Before(createdAt.Add(m.config.MaxLifetime))
}

func (m *Manager) defaultErrorHandler(w http.ResponseWriter, _ *http.Request, err error) {
	switch {
	case errors.Is(err, ErrInvalidFingerprint), errors.Is(err, ErrMissingClientAttribute):
		http.Error(w, http.StatusText(http.StatusForbidden), http.StatusForbidden)
	default:
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
	}
}
