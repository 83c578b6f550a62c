package session

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/dmitrymomot/sessionkit/pkg/fingerprint"
	"github.com/dmitrymomot/sessionkit/pkg/logger"
	"github.com/dmitrymomot/sessionkit/pkg/statemachine"
)

// FingerprintKey is the data key the bound fingerprint is stored under.
// It cannot be written or deleted through the data facade.
const FingerprintKey = "_fingerprint"

// Session is a handle to one client session within one execution context.
// It starts Closed; Start loads or creates the stored session and makes it
// Active. Data may only be modified while Active.
//
// A handle serializes its own operations. Two handles resuming the same id
// concurrently are not coordinated: the store decides which write wins.
type Session struct {
	m           *Manager
	ref         ClientReference
	client      fingerprint.Input
	interactive bool
	lifecycle   *statemachine.Machine[State, event]
	logger      *slog.Logger

	mu        sync.Mutex
	id        string
	data      map[string]any
	createdAt time.Time
	updatedAt time.Time
}

func (m *Manager) newSession(ref ClientReference, client fingerprint.Input, interactive bool) *Session {
	return &Session{
		m:           m,
		ref:         ref,
		client:      client,
		interactive: interactive,
		lifecycle:   newLifecycle(m.logger),
		logger:      m.logger,
		data:        make(map[string]any),
	}
}

// ID returns the current session id, or an empty string when Closed.
func (s *Session) ID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.id
}

// State returns the lifecycle state.
func (s *Session) State() State {
	return s.lifecycle.Current()
}

// Exists reports whether the session is Active in an interactive context.
// Detached handles always report false.
func (s *Session) Exists() bool {
	return s.interactive && s.lifecycle.Is(StateActive)
}

// CreatedAt returns when the current session id was first created.
func (s *Session) CreatedAt() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.createdAt
}

// Fingerprint returns the bound fingerprint, if any.
func (s *Session) Fingerprint() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	fp, _ := s.data[FingerprintKey].(string)
	return fp
}

// Start resumes the session referenced by the client or creates a new one,
// then validates the fingerprint binding when fingerprinting is enabled.
//
// It reports whether the session is Active. A fingerprint mismatch always
// stops the session first; in strict mode ErrInvalidFingerprint is returned,
// in lenient mode Start returns false and a nil error. A missing client
// attribute is an error only in strict mode. Calling Start on an Active
// session is a no-op.
func (s *Session) Start(ctx context.Context) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.startLocked(ctx)
}

func (s *Session) startLocked(ctx context.Context) (bool, error) {
	if s.lifecycle.Is(StateActive) {
		return true, nil
	}

	rec, resumed, err := s.load(ctx)
	if err != nil {
		return false, err
	}

	if !resumed {
		id, err := s.m.newID()
		if err != nil {
			return false, errors.Join(ErrIDGeneration, err)
		}
		s.id = id
	}
	s.data = rec.Data
	s.createdAt = rec.CreatedAt
	s.updatedAt = rec.UpdatedAt

	if err := s.lifecycle.Fire(ctx, eventStart); err != nil {
		s.reset()
		return false, err
	}

	if s.m.config.Fingerprinting {
		if ok, err := s.bindFingerprint(ctx); !ok {
			return false, err
		}
	}

	if !resumed {
		if err := s.persist(ctx, "create"); err != nil {
			_, _ = s.stopLocked(ctx)
			return false, err
		}
	}

	if s.ref != nil {
		if err := s.ref.Issue(s.id, s.m.ttlFor(s.createdAt)); err != nil {
			s.logger.WarnContext(ctx, "failed to issue session reference",
				logger.SessionID(s.id),
				logger.Error(err),
			)
		}
	}

	s.m.observer.SessionStarted(resumed)
	return true, nil
}

// load reads the session the client refers to. It reports resumed=false
// with a fresh record when there is nothing usable to resume.
func (s *Session) load(ctx context.Context) (record, bool, error) {
	now := s.m.now()
	fresh := record{Data: make(map[string]any), CreatedAt: now, UpdatedAt: now}

	if s.ref == nil {
		return fresh, false, nil
	}
	id, ok := s.ref.Current()
	if !ok {
		return fresh, false, nil
	}

	raw, err := s.m.store.Read(ctx, id)
	switch {
	case errors.Is(err, ErrSessionNotFound):
		// Unknown ids are never adopted.
		return fresh, false, nil
	case err != nil && !errors.Is(err, ErrDecode):
		s.m.observer.StorageFailed("read")
		return record{}, false, errors.Join(ErrStorage, err)
	}

	var rec record
	if err == nil {
		rec, err = decodeRecord(raw)
	}
	if err != nil {
		s.logger.WarnContext(ctx, "discarding undecodable session",
			logger.SessionID(id),
			logger.Error(err),
		)
		s.destroyQuietly(ctx, id)
		return fresh, false, nil
	}

	if s.m.expired(rec.CreatedAt) {
		s.logger.DebugContext(ctx, "session reached max lifetime", logger.SessionID(id))
		s.destroyQuietly(ctx, id)
		return fresh, false, nil
	}

	s.id = id
	return rec, true, nil
}

// bindFingerprint binds the fingerprint on first visit or validates it.
// It returns false when the session had to be stopped.
func (s *Session) bindFingerprint(ctx context.Context) (bool, error) {
	current, err := s.computeFingerprint(ctx)
	if err != nil {
		_, _ = s.stopLocked(ctx)
		return false, err
	}

	bound, ok := s.data[FingerprintKey].(string)
	if !ok || bound == "" {
		s.data[FingerprintKey] = current
		return true, nil
	}
	if fingerprint.Equal(bound, current) {
		return true, nil
	}

	strict := s.m.config.Strict
	s.m.observer.FingerprintMismatch(strict)
	s.logger.WarnContext(ctx, "session fingerprint mismatch",
		logger.SessionID(s.id),
		logger.Fingerprint(current),
		logger.ClientAddress(s.client.Address),
		slog.Bool("strict", strict),
	)

	if err := s.lifecycle.Fire(ctx, eventInvalidate); err != nil {
		return false, err
	}
	if _, err := s.stopLocked(ctx); err != nil {
		// The hijacked entry may still be in the store, so lenient mode
		// cannot silently carry on with a fresh session either.
		s.logger.ErrorContext(ctx, "failed to destroy hijacked session", logger.Error(err))
		if strict {
			return false, errors.Join(ErrInvalidFingerprint, err)
		}
		return false, err
	}

	if strict {
		return false, ErrInvalidFingerprint
	}
	return false, nil
}

// computeFingerprint applies the strict or lenient policy for absent
// client attributes.
func (s *Session) computeFingerprint(ctx context.Context) (string, error) {
	cfg := s.m.config
	fp, err := fingerprint.Generate(cfg.fingerprintConfig(false), s.client)
	if err == nil {
		return fp, nil
	}

	var missing *fingerprint.MissingAttributeError
	if !errors.As(err, &missing) {
		return "", err
	}

	s.m.observer.ClientAttributeMissing(missing.Attribute, cfg.Strict)
	if cfg.Strict {
		return "", err
	}

	s.logger.WarnContext(ctx, "client attribute missing, fingerprint uses placeholder",
		slog.String("attribute", string(missing.Attribute)),
	)
	return fingerprint.Generate(cfg.fingerprintConfig(true), s.client)
}

// Stop clears the data, revokes the client reference and destroys the
// stored entry. Stopping a Closed session is a no-op that returns true.
// The handle ends Closed even when the store fails; the failure is then
// returned wrapped with ErrStorage.
func (s *Session) Stop(ctx context.Context) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stopLocked(ctx)
}

func (s *Session) stopLocked(ctx context.Context) (bool, error) {
	if s.lifecycle.Is(StateClosed) {
		clear(s.data)
		return true, nil
	}

	clear(s.data)

	var errs []error
	if s.ref != nil {
		if err := s.ref.Revoke(); err != nil {
			errs = append(errs, err)
		}
	}
	if s.id != "" {
		if err := s.m.store.Destroy(ctx, s.id); err != nil {
			s.m.observer.StorageFailed("destroy")
			errs = append(errs, errors.Join(ErrStorage, err))
		}
	}

	if err := s.lifecycle.Fire(ctx, eventStop); err != nil {
		errs = append(errs, err)
		s.lifecycle.Reset()
	}
	s.reset()
	s.m.observer.SessionStopped()

	if len(errs) > 0 {
		return false, errors.Join(errs...)
	}
	return true, nil
}

// Invalidate stops the session and starts a fresh one with a new id.
func (s *Session) Invalidate(ctx context.Context) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.stopLocked(ctx); err != nil {
		return false, err
	}
	return s.startLocked(ctx)
}

// Regenerate moves the session data to a new id. With deleteOld the old
// entry is destroyed immediately, otherwise it is left to expire. The bound
// fingerprint is kept; call Rebind to recompute it. It reports whether the
// session now lives under a new id.
func (s *Session) Regenerate(ctx context.Context, deleteOld bool) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.lifecycle.Is(StateActive) {
		return false, ErrSessionNotActive
	}

	if s.m.expired(s.createdAt) {
		return false, s.expireLocked(ctx)
	}

	newID, err := s.m.newID()
	if err != nil {
		return false, errors.Join(ErrIDGeneration, err)
	}

	oldID := s.id
	s.id = newID
	if err := s.persist(ctx, "regenerate"); err != nil {
		if !errors.Is(err, ErrSessionExpired) {
			s.id = oldID
		}
		return false, err
	}

	if deleteOld && oldID != "" {
		if err := s.m.store.Destroy(ctx, oldID); err != nil {
			s.m.observer.StorageFailed("destroy")
			s.logger.WarnContext(ctx, "failed to destroy previous session id",
				logger.SessionID(oldID),
				logger.Error(err),
			)
		}
	}

	if s.ref != nil {
		if err := s.ref.Issue(s.id, s.m.ttlFor(s.createdAt)); err != nil {
			return true, err
		}
	}

	if err := s.lifecycle.Fire(ctx, eventRegenerate); err != nil {
		return true, err
	}
	s.m.observer.SessionRegenerated()
	return true, nil
}

// Rebind recomputes the fingerprint from the handle's client attributes and
// replaces the bound value. Use it after a deliberate change of client,
// typically together with Regenerate on login.
func (s *Session) Rebind(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.lifecycle.Is(StateActive) {
		return ErrSessionNotActive
	}
	fp, err := s.computeFingerprint(ctx)
	if err != nil {
		return err
	}
	s.data[FingerprintKey] = fp
	return nil
}

// Save writes the session data to the store and refreshes its idle timeout.
func (s *Session) Save(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.lifecycle.Is(StateActive) {
		return ErrSessionNotActive
	}
	return s.persist(ctx, "save")
}

// persist writes the record under the current id. A session past its max
// lifetime is stopped instead: a non-positive ttl would mean no expiry.
func (s *Session) persist(ctx context.Context, op string) error {
	ttl := s.m.ttlFor(s.createdAt)
	if s.m.config.MaxLifetime > 0 && ttl <= 0 {
		return s.expireLocked(ctx)
	}

	s.updatedAt = s.m.now()
	b, err := encodeRecord(record{Data: s.data, CreatedAt: s.createdAt, UpdatedAt: s.updatedAt})
	if err != nil {
		return err
	}
	if err := s.m.store.Write(ctx, s.id, b, ttl); err != nil {
		s.m.observer.StorageFailed(op)
		return errors.Join(ErrStorage, err)
	}
	return nil
}

func (s *Session) expireLocked(ctx context.Context) error {
	s.logger.DebugContext(ctx, "session reached max lifetime", logger.SessionID(s.id))
	if _, err := s.stopLocked(ctx); err != nil {
		return errors.Join(ErrSessionExpired, err)
	}
	return ErrSessionExpired
}

func (s *Session) destroyQuietly(ctx context.Context, id string) {
	if err := s.m.store.Destroy(ctx, id); err != nil {
		s.m.observer.StorageFailed("destroy")
		s.logger.WarnContext(ctx, "failed to destroy session", logger.SessionID(id), logger.Error(err))
	}
}

func (s *Session) reset() {
	s.id = ""
	s.data = make(map[string]any)
	s.createdAt = time.Time{}
	s.updatedAt = time.Time{}
}
