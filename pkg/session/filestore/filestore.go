// Package filestore stores each session in its own file named
// "sess_<id>" inside a directory.
//
// Files start with an 8-byte big-endian expiry (unix nanoseconds, zero for
// none) followed by the payload. GC removes expired files and files whose
// modification time is older than the max lifetime.
package filestore

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/dmitrymomot/sessionkit/pkg/session"
)

// FilePrefix is prepended to the session id to form the file name.
const FilePrefix = "sess_"

const headerSize = 8

var (
	ErrInvalidConfig = errors.New("filestore.invalid_config")
	ErrInvalidID     = errors.New("filestore.invalid_id")
)

// Store implements session.Store and session.GarbageCollector.
// It is safe for concurrent use; writes replace files atomically.
type Store struct {
	dir string
	now func() time.Time
}

// Option configures a Store.
type Option func(*Store)

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		if now != nil {
			s.now = now
		}
	}
}

// New creates the directory if needed and returns a store rooted at it.
func New(dir string, opts ...Option) (*Store, error) {
	if dir == "" {
		return nil, ErrInvalidConfig
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, errors.Join(ErrInvalidConfig, err)
	}
	if err := os.MkdirAll(abs, 0o700); err != nil {
		return nil, fmt.Errorf("filestore: create directory: %w", err)
	}

	s := &Store{dir: abs, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Dir returns the absolute storage directory.
func (s *Store) Dir() string { return s.dir }

// Read returns ErrSessionNotFound for missing, expired and malformed ids.
func (s *Store) Read(ctx context.Context, id string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	path, err := s.path(id)
	if err != nil {
		return nil, session.ErrSessionNotFound
	}

	b, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, session.ErrSessionNotFound
	}
	if err != nil {
		return nil, err
	}
	if len(b) < headerSize {
		return nil, errors.Join(session.ErrDecode, errors.New("filestore: truncated file"))
	}
	if s.expired(b, s.now()) {
		return nil, session.ErrSessionNotFound
	}
	return b[headerSize:], nil
}

func (s *Store) Write(ctx context.Context, id string, data []byte, ttl time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	path, err := s.path(id)
	if err != nil {
		return err
	}

	buf := make([]byte, headerSize+len(data))
	if ttl > 0 {
		binary.BigEndian.PutUint64(buf, uint64(s.now().Add(ttl).UnixNano()))
	}
	copy(buf[headerSize:], data)

	tmp, err := os.CreateTemp(s.dir, ".tmp_"+FilePrefix+"*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(buf); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return err
	}
	if err := os.Rename(tmpName, path); err != nil {
		_ = os.Remove(tmpName)
		return err
	}
	return nil
}

func (s *Store) Destroy(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	path, err := s.path(id)
	if err != nil {
		return nil
	}
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}

// GC removes expired session files and files not modified for maxLifetime.
func (s *Store) GC(ctx context.Context, maxLifetime time.Duration) (int, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return 0, err
	}

	now := s.now()
	removed := 0
	var errs []error
	for _, e := range entries {
		if err := ctx.Err(); err != nil {
			return removed, err
		}
		if e.IsDir() || !strings.HasPrefix(e.Name(), FilePrefix) {
			continue
		}
		path := filepath.Join(s.dir, e.Name())
		if !s.stale(path, e, now, maxLifetime) {
			continue
		}
		if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
			errs = append(errs, err)
			continue
		}
		removed++
	}
	return removed, errors.Join(errs...)
}

func (s *Store) stale(path string, e fs.DirEntry, now time.Time, maxLifetime time.Duration) bool {
	if maxLifetime > 0 {
		info, err := e.Info()
		if err == nil && info.ModTime().Add(maxLifetime).Before(now) {
			return true
		}
	}

	f, err := os.Open(path)
	if err != nil {
		return false
	}
	defer func() { _ = f.Close() }()

	header := make([]byte, headerSize)
	if _, err := f.Read(header); err != nil {
		return false
	}
	return s.expired(header, now)
}

func (s *Store) expired(b []byte, now time.Time) bool {
	exp := int64(binary.BigEndian.Uint64(b[:headerSize]))
	return exp != 0 && now.UnixNano() >= exp
}

// path confines ids to plain file names inside the store directory.
func (s *Store) path(id string) (string, error) {
	if id == "" || len(id) > 128 {
		return "", ErrInvalidID
	}
	for _, r := range id {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
		default:
			return "", ErrInvalidID
		}
	}
	return filepath.Join(s.dir, FilePrefix+id), nil
}
