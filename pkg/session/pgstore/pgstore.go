// Package pgstore stores sessions in a PostgreSQL table.
//
// The schema ships as goose migrations in Migrations; apply them with
// pg.Migrate(ctx, pool, cfg, pgstore.Migrations, pgstore.MigrationsDir, log).
package pgstore

import (
	"context"
	"embed"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/dmitrymomot/sessionkit/pkg/pg"
	"github.com/dmitrymomot/sessionkit/pkg/session"
)

// Migrations holds the goose migrations for the sessions table.
//
//go:embed migrations/*.sql
var Migrations embed.FS

// MigrationsDir is the directory inside Migrations.
const MigrationsDir = "migrations"

// DB is satisfied by *pgxpool.Pool, *pgx.Conn and pgx.Tx.
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

const (
	readQuery = `SELECT sess_data FROM sessions
WHERE sess_id = $1 AND (expires_at IS NULL OR expires_at > $2)`

	writeQuery = `INSERT INTO sessions (sess_id, sess_data, sess_time, expires_at)
VALUES ($1, $2, $3, $4)
ON CONFLICT (sess_id) DO UPDATE
SET sess_data = EXCLUDED.sess_data, sess_time = EXCLUDED.sess_time, expires_at = EXCLUDED.expires_at`

	destroyQuery = `DELETE FROM sessions WHERE sess_id = $1`

	gcQuery = `DELETE FROM sessions WHERE sess_time < $1 OR expires_at <= $2`

	expiredQuery = `DELETE FROM sessions WHERE expires_at <= $1`
)

// Store implements session.Store and session.GarbageCollector.
type Store struct {
	db  DB
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

// New creates a store on top of db. The connection is owned by the caller.
func New(db DB, opts ...Option) *Store {
	s := &Store{db: db, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Store) Read(ctx context.Context, id string) ([]byte, error) {
	var data []byte
	err := s.db.QueryRow(ctx, readQuery, id, s.now()).Scan(&data)
	if pg.IsNotFoundError(err) {
		return nil, session.ErrSessionNotFound
	}
	if err != nil {
		return nil, err
	}
	return data, nil
}

// Write upserts the row. A non-positive ttl stores NULL in expires_at.
func (s *Store) Write(ctx context.Context, id string, data []byte, ttl time.Duration) error {
	now := s.now()
	var expiresAt *time.Time
	if ttl > 0 {
		t := now.Add(ttl)
		expiresAt = &t
	}
	_, err := s.db.Exec(ctx, writeQuery, id, data, now, expiresAt)
	return err
}

func (s *Store) Destroy(ctx context.Context, id string) error {
	_, err := s.db.Exec(ctx, destroyQuery, id)
	return err
}

// GC deletes rows past expires_at and, when maxLifetime is positive, rows
// not written for maxLifetime.
func (s *Store) GC(ctx context.Context, maxLifetime time.Duration) (int, error) {
	now := s.now()

	var (
		tag pgconn.CommandTag
		err error
	)
	if maxLifetime > 0 {
		tag, err = s.db.Exec(ctx, gcQuery, now.Add(-maxLifetime), now)
	} else {
		tag, err = s.db.Exec(ctx, expiredQuery, now)
	}
	if err != nil {
		return 0, err
	}
	return int(tag.RowsAffected()), nil
}
