package session

import (
	"context"
	"time"
)

// NullStore persists nothing. Reads never find a session and writes always
// succeed, so every request gets a fresh session.
type NullStore struct{}

// NewNullStore creates a NullStore.
func NewNullStore() NullStore { return NullStore{} }

func (NullStore) Read(context.Context, string) ([]byte, error) { return nil, ErrSessionNotFound }

func (NullStore) Write(context.Context, string, []byte, time.Duration) error { return nil }

func (NullStore) Destroy(context.Context, string) error { return nil }

func (NullStore) GC(context.Context, time.Duration) (int, error) { return 0, nil }
