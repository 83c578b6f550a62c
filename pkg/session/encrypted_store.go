package session

import (
	"context"
	"errors"
	"time"
)

// Codec encrypts payloads before they reach a store. Decrypt must fail on
// tampered or truncated input. *secrets.Cipher satisfies it.
type Codec interface {
	Encrypt(plaintext []byte) ([]byte, error)
	Decrypt(ciphertext []byte) ([]byte, error)
}

// EncryptedStore decorates a Store with authenticated encryption.
// Payloads that fail to decrypt are reported as ErrDecode.
type EncryptedStore struct {
	next  Store
	codec Codec
}

// NewEncryptedStore wraps next so that every payload is encrypted at rest.
func NewEncryptedStore(next Store, codec Codec) *EncryptedStore {
	return &EncryptedStore{next: next, codec: codec}
}

func (s *EncryptedStore) Read(ctx context.Context, id string) ([]byte, error) {
	ciphertext, err := s.next.Read(ctx, id)
	if err != nil {
		return nil, err
	}
	plaintext, err := s.codec.Decrypt(ciphertext)
	if err != nil {
		return nil, errors.Join(ErrDecode, err)
	}
	return plaintext, nil
}

func (s *EncryptedStore) Write(ctx context.Context, id string, data []byte, ttl time.Duration) error {
	ciphertext, err := s.codec.Encrypt(data)
	if err != nil {
		return err
	}
	return s.next.Write(ctx, id, ciphertext, ttl)
}

func (s *EncryptedStore) Destroy(ctx context.Context, id string) error {
	return s.next.Destroy(ctx, id)
}

// GC delegates to the wrapped store when it collects garbage itself.
func (s *EncryptedStore) GC(ctx context.Context, maxLifetime time.Duration) (int, error) {
	if gc, ok := s.next.(GarbageCollector); ok {
		return gc.GC(ctx, maxLifetime)
	}
	return 0, nil
}

// Close closes the wrapped store when it has a Close method.
func (s *EncryptedStore) Close() error {
	if c, ok := s.next.(interface{ Close() error }); ok {
		return c.Close()
	}
	return nil
}
