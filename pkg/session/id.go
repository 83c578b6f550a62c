package session

import (
	"crypto/rand"
	"encoding/base64"

	"github.com/google/uuid"
)

// IDGenerator produces new session identifiers.
type IDGenerator func() (string, error)

// RandomID returns 32 random bytes encoded as unpadded base64url.
func RandomID() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

// UUIDID returns a random UUIDv4 string. It carries 122 random bits, fewer
// than RandomID, but fits stores with UUID-typed keys.
func UUIDID() (string, error) {
	id, err := uuid.NewRandom()
	if err != nil {
		return "", err
	}
	return id.String(), nil
}
