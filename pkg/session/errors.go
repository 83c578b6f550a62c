package session

import (
	"errors"

	"github.com/dmitrymomot/sessionkit/pkg/fingerprint"
)

var (
	// ErrConfiguration indicates an invalid or missing option. It is only
	// returned while building a Manager.
	ErrConfiguration = errors.New("session.configuration")

	// ErrMissingClientAttribute indicates a bound client attribute (address
	// or agent) was not supplied. Use errors.As with
	// *fingerprint.MissingAttributeError to learn which one.
	ErrMissingClientAttribute = fingerprint.ErrMissingClientAttribute

	// ErrInvalidFingerprint indicates the client does not match the
	// fingerprint bound to the session. The session is already stopped
	// when this error is returned.
	ErrInvalidFingerprint = errors.New("session.invalid_fingerprint")

	// ErrSessionNotActive indicates a mutation outside the Active state.
	ErrSessionNotActive = errors.New("session.not_active")

	// ErrSessionNotFound is returned by stores for unknown or expired ids.
	ErrSessionNotFound = errors.New("session.not_found")

	// ErrStorage wraps failures reported by a Store.
	ErrStorage = errors.New("session.storage")

	// ErrSessionExpired indicates the session reached its max lifetime
	// while in use. It has been stopped and its entry destroyed.
	ErrSessionExpired = errors.New("session.expired")

	// ErrEncode indicates the session data could not be serialized, usually
	// because a value is not representable as JSON.
	ErrEncode = errors.New("session.encode")

	// ErrDecode indicates a stored payload could not be decrypted or parsed.
	ErrDecode = errors.New("session.decode")

	// ErrReservedKey indicates an attempt to write a key owned by the session itself.
	ErrReservedKey = errors.New("session.reserved_key")

	// ErrIDGeneration indicates the id generator failed.
	ErrIDGeneration = errors.New("session.id_generation_failed")
)
