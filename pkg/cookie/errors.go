package cookie

import "errors"

var (
	// ErrNoSecret is returned by New when no usable secret is given.
	ErrNoSecret = errors.New("cookie.no_secret")
	// ErrSecretTooShort is returned by New for secrets under 32 characters.
	ErrSecretTooShort = errors.New("cookie.secret_too_short")

	ErrCookieNotFound = errors.New("cookie.not_found")

	// ErrInvalidFormat means the value is not a signed or sealed payload,
	// typically a tampered or truncated cookie.
	ErrInvalidFormat = errors.New("cookie.invalid_format")
	// ErrInvalidSignature means no configured secret verifies the value.
	ErrInvalidSignature = errors.New("cookie.invalid_signature")
	// ErrDecryptionFailed means no configured secret opens the sealed value.
	ErrDecryptionFailed = errors.New("cookie.decryption_failed")
)
