// Package cookie wraps net/http cookies with signing and authenticated
// encryption. The session package uses it to carry the session identifier.
//
//	man, err := cookie.New([]string{os.Getenv("COOKIE_SECRET")}) // >= 32 chars
//	_ = man.SetEncrypted(w, "sid", id, cookie.WithMaxAge(3600))
//	id, err := man.GetEncrypted(r, "sid")
//
// Signed values carry an HMAC-SHA256 over the raw value. Encrypted values use
// AES-256-GCM via pkg/secrets with a key derived from the secret. Several
// secrets may be configured for rotation: the first one writes, all of them
// read.
//
// Config can be populated from the environment (COOKIE_*) through pkg/config.
// Failures are reported with sentinel errors such as ErrCookieNotFound,
// ErrInvalidSignature and ErrDecryptionFailed.
package cookie
