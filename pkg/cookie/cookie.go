package cookie

import (
	"crypto/hmac"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"slices"
	"strings"
	"time"

	"github.com/dmitrymomot/sessionkit/pkg/secrets"
)

const (
	minSecretLength = 32
	cipherPurpose   = "sessionkit-cookie-v1"
)

// Manager reads and writes plain, signed and encrypted cookies.
// The first secret signs and encrypts; all secrets are accepted on read.
type Manager struct {
	secrets  []string
	cipher   *secrets.Cipher
	defaults Options
}

// New creates a cookie manager. Every secret must be at least 32 characters.
func New(keys []string, opts ...Option) (*Manager, error) {
	keys = slices.DeleteFunc(slices.Clone(keys), func(s string) bool { return s == "" })
	if len(keys) == 0 {
		return nil, ErrNoSecret
	}

	masters := make([][]byte, 0, len(keys))
	for i, s := range keys {
		if len(s) < minSecretLength {
			return nil, fmt.Errorf("%w: secret %d has %d chars, need at least %d", ErrSecretTooShort, i, len(s), minSecretLength)
		}
		sum := sha256.Sum256([]byte(s))
		masters = append(masters, sum[:])
	}

	c, err := secrets.NewCipher(cipherPurpose, masters...)
	if err != nil {
		return nil, errors.Join(ErrNoSecret, err)
	}

	defaults := Options{
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}.with(opts)

	return &Manager{secrets: keys, cipher: c, defaults: defaults}, nil
}

// Set writes a plain cookie.
func (m *Manager) Set(w http.ResponseWriter, name, value string, opts ...Option) error {
	http.SetCookie(w, m.defaults.with(opts).cookie(name, value))
	return nil
}

// Get reads a plain cookie.
func (m *Manager) Get(r *http.Request, name string) (string, error) {
	c, err := r.Cookie(name)
	if err != nil {
		if errors.Is(err, http.ErrNoCookie) {
			return "", ErrCookieNotFound
		}
		return "", err
	}
	return c.Value, nil
}

// Delete expires a cookie using the manager defaults.
func (m *Manager) Delete(w http.ResponseWriter, name string) {
	c := m.defaults.with([]Option{WithMaxAge(-1)}).cookie(name, "")
	c.Expires = time.Unix(0, 0)
	http.SetCookie(w, c)
}

// SetSigned writes a value with an HMAC-SHA256 signature.
func (m *Manager) SetSigned(w http.ResponseWriter, name, value string, opts ...Option) error {
	return m.Set(w, name, m.sign(value), opts...)
}

// GetSigned reads a signed cookie and verifies its signature.
func (m *Manager) GetSigned(r *http.Request, name string) (string, error) {
	signed, err := m.Get(r, name)
	if err != nil {
		return "", err
	}
	return m.verify(signed)
}

// SetEncrypted writes an AES-GCM encrypted value.
func (m *Manager) SetEncrypted(w http.ResponseWriter, name, value string, opts ...Option) error {
	sealed, err := m.cipher.EncryptString(value)
	if err != nil {
		return err
	}
	return m.Set(w, name, sealed, opts...)
}

// GetEncrypted reads and decrypts an encrypted cookie.
func (m *Manager) GetEncrypted(r *http.Request, name string) (string, error) {
	sealed, err := m.Get(r, name)
	if err != nil {
		return "", err
	}
	value, err := m.cipher.DecryptString(sealed)
	if err != nil {
		if errors.Is(err, secrets.ErrInvalidCiphertext) {
			return "", ErrInvalidFormat
		}
		return "", ErrDecryptionFailed
	}
	return value, nil
}

func (m *Manager) sign(value string) string {
	mac := hmac.New(sha256.New, []byte(m.secrets[0]))
	mac.Write([]byte(value))
	return base64.RawURLEncoding.EncodeToString([]byte(value)) + "." + base64.RawURLEncoding.EncodeToString(mac.Sum(nil))
}

func (m *Manager) verify(signed string) (string, error) {
	encoded, signature, ok := strings.Cut(signed, ".")
	if !ok {
		return "", ErrInvalidFormat
	}
	value, err := base64.RawURLEncoding.DecodeString(encoded)
	if err != nil {
		return "", ErrInvalidFormat
	}
	sig, err := base64.RawURLEncoding.DecodeString(signature)
	if err != nil {
		return "", ErrInvalidFormat
	}

	// any configured secret may have signed it
	for _, secret := range m.secrets {
		mac := hmac.New(sha256.New, []byte(secret))
		mac.Write(value)
		if subtle.ConstantTimeCompare(sig, mac.Sum(nil)) == 1 {
			return string(value), nil
		}
	}
	return "", ErrInvalidSignature
}
