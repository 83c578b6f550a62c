package cookie_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/sessionkit/pkg/cookie"
)

const (
	secretA = "test-secret-key-that-is-long-enough"
	secretB = "another-secret-key-that-is-long-enough"
)

// roundTrip copies cookies written to w into a fresh request.
func roundTrip(w *httptest.ResponseRecorder) *http.Request {
	r := httptest.NewRequest("GET", "/", nil)
	for _, c := range w.Result().Cookies() {
		r.AddCookie(c)
	}
	return r
}

func TestNew(t *testing.T) {
	t.Parallel()

	_, err := cookie.New(nil)
	assert.ErrorIs(t, err, cookie.ErrNoSecret)

	_, err = cookie.New([]string{"", ""})
	assert.ErrorIs(t, err, cookie.ErrNoSecret)

	_, err = cookie.New([]string{"short"})
	assert.ErrorIs(t, err, cookie.ErrSecretTooShort)
}

func TestManager_Plain(t *testing.T) {
	t.Parallel()

	m, err := cookie.New([]string{secretA}, cookie.WithSecure(true))
	require.NoError(t, err)

	w := httptest.NewRecorder()
	require.NoError(t, m.Set(w, "name", "value", cookie.WithMaxAge(60)))

	cookies := w.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, "/", cookies[0].Path)
	assert.True(t, cookies[0].HttpOnly)
	assert.True(t, cookies[0].Secure)
	assert.Equal(t, 60, cookies[0].MaxAge)

	v, err := m.Get(roundTrip(w), "name")
	require.NoError(t, err)
	assert.Equal(t, "value", v)

	_, err = m.Get(httptest.NewRequest("GET", "/", nil), "name")
	assert.ErrorIs(t, err, cookie.ErrCookieNotFound)
}

func TestManager_Delete(t *testing.T) {
	t.Parallel()

	m, err := cookie.New([]string{secretA})
	require.NoError(t, err)

	w := httptest.NewRecorder()
	m.Delete(w, "name")
	cookies := w.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, -1, cookies[0].MaxAge)
	assert.Empty(t, cookies[0].Value)
}

func TestManager_Signed(t *testing.T) {
	t.Parallel()

	m, err := cookie.New([]string{secretA})
	require.NoError(t, err)

	t.Run("round trip", func(t *testing.T) {
		t.Parallel()
		w := httptest.NewRecorder()
		require.NoError(t, m.SetSigned(w, "s", "hello"))
		v, err := m.GetSigned(roundTrip(w), "s")
		require.NoError(t, err)
		assert.Equal(t, "hello", v)
	})

	t.Run("tampered", func(t *testing.T) {
		t.Parallel()
		w := httptest.NewRecorder()
		require.NoError(t, m.SetSigned(w, "s", "hello"))
		c := w.Result().Cookies()[0]
		_, sig, _ := strings.Cut(c.Value, ".")

		r := httptest.NewRequest("GET", "/", nil)
		r.AddCookie(&http.Cookie{Name: "s", Value: "d29ybGQ." + sig})
		_, err := m.GetSigned(r, "s")
		assert.ErrorIs(t, err, cookie.ErrInvalidSignature)
	})

	t.Run("malformed", func(t *testing.T) {
		t.Parallel()
		r := httptest.NewRequest("GET", "/", nil)
		r.AddCookie(&http.Cookie{Name: "s", Value: "no-separator"})
		_, err := m.GetSigned(r, "s")
		assert.ErrorIs(t, err, cookie.ErrInvalidFormat)
	})
}

func TestManager_Encrypted(t *testing.T) {
	t.Parallel()

	m, err := cookie.New([]string{secretA})
	require.NoError(t, err)

	t.Run("round trip hides value", func(t *testing.T) {
		t.Parallel()
		w := httptest.NewRecorder()
		require.NoError(t, m.SetEncrypted(w, "e", "session-id"))
		assert.NotContains(t, w.Result().Cookies()[0].Value, "session-id")

		v, err := m.GetEncrypted(roundTrip(w), "e")
		require.NoError(t, err)
		assert.Equal(t, "session-id", v)
	})

	t.Run("garbage", func(t *testing.T) {
		t.Parallel()
		r := httptest.NewRequest("GET", "/", nil)
		r.AddCookie(&http.Cookie{Name: "e", Value: "AAAA"})
		_, err := m.GetEncrypted(r, "e")
		assert.Error(t, err)
	})

	t.Run("key rotation", func(t *testing.T) {
		t.Parallel()
		old, err := cookie.New([]string{secretA})
		require.NoError(t, err)
		w := httptest.NewRecorder()
		require.NoError(t, old.SetEncrypted(w, "e", "legacy"))

		rotated, err := cookie.New([]string{secretB, secretA})
		require.NoError(t, err)
		v, err := rotated.GetEncrypted(roundTrip(w), "e")
		require.NoError(t, err)
		assert.Equal(t, "legacy", v)

		only, err := cookie.New([]string{secretB})
		require.NoError(t, err)
		_, err = only.GetEncrypted(roundTrip(w), "e")
		assert.ErrorIs(t, err, cookie.ErrDecryptionFailed)
	})
}

func TestNewFromConfig(t *testing.T) {
	t.Parallel()

	cfg := cookie.DefaultConfig()
	cfg.Secrets = []string{secretA, " " + secretB}
	cfg.Domain = "example.com"

	m, err := cookie.NewFromConfig(cfg)
	require.NoError(t, err)

	w := httptest.NewRecorder()
	require.NoError(t, m.Set(w, "n", "v"))
	assert.Equal(t, "example.com", w.Result().Cookies()[0].Domain)
}
