package session

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/dmitrymomot/sessionkit/pkg/fingerprint"
)

// Config holds session configuration.
type Config struct {
	// Fingerprinting binds sessions to the client and validates the binding on every start.
	Fingerprinting bool `env:"SESSION_FINGERPRINTING" envDefault:"true"`

	// FingerprintHashAlgorithm is one of fingerprint.Algorithms().
	FingerprintHashAlgorithm string `env:"SESSION_FINGERPRINT_HASH_ALGORITHM" envDefault:"sha512"`

	BindToAddress bool `env:"SESSION_BIND_TO_ADDRESS" envDefault:"true"`
	BindToAgent   bool `env:"SESSION_BIND_TO_AGENT" envDefault:"true"`

	// Secret keys the fingerprint HMAC. Required.
	Secret string `env:"SESSION_SECRET"`

	// UseClientReference controls whether the session id is issued to and
	// revoked from the client (cookie or header). Disable it only for
	// headless use through Manager.Detached: handles from Manager.Open then
	// cannot be resumed by a later request.
	UseClientReference bool `env:"SESSION_USE_CLIENT_REFERENCE" envDefault:"true"`

	// Strict escalates fingerprint mismatches and missing client attributes
	// as errors. In lenient mode they are logged, and a mismatching session
	// is stopped silently.
	Strict bool `env:"SESSION_STRICT" envDefault:"true"`

	// CookieName is the name of the session cookie (default: "sid").
	CookieName string `env:"SESSION_COOKIE_NAME" envDefault:"sid"`

	// SecureCookies enables the Secure flag on session cookies.
	SecureCookies bool `env:"SESSION_SECURE_COOKIES" envDefault:"false"`

	// IdleTimeout expires sessions that were not saved for this long.
	IdleTimeout time.Duration `env:"SESSION_IDLE_TIMEOUT" envDefault:"30m"`

	// MaxLifetime caps the absolute age of a session id (0 disables).
	MaxLifetime time.Duration `env:"SESSION_MAX_LIFETIME" envDefault:"24h"`

	// CleanupInterval runs store garbage collection periodically (0 disables).
	CleanupInterval time.Duration `env:"SESSION_CLEANUP_INTERVAL" envDefault:"0"`
}

// DefaultConfig returns default session configuration. Secret is left empty
// and must be provided.
func DefaultConfig() Config {
	return Config{
		Fingerprinting:           true,
		FingerprintHashAlgorithm: fingerprint.DefaultAlgorithm,
		BindToAddress:            true,
		BindToAgent:              true,
		UseClientReference:       true,
		Strict:                   true,
		CookieName:               "sid",
		IdleTimeout:              30 * time.Minute,
		MaxLifetime:              24 * time.Hour,
	}
}

// Validate reports configuration problems wrapped with ErrConfiguration.
func (c Config) Validate() error {
	var errs []error
	if c.Secret == "" {
		errs = append(errs, errors.New("secret is required"))
	}
	if c.Fingerprinting && c.FingerprintHashAlgorithm != "" && !fingerprint.Supported(c.FingerprintHashAlgorithm) {
		errs = append(errs, fmt.Errorf("unsupported fingerprint hash algorithm %q, want one of %s",
			c.FingerprintHashAlgorithm, strings.Join(fingerprint.Algorithms(), ", ")))
	}
	if c.UseClientReference && c.CookieName == "" {
		errs = append(errs, errors.New("cookie name is required when client references are used"))
	}
	if c.IdleTimeout < 0 || c.MaxLifetime < 0 || c.CleanupInterval < 0 {
		errs = append(errs, errors.New("durations must not be negative"))
	}
	if len(errs) > 0 {
		return errors.Join(append([]error{ErrConfiguration}, errs...)...)
	}
	return nil
}

func (c Config) fingerprintConfig(allowMissing bool) fingerprint.Config {
	return fingerprint.Config{
		BindAddress:  c.BindToAddress,
		BindAgent:    c.BindToAgent,
		Secret:       c.Secret,
		Algorithm:    c.FingerprintHashAlgorithm,
		AllowMissing: allowMissing,
	}
}

// Option bag keys accepted by ParseOptions.
const (
	OptionFingerprinting           = "fingerprinting"
	OptionFingerprintHashAlgorithm = "fingerprintHashAlgorithm"
	OptionBindToAddress            = "bindToAddress"
	OptionBindToAgent              = "bindToAgent"
	OptionSecret                   = "secret"
	OptionUseClientReference       = "useClientReference"
	OptionStrict                   = "strict"
)

var optionKeys = []string{
	OptionFingerprinting,
	OptionFingerprintHashAlgorithm,
	OptionBindToAddress,
	OptionBindToAgent,
	OptionSecret,
	OptionUseClientReference,
	OptionStrict,
}

// ParseOptions builds a Config from a loosely typed option bag, starting
// from DefaultConfig. Unknown keys and values of the wrong type are rejected
// with ErrConfiguration. The result is validated.
func ParseOptions(opts map[string]any) (Config, error) {
	cfg := DefaultConfig()
	var errs []error

	setBool := func(key string, dst *bool, v any) {
		b, ok := v.(bool)
		if !ok {
			errs = append(errs, fmt.Errorf("option %q must be a bool, got %T", key, v))
			return
		}
		*dst = b
	}
	setString := func(key string, dst *string, v any) {
		s, ok := v.(string)
		if !ok {
			errs = append(errs, fmt.Errorf("option %q must be a string, got %T", key, v))
			return
		}
		*dst = s
	}

	keys := make([]string, 0, len(opts))
	for k := range opts {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	for _, key := range keys {
		v := opts[key]
		switch key {
		case OptionFingerprinting:
			setBool(key, &cfg.Fingerprinting, v)
		case OptionFingerprintHashAlgorithm:
			setString(key, &cfg.FingerprintHashAlgorithm, v)
		case OptionBindToAddress:
			setBool(key, &cfg.BindToAddress, v)
		case OptionBindToAgent:
			setBool(key, &cfg.BindToAgent, v)
		case OptionSecret:
			setString(key, &cfg.Secret, v)
		case OptionUseClientReference:
			setBool(key, &cfg.UseClientReference, v)
		case OptionStrict:
			setBool(key, &cfg.Strict, v)
		default:
			errs = append(errs, fmt.Errorf("unknown option %q, want one of %s", key, strings.Join(optionKeys, ", ")))
		}
	}

	if len(errs) > 0 {
		return Config{}, errors.Join(append([]error{ErrConfiguration}, errs...)...)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
