package fingerprint

import (
	"crypto/hmac"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"fmt"
	"net/http"

	"github.com/dmitrymomot/sessionkit/pkg/clientip"
)

// Sentinel replaces a component that is not bound or not supplied.
const Sentinel = "null"

// Config controls which client attributes a fingerprint is bound to.
type Config struct {
	BindAddress bool
	BindAgent   bool

	// Secret keys the HMAC. It is never persisted.
	Secret string

	// Algorithm is one of Algorithms(); empty means DefaultAlgorithm.
	Algorithm string

	// AllowMissing substitutes Sentinel for absent bound attributes
	// instead of failing with MissingAttributeError.
	AllowMissing bool
}

// Input holds the client attributes of a single request.
// An empty string means the attribute is absent.
type Input struct {
	Address string
	Agent   string
}

// FromRequest collects Input using the default client IP resolver.
func FromRequest(r *http.Request) Input {
	return Input{
		Address: clientip.GetIP(r),
		Agent:   r.UserAgent(),
	}
}

// FromRequestWith collects Input using a custom resolver.
func FromRequestWith(resolver *clientip.Resolver, r *http.Request) Input {
	addr, _ := resolver.Resolve(r)
	return Input{Address: addr, Agent: r.UserAgent()}
}

// Canonical builds the "<address>|<agent>" string the hash is computed over.
func Canonical(cfg Config, in Input) (string, error) {
	addr, err := component(cfg.BindAddress, cfg.AllowMissing, in.Address, AttributeAddress)
	if err != nil {
		return "", err
	}
	agent, err := component(cfg.BindAgent, cfg.AllowMissing, in.Agent, AttributeAgent)
	if err != nil {
		return "", err
	}
	return addr + "|" + agent, nil
}

// Generate returns the hex encoded HMAC of the canonical input.
// It is deterministic for identical config and input.
func Generate(cfg Config, in Input) (string, error) {
	if cfg.Secret == "" {
		return "", ErrEmptySecret
	}
	newHash, err := lookup(cfg.Algorithm)
	if err != nil {
		return "", errors.Join(err, fmt.Errorf("algorithm %q", cfg.Algorithm))
	}

	canonical, err := Canonical(cfg, in)
	if err != nil {
		return "", err
	}

	mac := hmac.New(newHash, []byte(cfg.Secret))
	mac.Write([]byte(canonical))
	return hex.EncodeToString(mac.Sum(nil)), nil
}

// Equal compares two fingerprints in constant time.
func Equal(a, b string) bool {
	return subtle.ConstantTimeCompare([]byte(a), []byte(b)) == 1
}

func component(bound, allowMissing bool, value string, attr Attribute) (string, error) {
	if !bound {
		return Sentinel, nil
	}
	if value == "" {
		if allowMissing {
			return Sentinel, nil
		}
		return "", &MissingAttributeError{Attribute: attr}
	}
	return value, nil
}
