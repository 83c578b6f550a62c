package clientip

import (
	"net"
	"net/http"
	"strings"
)

// DefaultHeaders lists proxy headers consulted by the default resolver,
// highest priority first.
var DefaultHeaders = []string{
	"CF-Connecting-IP",
	"DO-Connecting-IP",
	"X-Forwarded-For",
	"X-Real-IP",
}

var defaultResolver = New()

// Resolver extracts the originating client address from a request.
type Resolver struct {
	headers []string
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithHeaders replaces the list of trusted proxy headers.
func WithHeaders(headers ...string) Option {
	return func(r *Resolver) {
		r.headers = headers
	}
}

// WithoutProxyHeaders makes the resolver rely on RemoteAddr only.
// Use it when the service is exposed directly, otherwise any client can spoof
// its address through forwarding headers.
func WithoutProxyHeaders() Option {
	return func(r *Resolver) {
		r.headers = nil
	}
}

// New creates a resolver trusting DefaultHeaders unless overridden.
func New(opts ...Option) *Resolver {
	r := &Resolver{headers: DefaultHeaders}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Resolve returns the normalized client address and whether one was found.
func (res *Resolver) Resolve(r *http.Request) (string, bool) {
	for _, name := range res.headers {
		value := r.Header.Get(name)
		if value == "" {
			continue
		}
		// X-Forwarded-For carries a chain, the first valid hop is the client
		for candidate := range strings.SplitSeq(value, ",") {
			if ip := parseIP(candidate); ip != "" {
				return ip, true
			}
		}
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		host = r.RemoteAddr
	}
	if ip := parseIP(host); ip != "" {
		return ip, true
	}
	return "", false
}

// GetIP returns the client's address using the default resolver,
// or an empty string when none can be determined.
func GetIP(r *http.Request) string {
	ip, _ := defaultResolver.Resolve(r)
	return ip
}

// parseIP validates and normalizes an IP address string.
func parseIP(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	ip := net.ParseIP(s)
	if ip == nil {
		return ""
	}
	return ip.String()
}
