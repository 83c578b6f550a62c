package session

import (
	"net/http"
	"time"
)

// ClientReference is the handle a session uses to read, issue and revoke the
// id held by the client.
type ClientReference interface {
	// Current returns the id presented by the client, if any.
	Current() (string, bool)
	Issue(id string, ttl time.Duration) error
	Revoke() error
}

// httpReference binds a Transport to a single request/response pair.
type httpReference struct {
	transport Transport
	w         http.ResponseWriter
	r         *http.Request
}

func (h *httpReference) Current() (string, bool) {
	token, err := h.transport.GetToken(h.r)
	if err != nil || token == "" {
		return "", false
	}
	return token, true
}

func (h *httpReference) Issue(id string, ttl time.Duration) error {
	return h.transport.SetToken(h.w, id, ttl)
}

func (h *httpReference) Revoke() error {
	return h.transport.ClearToken(h.w)
}

// staticReference serves headless handles resuming a known id.
type staticReference struct {
	id string
}

func (s *staticReference) Current() (string, bool) {
	return s.id, s.id != ""
}

func (s *staticReference) Issue(id string, _ time.Duration) error {
	s.id = id
	return nil
}

func (s *staticReference) Revoke() error {
	s.id = ""
	return nil
}
