package session

import (
	"net/http"
	"time"
)

// Transport carries the session id between client and server.
type Transport interface {
	// GetToken extracts the session id from the request.
	// Returns ErrSessionNotFound when the request carries none.
	GetToken(r *http.Request) (string, error)

	// SetToken sends the session id to the client.
	SetToken(w http.ResponseWriter, token string, ttl time.Duration) error

	// ClearToken tells the client to forget the session id.
	ClearToken(w http.ResponseWriter) error
}
