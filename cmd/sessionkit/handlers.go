package main

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/dmitrymomot/sessionkit/pkg/session"
)

const (
	visitsKey = "visits"
	flashKey  = "flash"
)

type sessionView struct {
	ID        string         `json:"id"`
	State     string         `json:"state"`
	CreatedAt time.Time      `json:"created_at"`
	Values    map[string]any `json:"values"`
}

func showSession(w http.ResponseWriter, r *http.Request) {
	sess := session.MustFromContext(r.Context())
	view := sessionView{
		ID:        sess.ID(),
		State:     string(sess.State()),
		CreatedAt: sess.CreatedAt(),
		Values:    make(map[string]any),
	}
	for _, k := range sess.Keys() {
		view.Values[k] = sess.Get(k, nil)
	}
	writeJSON(w, http.StatusOK, view)
}

// setValue stores the JSON request body under the path key.
func setValue(w http.ResponseWriter, r *http.Request) {
	sess := session.MustFromContext(r.Context())

	var v any
	if err := json.NewDecoder(io.LimitReader(r.Body, 64<<10)).Decode(&v); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if err := sess.Set(chi.URLParam(r, "key"), v); err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, session.ErrReservedKey) {
			status = http.StatusBadRequest
		}
		writeError(w, status, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func deleteValue(w http.ResponseWriter, r *http.Request) {
	session.MustFromContext(r.Context()).Delete(chi.URLParam(r, "key"))
	w.WriteHeader(http.StatusNoContent)
}

func countVisit(w http.ResponseWriter, r *http.Request) {
	sess := session.MustFromContext(r.Context())
	n := sess.GetInt(visitsKey, 0) + 1
	if err := sess.Set(visitsKey, n); err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{visitsKey: n})
}

func setFlash(w http.ResponseWriter, r *http.Request) {
	sess := session.MustFromContext(r.Context())
	msg := r.URL.Query().Get("message")
	if msg == "" {
		writeError(w, http.StatusBadRequest, errors.New("message is required"))
		return
	}
	if err := sess.Set(flashKey, msg); err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func readFlash(w http.ResponseWriter, r *http.Request) {
	msg := session.MustFromContext(r.Context()).Flash(flashKey, "")
	writeJSON(w, http.StatusOK, map[string]any{flashKey: msg})
}

// regenerate rotates the id and rebinds the fingerprint, as a login would.
func regenerate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sess := session.MustFromContext(ctx)

	if _, err := sess.Regenerate(ctx, true); err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	if err := sess.Rebind(ctx); err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"id": sess.ID()})
}

func destroySession(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if _, err := session.MustFromContext(ctx).Stop(ctx); err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}
