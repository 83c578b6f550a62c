package session

import (
	"errors"
	"net/http"

	"github.com/dmitrymomot/sessionkit/pkg/logger"
)

// Middleware starts a session for every request, stores it in the request
// context and saves it after the handler returns.
//
// Start failures are passed to the error handler (403 for fingerprint and
// client attribute errors, 500 otherwise by default). In lenient mode a
// session dropped for a fingerprint mismatch is replaced with a fresh one;
// if the dropped entry could not be destroyed the request fails instead.
// The handler never runs with a session that is not Active.
//
// Without client references (UseClientReference=false) every request starts
// a new session that no later request can resume; a warning is logged when
// such a middleware is built.
func (m *Manager) Middleware(next http.Handler) http.Handler {
	if !m.config.UseClientReference {
		m.logger.Warn("session middleware built without client references, sessions will not be resumed across requests")
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		sess := m.Open(w, r)

		ok, err := sess.Start(ctx)
		if err == nil && !ok {
			ok, err = sess.Start(ctx)
		}
		if err == nil && !ok {
			err = ErrSessionNotActive
		}
		if err != nil {
			m.logger.WarnContext(ctx, "session start failed", logger.Error(err))
			m.errorHandler(w, r, err)
			return
		}

		next.ServeHTTP(w, r.WithContext(WithSession(ctx, sess)))

		if sess.State() != StateActive {
			return
		}
		id := sess.ID()
		switch err := sess.Save(ctx); {
		case errors.Is(err, ErrSessionExpired):
			m.logger.DebugContext(ctx, "session expired during request", logger.SessionID(id))
		case err != nil:
			m.logger.ErrorContext(ctx, "failed to save session",
				logger.SessionID(id),
				logger.Error(err),
			)
		}
	})
}
