package session

import (
	"log/slog"

	"github.com/dmitrymomot/sessionkit/pkg/logger"
	"github.com/dmitrymomot/sessionkit/pkg/statemachine"
)

// State is the lifecycle state of a session handle.
type State string

const (
	// StateClosed means no session is loaded. Handles start here.
	StateClosed State = "closed"
	// StateActive means data is loaded and may be read and written.
	StateActive State = "active"
	// StateInvalid marks a session that failed fingerprint validation.
	// It is transient: the session is destroyed right after.
	StateInvalid State = "invalid"
)

type event string

const (
	eventStart      event = "start"
	eventStop       event = "stop"
	eventInvalidate event = "invalidate"
	eventRegenerate event = "regenerate"
)

func newLifecycle(log *slog.Logger) *statemachine.Machine[State, event] {
	return statemachine.New[State, event](StateClosed,
		statemachine.WithTransition[State, event](StateClosed, StateActive, eventStart),
		statemachine.WithTransition[State, event](StateActive, StateClosed, eventStop),
		statemachine.WithTransition[State, event](StateActive, StateActive, eventRegenerate),
		statemachine.WithTransition[State, event](StateActive, StateInvalid, eventInvalidate),
		statemachine.WithTransition[State, event](StateInvalid, StateClosed, eventStop),
		statemachine.OnTransition[State, event](func(from, to State, e event) {
			log.Debug("session state changed", logger.Transition(string(from), string(to), string(e)))
		}),
	)
}
