package statemachine

import (
	"errors"
	"fmt"
)

var (
	ErrNoTransitionAvailable = errors.New("statemachine.no_transition")
	ErrTransitionRejected    = errors.New("statemachine.transition_rejected")
	ErrActionFailed          = errors.New("statemachine.action_failed")
)

// NoTransitionError indicates no transition is defined for the state/event pair.
type NoTransitionError struct {
	State string
	Event string
}

func (e *NoTransitionError) Error() string {
	return fmt.Sprintf("no transition available from state '%s' for event '%s'", e.State, e.Event)
}

func (e *NoTransitionError) Is(target error) bool { return target == ErrNoTransitionAvailable }

// TransitionRejectedError indicates every candidate transition was vetoed by a guard.
type TransitionRejectedError struct {
	State string
	Event string
}

func (e *TransitionRejectedError) Error() string {
	return fmt.Sprintf("transition from state '%s' for event '%s' was rejected by guards", e.State, e.Event)
}

func (e *TransitionRejectedError) Is(target error) bool { return target == ErrTransitionRejected }

// ActionError wraps the error returned by a transition action.
type ActionError struct {
	State string
	Event string
	Err   error
}

func (e *ActionError) Error() string {
	return fmt.Sprintf("action failed on '%s' from state '%s': %v", e.Event, e.State, e.Err)
}

func (e *ActionError) Unwrap() []error { return []error{ErrActionFailed, e.Err} }
