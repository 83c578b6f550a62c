// Package statemachine provides a small generic finite state machine.
//
// States and events are any comparable types, typically string-based
// constants:
//
//	type State string
//	type Event string
//
//	m := statemachine.New[State, Event]("closed",
//	    statemachine.WithTransition[State, Event]("closed", "active", "start"),
//	    statemachine.WithTransition[State, Event]("active", "closed", "stop"),
//	)
//	err := m.Fire(ctx, "start")
//
// Guards veto transitions, actions run after guards pass and before the state
// changes (an action error aborts the transition and is reported as
// ActionError), and hooks observe completed transitions.
//
// Errors can be matched with errors.Is against ErrNoTransitionAvailable,
// ErrTransitionRejected and ErrActionFailed.
//
// A Machine guards its state with a RWMutex. Actions and guards run under
// the lock and must not call back into the same machine.
package statemachine
