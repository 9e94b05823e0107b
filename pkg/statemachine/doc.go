// Package statemachine provides a small, type-safe finite state machine.
//
// States and events are any comparable types, usually string-backed
// constants:
//
//	type state string
//	type event string
//
//	m := statemachine.MustNew[state, event]("idle",
//		statemachine.WithTransition[state, event]("idle", "submitting", "submit"),
//		statemachine.WithTransition[state, event]("submitting", "done", "finish"),
//	)
//	_ = m.Fire(ctx, "submit", nil)
//
// Guards veto a transition based on runtime data; actions run after the
// guards pass and before the state changes, and an action error aborts the
// transition. Observers run after the state has changed, outside the lock,
// so they may read Current.
//
// Fire returns a *NoTransitionError when nothing is defined for the current
// state and event, and a *TransitionRejectedError when guards blocked every
// candidate. All methods are safe for concurrent use.
package statemachine
