package waitlist

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/dmitrymomot/waitlist/pkg/logger"
	"github.com/dmitrymomot/waitlist/pkg/statemachine"
)

// FormState is the submission state of one form.
type FormState string

const (
	StateIdle       FormState = "idle"
	StateSubmitting FormState = "submitting"
	StateSucceeded  FormState = "succeeded"
	StateFailed     FormState = "failed"
)

type formEvent string

const (
	eventSubmit  formEvent = "submit"
	eventSucceed formEvent = "succeed"
	eventFail    formEvent = "fail"
	eventReject  formEvent = "reject"
	eventReset   formEvent = "reset"
)

// Submitter is the part of Guard a Form drives.
type Submitter interface {
	Submit(ctx context.Context, r Record) (Outcome, error)
}

// Form serializes submissions of one waitlist form:
//
//	Idle -> Submitting -> Succeeded | Failed(reason)
//
// Invalid records go straight to Failed(ValidationError) without entering
// Submitting. A finished form accepts a new Submit, which is how the user
// retries, and Reset returns it to Idle.
type Form struct {
	submitter Submitter
	limits    Limits
	machine   *statemachine.Machine[FormState, formEvent]

	mu      sync.Mutex
	reason  Category
	lastErr error
}

// NewForm creates an idle form. A nil log discards state transitions.
func NewForm(submitter Submitter, limits Limits, log *slog.Logger) *Form {
	if log == nil {
		log = logger.Nop()
	}

	f := &Form{submitter: submitter, limits: limits}

	type opt = statemachine.Option[FormState, formEvent]
	recordFailure := statemachine.WithAction[FormState, formEvent](func(_ context.Context, _, _ FormState, _ formEvent, data any) error {
		f.mu.Lock()
		defer f.mu.Unlock()
		f.lastErr, _ = data.(error)
		f.reason = Classify(f.lastErr)
		return nil
	})
	clearFailure := statemachine.WithAction[FormState, formEvent](func(context.Context, FormState, FormState, formEvent, any) error {
		f.mu.Lock()
		defer f.mu.Unlock()
		f.lastErr = nil
		f.reason = Success
		return nil
	})

	opts := []opt{
		statemachine.WithTransition(StateSubmitting, StateSucceeded, eventSucceed, clearFailure),
		statemachine.WithTransition(StateSubmitting, StateFailed, eventFail, recordFailure),
		statemachine.WithObserver[FormState, formEvent](func(ctx context.Context, from, to FormState, ev formEvent, _ any) {
			log.DebugContext(ctx, "waitlist form transition",
				slog.String("from", string(from)),
				slog.String("to", string(to)),
				logger.Event(string(ev)))
		}),
	}
	for _, from := range []FormState{StateIdle, StateSucceeded, StateFailed} {
		opts = append(opts,
			statemachine.WithTransition(from, StateSubmitting, eventSubmit, clearFailure),
			statemachine.WithTransition(from, StateFailed, eventReject, recordFailure),
		)
	}
	for _, from := range []FormState{StateSucceeded, StateFailed} {
		opts = append(opts, statemachine.WithTransition(from, StateIdle, eventReset, clearFailure))
	}

	f.machine = statemachine.MustNew(StateIdle, opts...)
	return f
}

// State returns the current state.
func (f *Form) State() FormState {
	return f.machine.Current()
}

// Reason is the failure category while the form is Failed, Success otherwise.
func (f *Form) Reason() Category {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.reason
}

// Err is the error that moved the form to Failed.
func (f *Form) Err() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.lastErr
}

// Submit validates r and, if valid, hands it to the submitter. It returns
// ErrSubmissionInProgress while another Submit on the same form is pending.
func (f *Form) Submit(ctx context.Context, r Record) (Outcome, error) {
	if f.machine.Is(StateSubmitting) {
		return Outcome{}, ErrSubmissionInProgress
	}

	if err := Validate(r, f.limits); err != nil {
		if fireErr := f.machine.Fire(ctx, eventReject, err); fireErr != nil {
			return Outcome{}, ErrSubmissionInProgress
		}
		return Outcome{Category: ValidationError}, err
	}

	if err := f.machine.Fire(ctx, eventSubmit, nil); err != nil {
		return Outcome{}, ErrSubmissionInProgress
	}

	out, err := f.submitter.Submit(ctx, r)

	if err != nil {
		if out.Category == Success {
			out.Category = Classify(err)
		}
		if fireErr := f.machine.Fire(ctx, eventFail, err); fireErr != nil {
			return out, errors.Join(err, fireErr)
		}
		return out, err
	}
	return out, f.machine.Fire(ctx, eventSucceed, nil)
}

// Reset returns a finished form to Idle. It is a no-op when Idle and fails
// with ErrSubmissionInProgress while Submitting.
func (f *Form) Reset(ctx context.Context) error {
	switch f.machine.Current() {
	case StateIdle:
		return nil
	case StateSubmitting:
		return ErrSubmissionInProgress
	}
	if err := f.machine.Fire(ctx, eventReset, nil); err != nil {
		if statemachine.IsNoTransitionError(err) {
			return ErrSubmissionInProgress
		}
		return err
	}
	return nil
}
