package statemachine_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/waitlist/pkg/statemachine"
)

type state string
type event string

const (
	draft     state = "draft"
	inReview  state = "in_review"
	approved  state = "approved"
	rejected  state = "rejected"
	submit    event = "submit"
	approve   event = "approve"
	reject    event = "reject"
	unrelated event = "unrelated"
)

type option = statemachine.Option[state, event]

func transition(from, to state, ev event, opts ...statemachine.TransitionOption[state, event]) option {
	return statemachine.WithTransition(from, to, ev, opts...)
}

func TestMachine(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("basic transitions and reset", func(t *testing.T) {
		t.Parallel()
		m := statemachine.MustNew(draft,
			transition(draft, inReview, submit),
			transition(inReview, approved, approve),
		)

		assert.Equal(t, draft, m.Current())
		assert.True(t, m.CanFire(ctx, submit, nil))
		require.NoError(t, m.Fire(ctx, submit, nil))
		require.NoError(t, m.Fire(ctx, approve, nil))
		assert.True(t, m.Is(approved))

		m.Reset()
		assert.Equal(t, draft, m.Current())
	})

	t.Run("undefined transition", func(t *testing.T) {
		t.Parallel()
		m := statemachine.MustNew(draft, transition(draft, inReview, submit))

		err := m.Fire(ctx, unrelated, nil)
		require.Error(t, err)
		assert.True(t, statemachine.IsNoTransitionError(err))
		assert.Equal(t, "no transition available from state 'draft' for event 'unrelated'", err.Error())
		assert.False(t, m.CanFire(ctx, unrelated, nil))
		assert.Equal(t, draft, m.Current())
	})

	t.Run("guards branch on data", func(t *testing.T) {
		t.Parallel()
		isOK := func(_ context.Context, _ state, _ event, data any) bool {
			ok, _ := data.(bool)
			return ok
		}
		m := statemachine.MustNew(inReview,
			transition(inReview, approved, approve, statemachine.WithGuard[state, event](isOK)),
			transition(inReview, rejected, reject),
		)

		err := m.Fire(ctx, approve, false)
		assert.True(t, statemachine.IsTransitionRejectedError(err))
		assert.False(t, m.CanFire(ctx, approve, false))
		assert.True(t, m.CanFire(ctx, approve, true))

		require.NoError(t, m.Fire(ctx, approve, true))
		assert.Equal(t, approved, m.Current())
	})

	t.Run("action error aborts transition", func(t *testing.T) {
		t.Parallel()
		boom := errors.New("boom")
		failing := func(context.Context, state, state, event, any) error { return boom }
		m := statemachine.MustNew(draft, transition(draft, inReview, submit, statemachine.WithAction[state, event](failing)))

		err := m.Fire(ctx, submit, nil)
		require.ErrorIs(t, err, boom)
		assert.Equal(t, draft, m.Current())
	})

	t.Run("observer sees committed state", func(t *testing.T) {
		t.Parallel()
		var seen []state
		var m *statemachine.Machine[state, event]
		m = statemachine.MustNew(draft,
			transition(draft, inReview, submit),
			statemachine.WithObserver[state, event](func(_ context.Context, from, to state, _ event, _ any) {
				seen = append(seen, from, to, m.Current())
			}),
		)

		require.NoError(t, m.Fire(ctx, submit, nil))
		assert.Equal(t, []state{draft, inReview, inReview}, seen)
	})

	t.Run("nil observer rejected", func(t *testing.T) {
		t.Parallel()
		_, err := statemachine.New(draft, statemachine.WithObserver[state, event](nil))
		assert.ErrorIs(t, err, statemachine.ErrNilObserver)
	})

	t.Run("only one concurrent fire wins", func(t *testing.T) {
		t.Parallel()
		m := statemachine.MustNew(draft, transition(draft, inReview, submit))

		var wins atomic.Int32
		var wg sync.WaitGroup
		for range 20 {
			wg.Add(1)
			go func() {
				defer wg.Done()
				if m.Fire(ctx, submit, nil) == nil {
					wins.Add(1)
				}
			}()
		}
		wg.Wait()

		assert.Equal(t, int32(1), wins.Load())
	})
}
