package statemachine_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/sessionkit/pkg/statemachine"
)

type state string

type event string

const (
	draft     state = "draft"
	inReview  state = "in_review"
	approved  state = "approved"
	published state = "published"

	submit  event = "submit"
	approve event = "approve"
	publish event = "publish"
)

func newMachine(opts ...statemachine.Option[state, event]) *statemachine.Machine[state, event] {
	base := []statemachine.Option[state, event]{
		statemachine.WithTransition[state, event](draft, inReview, submit),
		statemachine.WithTransition[state, event](inReview, approved, approve),
	}
	return statemachine.New(draft, append(base, opts...)...)
}

func TestMachine_Fire(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("basic transitions", func(t *testing.T) {
		t.Parallel()
		m := newMachine()
		assert.Equal(t, draft, m.Current())
		assert.True(t, m.CanFire(ctx, submit))

		require.NoError(t, m.Fire(ctx, submit))
		assert.True(t, m.Is(inReview))
		require.NoError(t, m.Fire(ctx, approve))
		assert.Equal(t, approved, m.Current())
	})

	t.Run("undefined transition", func(t *testing.T) {
		t.Parallel()
		m := newMachine()
		err := m.Fire(ctx, publish)
		assert.ErrorIs(t, err, statemachine.ErrNoTransitionAvailable)
		assert.False(t, m.CanFire(ctx, publish))
		assert.Equal(t, draft, m.Current())
	})

	t.Run("guard picks branch", func(t *testing.T) {
		t.Parallel()
		allow := false
		m := statemachine.New(draft,
			statemachine.WithTransition(inReview, published, approve),
			statemachine.WithTransition(draft, published, submit,
				statemachine.WithGuard[state, event](func(context.Context, state, event) bool { return allow }),
			),
			statemachine.WithTransition[state, event](draft, inReview, submit),
		)

		require.NoError(t, m.Fire(ctx, submit))
		assert.Equal(t, inReview, m.Current())

		m.Reset()
		allow = true
		require.NoError(t, m.Fire(ctx, submit))
		assert.Equal(t, published, m.Current())
	})

	t.Run("all guards reject", func(t *testing.T) {
		t.Parallel()
		m := statemachine.New(draft,
			statemachine.WithTransition(draft, inReview, submit,
				statemachine.WithGuard[state, event](func(context.Context, state, event) bool { return false }),
			),
		)
		err := m.Fire(ctx, submit)
		assert.ErrorIs(t, err, statemachine.ErrTransitionRejected)
		assert.Equal(t, draft, m.Current())
	})

	t.Run("action error aborts transition", func(t *testing.T) {
		t.Parallel()
		boom := errors.New("boom")
		m := statemachine.New(draft,
			statemachine.WithTransition(draft, inReview, submit,
				statemachine.WithAction[state, event](func(context.Context, state, state, event) error { return boom }),
			),
		)
		err := m.Fire(ctx, submit)
		assert.ErrorIs(t, err, statemachine.ErrActionFailed)
		assert.ErrorIs(t, err, boom)
		assert.Equal(t, draft, m.Current())
	})

	t.Run("actions run in order", func(t *testing.T) {
		t.Parallel()
		var calls []string
		m := statemachine.New(draft,
			statemachine.WithTransition(draft, inReview, submit,
				statemachine.WithAction[state, event](func(_ context.Context, from, to state, _ event) error {
					calls = append(calls, "first:"+string(from)+">"+string(to))
					return nil
				}),
				statemachine.WithAction[state, event](func(context.Context, state, state, event) error {
					calls = append(calls, "second")
					return nil
				}),
			),
		)
		require.NoError(t, m.Fire(ctx, submit))
		assert.Equal(t, []string{"first:draft>in_review", "second"}, calls)
	})

	t.Run("hooks observe transitions", func(t *testing.T) {
		t.Parallel()
		var seen []state
		m := newMachine(statemachine.OnTransition[state, event](func(_, to state, _ event) {
			seen = append(seen, to)
		}))
		require.NoError(t, m.Fire(ctx, submit))
		require.NoError(t, m.Fire(ctx, approve))
		assert.Equal(t, []state{inReview, approved}, seen)
	})
}
