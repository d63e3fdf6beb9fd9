package mediator

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type failingHandler struct {
	err error
}

func (h failingHandler) Handle(ctx context.Context, q echoQuery) (string, error) {
	return "", h.err
}

func TestSend(t *testing.T) {
	t.Run("dispatches to the registered handler", func(t *testing.T) {
		m := newEchoMediator(t)

		resp, err := Send[string](context.Background(), m, echoQuery{Value: "hello"})
		require.NoError(t, err)
		assert.Equal(t, "hello", resp)
	})

	t.Run("zero handlers fails with handler not found", func(t *testing.T) {
		m := New(NewRegistry())

		_, err := m.Send(context.Background(), echoQuery{})
		require.ErrorIs(t, err, ErrHandlerNotFound)

		var nf *HandlerNotFoundError
		require.ErrorAs(t, err, &nf)
		assert.Equal(t, TypeOf[echoQuery](), nf.RequestType)
		assert.Contains(t, err.Error(), "echoQuery")
	})

	t.Run("two handlers fails with ambiguous handlers", func(t *testing.T) {
		reg := NewRegistry()
		RegisterHandler(reg, echoHandler{})
		RegisterHandler(reg, echoHandler{})
		m := New(reg)

		_, err := m.Send(context.Background(), echoQuery{})
		require.ErrorIs(t, err, ErrAmbiguousHandlers)

		var amb *AmbiguousHandlersError
		require.ErrorAs(t, err, &amb)
		assert.Equal(t, TypeOf[echoQuery](), amb.RequestType)
		assert.Equal(t, 2, amb.Count)
	})

	t.Run("handler errors propagate unwrapped", func(t *testing.T) {
		sentinel := errors.New("backend down")
		reg := NewRegistry()
		RegisterHandler(reg, failingHandler{err: sentinel})
		m := New(reg)

		_, err := m.Send(context.Background(), echoQuery{})
		require.ErrorIs(t, err, sentinel)
	})

	t.Run("middleware errors propagate unwrapped", func(t *testing.T) {
		sentinel := errors.New("rejected")
		m := newEchoMediator(t)
		m.Use(MiddlewareFunc(func(ctx context.Context, request any, next Next) (any, error) {
			return nil, sentinel
		}))

		_, err := m.Send(context.Background(), echoQuery{})
		require.ErrorIs(t, err, sentinel)
	})

	t.Run("pre-cancelled context fails with cancellation", func(t *testing.T) {
		m := newEchoMediator(t)

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := m.Send(ctx, echoQuery{})
		require.ErrorIs(t, err, context.Canceled)
		require.NotErrorIs(t, err, ErrHandlerNotFound)
	})

	t.Run("response type mismatch is reported", func(t *testing.T) {
		m := newEchoMediator(t)

		_, err := Send[int](context.Background(), m, echoQuery{Value: "hello"})

		var rte *ResponseTypeError
		require.ErrorAs(t, err, &rte)
		assert.Equal(t, TypeOf[int](), rte.Expected)
		assert.Equal(t, TypeOf[string](), rte.Got)
	})

	t.Run("nil response maps to zero value", func(t *testing.T) {
		reg := NewRegistry()
		RegisterHandlerFunc(reg, func(ctx context.Context, q otherQuery) (*string, error) {
			return nil, nil
		})
		m := New(reg)

		resp, err := Send[*string](context.Background(), m, otherQuery{})
		require.NoError(t, err)
		assert.Nil(t, resp)
	})
}

func TestHooks(t *testing.T) {
	t.Run("dispatch and success hooks fire in order", func(t *testing.T) {
		var events []string
		m := newEchoMediator(t,
			WithOnDispatch(func(ctx context.Context, request string) context.Context {
				events = append(events, "dispatch:"+request)
				return ctx
			}),
			WithOnSuccess(func(ctx context.Context, request string, d time.Duration) {
				events = append(events, "success:"+request)
			}),
			WithOnFailure(func(ctx context.Context, request string, err error, d time.Duration) {
				events = append(events, "failure:"+request)
			}),
		)

		_, err := m.Send(context.Background(), echoQuery{Value: "x"})
		require.NoError(t, err)
		assert.Equal(t, []string{"dispatch:echoQuery", "success:echoQuery"}, events)
	})

	t.Run("failure hook fires on handler error", func(t *testing.T) {
		var failures int
		reg := NewRegistry()
		RegisterHandler(reg, failingHandler{err: errors.New("boom")})
		m := New(reg, WithOnFailure(func(ctx context.Context, request string, err error, d time.Duration) {
			failures++
		}))

		_, err := m.Send(context.Background(), echoQuery{})
		require.Error(t, err)
		assert.Equal(t, 1, failures)
	})

	t.Run("dispatch hook context reaches the handler", func(t *testing.T) {
		type ctxKey struct{}
		reg := NewRegistry()
		RegisterHandlerFunc(reg, func(ctx context.Context, q echoQuery) (string, error) {
			v, _ := ctx.Value(ctxKey{}).(string)
			return v, nil
		})
		m := New(reg, WithOnDispatch(func(ctx context.Context, request string) context.Context {
			return context.WithValue(ctx, ctxKey{}, "enriched")
		}))

		resp, err := Send[string](context.Background(), m, echoQuery{})
		require.NoError(t, err)
		assert.Equal(t, "enriched", resp)
	})
}
