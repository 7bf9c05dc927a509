package resilience

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap/zaptest"
)

type stateRecorder struct {
	changes []bool
}

func (r *stateRecorder) CircuitBreakerStateChanged(name string, open bool) {
	r.changes = append(r.changes, open)
}

var errRemote = errors.New("falha remota")

func TestCircuitBreaker(t *testing.T) {
	ctx := context.Background()
	fail := func(context.Context) error { return errRemote }
	ok := func(context.Context) error { return nil }

	t.Run("OpensAfterThreshold", func(t *testing.T) {
		recorder := &stateRecorder{}
		cb := NewCircuitBreaker(CircuitBreakerConfig{Name: "teste", FailureThreshold: 2}, zaptest.NewLogger(t), recorder)

		assert.ErrorIs(t, cb.Execute(ctx, fail), errRemote)
		assert.Equal(t, StateClosed, cb.State())
		assert.ErrorIs(t, cb.Execute(ctx, fail), errRemote)
		assert.Equal(t, StateOpen, cb.State())

		assert.ErrorIs(t, cb.Execute(ctx, ok), ErrCircuitOpen)
		assert.Equal(t, []bool{true}, recorder.changes)
	})

	t.Run("HalfOpenRecovers", func(t *testing.T) {
		now := time.Now()
		cb := NewCircuitBreaker(CircuitBreakerConfig{Name: "teste", FailureThreshold: 1, ResetTimeout: time.Second}, zaptest.NewLogger(t), nil)
		cb.now = func() time.Time { return now }

		_ = cb.Execute(ctx, fail)
		assert.Equal(t, StateOpen, cb.State())

		now = now.Add(2 * time.Second)
		assert.NoError(t, cb.Execute(ctx, ok))
		assert.Equal(t, StateClosed, cb.State())
	})

	t.Run("HalfOpenFailureReopens", func(t *testing.T) {
		now := time.Now()
		cb := NewCircuitBreaker(CircuitBreakerConfig{Name: "teste", FailureThreshold: 1, ResetTimeout: time.Second}, zaptest.NewLogger(t), nil)
		cb.now = func() time.Time { return now }

		_ = cb.Execute(ctx, fail)
		now = now.Add(2 * time.Second)
		_ = cb.Execute(ctx, fail)
		assert.Equal(t, StateOpen, cb.State())
	})

	t.Run("IgnoresClientErrors", func(t *testing.T) {
		errNotFound := errors.New("não encontrado")
		cb := NewCircuitBreaker(CircuitBreakerConfig{
			Name:             "teste",
			FailureThreshold: 1,
			IsFailure:        func(err error) bool { return err != nil && !errors.Is(err, errNotFound) },
		}, zaptest.NewLogger(t), nil)

		_ = cb.Execute(ctx, func(context.Context) error { return errNotFound })
		assert.Equal(t, StateClosed, cb.State())
	})
}
