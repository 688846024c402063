package timeout

import (
	"context"
	"errors"
	"fmt"
	"time"

	"codestats-proxy/internal/domain"
)

// Error is returned by Run when the bound elapses before the operation completes.
type Error struct {
	Bound time.Duration
}

func (e *Error) Error() string {
	return fmt.Sprintf("request timeout after %dms", e.Bound.Milliseconds())
}

func (e *Error) Is(target error) bool {
	return target == domain.ErrUpstreamTimeout
}

type result[T any] struct {
	value T
	err   error
}

// Run executes op with a hard deadline. The first of op's completion and the
// deadline wins; a late result from op is dropped and its context is
// cancelled once Run returns. There is no retry.
func Run[T any](ctx context.Context, bound time.Duration, op func(ctx context.Context) (T, error)) (T, error) {
	opCtx, cancel := context.WithTimeout(ctx, bound)
	defer cancel()

	// buffered so a late op never blocks after Run has returned
	done := make(chan result[T], 1)
	go func() {
		v, err := op(opCtx)
		done <- result[T]{value: v, err: err}
	}()

	var zero T
	select {
	case r := <-done:
		if r.err != nil && expired(ctx, opCtx) {
			return zero, &Error{Bound: bound}
		}
		return r.value, r.err
	case <-opCtx.Done():
		if err := ctx.Err(); err != nil {
			return zero, err
		}
		return zero, &Error{Bound: bound}
	}
}

// expired reports whether opCtx hit its own deadline rather than a parent cancellation.
func expired(parent, opCtx context.Context) bool {
	return parent.Err() == nil && errors.Is(opCtx.Err(), context.DeadlineExceeded)
}
