// Package async runs invoked tasks on their own goroutine and exposes their
// eventual result as a Future.
package async

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"
)

var (
	ErrTimeout = errors.New("async: operation timed out waiting for future completion")
	ErrPanic   = errors.New("async: task panicked")
)

// Future represents the result of an asynchronous computation.
type Future[U any] struct {
	result U
	err    error
	once   sync.Once
	done   chan struct{}
}

// Async executes fn on a new goroutine and returns a Future for its result.
// A panic inside fn completes the future with an error wrapping ErrPanic.
func Async[T any, U any](ctx context.Context, param T, fn func(context.Context, T) (U, error)) *Future[U] {
	f := &Future[U]{done: make(chan struct{})}

	go func() {
		defer close(f.done)

		// Early exit prevents goroutine leak when context is pre-canceled
		select {
		case <-ctx.Done():
			f.complete(*new(U), ctx.Err())
			return
		default:
		}

		defer func() {
			if r := recover(); r != nil {
				f.complete(*new(U), fmt.Errorf("%w: %v", ErrPanic, r))
			}
		}()

		res, err := fn(ctx, param)
		f.complete(res, err)
	}()

	return f
}

func (f *Future[U]) complete(res U, err error) {
	f.once.Do(func() {
		f.result = res
		f.err = err
	})
}

// Await waits for the asynchronous function to complete and returns its result and error.
func (f *Future[U]) Await() (U, error) {
	<-f.done
	return f.result, f.err
}

// AwaitWithTimeout waits for completion for at most timeout.
func (f *Future[U]) AwaitWithTimeout(timeout time.Duration) (U, error) {
	select {
	case <-f.done:
		return f.result, f.err
	case <-time.After(timeout):
		var zero U
		return zero, ErrTimeout
	}
}

// IsComplete checks if the asynchronous function is complete without blocking.
func (f *Future[U]) IsComplete() bool {
	select {
	case <-f.done:
		return true
	default:
		return false
	}
}

// Then calls fn with the result once the future completes. fn runs on its
// own goroutine, never on the caller's stack.
func (f *Future[U]) Then(fn func(U, error)) {
	go func() {
		fn(f.Await())
	}()
}
