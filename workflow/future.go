package workflow

import "context"

// Future is the pending result of an asynchronous invocation.
type Future[T any] struct {
	done  chan struct{}
	value T
	err   error
}

// Async runs fn on a new goroutine and returns a future for its result.
func Async[T any](fn func() (T, error)) *Future[T] {
	f := &Future[T]{done: make(chan struct{})}
	go func() {
		defer close(f.done)
		f.value, f.err = fn()
	}()
	return f
}

// Done is closed once the result is available.
func (f *Future[T]) Done() <-chan struct{} { return f.done }

// Await blocks until the result is available or ctx is done. Giving up on a
// future does not cancel the work behind it; cancel the context passed to
// the invocation for that.
func (f *Future[T]) Await(ctx context.Context) (T, error) {
	select {
	case <-f.done:
		return f.value, f.err
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}
