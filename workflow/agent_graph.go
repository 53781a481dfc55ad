package workflow

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"
)

// AgentGraph runs a workflow synchronously.
type AgentGraph[St any] interface {
	// Invoke runs the workflow from START to END for one initial state.
	Invoke(ctx context.Context, input St) (St, error)
	// Batch runs one independent workflow per input. The output order matches
	// the input order. The first failure aborts the whole batch.
	Batch(ctx context.Context, inputs []St) ([]St, error)
}

// AsyncAgentGraph runs a workflow without blocking the caller.
type AsyncAgentGraph[St any] interface {
	AsyncInvoke(ctx context.Context, input St) *Future[St]
	AsyncBatch(ctx context.Context, inputs []St) *Future[[]St]
}

// Result is the outcome of one element of BatchSettled.
type Result[St any] struct {
	State St
	Err   error
}

// Invoke runs the workflow for input.
func (e *Engine[S, St, U]) Invoke(ctx context.Context, input St) (St, error) {
	return e.run(ctx, input)
}

// Batch runs every input on a worker pool bounded by the configured batch
// concurrency. When one run fails the others are cancelled and the error of
// the first failure is returned.
func (e *Engine[S, St, U]) Batch(ctx context.Context, inputs []St) ([]St, error) {
	return e.batch(ctx, inputs, e.opts.maxBatchConcurrency)
}

// BatchSettled runs every input like Batch but never aborts early: each
// element carries its own state or error.
func (e *Engine[S, St, U]) BatchSettled(ctx context.Context, inputs []St) []Result[St] {
	results := make([]Result[St], len(inputs))
	var g errgroup.Group
	g.SetLimit(e.opts.maxBatchConcurrency)
	for i, input := range inputs {
		g.Go(func() error {
			if err := e.throttle(ctx); err != nil {
				results[i] = Result[St]{Err: err}
				return nil
			}
			out, err := e.run(ctx, input)
			results[i] = Result[St]{State: out, Err: err}
			return nil
		})
	}
	_ = g.Wait()
	return results
}

// AsyncInvoke starts a run and returns immediately.
func (e *Engine[S, St, U]) AsyncInvoke(ctx context.Context, input St) *Future[St] {
	return Async(func() (St, error) {
		return e.run(ctx, input)
	})
}

// AsyncBatch starts every run concurrently and returns immediately. The
// future fails with the first run error, cancelling the remaining runs.
func (e *Engine[S, St, U]) AsyncBatch(ctx context.Context, inputs []St) *Future[[]St] {
	return Async(func() ([]St, error) {
		return e.batch(ctx, inputs, len(inputs))
	})
}

func (e *Engine[S, St, U]) batch(ctx context.Context, inputs []St, limit int) ([]St, error) {
	out := make([]St, len(inputs))
	if len(inputs) == 0 {
		return out, nil
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)
	for i, input := range inputs {
		g.Go(func() error {
			if err := e.throttle(gctx); err != nil {
				return fmt.Errorf("batch element %d: %w", i, err)
			}
			res, err := e.run(gctx, input)
			if err != nil {
				return fmt.Errorf("batch element %d: %w", i, err)
			}
			out[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// throttle waits for the batch rate limiter, if any.
func (e *Engine[S, St, U]) throttle(ctx context.Context) error {
	if e.opts.batchLimiter == nil {
		return nil
	}
	return e.opts.batchLimiter.Wait(ctx)
}
