package workflow

import (
	"context"
	"fmt"
)

// Definition describes a workflow: its steps, the edges between them and the
// action run for each step.
//
// ImplementationFor must return the same action for the same step on every
// call; the engine resolves it once at construction time. Implementations
// usually switch over the step enumeration and call UnhandledStep in the
// default case.
type Definition[S StepID, St any, U any] interface {
	Steps() []S
	Edges() []Edge[S, St]
	ImplementationFor(step S) Action[St, U]
}

// Action executes one step. It receives the state by value and returns a
// partial update; it must not modify anything reachable from the state.
type Action[St any, U any] interface {
	Run(ctx context.Context, state St) (U, error)
}

// ActionFunc is a synchronous action.
type ActionFunc[St any, U any] func(ctx context.Context, state St) (U, error)

func (f ActionFunc[St, U]) Run(ctx context.Context, state St) (U, error) {
	return f(ctx, state)
}

// Outcome is the result delivered by an asynchronous action.
type Outcome[U any] struct {
	Update U
	Err    error
}

// AsyncActionFunc is an action that starts work and delivers its result on a
// channel. The engine awaits the first value or the context, whichever comes
// first.
type AsyncActionFunc[St any, U any] func(ctx context.Context, state St) <-chan Outcome[U]

func (f AsyncActionFunc[St, U]) Run(ctx context.Context, state St) (U, error) {
	var zero U
	ch := f(ctx, state)
	if ch == nil {
		return zero, ErrNoOutcome
	}
	select {
	case out, ok := <-ch:
		if !ok {
			return zero, ErrNoOutcome
		}
		return out.Update, out.Err
	case <-ctx.Done():
		return zero, ctx.Err()
	}
}

// Go runs fn on a new goroutine and returns a channel carrying its result.
// It adapts a blocking function to AsyncActionFunc.
func Go[U any](fn func() (U, error)) <-chan Outcome[U] {
	ch := make(chan Outcome[U], 1)
	go func() {
		u, err := fn()
		ch <- Outcome[U]{Update: u, Err: err}
	}()
	return ch
}

// UnhandledStepError is the panic value raised by UnhandledStep.
type UnhandledStepError struct {
	Step string
}

func (e *UnhandledStepError) Error() string {
	return fmt.Sprintf("workflow: no implementation for step %q", e.Step)
}

// UnhandledStep returns the error to panic with when a descriptor is asked
// for a step outside its enumeration:
//
//	default:
//		panic(workflow.UnhandledStep(step))
func UnhandledStep[S StepID](step S) *UnhandledStepError {
	return &UnhandledStepError{Step: step.String()}
}

// StaticDefinition is a Definition assembled from plain values.
type StaticDefinition[S StepID, St any, U any] struct {
	steps   []S
	edges   []Edge[S, St]
	actions map[S]Action[St, U]
}

// NewStaticDefinition returns a descriptor over the given steps, edges and
// step actions.
func NewStaticDefinition[S StepID, St any, U any](steps []S, edges []Edge[S, St], actions map[S]Action[St, U]) *StaticDefinition[S, St, U] {
	return &StaticDefinition[S, St, U]{steps: steps, edges: edges, actions: actions}
}

func (d *StaticDefinition[S, St, U]) Steps() []S { return d.steps }

func (d *StaticDefinition[S, St, U]) Edges() []Edge[S, St] { return d.edges }

// ImplementationFor panics with an *UnhandledStepError for steps that have no
// action.
func (d *StaticDefinition[S, St, U]) ImplementationFor(step S) Action[St, U] {
	a, ok := d.actions[step]
	if !ok {
		panic(UnhandledStep(step))
	}
	return a
}
