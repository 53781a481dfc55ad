package workflow

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrConflictingUpdates is returned in strict merge mode when two steps of
	// one superstep write the same field.
	ErrConflictingUpdates = errors.New("conflicting updates")

	// ErrMaxSupersteps is returned when a run exceeds the configured number of
	// supersteps.
	ErrMaxSupersteps = errors.New("maximum supersteps exceeded")

	// ErrNoOutcome is returned when an asynchronous action closes its result
	// channel without sending.
	ErrNoOutcome = errors.New("async action finished without an outcome")
)

// DeclarationError reports a workflow descriptor the engine refuses to
// compile.
type DeclarationError struct {
	Workflow string
	Reason   string
	Err      error
}

func (e *DeclarationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("workflow %q: invalid declaration: %s: %v", e.Workflow, e.Reason, e.Err)
	}
	return fmt.Sprintf("workflow %q: invalid declaration: %s", e.Workflow, e.Reason)
}

func (e *DeclarationError) Unwrap() error { return e.Err }

// DispatchError reports a run that cannot decide where to go next.
type DispatchError struct {
	Workflow  string
	Node      string
	Superstep int
	Reason    string
}

func (e *DispatchError) Error() string {
	return fmt.Sprintf("workflow %q: dispatch from %s at superstep %d: %s", e.Workflow, e.Node, e.Superstep, e.Reason)
}

// NodeError wraps a failure of one step.
type NodeError struct {
	Workflow  string
	Node      string
	Superstep int
	Err       error
}

func (e *NodeError) Error() string {
	return fmt.Sprintf("workflow %q: node %s failed at superstep %d: %v", e.Workflow, e.Node, e.Superstep, e.Err)
}

func (e *NodeError) Unwrap() error { return e.Err }

// ConflictError reports a field written by more than one step of a
// superstep. It matches ErrConflictingUpdates with errors.Is.
type ConflictError struct {
	Workflow  string
	Field     string
	Nodes     []string
	Superstep int
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("workflow %q: %v: field %q written by %s at superstep %d",
		e.Workflow, ErrConflictingUpdates, e.Field, strings.Join(e.Nodes, " and "), e.Superstep)
}

func (e *ConflictError) Unwrap() error { return ErrConflictingUpdates }
