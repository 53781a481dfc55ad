// Package changeset describes how a single state field moves from its current
// value to the next one.
//
// A step never returns a replacement state. It returns one ChangeSet per
// field it wants to touch, and the engine folds those changes into the
// accumulated state:
//
//	NoChange  leaves the value untouched
//	Overwrite replaces the value
//	Reduce    replaces the value with Reducer(current)
//
// Applying a ChangeSet is a pure function of the current value.
package changeset

import (
	"errors"
	"fmt"
)

var (
	// ErrUnrecognizedChange is returned in strict mode when an update is not
	// one of the ChangeSet variants.
	ErrUnrecognizedChange = errors.New("new value was expected to be a ChangeSet type (NoChange, Overwrite, Reduce)")

	// ErrTypeMismatch is returned when a change or raw value does not fit the
	// type of the value it is applied to.
	ErrTypeMismatch = errors.New("changeset type mismatch")
)

// Applier is the type-erased form of a ChangeSet. It lets callers that only
// know a field's type at runtime apply a change to it.
type Applier interface {
	// ApplyValue applies the change to current, which must hold the change's
	// value type (or be nil for interface-like types).
	ApplyValue(current any) (any, error)

	noop() bool
}

// ChangeSet describes how to turn the current value of a field into the next.
// The set of variants is closed: NoChange, Overwrite and Reduce.
type ChangeSet[T any] interface {
	Applier
	Apply(current T) T
}

// NoChange leaves the current value untouched.
type NoChange[T any] struct{}

// Apply returns current.
func (NoChange[T]) Apply(current T) T { return current }

// ApplyValue returns current.
func (NoChange[T]) ApplyValue(current any) (any, error) { return current, nil }

func (NoChange[T]) noop() bool { return true }

// Overwrite replaces the current value with New.
type Overwrite[T any] struct {
	New T
}

// Apply returns o.New.
func (o Overwrite[T]) Apply(T) T { return o.New }

// ApplyValue returns o.New after checking current has the same type.
func (o Overwrite[T]) ApplyValue(current any) (any, error) {
	if _, err := valueOf[T](current); err != nil {
		return nil, err
	}
	return o.New, nil
}

func (Overwrite[T]) noop() bool { return false }

// Reduce replaces the current value with Reducer(current).
type Reduce[T any] struct {
	Reducer func(current T) T
}

// Apply calls the reducer exactly once.
func (r Reduce[T]) Apply(current T) T { return r.Reducer(current) }

// ApplyValue calls the reducer exactly once with current.
func (r Reduce[T]) ApplyValue(current any) (any, error) {
	v, err := valueOf[T](current)
	if err != nil {
		return nil, err
	}
	return r.Reducer(v), nil
}

func (Reduce[T]) noop() bool { return false }

// Keep returns a NoChange for T.
func Keep[T any]() ChangeSet[T] { return NoChange[T]{} }

// Set returns an Overwrite with v.
func Set[T any](v T) ChangeSet[T] { return Overwrite[T]{New: v} }

// Update returns a Reduce with fn.
func Update[T any](fn func(current T) T) ChangeSet[T] { return Reduce[T]{Reducer: fn} }

// IsNoop reports whether update leaves a value untouched. A nil update is a
// no-op, matching an untouched field in a state update.
func IsNoop(update any) bool {
	if update == nil {
		return true
	}
	a, ok := update.(Applier)
	return ok && a.noop()
}

func valueOf[T any](current any) (T, error) {
	var zero T
	if current == nil {
		return zero, nil
	}
	v, ok := current.(T)
	if !ok {
		return zero, fmt.Errorf("%w: change for %T applied to %T", ErrTypeMismatch, zero, current)
	}
	return v, nil
}
