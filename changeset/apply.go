package changeset

import "fmt"

type options struct {
	strict     bool
	makeChange func(v any) (Applier, error)
}

// Option configures how Apply and ApplyValue treat updates that are not a
// ChangeSet.
type Option func(*options)

// Strict makes raw (non-ChangeSet) updates fail with ErrUnrecognizedChange.
// The default change constructor is never called in strict mode.
func Strict() Option {
	return func(o *options) {
		o.strict = true
	}
}

// WithDefault sets the constructor used to turn a raw value into a change.
// The default is Overwrite.
func WithDefault[T any](fn func(v T) ChangeSet[T]) Option {
	return func(o *options) {
		o.makeChange = func(v any) (Applier, error) {
			typed, ok := v.(T)
			if !ok {
				var zero T
				return nil, fmt.Errorf("%w: raw value %T for default change of %T", ErrTypeMismatch, v, zero)
			}
			return fn(typed), nil
		}
	}
}

// WithDefaultValue is the type-erased form of WithDefault, for callers that
// only know the value type at runtime.
func WithDefaultValue(fn func(v any) Applier) Option {
	return func(o *options) {
		o.makeChange = func(v any) (Applier, error) {
			return fn(v), nil
		}
	}
}

func newOptions(opts []Option) *options {
	o := &options{
		makeChange: func(v any) (Applier, error) {
			return Overwrite[any]{New: v}, nil
		},
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Apply merges update into current.
//
// A recognized ChangeSet is applied directly. Any other value is a raw value:
// with Strict it fails with ErrUnrecognizedChange, otherwise it is turned into
// a change by the default constructor (Overwrite unless WithDefault is given)
// and applied. A nil update leaves current untouched.
func Apply[T any](current T, update any, opts ...Option) (T, error) {
	var zero T
	if c, ok := update.(ChangeSet[T]); ok {
		return c.Apply(current), nil
	}
	next, err := ApplyValue(current, update, opts...)
	if err != nil {
		return zero, err
	}
	if next == nil {
		return zero, nil
	}
	v, ok := next.(T)
	if !ok {
		return zero, fmt.Errorf("%w: result %T for value of %T", ErrTypeMismatch, next, zero)
	}
	return v, nil
}

// ApplyValue is Apply for values whose type is only known at runtime.
func ApplyValue(current, update any, opts ...Option) (any, error) {
	if update == nil {
		return current, nil
	}
	if c, ok := update.(Applier); ok {
		return c.ApplyValue(current)
	}

	o := newOptions(opts)
	if o.strict {
		return nil, fmt.Errorf("%w: got %T", ErrUnrecognizedChange, update)
	}
	change, err := o.makeChange(update)
	if err != nil {
		return nil, err
	}
	if change == nil {
		return nil, fmt.Errorf("%w: default change for %T is nil", ErrUnrecognizedChange, update)
	}
	return change.ApplyValue(current)
}
