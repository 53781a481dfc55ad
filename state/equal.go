package state

import "github.com/google/go-cmp/cmp"

// Equal reports whether two states are structurally equal. Nested types with
// unexported fields need an option such as cmp.AllowUnexported, otherwise
// Equal panics.
func Equal[S any](a, b S, opts ...cmp.Option) bool {
	return cmp.Equal(a, b, opts...)
}

// Diff returns a human-readable report of the differences between two states,
// or an empty string when they are equal.
func Diff[S any](a, b S, opts ...cmp.Option) string {
	return cmp.Diff(a, b, opts...)
}
