package changeset

// Built-in reducers

// Append returns a change that appends items to a slice. The current slice is
// never modified.
func Append[T any](items ...T) ChangeSet[[]T] {
	return Reduce[[]T]{Reducer: func(current []T) []T {
		result := make([]T, 0, len(current)+len(items))
		result = append(result, current...)
		result = append(result, items...)
		return result
	}}
}

// MergeMap returns a change that merges update into a map, with update values
// taking precedence. The current map is never modified.
func MergeMap[K comparable, V any](update map[K]V) ChangeSet[map[K]V] {
	return Reduce[map[K]V]{Reducer: func(current map[K]V) map[K]V {
		result := make(map[K]V, len(current)+len(update))
		for k, v := range current {
			result[k] = v
		}
		for k, v := range update {
			result[k] = v
		}
		return result
	}}
}

// Add returns a change that adds delta to a numeric value.
func Add[T ~int | ~int32 | ~int64 | ~float64](delta T) ChangeSet[T] {
	return Reduce[T]{Reducer: func(current T) T {
		return current + delta
	}}
}

// Max returns a change that keeps the larger of the current value and v.
func Max[T ~int | ~int32 | ~int64 | ~float64](v T) ChangeSet[T] {
	return Reduce[T]{Reducer: func(current T) T {
		if v > current {
			return v
		}
		return current
	}}
}
