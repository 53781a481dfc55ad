package types

import "context"

// contextKey is used for storing values in context.Context.
type contextKey string

const (
	keyRunID    contextKey = "run_id"
	keyWorkflow contextKey = "workflow"
	keyNode     contextKey = "node"
	keyUserID   contextKey = "user_id"
)

// WithRunID adds run ID to context.
func WithRunID(ctx context.Context, runID string) context.Context {
	return context.WithValue(ctx, keyRunID, runID)
}

// RunID extracts run ID from context.
func RunID(ctx context.Context) (string, bool) {
	v, ok := ctx.Value(keyRunID).(string)
	return v, ok && v != ""
}

// WithWorkflow adds the workflow name to context.
func WithWorkflow(ctx context.Context, name string) context.Context {
	return context.WithValue(ctx, keyWorkflow, name)
}

// Workflow extracts the workflow name from context.
func Workflow(ctx context.Context) (string, bool) {
	v, ok := ctx.Value(keyWorkflow).(string)
	return v, ok && v != ""
}

// WithNode adds the executing node name to context.
func WithNode(ctx context.Context, node string) context.Context {
	return context.WithValue(ctx, keyNode, node)
}

// Node extracts the executing node name from context.
func Node(ctx context.Context) (string, bool) {
	v, ok := ctx.Value(keyNode).(string)
	return v, ok && v != ""
}

// WithUserID adds user ID to context.
func WithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, keyUserID, userID)
}

// UserID extracts user ID from context.
func UserID(ctx context.Context) (string, bool) {
	v, ok := ctx.Value(keyUserID).(string)
	return v, ok && v != ""
}
