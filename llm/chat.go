package llm

import (
	"context"

	"github.com/invopop/jsonschema"

	"github.com/tallen12/Resume-RAG/types"
)

// ChatModel is a chat-completion backend.
type ChatModel interface {
	// Chat sends the conversation and returns the model's reply.
	Chat(ctx context.Context, messages []types.Message, opts ...ChatOption) (types.Message, error)
}

// ChatModelFunc adapts a function to ChatModel.
type ChatModelFunc func(ctx context.Context, messages []types.Message, opts ...ChatOption) (types.Message, error)

func (f ChatModelFunc) Chat(ctx context.Context, messages []types.Message, opts ...ChatOption) (types.Message, error) {
	return f(ctx, messages, opts...)
}

// ChatOptions holds per-request parameters.
type ChatOptions struct {
	Model       string
	Temperature *float64
	// Schema requests a reply that is a JSON document matching it.
	Schema *jsonschema.Schema
}

// ChatOption sets a request parameter.
type ChatOption func(*ChatOptions)

// WithModel selects the model.
func WithModel(model string) ChatOption {
	return func(o *ChatOptions) { o.Model = model }
}

// WithTemperature sets the sampling temperature.
func WithTemperature(t float64) ChatOption {
	return func(o *ChatOptions) { o.Temperature = &t }
}

// WithStructuredOutput asks for a reply matching schema, typically
// codec.JSONCodec[T].Schema().
func WithStructuredOutput(schema *jsonschema.Schema) ChatOption {
	return func(o *ChatOptions) { o.Schema = schema }
}

// ApplyChatOptions folds opts into a ChatOptions value. Implementations call
// it to read the request parameters.
func ApplyChatOptions(opts ...ChatOption) ChatOptions {
	var o ChatOptions
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}
	return o
}
