package llm

import (
	"context"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/tallen12/Resume-RAG/types"
)

// Middleware wraps a ChatModel with additional behaviour.
type Middleware func(next ChatModel) ChatModel

// Chain wraps model with mws. The first middleware is the outermost.
func Chain(model ChatModel, mws ...Middleware) ChatModel {
	for i := len(mws) - 1; i >= 0; i-- {
		model = mws[i](model)
	}
	return model
}

// LoggingMiddleware logs every request with its duration and outcome.
func LoggingMiddleware(logger *zap.Logger) Middleware {
	if logger == nil {
		logger = zap.NewNop()
	}
	logger = logger.With(zap.String("component", "chat_model"))
	return func(next ChatModel) ChatModel {
		return ChatModelFunc(func(ctx context.Context, messages []types.Message, opts ...ChatOption) (types.Message, error) {
			start := time.Now()
			o := ApplyChatOptions(opts...)
			fields := []zap.Field{
				zap.Int("messages", len(messages)),
				zap.String("model", o.Model),
				zap.Bool("structured", o.Schema != nil),
			}
			if node, ok := types.Node(ctx); ok {
				fields = append(fields, zap.String("node", node))
			}
			if runID, ok := types.RunID(ctx); ok {
				fields = append(fields, zap.String("run_id", runID))
			}

			reply, err := next.Chat(ctx, messages, opts...)
			fields = append(fields, zap.Duration("duration", time.Since(start)))
			if err != nil {
				logger.Warn("chat request failed", append(fields, zap.Error(err))...)
				return reply, err
			}
			logger.Debug("chat request completed", append(fields, zap.Int("reply_length", len(reply.Content)))...)
			return reply, nil
		})
	}
}

// TimeoutMiddleware bounds every request.
func TimeoutMiddleware(timeout time.Duration) Middleware {
	return func(next ChatModel) ChatModel {
		return ChatModelFunc(func(ctx context.Context, messages []types.Message, opts ...ChatOption) (types.Message, error) {
			ctx, cancel := context.WithTimeout(ctx, timeout)
			defer cancel()
			return next.Chat(ctx, messages, opts...)
		})
	}
}

// RateLimitMiddleware waits for limiter before every request.
func RateLimitMiddleware(limiter *rate.Limiter) Middleware {
	return func(next ChatModel) ChatModel {
		return ChatModelFunc(func(ctx context.Context, messages []types.Message, opts ...ChatOption) (types.Message, error) {
			if err := limiter.Wait(ctx); err != nil {
				return types.Message{}, types.NewError(types.ErrRateLimited, "chat request not admitted").
					WithCause(err).
					WithRetryable(true)
			}
			return next.Chat(ctx, messages, opts...)
		})
	}
}

// ValidationMiddleware rejects malformed requests before they reach next.
func ValidationMiddleware() Middleware {
	return func(next ChatModel) ChatModel {
		return ChatModelFunc(func(ctx context.Context, messages []types.Message, opts ...ChatOption) (types.Message, error) {
			if err := types.ValidateMessages(messages); err != nil {
				return types.Message{}, err
			}
			return next.Chat(ctx, messages, opts...)
		})
	}
}
