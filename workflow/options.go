package workflow

import (
	"runtime"
	"time"

	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/tallen12/Resume-RAG/changeset"
	"github.com/tallen12/Resume-RAG/config"
)

type engineOptions struct {
	name                string
	logger              *zap.Logger
	observer            Observer
	tracerProvider      trace.TracerProvider
	nodeNames           map[any]string
	strictMerge         bool
	maxSupersteps       int
	maxBatchConcurrency int
	runTimeout          time.Duration
	batchLimiter        *rate.Limiter
	changeOpts          []changeset.Option
}

// Option configures an Engine.
type Option func(*engineOptions)

func defaultOptions() *engineOptions {
	return &engineOptions{
		name:                "workflow",
		logger:              zap.NewNop(),
		observer:            nopObserver{},
		nodeNames:           make(map[any]string),
		maxBatchConcurrency: runtime.GOMAXPROCS(0),
	}
}

// WithName sets the workflow name used in logs, metrics, spans and errors.
func WithName(name string) Option {
	return func(o *engineOptions) {
		if name != "" {
			o.name = name
		}
	}
}

// WithLogger sets the logger. A nil logger disables logging.
func WithLogger(logger *zap.Logger) Option {
	return func(o *engineOptions) {
		if logger == nil {
			logger = zap.NewNop()
		}
		o.logger = logger
	}
}

// WithObserver registers an observer for runs, nodes and supersteps.
func WithObserver(obs Observer) Option {
	return func(o *engineOptions) {
		if obs == nil {
			obs = nopObserver{}
		}
		o.observer = obs
	}
}

// WithTracerProvider sets the provider used for run and node spans. The
// global provider is used by default.
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(o *engineOptions) {
		o.tracerProvider = tp
	}
}

// WithNodeName overrides the node name of an endpoint. Step endpoints default
// to String(), START and END to StartName and EndName.
func WithNodeName[S StepID](e Endpoint[S], name string) Option {
	return func(o *engineOptions) {
		o.nodeNames[e] = name
	}
}

// WithStrictMerge rejects supersteps in which two steps write the same
// field. By default the update that completed last wins.
func WithStrictMerge() Option {
	return func(o *engineOptions) {
		o.strictMerge = true
	}
}

// WithMaxSupersteps bounds the number of supersteps per run. Zero means
// unbounded.
func WithMaxSupersteps(n int) Option {
	return func(o *engineOptions) {
		if n >= 0 {
			o.maxSupersteps = n
		}
	}
}

// WithMaxBatchConcurrency bounds the number of concurrent runs in Batch and
// BatchSettled. Zero or less means GOMAXPROCS.
func WithMaxBatchConcurrency(n int) Option {
	return func(o *engineOptions) {
		if n <= 0 {
			n = runtime.GOMAXPROCS(0)
		}
		o.maxBatchConcurrency = n
	}
}

// WithBatchRateLimit caps how many runs per second Batch, BatchSettled and
// AsyncBatch start. A non-positive rps disables the limit.
func WithBatchRateLimit(rps float64, burst int) Option {
	return func(o *engineOptions) {
		if rps <= 0 {
			o.batchLimiter = nil
			return
		}
		if burst < 1 {
			burst = 1
		}
		o.batchLimiter = rate.NewLimiter(rate.Limit(rps), burst)
	}
}

// WithRunTimeout bounds the duration of every run. Zero means no timeout.
func WithRunTimeout(d time.Duration) Option {
	return func(o *engineOptions) {
		if d >= 0 {
			o.runTimeout = d
		}
	}
}

// WithChangeSetOptions sets the options used when applying step updates,
// e.g. changeset.Strict() to reject raw values.
func WithChangeSetOptions(opts ...changeset.Option) Option {
	return func(o *engineOptions) {
		o.changeOpts = append(o.changeOpts, opts...)
	}
}

// FromConfig translates engine configuration into options.
func FromConfig(cfg config.EngineConfig) []Option {
	opts := []Option{
		WithMaxBatchConcurrency(cfg.MaxBatchConcurrency),
		WithMaxSupersteps(cfg.MaxSupersteps),
		WithRunTimeout(cfg.RunTimeout),
		WithBatchRateLimit(cfg.BatchRatePerSecond, cfg.BatchBurst),
	}
	if cfg.StrictMerge {
		opts = append(opts, WithStrictMerge())
	}
	return opts
}
