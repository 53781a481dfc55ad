package workflow

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/tallen12/Resume-RAG/state"
	"github.com/tallen12/Resume-RAG/types"
)

// run executes one workflow run from input to END.
func (e *Engine[S, St, U]) run(ctx context.Context, input St) (St, error) {
	var zero St
	runID := uuid.NewString()
	ctx = types.WithWorkflow(types.WithRunID(ctx, runID), e.opts.name)

	if e.opts.runTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.opts.runTimeout)
		defer cancel()
	}

	ctx, span := e.tracer.Start(ctx, "workflow.run",
		trace.WithAttributes(
			attribute.String("workflow.name", e.opts.name),
			attribute.String("workflow.run_id", runID),
		))
	defer span.End()

	logger := e.logger.With(zap.String("run_id", runID))
	logger.Info("starting workflow run")
	start := time.Now()

	out, supersteps, err := e.execute(ctx, logger, input)
	duration := time.Since(start)
	span.SetAttributes(attribute.Int("workflow.supersteps", supersteps))

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		e.opts.observer.ObserveRun(e.opts.name, StatusError, duration)
		logger.Error("workflow run failed",
			zap.Int("supersteps", supersteps),
			zap.Duration("duration", duration),
			zap.Error(err),
		)
		return zero, err
	}

	e.opts.observer.ObserveRun(e.opts.name, StatusSuccess, duration)
	logger.Info("workflow run completed",
		zap.Int("supersteps", supersteps),
		zap.Duration("duration", duration),
	)
	return out, nil
}

// execute drives supersteps until no node is left to run. It returns the
// number of supersteps executed.
func (e *Engine[S, St, U]) execute(ctx context.Context, logger *zap.Logger, input St) (St, int, error) {
	var zero St
	current := e.schema.Fields(input)

	wave, err := e.nextWave(ctx, []Endpoint[S]{Start[S]()}, current, 0)
	if err != nil {
		return zero, 0, err
	}

	superstep := 0
	for len(wave) > 0 {
		if err := ctx.Err(); err != nil {
			return zero, superstep, fmt.Errorf("workflow %q stopped after superstep %d: %w", e.opts.name, superstep, err)
		}
		if limit := e.opts.maxSupersteps; limit > 0 && superstep >= limit {
			return zero, superstep, fmt.Errorf("workflow %q: %w (%d)", e.opts.name, ErrMaxSupersteps, limit)
		}
		superstep++

		current, err = e.runWave(ctx, logger, superstep, wave, current)
		if err != nil {
			return zero, superstep, err
		}

		active := make([]Endpoint[S], len(wave))
		for i, step := range wave {
			active[i] = At(step)
		}
		wave, err = e.nextWave(ctx, active, current, superstep)
		if err != nil {
			return zero, superstep, err
		}
	}

	out, err := e.schema.Build(current)
	if err != nil {
		return zero, superstep, fmt.Errorf("workflow %q: rebuild final state: %w", e.opts.name, err)
	}
	return out, superstep, nil
}

type nodeResult[S StepID, U any] struct {
	step   S
	update U
}

// runWave runs every node of a superstep against the same pre-wave state and
// merges their updates in completion order.
func (e *Engine[S, St, U]) runWave(ctx context.Context, logger *zap.Logger, superstep int, wave []S, current state.Fields) (state.Fields, error) {
	e.opts.observer.ObserveSuperstep(e.opts.name, len(wave))
	logger.Debug("running superstep",
		zap.Int("superstep", superstep),
		zap.Strings("nodes", e.nodeNames(wave)),
	)

	if len(wave) == 1 {
		update, err := e.runNode(ctx, logger, superstep, wave[0], current)
		if err != nil {
			return nil, err
		}
		next, _, err := e.merge(current, wave[0], superstep, update)
		return next, err
	}

	results := make(chan nodeResult[S, U], len(wave))
	g, gctx := errgroup.WithContext(ctx)
	for _, step := range wave {
		g.Go(func() error {
			update, err := e.runNode(gctx, logger, superstep, step, current)
			if err != nil {
				return err
			}
			results <- nodeResult[S, U]{step: step, update: update}
			return nil
		})
	}
	err := g.Wait()
	close(results)
	if err != nil {
		return nil, err
	}

	writers := make(map[string]S)
	for r := range results {
		next, written, err := e.merge(current, r.step, superstep, r.update)
		if err != nil {
			return nil, err
		}
		for _, field := range written {
			if prev, ok := writers[field]; ok && e.opts.strictMerge {
				return nil, &ConflictError{
					Workflow:  e.opts.name,
					Field:     field,
					Nodes:     []string{e.names[At(prev)], e.names[At(r.step)]},
					Superstep: superstep,
				}
			}
			writers[field] = r.step
		}
		current = next
	}
	return current, nil
}

// runNode runs one node on its own copy of the state.
func (e *Engine[S, St, U]) runNode(ctx context.Context, logger *zap.Logger, superstep int, step S, current state.Fields) (U, error) {
	var zero U
	name := e.names[At(step)]

	ctx, span := e.tracer.Start(ctx, "workflow.node",
		trace.WithAttributes(
			attribute.String("workflow.name", e.opts.name),
			attribute.String("workflow.node", name),
			attribute.Int("workflow.superstep", superstep),
		))
	defer span.End()

	ctx = types.WithNode(ctx, name)

	input, err := e.schema.Snapshot(current)
	if err != nil {
		return zero, e.nodeErr(name, superstep, err)
	}

	logger.Debug("executing node", zap.String("node", name), zap.Int("superstep", superstep))
	start := time.Now()
	update, err := e.actions[step].Run(ctx, input)
	duration := time.Since(start)

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		e.opts.observer.ObserveNode(e.opts.name, name, StatusError, duration)
		logger.Error("node execution failed",
			zap.String("node", name),
			zap.Int("superstep", superstep),
			zap.Duration("duration", duration),
			zap.Error(err),
		)
		return zero, e.nodeErr(name, superstep, err)
	}

	e.opts.observer.ObserveNode(e.opts.name, name, StatusSuccess, duration)
	logger.Debug("node completed",
		zap.String("node", name),
		zap.Int("superstep", superstep),
		zap.Duration("duration", duration),
	)
	return update, nil
}

func (e *Engine[S, St, U]) merge(current state.Fields, step S, superstep int, update U) (state.Fields, []string, error) {
	next, written, err := e.schema.Merge(current, update, e.opts.changeOpts...)
	if err != nil {
		return nil, nil, e.nodeErr(e.names[At(step)], superstep, fmt.Errorf("merge update: %w", err))
	}
	return next, written, nil
}

// nextWave resolves the outgoing edges of the nodes that just ran. Static
// targets and dynamic decisions are unioned, END is dropped and the result is
// ordered by step declaration.
func (e *Engine[S, St, U]) nextWave(ctx context.Context, active []Endpoint[S], current state.Fields, superstep int) ([]S, error) {
	var (
		snapshot St
		built    bool
		seen     = make(map[S]struct{})
		next     []S
	)
	add := func(to Endpoint[S]) {
		step, ok := to.Step()
		if !ok {
			return
		}
		if _, dup := seen[step]; !dup {
			seen[step] = struct{}{}
			next = append(next, step)
		}
	}

	for _, from := range active {
		statics, dynamics := e.static[from], e.dynamic[from]
		if len(statics) == 0 && len(dynamics) == 0 {
			return nil, e.dispatchErr(from, superstep, "node has no outgoing edges")
		}
		for _, to := range statics {
			add(to)
		}
		if len(dynamics) == 0 {
			continue
		}

		if !built {
			s, err := e.schema.Snapshot(current)
			if err != nil {
				return nil, fmt.Errorf("workflow %q: build state for dispatch: %w", e.opts.name, err)
			}
			snapshot, built = s, true
		}
		for _, d := range dynamics {
			to, err := e.decide(ctx, d, snapshot, superstep)
			if err != nil {
				return nil, err
			}
			add(to)
		}
	}

	sort.SliceStable(next, func(i, j int) bool { return e.rank[next[i]] < e.rank[next[j]] })
	return next, nil
}

func (e *Engine[S, St, U]) decide(ctx context.Context, d DynamicEdge[S, St], snapshot St, superstep int) (Endpoint[S], error) {
	_, span := e.tracer.Start(ctx, "workflow.decide",
		trace.WithAttributes(
			attribute.String("workflow.name", e.opts.name),
			attribute.String("workflow.node", e.names[d.From]),
		))
	defer span.End()

	to := d.Next(snapshot)
	switch {
	case !to.IsValid():
		return to, e.dispatchErr(d.From, superstep, "decision returned an invalid endpoint")
	case to.IsStart():
		return to, e.dispatchErr(d.From, superstep, "decision returned START")
	}
	name, ok := e.names[to]
	if !ok {
		return to, e.dispatchErr(d.From, superstep, fmt.Sprintf("decision returned unregistered step %v", to))
	}
	if !d.allows(to) {
		return to, e.dispatchErr(d.From, superstep, fmt.Sprintf("decision returned %s, which is not a declared target", name))
	}
	span.SetAttributes(attribute.String("workflow.decision", name))
	return to, nil
}

func (e *Engine[S, St, U]) nodeNames(steps []S) []string {
	out := make([]string, len(steps))
	for i, s := range steps {
		out[i] = e.names[At(s)]
	}
	return out
}

func (e *Engine[S, St, U]) nodeErr(node string, superstep int, err error) error {
	return &NodeError{Workflow: e.opts.name, Node: node, Superstep: superstep, Err: err}
}

func (e *Engine[S, St, U]) dispatchErr(from Endpoint[S], superstep int, reason string) error {
	name, ok := e.names[from]
	if !ok {
		name = from.String()
	}
	return &DispatchError{Workflow: e.opts.name, Node: name, Superstep: superstep, Reason: reason}
}
