package workflow

import (
	"fmt"
	"reflect"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/tallen12/Resume-RAG/state"
)

const instrumentationName = "github.com/tallen12/Resume-RAG/workflow"

// Engine is a compiled workflow. It is immutable after New and safe for
// concurrent use; every run owns its own state.
type Engine[S StepID, St any, U any] struct {
	opts   *engineOptions
	logger *zap.Logger
	tracer trace.Tracer
	schema *state.Schema[St]

	steps   []S
	rank    map[S]int
	names   map[Endpoint[S]]string
	actions map[S]Action[St, U]
	edges   []Edge[S, St]
	static  map[Endpoint[S]][]Endpoint[S]
	dynamic map[Endpoint[S]][]DynamicEdge[S, St]
}

var (
	_ AgentGraph[struct{}]      = (*Engine[nopStep, struct{}, struct{}])(nil)
	_ AsyncAgentGraph[struct{}] = (*Engine[nopStep, struct{}, struct{}])(nil)
)

type nopStep int

func (nopStep) String() string { return "" }

// New compiles def. It validates the state and update types, registers every
// step under its node name, resolves each step's action once and checks that
// every edge connects declared endpoints. A panic raised by
// def.ImplementationFor propagates.
func New[S StepID, St any, U any](def Definition[S, St, U], opts ...Option) (*Engine[S, St, U], error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}

	tp := o.tracerProvider
	if tp == nil {
		tp = otel.GetTracerProvider()
	}

	e := &Engine[S, St, U]{
		opts:    o,
		logger:  o.logger.With(zap.String("component", "workflow_engine"), zap.String("workflow", o.name)),
		tracer:  tp.Tracer(instrumentationName),
		rank:    make(map[S]int),
		names:   make(map[Endpoint[S]]string),
		actions: make(map[S]Action[St, U]),
		static:  make(map[Endpoint[S]][]Endpoint[S]),
		dynamic: make(map[Endpoint[S]][]DynamicEdge[S, St]),
	}
	if def == nil {
		return nil, e.declErr("definition is nil", nil)
	}

	schema, err := state.NewSchema[St]()
	if err != nil {
		return nil, e.declErr("invalid state type", err)
	}
	e.schema = schema
	if err := schema.ValidateUpdateType(reflect.TypeOf((*U)(nil)).Elem()); err != nil {
		return nil, e.declErr("invalid update type", err)
	}

	if err := e.registerSteps(def.Steps()); err != nil {
		return nil, err
	}
	if err := e.resolveActions(def); err != nil {
		return nil, err
	}
	if err := e.registerEdges(def.Edges()); err != nil {
		return nil, err
	}

	e.logger.Debug("workflow compiled",
		zap.Int("steps", len(e.steps)),
		zap.Int("edges", len(e.edges)),
	)
	return e, nil
}

// MustNew is like New but panics on error.
func MustNew[S StepID, St any, U any](def Definition[S, St, U], opts ...Option) *Engine[S, St, U] {
	e, err := New(def, opts...)
	if err != nil {
		panic(err)
	}
	return e
}

// Name returns the workflow name.
func (e *Engine[S, St, U]) Name() string { return e.opts.name }

// Schema returns the compiled state schema.
func (e *Engine[S, St, U]) Schema() *state.Schema[St] { return e.schema }

// NodeName returns the registered node name of ep.
func (e *Engine[S, St, U]) NodeName(ep Endpoint[S]) (string, bool) {
	name, ok := e.names[ep]
	return name, ok
}

func (e *Engine[S, St, U]) registerSteps(steps []S) error {
	if len(steps) == 0 {
		return e.declErr("workflow declares no steps", nil)
	}

	byName := make(map[string]Endpoint[S], len(steps)+2)
	register := func(ep Endpoint[S]) error {
		name := ep.String()
		if override, ok := e.opts.nodeNames[ep]; ok {
			name = override
		}
		if name == "" {
			return e.declErr(fmt.Sprintf("endpoint %v has an empty node name", ep), nil)
		}
		if prev, dup := byName[name]; dup {
			return e.declErr(fmt.Sprintf("node name %q is used by both %v and %v", name, prev, ep), nil)
		}
		byName[name] = ep
		e.names[ep] = name
		return nil
	}

	if err := register(Start[S]()); err != nil {
		return err
	}
	if err := register(End[S]()); err != nil {
		return err
	}
	for _, step := range steps {
		if _, dup := e.rank[step]; dup {
			return e.declErr(fmt.Sprintf("step %v declared twice", step), nil)
		}
		if err := register(At(step)); err != nil {
			return err
		}
		e.rank[step] = len(e.steps)
		e.steps = append(e.steps, step)
	}

	// Overrides for endpoints that are not part of this workflow are mistakes.
	for key := range e.opts.nodeNames {
		ep, ok := key.(Endpoint[S])
		if !ok {
			return e.declErr(fmt.Sprintf("node name override for %T does not match the step type", key), nil)
		}
		if _, ok := e.names[ep]; !ok {
			return e.declErr(fmt.Sprintf("node name override for undeclared endpoint %v", ep), nil)
		}
	}
	return nil
}

func (e *Engine[S, St, U]) resolveActions(def Definition[S, St, U]) error {
	for _, step := range e.steps {
		action := def.ImplementationFor(step)
		if isNil(action) {
			return e.declErr(fmt.Sprintf("step %s has no action", e.names[At(step)]), nil)
		}
		e.actions[step] = action
	}
	return nil
}

func (e *Engine[S, St, U]) registerEdges(edges []Edge[S, St]) error {
	for i, edge := range edges {
		switch ed := edge.(type) {
		case StaticEdge[S]:
			if err := e.checkSource(i, ed.From); err != nil {
				return err
			}
			if err := e.checkTarget(i, ed.To); err != nil {
				return err
			}
			e.static[ed.From] = append(e.static[ed.From], ed.To)

		case DynamicEdge[S, St]:
			if err := e.checkSource(i, ed.From); err != nil {
				return err
			}
			if ed.Next == nil {
				return e.declErr(fmt.Sprintf("dynamic edge %d from %v has no decision function", i, ed.From), nil)
			}
			for _, to := range ed.Targets {
				if err := e.checkTarget(i, to); err != nil {
					return err
				}
			}
			e.dynamic[ed.From] = append(e.dynamic[ed.From], ed)

		case nil:
			return e.declErr(fmt.Sprintf("edge %d is nil", i), nil)

		default:
			return e.declErr(fmt.Sprintf("edge %d has unsupported type %T", i, edge), nil)
		}
		e.edges = append(e.edges, edge)
	}
	return nil
}

func (e *Engine[S, St, U]) checkSource(i int, from Endpoint[S]) error {
	switch {
	case !from.IsValid():
		return e.declErr(fmt.Sprintf("edge %d has an invalid source", i), nil)
	case from.IsEnd():
		return e.declErr(fmt.Sprintf("edge %d leaves END", i), nil)
	}
	if _, ok := e.names[from]; !ok {
		return e.declErr(fmt.Sprintf("edge %d starts at undeclared step %v", i, from), nil)
	}
	return nil
}

func (e *Engine[S, St, U]) checkTarget(i int, to Endpoint[S]) error {
	switch {
	case !to.IsValid():
		return e.declErr(fmt.Sprintf("edge %d has an invalid target", i), nil)
	case to.IsStart():
		return e.declErr(fmt.Sprintf("edge %d enters START", i), nil)
	}
	if _, ok := e.names[to]; !ok {
		return e.declErr(fmt.Sprintf("edge %d ends at undeclared step %v", i, to), nil)
	}
	return nil
}

func (e *Engine[S, St, U]) declErr(reason string, err error) error {
	return &DeclarationError{Workflow: e.opts.name, Reason: reason, Err: err}
}

func isNil(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Func, reflect.Pointer, reflect.Map, reflect.Chan, reflect.Interface, reflect.Slice:
		return rv.IsNil()
	}
	return false
}
