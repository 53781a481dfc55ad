package workflow

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/tallen12/Resume-RAG/changeset"
)

type testStep int

const (
	stepA testStep = iota
	stepB
	stepC
	stepD
)

func (s testStep) String() string {
	switch s {
	case stepA:
		return "A"
	case stepB:
		return "B"
	case stepC:
		return "C"
	case stepD:
		return "D"
	default:
		return "UNKNOWN"
	}
}

type visitState struct {
	Visits    int
	ShouldEnd bool
	Left      string
	Right     string
	Trace     []string
}

type visitUpdate struct {
	Visits changeset.ChangeSet[int]
	Left   changeset.ChangeSet[string]
	Right  changeset.ChangeSet[string]
	Trace  changeset.ChangeSet[[]string]
}

type visitAction = Action[visitState, visitUpdate]

// visit increments Visits, appends the step to Trace and records the state
// it was called with.
func visit(step testStep, rec *recorder) visitAction {
	return ActionFunc[visitState, visitUpdate](func(_ context.Context, s visitState) (visitUpdate, error) {
		rec.record(step, s)
		return visitUpdate{
			Visits: changeset.Add(1),
			Trace:  changeset.Append(step.String()),
		}, nil
	})
}

func actionFunc(fn func(ctx context.Context, s visitState) (visitUpdate, error)) visitAction {
	return ActionFunc[visitState, visitUpdate](fn)
}

func sequentialEdges() []Edge[testStep, visitState] {
	return []Edge[testStep, visitState]{
		Static(Start[testStep](), At(stepA)),
		Static(At(stepA), At(stepB)),
		Static(At(stepB), At(stepC)),
		Static(At(stepC), End[testStep]()),
	}
}

func sequentialDefinition(rec *recorder) *StaticDefinition[testStep, visitState, visitUpdate] {
	return NewStaticDefinition(
		[]testStep{stepA, stepB, stepC},
		sequentialEdges(),
		map[testStep]visitAction{
			stepA: visit(stepA, rec),
			stepB: visit(stepB, rec),
			stepC: visit(stepC, rec),
		},
	)
}

// loopDefinition is START→A→(END if Visits > n+3 else B)→C→A.
func loopDefinition(n int, rec *recorder) *StaticDefinition[testStep, visitState, visitUpdate] {
	return NewStaticDefinition(
		[]testStep{stepA, stepB, stepC},
		[]Edge[testStep, visitState]{
			Static(Start[testStep](), At(stepA)),
			Dynamic(At(stepA), func(s visitState) Endpoint[testStep] {
				if s.Visits > n+3 {
					return End[testStep]()
				}
				return At(stepB)
			}, At(stepB), End[testStep]()),
			Static(At(stepB), At(stepC)),
			Static(At(stepC), At(stepA)),
		},
		map[testStep]visitAction{
			stepA: visit(stepA, rec),
			stepB: visit(stepB, rec),
			stepC: visit(stepC, rec),
		},
	)
}

// shortCircuitDefinition is START→(END if ShouldEnd else A)→B→C→END.
func shortCircuitDefinition(rec *recorder) *StaticDefinition[testStep, visitState, visitUpdate] {
	return NewStaticDefinition(
		[]testStep{stepA, stepB, stepC},
		[]Edge[testStep, visitState]{
			Dynamic(Start[testStep](), func(s visitState) Endpoint[testStep] {
				if s.ShouldEnd {
					return End[testStep]()
				}
				return At(stepA)
			}),
			Static(At(stepA), At(stepB)),
			Static(At(stepB), At(stepC)),
			Static(At(stepC), End[testStep]()),
		},
		map[testStep]visitAction{
			stepA: visit(stepA, rec),
			stepB: visit(stepB, rec),
			stepC: visit(stepC, rec),
		},
	)
}

// fanOutDefinition is START→{A, B}→C→END. A writes Left, B writes Right.
func fanOutDefinition(rec *recorder) *StaticDefinition[testStep, visitState, visitUpdate] {
	branch := func(step testStep, left bool) visitAction {
		return actionFunc(func(_ context.Context, s visitState) (visitUpdate, error) {
			rec.record(step, s)
			u := visitUpdate{Visits: changeset.Add(1), Trace: changeset.Append(step.String())}
			if left {
				u.Left = changeset.Set("left")
			} else {
				u.Right = changeset.Set("right")
			}
			return u, nil
		})
	}
	return NewStaticDefinition(
		[]testStep{stepA, stepB, stepC},
		[]Edge[testStep, visitState]{
			Static(Start[testStep](), At(stepA)),
			Static(Start[testStep](), At(stepB)),
			Static(At(stepA), At(stepC)),
			Static(At(stepB), At(stepC)),
			Static(At(stepC), End[testStep]()),
		},
		map[testStep]visitAction{
			stepA: branch(stepA, true),
			stepB: branch(stepB, false),
			stepC: visit(stepC, rec),
		},
	)
}

// recorder remembers every call of every step.
type recorder struct {
	mu    sync.Mutex
	calls map[testStep][]visitState
	total atomic.Int32
}

func newRecorder() *recorder {
	return &recorder{calls: make(map[testStep][]visitState)}
}

func (r *recorder) record(step testStep, s visitState) {
	if r == nil {
		return
	}
	r.total.Add(1)
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls[step] = append(r.calls[step], s)
}

func (r *recorder) count(step testStep) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.calls[step])
}

func (r *recorder) seen(step testStep) []visitState {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]visitState(nil), r.calls[step]...)
}

// rendezvous blocks until n callers arrived or the timeout passed. It reports
// whether all callers met.
type rendezvous struct {
	n       int32
	arrived atomic.Int32
	ready   chan struct{}
}

func newRendezvous(n int) *rendezvous {
	return &rendezvous{n: int32(n), ready: make(chan struct{})}
}

func (r *rendezvous) wait(ctx context.Context) bool {
	if r.arrived.Add(1) == r.n {
		close(r.ready)
	}
	select {
	case <-r.ready:
		return true
	case <-ctx.Done():
		return false
	case <-time.After(2 * time.Second):
		return false
	}
}

// observerSpy records observer callbacks.
type observerSpy struct {
	mu     sync.Mutex
	runs   []string
	nodes  []string
	widths []int
}

func (o *observerSpy) ObserveRun(_ string, status string, _ time.Duration) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.runs = append(o.runs, status)
}

func (o *observerSpy) ObserveNode(_ string, node, status string, _ time.Duration) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.nodes = append(o.nodes, node+":"+status)
}

func (o *observerSpy) ObserveSuperstep(_ string, width int) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.widths = append(o.widths, width)
}
