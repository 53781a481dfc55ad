package workflow

import "fmt"

const (
	// StartName is the default node name of the START sentinel.
	StartName = "__start__"
	// EndName is the default node name of the END sentinel.
	EndName = "__end__"
)

// StepID is the constraint for step identifiers. Steps are usually a small
// enumeration:
//
//	type ResumeStep int
//
//	const (
//		LookupExperience ResumeStep = iota
//		GenerateBulletPoints
//	)
//
//	func (s ResumeStep) String() string { ... }
type StepID interface {
	comparable
	String() string
}

type endpointKind uint8

const (
	kindInvalid endpointKind = iota
	kindStep
	kindStart
	kindEnd
)

// Endpoint is one end of an edge: a declared step or one of the START and END
// sentinels shared by every workflow. The zero value is invalid.
type Endpoint[S StepID] struct {
	kind endpointKind
	step S
}

// At returns the endpoint for step.
func At[S StepID](step S) Endpoint[S] {
	return Endpoint[S]{kind: kindStep, step: step}
}

// Start returns the START sentinel.
func Start[S StepID]() Endpoint[S] {
	return Endpoint[S]{kind: kindStart}
}

// End returns the END sentinel.
func End[S StepID]() Endpoint[S] {
	return Endpoint[S]{kind: kindEnd}
}

func (e Endpoint[S]) IsStart() bool { return e.kind == kindStart }
func (e Endpoint[S]) IsEnd() bool   { return e.kind == kindEnd }
func (e Endpoint[S]) IsValid() bool { return e.kind != kindInvalid }

// Step returns the step of a step endpoint. ok is false for sentinels.
func (e Endpoint[S]) Step() (step S, ok bool) {
	return e.step, e.kind == kindStep
}

func (e Endpoint[S]) String() string {
	switch e.kind {
	case kindStep:
		return e.step.String()
	case kindStart:
		return StartName
	case kindEnd:
		return EndName
	default:
		return "<invalid>"
	}
}

// DecisionFunc picks the next endpoint from the state produced by the
// superstep its source ran in.
type DecisionFunc[S StepID, St any] func(state St) Endpoint[S]

// Edge is a transition out of an endpoint. The set of edge kinds is closed:
// StaticEdge and DynamicEdge.
type Edge[S StepID, St any] interface {
	Source() Endpoint[S]
	edge()
}

// StaticEdge always moves from From to To.
type StaticEdge[S StepID] struct {
	From Endpoint[S]
	To   Endpoint[S]
}

func (e StaticEdge[S]) Source() Endpoint[S] { return e.From }
func (StaticEdge[S]) edge()                 {}

func (e StaticEdge[S]) String() string {
	return fmt.Sprintf("%s -> %s", e.From, e.To)
}

// DynamicEdge moves from From to whatever Next returns. Targets optionally
// lists every endpoint Next may return; when set, any other result is a
// dispatch error and renderers draw the possible branches.
type DynamicEdge[S StepID, St any] struct {
	From    Endpoint[S]
	Next    DecisionFunc[S, St]
	Targets []Endpoint[S]
	Label   string
}

func (e DynamicEdge[S, St]) Source() Endpoint[S] { return e.From }
func (DynamicEdge[S, St]) edge()                 {}

func (e DynamicEdge[S, St]) allows(to Endpoint[S]) bool {
	if len(e.Targets) == 0 {
		return true
	}
	for _, t := range e.Targets {
		if t == to {
			return true
		}
	}
	return false
}

// Static returns an edge from from to to.
func Static[S StepID](from, to Endpoint[S]) StaticEdge[S] {
	return StaticEdge[S]{From: from, To: to}
}

// Dynamic returns an edge from from whose target is chosen by next.
func Dynamic[S StepID, St any](from Endpoint[S], next DecisionFunc[S, St], targets ...Endpoint[S]) DynamicEdge[S, St] {
	return DynamicEdge[S, St]{From: from, Next: next, Targets: targets}
}
