package workflow

import (
	"context"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"go.uber.org/zap"
)

func TestProperty_SequentialAddsOnePerStep(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100

	properties := gopter.NewProperties(parameters)
	engine := MustNew(sequentialDefinition(nil), WithLogger(zap.NewNop()))

	properties.Property("A→B→C adds three visits", prop.ForAll(
		func(n int) bool {
			out, err := engine.Invoke(context.Background(), visitState{Visits: n})
			if err != nil {
				t.Logf("Invoke failed: %v", err)
				return false
			}
			return out.Visits == n+3 && len(out.Trace) == 3
		},
		gen.IntRange(-1000, 1000),
	))

	properties.TestingRun(t)
}

func TestProperty_LoopStopsAfterFourVisits(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100

	properties := gopter.NewProperties(parameters)

	properties.Property("loop ends at n+4 with A twice", prop.ForAll(
		func(n int) bool {
			rec := newRecorder()
			out, err := MustNew(loopDefinition(n, rec)).Invoke(context.Background(), visitState{Visits: n})
			if err != nil {
				t.Logf("Invoke failed: %v", err)
				return false
			}
			return out.Visits == n+4 &&
				rec.count(stepA) == 2 &&
				rec.count(stepB) == 1 &&
				rec.count(stepC) == 1
		},
		gen.IntRange(0, 500),
	))

	properties.TestingRun(t)
}

func TestProperty_ShortCircuit(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100

	properties := gopter.NewProperties(parameters)
	engine := MustNew(shortCircuitDefinition(nil))

	properties.Property("ShouldEnd skips every step", prop.ForAll(
		func(n int, end bool) bool {
			out, err := engine.Invoke(context.Background(), visitState{Visits: n, ShouldEnd: end})
			if err != nil {
				return false
			}
			if end {
				return out.Visits == n && out.Trace == nil
			}
			return out.Visits == n+3
		},
		gen.IntRange(-100, 100),
		gen.Bool(),
	))

	properties.TestingRun(t)
}

func TestProperty_AsyncEquivalence(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 50

	properties := gopter.NewProperties(parameters)
	engine := MustNew(fanOutDefinition(nil))

	properties.Property("AsyncInvoke yields the Invoke result", prop.ForAll(
		func(n int) bool {
			in := visitState{Visits: n}
			want, err := engine.Invoke(context.Background(), in)
			if err != nil {
				return false
			}
			got, err := engine.AsyncInvoke(context.Background(), in).Await(context.Background())
			if err != nil {
				return false
			}
			return got.Visits == want.Visits && got.Left == want.Left && got.Right == want.Right
		},
		gen.IntRange(0, 1000),
	))

	properties.TestingRun(t)
}

func TestProperty_BatchMatchesInvoke(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 50

	properties := gopter.NewProperties(parameters)
	engine := MustNew(loopDefinition(2, nil), WithMaxBatchConcurrency(3))

	properties.Property("batch element i equals Invoke(inputs[i])", prop.ForAll(
		func(seeds []int) bool {
			inputs := make([]visitState, len(seeds))
			for i, s := range seeds {
				inputs[i] = visitState{Visits: s}
			}
			outs, err := engine.Batch(context.Background(), inputs)
			if err != nil || len(outs) != len(inputs) {
				return false
			}
			for i, in := range inputs {
				want, err := engine.Invoke(context.Background(), in)
				if err != nil || want.Visits != outs[i].Visits {
					return false
				}
			}
			return true
		},
		gen.SliceOf(gen.IntRange(0, 10)),
	))

	properties.TestingRun(t)
}
