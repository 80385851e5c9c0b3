package sim

import (
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/palacegate/bellsim/sim/trace"
)

func newTestSimulator() *Simulator {
	return NewSimulator(SimulatorConfig{})
}

func TestSimulator_Bell_CorrelatedAndBalanced(t *testing.T) {
	// GIVEN the palace-gate circuit and 10,000 independently seeded runs
	const runs = 10000
	c := BuildBellCircuit()
	s := newTestSimulator()
	cfg := DefaultBellConfig()

	ones, mismatches := 0, 0
	for seed := int64(0); seed < runs; seed++ {
		// WHEN each run executes
		res, err := s.Run(c, NewRandomSource(seed))
		require.NoError(t, err)
		out, err := ReadBellOutcome(res, cfg)
		require.NoError(t, err)

		if !out.Matched() {
			mismatches++
		}
		ones += out.Control
	}

	// THEN the bits always agree and each value shows up about half the time
	assert.Zero(t, mismatches)
	frac := float64(ones) / runs
	assert.InDelta(t, 0.5, frac, 0.02, "fraction of ones = %v", frac)
}

func TestSimulator_SameSeedSameResult(t *testing.T) {
	c, err := BuildGHZCircuit(5)
	require.NoError(t, err)
	s := newTestSimulator()

	for seed := int64(0); seed < 50; seed++ {
		a, err := s.Run(c, NewRandomSource(seed))
		require.NoError(t, err)
		b, err := s.Run(c, NewRandomSource(seed))
		require.NoError(t, err)

		assert.Equal(t, a.Measurements(), b.Measurements(), "seed %d", seed)
		assert.NotEqual(t, a.RunID, b.RunID)
	}
}

func TestSimulator_UnknownQubit_FailsBeforeSimulating(t *testing.T) {
	// GIVEN a circuit whose third instruction touches an undeclared qubit
	c := mustBuild(t, NewCircuitBuilder("a").
		H("a").
		Measure("a", "ma").
		X("ghost"))
	rng := &scriptedSource{draws: []float64{0.1}}

	// WHEN run
	res, err := newTestSimulator().Run(c, rng)

	// THEN the error names the qubit and nothing was sampled
	assert.Nil(t, res)
	var unknown *UnknownQubitError
	require.True(t, errors.As(err, &unknown))
	assert.Equal(t, QubitID("ghost"), unknown.Qubit)
	assert.Equal(t, 2, unknown.Instruction)
	assert.Zero(t, rng.taken)
}

func TestSimulator_EmptyRegister_ReturnsInvalidCount(t *testing.T) {
	c := mustBuild(t, NewCircuitBuilder())

	res, err := newTestSimulator().Run(c, NewRandomSource(1))

	assert.Nil(t, res)
	assert.ErrorIs(t, err, ErrInvalidQubitCount)
}

func TestSimulator_NoMeasurements_EmptyResult(t *testing.T) {
	c := mustBuild(t, NewCircuitBuilder("a").H("a"))

	res, err := newTestSimulator().Run(c, NewRandomSource(1))

	require.NoError(t, err)
	assert.Empty(t, res.Keys())
	assert.Empty(t, res.Measurements())
}

func TestSimulator_RepeatedMeasurementAgrees(t *testing.T) {
	c := mustBuild(t, NewCircuitBuilder("a").
		H("a").
		Measure("a", "first").
		Measure("a", "second"))
	s := newTestSimulator()

	for seed := int64(0); seed < 200; seed++ {
		res, err := s.Run(c, NewRandomSource(seed))
		require.NoError(t, err)
		first, _ := res.Bit("first")
		second, _ := res.Bit("second")
		assert.Equal(t, first, second, "seed %d", seed)
	}
}

func TestSimulator_DeterministicCircuits(t *testing.T) {
	tests := []struct {
		name  string
		build *CircuitBuilder
		want  map[string]int
	}{
		{
			name:  "cnot before hadamard never fires",
			build: NewCircuitBuilder("a", "b").CNOT("a", "b").Measure("a", "ma").Measure("b", "mb"),
			want:  map[string]int{"ma": 0, "mb": 0},
		},
		{
			name:  "x then cnot sets both",
			build: NewCircuitBuilder("a", "b").X("a").CNOT("a", "b").Measure("a", "ma").Measure("b", "mb"),
			want:  map[string]int{"ma": 1, "mb": 1},
		},
		{
			name:  "double hadamard is identity",
			build: NewCircuitBuilder("a").H("a").H("a").Measure("a", "ma"),
			want:  map[string]int{"ma": 0},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := mustBuild(t, tt.build)
			for seed := int64(0); seed < 100; seed++ {
				res, err := newTestSimulator().Run(c, NewRandomSource(seed))
				require.NoError(t, err)
				assert.Equal(t, tt.want, res.Measurements())
			}
		})
	}
}

func TestSimulator_GHZ_AllBitsAgree(t *testing.T) {
	const n = 6
	c, err := BuildGHZCircuit(n)
	require.NoError(t, err)
	s := newTestSimulator()

	seen := map[int]bool{}
	for seed := int64(0); seed < 200; seed++ {
		res, err := s.Run(c, NewRandomSource(seed))
		require.NoError(t, err)

		m := res.Measurements()
		require.Len(t, m, n)
		first := m["m0"]
		for k, v := range m {
			assert.Equal(t, first, v, "seed %d key %s", seed, k)
		}
		seen[first] = true
	}
	assert.Len(t, seen, 2, "both outcomes should appear over 200 seeds")
}

func TestSimulator_NilSource_StillRuns(t *testing.T) {
	res, err := newTestSimulator().Run(BuildBellCircuit(), nil)

	require.NoError(t, err)
	out, err := ReadBellOutcome(res, DefaultBellConfig())
	require.NoError(t, err)
	assert.True(t, out.Matched())
}

func TestSimulator_ConcurrentRuns(t *testing.T) {
	// GIVEN one simulator and one circuit shared by many goroutines
	s := newTestSimulator()
	c := BuildBellCircuit()
	cfg := DefaultBellConfig()

	var wg sync.WaitGroup
	errs := make(chan error, 64)
	mismatched := make(chan int64, 64)
	for g := 0; g < 64; g++ {
		wg.Add(1)
		go func(seed int64) {
			defer wg.Done()
			res, err := s.Run(c, NewRandomSource(seed))
			if err != nil {
				errs <- err
				return
			}
			out, err := ReadBellOutcome(res, cfg)
			if err != nil {
				errs <- err
				return
			}
			if !out.Matched() {
				mismatched <- seed
			}
		}(int64(g))
	}
	wg.Wait()
	close(errs)
	close(mismatched)

	// THEN every run succeeds and is correlated
	for err := range errs {
		t.Error(err)
	}
	for seed := range mismatched {
		t.Errorf("seed %d produced mismatched bits", seed)
	}
}

func TestSimulator_TraceSteps(t *testing.T) {
	// GIVEN a simulator with step tracing
	s := NewSimulator(SimulatorConfig{Trace: trace.TraceConfig{Level: trace.TraceLevelSteps}})

	// WHEN the Bell circuit runs
	res, err := s.Run(BuildBellCircuit(), NewRandomSource(7))
	require.NoError(t, err)

	// THEN both gates and both measurements are recorded
	require.NotNil(t, res.Trace)
	require.Len(t, res.Trace.Steps, 2)
	require.Len(t, res.Trace.Measurements, 2)
	assert.Equal(t, "H", res.Trace.Steps[0].Gate)
	assert.Equal(t, []string{"Button", "Palace Gate"}, res.Trace.Steps[1].Qubits)
	assert.InDelta(t, 1.0, res.Trace.Steps[1].TotalProbability, 1e-9)

	first := res.Trace.Measurements[0]
	assert.Equal(t, "button_result", first.Key)
	assert.InDelta(t, 0.5, first.ProbabilityOne, 1e-9)

	// the second qubit is fully determined by the first reading
	second := res.Trace.Measurements[1]
	assert.InDelta(t, float64(first.Outcome), second.ProbabilityOne, 1e-9)

	summary := trace.Summarize(res.Trace)
	assert.Equal(t, 2, summary.GateCount)
	assert.Equal(t, 2, summary.MeasurementCount)
	assert.Equal(t, 1, summary.DeterminedCount)
}

func TestSimulator_TraceDisabledByDefault(t *testing.T) {
	res, err := newTestSimulator().Run(BuildBellCircuit(), NewRandomSource(7))

	require.NoError(t, err)
	assert.Nil(t, res.Trace)
}
