package sim

import "testing"

// scriptedSource replays a fixed list of draws, cycling when exhausted, and
// counts how many were taken.
type scriptedSource struct {
	draws []float64
	taken int
}

func (s *scriptedSource) Float64() float64 {
	if len(s.draws) == 0 {
		s.taken++
		return 0
	}
	v := s.draws[s.taken%len(s.draws)]
	s.taken++
	return v
}

// mustBuild fails the test when the builder recorded an error.
func mustBuild(t *testing.T, b *CircuitBuilder) *Circuit {
	t.Helper()
	c, err := b.Build()
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	return c
}

// stateAfter applies each (gate, positions...) pair to a fresh n-qubit state.
func stateAfter(n int, steps ...step) (*State, error) {
	s, err := NewState(n)
	if err != nil {
		return nil, err
	}
	for _, st := range steps {
		if err := s.ApplyUnitary(st.gate.Matrix(), st.targets...); err != nil {
			return nil, err
		}
	}
	return s, nil
}

type step struct {
	gate    *Gate
	targets []int
}

func on(g *Gate, targets ...int) step { return step{gate: g, targets: targets} }
