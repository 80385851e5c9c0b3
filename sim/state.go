package sim

import (
	"fmt"
	"math"
	"math/cmplx"

	"gonum.org/v1/gonum/cmplxs"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// MaxQubits bounds the register size so a state never exceeds 2^24 amplitudes.
const MaxQubits = 24

// degenerateTolerance is the retained probability below which a collapse is refused.
const degenerateTolerance = 1e-12

// State is a state vector over n qubits: 2^n complex amplitudes indexed by the
// binary encoding of the qubit values. Position p is bit p of the index.
//
// Thread-safety: NOT thread-safe. A State belongs to exactly one run.
type State struct {
	numQubits  int
	amplitudes []complex128
}

// NewState returns n qubits all at |0⟩ (amplitude 1 at index 0).
func NewState(n int) (*State, error) {
	if n <= 0 || n > MaxQubits {
		return nil, fmt.Errorf("%w: %d (want 1..%d)", ErrInvalidQubitCount, n, MaxQubits)
	}
	amps := make([]complex128, 1<<n)
	amps[0] = 1
	return &State{numQubits: n, amplitudes: amps}, nil
}

// NumQubits returns the register width.
func (s *State) NumQubits() int { return s.numQubits }

// Amplitudes returns a copy of the amplitude vector.
func (s *State) Amplitudes() []complex128 {
	out := make([]complex128, len(s.amplitudes))
	copy(out, s.amplitudes)
	return out
}

// Probabilities returns |a_i|² for every basis index i.
func (s *State) Probabilities() []float64 {
	probs := make([]float64, len(s.amplitudes))
	cmplxs.Abs(probs, s.amplitudes)
	for i, a := range probs {
		probs[i] = a * a
	}
	return probs
}

// TotalProbability returns the squared L2 norm of the state. It is 1 for every
// state reachable through unitary gates and measurement.
func (s *State) TotalProbability() float64 {
	n := cmplxs.Norm(s.amplitudes, 2)
	return n * n
}

// ProbabilityOne returns the marginal probability that the qubit at position
// reads 1.
func (s *State) ProbabilityOne(qubit int) (float64, error) {
	if err := s.checkPosition(qubit); err != nil {
		return 0, err
	}
	return s.marginal(qubit, 1), nil
}

// ApplyUnitary applies u, a dense 2^k x 2^k matrix, to the k target positions
// and identity to every other qubit. targets[0] is the most significant bit of
// the matrix sub-index, so a controlled gate is written over (control, target).
// u is assumed unitary; only its shape is verified.
func (s *State) ApplyUnitary(u mat.CMatrix, targets ...int) error {
	k := len(targets)
	if k == 0 {
		return fmt.Errorf("%w: no targets", ErrDimensionMismatch)
	}
	mask := 0
	for _, t := range targets {
		if err := s.checkPosition(t); err != nil {
			return err
		}
		if mask&(1<<t) != 0 {
			return fmt.Errorf("%w: %d", ErrDuplicateTarget, t)
		}
		mask |= 1 << t
	}
	dim := 1 << k
	if r, c := u.Dims(); r != dim || c != dim {
		return fmt.Errorf("%w: got %dx%d for %d targets", ErrDimensionMismatch, r, c, k)
	}

	// offsets[m] is the amplitude index offset of sub-index m relative to a base
	// index whose target bits are all zero.
	offsets := make([]int, dim)
	for m := 0; m < dim; m++ {
		for j, t := range targets {
			if m&(1<<(k-1-j)) != 0 {
				offsets[m] |= 1 << t
			}
		}
	}

	in := make([]complex128, dim)
	for base := range s.amplitudes {
		if base&mask != 0 {
			continue
		}
		for m, off := range offsets {
			in[m] = s.amplitudes[base|off]
		}
		for row, off := range offsets {
			var acc complex128
			for col := 0; col < dim; col++ {
				if v := u.At(row, col); v != 0 {
					acc += v * in[col]
				}
			}
			s.amplitudes[base|off] = acc
		}
	}
	return nil
}

// Measure samples the qubit at position and collapses the state onto the
// observed outcome. outcome = 1 iff rng.Float64() < P(qubit = 1).
func (s *State) Measure(qubit int, rng RandomSource) (int, error) {
	if err := s.checkPosition(qubit); err != nil {
		return 0, err
	}
	p1 := s.marginal(qubit, 1)
	outcome := 0
	if rng.Float64() < p1 {
		outcome = 1
	}

	retained := s.marginal(qubit, outcome)
	if retained < degenerateTolerance {
		return 0, &DegenerateStateError{Qubit: qubit, Outcome: outcome, Retained: retained}
	}

	bit := 1 << qubit
	for i := range s.amplitudes {
		if (i&bit != 0) != (outcome == 1) {
			s.amplitudes[i] = 0
		}
	}
	cmplxs.ScaleReal(1/math.Sqrt(retained), s.amplitudes)
	return outcome, nil
}

// marginal sums |a_i|² over the indices where the qubit's bit equals value.
func (s *State) marginal(qubit, value int) float64 {
	bit := 1 << qubit
	terms := make([]float64, 0, len(s.amplitudes)/2)
	for i, a := range s.amplitudes {
		if (i&bit != 0) == (value == 1) {
			m := cmplx.Abs(a)
			terms = append(terms, m*m)
		}
	}
	return floats.Sum(terms)
}

func (s *State) checkPosition(qubit int) error {
	if qubit < 0 || qubit >= s.numQubits {
		return fmt.Errorf("%w: %d not in [0, %d)", ErrQubitOutOfRange, qubit, s.numQubits)
	}
	return nil
}
