package sim

import (
	"fmt"
	"math"
	"math/bits"
	"strings"

	"gonum.org/v1/gonum/mat"
)

// unitaryTolerance bounds the element-wise deviation of U†U from I accepted by NewGate.
const unitaryTolerance = 1e-9

// Gate is a stateless description of a unitary: a matrix over 2^arity basis
// states plus the names used for lookup and rendering. Gates are immutable and
// safe to share between goroutines.
type Gate struct {
	name    string
	qasm    string
	symbols []string
	matrix  *mat.CDense
}

// NewGate builds a gate from a row-major square matrix. symbols gives the
// diagram glyph for each operand, in operand order.
func NewGate(name, qasm string, symbols []string, data []complex128) (*Gate, error) {
	dim := int(math.Round(math.Sqrt(float64(len(data)))))
	if dim*dim != len(data) || dim < 2 || bits.OnesCount(uint(dim)) != 1 {
		return nil, fmt.Errorf("%w: gate %s has %d entries", ErrDimensionMismatch, name, len(data))
	}
	arity := bits.TrailingZeros(uint(dim))
	if len(symbols) != arity {
		return nil, fmt.Errorf("%w: gate %s has %d symbols for %d qubits", ErrArityMismatch, name, len(symbols), arity)
	}
	raw := make([]complex128, len(data))
	copy(raw, data)
	m := mat.NewCDense(dim, dim, raw)
	if !isUnitary(m) {
		return nil, fmt.Errorf("%w: gate %s", ErrNotUnitary, name)
	}
	syms := make([]string, len(symbols))
	copy(syms, symbols)
	return &Gate{name: name, qasm: qasm, symbols: syms, matrix: m}, nil
}

func mustGate(name, qasm string, symbols []string, data []complex128) *Gate {
	g, err := NewGate(name, qasm, symbols, data)
	if err != nil {
		panic(err)
	}
	return g
}

// Name returns the gate's canonical name (e.g. "H", "CNOT").
func (g *Gate) Name() string { return g.name }

// QASM returns the OpenQASM 2.0 mnemonic.
func (g *Gate) QASM() string { return g.qasm }

// Arity returns the number of qubits the gate acts on.
func (g *Gate) Arity() int { return len(g.symbols) }

// Symbol returns the diagram glyph for operand i.
func (g *Gate) Symbol(i int) string { return g.symbols[i] }

// Matrix returns the gate's unitary. The returned matrix must not be modified.
func (g *Gate) Matrix() mat.CMatrix { return g.matrix }

func (g *Gate) String() string { return g.name }

// isUnitary reports whether U†U equals the identity within unitaryTolerance.
func isUnitary(u *mat.CDense) bool {
	n, _ := u.Dims()
	h := u.H()
	prod := mat.NewCDense(n, n, nil)
	ident := mat.NewCDense(n, n, nil)
	for i := 0; i < n; i++ {
		ident.Set(i, i, 1)
		for j := 0; j < n; j++ {
			var acc complex128
			for k := 0; k < n; k++ {
				acc += h.At(i, k) * u.At(k, j)
			}
			prod.Set(i, j, acc)
		}
	}
	return mat.CEqualApprox(prod, ident, unitaryTolerance)
}

var invSqrt2 = complex(1/math.Sqrt2, 0)

// Gate catalog.
var (
	// Hadamard maps |0⟩ to (|0⟩+|1⟩)/√2 and |1⟩ to (|0⟩-|1⟩)/√2.
	Hadamard = mustGate("H", "h", []string{"H"}, []complex128{
		invSqrt2, invSqrt2,
		invSqrt2, -invSqrt2,
	})

	// PauliX is the bit flip.
	PauliX = mustGate("X", "x", []string{"X"}, []complex128{
		0, 1,
		1, 0,
	})

	// CNOT flips the target wherever the control is 1. Operands are (control, target).
	CNOT = mustGate("CNOT", "cx", []string{"@", "X"}, []complex128{
		1, 0, 0, 0,
		0, 1, 0, 0,
		0, 0, 0, 1,
		0, 0, 1, 0,
	})
)

var catalog = map[string]*Gate{}

func init() {
	for _, g := range []*Gate{Hadamard, PauliX, CNOT} {
		catalog[strings.ToLower(g.name)] = g
		catalog[strings.ToLower(g.qasm)] = g
	}
}

// LookupGate resolves a catalog gate by name or QASM mnemonic, case-insensitively.
func LookupGate(name string) (*Gate, bool) {
	g, ok := catalog[strings.ToLower(name)]
	return g, ok
}
