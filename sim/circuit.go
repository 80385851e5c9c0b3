package sim

import (
	"fmt"
	"strings"
)

// QubitID names one qubit within a circuit.
type QubitID string

// OpKind distinguishes gate applications from measurements.
type OpKind int

const (
	OpGate OpKind = iota
	OpMeasure
)

func (k OpKind) String() string {
	switch k {
	case OpGate:
		return "gate"
	case OpMeasure:
		return "measure"
	default:
		return fmt.Sprintf("OpKind(%d)", int(k))
	}
}

// Instruction is one step of a circuit. For OpGate, Gate acts on Qubits in
// operand order. For OpMeasure, Qubits holds the single measured qubit and Key
// names the classical outcome.
type Instruction struct {
	Kind   OpKind
	Gate   *Gate
	Qubits []QubitID
	Key    string
}

func (in Instruction) clone() Instruction {
	qs := make([]QubitID, len(in.Qubits))
	copy(qs, in.Qubits)
	in.Qubits = qs
	return in
}

func (in Instruction) String() string {
	names := make([]string, len(in.Qubits))
	for i, q := range in.Qubits {
		names[i] = string(q)
	}
	if in.Kind == OpMeasure {
		return fmt.Sprintf("measure(%s -> %q)", strings.Join(names, ", "), in.Key)
	}
	return fmt.Sprintf("%s(%s)", in.Gate.Name(), strings.Join(names, ", "))
}

// CircuitBuilder accumulates instructions in append order. The first
// structural error is kept and returned by Build; later calls are no-ops.
type CircuitBuilder struct {
	qubits   []QubitID
	declared map[QubitID]bool
	keys     map[string]bool
	instrs   []Instruction
	err      error
}

// NewCircuitBuilder starts a circuit whose register holds qubits in the given
// order. Declaration order fixes the amplitude bit positions (first = bit 0).
func NewCircuitBuilder(qubits ...QubitID) *CircuitBuilder {
	b := &CircuitBuilder{
		declared: make(map[QubitID]bool),
		keys:     make(map[string]bool),
	}
	for _, q := range qubits {
		b.Qubit(q)
	}
	return b
}

// Qubit declares one more qubit.
func (b *CircuitBuilder) Qubit(id QubitID) *CircuitBuilder {
	if b.err != nil {
		return b
	}
	if id == "" {
		b.err = ErrEmptyQubitID
		return b
	}
	if b.declared[id] {
		b.err = fmt.Errorf("%w: %q", ErrDuplicateQubit, id)
		return b
	}
	b.declared[id] = true
	b.qubits = append(b.qubits, id)
	return b
}

// Apply appends gate g acting on qubits, in operand order.
func (b *CircuitBuilder) Apply(g *Gate, qubits ...QubitID) *CircuitBuilder {
	if b.err != nil {
		return b
	}
	if len(qubits) != g.Arity() {
		b.err = fmt.Errorf("%w: %s takes %d qubits, got %d", ErrArityMismatch, g.Name(), g.Arity(), len(qubits))
		return b
	}
	seen := make(map[QubitID]bool, len(qubits))
	for _, q := range qubits {
		if seen[q] {
			b.err = fmt.Errorf("%w: %q repeated in %s", ErrDuplicateQubit, q, g.Name())
			return b
		}
		seen[q] = true
	}
	b.instrs = append(b.instrs, Instruction{Kind: OpGate, Gate: g, Qubits: append([]QubitID(nil), qubits...)})
	return b
}

// H appends a Hadamard on q.
func (b *CircuitBuilder) H(q QubitID) *CircuitBuilder { return b.Apply(Hadamard, q) }

// X appends a Pauli-X on q.
func (b *CircuitBuilder) X(q QubitID) *CircuitBuilder { return b.Apply(PauliX, q) }

// CNOT appends a controlled-NOT.
func (b *CircuitBuilder) CNOT(control, target QubitID) *CircuitBuilder {
	return b.Apply(CNOT, control, target)
}

// Measure appends a measurement of q reported under key.
func (b *CircuitBuilder) Measure(q QubitID, key string) *CircuitBuilder {
	if b.err != nil {
		return b
	}
	if key == "" {
		b.err = fmt.Errorf("%w: measuring %q", ErrEmptyKey, q)
		return b
	}
	if b.keys[key] {
		b.err = fmt.Errorf("%w: %q", ErrDuplicateKey, key)
		return b
	}
	b.keys[key] = true
	b.instrs = append(b.instrs, Instruction{Kind: OpMeasure, Qubits: []QubitID{q}, Key: key})
	return b
}

// Build freezes the accumulated instructions into a Circuit. References to
// undeclared qubits are not checked here; Simulator.Run reports them.
func (b *CircuitBuilder) Build() (*Circuit, error) {
	if b.err != nil {
		return nil, b.err
	}
	c := &Circuit{
		qubits: append([]QubitID(nil), b.qubits...),
		instrs: make([]Instruction, len(b.instrs)),
	}
	for i, in := range b.instrs {
		c.instrs[i] = in.clone()
	}
	return c, nil
}

// Circuit is an immutable, ordered sequence of instructions over a declared
// qubit register. A Circuit may be run any number of times, concurrently.
type Circuit struct {
	qubits []QubitID
	instrs []Instruction
}

// Qubits returns the register in declaration order.
func (c *Circuit) Qubits() []QubitID {
	return append([]QubitID(nil), c.qubits...)
}

// Instructions returns a copy of the instruction list.
func (c *Circuit) Instructions() []Instruction {
	out := make([]Instruction, len(c.instrs))
	for i, in := range c.instrs {
		out[i] = in.clone()
	}
	return out
}

// Len returns the number of instructions.
func (c *Circuit) Len() int { return len(c.instrs) }

// MeasurementKeys returns measurement keys in instruction order.
func (c *Circuit) MeasurementKeys() []string {
	var keys []string
	for _, in := range c.instrs {
		if in.Kind == OpMeasure {
			keys = append(keys, in.Key)
		}
	}
	return keys
}

// Moments groups instruction indices into layers for rendering. An
// instruction occupies every diagram row between its outermost operands and
// lands one moment after the latest moment used on any of those rows, so the
// per-qubit order of the circuit is preserved.
func (c *Circuit) Moments() [][]int {
	rows := c.rowIndex()
	last := make(map[int]int)
	var moments [][]int
	for i, in := range c.instrs {
		lo, hi := span(in, rows)
		m := 0
		for r := lo; r <= hi; r++ {
			if l, ok := last[r]; ok && l+1 > m {
				m = l + 1
			}
		}
		for len(moments) <= m {
			moments = append(moments, nil)
		}
		moments[m] = append(moments[m], i)
		for r := lo; r <= hi; r++ {
			last[r] = m
		}
	}
	return moments
}

// rows returns the diagram rows: the declared register followed by any
// undeclared qubit an instruction references, in first-reference order.
func (c *Circuit) rows() []QubitID {
	out := append([]QubitID(nil), c.qubits...)
	seen := make(map[QubitID]bool, len(out))
	for _, q := range out {
		seen[q] = true
	}
	for _, in := range c.instrs {
		for _, q := range in.Qubits {
			if !seen[q] {
				seen[q] = true
				out = append(out, q)
			}
		}
	}
	return out
}

func (c *Circuit) rowIndex() map[QubitID]int {
	idx := make(map[QubitID]int)
	for i, q := range c.rows() {
		idx[q] = i
	}
	return idx
}

func span(in Instruction, rows map[QubitID]int) (lo, hi int) {
	lo, hi = rows[in.Qubits[0]], rows[in.Qubits[0]]
	for _, q := range in.Qubits[1:] {
		lo = min(lo, rows[q])
		hi = max(hi, rows[q])
	}
	return lo, hi
}

func (c *Circuit) String() string { return c.Diagram() }
