package sim

import (
	"fmt"
)

// Default names of the palace-gate scenario.
const (
	DefaultControlQubit QubitID = "Button"
	DefaultTargetQubit  QubitID = "Palace Gate"
	DefaultControlKey           = "button_result"
	DefaultTargetKey            = "gate_result"
)

// BellConfig names the two qubits and the two measurement keys of a Bell circuit.
type BellConfig struct {
	ControlQubit QubitID
	TargetQubit  QubitID
	ControlKey   string
	TargetKey    string
}

// DefaultBellConfig returns the palace-gate names.
func DefaultBellConfig() BellConfig {
	return BellConfig{
		ControlQubit: DefaultControlQubit,
		TargetQubit:  DefaultTargetQubit,
		ControlKey:   DefaultControlKey,
		TargetKey:    DefaultTargetKey,
	}
}

// BuildBellCircuitWith builds H(control); CNOT(control, target);
// measure(control); measure(target) with the configured names.
func BuildBellCircuitWith(cfg BellConfig) (*Circuit, error) {
	c, err := NewCircuitBuilder(cfg.ControlQubit, cfg.TargetQubit).
		H(cfg.ControlQubit).
		CNOT(cfg.ControlQubit, cfg.TargetQubit).
		Measure(cfg.ControlQubit, cfg.ControlKey).
		Measure(cfg.TargetQubit, cfg.TargetKey).
		Build()
	if err != nil {
		return nil, fmt.Errorf("building bell circuit: %w", err)
	}
	return c, nil
}

// BuildBellCircuit builds the palace-gate Bell circuit with default names.
func BuildBellCircuit() *Circuit {
	c, err := BuildBellCircuitWith(DefaultBellConfig())
	if err != nil {
		panic(err) // static names; cannot fail
	}
	return c
}

// BellOutcome is the pair of bits read from a Bell run.
type BellOutcome struct {
	Control int
	Target  int
}

// Matched reports whether both qubits collapsed to the same value. Always true
// for a correct simulation.
func (o BellOutcome) Matched() bool { return o.Control == o.Target }

// ReadBellOutcome extracts the two bits named by cfg from a result.
func ReadBellOutcome(res *Result, cfg BellConfig) (BellOutcome, error) {
	control, err := res.Bit(cfg.ControlKey)
	if err != nil {
		return BellOutcome{}, err
	}
	target, err := res.Bit(cfg.TargetKey)
	if err != nil {
		return BellOutcome{}, err
	}
	return BellOutcome{Control: control, Target: target}, nil
}

// BuildGHZCircuit builds the n-qubit GHZ circuit: H(q0), CNOT(q{i-1}, q{i})
// for i in 1..n-1, then measures every qubit qi under key mi.
func BuildGHZCircuit(n int) (*Circuit, error) {
	if n <= 0 || n > MaxQubits {
		return nil, fmt.Errorf("%w: %d", ErrInvalidQubitCount, n)
	}
	ids := make([]QubitID, n)
	for i := range ids {
		ids[i] = QubitID(fmt.Sprintf("q%d", i))
	}
	b := NewCircuitBuilder(ids...).H(ids[0])
	for i := 1; i < n; i++ {
		b.CNOT(ids[i-1], ids[i])
	}
	for i, q := range ids {
		b.Measure(q, fmt.Sprintf("m%d", i))
	}
	return b.Build()
}
