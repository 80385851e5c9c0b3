package sim

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidQubitCount is returned when a state is requested for n <= 0 qubits
	// (or more than MaxQubits).
	ErrInvalidQubitCount = errors.New("invalid qubit count")

	// ErrQubitOutOfRange is returned when a bit position does not exist in the state.
	ErrQubitOutOfRange = errors.New("qubit position out of range")

	// ErrDimensionMismatch is returned when a matrix does not span 2^k for k targets.
	ErrDimensionMismatch = errors.New("matrix dimension does not match target count")

	// ErrDuplicateTarget is returned when the same position appears twice in one application.
	ErrDuplicateTarget = errors.New("duplicate target position")

	// ErrNotUnitary is returned by NewGate for matrices with U†U != I.
	ErrNotUnitary = errors.New("matrix is not unitary")

	// ErrArityMismatch is returned when a gate is applied to the wrong number of qubits.
	ErrArityMismatch = errors.New("gate arity mismatch")

	// ErrEmptyQubitID is returned when a qubit is declared with an empty name.
	ErrEmptyQubitID = errors.New("empty qubit identifier")

	// ErrDuplicateQubit is returned when a qubit identifier is declared twice,
	// or appears twice within one instruction.
	ErrDuplicateQubit = errors.New("duplicate qubit identifier")

	// ErrDuplicateKey is returned when two measurements share a key.
	ErrDuplicateKey = errors.New("duplicate measurement key")

	// ErrEmptyKey is returned for a measurement without a key.
	ErrEmptyKey = errors.New("empty measurement key")

	// ErrUnknownKey is returned by Result lookups for keys that were never measured.
	ErrUnknownKey = errors.New("unknown measurement key")
)

// UnknownQubitError reports an instruction that references a qubit identifier
// absent from the circuit's register.
type UnknownQubitError struct {
	Qubit       QubitID
	Instruction int // index of the offending instruction
}

func (e *UnknownQubitError) Error() string {
	return fmt.Sprintf("instruction %d references unknown qubit %q", e.Instruction, e.Qubit)
}

// DegenerateStateError reports a measurement whose observed outcome retains
// (numerically) zero probability mass. It means a non-unitary operator was
// applied somewhere upstream.
type DegenerateStateError struct {
	Qubit    int
	Outcome  int
	Retained float64
}

func (e *DegenerateStateError) Error() string {
	return fmt.Sprintf("degenerate state: measuring position %d as %d retains probability %g",
		e.Qubit, e.Outcome, e.Retained)
}
