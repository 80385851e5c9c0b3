// Package sim provides the state-vector simulation engine behind bellsim.
//
// # Reading Guide
//
// Start with these files to understand the engine:
//   - state.go: the amplitude vector, unitary application and measurement collapse
//   - gate.go: the gate catalog (H, X, CNOT) and unitarity checks
//   - circuit.go: CircuitBuilder and the immutable Circuit
//   - simulator.go: Run, which replays a circuit on a fresh state
//
// # Conventions
//
// A state over n qubits holds 2^n amplitudes. The qubit at position p is bit p
// of the amplitude index, and positions follow the order in which a circuit
// declares its qubits. Multi-qubit gate matrices are written with their first
// operand as the most significant bit, so CNOT is given over (control, target).
//
// # Randomness
//
// Measurements draw from a RandomSource. PartitionedRNG derives isolated,
// seeded streams so that a run is reproducible from its SimulationKey; callers
// running circuits concurrently give every run its own source.
//
// Sub-packages:
//   - sim/trace/: optional per-run execution trace
package sim
