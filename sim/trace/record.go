// Package trace provides per-run execution-trace recording for the simulator.
// It has no dependencies on sim/ and stores pure data types.
package trace

// StepRecord captures one gate application.
type StepRecord struct {
	Index            int      // instruction index within the circuit
	Gate             string   // gate name
	Qubits           []string // operands, in operand order
	TotalProbability float64  // squared norm of the state after the gate
}

// MeasurementRecord captures one measurement and its collapse.
type MeasurementRecord struct {
	Index          int
	Qubit          string
	Key            string
	ProbabilityOne float64 // marginal P(1) just before sampling
	Outcome        int
}

// OutcomeProbability returns the probability the observed outcome had before sampling.
func (m MeasurementRecord) OutcomeProbability() float64 {
	if m.Outcome == 1 {
		return m.ProbabilityOne
	}
	return 1 - m.ProbabilityOne
}
