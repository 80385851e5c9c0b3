package trace

import "math"

// determinedTolerance is how close to 1 an outcome probability must be to count as determined.
const determinedTolerance = 1e-9

// TraceSummary aggregates statistics from a RunTrace.
type TraceSummary struct {
	GateCount        int `json:"gate_count"`
	MeasurementCount int `json:"measurement_count"`
	// MaxNormDrift is the largest |1 - ||ψ||²| seen after any gate.
	MaxNormDrift float64 `json:"max_norm_drift"`
	// DeterminedCount counts measurements whose outcome was certain before
	// sampling. In a Bell run the second measurement is always determined.
	DeterminedCount int `json:"determined_count"`
	// MinOutcomeProbability is the smallest prior probability of any observed outcome.
	MinOutcomeProbability float64        `json:"min_outcome_probability"`
	Outcomes              map[string]int `json:"outcomes"` // key → observed bit
}

// Summarize computes aggregate statistics from a RunTrace.
// Safe for nil or empty traces (returns zero-value fields).
func Summarize(rt *RunTrace) *TraceSummary {
	summary := &TraceSummary{
		Outcomes: make(map[string]int),
	}
	if rt == nil {
		return summary
	}

	summary.GateCount = len(rt.Steps)
	for _, s := range rt.Steps {
		summary.MaxNormDrift = math.Max(summary.MaxNormDrift, math.Abs(1-s.TotalProbability))
	}

	summary.MeasurementCount = len(rt.Measurements)
	if len(rt.Measurements) > 0 {
		summary.MinOutcomeProbability = 1
		for _, m := range rt.Measurements {
			summary.Outcomes[m.Key] = m.Outcome
			p := m.OutcomeProbability()
			if p > 1-determinedTolerance {
				summary.DeterminedCount++
			}
			summary.MinOutcomeProbability = math.Min(summary.MinOutcomeProbability, p)
		}
	}

	return summary
}
