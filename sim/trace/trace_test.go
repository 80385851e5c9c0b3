package trace

import (
	"testing"
)

func TestRunTrace_RecordStep_AppendsRecord(t *testing.T) {
	// GIVEN a trace configured for steps
	rt := NewRunTrace(TraceConfig{Level: TraceLevelSteps})

	// WHEN a gate record is recorded
	rt.RecordStep(StepRecord{
		Index:            0,
		Gate:             "H",
		Qubits:           []string{"Button"},
		TotalProbability: 1,
	})

	// THEN the trace contains one step record with correct data
	if len(rt.Steps) != 1 {
		t.Fatalf("expected 1 step, got %d", len(rt.Steps))
	}
	if rt.Steps[0].Gate != "H" {
		t.Errorf("expected gate H, got %s", rt.Steps[0].Gate)
	}
	if rt.Steps[0].Qubits[0] != "Button" {
		t.Errorf("expected operand Button, got %v", rt.Steps[0].Qubits)
	}
}

func TestRunTrace_RecordMeasurement_AppendsRecord(t *testing.T) {
	// GIVEN a trace configured for steps
	rt := NewRunTrace(TraceConfig{Level: TraceLevelSteps})

	// WHEN a measurement record is recorded
	rt.RecordMeasurement(MeasurementRecord{
		Index:          2,
		Qubit:          "Button",
		Key:            "button_result",
		ProbabilityOne: 0.5,
		Outcome:        1,
	})

	// THEN the trace contains one measurement record with correct data
	if len(rt.Measurements) != 1 {
		t.Fatalf("expected 1 measurement, got %d", len(rt.Measurements))
	}
	if rt.Measurements[0].Key != "button_result" {
		t.Errorf("expected key button_result, got %s", rt.Measurements[0].Key)
	}
}

func TestRunTrace_MultipleRecords_PreservesOrder(t *testing.T) {
	// GIVEN a trace
	rt := NewRunTrace(TraceConfig{Level: TraceLevelSteps})

	// WHEN multiple records are added
	rt.RecordStep(StepRecord{Index: 0, Gate: "H"})
	rt.RecordStep(StepRecord{Index: 1, Gate: "CNOT"})
	rt.RecordMeasurement(MeasurementRecord{Index: 2, Key: "a"})
	rt.RecordMeasurement(MeasurementRecord{Index: 3, Key: "b"})

	// THEN order is preserved
	if len(rt.Steps) != 2 {
		t.Fatalf("expected 2 steps, got %d", len(rt.Steps))
	}
	if rt.Steps[0].Gate != "H" || rt.Steps[1].Gate != "CNOT" {
		t.Error("step order not preserved")
	}
	if len(rt.Measurements) != 2 || rt.Measurements[0].Key != "a" || rt.Measurements[1].Key != "b" {
		t.Error("measurement order not preserved")
	}
}

func TestTraceConfig_Enabled(t *testing.T) {
	if (TraceConfig{}).Enabled() {
		t.Error("zero config must be disabled")
	}
	if (TraceConfig{Level: TraceLevelNone}).Enabled() {
		t.Error("none must be disabled")
	}
	if !(TraceConfig{Level: TraceLevelSteps}).Enabled() {
		t.Error("steps must be enabled")
	}
}

func TestIsValidTraceLevel_ValidLevels(t *testing.T) {
	tests := []struct {
		level string
		valid bool
	}{
		{"none", true},
		{"steps", true},
		{"", true}, // empty defaults to none
		{"decisions", false},
		{"foobar", false},
		{"STEPS", false}, // case-sensitive
	}
	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			if got := IsValidTraceLevel(tt.level); got != tt.valid {
				t.Errorf("IsValidTraceLevel(%q) = %v, want %v", tt.level, got, tt.valid)
			}
		})
	}
}
