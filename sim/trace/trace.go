package trace

// TraceLevel controls the verbosity of run tracing.
type TraceLevel string

const (
	// TraceLevelNone disables tracing (zero overhead).
	TraceLevelNone TraceLevel = "none"
	// TraceLevelSteps captures every gate application and measurement.
	TraceLevelSteps TraceLevel = "steps"
)

// validTraceLevels maps accepted trace level strings.
var validTraceLevels = map[TraceLevel]bool{
	TraceLevelNone:  true,
	TraceLevelSteps: true,
	"":              true, // empty defaults to none
}

// IsValidTraceLevel returns true if the given level string is a recognized trace level.
func IsValidTraceLevel(level string) bool {
	return validTraceLevels[TraceLevel(level)]
}

// TraceConfig controls trace collection behavior.
type TraceConfig struct {
	Level TraceLevel
}

// Enabled reports whether records should be collected.
func (c TraceConfig) Enabled() bool {
	return c.Level == TraceLevelSteps
}

// RunTrace collects step records during one simulation run.
type RunTrace struct {
	Config       TraceConfig
	Steps        []StepRecord
	Measurements []MeasurementRecord
}

// NewRunTrace creates a RunTrace ready for recording.
func NewRunTrace(config TraceConfig) *RunTrace {
	return &RunTrace{
		Config:       config,
		Steps:        make([]StepRecord, 0),
		Measurements: make([]MeasurementRecord, 0),
	}
}

// RecordStep appends a gate application record.
func (rt *RunTrace) RecordStep(record StepRecord) {
	rt.Steps = append(rt.Steps, record)
}

// RecordMeasurement appends a measurement record.
func (rt *RunTrace) RecordMeasurement(record MeasurementRecord) {
	rt.Measurements = append(rt.Measurements, record)
}
