package sim

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/palacegate/bellsim/sim/trace"
)

// Result holds the classical bits produced by one run, keyed by measurement
// key. It is read-only once Run returns.
type Result struct {
	// RunID identifies the run in logs and over the wire.
	RunID uuid.UUID
	// Trace is nil unless the simulator was configured with TraceLevelSteps.
	Trace *trace.RunTrace

	keys []string
	bits map[string]int
}

func newResult() *Result {
	return &Result{
		RunID: uuid.New(),
		bits:  make(map[string]int),
	}
}

func (r *Result) record(key string, bit int) {
	r.keys = append(r.keys, key)
	r.bits[key] = bit
}

// Bit returns the outcome recorded under key.
func (r *Result) Bit(key string) (int, error) {
	bit, ok := r.bits[key]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnknownKey, key)
	}
	return bit, nil
}

// Keys returns measurement keys in the order they were measured.
func (r *Result) Keys() []string {
	return append([]string(nil), r.keys...)
}

// Measurements returns a copy of the key → bit mapping.
func (r *Result) Measurements() map[string]int {
	out := make(map[string]int, len(r.bits))
	for k, v := range r.bits {
		out[k] = v
	}
	return out
}

func (r *Result) String() string {
	parts := make([]string, len(r.keys))
	for i, k := range r.keys {
		parts[i] = fmt.Sprintf("%s=%d", k, r.bits[k])
	}
	return strings.Join(parts, " ")
}

// Record is the serializable form of a Result.
type Record struct {
	RunID        string         `json:"run_id" msgpack:"run_id"`
	Keys         []string       `json:"keys" msgpack:"keys"`
	Measurements map[string]int `json:"measurements" msgpack:"measurements"`
}

// Record returns the serializable form of the result.
func (r *Result) Record() Record {
	return Record{
		RunID:        r.RunID.String(),
		Keys:         r.Keys(),
		Measurements: r.Measurements(),
	}
}
