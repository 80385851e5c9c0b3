// sim/simulator.go
package sim

import (
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/palacegate/bellsim/sim/trace"
)

// SimulatorConfig groups run-time options of the simulator.
type SimulatorConfig struct {
	Trace trace.TraceConfig
}

// Simulator executes circuits against freshly allocated states. It keeps no
// state between runs, so one Simulator may serve concurrent callers as long as
// each call brings its own RandomSource.
type Simulator struct {
	config SimulatorConfig
}

// NewSimulator creates a Simulator with the given configuration.
func NewSimulator(config SimulatorConfig) *Simulator {
	return &Simulator{config: config}
}

// Run replays the circuit instruction by instruction on a new state with every
// qubit at |0⟩ and returns the recorded measurement bits. Qubit positions follow
// the circuit's declaration order. Every qubit reference is resolved before the
// state is allocated, so an *UnknownQubitError leaves nothing mutated and draws
// nothing from rng. A nil rng is replaced by a time-seeded source.
func (sim *Simulator) Run(c *Circuit, rng RandomSource) (*Result, error) {
	positions, err := resolvePositions(c)
	if err != nil {
		return nil, err
	}
	if rng == nil {
		rng = NewRandomSource(time.Now().UnixNano())
	}

	state, err := NewState(len(c.qubits))
	if err != nil {
		return nil, fmt.Errorf("allocating state: %w", err)
	}

	res := newResult()
	if sim.config.Trace.Enabled() {
		res.Trace = trace.NewRunTrace(sim.config.Trace)
	}
	logrus.Debugf("[run %s] %d qubits, %d instructions", res.RunID, len(c.qubits), len(c.instrs))

	for i, in := range c.instrs {
		targets := positions[i]
		logrus.Debugf("[instr %02d] %s", i, in)

		switch in.Kind {
		case OpGate:
			if err := state.ApplyUnitary(in.Gate.Matrix(), targets...); err != nil {
				return nil, fmt.Errorf("instruction %d (%s): %w", i, in, err)
			}
			if res.Trace != nil {
				res.Trace.RecordStep(trace.StepRecord{
					Index:            i,
					Gate:             in.Gate.Name(),
					Qubits:           qubitNames(in.Qubits),
					TotalProbability: state.TotalProbability(),
				})
			}
		case OpMeasure:
			p1, err := state.ProbabilityOne(targets[0])
			if err != nil {
				return nil, fmt.Errorf("instruction %d (%s): %w", i, in, err)
			}
			bit, err := state.Measure(targets[0], rng)
			if err != nil {
				return nil, fmt.Errorf("instruction %d (%s): %w", i, in, err)
			}
			res.record(in.Key, bit)
			if res.Trace != nil {
				res.Trace.RecordMeasurement(trace.MeasurementRecord{
					Index:          i,
					Qubit:          string(in.Qubits[0]),
					Key:            in.Key,
					ProbabilityOne: p1,
					Outcome:        bit,
				})
			}
			logrus.Debugf("[instr %02d] P(1)=%.6f -> %d", i, p1, bit)
		default:
			return nil, fmt.Errorf("instruction %d: unsupported kind %s", i, in.Kind)
		}
	}

	logrus.Infof("[run %s] completed: %s", res.RunID, res)
	return res, nil
}

// resolvePositions maps each instruction's qubits to amplitude bit positions.
func resolvePositions(c *Circuit) ([][]int, error) {
	index := make(map[QubitID]int, len(c.qubits))
	for i, q := range c.qubits {
		index[q] = i
	}
	positions := make([][]int, len(c.instrs))
	for i, in := range c.instrs {
		ps := make([]int, len(in.Qubits))
		for j, q := range in.Qubits {
			p, ok := index[q]
			if !ok {
				return nil, &UnknownQubitError{Qubit: q, Instruction: i}
			}
			ps[j] = p
		}
		positions[i] = ps
	}
	return positions, nil
}

func qubitNames(qs []QubitID) []string {
	out := make([]string, len(qs))
	for i, q := range qs {
		out[i] = string(q)
	}
	return out
}
