package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/palacegate/bellsim/palace"
	"github.com/palacegate/bellsim/sim"
	"github.com/palacegate/bellsim/sim/trace"
)

var (
	seed         int64  // Seed for measurement sampling
	logLevel     string // Log verbosity level
	configPath   string // Scenario YAML file
	traceLevel   string // Trace verbosity: none or steps
	outputFormat string // Report format: text or json
)

// rootCmd is the base command for the CLI
var rootCmd = &cobra.Command{
	Use:   "bellsim",
	Short: "Two-qubit Bell-state simulator for the quantum palace gate",
}

// runCmd prepares the Bell pair, measures it once and prints the outcome.
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Press the button: run the Bell circuit once",
	Run: func(cmd *cobra.Command, args []string) {
		cfg := resolveScenario(cmd)

		if !trace.IsValidTraceLevel(traceLevel) {
			logrus.Fatalf("Invalid trace level: %s (want none or steps)", traceLevel)
		}
		if outputFormat != "text" && outputFormat != "json" {
			logrus.Fatalf("Invalid output format: %s (want text or json)", outputFormat)
		}

		circuit, err := sim.BuildBellCircuitWith(cfg.BellConfig())
		if err != nil {
			logrus.Fatalf("Building circuit: %v", err)
		}

		runSeed := time.Now().UnixNano()
		if cfg.Seed != nil {
			runSeed = *cfg.Seed
		}
		logrus.Infof("Starting run with seed=%d", runSeed)

		s := sim.NewSimulator(sim.SimulatorConfig{
			Trace: trace.TraceConfig{Level: trace.TraceLevel(traceLevel)},
		})
		res, err := s.Run(circuit, sim.NewRandomSource(runSeed))
		if err != nil {
			logrus.Fatalf("Run failed: %v", err)
		}
		outcome, err := sim.ReadBellOutcome(res, cfg.BellConfig())
		if err != nil {
			logrus.Fatalf("Reading outcome: %v", err)
		}

		report := runReport{
			circuit: circuit,
			seed:    runSeed,
			result:  res,
			outcome: outcome,
		}
		if err := report.write(cmd.OutOrStdout(), outputFormat); err != nil {
			logrus.Fatalf("Writing report: %v", err)
		}
	},
}

// runReport gathers everything printed after a run.
type runReport struct {
	circuit *sim.Circuit
	seed    int64
	result  *sim.Result
	outcome sim.BellOutcome
}

// runOutput is the JSON form of a run report.
type runOutput struct {
	RunID        string              `json:"run_id"`
	Seed         int64               `json:"seed"`
	Keys         []string            `json:"keys"`
	Measurements map[string]int      `json:"measurements"`
	Report       palace.Report       `json:"report"`
	Trace        *trace.TraceSummary `json:"trace,omitempty"`
}

func (r runReport) write(w io.Writer, format string) error {
	if format == "json" {
		rec := r.result.Record()
		out := runOutput{
			RunID:        rec.RunID,
			Seed:         r.seed,
			Keys:         rec.Keys,
			Measurements: rec.Measurements,
			Report:       palace.Describe(r.outcome),
		}
		if r.result.Trace != nil {
			out.Trace = trace.Summarize(r.result.Trace)
		}
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	}

	if _, err := fmt.Fprintf(w, "=== %s ===\n%s\n\nQuantum Circuit Diagram:\n%s\n%s\n\n",
		palace.Title, palace.Scenario, r.circuit.Diagram(), palace.Superposition); err != nil {
		return err
	}
	if _, err := io.WriteString(w, palace.Describe(r.outcome).Narrative()); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "\nRun %s (seed %d): %s\n", r.result.RunID, r.seed, r.result); err != nil {
		return err
	}
	if r.result.Trace != nil {
		return writeTrace(w, r.result.Trace)
	}
	return nil
}

func writeTrace(w io.Writer, rt *trace.RunTrace) error {
	if _, err := fmt.Fprintln(w, "\n=== Trace ==="); err != nil {
		return err
	}
	for _, st := range rt.Steps {
		if _, err := fmt.Fprintf(w, "[%02d] %s %v  ||ψ||²=%.12f\n", st.Index, st.Gate, st.Qubits, st.TotalProbability); err != nil {
			return err
		}
	}
	for _, m := range rt.Measurements {
		if _, err := fmt.Fprintf(w, "[%02d] measure %s -> %s  P(1)=%.6f  outcome=%d\n",
			m.Index, m.Qubit, m.Key, m.ProbabilityOne, m.Outcome); err != nil {
			return err
		}
	}
	sum := trace.Summarize(rt)
	_, err := fmt.Fprintf(w, "gates=%d measurements=%d determined=%d max_norm_drift=%.3g\n",
		sum.GateCount, sum.MeasurementCount, sum.DeterminedCount, sum.MaxNormDrift)
	return err
}

// Execute runs the CLI root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// init sets up CLI flags and subcommands
func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log", "error", "Log level (trace, debug, info, warn, error, fatal, panic)")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Scenario YAML file (qubit names, keys, seed)")

	runCmd.Flags().Int64Var(&seed, "seed", 0, "Seed for measurement sampling (default: time-based)")
	runCmd.Flags().StringVar(&traceLevel, "trace", string(trace.TraceLevelNone), "Trace level (none, steps)")
	runCmd.Flags().StringVar(&outputFormat, "output", "text", "Output format (text, json)")

	rootCmd.AddCommand(runCmd)
}
