package cmd

import (
	"io"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/palacegate/bellsim/sim"
)

var emitQASM bool // Print OpenQASM 2.0 instead of the text diagram

// diagramCmd prints the circuit without running it.
var diagramCmd = &cobra.Command{
	Use:   "diagram",
	Short: "Print the Bell circuit as a text diagram or OpenQASM",
	Run: func(cmd *cobra.Command, args []string) {
		cfg := resolveScenario(cmd)

		circuit, err := sim.BuildBellCircuitWith(cfg.BellConfig())
		if err != nil {
			logrus.Fatalf("Building circuit: %v", err)
		}
		if err := writeCircuit(cmd.OutOrStdout(), circuit, emitQASM); err != nil {
			logrus.Fatalf("Writing circuit: %v", err)
		}
	},
}

func writeCircuit(w io.Writer, c *sim.Circuit, qasm bool) error {
	text := c.Diagram()
	if qasm {
		text = c.QASM()
	}
	_, err := io.WriteString(w, text)
	return err
}

func init() {
	diagramCmd.Flags().BoolVar(&emitQASM, "qasm", false, "Emit OpenQASM 2.0")
	rootCmd.AddCommand(diagramCmd)
}
