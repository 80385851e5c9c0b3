package sim

import (
	"fmt"
	"strings"
)

// QASM renders the circuit as OpenQASM 2.0. Qubit q[i] is diagram row i and
// classical bit c[j] holds the j-th measurement key; both mappings are listed
// as comments so the names survive the export.
func (c *Circuit) QASM() string {
	rows := c.rows()
	rowIdx := c.rowIndex()
	keys := c.MeasurementKeys()

	var sb strings.Builder
	sb.WriteString("OPENQASM 2.0;\n")
	sb.WriteString("include \"qelib1.inc\";\n\n")
	for i, q := range rows {
		fmt.Fprintf(&sb, "// q[%d] = %s\n", i, q)
	}
	for j, k := range keys {
		fmt.Fprintf(&sb, "// c[%d] = %s\n", j, k)
	}
	fmt.Fprintf(&sb, "qreg q[%d];\n", max(len(rows), 1))
	fmt.Fprintf(&sb, "creg c[%d];\n\n", max(len(keys), 1))

	cbit := 0
	for _, in := range c.instrs {
		switch in.Kind {
		case OpMeasure:
			fmt.Fprintf(&sb, "measure q[%d] -> c[%d];\n", rowIdx[in.Qubits[0]], cbit)
			cbit++
		default:
			operands := make([]string, len(in.Qubits))
			for j, q := range in.Qubits {
				operands[j] = fmt.Sprintf("q[%d]", rowIdx[q])
			}
			fmt.Fprintf(&sb, "%s %s;\n", in.Gate.QASM(), strings.Join(operands, ", "))
		}
	}
	return sb.String()
}
