package sim

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

const (
	wire      = "─"
	wireGap   = "───"
	connector = "│"
	crossing  = "┼"
)

// diagramColumn is one rendered moment: a cell per row and a flag per gap
// between adjacent rows telling whether a vertical connector crosses it.
type diagramColumn struct {
	width int
	cells []string
	links []bool
}

// Diagram renders the circuit as text, one line per qubit:
//
//	Button:      ───H───@───M('button_result')───
//	                    │
//	Palace Gate: ───────X───M('gate_result')─────
//
// The output depends only on the circuit, so repeated calls are identical.
func (c *Circuit) Diagram() string {
	rows := c.rows()
	if len(rows) == 0 {
		return ""
	}
	rowIdx := c.rowIndex()

	labels := make([]string, len(rows))
	labelWidth := 0
	for i, q := range rows {
		labels[i] = string(q) + ": "
		labelWidth = max(labelWidth, utf8.RuneCountInString(labels[i]))
	}

	moments := c.Moments()
	cols := make([]diagramColumn, len(moments))
	for m, idxs := range moments {
		col := diagramColumn{
			width: 1,
			cells: make([]string, len(rows)),
			links: make([]bool, len(rows)),
		}
		for _, i := range idxs {
			in := c.instrs[i]
			operand := make(map[int]bool, len(in.Qubits))
			for j, q := range in.Qubits {
				r := rowIdx[q]
				operand[r] = true
				if in.Kind == OpMeasure {
					col.cells[r] = fmt.Sprintf("M('%s')", in.Key)
				} else {
					col.cells[r] = in.Gate.Symbol(j)
				}
			}
			lo, hi := span(in, rowIdx)
			for r := lo; r < hi; r++ {
				col.links[r] = true
				if r > lo && !operand[r] {
					col.cells[r] = crossing
				}
			}
		}
		for _, cell := range col.cells {
			col.width = max(col.width, utf8.RuneCountInString(cell))
		}
		cols[m] = col
	}

	var sb strings.Builder
	for r := range rows {
		if r > 0 {
			gap := strings.Repeat(" ", labelWidth)
			for _, col := range cols {
				mark := " "
				if col.links[r-1] {
					mark = connector
				}
				gap += "   " + mark + strings.Repeat(" ", col.width-1)
			}
			sb.WriteString(strings.TrimRight(gap, " "))
			sb.WriteByte('\n')
		}
		sb.WriteString(labels[r])
		sb.WriteString(strings.Repeat(" ", labelWidth-utf8.RuneCountInString(labels[r])))
		for _, col := range cols {
			cell := col.cells[r]
			sb.WriteString(wireGap)
			sb.WriteString(cell)
			sb.WriteString(strings.Repeat(wire, col.width-utf8.RuneCountInString(cell)))
		}
		sb.WriteString(wireGap)
		sb.WriteByte('\n')
	}
	return sb.String()
}
