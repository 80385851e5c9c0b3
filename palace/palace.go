// Package palace holds the presentation vocabulary of the palace-gate
// scenario: a button entangled with a gate through a Bell pair. Everything
// here is a pure function of the two measured bits.
package palace

import (
	"fmt"
	"strings"

	"github.com/palacegate/bellsim/sim"
)

// Title is the scenario heading.
const Title = "The Quantum Palace Gate"

// Scenario introduces the setup before any run.
const Scenario = "A man stands before a button connected to a palace gate. " +
	"The connection is not electrical, it is quantum entangled: " +
	"a Bell state links the Button and the Gate, so observing the Button " +
	"instantly determines the state of the Gate."

// BellState is the prepared state, (|00⟩ + |11⟩)/√2.
const BellState = "|ψ⟩ = (|00⟩ + |11⟩)/√2"

// Superposition is shown between circuit preparation and measurement.
const Superposition = "The system is now in superposition. " +
	"The button is both 'Pressed' and 'Not Pressed' simultaneously."

// Panel describes one side of the outcome.
type Panel struct {
	Heading string `json:"heading" msgpack:"heading"`
	Bit     int    `json:"bit" msgpack:"bit"`
	Verdict string `json:"verdict" msgpack:"verdict"`
	Detail  string `json:"detail" msgpack:"detail"`
}

// Report is the full presentation of one Bell outcome.
type Report struct {
	Button  Panel  `json:"button" msgpack:"button"`
	Gate    Panel  `json:"gate" msgpack:"gate"`
	Matched bool   `json:"matched" msgpack:"matched"`
	Ket     string `json:"ket,omitempty" msgpack:"ket,omitempty"`
	// Verification is empty when the bits disagree, which a correct
	// simulation never produces.
	Verification string `json:"verification,omitempty" msgpack:"verification,omitempty"`
}

// ButtonVerdict maps the button bit to its label.
func ButtonVerdict(bit int) string {
	if bit == 1 {
		return "PRESSED"
	}
	return "NOT PRESSED"
}

// GateVerdict maps the gate bit to its label.
func GateVerdict(bit int) string {
	if bit == 1 {
		return "OPEN"
	}
	return "CLOSED"
}

// Ket renders two bits as a basis ket, e.g. |11⟩.
func Ket(control, target int) string {
	return fmt.Sprintf("|%d%d⟩", control, target)
}

// Describe builds the report for an outcome.
func Describe(o sim.BellOutcome) Report {
	r := Report{
		Button: Panel{
			Heading: "Man's Action",
			Bit:     o.Control,
			Verdict: ButtonVerdict(o.Control),
			Detail:  "The man hesitated and did not press.",
		},
		Gate: Panel{
			Heading: "Palace Gate",
			Bit:     o.Target,
			Verdict: GateVerdict(o.Target),
			Detail:  "Because of entanglement, the gate stays closed.",
		},
		Matched: o.Matched(),
	}
	if o.Control == 1 {
		r.Button.Detail = "The man chose to press the button."
	}
	if o.Target == 1 {
		r.Gate.Detail = "Because of entanglement, the gate opens instantly."
	}
	if r.Matched {
		r.Ket = Ket(o.Control, o.Target)
		r.Verification = fmt.Sprintf("The states matched perfectly (%s). "+
			"This proves the qubits were entangled. Changing one instantly defined the other.", r.Ket)
	}
	return r
}

// Narrative renders the report as plain text, one panel per paragraph.
func (r Report) Narrative() string {
	var sb strings.Builder
	for _, p := range []Panel{r.Button, r.Gate} {
		fmt.Fprintf(&sb, "%s\n  Result: %s (%d)\n  %s\n", p.Heading, p.Verdict, p.Bit, p.Detail)
	}
	if r.Verification != "" {
		fmt.Fprintf(&sb, "\nVerification: %s\n", r.Verification)
	}
	return sb.String()
}
