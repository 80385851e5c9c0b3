package sim_test

import (
	"fmt"

	"github.com/palacegate/bellsim/sim"
)

func ExampleCircuit_Diagram() {
	fmt.Print(sim.BuildBellCircuit().Diagram())
	// Output:
	// Button:      ───H───@───M('button_result')───
	//                     │
	// Palace Gate: ───────X───M('gate_result')─────
}

func ExampleCircuit_QASM() {
	c, err := sim.NewCircuitBuilder("a", "b").
		H("a").
		CNOT("a", "b").
		Measure("b", "m").
		Build()
	if err != nil {
		panic(err)
	}
	fmt.Print(c.QASM())
	// Output:
	// OPENQASM 2.0;
	// include "qelib1.inc";
	//
	// // q[0] = a
	// // q[1] = b
	// // c[0] = m
	// qreg q[2];
	// creg c[1];
	//
	// h q[0];
	// cx q[0], q[1];
	// measure q[1] -> c[0];
}

func ExampleSimulator_Run() {
	s := sim.NewSimulator(sim.SimulatorConfig{})
	res, err := s.Run(sim.BuildBellCircuit(), sim.NewRandomSource(42))
	if err != nil {
		panic(err)
	}
	out, err := sim.ReadBellOutcome(res, sim.DefaultBellConfig())
	if err != nil {
		panic(err)
	}
	fmt.Println("matched:", out.Matched())
	// Output:
	// matched: true
}
