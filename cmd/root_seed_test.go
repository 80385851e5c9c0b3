package cmd

import (
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/palacegate/bellsim/sim"
)

// newFlagCommand mirrors the flag wiring of the real commands on a throwaway
// command so Changed() can be exercised without running anything.
func newFlagCommand() *cobra.Command {
	c := &cobra.Command{Use: "test"}
	c.Flags().Int64Var(&seed, "seed", 0, "")
	c.Flags().StringVar(&logLevel, "log", "error", "")
	c.Flags().StringVar(&addr, "addr", ":8080", "")
	return c
}

func TestSeedOverride_FlagWinsWhenChanged(t *testing.T) {
	// GIVEN a scenario seed of 42 and an explicit --seed 100
	c := newFlagCommand()
	require.NoError(t, c.Flags().Set("seed", "100"))
	cfg := DefaultScenarioConfig()
	fileSeed := int64(42)
	cfg.Seed = &fileSeed

	// WHEN overrides are applied
	applyFlagOverrides(c, &cfg)

	// THEN the flag governs
	require.NotNil(t, cfg.Seed)
	assert.Equal(t, int64(100), *cfg.Seed)
}

func TestSeedOverride_ScenarioSeedPreservedWhenFlagNotSpecified(t *testing.T) {
	// GIVEN a scenario seed and no --seed on the command line
	c := newFlagCommand()
	cfg := DefaultScenarioConfig()
	fileSeed := int64(42)
	cfg.Seed = &fileSeed

	applyFlagOverrides(c, &cfg)

	// THEN the scenario seed is kept even though the flag default is 0
	assert.Equal(t, int64(42), *cfg.Seed)
}

func TestSeedOverride_ExplicitZeroSeedIsHonoured(t *testing.T) {
	c := newFlagCommand()
	require.NoError(t, c.Flags().Set("seed", "0"))
	cfg := DefaultScenarioConfig()

	applyFlagOverrides(c, &cfg)

	require.NotNil(t, cfg.Seed)
	assert.Equal(t, int64(0), *cfg.Seed)
}

func TestFlagOverrides_LogAndAddr(t *testing.T) {
	c := newFlagCommand()
	require.NoError(t, c.Flags().Set("log", "debug"))
	cfg := DefaultScenarioConfig()
	cfg.Addr = "10.0.0.1:80"

	applyFlagOverrides(c, &cfg)

	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "10.0.0.1:80", cfg.Addr, "unchanged --addr must not override")
}

func TestSeedOverride_SameSeedSameOutcome(t *testing.T) {
	// GIVEN two runs with the same resolved seed
	circuit := sim.BuildBellCircuit()
	s := sim.NewSimulator(sim.SimulatorConfig{})

	for _, runSeed := range []int64{0, 1, 123, -9} {
		r1, err := s.Run(circuit, sim.NewRandomSource(runSeed))
		require.NoError(t, err)
		r2, err := s.Run(circuit, sim.NewRandomSource(runSeed))
		require.NoError(t, err)

		// THEN the measurements are identical
		assert.Equal(t, r1.Measurements(), r2.Measurements(), "seed %d", runSeed)
	}
}
