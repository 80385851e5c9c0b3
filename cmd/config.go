package cmd

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/palacegate/bellsim/sim"
)

// Environment variables that override the scenario file.
const (
	EnvSeed     = "BELLSIM_SEED"
	EnvLogLevel = "BELLSIM_LOG_LEVEL"
	EnvAddr     = "BELLSIM_ADDR"
)

// BellSection names the qubits and measurement keys of the scenario.
type BellSection struct {
	ControlQubit string `yaml:"control_qubit"`
	TargetQubit  string `yaml:"target_qubit"`
	ControlKey   string `yaml:"control_key"`
	TargetKey    string `yaml:"target_key"`
}

// ScenarioConfig represents the full scenario YAML structure.
// All top-level sections must be listed to satisfy KnownFields(true) strict parsing.
type ScenarioConfig struct {
	Seed     *int64      `yaml:"seed"`
	LogLevel string      `yaml:"log_level"`
	Addr     string      `yaml:"addr"`
	Bell     BellSection `yaml:"bell"`
}

// DefaultScenarioConfig returns the palace-gate defaults with no fixed seed.
func DefaultScenarioConfig() ScenarioConfig {
	return ScenarioConfig{
		LogLevel: "error",
		Addr:     ":8080",
		Bell: BellSection{
			ControlQubit: string(sim.DefaultControlQubit),
			TargetQubit:  string(sim.DefaultTargetQubit),
			ControlKey:   sim.DefaultControlKey,
			TargetKey:    sim.DefaultTargetKey,
		},
	}
}

// LoadScenarioConfig parses a scenario file on top of the defaults. Unknown
// fields are rejected; an empty file yields the defaults.
func LoadScenarioConfig(path string) (ScenarioConfig, error) {
	cfg := DefaultScenarioConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("reading scenario file: %w", err)
	}

	var file ScenarioConfig
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&file); err != nil && !errors.Is(err, io.EOF) {
		return cfg, fmt.Errorf("parsing scenario YAML %s: %w", path, err)
	}

	if file.Seed != nil {
		s := *file.Seed
		cfg.Seed = &s
	}
	setIfNotEmpty(&cfg.LogLevel, file.LogLevel)
	setIfNotEmpty(&cfg.Addr, file.Addr)
	setIfNotEmpty(&cfg.Bell.ControlQubit, file.Bell.ControlQubit)
	setIfNotEmpty(&cfg.Bell.TargetQubit, file.Bell.TargetQubit)
	setIfNotEmpty(&cfg.Bell.ControlKey, file.Bell.ControlKey)
	setIfNotEmpty(&cfg.Bell.TargetKey, file.Bell.TargetKey)
	return cfg, nil
}

func setIfNotEmpty(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

// ApplyEnv overrides fields from environment variables found by lookup.
func (c *ScenarioConfig) ApplyEnv(lookup func(string) (string, bool)) error {
	if v, ok := lookup(EnvSeed); ok && v != "" {
		s, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return fmt.Errorf("%s=%q: %w", EnvSeed, v, err)
		}
		c.Seed = &s
	}
	if v, ok := lookup(EnvLogLevel); ok && v != "" {
		c.LogLevel = v
	}
	if v, ok := lookup(EnvAddr); ok && v != "" {
		c.Addr = v
	}
	return nil
}

// Validate checks the log level and that the Bell names build a circuit.
func (c ScenarioConfig) Validate() error {
	if _, err := logrus.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("invalid log level %q: %w", c.LogLevel, err)
	}
	if _, err := sim.BuildBellCircuitWith(c.BellConfig()); err != nil {
		return fmt.Errorf("invalid bell section: %w", err)
	}
	return nil
}

// BellConfig converts the YAML section to engine names.
func (c ScenarioConfig) BellConfig() sim.BellConfig {
	return sim.BellConfig{
		ControlQubit: sim.QubitID(c.Bell.ControlQubit),
		TargetQubit:  sim.QubitID(c.Bell.TargetQubit),
		ControlKey:   c.Bell.ControlKey,
		TargetKey:    c.Bell.TargetKey,
	}
}

// applyFlagOverrides copies explicitly set CLI flags over cfg. A flag left at
// its default never overrides the file or the environment.
func applyFlagOverrides(cmd *cobra.Command, cfg *ScenarioConfig) {
	flags := cmd.Flags()
	if flags.Lookup("seed") != nil && flags.Changed("seed") {
		s := seed
		cfg.Seed = &s
	}
	if flags.Lookup("log") != nil && flags.Changed("log") {
		cfg.LogLevel = logLevel
	}
	if flags.Lookup("addr") != nil && flags.Changed("addr") {
		cfg.Addr = addr
	}
}

// resolveScenario layers defaults, the --config file, .env and process
// environment, then explicit flags. Configuration errors are fatal.
func resolveScenario(cmd *cobra.Command) ScenarioConfig {
	_ = godotenv.Load()

	cfg := DefaultScenarioConfig()
	if configPath != "" {
		loaded, err := LoadScenarioConfig(configPath)
		if err != nil {
			logrus.Fatalf("Failed to load scenario: %v", err)
		}
		cfg = loaded
	}
	if err := cfg.ApplyEnv(os.LookupEnv); err != nil {
		logrus.Fatalf("Invalid environment: %v", err)
	}
	applyFlagOverrides(cmd, &cfg)
	if err := cfg.Validate(); err != nil {
		logrus.Fatalf("Invalid scenario: %v", err)
	}

	level, _ := logrus.ParseLevel(cfg.LogLevel)
	logrus.SetLevel(level)
	return cfg
}
