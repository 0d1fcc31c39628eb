package model

import (
	"fmt"
	"io"
	"os"
	"strconv"
)

// Environment variables read by ConfigFromEnv.
const (
	EnvPreemptionBound = "SPINCELL_PREEMPTION_BOUND"
	EnvMaxBranches     = "SPINCELL_MAX_BRANCHES"
	EnvMaxExecutions   = "SPINCELL_MAX_EXECUTIONS"
	EnvIterations      = "SPINCELL_ITERATIONS"
	EnvSeed            = "SPINCELL_SEED"
)

// Unbounded disables the preemption bound.
const Unbounded = -1

// DefaultMaxBranches is the default per-execution scheduling decision limit.
const DefaultMaxBranches = 1000

// Config controls an exploration. Start from DefaultConfig: the zero value
// has a preemption bound of 0.
type Config struct {
	// PreemptionBound limits how often one execution may switch away from a
	// thread that could have continued. Unbounded explores every schedule.
	// Most concurrency bugs need two or three preemptions.
	PreemptionBound int

	// MaxBranches limits scheduling decisions per execution. An execution
	// that exceeds it is reported as ErrMaxBranches (livelock or a spin loop
	// that never yields).
	MaxBranches int

	// MaxExecutions stops the exploration after this many executions.
	// 0 means no limit.
	MaxExecutions int

	// Iterations switches to random mode: that many executions with random
	// scheduling decisions instead of an exhaustive search. 0 means exhaustive.
	Iterations int

	// Seed seeds random mode.
	Seed uint64

	// Output receives race reports and the final summary. nil is silent.
	Output io.Writer
}

// DefaultConfig returns an exhaustive, unbounded configuration.
func DefaultConfig() Config {
	return Config{
		PreemptionBound: Unbounded,
		MaxBranches:     DefaultMaxBranches,
	}
}

// ConfigFromEnv returns DefaultConfig with overrides from the SPINCELL_*
// environment variables.
func ConfigFromEnv() (Config, error) {
	cfg := DefaultConfig()

	ints := []struct {
		name string
		dst  *int
	}{
		{EnvPreemptionBound, &cfg.PreemptionBound},
		{EnvMaxBranches, &cfg.MaxBranches},
		{EnvMaxExecutions, &cfg.MaxExecutions},
		{EnvIterations, &cfg.Iterations},
	}
	for _, v := range ints {
		raw, ok := os.LookupEnv(v.name)
		if !ok || raw == "" {
			continue
		}
		n, err := strconv.Atoi(raw)
		if err != nil {
			return Config{}, fmt.Errorf("model: %s=%q: %w", v.name, raw, err)
		}
		*v.dst = n
	}

	if raw := os.Getenv(EnvSeed); raw != "" {
		seed, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			return Config{}, fmt.Errorf("model: %s=%q: %w", EnvSeed, raw, err)
		}
		cfg.Seed = seed
	}

	return cfg, cfg.Validate()
}

// Validate reports configuration values that cannot be explored.
func (c Config) Validate() error {
	switch {
	case c.PreemptionBound < Unbounded:
		return fmt.Errorf("model: preemption bound %d: %w", c.PreemptionBound, ErrInvalidConfig)
	case c.MaxBranches <= 0:
		return fmt.Errorf("model: max branches %d: %w", c.MaxBranches, ErrInvalidConfig)
	case c.MaxExecutions < 0:
		return fmt.Errorf("model: max executions %d: %w", c.MaxExecutions, ErrInvalidConfig)
	case c.Iterations < 0:
		return fmt.Errorf("model: iterations %d: %w", c.Iterations, ErrInvalidConfig)
	}
	return nil
}

func (c Config) random() bool {
	return c.Iterations > 0
}
