package model_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kolkov/spincell/model"
)

func TestConfigFromEnv(t *testing.T) {
	t.Setenv(model.EnvPreemptionBound, "2")
	t.Setenv(model.EnvMaxBranches, "500")
	t.Setenv(model.EnvMaxExecutions, "")
	t.Setenv(model.EnvIterations, "10")
	t.Setenv(model.EnvSeed, "99")

	cfg, err := model.ConfigFromEnv()
	require.NoError(t, err)

	assert.Equal(t, 2, cfg.PreemptionBound)
	assert.Equal(t, 500, cfg.MaxBranches)
	assert.Equal(t, 0, cfg.MaxExecutions)
	assert.Equal(t, 10, cfg.Iterations)
	assert.Equal(t, uint64(99), cfg.Seed)
}

func TestConfigFromEnv_Invalid(t *testing.T) {
	tests := []struct {
		name, key, value string
	}{
		{"not a number", model.EnvMaxBranches, "many"},
		{"negative seed", model.EnvSeed, "-1"},
		{"bound below unbounded", model.EnvPreemptionBound, "-2"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)
			_, err := model.ConfigFromEnv()
			assert.Error(t, err)
		})
	}
}

func TestDefaultConfig(t *testing.T) {
	cfg := model.DefaultConfig()

	assert.Equal(t, model.Unbounded, cfg.PreemptionBound)
	assert.Equal(t, model.DefaultMaxBranches, cfg.MaxBranches)
	assert.NoError(t, cfg.Validate())
}

func TestCompatible(t *testing.T) {
	tests := []struct {
		required string
		want     bool
	}{
		{"v0.1.0", true},
		{"v0.0.9", false},
		{"v0.1.1", false},
		{"v0.2.0", false},
		{"v1.0.0", false},
	}

	for _, tt := range tests {
		t.Run(tt.required, func(t *testing.T) {
			got, err := model.Compatible(tt.required)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := model.Compatible("0.1.0")
	assert.Error(t, err)
}

func TestGetInfo(t *testing.T) {
	info := model.GetInfo()

	assert.Equal(t, model.Version, info.Version)
	assert.Equal(t, model.MaxThreads, info.MaxThreads)
	assert.Contains(t, info.Algorithm, "FastTrack")
}
