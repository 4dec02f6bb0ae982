package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func voltageConfig() *ExperimentConfig {
	c := NewExperimentConfig(true)
	c.ConfigureVoltageExploration([]VoltageLevel{
		{DriveV: 6, PowerInput: 5},
		{DriveV: 9, PowerInput: 8},
		{DriveV: 12, PowerInput: 12},
	}, 10.0)
	return c
}

func TestExperimentParamsLayering(t *testing.T) {
	t.Parallel()

	c := voltageConfig()
	params, err := c.ExperimentParams(1)
	require.NoError(t, err)

	want := map[string]float64{
		ParamReferenceV:   1.0,
		ParamInitialV:     0.0,
		ParamSamplingFreq: 87500.0,
		ParamRLoad:        10.0,
		ParamDriveV:       9,
		ParamPowerInput:   8,
	}
	if diff := cmp.Diff(want, params); diff != "" {
		t.Errorf("resolved params mismatch (-want +got):\n%s", diff)
	}
}

func TestExperimentParamsOverride(t *testing.T) {
	t.Parallel()

	// A per-level key must beat a fixed key, which must beat a common key.
	c := NewExperimentConfig(false)
	c.ExplorationType = ExplorationVoltage
	c.CommonParams[ParamRLoad] = 1.0
	c.FixedParams = map[string]float64{ParamRLoad: 2.0}
	c.VariableParams = []map[string]float64{
		{ParamRLoad: 3.0},
		{ParamPowerInput: 5.0},
	}

	p0, err := c.ExperimentParams(0)
	require.NoError(t, err)
	assert.Equal(t, 3.0, p0[ParamRLoad])

	p1, err := c.ExperimentParams(1)
	require.NoError(t, err)
	assert.Equal(t, 2.0, p1[ParamRLoad])
}

func TestExperimentParamsOutOfRange(t *testing.T) {
	t.Parallel()

	c := voltageConfig()
	_, err := c.ExperimentParams(c.Levels())
	assert.Error(t, err)
	_, err = c.ExperimentParams(-1)
	assert.Error(t, err)
}

func TestConfigureResistanceExploration(t *testing.T) {
	t.Parallel()

	c := NewExperimentConfig(true)
	c.ConfigureResistanceExploration([]ResistanceLevel{
		{RLoad: 5, PowerInput: 10},
		{RLoad: 10, PowerInput: 10},
	}, 12.0)

	assert.Equal(t, ExplorationResistance, c.ExplorationType)
	assert.Equal(t, 2, c.Levels())
	require.NoError(t, c.Validate())

	params, err := c.ExperimentParams(0)
	require.NoError(t, err)
	assert.Equal(t, 12.0, params[ParamDriveV])
	assert.Equal(t, 5.0, params[ParamRLoad])
}

func TestConfigureMagneticDistanceExploration(t *testing.T) {
	t.Parallel()

	c := NewExperimentConfig(true)
	c.ConfigureMagneticDistanceExploration([]DistanceLevel{
		{Distance: 5, PowerInput: 10},
		{Distance: 10, PowerInput: 10},
	}, 12.0, 8.0)

	assert.Equal(t, ExplorationMagneticDistance, c.ExplorationType)
	require.NoError(t, c.Validate())

	params, err := c.ExperimentParams(1)
	require.NoError(t, err)
	assert.Equal(t, 10.0, params[ParamMagneticDistance])
	assert.Equal(t, 8.0, params[ParamRLoad])
}

func TestValidate(t *testing.T) {
	t.Parallel()

	t.Run("rejects unknown exploration type", func(t *testing.T) {
		t.Parallel()
		c := NewExperimentConfig(false)
		c.VariableParams = []map[string]float64{{}}
		assert.Error(t, c.Validate())
	})

	t.Run("rejects missing common parameter", func(t *testing.T) {
		t.Parallel()
		c := voltageConfig()
		delete(c.CommonParams, ParamSamplingFreq)
		assert.Error(t, c.Validate())
	})

	t.Run("rejects non-positive sampling frequency", func(t *testing.T) {
		t.Parallel()
		c := voltageConfig()
		c.CommonParams[ParamSamplingFreq] = 0
		assert.Error(t, c.Validate())
	})

	t.Run("voltage sweep needs a load resistance", func(t *testing.T) {
		t.Parallel()
		c := NewExperimentConfig(true)
		c.ConfigureVoltageExploration([]VoltageLevel{{DriveV: 6, PowerInput: 5}}, 0)
		assert.Error(t, c.Validate())

		c.CommonParams[ParamRLoad] = 10
		assert.NoError(t, c.Validate())
	})

	t.Run("resistance sweep carries r_load per level", func(t *testing.T) {
		t.Parallel()
		c := NewExperimentConfig(true)
		c.ConfigureResistanceExploration([]ResistanceLevel{{RLoad: 5, PowerInput: 10}}, 12)
		assert.NoError(t, c.Validate())
	})
}

func TestSaveLoadRoundTrip(t *testing.T) {
	t.Parallel()

	c := voltageConfig()
	path := filepath.Join(t.TempDir(), "voltage.json")
	require.NoError(t, c.Save(path))

	loaded, err := LoadExperimentConfig(path)
	require.NoError(t, err)

	assert.Equal(t, c.ExplorationType, loaded.ExplorationType)
	assert.Equal(t, c.FactorMode, loaded.FactorMode)
	if diff := cmp.Diff(c.FixedParams, loaded.FixedParams); diff != "" {
		t.Errorf("fixed params mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(c.VariableParams, loaded.VariableParams); diff != "" {
		t.Errorf("variable params mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(c.CommonParams, loaded.CommonParams); diff != "" {
		t.Errorf("common params mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadRejectsMissingFields(t *testing.T) {
	t.Parallel()

	records := map[string]string{
		"exploration_type": `{"fixed_params":{},"variable_params":[],"common_params":{}}`,
		"fixed_params":     `{"exploration_type":"voltage","variable_params":[],"common_params":{}}`,
		"variable_params":  `{"exploration_type":"voltage","fixed_params":{},"common_params":{}}`,
		"common_params":    `{"exploration_type":"voltage","fixed_params":{},"variable_params":[]}`,
	}
	for missing, body := range records {
		missing, body := missing, body
		t.Run("missing "+missing, func(t *testing.T) {
			t.Parallel()
			path := filepath.Join(t.TempDir(), "partial.json")
			require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
			_, err := LoadExperimentConfig(path)
			require.Error(t, err)
			assert.Contains(t, err.Error(), missing)
		})
	}
}

func TestSaveRejectsNonJSONExtension(t *testing.T) {
	t.Parallel()
	c := voltageConfig()
	assert.Error(t, c.Save(filepath.Join(t.TempDir(), "config.yaml")))
	_, err := LoadExperimentConfig(filepath.Join(t.TempDir(), "config.txt"))
	assert.Error(t, err)
}
