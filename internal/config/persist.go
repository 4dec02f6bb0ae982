package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// timestampLayout matches the records written by earlier revisions of the
// analysis tooling.
const timestampLayout = "2006-01-02 15:04:05"

// configRecord is the durable JSON form. Pointer and nil-able fields let the
// loader distinguish an absent field from an empty one.
type configRecord struct {
	ExplorationType *ExplorationType     `json:"exploration_type"`
	FixedParams     map[string]float64   `json:"fixed_params"`
	VariableParams  []map[string]float64 `json:"variable_params"`
	CommonParams    map[string]float64   `json:"common_params"`
	FactorMode      bool                 `json:"factor_mode"`
	Timestamp       string               `json:"timestamp"`
}

// Save writes the configuration as an indented JSON record with the current
// timestamp. The path must carry a .json extension.
func (c *ExperimentConfig) Save(path string) error {
	cleanPath := filepath.Clean(path)
	if ext := filepath.Ext(cleanPath); ext != ".json" {
		return fmt.Errorf("config file must have .json extension, got %q", ext)
	}

	et := c.ExplorationType
	record := configRecord{
		ExplorationType: &et,
		FixedParams:     c.FixedParams,
		VariableParams:  c.VariableParams,
		CommonParams:    c.CommonParams,
		FactorMode:      c.FactorMode,
		Timestamp:       time.Now().Format(timestampLayout),
	}

	data, err := json.MarshalIndent(record, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	if err := os.WriteFile(cleanPath, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// LoadExperimentConfig reads a configuration record from a JSON file. A
// record missing any of the four required fields is rejected.
func LoadExperimentConfig(path string) (*ExperimentConfig, error) {
	cleanPath := filepath.Clean(path)
	if ext := filepath.Ext(cleanPath); ext != ".json" {
		return nil, fmt.Errorf("config file must have .json extension, got %q", ext)
	}

	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var record configRecord
	if err := json.Unmarshal(data, &record); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	switch {
	case record.ExplorationType == nil:
		return nil, fmt.Errorf("config record missing exploration_type")
	case record.FixedParams == nil:
		return nil, fmt.Errorf("config record missing fixed_params")
	case record.VariableParams == nil:
		return nil, fmt.Errorf("config record missing variable_params")
	case record.CommonParams == nil:
		return nil, fmt.Errorf("config record missing common_params")
	}

	return &ExperimentConfig{
		ExplorationType: *record.ExplorationType,
		FixedParams:     record.FixedParams,
		VariableParams:  record.VariableParams,
		CommonParams:    record.CommonParams,
		FactorMode:      record.FactorMode,
	}, nil
}
