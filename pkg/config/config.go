// Package config provides configuration loading and management for
// atlasslice. It handles loading configuration from YAML files and provides
// default values.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config represents the application configuration loaded from YAML
type Config struct {
	// Atlas selection parameters
	Atlas struct {
		// Name identifies the atlas inside the cache directory
		Name string `yaml:"name"`

		// Dir overrides the atlas cache directory when set
		Dir string `yaml:"dir"`
	} `yaml:"atlas"`

	// View parameters
	View struct {
		// Kind is the default cutting direction (coronal, sagittal or transverse)
		Kind string `yaml:"kind"`

		// PlaneUM is the default plane position in um along the cutting axis
		PlaneUM float64 `yaml:"planeUM"`

		// RotateStepUM is the tilt slider step in um used by interactive frontends
		RotateStepUM float64 `yaml:"rotateStepUM"`
	} `yaml:"view"`

	// Output parameters
	Output struct {
		// Dir is the directory slice images are written to
		Dir string `yaml:"dir"`

		// PreviewScale shrinks saved preview images, 1.0 keeps full size
		PreviewScale float64 `yaml:"previewScale"`
	} `yaml:"output"`
}

// DefaultConfig returns a configuration with default values
func DefaultConfig() *Config {
	cfg := &Config{}

	cfg.Atlas.Name = "allen_mouse_25um"

	cfg.View.Kind = "coronal"
	cfg.View.PlaneUM = 0
	cfg.View.RotateStepUM = 25

	cfg.Output.Dir = "slices"
	cfg.Output.PreviewScale = 1.0

	return cfg
}

// LoadConfig loads configuration from a YAML file
// If the file doesn't exist, it returns the default configuration
func LoadConfig(configPath string) (*Config, error) {
	cfg := DefaultConfig()

	// Check if config file exists
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return cfg, nil
	}

	// Read config file
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	// Parse YAML
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("error parsing config file: %w", err)
	}

	return cfg, nil
}

// SaveConfig saves the configuration to a YAML file
func SaveConfig(cfg *Config, configPath string) error {
	// Create directory if it doesn't exist
	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("error creating config directory: %w", err)
	}

	// Marshal config to YAML
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("error marshaling config: %w", err)
	}

	// Write to file
	if err := os.WriteFile(configPath, data, 0644); err != nil {
		return fmt.Errorf("error writing config file: %w", err)
	}

	return nil
}
