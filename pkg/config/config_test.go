package config

import (
	"os"
	"path/filepath"
	"testing"
)

// TestDefaultConfig verifies the default values.
func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.View.Kind != "coronal" {
		t.Errorf("Expected default view coronal, got %s", cfg.View.Kind)
	}
	if cfg.Output.PreviewScale != 1.0 {
		t.Errorf("Expected default preview scale 1.0, got %f", cfg.Output.PreviewScale)
	}
	if cfg.Atlas.Name == "" {
		t.Error("Expected a default atlas name")
	}
}

// TestLoadMissingFile verifies that a missing config file falls back to the
// defaults.
func TestLoadMissingFile(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.View.Kind != DefaultConfig().View.Kind {
		t.Errorf("Expected default view kind, got %s", cfg.View.Kind)
	}
}

// TestSaveLoadRoundTrip verifies that a saved config loads back unchanged
// and that partial files keep defaults for unset fields.
func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")

	cfg := DefaultConfig()
	cfg.View.Kind = "sagittal"
	cfg.View.PlaneUM = 5700
	cfg.Output.Dir = "out"

	if err := SaveConfig(cfg, path); err != nil {
		t.Fatalf("SaveConfig failed: %v", err)
	}

	loaded, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if loaded.View.Kind != "sagittal" || loaded.View.PlaneUM != 5700 || loaded.Output.Dir != "out" {
		t.Errorf("Config changed across round trip: %+v", loaded)
	}

	// A partial file keeps defaults for everything it omits
	if err := os.WriteFile(path, []byte("view:\n  kind: transverse\n"), 0644); err != nil {
		t.Fatalf("Failed to write partial config: %v", err)
	}
	loaded, err = LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig failed on partial file: %v", err)
	}
	if loaded.View.Kind != "transverse" {
		t.Errorf("Expected view kind transverse, got %s", loaded.View.Kind)
	}
	if loaded.Atlas.Name != DefaultConfig().Atlas.Name {
		t.Errorf("Expected default atlas name, got %s", loaded.Atlas.Name)
	}
}
