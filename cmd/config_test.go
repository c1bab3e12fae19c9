package cmd

import (
	"os"
	"path/filepath"
	"testing"
)

func TestConfigRoundTrip(t *testing.T) {
	t.Setenv(EnvConfigFile, filepath.Join(t.TempDir(), "bud", "config.yaml"))

	cfg := Config{
		Budget:     "/sync/family-budget",
		DeviceGUID: "0A4B9C6E-1D2F-4E5A-8B7C-9D0E1F2A3B4C",
		Currency:   "EUR",
		Strictness: "strict",
	}
	if err := SaveConfig(cfg); err != nil {
		t.Fatalf("SaveConfig: %v", err)
	}
	got, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if got != cfg {
		t.Errorf("LoadConfig = %+v, want %+v", got, cfg)
	}
}

func TestConfigDefaults(t *testing.T) {
	// No configuration file at all: defaults apply.
	t.Setenv(EnvConfigFile, filepath.Join(t.TempDir(), "nowhere.yaml"))

	got, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if got.Budget != "." || got.Strictness != "lenient" {
		t.Errorf("LoadConfig = %+v, want budget=. strictness=lenient", got)
	}
	if got.DeviceGUID != "" {
		t.Errorf("DeviceGUID = %q, want empty", got.DeviceGUID)
	}
}

func TestConfigRejectsGarbage(t *testing.T) {
	p := filepath.Join(t.TempDir(), "config.yaml")
	t.Setenv(EnvConfigFile, p)
	if err := os.WriteFile(p, []byte("budget: [unclosed"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadConfig(); err == nil {
		t.Error("LoadConfig: want error for invalid YAML")
	}
}
