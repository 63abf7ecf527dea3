package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefaultIsValid(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"bad model", func(c *Config) { c.Model = "enormous" }},
		{"bad output", func(c *Config) { c.Output = "printer" }},
		{"zero duration", func(c *Config) { c.Duration = 0 }},
		{"negative silence window", func(c *Config) { c.SilenceWindow = -time.Second }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("Validate accepted a bad config")
			}
		})
	}
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	if err != nil {
		t.Fatal(err)
	}
	if cfg != Default() {
		t.Errorf("got %+v, want defaults", cfg)
	}
}

func TestLoadOverlaysFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	content := `
model = "small"
output = "stdout"
key = "f12"
duration = 12.5
silence_window = 2.0
silence_floor_db = -35.0
no_clean = true
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Model != "small" || cfg.Output != "stdout" || cfg.Key != "f12" {
		t.Errorf("string fields not applied: %+v", cfg)
	}
	if cfg.Duration != 12500*time.Millisecond {
		t.Errorf("Duration = %s, want 12.5s", cfg.Duration)
	}
	if cfg.SilenceWindow != 2*time.Second {
		t.Errorf("SilenceWindow = %s, want 2s", cfg.SilenceWindow)
	}
	if cfg.SilenceFloorDB != -35 {
		t.Errorf("SilenceFloorDB = %f, want -35", cfg.SilenceFloorDB)
	}
	if !cfg.NoClean {
		t.Error("NoClean not applied")
	}
	// untouched fields keep defaults
	if cfg.Endpoint != DefaultEndpoint {
		t.Errorf("Endpoint = %q, want default", cfg.Endpoint)
	}
}

func TestLoadMalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("model = [broken"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Fatal("Load accepted malformed TOML")
	}
}

func TestPathHonorsXDG(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/tmp/xdgtest")
	want := filepath.Join("/tmp/xdgtest", "vox", "config.toml")
	if got := Path(); got != want {
		t.Errorf("Path() = %q, want %q", got, want)
	}
}
