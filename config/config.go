// Package config holds the immutable process configuration. It is built once
// in main (file first, then flags) and passed by value into constructors.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
)

const (
	DefaultEndpoint = "http://127.0.0.1:8080/v1/audio/transcriptions"
	DefaultKey      = "alt_r"

	// DebounceInterval coalesces accidental hotkey taps shorter than this.
	DebounceInterval = 50 * time.Millisecond
)

type Config struct {
	Model    string // whisper model size: tiny, base, small, medium
	Output   string // clipboard, stdout, paste
	Key      string // push-to-talk trigger key
	Device   string // capture device name, empty = system default
	Endpoint string // whisper server URL
	Language string // transcription language hint, empty = auto

	Duration       time.Duration // max recording length
	SilenceWindow  time.Duration // contiguous silence that stops a recording
	SilenceFloorDB float64       // frames quieter than this count as silent

	NoClean bool
	Verbose bool
}

func Default() Config {
	return Config{
		Model:          "base",
		Output:         "clipboard",
		Key:            DefaultKey,
		Endpoint:       DefaultEndpoint,
		Duration:       30 * time.Second,
		SilenceWindow:  1500 * time.Millisecond,
		SilenceFloorDB: -40,
	}
}

var validModels = map[string]bool{"tiny": true, "base": true, "small": true, "medium": true}
var validOutputs = map[string]bool{"clipboard": true, "stdout": true, "paste": true}

func (c Config) Validate() error {
	if !validModels[c.Model] {
		return fmt.Errorf("invalid model %q (use tiny, base, small, or medium)", c.Model)
	}
	if !validOutputs[c.Output] {
		return fmt.Errorf("invalid output %q (use clipboard, stdout, or paste)", c.Output)
	}
	if c.Duration <= 0 {
		return fmt.Errorf("duration must be positive, got %s", c.Duration)
	}
	if c.SilenceWindow <= 0 {
		return fmt.Errorf("silence window must be positive, got %s", c.SilenceWindow)
	}
	return nil
}

// fileConfig mirrors the TOML file. Durations are seconds, matching the
// -duration and -silence flags.
type fileConfig struct {
	Model          *string  `toml:"model"`
	Output         *string  `toml:"output"`
	Key            *string  `toml:"key"`
	Device         *string  `toml:"device"`
	Endpoint       *string  `toml:"endpoint"`
	Language       *string  `toml:"language"`
	Duration       *float64 `toml:"duration"`
	SilenceWindow  *float64 `toml:"silence_window"`
	SilenceFloorDB *float64 `toml:"silence_floor_db"`
	NoClean        *bool    `toml:"no_clean"`
}

// Path returns the config file location, honoring XDG_CONFIG_HOME.
func Path() string {
	base := os.Getenv("XDG_CONFIG_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		base = filepath.Join(home, ".config")
	}
	return filepath.Join(base, "vox", "config.toml")
}

// Load returns Default overlaid with the TOML file at path. A missing file is
// not an error; a malformed one is.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config: %w", err)
	}
	var fc fileConfig
	if err := toml.Unmarshal(data, &fc); err != nil {
		return cfg, fmt.Errorf("parsing %s: %w", path, err)
	}
	apply(&cfg, fc)
	return cfg, nil
}

func apply(cfg *Config, fc fileConfig) {
	if fc.Model != nil {
		cfg.Model = *fc.Model
	}
	if fc.Output != nil {
		cfg.Output = *fc.Output
	}
	if fc.Key != nil {
		cfg.Key = *fc.Key
	}
	if fc.Device != nil {
		cfg.Device = *fc.Device
	}
	if fc.Endpoint != nil {
		cfg.Endpoint = *fc.Endpoint
	}
	if fc.Language != nil {
		cfg.Language = *fc.Language
	}
	if fc.Duration != nil {
		cfg.Duration = time.Duration(*fc.Duration * float64(time.Second))
	}
	if fc.SilenceWindow != nil {
		cfg.SilenceWindow = time.Duration(*fc.SilenceWindow * float64(time.Second))
	}
	if fc.SilenceFloorDB != nil {
		cfg.SilenceFloorDB = *fc.SilenceFloorDB
	}
	if fc.NoClean != nil {
		cfg.NoClean = *fc.NoClean
	}
}
