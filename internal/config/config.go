package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// FileName is the config file at the root of a budget directory.
const FileName = "envelope.yaml"

// Config represents the top-level envelope.yaml configuration. Its values
// are threaded explicitly into formatting and import calls; nothing here is
// process-wide state.
type Config struct {
	Currency string       `yaml:"currency"`
	Dates    DatesConfig  `yaml:"dates"`
	Import   ImportConfig `yaml:"import"`
	Undo     UndoConfig   `yaml:"undo"`
}

// DatesConfig controls date rendering.
type DatesConfig struct {
	DisplayFormat string `yaml:"display_format"` // Go reference layout
}

// ImportConfig controls statement conversion.
type ImportConfig struct {
	// DateFormats are extra layouts for statement dates, tried in order
	// before the built-in defaults. Day-first layouts go here.
	DateFormats []string `yaml:"date_formats,omitempty"`
	// UnsignedKind classifies rows when the source exports a single
	// unsigned amount column: "income" or "expense". Empty means amounts
	// are signed.
	UnsignedKind string `yaml:"unsigned_kind,omitempty"`
}

// UndoConfig controls the cooperative undo expiry window.
type UndoConfig struct {
	WindowSeconds int `yaml:"window_seconds"`
}

// Window returns the undo expiry window as a duration.
func (u UndoConfig) Window() time.Duration {
	return time.Duration(u.WindowSeconds) * time.Second
}

// Load reads an envelope.yaml file from disk.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	return &cfg, nil
}

// Save writes a Config to a YAML file.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// Default returns a Config with sensible defaults for a new budget.
func Default(currency string) *Config {
	if currency == "" {
		currency = "USD"
	}
	return &Config{
		Currency: currency,
		Dates: DatesConfig{
			DisplayFormat: "2006-01-02",
		},
		Undo: UndoConfig{
			WindowSeconds: 300,
		},
	}
}
