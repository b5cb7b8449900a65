package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"go-piano/synth"
)

// MIDIConfig controls MIDI keyboard input
type MIDIConfig struct {
	Enabled bool   `yaml:"enabled"`
	Port    string `yaml:"port,omitempty"` // substring filter; empty = any keyboard
}

// DebugConfig controls the debug log file
type DebugConfig struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path,omitempty"`
}

// Config is the main configuration structure. Only startup defaults live
// here; the style toggled at runtime is never written back.
type Config struct {
	Style      synth.Style `yaml:"style"`
	SampleRate int         `yaml:"sampleRate,omitempty"`
	MIDI       MIDIConfig  `yaml:"midi"`
	Debug      DebugConfig `yaml:"debug"`
}

// DefaultConfig returns a config with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Style:      synth.StyleGrand,
		SampleRate: synth.DefaultSampleRate,
	}
}

// ConfigDir returns the config directory path
func ConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "go-piano"), nil
}

// ConfigPath returns the full path to config.yaml
func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.yaml"), nil
}

// Load reads the config at path (the default location when empty), or
// returns defaults if the file does not exist
func Load(path string) (*Config, error) {
	if path == "" {
		p, err := ConfigPath()
		if err != nil {
			return DefaultConfig(), nil
		}
		path = p
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultConfig(), nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks field ranges
func (c *Config) Validate() error {
	if c.SampleRate < 0 {
		return fmt.Errorf("sampleRate %d must not be negative", c.SampleRate)
	}
	if c.SampleRate != 0 && (c.SampleRate < 8000 || c.SampleRate > 192000) {
		return fmt.Errorf("sampleRate %d out of range 8000-192000", c.SampleRate)
	}
	return nil
}

// Save writes the config to path (the default location when empty)
func (c *Config) Save(path string) error {
	if path == "" {
		p, err := ConfigPath()
		if err != nil {
			return err
		}
		path = p
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}
