package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// File is the on-disk config layout written by `cxt config init`.
type File struct {
	Print        bool     `yaml:"print"`
	Relative     bool     `yaml:"relative"`
	NoPath       bool     `yaml:"no_path"`
	Hidden       bool     `yaml:"hidden"`
	Exclude      []string `yaml:"exclude"`
	GlobalIgnore string   `yaml:"global_ignore"`
	OnConflict   string   `yaml:"on_conflict"`
	NoClipboard  bool     `yaml:"no_clipboard"`
	Verbose      bool     `yaml:"verbose"`
}

// DefaultFile returns the config file contents matching the built-in defaults.
func DefaultFile() File {
	return File{
		Exclude:    []string{},
		OnConflict: "prompt",
	}
}

// WriteDefault writes DefaultFile to path. An existing file is only replaced with force.
func WriteDefault(path string, force bool) error {
	if _, err := os.Stat(path); err == nil && !force {
		return fmt.Errorf("config file %s already exists (use --force to overwrite)", path)
	} else if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to stat %s: %w", path, err)
	}

	out, err := yaml.Marshal(DefaultFile())
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if err := os.WriteFile(path, out, 0o644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}
