// Package config merges flags, the config file and CXT_* environment variables
// into validated settings for a run.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// EnvPrefix is the prefix of environment variables overriding settings.
const EnvPrefix = "CXT"

// Keys understood in the config file and the environment.
const (
	KeyPrint        = "print"
	KeyWrite        = "write"
	KeyRelative     = "relative"
	KeyNoPath       = "no_path"
	KeyHidden       = "hidden"
	KeyTUI          = "tui"
	KeyIgnore       = "ignore"
	KeyExclude      = "exclude"
	KeyGlobalIgnore = "global_ignore"
	KeyOnConflict   = "on_conflict"
	KeyNoClipboard  = "no_clipboard"
	KeyDryRun       = "dry_run"
	KeyVerbose      = "verbose"
	KeyDebug        = "debug"
)

// ConfigError reports an invalid combination of settings. It is always fatal.
type ConfigError struct {
	Field string
	Msg   string
	Cause error
}

func (e *ConfigError) Error() string {
	if e.Field == "" {
		return e.Msg
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Msg)
}

func (e *ConfigError) Unwrap() error {
	return e.Cause
}

// Settings is the merged, unvalidated input for a run.
type Settings struct {
	Paths        []string
	Print        bool
	Write        string
	Relative     bool
	NoPath       bool
	Hidden       bool
	TUI          bool
	Ignore       []string
	Exclude      []string
	GlobalIgnore string
	OnConflict   string
	NoClipboard  bool
	DryRun       bool
	Verbose      bool
	Debug        bool
}

// DefaultPath returns $XDG_CONFIG_HOME/cxt/config.yaml, falling back to ~/.config.
func DefaultPath() (string, error) {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "cxt", "config.yaml"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to find home directory: %w", err)
	}
	return filepath.Join(home, ".config", "cxt", "config.yaml"), nil
}

// NewViper creates a viper instance with defaults and environment binding, and
// reads configFile (or the default location). A missing default file is fine;
// a missing explicit file is not.
func NewViper(configFile string) (*viper.Viper, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, &ConfigError{Field: "config", Msg: fmt.Sprintf("failed to read %s", configFile), Cause: err}
		}
		return v, nil
	}

	path, err := DefaultPath()
	if err != nil {
		return v, nil
	}
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) || errors.Is(err, os.ErrNotExist) {
			return v, nil
		}
		return nil, &ConfigError{Field: "config", Msg: fmt.Sprintf("failed to read %s", path), Cause: err}
	}
	return v, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault(KeyPrint, false)
	v.SetDefault(KeyWrite, "")
	v.SetDefault(KeyRelative, false)
	v.SetDefault(KeyNoPath, false)
	v.SetDefault(KeyHidden, false)
	v.SetDefault(KeyTUI, false)
	v.SetDefault(KeyIgnore, []string{})
	v.SetDefault(KeyExclude, []string{})
	v.SetDefault(KeyGlobalIgnore, "")
	v.SetDefault(KeyOnConflict, "prompt")
	v.SetDefault(KeyNoClipboard, false)
	v.SetDefault(KeyDryRun, false)
	v.SetDefault(KeyVerbose, false)
	v.SetDefault(KeyDebug, false)
}

// FromViper reads Settings out of v.
func FromViper(v *viper.Viper, paths []string) Settings {
	return Settings{
		Paths:        paths,
		Print:        v.GetBool(KeyPrint),
		Write:        v.GetString(KeyWrite),
		Relative:     v.GetBool(KeyRelative),
		NoPath:       v.GetBool(KeyNoPath),
		Hidden:       v.GetBool(KeyHidden),
		TUI:          v.GetBool(KeyTUI),
		Ignore:       v.GetStringSlice(KeyIgnore),
		Exclude:      v.GetStringSlice(KeyExclude),
		GlobalIgnore: v.GetString(KeyGlobalIgnore),
		OnConflict:   v.GetString(KeyOnConflict),
		NoClipboard:  v.GetBool(KeyNoClipboard),
		DryRun:       v.GetBool(KeyDryRun),
		Verbose:      v.GetBool(KeyVerbose),
		Debug:        v.GetBool(KeyDebug),
	}
}
