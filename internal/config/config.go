// Package config loads optional project-level defaults from a
// specclean.toml found in the working directory or any parent. Explicit
// command-line flags always win over config values.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// FileName is the config file searched for upward from the start directory.
const FileName = "specclean.toml"

// Config carries the recognized options.
type Config struct {
	Style StyleConfig `toml:"style"`
	Diff  DiffConfig  `toml:"diff"`
}

// StyleConfig tunes the normalization rules.
type StyleConfig struct {
	// Minimal applies only the safe subset of rewrites by default.
	Minimal bool `toml:"minimal"`
	// PadColumn is the 1-based column tag values align to (0 = default).
	PadColumn int `toml:"pad_column"`
}

// DiffConfig configures the review pipeline.
type DiffConfig struct {
	// Prog is the external diff viewer to invoke.
	Prog string `toml:"prog"`
}

// Find walks from startDir to the filesystem root looking for the config
// file. The second result is false when none exists.
func Find(startDir string) (string, bool, error) {
	if startDir == "" {
		startDir = "."
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false, fmt.Errorf("failed to resolve start directory: %w", err)
	}
	for {
		candidate := filepath.Join(dir, FileName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, true, nil
		} else if !errors.Is(err, os.ErrNotExist) {
			return "", false, fmt.Errorf("failed to stat %q: %w", candidate, err)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", false, nil
}

// Load finds and decodes the nearest config file. When none exists the
// zero config is returned with ok=false.
func Load(startDir string) (Config, bool, error) {
	path, ok, err := Find(startDir)
	if err != nil || !ok {
		return Config{}, ok, err
	}
	cfg, err := Decode(path)
	if err != nil {
		return Config{}, true, err
	}
	return cfg, true, nil
}

// Decode parses one config file.
func Decode(path string) (Config, error) {
	var cfg Config
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return Config{}, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if cfg.Style.PadColumn < 0 {
		return Config{}, fmt.Errorf("%s: style.pad_column must not be negative", path)
	}
	return cfg, nil
}
