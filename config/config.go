// Package config loads the project configuration file.
//
// The file is looked up from a start directory towards the filesystem root. The first of
// .reshape.toml, .reshape.yaml and .reshape.yml found in a directory wins.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/dhamidi/reshape/edit"
	"github.com/dhamidi/reshape/layout"
)

var FileNames = []string{".reshape.toml", ".reshape.yaml", ".reshape.yml"}

type Config struct {
	Layout Layout `toml:"layout" yaml:"layout"`
	Format Format `toml:"format" yaml:"format"`
	Log    Log    `toml:"log" yaml:"log"`
}

type Layout struct {
	// Mode is the expansion variant: "split" or "wrap".
	Mode string `toml:"mode" yaml:"mode"`
	// Braces adds {} to bracket matching.
	Braces bool `toml:"braces" yaml:"braces"`
}

type Format struct {
	// Command is the argv of a formatter reading stdin and writing stdout.
	Command []string `toml:"command" yaml:"command"`
}

type Log struct {
	Verbosity int    `toml:"verbosity" yaml:"verbosity"`
	File      string `toml:"file" yaml:"file"`
}

func Default() Config {
	return Config{Layout: Layout{Mode: layout.Split.String()}}
}

func (c Config) Validate() error {
	if _, err := layout.ParseMode(c.Layout.Mode); err != nil {
		return fmt.Errorf("layout.mode: %w", err)
	}
	if c.Log.Verbosity < 0 {
		return fmt.Errorf("log.verbosity: must not be negative, got %d", c.Log.Verbosity)
	}
	return nil
}

// ToggleOptions converts the layout section for edit.ToggleLayout.
func (c Config) ToggleOptions() (edit.ToggleOptions, error) {
	mode, err := layout.ParseMode(c.Layout.Mode)
	if err != nil {
		return edit.ToggleOptions{}, err
	}
	return edit.ToggleOptions{Mode: mode, Braces: c.Layout.Braces}, nil
}

// Find looks for a configuration file in startDir and its parents.
func Find(startDir string) (string, bool, error) {
	if startDir == "" {
		startDir = "."
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false, fmt.Errorf("failed to resolve start directory: %w", err)
	}
	for {
		for _, name := range FileNames {
			candidate := filepath.Join(dir, name)
			if _, err := os.Stat(candidate); err == nil {
				return candidate, true, nil
			} else if !errors.Is(err, os.ErrNotExist) {
				return "", false, fmt.Errorf("failed to stat %q: %w", candidate, err)
			}
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", false, nil
}

// Load reads the configuration file at path. Keys missing from the file keep their defaults;
// unknown keys are an error.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("failed to read %s: %w", path, err)
	}
	cfg := Default()
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".toml":
		meta, err := toml.Decode(string(data), &cfg)
		if err != nil {
			return Config{}, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
		}
		if undecoded := meta.Undecoded(); len(undecoded) > 0 {
			return Config{}, fmt.Errorf("%s: unknown key %q", path, undecoded[0].String())
		}
	case ".yaml", ".yml":
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
			return Config{}, fmt.Errorf("%s: failed to parse YAML: %w", path, err)
		}
	default:
		return Config{}, fmt.Errorf("%s: unsupported config format %q", path, ext)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Discover finds and loads the configuration for startDir. Without a file it returns the
// defaults and an empty path.
func Discover(startDir string) (Config, string, error) {
	path, ok, err := Find(startDir)
	if err != nil {
		return Config{}, "", err
	}
	if !ok {
		return Default(), "", nil
	}
	cfg, err := Load(path)
	return cfg, path, err
}
