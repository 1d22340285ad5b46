// Package config loads application settings for calibration and comparison runs.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"

	"color-verifier/internal/compare"
	"color-verifier/internal/dominant"
	"color-verifier/internal/pipeline"

	"gopkg.in/yaml.v3"
)

// Environment overrides.
const (
	EnvErrorMargin    = "COLORCHECK_ERROR_MARGIN"
	EnvClusters       = "COLORCHECK_CLUSTERS"
	EnvSeed           = "COLORCHECK_SEED"
	EnvWorkers        = "COLORCHECK_WORKERS"
	EnvDiagnosticsDir = "COLORCHECK_DIAGNOSTICS_DIR"
)

// Config holds application settings. The file is YAML; a plain JSON object
// such as {"error_margin": 5} is valid YAML and loads as well.
type Config struct {
	// ErrorMargin is stored as given. Use Margin for the clamped value.
	ErrorMargin   float64 `yaml:"error_margin"`
	Clusters      int     `yaml:"clusters"`
	MaxIterations int     `yaml:"max_iterations"`
	Seed          *uint64 `yaml:"seed"`        // unset derives the seed from the pixels
	RandomInit    bool    `yaml:"random_init"` // non-reproducible clustering
	Workers       int     `yaml:"workers"`
	CaptureSize   int     `yaml:"capture_size"` // square side captures are scaled to; 0 keeps size
	Diagnostics   string  `yaml:"diagnostics_dir"`
}

// Default returns the built-in settings.
func Default() *Config {
	d := dominant.DefaultOptions()
	return &Config{
		ErrorMargin:   10,
		Clusters:      d.Clusters,
		MaxIterations: d.MaxIterations,
		Workers:       1,
	}
}

// Load reads path over the defaults and applies environment overrides.
// A missing file is not an error; an empty path skips the file entirely.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, fs.ErrNotExist):
		case err != nil:
			return nil, fmt.Errorf("read config: %w", err)
		default:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("parse config %s: %w", path, err)
			}
		}
	}
	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	if s := os.Getenv(EnvErrorMargin); s != "" {
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvErrorMargin, err)
		}
		c.ErrorMargin = v
	}
	c.Clusters = envInt(EnvClusters, c.Clusters)
	c.Workers = envInt(EnvWorkers, c.Workers)
	if s := os.Getenv(EnvSeed); s != "" {
		v, err := strconv.ParseUint(s, 10, 64)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvSeed, err)
		}
		c.Seed = &v
	}
	if s := os.Getenv(EnvDiagnosticsDir); s != "" {
		c.Diagnostics = s
	}
	return nil
}

// envInt reads an environment variable and parses it as a positive integer.
// Returns the default value if the env var is unset, empty, or invalid.
func envInt(key string, defaultVal int) int {
	s := os.Getenv(key)
	if s == "" {
		return defaultVal
	}
	if n, err := strconv.Atoi(s); err == nil && n > 0 {
		return n
	}
	return defaultVal
}

// Margin returns the error margin clamped to [0, 100] and whether clamping
// was needed.
func (c *Config) Margin() (float64, bool) {
	return compare.ClampMargin(c.ErrorMargin)
}

// Dominant returns the clustering options.
func (c *Config) Dominant() dominant.Options {
	return dominant.Options{
		Clusters:      c.Clusters,
		MaxIterations: c.MaxIterations,
		Seed:          c.Seed,
		Randomize:     c.RandomInit,
	}
}

// Pipeline returns the pipeline options.
func (c *Config) Pipeline() pipeline.Options {
	return pipeline.Options{Dominant: c.Dominant(), Workers: c.Workers}
}

// SaveMargin stores margin in the config file at path, keeping any other
// settings already there. The value is written as given, without clamping.
func SaveMargin(path string, margin int) error {
	values := make(map[string]any)
	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
	case err != nil:
		return fmt.Errorf("read config: %w", err)
	default:
		if err := yaml.Unmarshal(data, &values); err != nil {
			return fmt.Errorf("parse config %s: %w", path, err)
		}
		if values == nil {
			values = make(map[string]any)
		}
	}
	values["error_margin"] = margin

	out, err := json.MarshalIndent(values, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, append(out, '\n'), 0o644)
}
