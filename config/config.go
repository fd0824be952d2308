// Package config loads keycount settings from a YAML file.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

const (
	// DefaultFileName is looked up in the working directory when no
	// explicit config path is given.
	DefaultFileName = ".keycount.yaml"

	// DefaultExtension selects Java sources.
	DefaultExtension = ".java"

	// EnvDataSourcePath overrides dataSourcePath when set.
	EnvDataSourcePath = "KEYCOUNT_DATA_SOURCE_PATH"
)

// Config holds all keycount settings.
type Config struct {
	// DataSourcePath is the prefix prepended to every record name. It is
	// concatenated, not joined: use a trailing separator for a directory.
	DataSourcePath string        `yaml:"dataSourcePath"`
	Extension      string        `yaml:"extension"`
	IgnoreFile     string        `yaml:"ignoreFile"`
	Backend        string        `yaml:"backend"`
	History        HistoryConfig `yaml:"history"`
	Log            LogConfig     `yaml:"log"`
}

type HistoryConfig struct {
	Enabled bool `yaml:"enabled"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// DefaultConfig returns the settings used when nothing is configured.
func DefaultConfig() *Config {
	return &Config{
		DataSourcePath: "",
		Extension:      DefaultExtension,
		Backend:        "file",
		History:        HistoryConfig{Enabled: true},
		Log:            LogConfig{Level: "info", Format: "text"},
	}
}

// DataDir returns the directory portion of DataSourcePath, "." when the
// prefix has none.
func (c *Config) DataDir() string {
	return filepath.Dir(c.DataSourcePath + "_")
}

// Load reads the config file at path on top of the defaults.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	if cfg.Extension == "" {
		cfg.Extension = DefaultExtension
	}
	return cfg, nil
}

// Resolved is the outcome of Resolve. Config is always usable; Defaulted
// reports that the file could not be used and Err says why.
type Resolved struct {
	Config    *Config
	Source    string
	Defaulted bool
	Err       error
}

// Resolve loads the config at path and falls back to the defaults when the
// file is missing or invalid. The environment override is applied in both
// cases.
func Resolve(path string) Resolved {
	if path == "" {
		path = DefaultFileName
	}
	r := Resolved{Source: path}
	cfg, err := Load(path)
	if err != nil {
		cfg = DefaultConfig()
		r.Defaulted = true
		r.Err = err
	}
	if v, ok := os.LookupEnv(EnvDataSourcePath); ok {
		cfg.DataSourcePath = v
	}
	r.Config = cfg
	return r
}

// NotFound reports whether the resolution fell back because the file
// does not exist, as opposed to being unreadable or invalid.
func (r Resolved) NotFound() bool {
	return r.Defaulted && errors.Is(r.Err, os.ErrNotExist)
}

// Save writes cfg to path as YAML.
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}
