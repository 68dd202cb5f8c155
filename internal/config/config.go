package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

const (
	// YAMLConfigFileName is the preferred config file.
	YAMLConfigFileName = ".hooknames.yaml"
	// TOMLConfigFileName is the alternative format, consulted when no YAML
	// config exists.
	TOMLConfigFileName = ".hooknames.toml"
)

// Config holds resolver and fetch settings.
type Config struct {
	// FetchTimeoutSeconds is the per-request deadline for bundle and map
	// fetches.
	FetchTimeoutSeconds int `yaml:"fetch_timeout_seconds,omitempty" toml:"fetch_timeout_seconds,omitempty" validate:"min=0,max=600"`

	// FetchConcurrency bounds how many fetches run at once.
	FetchConcurrency int `yaml:"fetch_concurrency,omitempty" toml:"fetch_concurrency,omitempty" validate:"min=0,max=64"`

	// MaxSourceLines bounds how large a translated original source may be
	// before it is skipped as unsafe to parse.
	MaxSourceLines int `yaml:"max_source_lines,omitempty" toml:"max_source_lines,omitempty" validate:"min=0"`

	// UserAgent is sent on every HTTP fetch when non-empty.
	UserAgent string `yaml:"user_agent,omitempty" toml:"user_agent,omitempty"`

	// BundleRoots are local build directories searched before the network,
	// so dumps recorded against a dev server resolve offline.
	BundleRoots []string `yaml:"bundle_roots,omitempty" toml:"bundle_roots,omitempty" validate:"dive,min=1"`
}

// DefaultConfig returns a config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		FetchTimeoutSeconds: 25,
		FetchConcurrency:    4,
		MaxSourceLines:      100000,
		UserAgent:           "hooknames/1.0",
	}
}

// Load reads config from .hooknames.yaml (or .hooknames.toml) in the given
// directory. A missing file yields the defaults.
func Load(dir string) (*Config, error) {
	yamlPath := filepath.Join(dir, YAMLConfigFileName)
	if data, err := os.ReadFile(yamlPath); err == nil {
		cfg := DefaultConfig()
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", YAMLConfigFileName, err)
		}
		return cfg, nil
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	tomlPath := filepath.Join(dir, TOMLConfigFileName)
	if data, err := os.ReadFile(tomlPath); err == nil {
		cfg := DefaultConfig()
		if err := toml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", TOMLConfigFileName, err)
		}
		return cfg, nil
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	return DefaultConfig(), nil
}

// Save writes the config as YAML to dir.
func Save(cfg *Config, dir string) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	path := filepath.Join(dir, YAMLConfigFileName)
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}
