// Package config loads the optional .btdiff.yaml options file.
package config

import (
	"fmt"
	"os"

	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"
)

// DefaultFile is the conventional config file name, looked up in the
// working directory.
const DefaultFile = ".btdiff.yaml"

// Options are the tunable knobs of a comparison.
type Options struct {
	// SimilarityThreshold is the minimum attribute similarity for the
	// moved/modified reclassification pass (0 means "use the default").
	SimilarityThreshold float64 `yaml:"similarity_threshold" mapstructure:"similarity_threshold"`

	// MaxExpansionDepth bounds nested subtree expansion (0 = default).
	MaxExpansionDepth int `yaml:"max_expansion_depth" mapstructure:"max_expansion_depth"`

	// IgnoreAttributes lists attribute names excluded from comparison,
	// e.g. cosmetic ones like _description.
	IgnoreAttributes []string `yaml:"ignore_attributes" mapstructure:"ignore_attributes"`

	// Tree selects a named tree definition; empty means automatic.
	Tree string `yaml:"tree" mapstructure:"tree"`
}

// Config is the parsed file: base options plus named profiles that
// override them. Profiles stay loosely typed in YAML and are decoded on
// demand, so unknown keys in one profile do not break the others.
type Config struct {
	Options  `yaml:",inline"`
	Profiles map[string]map[string]any `yaml:"profiles"`
}

// Load reads the file at path. A missing file is not an error: it yields
// an empty config, matching "no options configured".
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &Config{}, nil
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return &cfg, nil
}

// Profile resolves a named profile on top of the base options.
func (c *Config) Profile(name string) (Options, error) {
	opts := c.Options
	if name == "" {
		return opts, nil
	}
	raw, ok := c.Profiles[name]
	if !ok {
		return Options{}, fmt.Errorf("profile %q not found", name)
	}
	if err := mapstructure.Decode(raw, &opts); err != nil {
		return Options{}, fmt.Errorf("profile %q: %w", name, err)
	}
	return opts, nil
}
