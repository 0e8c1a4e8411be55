package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/hengadev/errsx"
	"gopkg.in/yaml.v3"

	"github.com/hengadev/flattenx"
)

const defaultConfigPath = "flattenx.yaml"

// Config represents the flattenx.yaml file
type Config struct {
	Version       string              `yaml:"version"`
	Output        OutputConfig        `yaml:"output"`
	Serialization SerializationConfig `yaml:"serialization"`
	Unwrap        []UnwrapRule        `yaml:"unwrap,omitempty"`
}

// OutputConfig holds document format settings
type OutputConfig struct {
	Format string `yaml:"format"`
	Indent int    `yaml:"indent"`
}

// SerializationConfig overrides the library configuration. Empty values keep
// what the environment provides.
type SerializationConfig struct {
	Inclusion    string `yaml:"inclusion,omitempty"`
	TypeProperty string `yaml:"type_property,omitempty"`
	TimeLayout   string `yaml:"time_layout,omitempty"`
	LogLevel     string `yaml:"log_level,omitempty"`
}

// UnwrapRule flattens the object under Key into the top level
type UnwrapRule struct {
	Key    string `yaml:"key"`
	Prefix string `yaml:"prefix,omitempty"`
	Suffix string `yaml:"suffix,omitempty"`
}

// LoadConfig loads configuration from a YAML file
func LoadConfig(path string) (*Config, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, fmt.Errorf("config file not found: %s", path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := &Config{}
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	return config, nil
}

// SaveConfig saves configuration to a YAML file
func SaveConfig(config *Config, path string) error {
	data, err := yaml.Marshal(config)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// DefaultConfig returns a default configuration
func DefaultConfig() *Config {
	return &Config{
		Version: "1",
		Output: OutputConfig{
			Format: string(flattenx.FormatJSON),
			Indent: 2,
		},
		Serialization: SerializationConfig{
			Inclusion: flattenx.IncludeNonNull.String(),
			LogLevel:  flattenx.DefaultLogLevel,
		},
	}
}

// Validate checks every section and reports all problems at once
func (c *Config) Validate() error {
	if c.Version == "" {
		c.Version = "1"
	}

	var errs errsx.Map
	if c.Output.Format != "" {
		if _, err := flattenx.ParseFormat(c.Output.Format); err != nil {
			errs.Set("output.format", err)
		}
	}
	if c.Output.Indent < 0 || c.Output.Indent > 16 {
		errs.Set("output.indent", fmt.Errorf("indent must be between 0 and 16, got %d", c.Output.Indent))
	}
	if c.Serialization.Inclusion != "" {
		if _, err := flattenx.ParseInclusion(c.Serialization.Inclusion); err != nil {
			errs.Set("serialization.inclusion", err)
		}
	}

	seen := make(map[string]bool, len(c.Unwrap))
	for i, rule := range c.Unwrap {
		key := fmt.Sprintf("unwrap[%d]", i)
		if strings.TrimSpace(rule.Key) == "" {
			errs.Set(key, fmt.Errorf("key cannot be empty"))
			continue
		}
		if seen[rule.Key] {
			errs.Set(key, fmt.Errorf("key %q is unwrapped more than once", rule.Key))
		}
		seen[rule.Key] = true
	}

	if !errs.IsEmpty() {
		return errs.AsError()
	}
	return nil
}

// Apply overlays the non-empty serialization settings on base
func (c *Config) Apply(base flattenx.Config) (flattenx.Config, error) {
	s := c.Serialization
	if s.Inclusion != "" {
		inclusion, err := flattenx.ParseInclusion(s.Inclusion)
		if err != nil {
			return base, err
		}
		base.DefaultInclusion = inclusion
	}
	if s.TypeProperty != "" {
		base.TypeProperty = s.TypeProperty
	}
	if s.TimeLayout != "" {
		base.TimeLayout = s.TimeLayout
	}
	if s.LogLevel != "" {
		base.LogLevel = s.LogLevel
	}
	base.Indent = c.Output.Indent
	if err := base.Validate(); err != nil {
		return base, err
	}
	return base, nil
}

// parseUnwrap reads a -unwrap flag value of the form key[:prefix]
func parseUnwrap(s string) (UnwrapRule, error) {
	key, prefix, _ := strings.Cut(s, ":")
	key = strings.TrimSpace(key)
	if key == "" {
		return UnwrapRule{}, fmt.Errorf("invalid unwrap %q: key cannot be empty", s)
	}
	return UnwrapRule{Key: key, Prefix: prefix}, nil
}

// unwrapFlags collects repeated -unwrap flags
type unwrapFlags []UnwrapRule

func (u *unwrapFlags) String() string {
	parts := make([]string, len(*u))
	for i, r := range *u {
		parts[i] = r.Key + ":" + r.Prefix
	}
	return strings.Join(parts, ",")
}

func (u *unwrapFlags) Set(s string) error {
	rule, err := parseUnwrap(s)
	if err != nil {
		return err
	}
	*u = append(*u, rule)
	return nil
}
