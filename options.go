package flattenx

import (
	"fmt"
	"log/slog"
	"strings"
)

// Option represents a configuration option for a Provider or Mapper
type Option func(*Config) error

// WithConfig replaces the whole configuration. Later options still apply on top.
func WithConfig(cfg Config) Option {
	return func(c *Config) error {
		*c = cfg
		return nil
	}
}

// WithTagName sets the struct tag key read during introspection
func WithTagName(name string) Option {
	return func(c *Config) error {
		if err := validateTagName(name); err != nil {
			return err
		}
		c.TagName = name
		return nil
	}
}

// WithDefaultInclusion sets the inclusion used by properties without an explicit one
func WithDefaultInclusion(inclusion Inclusion) Option {
	return func(c *Config) error {
		if !inclusion.IsValid() {
			return fmt.Errorf("%w: unknown inclusion %d", ErrInvalidConfiguration, inclusion)
		}
		c.DefaultInclusion = inclusion
		return nil
	}
}

// WithTypeProperty sets the property name carrying type ids
func WithTypeProperty(property string) Option {
	return func(c *Config) error {
		if strings.TrimSpace(property) == "" {
			return fmt.Errorf("%w: type property cannot be blank", ErrInvalidConfiguration)
		}
		c.TypeProperty = property
		return nil
	}
}

// WithTimeLayout sets the layout used for time.Time values
func WithTimeLayout(layout string) Option {
	return func(c *Config) error {
		if err := validateTimeLayout(layout); err != nil {
			return err
		}
		c.TimeLayout = layout
		return nil
	}
}

// WithIndent makes JSON output indented by the given number of spaces
func WithIndent(spaces int) Option {
	return func(c *Config) error {
		if spaces < 0 || spaces > 16 {
			return fmt.Errorf("%w: indent must be between 0 and 16, got %d", ErrInvalidConfiguration, spaces)
		}
		c.Indent = spaces
		return nil
	}
}

// WithLogger sets the logger used for resolution diagnostics
func WithLogger(logger *slog.Logger) Option {
	return func(c *Config) error {
		if logger == nil {
			return fmt.Errorf("%w: logger cannot be nil", ErrInvalidConfiguration)
		}
		c.Logger = logger
		return nil
	}
}

// WithMetricsCollector sets the metrics collector
func WithMetricsCollector(collector MetricsCollector) Option {
	return func(c *Config) error {
		if collector == nil {
			return fmt.Errorf("%w: metrics collector cannot be nil", ErrInvalidConfiguration)
		}
		c.MetricsCollector = collector
		return nil
	}
}

// WithObservabilityHook sets the observability hook
func WithObservabilityHook(hook ObservabilityHook) Option {
	return func(c *Config) error {
		if hook == nil {
			return fmt.Errorf("%w: observability hook cannot be nil", ErrInvalidConfiguration)
		}
		c.ObservabilityHook = hook
		return nil
	}
}

func buildConfig(opts []Option) (Config, error) {
	var cfg Config
	for _, opt := range opts {
		if err := opt(&cfg); err != nil {
			return Config{}, err
		}
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}
