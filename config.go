package flattenx

import (
	"log/slog"

	"github.com/hengadev/flattenx/internal/monitoring"
)

// MetricsCollector receives counters and timings from providers and mappers.
type MetricsCollector = monitoring.MetricsCollector

// ObservabilityHook is notified around every Mapper run and serializer resolution.
type ObservabilityHook = monitoring.ObservabilityHook

// NewInMemoryMetricsCollector returns a collector that keeps metrics in memory,
// mostly useful in tests.
func NewInMemoryMetricsCollector() *monitoring.InMemoryMetricsCollector {
	return monitoring.NewInMemoryMetricsCollector()
}

// NewLoggingHook returns a hook that logs every Mapper run and serializer
// resolution to logger. Completed runs are logged at debug level, failures at
// warn and error level. A nil logger discards everything.
func NewLoggingHook(logger *slog.Logger) ObservabilityHook {
	return monitoring.NewLoggingObservabilityHook(monitoring.FromSlog(logger, "hook", nil))
}

// NewCompositeHook returns a hook forwarding every event to hooks, in order.
func NewCompositeHook(hooks ...ObservabilityHook) ObservabilityHook {
	return monitoring.NewCompositeObservabilityHook(hooks...)
}

// Config holds the configuration shared by a Provider and the Mappers built on it.
//
// This struct contains only data. It can be filled from code, from the
// environment (LoadConfigFromEnvironment) or from a file, then passed to
// NewProvider or NewMapper with WithConfig.
//
// Example usage:
//
//	cfg := flattenx.Config{
//	    TagName:          "flat",
//	    DefaultInclusion: flattenx.IncludeNonEmpty,
//	}
//	if err := cfg.Validate(); err != nil {
//	    log.Fatal(err)
//	}
//	mapper, err := flattenx.NewMapper(flattenx.WithConfig(cfg))
type Config struct {
	// TagName is the struct tag key read during introspection.
	//
	// Optional field. Default: flat
	TagName string

	// DefaultInclusion applies to properties whose tag does not choose one.
	//
	// Optional field. Default: IncludeNonNull
	DefaultInclusion Inclusion

	// TypeProperty names the property that carries the type id of polymorphic
	// values written as objects.
	//
	// Optional field. Default: @type
	TypeProperty string

	// TimeLayout is the layout used for time.Time values.
	//
	// Optional field. Default: RFC 3339 with nanoseconds
	TimeLayout string

	// Indent is the number of spaces used to indent JSON output. Zero writes
	// compact JSON.
	Indent int

	// LogLevel is used when no Logger is given.
	//
	// Optional field. Default: warn
	LogLevel string

	Logger            *slog.Logger
	MetricsCollector  MetricsCollector
	ObservabilityHook ObservabilityHook
}

// DefaultConfig returns a Config with every default applied.
func DefaultConfig() Config {
	cfg := Config{}
	cfg.applyDefaults()
	return cfg
}

func (c *Config) applyDefaults() {
	if c.TagName == "" {
		c.TagName = DefaultTagName
	}
	if c.TypeProperty == "" {
		c.TypeProperty = DefaultTypeProperty
	}
	if c.TimeLayout == "" {
		c.TimeLayout = DefaultTimeLayout
	}
	if c.LogLevel == "" {
		c.LogLevel = DefaultLogLevel
	}
	if c.MetricsCollector == nil {
		c.MetricsCollector = &monitoring.NoOpMetricsCollector{}
	}
	if c.ObservabilityHook == nil {
		c.ObservabilityHook = &monitoring.NoOpObservabilityHook{}
	}
}

func (c *Config) logger(component string) *monitoring.StructuredLogger {
	if c.Logger != nil {
		return monitoring.FromSlog(c.Logger, component, nil)
	}
	level, err := monitoring.ParseLogLevel(c.LogLevel)
	if err != nil {
		level = monitoring.LevelWarn
	}
	return monitoring.NewStructuredLogger(monitoring.LoggerConfig{
		Level:     level,
		Format:    monitoring.FormatText,
		Component: component,
	})
}
