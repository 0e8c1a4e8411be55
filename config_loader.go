package flattenx

import (
	"fmt"
	"os"
	"strconv"
)

// LoadConfigFromEnvironment loads configuration from environment variables.
//
// Every variable is optional; defaults are applied for unset ones:
//   - FLATTENX_TAG_NAME: struct tag key (default: flat)
//   - FLATTENX_INCLUSION: non_null, always, non_empty or non_default (default: non_null)
//   - FLATTENX_TYPE_PROPERTY: type id property (default: @type)
//   - FLATTENX_TIME_LAYOUT: time.Time layout (default: RFC 3339 with nanoseconds)
//   - FLATTENX_LOG_LEVEL: debug, info, warn or error (default: warn)
//   - FLATTENX_INDENT: JSON indent width (default: 0)
//
// Example usage:
//
//	cfg, err := flattenx.LoadConfigFromEnvironment()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	mapper, err := flattenx.NewMapper(flattenx.WithConfig(cfg))
func LoadConfigFromEnvironment() (Config, error) {
	inclusion, err := ParseInclusion(os.Getenv(EnvInclusion))
	if err != nil {
		return Config{}, fmt.Errorf("%s: %w", EnvInclusion, err)
	}

	indent := 0
	if raw := os.Getenv(EnvIndent); raw != "" {
		indent, err = strconv.Atoi(raw)
		if err != nil {
			return Config{}, fmt.Errorf("%w: %s must be an integer, got %q", ErrInvalidConfiguration, EnvIndent, raw)
		}
	}

	cfg := Config{
		TagName:          getEnvOrDefault(EnvTagName, DefaultTagName),
		DefaultInclusion: inclusion,
		TypeProperty:     getEnvOrDefault(EnvTypeProperty, DefaultTypeProperty),
		TimeLayout:       getEnvOrDefault(EnvTimeLayout, DefaultTimeLayout),
		LogLevel:         getEnvOrDefault(EnvLogLevel, DefaultLogLevel),
		Indent:           indent,
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}

// getEnvOrDefault returns the value of an environment variable, or defaultValue
// if it is unset or empty.
func getEnvOrDefault(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}
