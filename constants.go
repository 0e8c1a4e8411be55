package flattenx

// Environment variable names
const (
	// EnvTagName is the environment variable name for the struct tag key read by
	// the introspector.
	// Default: flat
	EnvTagName = "FLATTENX_TAG_NAME"

	// EnvInclusion is the environment variable name for the default inclusion rule.
	// One of: non_null, always, non_empty, non_default.
	// Default: non_null
	EnvInclusion = "FLATTENX_INCLUSION"

	// EnvTypeProperty is the environment variable name for the property that carries
	// type ids of polymorphic values.
	// Default: @type
	EnvTypeProperty = "FLATTENX_TYPE_PROPERTY"

	// EnvTimeLayout is the environment variable name for the layout used to write
	// time.Time values.
	// Default: time.RFC3339Nano
	EnvTimeLayout = "FLATTENX_TIME_LAYOUT"

	// EnvLogLevel is the environment variable name for the log level of the
	// default logger (debug, info, warn, error).
	// Default: warn
	EnvLogLevel = "FLATTENX_LOG_LEVEL"

	// EnvIndent is the environment variable name for the JSON indent width.
	// Default: 0 (compact)
	EnvIndent = "FLATTENX_INDENT"
)

// Default values
const (
	DefaultTagName      = "flat"
	DefaultTypeProperty = "@type"
	DefaultTimeLayout   = "2006-01-02T15:04:05.999999999Z07:00"
	DefaultLogLevel     = "warn"
)

// Option keys understood inside a struct tag.
const (
	tagOmitEmpty = "omitempty"
	tagOmitZero  = "omitzero"
	tagAlways    = "always"
	tagNonNull   = "nonnull"
	tagUnwrapped = "unwrapped"
	tagInline    = "inline"
	tagPrefix    = "prefix="
	tagSuffix    = "suffix="
)
