package flattenx

import (
	"fmt"
	"strings"
	"time"
	"unicode"

	"github.com/hengadev/errsx"

	"github.com/hengadev/flattenx/internal/monitoring"
)

// Validate applies defaults to empty fields and reports every invalid one.
func (c *Config) Validate() error {
	c.applyDefaults()

	var errs errsx.Map
	if err := validateTagName(c.TagName); err != nil {
		errs.Set("tag name", err)
	}
	if !c.DefaultInclusion.IsValid() {
		errs.Set("default inclusion", fmt.Errorf("%w: unknown inclusion %d", ErrInvalidConfiguration, c.DefaultInclusion))
	}
	if strings.TrimSpace(c.TypeProperty) == "" {
		errs.Set("type property", fmt.Errorf("%w: type property cannot be blank", ErrInvalidConfiguration))
	}
	if err := validateTimeLayout(c.TimeLayout); err != nil {
		errs.Set("time layout", err)
	}
	if c.Indent < 0 || c.Indent > 16 {
		errs.Set("indent", fmt.Errorf("%w: indent must be between 0 and 16, got %d", ErrInvalidConfiguration, c.Indent))
	}
	if _, err := monitoring.ParseLogLevel(c.LogLevel); err != nil {
		errs.Set("log level", fmt.Errorf("%w: %v", ErrInvalidConfiguration, err))
	}

	if !errs.IsEmpty() {
		return errs.AsError()
	}
	return nil
}

func validateTagName(name string) error {
	if name == "" {
		return fmt.Errorf("%w: tag name cannot be empty", ErrInvalidConfiguration)
	}
	for _, r := range name {
		if r <= ' ' || r == ':' || r == '"' || r == 0x7f || !unicode.IsPrint(r) {
			return fmt.Errorf("%w: tag name %q contains invalid character %q", ErrInvalidConfiguration, name, r)
		}
	}
	return nil
}

// validateTimeLayout rejects layouts that format every instant the same way.
func validateTimeLayout(layout string) error {
	a := time.Date(2006, time.January, 2, 15, 4, 5, 0, time.UTC)
	b := time.Date(1999, time.December, 31, 23, 59, 58, 0, time.UTC)
	if layout == "" || a.Format(layout) == b.Format(layout) {
		return fmt.Errorf("%w: time layout %q has no time elements", ErrInvalidConfiguration, layout)
	}
	return nil
}
