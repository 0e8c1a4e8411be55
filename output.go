package flattenx

import (
	"fmt"
	"io"
	"strings"

	"github.com/hengadev/flattenx/internal/output/jsonw"
	"github.com/hengadev/flattenx/internal/output/yamlw"
)

// Format selects the document format a Mapper writes.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// ParseFormat accepts json, yaml and yml, case-insensitively.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	}
	return "", fmt.Errorf("%w: unknown output format %q", ErrInvalidConfiguration, s)
}

// NewJSONWriter returns an ObjectWriter producing JSON. indent is the number of
// spaces per nesting level; zero writes compact output.
func NewJSONWriter(w io.Writer, indent int) ObjectWriter {
	return jsonw.New(w, indent)
}

// NewYAMLWriter returns an ObjectWriter producing a YAML document. Nothing is
// written to w until the root value is complete and Flush is called.
func NewYAMLWriter(w io.Writer) ObjectWriter {
	return yamlw.New(w)
}

func newWriter(w io.Writer, format Format, indent int) (ObjectWriter, error) {
	switch format {
	case FormatJSON:
		return NewJSONWriter(w, indent), nil
	case FormatYAML:
		return NewYAMLWriter(w), nil
	}
	return nil, fmt.Errorf("%w: unknown output format %q", ErrInvalidConfiguration, format)
}
