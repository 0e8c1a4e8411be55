package flattenx

import (
	"fmt"
	"reflect"
)

// TypeNameTagWriter writes type ids taken from a name lookup, falling back to
// the Go type name. Pointer types share the id of their element type.
type TypeNameTagWriter struct {
	property string
	lookup   func(t reflect.Type) (string, bool)
}

var _ TypeTagWriter = (*TypeNameTagWriter)(nil)

// NewTypeNameTagWriter creates a tag writer. lookup may be nil.
func NewTypeNameTagWriter(property string, lookup func(t reflect.Type) (string, bool)) *TypeNameTagWriter {
	if property == "" {
		property = DefaultTypeProperty
	}
	return &TypeNameTagWriter{property: property, lookup: lookup}
}

func (w *TypeNameTagWriter) PropertyName() string { return w.property }

func (w *TypeNameTagWriter) TypeID(value any) (string, error) {
	t := reflect.TypeOf(value)
	if t == nil {
		return "", fmt.Errorf("%w: cannot tag a nil value", ErrNilValue)
	}
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if w.lookup != nil {
		if id, ok := w.lookup(t); ok {
			return id, nil
		}
	}
	if t.Name() != "" {
		return t.Name(), nil
	}
	return t.String(), nil
}
