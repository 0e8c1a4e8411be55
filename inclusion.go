package flattenx

import (
	"fmt"
	"reflect"
	"strings"
)

// Inclusion decides when a property is left out of the output.
type Inclusion int8

const (
	// IncludeNonNull omits absent values. It is the default.
	IncludeNonNull Inclusion = iota
	// IncludeAlways writes absent values as null. Flattening writers still omit them.
	IncludeAlways
	// IncludeNonEmpty omits values the serializer reports as empty.
	IncludeNonEmpty
	// IncludeNonDefault omits values equal to the configured sentinel.
	IncludeNonDefault
)

func (i Inclusion) String() string {
	switch i {
	case IncludeNonNull:
		return "non_null"
	case IncludeAlways:
		return "always"
	case IncludeNonEmpty:
		return "non_empty"
	case IncludeNonDefault:
		return "non_default"
	default:
		return "unknown"
	}
}

// IsValid checks if the inclusion is supported
func (i Inclusion) IsValid() bool {
	switch i {
	case IncludeNonNull, IncludeAlways, IncludeNonEmpty, IncludeNonDefault:
		return true
	default:
		return false
	}
}

// ParseInclusion parses the names produced by Inclusion.String.
func ParseInclusion(s string) (Inclusion, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "non_null":
		return IncludeNonNull, nil
	case "always":
		return IncludeAlways, nil
	case "non_empty":
		return IncludeNonEmpty, nil
	case "non_default":
		return IncludeNonDefault, nil
	default:
		return IncludeNonNull, fmt.Errorf("%w: unknown inclusion %q", ErrInvalidConfiguration, s)
	}
}

// isAbsent reports whether v carries no value: a nil interface or a nil
// pointer, map, slice, func, chan or interface.
func isAbsent(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan, reflect.Interface:
		return rv.IsNil()
	}
	return false
}

// sameInstance compares by identity only: both values must be the same pointer
// (or map) of the same type.
func sameInstance(a, b any) bool {
	if a == nil || b == nil {
		return false
	}
	ra, rb := reflect.ValueOf(a), reflect.ValueOf(b)
	if ra.Type() != rb.Type() {
		return false
	}
	switch ra.Kind() {
	case reflect.Pointer, reflect.Map:
		return ra.UnsafePointer() == rb.UnsafePointer()
	}
	return false
}

// valuesEqual compares a value with a suppression sentinel. A comparable type
// can still hold interface fields with uncomparable dynamic values, in which
// case == panics and the comparison falls back to reflect.DeepEqual.
func valuesEqual(sentinel, v any) (equal bool) {
	if sentinel == nil || v == nil {
		return sentinel == v
	}
	st, vt := reflect.TypeOf(sentinel), reflect.TypeOf(v)
	if st != vt {
		return false
	}
	if !st.Comparable() {
		return reflect.DeepEqual(sentinel, v)
	}
	defer func() {
		if recover() != nil {
			equal = reflect.DeepEqual(sentinel, v)
		}
	}()
	return sentinel == v
}
