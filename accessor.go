package flattenx

import (
	"fmt"
	"reflect"
)

// Accessor extracts one property value from a structured instance.
type Accessor interface {
	Value(instance any) (any, error)
}

// AccessorFunc adapts a function to Accessor.
type AccessorFunc func(instance any) (any, error)

func (f AccessorFunc) Value(instance any) (any, error) {
	return f(instance)
}

// FieldAccessor reads a struct field by index path. Instances may be passed as
// the struct value or as a pointer to it.
type FieldAccessor struct {
	owner reflect.Type
	index []int
	name  string
}

// NewFieldAccessor builds an accessor for the field at index inside owner.
func NewFieldAccessor(owner reflect.Type, index []int) (*FieldAccessor, error) {
	for owner != nil && owner.Kind() == reflect.Pointer {
		owner = owner.Elem()
	}
	if owner == nil || owner.Kind() != reflect.Struct {
		return nil, fmt.Errorf("%w: field accessor needs a struct type, got %s", ErrUnsupportedType, typeName(owner))
	}
	field := owner.FieldByIndex(index)
	idx := make([]int, len(index))
	copy(idx, index)
	return &FieldAccessor{owner: owner, index: idx, name: field.Name}, nil
}

// Value returns the field value. A nil pointer on the way to an embedded field
// yields a nil value rather than an error.
func (a *FieldAccessor) Value(instance any) (any, error) {
	v := reflect.ValueOf(instance)
	for v.Kind() == reflect.Pointer || v.Kind() == reflect.Interface {
		if v.IsNil() {
			return nil, fmt.Errorf("%w: reading field '%s' of %s", ErrNilValue, a.name, a.owner)
		}
		v = v.Elem()
	}
	if !v.IsValid() || v.Type() != a.owner {
		return nil, fmt.Errorf("%w: field '%s' belongs to %s, got %s", ErrUnsupportedType, a.name, a.owner, typeOfValue(v))
	}

	for i, x := range a.index {
		if i > 0 {
			if v.Kind() == reflect.Pointer {
				if v.IsNil() {
					return nil, nil
				}
				v = v.Elem()
			}
		}
		v = v.Field(x)
	}
	return v.Interface(), nil
}

func typeOfValue(v reflect.Value) string {
	if !v.IsValid() {
		return "<nil>"
	}
	return v.Type().String()
}
