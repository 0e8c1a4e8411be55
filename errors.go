package flattenx

import (
	"errors"
	"fmt"
	"reflect"

	"github.com/hengadev/errsx"

	"github.com/hengadev/flattenx/internal/output"
)

var (
	// Writing errors
	ErrSelfReference        = errors.New("direct self-reference")
	ErrSerializerResolution = errors.New("serializer resolution failed")
	ErrUnsupportedType      = errors.New("unsupported type")
	ErrNilValue             = errors.New("nil value")
	ErrInvalidState         = output.ErrInvalidState

	// Setup errors
	ErrInvalidTag           = errors.New("invalid struct tag")
	ErrInvalidConfiguration = errors.New("invalid configuration")
)

// SelfReferenceError reports a field whose value is the very instance that holds it.
type SelfReferenceError struct {
	Field string
	Type  reflect.Type
}

func (e *SelfReferenceError) Error() string {
	return fmt.Sprintf("%s: field '%s' of %s refers to its own instance", ErrSelfReference, e.Field, typeName(e.Type))
}

func (e *SelfReferenceError) Is(target error) bool {
	return target == ErrSelfReference
}

// SerializerResolutionError reports that no serializer could be produced for a type.
type SerializerResolutionError struct {
	Field string
	Type  reflect.Type
	Err   error
}

func (e *SerializerResolutionError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("%s for %s: %v", ErrSerializerResolution, typeName(e.Type), e.Err)
	}
	return fmt.Sprintf("%s for field '%s' (%s): %v", ErrSerializerResolution, e.Field, typeName(e.Type), e.Err)
}

func (e *SerializerResolutionError) Is(target error) bool {
	return target == ErrSerializerResolution
}

func (e *SerializerResolutionError) Unwrap() error {
	return e.Err
}

// IntrospectionError collects the problems found in the fields of a struct
// type, keyed by field name.
type IntrospectionError struct {
	Type   reflect.Type
	Fields errsx.Map
	causes []error
}

func (e *IntrospectionError) Error() string {
	return fmt.Sprintf("introspecting %s: %v", typeName(e.Type), e.Fields.AsError())
}

func (e *IntrospectionError) Unwrap() []error {
	return e.causes
}

func (e *IntrospectionError) set(field string, err error) {
	e.Fields.Set(field, err)
	e.causes = append(e.causes, err)
}

func NewSelfReferenceError(field string, t reflect.Type) error {
	return &SelfReferenceError{Field: field, Type: t}
}

func NewSerializerResolutionError(field string, t reflect.Type, err error) error {
	return &SerializerResolutionError{Field: field, Type: t, Err: err}
}

func NewUnsupportedTypeError(t reflect.Type) error {
	return fmt.Errorf("%w: no serializer for %s", ErrUnsupportedType, typeName(t))
}

func NewInvalidTagError(structType reflect.Type, fieldName, tag, details string) error {
	return fmt.Errorf("%w: field '%s' of %s has tag %q: %s", ErrInvalidTag, fieldName, typeName(structType), tag, details)
}

func typeName(t reflect.Type) string {
	if t == nil {
		return "<nil>"
	}
	return t.String()
}
