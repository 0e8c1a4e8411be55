package flattenx

import "reflect"

// ObjectWriter is the token sink serializers write to. Implementations validate
// token order; a field name is only legal directly inside an object.
type ObjectWriter interface {
	WriteStartObject() error
	WriteEndObject() error
	WriteStartArray() error
	WriteEndArray() error
	WriteFieldName(name string) error
	WriteString(s string) error
	WriteInt(i int64) error
	WriteUint(u uint64) error
	WriteFloat(f float64) error
	WriteBool(b bool) error
	WriteNull() error
	Flush() error
}

// ValueSerializer writes values of one runtime type.
type ValueSerializer interface {
	// Serialize writes value. Flattening instances write their fields into the
	// object that is currently open instead of opening a new one.
	Serialize(value any, out ObjectWriter, provider SerializerProvider) error

	// SerializeTagged writes value together with the type id produced by tags.
	SerializeTagged(value any, out ObjectWriter, provider SerializerProvider, tags TypeTagWriter) error

	// IsEmpty reports whether value counts as empty for omitempty suppression.
	IsEmpty(value any) bool

	// SupportsFlattening reports whether Serialize emits fields directly into the
	// enclosing object.
	SupportsFlattening() bool

	// WithNameTransformer returns a serializer bound to t. Serializers that cannot
	// flatten return themselves.
	WithNameTransformer(t NameTransformer) ValueSerializer
}

// SerializerProvider resolves serializers for runtime types.
type SerializerProvider interface {
	FindValueSerializer(t reflect.Type) (ValueSerializer, error)

	// SpecializeType narrows a declared base type to the runtime type of a value.
	SpecializeType(base, runtime reflect.Type) (reflect.Type, error)
}

// TypeTagWriter supplies the discriminator written in front of polymorphic values.
type TypeTagWriter interface {
	TypeID(value any) (string, error)
	PropertyName() string
}

// Marshaler is implemented by types that write themselves.
type Marshaler interface {
	MarshalFlat(out ObjectWriter) error
}
