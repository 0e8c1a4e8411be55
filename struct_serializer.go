package flattenx

import (
	"reflect"
	"sync"
)

// StructSerializer writes a structured value as an object, one FieldWriter per
// property. Values may be given as T or *T; pointers are passed to the writers
// unchanged so self-reference checks compare against the real instance.
type StructSerializer struct {
	typ     reflect.Type
	writers []FieldWriter
}

var _ ValueSerializer = (*StructSerializer)(nil)

// NewStructSerializer composes an object serializer from property writers.
func NewStructSerializer(writers ...FieldWriter) *StructSerializer {
	return &StructSerializer{writers: writers}
}

// Type returns the struct type the serializer was introspected from, nil for
// composed serializers.
func (s *StructSerializer) Type() reflect.Type { return s.typ }

// Writers returns the property writers in output order.
func (s *StructSerializer) Writers() []FieldWriter {
	out := make([]FieldWriter, len(s.writers))
	copy(out, s.writers)
	return out
}

func (s *StructSerializer) Serialize(value any, out ObjectWriter, provider SerializerProvider) error {
	if isAbsent(value) {
		return out.WriteNull()
	}
	if err := out.WriteStartObject(); err != nil {
		return err
	}
	if err := writeFields(s.writers, value, out, provider); err != nil {
		return err
	}
	return out.WriteEndObject()
}

// SerializeTagged writes the type id as the first property of the object.
func (s *StructSerializer) SerializeTagged(value any, out ObjectWriter, provider SerializerProvider, tags TypeTagWriter) error {
	if isAbsent(value) {
		return out.WriteNull()
	}
	id, err := tags.TypeID(value)
	if err != nil {
		return err
	}
	if err := out.WriteStartObject(); err != nil {
		return err
	}
	if err := writeTypeProperty(out, tags.PropertyName(), id); err != nil {
		return err
	}
	if err := writeFields(s.writers, value, out, provider); err != nil {
		return err
	}
	return out.WriteEndObject()
}

// IsEmpty reports only absence; a present struct is never empty.
func (s *StructSerializer) IsEmpty(value any) bool { return isAbsent(value) }

func (s *StructSerializer) SupportsFlattening() bool { return false }

func (s *StructSerializer) WithNameTransformer(t NameTransformer) ValueSerializer {
	return &FlatteningStructSerializer{base: s, transformer: t}
}

func writeFields(writers []FieldWriter, instance any, out ObjectWriter, provider SerializerProvider) error {
	for _, w := range writers {
		if err := w.WriteField(instance, out, provider); err != nil {
			return err
		}
	}
	return nil
}

// FlatteningStructSerializer writes the properties of a value into the object
// that is already open, each renamed through the transformer.
type FlatteningStructSerializer struct {
	base        *StructSerializer
	transformer NameTransformer

	once    sync.Once
	writers []FieldWriter
}

var _ ValueSerializer = (*FlatteningStructSerializer)(nil)

// Transformer returns the renaming policy the serializer is bound to.
func (s *FlatteningStructSerializer) Transformer() NameTransformer { return s.transformer }

// renamed builds the renamed writers on first use; the base writers of a
// recursive type are only complete once the provider has published it.
func (s *FlatteningStructSerializer) renamed() []FieldWriter {
	s.once.Do(func() {
		s.writers = make([]FieldWriter, len(s.base.writers))
		for i, w := range s.base.writers {
			s.writers[i] = w.Rename(s.transformer)
		}
	})
	return s.writers
}

// Writers returns the renamed property writers.
func (s *FlatteningStructSerializer) Writers() []FieldWriter {
	return s.renamed()
}

func (s *FlatteningStructSerializer) Serialize(value any, out ObjectWriter, provider SerializerProvider) error {
	if isAbsent(value) {
		return nil
	}
	return writeFields(s.renamed(), value, out, provider)
}

// SerializeTagged writes the type id as a property of the enclosing object.
// The type property keeps its configured name.
func (s *FlatteningStructSerializer) SerializeTagged(value any, out ObjectWriter, provider SerializerProvider, tags TypeTagWriter) error {
	if isAbsent(value) {
		return nil
	}
	id, err := tags.TypeID(value)
	if err != nil {
		return err
	}
	if err := writeTypeProperty(out, tags.PropertyName(), id); err != nil {
		return err
	}
	return writeFields(s.renamed(), value, out, provider)
}

func (s *FlatteningStructSerializer) IsEmpty(value any) bool { return isAbsent(value) }

func (s *FlatteningStructSerializer) SupportsFlattening() bool { return true }

func (s *FlatteningStructSerializer) WithNameTransformer(t NameTransformer) ValueSerializer {
	return &FlatteningStructSerializer{base: s.base, transformer: Chain(t, s.transformer)}
}
