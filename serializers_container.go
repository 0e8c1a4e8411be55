package flattenx

import (
	"encoding"
	"fmt"
	"reflect"
	"sort"
	"strconv"
	"sync"
)

// elementSerializer returns static when set, otherwise resolves the runtime type
// of elem through the provider.
func elementSerializer(static ValueSerializer, elem reflect.Value, provider SerializerProvider) (ValueSerializer, any, error) {
	if static != nil {
		return static, elem.Interface(), nil
	}
	for elem.Kind() == reflect.Interface {
		if elem.IsNil() {
			return nil, nil, nil
		}
		elem = elem.Elem()
	}
	if provider == nil {
		return nil, nil, fmt.Errorf("%w: no serializer provider for element of type %s", ErrInvalidConfiguration, elem.Type())
	}
	ser, err := provider.FindValueSerializer(elem.Type())
	if err != nil {
		return nil, nil, NewSerializerResolutionError("", elem.Type(), err)
	}
	return ser, elem.Interface(), nil
}

func writeElement(static ValueSerializer, elem reflect.Value, out ObjectWriter, provider SerializerProvider) error {
	ser, value, err := elementSerializer(static, elem, provider)
	if err != nil {
		return err
	}
	if ser == nil {
		return out.WriteNull()
	}
	return ser.Serialize(value, out, provider)
}

// PointerSerializer dereferences and delegates to the element serializer. It
// flattens exactly when its element does.
type PointerSerializer struct {
	elem ValueSerializer
}

var _ ValueSerializer = (*PointerSerializer)(nil)

func (s *PointerSerializer) Serialize(value any, out ObjectWriter, provider SerializerProvider) error {
	v := reflect.ValueOf(value)
	if isNilValue(v) {
		return out.WriteNull()
	}
	return s.elem.Serialize(v.Elem().Interface(), out, provider)
}

func (s *PointerSerializer) SerializeTagged(value any, out ObjectWriter, provider SerializerProvider, tags TypeTagWriter) error {
	v := reflect.ValueOf(value)
	if isNilValue(v) {
		return out.WriteNull()
	}
	return s.elem.SerializeTagged(v.Elem().Interface(), out, provider, tags)
}

func (s *PointerSerializer) IsEmpty(value any) bool {
	v := reflect.ValueOf(value)
	if isNilValue(v) {
		return true
	}
	return s.elem.IsEmpty(v.Elem().Interface())
}

func (s *PointerSerializer) SupportsFlattening() bool { return s.elem.SupportsFlattening() }

func (s *PointerSerializer) WithNameTransformer(t NameTransformer) ValueSerializer {
	elem := s.elem.WithNameTransformer(t)
	if elem == s.elem {
		return s
	}
	return &PointerSerializer{elem: elem}
}

// SliceSerializer writes slices and arrays as arrays. elem is nil when the
// element type is an interface.
type SliceSerializer struct {
	elem ValueSerializer
}

var _ ValueSerializer = (*SliceSerializer)(nil)

func (s *SliceSerializer) Serialize(value any, out ObjectWriter, provider SerializerProvider) error {
	v := reflect.ValueOf(value)
	if isNilValue(v) {
		return out.WriteNull()
	}
	if err := out.WriteStartArray(); err != nil {
		return err
	}
	for i := range v.Len() {
		if err := writeElement(s.elem, v.Index(i), out, provider); err != nil {
			return err
		}
	}
	return out.WriteEndArray()
}

func (s *SliceSerializer) SerializeTagged(value any, out ObjectWriter, provider SerializerProvider, tags TypeTagWriter) error {
	return writeWrapperArray(value, out, tags, func() error {
		return s.Serialize(value, out, provider)
	})
}

func (s *SliceSerializer) IsEmpty(value any) bool {
	v := reflect.ValueOf(value)
	return isNilValue(v) || v.Len() == 0
}

func (s *SliceSerializer) SupportsFlattening() bool { return false }

func (s *SliceSerializer) WithNameTransformer(NameTransformer) ValueSerializer { return s }

// MapSerializer writes maps as objects with keys in sorted order. Bound to a
// transformer it flattens: entries are written into the enclosing object with
// renamed keys.
type MapSerializer struct {
	key         func(k reflect.Value) (string, error)
	elem        ValueSerializer
	transformer NameTransformer
}

var _ ValueSerializer = (*MapSerializer)(nil)

func newMapSerializer(keyType reflect.Type, elem ValueSerializer) (*MapSerializer, error) {
	key, err := mapKeyFunc(keyType)
	if err != nil {
		return nil, err
	}
	return &MapSerializer{key: key, elem: elem}, nil
}

func mapKeyFunc(t reflect.Type) (func(reflect.Value) (string, error), error) {
	if t.Implements(textMarshalerType) {
		return func(k reflect.Value) (string, error) {
			if k.Kind() == reflect.Pointer && k.IsNil() {
				return "", nil
			}
			text, err := k.Interface().(encoding.TextMarshaler).MarshalText()
			return string(text), err
		}, nil
	}
	switch t.Kind() {
	case reflect.String:
		return func(k reflect.Value) (string, error) { return k.String(), nil }, nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return func(k reflect.Value) (string, error) { return strconv.FormatInt(k.Int(), 10), nil }, nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return func(k reflect.Value) (string, error) { return strconv.FormatUint(k.Uint(), 10), nil }, nil
	}
	return nil, fmt.Errorf("%w: map key type %s", ErrUnsupportedType, t)
}

type mapEntry struct {
	name  string
	value reflect.Value
}

func (s *MapSerializer) entries(v reflect.Value) ([]mapEntry, error) {
	entries := make([]mapEntry, 0, v.Len())
	iter := v.MapRange()
	for iter.Next() {
		name, err := s.key(iter.Key())
		if err != nil {
			return nil, err
		}
		entries = append(entries, mapEntry{name: name, value: iter.Value()})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].name < entries[j].name })
	return entries, nil
}

func (s *MapSerializer) writeEntries(v reflect.Value, out ObjectWriter, provider SerializerProvider) error {
	entries, err := s.entries(v)
	if err != nil {
		return err
	}
	for _, e := range entries {
		name := e.name
		if s.transformer != nil {
			name = s.transformer.Transform(name)
		}
		if err := out.WriteFieldName(name); err != nil {
			return err
		}
		if err := writeElement(s.elem, e.value, out, provider); err != nil {
			return err
		}
	}
	return nil
}

func (s *MapSerializer) Serialize(value any, out ObjectWriter, provider SerializerProvider) error {
	v := reflect.ValueOf(value)
	if isNilValue(v) {
		if s.transformer != nil {
			return nil
		}
		return out.WriteNull()
	}
	if s.transformer != nil {
		return s.writeEntries(v, out, provider)
	}
	if err := out.WriteStartObject(); err != nil {
		return err
	}
	if err := s.writeEntries(v, out, provider); err != nil {
		return err
	}
	return out.WriteEndObject()
}

// SerializeTagged writes the type id as the first property.
func (s *MapSerializer) SerializeTagged(value any, out ObjectWriter, provider SerializerProvider, tags TypeTagWriter) error {
	v := reflect.ValueOf(value)
	if isNilValue(v) {
		return s.Serialize(value, out, provider)
	}
	id, err := tags.TypeID(value)
	if err != nil {
		return err
	}
	if s.transformer == nil {
		if err := out.WriteStartObject(); err != nil {
			return err
		}
	}
	if err := writeTypeProperty(out, tags.PropertyName(), id); err != nil {
		return err
	}
	if err := s.writeEntries(v, out, provider); err != nil {
		return err
	}
	if s.transformer == nil {
		return out.WriteEndObject()
	}
	return nil
}

func (s *MapSerializer) IsEmpty(value any) bool {
	v := reflect.ValueOf(value)
	return isNilValue(v) || v.Len() == 0
}

func (s *MapSerializer) SupportsFlattening() bool { return s.transformer != nil }

// Transformer returns the renaming policy, nil when the serializer does not flatten.
func (s *MapSerializer) Transformer() NameTransformer { return s.transformer }

func (s *MapSerializer) WithNameTransformer(t NameTransformer) ValueSerializer {
	return &MapSerializer{key: s.key, elem: s.elem, transformer: Chain(t, s.transformer)}
}

func writeTypeProperty(out ObjectWriter, property, id string) error {
	if err := out.WriteFieldName(property); err != nil {
		return err
	}
	return out.WriteString(id)
}

// InterfaceSerializer resolves the runtime type of every value it is given.
type InterfaceSerializer struct{}

var _ ValueSerializer = InterfaceSerializer{}

func (InterfaceSerializer) resolve(value any, provider SerializerProvider) (ValueSerializer, error) {
	if provider == nil {
		return nil, fmt.Errorf("%w: no serializer provider", ErrInvalidConfiguration)
	}
	return provider.FindValueSerializer(reflect.TypeOf(value))
}

func (s InterfaceSerializer) Serialize(value any, out ObjectWriter, provider SerializerProvider) error {
	if value == nil {
		return out.WriteNull()
	}
	ser, err := s.resolve(value, provider)
	if err != nil {
		return err
	}
	return ser.Serialize(value, out, provider)
}

func (s InterfaceSerializer) SerializeTagged(value any, out ObjectWriter, provider SerializerProvider, tags TypeTagWriter) error {
	if value == nil {
		return out.WriteNull()
	}
	ser, err := s.resolve(value, provider)
	if err != nil {
		return err
	}
	return ser.SerializeTagged(value, out, provider, tags)
}

func (InterfaceSerializer) IsEmpty(value any) bool { return isAbsent(value) }

func (InterfaceSerializer) SupportsFlattening() bool { return false }

func (s InterfaceSerializer) WithNameTransformer(NameTransformer) ValueSerializer { return s }

// lazySerializer stands in for a type whose serializer was still being built
// when it was referenced, which only happens for recursive types. The target is
// resolved from the provider's cache on first use.
type lazySerializer struct {
	typ         reflect.Type
	provider    SerializerProvider
	transformer NameTransformer

	once sync.Once
	ser  ValueSerializer
	err  error
}

func newLazySerializer(t reflect.Type, provider SerializerProvider, transformer NameTransformer) *lazySerializer {
	return &lazySerializer{typ: t, provider: provider, transformer: transformer}
}

func (s *lazySerializer) target() (ValueSerializer, error) {
	s.once.Do(func() {
		s.ser, s.err = s.provider.FindValueSerializer(s.typ)
		if s.err == nil && s.transformer != nil {
			s.ser = s.ser.WithNameTransformer(s.transformer)
		}
	})
	return s.ser, s.err
}

func (s *lazySerializer) Serialize(value any, out ObjectWriter, provider SerializerProvider) error {
	ser, err := s.target()
	if err != nil {
		return err
	}
	return ser.Serialize(value, out, provider)
}

func (s *lazySerializer) SerializeTagged(value any, out ObjectWriter, provider SerializerProvider, tags TypeTagWriter) error {
	ser, err := s.target()
	if err != nil {
		return err
	}
	return ser.SerializeTagged(value, out, provider, tags)
}

func (s *lazySerializer) IsEmpty(value any) bool {
	ser, err := s.target()
	if err != nil {
		return false
	}
	return ser.IsEmpty(value)
}

// Serializers built by the provider never flatten until a transformer is bound,
// so the target only needs resolving when one is.
func (s *lazySerializer) SupportsFlattening() bool {
	if s.transformer == nil {
		return false
	}
	ser, err := s.target()
	return err == nil && ser.SupportsFlattening()
}

func (s *lazySerializer) WithNameTransformer(t NameTransformer) ValueSerializer {
	return newLazySerializer(s.typ, s.provider, Chain(t, s.transformer))
}
