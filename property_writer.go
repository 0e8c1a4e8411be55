package flattenx

import (
	"fmt"
	"reflect"
	"sync/atomic"
)

// FieldWriter writes one property of a structured value. Object serializers call
// WriteField once per property, in declaration order, for every instance.
type FieldWriter interface {
	Name() string
	WriteField(instance any, out ObjectWriter, provider SerializerProvider) error
	// Rename returns a copy whose output name is passed through t.
	Rename(t NameTransformer) FieldWriter
}

// PropertyOption configures a property writer at construction.
type PropertyOption func(*propertyConfig)

// WithInclusion sets the suppression rule.
func WithInclusion(inclusion Inclusion) PropertyOption {
	return func(c *propertyConfig) {
		c.inclusion = inclusion
	}
}

// WithSuppressedValue omits the property whenever its value equals sentinel.
func WithSuppressedValue(sentinel any) PropertyOption {
	return func(c *propertyConfig) {
		c.inclusion = IncludeNonDefault
		c.sentinel = sentinel
		c.hasSentinel = true
	}
}

// WithTypeTags writes a type id in front of every value of the property.
func WithTypeTags(tags TypeTagWriter) PropertyOption {
	return func(c *propertyConfig) {
		c.typeTags = tags
	}
}

type propertyConfig struct {
	name         string
	accessor     Accessor
	declaredType reflect.Type
	// baseType is set when the declared type must be specialized against the
	// runtime type before resolution.
	baseType    reflect.Type
	static      ValueSerializer
	inclusion   Inclusion
	sentinel    any
	hasSentinel bool
	typeTags    TypeTagWriter
}

// propertyCore holds the state shared by plain and flattening writers.
type propertyCore struct {
	propertyConfig
	dynamic atomic.Pointer[DynamicSerializerCache]
}

func newPropertyConfig(name string, accessor Accessor, declared reflect.Type, opts []PropertyOption) propertyConfig {
	if accessor == nil {
		panic("flattenx: property accessor cannot be nil")
	}
	cfg := propertyConfig{
		name:         name,
		accessor:     accessor,
		declaredType: declared,
	}
	if declared != nil && declared.Kind() == reflect.Interface && declared.NumMethod() > 0 {
		cfg.baseType = declared
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.inclusion == IncludeNonDefault && !cfg.hasSentinel && declared != nil {
		cfg.sentinel = reflect.Zero(declared).Interface()
		cfg.hasSentinel = true
	}
	return cfg
}

func (c *propertyCore) setup(cfg propertyConfig, cache *DynamicSerializerCache) {
	c.propertyConfig = cfg
	if cache == nil {
		cache = EmptyDynamicCache()
	}
	c.dynamic.Store(cache)
}

// Name returns the output name of the property.
func (c *propertyCore) Name() string { return c.name }

// DeclaredType returns the static type of the property, nil when unknown.
func (c *propertyCore) DeclaredType() reflect.Type { return c.declaredType }

// Inclusion returns the suppression rule.
func (c *propertyCore) Inclusion() Inclusion { return c.inclusion }

// StaticSerializer returns the serializer bound at construction, if any.
func (c *propertyCore) StaticSerializer() ValueSerializer { return c.static }

// DynamicSerializers returns the current snapshot of the dynamic cache.
func (c *propertyCore) DynamicSerializers() *DynamicSerializerCache { return c.dynamic.Load() }

// extract runs the accessor and the identity check. present is false when the
// value is absent.
func (c *propertyCore) extract(instance any) (value any, present bool, err error) {
	value, err = c.accessor.Value(instance)
	if err != nil {
		return nil, false, err
	}
	if isAbsent(value) {
		return nil, false, nil
	}
	if sameInstance(value, instance) {
		return nil, false, NewSelfReferenceError(c.name, reflect.TypeOf(instance))
	}
	return value, true, nil
}

// serializerFor returns the static serializer or the dynamically cached one for
// the runtime type of value. adapt, when set, is applied to freshly resolved
// serializers before they enter the cache.
func (c *propertyCore) serializerFor(value any, provider SerializerProvider, adapt func(ValueSerializer) ValueSerializer) (ValueSerializer, error) {
	if c.static != nil {
		return c.static, nil
	}

	t := reflect.TypeOf(value)
	cache := c.dynamic.Load()
	if ser, ok := cache.SerializerFor(t); ok {
		return ser, nil
	}

	ser, err := c.resolve(t, provider)
	if err != nil {
		return nil, err
	}
	if adapt != nil {
		ser = adapt(ser)
	}

	for {
		if c.dynamic.CompareAndSwap(cache, cache.With(t, ser)) {
			return ser, nil
		}
		// Another goroutine grew the cache first; keep its entry for t if it added one.
		cache = c.dynamic.Load()
		if existing, ok := cache.SerializerFor(t); ok {
			return existing, nil
		}
	}
}

func (c *propertyCore) resolve(t reflect.Type, provider SerializerProvider) (ValueSerializer, error) {
	if provider == nil {
		return nil, NewSerializerResolutionError(c.name, t, fmt.Errorf("%w: no serializer provider", ErrInvalidConfiguration))
	}
	target := t
	if c.baseType != nil {
		specialized, err := provider.SpecializeType(c.baseType, t)
		if err != nil {
			return nil, NewSerializerResolutionError(c.name, t, err)
		}
		target = specialized
	}
	ser, err := provider.FindValueSerializer(target)
	if err != nil {
		return nil, NewSerializerResolutionError(c.name, target, err)
	}
	if ser == nil {
		return nil, NewSerializerResolutionError(c.name, target, NewUnsupportedTypeError(target))
	}
	return ser, nil
}

func (c *propertyCore) suppressed(ser ValueSerializer, value any) bool {
	switch c.inclusion {
	case IncludeNonEmpty:
		return ser.IsEmpty(value)
	case IncludeNonDefault:
		return c.hasSentinel && valuesEqual(c.sentinel, value)
	}
	return false
}

func (c *propertyCore) serializeValue(ser ValueSerializer, value any, out ObjectWriter, provider SerializerProvider) error {
	if c.typeTags == nil {
		return ser.Serialize(value, out, provider)
	}
	return ser.SerializeTagged(value, out, provider, c.typeTags)
}

// PropertyWriter writes one named property as "name: value".
type PropertyWriter struct {
	propertyCore
}

var _ FieldWriter = (*PropertyWriter)(nil)

// NewPropertyWriter creates a writer for the property called name. declared is the
// static type of the property; interface types are resolved per runtime type.
func NewPropertyWriter(name string, accessor Accessor, declared reflect.Type, opts ...PropertyOption) *PropertyWriter {
	w := &PropertyWriter{}
	w.setup(newPropertyConfig(name, accessor, declared, opts), nil)
	return w
}

// BindStaticSerializer fixes the serializer used for every value. It must be
// called before the writer is shared.
func (w *PropertyWriter) BindStaticSerializer(ser ValueSerializer) {
	w.static = ser
}

// WithName returns a writer differing only in its name.
func (w *PropertyWriter) WithName(name string) *PropertyWriter {
	if name == w.name {
		return w
	}
	cfg := w.propertyConfig
	cfg.name = name
	next := &PropertyWriter{}
	next.setup(cfg, w.dynamic.Load())
	return next
}

func (w *PropertyWriter) Rename(t NameTransformer) FieldWriter {
	return w.WithName(t.Transform(w.name))
}

// WriteField writes the property of instance. Absent values write nothing unless
// the writer includes them always, in which case null is written.
func (w *PropertyWriter) WriteField(instance any, out ObjectWriter, provider SerializerProvider) error {
	value, present, err := w.extract(instance)
	if err != nil {
		return err
	}
	if !present {
		if w.inclusion != IncludeAlways {
			return nil
		}
		if err := out.WriteFieldName(w.name); err != nil {
			return err
		}
		return out.WriteNull()
	}

	ser, err := w.serializerFor(value, provider, nil)
	if err != nil {
		return err
	}
	if w.suppressed(ser, value) {
		return nil
	}

	if err := out.WriteFieldName(w.name); err != nil {
		return err
	}
	return w.serializeValue(ser, value, out, provider)
}
