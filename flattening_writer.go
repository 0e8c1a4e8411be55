package flattenx

import "reflect"

// FlatteningPropertyWriter writes the contents of a property directly into the
// enclosing object, renaming the nested fields through its transformer. The
// property's own name is written only when the resolved serializer cannot
// flatten, since the value would otherwise be unreadable.
type FlatteningPropertyWriter struct {
	propertyCore
	transformer NameTransformer
}

var _ FieldWriter = (*FlatteningPropertyWriter)(nil)

// NewFlatteningPropertyWriter creates a flattening writer with the same
// configuration as base. Serializers cached by base are not carried over: the
// dynamic cache of a flattening writer only ever holds transformed serializers.
func NewFlatteningPropertyWriter(base *PropertyWriter, transformer NameTransformer) *FlatteningPropertyWriter {
	if transformer == nil {
		transformer = Nop
	}
	w := &FlatteningPropertyWriter{transformer: transformer}
	cfg := base.propertyConfig
	cfg.static = nil
	w.setup(cfg, nil)
	if base.static != nil {
		w.BindStaticSerializer(base.static)
	}
	return w
}

// NewFlatteningWriter is a shorthand for building the base writer and wrapping it.
func NewFlatteningWriter(name string, accessor Accessor, declared reflect.Type, transformer NameTransformer, opts ...PropertyOption) *FlatteningPropertyWriter {
	return NewFlatteningPropertyWriter(NewPropertyWriter(name, accessor, declared, opts...), transformer)
}

// Transformer returns the renaming policy applied to every resolved serializer.
func (w *FlatteningPropertyWriter) Transformer() NameTransformer {
	return w.transformer
}

// BindStaticSerializer stores the flattening variant of ser.
func (w *FlatteningPropertyWriter) BindStaticSerializer(ser ValueSerializer) {
	if ser == nil {
		w.static = nil
		return
	}
	w.static = ser.WithNameTransformer(w.transformer)
}

// WithName returns a writer differing only in its name, sharing the transformer.
func (w *FlatteningPropertyWriter) WithName(name string) *FlatteningPropertyWriter {
	if name == w.name {
		return w
	}
	cfg := w.propertyConfig
	cfg.name = name
	next := &FlatteningPropertyWriter{transformer: w.transformer}
	next.setup(cfg, w.dynamic.Load())
	return next
}

// Rename wraps t around the current transformer, so nested flattening composes
// prefixes from the outside in. The property name itself is renamed as well,
// since it is written whenever the value cannot be flattened.
func (w *FlatteningPropertyWriter) Rename(t NameTransformer) FieldWriter {
	cfg := w.propertyConfig
	cfg.name = t.Transform(w.name)
	cfg.static = nil
	next := &FlatteningPropertyWriter{transformer: Chain(t, w.transformer)}
	next.setup(cfg, nil)
	if w.static != nil {
		// Already bound to the old transformer; rebinding composes the new one.
		next.static = w.static.WithNameTransformer(t)
	}
	return next
}

// WriteField writes the flattened property of instance. Absent values are always
// omitted: there is no set of flattened keys that could stand for them.
func (w *FlatteningPropertyWriter) WriteField(instance any, out ObjectWriter, provider SerializerProvider) error {
	value, present, err := w.extract(instance)
	if err != nil || !present {
		return err
	}

	ser, err := w.serializerFor(value, provider, w.bind)
	if err != nil {
		return err
	}
	if w.suppressed(ser, value) {
		return nil
	}

	if !ser.SupportsFlattening() {
		if err := out.WriteFieldName(w.name); err != nil {
			return err
		}
	}
	return w.serializeValue(ser, value, out, provider)
}

func (w *FlatteningPropertyWriter) bind(ser ValueSerializer) ValueSerializer {
	return ser.WithNameTransformer(w.transformer)
}
