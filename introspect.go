package flattenx

import (
	"fmt"
	"reflect"
	"strings"
)

// builder resolves one type graph for a Provider. It runs under the provider
// lock; types referenced while still being built resolve to lazy serializers.
type builder struct {
	provider *Provider
	building map[reflect.Type]bool
	built    map[reflect.Type]ValueSerializer
}

func newBuilder(p *Provider) *builder {
	return &builder{
		provider: p,
		building: make(map[reflect.Type]bool),
		built:    make(map[reflect.Type]ValueSerializer),
	}
}

func (b *builder) build(t reflect.Type) (ValueSerializer, error) {
	if ser, ok := b.provider.registered[t]; ok {
		return ser, nil
	}
	if ser, ok := b.provider.resolved.Load(t); ok {
		return ser.(ValueSerializer), nil
	}
	if ser, ok := b.built[t]; ok {
		return ser, nil
	}
	if b.building[t] {
		return newLazySerializer(t, b.provider, nil), nil
	}

	b.building[t] = true
	defer delete(b.building, t)

	ser, err := b.create(t)
	if err != nil {
		return nil, err
	}
	b.built[t] = ser
	return ser, nil
}

func (b *builder) create(t reflect.Type) (ValueSerializer, error) {
	if t.Kind() == reflect.Interface {
		return InterfaceSerializer{}, nil
	}
	// *T inherits the methods of T; keep T's serializer (and its time layout).
	if t.Kind() == reflect.Pointer && (t.Elem().Implements(marshalerType) || t.Elem().Implements(textMarshalerType)) {
		return b.pointerSerializer(t)
	}

	switch {
	case t.Implements(marshalerType):
		return marshalerSerializer(), nil
	case t == timeType:
		return timeSerializer(b.provider.config.TimeLayout), nil
	case t == uuidType:
		return uuidSerializer(), nil
	case t.Implements(textMarshalerType):
		return textSerializer(), nil
	}

	switch t.Kind() {
	case reflect.Bool:
		return boolSerializer(), nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return intSerializer(), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return uintSerializer(), nil
	case reflect.Float32, reflect.Float64:
		return floatSerializer(), nil
	case reflect.String:
		return stringSerializer(), nil
	case reflect.Slice:
		if t.Elem().Kind() == reflect.Uint8 {
			return bytesSerializer(), nil
		}
		return b.sliceSerializer(t)
	case reflect.Array:
		return b.sliceSerializer(t)
	case reflect.Map:
		elem, err := b.element(t.Elem())
		if err != nil {
			return nil, err
		}
		return newMapSerializer(t.Key(), elem)
	case reflect.Pointer:
		return b.pointerSerializer(t)
	case reflect.Struct:
		return b.structSerializer(t)
	}
	return nil, NewUnsupportedTypeError(t)
}

// element returns nil for interface element types, which are resolved per value.
func (b *builder) element(t reflect.Type) (ValueSerializer, error) {
	if t.Kind() == reflect.Interface {
		return nil, nil
	}
	return b.build(t)
}

func (b *builder) sliceSerializer(t reflect.Type) (ValueSerializer, error) {
	elem, err := b.element(t.Elem())
	if err != nil {
		return nil, err
	}
	return &SliceSerializer{elem: elem}, nil
}

// pointerSerializer hands pointers to structs straight to the struct serializer,
// which keeps the pointer as the instance its properties are read from.
func (b *builder) pointerSerializer(t reflect.Type) (ValueSerializer, error) {
	elem, err := b.build(t.Elem())
	if err != nil {
		return nil, err
	}
	if t.Elem().Kind() == reflect.Struct {
		switch elem.(type) {
		case *StructSerializer, *lazySerializer:
			return elem, nil
		}
	}
	return &PointerSerializer{elem: elem}, nil
}

func (b *builder) structSerializer(t reflect.Type) (ValueSerializer, error) {
	tagName := b.provider.config.TagName

	errs := &IntrospectionError{Type: t}
	writers := make([]FieldWriter, 0, t.NumField())
	for i := range t.NumField() {
		field := t.Field(i)
		if !field.IsExported() {
			continue
		}
		tag, hasTag := field.Tag.Lookup(tagName)
		if tag == "-" {
			continue
		}

		opts, err := parseFieldTag(t, field, tag)
		if err != nil {
			errs.set(field.Name, err)
			continue
		}
		if !hasTag && field.Anonymous && derefType(field.Type).Kind() == reflect.Struct {
			opts.unwrapped = true
		}

		w, err := b.propertyWriter(t, field, opts)
		if err != nil {
			errs.set(field.Name, err)
			continue
		}
		writers = append(writers, w)
	}

	if !errs.Fields.IsEmpty() {
		return nil, errs
	}
	return &StructSerializer{typ: t, writers: writers}, nil
}

func (b *builder) propertyWriter(owner reflect.Type, field reflect.StructField, opts fieldTag) (FieldWriter, error) {
	accessor, err := NewFieldAccessor(owner, field.Index)
	if err != nil {
		return nil, err
	}

	name := opts.name
	if name == "" {
		name = field.Name
	}
	inclusion := b.provider.config.DefaultInclusion
	if opts.hasInclusion {
		inclusion = opts.inclusion
	}

	propOpts := []PropertyOption{WithInclusion(inclusion)}
	if tags, ok := b.provider.polymorphic[field.Type]; ok {
		propOpts = append(propOpts, WithTypeTags(tags))
	}

	w := NewPropertyWriter(name, accessor, field.Type, propOpts...)
	if field.Type.Kind() != reflect.Interface {
		ser, err := b.build(field.Type)
		if err != nil {
			return nil, err
		}
		w.BindStaticSerializer(ser)
	}

	if opts.unwrapped {
		return NewFlatteningPropertyWriter(w, NewPrefixSuffixTransformer(opts.prefix, opts.suffix)), nil
	}
	return w, nil
}

type fieldTag struct {
	name         string
	inclusion    Inclusion
	hasInclusion bool
	unwrapped    bool
	prefix       string
	suffix       string
}

// parseFieldTag reads `name,option,...`. Options: omitempty, omitzero, always,
// nonnull, unwrapped (or inline), prefix=..., suffix=...
func parseFieldTag(owner reflect.Type, field reflect.StructField, tag string) (fieldTag, error) {
	parts := strings.Split(tag, ",")
	ft := fieldTag{name: strings.TrimSpace(parts[0])}

	setInclusion := func(i Inclusion, opt string) error {
		if ft.hasInclusion && ft.inclusion != i {
			return NewInvalidTagError(owner, field.Name, tag, fmt.Sprintf("option %q conflicts with %q", opt, ft.inclusion))
		}
		ft.inclusion = i
		ft.hasInclusion = true
		return nil
	}

	for _, opt := range parts[1:] {
		opt = strings.TrimSpace(opt)
		var err error
		switch {
		case opt == "":
		case opt == tagOmitEmpty:
			err = setInclusion(IncludeNonEmpty, opt)
		case opt == tagOmitZero:
			err = setInclusion(IncludeNonDefault, opt)
		case opt == tagAlways:
			err = setInclusion(IncludeAlways, opt)
		case opt == tagNonNull:
			err = setInclusion(IncludeNonNull, opt)
		case opt == tagUnwrapped || opt == tagInline:
			ft.unwrapped = true
		case strings.HasPrefix(opt, tagPrefix):
			ft.prefix = opt[len(tagPrefix):]
		case strings.HasPrefix(opt, tagSuffix):
			ft.suffix = opt[len(tagSuffix):]
		default:
			err = NewInvalidTagError(owner, field.Name, tag, fmt.Sprintf("unknown option %q", opt))
		}
		if err != nil {
			return fieldTag{}, err
		}
	}

	if (ft.prefix != "" || ft.suffix != "") && !ft.unwrapped {
		return fieldTag{}, NewInvalidTagError(owner, field.Name, tag, "prefix and suffix require unwrapped")
	}
	return ft, nil
}
