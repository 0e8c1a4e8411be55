package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"reflect"

	"github.com/hengadev/flattenx"
)

var anyType = reflect.TypeOf((*any)(nil)).Elem()

// document is a decoded JSON object that keeps its top-level key order.
type document struct {
	keys   []string
	values map[string]any
}

// decodeDocument reads one JSON object from r. Numbers that fit an int64 are
// kept as integers.
func decodeDocument(r io.Reader) (*document, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return nil, fmt.Errorf("reading input: %w", err)
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, errors.New("input must be a JSON object")
	}

	doc := &document{values: make(map[string]any)}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, fmt.Errorf("reading input: %w", err)
		}
		key := tok.(string)
		var value any
		if err := dec.Decode(&value); err != nil {
			return nil, fmt.Errorf("reading value of %q: %w", key, err)
		}
		if _, dup := doc.values[key]; !dup {
			doc.keys = append(doc.keys, key)
		}
		doc.values[key] = normalizeNumbers(value)
	}
	if _, err := dec.Token(); err != nil {
		return nil, fmt.Errorf("reading input: %w", err)
	}
	return doc, nil
}

func normalizeNumbers(v any) any {
	switch v := v.(type) {
	case json.Number:
		if i, err := v.Int64(); err == nil {
			return i
		}
		f, _ := v.Float64()
		return f
	case map[string]any:
		for k, e := range v {
			v[k] = normalizeNumbers(e)
		}
	case []any:
		for i, e := range v {
			v[i] = normalizeNumbers(e)
		}
	}
	return v
}

// serializer builds one dynamic property per top-level key. Keys named by an
// unwrap rule get a flattening writer with the rule's prefix and suffix.
func (d *document) serializer(rules []UnwrapRule, inclusion flattenx.Inclusion) *flattenx.StructSerializer {
	byKey := make(map[string]UnwrapRule, len(rules))
	for _, r := range rules {
		byKey[r.Key] = r
	}

	writers := make([]flattenx.FieldWriter, 0, len(d.keys))
	for _, key := range d.keys {
		accessor := flattenx.AccessorFunc(func(instance any) (any, error) {
			doc, ok := instance.(*document)
			if !ok {
				return nil, fmt.Errorf("%w: expected a document, got %T", flattenx.ErrUnsupportedType, instance)
			}
			return doc.values[key], nil
		})
		if rule, ok := byKey[key]; ok {
			t := flattenx.NewPrefixSuffixTransformer(rule.Prefix, rule.Suffix)
			writers = append(writers, flattenx.NewFlatteningWriter(key, accessor, anyType, t, flattenx.WithInclusion(inclusion)))
			continue
		}
		writers = append(writers, flattenx.NewPropertyWriter(key, accessor, anyType, flattenx.WithInclusion(inclusion)))
	}
	return flattenx.NewStructSerializer(writers...)
}
