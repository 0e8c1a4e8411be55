package flattenx

import "reflect"

// linearEntries is the number of entries looked up by scanning before a hash
// index is built.
const linearEntries = 8

// DynamicSerializerCache maps runtime types to serializers. Values are never
// mutated after construction; With returns a new cache sharing nothing the old
// one can observe, so readers need no locking.
type DynamicSerializerCache struct {
	types []reflect.Type
	sers  []ValueSerializer
	index map[reflect.Type]ValueSerializer
}

var emptyDynamicCache = &DynamicSerializerCache{}

// EmptyDynamicCache returns the shared empty cache.
func EmptyDynamicCache() *DynamicSerializerCache {
	return emptyDynamicCache
}

// SerializerFor looks t up. A miss never triggers resolution.
func (c *DynamicSerializerCache) SerializerFor(t reflect.Type) (ValueSerializer, bool) {
	if c == nil {
		return nil, false
	}
	if c.index != nil {
		ser, ok := c.index[t]
		return ser, ok
	}
	for i, ct := range c.types {
		if ct == t {
			return c.sers[i], true
		}
	}
	return nil, false
}

// With returns a cache holding every entry of c plus t. An existing entry for t
// is replaced in the returned copy.
func (c *DynamicSerializerCache) With(t reflect.Type, ser ValueSerializer) *DynamicSerializerCache {
	if c == nil {
		c = emptyDynamicCache
	}

	n := len(c.types)
	types := make([]reflect.Type, 0, n+1)
	sers := make([]ValueSerializer, 0, n+1)
	for i, ct := range c.types {
		if ct == t {
			continue
		}
		types = append(types, ct)
		sers = append(sers, c.sers[i])
	}
	types = append(types, t)
	sers = append(sers, ser)

	next := &DynamicSerializerCache{types: types, sers: sers}
	if len(types) > linearEntries {
		next.index = make(map[reflect.Type]ValueSerializer, len(types))
		for i, ct := range types {
			next.index[ct] = sers[i]
		}
	}
	return next
}

// Len returns the number of cached types.
func (c *DynamicSerializerCache) Len() int {
	if c == nil {
		return 0
	}
	return len(c.types)
}

// Types returns the cached types in insertion order.
func (c *DynamicSerializerCache) Types() []reflect.Type {
	if c == nil {
		return nil
	}
	out := make([]reflect.Type, len(c.types))
	copy(out, c.types)
	return out
}
