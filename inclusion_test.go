package flattenx

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseInclusion(t *testing.T) {
	for _, inclusion := range []Inclusion{IncludeNonNull, IncludeAlways, IncludeNonEmpty, IncludeNonDefault} {
		t.Run(inclusion.String(), func(t *testing.T) {
			got, err := ParseInclusion(inclusion.String())
			require.NoError(t, err)
			assert.Equal(t, inclusion, got)
			assert.True(t, got.IsValid())
		})
	}

	got, err := ParseInclusion("  Non_Empty ")
	require.NoError(t, err)
	assert.Equal(t, IncludeNonEmpty, got)

	got, err = ParseInclusion("")
	require.NoError(t, err)
	assert.Equal(t, IncludeNonNull, got)

	_, err = ParseInclusion("never")
	assert.ErrorIs(t, err, ErrInvalidConfiguration)

	assert.Equal(t, "unknown", Inclusion(12).String())
	assert.False(t, Inclusion(12).IsValid())
}

func TestIsAbsent(t *testing.T) {
	var nilMap map[string]int
	var nilSlice []int
	var nilPtr *int
	var nilIface any

	assert.True(t, isAbsent(nil))
	assert.True(t, isAbsent(nilMap))
	assert.True(t, isAbsent(nilSlice))
	assert.True(t, isAbsent(nilPtr))
	assert.True(t, isAbsent(nilIface))
	assert.True(t, isAbsent((func())(nil)))

	assert.False(t, isAbsent(0))
	assert.False(t, isAbsent(""))
	assert.False(t, isAbsent([]int{}))
	assert.False(t, isAbsent(map[string]int{}))
	assert.False(t, isAbsent(address{}))
}

func TestSameInstance(t *testing.T) {
	a, b := &address{}, &address{}
	m := map[string]int{}

	assert.True(t, sameInstance(a, a))
	assert.False(t, sameInstance(a, b))
	assert.True(t, sameInstance(m, m))
	assert.False(t, sameInstance(m, map[string]int{}))

	// equal values are not the same instance
	assert.False(t, sameInstance(address{}, address{}))
	assert.False(t, sameInstance(1, 1))
	assert.False(t, sameInstance(a, nil))
	assert.False(t, sameInstance(nil, nil))
	assert.False(t, sameInstance(a, *a))
}

func TestValuesEqual(t *testing.T) {
	tests := []struct {
		name     string
		sentinel any
		value    any
		expected bool
	}{
		{name: "equal ints", sentinel: 0, value: 0, expected: true},
		{name: "different ints", sentinel: 0, value: 1},
		{name: "different types", sentinel: 0, value: int64(0)},
		{name: "equal structs", sentinel: address{City: "x"}, value: address{City: "x"}, expected: true},
		{name: "equal slices", sentinel: []int{1}, value: []int{1}, expected: true},
		{name: "different slices", sentinel: []int{1}, value: []int{2}},
		{name: "struct with equal slice in interface", sentinel: anyBox{Data: []int{1}}, value: anyBox{Data: []int{1}}, expected: true},
		{name: "struct with different slice in interface", sentinel: anyBox{Data: []int{1}}, value: anyBox{Data: []int{2}}},
		{name: "array with map in interface", sentinel: [1]any{map[string]int{"a": 1}}, value: [1]any{map[string]int{"a": 1}}, expected: true},
		{name: "both nil", expected: true},
		{name: "nil sentinel", value: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, valuesEqual(tt.sentinel, tt.value))
		})
	}
}

func TestFieldAccessor(t *testing.T) {
	type Inner struct {
		Name string
	}
	type outer struct {
		ID int
		*Inner
	}

	outerType := reflect.TypeOf(outer{})
	id, err := NewFieldAccessor(outerType, []int{0})
	require.NoError(t, err)
	name, err := NewFieldAccessor(reflect.PointerTo(outerType), []int{1, 0})
	require.NoError(t, err)

	v, err := id.Value(outer{ID: 3})
	require.NoError(t, err)
	assert.Equal(t, 3, v)

	v, err = id.Value(&outer{ID: 4})
	require.NoError(t, err)
	assert.Equal(t, 4, v)

	v, err = name.Value(outer{Inner: &Inner{Name: "n"}})
	require.NoError(t, err)
	assert.Equal(t, "n", v)

	v, err = name.Value(outer{})
	require.NoError(t, err)
	assert.Nil(t, v)

	_, err = id.Value((*outer)(nil))
	assert.ErrorIs(t, err, ErrNilValue)

	_, err = id.Value(address{})
	assert.ErrorIs(t, err, ErrUnsupportedType)

	_, err = NewFieldAccessor(reflect.TypeOf(0), []int{0})
	assert.ErrorIs(t, err, ErrUnsupportedType)
}

func TestAccessorFunc(t *testing.T) {
	a := AccessorFunc(func(instance any) (any, error) {
		return instance.(string) + "!", nil
	})
	v, err := a.Value("hi")
	require.NoError(t, err)
	assert.Equal(t, "hi!", v)
}
