package flattenx

import (
	"reflect"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// recorder is an ObjectWriter that records tokens in a compact notation:
// { } [ ] for structure, name= for field names and literals for values.
type recorder struct {
	tokens  []string
	flushed int
}

func (r *recorder) add(tok string) error {
	r.tokens = append(r.tokens, tok)
	return nil
}

func (r *recorder) WriteStartObject() error        { return r.add("{") }
func (r *recorder) WriteEndObject() error          { return r.add("}") }
func (r *recorder) WriteStartArray() error         { return r.add("[") }
func (r *recorder) WriteEndArray() error           { return r.add("]") }
func (r *recorder) WriteFieldName(n string) error  { return r.add(n + "=") }
func (r *recorder) WriteString(s string) error     { return r.add(strconv.Quote(s)) }
func (r *recorder) WriteInt(i int64) error         { return r.add(strconv.FormatInt(i, 10)) }
func (r *recorder) WriteUint(u uint64) error       { return r.add(strconv.FormatUint(u, 10)) }
func (r *recorder) WriteFloat(f float64) error     { return r.add(strconv.FormatFloat(f, 'g', -1, 64)) }
func (r *recorder) WriteBool(b bool) error         { return r.add(strconv.FormatBool(b)) }
func (r *recorder) WriteNull() error               { return r.add("null") }
func (r *recorder) Flush() error                   { r.flushed++; return nil }
func (r *recorder) String() string                 { return strings.Join(r.tokens, " ") }

// mockProvider counts resolutions; tests set expectations per type.
type mockProvider struct {
	mock.Mock
}

func (m *mockProvider) FindValueSerializer(t reflect.Type) (ValueSerializer, error) {
	args := m.Called(t)
	ser, _ := args.Get(0).(ValueSerializer)
	return ser, args.Error(1)
}

func (m *mockProvider) SpecializeType(base, runtime reflect.Type) (reflect.Type, error) {
	args := m.Called(base, runtime)
	t, _ := args.Get(0).(reflect.Type)
	return t, args.Error(1)
}

func newTestProvider(t *testing.T, opts ...Option) *Provider {
	t.Helper()
	p, err := NewProvider(opts...)
	require.NoError(t, err)
	return p
}

func newTestMapper(t *testing.T, opts ...Option) *Mapper {
	t.Helper()
	m, err := NewMapper(opts...)
	require.NoError(t, err)
	return m
}

func marshalString(t *testing.T, m *Mapper, v any) string {
	t.Helper()
	data, err := m.Marshal(v)
	require.NoError(t, err)
	return string(data)
}
