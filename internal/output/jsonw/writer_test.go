package jsonw

import (
	"bytes"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hengadev/flattenx/internal/output"
)

// document writes {"name":"a<b>","n":-3,"u":7,"f":1.5,"ok":true,"none":null,"list":[1,[],{}]}
func document(t *testing.T, w *Writer) {
	t.Helper()
	steps := []func() error{
		w.WriteStartObject,
		func() error { return w.WriteFieldName("name") },
		func() error { return w.WriteString("a<b>") },
		func() error { return w.WriteFieldName("n") },
		func() error { return w.WriteInt(-3) },
		func() error { return w.WriteFieldName("u") },
		func() error { return w.WriteUint(7) },
		func() error { return w.WriteFieldName("f") },
		func() error { return w.WriteFloat(1.5) },
		func() error { return w.WriteFieldName("ok") },
		func() error { return w.WriteBool(true) },
		func() error { return w.WriteFieldName("none") },
		w.WriteNull,
		func() error { return w.WriteFieldName("list") },
		w.WriteStartArray,
		func() error { return w.WriteInt(1) },
		w.WriteStartArray,
		w.WriteEndArray,
		w.WriteStartObject,
		w.WriteEndObject,
		w.WriteEndArray,
		w.WriteEndObject,
	}
	for i, step := range steps {
		require.NoError(t, step(), "step %d", i)
	}
	require.True(t, w.Complete())
	require.NoError(t, w.Flush())
}

func TestWriter_Compact(t *testing.T) {
	var buf bytes.Buffer
	document(t, New(&buf, 0))
	assert.Equal(t, `{"name":"a<b>","n":-3,"u":7,"f":1.5,"ok":true,"none":null,"list":[1,[],{}]}`, buf.String())
}

func TestWriter_Indented(t *testing.T) {
	var buf bytes.Buffer
	document(t, New(&buf, 2))

	expected := `{
  "name": "a<b>",
  "n": -3,
  "u": 7,
  "f": 1.5,
  "ok": true,
  "none": null,
  "list": [
    1,
    [],
    {}
  ]
}`
	assert.Equal(t, expected, buf.String())
}

func TestWriter_Escaping(t *testing.T) {
	var buf bytes.Buffer
	w := New(&buf, 0)
	require.NoError(t, w.WriteStartObject())
	require.NoError(t, w.WriteFieldName("quote\"key"))
	require.NoError(t, w.WriteString("line\nbreak\ttab é & \\"))
	require.NoError(t, w.WriteEndObject())
	require.NoError(t, w.Flush())

	assert.Equal(t, `{"quote\"key":"line\nbreak\ttab é & \\"}`, buf.String())
}

func TestWriter_Scalars(t *testing.T) {
	tests := []struct {
		name     string
		write    func(w *Writer) error
		expected string
	}{
		{name: "max uint", write: func(w *Writer) error { return w.WriteUint(math.MaxUint64) }, expected: "18446744073709551615"},
		{name: "min int", write: func(w *Writer) error { return w.WriteInt(math.MinInt64) }, expected: "-9223372036854775808"},
		{name: "integral float", write: func(w *Writer) error { return w.WriteFloat(2) }, expected: "2"},
		{name: "small float", write: func(w *Writer) error { return w.WriteFloat(1e-7) }, expected: "1e-7"},
		{name: "false", write: func(w *Writer) error { return w.WriteBool(false) }, expected: "false"},
		{name: "empty string", write: func(w *Writer) error { return w.WriteString("") }, expected: `""`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			w := New(&buf, 0)
			require.NoError(t, tt.write(w))
			require.NoError(t, w.Flush())
			assert.Equal(t, tt.expected, buf.String())
		})
	}
}

func TestWriter_NaNIsRejected(t *testing.T) {
	var buf bytes.Buffer
	w := New(&buf, 0)
	assert.Error(t, w.WriteFloat(math.NaN()))
}

func TestWriter_InvalidState(t *testing.T) {
	tests := []struct {
		name  string
		steps func(w *Writer) error
	}{
		{
			name: "value without name",
			steps: func(w *Writer) error {
				if err := w.WriteStartObject(); err != nil {
					return err
				}
				return w.WriteInt(1)
			},
		},
		{
			name:  "name at root",
			steps: func(w *Writer) error { return w.WriteFieldName("a") },
		},
		{
			name: "mismatched end",
			steps: func(w *Writer) error {
				if err := w.WriteStartArray(); err != nil {
					return err
				}
				return w.WriteEndObject()
			},
		},
		{
			name: "second root value",
			steps: func(w *Writer) error {
				if err := w.WriteNull(); err != nil {
					return err
				}
				return w.WriteNull()
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := New(&bytes.Buffer{}, 0)
			assert.ErrorIs(t, tt.steps(w), output.ErrInvalidState)
		})
	}
}

func TestWriter_NothingWrittenBeforeFlush(t *testing.T) {
	var buf bytes.Buffer
	w := New(&buf, 0)
	require.NoError(t, w.WriteStartArray())
	require.NoError(t, w.WriteEndArray())
	assert.Empty(t, buf.String())

	require.NoError(t, w.Flush())
	assert.Equal(t, "[]", buf.String())
}
