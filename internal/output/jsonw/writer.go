// Package jsonw writes JSON documents token by token.
package jsonw

import (
	"bufio"
	"bytes"
	"encoding/json"
	"io"
	"strconv"
	"strings"

	"github.com/hengadev/flattenx/internal/output"
)

// Writer streams JSON to an io.Writer. Output is buffered until Flush.
type Writer struct {
	w       *bufio.Writer
	indent  string
	ctx     *output.Context
	scratch bytes.Buffer
	enc     *json.Encoder
	buf     []byte
}

// New creates a writer indenting nested values by indent spaces; zero writes
// compact JSON.
func New(w io.Writer, indent int) *Writer {
	jw := &Writer{
		w:   bufio.NewWriter(w),
		ctx: output.NewContext(),
	}
	if indent > 0 {
		jw.indent = strings.Repeat(" ", indent)
	}
	jw.enc = json.NewEncoder(&jw.scratch)
	jw.enc.SetEscapeHTML(false)
	return jw
}

func (w *Writer) newline(depth int) {
	if w.indent == "" {
		return
	}
	w.w.WriteByte('\n')
	for range depth {
		w.w.WriteString(w.indent)
	}
}

// beforeValue writes the separator an array element needs.
func (w *Writer) beforeValue(token string) error {
	prev, err := w.ctx.BeforeValue(token)
	if err != nil {
		return err
	}
	if prev.Kind == output.KindArray {
		if prev.Count > 0 {
			w.w.WriteByte(',')
		}
		w.newline(w.ctx.Depth())
	}
	return nil
}

func (w *Writer) raw(token string, b []byte) error {
	if err := w.beforeValue(token); err != nil {
		return err
	}
	_, err := w.w.Write(b)
	return err
}

func (w *Writer) WriteStartObject() error {
	if err := w.beforeValue("start of object"); err != nil {
		return err
	}
	w.ctx.Push(output.KindObject)
	return w.w.WriteByte('{')
}

func (w *Writer) WriteEndObject() error {
	f, err := w.ctx.Pop(output.KindObject)
	if err != nil {
		return err
	}
	if f.Count > 0 {
		w.newline(w.ctx.Depth())
	}
	return w.w.WriteByte('}')
}

func (w *Writer) WriteStartArray() error {
	if err := w.beforeValue("start of array"); err != nil {
		return err
	}
	w.ctx.Push(output.KindArray)
	return w.w.WriteByte('[')
}

func (w *Writer) WriteEndArray() error {
	f, err := w.ctx.Pop(output.KindArray)
	if err != nil {
		return err
	}
	if f.Count > 0 {
		w.newline(w.ctx.Depth())
	}
	return w.w.WriteByte(']')
}

func (w *Writer) WriteFieldName(name string) error {
	index, err := w.ctx.FieldName()
	if err != nil {
		return err
	}
	if index > 0 {
		w.w.WriteByte(',')
	}
	w.newline(w.ctx.Depth())
	quoted, err := w.quote(name)
	if err != nil {
		return err
	}
	w.w.Write(quoted)
	w.w.WriteByte(':')
	if w.indent != "" {
		w.w.WriteByte(' ')
	}
	return nil
}

func (w *Writer) WriteString(s string) error {
	quoted, err := w.quote(s)
	if err != nil {
		return err
	}
	return w.raw("string", quoted)
}

func (w *Writer) WriteInt(i int64) error {
	w.buf = strconv.AppendInt(w.buf[:0], i, 10)
	return w.raw("number", w.buf)
}

func (w *Writer) WriteUint(u uint64) error {
	w.buf = strconv.AppendUint(w.buf[:0], u, 10)
	return w.raw("number", w.buf)
}

func (w *Writer) WriteFloat(f float64) error {
	b, err := w.encode(f)
	if err != nil {
		return err
	}
	return w.raw("number", b)
}

func (w *Writer) WriteBool(b bool) error {
	w.buf = strconv.AppendBool(w.buf[:0], b)
	return w.raw("boolean", w.buf)
}

func (w *Writer) WriteNull() error {
	return w.raw("null", []byte("null"))
}

// Flush writes buffered output to the underlying writer.
func (w *Writer) Flush() error {
	return w.w.Flush()
}

// Complete reports whether a whole document has been written.
func (w *Writer) Complete() bool { return w.ctx.Complete() }

func (w *Writer) quote(s string) ([]byte, error) {
	return w.encode(s)
}

// encode returns the encoding/json form of v without the trailing newline.
// The result is only valid until the next call.
func (w *Writer) encode(v any) ([]byte, error) {
	w.scratch.Reset()
	if err := w.enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimSuffix(w.scratch.Bytes(), []byte{'\n'}), nil
}
