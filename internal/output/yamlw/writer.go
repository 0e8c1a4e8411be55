// Package yamlw builds YAML documents from a token stream.
package yamlw

import (
	"fmt"
	"io"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/hengadev/flattenx/internal/output"
)

const indent = 2

// Writer collects tokens into a yaml.Node tree and encodes it on Flush once
// the document is complete.
type Writer struct {
	out     io.Writer
	ctx     *output.Context
	stack   []*yaml.Node
	root    *yaml.Node
	written bool
}

func New(w io.Writer) *Writer {
	return &Writer{out: w, ctx: output.NewContext()}
}

func (w *Writer) add(token string, n *yaml.Node) error {
	if _, err := w.ctx.BeforeValue(token); err != nil {
		return err
	}
	if len(w.stack) == 0 {
		w.root = n
		return nil
	}
	parent := w.stack[len(w.stack)-1]
	parent.Content = append(parent.Content, n)
	return nil
}

func (w *Writer) open(token string, kind output.Kind, n *yaml.Node) error {
	if err := w.add(token, n); err != nil {
		return err
	}
	w.ctx.Push(kind)
	w.stack = append(w.stack, n)
	return nil
}

func (w *Writer) close(kind output.Kind) error {
	if _, err := w.ctx.Pop(kind); err != nil {
		return err
	}
	w.stack = w.stack[:len(w.stack)-1]
	return nil
}

func scalar(tag, value string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: tag, Value: value}
}

func (w *Writer) WriteStartObject() error {
	return w.open("start of object", output.KindObject, &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"})
}

func (w *Writer) WriteEndObject() error { return w.close(output.KindObject) }

func (w *Writer) WriteStartArray() error {
	return w.open("start of array", output.KindArray, &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"})
}

func (w *Writer) WriteEndArray() error { return w.close(output.KindArray) }

func (w *Writer) WriteFieldName(name string) error {
	if _, err := w.ctx.FieldName(); err != nil {
		return err
	}
	parent := w.stack[len(w.stack)-1]
	parent.Content = append(parent.Content, scalar("!!str", name))
	return nil
}

func (w *Writer) WriteString(s string) error {
	return w.add("string", scalar("!!str", s))
}

func (w *Writer) WriteInt(i int64) error {
	return w.add("number", scalar("!!int", strconv.FormatInt(i, 10)))
}

func (w *Writer) WriteUint(u uint64) error {
	return w.add("number", scalar("!!int", strconv.FormatUint(u, 10)))
}

func (w *Writer) WriteFloat(f float64) error {
	return w.add("number", scalar("!!float", strconv.FormatFloat(f, 'g', -1, 64)))
}

func (w *Writer) WriteBool(b bool) error {
	return w.add("boolean", scalar("!!bool", strconv.FormatBool(b)))
}

func (w *Writer) WriteNull() error {
	return w.add("null", scalar("!!null", "null"))
}

// Flush encodes the document. It does nothing until a root value is complete
// and encodes each document once.
func (w *Writer) Flush() error {
	if w.written || !w.ctx.Complete() {
		return nil
	}
	enc := yaml.NewEncoder(w.out)
	enc.SetIndent(indent)
	if err := enc.Encode(w.root); err != nil {
		return fmt.Errorf("encoding yaml document: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("encoding yaml document: %w", err)
	}
	w.written = true
	return nil
}

// Root returns the document built so far, nil before the first value.
func (w *Writer) Root() *yaml.Node { return w.root }
