// Package output holds the token-order bookkeeping shared by the document writers.
package output

import (
	"errors"
	"fmt"
)

// ErrInvalidState is returned when a token is written where the document does
// not allow it.
var ErrInvalidState = errors.New("invalid writer state")

type Kind uint8

const (
	KindRoot Kind = iota
	KindObject
	KindArray
)

func (k Kind) String() string {
	switch k {
	case KindObject:
		return "object"
	case KindArray:
		return "array"
	default:
		return "root"
	}
}

// Frame is one level of the document. Count is the number of values written
// in arrays and at the root, and the number of field names in objects.
type Frame struct {
	Kind    Kind
	Count   int
	HasName bool
}

// Context tracks where the next token goes and rejects tokens that would
// produce a malformed document.
type Context struct {
	frames []Frame
}

func NewContext() *Context {
	return &Context{frames: []Frame{{Kind: KindRoot}}}
}

func (c *Context) top() *Frame { return &c.frames[len(c.frames)-1] }

// Depth is the number of open objects and arrays.
func (c *Context) Depth() int { return len(c.frames) - 1 }

// Complete reports whether a whole root value has been written.
func (c *Context) Complete() bool {
	return len(c.frames) == 1 && c.frames[0].Count > 0
}

// BeforeValue checks that a value may be written and returns the frame as it
// was before the value.
func (c *Context) BeforeValue(token string) (Frame, error) {
	f := c.top()
	prev := *f
	switch f.Kind {
	case KindRoot:
		if f.Count > 0 {
			return prev, invalid(token, "document already has a root value")
		}
		f.Count++
	case KindObject:
		if !f.HasName {
			return prev, invalid(token, "expected a field name")
		}
		f.HasName = false
	case KindArray:
		f.Count++
	}
	return prev, nil
}

// FieldName checks that a field name may be written and returns the number of
// fields already written in the enclosing object.
func (c *Context) FieldName() (int, error) {
	f := c.top()
	if f.Kind != KindObject {
		return 0, invalid("field name", "not inside an object")
	}
	if f.HasName {
		return 0, invalid("field name", "expected a value")
	}
	f.HasName = true
	f.Count++
	return f.Count - 1, nil
}

// Push opens an object or array. Call BeforeValue first.
func (c *Context) Push(kind Kind) {
	c.frames = append(c.frames, Frame{Kind: kind})
}

// Pop closes the innermost frame, which must be of the given kind and must not
// be waiting for a value.
func (c *Context) Pop(kind Kind) (Frame, error) {
	token := "end of " + kind.String()
	f := c.top()
	if f.Kind != kind {
		return Frame{}, invalid(token, fmt.Sprintf("innermost open value is %s", f.Kind))
	}
	if f.HasName {
		return Frame{}, invalid(token, "field name has no value")
	}
	c.frames = c.frames[:len(c.frames)-1]
	return *f, nil
}

func invalid(token, details string) error {
	return fmt.Errorf("%w: cannot write %s: %s", ErrInvalidState, token, details)
}
