package flattenx

import (
	"encoding"
	"encoding/base64"
	"fmt"
	"math"
	"reflect"
	"strconv"
	"time"

	"github.com/google/uuid"
)

var (
	timeType          = reflect.TypeOf(time.Time{})
	uuidType          = reflect.TypeOf(uuid.UUID{})
	marshalerType     = reflect.TypeOf((*Marshaler)(nil)).Elem()
	textMarshalerType = reflect.TypeOf((*encoding.TextMarshaler)(nil)).Elem()
)

type writeFunc func(v reflect.Value, out ObjectWriter) error

type emptyFunc func(v reflect.Value) bool

// ScalarSerializer writes a value as a single token. It never flattens, so
// WithNameTransformer returns the receiver.
type ScalarSerializer struct {
	write writeFunc
	empty emptyFunc
}

var _ ValueSerializer = (*ScalarSerializer)(nil)

func newScalarSerializer(write writeFunc, empty emptyFunc) *ScalarSerializer {
	return &ScalarSerializer{write: write, empty: empty}
}

func (s *ScalarSerializer) Serialize(value any, out ObjectWriter, _ SerializerProvider) error {
	v := reflect.ValueOf(value)
	if isNilValue(v) {
		return out.WriteNull()
	}
	return s.write(v, out)
}

// SerializeTagged writes the value wrapped as [id, value].
func (s *ScalarSerializer) SerializeTagged(value any, out ObjectWriter, provider SerializerProvider, tags TypeTagWriter) error {
	return writeWrapperArray(value, out, tags, func() error {
		return s.Serialize(value, out, provider)
	})
}

func (s *ScalarSerializer) IsEmpty(value any) bool {
	v := reflect.ValueOf(value)
	if isNilValue(v) {
		return true
	}
	return s.empty(v)
}

func (s *ScalarSerializer) SupportsFlattening() bool { return false }

func (s *ScalarSerializer) WithNameTransformer(NameTransformer) ValueSerializer { return s }

func isNilValue(v reflect.Value) bool {
	if !v.IsValid() {
		return true
	}
	switch v.Kind() {
	case reflect.Pointer, reflect.Interface, reflect.Map, reflect.Slice:
		return v.IsNil()
	}
	return false
}

func writeWrapperArray(value any, out ObjectWriter, tags TypeTagWriter, body func() error) error {
	id, err := tags.TypeID(value)
	if err != nil {
		return err
	}
	if err := out.WriteStartArray(); err != nil {
		return err
	}
	if err := out.WriteString(id); err != nil {
		return err
	}
	if err := body(); err != nil {
		return err
	}
	return out.WriteEndArray()
}

func boolSerializer() *ScalarSerializer {
	return newScalarSerializer(
		func(v reflect.Value, out ObjectWriter) error { return out.WriteBool(v.Bool()) },
		func(v reflect.Value) bool { return !v.Bool() },
	)
}

func intSerializer() *ScalarSerializer {
	return newScalarSerializer(
		func(v reflect.Value, out ObjectWriter) error { return out.WriteInt(v.Int()) },
		func(v reflect.Value) bool { return v.Int() == 0 },
	)
}

func uintSerializer() *ScalarSerializer {
	return newScalarSerializer(
		func(v reflect.Value, out ObjectWriter) error { return out.WriteUint(v.Uint()) },
		func(v reflect.Value) bool { return v.Uint() == 0 },
	)
}

func floatSerializer() *ScalarSerializer {
	return newScalarSerializer(
		func(v reflect.Value, out ObjectWriter) error {
			f := v.Float()
			if math.IsNaN(f) || math.IsInf(f, 0) {
				return fmt.Errorf("%w: float value %v cannot be written", ErrUnsupportedType, f)
			}
			if bits := v.Type().Bits(); bits == 32 {
				// shortest float32 digits, so 0.1 is not widened to 0.10000000149011612
				f, _ = strconv.ParseFloat(strconv.FormatFloat(f, 'g', -1, bits), 64)
			}
			return out.WriteFloat(f)
		},
		func(v reflect.Value) bool { return v.Float() == 0 },
	)
}

func stringSerializer() *ScalarSerializer {
	return newScalarSerializer(
		func(v reflect.Value, out ObjectWriter) error { return out.WriteString(v.String()) },
		func(v reflect.Value) bool { return v.Len() == 0 },
	)
}

// bytesSerializer writes byte slices as standard base64 strings.
func bytesSerializer() *ScalarSerializer {
	return newScalarSerializer(
		func(v reflect.Value, out ObjectWriter) error {
			return out.WriteString(base64.StdEncoding.EncodeToString(v.Bytes()))
		},
		func(v reflect.Value) bool { return v.Len() == 0 },
	)
}

func timeSerializer(layout string) *ScalarSerializer {
	return newScalarSerializer(
		func(v reflect.Value, out ObjectWriter) error {
			return out.WriteString(v.Interface().(time.Time).Format(layout))
		},
		func(v reflect.Value) bool { return v.Interface().(time.Time).IsZero() },
	)
}

func uuidSerializer() *ScalarSerializer {
	return newScalarSerializer(
		func(v reflect.Value, out ObjectWriter) error {
			return out.WriteString(v.Interface().(uuid.UUID).String())
		},
		func(v reflect.Value) bool { return v.Interface().(uuid.UUID) == uuid.Nil },
	)
}

func textSerializer() *ScalarSerializer {
	return newScalarSerializer(
		func(v reflect.Value, out ObjectWriter) error {
			text, err := v.Interface().(encoding.TextMarshaler).MarshalText()
			if err != nil {
				return err
			}
			return out.WriteString(string(text))
		},
		func(v reflect.Value) bool { return v.IsZero() },
	)
}

// marshalerSerializer hands the writer to types implementing Marshaler.
func marshalerSerializer() *ScalarSerializer {
	return newScalarSerializer(
		func(v reflect.Value, out ObjectWriter) error {
			return v.Interface().(Marshaler).MarshalFlat(out)
		},
		func(v reflect.Value) bool { return false },
	)
}
