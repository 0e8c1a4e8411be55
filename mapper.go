package flattenx

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"reflect"
	"time"

	"github.com/hengadev/flattenx/internal/monitoring"
)

// Mapper writes Go values as JSON or YAML documents using the serializers of
// its Provider. A Mapper is safe for concurrent use.
type Mapper struct {
	provider *Provider
	logger   *monitoring.StructuredLogger
	metrics  MetricsCollector
	hook     ObservabilityHook
}

// NewMapper creates a Mapper with its own Provider.
//
// Example usage:
//
//	mapper, err := flattenx.NewMapper(
//	    flattenx.WithDefaultInclusion(flattenx.IncludeNonEmpty),
//	    flattenx.WithIndent(2),
//	)
//	if err != nil {
//	    return err
//	}
//	data, err := mapper.Marshal(order)
func NewMapper(opts ...Option) (*Mapper, error) {
	p, err := NewProvider(opts...)
	if err != nil {
		return nil, err
	}
	return NewMapperWithProvider(p), nil
}

// NewMapperWithProvider creates a Mapper sharing p and its serializer cache.
func NewMapperWithProvider(p *Provider) *Mapper {
	return &Mapper{
		provider: p,
		logger:   p.config.logger("mapper"),
		metrics:  p.metrics,
		hook:     p.hook,
	}
}

// Provider returns the provider used to resolve serializers.
func (m *Mapper) Provider() *Provider { return m.provider }

// Marshal returns the JSON document for v, indented as configured.
func (m *Mapper) Marshal(v any) ([]byte, error) {
	var buf bytes.Buffer
	if err := m.Encode(context.Background(), &buf, FormatJSON, v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// MarshalYAML returns the YAML document for v.
func (m *Mapper) MarshalYAML(v any) ([]byte, error) {
	var buf bytes.Buffer
	if err := m.Encode(context.Background(), &buf, FormatYAML, v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Encode writes v to w in the given format.
func (m *Mapper) Encode(ctx context.Context, w io.Writer, format Format, v any) error {
	out, err := newWriter(w, format, m.provider.config.Indent)
	if err != nil {
		return err
	}
	return m.run(ctx, "Encode", string(format), v, out)
}

// WriteValue serializes v to a caller-supplied ObjectWriter and flushes it.
func (m *Mapper) WriteValue(ctx context.Context, out ObjectWriter, v any) error {
	if out == nil {
		return fmt.Errorf("%w: object writer is required", ErrInvalidConfiguration)
	}
	return m.run(ctx, "WriteValue", "custom", v, out)
}

func (m *Mapper) run(ctx context.Context, operation, format string, v any, out ObjectWriter) error {
	start := time.Now()
	metadata := map[string]any{
		"format":     format,
		"value_type": typeName(reflect.TypeOf(v)),
	}
	m.hook.OnSerializeStart(ctx, operation, metadata)
	m.metrics.IncrementCounter(monitoring.MetricSerializeStarted, map[string]string{"format": format})

	err := ctx.Err()
	if err == nil {
		err = m.serialize(v, out)
	}
	if err == nil {
		err = out.Flush()
	}

	duration := time.Since(start)
	m.metrics.RecordTiming(monitoring.MetricSerializeDuration, duration, map[string]string{"format": format})
	if err != nil {
		m.metrics.IncrementCounter(monitoring.MetricSerializeFailed, map[string]string{"format": format})
		m.hook.OnError(ctx, operation, err, metadata)
		m.logger.With("operation", operation, "format", format).Debug("serialization failed", "error", err)
	} else {
		m.metrics.IncrementCounter(monitoring.MetricSerializeSucceeded, map[string]string{"format": format})
	}
	m.hook.OnSerializeComplete(ctx, operation, duration, err, metadata)
	return err
}

func (m *Mapper) serialize(v any, out ObjectWriter) error {
	if v == nil {
		return out.WriteNull()
	}
	t := reflect.TypeOf(v)
	ser, err := m.provider.FindValueSerializer(t)
	if err != nil {
		return NewSerializerResolutionError("", t, err)
	}
	return ser.Serialize(v, out, m.provider)
}
