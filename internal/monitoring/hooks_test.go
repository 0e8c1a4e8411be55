package monitoring

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockHook struct {
	mock.Mock
}

func (m *mockHook) OnSerializeStart(ctx context.Context, operation string, metadata map[string]any) {
	m.Called(operation, metadata)
}

func (m *mockHook) OnSerializeComplete(ctx context.Context, operation string, duration time.Duration, err error, metadata map[string]any) {
	m.Called(operation, duration, err, metadata)
}

func (m *mockHook) OnError(ctx context.Context, operation string, err error, metadata map[string]any) {
	m.Called(operation, err, metadata)
}

func (m *mockHook) OnSerializerResolved(ctx context.Context, typeName string, duration time.Duration, err error) {
	m.Called(typeName, duration, err)
}

func TestCompositeObservabilityHook(t *testing.T) {
	ctx := context.Background()
	first, second := &mockHook{}, &mockHook{}
	err := errors.New("failed")
	metadata := map[string]any{"format": "json"}

	for _, h := range []*mockHook{first, second} {
		h.On("OnSerializeStart", "Encode", metadata).Once()
		h.On("OnSerializeComplete", "Encode", time.Second, err, metadata).Once()
		h.On("OnError", "Encode", err, metadata).Once()
		h.On("OnSerializerResolved", "main.Order", time.Millisecond, nil).Once()
	}

	hook := NewCompositeObservabilityHook(first, second)
	hook.OnSerializeStart(ctx, "Encode", metadata)
	hook.OnSerializeComplete(ctx, "Encode", time.Second, err, metadata)
	hook.OnError(ctx, "Encode", err, metadata)
	hook.OnSerializerResolved(ctx, "main.Order", time.Millisecond, nil)

	first.AssertExpectations(t)
	second.AssertExpectations(t)
}

func TestLoggingObservabilityHook(t *testing.T) {
	var buf bytes.Buffer
	logger := NewStructuredLogger(LoggerConfig{
		Level:     LevelDebug,
		Format:    FormatJSON,
		Output:    &buf,
		Component: "mapper",
	})
	hook := NewLoggingObservabilityHook(logger)
	ctx := context.Background()

	hook.OnSerializeStart(ctx, "Encode", nil)
	hook.OnSerializeComplete(ctx, "Encode", 3*time.Millisecond, nil, map[string]any{"format": "yaml"})
	hook.OnSerializerResolved(ctx, "main.Order", time.Millisecond, errors.New("unsupported"))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)

	var completed map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[1]), &completed))
	assert.Equal(t, "operation completed", completed["msg"])
	assert.Equal(t, "Encode", completed["operation"])
	assert.Equal(t, "yaml", completed["format"])
	assert.Equal(t, "mapper", completed["component"])

	var failed map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[2]), &failed))
	assert.Equal(t, "WARN", failed["level"])
	assert.Equal(t, "main.Order", failed["type"])
}

func TestNoOpObservabilityHook(t *testing.T) {
	hook := &NoOpObservabilityHook{}
	ctx := context.Background()
	assert.NotPanics(t, func() {
		hook.OnSerializeStart(ctx, "Encode", nil)
		hook.OnSerializeComplete(ctx, "Encode", time.Second, nil, nil)
		hook.OnError(ctx, "Encode", errors.New("x"), nil)
		hook.OnSerializerResolved(ctx, "int", 0, nil)
	})
}
