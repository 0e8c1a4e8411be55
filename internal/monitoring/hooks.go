package monitoring

import (
	"context"
	"time"
)

// ObservabilityHook defines hooks for monitoring serialization runs
type ObservabilityHook interface {
	// Called before a value is serialized
	OnSerializeStart(ctx context.Context, operation string, metadata map[string]any)

	// Called after serialization completes (success or failure)
	OnSerializeComplete(ctx context.Context, operation string, duration time.Duration, err error, metadata map[string]any)

	// Called when errors occur
	OnError(ctx context.Context, operation string, err error, metadata map[string]any)

	// Called whenever the provider builds serializers for a type it had not seen
	OnSerializerResolved(ctx context.Context, typeName string, duration time.Duration, err error)
}

// NoOpObservabilityHook is a no-op implementation of ObservabilityHook
type NoOpObservabilityHook struct{}

func (n *NoOpObservabilityHook) OnSerializeStart(ctx context.Context, operation string, metadata map[string]any) {
}
func (n *NoOpObservabilityHook) OnSerializeComplete(ctx context.Context, operation string, duration time.Duration, err error, metadata map[string]any) {
}
func (n *NoOpObservabilityHook) OnError(ctx context.Context, operation string, err error, metadata map[string]any) {
}
func (n *NoOpObservabilityHook) OnSerializerResolved(ctx context.Context, typeName string, duration time.Duration, err error) {
}

// LoggingObservabilityHook logs all operations
type LoggingObservabilityHook struct {
	logger *StructuredLogger
}

// NewLoggingObservabilityHook creates a new logging observability hook
func NewLoggingObservabilityHook(logger *StructuredLogger) *LoggingObservabilityHook {
	if logger == nil {
		logger = NewDiscardLogger()
	}
	return &LoggingObservabilityHook{logger: logger}
}

func (l *LoggingObservabilityHook) OnSerializeStart(ctx context.Context, operation string, metadata map[string]any) {
	l.logger.Debug("serialization started", "operation", operation, "metadata", metadata)
}

func (l *LoggingObservabilityHook) OnSerializeComplete(ctx context.Context, operation string, duration time.Duration, err error, metadata map[string]any) {
	l.logger.LogOperation(ctx, operation, duration, err, metadata)
}

func (l *LoggingObservabilityHook) OnError(ctx context.Context, operation string, err error, metadata map[string]any) {
	l.logger.Warn("serialization error", "operation", operation, "error", err, "metadata", metadata)
}

func (l *LoggingObservabilityHook) OnSerializerResolved(ctx context.Context, typeName string, duration time.Duration, err error) {
	if err != nil {
		l.logger.Warn("serializer resolution failed", "type", typeName, "error", err)
		return
	}
	l.logger.Debug("serializer resolved", "type", typeName, "duration", duration)
}

// CompositeObservabilityHook combines multiple hooks
type CompositeObservabilityHook struct {
	hooks []ObservabilityHook
}

// NewCompositeObservabilityHook creates a new composite hook
func NewCompositeObservabilityHook(hooks ...ObservabilityHook) *CompositeObservabilityHook {
	return &CompositeObservabilityHook{hooks: hooks}
}

func (c *CompositeObservabilityHook) OnSerializeStart(ctx context.Context, operation string, metadata map[string]any) {
	for _, hook := range c.hooks {
		hook.OnSerializeStart(ctx, operation, metadata)
	}
}

func (c *CompositeObservabilityHook) OnSerializeComplete(ctx context.Context, operation string, duration time.Duration, err error, metadata map[string]any) {
	for _, hook := range c.hooks {
		hook.OnSerializeComplete(ctx, operation, duration, err, metadata)
	}
}

func (c *CompositeObservabilityHook) OnError(ctx context.Context, operation string, err error, metadata map[string]any) {
	for _, hook := range c.hooks {
		hook.OnError(ctx, operation, err, metadata)
	}
}

func (c *CompositeObservabilityHook) OnSerializerResolved(ctx context.Context, typeName string, duration time.Duration, err error) {
	for _, hook := range c.hooks {
		hook.OnSerializerResolved(ctx, typeName, duration, err)
	}
}
