package flattenx

import (
	"context"
	"fmt"
	"reflect"
	"sort"
	"sync"
	"time"

	"github.com/hengadev/flattenx/internal/monitoring"
)

// Provider builds and caches serializers for Go types. Lookups of resolved
// types are lock-free; building a new type graph is serialized and its
// serializers are published together once the whole graph is complete.
type Provider struct {
	config  Config
	logger  *monitoring.StructuredLogger
	metrics MetricsCollector
	hook    ObservabilityHook

	mu          sync.Mutex
	registered  map[reflect.Type]ValueSerializer
	polymorphic map[reflect.Type]TypeTagWriter
	cached      int // entries in resolved, guarded by mu

	resolved  sync.Map // reflect.Type -> ValueSerializer
	typeNames sync.Map // reflect.Type -> string
}

var _ SerializerProvider = (*Provider)(nil)

// NewProvider creates a provider configured by opts.
func NewProvider(opts ...Option) (*Provider, error) {
	cfg, err := buildConfig(opts)
	if err != nil {
		return nil, err
	}
	return newProvider(cfg), nil
}

func newProvider(cfg Config) *Provider {
	return &Provider{
		config:      cfg,
		logger:      cfg.logger("provider"),
		metrics:     cfg.MetricsCollector,
		hook:        cfg.ObservabilityHook,
		registered:  make(map[reflect.Type]ValueSerializer),
		polymorphic: make(map[reflect.Type]TypeTagWriter),
	}
}

// Config returns the provider configuration.
func (p *Provider) Config() Config { return p.config }

// Register makes ser the serializer for t. Types resolved before the call keep
// the serializers they were built with, so register before first use.
func (p *Provider) Register(t reflect.Type, ser ValueSerializer) error {
	if t == nil || ser == nil {
		return fmt.Errorf("%w: type and serializer are required", ErrInvalidConfiguration)
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.registered[t] = ser
	p.publish(map[reflect.Type]ValueSerializer{t: ser})
	return nil
}

// RegisterTypeName sets the type id written for values of t.
func (p *Provider) RegisterTypeName(t reflect.Type, id string) error {
	if t == nil || id == "" {
		return fmt.Errorf("%w: type and id are required", ErrInvalidConfiguration)
	}
	p.typeNames.Store(derefType(t), id)
	return nil
}

// EnablePolymorphism makes every property declared with the interface iface
// write a type id in front of its value. Like Register, it only affects types
// resolved after the call.
func (p *Provider) EnablePolymorphism(iface reflect.Type) error {
	if iface == nil || iface.Kind() != reflect.Interface {
		return fmt.Errorf("%w: polymorphism can only be enabled for interface types, got %s", ErrInvalidConfiguration, typeName(iface))
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.polymorphic[iface] = p.TypeTags()
	return nil
}

// TypeTags returns a tag writer using the provider's registered type names.
func (p *Provider) TypeTags() TypeTagWriter {
	return NewTypeNameTagWriter(p.config.TypeProperty, p.typeName)
}

func (p *Provider) typeName(t reflect.Type) (string, bool) {
	id, ok := p.typeNames.Load(t)
	if !ok {
		return "", false
	}
	return id.(string), true
}

// FindValueSerializer returns the serializer for t, building it and every type
// it depends on when t has not been seen before.
func (p *Provider) FindValueSerializer(t reflect.Type) (ValueSerializer, error) {
	if t == nil {
		return nil, fmt.Errorf("%w: cannot resolve a serializer without a type", ErrNilValue)
	}
	if ser, ok := p.resolved.Load(t); ok {
		return ser.(ValueSerializer), nil
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if ser, ok := p.resolved.Load(t); ok {
		return ser.(ValueSerializer), nil
	}

	start := time.Now()
	b := newBuilder(p)
	ser, err := b.build(t)
	duration := time.Since(start)
	p.hook.OnSerializerResolved(context.Background(), t.String(), duration, err)

	if err != nil {
		p.metrics.IncrementCounter(monitoring.MetricResolveFailed, map[string]string{"type": t.String()})
		p.logger.Warn("serializer resolution failed", "type", t.String(), "error", err)
		return nil, err
	}

	p.publish(b.built)
	p.metrics.IncrementCounterBy(monitoring.MetricResolved, int64(len(b.built)), nil)
	p.metrics.RecordTiming(monitoring.MetricResolveDuration, duration, nil)
	if p.logger.Enabled(monitoring.LevelDebug) {
		built := make([]string, 0, len(b.built))
		for bt := range b.built {
			built = append(built, bt.String())
		}
		sort.Strings(built)
		p.logger.Debug("serializers resolved", "type", t.String(), "built", built, "duration", duration)
	}
	return ser, nil
}

// publish makes serializers visible to lock-free lookups and reports the cache
// size. Callers hold p.mu.
func (p *Provider) publish(serializers map[reflect.Type]ValueSerializer) {
	for t, ser := range serializers {
		if _, loaded := p.resolved.Swap(t, ser); !loaded {
			p.cached++
		}
	}
	p.metrics.SetGauge(monitoring.MetricCachedTypes, float64(p.cached), nil)
}

// CachedTypes returns the number of types with a published serializer.
func (p *Provider) CachedTypes() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.cached
}

// SpecializeType checks that runtime can stand in for base and returns it.
func (p *Provider) SpecializeType(base, runtime reflect.Type) (reflect.Type, error) {
	if runtime == nil {
		return nil, fmt.Errorf("%w: no runtime type to specialize %s", ErrNilValue, typeName(base))
	}
	if base == nil {
		return runtime, nil
	}
	if base.Kind() == reflect.Interface {
		if !runtime.Implements(base) {
			return nil, fmt.Errorf("%w: %s does not implement %s", ErrSerializerResolution, runtime, base)
		}
		return runtime, nil
	}
	if !runtime.AssignableTo(base) {
		return nil, fmt.Errorf("%w: %s is not assignable to %s", ErrSerializerResolution, runtime, base)
	}
	return runtime, nil
}

func derefType(t reflect.Type) reflect.Type {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	return t
}
