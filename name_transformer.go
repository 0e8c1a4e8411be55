package flattenx

import "strings"

// NameTransformer maps property names when a value is flattened into its parent object.
// Transform is applied when writing; Reverse recovers the original name, returning ""
// when the given name could not have been produced by Transform.
type NameTransformer interface {
	Transform(name string) string
	Reverse(name string) string
}

// NopTransformer leaves names untouched.
type NopTransformer struct{}

func (NopTransformer) Transform(name string) string { return name }
func (NopTransformer) Reverse(name string) string   { return name }

// Nop is the shared identity transformer.
var Nop NameTransformer = NopTransformer{}

// PrefixSuffixTransformer surrounds names with a fixed prefix and suffix.
type PrefixSuffixTransformer struct {
	Prefix string
	Suffix string
}

// NewPrefixSuffixTransformer returns Nop when both prefix and suffix are empty.
func NewPrefixSuffixTransformer(prefix, suffix string) NameTransformer {
	if prefix == "" && suffix == "" {
		return Nop
	}
	return PrefixSuffixTransformer{Prefix: prefix, Suffix: suffix}
}

func (t PrefixSuffixTransformer) Transform(name string) string {
	return t.Prefix + name + t.Suffix
}

func (t PrefixSuffixTransformer) Reverse(name string) string {
	if !strings.HasPrefix(name, t.Prefix) {
		return ""
	}
	name = name[len(t.Prefix):]
	if !strings.HasSuffix(name, t.Suffix) {
		return ""
	}
	return name[:len(name)-len(t.Suffix)]
}

// ChainedTransformer applies Inner first, then Outer.
type ChainedTransformer struct {
	Outer NameTransformer
	Inner NameTransformer
}

// Chain composes two transformers so that outer wraps inner. Chaining with Nop
// returns the other transformer unchanged.
func Chain(outer, inner NameTransformer) NameTransformer {
	if outer == nil || outer == Nop {
		if inner == nil {
			return Nop
		}
		return inner
	}
	if inner == nil || inner == Nop {
		return outer
	}
	return ChainedTransformer{Outer: outer, Inner: inner}
}

func (t ChainedTransformer) Transform(name string) string {
	return t.Outer.Transform(t.Inner.Transform(name))
}

func (t ChainedTransformer) Reverse(name string) string {
	name = t.Outer.Reverse(name)
	if name == "" {
		return ""
	}
	return t.Inner.Reverse(name)
}
