package flattenx

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPrefixSuffixTransformer(t *testing.T) {
	tests := []struct {
		name        string
		prefix      string
		suffix      string
		input       string
		transformed string
		reversed    string
	}{
		{name: "prefix", prefix: "home_", input: "city", transformed: "home_city", reversed: "city"},
		{name: "suffix", suffix: "_v2", input: "city", transformed: "city_v2", reversed: "city"},
		{name: "both", prefix: "a.", suffix: ".z", input: "x", transformed: "a.x.z", reversed: "x"},
		{name: "empty name", prefix: "p_", input: "", transformed: "p_", reversed: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr := NewPrefixSuffixTransformer(tt.prefix, tt.suffix)
			out := tr.Transform(tt.input)
			assert.Equal(t, tt.transformed, out)
			assert.Equal(t, tt.reversed, tr.Reverse(out))
		})
	}
}

func TestPrefixSuffixTransformer_ReverseMismatch(t *testing.T) {
	tr := NewPrefixSuffixTransformer("home_", "_x")
	assert.Equal(t, "", tr.Reverse("city"))
	assert.Equal(t, "", tr.Reverse("home_city"))
	assert.Equal(t, "", tr.Reverse("city_x"))
}

func TestNewPrefixSuffixTransformer_EmptyIsNop(t *testing.T) {
	assert.Equal(t, Nop, NewPrefixSuffixTransformer("", ""))
	assert.Equal(t, "name", Nop.Transform("name"))
	assert.Equal(t, "name", Nop.Reverse("name"))
}

func TestChain(t *testing.T) {
	outer := NewPrefixSuffixTransformer("outer_", "")
	inner := NewPrefixSuffixTransformer("inner_", "")

	chained := Chain(outer, inner)
	assert.Equal(t, "outer_inner_x", chained.Transform("x"))
	assert.Equal(t, "x", chained.Reverse("outer_inner_x"))
	assert.Equal(t, "", chained.Reverse("inner_outer_x"))
	assert.Equal(t, "", chained.Reverse("y"))
}

func TestChain_WithNop(t *testing.T) {
	tr := NewPrefixSuffixTransformer("p_", "")

	assert.Equal(t, tr, Chain(Nop, tr))
	assert.Equal(t, tr, Chain(tr, Nop))
	assert.Equal(t, tr, Chain(nil, tr))
	assert.Equal(t, tr, Chain(tr, nil))
}

func TestTransformers_Comparable(t *testing.T) {
	a := Chain(NewPrefixSuffixTransformer("a_", ""), NewPrefixSuffixTransformer("b_", ""))
	b := Chain(NewPrefixSuffixTransformer("a_", ""), NewPrefixSuffixTransformer("b_", ""))
	assert.True(t, a == b)
}
