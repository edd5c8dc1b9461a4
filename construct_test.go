package syncpool

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestElemBuilder_Default(t *testing.T) {
	b := defaultBuilder[int]()
	v := b.construct()
	require.NotNil(t, v)
	assert.Equal(t, 0, *v)
}

func TestElemBuilder_Builder(t *testing.T) {
	b := withBuilder(func() string { return "hi" })
	v := b.construct()
	require.NotNil(t, v)
	assert.Equal(t, "hi", *v)
}

func TestElemBuilder_Packer(t *testing.T) {
	type box struct{ n int }
	b := withPacker(func(v *box) *box {
		v.n = 9
		return v
	})
	v := b.construct()
	require.NotNil(t, v)
	assert.Equal(t, 9, v.n)
}

func TestElemBuilder_NilBuilderPanics(t *testing.T) {
	assert.Panics(t, func() {
		withBuilder[int](nil)
	})
}

func TestElemBuilder_NilPackerPanics(t *testing.T) {
	assert.Panics(t, func() {
		withPacker[int](nil)
	})
}
