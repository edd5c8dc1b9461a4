package syncpool

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestZeroed(t *testing.T) {
	type box struct {
		n int
		s string
	}
	v := zeroed[box]()
	require.NotNil(t, v)
	assert.Equal(t, box{}, *v)
}

func TestPack(t *testing.T) {
	type box struct{ n int }
	v := pack(func(b *box) *box {
		b.n = 5
		return b
	})
	require.NotNil(t, v)
	assert.Equal(t, 5, v.n)
}

func TestPack_UntouchedFieldsStayZero(t *testing.T) {
	type box struct {
		n int
		s string
	}
	v := pack(func(b *box) *box {
		b.n = 1
		return b
	})
	assert.Equal(t, "", v.s)
}
