package set

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"tlog.app/go/tlog/tlwire"
)

func TestBits(t *testing.T) {
	s := MakeBits[int]()

	assert.False(t, s.IsSet(0))
	assert.False(t, s.IsSet(500))

	s.Set(1)
	s.Set(64)
	s.Set(200)

	assert.True(t, s.IsSet(1))
	assert.True(t, s.IsSet(64))
	assert.True(t, s.IsSet(200))
	assert.False(t, s.IsSet(2))
	assert.Equal(t, 3, s.Size())

	var got []int
	s.Range(func(k int) bool {
		got = append(got, k)
		return true
	})

	assert.Equal(t, []int{1, 64, 200}, got)

	s.Reset()
	assert.Equal(t, 0, s.Size())
}

func TestBitsZero(t *testing.T) {
	var s Bits[uint32]

	s.Set(70)
	assert.True(t, s.IsSet(70))
	assert.Equal(t, 1, s.Size())
}

func TestBitsTlogAppend(t *testing.T) {
	var e tlwire.LowEncoder

	var s Bits[int]
	assert.Equal(t, e.AppendNil(nil), s.TlogAppend(nil))

	s = MakeBits[int]()
	s.Set(3)
	s.Set(70)

	exp := e.AppendTag(nil, tlwire.Array, -1)
	exp = e.AppendInt(exp, 3)
	exp = e.AppendInt(exp, 70)
	exp = e.AppendBreak(exp)

	assert.Equal(t, exp, s.TlogAppend(nil))
}
