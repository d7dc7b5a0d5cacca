package isa

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/HavokSahil/Assembler-CS2102/assembler/ir"
)

func TestTables(t *testing.T) {
	mt, err := NewMnemonicTable()
	require.NoError(t, err)

	assert.Equal(t, 19, mt.Size())

	for _, tc := range []struct {
		key  string
		enc  uint8
		ops  int
		kind ir.OperandKind
	}{
		{"ldc", 0, 1, ir.Value},
		{"add", 6, 0, ir.None},
		{"call", 13, 1, ir.Offset},
		{"br", 17, 1, ir.Offset},
		{"HALT", 18, 0, ir.None},
	} {
		m, ok := mt.Find(tc.key)
		if assert.True(t, ok, tc.key) {
			assert.Equal(t, tc.enc, m.Encoding, tc.key)
			assert.Equal(t, tc.ops, m.Operands, tc.key)
			assert.Equal(t, tc.kind, m.Kind, tc.key)
		}
	}

	_, ok := mt.Find("halt")
	assert.False(t, ok, "mnemonics are case sensitive")

	rt, err := NewRegisterTable()
	require.NoError(t, err)

	assert.Equal(t, 10, rt.Size())

	r, ok := rt.Find("$s7")
	require.True(t, ok)
	assert.Equal(t, uint8(7), r.Encoding)

	for i, m := range mt.Sorted() {
		assert.Equal(t, uint8(i), m.Encoding)
	}
}
