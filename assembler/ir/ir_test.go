package ir

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"tlog.app/go/errors"
	"tlog.app/go/tlog/tlwire"

	"github.com/HavokSahil/Assembler-CS2102/assembler/keymap"
)

func TestDataList(t *testing.T) {
	l := NewDataList(0)

	for i, v := range []int32{10, 20, 30, 40} {
		a := l.Insert(v)
		assert.Equal(t, uint32(4*i), a)
	}

	assert.Equal(t, 4, l.Len())

	d, ok := l.Find(8)
	require.True(t, ok)
	assert.Equal(t, int32(30), d.Value)

	_, ok = l.Find(6)
	assert.False(t, ok)

	_, ok = l.Find(16)
	assert.False(t, ok)

	var vals []int32
	for c := l.Iterate(); c.Next(); {
		vals = append(vals, c.Value().Value)
	}

	assert.Equal(t, []int32{10, 20, 30, 40}, vals)
}

func TestDataListBase(t *testing.T) {
	l := NewDataList(0x100)

	assert.Equal(t, uint32(0x100), l.Next())
	assert.Equal(t, uint32(0x100), l.Insert(1))
	assert.Equal(t, uint32(0x104), l.Next())
	assert.Equal(t, uint32(0x104), l.Insert(2))

	_, ok := l.Find(0xfc)
	assert.False(t, ok)
}

func TestInstructionList(t *testing.T) {
	l := NewInstructionList()

	l.Append(Instruction{Address: 0, Mnemonic: "ldc"})
	l.Append(Instruction{Address: 4, Mnemonic: "add"})

	x, ok := l.Find(4)
	require.True(t, ok)
	assert.Equal(t, "add", x.Mnemonic)

	_, ok = l.Find(2)
	assert.False(t, ok)

	c := l.Iterate()
	require.True(t, c.Next())

	l.Append(Instruction{Address: 8, Mnemonic: "HALT"})
	assert.False(t, c.Next(), "append invalidates cursor")
}

func TestSymbolTable(t *testing.T) {
	st := NewSymbolTable(0)

	s, err := st.Insert("main", 0, 1, 1)
	require.NoError(t, err)
	assert.Equal(t, 0, s.ID)

	_, err = st.Insert("main", 8, 5, 1)
	assert.True(t, errors.Is(err, ErrDuplicateLabel))
	assert.Equal(t, 1, st.Size())

	s, err = st.Bind("count", 5, 2, 1)
	require.NoError(t, err)
	assert.Equal(t, 1, s.ID)

	s, err = st.Bind("count", 7, 3, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(7), s.Address)
	assert.Equal(t, 1, s.ID, "rebind keeps identity")
	assert.Equal(t, 2, st.Size())

	got, ok := st.Find("count")
	require.True(t, ok)
	assert.Equal(t, int64(7), got.Address)

	var labels []string
	for _, s := range st.Declared() {
		labels = append(labels, s.Label)
	}

	assert.Equal(t, []string{"main", "count"}, labels)
}

func TestSymbolTableLimit(t *testing.T) {
	st := NewSymbolTable(1)

	_, err := st.Insert("a", 0, 1, 1)
	require.NoError(t, err)

	_, err = st.Insert("b", 0, 2, 1)
	assert.True(t, errors.Is(err, keymap.ErrFull))
}

func TestMnemonicTable(t *testing.T) {
	mt := NewMnemonicTable()

	require.NoError(t, mt.Insert(Mnemonic{Key: "br", Encoding: 17, Operands: 1, Kind: Offset}))
	require.NoError(t, mt.Insert(Mnemonic{Key: "ldc", Encoding: 0, Operands: 1, Kind: Value}))

	assert.Error(t, mt.Insert(Mnemonic{Key: "ldc", Encoding: 3}))

	m, ok := mt.Find("br")
	require.True(t, ok)
	assert.Equal(t, Offset, m.Kind)

	s := mt.Sorted()
	require.Len(t, s, 2)
	assert.Equal(t, "ldc", s[0].Key)
	assert.Equal(t, "br", s[1].Key)
}

func TestSymbolTlogAppend(t *testing.T) {
	var e tlwire.Encoder

	exp := e.AppendMap(nil, 3)
	exp = e.AppendKeyString(exp, "label", "loop")
	exp = e.AppendKeyInt64(exp, "addr", 8)
	exp = e.AppendKeyInt(exp, "line", 3)

	s := &Symbol{Label: "loop", Address: 8, Line: 3}

	assert.Equal(t, exp, s.TlogAppend(nil))
}
