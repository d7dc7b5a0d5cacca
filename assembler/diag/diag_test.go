package diag

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBands(t *testing.T) {
	for _, tc := range []struct {
		c Code
		b Band
	}{
		{OK, Success},
		{0x01, Debug},
		{0x3F, Debug},
		{UnusedLabel, Info},
		{0x7F, Info},
		{0x80, Warning},
		{InfiniteLoop, Warning},
		{DuplicateLabelAtDecode, Warning},
		{InvalidMnemonic, Error},
		{InvalidJarType, Error},
		{0xFF, Error},
	} {
		assert.Equal(t, tc.b, tc.c.Band(), "%#x", uint8(tc.c))
	}

	assert.True(t, UndefinedLabel.IsError())
	assert.True(t, InfiniteLoop.IsWarning())
	assert.False(t, InfiniteLoop.IsError())

	assert.Equal(t, "Undefined Label", UndefinedLabel.String())
	assert.Equal(t, "Unknown Code 0x7e", Code(0x7e).String())
}

func TestList(t *testing.T) {
	var l List

	assert.False(t, l.HasErrors())

	l.Append(3, 2, InfiniteLoop)
	assert.False(t, l.HasErrors())

	l.Append(1, 1, DuplicateLabel)
	l.Append(3, 1, UndefinedLabel)
	l.Append(1, 1, MissingData)

	assert.Equal(t, 4, l.Len())
	assert.True(t, l.HasErrors())
	assert.Equal(t, 3, l.Count(Error))
	assert.Equal(t, 1, l.Count(Warning))

	assert.Equal(t, Entry{Line: 3, Column: 2, Code: InfiniteLoop}, l.At(0), "discovery order")

	assert.Equal(t, []Entry{
		{Line: 1, Column: 1, Code: DuplicateLabel},
		{Line: 1, Column: 1, Code: MissingData},
		{Line: 3, Column: 1, Code: UndefinedLabel},
		{Line: 3, Column: 2, Code: InfiniteLoop},
	}, l.Sorted())
}

func TestCursor(t *testing.T) {
	var l List

	l.Append(1, 1, InvalidMnemonic)
	l.Append(2, 1, InvalidOffset)

	c := l.Iterate()

	require.True(t, c.Next())
	assert.Equal(t, InvalidMnemonic, c.Entry().Code)

	require.True(t, c.Next())
	assert.Equal(t, InvalidOffset, c.Entry().Code)

	assert.False(t, c.Next())

	c = l.Iterate()
	require.True(t, c.Next())

	l.Append(3, 1, UnusedLabel)
	assert.False(t, c.Next(), "append invalidates")

	n := 0
	for c := l.Iterate(); c.Next(); {
		n++
	}

	assert.Equal(t, 3, n)
}
