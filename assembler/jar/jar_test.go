package jar

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJar(t *testing.T) {
	j := &Jar{
		Line: 3,
		Tokens: []Token{
			{Kind: Comment, Text: "; loop", Line: 3},
			{Kind: Label, Text: "loop", Line: 3, Column: 1},
			{Kind: Word, Text: "br", Line: 3, Column: 2},
		},
	}

	c, ok := j.Comment()
	require.True(t, ok)
	assert.Equal(t, "; loop", c.Text)

	body := j.Body()
	require.Len(t, body, 2)
	assert.Equal(t, Label, body[0].Kind)

	_, ok = j.At(3)
	assert.False(t, ok)

	var nilJar *Jar
	assert.Equal(t, 0, nilJar.Len())
	assert.Nil(t, nilJar.Body())
}

func TestBatch(t *testing.T) {
	var b Batch

	b.Append(&Jar{Line: 1})
	b.Append(&Jar{Line: 2})

	var lines []int
	for c := b.Iterate(); c.Next(); {
		lines = append(lines, c.Jar().Line)
	}

	assert.Equal(t, []int{1, 2}, lines)

	c := b.Iterate()
	b.Reset()

	assert.False(t, c.Next())
	assert.Equal(t, 0, b.Len())
}
