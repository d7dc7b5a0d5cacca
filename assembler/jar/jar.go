package jar

import (
	"fmt"

	"tlog.app/go/tlog/tlwire"
)

type (
	Kind uint8

	Token struct {
		Kind   Kind
		Text   string
		Line   int
		Column int // 1-based among non-comment tokens, 0 for comments
	}

	// Jar holds the tokens of one source line.
	// A comment token, if any, comes first.
	Jar struct {
		Line   int
		Tokens []Token
	}

	// Batch is a run of jars read from a bounded window of lines.
	Batch struct {
		jars []*Jar
		gen  int
	}

	Cursor struct {
		b   *Batch
		gen int
		i   int
	}
)

const (
	Comment Kind = iota
	Label
	Word
)

func (k Kind) String() string {
	switch k {
	case Comment:
		return "comment"
	case Label:
		return "label"
	case Word:
		return "word"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

func (t Token) TlogAppend(b []byte) []byte {
	var e tlwire.Encoder

	b = e.AppendMap(b, 3)

	b = e.AppendString(b, "kind")
	b = e.AppendString(b, t.Kind.String())

	b = e.AppendString(b, "text")
	b = e.AppendString(b, t.Text)

	b = e.AppendKeyInt(b, "col", t.Column)

	return b
}

func (j *Jar) Len() int {
	if j == nil {
		return 0
	}

	return len(j.Tokens)
}

func (j *Jar) At(i int) (Token, bool) {
	if i < 0 || i >= j.Len() {
		return Token{}, false
	}

	return j.Tokens[i], true
}

func (j *Jar) Comment() (Token, bool) {
	if j.Len() == 0 || j.Tokens[0].Kind != Comment {
		return Token{}, false
	}

	return j.Tokens[0], true
}

// Body returns tokens after the leading comment.
func (j *Jar) Body() []Token {
	if j.Len() == 0 {
		return nil
	}

	if j.Tokens[0].Kind == Comment {
		return j.Tokens[1:]
	}

	return j.Tokens
}

func (b *Batch) Len() int { return len(b.jars) }

func (b *Batch) At(i int) *Jar { return b.jars[i] }

func (b *Batch) Append(j *Jar) {
	b.jars = append(b.jars, j)
	b.gen++
}

func (b *Batch) Reset() {
	for i := range b.jars {
		b.jars[i] = nil
	}

	b.jars = b.jars[:0]
	b.gen++
}

// Iterate invalidates cursors returned before.
func (b *Batch) Iterate() *Cursor {
	b.gen++

	return &Cursor{b: b, gen: b.gen, i: -1}
}

func (c *Cursor) Next() bool {
	if c.gen != c.b.gen || c.i+1 >= len(c.b.jars) {
		return false
	}

	c.i++

	return true
}

func (c *Cursor) Jar() *Jar {
	return c.b.jars[c.i]
}
