package diag

import (
	"fmt"

	"nikand.dev/go/heap"
	"tlog.app/go/loc"
	"tlog.app/go/tlog"
	"tlog.app/go/tlog/tlwire"
)

type (
	Code uint8

	Band int

	Entry struct {
		Line   int
		Column int
		Code   Code
	}

	// List is an append-only diagnostics log in discovery order.
	List struct {
		e   []Entry
		gen int
	}

	Cursor struct {
		l   *List
		gen int
		i   int
	}
)

const (
	Success Band = iota
	Debug
	Info
	Warning
	Error
)

const (
	OK Code = 0x00

	UnusedLabel Code = 0x40

	DuplicateLabelAtDecode Code = 0xD0
	InfiniteLoop           Code = 0xD1

	InvalidMnemonic      Code = 0xE0
	InvalidOperand       Code = 0xE1
	OperandFormatError   Code = 0xE2
	DataFormatError      Code = 0xE3
	MissingSetData       Code = 0xE4
	MissingOperand       Code = 0xE5
	MissingData          Code = 0xE6
	OperandCountMismatch Code = 0xE7
	InvalidLabel         Code = 0xE8
	DuplicateLabel       Code = 0xE9
	InvalidJarType       Code = 0xEA
	UndefinedLabel       Code = 0xEB
	InvalidOffset        Code = 0xEC
)

var descriptions = map[Code]string{
	OK: "Success",

	UnusedLabel: "Unused Label",

	DuplicateLabelAtDecode: "Duplicate Label",
	InfiniteLoop:           "Infinite Loop",

	InvalidMnemonic:      "Invalid Mnemonic",
	InvalidOperand:       "Invalid Operand",
	OperandFormatError:   "Invalid Format of Operand",
	DataFormatError:      "Invalid Format of Data",
	MissingSetData:       "Missing Data for SET Directive",
	MissingOperand:       "Missing Operand",
	MissingData:          "Missing Data",
	OperandCountMismatch: "Mismatch in Number of Operands",
	InvalidLabel:         "Invalid Label",
	DuplicateLabel:       "Duplicate Label",
	InvalidJarType:       "Invalid Jar Type",
	UndefinedLabel:       "Undefined Label",
	InvalidOffset:        "Invalid Offset",
}

func (c Code) Band() Band {
	switch {
	case c == 0:
		return Success
	case c < 0x40:
		return Debug
	case c < 0x80:
		return Info
	case c < 0xE0:
		return Warning
	default:
		return Error
	}
}

func (c Code) IsError() bool   { return c.Band() == Error }
func (c Code) IsWarning() bool { return c.Band() == Warning }

func (c Code) String() string {
	if d, ok := descriptions[c]; ok {
		return d
	}

	return fmt.Sprintf("Unknown Code %#02x", uint8(c))
}

func (b Band) String() string {
	switch b {
	case Success:
		return "success"
	case Debug:
		return "debug"
	case Info:
		return "info"
	case Warning:
		return "warning"
	case Error:
		return "error"
	default:
		return fmt.Sprintf("band(%d)", int(b))
	}
}

func (e Entry) TlogAppend(b []byte) []byte {
	var enc tlwire.Encoder

	b = enc.AppendMap(b, 3)
	b = enc.AppendKeyInt(b, "line", e.Line)
	b = enc.AppendKeyInt(b, "col", e.Column)

	b = enc.AppendString(b, "code")
	b = enc.AppendSemantic(b, tlwire.Hex)
	b = enc.AppendInt(b, int(e.Code))

	return b
}

func (l *List) Append(line, col int, code Code) {
	e := Entry{Line: line, Column: col, Code: code}

	l.e = append(l.e, e)
	l.gen++

	if tlog.If("diag") {
		tlog.Printw("diagnostic", "entry", e, "desc", code.String(), "from", loc.Caller(1))
	}
}

func (l *List) Len() int {
	if l == nil {
		return 0
	}

	return len(l.e)
}

func (l *List) At(i int) Entry { return l.e[i] }

// Entries returns a copy in discovery order.
func (l *List) Entries() []Entry {
	return append([]Entry(nil), l.e...)
}

func (l *List) HasErrors() bool {
	return l.Count(Error) != 0
}

func (l *List) Count(b Band) (n int) {
	if l == nil {
		return 0
	}

	for _, e := range l.e {
		if e.Code.Band() == b {
			n++
		}
	}

	return n
}

// Sorted returns entries ordered by position.
// Entries at the same position keep discovery order.
func (l *List) Sorted() []Entry {
	type item struct {
		Entry
		seq int
	}

	h := heap.Heap[item]{Less: func(d []item, i, j int) bool {
		if d[i].Line != d[j].Line {
			return d[i].Line < d[j].Line
		}

		if d[i].Column != d[j].Column {
			return d[i].Column < d[j].Column
		}

		return d[i].seq < d[j].seq
	}}

	for i, e := range l.e {
		h.Push(item{Entry: e, seq: i})
	}

	r := make([]Entry, 0, h.Len())

	for h.Len() != 0 {
		r = append(r, h.Pop().Entry)
	}

	return r
}

// Iterate invalidates cursors returned before.
func (l *List) Iterate() *Cursor {
	l.gen++

	return &Cursor{l: l, gen: l.gen, i: -1}
}

func (c *Cursor) Next() bool {
	if c.gen != c.l.gen || c.i+1 >= len(c.l.e) {
		return false
	}

	c.i++

	return true
}

func (c *Cursor) Entry() Entry {
	return c.l.e[c.i]
}
