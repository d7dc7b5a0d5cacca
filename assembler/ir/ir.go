package ir

import (
	"fmt"

	"tlog.app/go/tlog/tlwire"
)

type (
	OperandKind uint8

	Mnemonic struct {
		Key      string
		Encoding uint8
		Operands int
		Kind     OperandKind
	}

	Register struct {
		Key      string
		Encoding uint8
	}

	Instruction struct {
		Address uint32
		Line    int
		Column  int // mnemonic token column

		Operands int

		Mnemonic string
		Operand1 string
		Operand2 string
		Comment  string
	}

	Data struct {
		Address uint32
		Value   int32
	}

	// Symbol binds a label to an instruction or data address,
	// or to a SET literal.
	Symbol struct {
		Label   string
		Address int64
		Line    int
		Column  int

		ID int // declaration ordinal
	}
)

const (
	None OperandKind = iota
	Offset
	Value
)

func (k OperandKind) String() string {
	switch k {
	case None:
		return "none"
	case Offset:
		return "offset"
	case Value:
		return "value"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

func (x Instruction) TlogAppend(b []byte) []byte {
	var e tlwire.Encoder

	b = e.AppendMap(b, 4)

	b = e.AppendString(b, "addr")
	b = e.AppendSemantic(b, tlwire.Hex)
	b = e.AppendInt64(b, int64(x.Address))

	b = e.AppendKeyInt(b, "line", x.Line)

	b = e.AppendString(b, "mnemo")
	b = e.AppendString(b, x.Mnemonic)

	b = e.AppendString(b, "op")
	b = e.AppendString(b, x.Operand1)

	return b
}

func (s *Symbol) TlogAppend(b []byte) []byte {
	var e tlwire.Encoder

	b = e.AppendMap(b, 3)

	b = e.AppendString(b, "label")
	b = e.AppendString(b, s.Label)

	b = e.AppendKeyInt64(b, "addr", s.Address)
	b = e.AppendKeyInt(b, "line", s.Line)

	return b
}
