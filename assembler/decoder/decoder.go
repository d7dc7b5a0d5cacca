package decoder

import (
	"context"
	"encoding/binary"
	"io"

	"tlog.app/go/errors"
	"tlog.app/go/tlog"
	"tlog.app/go/tlog/tlwire"

	"github.com/HavokSahil/Assembler-CS2102/assembler/config"
	"github.com/HavokSahil/Assembler-CS2102/assembler/diag"
	"github.com/HavokSahil/Assembler-CS2102/assembler/ir"
	"github.com/HavokSahil/Assembler-CS2102/assembler/set"
	"github.com/HavokSahil/Assembler-CS2102/assembler/tokenize"
)

type (
	Mode uint8

	Decoder struct {
		il *ir.InstructionList
		dl *ir.DataList
		st *ir.SymbolTable
		mn *ir.MnemonicTable
		rt *ir.RegisterTable
		dg *diag.List

		cfg config.Config

		refs set.Bits[int]

		decoded bool
	}

	Word uint32
)

const (
	// Binary records diagnostics in the list.
	Binary Mode = iota
	// Listing only returns them.
	Listing
)

const (
	Magic    = "LSD"
	FlagData = 0x80

	DataTag = "DATA"
	TextTag = "TEXT"
)

// Offsets are signed 24 bit.
// Values are signed or unsigned 24 bit.
const (
	MinOffset = -1 << 23
	MaxOffset = 1<<23 - 1

	MinValue = MinOffset
	MaxValue = 1<<24 - 1
)

var ErrDecodeFailed = errors.New("decode failed")

func New(il *ir.InstructionList, dl *ir.DataList, st *ir.SymbolTable, mn *ir.MnemonicTable, rt *ir.RegisterTable, dg *diag.List, cfg config.Config) *Decoder {
	return &Decoder{
		il:   il,
		dl:   dl,
		st:   st,
		mn:   mn,
		rt:   rt,
		dg:   dg,
		cfg:  cfg,
		refs: set.MakeBits[int](),
	}
}

// DecodeInstruction returns the machine word for x.
// code is OK, a warning with a valid word, or an error with zero word.
func (d *Decoder) DecodeInstruction(x *ir.Instruction, mode Mode) (w uint32, code diag.Code) {
	m, ok := d.mn.Find(x.Mnemonic)
	if !ok {
		d.report(mode, x.Line, x.Column, diag.InvalidMnemonic)

		return 0, diag.InvalidMnemonic
	}

	var v int64

	if m.Operands != 0 {
		v, code = d.operand(x, m)

		if code != diag.OK {
			d.report(mode, x.Line, x.Column+1, code)
		}

		if code.IsError() {
			return 0, code
		}
	}

	w = uint32(v)<<8 | uint32(m.Encoding)

	return w, code
}

func (d *Decoder) operand(x *ir.Instruction, m ir.Mnemonic) (v int64, code diag.Code) {
	op := x.Operand1

	if r, ok := d.rt.Find(op); ok {
		return int64(r.Encoding), diag.OK
	}

	if op != "" && isAlpha(op[0]) {
		s, ok := d.st.Find(d.label(op))
		if !ok {
			return 0, diag.UndefinedLabel
		}

		d.refs.Set(s.ID)

		if m.Kind != ir.Offset {
			return value(s.Address)
		}

		v = s.Address - (int64(x.Address) + 1)
	} else {
		var err error

		v, err = tokenize.Number(op)
		if err != nil {
			return 0, diag.OperandFormatError
		}

		if m.Kind != ir.Offset {
			return value(v)
		}
	}

	switch {
	case v < MinOffset || v > MaxOffset:
		return 0, diag.InvalidOffset
	case v == -1:
		return v, diag.InfiniteLoop
	}

	return v, diag.OK
}

func value(v int64) (int64, diag.Code) {
	if v < MinValue || v > MaxValue {
		return 0, diag.InvalidOperand
	}

	return v, diag.OK
}

// label cuts an operand the way the tokenizer cuts label declarations.
func (d *Decoder) label(op string) string {
	if n := d.cfg.Limits.Label; n > 0 && len(op) > n {
		return op[:n]
	}

	return op
}

func (d *Decoder) report(mode Mode, line, col int, code diag.Code) {
	if mode != Binary {
		return
	}

	d.dg.Append(line, col, code)
}

// Decode encodes all instructions and writes the object to w.
// Nothing is written if any error was reported, by the parser or here.
// Diagnostics are recorded by the first call only,
// later calls write the same object or fail the same way.
func (d *Decoder) Decode(ctx context.Context, w io.Writer) (err error) {
	tr, ctx := tlog.SpawnFromContextAndWrap(ctx, "decoder: decode")
	defer tr.Finish("err", &err)

	if n := d.cfg.Workers; n > 1 {
		tr.Printw("workers ignored", "workers", n)
	}

	d.refs.Reset()

	mode := Binary
	if d.decoded {
		mode = Listing
	}

	chunk := d.cfg.BufferChunk
	if chunk <= 0 {
		chunk = 64
	}

	buf := make([]byte, 0, chunk)

	for c := d.il.Iterate(); c.Next(); {
		x := c.Value()

		word, code := d.DecodeInstruction(x, mode)

		if tr.If("word") {
			tr.Printw("word", "insn", x, "word", Word(word), "code", code)
		}

		if len(buf)+4 > cap(buf) {
			buf = grow(buf, chunk)
		}

		buf = binary.BigEndian.AppendUint32(buf, word)
	}

	if err = ctx.Err(); err != nil {
		return err
	}

	if !d.decoded {
		d.unused()
	}

	d.decoded = true

	if d.dg.HasErrors() {
		return errors.Wrap(ErrDecodeFailed, "%d errors", d.dg.Count(diag.Error))
	}

	obj := d.object(buf)

	_, err = w.Write(obj)
	if err != nil {
		return errors.Wrap(err, "write object")
	}

	tr.Printw("object", "size", len(obj), "text", len(buf), "data", 4*d.dl.Len(), "warnings", d.dg.Count(diag.Warning), "referenced", d.refs.Size())

	if tr.If("refs") {
		tr.Printw("referenced symbols", "ids", d.refs)
	}

	return nil
}

// unused reports labels no instruction referred to.
func (d *Decoder) unused() {
	for _, s := range d.st.Declared() {
		if !d.refs.IsSet(s.ID) {
			d.dg.Append(s.Line, s.Column, diag.UnusedLabel)
		}
	}
}

func (d *Decoder) object(text []byte) []byte {
	n := d.dl.Len()

	size := len(Magic) + 1 + len(TextTag) + 4 + len(text)
	if n != 0 {
		size += len(DataTag) + 4 + 4*n
	}

	b := make([]byte, 0, size)

	b = append(b, Magic...)

	if n == 0 {
		b = append(b, 0)
	} else {
		b = append(b, FlagData)

		b = append(b, DataTag...)
		b = binary.BigEndian.AppendUint32(b, uint32(4*n))

		for c := d.dl.Iterate(); c.Next(); {
			b = binary.BigEndian.AppendUint32(b, uint32(c.Value().Value))
		}
	}

	b = append(b, TextTag...)
	b = binary.BigEndian.AppendUint32(b, uint32(len(text)))
	b = append(b, text...)

	return b
}

func grow(b []byte, chunk int) []byte {
	r := make([]byte, len(b), cap(b)+chunk)
	copy(r, b)

	return r
}

func isAlpha(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z'
}

func (w Word) TlogAppend(b []byte) []byte {
	var e tlwire.Encoder

	b = e.AppendSemantic(b, tlwire.Hex)
	b = e.AppendInt64(b, int64(w))

	return b
}

func (m Mode) String() string {
	if m == Listing {
		return "listing"
	}

	return "binary"
}
