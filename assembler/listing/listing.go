package listing

import (
	"bytes"
	"context"
	"io"
	"strconv"

	"github.com/nikandfor/hacked/hfmt"
	"github.com/olekukonko/tablewriter"
	"tlog.app/go/errors"
	"tlog.app/go/tlog"

	"github.com/HavokSahil/Assembler-CS2102/assembler/decoder"
	"github.com/HavokSahil/Assembler-CS2102/assembler/diag"
	"github.com/HavokSahil/Assembler-CS2102/assembler/ir"
)

type (
	Decoder interface {
		DecodeInstruction(x *ir.Instruction, mode decoder.Mode) (uint32, diag.Code)
	}

	// Input is what a listing is rendered from. It's only read.
	Input struct {
		Instructions *ir.InstructionList
		Data         *ir.DataList
		Symbols      *ir.SymbolTable
		Diagnostics  *diag.List

		Decoder Decoder
	}
)

// Write renders the listing file: instructions with their machine code,
// symbols, diagnostics and the data memory map.
func Write(ctx context.Context, w io.Writer, in Input) (err error) {
	tr := tlog.SpanFromContext(ctx)

	var buf bytes.Buffer

	buf.Write(app(nil, 0, "Instruction Table\n"))
	instructions(&buf, in)

	buf.Write(app(nil, 0, "\nSymbol Table\n"))
	symbols(&buf, in.Symbols)

	buf.Write(app(nil, 0, "\nError/Warning List\n"))
	diagnostics(&buf, in.Diagnostics)

	buf.Write(app(nil, 0, "\nMemory Map\n"))
	memory(&buf, in.Data)

	n, err := w.Write(buf.Bytes())
	if err != nil {
		return errors.Wrap(err, "write listing")
	}

	tr.V("listing").Printw("listing written", "size", n)

	return nil
}

func instructions(w io.Writer, in Input) {
	t := newTable(w, "Address", "Line", "Opcode", "Operand", "Machine-Code", "Decoder-Status")

	for c := in.Instructions.Iterate(); c.Next(); {
		x := c.Value()

		word, code := in.Decoder.DecodeInstruction(x, decoder.Listing)

		status := "OK"

		switch {
		case code.IsError():
			status = "ERROR"
			word = 0xffffffff
		case code != diag.OK:
			status = "WARN"
		}

		t.Append([]string{
			hex(uint64(x.Address)),
			strconv.Itoa(x.Line),
			x.Mnemonic,
			x.Operand1,
			hex(uint64(word)),
			status,
		})
	}

	t.Render()
}

func symbols(w io.Writer, st *ir.SymbolTable) {
	t := newTable(w, "Label", "Address", "Line")

	for c := st.Iterate(); c.Next(); {
		s := c.Value()

		t.Append([]string{s.Label, hex(uint64(uint32(s.Address))), strconv.Itoa(s.Line)})
	}

	t.Render()
}

func diagnostics(w io.Writer, dg *diag.List) {
	t := newTable(w, "Flag", "Line", "Col", "Code", "Description")

	for _, e := range dg.Sorted() {
		t.Append([]string{
			flag(e.Code),
			strconv.Itoa(e.Line),
			strconv.Itoa(e.Column),
			opcode(uint8(e.Code)),
			e.Code.String(),
		})
	}

	t.Render()
}

func memory(w io.Writer, dl *ir.DataList) {
	t := newTable(w, "Offset", "Data")

	for c := dl.Iterate(); c.Next(); {
		d := c.Value()

		t.Append([]string{hex(uint64(d.Address)), strconv.Itoa(int(d.Value))})
	}

	t.Render()
}

func newTable(w io.Writer, header ...string) *tablewriter.Table {
	t := tablewriter.NewWriter(w)

	t.SetHeader(header)
	t.SetAutoFormatHeaders(false)
	t.SetAutoWrapText(false)
	t.SetAlignment(tablewriter.ALIGN_LEFT)
	t.SetBorder(false)
	t.SetColumnSeparator(" ")
	t.SetCenterSeparator("-")

	return t
}

func flag(c diag.Code) string {
	switch c.Band() {
	case diag.Error:
		return "ERROR"
	case diag.Warning:
		return "WARN"
	case diag.Info:
		return "INFO"
	default:
		return "DEBUG"
	}
}

func hex(v uint64) string {
	return string(hfmt.Appendf(nil, "%08X", v))
}

func app(b []byte, d int, f string, args ...any) []byte {
	for i := 0; i < d; i++ {
		b = append(b, '\t')
	}

	return hfmt.Appendf(b, f, args...)
}
