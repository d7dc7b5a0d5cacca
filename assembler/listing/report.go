package listing

import (
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"

	"github.com/HavokSahil/Assembler-CS2102/assembler/diag"
	"github.com/HavokSahil/Assembler-CS2102/assembler/ir"
)

type palette struct {
	err, warn, info, debug *color.Color
	pos, desc              *color.Color
}

// IsTerminal reports whether w is a terminal and colors make sense.
func IsTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}

	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

func newPalette(colored bool) palette {
	p := palette{
		err:   color.New(color.FgRed, color.Bold),
		warn:  color.New(color.FgMagenta, color.Bold),
		info:  color.New(color.FgYellow, color.Bold),
		debug: color.New(color.FgCyan, color.Bold),
		pos:   color.New(color.Underline),
		desc:  color.New(color.FgCyan, color.Italic),
	}

	for _, c := range []*color.Color{p.err, p.warn, p.info, p.debug, p.pos, p.desc} {
		if colored {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}

	return p
}

// Report prints every diagnostic ordered by position and a summary line.
func Report(w io.Writer, dg *diag.List, colored bool) (err error) {
	p := newPalette(colored)

	for _, e := range dg.Sorted() {
		var c *color.Color
		var name string

		switch e.Code.Band() {
		case diag.Error:
			c, name = p.err, "Error"
		case diag.Warning:
			c, name = p.warn, "Warning"
		case diag.Info:
			c, name = p.info, "Info"
		default:
			c, name = p.debug, "Debug"
		}

		_, err = c.Fprintf(w, "%-8s", name)
		if err != nil {
			return err
		}

		_, err = p.pos.Fprintf(w, "line %-4d column %-3d", e.Line, e.Column)
		if err != nil {
			return err
		}

		_, err = p.desc.Fprintf(w, "  %s\n", e.Code)
		if err != nil {
			return err
		}
	}

	_, err = p.pos.Fprintf(w, "%d errors, %d warnings\n", dg.Count(diag.Error), dg.Count(diag.Warning))

	return err
}

func Mnemonics(w io.Writer, mt *ir.MnemonicTable) {
	t := newTable(w, "Mnemonic", "Operands", "Kind", "Opcode")

	for _, m := range mt.Sorted() {
		t.Append([]string{m.Key, itoa(m.Operands), m.Kind.String(), opcode(m.Encoding)})
	}

	t.Render()
}

func Registers(w io.Writer, rt *ir.RegisterTable) {
	t := newTable(w, "Register", "Address")

	for _, r := range rt.Sorted() {
		t.Append([]string{r.Key, opcode(r.Encoding)})
	}

	t.Render()
}

func opcode(e uint8) string {
	return string(app(nil, 0, "%04X", e))
}

func itoa(n int) string {
	return string(app(nil, 0, "%d", n))
}
