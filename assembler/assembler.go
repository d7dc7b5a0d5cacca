package assembler

import (
	"bytes"
	"context"
	"io"
	"os"

	"tlog.app/go/errors"
	"tlog.app/go/tlog"

	"github.com/HavokSahil/Assembler-CS2102/assembler/config"
	"github.com/HavokSahil/Assembler-CS2102/assembler/decoder"
	"github.com/HavokSahil/Assembler-CS2102/assembler/diag"
	"github.com/HavokSahil/Assembler-CS2102/assembler/ir"
	"github.com/HavokSahil/Assembler-CS2102/assembler/isa"
	"github.com/HavokSahil/Assembler-CS2102/assembler/listing"
	"github.com/HavokSahil/Assembler-CS2102/assembler/parser"
)

// Assembler holds one pipeline run.
type Assembler struct {
	Config config.Config

	Instructions *ir.InstructionList
	Data         *ir.DataList
	Symbols      *ir.SymbolTable
	Mnemonics    *ir.MnemonicTable
	Registers    *ir.RegisterTable
	Diagnostics  *diag.List

	parser  *parser.Parser
	decoder *decoder.Decoder
}

func New(cfg config.Config) (a *Assembler, err error) {
	err = cfg.Validate()
	if err != nil {
		return nil, errors.Wrap(err, "config")
	}

	a = &Assembler{
		Config:       cfg,
		Instructions: ir.NewInstructionList(),
		Data:         ir.NewDataList(cfg.DataBase),
		Symbols:      ir.NewSymbolTable(cfg.MaxSymbols),
		Diagnostics:  &diag.List{},
	}

	a.Mnemonics, err = isa.NewMnemonicTable()
	if err != nil {
		return nil, errors.Wrap(err, "mnemonics")
	}

	a.Registers, err = isa.NewRegisterTable()
	if err != nil {
		return nil, errors.Wrap(err, "registers")
	}

	a.parser = parser.New(a.Instructions, a.Data, a.Symbols, a.Mnemonics, a.Registers, a.Diagnostics, cfg)
	a.decoder = decoder.New(a.Instructions, a.Data, a.Symbols, a.Mnemonics, a.Registers, a.Diagnostics, cfg)

	return a, nil
}

func (a *Assembler) Parse(ctx context.Context, r io.Reader) error {
	return a.parser.Parse(ctx, r)
}

func (a *Assembler) Decode(ctx context.Context, w io.Writer) error {
	return a.decoder.Decode(ctx, w)
}

// Assemble parses text and returns the object.
// Diagnostics stay in a.Diagnostics whatever the result.
func (a *Assembler) Assemble(ctx context.Context, r io.Reader) (obj []byte, err error) {
	err = a.Parse(ctx, r)
	if err != nil {
		return nil, errors.Wrap(err, "parse")
	}

	var buf bytes.Buffer

	err = a.Decode(ctx, &buf)
	if err != nil {
		return nil, errors.Wrap(err, "decode")
	}

	return buf.Bytes(), nil
}

func (a *Assembler) AssembleFile(ctx context.Context, name string) (obj []byte, err error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, errors.Wrap(err, "open")
	}

	defer func() {
		e := f.Close()
		if err == nil && e != nil {
			err = errors.Wrap(e, "close")
		}
	}()

	if fi, err := f.Stat(); err == nil {
		tlog.SpanFromContext(ctx).Printw("read file", "size", fi.Size(), "name", name)
	}

	return a.Assemble(ctx, f)
}

// Listing renders the listing of the last run.
func (a *Assembler) Listing(ctx context.Context, w io.Writer) error {
	return listing.Write(ctx, w, listing.Input{
		Instructions: a.Instructions,
		Data:         a.Data,
		Symbols:      a.Symbols,
		Diagnostics:  a.Diagnostics,
		Decoder:      a.decoder,
	})
}

func (a *Assembler) Report(w io.Writer, colored bool) error {
	return listing.Report(w, a.Diagnostics, colored)
}
