package main

import (
	"context"
	"os"

	"github.com/k0kubun/pp/v3"
	"nikand.dev/go/cli"
	"tlog.app/go/errors"
	"tlog.app/go/tlog"

	"github.com/HavokSahil/Assembler-CS2102/assembler"
	"github.com/HavokSahil/Assembler-CS2102/assembler/config"
	"github.com/HavokSahil/Assembler-CS2102/assembler/diag"
	"github.com/HavokSahil/Assembler-CS2102/assembler/ir"
	"github.com/HavokSahil/Assembler-CS2102/assembler/isa"
	"github.com/HavokSahil/Assembler-CS2102/assembler/listing"
)

type dumpView struct {
	Instructions []ir.Instruction
	Data         []ir.Data
	Symbols      []ir.Symbol
	Diagnostics  []diag.Entry
}

func main() {
	assembleCmd := &cli.Command{
		Name:        "assemble",
		Description: "assemble source file into LSD object",
		Action:      assembleAct,
		Args:        cli.Args{},
		Flags: []*cli.Flag{
			cli.NewFlag("output,o", "machine.bin", "object file"),
			cli.NewFlag("listing,a", "", "listing file"),
			cli.NewFlag("no-color", false, "disable colored report"),
		},
	}

	dumpCmd := &cli.Command{
		Name:        "dump",
		Description: "parse source file and print what was parsed",
		Action:      dumpAct,
		Args:        cli.Args{},
	}

	mnemonicsCmd := &cli.Command{
		Name:        "mnemonics",
		Description: "print instruction set",
		Action:      mnemonicsAct,
	}

	registersCmd := &cli.Command{
		Name:        "registers",
		Description: "print registers",
		Action:      registersAct,
	}

	app := &cli.Command{
		Name:        "lsdasm",
		Description: "lsdasm is a two-pass assembler for the LSD stack machine",
		Before:      before,
		Flags: []*cli.Flag{
			cli.NewFlag("config,c", "", "toml config file"),
			cli.NewFlag("verbosity,v", "", "log verbosity topics (diag,jar,batch,word,section,listing)"),
			cli.FlagfileFlag,
			cli.HelpFlag,
		},
		Commands: []*cli.Command{
			assembleCmd,
			dumpCmd,
			mnemonicsCmd,
			registersCmd,
		},
	}

	cli.RunAndExit(app, os.Args, os.Environ())
}

func before(c *cli.Command) error {
	if v := c.String("verbosity"); v != "" {
		tlog.SetVerbosity(v)
	}

	return nil
}

func loadConfig(c *cli.Command) (config.Config, error) {
	name := c.String("config")
	if name == "" {
		return config.Default(), nil
	}

	return config.Load(name)
}

func newAssembler(c *cli.Command) (*assembler.Assembler, error) {
	if len(c.Args) != 1 {
		return nil, errors.New("expected one input file, got %d", len(c.Args))
	}

	cfg, err := loadConfig(c)
	if err != nil {
		return nil, err
	}

	return assembler.New(cfg)
}

func assembleAct(c *cli.Command) (err error) {
	ctx := context.Background()
	ctx = tlog.ContextWithSpan(ctx, tlog.Root())

	a, err := newAssembler(c)
	if err != nil {
		return err
	}

	src := c.Args[0]

	obj, aerr := a.AssembleFile(ctx, src)

	colored := !c.Bool("no-color") && listing.IsTerminal(os.Stderr)

	err = a.Report(os.Stderr, colored)
	if err != nil {
		return errors.Wrap(err, "report")
	}

	if name := c.String("listing"); name != "" {
		err = writeListing(ctx, a, name)
		if err != nil {
			return errors.Wrap(err, "listing")
		}
	}

	if aerr != nil {
		return errors.Wrap(aerr, "assemble %v", src)
	}

	err = os.WriteFile(c.String("output"), obj, 0o644)
	if err != nil {
		return errors.Wrap(err, "write object")
	}

	return nil
}

func writeListing(ctx context.Context, a *assembler.Assembler, name string) (err error) {
	f, err := os.Create(name)
	if err != nil {
		return errors.Wrap(err, "create")
	}

	defer func() {
		e := f.Close()
		if err == nil && e != nil {
			err = errors.Wrap(e, "close")
		}
	}()

	return a.Listing(ctx, f)
}

func dumpAct(c *cli.Command) (err error) {
	ctx := context.Background()
	ctx = tlog.ContextWithSpan(ctx, tlog.Root())

	a, err := newAssembler(c)
	if err != nil {
		return err
	}

	f, err := os.Open(c.Args[0])
	if err != nil {
		return errors.Wrap(err, "open")
	}

	defer f.Close()

	err = a.Parse(ctx, f)
	if err != nil {
		return errors.Wrap(err, "parse %v", c.Args[0])
	}

	var v dumpView

	for it := a.Instructions.Iterate(); it.Next(); {
		v.Instructions = append(v.Instructions, *it.Value())
	}

	for it := a.Data.Iterate(); it.Next(); {
		v.Data = append(v.Data, *it.Value())
	}

	for _, s := range a.Symbols.Declared() {
		v.Symbols = append(v.Symbols, *s)
	}

	v.Diagnostics = a.Diagnostics.Entries()

	p := pp.New()
	p.SetOutput(os.Stdout)
	p.SetColoringEnabled(listing.IsTerminal(os.Stdout))

	_, err = p.Println(v)

	return err
}

func mnemonicsAct(c *cli.Command) error {
	mt, err := isa.NewMnemonicTable()
	if err != nil {
		return err
	}

	listing.Mnemonics(os.Stdout, mt)

	return nil
}

func registersAct(c *cli.Command) error {
	rt, err := isa.NewRegisterTable()
	if err != nil {
		return err
	}

	listing.Registers(os.Stdout, rt)

	return nil
}
