package parser

import (
	"context"
	"fmt"
	"io"
	"math"

	"tlog.app/go/errors"
	"tlog.app/go/loc"
	"tlog.app/go/tlog"

	"github.com/HavokSahil/Assembler-CS2102/assembler/config"
	"github.com/HavokSahil/Assembler-CS2102/assembler/diag"
	"github.com/HavokSahil/Assembler-CS2102/assembler/ir"
	"github.com/HavokSahil/Assembler-CS2102/assembler/jar"
	"github.com/HavokSahil/Assembler-CS2102/assembler/tokenize"
)

type (
	Shape uint8

	Parser struct {
		il *ir.InstructionList
		dl *ir.DataList
		st *ir.SymbolTable
		mn *ir.MnemonicTable
		rt *ir.RegisterTable
		dg *diag.List

		cfg config.Config

		addr uint32
	}
)

const (
	Error Shape = iota
	Label
	SetDirective
	DataDeclaration
	LabelledInstruction
	DataSection
	TextSection
	Instruction
)

const (
	SetKeyword  = "SET"
	DataKeyword = "data"

	DataMarker = ".data"
	TextMarker = ".text"
)

func (s Shape) String() string {
	switch s {
	case Error:
		return "error"
	case Label:
		return "label"
	case SetDirective:
		return "set"
	case DataDeclaration:
		return "data"
	case LabelledInstruction:
		return "labelled_instruction"
	case DataSection:
		return "data_section"
	case TextSection:
		return "text_section"
	case Instruction:
		return "instruction"
	default:
		return fmt.Sprintf("shape(%d)", int(s))
	}
}

// Classify decides the jar shape by its first two non-comment tokens.
func Classify(j *jar.Jar) Shape {
	body := j.Body()
	if len(body) == 0 {
		return Error
	}

	if body[0].Kind == jar.Label {
		if len(body) == 1 {
			return Label
		}

		switch body[1].Text {
		case SetKeyword:
			return SetDirective
		case DataKeyword:
			return DataDeclaration
		default:
			return LabelledInstruction
		}
	}

	switch body[0].Text {
	case DataMarker:
		return DataSection
	case TextMarker:
		return TextSection
	}

	return Instruction
}

func New(il *ir.InstructionList, dl *ir.DataList, st *ir.SymbolTable, mn *ir.MnemonicTable, rt *ir.RegisterTable, dg *diag.List, cfg config.Config) *Parser {
	return &Parser{
		il:  il,
		dl:  dl,
		st:  st,
		mn:  mn,
		rt:  rt,
		dg:  dg,
		cfg: cfg,
	}
}

// Address is the address the next instruction gets.
func (p *Parser) Address() uint32 { return p.addr }

// Parse reads the whole stream. Problems with the source text
// are reported as diagnostics, the error is for broken streams and full tables.
func (p *Parser) Parse(ctx context.Context, r io.Reader) (err error) {
	tr, ctx := tlog.SpawnFromContextAndWrap(ctx, "parser: parse")
	defer tr.Finish("err", &err)

	tk := tokenize.New(r, p.cfg)

	if w := tk.Workers(); w > 1 {
		tr.Printw("workers ignored", "workers", w)
	}

	var b jar.Batch

	for {
		done, err := tk.FillBatch(ctx, &b)
		if err != nil {
			return errors.Wrap(err, "tokenize")
		}

		for c := b.Iterate(); c.Next(); {
			j := c.Jar()

			err = p.ParseJar(ctx, j)
			if err != nil {
				return errors.Wrap(err, "line %d", j.Line)
			}
		}

		if done {
			break
		}
	}

	tr.Printw("parsed", "lines", tk.Lines(), "instructions", p.il.Len(), "data", p.dl.Len(), "symbols", p.st.Size(), "diagnostics", p.dg.Len())

	return nil
}

func (p *Parser) ParseJar(ctx context.Context, j *jar.Jar) (err error) {
	sh := Classify(j)

	if tr := tlog.SpanFromContext(ctx); tr.If("jar") {
		tr.Printw("jar", "line", j.Line, "shape", sh, "tokens", j.Tokens)
	}

	body := j.Body()

	switch sh {
	case Instruction:
		p.instruction(j, body)
	case Label:
		if len(body) != 1 {
			p.dg.Append(j.Line, body[1].Column, diag.OperandCountMismatch)
			return nil
		}

		_, err = p.label(body[0], int64(p.addr))
	case LabelledInstruction:
		_, err = p.label(body[0], int64(p.addr))
		if err != nil {
			return err
		}

		p.instruction(j, body[1:])
	case DataDeclaration:
		err = p.data(j, body)
	case SetDirective:
		err = p.set(j, body)
	case DataSection, TextSection:
		if len(body) != 1 {
			p.dg.Append(j.Line, body[1].Column, diag.OperandCountMismatch)
			return nil
		}

		tlog.SpanFromContext(ctx).V("section").Printw("section", "line", j.Line, "section", body[0].Text)
	default:
		p.dg.Append(j.Line, 1, diag.InvalidJarType)
	}

	return err
}

func (p *Parser) instruction(j *jar.Jar, body []jar.Token) {
	mt := body[0]

	m, ok := p.mn.Find(mt.Text)
	if !ok {
		p.dg.Append(j.Line, mt.Column, diag.InvalidMnemonic)
		return
	}

	ops := body[1:]

	if len(ops) != m.Operands || len(ops) > 2 {
		p.dg.Append(j.Line, mt.Column, diag.OperandCountMismatch)
		return
	}

	x := ir.Instruction{
		Address:  p.addr,
		Line:     j.Line,
		Column:   mt.Column,
		Operands: len(ops),
		Mnemonic: m.Key,
	}

	if len(ops) > 0 {
		x.Operand1 = p.operand(ops[0])
	}

	if len(ops) > 1 {
		x.Operand2 = p.operand(ops[1])
	}

	if c, ok := j.Comment(); ok {
		x.Comment = c.Text
	}

	p.il.Append(x)
	p.addr += 4
}

func (p *Parser) operand(tk jar.Token) string {
	if n := p.cfg.Limits.Operand; len(tk.Text) > n {
		return tk.Text[:n]
	}

	return tk.Text
}

// label binds tk to addr. ok is false if a diagnostic was reported.
func (p *Parser) label(tk jar.Token, addr int64) (ok bool, err error) {
	if !p.validLabel(tk) {
		return false, nil
	}

	s, err := p.st.Insert(tk.Text, addr, tk.Line, tk.Column)
	if errors.Is(err, ir.ErrDuplicateLabel) {
		p.dg.Append(tk.Line, tk.Column, diag.DuplicateLabel)
		return false, nil
	}
	if err != nil {
		return false, err
	}

	logSymbol(s)

	return true, nil
}

func (p *Parser) validLabel(tk jar.Token) bool {
	_, reg := p.rt.Find(tk.Text)

	if tk.Text == "" || !isAlpha(tk.Text[0]) || reg {
		p.dg.Append(tk.Line, tk.Column, diag.InvalidLabel)
		return false
	}

	return true
}

func (p *Parser) data(j *jar.Jar, body []jar.Token) (err error) {
	lab := body[0]

	if !p.validLabel(lab) {
		return nil
	}

	if _, ok := p.st.Find(lab.Text); ok {
		p.dg.Append(j.Line, lab.Column, diag.DuplicateLabel)
		return nil
	}

	v, ok := p.literal(j, body, diag.MissingData, diag.DataFormatError)
	if !ok {
		return nil
	}

	if v < math.MinInt32 || v > math.MaxUint32 {
		p.dg.Append(j.Line, body[2].Column, diag.DataFormatError)
		return nil
	}

	ok, err = p.label(lab, int64(p.dl.Next()))
	if !ok || err != nil {
		return err
	}

	p.dl.Insert(int32(uint32(v)))

	return nil
}

func (p *Parser) set(j *jar.Jar, body []jar.Token) (err error) {
	lab := body[0]

	if !p.validLabel(lab) {
		return nil
	}

	v, ok := p.literal(j, body, diag.MissingSetData, diag.OperandFormatError)
	if !ok {
		return nil
	}

	s, err := p.st.Bind(lab.Text, v, lab.Line, lab.Column)
	if err != nil {
		return errors.Wrap(err, "set %v", lab.Text)
	}

	logSymbol(s)

	return nil
}

func logSymbol(s *ir.Symbol) {
	if tlog.If("symbol") {
		tlog.Printw("symbol", "sym", s, "from", loc.Caller(1))
	}
}

// literal parses the value of "label: keyword value".
func (p *Parser) literal(j *jar.Jar, body []jar.Token, missing, format diag.Code) (int64, bool) {
	if len(body) < 3 {
		p.dg.Append(j.Line, body[1].Column+1, missing)
		return 0, false
	}

	if len(body) > 3 {
		p.dg.Append(j.Line, body[3].Column, diag.OperandCountMismatch)
		return 0, false
	}

	v, err := tokenize.Number(body[2].Text)
	if err != nil {
		p.dg.Append(j.Line, body[2].Column, format)
		return 0, false
	}

	return v, true
}

func isAlpha(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z'
}
