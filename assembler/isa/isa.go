package isa

import (
	"fmt"

	"tlog.app/go/errors"

	"github.com/HavokSahil/Assembler-CS2102/assembler/ir"
)

var mnemonics = []ir.Mnemonic{
	{Key: "ldc", Encoding: 0, Operands: 1, Kind: ir.Value},
	{Key: "adc", Encoding: 1, Operands: 1, Kind: ir.Value},
	{Key: "ldl", Encoding: 2, Operands: 1, Kind: ir.Value},
	{Key: "stl", Encoding: 3, Operands: 1, Kind: ir.Value},
	{Key: "ldnl", Encoding: 4, Operands: 1, Kind: ir.Value},
	{Key: "stnl", Encoding: 5, Operands: 1, Kind: ir.Value},
	{Key: "add", Encoding: 6},
	{Key: "sub", Encoding: 7},
	{Key: "shl", Encoding: 8},
	{Key: "shr", Encoding: 9},
	{Key: "adj", Encoding: 10, Operands: 1, Kind: ir.Value},
	{Key: "a2sp", Encoding: 11},
	{Key: "sp2a", Encoding: 12},
	{Key: "call", Encoding: 13, Operands: 1, Kind: ir.Offset},
	{Key: "return", Encoding: 14},
	{Key: "brz", Encoding: 15, Operands: 1, Kind: ir.Offset},
	{Key: "brlz", Encoding: 16, Operands: 1, Kind: ir.Offset},
	{Key: "br", Encoding: 17, Operands: 1, Kind: ir.Offset},
	{Key: "HALT", Encoding: 18},
}

const registers = 10

// Mnemonics returns the reference instruction set.
func Mnemonics() []ir.Mnemonic {
	return append([]ir.Mnemonic(nil), mnemonics...)
}

// Registers returns $s0 to $s9.
func Registers() []ir.Register {
	r := make([]ir.Register, registers)

	for i := range r {
		r[i] = ir.Register{
			Key:      fmt.Sprintf("$s%d", i),
			Encoding: uint8(i),
		}
	}

	return r
}

func NewMnemonicTable() (*ir.MnemonicTable, error) {
	t := ir.NewMnemonicTable()

	for _, m := range mnemonics {
		err := t.Insert(m)
		if err != nil {
			return nil, errors.Wrap(err, "seed")
		}
	}

	return t, nil
}

func NewRegisterTable() (*ir.RegisterTable, error) {
	t := ir.NewRegisterTable()

	for _, r := range Registers() {
		err := t.Insert(r)
		if err != nil {
			return nil, errors.Wrap(err, "seed")
		}
	}

	return t, nil
}
