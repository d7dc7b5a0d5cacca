package ir

import (
	"sort"

	"github.com/HavokSahil/Assembler-CS2102/assembler/keymap"
	"tlog.app/go/errors"
)

type (
	SymbolTable struct {
		m     keymap.Map[*Symbol]
		order []*Symbol
	}

	MnemonicTable struct {
		m keymap.Map[Mnemonic]
	}

	RegisterTable struct {
		m keymap.Map[Register]
	}
)

var ErrDuplicateLabel = errors.New("duplicate label")

// NewSymbolTable makes a table holding at most limit symbols, 0 means no limit.
func NewSymbolTable(limit int) *SymbolTable {
	t := &SymbolTable{}

	if limit > 0 {
		t.m = keymap.NewLimited[*Symbol](limit)
	} else {
		t.m = keymap.New[*Symbol]()
	}

	return t
}

func (t *SymbolTable) Insert(label string, addr int64, line, col int) (*Symbol, error) {
	s := &Symbol{
		Label:   label,
		Address: addr,
		Line:    line,
		Column:  col,
		ID:      len(t.order),
	}

	err := t.m.Insert(label, s)
	if errors.Is(err, keymap.ErrDuplicateKey) {
		return nil, errors.Wrap(ErrDuplicateLabel, "%v", label)
	}
	if err != nil {
		return nil, errors.Wrap(err, "insert %v", label)
	}

	t.order = append(t.order, s)

	return s, nil
}

// Bind inserts label or rebinds an existing one.
func (t *SymbolTable) Bind(label string, addr int64, line, col int) (*Symbol, error) {
	if s, ok := t.m.Find(label); ok {
		s.Address = addr
		s.Line = line
		s.Column = col

		return s, nil
	}

	return t.Insert(label, addr, line, col)
}

func (t *SymbolTable) Find(label string) (*Symbol, bool) {
	return t.m.Find(label)
}

func (t *SymbolTable) Size() int { return t.m.Size() }

func (t *SymbolTable) Iterate() *keymap.Cursor[*Symbol] { return t.m.Iterate() }

// Declared returns symbols in declaration order.
func (t *SymbolTable) Declared() []*Symbol {
	return t.order
}

func (t *SymbolTable) Destroy() {
	t.m.Destroy()
	t.order = nil
}

func NewMnemonicTable() *MnemonicTable {
	return &MnemonicTable{m: keymap.New[Mnemonic]()}
}

func (t *MnemonicTable) Insert(x Mnemonic) error {
	err := t.m.Insert(x.Key, x)
	if err != nil {
		return errors.Wrap(err, "mnemonic %v", x.Key)
	}

	return nil
}

func (t *MnemonicTable) Find(key string) (Mnemonic, bool) { return t.m.Find(key) }

func (t *MnemonicTable) Size() int { return t.m.Size() }

func (t *MnemonicTable) Iterate() *keymap.Cursor[Mnemonic] { return t.m.Iterate() }

// Sorted returns all mnemonics ordered by encoding.
func (t *MnemonicTable) Sorted() []Mnemonic {
	r := make([]Mnemonic, 0, t.m.Size())

	for c := t.m.Iterate(); c.Next(); {
		r = append(r, c.Value())
	}

	sort.Slice(r, func(i, j int) bool {
		return r[i].Encoding < r[j].Encoding
	})

	return r
}

func NewRegisterTable() *RegisterTable {
	return &RegisterTable{m: keymap.New[Register]()}
}

func (t *RegisterTable) Insert(x Register) error {
	err := t.m.Insert(x.Key, x)
	if err != nil {
		return errors.Wrap(err, "register %v", x.Key)
	}

	return nil
}

func (t *RegisterTable) Find(key string) (Register, bool) { return t.m.Find(key) }

func (t *RegisterTable) Size() int { return t.m.Size() }

func (t *RegisterTable) Sorted() []Register {
	r := make([]Register, 0, t.m.Size())

	for c := t.m.Iterate(); c.Next(); {
		r = append(r, c.Value())
	}

	sort.Slice(r, func(i, j int) bool {
		return r[i].Encoding < r[j].Encoding
	})

	return r
}
