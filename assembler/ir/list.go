package ir

import "sort"

type (
	list[T any] struct {
		e   []T
		gen int
	}

	// Cursor walks a list. A new Iterate or an append invalidates it.
	Cursor[T any] struct {
		l   *list[T]
		gen int
		i   int
	}

	InstructionList struct {
		list[Instruction]
	}

	DataList struct {
		list[Data]

		base uint32
	}
)

func (l *list[T]) push(x T) {
	l.e = append(l.e, x)
	l.gen++
}

func (l *list[T]) Len() int { return len(l.e) }

func (l *list[T]) At(i int) *T { return &l.e[i] }

func (l *list[T]) Iterate() *Cursor[T] {
	l.gen++

	return &Cursor[T]{l: l, gen: l.gen, i: -1}
}

func (c *Cursor[T]) Next() bool {
	if c.gen != c.l.gen || c.i+1 >= len(c.l.e) {
		return false
	}

	c.i++

	return true
}

func (c *Cursor[T]) Value() *T {
	return &c.l.e[c.i]
}

func NewInstructionList() *InstructionList {
	return &InstructionList{}
}

func (l *InstructionList) Append(x Instruction) {
	l.push(x)
}

// Find returns the instruction at address a.
func (l *InstructionList) Find(a uint32) (*Instruction, bool) {
	i := sort.Search(len(l.e), func(i int) bool {
		return l.e[i].Address >= a
	})

	if i == len(l.e) || l.e[i].Address != a {
		return nil, false
	}

	return &l.e[i], true
}

func NewDataList(base uint32) *DataList {
	return &DataList{base: base}
}

func (l *DataList) Base() uint32 { return l.base }

// Next is the address the next Insert assigns.
func (l *DataList) Next() uint32 {
	return l.base + 4*uint32(len(l.e))
}

// Insert appends v and returns its address.
func (l *DataList) Insert(v int32) uint32 {
	a := l.Next()

	l.push(Data{Address: a, Value: v})

	return a
}

func (l *DataList) Find(a uint32) (*Data, bool) {
	if a < l.base || (a-l.base)%4 != 0 {
		return nil, false
	}

	i := int((a - l.base) / 4)
	if i >= len(l.e) {
		return nil, false
	}

	return &l.e[i], true
}
