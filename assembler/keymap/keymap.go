package keymap

import "tlog.app/go/errors"

type (
	Map[V any] interface {
		Insert(key string, v V) error
		Find(key string) (V, bool)
		Size() int
		Iterate() *Cursor[V]
		Destroy()
	}

	// KeyMap is a red-black tree ordered by key hash.
	// Keys sharing a hash are chained in one bucket.
	KeyMap[V any] struct {
		root *bucket[V]

		size  int
		limit int

		gen int
	}

	bucket[V any] struct {
		hash uint32
		red  bool

		parent, left, right *bucket[V]

		chain *entry[V]
	}

	entry[V any] struct {
		key  string
		val  V
		next *entry[V]
	}

	Cursor[V any] struct {
		m   *KeyMap[V]
		gen int

		node  *bucket[V]
		stack []*bucket[V]
		e     *entry[V]
	}
)

var (
	ErrDuplicateKey = errors.New("duplicate key")
	ErrFull         = errors.New("map is full")
)

var _ Map[int] = &KeyMap[int]{}

func New[V any]() *KeyMap[V] {
	return &KeyMap[V]{}
}

// NewLimited returns a map refusing to hold more than limit entries.
func NewLimited[V any](limit int) *KeyMap[V] {
	return &KeyMap[V]{limit: limit}
}

// Hash is djb2.
func Hash(key string) uint32 {
	h := uint32(5381)

	for i := 0; i < len(key); i++ {
		h = h<<5 + h + uint32(key[i])
	}

	return h
}

func (m *KeyMap[V]) Insert(key string, v V) error {
	h := Hash(key)

	b, p := m.lookup(h)

	if b != nil {
		for e := b.chain; e != nil; e = e.next {
			if e.key == key {
				return ErrDuplicateKey
			}
		}
	}

	if m.limit != 0 && m.size >= m.limit {
		return ErrFull
	}

	if b == nil {
		b = &bucket[V]{hash: h, red: true, parent: p}

		switch {
		case p == nil:
			m.root = b
		case h < p.hash:
			p.left = b
		default:
			p.right = b
		}

		m.fixup(b)
	}

	b.chain = &entry[V]{key: key, val: v, next: b.chain}
	m.size++
	m.gen++

	return nil
}

func (m *KeyMap[V]) Find(key string) (v V, ok bool) {
	b, _ := m.lookup(Hash(key))
	if b == nil {
		return v, false
	}

	for e := b.chain; e != nil; e = e.next {
		if e.key == key {
			return e.val, true
		}
	}

	return v, false
}

func (m *KeyMap[V]) Size() int {
	return m.size
}

// Iterate returns a cursor over entries in bucket hash order.
// It invalidates cursors returned before.
func (m *KeyMap[V]) Iterate() *Cursor[V] {
	m.gen++

	return &Cursor[V]{
		m:    m,
		gen:  m.gen,
		node: m.root,
	}
}

func (m *KeyMap[V]) Destroy() {
	m.root = nil
	m.size = 0
	m.gen++
}

// lookup returns the bucket with hash h or the would-be parent of it.
func (m *KeyMap[V]) lookup(h uint32) (b, p *bucket[V]) {
	b = m.root

	for b != nil && b.hash != h {
		p = b

		if h < b.hash {
			b = b.left
		} else {
			b = b.right
		}
	}

	return b, p
}

func (m *KeyMap[V]) fixup(z *bucket[V]) {
	for z.parent != nil && z.parent.red {
		p := z.parent
		g := p.parent

		if p == g.left {
			if u := g.right; u != nil && u.red {
				p.red, u.red, g.red = false, false, true
				z = g

				continue
			}

			if z == p.right {
				z = p
				m.rotateLeft(z)
				p = z.parent
			}

			p.red, g.red = false, true
			m.rotateRight(g)
		} else {
			if u := g.left; u != nil && u.red {
				p.red, u.red, g.red = false, false, true
				z = g

				continue
			}

			if z == p.left {
				z = p
				m.rotateRight(z)
				p = z.parent
			}

			p.red, g.red = false, true
			m.rotateLeft(g)
		}
	}

	m.root.red = false
}

func (m *KeyMap[V]) rotateLeft(x *bucket[V]) {
	y := x.right

	x.right = y.left
	if y.left != nil {
		y.left.parent = x
	}

	m.replace(x, y)

	y.left = x
	x.parent = y
}

func (m *KeyMap[V]) rotateRight(x *bucket[V]) {
	y := x.left

	x.left = y.right
	if y.right != nil {
		y.right.parent = x
	}

	m.replace(x, y)

	y.right = x
	x.parent = y
}

func (m *KeyMap[V]) replace(x, y *bucket[V]) {
	y.parent = x.parent

	switch {
	case x.parent == nil:
		m.root = y
	case x == x.parent.left:
		x.parent.left = y
	default:
		x.parent.right = y
	}
}

// Next advances the cursor. It returns false at the end
// or if the map was modified or iterated again since the cursor was made.
func (c *Cursor[V]) Next() bool {
	if c.m == nil || c.gen != c.m.gen {
		return false
	}

	if c.e != nil {
		c.e = c.e.next
	}

	for c.e == nil {
		for c.node != nil {
			c.stack = append(c.stack, c.node)
			c.node = c.node.left
		}

		if len(c.stack) == 0 {
			return false
		}

		b := c.stack[len(c.stack)-1]
		c.stack = c.stack[:len(c.stack)-1]

		c.node = b.right
		c.e = b.chain
	}

	return true
}

func (c *Cursor[V]) Key() string {
	if c.e == nil {
		return ""
	}

	return c.e.key
}

func (c *Cursor[V]) Value() (v V) {
	if c.e == nil {
		return v
	}

	return c.e.val
}
