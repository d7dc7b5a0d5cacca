package keymap

import (
	"fmt"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"tlog.app/go/errors"
)

func TestInsertFind(t *testing.T) {
	m := New[int]()

	for i := 0; i < 100; i++ {
		err := m.Insert(fmt.Sprintf("key%d", i), i)
		require.NoError(t, err)
	}

	assert.Equal(t, 100, m.Size())

	for i := 0; i < 100; i++ {
		v, ok := m.Find(fmt.Sprintf("key%d", i))
		if assert.True(t, ok, "key%d", i) {
			assert.Equal(t, i, v)
		}
	}

	_, ok := m.Find("key100")
	assert.False(t, ok)

	audit(t, m)
}

func TestDuplicate(t *testing.T) {
	m := New[string]()

	require.NoError(t, m.Insert("main", "first"))

	err := m.Insert("main", "second")
	assert.True(t, errors.Is(err, ErrDuplicateKey))
	assert.Equal(t, 1, m.Size())

	v, ok := m.Find("main")
	assert.True(t, ok)
	assert.Equal(t, "first", v)
}

func TestCollision(t *testing.T) {
	require.Equal(t, Hash("Ez"), Hash("FY"))

	m := New[int]()

	require.NoError(t, m.Insert("Ez", 1))
	require.NoError(t, m.Insert("FY", 2))
	require.NoError(t, m.Insert("other", 3))

	assert.Equal(t, 3, m.Size())

	b, _ := m.lookup(Hash("Ez"))
	require.NotNil(t, b)

	n := 0
	for e := b.chain; e != nil; e = e.next {
		n++
	}

	assert.Equal(t, 2, n, "colliding keys share a bucket")

	v, ok := m.Find("Ez")
	assert.True(t, ok)
	assert.Equal(t, 1, v)

	v, ok = m.Find("FY")
	assert.True(t, ok)
	assert.Equal(t, 2, v)

	assert.True(t, errors.Is(m.Insert("FY", 4), ErrDuplicateKey))

	audit(t, m)
}

func TestLimited(t *testing.T) {
	m := NewLimited[int](2)

	require.NoError(t, m.Insert("a", 1))
	require.NoError(t, m.Insert("b", 2))

	err := m.Insert("c", 3)
	assert.True(t, errors.Is(err, ErrFull))
	assert.Equal(t, 2, m.Size())

	err = m.Insert("a", 4)
	assert.True(t, errors.Is(err, ErrDuplicateKey), "duplicate is reported before capacity")
}

func TestRandomized(t *testing.T) {
	rnd := rand.New(rand.NewSource(1))

	m := New[int]()
	want := map[string]int{}

	for i := 0; i < 2000; i++ {
		k := fmt.Sprintf("%x", rnd.Intn(1500))

		err := m.Insert(k, i)

		if _, ok := want[k]; ok {
			assert.True(t, errors.Is(err, ErrDuplicateKey))
			continue
		}

		require.NoError(t, err)
		want[k] = i
	}

	assert.Equal(t, len(want), m.Size())

	for k, v := range want {
		got, ok := m.Find(k)
		assert.True(t, ok, k)
		assert.Equal(t, v, got, k)
	}

	audit(t, m)

	seen := map[string]int{}
	var last uint32

	for c := m.Iterate(); c.Next(); {
		h := Hash(c.Key())
		assert.LessOrEqual(t, last, h, "in-order by hash")
		last = h

		seen[c.Key()] = c.Value()
	}

	assert.Equal(t, want, seen)
}

func TestCursor(t *testing.T) {
	m := New[int]()

	c := m.Iterate()
	assert.False(t, c.Next(), "empty map")

	for i, k := range []string{"x", "y", "z"} {
		require.NoError(t, m.Insert(k, i))
	}

	assert.False(t, c.Next(), "cursor made before insert")

	first := m.Iterate()
	require.True(t, first.Next())

	second := m.Iterate()
	assert.False(t, first.Next(), "superseded by a new cursor")

	n := 0
	for second.Next() {
		n++
	}

	assert.Equal(t, 3, n)
	assert.False(t, second.Next(), "finite")

	n = 0
	for c := m.Iterate(); c.Next(); {
		n++
	}

	assert.Equal(t, 3, n, "restartable")

	m.Destroy()
	assert.Equal(t, 0, m.Size())

	_, ok := m.Find("x")
	assert.False(t, ok)
	assert.False(t, m.Iterate().Next())
}

func audit[V any](t *testing.T, m *KeyMap[V]) {
	t.Helper()

	if m.root == nil {
		return
	}

	require.False(t, m.root.red, "root is black")
	require.Nil(t, m.root.parent)

	var walk func(b *bucket[V], lo, hi uint64) int

	walk = func(b *bucket[V], lo, hi uint64) int {
		if b == nil {
			return 1
		}

		require.True(t, uint64(b.hash) >= lo && uint64(b.hash) < hi, "order")
		require.NotNil(t, b.chain, "bucket has entries")

		if b.red {
			require.False(t, b.left != nil && b.left.red, "red-red")
			require.False(t, b.right != nil && b.right.red, "red-red")
		}

		if b.left != nil {
			require.True(t, b.left.parent == b, "parent link")
		}

		if b.right != nil {
			require.True(t, b.right.parent == b, "parent link")
		}

		l := walk(b.left, lo, uint64(b.hash))
		r := walk(b.right, uint64(b.hash)+1, hi)

		require.Equal(t, l, r, "black height")

		if !b.red {
			l++
		}

		return l
	}

	walk(m.root, 0, 1<<32)
}
