package tokenize

type Spaces uint64

var (
	Blank = NewSpaces(' ', '\t', '\r', '\n', '\v', '\f')

	// Delims separate tokens.
	Delims = NewSpaces(' ', '\t', '\r', '\n', ':', ',')
)

func NewSpaces(skip ...byte) (ss Spaces) {
	for _, q := range skip {
		if q >= 64 {
			panic("too high char code")
		}

		ss |= 1 << q
	}

	return
}

func (s Spaces) Is(c byte) bool {
	return c < 64 && s&(1<<c) != 0
}

func (s Spaces) Skip(b string, st int) (i int) {
	i = st

	for i < len(b) && s.Is(b[i]) {
		i++
	}

	return
}

// Until returns the index of the first space at or after st.
func (s Spaces) Until(b string, st int) (i int) {
	i = st

	for i < len(b) && !s.Is(b[i]) {
		i++
	}

	return
}
