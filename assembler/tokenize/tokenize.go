package tokenize

import (
	"bufio"
	"context"
	"io"
	"os"
	"strings"

	"tlog.app/go/errors"
	"tlog.app/go/tlog"

	"github.com/HavokSahil/Assembler-CS2102/assembler/config"
	"github.com/HavokSahil/Assembler-CS2102/assembler/jar"
)

type (
	Tokenizer struct {
		r   *bufio.Reader
		cfg config.Config

		size int64 // -1 if unknown
		pos  int64
		line int

		done bool
	}

	sizer interface {
		Size() int64
	}

	stater interface {
		Stat() (os.FileInfo, error)
	}
)

const CommentSep = ';'

func New(r io.Reader, cfg config.Config) *Tokenizer {
	t := &Tokenizer{
		r:    bufio.NewReader(r),
		cfg:  cfg,
		size: -1,
	}

	switch r := r.(type) {
	case sizer:
		t.size = r.Size()
	case stater:
		if fi, err := r.Stat(); err == nil && fi.Mode().IsRegular() {
			t.size = fi.Size()
		}
	}

	return t
}

// FillBatch replaces b contents with jars from the next window of lines.
// done reports the stream is exhausted, b may still hold the last jars.
func (t *Tokenizer) FillBatch(ctx context.Context, b *jar.Batch) (done bool, err error) {
	b.Reset()

	if t.done {
		return true, nil
	}

	if err = ctx.Err(); err != nil {
		return false, err
	}

	st := t.line

	for n := 0; n < t.cfg.BatchWindow; n++ {
		s, err := t.r.ReadString('\n')
		t.pos += int64(len(s))

		if len(s) != 0 {
			t.line++

			if j, ok := Line(s, t.line, t.cfg.Limits); ok {
				b.Append(j)
			}
		}

		if errors.Is(err, io.EOF) {
			t.done = true
			break
		}
		if err != nil {
			return false, errors.Wrap(err, "read line %d", t.line+1)
		}
	}

	if tr := tlog.SpanFromContext(ctx); tr.If("batch") {
		tr.Printw("batch", "lines", t.line-st, "jars", b.Len(), "done", t.done, "progress", t.PercentageWorkDone())
	}

	return t.done, nil
}

func (t *Tokenizer) Done() bool { return t.done }

// Lines returns the number of lines consumed.
func (t *Tokenizer) Lines() int { return t.line }

func (t *Tokenizer) PercentageWorkDone() int {
	switch {
	case t.done:
		return 100
	case t.size <= 0:
		return 0
	}

	p := t.pos * 100 / t.size
	if p > 100 {
		p = 100
	}

	return int(p)
}

// Workers is reserved. Tokenization always runs on the caller goroutine.
func (t *Tokenizer) Workers() int {
	return t.cfg.Workers
}

// Ignorable reports blank lines and whole-line comments.
func Ignorable(s string) bool {
	i := Blank.Skip(s, 0)

	return i == len(s) || s[i] == CommentSep
}

// Line splits one source line into a jar.
// It returns false if the line carries nothing.
func Line(s string, line int, lim config.Limits) (*jar.Jar, bool) {
	if Ignorable(s) {
		return nil, false
	}

	j := &jar.Jar{Line: line}

	code := s

	if p := commentIndex(s); p >= 0 {
		code = s[:p]

		j.Tokens = append(j.Tokens, jar.Token{
			Kind: jar.Comment,
			Text: truncate(strings.TrimRight(s[p:], "\r\n"), lim.Comment),
			Line: line,
		})
	}

	label := isLabel(code)

	for i := Delims.Skip(code, 0); i < len(code); i = Delims.Skip(code, i) {
		end := Delims.Until(code, i)

		tk := jar.Token{
			Kind:   jar.Word,
			Line:   line,
			Column: len(j.Tokens) + 1,
		}

		if len(j.Tokens) != 0 && j.Tokens[0].Kind == jar.Comment {
			tk.Column--
		}

		if label && tk.Column == 1 {
			tk.Kind = jar.Label
			tk.Text = truncate(code[i:end], lim.Label)
		} else {
			tk.Text = truncate(code[i:end], lim.Word)
		}

		j.Tokens = append(j.Tokens, tk)

		i = end
	}

	if len(j.Tokens) == 0 {
		return nil, false
	}

	return j, true
}

func commentIndex(s string) int {
	for i := 0; i < len(s); i++ {
		if s[i] == CommentSep && (i == 0 || s[i-1] != '\\') {
			return i
		}
	}

	return -1
}

func isLabel(code string) bool {
	f := strings.Fields(code)

	return len(f) > 0 && strings.HasSuffix(f[0], ":") ||
		len(f) > 1 && strings.HasPrefix(f[1], ":")
}

func truncate(s string, n int) string {
	if n > 0 && len(s) > n {
		return s[:n]
	}

	return s
}
