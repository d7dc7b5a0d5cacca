package assembler

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"tlog.app/go/errors"

	"github.com/HavokSahil/Assembler-CS2102/assembler/config"
	"github.com/HavokSahil/Assembler-CS2102/assembler/decoder"
	"github.com/HavokSahil/Assembler-CS2102/assembler/diag"
)

const sumProgram = `; sum the numbers below n
.data
n:      data 5
limit:  SET 0x10

.text
main:   ldc 0
        stl 0           ; acc
        ldc n
        ldnl 0
        stl 1           ; i
loop:   ldl 1
        brz done
        ldl 0
        ldl 1
        add
        stl 0
        ldl 1
        adc -1
        stl 1
        br loop
done:   HALT
`

func TestAssemble(t *testing.T) {
	ctx := context.Background()

	a, err := New(config.Default())
	require.NoError(t, err)

	obj, err := a.Assemble(ctx, strings.NewReader(sumProgram))
	require.NoError(t, err)

	assert.False(t, a.Diagnostics.HasErrors())
	assert.Equal(t, 16, a.Instructions.Len())

	require.True(t, len(obj) > 20)
	assert.Equal(t, []byte("LSD\x80DATA\x00\x00\x00\x04\x00\x00\x00\x05TEXT"), obj[:20])
	assert.Equal(t, 20+4+4*16, len(obj))

	var b bytes.Buffer

	err = a.Listing(ctx, &b)
	require.NoError(t, err)
	assert.Contains(t, b.String(), "HALT")

	b.Reset()

	err = a.Report(&b, false)
	require.NoError(t, err)
	assert.Contains(t, b.String(), "0 errors")
}

func TestAssembleErrors(t *testing.T) {
	a, err := New(config.Default())
	require.NoError(t, err)

	obj, err := a.Assemble(context.Background(), strings.NewReader("main: ldc\nbr nowhere\n"))
	assert.True(t, errors.Is(err, decoder.ErrDecodeFailed))
	assert.Nil(t, obj)

	assert.Equal(t, 2, a.Diagnostics.Count(diag.Error))
}

func TestAssembleFile(t *testing.T) {
	name := filepath.Join(t.TempDir(), "sum.asm")

	err := os.WriteFile(name, []byte(sumProgram), 0o644)
	require.NoError(t, err)

	a, err := New(config.Default())
	require.NoError(t, err)

	obj, err := a.AssembleFile(context.Background(), name)
	require.NoError(t, err)
	assert.NotEmpty(t, obj)

	_, err = a.AssembleFile(context.Background(), filepath.Join(t.TempDir(), "missing.asm"))
	assert.Error(t, err)
}

func TestNewInvalidConfig(t *testing.T) {
	cfg := config.Default()
	cfg.BatchWindow = 0

	_, err := New(cfg)
	assert.Error(t, err)
}
