package hir_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/var-che/custod-lang-sub000/compiler/internal/hir"
	"github.com/var-che/custod-lang-sub000/compiler/internal/parser"
	"github.com/var-che/custod-lang-sub000/compiler/internal/perm"
	"github.com/var-che/custod-lang-sub000/compiler/internal/types"
)

func convert(t *testing.T, src string) *hir.Program {
	t.Helper()
	prog, err := parser.Parse(src)
	require.NoError(t, err)
	return hir.Convert(prog)
}

func TestConvertDeclarationInfersKind(t *testing.T) {
	p := convert(t, "reads write counter = 50")
	require.Len(t, p.Stmts, 1)

	d, ok := p.Stmts[0].(*hir.Declaration)
	require.True(t, ok)
	assert.Equal(t, types.I64, d.Type)
	assert.Equal(t, perm.Set{perm.Reads, perm.Write}, d.Perms)
}

func TestConvertExplicitTypeWins(t *testing.T) {
	p := convert(t, "read flag: bool = true")
	d := p.Stmts[0].(*hir.Declaration)
	assert.Equal(t, types.Bool, d.Type)
}

func TestConvertComparisonIsBool(t *testing.T) {
	p := convert(t, `
read write a = 1
read ok = a < 2
`)
	d := p.Stmts[1].(*hir.Declaration)
	assert.Equal(t, types.Bool, d.Type)

	bin := d.Init.(*hir.Binary)
	assert.Equal(t, types.Bool, bin.Type)
}

func TestConvertCallKindFromReturn(t *testing.T) {
	p := convert(t, `
read write x = bump(1)
fn bump(read n: i64) -> i64 {
    return n
}
`)
	d := p.Stmts[0].(*hir.Declaration)
	assert.Equal(t, types.I64, d.Type)
}

func TestConvertPreservesShapes(t *testing.T) {
	p := convert(t, `
reads write c = 5
reads s = clone c
read r = peak c
reads write d = consume c
atomic {
    c += 1
}
`)
	require.Len(t, p.Stmts, 5)
	_, isClone := p.Stmts[1].(*hir.Declaration).Init.(*hir.Clone)
	assert.True(t, isClone)
	_, isPeak := p.Stmts[2].(*hir.Declaration).Init.(*hir.Peak)
	assert.True(t, isPeak)
	_, isConsume := p.Stmts[3].(*hir.Declaration).Init.(*hir.Consume)
	assert.True(t, isConsume)
	at, isAtomic := p.Stmts[4].(*hir.AtomicBlock)
	require.True(t, isAtomic)
	require.Len(t, at.Stmts, 1)
	_, isAssign := at.Stmts[0].(*hir.Assignment)
	assert.True(t, isAssign)
}
