package interp_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/var-che/custod-lang-sub000/compiler/internal/check"
	"github.com/var-che/custod-lang-sub000/compiler/internal/hir"
	"github.com/var-che/custod-lang-sub000/compiler/internal/interp"
	"github.com/var-che/custod-lang-sub000/compiler/internal/lower"
	"github.com/var-che/custod-lang-sub000/compiler/internal/parser"
)

// runSrc pushes a program through the whole pipeline and returns the machine
// and its captured output. The program must check clean.
func runSrc(t *testing.T, src string) (*interp.Machine, string) {
	t.Helper()
	prog, err := parser.Parse(src)
	require.NoError(t, err)
	h := hir.Convert(prog)
	require.Empty(t, check.CheckProgram(h), "program must check clean")

	var out strings.Builder
	m := interp.New(&out)
	require.NoError(t, m.Run(lower.Lower(h)))
	return m, out.String()
}

func value(t *testing.T, m *interp.Machine, name string) int64 {
	t.Helper()
	v, ok := m.Value(name)
	require.True(t, ok, "binding %q", name)
	return v
}

func TestCloneDecouplesFromSource(t *testing.T) {
	m, out := runSrc(t, `
reads write counter = 50
counter += 5
reads cloned = clone counter
counter += 5
print counter
print cloned
`)
	assert.Equal(t, int64(60), value(t, m, "counter"))
	assert.Equal(t, int64(55), value(t, m, "cloned"))
	assert.Equal(t, "60\n55\n", out)
	assert.False(t, m.SameCell("counter", "cloned"))
}

func TestSharedWriteAliasesOneCell(t *testing.T) {
	m, _ := runSrc(t, `
reads writes a = 1
reads writes b = a
b = 5
`)
	assert.True(t, m.SameCell("a", "b"))
	assert.Equal(t, int64(5), value(t, m, "a"))
}

func TestPeakViewTracksSource(t *testing.T) {
	m, out := runSrc(t, `
reads write c = 5
read r = peak c
c += 1
print r
`)
	assert.True(t, m.SameCell("c", "r"))
	assert.Equal(t, "6\n", out)
}

func TestArithmeticAndPrecedence(t *testing.T) {
	m, _ := runSrc(t, `
read write x = 1 + 2 * 3
read write y = (10 - 4) / 3
read write z = 10 % 4
`)
	assert.Equal(t, int64(7), value(t, m, "x"))
	assert.Equal(t, int64(2), value(t, m, "y"))
	assert.Equal(t, int64(2), value(t, m, "z"))
}

func TestComparisonYieldsZeroOrOne(t *testing.T) {
	m, _ := runSrc(t, `
read write lt = 1 < 2
read write ge = 1 >= 2
`)
	assert.Equal(t, int64(1), value(t, m, "lt"))
	assert.Equal(t, int64(0), value(t, m, "ge"))
}

func TestFunctionCallReturnsValue(t *testing.T) {
	m, out := runSrc(t, `
fn add(read a: i64, read b: i64) -> i64 {
    return a + b
}
read write x = 2
read write y = 3
read write sum = add(x, y)
print sum
`)
	assert.Equal(t, int64(5), value(t, m, "sum"))
	assert.Equal(t, "5\n", out)
}

func TestSharedParamWritesBackToCaller(t *testing.T) {
	m, _ := runSrc(t, `
fn bump(reads write n: i64) -> i64 {
    n += 1
    return n
}
reads write c = 5
bump(c)
`)
	assert.Equal(t, int64(6), value(t, m, "c"))
}

func TestBlockScopedNamesVanish(t *testing.T) {
	m, _ := runSrc(t, `
reads write keep = 1
{
    read write inner = 2
    keep += inner
}
`)
	assert.Equal(t, int64(3), value(t, m, "keep"))
	_, ok := m.Value("inner")
	assert.False(t, ok)
}

func TestAtomicBlockExecutes(t *testing.T) {
	m, _ := runSrc(t, `
reads write c = 1
atomic {
    c += 41
}
`)
	assert.Equal(t, int64(42), value(t, m, "c"))
}

func TestPrintString(t *testing.T) {
	_, out := runSrc(t, `print "total"`)
	assert.Equal(t, "total\n", out)
}

func TestConsumeTransfersValue(t *testing.T) {
	m, _ := runSrc(t, `
reads write c = 5
reads write d = consume c
d += 1
`)
	assert.Equal(t, int64(6), value(t, m, "d"))
}

func TestDivisionByZeroIsRuntimeError(t *testing.T) {
	prog, err := parser.Parse(`
read write x = 1
read write y = 0
read write z = x / y
`)
	require.NoError(t, err)
	h := hir.Convert(prog)
	require.Empty(t, check.CheckProgram(h))

	m := interp.New(&strings.Builder{})
	err = m.Run(lower.Lower(h))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "division by zero")
}
