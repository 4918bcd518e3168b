package check_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/var-che/custod-lang-sub000/compiler/internal/check"
	"github.com/var-che/custod-lang-sub000/compiler/internal/hir"
	"github.com/var-che/custod-lang-sub000/compiler/internal/parser"
	"github.com/var-che/custod-lang-sub000/compiler/internal/perm"
)

// checkSrc parses, converts and checks one program, failing the test on
// syntax errors; permission diagnostics are the return value.
func checkSrc(t *testing.T, src string) []*perm.Error {
	t.Helper()
	prog, err := parser.Parse(src)
	require.NoError(t, err, "syntax")
	return check.CheckProgram(hir.Convert(prog))
}

func kinds(errs []*perm.Error) []perm.ErrKind {
	out := make([]perm.ErrKind, len(errs))
	for i, e := range errs {
		out[i] = e.Kind
	}
	return out
}

func TestCleanProgramHasNoDiagnostics(t *testing.T) {
	errs := checkSrc(t, `
reads write counter = 50
counter += 5
reads cloned = clone counter
counter += 5
print counter
print cloned
`)
	assert.Empty(t, errs)
}

func TestExclusiveWriteAliasRejected(t *testing.T) {
	errs := checkSrc(t, `
read write x = 1
write y = x
`)
	require.Len(t, errs, 1)
	assert.Equal(t, perm.ExclusiveAliasViolation, errs[0].Kind)
	assert.True(t, errs[0].Pos.Known())
	assert.True(t, errs[0].DeclPos.Known())
}

func TestExclusiveReadBorrowAccepted(t *testing.T) {
	errs := checkSrc(t, `
read write x = 1
read y = x
print y
`)
	assert.Empty(t, errs)
}

func TestReadsAliasDemandsCloneKeyword(t *testing.T) {
	errs := checkSrc(t, `
reads write counter = 50
reads cloned = counter
`)
	require.Len(t, errs, 1)
	assert.Equal(t, perm.NonShareableAliasViolation, errs[0].Kind)
	assert.Contains(t, errs[0].Msg, "must use the 'clone' keyword when creating a reads alias: cloned = clone counter")
	assert.Equal(t, "cloned = clone counter", errs[0].Suggestion)
}

func TestCloneSatisfiesReadsDeclaration(t *testing.T) {
	errs := checkSrc(t, `
reads write counter = 50
reads cloned = clone counter
`)
	assert.Empty(t, errs)
}

func TestOwnerSharedSecondWriterRejected(t *testing.T) {
	errs := checkSrc(t, `
reads write c = 5
write w = c
`)
	require.Len(t, errs, 1)
	assert.Equal(t, perm.MultipleWriterConflict, errs[0].Kind)
}

func TestOwnerSharedAdmitsManyReaders(t *testing.T) {
	errs := checkSrc(t, `
reads write c = 5
read a = c
read d = c
print a
print d
`)
	assert.Empty(t, errs)
}

func TestCloneOfExclusiveSatisfiesReads(t *testing.T) {
	errs := checkSrc(t, `
read write x = 1
reads y = clone x
print y
`)
	assert.Empty(t, errs)
}

func TestFullySharedAdmitsManyWriters(t *testing.T) {
	errs := checkSrc(t, `
reads writes a = 1
reads writes b = a
reads writes c = a
b = 2
c = 3
print a
`)
	assert.Empty(t, errs)
}

func TestWriteOnlyCannotReadItself(t *testing.T) {
	// += desugars to a read of the target on the right-hand side.
	errs := checkSrc(t, `
write w = 5
w += 1
`)
	require.Len(t, errs, 1)
	assert.Equal(t, perm.ReadPermissionMissing, errs[0].Kind)
}

func TestWriteOnlyCannotBePrinted(t *testing.T) {
	errs := checkSrc(t, `
write w = 5
print w
`)
	require.Len(t, errs, 1)
	assert.Equal(t, perm.ReadPermissionMissing, errs[0].Kind)
}

func TestReadOnlyCannotBeAssigned(t *testing.T) {
	errs := checkSrc(t, `
read write src = 1
read r = src
r = 2
`)
	require.Len(t, errs, 1)
	assert.Equal(t, perm.WritePermissionMissing, errs[0].Kind)
}

func TestUnknownBindingReported(t *testing.T) {
	errs := checkSrc(t, `print ghost`)
	require.Len(t, errs, 1)
	assert.Equal(t, perm.UnknownBinding, errs[0].Kind)
}

func TestInvalidCombinationReportedAtDeclaration(t *testing.T) {
	errs := checkSrc(t, `read writes x = 1`)
	require.Len(t, errs, 1)
	assert.Equal(t, perm.InvalidPermissionCombination, errs[0].Kind)
}

func TestPeakRequiresReadableSource(t *testing.T) {
	errs := checkSrc(t, `
write w = 5
read r = peak w
`)
	require.Len(t, errs, 1)
	assert.Equal(t, perm.PeakRequiresReadPermission, errs[0].Kind)
}

func TestPeakGrantsReadOnlyView(t *testing.T) {
	errs := checkSrc(t, `
reads write c = 5
read r = peak c
print r
`)
	assert.Empty(t, errs)
}

func TestPeakViewCannotTakeWriteAccess(t *testing.T) {
	errs := checkSrc(t, `
reads write c = 5
read write r = peak c
`)
	require.Len(t, errs, 1)
	assert.Equal(t, perm.PeakRequiresReadPermission, errs[0].Kind)
}

func TestConsumeMovesOwnerShared(t *testing.T) {
	errs := checkSrc(t, `
reads write c = 5
reads write d = consume c
print d
`)
	assert.Empty(t, errs)
}

func TestConsumeRejectsExclusive(t *testing.T) {
	errs := checkSrc(t, `
read write x = 1
read write y = consume x
`)
	require.Len(t, errs, 1)
	assert.Equal(t, perm.ConsumeViolation, errs[0].Kind)
}

func TestScopeExitReleasesAliases(t *testing.T) {
	// The write borrow inside the block dies with the block, so a later
	// borrow in a sibling block is fine.
	errs := checkSrc(t, `
reads writes shared = 1
{
    reads writes a = shared
    a = 2
}
{
    reads writes b = shared
    b = 3
}
print shared
`)
	assert.Empty(t, errs)
}

func TestAtomicBlockScopesLikePlainBlock(t *testing.T) {
	errs := checkSrc(t, `
reads write c = 1
atomic {
    c += 1
}
print c
`)
	assert.Empty(t, errs)
}

func TestFailedDeclarationDoesNotCascade(t *testing.T) {
	// The alias is rejected, but later uses of the name check against its
	// declared set instead of piling on unknown-binding noise.
	errs := checkSrc(t, `
read write x = 1
write y = x
y = 2
`)
	require.Len(t, errs, 1)
	assert.Equal(t, perm.ExclusiveAliasViolation, errs[0].Kind)
}

func TestCheckerAccumulatesAcrossStatements(t *testing.T) {
	errs := checkSrc(t, `
write w = 5
print w
print ghost
`)
	assert.ElementsMatch(t,
		[]perm.ErrKind{perm.ReadPermissionMissing, perm.UnknownBinding},
		kinds(errs))
}

func TestCheckIsDeterministic(t *testing.T) {
	src := `
read write x = 1
write y = x
print ghost
`
	first := checkSrc(t, src)
	second := checkSrc(t, src)
	require.Equal(t, len(first), len(second))
	for i := range first {
		assert.Equal(t, first[i].Kind, second[i].Kind)
		assert.Equal(t, first[i].Msg, second[i].Msg)
	}
}

func TestFunctionParamsScopeToBody(t *testing.T) {
	errs := checkSrc(t, `
fn twice(read write n: i64) -> i64 {
    return n + n
}
print n
`)
	require.Len(t, errs, 1)
	assert.Equal(t, perm.UnknownBinding, errs[0].Kind)
}

func TestBehaviorBodyIsChecked(t *testing.T) {
	errs := checkSrc(t, `
on tick(read write n: i64) -> i64 {
    print ghost
    return n
}
`)
	require.Len(t, errs, 1)
	assert.Equal(t, perm.UnknownBinding, errs[0].Kind)
}
