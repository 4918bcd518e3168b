package lexer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func kindsOf(toks []Token) []TokKind {
	out := make([]TokKind, len(toks))
	for i, t := range toks {
		out[i] = t.Kind
	}
	return out
}

func TestScanEmptyInput(t *testing.T) {
	toks, err := New("").Scan()
	require.NoError(t, err)
	require.Len(t, toks, 1)
	assert.Equal(t, TokEOF, toks[0].Kind)
}

func TestScanDeclaration(t *testing.T) {
	toks, err := New("reads write counter = 50").Scan()
	require.NoError(t, err)
	assert.Equal(t,
		[]TokKind{TokReads, TokWrite, TokIdent, TokEq, TokInt, TokEOF},
		kindsOf(toks))
	assert.Equal(t, "counter", toks[2].Text)
	assert.Equal(t, "50", toks[4].Text)
}

func TestScanKeywordsVsIdentifiers(t *testing.T) {
	toks, err := New("clone peak consume cloned peaked").Scan()
	require.NoError(t, err)
	assert.Equal(t,
		[]TokKind{TokClone, TokPeak, TokConsume, TokIdent, TokIdent, TokEOF},
		kindsOf(toks))
}

func TestScanTwoCharOperators(t *testing.T) {
	toks, err := New("+= -> <= >= == !=").Scan()
	require.NoError(t, err)
	assert.Equal(t,
		[]TokKind{TokPlusEq, TokArrow, TokLe, TokGe, TokEqEq, TokBangEq, TokEOF},
		kindsOf(toks))
}

func TestScanPositions(t *testing.T) {
	toks, err := New("read r\n  r += 1").Scan()
	require.NoError(t, err)

	assert.Equal(t, 1, toks[0].Pos.Line)
	assert.Equal(t, 1, toks[0].Pos.Col)
	// second-line 'r' after two spaces
	assert.Equal(t, 2, toks[2].Pos.Line)
	assert.Equal(t, 3, toks[2].Pos.Col)
}

func TestScanSkipsComments(t *testing.T) {
	toks, err := New("read r = 1 // trailing note\n// full line\nprint r").Scan()
	require.NoError(t, err)
	assert.Equal(t,
		[]TokKind{TokRead, TokIdent, TokEq, TokInt, TokPrint, TokIdent, TokEOF},
		kindsOf(toks))
}

func TestScanStringLiteral(t *testing.T) {
	toks, err := New(`print "total"`).Scan()
	require.NoError(t, err)
	require.Len(t, toks, 3)
	assert.Equal(t, TokStr, toks[1].Kind)
	assert.Equal(t, "total", toks[1].Text)
}

func TestScanUnterminatedString(t *testing.T) {
	_, err := New(`print "oops`).Scan()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unterminated string")
}

func TestScanUnexpectedCharacter(t *testing.T) {
	_, err := New("read r = 1 ; print r").Scan()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unexpected character")
}
