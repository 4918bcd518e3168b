package lexer

import (
	"fmt"

	"github.com/var-che/custod-lang-sub000/compiler/internal/diag"
)

// Lexer scans custod source into tokens. Whitespace and // comments are
// skipped; statements are delimited syntactically, not by newlines.
type Lexer struct {
	src  string
	off  int
	line int
	col  int
}

func New(src string) *Lexer {
	return &Lexer{src: src, line: 1, col: 1}
}

// Scan tokenizes the whole input. The token stream always ends with TokEOF.
func (lx *Lexer) Scan() ([]Token, error) {
	var toks []Token
	for {
		tok, err := lx.next()
		if err != nil {
			return toks, err
		}
		toks = append(toks, tok)
		if tok.Kind == TokEOF {
			return toks, nil
		}
	}
}

func (lx *Lexer) next() (Token, error) {
	lx.skipSpace()
	start := diag.Pos{Line: lx.line, Col: lx.col}

	if lx.off >= len(lx.src) {
		return Token{Kind: TokEOF, Pos: start}, nil
	}

	c := lx.src[lx.off]
	switch {
	case isIdentStart(c):
		word := lx.word()
		if kind, ok := keywords[word]; ok {
			return Token{Kind: kind, Text: word, Pos: start}, nil
		}
		return Token{Kind: TokIdent, Text: word, Pos: start}, nil

	case c >= '0' && c <= '9':
		begin := lx.off
		for lx.off < len(lx.src) && lx.src[lx.off] >= '0' && lx.src[lx.off] <= '9' {
			lx.advance()
		}
		return Token{Kind: TokInt, Text: lx.src[begin:lx.off], Pos: start}, nil

	case c == '"':
		lx.advance()
		begin := lx.off
		for lx.off < len(lx.src) && lx.src[lx.off] != '"' && lx.src[lx.off] != '\n' {
			lx.advance()
		}
		if lx.off >= len(lx.src) || lx.src[lx.off] != '"' {
			return Token{}, fmt.Errorf("%d:%d: unterminated string literal", start.Line, start.Col)
		}
		text := lx.src[begin:lx.off]
		lx.advance() // closing quote
		return Token{Kind: TokStr, Text: text, Pos: start}, nil
	}

	// operators and punctuation
	two := ""
	if lx.off+1 < len(lx.src) {
		two = lx.src[lx.off : lx.off+2]
	}
	switch two {
	case "+=":
		lx.advance2()
		return Token{Kind: TokPlusEq, Text: two, Pos: start}, nil
	case "->":
		lx.advance2()
		return Token{Kind: TokArrow, Text: two, Pos: start}, nil
	case "<=":
		lx.advance2()
		return Token{Kind: TokLe, Text: two, Pos: start}, nil
	case ">=":
		lx.advance2()
		return Token{Kind: TokGe, Text: two, Pos: start}, nil
	case "==":
		lx.advance2()
		return Token{Kind: TokEqEq, Text: two, Pos: start}, nil
	case "!=":
		lx.advance2()
		return Token{Kind: TokBangEq, Text: two, Pos: start}, nil
	}

	single := map[byte]TokKind{
		'=': TokEq, '+': TokPlus, '-': TokMinus, '*': TokStar,
		'/': TokSlash, '%': TokPercent, '<': TokLt, '>': TokGt,
		'(': TokLParen, ')': TokRParen, '{': TokLBrace, '}': TokRBrace,
		':': TokColon, ',': TokComma,
	}
	if kind, ok := single[c]; ok {
		lx.advance()
		return Token{Kind: kind, Text: string(c), Pos: start}, nil
	}

	return Token{}, fmt.Errorf("%d:%d: unexpected character %q", start.Line, start.Col, string(c))
}

func (lx *Lexer) skipSpace() {
	for lx.off < len(lx.src) {
		c := lx.src[lx.off]
		if c == ' ' || c == '\t' || c == '\r' || c == '\n' {
			lx.advance()
			continue
		}
		if c == '/' && lx.off+1 < len(lx.src) && lx.src[lx.off+1] == '/' {
			for lx.off < len(lx.src) && lx.src[lx.off] != '\n' {
				lx.advance()
			}
			continue
		}
		return
	}
}

func (lx *Lexer) word() string {
	begin := lx.off
	for lx.off < len(lx.src) && isIdentPart(lx.src[lx.off]) {
		lx.advance()
	}
	return lx.src[begin:lx.off]
}

func (lx *Lexer) advance() {
	if lx.src[lx.off] == '\n' {
		lx.line++
		lx.col = 1
	} else {
		lx.col++
	}
	lx.off++
}

func (lx *Lexer) advance2() { lx.advance(); lx.advance() }

func isIdentStart(c byte) bool {
	return c == '_' || c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z'
}

func isIdentPart(c byte) bool {
	return isIdentStart(c) || c >= '0' && c <= '9'
}
