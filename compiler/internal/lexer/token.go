package lexer

import "github.com/var-che/custod-lang-sub000/compiler/internal/diag"

// TokKind enumerates token kinds produced by the lexer.
type TokKind int

const (
	// Special
	TokEOF TokKind = iota

	// Literals/identifiers
	TokIdent
	TokInt
	TokStr

	// Keywords
	TokFn
	TokOn
	TokAtomic
	TokPrint
	TokReturn
	TokRead
	TokWrite
	TokReads
	TokWrites
	TokClone
	TokPeak
	TokConsume
	TokTrue
	TokFalse

	// Operators/punctuation
	TokEq         // =
	TokPlusEq     // +=
	TokPlus       // +
	TokMinus      // -
	TokStar       // *
	TokSlash      // /
	TokPercent    // %
	TokLt         // <
	TokLe         // <=
	TokGt         // >
	TokGe         // >=
	TokEqEq       // ==
	TokBangEq     // !=
	TokLParen     // (
	TokRParen     // )
	TokLBrace     // {
	TokRBrace     // }
	TokColon      // :
	TokComma      // ,
	TokArrow      // ->
)

var keywords = map[string]TokKind{
	"fn":      TokFn,
	"on":      TokOn,
	"atomic":  TokAtomic,
	"print":   TokPrint,
	"return":  TokReturn,
	"read":    TokRead,
	"write":   TokWrite,
	"reads":   TokReads,
	"writes":  TokWrites,
	"clone":   TokClone,
	"peak":    TokPeak,
	"consume": TokConsume,
	"true":    TokTrue,
	"false":   TokFalse,
}

func (k TokKind) String() string {
	switch k {
	case TokEOF:
		return "EOF"
	case TokIdent:
		return "identifier"
	case TokInt:
		return "integer"
	case TokStr:
		return "string"
	case TokEq:
		return "'='"
	case TokPlusEq:
		return "'+='"
	case TokArrow:
		return "'->'"
	case TokLParen:
		return "'('"
	case TokRParen:
		return "')'"
	case TokLBrace:
		return "'{'"
	case TokRBrace:
		return "'}'"
	case TokColon:
		return "':'"
	case TokComma:
		return "','"
	default:
		for text, kind := range keywords {
			if kind == k {
				return "'" + text + "'"
			}
		}
		return "operator"
	}
}

// Token is one lexeme with its source position.
type Token struct {
	Kind TokKind
	Text string
	Pos  diag.Pos
}
