// Package types holds the value kinds of custod and a lenient unifier. The
// permission engine is deliberately type-agnostic; this pass only fills in
// the kinds the HIR converter and the interpreter need.
package types

import "strings"

type Kind int

const (
	Unknown Kind = iota
	I64
	Bool
	Str
	Unit
)

func (k Kind) String() string {
	switch k {
	case I64:
		return "i64"
	case Bool:
		return "bool"
	case Str:
		return "string"
	case Unit:
		return "unit"
	default:
		return "unknown"
	}
}

// FromName maps a textual type annotation to a kind.
func FromName(t string) Kind {
	switch strings.TrimSpace(strings.ToLower(t)) {
	case "", "unit", "void":
		return Unit
	case "i64", "int":
		return I64
	case "bool":
		return Bool
	case "string", "str":
		return Str
	default:
		return Unknown
	}
}

// Unify merges two kinds, treating Unknown as a wildcard.
func Unify(a, b Kind) (Kind, bool) {
	if a == Unknown {
		return b, true
	}
	if b == Unknown {
		return a, true
	}
	if a == b {
		return a, true
	}
	return Unknown, false
}
