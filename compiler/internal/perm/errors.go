package perm

import (
	"fmt"

	"github.com/var-che/custod-lang-sub000/compiler/internal/diag"
)

// ErrKind discriminates permission diagnostics. The checker accumulates
// these; it never aborts on the first one.
type ErrKind int

const (
	InvalidPermissionCombination ErrKind = iota
	UnknownBinding
	ReadPermissionMissing
	WritePermissionMissing
	NonShareableAliasViolation
	ExclusiveAliasViolation
	MultipleWriterConflict
	PeakRequiresReadPermission
	ArityMismatch
	ParameterCapabilityMismatch
	ConsumeViolation
)

// catalogKey maps a kind to its entry in the embedded diagnostics catalog.
func (k ErrKind) catalogKey() string {
	switch k {
	case InvalidPermissionCombination:
		return "invalid-permission-combination"
	case UnknownBinding:
		return "unknown-binding"
	case ReadPermissionMissing:
		return "read-permission-missing"
	case WritePermissionMissing:
		return "write-permission-missing"
	case NonShareableAliasViolation:
		return "non-shareable-alias-violation"
	case ExclusiveAliasViolation:
		return "exclusive-alias-violation"
	case MultipleWriterConflict:
		return "multiple-writer-conflict"
	case PeakRequiresReadPermission:
		return "peak-requires-read-permission"
	case ArityMismatch:
		return "arity-mismatch"
	case ParameterCapabilityMismatch:
		return "parameter-capability-mismatch"
	case ConsumeViolation:
		return "consume-violation"
	default:
		return ""
	}
}

func (k ErrKind) String() string { return k.catalogKey() }

// Error is one permission diagnostic. Pos is where the violation happened
// ("used here"); DeclPos, when known, is the offending binding's declaration
// site ("declared here").
type Error struct {
	Kind       ErrKind
	Msg        string
	Pos        diag.Pos
	DeclPos    diag.Pos
	Suggestion string
}

func (e *Error) Error() string {
	if e.Pos.Known() {
		return fmt.Sprintf("%d:%d: %s", e.Pos.Line, e.Pos.Col, e.Msg)
	}
	return e.Msg
}

// Errorf builds an Error with no position; callers attach positions with At.
func Errorf(kind ErrKind, format string, a ...any) *Error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, a...)}
}

// At returns e with its use position set. Mutates and returns the receiver;
// errors are single-owner values on the error path.
func (e *Error) At(p diag.Pos) *Error {
	e.Pos = p
	return e
}

// DeclaredAt attaches the binding's declaration site for two-location
// rendering.
func (e *Error) DeclaredAt(p diag.Pos) *Error {
	e.DeclPos = p
	return e
}

// Diagnostic converts the error into the renderer's shape, resolving its
// catalog code.
func (e *Error) Diagnostic() diag.Diagnostic {
	d := diag.Diagnostic{Pos: e.Pos, Msg: e.Msg, Suggestion: e.Suggestion}
	if ce, ok := diag.Lookup("perm", e.Kind.catalogKey()); ok {
		d.Code = ce.ID
		if d.Suggestion == "" {
			d.Suggestion = ce.Help
		}
	}
	if e.DeclPos.Known() {
		d.Notes = append(d.Notes, diag.Note{Pos: e.DeclPos, Msg: "declared here"})
	}
	return d
}
