package diag

import "fmt"

// Pos marks a 1-based line/column location in a file. The zero value means
// "no location available".
type Pos struct{ Line, Col int }

func (p Pos) Known() bool { return p.Line > 0 }

func (p Pos) String() string {
	if !p.Known() {
		return "?:?"
	}
	return fmt.Sprintf("%d:%d", p.Line, p.Col)
}

// Span marks a half-open range [Start, End) within a file.
type Span struct {
	Start Pos
	End   Pos
}

// Note is a secondary location attached to a diagnostic, e.g. the
// "declared here" companion to a "used here" error.
type Note struct {
	Pos Pos
	Msg string
}

// Diagnostic is a compiler message with an optional position, an optional
// catalog code, and optional notes/suggestion for the renderer.
type Diagnostic struct {
	Pos        Pos
	Code       string // e.g. "CPE0005"; empty if uncataloged
	Msg        string
	Notes      []Note
	Suggestion string
}

func (d Diagnostic) Error() string {
	if !d.Pos.Known() {
		return d.Msg
	}
	return fmt.Sprintf("%d:%d: %s", d.Pos.Line, d.Pos.Col, d.Msg)
}
