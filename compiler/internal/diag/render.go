package diag

import (
	"strings"

	"github.com/fatih/color"

	"github.com/var-che/custod-lang-sub000/compiler/internal/term"
)

var (
	errorStyle   = color.New(color.FgRed, color.Bold)
	gutterStyle  = color.New(color.FgHiBlue, color.Bold)
	fileStyle    = color.New(color.FgCyan, color.Bold)
	squiggle     = color.New(color.FgRed, color.Bold)
	noteStyle    = color.New(color.FgHiBlack)
	helpStyle    = color.New(color.FgGreen, color.Bold)
	messageStyle = color.New(color.FgWhite, color.Bold)
)

// Render formats one diagnostic against its source text, rustc-style:
// header, file anchor, offending line with a squiggle underline, then any
// secondary notes ("declared here") and the suggestion.
func Render(filename, source string, d Diagnostic) string {
	var b strings.Builder

	head := "error"
	if d.Code != "" {
		head = "error[" + d.Code + "]"
	}
	term.Bprintf(&b, "%s: %s\n", errorStyle.Sprint(head), messageStyle.Sprint(d.Msg))

	lines := strings.Split(source, "\n")
	if d.Pos.Known() {
		term.Bprintf(&b, " %s %s\n", gutterStyle.Sprint("-->"), fileStyle.Sprintf("%s:%d:%d", filename, d.Pos.Line, d.Pos.Col))
		writeSnippet(&b, lines, d.Pos, squiggle)
	}

	for _, n := range d.Notes {
		if n.Pos.Known() {
			term.Bprintf(&b, " %s %s (%s:%d:%d)\n", gutterStyle.Sprint("="), noteStyle.Sprint(n.Msg), filename, n.Pos.Line, n.Pos.Col)
			writeSnippet(&b, lines, n.Pos, noteStyle)
		} else {
			term.Bprintf(&b, " %s %s\n", gutterStyle.Sprint("="), noteStyle.Sprint(n.Msg))
		}
	}
	if d.Suggestion != "" {
		term.Bprintf(&b, " %s %s\n", gutterStyle.Sprint("="), helpStyle.Sprint("help: "+d.Suggestion))
	}
	return b.String()
}

// RenderAll formats a batch of diagnostics in order, blank-line separated.
func RenderAll(filename, source string, ds []Diagnostic) string {
	var b strings.Builder
	for i, d := range ds {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(Render(filename, source, d))
	}
	return b.String()
}

func writeSnippet(b *strings.Builder, lines []string, p Pos, style *color.Color) {
	if p.Line < 1 || p.Line > len(lines) {
		return
	}
	line := strings.TrimRight(lines[p.Line-1], "\r")
	gutter := gutterStyle.Sprintf("%4d |", p.Line)
	term.Bprintf(b, "%s %s\n", gutter, line)

	col := p.Col
	if col < 1 {
		col = 1
	}
	if col > len(line)+1 {
		col = len(line) + 1
	}
	width := tokenWidth(line, col-1)
	term.Bprintf(b, "%s %s%s\n", gutterStyle.Sprint("     |"), strings.Repeat(" ", col-1), style.Sprint(strings.Repeat("~", width)))
}

// tokenWidth measures the identifier-ish run starting at byte offset off,
// so the squiggle covers the whole offending name rather than one column.
func tokenWidth(line string, off int) int {
	if off >= len(line) {
		return 1
	}
	n := 0
	for _, r := range line[off:] {
		if r != '_' && !isAlnum(r) {
			break
		}
		n++
	}
	if n == 0 {
		return 1
	}
	return n
}

func isAlnum(r rune) bool {
	return r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9'
}
