// Package build drives the compilation pipeline: source text through the
// lexer, parser, HIR conversion and the permission checker, and on to MIR
// only when the program is clean.
package build

import (
	"fmt"
	"os"

	"github.com/var-che/custod-lang-sub000/compiler/internal/check"
	"github.com/var-che/custod-lang-sub000/compiler/internal/diag"
	"github.com/var-che/custod-lang-sub000/compiler/internal/hir"
	"github.com/var-che/custod-lang-sub000/compiler/internal/lower"
	"github.com/var-che/custod-lang-sub000/compiler/internal/parser"
	"github.com/var-che/custod-lang-sub000/compiler/internal/perm"
)

// Result is one file's trip through the front half of the pipeline.
type Result struct {
	File    string
	Source  string
	Program *hir.Program
	Errors  []*perm.Error
	Checker *check.Checker
}

// Clean reports whether the file passed permission checking.
func (r *Result) Clean() bool { return len(r.Errors) == 0 }

// CheckFile loads and checks one source file.
func CheckFile(path string) (*Result, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return CheckSource(path, string(data))
}

// CheckSource checks source text under a display name. A parse failure is
// returned as the error; permission diagnostics land in Result.Errors.
func CheckSource(name, src string) (*Result, error) {
	prog, err := parser.Parse(src)
	if err != nil {
		return nil, err
	}
	h := hir.Convert(prog)
	c := check.New()
	errs := c.Check(h)
	return &Result{
		File:    name,
		Source:  src,
		Program: h,
		Errors:  errs,
		Checker: c,
	}, nil
}

// Lower translates a clean result to MIR. A result with outstanding
// permission errors is refused; nothing past the checker may observe an
// ill-permissioned program.
func (r *Result) Lower() (*lower.Program, error) {
	if !r.Clean() {
		return nil, fmt.Errorf("%s: %d unresolved permission error(s)", r.File, len(r.Errors))
	}
	return lower.Lower(r.Program), nil
}

// Diagnostics renders the result's permission errors, honoring the
// max-errors cap.
func (r *Result) Diagnostics(cfg Config) string {
	ds := make([]diag.Diagnostic, 0, len(r.Errors))
	for i, e := range r.Errors {
		if cfg.MaxErrors > 0 && i >= cfg.MaxErrors {
			break
		}
		ds = append(ds, e.Diagnostic())
	}
	return diag.RenderAll(r.File, r.Source, ds)
}
