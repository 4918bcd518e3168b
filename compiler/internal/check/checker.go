// Package check is the static permission engine: it walks the HIR once per
// pass, consults the capability model for every declaration, and drives the
// alias table for every aliasing expression and access. It accumulates
// diagnostics instead of stopping at the first failure, so one run reports
// every problem it can find.
package check

import (
	"github.com/var-che/custod-lang-sub000/compiler/internal/alias"
	"github.com/var-che/custod-lang-sub000/compiler/internal/hir"
	"github.com/var-che/custod-lang-sub000/compiler/internal/perm"
)

type Checker struct {
	table *alias.Table
	funcs map[string]*Signature
	errs  []*perm.Error
}

func New() *Checker {
	return &Checker{
		table: alias.NewTable(),
		funcs: map[string]*Signature{},
	}
}

// CheckProgram verifies a whole program and returns its diagnostics in
// source order. An empty slice means the program is accepted.
func CheckProgram(p *hir.Program) []*perm.Error {
	return New().Check(p)
}

// Check runs both passes, function signatures first and then every
// statement, leaving the alias table and history inspectable afterwards.
func (c *Checker) Check(p *hir.Program) []*perm.Error {
	c.collectSignatures(p.Stmts)
	for _, s := range p.Stmts {
		c.checkStmt(s)
	}
	return c.errs
}

// Errors returns the diagnostics accumulated so far.
func (c *Checker) Errors() []*perm.Error { return c.errs }

// Table exposes the alias table for the `custodc hir --aliases` dump.
func (c *Checker) Table() *alias.Table { return c.table }

func (c *Checker) report(err *perm.Error) {
	if err != nil {
		c.errs = append(c.errs, err)
	}
}
