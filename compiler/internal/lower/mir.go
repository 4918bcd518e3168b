// Package lower translates checked HIR into the flat MIR instruction form.
// Permissions are erased here: the Read/Write barrier instructions are
// informational markers for later backends and perform no checking.
package lower

import (
	"strings"

	"github.com/var-che/custod-lang-sub000/compiler/internal/term"
)

/* ---------- values ---------- */

type Value interface{ mirValue() }

// Num is an i64 immediate.
type Num int64

func (Num) mirValue() {}

// Str is a string immediate (print-only).
type Str string

func (Str) mirValue() {}

// Temp names a virtual register.
type Temp int

func (Temp) mirValue() {}

// Ref names a storage cell by binding name.
type Ref string

func (Ref) mirValue() {}

/* ---------- instructions ---------- */

type Instr interface{ instr() }

// Load moves a value into a temporary.
type Load struct {
	Target int
	Val    Value
}

func (Load) instr() {}

// Store writes a value into a named cell, allocating it on first use.
type Store struct {
	Target string
	Val    Value
}

func (Store) instr() {}

// Alloc gives a name a fresh cell in the current scope, shadowing any outer
// binding of the same name. Emitted for every declaration that does not
// alias an existing cell.
type Alloc struct {
	Name string
}

func (Alloc) instr() {}

// Binary computes Left Op Right into a temporary.
type Binary struct {
	Target int
	Op     string
	Left   Value
	Right  Value
}

func (Binary) instr() {}

type Print struct {
	Val Value
}

func (Print) instr() {}

// ReadBarrier / WriteBarrier mark permission-relevant accesses for later
// backends. The interpreter skips them.
type ReadBarrier struct {
	Ref string
}

func (ReadBarrier) instr() {}

type WriteBarrier struct {
	Ref string
}

func (WriteBarrier) instr() {}

// CreateReference binds Target to Source's cell (a plain alias).
type CreateReference struct {
	Target string
	Source string
}

func (CreateReference) instr() {}

// CreatePeakView binds Target to Source's cell as a read view.
type CreatePeakView struct {
	Target string
	Source string
}

func (CreatePeakView) instr() {}

// ShareWrite binds Target to Source's cell with shared write intent.
type ShareWrite struct {
	Target string
	Source string
}

func (ShareWrite) instr() {}

type EnterScope struct{}

func (EnterScope) instr() {}

type ExitScope struct{}

func (ExitScope) instr() {}

// Program is a single flat instruction stream; function calls are inlined
// during lowering.
type Program struct {
	Instrs []Instr
}

// Dump renders the instruction stream for `custodc hir --mir`.
func (p *Program) Dump() string {
	var b strings.Builder
	for i, in := range p.Instrs {
		term.Bprintf(&b, "%4d  %s\n", i, instrString(in))
	}
	return b.String()
}

func instrString(in Instr) string {
	var b strings.Builder
	switch x := in.(type) {
	case Load:
		term.Bprintf(&b, "load    t%d <- %s", x.Target, valString(x.Val))
	case Store:
		term.Bprintf(&b, "store   %s <- %s", x.Target, valString(x.Val))
	case Alloc:
		term.Bprintf(&b, "alloc   %s", x.Name)
	case Binary:
		term.Bprintf(&b, "binop   t%d <- %s %s %s", x.Target, valString(x.Left), x.Op, valString(x.Right))
	case Print:
		term.Bprintf(&b, "print   %s", valString(x.Val))
	case ReadBarrier:
		term.Bprintf(&b, "rbarrier %s", x.Ref)
	case WriteBarrier:
		term.Bprintf(&b, "wbarrier %s", x.Ref)
	case CreateReference:
		term.Bprintf(&b, "ref     %s -> %s", x.Target, x.Source)
	case CreatePeakView:
		term.Bprintf(&b, "peak    %s -> %s", x.Target, x.Source)
	case ShareWrite:
		term.Bprintf(&b, "share   %s -> %s", x.Target, x.Source)
	case EnterScope:
		b.WriteString("enter")
	case ExitScope:
		b.WriteString("exit")
	}
	return b.String()
}

func valString(v Value) string {
	var b strings.Builder
	switch x := v.(type) {
	case Num:
		term.Bprintf(&b, "%d", int64(x))
	case Str:
		term.Bprintf(&b, "%q", string(x))
	case Temp:
		term.Bprintf(&b, "t%d", int(x))
	case Ref:
		b.WriteString(string(x))
	}
	return b.String()
}
