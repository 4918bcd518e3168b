// Package hir is the flat intermediate program the permission checker walks.
// Conversion from the surface AST is mechanical; declarations and parameters
// arrive already permission-annotated.
package hir

import (
	"github.com/var-che/custod-lang-sub000/compiler/internal/diag"
	"github.com/var-che/custod-lang-sub000/compiler/internal/perm"
	"github.com/var-che/custod-lang-sub000/compiler/internal/types"
)

type Program struct {
	Stmts []Stmt
}

/* ---------- statements ---------- */

type Stmt interface{ stmt() }

type Declaration struct {
	Name  string
	Type  types.Kind
	Perms perm.Set
	Init  Value // may be nil
	At    diag.Pos
}

func (*Declaration) stmt() {}

type Assignment struct {
	Target string
	Value  Value
	At     diag.Pos
}

func (*Assignment) stmt() {}

type Print struct {
	Value Value
	At    diag.Pos
}

func (*Print) stmt() {}

type Return struct {
	Value Value // may be nil
	At    diag.Pos
}

func (*Return) stmt() {}

type Param struct {
	Name  string
	Type  types.Kind
	Perms perm.Set
	At    diag.Pos
}

type Function struct {
	Name     string
	Params   []Param
	Body     []Stmt
	Ret      types.Kind
	Behavior bool
	At       diag.Pos
}

func (*Function) stmt() {}

type Block struct {
	Stmts []Stmt
}

func (*Block) stmt() {}

// AtomicBlock is permission-identical to Block; atomicity is a runtime
// property the lowering stage annotates.
type AtomicBlock struct {
	Stmts []Stmt
}

func (*AtomicBlock) stmt() {}

type ExprStmt struct {
	Value Value
}

func (*ExprStmt) stmt() {}

/* ---------- values ---------- */

type Value interface{ value() }

type IntLit struct {
	V int64
}

func (*IntLit) value() {}

type BoolLit struct {
	V bool
}

func (*BoolLit) value() {}

type StrLit struct {
	V string
}

func (*StrLit) value() {}

type VarRef struct {
	Name string
	At   diag.Pos
}

func (*VarRef) value() {}

type Binary struct {
	Op    string
	Left  Value
	Right Value
	Type  types.Kind
}

func (*Binary) value() {}

type Call struct {
	Func string
	Args []Value
	At   diag.Pos
}

func (*Call) value() {}

// Peak is a temporary read-only borrow of its operand's identity.
type Peak struct {
	X  Value
	At diag.Pos
}

func (*Peak) value() {}

// Clone copies its operand's value into a brand-new identity.
type Clone struct {
	X  Value
	At diag.Pos
}

func (*Clone) value() {}

// Consume transfers an owner-shared value out of its binding.
type Consume struct {
	X  Value
	At diag.Pos
}

func (*Consume) value() {}
