// Package ast is the surface syntax tree the parser produces. Every
// declaration and parameter carries its permission set and its source
// position; the downstream permission checker depends on both.
package ast

import (
	"github.com/var-che/custod-lang-sub000/compiler/internal/diag"
	"github.com/var-che/custod-lang-sub000/compiler/internal/perm"
)

/*** NODES ***/

type Node interface{ Pos() diag.Pos }

type Program struct {
	Stmts []Stmt
}

/*** EXPRESSIONS ***/

type Expr interface {
	Node
	expr()
}

type IntLit struct {
	Value int64
	At    diag.Pos
}

func (e *IntLit) Pos() diag.Pos { return e.At }
func (*IntLit) expr()           {}

type BoolLit struct {
	Value bool
	At    diag.Pos
}

func (e *BoolLit) Pos() diag.Pos { return e.At }
func (*BoolLit) expr()           {}

type StrLit struct {
	Value string
	At    diag.Pos
}

func (e *StrLit) Pos() diag.Pos { return e.At }
func (*StrLit) expr()           {}

type IdentExpr struct {
	Name string
	At   diag.Pos
}

func (e *IdentExpr) Pos() diag.Pos { return e.At }
func (*IdentExpr) expr()           {}

type BinaryExpr struct {
	Op    string
	Left  Expr
	Right Expr
}

func (e *BinaryExpr) Pos() diag.Pos { return e.Left.Pos() }
func (*BinaryExpr) expr()           {}

type CallExpr struct {
	Func string
	Args []Expr
	At   diag.Pos
}

func (e *CallExpr) Pos() diag.Pos { return e.At }
func (*CallExpr) expr()           {}

// PeakExpr is a temporary, non-owning, read-only borrow of X.
type PeakExpr struct {
	X  Expr
	At diag.Pos
}

func (e *PeakExpr) Pos() diag.Pos { return e.At }
func (*PeakExpr) expr()           {}

// CloneExpr produces an independent identity with X's current value,
// severing aliasing.
type CloneExpr struct {
	X  Expr
	At diag.Pos
}

func (e *CloneExpr) Pos() diag.Pos { return e.At }
func (*CloneExpr) expr()           {}

// ConsumeExpr gives up the source binding's access in favor of the consumer.
type ConsumeExpr struct {
	X  Expr
	At diag.Pos
}

func (e *ConsumeExpr) Pos() diag.Pos { return e.At }
func (*ConsumeExpr) expr()           {}

/*** STATEMENTS ***/

type Stmt interface {
	Node
	stmt()
}

// DeclStmt is `<permissions> name = initializer`, e.g. `reads write c = 5`.
type DeclStmt struct {
	Name  string
	Type  string // textual annotation; usually empty (inferred)
	Perms perm.Set
	Init  Expr // may be nil
	At    diag.Pos
}

func (s *DeclStmt) Pos() diag.Pos { return s.At }
func (*DeclStmt) stmt()           {}

type AssignStmt struct {
	Target string
	Value  Expr
	At     diag.Pos
}

func (s *AssignStmt) Pos() diag.Pos { return s.At }
func (*AssignStmt) stmt()           {}

type PrintStmt struct {
	Value Expr
	At    diag.Pos
}

func (s *PrintStmt) Pos() diag.Pos { return s.At }
func (*PrintStmt) stmt()           {}

type ReturnStmt struct {
	Value Expr // may be nil
	At    diag.Pos
}

func (s *ReturnStmt) Pos() diag.Pos { return s.At }
func (*ReturnStmt) stmt()           {}

type ExprStmt struct {
	Value Expr
}

func (s *ExprStmt) Pos() diag.Pos { return s.Value.Pos() }
func (*ExprStmt) stmt()           {}

type Param struct {
	Name  string
	Type  string
	Perms perm.Set
	At    diag.Pos
}

// FuncStmt is `fn name(perms p: type, ...) -> type { ... }`, or a behavior
// when declared with `on`.
type FuncStmt struct {
	Name     string
	Params   []Param
	Ret      string // textual return type; empty for unit
	Body     []Stmt
	Behavior bool
	At       diag.Pos
}

func (s *FuncStmt) Pos() diag.Pos { return s.At }
func (*FuncStmt) stmt()           {}

type BlockStmt struct {
	Body []Stmt
	At   diag.Pos
}

func (s *BlockStmt) Pos() diag.Pos { return s.At }
func (*BlockStmt) stmt()           {}

// AtomicStmt behaves exactly like BlockStmt for permission purposes; its
// atomicity guarantee is a runtime concern.
type AtomicStmt struct {
	Body []Stmt
	At   diag.Pos
}

func (s *AtomicStmt) Pos() diag.Pos { return s.At }
func (*AtomicStmt) stmt()           {}
