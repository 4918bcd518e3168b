package hir

import (
	"github.com/var-che/custod-lang-sub000/compiler/internal/ast"
	"github.com/var-che/custod-lang-sub000/compiler/internal/types"
)

// converter carries the little type environment the HM-lite pass maintains:
// declared binding kinds and function return kinds. Permission information
// passes through untouched.
type converter struct {
	vars map[string]types.Kind
	rets map[string]types.Kind
}

// Convert lowers a parsed program into the flat HIR the permission checker
// consumes.
func Convert(p *ast.Program) *Program {
	c := &converter{
		vars: map[string]types.Kind{},
		rets: map[string]types.Kind{},
	}
	// Function return kinds first, so calls in earlier statements infer.
	for _, s := range p.Stmts {
		if fn, ok := s.(*ast.FuncStmt); ok {
			c.rets[fn.Name] = types.FromName(fn.Ret)
		}
	}
	return &Program{Stmts: c.stmts(p.Stmts)}
}

func (c *converter) stmts(in []ast.Stmt) []Stmt {
	out := make([]Stmt, 0, len(in))
	for _, s := range in {
		out = append(out, c.stmt(s))
	}
	return out
}

func (c *converter) stmt(s ast.Stmt) Stmt {
	switch st := s.(type) {
	case *ast.DeclStmt:
		var init Value
		kind := types.FromName(st.Type)
		if st.Init != nil {
			init = c.value(st.Init)
			if kind == types.Unit || kind == types.Unknown {
				kind = c.kindOf(init)
			}
		}
		c.vars[st.Name] = kind
		return &Declaration{Name: st.Name, Type: kind, Perms: st.Perms, Init: init, At: st.At}
	case *ast.AssignStmt:
		return &Assignment{Target: st.Target, Value: c.value(st.Value), At: st.At}
	case *ast.PrintStmt:
		return &Print{Value: c.value(st.Value), At: st.At}
	case *ast.ReturnStmt:
		var v Value
		if st.Value != nil {
			v = c.value(st.Value)
		}
		return &Return{Value: v, At: st.At}
	case *ast.FuncStmt:
		params := make([]Param, len(st.Params))
		for i, p := range st.Params {
			k := types.FromName(p.Type)
			params[i] = Param{Name: p.Name, Type: k, Perms: p.Perms, At: p.At}
			c.vars[p.Name] = k
		}
		return &Function{
			Name:     st.Name,
			Params:   params,
			Body:     c.stmts(st.Body),
			Ret:      types.FromName(st.Ret),
			Behavior: st.Behavior,
			At:       st.At,
		}
	case *ast.BlockStmt:
		return &Block{Stmts: c.stmts(st.Body)}
	case *ast.AtomicStmt:
		return &AtomicBlock{Stmts: c.stmts(st.Body)}
	case *ast.ExprStmt:
		return &ExprStmt{Value: c.value(st.Value)}
	default:
		return &Block{}
	}
}

func (c *converter) value(e ast.Expr) Value {
	switch v := e.(type) {
	case *ast.IntLit:
		return &IntLit{V: v.Value}
	case *ast.BoolLit:
		return &BoolLit{V: v.Value}
	case *ast.StrLit:
		return &StrLit{V: v.Value}
	case *ast.IdentExpr:
		return &VarRef{Name: v.Name, At: v.At}
	case *ast.BinaryExpr:
		left := c.value(v.Left)
		right := c.value(v.Right)
		return &Binary{Op: v.Op, Left: left, Right: right, Type: c.binaryKind(v.Op, left, right)}
	case *ast.CallExpr:
		args := make([]Value, len(v.Args))
		for i, a := range v.Args {
			args[i] = c.value(a)
		}
		return &Call{Func: v.Func, Args: args, At: v.At}
	case *ast.PeakExpr:
		return &Peak{X: c.value(v.X), At: v.At}
	case *ast.CloneExpr:
		return &Clone{X: c.value(v.X), At: v.At}
	case *ast.ConsumeExpr:
		return &Consume{X: c.value(v.X), At: v.At}
	default:
		return &IntLit{}
	}
}

func (c *converter) binaryKind(op string, left, right Value) types.Kind {
	switch op {
	case "<", "<=", ">", ">=", "==", "!=":
		return types.Bool
	}
	k, ok := types.Unify(c.kindOf(left), c.kindOf(right))
	if !ok {
		return types.Unknown
	}
	return k
}

func (c *converter) kindOf(v Value) types.Kind {
	switch x := v.(type) {
	case *IntLit:
		return types.I64
	case *BoolLit:
		return types.Bool
	case *StrLit:
		return types.Str
	case *VarRef:
		if k, ok := c.vars[x.Name]; ok {
			return k
		}
		return types.Unknown
	case *Binary:
		return x.Type
	case *Call:
		if k, ok := c.rets[x.Func]; ok {
			return k
		}
		return types.Unknown
	case *Peak:
		return c.kindOf(x.X)
	case *Clone:
		return c.kindOf(x.X)
	case *Consume:
		return c.kindOf(x.X)
	default:
		return types.Unknown
	}
}
