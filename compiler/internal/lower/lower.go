package lower

import (
	"strconv"

	"github.com/var-che/custod-lang-sub000/compiler/internal/hir"
	"github.com/var-che/custod-lang-sub000/compiler/internal/perm"
)

// maxInlineDepth bounds call inlining; the language has no loops, so a chain
// deeper than this is runaway recursion.
const maxInlineDepth = 64

type lowerer struct {
	instrs   []Instr
	funcs    map[string]*hir.Function
	nextTemp int
	depth    int
}

// Lower flattens a checked program into MIR. It assumes the checker already
// accepted the program; malformed input produces best-effort instructions,
// never a panic.
func Lower(p *hir.Program) *Program {
	lw := &lowerer{funcs: map[string]*hir.Function{}}
	lw.collectFuncs(p.Stmts)
	for _, s := range p.Stmts {
		lw.stmt(s)
	}
	return &Program{Instrs: lw.instrs}
}

func (lw *lowerer) collectFuncs(stmts []hir.Stmt) {
	for _, s := range stmts {
		switch st := s.(type) {
		case *hir.Function:
			lw.funcs[st.Name] = st
			lw.collectFuncs(st.Body)
		case *hir.Block:
			lw.collectFuncs(st.Stmts)
		case *hir.AtomicBlock:
			lw.collectFuncs(st.Stmts)
		}
	}
}

func (lw *lowerer) emit(in Instr) {
	lw.instrs = append(lw.instrs, in)
}

func (lw *lowerer) temp() int {
	t := lw.nextTemp
	lw.nextTemp++
	return t
}

func (lw *lowerer) stmt(s hir.Stmt) {
	switch st := s.(type) {
	case *hir.Declaration:
		lw.decl(st)

	case *hir.Assignment:
		v := lw.value(st.Value)
		lw.emit(WriteBarrier{Ref: st.Target})
		lw.emit(Store{Target: st.Target, Val: v})

	case *hir.Print:
		v := lw.value(st.Value)
		lw.emit(Print{Val: v})

	case *hir.Return:
		// Returns only appear inside inlined bodies; inlineCall rewrites
		// them into a store of the call's result cell.
		if st.Value != nil {
			lw.value(st.Value)
		}

	case *hir.ExprStmt:
		lw.value(st.Value)

	case *hir.Block:
		lw.emit(EnterScope{})
		for _, inner := range st.Stmts {
			lw.stmt(inner)
		}
		lw.emit(ExitScope{})

	case *hir.AtomicBlock:
		// Runtime atomicity is a backend concern; the instruction stream is
		// the same as a plain block.
		lw.emit(EnterScope{})
		for _, inner := range st.Stmts {
			lw.stmt(inner)
		}
		lw.emit(ExitScope{})

	case *hir.Function:
		// Bodies are inlined at call sites; the definition itself emits
		// nothing.
	}
}

func (lw *lowerer) decl(d *hir.Declaration) {
	switch init := d.Init.(type) {
	case nil:
		lw.emit(Alloc{Name: d.Name})
		lw.emit(WriteBarrier{Ref: d.Name})
		lw.emit(Store{Target: d.Name, Val: Num(0)})

	case *hir.VarRef:
		// A bare-variable initializer shares the source's cell.
		lw.emit(ReadBarrier{Ref: init.Name})
		if d.Perms.HasWriteAccess() {
			lw.emit(ShareWrite{Target: d.Name, Source: init.Name})
		} else {
			lw.emit(CreateReference{Target: d.Name, Source: init.Name})
		}

	case *hir.Peak:
		if src, ok := init.X.(*hir.VarRef); ok {
			lw.emit(ReadBarrier{Ref: src.Name})
			lw.emit(CreatePeakView{Target: d.Name, Source: src.Name})
			return
		}
		v := lw.value(init.X)
		lw.emit(Alloc{Name: d.Name})
		lw.emit(WriteBarrier{Ref: d.Name})
		lw.emit(Store{Target: d.Name, Val: v})

	case *hir.Clone:
		// Clone copies the current value into a brand-new cell.
		v := lw.value(init.X)
		t := lw.temp()
		lw.emit(Load{Target: t, Val: v})
		lw.emit(Alloc{Name: d.Name})
		lw.emit(WriteBarrier{Ref: d.Name})
		lw.emit(Store{Target: d.Name, Val: Temp(t)})

	default:
		v := lw.value(init)
		lw.emit(Alloc{Name: d.Name})
		lw.emit(WriteBarrier{Ref: d.Name})
		lw.emit(Store{Target: d.Name, Val: v})
	}
}

func (lw *lowerer) value(v hir.Value) Value {
	switch x := v.(type) {
	case *hir.IntLit:
		return Num(x.V)
	case *hir.BoolLit:
		if x.V {
			return Num(1)
		}
		return Num(0)
	case *hir.StrLit:
		return Str(x.V)
	case *hir.VarRef:
		lw.emit(ReadBarrier{Ref: x.Name})
		return Ref(x.Name)
	case *hir.Binary:
		l := lw.value(x.Left)
		r := lw.value(x.Right)
		t := lw.temp()
		lw.emit(Binary{Target: t, Op: x.Op, Left: l, Right: r})
		return Temp(t)
	case *hir.Call:
		return lw.inlineCall(x)
	case *hir.Peak:
		return lw.value(x.X)
	case *hir.Consume:
		return lw.value(x.X)
	case *hir.Clone:
		src := lw.value(x.X)
		t := lw.temp()
		lw.emit(Load{Target: t, Val: src})
		return Temp(t)
	default:
		return Num(0)
	}
}

// inlineCall expands a call site in place: arguments are evaluated and stored
// into the callee's parameter cells inside a fresh scope, the body is lowered
// with returns redirected into a per-site result cell, and that cell's value
// is the call's result.
func (lw *lowerer) inlineCall(call *hir.Call) Value {
	fn, ok := lw.funcs[call.Func]
	if !ok || lw.depth >= maxInlineDepth {
		for _, a := range call.Args {
			lw.value(a)
		}
		return Num(0)
	}

	args := make([]Value, len(call.Args))
	for i, a := range call.Args {
		args[i] = lw.value(a)
	}

	ret := retCell(call.Func, lw.temp())
	lw.emit(Alloc{Name: ret})
	lw.emit(Store{Target: ret, Val: Num(0)})

	lw.emit(EnterScope{})
	for i, p := range fn.Params {
		if i >= len(args) {
			break
		}
		lw.bindParam(p, call.Args[i], args[i])
	}
	lw.depth++
	for _, s := range fn.Body {
		if r, isRet := s.(*hir.Return); isRet {
			if r.Value != nil {
				v := lw.value(r.Value)
				lw.emit(Store{Target: ret, Val: v})
			}
			break
		}
		lw.stmt(s)
	}
	lw.depth--
	lw.emit(ExitScope{})
	return Ref(ret)
}

// bindParam materializes one parameter. A bare-variable argument to a
// shared parameter aliases the caller's cell so writes inside the body are
// visible after the call; everything else is copied by value.
func (lw *lowerer) bindParam(p hir.Param, arg hir.Value, v Value) {
	shared := p.Perms.Has(perm.Reads) || p.Perms.Has(perm.Writes)
	if ref, bare := arg.(*hir.VarRef); bare && shared {
		if p.Perms.HasWriteAccess() {
			lw.emit(ShareWrite{Target: p.Name, Source: ref.Name})
		} else {
			lw.emit(CreateReference{Target: p.Name, Source: ref.Name})
		}
		return
	}
	lw.emit(Alloc{Name: p.Name})
	lw.emit(WriteBarrier{Ref: p.Name})
	lw.emit(Store{Target: p.Name, Val: v})
}

func retCell(fn string, n int) string {
	return fn + "$ret" + strconv.Itoa(n)
}
