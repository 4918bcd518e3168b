package check

import (
	"github.com/var-che/custod-lang-sub000/compiler/internal/alias"
	"github.com/var-che/custod-lang-sub000/compiler/internal/diag"
	"github.com/var-che/custod-lang-sub000/compiler/internal/hir"
	"github.com/var-che/custod-lang-sub000/compiler/internal/perm"
	"github.com/var-che/custod-lang-sub000/compiler/internal/types"
)

// ParamSig is one declared parameter: its permission set and the capability
// class derived from it (Invalid if the set itself fails validation; the
// declaration error surfaces when the body is checked).
type ParamSig struct {
	Name  string
	Type  types.Kind
	Perms perm.Set
	Class perm.Class
}

// Signature is a function's registered interface, collected in the first
// pass so call sites anywhere in the program can be validated.
type Signature struct {
	Name   string
	Params []ParamSig
	Ret    types.Kind
	At     diag.Pos
}

func (c *Checker) collectSignatures(stmts []hir.Stmt) {
	for _, s := range stmts {
		switch st := s.(type) {
		case *hir.Function:
			sig := &Signature{Name: st.Name, Ret: st.Ret, At: st.At}
			for _, p := range st.Params {
				class, _ := perm.Validate(p.Perms)
				sig.Params = append(sig.Params, ParamSig{
					Name:  p.Name,
					Type:  p.Type,
					Perms: p.Perms,
					Class: class,
				})
			}
			c.funcs[st.Name] = sig
			c.collectSignatures(st.Body)
		case *hir.Block:
			c.collectSignatures(st.Stmts)
		case *hir.AtomicBlock:
			c.collectSignatures(st.Stmts)
		}
	}
}

// checkCall validates one call site: arity, then per-argument capability
// compatibility for every argument that is a bare variable reference.
// Compound argument expressions are read-checked like any other expression.
func (c *Checker) checkCall(call *hir.Call) {
	sig, ok := c.funcs[call.Func]
	if !ok {
		c.report(perm.Errorf(perm.UnknownBinding, "call to unknown function '%s'", call.Func).At(call.At))
		// No signature to match against, so every argument gets the plain
		// read check, bare references included.
		for _, a := range call.Args {
			c.checkValue(a, readAccess)
		}
		return
	}

	if len(call.Args) != len(sig.Params) {
		c.report(perm.Errorf(perm.ArityMismatch,
			"function '%s' expects %d argument(s), but %d provided", call.Func, len(sig.Params), len(call.Args)).
			At(call.At).DeclaredAt(sig.At))
	}

	n := len(call.Args)
	if len(sig.Params) < n {
		n = len(sig.Params)
	}
	for i := 0; i < n; i++ {
		arg := call.Args[i]
		p := sig.Params[i]

		ref, bare := arg.(*hir.VarRef)
		if !bare {
			c.checkValue(arg, readAccess)
			continue
		}
		b, found := c.table.Lookup(ref.Name)
		if !found {
			c.report(perm.Errorf(perm.UnknownBinding, "unknown binding '%s'", ref.Name).At(ref.At))
			continue
		}
		if p.Class == perm.Invalid {
			// The parameter's own set is broken; that error is reported at
			// the declaration, not at every call site.
			continue
		}
		if !Compatible(b.Class, p.Class) {
			c.report(perm.Errorf(perm.ParameterCapabilityMismatch,
				"call to '%s': parameter %d ('%s') requires %s, but '%s' is %s",
				call.Func, i+1, p.Name, p.Class, ref.Name, b.Class).
				At(ref.At).DeclaredAt(b.DeclPos))
			continue
		}
		if b.Class == perm.Exclusive {
			// Passing an exclusive value consumes it; recorded for the
			// access history only.
			c.table.RecordAccess(ref.Name, alias.AccessConsume, nil)
		} else if perm.RequiresRead(p.Class) {
			c.table.RecordAccess(ref.Name, alias.AccessRead, nil)
		}
	}
}

// Compatible implements the one-directional argument/parameter capability
// ordering:
//
//   - an exclusive argument satisfies any parameter (the call consumes it);
//   - no other class satisfies an exclusive parameter, since a shared value
//     cannot promise the absence of outstanding aliases;
//   - owner-shared and fully-shared arguments satisfy read-requiring or
//     fully-shared parameters;
//   - bare read-only/write-only arguments (shareable or not) satisfy only
//     parameters demanding that same single access kind.
func Compatible(arg, param perm.Class) bool {
	if arg == perm.Exclusive {
		return true
	}
	if param == perm.Exclusive {
		return false
	}
	switch arg {
	case perm.OwnerShared, perm.FullyShared:
		return perm.RequiresRead(param) || param == perm.FullyShared
	case perm.ReadOnly, perm.SharedReadOnly:
		return perm.RequiresRead(param) && !perm.RequiresWrite(param)
	case perm.WriteOnly, perm.SharedWriteOnly:
		return perm.RequiresWrite(param) && !perm.RequiresRead(param)
	default:
		return false
	}
}
