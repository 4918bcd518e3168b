package check

import (
	"fmt"

	"github.com/var-che/custod-lang-sub000/compiler/internal/alias"
	"github.com/var-che/custod-lang-sub000/compiler/internal/hir"
	"github.com/var-che/custod-lang-sub000/compiler/internal/perm"
)

func (c *Checker) checkStmt(s hir.Stmt) {
	switch st := s.(type) {
	case *hir.Declaration:
		c.checkDecl(st)
	case *hir.Assignment:
		c.report(c.table.CheckWrite(st.Target, st.At))
		c.checkValue(st.Value, readAccess)
	case *hir.Print:
		c.checkValue(st.Value, readAccess)
	case *hir.Return:
		if st.Value != nil {
			c.checkValue(st.Value, readAccess)
		}
	case *hir.ExprStmt:
		c.checkValue(st.Value, readAccess)
	case *hir.Block:
		c.table.WithScope(func() {
			for _, inner := range st.Stmts {
				c.checkStmt(inner)
			}
		})
	case *hir.AtomicBlock:
		// Identical to a plain block for permission purposes.
		c.table.WithScope(func() {
			for _, inner := range st.Stmts {
				c.checkStmt(inner)
			}
		})
	case *hir.Function:
		c.checkFunc(st)
	}
}

func (c *Checker) checkFunc(fn *hir.Function) {
	c.table.WithScope(func() {
		for _, p := range fn.Params {
			c.report(c.table.Register(p.Name, p.Perms, p.At))
		}
		for _, s := range fn.Body {
			c.checkStmt(s)
		}
	})
}

// checkDecl routes a declaration by the shape of its initializer: a bare
// variable reference makes an alias, clone makes a fresh identity, peak
// makes a read-only borrow, anything else is an ordinary registration.
func (c *Checker) checkDecl(d *hir.Declaration) {
	switch init := d.Init.(type) {
	case nil:
		c.report(c.table.Register(d.Name, d.Perms, d.At))

	case *hir.VarRef:
		c.checkAliasDecl(d, init)

	case *hir.Clone:
		// Cloning reads the source once and then severs aliasing entirely,
		// so it is legal even against non-shareable sources.
		c.checkValue(init.X, readAccess)
		if src, ok := init.X.(*hir.VarRef); ok {
			c.table.RecordAccess(src.Name, alias.AccessClone, nil)
		}
		c.report(c.table.Register(d.Name, d.Perms, d.At))

	case *hir.Peak:
		c.checkPeakDecl(d, init)

	default:
		c.checkValue(init, readAccess)
		c.report(c.table.Register(d.Name, d.Perms, d.At))
	}
}

func (c *Checker) checkAliasDecl(d *hir.Declaration, src *hir.VarRef) {
	srcBind, ok := c.table.Lookup(src.Name)
	if !ok {
		c.report(perm.Errorf(perm.UnknownBinding, "unknown binding '%s'", src.Name).At(src.At))
		c.recover(d)
		return
	}

	// A bare-variable initializer may not mint a fresh shareable-read handle
	// unless the source identity is itself shareable that way; the user has
	// to say 'clone' (or 'peak') explicitly. Rejected here, before the alias
	// table is consulted.
	srcClass := srcBind.Group.Class
	if d.Perms.Has(perm.Reads) && srcClass != perm.FullyShared && srcClass != perm.SharedReadOnly {
		err := perm.Errorf(perm.NonShareableAliasViolation,
			"must use the 'clone' keyword when creating a reads alias: %s = clone %s", d.Name, src.Name).
			At(d.At).DeclaredAt(srcBind.DeclPos)
		err.Suggestion = fmt.Sprintf("%s = clone %s", d.Name, src.Name)
		c.report(err)
		c.recover(d)
		return
	}

	if err := c.table.RegisterAlias(d.Name, src.Name, d.Perms, d.At); err != nil {
		c.report(err)
		c.recover(d)
	}
}

func (c *Checker) checkPeakDecl(d *hir.Declaration, pk *hir.Peak) {
	src, ok := pk.X.(*hir.VarRef)
	if !ok {
		c.report(perm.Errorf(perm.PeakRequiresReadPermission, "'peak' expects a variable").At(pk.At))
		c.recover(d)
		return
	}
	srcBind, found := c.table.Lookup(src.Name)
	if !found {
		err := perm.Errorf(perm.UnknownBinding, "unknown binding '%s'", src.Name).At(src.At)
		c.table.RecordAccess(src.Name, alias.AccessPeak, err)
		c.report(err)
		c.recover(d)
		return
	}
	if !srcBind.Perms.HasReadAccess() {
		err := perm.Errorf(perm.PeakRequiresReadPermission,
			"cannot peak '%s': its permissions are '%s'", src.Name, srcBind.Perms).
			At(pk.At).DeclaredAt(srcBind.DeclPos)
		c.table.RecordAccess(src.Name, alias.AccessPeak, err)
		c.report(err)
		c.recover(d)
		return
	}
	if d.Perms.HasWriteAccess() {
		err := perm.Errorf(perm.PeakRequiresReadPermission,
			"'peak' grants a read-only borrow; '%s' cannot take write access from it", d.Name).
			At(d.At)
		c.table.RecordAccess(src.Name, alias.AccessPeak, err)
		c.report(err)
		c.recover(d)
		return
	}
	c.table.RecordAccess(src.Name, alias.AccessPeak, nil)
	if err := c.table.RegisterAlias(d.Name, src.Name, d.Perms, d.At); err != nil {
		c.report(err)
		c.recover(d)
	}
}

// recover registers a failed declaration as an independent binding so later
// uses of the name are still checked against its declared set instead of
// cascading into unknown-binding noise.
func (c *Checker) recover(d *hir.Declaration) {
	if _, err := perm.Validate(d.Perms); err == nil {
		_ = c.table.Register(d.Name, d.Perms, d.At)
	}
}
