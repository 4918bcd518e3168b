package check

import (
	"github.com/var-che/custod-lang-sub000/compiler/internal/alias"
	"github.com/var-che/custod-lang-sub000/compiler/internal/hir"
	"github.com/var-che/custod-lang-sub000/compiler/internal/perm"
)

// accessKind parameterizes the one expression walker shared by read- and
// write-position checking, so the two traversals cannot drift apart.
type accessKind int

const (
	readAccess accessKind = iota
	writeAccess
)

// checkValue recursively verifies that every variable an expression mentions
// grants the wanted access.
func (c *Checker) checkValue(v hir.Value, want accessKind) {
	switch x := v.(type) {
	case *hir.VarRef:
		if want == writeAccess {
			c.report(c.table.CheckWrite(x.Name, x.At))
		} else {
			c.report(c.table.CheckRead(x.Name, x.At))
		}

	case *hir.Binary:
		c.checkValue(x.Left, want)
		c.checkValue(x.Right, want)

	case *hir.Call:
		c.checkCall(x)

	case *hir.Peak:
		c.checkPeakValue(x)

	case *hir.Clone:
		c.checkValue(x.X, readAccess)
		if src, ok := x.X.(*hir.VarRef); ok {
			c.table.RecordAccess(src.Name, alias.AccessClone, nil)
		}

	case *hir.Consume:
		c.checkConsume(x)
	}
	// Literals carry no permissions.
}

// checkPeakValue validates a peak in expression position: the underlying
// variable's class must permit read.
func (c *Checker) checkPeakValue(pk *hir.Peak) {
	src, ok := pk.X.(*hir.VarRef)
	if !ok {
		c.checkValue(pk.X, readAccess)
		return
	}
	b, found := c.table.Lookup(src.Name)
	if !found {
		err := perm.Errorf(perm.UnknownBinding, "unknown binding '%s'", src.Name).At(src.At)
		c.table.RecordAccess(src.Name, alias.AccessPeak, err)
		c.report(err)
		return
	}
	if !b.Perms.HasReadAccess() {
		err := perm.Errorf(perm.PeakRequiresReadPermission,
			"cannot peak '%s': its permissions are '%s'", src.Name, b.Perms).
			At(pk.At).DeclaredAt(b.DeclPos)
		c.table.RecordAccess(src.Name, alias.AccessPeak, err)
		c.report(err)
		return
	}
	c.table.RecordAccess(src.Name, alias.AccessPeak, nil)
}

// checkConsume validates a consume expression: only an owner-shared value
// (reads write) can be moved out of its binding.
func (c *Checker) checkConsume(cs *hir.Consume) {
	src, ok := cs.X.(*hir.VarRef)
	if !ok {
		c.report(perm.Errorf(perm.ConsumeViolation, "can only consume variables").At(cs.At))
		return
	}
	b, found := c.table.Lookup(src.Name)
	if !found {
		err := perm.Errorf(perm.UnknownBinding, "unknown binding '%s'", src.Name).At(src.At)
		c.table.RecordAccess(src.Name, alias.AccessConsume, err)
		c.report(err)
		return
	}
	if b.Class != perm.OwnerShared {
		err := perm.Errorf(perm.ConsumeViolation,
			"cannot consume '%s': only 'reads write' bindings are consumable, not '%s'", src.Name, b.Perms).
			At(cs.At).DeclaredAt(b.DeclPos)
		c.table.RecordAccess(src.Name, alias.AccessConsume, err)
		c.report(err)
		return
	}
	c.table.RecordAccess(src.Name, alias.AccessConsume, nil)
}
