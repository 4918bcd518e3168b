// Package alias tracks, per program identity, which live bindings reference
// it and what access each alias holds. It is the permission checker's only
// mutable state. All mutation is stack-scoped: bindings introduced inside a
// frame are removed from their groups when the frame exits, so permission
// state never leaks across lexical regions.
package alias

import (
	"github.com/var-che/custod-lang-sub000/compiler/internal/diag"
	"github.com/var-che/custod-lang-sub000/compiler/internal/perm"
)

// Binding is one live name: its granted permission set, the set's own
// capability class, the identity (group) it denotes, and its declaration
// site for two-location diagnostics.
type Binding struct {
	Name    string
	Perms   perm.Set
	Class   perm.Class
	Group   *Group
	DeclPos diag.Pos
}

// Group is the set of all live bindings sharing one identity, partitioned
// into writers and readers. Class is the identity's class, fixed by the
// binding that created it.
type Group struct {
	ID      int
	Owner   string
	Class   perm.Class
	Writers map[string]struct{}
	Readers map[string]struct{}
}

func (g *Group) empty() bool { return len(g.Writers) == 0 && len(g.Readers) == 0 }

func (g *Group) admit(b *Binding) {
	if b.Perms.HasWriteAccess() {
		g.Writers[b.Name] = struct{}{}
	}
	if b.Perms.HasReadAccess() {
		g.Readers[b.Name] = struct{}{}
	}
}

func (g *Group) evict(name string) {
	delete(g.Writers, name)
	delete(g.Readers, name)
}

type frame map[string]*Binding

// Table is the alias-tracking structure. Operations are keyed by binding
// name within the current scope stack (innermost frame wins on lookup).
type Table struct {
	frames  []frame
	nextID  int
	history []AccessEvent
}

// NewTable returns a table with the global frame already entered.
func NewTable() *Table {
	return &Table{frames: []frame{{}}}
}

/* ---------- scopes ---------- */

// EnterScope pushes a new frame. Prefer WithScope, which guarantees the
// matching exit.
func (t *Table) EnterScope() {
	t.frames = append(t.frames, frame{})
}

// ExitScope pops the innermost frame. Every binding the frame introduced is
// evicted from its alias group; groups left empty are retired with it. The
// global frame is never popped.
func (t *Table) ExitScope() {
	if len(t.frames) == 1 {
		return
	}
	top := t.frames[len(t.frames)-1]
	t.frames = t.frames[:len(t.frames)-1]
	for _, b := range top {
		t.release(b)
	}
}

// WithScope runs body inside a fresh frame. The exit runs even if body
// records errors and returns early; scope entry/exit stays balanced on every
// path.
func (t *Table) WithScope(body func()) {
	t.EnterScope()
	defer t.ExitScope()
	body()
}

// Depth returns the current scope depth (0 = global).
func (t *Table) Depth() int { return len(t.frames) - 1 }

/* ---------- lookup ---------- */

// Lookup finds a binding by name, searching innermost frame outward.
func (t *Table) Lookup(name string) (*Binding, bool) {
	for i := len(t.frames) - 1; i >= 0; i-- {
		if b, ok := t.frames[i][name]; ok {
			return b, true
		}
	}
	return nil, false
}

func (t *Table) define(b *Binding) {
	top := t.frames[len(t.frames)-1]
	// Redeclaration in the same frame replaces the old binding; name
	// resolution proper is the resolver's job, not ours.
	if old, ok := top[b.Name]; ok {
		delete(top, b.Name)
		t.release(old)
	}
	top[b.Name] = b
	b.Group.admit(b)
}

// release removes a destroyed binding from its group. Group membership is
// keyed by name, so when a shadowing alias reused its source's name the
// eviction also strips the still-live outer binding; re-admit whatever
// binding of that name remains visible.
func (t *Table) release(b *Binding) {
	b.Group.evict(b.Name)
	if outer, ok := t.Lookup(b.Name); ok {
		outer.Group.admit(outer)
	}
}

/* ---------- registration ---------- */

// Register validates the set, creates a fresh identity with a singleton
// alias group, and binds name to it in the current frame.
func (t *Table) Register(name string, set perm.Set, pos diag.Pos) *perm.Error {
	class, err := perm.Validate(set)
	if err != nil {
		return err.At(pos)
	}
	t.nextID++
	g := &Group{
		ID:      t.nextID,
		Owner:   name,
		Class:   class,
		Writers: map[string]struct{}{},
		Readers: map[string]struct{}{},
	}
	b := &Binding{Name: name, Perms: set, Class: class, Group: g, DeclPos: pos}
	t.define(b)
	return nil
}

// RegisterAlias joins name to source's alias group with the requested set,
// enforcing the sharing invariants. Admission is a three-way check: the
// source identity's class, the requested set, and the group's current
// occupancy all participate.
func (t *Table) RegisterAlias(name, source string, set perm.Set, pos diag.Pos) *perm.Error {
	src, ok := t.Lookup(source)
	if !ok {
		return perm.Errorf(perm.UnknownBinding, "unknown binding '%s'", source).At(pos)
	}
	class, err := perm.Validate(set)
	if err != nil {
		return err.At(pos)
	}

	g := src.Group
	switch g.Class {
	case perm.Exclusive:
		if set.HasWriteAccess() {
			return perm.Errorf(perm.ExclusiveAliasViolation,
				"cannot create write alias '%s' to '%s': it holds exclusive (read write) access", name, source).
				At(pos).DeclaredAt(src.DeclPos)
		}
		// Read-only borrow of an exclusive value, as 'peak' would grant.
	case perm.ReadOnly:
		if set.HasWriteAccess() {
			return perm.Errorf(perm.NonShareableAliasViolation,
				"'%s' is read-only and non-shareable; it can never be an alias source for write", source).
				At(pos).DeclaredAt(src.DeclPos)
		}
	case perm.WriteOnly:
		return perm.Errorf(perm.NonShareableAliasViolation,
			"'%s' is write-only and non-shareable; use 'clone' to copy its value", source).
			At(pos).DeclaredAt(src.DeclPos)
	case perm.OwnerShared:
		if set.HasWriteAccess() {
			return perm.Errorf(perm.MultipleWriterConflict,
				"cannot create write alias '%s' to '%s': '%s' is already its writer", name, source, g.Owner).
				At(pos).DeclaredAt(src.DeclPos)
		}
	case perm.SharedReadOnly:
		if set.HasWriteAccess() {
			return perm.Errorf(perm.WritePermissionMissing,
				"cannot create write alias '%s': source '%s' grants no write access", name, source).
				At(pos).DeclaredAt(src.DeclPos)
		}
	case perm.SharedWriteOnly:
		if set.HasReadAccess() {
			return perm.Errorf(perm.ReadPermissionMissing,
				"cannot create read alias '%s': source '%s' grants no read access", name, source).
				At(pos).DeclaredAt(src.DeclPos)
		}
	case perm.FullyShared:
		// Any number of readers and writers.
	}

	b := &Binding{Name: name, Perms: set, Class: class, Group: g, DeclPos: pos}
	t.define(b)
	return nil
}

/* ---------- access checks ---------- */

// CheckRead succeeds only if the binding's own permission set includes a
// read tag. The outcome is recorded in the access history either way.
func (t *Table) CheckRead(name string, pos diag.Pos) *perm.Error {
	b, ok := t.Lookup(name)
	if !ok {
		err := perm.Errorf(perm.UnknownBinding, "unknown binding '%s'", name).At(pos)
		t.RecordAccess(name, AccessRead, err)
		return err
	}
	var err *perm.Error
	if !b.Perms.HasReadAccess() {
		err = perm.Errorf(perm.ReadPermissionMissing,
			"cannot read from '%s': its permissions are '%s'", name, b.Perms).
			At(pos).DeclaredAt(b.DeclPos)
	}
	t.RecordAccess(name, AccessRead, err)
	return err
}

// CheckWrite succeeds only if the binding's own permission set includes a
// write tag.
func (t *Table) CheckWrite(name string, pos diag.Pos) *perm.Error {
	b, ok := t.Lookup(name)
	if !ok {
		err := perm.Errorf(perm.UnknownBinding, "unknown binding '%s'", name).At(pos)
		t.RecordAccess(name, AccessWrite, err)
		return err
	}
	var err *perm.Error
	if !b.Perms.HasWriteAccess() {
		err = perm.Errorf(perm.WritePermissionMissing,
			"cannot write to '%s': its permissions are '%s'", name, b.Perms).
			At(pos).DeclaredAt(b.DeclPos)
	}
	t.RecordAccess(name, AccessWrite, err)
	return err
}
