package perm

import "strings"

/* ---------- permission tags ---------- */

// Tag is one of the four access tags a declaration may carry.
//
// read/write are non-shareable: at most one live binding holds them for a
// given identity. reads/writes are shareable: any number of simultaneous
// holders of that access kind.
type Tag int

const (
	Read Tag = iota
	Write
	Reads
	Writes
)

func (t Tag) String() string {
	switch t {
	case Read:
		return "read"
	case Write:
		return "write"
	case Reads:
		return "reads"
	case Writes:
		return "writes"
	default:
		return "invalid"
	}
}

// Shareable reports whether the tag admits multiple simultaneous holders.
func (t Tag) Shareable() bool { return t == Reads || t == Writes }

/* ---------- permission sets ---------- */

// Set is the unordered collection of tags attached to a binding at its
// declaration site. The front-end guarantees every declaration and parameter
// carries one (possibly empty, which Validate rejects).
type Set []Tag

func (s Set) Has(t Tag) bool {
	for _, x := range s {
		if x == t {
			return true
		}
	}
	return false
}

// HasReadAccess reports whether the set grants any kind of read.
func (s Set) HasReadAccess() bool { return s.Has(Read) || s.Has(Reads) }

// HasWriteAccess reports whether the set grants any kind of write.
func (s Set) HasWriteAccess() bool { return s.Has(Write) || s.Has(Writes) }

func (s Set) String() string {
	if len(s) == 0 {
		return "(none)"
	}
	parts := make([]string, len(s))
	for i, t := range s {
		parts[i] = t.String()
	}
	return strings.Join(parts, " ")
}

/* ---------- capability classes ---------- */

// Class is derived from a Set, never stored alongside it. Every other
// component classifies through Validate and the predicates below; nothing
// re-derives classification ad hoc.
type Class int

const (
	Invalid Class = iota
	Exclusive
	OwnerShared
	FullyShared
	ReadOnly
	WriteOnly
	SharedReadOnly
	SharedWriteOnly
)

func (c Class) String() string {
	switch c {
	case Exclusive:
		return "exclusive (read write)"
	case OwnerShared:
		return "owner-shared (reads write)"
	case FullyShared:
		return "fully-shared (reads writes)"
	case ReadOnly:
		return "read-only (read)"
	case WriteOnly:
		return "write-only (write)"
	case SharedReadOnly:
		return "shared read-only (reads)"
	case SharedWriteOnly:
		return "shared write-only (writes)"
	default:
		return "invalid"
	}
}

// Validate rejects the two illegal tag mixes and the empty set, and maps a
// legal set to its capability class.
func Validate(s Set) (Class, *Error) {
	if len(s) == 0 {
		return Invalid, Errorf(InvalidPermissionCombination, "declaration carries no permissions")
	}
	if s.Has(Read) && s.Has(Reads) {
		return Invalid, Errorf(InvalidPermissionCombination, "cannot combine 'read' with 'reads'")
	}
	if s.Has(Write) && s.Has(Writes) {
		return Invalid, Errorf(InvalidPermissionCombination, "cannot combine 'write' with 'writes'")
	}

	switch {
	case s.Has(Read) && s.Has(Write):
		return Exclusive, nil
	case s.Has(Reads) && s.Has(Write):
		return OwnerShared, nil
	case s.Has(Reads) && s.Has(Writes):
		return FullyShared, nil
	case s.Has(Read) && s.Has(Writes):
		// read + writes: a non-shareable read over a shareable write has no
		// coherent single owner.
		return Invalid, Errorf(InvalidPermissionCombination, "cannot combine 'read' with 'writes'")
	case s.Has(Read):
		return ReadOnly, nil
	case s.Has(Write):
		return WriteOnly, nil
	case s.Has(Reads):
		return SharedReadOnly, nil
	default:
		return SharedWriteOnly, nil
	}
}

/* ---------- class predicates ---------- */

// RequiresRead reports whether the class grants (and therefore demands of
// compatible values) read access.
func RequiresRead(c Class) bool {
	switch c {
	case Exclusive, OwnerShared, FullyShared, ReadOnly, SharedReadOnly:
		return true
	}
	return false
}

// RequiresWrite reports whether the class grants write access.
func RequiresWrite(c Class) bool {
	switch c {
	case Exclusive, OwnerShared, FullyShared, WriteOnly, SharedWriteOnly:
		return true
	}
	return false
}

// IsShareableRead reports whether the class lets additional readers alias
// the identity.
func IsShareableRead(c Class) bool {
	switch c {
	case OwnerShared, FullyShared, SharedReadOnly:
		return true
	}
	return false
}

// IsShareableWrite reports whether the class lets additional writers alias
// the identity.
func IsShareableWrite(c Class) bool {
	switch c {
	case FullyShared, SharedWriteOnly:
		return true
	}
	return false
}

// IsNonShareable reports whether the class forbids direct aliasing entirely;
// such identities are only reachable through 'clone' or 'peak'.
func IsNonShareable(c Class) bool {
	switch c {
	case Exclusive, ReadOnly, WriteOnly:
		return true
	}
	return false
}
