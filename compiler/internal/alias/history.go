package alias

import (
	"sort"
	"strings"

	"golang.org/x/exp/maps"

	"github.com/var-che/custod-lang-sub000/compiler/internal/perm"
	"github.com/var-che/custod-lang-sub000/compiler/internal/term"
)

// AccessKind labels one entry in the per-binding access history.
type AccessKind int

const (
	AccessRead AccessKind = iota
	AccessWrite
	AccessClone
	AccessPeak
	AccessConsume
)

func (k AccessKind) String() string {
	switch k {
	case AccessRead:
		return "read"
	case AccessWrite:
		return "write"
	case AccessClone:
		return "clone"
	case AccessPeak:
		return "peak"
	case AccessConsume:
		return "consume"
	default:
		return "?"
	}
}

// AccessEvent is one recorded access attempt. The history feeds diagnostics
// and the Visualize dump; it never participates in correctness decisions.
type AccessEvent struct {
	Seq  int
	Name string
	Kind AccessKind
	Err  *perm.Error // nil on success
}

// RecordAccess appends an entry to the access history.
func (t *Table) RecordAccess(name string, kind AccessKind, err *perm.Error) {
	t.history = append(t.history, AccessEvent{
		Seq:  len(t.history) + 1,
		Name: name,
		Kind: kind,
		Err:  err,
	})
}

// History returns the recorded access events in order.
func (t *Table) History() []AccessEvent { return t.history }

// Visualize renders the live alias groups and the access history as a text
// table, for the `custodc hir --aliases` dump and for debugging.
func (t *Table) Visualize() string {
	var b strings.Builder
	b.WriteString("===== ALIAS TABLE =====\n")
	b.WriteString("identity | class                        | writers          | readers\n")
	b.WriteString("---------+------------------------------+------------------+------------------\n")

	groups := map[int]*Group{}
	for _, f := range t.frames {
		for _, bind := range f {
			groups[bind.Group.ID] = bind.Group
		}
	}
	ids := maps.Keys(groups)
	sort.Ints(ids)
	for _, id := range ids {
		g := groups[id]
		term.Bprintf(&b, "%-8s | %-28s | %-16s | %s\n",
			g.Owner, g.Class, joinSorted(g.Writers), joinSorted(g.Readers))
	}

	b.WriteString("\n===== ACCESS HISTORY =====\n")
	for _, ev := range t.history {
		status := "ok"
		detail := ""
		if ev.Err != nil {
			status = "ERR"
			detail = " - " + ev.Err.Msg
		}
		term.Bprintf(&b, "%3d. [%s] %-7s %s%s\n", ev.Seq, status, ev.Kind, ev.Name, detail)
	}
	return b.String()
}

func joinSorted(set map[string]struct{}) string {
	if len(set) == 0 {
		return "-"
	}
	names := maps.Keys(set)
	sort.Strings(names)
	return strings.Join(names, ", ")
}
