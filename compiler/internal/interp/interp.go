// Package interp executes MIR directly. Aliasing is modeled with storage
// cells: a reference or peak view binds a second name to an existing cell,
// while a clone or plain store allocates a fresh one, so writes through one
// alias are visible through every name sharing the cell.
package interp

import (
	"fmt"
	"io"
	"sort"

	"golang.org/x/exp/maps"

	"github.com/var-che/custod-lang-sub000/compiler/internal/lower"
	"github.com/var-che/custod-lang-sub000/compiler/internal/term"
)

type cell struct {
	num int64
	str string
	isS bool
}

type frame map[string]int

// Machine holds the mutable execution state: the cell heap, the lexical
// frame stack mapping names to cells, and the temporary registers.
type Machine struct {
	cells    map[int]*cell
	frames   []frame
	temps    map[int]int64
	nextCell int
	out      io.Writer
}

func New(out io.Writer) *Machine {
	return &Machine{
		cells:  map[int]*cell{},
		frames: []frame{{}},
		temps:  map[int]int64{},
		out:    out,
	}
}

// Run executes the whole instruction stream.
func (m *Machine) Run(p *lower.Program) error {
	for i, in := range p.Instrs {
		if err := m.step(in); err != nil {
			return fmt.Errorf("instruction %d: %w", i, err)
		}
	}
	return nil
}

func (m *Machine) step(in lower.Instr) error {
	switch x := in.(type) {
	case lower.Load:
		v, err := m.numValue(x.Val)
		if err != nil {
			return err
		}
		m.temps[x.Target] = v

	case lower.Store:
		return m.store(x.Target, x.Val)

	case lower.Alloc:
		id := m.nextCell
		m.nextCell++
		m.cells[id] = &cell{}
		m.frames[len(m.frames)-1][x.Name] = id

	case lower.Binary:
		l, err := m.numValue(x.Left)
		if err != nil {
			return err
		}
		r, err := m.numValue(x.Right)
		if err != nil {
			return err
		}
		out, err := binop(x.Op, l, r)
		if err != nil {
			return err
		}
		m.temps[x.Target] = out

	case lower.Print:
		return m.print(x.Val)

	case lower.ReadBarrier, lower.WriteBarrier:
		// Informational markers only.

	case lower.CreateReference:
		return m.bindAlias(x.Target, x.Source)

	case lower.CreatePeakView:
		return m.bindAlias(x.Target, x.Source)

	case lower.ShareWrite:
		return m.bindAlias(x.Target, x.Source)

	case lower.EnterScope:
		m.frames = append(m.frames, frame{})

	case lower.ExitScope:
		if len(m.frames) == 1 {
			return fmt.Errorf("scope underflow")
		}
		m.frames = m.frames[:len(m.frames)-1]
	}
	return nil
}

// store writes into the cell a name is bound to, allocating a fresh cell in
// the current frame on first use.
func (m *Machine) store(name string, v lower.Value) error {
	id, ok := m.lookup(name)
	if !ok {
		id = m.nextCell
		m.nextCell++
		m.cells[id] = &cell{}
		m.frames[len(m.frames)-1][name] = id
	}
	c := m.cells[id]
	if s, isStr := v.(lower.Str); isStr {
		c.str, c.isS = string(s), true
		return nil
	}
	n, err := m.numValue(v)
	if err != nil {
		return err
	}
	c.num, c.isS = n, false
	return nil
}

func (m *Machine) bindAlias(target, source string) error {
	id, ok := m.lookup(source)
	if !ok {
		return fmt.Errorf("alias source %q has no cell", source)
	}
	m.frames[len(m.frames)-1][target] = id
	return nil
}

func (m *Machine) lookup(name string) (int, bool) {
	for i := len(m.frames) - 1; i >= 0; i-- {
		if id, ok := m.frames[i][name]; ok {
			return id, true
		}
	}
	return 0, false
}

func (m *Machine) numValue(v lower.Value) (int64, error) {
	switch x := v.(type) {
	case lower.Num:
		return int64(x), nil
	case lower.Temp:
		return m.temps[int(x)], nil
	case lower.Ref:
		id, ok := m.lookup(string(x))
		if !ok {
			return 0, fmt.Errorf("read of unbound name %q", string(x))
		}
		c := m.cells[id]
		if c.isS {
			return 0, fmt.Errorf("%q holds a string, not a number", string(x))
		}
		return c.num, nil
	case lower.Str:
		return 0, fmt.Errorf("string value in numeric position")
	default:
		return 0, fmt.Errorf("unhandled value kind")
	}
}

func (m *Machine) print(v lower.Value) error {
	if s, isStr := v.(lower.Str); isStr {
		term.Wprintf(m.out, "%s\n", string(s))
		return nil
	}
	if r, isRef := v.(lower.Ref); isRef {
		id, ok := m.lookup(string(r))
		if ok {
			if c := m.cells[id]; c.isS {
				term.Wprintf(m.out, "%s\n", c.str)
				return nil
			}
		}
	}
	n, err := m.numValue(v)
	if err != nil {
		return err
	}
	term.Wprintf(m.out, "%d\n", n)
	return nil
}

func binop(op string, l, r int64) (int64, error) {
	switch op {
	case "+":
		return l + r, nil
	case "-":
		return l - r, nil
	case "*":
		return l * r, nil
	case "/":
		if r == 0 {
			return 0, fmt.Errorf("division by zero")
		}
		return l / r, nil
	case "%":
		if r == 0 {
			return 0, fmt.Errorf("modulo by zero")
		}
		return l % r, nil
	case "==":
		return boolNum(l == r), nil
	case "!=":
		return boolNum(l != r), nil
	case "<":
		return boolNum(l < r), nil
	case "<=":
		return boolNum(l <= r), nil
	case ">":
		return boolNum(l > r), nil
	case ">=":
		return boolNum(l >= r), nil
	default:
		return 0, fmt.Errorf("unknown operator %q", op)
	}
}

func boolNum(b bool) int64 {
	if b {
		return 1
	}
	return 0
}

// Value reports a visible binding's current numeric value, resolving aliases
// through the shared cell.
func (m *Machine) Value(name string) (int64, bool) {
	id, ok := m.lookup(name)
	if !ok {
		return 0, false
	}
	c := m.cells[id]
	if c.isS {
		return 0, false
	}
	return c.num, true
}

// SameCell reports whether two names are bound to the same storage cell.
func (m *Machine) SameCell(a, b string) bool {
	ia, oka := m.lookup(a)
	ib, okb := m.lookup(b)
	return oka && okb && ia == ib
}

// Bindings lists the names visible from the current frame, sorted.
func (m *Machine) Bindings() []string {
	seen := map[string]struct{}{}
	for _, f := range m.frames {
		for k := range f {
			seen[k] = struct{}{}
		}
	}
	names := maps.Keys(seen)
	sort.Strings(names)
	return names
}
