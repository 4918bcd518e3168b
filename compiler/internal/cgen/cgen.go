// Package cgen emits standalone C from MIR. Every binding is a pointer to a
// heap cell, so aliases compile to pointer copies and writes through one name
// are visible through all of them; lexical scopes map onto C blocks.
package cgen

import (
	"fmt"
	"strings"

	"github.com/var-che/custod-lang-sub000/compiler/internal/lower"
	"github.com/var-che/custod-lang-sub000/compiler/internal/term"
)

const prelude = `#include <stdio.h>
#include <stdlib.h>

static long long *cell_new(void) {
	long long *c = malloc(sizeof *c);
	*c = 0;
	return c;
}

`

type emitter struct {
	b        strings.Builder
	indent   int
	declared []map[string]bool
}

// Emit renders a full C translation unit for the instruction stream.
func Emit(p *lower.Program) (string, error) {
	e := &emitter{declared: []map[string]bool{{}}}
	e.b.WriteString(prelude)
	e.b.WriteString("int main(void) {\n")
	e.indent = 1

	nTemps := maxTemp(p) + 1
	for t := 0; t < nTemps; t++ {
		e.line("long long t%d = 0;", t)
	}

	for _, in := range p.Instrs {
		if err := e.instr(in); err != nil {
			return "", err
		}
	}
	if len(e.declared) != 1 {
		return "", fmt.Errorf("cgen: unbalanced scopes in instruction stream")
	}
	e.line("return 0;")
	e.b.WriteString("}\n")
	return e.b.String(), nil
}

func (e *emitter) instr(in lower.Instr) error {
	switch x := in.(type) {
	case lower.Load:
		v, err := e.rvalue(x.Val)
		if err != nil {
			return err
		}
		e.line("t%d = %s;", x.Target, v)

	case lower.Alloc:
		e.line("%s = cell_new();", e.declare(x.Name))

	case lower.Store:
		v, err := e.rvalue(x.Val)
		if err != nil {
			return err
		}
		e.line("*%s = %s;", cname(x.Target), v)

	case lower.Binary:
		l, err := e.rvalue(x.Left)
		if err != nil {
			return err
		}
		r, err := e.rvalue(x.Right)
		if err != nil {
			return err
		}
		op, err := cop(x.Op)
		if err != nil {
			return err
		}
		e.line("t%d = %s %s %s;", x.Target, l, op, r)

	case lower.Print:
		if s, isStr := x.Val.(lower.Str); isStr {
			e.line("puts(%q);", string(s))
			return nil
		}
		v, err := e.rvalue(x.Val)
		if err != nil {
			return err
		}
		e.line(`printf("%%lld\n", %s);`, v)

	case lower.ReadBarrier, lower.WriteBarrier:
		// Single-threaded output: nothing to fence.

	case lower.CreateReference, lower.CreatePeakView, lower.ShareWrite:
		t, s := aliasPair(x)
		e.line("%s = %s;", e.declare(t), cname(s))

	case lower.EnterScope:
		e.line("{")
		e.indent++
		e.declared = append(e.declared, map[string]bool{})

	case lower.ExitScope:
		if len(e.declared) == 1 {
			return fmt.Errorf("cgen: scope underflow")
		}
		e.declared = e.declared[:len(e.declared)-1]
		e.indent--
		e.line("}")
	}
	return nil
}

func aliasPair(in lower.Instr) (target, source string) {
	switch x := in.(type) {
	case lower.CreateReference:
		return x.Target, x.Source
	case lower.CreatePeakView:
		return x.Target, x.Source
	case lower.ShareWrite:
		return x.Target, x.Source
	}
	return "", ""
}

// declare returns the C lvalue for a binding, prefixing a declaration the
// first time the name appears in the current scope.
func (e *emitter) declare(name string) string {
	top := e.declared[len(e.declared)-1]
	if top[name] {
		return cname(name)
	}
	top[name] = true
	return "long long *" + cname(name)
}

func (e *emitter) rvalue(v lower.Value) (string, error) {
	switch x := v.(type) {
	case lower.Num:
		return fmt.Sprintf("%dLL", int64(x)), nil
	case lower.Temp:
		return fmt.Sprintf("t%d", int(x)), nil
	case lower.Ref:
		return "*" + cname(string(x)), nil
	case lower.Str:
		return "", fmt.Errorf("cgen: string value outside print")
	default:
		return "", fmt.Errorf("cgen: unhandled value kind")
	}
}

func (e *emitter) line(format string, a ...any) {
	e.b.WriteString(strings.Repeat("\t", e.indent))
	term.Bprintf(&e.b, format, a...)
	e.b.WriteByte('\n')
}

// cname mangles a binding name into a valid C identifier; '$' appears in
// synthesized call-result cells.
func cname(name string) string {
	return "v_" + strings.ReplaceAll(name, "$", "_")
}

func cop(op string) (string, error) {
	switch op {
	case "+", "-", "*", "/", "%", "==", "!=", "<", "<=", ">", ">=":
		return op, nil
	default:
		return "", fmt.Errorf("cgen: unknown operator %q", op)
	}
}

func maxTemp(p *lower.Program) int {
	max := -1
	note := func(v lower.Value) {
		if t, ok := v.(lower.Temp); ok && int(t) > max {
			max = int(t)
		}
	}
	for _, in := range p.Instrs {
		switch x := in.(type) {
		case lower.Load:
			if x.Target > max {
				max = x.Target
			}
			note(x.Val)
		case lower.Binary:
			if x.Target > max {
				max = x.Target
			}
			note(x.Left)
			note(x.Right)
		case lower.Store:
			note(x.Val)
		case lower.Print:
			note(x.Val)
		}
	}
	return max
}
