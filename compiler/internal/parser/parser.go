// Package parser builds the surface AST from the token stream. Parsing stops
// at the first syntax error; only the permission checker accumulates.
package parser

import (
	"fmt"
	"strconv"

	"github.com/var-che/custod-lang-sub000/compiler/internal/ast"
	"github.com/var-che/custod-lang-sub000/compiler/internal/lexer"
	"github.com/var-che/custod-lang-sub000/compiler/internal/perm"
)

type parser struct {
	toks []lexer.Token
	pos  int
}

// Parse scans and parses a whole source file.
func Parse(src string) (*ast.Program, error) {
	toks, err := lexer.New(src).Scan()
	if err != nil {
		return nil, err
	}
	p := &parser{toks: toks}
	var stmts []ast.Stmt
	for p.peek().Kind != lexer.TokEOF {
		s, err := p.stmt()
		if err != nil {
			return nil, err
		}
		stmts = append(stmts, s)
	}
	return &ast.Program{Stmts: stmts}, nil
}

/* ---------- token helpers ---------- */

func (p *parser) peek() lexer.Token { return p.toks[p.pos] }

func (p *parser) next() lexer.Token {
	t := p.toks[p.pos]
	if t.Kind != lexer.TokEOF {
		p.pos++
	}
	return t
}

func (p *parser) accept(k lexer.TokKind) (lexer.Token, bool) {
	if p.peek().Kind == k {
		return p.next(), true
	}
	return lexer.Token{}, false
}

func (p *parser) expect(k lexer.TokKind) (lexer.Token, error) {
	t := p.peek()
	if t.Kind != k {
		return t, fmt.Errorf("%d:%d: expected %s, found %s", t.Pos.Line, t.Pos.Col, k, describe(t))
	}
	return p.next(), nil
}

func describe(t lexer.Token) string {
	if t.Kind == lexer.TokEOF {
		return "end of file"
	}
	return "'" + t.Text + "'"
}

/* ---------- statements ---------- */

func (p *parser) stmt() (ast.Stmt, error) {
	t := p.peek()
	switch t.Kind {
	case lexer.TokFn, lexer.TokOn:
		return p.fnDecl()
	case lexer.TokRead, lexer.TokReads, lexer.TokWrite, lexer.TokWrites:
		return p.declStmt()
	case lexer.TokPrint:
		p.next()
		v, err := p.expr()
		if err != nil {
			return nil, err
		}
		return &ast.PrintStmt{Value: v, At: t.Pos}, nil
	case lexer.TokReturn:
		p.next()
		// A bare `return` is followed by a block close or another statement
		// opener; anything else starts the return value.
		if k := p.peek().Kind; k == lexer.TokRBrace || k == lexer.TokEOF {
			return &ast.ReturnStmt{At: t.Pos}, nil
		}
		v, err := p.expr()
		if err != nil {
			return nil, err
		}
		return &ast.ReturnStmt{Value: v, At: t.Pos}, nil
	case lexer.TokAtomic:
		p.next()
		body, err := p.block()
		if err != nil {
			return nil, err
		}
		return &ast.AtomicStmt{Body: body, At: t.Pos}, nil
	case lexer.TokLBrace:
		body, err := p.block()
		if err != nil {
			return nil, err
		}
		return &ast.BlockStmt{Body: body, At: t.Pos}, nil
	case lexer.TokIdent:
		return p.assignOrExpr()
	default:
		return nil, fmt.Errorf("%d:%d: expected statement, found %s", t.Pos.Line, t.Pos.Col, describe(t))
	}
}

// permSet parses 1-2 leading permission keywords, e.g. `reads write`.
func (p *parser) permSet() perm.Set {
	var set perm.Set
	switch p.peek().Kind {
	case lexer.TokRead:
		p.next()
		set = append(set, perm.Read)
	case lexer.TokReads:
		p.next()
		set = append(set, perm.Reads)
	case lexer.TokWrite:
		p.next()
		return perm.Set{perm.Write}
	case lexer.TokWrites:
		p.next()
		return perm.Set{perm.Writes}
	default:
		return set
	}
	switch p.peek().Kind {
	case lexer.TokWrite:
		p.next()
		set = append(set, perm.Write)
	case lexer.TokWrites:
		p.next()
		set = append(set, perm.Writes)
	}
	return set
}

func (p *parser) declStmt() (ast.Stmt, error) {
	at := p.peek().Pos
	set := p.permSet()
	name, err := p.expect(lexer.TokIdent)
	if err != nil {
		return nil, err
	}
	typ := ""
	if _, ok := p.accept(lexer.TokColon); ok {
		tt, err := p.expect(lexer.TokIdent)
		if err != nil {
			return nil, err
		}
		typ = tt.Text
	}
	if _, err := p.expect(lexer.TokEq); err != nil {
		return nil, err
	}
	init, err := p.expr()
	if err != nil {
		return nil, err
	}
	return &ast.DeclStmt{Name: name.Text, Type: typ, Perms: set, Init: init, At: at}, nil
}

func (p *parser) fnDecl() (ast.Stmt, error) {
	kw := p.next() // fn | on
	name, err := p.expect(lexer.TokIdent)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.TokLParen); err != nil {
		return nil, err
	}

	var params []ast.Param
	for p.peek().Kind != lexer.TokRParen {
		if len(params) > 0 {
			if _, err := p.expect(lexer.TokComma); err != nil {
				return nil, err
			}
		}
		at := p.peek().Pos
		set := p.permSet()
		pname, err := p.expect(lexer.TokIdent)
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(lexer.TokColon); err != nil {
			return nil, err
		}
		ptype, err := p.expect(lexer.TokIdent)
		if err != nil {
			return nil, err
		}
		params = append(params, ast.Param{Name: pname.Text, Type: ptype.Text, Perms: set, At: at})
	}
	p.next() // ')'

	ret := ""
	if _, ok := p.accept(lexer.TokArrow); ok {
		rt, err := p.expect(lexer.TokIdent)
		if err != nil {
			return nil, err
		}
		ret = rt.Text
	}

	body, err := p.block()
	if err != nil {
		return nil, err
	}
	return &ast.FuncStmt{
		Name:     name.Text,
		Params:   params,
		Ret:      ret,
		Body:     body,
		Behavior: kw.Kind == lexer.TokOn,
		At:       kw.Pos,
	}, nil
}

func (p *parser) block() ([]ast.Stmt, error) {
	if _, err := p.expect(lexer.TokLBrace); err != nil {
		return nil, err
	}
	var body []ast.Stmt
	for p.peek().Kind != lexer.TokRBrace {
		if p.peek().Kind == lexer.TokEOF {
			t := p.peek()
			return nil, fmt.Errorf("%d:%d: unexpected end of file inside block", t.Pos.Line, t.Pos.Col)
		}
		s, err := p.stmt()
		if err != nil {
			return nil, err
		}
		body = append(body, s)
	}
	p.next() // '}'
	return body, nil
}

func (p *parser) assignOrExpr() (ast.Stmt, error) {
	name := p.next() // ident
	switch p.peek().Kind {
	case lexer.TokEq:
		p.next()
		v, err := p.expr()
		if err != nil {
			return nil, err
		}
		return &ast.AssignStmt{Target: name.Text, Value: v, At: name.Pos}, nil
	case lexer.TokPlusEq:
		// `x += e` desugars into `x = x + e`: the read of x on the right is
		// deliberate, so write-only bindings fail the compound form.
		p.next()
		v, err := p.expr()
		if err != nil {
			return nil, err
		}
		sum := &ast.BinaryExpr{
			Op:    "+",
			Left:  &ast.IdentExpr{Name: name.Text, At: name.Pos},
			Right: v,
		}
		return &ast.AssignStmt{Target: name.Text, Value: sum, At: name.Pos}, nil
	case lexer.TokLParen:
		call, err := p.callExpr(name)
		if err != nil {
			return nil, err
		}
		return &ast.ExprStmt{Value: call}, nil
	default:
		t := p.peek()
		return nil, fmt.Errorf("%d:%d: expected '=', '+=' or '(' after '%s', found %s",
			t.Pos.Line, t.Pos.Col, name.Text, describe(t))
	}
}

/* ---------- expressions ---------- */

func (p *parser) expr() (ast.Expr, error) {
	left, err := p.addExpr()
	if err != nil {
		return nil, err
	}
	switch p.peek().Kind {
	case lexer.TokLt, lexer.TokLe, lexer.TokGt, lexer.TokGe, lexer.TokEqEq, lexer.TokBangEq:
		op := p.next()
		right, err := p.addExpr()
		if err != nil {
			return nil, err
		}
		return &ast.BinaryExpr{Op: op.Text, Left: left, Right: right}, nil
	}
	return left, nil
}

func (p *parser) addExpr() (ast.Expr, error) {
	left, err := p.mulExpr()
	if err != nil {
		return nil, err
	}
	for {
		k := p.peek().Kind
		if k != lexer.TokPlus && k != lexer.TokMinus {
			return left, nil
		}
		op := p.next()
		right, err := p.mulExpr()
		if err != nil {
			return nil, err
		}
		left = &ast.BinaryExpr{Op: op.Text, Left: left, Right: right}
	}
}

func (p *parser) mulExpr() (ast.Expr, error) {
	left, err := p.unary()
	if err != nil {
		return nil, err
	}
	for {
		k := p.peek().Kind
		if k != lexer.TokStar && k != lexer.TokSlash && k != lexer.TokPercent {
			return left, nil
		}
		op := p.next()
		right, err := p.unary()
		if err != nil {
			return nil, err
		}
		left = &ast.BinaryExpr{Op: op.Text, Left: left, Right: right}
	}
}

func (p *parser) unary() (ast.Expr, error) {
	t := p.peek()
	switch t.Kind {
	case lexer.TokClone:
		p.next()
		x, err := p.unary()
		if err != nil {
			return nil, err
		}
		return &ast.CloneExpr{X: x, At: t.Pos}, nil
	case lexer.TokPeak:
		p.next()
		x, err := p.unary()
		if err != nil {
			return nil, err
		}
		return &ast.PeakExpr{X: x, At: t.Pos}, nil
	case lexer.TokConsume:
		p.next()
		x, err := p.unary()
		if err != nil {
			return nil, err
		}
		return &ast.ConsumeExpr{X: x, At: t.Pos}, nil
	}
	return p.primary()
}

func (p *parser) primary() (ast.Expr, error) {
	t := p.next()
	switch t.Kind {
	case lexer.TokInt:
		v, err := strconv.ParseInt(t.Text, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("%d:%d: bad integer literal %q", t.Pos.Line, t.Pos.Col, t.Text)
		}
		return &ast.IntLit{Value: v, At: t.Pos}, nil
	case lexer.TokStr:
		return &ast.StrLit{Value: t.Text, At: t.Pos}, nil
	case lexer.TokTrue:
		return &ast.BoolLit{Value: true, At: t.Pos}, nil
	case lexer.TokFalse:
		return &ast.BoolLit{Value: false, At: t.Pos}, nil
	case lexer.TokLParen:
		e, err := p.expr()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(lexer.TokRParen); err != nil {
			return nil, err
		}
		return e, nil
	case lexer.TokIdent:
		if p.peek().Kind == lexer.TokLParen {
			return p.callExpr(t)
		}
		return &ast.IdentExpr{Name: t.Text, At: t.Pos}, nil
	default:
		return nil, fmt.Errorf("%d:%d: expected expression, found %s", t.Pos.Line, t.Pos.Col, describe(t))
	}
}

func (p *parser) callExpr(name lexer.Token) (ast.Expr, error) {
	if _, err := p.expect(lexer.TokLParen); err != nil {
		return nil, err
	}
	var args []ast.Expr
	for p.peek().Kind != lexer.TokRParen {
		if len(args) > 0 {
			if _, err := p.expect(lexer.TokComma); err != nil {
				return nil, err
			}
		}
		a, err := p.expr()
		if err != nil {
			return nil, err
		}
		args = append(args, a)
	}
	p.next() // ')'
	return &ast.CallExpr{Func: name.Text, Args: args, At: name.Pos}, nil
}
