package core

import (
	"fmt"
	"strconv"
	"strings"
)

// expr is any expression node. Evaluation order and the stack effect
// of each form are fixed by the compiler, not by this interface.
type expr interface {
	String() string
	pos() position
}

// stmt is any statement node.
type stmt interface {
	String() string
	pos() position
}

type numberExpr struct {
	value float64
	tok   token
}

func (n numberExpr) String() string { return strconv.FormatFloat(n.value, 'g', -1, 64) }
func (n numberExpr) pos() position  { return n.tok.pos }

type stringExpr struct {
	value string
	tok   token
}

func (n stringExpr) String() string { return strconv.Quote(n.value) }
func (n stringExpr) pos() position  { return n.tok.pos }

type boolExpr struct {
	value bool
	tok   token
}

func (n boolExpr) String() string { return strconv.FormatBool(n.value) }
func (n boolExpr) pos() position  { return n.tok.pos }

type nilExpr struct {
	tok token
}

func (n nilExpr) String() string { return "nil" }
func (n nilExpr) pos() position  { return n.tok.pos }

type identifierExpr struct {
	name string
	tok  token
}

func (n identifierExpr) String() string { return n.name }
func (n identifierExpr) pos() position  { return n.tok.pos }

type unaryExpr struct {
	op    tokenKind
	right expr
	tok   token
}

func (n unaryExpr) String() string { return fmt.Sprintf("(%s%s)", n.op, n.right) }
func (n unaryExpr) pos() position  { return n.tok.pos }

type binaryExpr struct {
	op    tokenKind
	left  expr
	right expr
	tok   token
}

func (n binaryExpr) String() string {
	return fmt.Sprintf("(%s %s %s)", n.left, n.op, n.right)
}
func (n binaryExpr) pos() position { return n.tok.pos }

type callExpr struct {
	callee expr
	args   []expr
	tok    token
}

func (n callExpr) String() string {
	parts := make([]string, len(n.args))
	for i, a := range n.args {
		parts[i] = a.String()
	}
	return fmt.Sprintf("%s(%s)", n.callee, strings.Join(parts, ", "))
}
func (n callExpr) pos() position { return n.tok.pos }

type indexExpr struct {
	target expr
	index  expr
	tok    token
}

func (n indexExpr) String() string { return fmt.Sprintf("%s[%s]", n.target, n.index) }
func (n indexExpr) pos() position  { return n.tok.pos }

type arrayExpr struct {
	initial expr
	size    expr
	tok     token
}

func (n arrayExpr) String() string { return fmt.Sprintf("[%s; %s]", n.initial, n.size) }
func (n arrayExpr) pos() position  { return n.tok.pos }

// assignExpr stores a value into an identifier or an index target.
// target is either identifierExpr or indexExpr, enforced by the
// parser at the point assignment is recognized.
type assignExpr struct {
	target expr
	value  expr
	tok    token
}

func (n assignExpr) String() string { return fmt.Sprintf("(%s = %s)", n.target, n.value) }
func (n assignExpr) pos() position  { return n.tok.pos }

type exprStmt struct {
	expr expr
}

func (n exprStmt) String() string { return n.expr.String() + ";" }
func (n exprStmt) pos() position  { return n.expr.pos() }

type printStmt struct {
	expr expr
	tok  token
}

func (n printStmt) String() string { return fmt.Sprintf("print %s;", n.expr) }
func (n printStmt) pos() position  { return n.tok.pos }

type varDeclStmt struct {
	name string
	init expr // nil if no initializer
	tok  token
}

func (n varDeclStmt) String() string {
	if n.init == nil {
		return fmt.Sprintf("let %s;", n.name)
	}
	return fmt.Sprintf("let %s = %s;", n.name, n.init)
}
func (n varDeclStmt) pos() position { return n.tok.pos }

type blockStmt struct {
	stmts []stmt
	tok   token
}

func (n blockStmt) String() string {
	parts := make([]string, len(n.stmts))
	for i, s := range n.stmts {
		parts[i] = s.String()
	}
	return "{ " + strings.Join(parts, " ") + " }"
}
func (n blockStmt) pos() position { return n.tok.pos }

type ifStmt struct {
	cond     expr
	then     *blockStmt
	elseStmt stmt // *blockStmt or *ifStmt, nil if absent
	tok      token
}

func (n ifStmt) String() string {
	if n.elseStmt == nil {
		return fmt.Sprintf("if (%s) %s", n.cond, n.then)
	}
	return fmt.Sprintf("if (%s) %s else %s", n.cond, n.then, n.elseStmt)
}
func (n ifStmt) pos() position { return n.tok.pos }

type whileStmt struct {
	cond expr
	body *blockStmt
	tok  token
}

func (n whileStmt) String() string { return fmt.Sprintf("while (%s) %s", n.cond, n.body) }
func (n whileStmt) pos() position  { return n.tok.pos }

type funDeclStmt struct {
	name   string
	params []string
	body   *blockStmt
	tok    token
}

func (n funDeclStmt) String() string {
	return fmt.Sprintf("fun %s(%s) %s", n.name, strings.Join(n.params, ", "), n.body)
}
func (n funDeclStmt) pos() position { return n.tok.pos }

type returnStmt struct {
	value expr // nil if bare return
	tok   token
}

func (n returnStmt) String() string {
	if n.value == nil {
		return "return;"
	}
	return fmt.Sprintf("return %s;", n.value)
}
func (n returnStmt) pos() position { return n.tok.pos }
