package core

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/sirupsen/logrus"
)

// CompileError reports a static-shape problem found while lowering the
// AST to bytecode: assignment to a non-lvalue, return outside a
// function, or any other construct the compiler rejects before the VM
// ever runs. Per spec.md §4.2/§7.
type CompileError struct {
	Reason string
	pos    position
}

func (e *CompileError) Error() string {
	return fmt.Sprintf("compile error %s: %s", e.pos, e.Reason)
}

type localVar struct {
	name  string
	slot  int
	depth int
}

// Compiler lowers one function's (or the top-level script's) AST into
// a Chunk, in a single pass. A fresh Compiler is created per function
// declaration; there is no variable capture across Compiler instances
// since Ember has no closures, per spec.md §1's non-goals.
type Compiler struct {
	chunk      *Chunk
	isFunction bool

	locals     []localVar
	scopeDepth int
	nextSlot   int
}

func newCompiler() *Compiler {
	return &Compiler{
		chunk:      newChunk(),
		isFunction: false,
		nextSlot:   0,
	}
}

func newFunctionCompiler() *Compiler {
	return &Compiler{
		chunk:      newChunk(),
		isFunction: true,
		nextSlot:   1, // slot 0 holds the callee itself, per spec.md §4.4's Call contract
	}
}

// Compile parses and lowers a complete program into its top-level
// chunk, or returns the first parse or compile error encountered.
func Compile(source string) (*Chunk, error) {
	stmts, err := Parse(source)
	if err != nil {
		return nil, err
	}
	return CompileProgram(stmts)
}

// CompileProgram lowers an already-parsed statement list into a
// top-level chunk.
func CompileProgram(stmts []stmt) (*Chunk, error) {
	c := newCompiler()
	for _, s := range stmts {
		if err := c.compileStmt(s); err != nil {
			return nil, err
		}
	}
	c.finish()

	if logrus.IsLevelEnabled(logrus.DebugLevel) {
		logrus.Debugln(c.chunk.Disassemble("<script>"))
	}

	return c.chunk, nil
}

// finish appends the implicit `return nil` every chunk ends with.
// When the body already ends in an explicit return, this is
// unreachable and harmless.
func (c *Compiler) finish() {
	c.chunk.emit(position{}, OpConstNil)
	c.chunk.emit(position{}, OpReturn)
}

func (c *Compiler) isGlobalScope() bool {
	return !c.isFunction && c.scopeDepth == 0
}

func (c *Compiler) beginScope() {
	c.scopeDepth++
}

func (c *Compiler) endScope(pos position) {
	removed := 0
	for len(c.locals) > 0 && c.locals[len(c.locals)-1].depth == c.scopeDepth {
		c.locals = c.locals[:len(c.locals)-1]
		removed++
	}
	for i := 0; i < removed; i++ {
		c.chunk.emit(pos, OpPop)
	}
	c.nextSlot -= removed
	c.scopeDepth--
}

func (c *Compiler) declareLocal(name string) int {
	slot := c.nextSlot
	c.locals = append(c.locals, localVar{name: name, slot: slot, depth: c.scopeDepth})
	c.nextSlot++
	return slot
}

// resolveLocal searches the current function's locals inner-to-outer,
// i.e. most-recently-declared first, so that shadowing in a nested
// block finds the shadowing declaration.
func (c *Compiler) resolveLocal(name string) (int, bool) {
	for i := len(c.locals) - 1; i >= 0; i-- {
		if c.locals[i].name == name {
			return c.locals[i].slot, true
		}
	}
	return 0, false
}

func (c *Compiler) addStringConstant(s string) int {
	return c.chunk.addConstant(StringValue(s))
}

// bindDeclaration finishes a `let` or `fun` declaration: the declared
// value is already on top of the stack. At the top level it becomes a
// global (named, stored in the VM's globals map); inside a function or
// block it becomes a local (its stack slot is simply its current
// position, per spec.md §4.3).
func (c *Compiler) bindDeclaration(name string, pos position) {
	if c.isGlobalScope() {
		idx := c.addStringConstant(name)
		c.chunk.emit(pos, OpStoreGlobal, idx)
		c.chunk.emit(pos, OpPop)
		return
	}
	c.declareLocal(name)
}

func (c *Compiler) emitJump(pos position, op Opcode) int {
	return c.chunk.emit(pos, op, 0)
}

const jumpInstructionLen = 3 // 1 opcode byte + 2-byte signed offset

// patchJump back-patches the two-byte offset of the jump at
// jumpOffset so that it lands on the instruction about to be emitted
// next, per spec.md §4.3's "offsets are signed and relative to the
// instruction immediately after the jump."
func (c *Compiler) patchJump(jumpOffset int) {
	target := len(c.chunk.Instructions) - (jumpOffset + jumpInstructionLen)
	if target < math.MinInt16 || target > math.MaxInt16 {
		logrus.Panicln("jump offset out of signed 16-bit range:", target)
	}
	binary.BigEndian.PutUint16(c.chunk.Instructions[jumpOffset+1:], uint16(int16(target)))
}

func (c *Compiler) emitLoop(pos position, loopStart int) {
	offset := loopStart - (len(c.chunk.Instructions) + jumpInstructionLen)
	if offset < math.MinInt16 || offset > math.MaxInt16 {
		logrus.Panicln("loop offset out of signed 16-bit range:", offset)
	}
	c.chunk.emit(pos, OpJump, int(int16(offset)))
}

func (c *Compiler) compileStmt(s stmt) error {
	switch n := s.(type) {
	case *exprStmt:
		if err := c.compileExpr(n.expr); err != nil {
			return err
		}
		c.chunk.emit(n.pos(), OpPop)
		return nil

	case *printStmt:
		if err := c.compileExpr(n.expr); err != nil {
			return err
		}
		c.chunk.emit(n.tok.pos, OpPrint)
		return nil

	case *varDeclStmt:
		if n.init != nil {
			if err := c.compileExpr(n.init); err != nil {
				return err
			}
		} else {
			c.chunk.emit(n.tok.pos, OpConstNil)
		}
		c.bindDeclaration(n.name, n.tok.pos)
		return nil

	case *blockStmt:
		return c.compileBlock(n)

	case *ifStmt:
		return c.compileIf(n)

	case *whileStmt:
		return c.compileWhile(n)

	case *funDeclStmt:
		return c.compileFunDecl(n)

	case *returnStmt:
		return c.compileReturn(n)
	}

	return &CompileError{Reason: fmt.Sprintf("unhandled statement %T", s), pos: s.pos()}
}

func (c *Compiler) compileBlock(n *blockStmt) error {
	c.beginScope()
	for _, s := range n.stmts {
		if err := c.compileStmt(s); err != nil {
			return err
		}
	}
	c.endScope(n.tok.pos)
	return nil
}

func (c *Compiler) compileIf(n *ifStmt) error {
	if err := c.compileExpr(n.cond); err != nil {
		return err
	}

	elseJump := c.emitJump(n.tok.pos, OpJumpIfZero)
	if err := c.compileBlock(n.then); err != nil {
		return err
	}
	endJump := c.emitJump(n.tok.pos, OpJump)

	c.patchJump(elseJump)
	if n.elseStmt != nil {
		if err := c.compileStmt(n.elseStmt); err != nil {
			return err
		}
	}
	c.patchJump(endJump)

	return nil
}

func (c *Compiler) compileWhile(n *whileStmt) error {
	loopStart := len(c.chunk.Instructions)

	if err := c.compileExpr(n.cond); err != nil {
		return err
	}
	exitJump := c.emitJump(n.tok.pos, OpJumpIfZero)

	if err := c.compileBlock(n.body); err != nil {
		return err
	}
	c.emitLoop(n.tok.pos, loopStart)

	c.patchJump(exitJump)
	return nil
}

func (c *Compiler) compileFunDecl(n *funDeclStmt) error {
	fc := newFunctionCompiler()
	for _, param := range n.params {
		fc.declareLocal(param)
	}
	fc.beginScope()
	for _, s := range n.body.stmts {
		if err := fc.compileStmt(s); err != nil {
			return err
		}
	}
	fc.endScope(n.body.tok.pos)
	fc.finish()

	if logrus.IsLevelEnabled(logrus.DebugLevel) {
		logrus.Debugln(fc.chunk.Disassemble(n.name))
	}

	fn := &FunctionValue{Name: n.name, Arity: len(n.params), Chunk: fc.chunk}
	idx := c.chunk.addConstant(fn)
	c.chunk.emit(n.tok.pos, OpConst, idx)
	c.bindDeclaration(n.name, n.tok.pos)
	return nil
}

func (c *Compiler) compileReturn(n *returnStmt) error {
	if !c.isFunction {
		return &CompileError{Reason: "return outside function", pos: n.tok.pos}
	}
	if n.value != nil {
		if err := c.compileExpr(n.value); err != nil {
			return err
		}
	} else {
		c.chunk.emit(n.tok.pos, OpConstNil)
	}
	c.chunk.emit(n.tok.pos, OpReturn)
	return nil
}

func (c *Compiler) compileExpr(e expr) error {
	switch n := e.(type) {
	case numberExpr:
		c.chunk.emit(n.tok.pos, OpConstNum, int(math.Float64bits(n.value)))
		return nil

	case stringExpr:
		idx := c.addStringConstant(n.value)
		c.chunk.emit(n.tok.pos, OpConst, idx)
		return nil

	case boolExpr:
		b := 0
		if n.value {
			b = 1
		}
		c.chunk.emit(n.tok.pos, OpConstBool, b)
		return nil

	case nilExpr:
		c.chunk.emit(n.tok.pos, OpConstNil)
		return nil

	case identifierExpr:
		return c.compileIdentifierLoad(n)

	case unaryExpr:
		return c.compileUnary(n)

	case binaryExpr:
		return c.compileBinary(n)

	case callExpr:
		return c.compileCall(n)

	case indexExpr:
		if err := c.compileExpr(n.index); err != nil {
			return err
		}
		if err := c.compileExpr(n.target); err != nil {
			return err
		}
		c.chunk.emit(n.tok.pos, OpLoadIndex)
		return nil

	case arrayExpr:
		if err := c.compileExpr(n.size); err != nil {
			return err
		}
		if err := c.compileExpr(n.initial); err != nil {
			return err
		}
		c.chunk.emit(n.tok.pos, OpArray)
		return nil

	case assignExpr:
		return c.compileAssign(n)
	}

	return &CompileError{Reason: fmt.Sprintf("unhandled expression %T", e), pos: e.pos()}
}

func (c *Compiler) compileIdentifierLoad(n identifierExpr) error {
	if slot, ok := c.resolveLocal(n.name); ok {
		c.chunk.emit(n.tok.pos, OpLoadLocal, slot)
		return nil
	}
	idx := c.addStringConstant(n.name)
	c.chunk.emit(n.tok.pos, OpLoadGlobal, idx)
	return nil
}

func (c *Compiler) compileUnary(n unaryExpr) error {
	if err := c.compileExpr(n.right); err != nil {
		return err
	}
	switch n.op {
	case MINUS:
		c.chunk.emit(n.tok.pos, OpNeg)
	case BANG:
		c.chunk.emit(n.tok.pos, OpNot)
	default:
		return &CompileError{Reason: fmt.Sprintf("unsupported unary operator %s", n.op), pos: n.tok.pos}
	}
	return nil
}

func (c *Compiler) compileBinary(n binaryExpr) error {
	if err := c.compileExpr(n.left); err != nil {
		return err
	}
	if err := c.compileExpr(n.right); err != nil {
		return err
	}

	switch n.op {
	case PLUS:
		c.chunk.emit(n.tok.pos, OpAdd)
	case MINUS:
		c.chunk.emit(n.tok.pos, OpSub)
	case STAR:
		c.chunk.emit(n.tok.pos, OpMul)
	case SLASH:
		c.chunk.emit(n.tok.pos, OpDiv)
	case EQ:
		c.chunk.emit(n.tok.pos, OpEq)
	case NEQ:
		c.chunk.emit(n.tok.pos, OpEq)
		c.chunk.emit(n.tok.pos, OpNot)
	case LESS:
		c.chunk.emit(n.tok.pos, OpLt)
	case LEQ:
		c.chunk.emit(n.tok.pos, OpLe)
	case GREATER:
		c.chunk.emit(n.tok.pos, OpGt)
	case GEQ:
		c.chunk.emit(n.tok.pos, OpGe)
	default:
		return &CompileError{Reason: fmt.Sprintf("unsupported binary operator %s", n.op), pos: n.tok.pos}
	}
	return nil
}

func (c *Compiler) compileCall(n callExpr) error {
	if err := c.compileExpr(n.callee); err != nil {
		return err
	}
	for _, arg := range n.args {
		if err := c.compileExpr(arg); err != nil {
			return err
		}
	}
	c.chunk.emit(n.tok.pos, OpCall, len(n.args))
	return nil
}

func (c *Compiler) compileAssign(n assignExpr) error {
	switch target := n.target.(type) {
	case identifierExpr:
		if err := c.compileExpr(n.value); err != nil {
			return err
		}
		if slot, ok := c.resolveLocal(target.name); ok {
			c.chunk.emit(n.tok.pos, OpStoreLocal, slot)
			return nil
		}
		idx := c.addStringConstant(target.name)
		c.chunk.emit(n.tok.pos, OpStoreGlobal, idx)
		return nil

	case indexExpr:
		if err := c.compileExpr(target.index); err != nil {
			return err
		}
		if err := c.compileExpr(target.target); err != nil {
			return err
		}
		if err := c.compileExpr(n.value); err != nil {
			return err
		}
		c.chunk.emit(n.tok.pos, OpStoreIndex)
		return nil
	}

	return &CompileError{Reason: "invalid assignment target", pos: n.tok.pos}
}
