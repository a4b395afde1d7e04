package core

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"math"

	"github.com/sirupsen/logrus"
)

// Instructions is a flat byte-encoded instruction stream: one opcode
// byte followed by its fixed-width operands, back to back.
type Instructions []byte

// Opcode is one instruction tag from spec.md §6's authoritative table.
type Opcode byte

const (
	OpConstNil Opcode = iota
	OpConstBool
	OpConstNum
	OpConst

	OpPop
	OpPrint

	OpAdd
	OpSub
	OpMul
	OpDiv
	OpNeg
	OpNot

	OpEq
	OpLt
	OpLe
	OpGt
	OpGe

	OpJump
	OpJumpIfZero

	OpLoadGlobal
	OpStoreGlobal
	OpLoadLocal
	OpStoreLocal

	OpArray
	OpLoadIndex
	OpStoreIndex

	OpCall
	OpReturn
)

// opcodeDef names an opcode and the byte width of each of its operands,
// in the order they're encoded.
type opcodeDef struct {
	name          string
	operandWidths []int
}

var opcodeDefs = map[Opcode]*opcodeDef{
	OpConstNil:  {"ConstNil", []int{}},
	OpConstBool: {"ConstBool", []int{1}},
	OpConstNum:  {"ConstNum", []int{8}},
	OpConst:     {"Const", []int{2}},

	OpPop:   {"Pop", []int{}},
	OpPrint: {"Print", []int{}},

	OpAdd: {"Add", []int{}},
	OpSub: {"Sub", []int{}},
	OpMul: {"Mul", []int{}},
	OpDiv: {"Div", []int{}},
	OpNeg: {"Neg", []int{}},
	OpNot: {"Not", []int{}},

	OpEq: {"Eq", []int{}},
	OpLt: {"Lt", []int{}},
	OpLe: {"Le", []int{}},
	OpGt: {"Gt", []int{}},
	OpGe: {"Ge", []int{}},

	OpJump:        {"Jump", []int{2}},
	OpJumpIfZero:  {"JumpIfZero", []int{2}},

	OpLoadGlobal:  {"LoadGlobal", []int{2}},
	OpStoreGlobal: {"StoreGlobal", []int{2}},
	OpLoadLocal:   {"LoadLocal", []int{1}},
	OpStoreLocal:  {"StoreLocal", []int{1}},

	OpArray:      {"Array", []int{}},
	OpLoadIndex:  {"LoadIndex", []int{}},
	OpStoreIndex: {"StoreIndex", []int{}},

	OpCall:   {"Call", []int{1}},
	OpReturn: {"Return", []int{}},
}

func lookupOpcode(op byte) (*opcodeDef, error) {
	def, ok := opcodeDefs[Opcode(op)]
	if !ok {
		return nil, fmt.Errorf("opcode %d undefined", op)
	}
	return def, nil
}

// makeInstruction encodes one instruction: opcode byte, then operands
// packed at their declared widths, big-endian. Jump offsets are passed
// in as signed ints; the uint16 conversion here keeps their two's-
// complement bit pattern, which readSigned16 decodes back.
func makeInstruction(op Opcode, operands ...int) []byte {
	def, ok := opcodeDefs[op]
	if !ok {
		logrus.Panicln("unknown opcode in makeInstruction:", op)
	}

	length := 1
	for _, w := range def.operandWidths {
		length += w
	}

	ins := make([]byte, length)
	ins[0] = byte(op)

	offset := 1
	for i, operand := range operands {
		width := def.operandWidths[i]
		switch width {
		case 1:
			ins[offset] = byte(operand)
		case 2:
			binary.BigEndian.PutUint16(ins[offset:], uint16(operand))
		case 8:
			binary.BigEndian.PutUint64(ins[offset:], uint64(operand))
		}
		offset += width
	}

	return ins
}

func readOperands(def *opcodeDef, ins Instructions) ([]int, int) {
	operands := make([]int, len(def.operandWidths))
	offset := 0

	for i, width := range def.operandWidths {
		switch width {
		case 1:
			operands[i] = int(ins[offset])
		case 2:
			operands[i] = int(binary.BigEndian.Uint16(ins[offset:]))
		case 8:
			operands[i] = int(binary.BigEndian.Uint64(ins[offset:]))
		}
		offset += width
	}

	return operands, offset
}

// readSigned16 decodes the two-byte operand of a jump instruction as a
// signed offset, relative to the instruction immediately after it.
func readSigned16(ins Instructions) int16 {
	return int16(binary.BigEndian.Uint16(ins))
}

func (ins Instructions) String() string {
	var out bytes.Buffer

	i := 0
	for i < len(ins) {
		def, err := lookupOpcode(ins[i])
		if err != nil {
			fmt.Fprintf(&out, "ERROR: %s\n", err)
			i++
			continue
		}

		operands, read := readOperands(def, ins[i+1:])
		fmt.Fprintf(&out, "%04d %s\n", i, fmtInstruction(def, operands))
		i += 1 + read
	}

	return out.String()
}

func fmtInstruction(def *opcodeDef, operands []int) string {
	switch len(operands) {
	case 0:
		return def.name
	case 1:
		return fmt.Sprintf("%-12s %d", def.name, operands[0])
	default:
		return fmt.Sprintf("ERROR: unhandled operand count for %s", def.name)
	}
}

// sourceSpan maps one instruction's starting offset to the source
// position it was compiled from, for error reporting.
type sourceSpan struct {
	offset int
	pos    position
}

// Chunk is a compiled unit: one function's (or the top-level script's)
// instruction stream, constant pool, and a position map used to
// attribute runtime errors back to source. Per spec.md §3, chunks are
// shared, not copied, when a function value is invoked.
type Chunk struct {
	Instructions Instructions
	Constants    []Value
	spans        []sourceSpan
}

// EmptyChunk returns a chunk that immediately returns nil, used as the
// placeholder top-level frame for a VM that will only ever execute
// chunks pushed later via RunChunk (cmd/ember's REPL).
func EmptyChunk() *Chunk {
	c := newChunk()
	c.emit(position{}, OpConstNil)
	c.emit(position{}, OpReturn)
	return c
}

func newChunk() *Chunk {
	return &Chunk{
		Instructions: Instructions{},
		Constants:    []Value{},
		spans:        []sourceSpan{},
	}
}

func (c *Chunk) emit(pos position, op Opcode, operands ...int) int {
	ins := makeInstruction(op, operands...)
	offset := len(c.Instructions)
	c.spans = append(c.spans, sourceSpan{offset: offset, pos: pos})
	c.Instructions = append(c.Instructions, ins...)
	return offset
}

func (c *Chunk) addConstant(v Value) int {
	c.Constants = append(c.Constants, v)
	if len(c.Constants) > math.MaxUint16 {
		logrus.Panicln("constant pool overflow: more than", math.MaxUint16, "constants in one chunk")
	}
	return len(c.Constants) - 1
}

// positionAt finds the source position attributed to the instruction
// starting at ip, by scanning the span table in order and keeping the
// last span at or before ip.
func (c *Chunk) positionAt(ip int) position {
	var found position
	for _, span := range c.spans {
		if span.offset > ip {
			break
		}
		found = span.pos
	}
	return found
}

// Disassemble renders the chunk's instructions in human-readable form,
// one instruction per line, used by -debug-bytecode and by logrus
// Debug-level chunk dumps after compilation.
func (c *Chunk) Disassemble(name string) string {
	var out bytes.Buffer
	fmt.Fprintf(&out, "== %s ==\n", name)
	out.WriteString(c.Instructions.String())
	return out.String()
}
