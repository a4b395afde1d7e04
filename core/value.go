package core

import (
	"strconv"
)

// ValueType tags the variant held by a Value, for fast type dispatch
// in the VM's arithmetic and comparison opcodes.
type ValueType int

const (
	ValNil ValueType = iota
	ValBool
	ValNumber
	ValString
	ValArray
	ValFunction
	ValNative
)

func (t ValueType) String() string {
	switch t {
	case ValNil:
		return "nil"
	case ValBool:
		return "bool"
	case ValNumber:
		return "number"
	case ValString:
		return "string"
	case ValArray:
		return "array"
	case ValFunction:
		return "function"
	case ValNative:
		return "native"
	default:
		return "<unknown>"
	}
}

// Value is a closed sum type over every runtime value Ember programs
// can produce, per spec.md §3. There is no subtype hierarchy: every
// opcode that cares about a value's shape does a type switch on the
// concrete type, not a virtual call.
type Value interface {
	Type() ValueType
	// Render is the canonical textual rendering used by Print and by
	// as_string: numbers without a trailing ".0" when integer-valued,
	// strings unquoted, booleans as true/false, nil as nil.
	Render() string
}

type NilValue struct{}

func (NilValue) Type() ValueType { return ValNil }
func (NilValue) Render() string  { return "nil" }

type BoolValue bool

func (b BoolValue) Type() ValueType { return ValBool }
func (b BoolValue) Render() string  { return strconv.FormatBool(bool(b)) }

type NumberValue float64

func (n NumberValue) Type() ValueType { return ValNumber }

func (n NumberValue) Render() string {
	f := float64(n)
	if f == float64(int64(f)) {
		return strconv.FormatInt(int64(f), 10)
	}
	return strconv.FormatFloat(f, 'g', -1, 64)
}

// StringValue is immutable text, shared by reference but never
// mutated in place. Indexing is by Unicode codepoint, per spec.md §9's
// resolution of the codepoint-vs-byte open question.
type StringValue string

func (s StringValue) Type() ValueType { return ValString }
func (s StringValue) Render() string  { return string(s) }

func (s StringValue) runes() []rune { return []rune(string(s)) }

// ArrayValue is a fixed-size, shared, mutable sequence. It is always
// held behind a pointer so that aliasing (passing an array to a
// function, storing it in two variables) observes the same backing
// slice, per spec.md §9's shared-mutable-array design note.
type ArrayValue struct {
	Elems []Value
}

func newArray(size int, init Value) *ArrayValue {
	elems := make([]Value, size)
	for i := range elems {
		elems[i] = init
	}
	return &ArrayValue{Elems: elems}
}

func (a *ArrayValue) Type() ValueType { return ValArray }
func (a *ArrayValue) Render() string  { return "<array>" }

// FunctionValue holds a shared reference to the chunk compiled for its
// body, plus enough metadata to validate calls. Chunks are never
// copied on invocation, per spec.md §3's lifecycle note.
type FunctionValue struct {
	Name   string
	Arity  int
	Chunk  *Chunk
}

func (f *FunctionValue) Type() ValueType { return ValFunction }
func (f *FunctionValue) Render() string  { return "<fn " + f.Name + ">" }

// NativeFn is a host-provided callable, given the evaluated argument
// values and returning a result or a runtime error.
type NativeFn func(args []Value) (Value, error)

type NativeValue struct {
	Name  string
	Arity int
	Fn    NativeFn
}

func (n *NativeValue) Type() ValueType { return ValNative }
func (n *NativeValue) Render() string  { return "<native " + n.Name + ">" }

// truthy implements the falsy set spec.md §4.4 assigns to JumpIfZero:
// false, nil, and numeric zero are falsy; everything else is truthy.
func truthy(v Value) bool {
	switch val := v.(type) {
	case BoolValue:
		return bool(val)
	case NilValue:
		return false
	case NumberValue:
		return float64(val) != 0
	default:
		return true
	}
}

// valuesEqual implements spec.md §4.4's Eq contract: numbers by IEEE
// equality, strings by codepoint (i.e. Go string) equality, booleans
// by value, nil-to-nil true, arrays/functions/natives by reference
// identity.
func valuesEqual(a, b Value) bool {
	if a.Type() != b.Type() {
		return false
	}
	switch av := a.(type) {
	case NilValue:
		return true
	case BoolValue:
		return av == b.(BoolValue)
	case NumberValue:
		return av == b.(NumberValue)
	case StringValue:
		return av == b.(StringValue)
	case *ArrayValue:
		return av == b.(*ArrayValue)
	case *FunctionValue:
		return av == b.(*FunctionValue)
	case *NativeValue:
		return av == b.(*NativeValue)
	default:
		return false
	}
}
