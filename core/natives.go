package core

import "fmt"

// registerNatives seeds the VM's globals with the minimum native
// function set from spec.md §6. Natives live in the same globals map
// as user-declared globals, so LoadGlobal/Call treat them uniformly;
// the only special handling is the arity check in executeCall, which
// applies to native and user functions alike per SPEC_FULL.md §4.
func registerNatives(globals map[string]Value) {
	for _, n := range nativeFns {
		globals[n.Name] = n
	}
}

var nativeFns = []*NativeValue{
	{Name: "len", Arity: 1, Fn: nativeLen},
	{Name: "as_char", Arity: 1, Fn: nativeAsChar},
	{Name: "as_string", Arity: 1, Fn: nativeAsString},
}

func nativeLen(args []Value) (Value, error) {
	switch v := args[0].(type) {
	case StringValue:
		return NumberValue(len(v.runes())), nil
	case *ArrayValue:
		return NumberValue(len(v.Elems)), nil
	default:
		return nil, fmt.Errorf("len: expected string or array, got %s", v.Type())
	}
}

func nativeAsChar(args []Value) (Value, error) {
	n, ok := args[0].(NumberValue)
	if !ok {
		return nil, fmt.Errorf("as_char: expected a number, got %s", args[0].Type())
	}
	code := rune(n)
	if code < 0 || NumberValue(code) != n {
		return nil, fmt.Errorf("as_char: %v is not a valid codepoint", n)
	}
	return StringValue(string(code)), nil
}

func nativeAsString(args []Value) (Value, error) {
	switch v := args[0].(type) {
	case StringValue:
		return v, nil
	case NumberValue:
		return StringValue(v.Render()), nil
	default:
		return nil, fmt.Errorf("as_string: expected a string or number, got %s", v.Type())
	}
}
