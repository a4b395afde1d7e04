// Package modules provides optional native functions beyond the
// minimum set in core/natives.go. There is no import/module-lookup
// mechanism: a host binary that wants these simply calls Register
// once, and the names become ordinary globals, checked for arity the
// same way every other native is.
package modules

import (
	"fmt"
	"math"

	"github.com/emberlang/ember/core"
)

// Register installs the math helpers into vm as additional globals.
func Register(vm *core.VM) {
	vm.Define("pi", core.NumberValue(math.Pi))
	vm.Define("e", core.NumberValue(math.E))
	vm.Define("ceil", mathNative("ceil", math.Ceil))
	vm.Define("floor", mathNative("floor", math.Floor))
	vm.Define("sin", mathNative("sin", math.Sin))
	vm.Define("cos", mathNative("cos", math.Cos))
	vm.Define("sqrt", mathNative("sqrt", math.Sqrt))
}

func mathNative(name string, fn func(float64) float64) *core.NativeValue {
	return &core.NativeValue{
		Name:  name,
		Arity: 1,
		Fn: func(args []core.Value) (core.Value, error) {
			n, ok := args[0].(core.NumberValue)
			if !ok {
				return nil, fmt.Errorf("%s does not support type %s", name, args[0].Type())
			}
			return core.NumberValue(fn(float64(n))), nil
		},
	}
}
