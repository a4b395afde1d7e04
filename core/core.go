package core

import "io"

// Interpret runs a complete Ember program from source text through
// every stage — lex, parse, compile, execute — writing Print output
// to out. It is the convenience entry point the tests use; cmd/ember
// builds its own VM so it can register extra globals before running.
func Interpret(source string, out io.Writer) error {
	chunk, err := Compile(source)
	if err != nil {
		return err
	}
	return Execute(chunk, out)
}

// Execute runs an already-compiled chunk to completion.
func Execute(chunk *Chunk, out io.Writer) error {
	vm := NewVM(chunk, out)
	return vm.Run()
}
