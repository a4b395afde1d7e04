package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/reeflective/readline"
	"github.com/sirupsen/logrus"

	"github.com/emberlang/ember/core"
	"github.com/emberlang/ember/modules"
)

const helpMessage = `ember is a tiny scripting language.

Usage:
  ember <file>
  ember            (starts a REPL)
`

var (
	debugAst      = flag.Bool("debug-ast", false, "print the parsed AST before running")
	debugBytecode = flag.Bool("debug-bytecode", false, "print disassembled bytecode before running")
	debugVM       = flag.Bool("debug-vm", false, "trace every dispatched opcode")
)

func main() {
	flag.Usage = func() {
		fmt.Print(helpMessage)
		flag.PrintDefaults()
	}
	flag.Parse()

	logrus.SetLevel(logrus.WarnLevel)
	if *debugBytecode {
		logrus.SetLevel(logrus.DebugLevel)
	}
	if *debugVM {
		logrus.SetLevel(logrus.TraceLevel)
	}

	args := flag.Args()
	if len(args) == 0 {
		repl()
		return
	}
	runFile(args[0])
}

func runFile(path string) {
	content, err := os.ReadFile(path)
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}

	if *debugAst {
		stmts, err := core.Parse(string(content))
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
		for _, s := range stmts {
			fmt.Println(s)
		}
	}

	chunk, err := core.Compile(string(content))
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}

	vm := core.NewVM(chunk, os.Stdout)
	modules.Register(vm)

	if err := vm.Run(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func repl() {
	rl := readline.NewShell()
	rl.Prompt.Primary(func() string { return "> " })
	rl.SyntaxHighlighter = highlight

	vm := core.NewVM(core.EmptyChunk(), io.Discard)
	modules.Register(vm)

	for {
		text, err := rl.Readline()
		if err == io.EOF {
			break
		} else if err != nil {
			fmt.Println(err)
			break
		}
		if strings.TrimSpace(text) == "" {
			continue
		}

		if *debugAst {
			stmts, err := core.Parse(text)
			if err != nil {
				fmt.Println(err)
				continue
			}
			for _, s := range stmts {
				fmt.Println(s)
			}
		}

		chunk, err := core.Compile(text)
		if err != nil {
			fmt.Println(err)
			continue
		}

		if err := vm.RunChunk(chunk); err != nil {
			fmt.Println(err)
			continue
		}

		fmt.Println(vm.LastPoppedStackElem().Render())
	}
}

// highlight colors string and number literals and keywords in the
// REPL's input line, the way the teacher's bin/main.go colors ion's token stream.
func highlight(line []rune) string {
	tokens, err := core.Tokenize(string(line))
	if err != nil {
		return string(line)
	}

	var b strings.Builder
	runes := []rune(string(line))
	col := 0

	for _, tok := range tokens {
		start := tok.Col - 1
		if start < col || start > len(runes) {
			continue
		}
		if start > col {
			b.WriteString(string(runes[col:start]))
		}

		switch tok.Kind {
		case core.TokString:
			b.WriteString(color.GreenString("%q", tok.Lexeme))
		case core.TokNumber:
			b.WriteString(color.MagentaString(tok.Lexeme))
		default:
			if tok.Kind.IsKeyword() {
				b.WriteString(color.CyanString(tok.Lexeme))
			} else {
				b.WriteString(tok.Lexeme)
			}
		}

		col = start + len([]rune(tok.Lexeme))
	}
	if col < len(runes) {
		b.WriteString(string(runes[col:]))
	}

	return b.String()
}
