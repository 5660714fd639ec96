package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/chzyer/readline"
	"github.com/google/subcommands"

	"lox/compiler"
	"lox/lexer"
	"lox/parser"
	"lox/token"
	"lox/vm"
)

// vmReplCmd is a persistent bytecode REPL: the compiler and VM survive
// across lines, so a variable or function declared on one line is still
// visible on the next, the same way cmd_repl_compiled.go's compiled REPL
// kept its compiler/VM instances alive across iterations.
type vmReplCmd struct{}

func (*vmReplCmd) Name() string     { return "vmrepl" }
func (*vmReplCmd) Synopsis() string { return "Start a persistent bytecode REPL session" }
func (*vmReplCmd) Usage() string {
	return `vmrepl:
  Start an interactive REPL session backed by the bytecode compiler and VM.
`
}
func (*vmReplCmd) SetFlags(f *flag.FlagSet) {}

// isInputReady reports whether tokens form a balanced, complete statement
// that's ready to compile, based on brace nesting. A REPL line like
// "fun add(a, b) {" is incomplete until its matching "}" arrives.
func isInputReady(tokens []token.Token) bool {
	depth := 0
	for _, tok := range tokens {
		switch tok.TokenType {
		case token.LCUR:
			depth++
		case token.RCUR:
			depth--
		}
	}
	return depth <= 0
}

func (*vmReplCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	rl, err := readline.New(">>> ")
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to start readline: %v\n", err)
		return exitUsageError
	}
	defer rl.Close()

	fmt.Println("Welcome to Lox! (bytecode VM)")
	astCompiler := compiler.NewASTCompiler()
	machine := vm.New()

	var buffer strings.Builder
	prompt := ">>> "

	for {
		rl.SetPrompt(prompt)
		line, err := rl.Readline()
		if errors.Is(err, io.EOF) || errors.Is(err, readline.ErrInterrupt) {
			return subcommands.ExitSuccess
		}
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			continue
		}
		if buffer.Len() == 0 && line == "exit" {
			return subcommands.ExitSuccess
		}

		buffer.WriteString(line)
		buffer.WriteString("\n")

		lex := lexer.New(buffer.String())
		tokens, lexErr := lex.Scan()
		if lexErr != nil {
			fmt.Println(lexErr)
			buffer.Reset()
			prompt = ">>> "
			continue
		}

		if !isInputReady(tokens) {
			prompt = "... "
			continue
		}
		prompt = ">>> "

		p := parser.Make(tokens)
		statements, errs := p.Parse()
		buffer.Reset()
		if len(errs) > 0 {
			for _, e := range errs {
				fmt.Fprintln(os.Stderr, e)
			}
			continue
		}

		startIP := len(astCompiler.Chunk().Instructions)
		chunk, cErr := astCompiler.CompileAST(statements)
		if cErr != nil {
			fmt.Fprintln(os.Stderr, cErr)
			continue
		}

		// The compiler keeps appending to the same chunk across lines so
		// that jump targets and name bindings stay valid; RunFrom executes
		// only the suffix this line just added instead of replaying the
		// whole session every time.
		if rErr := machine.RunFrom(chunk, startIP); rErr != nil {
			fmt.Fprintln(os.Stderr, rErr)
		}
	}
}
