package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"

	"lox/compiler"
	"lox/lexer"
	"lox/parser"
	"lox/vm"
)

// vmCmd compiles a source file to bytecode and runs it on the stack VM.
type vmCmd struct{}

func (*vmCmd) Name() string     { return "vm" }
func (*vmCmd) Synopsis() string { return "Compile and execute Lox code on the bytecode VM" }
func (*vmCmd) Usage() string {
	return `vm <file>:
  Compile Lox code to bytecode and execute it on the stack VM.
`
}
func (*vmCmd) SetFlags(f *flag.FlagSet) {}

func (*vmCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	args := f.Args()
	if len(args) < 1 {
		fmt.Fprintln(os.Stderr, "file not provided")
		return exitUsageError
	}

	data, err := os.ReadFile(args[0])
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to read file: %v\n", err)
		return exitUsageError
	}

	lex := lexer.New(string(data))
	tokens, err := lex.Scan()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return exitDataError
	}

	p := parser.Make(tokens)
	statements, errs := p.Parse()
	if len(errs) > 0 {
		for _, e := range errs {
			fmt.Fprintln(os.Stderr, e)
		}
		return exitDataError
	}

	astCompiler := compiler.NewASTCompiler()
	chunk, err := astCompiler.CompileAST(statements)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return exitDataError
	}

	machine := vm.New()
	if err := machine.Run(chunk); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}
