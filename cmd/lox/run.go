package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"

	"lox/interpreter"
	"lox/lexer"
	"lox/parser"
)

// runCmd tree-walks a source file.
type runCmd struct{}

func (*runCmd) Name() string     { return "run" }
func (*runCmd) Synopsis() string { return "Execute Lox code from a source file" }
func (*runCmd) Usage() string {
	return `run <file>:
  Execute Lox code with the tree-walking interpreter.
`
}
func (*runCmd) SetFlags(f *flag.FlagSet) {}

func (*runCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	args := f.Args()
	if len(args) < 1 {
		fmt.Fprintln(os.Stderr, "file not provided")
		return exitUsageError
	}
	filename := args[0]

	data, err := os.ReadFile(filename)
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

	interp := interpreter.Make()
	interp.Interpret(statements)
	return subcommands.ExitSuccess
}
