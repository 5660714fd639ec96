package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/chzyer/readline"
	"github.com/google/subcommands"

	"lox/interpreter"
	"lox/lexer"
	"lox/parser"
)

// replCmd is a persistent tree-walking REPL. Unlike the teacher's
// bufio.Scanner loop, line editing and history are handled by readline so
// arrow-key recall and Ctrl-R search work the way a real shell's REPL does.
type replCmd struct{}

func (*replCmd) Name() string     { return "repl" }
func (*replCmd) Synopsis() string { return "Start an interactive tree-walking REPL session" }
func (*replCmd) Usage() string {
	return `repl:
  Start an interactive REPL session.
`
}
func (*replCmd) SetFlags(f *flag.FlagSet) {}

func (*replCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	rl, err := readline.New(">>> ")
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to start readline: %v\n", err)
		return exitUsageError
	}
	defer rl.Close()

	fmt.Println("Welcome to Lox!")
	interp := interpreter.Make()

	for {
		line, err := rl.Readline()
		if errors.Is(err, io.EOF) || errors.Is(err, readline.ErrInterrupt) {
			return subcommands.ExitSuccess
		}
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			continue
		}
		if line == "exit" {
			return subcommands.ExitSuccess
		}
		if line == "" {
			continue
		}

		lex := lexer.New(line)
		tokens, err := lex.Scan()
		if err != nil {
			fmt.Println(err)
			continue
		}

		p := parser.Make(tokens)
		statements, errs := p.Parse()
		if len(errs) > 0 {
			for _, e := range errs {
				fmt.Fprintln(os.Stderr, e)
			}
			continue
		}

		interp.Interpret(statements)
	}
}
