package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/google/subcommands"

	"lox/compiler"
	"lox/lexer"
	"lox/parser"
)

// emitCmd compiles a source file and writes out its bytecode: a hex-encoded
// .nic file and/or a human-readable disassembly, the same pair the
// teacher's cmd_emit_bytecode.go produced.
type emitCmd struct {
	diassemble   bool
	dumpBytecode bool
}

func (*emitCmd) Name() string     { return "emit" }
func (*emitCmd) Synopsis() string { return "Emit the bytecode representation of a source file" }
func (*emitCmd) Usage() string {
	return `emit <file>:
  Compile a source file and write its bytecode to disk.
`
}

func (cmd *emitCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&cmd.diassemble, "diassemble", true, "disassemble the bytecode and dump it to a text file")
	f.BoolVar(&cmd.dumpBytecode, "dumpBytecode", true, "write the encoded bytecode as hexadecimal to a .nic file")
}

func (cmd *emitCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	args := f.Args()
	if len(args) < 1 {
		fmt.Fprintln(os.Stderr, "file not provided")
		return exitUsageError
	}
	sourceFile := args[0]

	data, err := os.ReadFile(sourceFile)
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
	if _, err := astCompiler.CompileAST(statements); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return exitDataError
	}

	fileName := strings.Split(sourceFile, ".")[0]

	if cmd.diassemble {
		if _, err := astCompiler.DiassembleBytecode(true, fileName); err != nil {
			fmt.Fprintf(os.Stderr, "disassemble error: %v\n", err)
			return subcommands.ExitFailure
		}
	}

	if cmd.dumpBytecode {
		if err := astCompiler.DumpBytecode(fileName); err != nil {
			fmt.Fprintf(os.Stderr, "dump bytecode error: %v\n", err)
			return subcommands.ExitFailure
		}
	}

	return subcommands.ExitSuccess
}
