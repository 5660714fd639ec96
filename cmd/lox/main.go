// Command lox is the command-line entry point for the Lox interpreter: a
// tree-walking `run`/`repl` pair and a bytecode `vm`/`vmrepl`/`emit` pair,
// dispatched through subcommands the way the teacher's binary did.
package main

import (
	"context"
	"flag"
	"os"

	"github.com/google/subcommands"
)

// Exit codes follow a 0/64/65 convention: success, usage error (missing
// file argument, unknown flag), and a static error in the source itself
// (lex or parse failure). A runtime error under `vm` exits with the
// library's generic failure status; under `run` the interpreter prints the
// error itself and the command still exits with success.
const (
	exitUsageError subcommands.ExitStatus = 64
	exitDataError  subcommands.ExitStatus = 65
)

func main() {
	subcommands.Register(subcommands.HelpCommand(), "")
	subcommands.Register(subcommands.FlagsCommand(), "")
	subcommands.Register(subcommands.CommandsCommand(), "")
	subcommands.Register(&runCmd{}, "")
	subcommands.Register(&replCmd{}, "")
	subcommands.Register(&vmCmd{}, "")
	subcommands.Register(&vmReplCmd{}, "")
	subcommands.Register(&emitCmd{}, "")

	flag.Parse()
	ctx := context.Background()
	os.Exit(int(subcommands.Execute(ctx)))
}
