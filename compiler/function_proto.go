package compiler

import (
	"fmt"

	"lox/bytecode"
)

// FunctionProto is the compiled form of a function declaration: its name
// (for stack traces and disassembly), its own bytecode.Chunk, and its
// arity. A FunctionProto is stored as a constant pool entry in the chunk
// that declares it, the same way a number or string literal is, and is
// what OP_CALL expects to find on the stack underneath its arguments.
type FunctionProto struct {
	Name  string
	Chunk bytecode.Chunk
	Arity int
}

func (p *FunctionProto) String() string { return fmt.Sprintf("<fn %s>", p.Name) }
