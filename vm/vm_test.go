package vm

import (
	"testing"

	"lox/bytecode"
	"lox/compiler"
)

func asm(t *testing.T, op bytecode.Opcode, operands ...int) []byte {
	t.Helper()
	instruction, err := bytecode.AssembleInstruction(op, operands...)
	if err != nil {
		t.Fatalf("AssembleInstruction(%v): %v", op, err)
	}
	return instruction
}

func concat(chunks ...[]byte) bytecode.Instructions {
	var out bytecode.Instructions
	for _, c := range chunks {
		out = append(out, c...)
	}
	return out
}

func TestRun_ConstantArithmetic(t *testing.T) {
	chunk := bytecode.Chunk{
		Instructions: concat(
			asm(t, bytecode.OP_CONSTANT, 0),
			asm(t, bytecode.OP_CONSTANT, 1),
			asm(t, bytecode.OP_ADD),
			asm(t, bytecode.OP_PRINT),
			asm(t, bytecode.OP_PUSH_NIL),
			asm(t, bytecode.OP_RETURN),
		),
		ConstantsPool: []any{float64(5), float64(1)},
	}

	vm := New()
	if err := vm.Run(chunk); err != nil {
		t.Fatalf("Run() error: %v", err)
	}
	if vm.stack.Len() != 0 {
		t.Fatalf("stack not empty after top-level return, len=%d", vm.stack.Len())
	}
}

func TestRun_DivisionByZero(t *testing.T) {
	chunk := bytecode.Chunk{
		Instructions: concat(
			asm(t, bytecode.OP_CONSTANT, 0),
			asm(t, bytecode.OP_CONSTANT, 1),
			asm(t, bytecode.OP_DIVIDE),
			asm(t, bytecode.OP_RETURN),
		),
		ConstantsPool: []any{float64(1), float64(0)},
	}

	vm := New()
	err := vm.Run(chunk)
	if err == nil {
		t.Fatal("expected a division-by-zero error")
	}
	if rtErr, ok := err.(RuntimeError); !ok || rtErr.Kind != KindDivisionByZero {
		t.Fatalf("error = %v, want KindDivisionByZero", err)
	}
}

func TestRun_GlobalDefineAndGet(t *testing.T) {
	chunk := bytecode.Chunk{
		Instructions: concat(
			asm(t, bytecode.OP_CONSTANT, 0),
			asm(t, bytecode.OP_DEFINE_GLOBAL, 0),
			asm(t, bytecode.OP_GET_GLOBAL, 0),
			asm(t, bytecode.OP_PRINT),
			asm(t, bytecode.OP_PUSH_NIL),
			asm(t, bytecode.OP_RETURN),
		),
		ConstantsPool: []any{float64(42)},
		NameConstants: []string{"answer"},
	}

	vm := New()
	if err := vm.Run(chunk); err != nil {
		t.Fatalf("Run() error: %v", err)
	}
	if vm.globals["answer"] != float64(42) {
		t.Fatalf("globals[answer] = %v, want 42", vm.globals["answer"])
	}
}

func TestRun_UndefinedGlobal(t *testing.T) {
	chunk := bytecode.Chunk{
		Instructions:  concat(asm(t, bytecode.OP_GET_GLOBAL, 0), asm(t, bytecode.OP_RETURN)),
		NameConstants: []string{"missing"},
	}

	vm := New()
	err := vm.Run(chunk)
	if err == nil {
		t.Fatal("expected an undefined-variable error")
	}
	if rtErr, ok := err.(RuntimeError); !ok || rtErr.Kind != KindUndefinedVariable {
		t.Fatalf("error = %v, want KindUndefinedVariable", err)
	}
}

func TestRun_FunctionCall(t *testing.T) {
	// fn double(n) { return n + n; }
	fnChunk := bytecode.Chunk{
		Instructions: concat(
			asm(t, bytecode.OP_GET_LOCAL, 0),
			asm(t, bytecode.OP_GET_LOCAL, 0),
			asm(t, bytecode.OP_ADD),
			asm(t, bytecode.OP_RETURN),
		),
	}
	proto := &compiler.FunctionProto{Name: "double", Chunk: fnChunk, Arity: 1}

	mainChunk := bytecode.Chunk{
		Instructions: concat(
			asm(t, bytecode.OP_CONSTANT, 0), // push proto
			asm(t, bytecode.OP_CONSTANT, 1), // push argument 21
			asm(t, bytecode.OP_CALL, 1),
			asm(t, bytecode.OP_PRINT),
			asm(t, bytecode.OP_PUSH_NIL),
			asm(t, bytecode.OP_RETURN),
		),
		ConstantsPool: []any{proto, float64(21)},
	}

	vm := New()
	if err := vm.Run(mainChunk); err != nil {
		t.Fatalf("Run() error: %v", err)
	}
	if vm.stack.Len() != 0 {
		t.Fatalf("stack not empty after top-level return, len=%d", vm.stack.Len())
	}
}

func TestRun_ArityMismatch(t *testing.T) {
	fnChunk := bytecode.Chunk{Instructions: concat(asm(t, bytecode.OP_PUSH_NIL), asm(t, bytecode.OP_RETURN))}
	proto := &compiler.FunctionProto{Name: "noop", Chunk: fnChunk, Arity: 1}

	mainChunk := bytecode.Chunk{
		Instructions: concat(
			asm(t, bytecode.OP_CONSTANT, 0),
			asm(t, bytecode.OP_CALL, 0),
			asm(t, bytecode.OP_RETURN),
		),
		ConstantsPool: []any{proto},
	}

	vm := New()
	err := vm.Run(mainChunk)
	if err == nil {
		t.Fatal("expected an arity-mismatch error")
	}
	if rtErr, ok := err.(RuntimeError); !ok || rtErr.Kind != KindArityMismatch {
		t.Fatalf("error = %v, want KindArityMismatch", err)
	}
}
