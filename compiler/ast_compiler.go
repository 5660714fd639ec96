package compiler

// This file implements the ASTCompiler, which compiles the abstract syntax tree (AST) directly to bytecode.

import (
	"encoding/binary"
	"fmt"
	"os"
	"strings"

	"lox/ast"
	"lox/bytecode"
	"lox/token"
)

// Local represents a local variable in the compiler.
type Local struct {
	// The variable's name
	name string
	// The variable's depth in the scope stack. Used to determine when variables go out of scope.
	depth uint16
	// Whether the variable has been initialized. Used to prevent accessing uninitialized variables.
	initialized bool
	// The slot index where the variable is stored. Used for local variable access in the VM.
	slot uint16
}

// ASTCompiler is a visitor that compiles AST nodes directly to bytecode.
// It implements both ast.ExpressionVisitor and ast.StmtVisitor interfaces
// to traverse and compile the abstract syntax tree to bytecode.
type ASTCompiler struct {
	// The resulting compiled bytecode.
	chunk bytecode.Chunk
	// Tracks initialized global variables
	initialized map[string]bool
	// A stack of local variables in the current scope, ordered by declaration
	// order. The most recently declared variable is always at the top.
	locals []Local
	// The current depth of nested scopes. Used to determine when local variables go out of scope.
	scopeDepth uint16
}

// NewASTCompiler creates a new AST-to-bytecode compiler for a top-level
// program chunk.
func NewASTCompiler() *ASTCompiler {
	return &ASTCompiler{
		chunk: bytecode.Chunk{
			Instructions:  bytecode.Instructions{},
			ConstantsPool: []any{},
			NameConstants: []string{},
		},
		initialized: make(map[string]bool),
		locals:      []Local{},
		scopeDepth:  0,
	}
}

// newFunctionCompiler creates a compiler for a function body. Its
// parameters are pre-declared as initialized locals at scope depth 1, so
// the body sees them the same way it would see locals declared inside its
// own block. Function bodies do not close over the enclosing compiler's
// locals, and globals are not visible either: global names resolve only
// against this compiler's own NameConstants, which start empty, so a body
// that reads, assigns or calls a global (including the function's own name)
// fails to compile with KindUndefinedVariable.
func newFunctionCompiler(params []token.Token) *ASTCompiler {
	ac := &ASTCompiler{
		chunk: bytecode.Chunk{
			Instructions:  bytecode.Instructions{},
			ConstantsPool: []any{},
			NameConstants: []string{},
		},
		initialized: make(map[string]bool),
		locals:      []Local{},
		scopeDepth:  1,
	}
	for _, param := range params {
		ac.locals = append(ac.locals, Local{
			name:        param.Lexeme,
			depth:       1,
			initialized: true,
			slot:        uint16(len(ac.locals)),
		})
	}
	return ac
}

// DumpBytecode writes the compiled bytecode to a file with a `.nic` extension.
// The bytecode is encoded as hexadecimal so it can be viewed in a text editor.
func (ac *ASTCompiler) DumpBytecode(filePath string) error {
	if filePath == "" {
		filePath = "bytecode.nic"
	} else {
		filePath = filePath + ".nic"
	}
	fDescriptor, err := os.Create(filePath)
	if err != nil {
		return fmt.Errorf("error creating lox bytecode file: %s", err.Error())
	}
	defer fDescriptor.Close()

	encoded := fmt.Sprintf("%x", ac.chunk.Instructions)
	_, err = fDescriptor.Write([]byte(encoded))
	return err
}

// Chunk returns the compiler's compiled bytecode chunk.
func (ac *ASTCompiler) Chunk() bytecode.Chunk {
	return ac.chunk
}

// DiassembleBytecode disassembles the compiled bytecode to a human readable format
// and optionally saves it to disk.
func (ac *ASTCompiler) DiassembleBytecode(saveToDisk bool, filePath string) (string, error) {
	var builder strings.Builder
	var instructionLength int
	totalInstructions := len(ac.chunk.Instructions) - 1
	ip := 0

	for ip <= totalInstructions {
		opCode := bytecode.Opcode(ac.chunk.Instructions[ip])
		switch opCode {
		case bytecode.OP_ADD, bytecode.OP_LESS, bytecode.OP_GREATER, bytecode.OP_PRINT,
			bytecode.OP_SUBTRACT, bytecode.OP_DIVIDE, bytecode.OP_MULTIPLY, bytecode.OP_MODULO,
			bytecode.OP_NEGATE, bytecode.OP_NOT, bytecode.OP_AND, bytecode.OP_OR,
			bytecode.OP_EQUAL, bytecode.OP_NOT_EQUAL, bytecode.OP_GREATER_EQUAL, bytecode.OP_LESS_EQUAL,
			bytecode.OP_RETURN, bytecode.OP_POP, bytecode.OP_PUSH_NIL, bytecode.OP_PUSH_TRUE, bytecode.OP_PUSH_FALSE:

			result, err := bytecode.DisassembleInstruction([]byte{ac.chunk.Instructions[ip]})
			if err != nil {
				panic(err.Error())
			}
			builder.WriteString(result)
			builder.WriteString("\n")
			instructionLength = bytecode.OPCODE_TOTAL_BYTES

		case bytecode.OP_GET_LOCAL, bytecode.OP_SET_LOCAL:
			operand, dia := ac.diassemble3ByteInstruction(ip)
			builder.WriteString(dia + fmt.Sprintf(", vm stack index: %d\n", operand))
			instructionLength = bytecode.THREE_BYTE_INSTRUCTION_LENGTH

		case bytecode.OP_SCOPE_EXIT:
			operand, dia := ac.diassemble3ByteInstruction(ip)
			builder.WriteString(dia + fmt.Sprintf(", operand: %d\n", operand))
			instructionLength = bytecode.THREE_BYTE_INSTRUCTION_LENGTH

		case bytecode.OP_CALL:
			argc, fnIdx, dia := ac.diassembleCallInstruction(ip)
			builder.WriteString(dia + fmt.Sprintf(", argc: %d, fnIdx: %d\n", argc, fnIdx))
			instructionLength = bytecode.THREE_BYTE_INSTRUCTION_LENGTH

		case bytecode.OP_CONSTANT, bytecode.OP_SET_GLOBAL, bytecode.OP_GET_GLOBAL, bytecode.OP_DEFINE_GLOBAL:
			operand, dia := ac.diassemble2ByteInstruction(ip)
			builder.WriteString(dia + fmt.Sprintf(", index: %d\n", operand))
			instructionLength = bytecode.TWO_BYTE_INSTRUCTION_LENGTH

		case bytecode.OP_JUMP, bytecode.OP_JUMP_IF_FALSE:
			operand, dia := ac.diassemble3ByteInstruction(ip)
			builder.WriteString(dia + fmt.Sprintf(", target: %d\n", operand))
			instructionLength = bytecode.THREE_BYTE_INSTRUCTION_LENGTH

		default:
			panic(fmt.Sprintf("diassemble: unrecognized opcode %v at ip %d", opCode, ip))
		}

		ip += instructionLength
	}

	diassembledBytecode := builder.String()
	if saveToDisk {
		if filePath == "" {
			filePath = "bytecode.dnic"
		} else {
			filePath = filePath + ".dnic"
		}
		fDescriptor, err := os.Create(filePath)
		if err != nil {
			return "", fmt.Errorf("error creating diassembled bytecode file: %s", err.Error())
		}
		defer fDescriptor.Close()
		fDescriptor.WriteString(diassembledBytecode)
	}
	return diassembledBytecode, nil
}

// CompileAST compiles a full program. Every chunk, including the top-level
// one, terminates with OP_RETURN rather than a sentinel halt opcode, so the
// VM can treat the outermost chunk and a function chunk identically.
func (ac *ASTCompiler) CompileAST(statements []ast.Stmt) (c bytecode.Chunk, err error) {
	defer func() {
		if r := recover(); r != nil {
			switch v := r.(type) {
			case SemanticError:
				err = v
			case DeveloperError:
				err = v
			default:
				panic(r)
			}
		}
	}()

	for _, stmt := range statements {
		stmt.Accept(ac)
	}

	ac.emit(bytecode.OP_PUSH_NIL)
	ac.emit(bytecode.OP_RETURN)
	return ac.chunk, nil
}

// VisitBinary handles binary expressions (arithmetic, comparison operators)
func (ac *ASTCompiler) VisitBinary(binary ast.Binary) any {
	binary.Left.Accept(ac)
	binary.Right.Accept(ac)

	switch binary.Operator.TokenType {
	case token.ADD:
		ac.emit(bytecode.OP_ADD)
	case token.SUB:
		ac.emit(bytecode.OP_SUBTRACT)
	case token.MULT:
		ac.emit(bytecode.OP_MULTIPLY)
	case token.DIV:
		ac.emit(bytecode.OP_DIVIDE)
	case token.MOD:
		ac.emit(bytecode.OP_MODULO)
	case token.EQUAL_EQUAL:
		ac.emit(bytecode.OP_EQUAL)
	case token.LARGER:
		ac.emit(bytecode.OP_GREATER)
	case token.LESS:
		ac.emit(bytecode.OP_LESS)
	case token.LESS_EQUAL:
		ac.emit(bytecode.OP_LESS_EQUAL)
	case token.LARGER_EQUAL:
		ac.emit(bytecode.OP_GREATER_EQUAL)
	case token.NOT_EQUAL:
		ac.emit(bytecode.OP_NOT_EQUAL)
	}

	return nil
}

// VisitUnary handles unary expressions (operators: -, !)
func (ac *ASTCompiler) VisitUnary(unary ast.Unary) any {
	unary.Right.Accept(ac)

	switch unary.Operator.TokenType {
	case token.SUB:
		ac.emit(bytecode.OP_NEGATE)
	case token.BANG:
		ac.emit(bytecode.OP_NOT)
	}
	return nil
}

// VisitLiteral handles literal values (numbers, strings, booleans, nil).
func (ac *ASTCompiler) VisitLiteral(literal ast.Literal) any {
	switch literal.Value {
	case nil:
		ac.emit(bytecode.OP_PUSH_NIL)
	case true:
		ac.emit(bytecode.OP_PUSH_TRUE)
	case false:
		ac.emit(bytecode.OP_PUSH_FALSE)
	default:
		ac.addConstant(literal.Value)
	}
	return nil
}

// VisitGrouping handles parenthesized expressions
func (ac *ASTCompiler) VisitGrouping(grouping ast.Grouping) any {
	grouping.Expression.Accept(ac)
	return nil
}

// VisitVariableExpression compiles variable access, resolving the name as
// a local first and falling back to a global lookup.
func (ac *ASTCompiler) VisitVariableExpression(variable ast.Variable) any {
	identifier := variable.Name.Lexeme

	slotIndex := ac.resolveLocal(identifier)
	if slotIndex != -1 {
		if !ac.locals[slotIndex].initialized {
			panic(CreateKindedSemanticError(KindUninitializedVariable,
				fmt.Sprintf("can't access uninitialized variable '%s'", identifier)))
		}
		ac.emit(bytecode.OP_GET_LOCAL, slotIndex)
		return nil
	}

	globalIndex := ac.resolveGlobal(identifier)
	if globalIndex == -1 {
		panic(CreateKindedSemanticError(KindUndefinedVariable,
			fmt.Sprintf("name '%s' is not defined", identifier)))
	}
	if !ac.initialized[identifier] {
		panic(CreateKindedSemanticError(KindUninitializedVariable,
			fmt.Sprintf("can't access uninitialized variable '%s'", identifier)))
	}

	ac.emit(bytecode.OP_GET_GLOBAL, globalIndex)
	return nil
}

// VisitAssignExpression compiles an assignment expression.
func (ac *ASTCompiler) VisitAssignExpression(assign ast.Assign) any {
	name := assign.Name.Lexeme

	assign.Value.Accept(ac)

	slotIndex := ac.resolveLocal(name)
	if slotIndex != -1 {
		ac.locals[slotIndex].initialized = true
		ac.emit(bytecode.OP_SET_LOCAL, slotIndex)
		return nil
	}

	globalIndex := ac.resolveGlobal(name)
	if globalIndex == -1 {
		panic(CreateKindedSemanticError(KindUndefinedVariable,
			fmt.Sprintf("name '%s' is not defined", name)))
	}

	ac.initialized[name] = true
	ac.emit(bytecode.OP_SET_GLOBAL, globalIndex)
	return nil
}

// VisitVarStmt handles variable declaration statements.
func (ac *ASTCompiler) VisitVarStmt(varStmt ast.VarStmt) any {
	variableName := varStmt.Name.Lexeme
	if ac.scopeDepth == 0 {
		index := ac.addNameConstant(variableName)
		if varStmt.Initializer != nil {
			varStmt.Initializer.Accept(ac)
		} else {
			ac.emit(bytecode.OP_PUSH_NIL)
		}
		ac.emit(bytecode.OP_DEFINE_GLOBAL, index)
		ac.initialized[variableName] = true
	} else {
		ac.declareLocal(variableName)
		if varStmt.Initializer != nil {
			varStmt.Initializer.Accept(ac)
		} else {
			ac.emit(bytecode.OP_PUSH_NIL)
		}
		slot := ac.locals[len(ac.locals)-1].slot
		ac.emit(bytecode.OP_SET_LOCAL, int(slot))
		ac.locals[len(ac.locals)-1].initialized = true
	}

	return nil
}

// VisitLogicalExpression compiles "and"/"or" with short-circuiting jumps.
func (ac *ASTCompiler) VisitLogicalExpression(logical ast.Logical) any {
	logical.Left.Accept(ac)

	switch logical.Operator.TokenType {
	case token.OR:
		jumpIfFalsePos := ac.emitPlaceholderJump(bytecode.OP_JUMP_IF_FALSE)
		jumpEndPos := ac.emitPlaceholderJump(bytecode.OP_JUMP)

		rightStart := len(ac.chunk.Instructions)
		ac.patchJump(jumpIfFalsePos, rightStart)

		ac.emit(bytecode.OP_POP)
		logical.Right.Accept(ac)

		ac.patchJump(jumpEndPos, len(ac.chunk.Instructions))
	case token.AND:
		jumpIfFalsePos := ac.emitPlaceholderJump(bytecode.OP_JUMP_IF_FALSE)

		ac.emit(bytecode.OP_POP)
		logical.Right.Accept(ac)

		ac.patchJump(jumpIfFalsePos, len(ac.chunk.Instructions))
	}
	return nil
}

// VisitExpressionStmt compiles an expression statement, discarding its value.
func (ac *ASTCompiler) VisitExpressionStmt(exprStmt ast.ExpressionStmt) any {
	exprStmt.Expression.Accept(ac)
	ac.emit(bytecode.OP_POP)
	return nil
}

func (ac *ASTCompiler) VisitPrintStmt(printStmt ast.PrintStmt) any {
	printStmt.Expression.Accept(ac)
	ac.emit(bytecode.OP_PRINT)
	return nil
}

// VisitBlockStmt compiles a block statement.
func (ac *ASTCompiler) VisitBlockStmt(blockStmt ast.BlockStmt) any {
	ac.beginScope()
	for _, stmt := range blockStmt.Statements {
		stmt.Accept(ac)
	}

	popped := ac.endScope()
	if popped > 0 {
		ac.emit(bytecode.OP_SCOPE_EXIT, popped)
	}
	return nil
}

// VisitIfStmt compiles an if or if-else statement using backpatched jumps.
func (ac *ASTCompiler) VisitIfStmt(ifStmt ast.IfStmt) any {
	ifStmt.Condition.Accept(ac)

	jumpIfFalsePatch := ac.emitPlaceholderJump(bytecode.OP_JUMP_IF_FALSE)
	ac.emit(bytecode.OP_POP)

	ifStmt.Then.Accept(ac)

	if ifStmt.Else != nil {
		jumpPatch := ac.emitPlaceholderJump(bytecode.OP_JUMP)

		elsePos := len(ac.chunk.Instructions)
		ac.patchJump(jumpIfFalsePatch, elsePos)
		ac.emit(bytecode.OP_POP)

		ifStmt.Else.Accept(ac)

		endPos := len(ac.chunk.Instructions)
		ac.patchJump(jumpPatch, endPos)
	} else {
		afterPos := len(ac.chunk.Instructions)
		ac.patchJump(jumpIfFalsePatch, afterPos)
		ac.emit(bytecode.OP_POP)
	}
	return nil
}

func (ac *ASTCompiler) VisitWhileStmt(whileStmt ast.WhileStmt) any {
	loopstartPos := len(ac.chunk.Instructions)

	whileStmt.Condition.Accept(ac)

	jumpIfFalsePatch := ac.emitPlaceholderJump(bytecode.OP_JUMP_IF_FALSE)

	whileStmt.Body.Accept(ac)

	ac.emit(bytecode.OP_POP)
	ac.emit(bytecode.OP_JUMP, loopstartPos)

	loopEndPos := len(ac.chunk.Instructions)
	ac.patchJump(jumpIfFalsePatch, loopEndPos)
	ac.emit(bytecode.OP_POP)

	return nil
}

// VisitForStmt lowers a C-style for loop directly to jump-based bytecode,
// mirroring the jump/pop discipline VisitWhileStmt uses: OP_JUMP_IF_FALSE
// only peeks the condition, so an explicit OP_POP is needed on both the
// fallthrough and the exit path.
func (ac *ASTCompiler) VisitForStmt(forStmt ast.ForStmt) any {
	ac.beginScope()
	if forStmt.Initializer != nil {
		forStmt.Initializer.Accept(ac)
	}

	loopStartPos := len(ac.chunk.Instructions)

	hasCondition := forStmt.Condition != nil
	jumpIfFalsePatch := -1
	if hasCondition {
		forStmt.Condition.Accept(ac)
		jumpIfFalsePatch = ac.emitPlaceholderJump(bytecode.OP_JUMP_IF_FALSE)
		ac.emit(bytecode.OP_POP)
	}

	forStmt.Body.Accept(ac)

	if forStmt.Increment != nil {
		forStmt.Increment.Accept(ac)
		ac.emit(bytecode.OP_POP)
	}

	ac.emit(bytecode.OP_JUMP, loopStartPos)

	loopEndPos := len(ac.chunk.Instructions)
	if hasCondition {
		ac.patchJump(jumpIfFalsePatch, loopEndPos)
		ac.emit(bytecode.OP_POP)
	}

	popped := ac.endScope()
	if popped > 0 {
		ac.emit(bytecode.OP_SCOPE_EXIT, popped)
	}
	return nil
}

// VisitFunctionDecl compiles a function's body into its own chunk, wraps it
// in a FunctionProto, and binds the resulting value (pushed as a constant)
// to the function's name the same way a var declaration would.
func (ac *ASTCompiler) VisitFunctionDecl(stmt ast.FunctionDecl) any {
	fnCompiler := newFunctionCompiler(stmt.Params)
	for _, bodyStmt := range stmt.Body {
		bodyStmt.Accept(fnCompiler)
	}
	fnCompiler.emit(bytecode.OP_PUSH_NIL)
	fnCompiler.emit(bytecode.OP_RETURN)

	proto := &FunctionProto{
		Name:  stmt.Name.Lexeme,
		Chunk: fnCompiler.chunk,
		Arity: len(stmt.Params),
	}
	ac.addConstant(proto)

	name := stmt.Name.Lexeme
	if ac.scopeDepth == 0 {
		index := ac.addNameConstant(name)
		ac.emit(bytecode.OP_DEFINE_GLOBAL, index)
		ac.initialized[name] = true
	} else {
		ac.declareLocal(name)
		slot := ac.locals[len(ac.locals)-1].slot
		ac.emit(bytecode.OP_SET_LOCAL, int(slot))
		ac.locals[len(ac.locals)-1].initialized = true
	}
	return nil
}

// VisitReturnStmt compiles a return statement. A bare "return;" returns the
// number 0.
func (ac *ASTCompiler) VisitReturnStmt(stmt ast.ReturnStmt) any {
	if stmt.Value != nil {
		stmt.Value.Accept(ac)
	} else {
		ac.addConstant(0.0)
	}
	ac.emit(bytecode.OP_RETURN)
	return nil
}

// VisitClassDecl compiles a class declaration's body so the printer/compiler
// contract stays total, without emitting any dispatchable bytecode for
// method calls (method dispatch is not executed by this VM).
func (ac *ASTCompiler) VisitClassDecl(stmt ast.ClassDecl) any {
	for _, method := range stmt.Methods {
		fnCompiler := newFunctionCompiler(method.Params)
		for _, bodyStmt := range method.Body {
			bodyStmt.Accept(fnCompiler)
		}
	}
	return nil
}

// VisitCallExpression compiles a call expression: the callee, then each
// argument left to right, then OP_CALL with argc and a reserved fnIdx byte
// (this VM calls the function value already on the stack, so fnIdx is
// unread - see the OP_CALL definition in the bytecode package).
func (ac *ASTCompiler) VisitCallExpression(call ast.Call) any {
	call.Callee.Accept(ac)
	for _, arg := range call.Arguments {
		arg.Accept(ac)
	}
	ac.emit(bytecode.OP_CALL, len(call.Arguments), 0)
	return nil
}

// VisitGetExpression compiles a property access expression so the
// printer/compiler contract stays total. The bytecode VM has no Instance
// representation (classes are AST-only, per the Non-goal this VM shares
// with the tree-walking interpreter), so the object is evaluated for any
// side effects and discarded, and OP_PUSH_NIL stands in for the result.
func (ac *ASTCompiler) VisitGetExpression(get ast.Get) any {
	get.Object.Accept(ac)
	ac.emit(bytecode.OP_POP)
	ac.emit(bytecode.OP_PUSH_NIL)
	return nil
}

// VisitSetExpression compiles a property assignment expression. Like
// VisitGetExpression, there's no Instance to store into, so the object is
// evaluated and discarded; the assigned value is left on the stack as the
// expression's result, matching assignment-as-expression semantics.
func (ac *ASTCompiler) VisitSetExpression(set ast.Set) any {
	set.Object.Accept(ac)
	ac.emit(bytecode.OP_POP)
	set.Value.Accept(ac)
	return nil
}

// patchjump overwrites a jump instruction's operand with the actual correct
// byte offset, little-endian per spec.md §4.5's hard wire contract.
func (ac *ASTCompiler) patchJump(jumpPos int, targetPos int) {
	operandPos := jumpPos + bytecode.OPCODE_TOTAL_BYTES

	instruction := make([]byte, 2)
	binary.LittleEndian.PutUint16(instruction, uint16(targetPos))

	ac.chunk.Instructions[operandPos] = instruction[0]
	ac.chunk.Instructions[operandPos+1] = instruction[1]
}

// addConstant appends a value to the constant pool and emits an OP_CONSTANT instruction.
func (ac *ASTCompiler) addConstant(value any) {
	ac.chunk.ConstantsPool = append(ac.chunk.ConstantsPool, value)
	index := len(ac.chunk.ConstantsPool) - 1
	ac.emit(bytecode.OP_CONSTANT, index)
}

// addNameConstant adds a variable name to the NameConstants pool and returns its index.
func (ac *ASTCompiler) addNameConstant(value string) int {
	for _, name := range ac.chunk.NameConstants {
		if name == value {
			panic(CreateKindedSemanticError(KindDuplicateDeclaration,
				fmt.Sprintf("redefinition of variable '%s'", value)))
		}
	}
	ac.chunk.NameConstants = append(ac.chunk.NameConstants, value)
	return len(ac.chunk.NameConstants) - 1
}

// emit constructs a bytecode instruction and appends it to the instruction stream
func (ac *ASTCompiler) emit(opcode bytecode.Opcode, operands ...int) {
	instruction, err := bytecode.AssembleInstruction(opcode, operands...)
	if err != nil {
		panic(CreateDeveloperError(err.Error()))
	}
	ac.chunk.Instructions = append(ac.chunk.Instructions, instruction...)
}

// emitPlaceholderJump emits a jump instruction with a placeholder operand (0),
// returning the position to later pass to patchJump.
func (ac *ASTCompiler) emitPlaceholderJump(opcode bytecode.Opcode) int {
	position := len(ac.chunk.Instructions)
	ac.emit(opcode, 0)
	return position
}

// beginScope increments the scope depth, when compiling a block statement.
func (ac *ASTCompiler) beginScope() {
	ac.scopeDepth++
}

// endScope decrements the scope depth and removes any local variables that go out of scope.
func (ac *ASTCompiler) endScope() int {
	ac.scopeDepth--

	count := 0
	for len(ac.locals) > 0 && ac.locals[len(ac.locals)-1].depth > ac.scopeDepth {
		ac.locals = ac.locals[:len(ac.locals)-1]
		count++
	}

	return count
}

// declareLocal adds a local variable name, checking for same-scope duplicates.
func (ac *ASTCompiler) declareLocal(name string) {
	for i := len(ac.locals) - 1; i >= 0; i-- {
		if ac.locals[i].depth < ac.scopeDepth {
			break
		}
		if ac.locals[i].name == name {
			panic(CreateKindedSemanticError(KindDuplicateDeclaration,
				fmt.Sprintf("redefinition of variable '%s'", name)))
		}
	}

	slot := uint16(len(ac.locals))
	ac.locals = append(ac.locals, Local{
		name:        name,
		depth:       ac.scopeDepth,
		initialized: false,
		slot:        slot,
	})
}

// resolveLocal returns the slot index of name in the current local scope, or -1.
func (ac *ASTCompiler) resolveLocal(name string) int {
	for i := len(ac.locals) - 1; i >= 0; i-- {
		if ac.locals[i].name == name {
			return int(ac.locals[i].slot)
		}
	}
	return -1
}

// resolveGlobal returns the index of name in the NameConstants pool, or -1.
func (ac ASTCompiler) resolveGlobal(name string) int {
	for i, n := range ac.chunk.NameConstants {
		if n == name {
			return i
		}
	}
	return -1
}

// diassemble3ByteInstruction reads a 3-byte instruction (a single 2-byte
// little-endian operand) at ip and returns its uint16 operand along with
// its textual disassembly.
func (ac *ASTCompiler) diassemble3ByteInstruction(ip int) (uint16, string) {
	offset := ip + bytecode.THREE_BYTE_INSTRUCTION_LENGTH
	instruction := ac.chunk.Instructions[ip:offset]
	operand := bytecode.ReadUint16Operand(ac.chunk.Instructions, ip)
	dia, err := bytecode.DisassembleInstruction(instruction)
	if err != nil {
		panic(err.Error())
	}

	return operand, dia
}

// diassemble2ByteInstruction reads a 2-byte instruction (a single 1-byte
// operand, spec.md §4.5's idx:u8 shape) at ip and returns its operand along
// with its textual disassembly.
func (ac *ASTCompiler) diassemble2ByteInstruction(ip int) (uint8, string) {
	offset := ip + bytecode.TWO_BYTE_INSTRUCTION_LENGTH
	instruction := ac.chunk.Instructions[ip:offset]
	operand := bytecode.ReadUint8Operand(ac.chunk.Instructions, ip)
	dia, err := bytecode.DisassembleInstruction(instruction)
	if err != nil {
		panic(err.Error())
	}

	return operand, dia
}

// diassembleCallInstruction reads OP_CALL's two 1-byte operands (argc,
// fnIdx) at ip and returns them along with the textual disassembly.
func (ac *ASTCompiler) diassembleCallInstruction(ip int) (uint8, uint8, string) {
	offset := ip + bytecode.THREE_BYTE_INSTRUCTION_LENGTH
	instruction := ac.chunk.Instructions[ip:offset]
	argc := instruction[bytecode.OPCODE_TOTAL_BYTES]
	fnIdx := instruction[bytecode.OPCODE_TOTAL_BYTES+1]
	dia, err := bytecode.DisassembleInstruction(instruction)
	if err != nil {
		panic(err.Error())
	}

	return argc, fnIdx, dia
}
