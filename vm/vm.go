package vm

import (
	"fmt"
	"strconv"

	"lox/bytecode"
	"lox/compiler"
)

// Frame is one call frame on the VM's call stack: the function being
// executed, its instruction pointer, and the stack index of the function
// value itself (everything from base+1 upward is that call's arguments and
// locals). The top-level program is run as if it were a zero-arity
// function pushed at stack index 0, so script execution and function calls
// share the same return/teardown path; the return value is pushed only when
// a caller frame remains, so a finished script leaves the stack empty.
type Frame struct {
	proto *compiler.FunctionProto
	ip    int
	base  int
}

// VM is a stack based virtual machine, the runtime that executes compiled
// Lox bytecode.
type VM struct {
	stack   Stack
	frames  []Frame
	globals map[string]any
}

// New creates a VM with no globals defined yet.
func New() *VM {
	return &VM{globals: make(map[string]any)}
}

// Run executes chunk as the top-level program and returns any runtime
// error encountered. Globals persist across calls to Run on the same VM,
// which is what the persistent bytecode REPL relies on.
func (vm *VM) Run(chunk bytecode.Chunk) error {
	return vm.RunFrom(chunk, 0)
}

// RunFrom executes chunk starting at instruction offset startIP instead of
// 0. The persistent bytecode REPL keeps appending each line's statements
// (plus its own trailing OP_PUSH_NIL/OP_RETURN) to one growing chunk, so
// that forward/backward jump targets - which are absolute offsets into
// that chunk - stay valid across lines; RunFrom lets it execute only the
// newly appended suffix instead of replaying every earlier line.
func (vm *VM) RunFrom(chunk bytecode.Chunk, startIP int) error {
	proto := &compiler.FunctionProto{Name: "script", Chunk: chunk, Arity: 0}
	vm.stack = Stack{}
	vm.stack.Push(proto)
	vm.frames = []Frame{{proto: proto, ip: startIP, base: 0}}
	return vm.run()
}

func (vm *VM) run() error {
	for {
		frameIdx := len(vm.frames) - 1
		frame := &vm.frames[frameIdx]
		instructions := frame.proto.Chunk.Instructions

		op := bytecode.Opcode(instructions[frame.ip])

		switch op {
		case bytecode.OP_CONSTANT:
			operand := bytecode.ReadUint8Operand(instructions, frame.ip)
			vm.stack.Push(frame.proto.Chunk.ConstantsPool[operand])
			frame.ip += bytecode.TWO_BYTE_INSTRUCTION_LENGTH

		case bytecode.OP_PUSH_NIL:
			vm.stack.Push(nil)
			frame.ip += bytecode.OPCODE_TOTAL_BYTES
		case bytecode.OP_PUSH_TRUE:
			vm.stack.Push(true)
			frame.ip += bytecode.OPCODE_TOTAL_BYTES
		case bytecode.OP_PUSH_FALSE:
			vm.stack.Push(false)
			frame.ip += bytecode.OPCODE_TOTAL_BYTES

		case bytecode.OP_POP:
			vm.stack.Pop()
			frame.ip += bytecode.OPCODE_TOTAL_BYTES

		case bytecode.OP_ADD:
			right, _ := vm.stack.Pop()
			left, _ := vm.stack.Pop()
			result, err := addValues(left, right)
			if err != nil {
				return err
			}
			vm.stack.Push(result)
			frame.ip += bytecode.OPCODE_TOTAL_BYTES

		case bytecode.OP_SUBTRACT, bytecode.OP_MULTIPLY, bytecode.OP_DIVIDE, bytecode.OP_MODULO:
			right, _ := vm.stack.Pop()
			left, _ := vm.stack.Pop()
			leftNum, rightNum, err := numericOperands(left, right)
			if err != nil {
				return err
			}
			var result float64
			switch op {
			case bytecode.OP_SUBTRACT:
				result = leftNum - rightNum
			case bytecode.OP_MULTIPLY:
				result = leftNum * rightNum
			case bytecode.OP_DIVIDE:
				if rightNum == 0 {
					return CreateKindedRuntimeError(KindDivisionByZero, "division by zero")
				}
				result = leftNum / rightNum
			case bytecode.OP_MODULO:
				if rightNum == 0 {
					return CreateKindedRuntimeError(KindDivisionByZero, "division by zero")
				}
				result = float64(int64(leftNum) % int64(rightNum))
			}
			vm.stack.Push(result)
			frame.ip += bytecode.OPCODE_TOTAL_BYTES

		case bytecode.OP_NEGATE:
			value, _ := vm.stack.Pop()
			num, ok := value.(float64)
			if !ok {
				return CreateKindedRuntimeError(KindInvalidTypeOperand, fmt.Sprintf("cannot negate %v", value))
			}
			vm.stack.Push(-num)
			frame.ip += bytecode.OPCODE_TOTAL_BYTES

		case bytecode.OP_NOT:
			value, _ := vm.stack.Pop()
			vm.stack.Push(!isTruthy(value))
			frame.ip += bytecode.OPCODE_TOTAL_BYTES

		case bytecode.OP_EQUAL:
			right, _ := vm.stack.Pop()
			left, _ := vm.stack.Pop()
			vm.stack.Push(left == right)
			frame.ip += bytecode.OPCODE_TOTAL_BYTES
		case bytecode.OP_NOT_EQUAL:
			right, _ := vm.stack.Pop()
			left, _ := vm.stack.Pop()
			vm.stack.Push(left != right)
			frame.ip += bytecode.OPCODE_TOTAL_BYTES

		case bytecode.OP_GREATER, bytecode.OP_GREATER_EQUAL, bytecode.OP_LESS, bytecode.OP_LESS_EQUAL:
			right, _ := vm.stack.Pop()
			left, _ := vm.stack.Pop()
			leftNum, rightNum, err := numericOperands(left, right)
			if err != nil {
				return err
			}
			var result bool
			switch op {
			case bytecode.OP_GREATER:
				result = leftNum > rightNum
			case bytecode.OP_GREATER_EQUAL:
				result = leftNum >= rightNum
			case bytecode.OP_LESS:
				result = leftNum < rightNum
			case bytecode.OP_LESS_EQUAL:
				result = leftNum <= rightNum
			}
			vm.stack.Push(result)
			frame.ip += bytecode.OPCODE_TOTAL_BYTES

		case bytecode.OP_PRINT:
			value, _ := vm.stack.Pop()
			fmt.Println(formatValue(value))
			frame.ip += bytecode.OPCODE_TOTAL_BYTES

		case bytecode.OP_JUMP:
			frame.ip = int(bytecode.ReadUint16Operand(instructions, frame.ip))

		case bytecode.OP_JUMP_IF_FALSE:
			value, _ := vm.stack.Peek()
			boolVal, ok := value.(bool)
			if !ok {
				return CreateKindedRuntimeError(KindInvalidTypeOperand,
					fmt.Sprintf("condition must evaluate to a boolean, got %v", value))
			}
			if !boolVal {
				frame.ip = int(bytecode.ReadUint16Operand(instructions, frame.ip))
			} else {
				frame.ip += bytecode.THREE_BYTE_INSTRUCTION_LENGTH
			}

		case bytecode.OP_DEFINE_GLOBAL:
			operand := bytecode.ReadUint8Operand(instructions, frame.ip)
			name := frame.proto.Chunk.NameConstants[operand]
			value, _ := vm.stack.Pop()
			vm.globals[name] = value
			frame.ip += bytecode.TWO_BYTE_INSTRUCTION_LENGTH

		case bytecode.OP_GET_GLOBAL:
			operand := bytecode.ReadUint8Operand(instructions, frame.ip)
			name := frame.proto.Chunk.NameConstants[operand]
			value, ok := vm.globals[name]
			if !ok {
				return CreateKindedRuntimeError(KindUndefinedVariable, fmt.Sprintf("undefined variable '%s'", name))
			}
			vm.stack.Push(value)
			frame.ip += bytecode.TWO_BYTE_INSTRUCTION_LENGTH

		case bytecode.OP_SET_GLOBAL:
			operand := bytecode.ReadUint8Operand(instructions, frame.ip)
			name := frame.proto.Chunk.NameConstants[operand]
			if _, ok := vm.globals[name]; !ok {
				return CreateKindedRuntimeError(KindUndefinedVariable, fmt.Sprintf("undefined variable '%s'", name))
			}
			value, _ := vm.stack.Peek()
			vm.globals[name] = value
			frame.ip += bytecode.TWO_BYTE_INSTRUCTION_LENGTH

		case bytecode.OP_GET_LOCAL:
			slot := int(bytecode.ReadUint16Operand(instructions, frame.ip))
			vm.stack.Push(vm.stack.Get(frame.base + 1 + slot))
			frame.ip += bytecode.THREE_BYTE_INSTRUCTION_LENGTH

		case bytecode.OP_SET_LOCAL:
			slot := int(bytecode.ReadUint16Operand(instructions, frame.ip))
			value, _ := vm.stack.Peek()
			vm.stack.Set(frame.base+1+slot, value)
			frame.ip += bytecode.THREE_BYTE_INSTRUCTION_LENGTH

		case bytecode.OP_SCOPE_EXIT:
			count := int(bytecode.ReadUint16Operand(instructions, frame.ip))
			if count > 0 {
				top, _ := vm.stack.Peek()
				vm.stack.Truncate(vm.stack.Len() - count)
				vm.stack.Push(top)
			}
			frame.ip += bytecode.THREE_BYTE_INSTRUCTION_LENGTH

		case bytecode.OP_CALL:
			// Operands are argc:u8, fnIdx:u8 per spec.md §4.5. This VM
			// calls the function value already sitting on the stack
			// under its arguments, so fnIdx is a reserved byte and only
			// argc is read.
			argc := int(bytecode.ReadUint8Operand(instructions, frame.ip))
			frame.ip += bytecode.THREE_BYTE_INSTRUCTION_LENGTH

			calleeIndex := vm.stack.Len() - 1 - argc
			callee := vm.stack.Get(calleeIndex)
			proto, ok := callee.(*compiler.FunctionProto)
			if !ok {
				return CreateKindedRuntimeError(KindNotCallable, fmt.Sprintf("'%v' is not callable", callee))
			}
			if argc != proto.Arity {
				return CreateKindedRuntimeError(KindArityMismatch,
					fmt.Sprintf("expected %d arguments but got %d", proto.Arity, argc))
			}
			vm.frames = append(vm.frames, Frame{proto: proto, ip: 0, base: calleeIndex})
			continue

		case bytecode.OP_RETURN:
			result, _ := vm.stack.Pop()
			vm.stack.Truncate(frame.base)
			vm.frames = vm.frames[:frameIdx]
			if len(vm.frames) == 0 {
				return nil
			}
			vm.stack.Push(result)
			continue

		default:
			return CreateKindedRuntimeError(KindUnknownOpcode, fmt.Sprintf("unknown opcode %v at ip %d", op, frame.ip))
		}
	}
}

func isTruthy(value any) bool {
	if value == nil {
		return false
	}
	if b, ok := value.(bool); ok {
		return b
	}
	return true
}

func addValues(left, right any) (any, error) {
	leftNum, leftIsNum := left.(float64)
	rightNum, rightIsNum := right.(float64)
	if leftIsNum && rightIsNum {
		return leftNum + rightNum, nil
	}
	leftStr, leftIsStr := left.(string)
	rightStr, rightIsStr := right.(string)
	if leftIsStr && rightIsStr {
		return leftStr + rightStr, nil
	}
	return nil, CreateKindedRuntimeError(KindInvalidTypeOperand,
		fmt.Sprintf("operands to '+' must both be numbers or both be strings, got %v and %v", left, right))
}

func numericOperands(left, right any) (float64, float64, error) {
	leftNum, ok := left.(float64)
	if !ok {
		return 0, 0, CreateKindedRuntimeError(KindInvalidTypeOperand, fmt.Sprintf("expected a number, got %v", left))
	}
	rightNum, ok := right.(float64)
	if !ok {
		return 0, 0, CreateKindedRuntimeError(KindInvalidTypeOperand, fmt.Sprintf("expected a number, got %v", right))
	}
	return leftNum, rightNum, nil
}

func formatValue(value any) string {
	switch v := value.(type) {
	case nil:
		return "Nil"
	case bool:
		if v {
			return "true"
		}
		return "false"
	case float64:
		if v == float64(int64(v)) {
			return strconv.FormatInt(int64(v), 10)
		}
		return strconv.FormatFloat(v, 'g', -1, 64)
	case string:
		return v
	case fmt.Stringer:
		return v.String()
	default:
		return fmt.Sprint(v)
	}
}
