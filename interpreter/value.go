package interpreter

import (
	"fmt"

	"lox/ast"
)

// Function is a user-defined Lox function or method. It captures the
// environment active at the point of its declaration, giving it access to
// whatever was in lexical scope there even after that scope returns.
type Function struct {
	Name    string
	Params  []string
	Body    []ast.Stmt
	Closure *Environment
}

func (f *Function) String() string {
	return fmt.Sprintf("<fn %s>", f.Name)
}

func (f *Function) arity() int {
	return len(f.Params)
}

// call binds the supplied arguments to the function's parameters in a new
// environment nested inside its closure, then executes its body. A
// returnSignal panic raised inside the body is the only way a value other
// than nil escapes; call recovers that signal and returns its value.
func (f *Function) call(i *TreeWalkInterpreter, arguments []any) (result any) {
	callEnv := MakeNestedEnvironment(f.Closure)
	for idx, param := range f.Params {
		callEnv.define(param, arguments[idx])
	}

	defer func() {
		if r := recover(); r != nil {
			if sig, ok := r.(returnSignal); ok {
				result = sig.value
				return
			}
			panic(r)
		}
	}()

	previous := i.environment
	i.environment = callEnv
	defer func() { i.environment = previous }()

	i.executeStatements(f.Body)
	return nil
}

// NativeFunction wraps a Go function so it can be called like any Lox
// function, e.g. the globally registered clock().
type NativeFunction struct {
	Name  string
	Arity int
	Fn    func(i *TreeWalkInterpreter, arguments []any) any
}

func (n *NativeFunction) String() string {
	return "<native fn>"
}

// Class is recognized by the interpreter but never instantiated or
// dispatched to: spec.md's Non-goals explicitly exclude method dispatch and
// inheritance resolution from this tree-walker. Declaring a class binds its
// name to a Class value so programs that merely declare classes still run.
type Class struct {
	Name    string
	Methods map[string]*Function
}

func (c *Class) String() string {
	return fmt.Sprintf("<class %s>", c.Name)
}

// Instance represents an instantiated Class. Nothing in this interpreter
// currently constructs one; the type exists so the data model documented in
// SPEC_FULL.md has a concrete Go shape ready for the method-dispatch work
// explicitly carved out as a Non-goal.
type Instance struct {
	Class  *Class
	Fields map[string]any
}

func (inst *Instance) String() string {
	return fmt.Sprintf("<instance %s>", inst.Class.Name)
}

// returnSignal is panicked by VisitReturnStmt and recovered at the
// function-call boundary (Function.call; Interpret absorbs one that reaches
// the top level), implementing non-local return
// without threading a control-flow value through every Visit method.
type returnSignal struct {
	value any
}
