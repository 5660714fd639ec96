package compiler

import "fmt"

type Kind string

const (
	KindUndefinedVariable       Kind = "undefined-variable"
	KindUninitializedVariable   Kind = "uninitialized-variable"
	KindDuplicateDeclaration    Kind = "duplicate-declaration"
	KindReturnOutsideFunction   Kind = "return-outside-function"
	KindSemanticError           Kind = "semantic-error"
	KindDeveloperError          Kind = "developer-error"
)

// SemanticError reports a problem with the program the compiler was asked
// to compile: an undefined name, a duplicate declaration, and so on.
type SemanticError struct {
	Kind    Kind
	Message string
}

func CreateSemanticError(message string) SemanticError {
	return SemanticError{Kind: KindSemanticError, Message: message}
}

func CreateKindedSemanticError(kind Kind, message string) SemanticError {
	return SemanticError{Kind: kind, Message: message}
}

func (e SemanticError) Error() string {
	return fmt.Sprintf("[Error: %s: %s]", e.Kind, e.Message)
}

// DeveloperError reports a bug in the compiler itself (an opcode that
// couldn't be assembled, an internal invariant violation), never the
// program being compiled.
type DeveloperError struct {
	Kind    Kind
	Message string
}

func CreateDeveloperError(message string) DeveloperError {
	return DeveloperError{Kind: KindDeveloperError, Message: message}
}

func (e DeveloperError) Error() string {
	return fmt.Sprintf("[Error: %s: %s]", e.Kind, e.Message)
}
