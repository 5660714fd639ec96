package parser

import "fmt"

// Kind distinguishes the named error categories the parser can raise, so
// callers can branch on the failure without parsing the message string.
type Kind string

const (
	KindParseError              Kind = "parse-error"
	KindReturnOutsideFunction   Kind = "return-outside-function"
	KindDuplicateParameterName  Kind = "duplicate-parameter-name"
	KindInvalidAssignmentTarget Kind = "invalid-assignment-target"
	KindRecursionLimit          Kind = "parse-error"
)

// SyntaxError is returned whenever the parser cannot make sense of the
// token stream in front of it.
type SyntaxError struct {
	Kind    Kind
	Line    int32
	Column  int
	Message string
}

func CreateSyntaxError(line int32, column int, message string) SyntaxError {
	return SyntaxError{
		Kind:    KindParseError,
		Line:    line,
		Column:  column,
		Message: message,
	}
}

// CreateKindedSyntaxError constructs a SyntaxError tagged with one of the
// named error kinds from spec.md's error model, for the cases the parser
// must distinguish from a generic parse error.
func CreateKindedSyntaxError(kind Kind, line int32, column int, message string) SyntaxError {
	return SyntaxError{
		Kind:    kind,
		Line:    line,
		Column:  column,
		Message: message,
	}
}

func (e SyntaxError) Error() string {
	return fmt.Sprintf("[Error: %s (line %d, column %d): %s]", e.Kind, e.Line, e.Column, e.Message)
}
