package interpreter

import (
	"testing"

	"lox/ast"
	"lox/token"
)

func ident(name string) token.Token {
	return token.CreateLiteralToken(token.IDENTIFIER, name, name, 1, 0)
}

func TestInterpreter_GetSetExpressionOnInstance(t *testing.T) {
	i := Make()
	instance := &Instance{Class: &Class{Name: "Point"}, Fields: map[string]any{}}
	object := ast.Literal{Value: instance}

	result := i.VisitSetExpression(ast.Set{Object: object, Name: ident("x"), Value: ast.Literal{Value: 3.0}})
	if result != 3.0 {
		t.Fatalf("VisitSetExpression() = %v, want 3", result)
	}

	got := i.VisitGetExpression(ast.Get{Object: object, Name: ident("x")})
	if got != 3.0 {
		t.Fatalf("VisitGetExpression() = %v, want 3", got)
	}
}

func TestInterpreter_GetExpressionUndefinedProperty(t *testing.T) {
	i := Make()
	instance := &Instance{Class: &Class{Name: "Point"}, Fields: map[string]any{}}
	object := ast.Literal{Value: instance}

	defer func() {
		r := recover()
		if r == nil {
			t.Fatal("expected panic for undefined property")
		}
		rtErr, ok := r.(RuntimeError)
		if !ok || rtErr.Kind != KindNoSuchProperty {
			t.Fatalf("got %#v, want RuntimeError{Kind: KindNoSuchProperty}", r)
		}
	}()

	i.VisitGetExpression(ast.Get{Object: object, Name: ident("missing")})
}

func TestInterpreter_GetExpressionNonInstance(t *testing.T) {
	i := Make()
	object := ast.Literal{Value: 1.0}

	defer func() {
		r := recover()
		if r == nil {
			t.Fatal("expected panic for property access on a non-instance")
		}
		rtErr, ok := r.(RuntimeError)
		if !ok || rtErr.Kind != KindNotInstance {
			t.Fatalf("got %#v, want RuntimeError{Kind: KindNotInstance}", r)
		}
	}()

	i.VisitGetExpression(ast.Get{Object: object, Name: ident("x")})
}
