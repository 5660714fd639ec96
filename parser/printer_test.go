package parser

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"lox/ast"
	"lox/token"
)

func TestPrint_Literal(t *testing.T) {
	stmts := []ast.Stmt{
		ast.PrintStmt{Expression: ast.Literal{Value: 42.0}},
	}

	got := Print(stmts)
	want := "(print 42)"
	if got != want {
		t.Fatalf("Print() = %q, want %q", got, want)
	}
}

func TestPrint_VarStmt_NilInitializer(t *testing.T) {
	name := token.CreateLiteralToken(token.IDENTIFIER, "x", "x", 1, 0)
	stmts := []ast.Stmt{
		ast.VarStmt{Name: name, Initializer: nil},
	}

	got := Print(stmts)
	want := "(var x)"
	if got != want {
		t.Fatalf("Print() = %q, want %q", got, want)
	}
}

func TestPrint_BinaryExpression(t *testing.T) {
	stmts := []ast.Stmt{
		ast.ExpressionStmt{Expression: ast.Binary{
			Left:     ast.Literal{Value: 1.0},
			Operator: token.CreateToken(token.ADD, 1, 0),
			Right:    ast.Literal{Value: 2.0},
		}},
	}

	got := Print(stmts)
	want := "(+ 1 2)"
	if got != want {
		t.Fatalf("Print() = %q, want %q", got, want)
	}
}

func TestPrint_CallExpression(t *testing.T) {
	callee := ast.Variable{Name: token.CreateLiteralToken(token.IDENTIFIER, "add", "add", 1, 0)}
	stmts := []ast.Stmt{
		ast.ExpressionStmt{Expression: ast.Call{
			Callee: callee,
			Paren:  token.CreateToken(token.RPA, 1, 0),
			Arguments: []ast.Expression{
				ast.Literal{Value: 1.0},
				ast.Literal{Value: 2.0},
			},
		}},
	}

	got := Print(stmts)
	want := "(call add 1, 2)"
	if got != want {
		t.Fatalf("Print() = %q, want %q", got, want)
	}
}

func TestPrint_GetSetExpression(t *testing.T) {
	instance := ast.Variable{Name: token.CreateLiteralToken(token.IDENTIFIER, "a", "a", 1, 0)}
	field := token.CreateLiteralToken(token.IDENTIFIER, "x", "x", 1, 0)

	getStmt := []ast.Stmt{ast.ExpressionStmt{Expression: ast.Get{Object: instance, Name: field}}}
	if got, want := Print(getStmt), "(get a x)"; got != want {
		t.Fatalf("Print() = %q, want %q", got, want)
	}

	setStmt := []ast.Stmt{ast.ExpressionStmt{Expression: ast.Set{Object: instance, Name: field, Value: ast.Literal{Value: 1.0}}}}
	if got, want := Print(setStmt), "(set a x 1)"; got != want {
		t.Fatalf("Print() = %q, want %q", got, want)
	}
}

func TestPrint_IfElse(t *testing.T) {
	cond := ast.Literal{Value: true}
	then := ast.PrintStmt{Expression: ast.Literal{Value: 1.0}}
	els := ast.PrintStmt{Expression: ast.Literal{Value: 2.0}}
	stmts := []ast.Stmt{ast.IfStmt{Condition: cond, Then: then, Else: els}}

	got := Print(stmts)
	want := "(if true (print 1) else (print 2))"
	if got != want {
		t.Fatalf("Print() = %q, want %q", got, want)
	}
}

func TestWriteToFile(t *testing.T) {
	stmts := []ast.Stmt{
		ast.PrintStmt{Expression: ast.Literal{Value: "hello lox!"}},
	}

	filePath := filepath.Join(os.TempDir(), "lox_ast_printer_test.txt")
	defer os.Remove(filePath)

	if err := WriteToFile(stmts, filePath); err != nil {
		t.Fatalf("WriteToFile error: %v", err)
	}

	bytes, err := os.ReadFile(filePath)
	if err != nil {
		t.Fatalf("read file: %v", err)
	}

	if !strings.Contains(string(bytes), "hello lox!") {
		t.Fatalf("expected file contents to contain literal text, got %q", string(bytes))
	}
}
