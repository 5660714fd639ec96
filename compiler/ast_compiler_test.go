package compiler

import (
	"testing"

	"lox/ast"
	"lox/bytecode"
	"lox/token"
)

func numberLiteral(value float64) ast.Literal {
	return ast.Literal{Value: value}
}

func TestCompileAST_ExpressionStatement(t *testing.T) {
	stmts := []ast.Stmt{
		ast.ExpressionStmt{Expression: ast.Binary{
			Left:     numberLiteral(1),
			Operator: token.CreateToken(token.ADD, 1, 0),
			Right:    numberLiteral(2),
		}},
	}

	chunk, err := NewASTCompiler().CompileAST(stmts)
	if err != nil {
		t.Fatalf("CompileAST() error: %v", err)
	}
	if len(chunk.ConstantsPool) != 2 {
		t.Fatalf("ConstantsPool = %v, want 2 entries", chunk.ConstantsPool)
	}
	lastOp := bytecode.Opcode(chunk.Instructions[len(chunk.Instructions)-1])
	if lastOp != bytecode.OP_RETURN {
		t.Fatalf("last opcode = %v, want OP_RETURN", lastOp)
	}
}

func TestCompileAST_UndefinedGlobalReference(t *testing.T) {
	stmts := []ast.Stmt{
		ast.ExpressionStmt{Expression: ast.Variable{Name: token.CreateLiteralToken(token.IDENTIFIER, "x", "x", 1, 0)}},
	}

	_, err := NewASTCompiler().CompileAST(stmts)
	if err == nil {
		t.Fatal("expected an undefined-variable semantic error")
	}
	semErr, ok := err.(SemanticError)
	if !ok || semErr.Kind != KindUndefinedVariable {
		t.Fatalf("error = %v, want KindUndefinedVariable", err)
	}
}

func TestCompileAST_GlobalVarDeclaration(t *testing.T) {
	nameTok := token.CreateLiteralToken(token.IDENTIFIER, "x", "x", 1, 0)
	stmts := []ast.Stmt{
		ast.VarStmt{Name: nameTok, Initializer: numberLiteral(5)},
		ast.PrintStmt{Expression: ast.Variable{Name: nameTok}},
	}

	chunk, err := NewASTCompiler().CompileAST(stmts)
	if err != nil {
		t.Fatalf("CompileAST() error: %v", err)
	}
	if len(chunk.NameConstants) != 1 || chunk.NameConstants[0] != "x" {
		t.Fatalf("NameConstants = %v, want [x]", chunk.NameConstants)
	}
}

func TestCompileAST_DuplicateLocalDeclaration(t *testing.T) {
	nameTok := token.CreateLiteralToken(token.IDENTIFIER, "x", "x", 1, 0)
	stmts := []ast.Stmt{
		ast.BlockStmt{Statements: []ast.Stmt{
			ast.VarStmt{Name: nameTok, Initializer: numberLiteral(1)},
			ast.VarStmt{Name: nameTok, Initializer: numberLiteral(2)},
		}},
	}

	_, err := NewASTCompiler().CompileAST(stmts)
	if err == nil {
		t.Fatal("expected a duplicate-declaration semantic error")
	}
	semErr, ok := err.(SemanticError)
	if !ok || semErr.Kind != KindDuplicateDeclaration {
		t.Fatalf("error = %v, want KindDuplicateDeclaration", err)
	}
}

func TestCompileAST_FunctionDeclAndCall(t *testing.T) {
	fnName := token.CreateLiteralToken(token.IDENTIFIER, "double", "double", 1, 0)
	paramName := token.CreateLiteralToken(token.IDENTIFIER, "n", "n", 1, 0)

	stmts := []ast.Stmt{
		ast.FunctionDecl{
			Name:   fnName,
			Params: []token.Token{paramName},
			Body: []ast.Stmt{
				ast.ReturnStmt{Value: ast.Binary{
					Left:     ast.Variable{Name: paramName},
					Operator: token.CreateToken(token.ADD, 1, 0),
					Right:    ast.Variable{Name: paramName},
				}},
			},
		},
		ast.ExpressionStmt{Expression: ast.Call{
			Callee:    ast.Variable{Name: fnName},
			Paren:     token.CreateToken(token.RPA, 1, 0),
			Arguments: []ast.Expression{numberLiteral(21)},
		}},
	}

	chunk, err := NewASTCompiler().CompileAST(stmts)
	if err != nil {
		t.Fatalf("CompileAST() error: %v", err)
	}
	found := false
	for _, c := range chunk.ConstantsPool {
		if _, ok := c.(*FunctionProto); ok {
			found = true
		}
	}
	if !found {
		t.Fatal("expected a *FunctionProto in the constants pool")
	}
}
