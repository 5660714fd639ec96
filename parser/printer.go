package parser

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"lox/ast"
)

// astPrinter implements the ast.ExpressionVisitor/ast.StmtVisitor interfaces
// and renders the tree as the canonical parenthesized prefix form used as a
// test oracle: "(op left right)", "(group inner)", "(var x = e)", and so on.
type astPrinter struct{}

func (p astPrinter) VisitExpressionStmt(exprStmt ast.ExpressionStmt) any {
	return exprStmt.Expression.Accept(p)
}

func (p astPrinter) VisitPrintStmt(printStmt ast.PrintStmt) any {
	return fmt.Sprintf("(print %s)", printStmt.Expression.Accept(p))
}

func (p astPrinter) VisitVarStmt(varStmt ast.VarStmt) any {
	if varStmt.Initializer == nil {
		return fmt.Sprintf("(var %s)", varStmt.Name.Lexeme)
	}
	return fmt.Sprintf("(var %s = %s)", varStmt.Name.Lexeme, varStmt.Initializer.Accept(p))
}

func (p astPrinter) VisitBlockStmt(blockStmt ast.BlockStmt) any {
	parts := make([]string, 0, len(blockStmt.Statements))
	for _, stmt := range blockStmt.Statements {
		parts = append(parts, fmt.Sprint(stmt.Accept(p)))
	}
	return fmt.Sprintf("(block %s)", strings.Join(parts, " "))
}

func (p astPrinter) VisitWhileStmt(stmt ast.WhileStmt) any {
	return fmt.Sprintf("(while %s %s)", stmt.Condition.Accept(p), stmt.Body.Accept(p))
}

func (p astPrinter) VisitForStmt(stmt ast.ForStmt) any {
	initStr := "nil"
	if stmt.Initializer != nil {
		initStr = fmt.Sprint(stmt.Initializer.Accept(p))
	}
	condStr := "nil"
	if stmt.Condition != nil {
		condStr = fmt.Sprint(stmt.Condition.Accept(p))
	}
	incStr := "nil"
	if stmt.Increment != nil {
		incStr = fmt.Sprint(stmt.Increment.Accept(p))
	}
	return fmt.Sprintf("(for %s %s %s %s)", initStr, condStr, incStr, stmt.Body.Accept(p))
}

func (p astPrinter) VisitIfStmt(stmt ast.IfStmt) any {
	if stmt.Else == nil {
		return fmt.Sprintf("(if %s %s)", stmt.Condition.Accept(p), stmt.Then.Accept(p))
	}
	return fmt.Sprintf("(if %s %s else %s)", stmt.Condition.Accept(p), stmt.Then.Accept(p), stmt.Else.Accept(p))
}

func (p astPrinter) VisitFunctionDecl(stmt ast.FunctionDecl) any {
	params := make([]string, 0, len(stmt.Params))
	for _, param := range stmt.Params {
		params = append(params, param.Lexeme)
	}
	bodyParts := make([]string, 0, len(stmt.Body))
	for _, s := range stmt.Body {
		bodyParts = append(bodyParts, fmt.Sprint(s.Accept(p)))
	}
	return fmt.Sprintf("(fun %s (%s) %s)", stmt.Name.Lexeme, strings.Join(params, ", "), strings.Join(bodyParts, " "))
}

func (p astPrinter) VisitReturnStmt(stmt ast.ReturnStmt) any {
	if stmt.Value == nil {
		return "(return)"
	}
	return fmt.Sprintf("(return %s)", stmt.Value.Accept(p))
}

func (p astPrinter) VisitClassDecl(stmt ast.ClassDecl) any {
	methods := make([]string, 0, len(stmt.Methods))
	for _, method := range stmt.Methods {
		methods = append(methods, fmt.Sprint(p.VisitFunctionDecl(method)))
	}
	return fmt.Sprintf("(class %s { %s })", stmt.Name.Lexeme, strings.Join(methods, " "))
}

func (p astPrinter) VisitLogicalExpression(expr ast.Logical) any {
	return fmt.Sprintf("(%s %s %s)", expr.Operator.Lexeme, expr.Left.Accept(p), expr.Right.Accept(p))
}

func (p astPrinter) VisitAssignExpression(assign ast.Assign) any {
	return fmt.Sprintf("(assign %s %s)", assign.Name.Lexeme, assign.Value.Accept(p))
}

func (p astPrinter) VisitVariableExpression(variable ast.Variable) any {
	return variable.Name.Lexeme
}

func (p astPrinter) VisitBinary(b ast.Binary) any {
	return fmt.Sprintf("(%s %s %s)", b.Operator.Lexeme, b.Left.Accept(p), b.Right.Accept(p))
}

func (p astPrinter) VisitUnary(u ast.Unary) any {
	return fmt.Sprintf("(%s %s)", u.Operator.Lexeme, u.Right.Accept(p))
}

func (p astPrinter) VisitLiteral(l ast.Literal) any {
	return formatLiteral(l.Value)
}

func (p astPrinter) VisitGrouping(g ast.Grouping) any {
	return fmt.Sprintf("(group %s)", g.Expression.Accept(p))
}

func (p astPrinter) VisitCallExpression(call ast.Call) any {
	args := make([]string, 0, len(call.Arguments))
	for _, arg := range call.Arguments {
		args = append(args, fmt.Sprint(arg.Accept(p)))
	}
	return fmt.Sprintf("(call %s %s)", call.Callee.Accept(p), strings.Join(args, ", "))
}

func (p astPrinter) VisitGetExpression(get ast.Get) any {
	return fmt.Sprintf("(get %s %s)", get.Object.Accept(p), get.Name.Lexeme)
}

func (p astPrinter) VisitSetExpression(set ast.Set) any {
	return fmt.Sprintf("(set %s %s %s)", set.Object.Accept(p), set.Name.Lexeme, set.Value.Accept(p))
}

// formatLiteral renders a literal value the way the canonical printer
// contract requires: numbers as their shortest round-trip decimal, booleans
// as true/false, strings as their raw text, nil as "nil".
func formatLiteral(value any) string {
	switch v := value.(type) {
	case nil:
		return "nil"
	case bool:
		if v {
			return "true"
		}
		return "false"
	case float64:
		return strconv.FormatFloat(v, 'g', -1, 64)
	case string:
		return v
	default:
		return fmt.Sprint(v)
	}
}

// Print renders a full program as the canonical S-expression form, one
// statement per line.
func Print(statements []ast.Stmt) string {
	printer := astPrinter{}
	lines := make([]string, 0, len(statements))
	for _, s := range statements {
		lines = append(lines, fmt.Sprint(s.Accept(printer)))
	}
	return strings.Join(lines, "\n")
}

// WriteToFile writes the canonical S-expression form of the given
// statements to the file at path.
func WriteToFile(statements []ast.Stmt, path string) error {
	s := Print(statements)
	fDescriptor, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("error creating AST file: %s", err.Error())
	}
	defer fDescriptor.Close()

	if _, err := fDescriptor.Write([]byte(s)); err != nil {
		return fmt.Errorf("error writing AST to file: %s", err.Error())
	}
	return nil
}
