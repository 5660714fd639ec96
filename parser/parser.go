// Recursive descent parser
// https://en.wikipedia.org/wiki/Recursive_descent_parser

//	A Recursive descent parser is a top-down parser because it starts from the top
//
// grammar rule and works its way down in to the nested sub-experessions before reaching
// the leaves of the syntax tree (terminal rules)
package parser

import (
	"fmt"

	"lox/ast"
	"lox/token"
)

// maxExpressionDepth bounds recursive-descent expression parsing so that
// pathological input (deeply nested parentheses/unary chains) fails with a
// parse error instead of overflowing the Go call stack.
const maxExpressionDepth = 1000

var comparisonTokenTypes = []token.TokenType{
	token.LARGER,
	token.LARGER_EQUAL,
	token.LESS,
	token.LESS_EQUAL,
}

var equalityTokenTypes = []token.TokenType{
	token.NOT_EQUAL,
	token.EQUAL_EQUAL,
}

var termTokenTypes = []token.TokenType{
	token.SUB,
	token.ADD,
}

var factorExpressionTypes = []token.TokenType{
	token.MULT,
	token.DIV,
	token.MOD,
}

var unaryExpressionTypes = []token.TokenType{
	token.BANG,
	token.SUB,
}

type Parser struct {
	tokens   []token.Token
	position int

	// exprDepth tracks current expression-parsing recursion, bounded by
	// maxExpressionDepth.
	exprDepth int

	// inFunction is a stack of booleans, one pushed per function body
	// entered, so that a nested function's exit restores the enclosing
	// function's "am I inside a function" state instead of clearing it
	// unconditionally.
	inFunction []bool
}

// NOTE: The parsers position is always one unit ahead of the
// current token

// Initializes and returns a new Parser instance.
//
// Parameters:
//   - tokens: []token.Token
//     The tokens created by the lexer.
//
// Returns:
//   - *Parser: A pointer to a newly created Parser instance.
func Make(tokens []token.Token) *Parser {
	return &Parser{
		tokens:   tokens,
		position: 0,
	}
}

// Print prints the AST in canonical S-expression form to standard output.
func (parser *Parser) Print(statements []ast.Stmt) {
	fmt.Println(Print(statements))
}

// PrintToFile writes the canonical S-expression form of the AST for the
// provided statements to the given path.
func (parser *Parser) PrintToFile(statements []ast.Stmt, path string) error {
	return WriteToFile(statements, path)
}

// Peeks the token at the parser's current position,
// without advancing the parser's position.
// Returns:
//   - token.Token: The token at the parser's current position
func (parser *Parser) peek() token.Token {
	return parser.tokens[parser.position]
}

// Retrieves the token at the parser's previous position
// (position -1)
//
// Returns:
//   - token.Token: The token at the previous position
func (parser *Parser) previous() token.Token {
	return parser.tokens[parser.position-1]
}

// Increments the parser's position by one unit and
// consumes the current token
//
// Returns:
//   - token.Token: The token at the previous position
func (parser *Parser) advance() token.Token {
	if !parser.isFinished() {
		parser.position++
	}
	return parser.previous()
}

// Determines of the parser has finished scanning all the tokens.
//
// Returns:
//   - bool: true if the parser has finished scanning, false otherwise
func (parser *Parser) isFinished() bool {
	tok := parser.peek()
	return tok.TokenType == token.EOF
}

// Determines if the provided tokenType matches the TokenType
// at the parser's current position
//
// Returns
//   - bool: true if the TokenType matches, false otherwise
func (parser *Parser) checkType(tokeType token.TokenType) bool {
	if parser.isFinished() {
		return false
	}
	tok := parser.peek()
	return tok.TokenType == tokeType
}

// Determines if the TokenType at the current
// position matches any of the provided tokenTypes. If a match is
// found the parser increments its position and consumes the
// current token
//
// Returns
//   - bool: true if a match was found, false otherwise
func (parser *Parser) isMatch(tokenTypes []token.TokenType) bool {
	for i := range tokenTypes {
		tokenType := tokenTypes[i]

		if parser.checkType(tokenType) {
			parser.advance()
			return true
		}
	}
	return false
}

// Parse parses the entire token stream into a slice of Stmt (statement) nodes,
// continuing until the end of input. Errors during parsing are collected
// but parsing continues to find additional errors where possible.
//
// Returns:
//   - []Stmt: the successfully parsed statements.
//   - []error: all errors that occurred during parsing.
func (parser *Parser) Parse() ([]ast.Stmt, []error) {
	statements := []ast.Stmt{}
	errors := []error{}

	for {
		if parser.isFinished() {
			break
		}
		statement, err := parser.declaration()
		if err != nil {
			errors = append(errors, err)
			parser.synchronize()
			continue
		}
		statements = append(statements, statement)
	}

	return statements, errors
}

// synchronize discards tokens after a parse error until it reaches a point
// likely to be the start of the next statement, so that a single error
// doesn't cascade into a wall of spurious follow-on errors.
func (parser *Parser) synchronize() {
	if !parser.isFinished() {
		parser.advance()
	}
	for !parser.isFinished() {
		if parser.previous().TokenType == token.SEMICOLON {
			return
		}
		switch parser.peek().TokenType {
		case token.CLASS, token.FUN, token.VAR, token.FOR, token.IF, token.WHILE, token.PRINT, token.RETURN:
			return
		}
		parser.advance()
	}
}

// declaration parses a top-level declaration: a variable declaration, a
// function declaration, a class declaration, or a plain statement.
func (parser *Parser) declaration() (ast.Stmt, error) {
	if parser.isMatch([]token.TokenType{token.VAR}) {
		return parser.variableDeclaration()
	}
	if parser.isMatch([]token.TokenType{token.FUN}) {
		return parser.functionDeclaration("function")
	}
	if parser.isMatch([]token.TokenType{token.CLASS}) {
		return parser.classDeclaration()
	}
	return parser.statement()
}

// variableDeclaration parses a variable declaration statement.
// It expects an identifier token for the variable name
// followed by an optional '=' and an initializer expression, terminated
// by a semicolon.
// Returns:
//   - ast.VarStmt: A VarStmt AST node epresenting the variable declaration.
//   - error: A SyntaxError if parsing fails.
func (parser *Parser) variableDeclaration() (ast.Stmt, error) {
	tok, consumeError := parser.consume(token.IDENTIFIER, "Expected variable name")
	if consumeError != nil {
		return nil, consumeError
	}

	var initialiser ast.Expression
	if parser.isMatch([]token.TokenType{token.ASSIGN}) {
		var err error
		initialiser, err = parser.expression()
		if err != nil {
			return nil, err
		}
	}

	if _, err := parser.consume(token.SEMICOLON, "Expected ';' after variable declaration."); err != nil {
		return nil, err
	}

	return ast.VarStmt{
		Name:        tok,
		Initializer: initialiser,
	}, nil
}

// functionDeclaration parses a "fun" declaration (or a class method body,
// when kind is "method"): a name, a parenthesized parameter list, and a
// block body.
func (parser *Parser) functionDeclaration(kind string) (ast.FunctionDecl, error) {
	name, err := parser.consume(token.IDENTIFIER, fmt.Sprintf("Expected %s name.", kind))
	if err != nil {
		return ast.FunctionDecl{}, err
	}

	if _, err := parser.consume(token.LPA, fmt.Sprintf("Expected '(' after %s name.", kind)); err != nil {
		return ast.FunctionDecl{}, err
	}

	params := []token.Token{}
	seen := map[string]bool{}
	if !parser.checkType(token.RPA) {
		for {
			param, err := parser.consume(token.IDENTIFIER, "Expected parameter name.")
			if err != nil {
				return ast.FunctionDecl{}, err
			}
			if seen[param.Lexeme] {
				return ast.FunctionDecl{}, CreateKindedSyntaxError(KindDuplicateParameterName, param.Line, param.Column,
					fmt.Sprintf("duplicate parameter name: '%s'", param.Lexeme))
			}
			seen[param.Lexeme] = true

			// Default parameter expressions are parsed but discarded: the
			// evaluator always binds positionally-supplied arguments only.
			if parser.isMatch([]token.TokenType{token.ASSIGN}) {
				if _, err := parser.expression(); err != nil {
					return ast.FunctionDecl{}, err
				}
			}

			params = append(params, param)
			if !parser.isMatch([]token.TokenType{token.COMMA}) {
				break
			}
		}
	}

	if _, err := parser.consume(token.RPA, "Expected ')' after parameters."); err != nil {
		return ast.FunctionDecl{}, err
	}
	if _, err := parser.consume(token.LCUR, fmt.Sprintf("Expected '{' before %s body.", kind)); err != nil {
		return ast.FunctionDecl{}, err
	}

	parser.pushInFunction()
	defer parser.popInFunction()

	body, err := parser.block()
	if err != nil {
		return ast.FunctionDecl{}, err
	}

	return ast.FunctionDecl{Name: name, Params: params, Body: body}, nil
}

// pushInFunction records entry into a function body. Pushed as a stack (not
// a single flag that gets cleared on exit) so a nested function declaration
// restores the enclosing function's "inside a function" state on exit
// rather than incorrectly clearing it.
func (parser *Parser) pushInFunction() {
	parser.inFunction = append(parser.inFunction, true)
}

func (parser *Parser) popInFunction() {
	parser.inFunction = parser.inFunction[:len(parser.inFunction)-1]
}

func (parser *Parser) currentlyInFunction() bool {
	return len(parser.inFunction) > 0
}

// classDeclaration parses a class declaration: a name, an optional
// superclass reference, and a body of method declarations.
func (parser *Parser) classDeclaration() (ast.Stmt, error) {
	name, err := parser.consume(token.IDENTIFIER, "Expected class name.")
	if err != nil {
		return nil, err
	}

	var superclass *ast.Variable
	if parser.isMatch([]token.TokenType{token.LESS}) {
		superName, err := parser.consume(token.IDENTIFIER, "Expected superclass name.")
		if err != nil {
			return nil, err
		}
		superclass = &ast.Variable{Name: superName}
	}

	if _, err := parser.consume(token.LCUR, "Expected '{' before class body."); err != nil {
		return nil, err
	}

	methods := []ast.FunctionDecl{}
	for !parser.checkType(token.RCUR) && !parser.isFinished() {
		method, err := parser.functionDeclaration("method")
		if err != nil {
			return nil, err
		}
		methods = append(methods, method)
	}

	if _, err := parser.consume(token.RCUR, "Expected '}' after class body."); err != nil {
		return nil, err
	}

	return ast.ClassDecl{Name: name, Superclass: superclass, Methods: methods}, nil
}

// statement parses a single statement.
//
// Returns:
//   - Stmt: the parsed statement node.
//   - error: if parsing fails, otherwise nil.
func (parser *Parser) statement() (ast.Stmt, error) {

	if parser.isMatch([]token.TokenType{token.PRINT}) {
		return parser.printStatement()
	}

	if parser.isMatch([]token.TokenType{token.LCUR}) {
		statements, err := parser.block()
		if err != nil {
			return nil, err
		}
		return ast.BlockStmt{Statements: statements}, nil
	}

	if parser.isMatch([]token.TokenType{token.IF}) {
		return parser.ifStatement()
	}

	if parser.isMatch([]token.TokenType{token.WHILE}) {
		return parser.whileStatement()
	}

	if parser.isMatch([]token.TokenType{token.FOR}) {
		return parser.forStatement()
	}

	if parser.isMatch([]token.TokenType{token.RETURN}) {
		return parser.returnStatement()
	}

	return parser.expressionStatement()
}

// printStatement parses a print statement of the form "print <expression>;".
//
// Returns:
//   - Stmt: a PrintStmt containing the expression to print.
//   - error: if the inner expression fails to parse.
func (parser *Parser) printStatement() (ast.Stmt, error) {
	expression, err := parser.expression()
	if err != nil {
		return nil, err
	}
	if _, err := parser.consume(token.SEMICOLON, "Expected ';' after value."); err != nil {
		return nil, err
	}
	return ast.PrintStmt{Expression: expression}, nil
}

// whileStatement parses a while loop statement from the token stream.
// It expects a parenthesized condition expression followed by a statement
// representing the loop body.
func (parser *Parser) whileStatement() (ast.Stmt, error) {
	if _, err := parser.consume(token.LPA, "Expected '(' after 'while'."); err != nil {
		return nil, err
	}
	condition, err := parser.expression()
	if err != nil {
		return nil, err
	}
	if _, err := parser.consume(token.RPA, "Expected ')' after condition."); err != nil {
		return nil, err
	}

	body, err := parser.statement()
	if err != nil {
		return nil, err
	}

	return ast.WhileStmt{
		Condition: condition,
		Body:      body,
	}, nil
}

// forStatement parses a C-style for loop "for (init; cond; incr) body" into
// a dedicated ast.ForStmt node; desugaring into the equivalent while loop is
// left to the evaluator.
func (parser *Parser) forStatement() (ast.Stmt, error) {
	if _, err := parser.consume(token.LPA, "Expected '(' after 'for'."); err != nil {
		return nil, err
	}

	var initializer ast.Stmt
	var err error
	if parser.isMatch([]token.TokenType{token.SEMICOLON}) {
		initializer = nil
	} else if parser.isMatch([]token.TokenType{token.VAR}) {
		initializer, err = parser.variableDeclaration()
		if err != nil {
			return nil, err
		}
	} else {
		initializer, err = parser.expressionStatement()
		if err != nil {
			return nil, err
		}
	}

	var condition ast.Expression
	if !parser.checkType(token.SEMICOLON) {
		condition, err = parser.expression()
		if err != nil {
			return nil, err
		}
	}
	if _, err := parser.consume(token.SEMICOLON, "Expected ';' after loop condition."); err != nil {
		return nil, err
	}

	var increment ast.Expression
	if !parser.checkType(token.RPA) {
		increment, err = parser.expression()
		if err != nil {
			return nil, err
		}
	}
	if _, err := parser.consume(token.RPA, "Expected ')' after for clauses."); err != nil {
		return nil, err
	}

	body, err := parser.statement()
	if err != nil {
		return nil, err
	}

	return ast.ForStmt{
		Initializer: initializer,
		Condition:   condition,
		Increment:   increment,
		Body:        body,
	}, nil
}

// returnStatement parses a "return;" or "return <expression>;" statement.
// It is a parse error outside any enclosing function body.
func (parser *Parser) returnStatement() (ast.Stmt, error) {
	keyword := parser.previous()

	if !parser.currentlyInFunction() {
		return nil, CreateKindedSyntaxError(KindReturnOutsideFunction, keyword.Line, keyword.Column,
			"'return' outside of a function body.")
	}

	var value ast.Expression
	var err error
	if !parser.checkType(token.SEMICOLON) {
		value, err = parser.expression()
		if err != nil {
			return nil, err
		}
	}

	if _, err := parser.consume(token.SEMICOLON, "Expected ';' after return value."); err != nil {
		return nil, err
	}

	return ast.ReturnStmt{Keyword: keyword, Value: value}, nil
}

// ifStatement parses an if-statement from the token stream.
// It expects a parenthesized condition expression followed by a 'then'
// branch, and optionally parses an 'else' branch if present.
// Returns:
//   - ast.IfStmt: an IfStmt AST node.
//   - error: if any part fails to parse.
func (parser *Parser) ifStatement() (ast.Stmt, error) {
	if _, err := parser.consume(token.LPA, "Expected '(' after 'if'."); err != nil {
		return nil, err
	}
	conditionExpr, err := parser.expression()
	if err != nil {
		return nil, err
	}
	if _, err := parser.consume(token.RPA, "Expected ')' after condition."); err != nil {
		return nil, err
	}

	thenStmt, err := parser.statement()
	if err != nil {
		return nil, err
	}
	var elseStmt ast.Stmt = nil
	if parser.isMatch([]token.TokenType{token.ELSE}) {
		stmt, err := parser.statement()
		if err != nil {
			return nil, err
		}
		elseStmt = stmt
	}

	return ast.IfStmt{
		Condition: conditionExpr,
		Then:      thenStmt,
		Else:      elseStmt,
	}, nil
}

// expressionStatement parses a statement consisting of a single expression,
// terminated by a semicolon.
//
// Returns:
//   - Stmt: an ExpressionStmt wrapping the parsed expression.
//   - error: if the expression cannot be parsed.
func (parser *Parser) expressionStatement() (ast.Stmt, error) {
	expression, err := parser.expression()
	if err != nil {
		return nil, err
	}
	if _, err := parser.consume(token.SEMICOLON, "Expected ';' after expression."); err != nil {
		return nil, err
	}
	return ast.ExpressionStmt{Expression: expression}, nil
}

// block parser a block statement consisting of a list of
// statement AST nodes.
// Returns:
//   - [] Stmt: A list of parsed declarations or statements
//   - error: If the block statement cant be parsed.
func (parser *Parser) block() ([]ast.Stmt, error) {
	statements := []ast.Stmt{}

	for !parser.checkType(token.RCUR) && !parser.isFinished() {
		stmt, err := parser.declaration()
		if err != nil {
			return nil, err
		}
		statements = append(statements, stmt)
	}

	if _, err := parser.consume(token.RCUR, "Expected '}' after block."); err != nil {
		return nil, err
	}
	return statements, nil
}

// expression is the entry point for parsing expressions. It begins at
// the assignment rule, which encompasses all lower-precedence rules.
//
// Returns:
//   - Expression: the parsed expression AST node.
//   - error: if parsing fails.
func (parser *Parser) expression() (ast.Expression, error) {
	parser.exprDepth++
	defer func() { parser.exprDepth-- }()
	if parser.exprDepth > maxExpressionDepth {
		tok := parser.peek()
		return nil, CreateKindedSyntaxError(KindRecursionLimit, tok.Line, tok.Column, "expression nesting too deep")
	}
	return parser.assignment()
}

// assignment parses an assignment expression from the token stream.
//
// Steps:
//  1. First, parse the left-hand side (LHS) as an "or" expression.
//     This ensures proper precedence, so assignment has lower precedence
//     than every other operator.
//  2. If the next token is an '=' (ASSIGN), then:
//     - Recursively call `assignment` to parse the right-hand side (RHS).
//     - Check if the LHS is a valid assignment target:
//     * If it's a Variable, produce an Assign AST node with the variable name
//     and the parsed RHS expression.
//     * If it's a Get (property access), produce a Set AST node with the
//     object, the property name and the parsed RHS expression.
//     * Otherwise, produce a syntax error, since only variables and
//     properties can be assigned.
//  3. If no '=' follows, just return the previously parsed expression
//     as the result.
//
// Returns:
//   - Expression: An Assign or Set node (for valid assignment expressions) or
//     the underlying expression if no assignment is found.
//   - error: Parsing errors such as invalid assignment targets or failed parsing of sub-expressions.
//
// Example:
// Input:  x = 10
// AST:    Assign{Name: x, Value: Literal(10)}
func (parser *Parser) assignment() (ast.Expression, error) {
	expression, err := parser.or()
	if err != nil {
		return nil, err
	}
	if parser.isMatch([]token.TokenType{token.ASSIGN}) {
		equalsToken := parser.previous()
		value, err := parser.assignment()
		if err != nil {
			return nil, err
		}
		switch v := expression.(type) {
		case ast.Variable:
			name := v.Name
			return ast.Assign{Name: name, Value: value}, nil

		case ast.Get:
			return ast.Set{Object: v.Object, Name: v.Name, Value: value}, nil

		default:
			return nil, CreateKindedSyntaxError(KindInvalidAssignmentTarget, equalsToken.Line, equalsToken.Column,
				"invalid assignment target")
		}
	}

	return expression, nil
}

// or parses a logical OR expression from the token stream.
// It first parses an AND expression on the left side, then consumes
// any sequence of OR operators, building a left-associative AST of logical expressions.
// Returns:
//   - ast.Expression: The constructed ast.Expression node
//   - error: An error if parsing fails.
func (parser *Parser) or() (ast.Expression, error) {
	expr, err := parser.and()
	if err != nil {
		return nil, err
	}

	for parser.isMatch([]token.TokenType{token.OR}) {
		op := parser.previous()
		rightExpr, err := parser.and()
		if err != nil {
			return nil, err
		}
		expr = ast.Logical{
			Left:     expr,
			Operator: op,
			Right:    rightExpr,
		}
	}

	return expr, nil
}

// and parses a logical AND expression from the token stream.
// It first parses an equality expression on the left side,
// then consumes any sequence of AND operators, building a left-associative
// abstract syntax tree (AST) of logical expressions.
// Returns:
//   - ast.Expression: The constructed ast.Expression node
//   - error: An error if parsing fails.
func (parser *Parser) and() (ast.Expression, error) {
	expr, err := parser.equality()
	if err != nil {
		return nil, err
	}

	for parser.isMatch([]token.TokenType{token.AND}) {
		op := parser.previous()
		rightExpr, err := parser.equality()
		if err != nil {
			return nil, err
		}

		expr = ast.Logical{
			Left:     expr,
			Operator: op,
			Right:    rightExpr,
		}
	}
	return expr, nil
}

// equality parses equality expressions using operators "==" and "!=".
//
// Returns:
//   - Expression: a Binary node (or sub-expression) representing equality comparison.
//   - error: if parsing fails.
func (parser *Parser) equality() (ast.Expression, error) {
	exp, err := parser.comparison()
	if err != nil {
		return nil, err
	}
	for parser.isMatch(equalityTokenTypes) {
		operator := parser.previous()
		right, err := parser.comparison()
		if err != nil {
			return nil, err
		}
		exp = ast.Binary{
			Left:     exp,
			Operator: operator,
			Right:    right,
		}
	}
	return exp, nil
}

// comparison parses comparison expressions using operators "<", "<=", ">", ">=".
//
// Returns:
//   - Expression: a Binary node (or sub-expression) representing a comparison.
//   - error: if parsing fails.
func (parser *Parser) comparison() (ast.Expression, error) {
	exp, err := parser.term()
	if err != nil {
		return nil, err
	}
	for parser.isMatch(comparisonTokenTypes) {
		operator := parser.previous()
		right, err := parser.term()
		if err != nil {
			return nil, err
		}
		exp = ast.Binary{
			Left:     exp,
			Operator: operator,
			Right:    right,
		}
	}
	return exp, nil
}

// term parses addition and subtraction expressions using operators "+" and "-".
//
// Returns:
//   - Expression: a Binary node (or sub-expression) representing addition or subtraction.
//   - error: if parsing fails.
func (parser *Parser) term() (ast.Expression, error) {
	exp, err := parser.factor()
	if err != nil {
		return nil, err
	}
	for parser.isMatch(termTokenTypes) {
		operator := parser.previous()
		right, err := parser.factor()
		if err != nil {
			return nil, err
		}
		exp = ast.Binary{
			Left:     exp,
			Operator: operator,
			Right:    right,
		}
	}
	return exp, nil
}

// factor parses multiplication, division, and modulo expressions using
// operators "*", "/" and "%".
//
// Returns:
//   - Expression: a Binary node (or sub-expression) representing the operation.
//   - error: if parsing fails.
func (parser *Parser) factor() (ast.Expression, error) {
	exp, err := parser.unary()
	if err != nil {
		return nil, err
	}
	for parser.isMatch(factorExpressionTypes) {
		operator := parser.previous()
		right, err := parser.unary()
		if err != nil {
			return nil, err
		}
		exp = ast.Binary{
			Left:     exp,
			Operator: operator,
			Right:    right,
		}
	}
	return exp, nil
}

// unary parses unary prefix expressions using operators "!" or "-".
// Examples: "!true", "-x".
//
// Returns:
//   - Expression: a Unary node if a unary operator was found, otherwise defers to call().
//   - error: if parsing fails.
func (parser *Parser) unary() (ast.Expression, error) {
	if parser.isMatch(unaryExpressionTypes) {
		operator := parser.previous()
		right, err := parser.unary()
		if err != nil {
			return nil, err
		}
		return ast.Unary{
			Operator: operator,
			Right:    right,
		}, nil
	}
	return parser.call()
}

// call parses a primary expression followed by zero or more call or
// property-access suffixes, e.g. "primary()", "primary()()", "primary.name".
//
// Returns:
//   - Expression: a Call node wrapping the callee for every "(...)" suffix
//     and a Get node for every ".name" suffix encountered, or just the
//     primary expression if none are present.
//   - error: if parsing fails.
func (parser *Parser) call() (ast.Expression, error) {
	expr, err := parser.primary()
	if err != nil {
		return nil, err
	}

	for {
		if parser.isMatch([]token.TokenType{token.LPA}) {
			expr, err = parser.finishCall(expr)
			if err != nil {
				return nil, err
			}
		} else if parser.isMatch([]token.TokenType{token.DOT}) {
			name, err := parser.consume(token.IDENTIFIER, "expected property name after '.'")
			if err != nil {
				return nil, err
			}
			expr = ast.Get{Object: expr, Name: name}
		} else {
			break
		}
	}

	return expr, nil
}

// finishCall parses the argument list and closing paren of a call
// expression, given its already-parsed callee.
func (parser *Parser) finishCall(callee ast.Expression) (ast.Expression, error) {
	arguments := []ast.Expression{}
	if !parser.checkType(token.RPA) {
		for {
			arg, err := parser.expression()
			if err != nil {
				return nil, err
			}
			arguments = append(arguments, arg)
			if !parser.isMatch([]token.TokenType{token.COMMA}) {
				break
			}
		}
	}

	paren, err := parser.consume(token.RPA, "Expected ')' after arguments.")
	if err != nil {
		return nil, err
	}

	return ast.Call{Callee: callee, Paren: paren, Arguments: arguments}, nil
}

// primary parses the most basic forms of expressions:
//   - Literals: true, false, nil, strings, numbers
//   - Grouping: (expression)
//   - Variable references
//
// If no valid token matches, returns a syntax error.
//
// Returns:
//   - Expression: a Literal, Variable, or Grouping expression.
//   - error: if no valid primary expression can be parsed.
func (parser *Parser) primary() (ast.Expression, error) {
	if parser.isMatch([]token.TokenType{token.FALSE}) {
		return ast.Literal{Value: false}, nil
	}
	if parser.isMatch([]token.TokenType{token.NIL}) {
		return ast.Literal{Value: nil}, nil
	}
	if parser.isMatch([]token.TokenType{token.TRUE}) {
		return ast.Literal{Value: true}, nil
	}

	if parser.isMatch([]token.TokenType{token.NUMBER, token.STRING}) {
		return ast.Literal{Value: parser.previous().Literal}, nil
	}

	if parser.isMatch([]token.TokenType{token.IDENTIFIER}) {
		return ast.Variable{Name: parser.previous()}, nil
	}

	if parser.isMatch([]token.TokenType{token.LPA}) {
		expr, err := parser.expression()
		if err != nil {
			return nil, err
		}
		_, consumeErr := parser.consume(token.RPA, fmt.Sprintf("expression is missing '%s'", token.RPA))
		if consumeErr != nil {
			return nil, consumeErr
		}
		return ast.Grouping{Expression: expr}, nil
	}

	currentToken := parser.peek()
	return nil, CreateSyntaxError(currentToken.Line, currentToken.Column, "Unrecognised expression.")
}

// Consumes the current token by advancing the parsers current position by
// one unit if the `tokenType` matches the token type of the parsers current
// position.
//
//	Returns:
//	- A SyntaxError if the provided `tokenType` does not match the `TokenType`
//		at the parsers current position
func (parser *Parser) consume(tokenType token.TokenType, errorMessage string) (token.Token, error) {
	if parser.checkType(tokenType) {
		return parser.advance(), nil
	}
	currentToken := parser.peek()
	return token.Token{}, CreateSyntaxError(currentToken.Line, currentToken.Column, errorMessage)
}
