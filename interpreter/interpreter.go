package interpreter

import (
	"fmt"
	"strconv"

	"lox/ast"
	"lox/token"
)

// TreeWalkInterpreter executes parsed statements and evaluates expressions.
type TreeWalkInterpreter struct {
	environment *Environment
	globals     *Environment
}

// Make creates an instance of the tree-walk interpreter, with its global
// environment pre-populated with the natively-implemented functions.
func Make() *TreeWalkInterpreter {
	globals := MakeEnvironment()
	registerNatives(globals)
	return &TreeWalkInterpreter{
		environment: globals,
		globals:     globals,
	}
}

// Interpret executes a list of statements.
// It recovers from panics to print runtime errors without crashing.
func (i *TreeWalkInterpreter) Interpret(statements []ast.Stmt) {
	defer func() {
		if r := recover(); r != nil {
			if _, ok := r.(returnSignal); ok {
				return
			}
			fmt.Println(r)
		}
	}()
	i.executeStatements(statements)
}

// executeStatements executes each statement by invoking its Accept method.
func (i *TreeWalkInterpreter) executeStatements(statements []ast.Stmt) {
	for _, s := range statements {
		s.Accept(i)
	}
}

// executeStmt executes the given AST node statement by invoking its Accept method,
// which calls the appropriate Visit method of the interpreter.
func (i *TreeWalkInterpreter) executeStmt(stmt ast.Stmt) {
	stmt.Accept(i)
}

// VisitBlockStmt executes all statements in the given ast.BlockStmt within a
// new nested environment scoped as a child of the current one. The previous
// environment is always restored on exit, whether the block finishes
// normally or unwinds via a panic (including a returnSignal from a nested
// return statement, which must propagate past this point unharmed).
func (i *TreeWalkInterpreter) VisitBlockStmt(blockStmt ast.BlockStmt) any {
	previous := i.environment
	i.environment = MakeNestedEnvironment(i.environment)
	defer func() { i.environment = previous }()

	i.executeStatements(blockStmt.Statements)
	return nil
}

// VisitExpressionStmt visits an ExpressionStmt node.
// Evaluates the expression but does not return a value.
func (i *TreeWalkInterpreter) VisitExpressionStmt(exprStatement ast.ExpressionStmt) any {
	i.evaluate(exprStatement.Expression)
	return nil
}

// evaluateCondition evaluates a control-flow condition and requires it to be
// an actual bool. Unlike VisitUnary's BANG operator, if/while/for conditions
// do not fall back to truthiness: a non-boolean condition is a runtime
// error.
func (i *TreeWalkInterpreter) evaluateCondition(expr ast.Expression) bool {
	value := i.evaluate(expr)
	boolValue, ok := value.(bool)
	if !ok {
		msg := fmt.Sprintf("condition must evaluate to a boolean, got %s", describeType(value))
		panic(CreateKindedRuntimeError(KindNonBooleanCondition, 0, 0, msg))
	}
	return boolValue
}

// VisitIfStmt evaluates the condition of the given ast.IfStmt, which must be
// a strict boolean, and executes the Then branch when true or the Else
// branch (if present) otherwise.
func (i *TreeWalkInterpreter) VisitIfStmt(stmt ast.IfStmt) any {
	if i.evaluateCondition(stmt.Condition) {
		i.executeStmt(stmt.Then)
	} else if stmt.Else != nil {
		i.executeStmt(stmt.Else)
	}
	return nil
}

// VisitWhileStmt repeatedly executes the body as long as the condition
// evaluates to strict boolean true.
func (i *TreeWalkInterpreter) VisitWhileStmt(stmt ast.WhileStmt) any {
	for i.evaluateCondition(stmt.Condition) {
		i.executeStmt(stmt.Body)
	}
	return nil
}

// VisitForStmt desugars the classic C-style for loop into its equivalent
// while loop: run the initializer once, then loop on the condition
// (defaulting to true when omitted), running the body followed by the
// increment expression each iteration. The initializer's scope is confined
// to the loop via a dedicated block environment, matching how the parser
// keeps Initializer/Condition/Increment/Body distinct rather than
// desugaring them itself.
func (i *TreeWalkInterpreter) VisitForStmt(stmt ast.ForStmt) any {
	previous := i.environment
	i.environment = MakeNestedEnvironment(i.environment)
	defer func() { i.environment = previous }()

	if stmt.Initializer != nil {
		i.executeStmt(stmt.Initializer)
	}

	for stmt.Condition == nil || i.evaluateCondition(stmt.Condition) {
		i.executeStmt(stmt.Body)
		if stmt.Increment != nil {
			i.evaluate(stmt.Increment)
		}
	}
	return nil
}

// VisitPrintStmt visits a PrintStmt node.
// Evaluates the expression and prints the result using the interpreter's
// canonical value formatting.
func (i *TreeWalkInterpreter) VisitPrintStmt(printStmt ast.PrintStmt) any {
	value := i.evaluate(printStmt.Expression)
	fmt.Println(formatValue(value))
	return nil
}

// VisitVarStmt visits a VarStmt node.
// It evaluates the initialiser expression of the statement if it contains one
// and it defines the variable with its evaluated value, defaulting to nil
// when no initializer is present.
func (i *TreeWalkInterpreter) VisitVarStmt(varStmt ast.VarStmt) any {
	var value any = nil
	if varStmt.Initializer != nil {
		value = i.evaluate(varStmt.Initializer)
	}
	i.environment.define(varStmt.Name.Lexeme, value)
	return nil
}

// VisitFunctionDecl constructs a Function value capturing the environment
// active at the point of declaration (its closure) and binds it to the
// function's name in the current environment.
func (i *TreeWalkInterpreter) VisitFunctionDecl(stmt ast.FunctionDecl) any {
	params := make([]string, 0, len(stmt.Params))
	for _, p := range stmt.Params {
		params = append(params, p.Lexeme)
	}
	fn := &Function{
		Name:    stmt.Name.Lexeme,
		Params:  params,
		Body:    stmt.Body,
		Closure: i.environment,
	}
	i.environment.define(stmt.Name.Lexeme, fn)
	return nil
}

// VisitReturnStmt evaluates the return value (or nil, if none was given)
// and panics a returnSignal carrying it. Function.call recovers this panic
// (Interpret also absorbs one that reaches the top level); it must propagate
// unharmed through every block and loop it unwinds past.
func (i *TreeWalkInterpreter) VisitReturnStmt(stmt ast.ReturnStmt) any {
	var value any = nil
	if stmt.Value != nil {
		value = i.evaluate(stmt.Value)
	}
	panic(returnSignal{value: value})
}

// VisitClassDecl recognizes a class declaration and binds a Class value to
// its name, collecting its methods. Instantiation and method dispatch are
// out of scope for this interpreter.
func (i *TreeWalkInterpreter) VisitClassDecl(stmt ast.ClassDecl) any {
	methods := make(map[string]*Function, len(stmt.Methods))
	for _, method := range stmt.Methods {
		params := make([]string, 0, len(method.Params))
		for _, p := range method.Params {
			params = append(params, p.Lexeme)
		}
		methods[method.Name.Lexeme] = &Function{
			Name:    method.Name.Lexeme,
			Params:  params,
			Body:    method.Body,
			Closure: i.environment,
		}
	}
	class := &Class{Name: stmt.Name.Lexeme, Methods: methods}
	i.environment.define(stmt.Name.Lexeme, class)
	return nil
}

// VisitCallExpression evaluates the callee and its arguments (in source
// order) and dispatches to a Function or NativeFunction. Any other callee
// value is a not-callable runtime error.
func (i *TreeWalkInterpreter) VisitCallExpression(call ast.Call) any {
	callee := i.evaluate(call.Callee)

	arguments := make([]any, 0, len(call.Arguments))
	for _, arg := range call.Arguments {
		arguments = append(arguments, i.evaluate(arg))
	}

	switch fn := callee.(type) {
	case *Function:
		if len(arguments) != fn.arity() {
			msg := fmt.Sprintf("expected %d argument(s) but got %d", fn.arity(), len(arguments))
			panic(CreateKindedRuntimeError(KindArityMismatch, call.Paren.Line, call.Paren.Column, msg))
		}
		return fn.call(i, arguments)
	case *NativeFunction:
		if fn.Arity >= 0 && len(arguments) != fn.Arity {
			msg := fmt.Sprintf("expected %d argument(s) but got %d", fn.Arity, len(arguments))
			panic(CreateKindedRuntimeError(KindArityMismatch, call.Paren.Line, call.Paren.Column, msg))
		}
		return fn.Fn(i, arguments)
	default:
		msg := fmt.Sprintf("can only call functions, got %s", describeType(callee))
		panic(CreateKindedRuntimeError(KindNotCallable, call.Paren.Line, call.Paren.Column, msg))
	}
}

// VisitGetExpression evaluates property access on an Instance value. Method
// dispatch is out of scope (per SPEC_FULL.md's Non-goals), so a property
// that resolves to a method rather than a stored field is itself a
// no-such-property error instead of returning a bound method.
func (i *TreeWalkInterpreter) VisitGetExpression(get ast.Get) any {
	object := i.evaluate(get.Object)
	instance, ok := object.(*Instance)
	if !ok {
		msg := fmt.Sprintf("only instances have properties, got %s", describeType(object))
		panic(CreateKindedRuntimeError(KindNotInstance, get.Name.Line, get.Name.Column, msg))
	}

	if value, ok := instance.Fields[get.Name.Lexeme]; ok {
		return value
	}

	msg := fmt.Sprintf("undefined property '%s'", get.Name.Lexeme)
	panic(CreateKindedRuntimeError(KindNoSuchProperty, get.Name.Line, get.Name.Column, msg))
}

// VisitSetExpression evaluates property assignment on an Instance value,
// creating the field if it doesn't already exist.
func (i *TreeWalkInterpreter) VisitSetExpression(set ast.Set) any {
	object := i.evaluate(set.Object)
	instance, ok := object.(*Instance)
	if !ok {
		msg := fmt.Sprintf("only instances have fields, got %s", describeType(object))
		panic(CreateKindedRuntimeError(KindNotInstance, set.Name.Line, set.Name.Column, msg))
	}

	value := i.evaluate(set.Value)
	instance.Fields[set.Name.Lexeme] = value
	return value
}

// VisitLogicalExpression evaluates `and`/`or` with short-circuit semantics:
// the right operand is only evaluated when the left doesn't already decide
// the result.
func (i *TreeWalkInterpreter) VisitLogicalExpression(expr ast.Logical) any {
	left := i.evaluateCondition(expr.Left)

	if expr.Operator.TokenType == token.OR {
		if left {
			return true
		}
		return i.evaluateCondition(expr.Right)
	}

	// AND
	if !left {
		return false
	}
	return i.evaluateCondition(expr.Right)
}

// VisitAssignExpression evaluates an assignment expression node and updates
// the value of the corresponding variable in the environment.
func (i *TreeWalkInterpreter) VisitAssignExpression(assign ast.Assign) any {
	value := i.evaluate(assign.Value)
	err := i.environment.assign(assign.Name, value)
	if err != nil {
		panic(err)
	}
	return value
}

// VisitBinary evaluates a binary expression node.
//
// Panics on invalid operands or unsupported operators.
func (i *TreeWalkInterpreter) VisitBinary(binary ast.Binary) any {
	leftResult := i.evaluate(binary.Left)
	rightResult := i.evaluate(binary.Right)
	operator := binary.Operator.TokenType

	switch operator {
	case token.MULT:
		leftValue, rightValue, err := isOperandsNumeric(operator, leftResult, rightResult, binary.Operator)
		if err != nil {
			panic(err)
		}
		return leftValue * rightValue

	case token.DIV:
		leftValue, rightValue, err := isOperandsNumeric(operator, leftResult, rightResult, binary.Operator)
		if err != nil {
			panic(err)
		}
		if rightValue == 0 {
			panic(CreateKindedRuntimeError(KindDivisionByZero, binary.Operator.Line, binary.Operator.Column, "division by zero"))
		}
		return leftValue / rightValue

	case token.MOD:
		leftValue, rightValue, err := isOperandsNumeric(operator, leftResult, rightResult, binary.Operator)
		if err != nil {
			panic(err)
		}
		if rightValue == 0 {
			panic(CreateKindedRuntimeError(KindDivisionByZero, binary.Operator.Line, binary.Operator.Column, "division by zero"))
		}
		return float64(int64(leftValue) % int64(rightValue))

	case token.SUB:
		leftValue, rightValue, err := isOperandsNumeric(operator, leftResult, rightResult, binary.Operator)
		if err != nil {
			panic(err)
		}
		return leftValue - rightValue

	case token.ADD:
		leftValue, leftIsNum := leftResult.(float64)
		rightValue, rightIsNum := rightResult.(float64)
		if leftIsNum && rightIsNum {
			return leftValue + rightValue
		}
		leftString, leftIsStr := leftResult.(string)
		rightString, rightIsStr := rightResult.(string)
		if leftIsStr && rightIsStr {
			return leftString + rightString
		}
		msg := fmt.Sprintf("operands must be two numbers or two strings. '%v + %v' is not allowed", leftResult, rightResult)
		panic(CreateRuntimeError(binary.Operator.Line, binary.Operator.Column, msg))

	case token.EQUAL_EQUAL:
		return leftResult == rightResult

	case token.NOT_EQUAL:
		return leftResult != rightResult

	case token.LARGER:
		leftValue, rightValue, err := isOperandsNumeric(operator, leftResult, rightResult, binary.Operator)
		if err != nil {
			panic(err)
		}
		return leftValue > rightValue

	case token.LARGER_EQUAL:
		leftValue, rightValue, err := isOperandsNumeric(operator, leftResult, rightResult, binary.Operator)
		if err != nil {
			panic(err)
		}
		return leftValue >= rightValue

	case token.LESS:
		leftValue, rightValue, err := isOperandsNumeric(operator, leftResult, rightResult, binary.Operator)
		if err != nil {
			panic(err)
		}
		return leftValue < rightValue

	case token.LESS_EQUAL:
		leftValue, rightValue, err := isOperandsNumeric(operator, leftResult, rightResult, binary.Operator)
		if err != nil {
			panic(err)
		}
		return leftValue <= rightValue

	default:
		message := fmt.Sprintf("operator '%s' not supported", operator)
		panic(CreateRuntimeError(binary.Operator.Line, binary.Operator.Column, message))
	}
}

// VisitUnary evaluates a unary expression node.
//
// Panics on invalid operand types or unsupported operators.
func (i *TreeWalkInterpreter) VisitUnary(unary ast.Unary) any {
	rightResult := i.evaluate(unary.Right)
	operator := unary.Operator.TokenType
	switch operator {
	case token.SUB:
		r, err := literalToFloat64(rightResult)
		if err != nil {
			message := fmt.Sprintf("operand must be a numeric value. '%s %v' is not allowed", operator, rightResult)
			panic(CreateRuntimeError(unary.Operator.Line, unary.Operator.Column, message))
		}
		return -r
	case token.BANG:
		return !i.isTrue(rightResult)
	default:
		message := fmt.Sprintf("operator '%s' not supported for unary operations", operator)
		panic(CreateRuntimeError(unary.Operator.Line, unary.Operator.Column, message))
	}
}

// isTrue determines the "truthiness" of the given object. Truthiness is
// reserved exclusively for the `!` operator: nil and false are falsy, every
// other value (including 0 and "") is truthy. Control-flow conditions use
// evaluateCondition instead, which requires a strict boolean.
func (i *TreeWalkInterpreter) isTrue(object any) bool {
	if object == nil {
		return false
	}
	value, isBool := object.(bool)
	if isBool {
		return value
	}
	return true
}

// VisitVariableExpression retrieves the value bound to a variable. A
// variable that was declared with no initializer legitimately holds nil;
// only a name that was never declared anywhere in the environment chain is
// an error.
func (i *TreeWalkInterpreter) VisitVariableExpression(expression ast.Variable) any {
	value, err := i.environment.get(expression.Name)
	if err != nil {
		panic(err)
	}
	return value
}

// VisitLiteral returns the value of a Literal node.
func (i *TreeWalkInterpreter) VisitLiteral(literal ast.Literal) any {
	return literal.Value
}

// VisitGrouping evaluates a Grouping expression by evaluating its inner expression.
func (i *TreeWalkInterpreter) VisitGrouping(grouping ast.Grouping) any {
	return i.evaluate(grouping.Expression)
}

// evaluate evaluates any expression node by invoking its Accept method
// with the Interpreter visitor.
func (i *TreeWalkInterpreter) evaluate(expression ast.Expression) any {
	return expression.Accept(i)
}

// describeType names a runtime value's type the way error messages refer to
// it.
func describeType(value any) string {
	switch value.(type) {
	case nil:
		return "nil"
	case bool:
		return "boolean"
	case float64:
		return "number"
	case string:
		return "string"
	case *Function, *NativeFunction:
		return "function"
	case *Class:
		return "class"
	case *Instance:
		return "instance"
	default:
		return fmt.Sprintf("%T", value)
	}
}

// formatValue renders a runtime value the way `print` displays it: integral
// numbers without a decimal point, other numbers in their shortest
// round-trip decimal form, nil as "Nil", and functions/classes via their
// String() form.
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

// literalToFloat64 attempts to convert a literal value into a float64.
func literalToFloat64(value any) (float64, error) {
	switch v := value.(type) {
	case float64:
		return v, nil
	case float32:
		return float64(v), nil
	case int:
		return float64(v), nil
	case int16:
		return float64(v), nil
	case int32:
		return float64(v), nil
	case int64:
		return float64(v), nil
	default:
		return 0, fmt.Errorf("unsupported type: %T", value)
	}
}

// isOperandsNumeric validates that both operands are numeric and converts them to float64.
func isOperandsNumeric(operator token.TokenType, left any, right any, tok token.Token) (float64, float64, error) {
	l, lerr := literalToFloat64(left)
	r, rerr := literalToFloat64(right)

	if lerr == nil && rerr == nil {
		return l, r, nil
	}

	message := fmt.Sprintf("operands must be numeric values. '%v %s %v' is not allowed", left, operator, right)
	return 0, 0, CreateKindedRuntimeError(KindInvalidTypeConversion, tok.Line, tok.Column, message)
}
