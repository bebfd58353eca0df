package transpiler

import (
	"fmt"
	"go/ast"
	"go/token"
	"math"
	"strconv"
	"strings"

	"github.com/jasskit/jasskit/syntax"
)

// typed is a converted expression with its JASS type. typ is empty when
// the type cannot be resolved, such as for undeclared natives. value is
// set for integer constants, already wrapped to 32 bits.
type typed struct {
	expr     ast.Expr
	typ      string
	constant bool
	value    *int32
}

func integerConstant(v int32) typed {
	return typed{expr: intValue(v), typ: integerType, constant: true, value: &v}
}

var binaryTokens = map[syntax.BinaryOperator]token.Token{
	syntax.Add:          token.ADD,
	syntax.Subtract:     token.SUB,
	syntax.Multiply:     token.MUL,
	syntax.Divide:       token.QUO,
	syntax.EqualTo:      token.EQL,
	syntax.NotEqual:     token.NEQ,
	syntax.Less:         token.LSS,
	syntax.LessEqual:    token.LEQ,
	syntax.Greater:      token.GTR,
	syntax.GreaterEqual: token.GEQ,
	syntax.And:          token.LAND,
	syntax.Or:           token.LOR,
}

var unaryTokens = map[syntax.UnaryOperator]token.Token{
	syntax.UnaryPlus:  token.ADD,
	syntax.UnaryMinus: token.SUB,
	syntax.Not:        token.NOT,
}

func (b *builder) expression(expr syntax.Expression, s *scope) typed {
	if syntax.IsNil(expr) {
		panic(fmt.Errorf("%w: expression", syntax.ErrNilNode))
	}
	return syntax.VisitExpression[typed](expr, expressionTranspiler{builder: b, scope: s})
}

type expressionTranspiler struct {
	*builder
	scope *scope
}

func (e expressionTranspiler) VisitLiteral(l *syntax.Literal) typed {
	switch l.Type {
	case syntax.IntegerLiteral:
		result := typed{expr: integerLiteral(l), typ: integerType, constant: true}
		if v, err := l.Int(); err == nil {
			result.value = &v
		}
		return result
	case syntax.RawCodeLiteral:
		v, _ := l.Int()
		return integerConstant(v)
	case syntax.RealLiteral:
		return typed{expr: &ast.BasicLit{Kind: token.FLOAT, Value: l.Value}, typ: realType, constant: true}
	case syntax.StringLiteral:
		return typed{expr: &ast.BasicLit{Kind: token.STRING, Value: strconv.Quote(l.Value)}, typ: stringType, constant: true}
	case syntax.BooleanLiteral:
		return typed{expr: ast.NewIdent(l.Value), typ: booleanType, constant: true}
	default:
		return typed{expr: ast.NewIdent("nil"), typ: nullType, constant: true}
	}
}

// integerLiteral keeps the written base unless the value only fits
// after wrapping to 32 bits.
func integerLiteral(l *syntax.Literal) ast.Expr {
	v, err := l.Int()
	if err != nil {
		return &ast.BasicLit{Kind: token.INT, Value: l.Value}
	}

	lexeme := l.Value
	if l.Base() == syntax.DollarHexadecimal {
		lexeme = "0x" + lexeme[1:]
	}
	if unsigned, err := strconv.ParseUint(strings.TrimPrefix(strings.TrimPrefix(lexeme, "0x"), "0X"), literalBase(l.Base()), 64); err == nil && unsigned <= math.MaxInt32 {
		return &ast.BasicLit{Kind: token.INT, Value: lexeme}
	}
	return intValue(v)
}

func literalBase(base syntax.IntegerBase) int {
	switch base {
	case syntax.Hexadecimal, syntax.DollarHexadecimal:
		return 16
	case syntax.Octal:
		return 8
	default:
		return 10
	}
}

func intValue(v int32) ast.Expr {
	if v < 0 {
		return &ast.UnaryExpr{Op: token.SUB, X: &ast.BasicLit{Kind: token.INT, Value: strconv.FormatInt(-int64(v), 10)}}
	}
	return &ast.BasicLit{Kind: token.INT, Value: strconv.FormatInt(int64(v), 10)}
}

func (e expressionTranspiler) VisitIdentifier(id *syntax.Identifier) typed {
	name, typ, _ := e.resolve(id.Name)
	return typed{expr: ast.NewIdent(name), typ: typ}
}

// resolve finds the Go name, JASS type and array flag of a variable.
func (e expressionTranspiler) resolve(name string) (string, string, bool) {
	if v, ok := e.scope.variables[name]; ok {
		return v.goName, v.typ, v.array
	}
	if symbol, ok := e.symbols.Lookup(name); ok && symbol.Kind == GlobalSymbol {
		return e.GoName(name), symbol.Type, symbol.Array
	}
	return e.GoName(name), "", false
}

func (e expressionTranspiler) VisitArrayReference(a *syntax.ArrayReference) typed {
	expr, _ := e.arrayReference(a, e.scope)
	_, typ, _ := e.resolve(a.Name.Name)
	return typed{expr: expr, typ: typ}
}

func (e expressionTranspiler) VisitFunctionReference(f *syntax.FunctionReference) typed {
	return typed{expr: ast.NewIdent(e.GoName(f.Name.Name)), typ: codeType}
}

func (e expressionTranspiler) VisitInvocation(inv *syntax.Invocation) typed {
	call := &ast.CallExpr{Fun: ast.NewIdent(e.GoName(inv.Name.Name))}
	symbol, _ := e.symbols.Lookup(inv.Name.Name)

	for i, arg := range inv.Arguments {
		value := e.expression(arg, e.scope)
		target := ""
		if symbol != nil && i < len(symbol.Parameters) {
			target = symbol.Parameters[i]
		}
		call.Args = append(call.Args, convert(value, target))
	}

	result := typed{expr: call}
	if symbol != nil && (symbol.Kind == FunctionSymbol || symbol.Kind == NativeSymbol) {
		result.typ = symbol.Type
	}
	return result
}

func (e expressionTranspiler) VisitUnary(u *syntax.Unary) typed {
	operand := e.expression(u.Operand, e.scope)
	if operand.value != nil && operand.typ == integerType {
		switch u.Operator {
		case syntax.UnaryMinus:
			return integerConstant(-*operand.value)
		case syntax.UnaryPlus:
			return operand
		}
	}

	typ := operand.typ
	if u.Operator == syntax.Not {
		typ = booleanType
	}
	return typed{
		expr:     &ast.UnaryExpr{Op: unaryTokens[u.Operator], X: parenthesize(operand.expr, token.UnaryPrec, false)},
		typ:      typ,
		constant: operand.constant,
	}
}

func (e expressionTranspiler) VisitBinary(bin *syntax.Binary) typed {
	left := e.expression(bin.Left, e.scope)
	right := e.expression(bin.Right, e.scope)

	typ := left.typ
	switch {
	case bin.Operator.IsLogical():
		typ = booleanType
	case bin.Operator.IsComparison():
		typ = booleanType
		left, right = balance(left, right)
	default:
		left, right = balance(left, right)
		if typ == "" || right.typ == realType || right.typ == stringType {
			typ = right.typ
		}
	}

	if bin.Operator == syntax.Divide && right.value != nil && *right.value == 0 {
		e.scope.fail(e.divisionByZero())
	}
	if folded, ok := fold(bin.Operator, left, right); ok {
		return folded
	}

	op := binaryTokens[bin.Operator]
	return typed{
		expr: &ast.BinaryExpr{
			X:  parenthesize(left.expr, op.Precedence(), false),
			Op: op,
			Y:  parenthesize(right.expr, op.Precedence(), true),
		},
		typ:      typ,
		constant: left.constant && right.constant,
	}
}

// fold evaluates integer arithmetic on constants with the wrapping of
// 32-bit integers, which untyped Go constants do not have.
func fold(op syntax.BinaryOperator, left, right typed) (typed, bool) {
	if left.value == nil || right.value == nil || left.typ != integerType || right.typ != integerType {
		return typed{}, false
	}
	l, r := int64(*left.value), int64(*right.value)
	switch op {
	case syntax.Add:
		return integerConstant(int32(l + r)), true
	case syntax.Subtract:
		return integerConstant(int32(l - r)), true
	case syntax.Multiply:
		return integerConstant(int32(l * r)), true
	case syntax.Divide:
		if r == 0 {
			return typed{}, false
		}
		return integerConstant(int32(l / r)), true
	}
	return typed{}, false
}

func (e expressionTranspiler) divisionByZero() error {
	if e.scope.function == "" {
		return fmt.Errorf("%w in globals", ErrDivisionByZero)
	}
	return fmt.Errorf("%w in function %s", ErrDivisionByZero, e.scope.function)
}

// balance converts the operands of a binary operator to a common type.
func balance(left, right typed) (typed, typed) {
	switch {
	case left.typ == realType || right.typ == realType:
		left.expr, right.expr = convert(left, realType), convert(right, realType)
	case left.typ == nullType:
		left.expr = convert(left, right.typ)
	case right.typ == nullType:
		right.expr = convert(right, left.typ)
	}
	return left, right
}

func (e expressionTranspiler) VisitParenthesized(p *syntax.Parenthesized) typed {
	inner := e.expression(p.Expression, e.scope)
	if inner.value == nil {
		inner.expr = &ast.ParenExpr{X: inner.expr}
	}
	return inner
}

// parenthesize wraps operands that would otherwise bind differently in Go,
// where equality and relational operators share one precedence level.
func parenthesize(expr ast.Expr, precedence int, right bool) ast.Expr {
	bin, ok := expr.(*ast.BinaryExpr)
	if !ok {
		return expr
	}
	inner := bin.Op.Precedence()
	if inner < precedence || (right && inner == precedence) {
		return &ast.ParenExpr{X: expr}
	}
	return expr
}
