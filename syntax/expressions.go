package syntax

import (
	"fmt"
	"strconv"
	"strings"
)

// LiteralType classifies literals
type LiteralType int

const (
	IntegerLiteral LiteralType = iota
	RealLiteral
	StringLiteral
	RawCodeLiteral
	BooleanLiteral
	NullLiteral
)

func (t LiteralType) String() string {
	switch t {
	case IntegerLiteral:
		return "integer"
	case RealLiteral:
		return "real"
	case StringLiteral:
		return "string"
	case RawCodeLiteral:
		return "rawcode"
	case BooleanLiteral:
		return "boolean"
	case NullLiteral:
		return "null"
	default:
		return "unknown"
	}
}

// IntegerBase is the notation an integer literal was written in.
type IntegerBase int

const (
	Decimal IntegerBase = iota
	Hexadecimal
	DollarHexadecimal
	Octal
)

// Literal is a constant value.
//
// For integer, real, boolean and null literals Value holds the lexeme
// exactly as written, so that "0x1F", "$1F" and "31" stay distinct. For
// string and raw code literals Value holds the decoded contents without
// quotes; renderers escape it again.
type Literal struct {
	Type  LiteralType
	Value string
}

// NewInteger returns an integer literal with the given lexeme.
func NewInteger(lexeme string) *Literal {
	return &Literal{Type: IntegerLiteral, Value: lexeme}
}

// NewReal returns a real literal with the given lexeme.
func NewReal(lexeme string) *Literal {
	return &Literal{Type: RealLiteral, Value: lexeme}
}

// NewString returns a string literal holding s.
func NewString(s string) *Literal {
	return &Literal{Type: StringLiteral, Value: s}
}

// NewRawCode returns a four-character code literal holding s.
func NewRawCode(s string) *Literal {
	return &Literal{Type: RawCodeLiteral, Value: s}
}

// NewBoolean returns true or false.
func NewBoolean(b bool) *Literal {
	return &Literal{Type: BooleanLiteral, Value: strconv.FormatBool(b)}
}

// NewNull returns the null literal.
func NewNull() *Literal {
	return &Literal{Type: NullLiteral, Value: "null"}
}

// Base returns the notation of an integer literal.
func (l *Literal) Base() IntegerBase {
	switch {
	case strings.HasPrefix(l.Value, "0x"), strings.HasPrefix(l.Value, "0X"):
		return Hexadecimal
	case strings.HasPrefix(l.Value, "$"):
		return DollarHexadecimal
	case len(l.Value) > 1 && l.Value[0] == '0':
		return Octal
	default:
		return Decimal
	}
}

// Int returns the numeric value of an integer or raw code literal.
// Integer literals wrap around to 32 bits as the game engine does.
func (l *Literal) Int() (int32, error) {
	switch l.Type {
	case IntegerLiteral:
		digits, base := l.Value, 10
		switch l.Base() {
		case Hexadecimal:
			digits, base = l.Value[2:], 16
		case DollarHexadecimal:
			digits, base = l.Value[1:], 16
		case Octal:
			digits, base = l.Value[1:], 8
		}
		v, err := strconv.ParseUint(digits, base, 64)
		if err != nil {
			return 0, fmt.Errorf("invalid integer literal %q: %w", l.Value, err)
		}
		return int32(uint32(v)), nil
	case RawCodeLiteral:
		var v uint32
		for i := 0; i < len(l.Value); i++ {
			v = v<<8 | uint32(l.Value[i])
		}
		return int32(v), nil
	default:
		return 0, fmt.Errorf("%s literal has no integer value", l.Type)
	}
}

func (l *Literal) Kind() Kind       { return LITERAL }
func (l *Literal) Children() []Node { return nil }
func (l *Literal) expressionNode()  {}

// Identifier names a variable, function or type.
type Identifier struct {
	Name string
}

// NewIdentifier returns an identifier node.
func NewIdentifier(name string) *Identifier {
	return &Identifier{Name: name}
}

func (i *Identifier) Kind() Kind       { return IDENTIFIER }
func (i *Identifier) Children() []Node { return nil }
func (i *Identifier) expressionNode()  {}
func (i *Identifier) assignableNode()  {}

// ArrayReference is name[index].
type ArrayReference struct {
	Name  *Identifier
	Index Expression
}

func (a *ArrayReference) Kind() Kind       { return ARRAY_REFERENCE }
func (a *ArrayReference) Children() []Node { return nodes(a.Name, a.Index) }
func (a *ArrayReference) expressionNode()  {}
func (a *ArrayReference) assignableNode()  {}

// FunctionReference is "function name", a value of type code.
type FunctionReference struct {
	Name *Identifier
}

func (f *FunctionReference) Kind() Kind       { return FUNCTION_REFERENCE }
func (f *FunctionReference) Children() []Node { return nodes(f.Name) }
func (f *FunctionReference) expressionNode()  {}

// Invocation is name(arguments...).
type Invocation struct {
	Name      *Identifier
	Arguments []Expression
}

func (i *Invocation) Kind() Kind { return INVOCATION }
func (i *Invocation) Children() []Node {
	return appendAll(nodes(i.Name), i.Arguments)
}
func (i *Invocation) expressionNode() {}

// UnaryOperator is +, - or not.
type UnaryOperator int

const (
	UnaryPlus UnaryOperator = iota
	UnaryMinus
	Not
)

func (o UnaryOperator) String() string {
	switch o {
	case UnaryPlus:
		return "+"
	case UnaryMinus:
		return "-"
	case Not:
		return "not"
	default:
		return "?"
	}
}

// Unary is a prefix operator application.
type Unary struct {
	Operator UnaryOperator
	Operand  Expression
}

func (u *Unary) Kind() Kind       { return UNARY_EXPRESSION }
func (u *Unary) Children() []Node { return nodes(u.Operand) }
func (u *Unary) expressionNode()  {}

// BinaryOperator is an infix operator.
type BinaryOperator int

const (
	Add BinaryOperator = iota
	Subtract
	Multiply
	Divide
	EqualTo
	NotEqual
	Less
	LessEqual
	Greater
	GreaterEqual
	And
	Or
)

var binaryOperatorText = [...]string{
	Add:          "+",
	Subtract:     "-",
	Multiply:     "*",
	Divide:       "/",
	EqualTo:      "==",
	NotEqual:     "!=",
	Less:         "<",
	LessEqual:    "<=",
	Greater:      ">",
	GreaterEqual: ">=",
	And:          "and",
	Or:           "or",
}

func (o BinaryOperator) String() string {
	if o >= 0 && int(o) < len(binaryOperatorText) {
		return binaryOperatorText[o]
	}
	return "?"
}

// Operator precedence levels, loosest first. Unary operators bind tighter
// than every binary operator.
const (
	PrecedenceOr = iota + 1
	PrecedenceAnd
	PrecedenceEquality
	PrecedenceRelational
	PrecedenceAdditive
	PrecedenceMultiplicative
	PrecedenceUnary
	PrecedencePrimary
)

// Precedence returns the binding strength of the operator.
func (o BinaryOperator) Precedence() int {
	switch o {
	case Or:
		return PrecedenceOr
	case And:
		return PrecedenceAnd
	case EqualTo, NotEqual:
		return PrecedenceEquality
	case Less, LessEqual, Greater, GreaterEqual:
		return PrecedenceRelational
	case Add, Subtract:
		return PrecedenceAdditive
	default:
		return PrecedenceMultiplicative
	}
}

// IsComparison reports whether the operator yields a boolean from two operands
// of the same type.
func (o BinaryOperator) IsComparison() bool {
	p := o.Precedence()
	return p == PrecedenceEquality || p == PrecedenceRelational
}

// IsLogical reports whether the operator is and/or.
func (o BinaryOperator) IsLogical() bool {
	return o == And || o == Or
}

// Binary is left op right.
type Binary struct {
	Operator BinaryOperator
	Left     Expression
	Right    Expression
}

func (b *Binary) Kind() Kind       { return BINARY_EXPRESSION }
func (b *Binary) Children() []Node { return nodes(b.Left, b.Right) }
func (b *Binary) expressionNode()  {}

// Parenthesized is (expression).
type Parenthesized struct {
	Expression Expression
}

func (p *Parenthesized) Kind() Kind       { return PARENTHESIZED_EXPRESSION }
func (p *Parenthesized) Children() []Node { return nodes(p.Expression) }
func (p *Parenthesized) expressionNode()  {}

// Precedence returns how tightly expr binds when printed without added parentheses.
func Precedence(expr Expression) int {
	switch e := expr.(type) {
	case *Binary:
		return e.Operator.Precedence()
	case *Unary:
		return PrecedenceUnary
	default:
		return PrecedencePrimary
	}
}

// IsConstant reports whether expr is built only from literals and operators.
func IsConstant(expr Expression) bool {
	switch e := expr.(type) {
	case *Literal:
		return true
	case *Unary:
		return IsConstant(e.Operand)
	case *Binary:
		return IsConstant(e.Left) && IsConstant(e.Right)
	case *Parenthesized:
		return IsConstant(e.Expression)
	default:
		return false
	}
}
