package syntax

import (
	"errors"
	"testing"

	"github.com/alecthomas/assert/v2"
)

func sampleFunction() *Function {
	return &Function{
		Signature: &FunctionSignature{Name: NewIdentifier("f"), ReturnType: NewIdentifier("boolean")},
		Body: []Statement{
			&Comment{Text: "// check"},
			&If{
				Condition: &Binary{
					Operator: EqualTo,
					Left:     &ArrayReference{Name: NewIdentifier("a"), Index: NewInteger("0")},
					Right:    NewInteger("1"),
				},
				Body: []Statement{&Return{Value: NewBoolean(true)}},
			},
			&Return{Value: NewBoolean(false)},
		},
	}
}

func TestChildrenOrder(t *testing.T) {
	fn := sampleFunction()
	children := fn.Children()
	assert.Equal(t, 4, len(children))
	assert.Equal(t, FUNCTION_SIGNATURE, children[0].Kind())
	assert.Equal(t, COMMENT, children[1].Kind())
	assert.Equal(t, IF_STATEMENT, children[2].Kind())

	// absent optional children are omitted
	assert.Equal(t, 0, len((&Return{}).Children()))
	assert.Equal(t, 1, len((&If{Condition: NewBoolean(true)}).Children()))
}

func TestWalkAncestors(t *testing.T) {
	var path []Kind
	Walk(sampleFunction(), func(node Node, ancestors []Node) bool {
		if node.Kind() == ARRAY_REFERENCE {
			for _, ancestor := range ancestors {
				path = append(path, ancestor.Kind())
			}
		}
		return true
	})
	assert.Equal(t, []Kind{FUNCTION_DECLARATION, IF_STATEMENT, BINARY_EXPRESSION}, path)
}

func TestWalkSkipsChildren(t *testing.T) {
	count := 0
	Inspect(sampleFunction(), func(node Node) bool {
		count++
		return node.Kind() != IF_STATEMENT
	})
	// function, signature, name, return type, comment, if, return, literal
	assert.Equal(t, 8, count)
}

func TestEqualIgnoresComments(t *testing.T) {
	withComment := sampleFunction()
	without := sampleFunction()
	without.Body = without.Body[1:]

	assert.True(t, Equal(withComment, without))
	assert.False(t, Equal(withComment, &Function{Signature: withComment.Signature}))

	changed := sampleFunction()
	changed.Body[1].(*If).Condition.(*Binary).Right = NewInteger("0x1")
	assert.False(t, Equal(withComment, changed))

	constant := sampleFunction()
	constant.Constant = true
	assert.False(t, Equal(withComment, constant))
}

func TestEqualNil(t *testing.T) {
	var nilIdentifier *Identifier
	assert.True(t, Equal(nil, nilIdentifier))
	assert.False(t, Equal(NewIdentifier("a"), nil))
}

type kindCollector struct{}

func (kindCollector) VisitLiteral(*Literal) string                     { return "literal" }
func (kindCollector) VisitIdentifier(*Identifier) string               { return "identifier" }
func (kindCollector) VisitArrayReference(*ArrayReference) string       { return "array" }
func (kindCollector) VisitFunctionReference(*FunctionReference) string { return "function" }
func (kindCollector) VisitInvocation(*Invocation) string               { return "invocation" }
func (kindCollector) VisitUnary(*Unary) string                         { return "unary" }
func (kindCollector) VisitBinary(*Binary) string                       { return "binary" }
func (kindCollector) VisitParenthesized(*Parenthesized) string         { return "parenthesized" }

func TestVisitExpression(t *testing.T) {
	assert.Equal(t, "array", VisitExpression[string](&ArrayReference{Name: NewIdentifier("a"), Index: NewInteger("1")}, kindCollector{}))
	assert.Equal(t, "unary", VisitExpression[string](&Unary{Operator: Not, Operand: NewBoolean(true)}, kindCollector{}))

	defer func() {
		err, ok := recover().(error)
		assert.True(t, ok)
		assert.True(t, errors.Is(err, ErrNilNode))
	}()
	VisitExpression[string](nil, kindCollector{})
}

func TestLiteral(t *testing.T) {
	tests := []struct {
		literal *Literal
		base    IntegerBase
		value   int32
	}{
		{NewInteger("31"), Decimal, 31},
		{NewInteger("0x1F"), Hexadecimal, 31},
		{NewInteger("$1f"), DollarHexadecimal, 31},
		{NewInteger("037"), Octal, 31},
		{NewInteger("0"), Decimal, 0},
		{NewInteger("0xFFFFFFFF"), Hexadecimal, -1},
		{NewRawCode("hfoo"), Decimal, 0x68666f6f},
		{NewRawCode("A"), Decimal, 65},
	}

	for _, tt := range tests {
		t.Run(tt.literal.Value, func(t *testing.T) {
			if tt.literal.Type == IntegerLiteral {
				assert.Equal(t, tt.base, tt.literal.Base())
			}
			v, err := tt.literal.Int()
			assert.NoError(t, err)
			assert.Equal(t, tt.value, v)
		})
	}

	_, err := NewString("x").Int()
	assert.Error(t, err)
}

func TestPrecedenceAndConstness(t *testing.T) {
	sum := &Binary{Operator: Add, Left: NewInteger("1"), Right: NewInteger("2")}
	assert.Equal(t, PrecedenceAdditive, Precedence(sum))
	assert.Equal(t, PrecedencePrimary, Precedence(&Parenthesized{Expression: sum}))
	assert.True(t, IsConstant(&Unary{Operator: UnaryMinus, Operand: sum}))
	assert.False(t, IsConstant(&Binary{Operator: Add, Left: NewIdentifier("x"), Right: NewInteger("2")}))
	assert.True(t, Less.IsComparison())
	assert.False(t, Add.IsComparison())
	assert.Equal(t, "and", And.String())
	assert.Equal(t, "IF_STATEMENT", IF_STATEMENT.String())
}
