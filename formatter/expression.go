package formatter

import (
	"strings"

	"github.com/jasskit/jasskit/syntax"
)

// expr renders an expression on a single line.
func (r *renderer) expr(e syntax.Expression) string {
	return syntax.VisitExpression[string](e, expressionRenderer{})
}

type expressionRenderer struct{}

// operand renders e, adding parentheses when it binds looser than minPrecedence.
// Parsed trees carry explicit Parenthesized nodes, so this only triggers for
// trees built in code.
func (v expressionRenderer) operand(e syntax.Expression, minPrecedence int) string {
	text := syntax.VisitExpression[string](e, v)
	if syntax.Precedence(e) < minPrecedence {
		return "(" + text + ")"
	}
	return text
}

func (v expressionRenderer) VisitLiteral(l *syntax.Literal) string {
	switch l.Type {
	case syntax.StringLiteral:
		return Quote(l.Value, '"')
	case syntax.RawCodeLiteral:
		return Quote(l.Value, '\'')
	default:
		return l.Value
	}
}

func (v expressionRenderer) VisitIdentifier(i *syntax.Identifier) string {
	return i.Name
}

func (v expressionRenderer) VisitArrayReference(a *syntax.ArrayReference) string {
	return a.Name.Name + "[" + syntax.VisitExpression[string](a.Index, v) + "]"
}

func (v expressionRenderer) VisitFunctionReference(f *syntax.FunctionReference) string {
	return "function " + f.Name.Name
}

func (v expressionRenderer) VisitInvocation(i *syntax.Invocation) string {
	args := make([]string, len(i.Arguments))
	for n, arg := range i.Arguments {
		args[n] = syntax.VisitExpression[string](arg, v)
	}
	return i.Name.Name + "(" + strings.Join(args, ", ") + ")"
}

func (v expressionRenderer) VisitUnary(u *syntax.Unary) string {
	operand := v.operand(u.Operand, syntax.PrecedenceUnary)
	if u.Operator == syntax.Not {
		return "not " + operand
	}
	return u.Operator.String() + operand
}

func (v expressionRenderer) VisitBinary(b *syntax.Binary) string {
	precedence := b.Operator.Precedence()
	return v.operand(b.Left, precedence) + " " + b.Operator.String() + " " + v.operand(b.Right, precedence+1)
}

func (v expressionRenderer) VisitParenthesized(p *syntax.Parenthesized) string {
	return "(" + syntax.VisitExpression[string](p.Expression, v) + ")"
}

// Quote escapes s and wraps it in the given delimiter.
func Quote(s string, delimiter byte) string {
	var b strings.Builder
	b.Grow(len(s) + 2)
	b.WriteByte(delimiter)
	for i := 0; i < len(s); i++ {
		switch c := s[i]; c {
		case '\\':
			b.WriteString(`\\`)
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			b.WriteString(`\r`)
		case '\t':
			b.WriteString(`\t`)
		case '\b':
			b.WriteString(`\b`)
		case '\f':
			b.WriteString(`\f`)
		default:
			if c == delimiter {
				b.WriteByte('\\')
			}
			b.WriteByte(c)
		}
	}
	b.WriteByte(delimiter)
	return b.String()
}
