package parser

import (
	"github.com/jasskit/jasskit/syntax"
	"github.com/jasskit/jasskit/tokenizer"
)

var binaryOperators = map[tokenizer.TokenType]syntax.BinaryOperator{
	tokenizer.PLUS:          syntax.Add,
	tokenizer.MINUS:         syntax.Subtract,
	tokenizer.MULTIPLY:      syntax.Multiply,
	tokenizer.DIVIDE:        syntax.Divide,
	tokenizer.EQUAL:         syntax.EqualTo,
	tokenizer.NOT_EQUAL:     syntax.NotEqual,
	tokenizer.LESS_THAN:     syntax.Less,
	tokenizer.LESS_EQUAL:    syntax.LessEqual,
	tokenizer.GREATER_THAN:  syntax.Greater,
	tokenizer.GREATER_EQUAL: syntax.GreaterEqual,
	tokenizer.AND:           syntax.And,
	tokenizer.OR:            syntax.Or,
}

var unaryOperators = map[tokenizer.TokenType]syntax.UnaryOperator{
	tokenizer.PLUS:  syntax.UnaryPlus,
	tokenizer.MINUS: syntax.UnaryMinus,
	tokenizer.NOT:   syntax.Not,
}

func (p *Parser) parseExpression() (syntax.Expression, error) {
	return p.parseBinary(syntax.PrecedenceOr)
}

// parseBinary is a precedence climbing loop. All binary operators are
// left-associative, so the right operand must bind strictly tighter.
func (p *Parser) parseBinary(minPrecedence int) (syntax.Expression, error) {
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}

	for {
		operator, ok := binaryOperators[p.peek().Type]
		if !ok || operator.Precedence() < minPrecedence {
			return left, nil
		}
		p.advance()

		right, err := p.parseBinary(operator.Precedence() + 1)
		if err != nil {
			return nil, err
		}
		left = &syntax.Binary{Operator: operator, Left: left, Right: right}
	}
}

func (p *Parser) parseUnary() (syntax.Expression, error) {
	if operator, ok := unaryOperators[p.peek().Type]; ok {
		p.advance()
		operand, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return &syntax.Unary{Operator: operator, Operand: operand}, nil
	}
	return p.parsePrimary()
}

func (p *Parser) parsePrimary() (syntax.Expression, error) {
	token := p.peek()

	switch token.Type {
	case tokenizer.DECIMAL, tokenizer.HEXADECIMAL, tokenizer.OCTAL:
		p.advance()
		return syntax.NewInteger(token.Value), nil
	case tokenizer.REAL:
		p.advance()
		return syntax.NewReal(token.Value), nil
	case tokenizer.STRING:
		p.advance()
		return syntax.NewString(unquote(token.Value)), nil
	case tokenizer.RAWCODE:
		p.advance()
		code := unquote(token.Value)
		if n := len(code); n != 1 && n != 4 {
			p.report(diagnosticAt(token, ErrInvalidLiteral, "four-character code %s must contain 1 or 4 characters, got %d", token.Value, n))
		}
		return syntax.NewRawCode(code), nil
	case tokenizer.TRUE:
		p.advance()
		return syntax.NewBoolean(true), nil
	case tokenizer.FALSE:
		p.advance()
		return syntax.NewBoolean(false), nil
	case tokenizer.NULL:
		p.advance()
		return syntax.NewNull(), nil
	case tokenizer.FUNCTION:
		p.advance()
		name, err := p.expectIdentifier("function name")
		if err != nil {
			return nil, err
		}
		return &syntax.FunctionReference{Name: name}, nil
	case tokenizer.OPENED_PARENS:
		p.advance()
		inner, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(tokenizer.CLOSED_PARENS, ")"); err != nil {
			return nil, err
		}
		return &syntax.Parenthesized{Expression: inner}, nil
	case tokenizer.IDENTIFIER:
		p.advance()
		name := syntax.NewIdentifier(token.Value)
		switch p.peek().Type {
		case tokenizer.OPENED_PARENS:
			return p.parseInvocation(name)
		case tokenizer.OPENED_BRACKET:
			return p.parseArrayIndex(name)
		}
		return name, nil
	}

	return nil, p.unexpected("expression")
}

// parseArrayIndex parses "[index]" after an array name.
func (p *Parser) parseArrayIndex(name *syntax.Identifier) (*syntax.ArrayReference, error) {
	p.advance()
	index, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(tokenizer.CLOSED_BRACKET, "]"); err != nil {
		return nil, err
	}
	return &syntax.ArrayReference{Name: name, Index: index}, nil
}

// parseInvocation parses "(arguments)" after a function name.
func (p *Parser) parseInvocation(name *syntax.Identifier) (*syntax.Invocation, error) {
	p.advance()
	invocation := &syntax.Invocation{Name: name}
	if p.match(tokenizer.CLOSED_PARENS) {
		return invocation, nil
	}

	for {
		argument, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		invocation.Arguments = append(invocation.Arguments, argument)
		if p.match(tokenizer.CLOSED_PARENS) {
			return invocation, nil
		}
		if !p.match(tokenizer.COMMA) {
			return nil, p.unexpected(", or )")
		}
	}
}
