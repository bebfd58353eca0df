package parser

import (
	"github.com/jasskit/jasskit/syntax"
	"github.com/jasskit/jasskit/tokenizer"
)

// parseStatements parses a block body up to one of terminators, which is
// left unconsumed. The body also ends early when a token closes an outer
// block, so the caller can report the missing terminator.
func (p *Parser) parseStatements(terminators ...tokenizer.TokenType) []syntax.Statement {
	var body []syntax.Statement

	p.blocks = append(p.blocks, terminators)
	defer func() {
		p.blocks = p.blocks[:len(p.blocks)-1]
	}()

	for {
		p.skipNewlines()
		body = flushComments(p, body)
		if p.closesEnclosingBlock(p.peek().Type) {
			return body
		}

		stmt, err := p.parseStatement()
		if err != nil {
			p.report(err)
			p.synchronize()
			continue
		}
		if stmt != nil {
			body = append(body, stmt)
		}
	}
}

func (p *Parser) parseStatement() (syntax.Statement, error) {
	switch p.peek().Type {
	case tokenizer.LOCAL:
		return p.parseLocal()
	case tokenizer.SET:
		return p.parseSet()
	case tokenizer.CALL:
		return p.parseCall()
	case tokenizer.IF:
		return p.parseIf()
	case tokenizer.LOOP:
		return p.parseLoop()
	case tokenizer.EXITWHEN:
		return p.parseExit()
	case tokenizer.RETURN:
		return p.parseReturn()
	case tokenizer.DEBUG:
		return p.parseDebug()
	}
	return nil, p.unexpected("statement")
}

func (p *Parser) parseLocal() (syntax.Statement, error) {
	p.advance()
	variable, err := p.parseVariableDeclaration()
	if err != nil {
		return nil, err
	}
	if err := p.expectEndOfLine(); err != nil {
		return nil, err
	}
	return &syntax.Local{Variable: variable}, nil
}

// set name = value | set name[index] = value
func (p *Parser) parseSet() (syntax.Statement, error) {
	p.advance()
	name, err := p.expectIdentifier("variable name")
	if err != nil {
		return nil, err
	}

	var target syntax.Assignable = name
	if p.check(tokenizer.OPENED_BRACKET) {
		if target, err = p.parseArrayIndex(name); err != nil {
			return nil, err
		}
	}

	if _, err := p.expect(tokenizer.ASSIGN, "="); err != nil {
		return nil, err
	}
	value, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	if err := p.expectEndOfLine(); err != nil {
		return nil, err
	}
	return &syntax.Set{Target: target, Value: value}, nil
}

func (p *Parser) parseCall() (syntax.Statement, error) {
	p.advance()
	name, err := p.expectIdentifier("function name")
	if err != nil {
		return nil, err
	}
	if !p.check(tokenizer.OPENED_PARENS) {
		return nil, p.unexpected("(")
	}
	invocation, err := p.parseInvocation(name)
	if err != nil {
		return nil, err
	}
	if err := p.expectEndOfLine(); err != nil {
		return nil, err
	}
	return &syntax.Call{Invocation: invocation}, nil
}

// parseConditionLine parses "<expression> then <eol>" after if/elseif.
func (p *Parser) parseConditionLine() (syntax.Expression, error) {
	condition, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(tokenizer.THEN, "then"); err != nil {
		return nil, err
	}
	if err := p.expectEndOfLine(); err != nil {
		return nil, err
	}
	return condition, nil
}

func (p *Parser) parseIf() (syntax.Statement, error) {
	p.advance()

	// A malformed condition is reported once and the whole statement is
	// dropped after its body has been consumed.
	condition, headerErr := p.parseConditionLine()
	if headerErr != nil {
		p.report(headerErr)
		p.synchronize()
	}

	stmt := &syntax.If{Condition: condition}
	stmt.Body = p.parseStatements(tokenizer.ELSEIF, tokenizer.ELSE, tokenizer.ENDIF)

	for p.check(tokenizer.ELSEIF) {
		p.advance()
		elseIfCondition, err := p.parseConditionLine()
		if err != nil {
			p.report(err)
			p.synchronize()
		}
		body := p.parseStatements(tokenizer.ELSEIF, tokenizer.ELSE, tokenizer.ENDIF)
		if err == nil {
			stmt.ElseIfs = append(stmt.ElseIfs, &syntax.ElseIf{Condition: elseIfCondition, Body: body})
		}
	}

	if p.check(tokenizer.ELSE) {
		p.advance()
		if err := p.expectEndOfLine(); err != nil {
			p.report(err)
			p.synchronize()
		}
		stmt.Else = &syntax.Else{Body: p.parseStatements(tokenizer.ENDIF)}
	}

	p.closeBlock(tokenizer.ENDIF, "endif")
	if headerErr != nil {
		return nil, nil
	}
	return stmt, nil
}

func (p *Parser) parseLoop() (syntax.Statement, error) {
	p.advance()
	if err := p.expectEndOfLine(); err != nil {
		p.report(err)
		p.synchronize()
	}
	loop := &syntax.Loop{Body: p.parseStatements(tokenizer.ENDLOOP)}
	p.closeBlock(tokenizer.ENDLOOP, "endloop")
	return loop, nil
}

func (p *Parser) parseExit() (syntax.Statement, error) {
	p.advance()
	condition, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	if err := p.expectEndOfLine(); err != nil {
		return nil, err
	}
	return &syntax.Exit{Condition: condition}, nil
}

func (p *Parser) parseReturn() (syntax.Statement, error) {
	p.advance()
	if p.check(tokenizer.NEWLINE, tokenizer.EOF) {
		p.match(tokenizer.NEWLINE)
		return &syntax.Return{}, nil
	}
	value, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	if err := p.expectEndOfLine(); err != nil {
		return nil, err
	}
	return &syntax.Return{Value: value}, nil
}

// debug (set | call | if | loop)
func (p *Parser) parseDebug() (syntax.Statement, error) {
	p.advance()
	if !p.check(tokenizer.SET, tokenizer.CALL, tokenizer.IF, tokenizer.LOOP) {
		return nil, p.unexpected("set, call, if or loop after debug")
	}
	stmt, err := p.parseStatement()
	if err != nil || stmt == nil {
		return nil, err
	}
	return &syntax.Debug{Statement: stmt}, nil
}
