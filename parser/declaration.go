package parser

import (
	"github.com/jasskit/jasskit/syntax"
	"github.com/jasskit/jasskit/tokenizer"
)

func (p *Parser) parseCompilationUnit() *syntax.CompilationUnit {
	unit := &syntax.CompilationUnit{}

	for {
		p.skipNewlines()
		unit.Declarations = flushComments(p, unit.Declarations)
		if p.check(tokenizer.EOF) {
			break
		}

		decl, err := p.parseDeclaration()
		if err != nil {
			p.report(err)
			p.synchronize()
			continue
		}
		if decl != nil {
			unit.Declarations = append(unit.Declarations, decl)
		}
	}

	return unit
}

// parseDeclaration returns a nil declaration without error when a
// malformed block was already reported and skipped.
func (p *Parser) parseDeclaration() (syntax.Declaration, error) {
	switch p.peek().Type {
	case tokenizer.TYPE:
		return p.parseTypeDeclaration()
	case tokenizer.GLOBALS:
		return p.parseGlobals()
	case tokenizer.NATIVE:
		return p.parseNative(false)
	case tokenizer.FUNCTION:
		return p.parseFunction(false)
	case tokenizer.CONSTANT:
		switch p.lookahead(1).Type {
		case tokenizer.NATIVE:
			p.advance()
			return p.parseNative(true)
		case tokenizer.FUNCTION:
			p.advance()
			return p.parseFunction(true)
		}
		p.advance()
		return nil, p.unexpected("native or function")
	}
	return nil, p.unexpected("declaration")
}

// type name extends base
func (p *Parser) parseTypeDeclaration() (syntax.Declaration, error) {
	p.advance()
	name, err := p.expectIdentifier("type name")
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(tokenizer.EXTENDS, "extends"); err != nil {
		return nil, err
	}
	base, err := p.expectIdentifier("base type name")
	if err != nil {
		return nil, err
	}
	if err := p.expectEndOfLine(); err != nil {
		return nil, err
	}
	return &syntax.TypeDeclaration{Name: name, Base: base}, nil
}

func (p *Parser) parseGlobals() (syntax.Declaration, error) {
	p.advance()
	if err := p.expectEndOfLine(); err != nil {
		p.report(err)
		p.synchronize()
	}

	globals := &syntax.Globals{}
	for {
		p.skipNewlines()
		globals.Members = flushComments(p, globals.Members)

		token := p.peek()
		if token.Type == tokenizer.ENDGLOBALS {
			p.advance()
			if err := p.expectEndOfLine(); err != nil {
				p.report(err)
				p.synchronize()
			}
			return globals, nil
		}
		if p.endsGlobals(token) {
			p.report(diagnosticAt(token, ErrMissingEnd, "missing endglobals before %s", describe(token)))
			return globals, nil
		}

		member, err := p.parseGlobal()
		if err != nil {
			p.report(err)
			p.synchronize()
			continue
		}
		globals.Members = append(globals.Members, member)
	}
}

// endsGlobals detects a declaration that starts while a globals block is open.
func (p *Parser) endsGlobals(token tokenizer.Token) bool {
	switch token.Type {
	case tokenizer.EOF, tokenizer.TYPE, tokenizer.GLOBALS, tokenizer.NATIVE, tokenizer.FUNCTION, tokenizer.ENDFUNCTION:
		return true
	case tokenizer.CONSTANT:
		next := p.lookahead(1).Type
		return next == tokenizer.NATIVE || next == tokenizer.FUNCTION
	}
	return false
}

// [constant] type [array] name [= expression]
func (p *Parser) parseGlobal() (*syntax.Global, error) {
	constant := p.match(tokenizer.CONSTANT)
	variable, err := p.parseVariableDeclaration()
	if err != nil {
		return nil, err
	}
	if err := p.expectEndOfLine(); err != nil {
		return nil, err
	}
	return &syntax.Global{Constant: constant, Variable: variable}, nil
}

func (p *Parser) parseVariableDeclaration() (*syntax.VariableDeclaration, error) {
	typeName, err := p.expectIdentifier("type name")
	if err != nil {
		return nil, err
	}
	variable := &syntax.VariableDeclaration{Type: typeName}
	variable.Array = p.match(tokenizer.ARRAY)

	if variable.Name, err = p.expectIdentifier("variable name"); err != nil {
		return nil, err
	}

	if p.check(tokenizer.ASSIGN) {
		if variable.Array {
			return nil, diagnosticAt(p.peek(), ErrUnexpectedToken, "array variable %s cannot have an initializer", variable.Name.Name)
		}
		p.advance()
		if variable.Initializer, err = p.parseExpression(); err != nil {
			return nil, err
		}
	}
	return variable, nil
}

// name takes (nothing | type name {, type name}) returns (nothing | type)
func (p *Parser) parseSignature() (*syntax.FunctionSignature, error) {
	name, err := p.expectIdentifier("function name")
	if err != nil {
		return nil, err
	}
	signature := &syntax.FunctionSignature{Name: name}

	if _, err := p.expect(tokenizer.TAKES, "takes"); err != nil {
		return nil, err
	}
	if !p.match(tokenizer.NOTHING) {
		for {
			parameter := &syntax.Parameter{}
			if parameter.Type, err = p.expectIdentifier("parameter type"); err != nil {
				return nil, err
			}
			if parameter.Name, err = p.expectIdentifier("parameter name"); err != nil {
				return nil, err
			}
			signature.Parameters = append(signature.Parameters, parameter)
			if !p.match(tokenizer.COMMA) {
				break
			}
		}
	}

	if _, err := p.expect(tokenizer.RETURNS, "returns"); err != nil {
		return nil, err
	}
	if !p.match(tokenizer.NOTHING) {
		if signature.ReturnType, err = p.expectIdentifier("return type"); err != nil {
			return nil, err
		}
	}
	return signature, nil
}

func (p *Parser) parseNative(constant bool) (syntax.Declaration, error) {
	p.advance()
	signature, err := p.parseSignature()
	if err != nil {
		return nil, err
	}
	if err := p.expectEndOfLine(); err != nil {
		return nil, err
	}
	return &syntax.Native{Constant: constant, Signature: signature}, nil
}

func (p *Parser) parseFunction(constant bool) (syntax.Declaration, error) {
	p.advance()

	// A broken header is reported once; the body is still consumed so its
	// lines do not surface as stray top-level errors.
	signature, err := p.parseSignature()
	if err == nil {
		err = p.expectEndOfLine()
	}
	if err != nil {
		p.report(err)
		p.synchronize()
	}

	body := p.parseStatements(tokenizer.ENDFUNCTION)
	p.closeBlock(tokenizer.ENDFUNCTION, "endfunction")
	if err != nil {
		return nil, nil
	}
	return &syntax.Function{Constant: constant, Signature: signature, Body: body}, nil
}

// closeBlock consumes the terminator of a block, or reports that it is
// missing and leaves the current token for the enclosing block.
func (p *Parser) closeBlock(terminator tokenizer.TokenType, word string) {
	token := p.peek()
	if token.Type != terminator {
		p.report(diagnosticAt(token, ErrMissingEnd, "missing %s before %s", word, describe(token)))
		return
	}
	p.advance()
	if err := p.expectEndOfLine(); err != nil {
		p.report(err)
		p.synchronize()
	}
}
