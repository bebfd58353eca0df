// Package parser builds syntax trees from token streams.
//
// Parsing never fails on bad input: problems are collected as diagnostics
// and the parser resynchronizes at the next line break, so one malformed
// statement costs one diagnostic and leaves its siblings intact.
package parser

import (
	"errors"
	"fmt"
	"iter"
	"slices"

	"github.com/jasskit/jasskit/syntax"
	"github.com/jasskit/jasskit/tokenizer"
)

// Parser is a recursive descent parser over a materialized token list.
type Parser struct {
	tokens      []tokenizer.Token
	current     int
	diagnostics []Diagnostic
	comments    []*syntax.Comment
	blocks      [][]tokenizer.TokenType
}

// Parse parses a whole file. It panics if tokens is nil.
func Parse(tokens iter.Seq[tokenizer.Token]) (*syntax.CompilationUnit, []Diagnostic) {
	p := newParser(tokens)
	unit := p.parseCompilationUnit()
	return unit, p.diagnostics
}

// ParseString tokenizes and parses src.
func ParseString(src string) (*syntax.CompilationUnit, []Diagnostic) {
	return Parse(tokenizer.Tokenize(src))
}

// ParseExpression parses src as a single expression.
func ParseExpression(src string) (syntax.Expression, []Diagnostic) {
	p := newParser(tokenizer.Tokenize(src))
	p.skipNewlines()
	expr, err := p.parseExpression()
	if err == nil {
		err = p.expectEndOfInput()
	}
	if err != nil {
		p.report(err)
		return nil, p.diagnostics
	}
	return expr, p.diagnostics
}

// ParseStatement parses src as a single statement. Blocks such as
// if/endif may span several lines.
func ParseStatement(src string) (syntax.Statement, []Diagnostic) {
	p := newParser(tokenizer.Tokenize(src))
	p.skipNewlines()
	stmt, err := p.parseStatement()
	if err == nil {
		p.skipNewlines()
		err = p.expectEndOfInput()
	}
	if err != nil {
		p.report(err)
		return nil, p.diagnostics
	}
	return stmt, p.diagnostics
}

func newParser(tokens iter.Seq[tokenizer.Token]) *Parser {
	if tokens == nil {
		panic(fmt.Errorf("parser: %w", ErrNilTokenStream))
	}

	p := &Parser{}
	for token := range tokens {
		if token.Type == tokenizer.WHITESPACE {
			continue
		}
		p.tokens = append(p.tokens, token)
		if token.Type == tokenizer.EOF {
			break
		}
	}
	if len(p.tokens) == 0 || p.tokens[len(p.tokens)-1].Type != tokenizer.EOF {
		var end tokenizer.Position
		if len(p.tokens) > 0 {
			last := p.tokens[len(p.tokens)-1]
			end = last.Position
			end.Offset = last.End()
		}
		p.tokens = append(p.tokens, tokenizer.Token{Type: tokenizer.EOF, Position: end})
	}
	return p
}

// peek returns the current significant token. Comment tokens in front of
// it are moved to the pending comment buffer.
func (p *Parser) peek() tokenizer.Token {
	for p.tokens[p.current].Type.IsComment() {
		p.comments = append(p.comments, &syntax.Comment{Text: p.tokens[p.current].Value})
		p.current++
	}
	return p.tokens[p.current]
}

// lookahead returns the n-th significant token after the current one
// without buffering comments.
func (p *Parser) lookahead(n int) tokenizer.Token {
	i := p.current
	for {
		for p.tokens[i].Type.IsComment() {
			i++
		}
		if n == 0 || p.tokens[i].Type == tokenizer.EOF {
			return p.tokens[i]
		}
		n--
		i++
	}
}

func (p *Parser) check(types ...tokenizer.TokenType) bool {
	return slices.Contains(types, p.peek().Type)
}

func (p *Parser) advance() tokenizer.Token {
	token := p.peek()
	if token.Type != tokenizer.EOF {
		p.current++
	}
	return token
}

func (p *Parser) match(types ...tokenizer.TokenType) bool {
	if p.check(types...) {
		p.advance()
		return true
	}
	return false
}

// expect consumes a token of the given type or returns a diagnostic.
func (p *Parser) expect(tokenType tokenizer.TokenType, what string) (tokenizer.Token, error) {
	if p.check(tokenType) {
		return p.advance(), nil
	}
	return tokenizer.Token{}, p.unexpected(what)
}

func (p *Parser) expectIdentifier(what string) (*syntax.Identifier, error) {
	token, err := p.expect(tokenizer.IDENTIFIER, what)
	if err != nil {
		return nil, err
	}
	return syntax.NewIdentifier(token.Value), nil
}

func (p *Parser) expectEndOfLine() error {
	switch p.peek().Type {
	case tokenizer.NEWLINE:
		p.advance()
		return nil
	case tokenizer.EOF:
		return nil
	}
	return p.unexpected("end of line")
}

func (p *Parser) expectEndOfInput() error {
	if p.check(tokenizer.EOF) {
		return nil
	}
	return p.unexpected("end of input")
}

// unexpected builds a diagnostic for the current token.
func (p *Parser) unexpected(expected string) error {
	token := p.peek()
	if token.Type == tokenizer.INVALID {
		return diagnosticAt(token, ErrInvalidToken, "%v", token.Err())
	}
	return diagnosticAt(token, ErrUnexpectedToken, "unexpected %s, expected %s", describe(token), expected)
}

func (p *Parser) report(err error) {
	var d Diagnostic
	if errors.As(err, &d) {
		p.diagnostics = append(p.diagnostics, d)
		return
	}
	p.diagnostics = append(p.diagnostics, diagnosticAt(p.peek(), err, "%v", err))
}

// synchronize skips to the next line break without consuming it.
func (p *Parser) synchronize() {
	for {
		switch p.tokens[p.current].Type {
		case tokenizer.NEWLINE, tokenizer.EOF:
			return
		}
		p.current++
	}
}

func (p *Parser) skipNewlines() {
	for p.peek().Type == tokenizer.NEWLINE {
		p.current++
	}
}

// flushComments appends the pending comments to list.
func flushComments[T syntax.Node](p *Parser, list []T) []T {
	for _, comment := range p.comments {
		list = append(list, any(comment).(T))
	}
	p.comments = p.comments[:0]
	return list
}

// declarationStarts are tokens that can only begin a top-level declaration.
var declarationStarts = []tokenizer.TokenType{
	tokenizer.TYPE,
	tokenizer.GLOBALS,
	tokenizer.CONSTANT,
	tokenizer.NATIVE,
	tokenizer.FUNCTION,
	tokenizer.EOF,
}

// closesEnclosingBlock reports whether token ends a block that is open
// further out, or starts a new declaration.
func (p *Parser) closesEnclosingBlock(tokenType tokenizer.TokenType) bool {
	if slices.Contains(declarationStarts, tokenType) {
		return true
	}
	for _, terminators := range p.blocks {
		if slices.Contains(terminators, tokenType) {
			return true
		}
	}
	return false
}
