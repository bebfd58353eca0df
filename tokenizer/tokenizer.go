package tokenizer

import (
	"iter"
	"unicode/utf8"
)

// Options are options for the tokenizer
type Options struct {
	SkipWhitespace bool
	SkipComments   bool
}

// Tokenize returns a lazy, single-use token sequence for input.
// The sequence always ends with exactly one EOF token. Malformed input
// never stops tokenization; it is reported as INVALID tokens instead.
func Tokenize(input string, options ...Options) iter.Seq[Token] {
	opts := Options{}
	if len(options) > 0 {
		opts = options[0]
	}

	return func(yield func(Token) bool) {
		t := &tokenizer{
			input:  input,
			line:   1,
			column: 1,
		}

		for {
			token := t.nextToken()
			if token.Type == EOF {
				yield(token)
				return
			}

			if opts.SkipWhitespace && token.Type == WHITESPACE {
				continue
			}
			if opts.SkipComments && token.Type.IsComment() {
				continue
			}

			if !yield(token) {
				return
			}
		}
	}
}

// All gets all tokens as a slice, including the trailing EOF.
func All(input string, options ...Options) []Token {
	tokens := make([]Token, 0, len(input)/3+1)
	for token := range Tokenize(input, options...) {
		tokens = append(tokens, token)
	}
	return tokens
}

// Internal tokenizer implementation
type tokenizer struct {
	input  string
	offset int
	line   int
	column int
}

// nextToken gets the next token
func (t *tokenizer) nextToken() Token {
	start := t.mark()
	if t.atEnd() {
		return Token{Type: EOF, Position: start}
	}

	c := t.current()
	switch {
	case c == ' ' || c == '\t':
		for !t.atEnd() && (t.current() == ' ' || t.current() == '\t') {
			t.advance()
		}
		return t.token(WHITESPACE, start)
	case c == '\n':
		t.advance()
		return t.token(NEWLINE, start)
	case c == '\r':
		t.advance()
		if !t.atEnd() && t.current() == '\n' {
			t.advance()
		}
		return t.token(NEWLINE, start)
	case c == '/' && t.peek() == '/':
		return t.readLineComment(start)
	case c == '/' && t.peek() == '*':
		return t.readBlockComment(start)
	case c == '"':
		return t.readString(start)
	case c == '\'':
		return t.readRawCode(start)
	case isDigit(c) || (c == '.' && isDigit(t.peek())):
		return t.readNumber(start)
	case c == '$':
		return t.readDollarHex(start)
	case isLetter(c):
		return t.readWord(start)
	}

	return t.readOperator(start)
}

func (t *tokenizer) atEnd() bool {
	return t.offset >= len(t.input)
}

// current returns the byte at the cursor; callers check atEnd first.
func (t *tokenizer) current() byte {
	return t.input[t.offset]
}

// peek looks ahead one byte past the cursor
func (t *tokenizer) peek() byte {
	if t.offset+1 >= len(t.input) {
		return 0
	}
	return t.input[t.offset+1]
}

// advance moves past the current byte and keeps line/column in sync.
func (t *tokenizer) advance() {
	c := t.input[t.offset]
	t.offset++
	if c == '\n' || (c == '\r' && (t.atEnd() || t.current() != '\n')) {
		t.line++
		t.column = 1
	} else {
		t.column++
	}
}

func (t *tokenizer) mark() Position {
	return Position{Line: t.line, Column: t.column, Offset: t.offset}
}

func (t *tokenizer) token(tokenType TokenType, start Position) Token {
	return Token{
		Type:     tokenType,
		Value:    t.input[start.Offset:t.offset],
		Position: start,
	}
}

// readLineComment reads up to, but not including, the line break
func (t *tokenizer) readLineComment(start Position) Token {
	for !t.atEnd() && t.current() != '\n' && t.current() != '\r' {
		t.advance()
	}
	return t.token(LINE_COMMENT, start)
}

// readBlockComment reads a /* */ comment; an open comment runs to EOF as INVALID
func (t *tokenizer) readBlockComment(start Position) Token {
	t.advance()
	t.advance()
	for !t.atEnd() {
		if t.current() == '*' && t.peek() == '/' {
			t.advance()
			t.advance()
			return t.token(BLOCK_COMMENT, start)
		}
		t.advance()
	}
	return t.token(INVALID, start)
}

// readString reads string literals, which may span lines
func (t *tokenizer) readString(start Position) Token {
	t.advance()
	for !t.atEnd() {
		switch t.current() {
		case '\\':
			t.advance()
			if !t.atEnd() {
				t.advance()
			}
		case '"':
			t.advance()
			return t.token(STRING, start)
		default:
			t.advance()
		}
	}
	return t.token(INVALID, start)
}

// readRawCode reads 'abcd' literals; they never span lines
func (t *tokenizer) readRawCode(start Position) Token {
	t.advance()
	for !t.atEnd() {
		switch t.current() {
		case '\\':
			t.advance()
			if !t.atEnd() && t.current() != '\n' && t.current() != '\r' {
				t.advance()
			}
		case '\'':
			t.advance()
			return t.token(RAWCODE, start)
		case '\n', '\r':
			return t.token(INVALID, start)
		default:
			t.advance()
		}
	}
	return t.token(INVALID, start)
}

// readNumber reads decimal, octal, 0x-hexadecimal and real literals
func (t *tokenizer) readNumber(start Position) Token {
	if t.current() == '0' && (t.peek() == 'x' || t.peek() == 'X') {
		t.advance()
		t.advance()
		if t.atEnd() || !isHexDigit(t.current()) {
			return t.token(INVALID, start)
		}
		for !t.atEnd() && isHexDigit(t.current()) {
			t.advance()
		}
		return t.token(HEXADECIMAL, start)
	}

	for !t.atEnd() && isDigit(t.current()) {
		t.advance()
	}

	if !t.atEnd() && t.current() == '.' {
		t.advance()
		for !t.atEnd() && isDigit(t.current()) {
			t.advance()
		}
		return t.token(REAL, start)
	}

	value := t.input[start.Offset:t.offset]
	if len(value) > 1 && value[0] == '0' {
		for i := 1; i < len(value); i++ {
			if value[i] > '7' {
				return t.token(INVALID, start)
			}
		}
		return t.token(OCTAL, start)
	}
	return t.token(DECIMAL, start)
}

// readDollarHex reads $FF style hexadecimal literals
func (t *tokenizer) readDollarHex(start Position) Token {
	t.advance()
	if t.atEnd() || !isHexDigit(t.current()) {
		return t.token(INVALID, start)
	}
	for !t.atEnd() && isHexDigit(t.current()) {
		t.advance()
	}
	return t.token(HEXADECIMAL, start)
}

// readWord reads words (identifiers and keywords)
func (t *tokenizer) readWord(start Position) Token {
	for !t.atEnd() && (isLetter(t.current()) || isDigit(t.current()) || t.current() == '_') {
		t.advance()
	}
	return t.token(LookupKeyword(t.input[start.Offset:t.offset]), start)
}

func (t *tokenizer) readOperator(start Position) Token {
	c := t.current()
	next := t.peek()
	t.advance()

	switch c {
	case '(':
		return t.token(OPENED_PARENS, start)
	case ')':
		return t.token(CLOSED_PARENS, start)
	case '[':
		return t.token(OPENED_BRACKET, start)
	case ']':
		return t.token(CLOSED_BRACKET, start)
	case ',':
		return t.token(COMMA, start)
	case '+':
		return t.token(PLUS, start)
	case '-':
		return t.token(MINUS, start)
	case '*':
		return t.token(MULTIPLY, start)
	case '/':
		return t.token(DIVIDE, start)
	case '=':
		if next == '=' {
			t.advance()
			return t.token(EQUAL, start)
		}
		return t.token(ASSIGN, start)
	case '!':
		if next == '=' {
			t.advance()
			return t.token(NOT_EQUAL, start)
		}
		return t.token(INVALID, start)
	case '<':
		if next == '=' {
			t.advance()
			return t.token(LESS_EQUAL, start)
		}
		return t.token(LESS_THAN, start)
	case '>':
		if next == '=' {
			t.advance()
			return t.token(GREATER_EQUAL, start)
		}
		return t.token(GREATER_THAN, start)
	}

	// Consume the rest of a multi-byte character so the INVALID token is one rune.
	if c >= utf8.RuneSelf {
		_, size := utf8.DecodeRuneInString(t.input[start.Offset:])
		for t.offset < start.Offset+size && !t.atEnd() {
			t.advance()
		}
	}
	return t.token(INVALID, start)
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func isHexDigit(c byte) bool {
	return isDigit(c) || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}

func isLetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}
