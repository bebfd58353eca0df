package tokenizer

import (
	"errors"
	"strings"
	"testing"

	"github.com/alecthomas/assert/v2"
)

func types(tokens []Token) []TokenType {
	result := make([]TokenType, 0, len(tokens))
	for _, token := range tokens {
		result = append(result, token.Type)
	}
	return result
}

func TestTokenize(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []TokenType
	}{
		{
			name:     "set statement",
			input:    "set x = 1",
			expected: []TokenType{SET, WHITESPACE, IDENTIFIER, WHITESPACE, ASSIGN, WHITESPACE, DECIMAL, EOF},
		},
		{
			name:     "maximal munch prefers ==",
			input:    "a==b",
			expected: []TokenType{IDENTIFIER, EQUAL, IDENTIFIER, EOF},
		},
		{
			name:     "comparison operators",
			input:    "<<=>>=!=",
			expected: []TokenType{LESS_THAN, LESS_EQUAL, GREATER_THAN, GREATER_EQUAL, NOT_EQUAL, EOF},
		},
		{
			name:     "array reference",
			input:    "a[i+1]",
			expected: []TokenType{IDENTIFIER, OPENED_BRACKET, IDENTIFIER, PLUS, DECIMAL, CLOSED_BRACKET, EOF},
		},
		{
			name:     "keyword beats identifier",
			input:    "endfunction endfunctions",
			expected: []TokenType{ENDFUNCTION, WHITESPACE, IDENTIFIER, EOF},
		},
		{
			name:     "keywords are case sensitive",
			input:    "If",
			expected: []TokenType{IDENTIFIER, EOF},
		},
		{
			name:     "line endings",
			input:    "a\nb\r\nc\rd",
			expected: []TokenType{IDENTIFIER, NEWLINE, IDENTIFIER, NEWLINE, IDENTIFIER, NEWLINE, IDENTIFIER, EOF},
		},
		{
			name:     "line comment stops at line break",
			input:    "call f() // note\nreturn",
			expected: []TokenType{CALL, WHITESPACE, IDENTIFIER, OPENED_PARENS, CLOSED_PARENS, WHITESPACE, LINE_COMMENT, NEWLINE, RETURN, EOF},
		},
		{
			name:     "block comment",
			input:    "a /* x\ny */ b",
			expected: []TokenType{IDENTIFIER, WHITESPACE, BLOCK_COMMENT, WHITESPACE, IDENTIFIER, EOF},
		},
		{
			name:     "function reference",
			input:    "function Foo",
			expected: []TokenType{FUNCTION, WHITESPACE, IDENTIFIER, EOF},
		},
		{
			name:     "division is not a comment",
			input:    "a/b",
			expected: []TokenType{IDENTIFIER, DIVIDE, IDENTIFIER, EOF},
		},
		{
			name:     "empty input",
			input:    "",
			expected: []TokenType{EOF},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, types(All(tt.input)))
		})
	}
}

func TestTokenizeLiterals(t *testing.T) {
	tests := []struct {
		input    string
		expected TokenType
	}{
		{"0", DECIMAL},
		{"1234", DECIMAL},
		{"0x1F", HEXADECIMAL},
		{"0XaB", HEXADECIMAL},
		{"$FF", HEXADECIMAL},
		{"017", OCTAL},
		{"1.5", REAL},
		{".5", REAL},
		{"1.", REAL},
		{`"hello"`, STRING},
		{`"say \"hi\"\n"`, STRING},
		{"\"multi\nline\"", STRING},
		{"'hfoo'", RAWCODE},
		{"'A'", RAWCODE},
		{`'\\'`, RAWCODE},
		{"true", TRUE},
		{"false", FALSE},
		{"null", NULL},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			tokens := All(tt.input)
			assert.Equal(t, 2, len(tokens))
			assert.Equal(t, tt.expected, tokens[0].Type)
			assert.Equal(t, tt.input, tokens[0].Value)
		})
	}
}

func TestTokenizeInvalid(t *testing.T) {
	tests := []struct {
		name  string
		input string
		value string
		cause error
	}{
		{"unterminated string", `x = "abc`, `"abc`, ErrUnterminatedString},
		{"unterminated raw code", "x = 'ab\ny", "'ab", ErrUnterminatedRawCode},
		{"unterminated block comment", "x /* abc", "/* abc", ErrUnterminatedComment},
		{"bad hex prefix", "0xZ", "0x", ErrInvalidNumber},
		{"bad dollar", "$", "$", ErrInvalidNumber},
		{"bad octal", "019", "019", ErrInvalidNumber},
		{"lone bang", "!x", "!", ErrUnexpectedCharacter},
		{"unknown character", "a # b", "#", ErrUnexpectedCharacter},
		{"multi-byte rune", "a ä b", "ä", ErrUnexpectedCharacter},
		{"leading underscore", "_x", "_", ErrUnexpectedCharacter},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var invalid []Token
			for token := range Tokenize(tt.input) {
				if token.Type == INVALID {
					invalid = append(invalid, token)
				}
			}
			assert.Equal(t, 1, len(invalid))
			assert.Equal(t, tt.value, invalid[0].Value)
			assert.True(t, errors.Is(invalid[0].Err(), tt.cause))
		})
	}
}

func TestTokenizeLosslessAndPositions(t *testing.T) {
	input := "function f takes nothing returns nothing\r\n\tlocal integer i = 0x10 // c\n\tset i = i + 'A'\nendfunction"
	tokens := All(input)

	var rebuilt strings.Builder
	for _, token := range tokens {
		rebuilt.WriteString(token.Value)
	}
	assert.Equal(t, input, rebuilt.String())

	for _, token := range tokens {
		offset, length := token.Span()
		assert.Equal(t, token.Value, input[offset:offset+length])
	}

	var local Token
	for _, token := range tokens {
		if token.Type == LOCAL {
			local = token
		}
	}
	assert.Equal(t, Position{Line: 2, Column: 2, Offset: 43}, local.Position)
	assert.Equal(t, EOF, tokens[len(tokens)-1].Type)
}

func TestTokenizeOptions(t *testing.T) {
	tokens := All("set x = 1 // c\n", Options{SkipWhitespace: true, SkipComments: true})
	assert.Equal(t, []TokenType{SET, IDENTIFIER, ASSIGN, DECIMAL, NEWLINE, EOF}, types(tokens))
}

func TestTokenizeStopsEarly(t *testing.T) {
	count := 0
	for range Tokenize("a b c d e") {
		count++
		if count == 2 {
			break
		}
	}
	assert.Equal(t, 2, count)
}

func TestTokenTypeString(t *testing.T) {
	assert.Equal(t, "EXITWHEN", EXITWHEN.String())
	assert.Equal(t, "UNKNOWN", TokenType(-1).String())
	assert.True(t, NULL.IsKeyword())
	assert.False(t, IDENTIFIER.IsKeyword())
	assert.True(t, IsKeyword("endloop"))
	assert.False(t, IsKeyword("integer"))
}
