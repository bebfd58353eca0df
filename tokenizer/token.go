package tokenizer

import (
	"errors"
	"fmt"
)

// Sentinel errors
var (
	ErrUnexpectedCharacter = errors.New("unexpected character")
	ErrUnterminatedString  = errors.New("unterminated string literal")
	ErrUnterminatedRawCode = errors.New("unterminated four-character code")
	ErrUnterminatedComment = errors.New("unterminated block comment")
	ErrInvalidNumber       = errors.New("invalid number format")
)

// TokenType represents the type of a token
type TokenType int

const (
	// Basic tokens
	EOF TokenType = iota
	INVALID
	WHITESPACE
	NEWLINE // \n, \r\n, \r
	IDENTIFIER

	// Literals
	DECIMAL     // 123
	HEXADECIMAL // 0x1F, $1F
	OCTAL       // 017
	REAL        // 1.5, .5, 1.
	STRING      // "text"
	RAWCODE     // 'hfoo'

	// Punctuation
	OPENED_PARENS  // (
	CLOSED_PARENS  // )
	OPENED_BRACKET // [
	CLOSED_BRACKET // ]
	COMMA          // ,

	// Operators
	ASSIGN        // =
	EQUAL         // ==
	NOT_EQUAL     // !=
	LESS_THAN     // <
	GREATER_THAN  // >
	LESS_EQUAL    // <=
	GREATER_EQUAL // >=
	PLUS          // +
	MINUS         // -
	MULTIPLY      // *
	DIVIDE        // /

	// Declaration keywords
	TYPE
	EXTENDS
	GLOBALS
	ENDGLOBALS
	CONSTANT
	NATIVE
	TAKES
	RETURNS
	NOTHING
	FUNCTION
	ENDFUNCTION
	ARRAY

	// Statement keywords
	LOCAL
	SET
	CALL
	IF
	THEN
	ELSEIF
	ELSE
	ENDIF
	LOOP
	ENDLOOP
	EXITWHEN
	RETURN
	DEBUG

	// Expression keywords
	AND
	OR
	NOT
	TRUE
	FALSE
	NULL

	// Comments
	LINE_COMMENT  // // line comment
	BLOCK_COMMENT // /* block comment */
)

var tokenTypeNames = map[TokenType]string{
	EOF:            "EOF",
	INVALID:        "INVALID",
	WHITESPACE:     "WHITESPACE",
	NEWLINE:        "NEWLINE",
	IDENTIFIER:     "IDENTIFIER",
	DECIMAL:        "DECIMAL",
	HEXADECIMAL:    "HEXADECIMAL",
	OCTAL:          "OCTAL",
	REAL:           "REAL",
	STRING:         "STRING",
	RAWCODE:        "RAWCODE",
	OPENED_PARENS:  "OPENED_PARENS",
	CLOSED_PARENS:  "CLOSED_PARENS",
	OPENED_BRACKET: "OPENED_BRACKET",
	CLOSED_BRACKET: "CLOSED_BRACKET",
	COMMA:          "COMMA",
	ASSIGN:         "ASSIGN",
	EQUAL:          "EQUAL",
	NOT_EQUAL:      "NOT_EQUAL",
	LESS_THAN:      "LESS_THAN",
	GREATER_THAN:   "GREATER_THAN",
	LESS_EQUAL:     "LESS_EQUAL",
	GREATER_EQUAL:  "GREATER_EQUAL",
	PLUS:           "PLUS",
	MINUS:          "MINUS",
	MULTIPLY:       "MULTIPLY",
	DIVIDE:         "DIVIDE",
	TYPE:           "TYPE",
	EXTENDS:        "EXTENDS",
	GLOBALS:        "GLOBALS",
	ENDGLOBALS:     "ENDGLOBALS",
	CONSTANT:       "CONSTANT",
	NATIVE:         "NATIVE",
	TAKES:          "TAKES",
	RETURNS:        "RETURNS",
	NOTHING:        "NOTHING",
	FUNCTION:       "FUNCTION",
	ENDFUNCTION:    "ENDFUNCTION",
	ARRAY:          "ARRAY",
	LOCAL:          "LOCAL",
	SET:            "SET",
	CALL:           "CALL",
	IF:             "IF",
	THEN:           "THEN",
	ELSEIF:         "ELSEIF",
	ELSE:           "ELSE",
	ENDIF:          "ENDIF",
	LOOP:           "LOOP",
	ENDLOOP:        "ENDLOOP",
	EXITWHEN:       "EXITWHEN",
	RETURN:         "RETURN",
	DEBUG:          "DEBUG",
	AND:            "AND",
	OR:             "OR",
	NOT:            "NOT",
	TRUE:           "TRUE",
	FALSE:          "FALSE",
	NULL:           "NULL",
	LINE_COMMENT:   "LINE_COMMENT",
	BLOCK_COMMENT:  "BLOCK_COMMENT",
}

// String returns the string representation of TokenType
func (t TokenType) String() string {
	if name, ok := tokenTypeNames[t]; ok {
		return name
	}
	return "UNKNOWN"
}

// IsKeyword reports whether the token type comes from the keyword table.
func (t TokenType) IsKeyword() bool {
	return t >= TYPE && t <= NULL
}

// IsComment reports whether the token type is a line or block comment.
func (t TokenType) IsComment() bool {
	return t == LINE_COMMENT || t == BLOCK_COMMENT
}

// IsTrivia reports whether the parser may skip the token inside a line.
func (t TokenType) IsTrivia() bool {
	return t == WHITESPACE || t.IsComment()
}

// Position represents a position in the source code
type Position struct {
	Line   int
	Column int
	Offset int
}

// String returns "line:column".
func (p Position) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

// Token represents a token
type Token struct {
	Type     TokenType
	Value    string
	Position Position
}

// String returns the string representation of Token
func (t Token) String() string {
	return t.Type.String() + ": " + t.Value
}

// Span returns the start offset and byte length of the lexeme.
func (t Token) Span() (offset, length int) {
	return t.Position.Offset, len(t.Value)
}

// End returns the offset just past the lexeme.
func (t Token) End() int {
	return t.Position.Offset + len(t.Value)
}

// Err explains why an INVALID token was produced. It returns nil for
// every other token type.
func (t Token) Err() error {
	if t.Type != INVALID {
		return nil
	}

	var cause error
	switch {
	case len(t.Value) == 0:
		cause = ErrUnexpectedCharacter
	case t.Value[0] == '"':
		cause = ErrUnterminatedString
	case t.Value[0] == '\'':
		cause = ErrUnterminatedRawCode
	case len(t.Value) > 1 && t.Value[:2] == "/*":
		cause = ErrUnterminatedComment
	case isDigit(t.Value[0]) || t.Value[0] == '$' || t.Value[0] == '.':
		cause = ErrInvalidNumber
	default:
		cause = ErrUnexpectedCharacter
	}

	value := t.Value
	if len(value) > 20 {
		value = value[:20] + "..."
	}
	return fmt.Errorf("%w: %q at %s", cause, value, t.Position)
}
