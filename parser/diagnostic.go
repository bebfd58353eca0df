package parser

import (
	"errors"
	"fmt"

	"github.com/jasskit/jasskit/tokenizer"
)

// Sentinel errors
var (
	ErrNilTokenStream  = errors.New("nil token stream")
	ErrUnexpectedToken = errors.New("unexpected token")
	ErrInvalidToken    = errors.New("invalid token")
	ErrMissingEnd      = errors.New("missing block terminator")
	ErrInvalidLiteral  = errors.New("invalid literal")
)

// Severity represents diagnostic severity level
type Severity int

const (
	WARNING Severity = iota
	ERROR
	FATAL
)

func (s Severity) String() string {
	switch s {
	case WARNING:
		return "warning"
	case ERROR:
		return "error"
	case FATAL:
		return "fatal"
	default:
		return "unknown"
	}
}

// Diagnostic is a problem found while parsing, anchored to a source span.
type Diagnostic struct {
	Severity Severity
	Message  string
	Position tokenizer.Position
	Length   int
	Err      error
}

func (d Diagnostic) Error() string {
	return fmt.Sprintf("%s: %s: %s", d.Position, d.Severity, d.Message)
}

func (d Diagnostic) Unwrap() error {
	return d.Err
}

// HasErrors reports whether any diagnostic is an error or worse.
func HasErrors(diagnostics []Diagnostic) bool {
	for _, d := range diagnostics {
		if d.Severity >= ERROR {
			return true
		}
	}
	return false
}

func diagnosticAt(token tokenizer.Token, cause error, format string, args ...any) Diagnostic {
	return Diagnostic{
		Severity: ERROR,
		Message:  fmt.Sprintf(format, args...),
		Position: token.Position,
		Length:   len(token.Value),
		Err:      cause,
	}
}

func describe(token tokenizer.Token) string {
	switch token.Type {
	case tokenizer.EOF:
		return "end of file"
	case tokenizer.NEWLINE:
		return "end of line"
	default:
		return fmt.Sprintf("%q", token.Value)
	}
}
