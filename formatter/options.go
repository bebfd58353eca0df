package formatter

import (
	"fmt"
	"strings"
)

// IndentStyle selects tabs or spaces for block indentation.
type IndentStyle int

const (
	IndentTabs IndentStyle = iota
	IndentSpaces
)

// LineEnding selects the line terminator written after every line.
type LineEnding int

const (
	LF LineEnding = iota
	CRLF
)

func (l LineEnding) String() string {
	if l == CRLF {
		return "\r\n"
	}
	return "\n"
}

// Options control surface formatting only; they never change what a
// rendered script means, except NullGuards which adds explicit null
// initializers.
type Options struct {
	Indent     IndentStyle
	IndentSize int // spaces per level when Indent is IndentSpaces
	LineEnding LineEnding
	// PreserveComments keeps comment nodes in the output.
	PreserveComments bool
	// NullGuards initializes handle, code and string variables that are
	// declared without an initializer to null, so reading them before the
	// first assignment cannot crash the script thread.
	NullGuards bool
}

// DefaultOptions returns tab indentation, LF line endings and preserved comments.
func DefaultOptions() Options {
	return Options{
		Indent:           IndentTabs,
		IndentSize:       4,
		LineEnding:       LF,
		PreserveComments: true,
	}
}

// ParseIndentStyle converts "tabs" or "spaces".
func ParseIndentStyle(s string) (IndentStyle, error) {
	switch strings.ToLower(s) {
	case "", "tab", "tabs":
		return IndentTabs, nil
	case "space", "spaces":
		return IndentSpaces, nil
	}
	return 0, fmt.Errorf("%w: indent style %q", ErrInvalidOption, s)
}

// ParseLineEnding converts "lf" or "crlf".
func ParseLineEnding(s string) (LineEnding, error) {
	switch strings.ToLower(s) {
	case "", "lf":
		return LF, nil
	case "crlf":
		return CRLF, nil
	}
	return 0, fmt.Errorf("%w: line ending %q", ErrInvalidOption, s)
}

func (o Options) indentUnit() string {
	if o.Indent == IndentSpaces {
		size := o.IndentSize
		if size <= 0 {
			size = 4
		}
		return strings.Repeat(" ", size)
	}
	return "\t"
}
