// Package syntax defines the immutable syntax tree shared by the parser,
// renderer, obfuscator and transpiler.
//
// The node set is closed: every variant implements one of the sealed
// interfaces below, and the visitor interfaces in visitor.go declare one
// method per variant so that a consumer which forgets a variant fails to
// compile. Nodes hold no parent pointers; Walk supplies ancestors
// transiently during a traversal.
package syntax

import (
	"errors"
	"reflect"
)

// Sentinel errors
var (
	// ErrNilNode is raised (as a panic) when nil is passed where a node is required.
	ErrNilNode = errors.New("nil syntax node")
	// ErrUnknownNode is raised when a node outside the closed variant set is dispatched.
	ErrUnknownNode = errors.New("unknown syntax node")
)

// Node is implemented by every syntax tree node.
type Node interface {
	Kind() Kind
	// Children returns the direct child nodes in source order. Absent
	// optional children are omitted rather than returned as nil.
	Children() []Node
}

// Expression is a node that produces a value.
type Expression interface {
	Node
	expressionNode()
}

// Assignable is an expression that may appear on the left of a set statement.
type Assignable interface {
	Expression
	assignableNode()
}

// Statement is a node that may appear inside a function body.
type Statement interface {
	Node
	statementNode()
}

// Declaration is a top-level node of a compilation unit.
type Declaration interface {
	Node
	declarationNode()
}

// GlobalMember is a node that may appear inside a globals block.
type GlobalMember interface {
	Node
	globalMemberNode()
}

// Kind discriminates node variants
type Kind int

const (
	// Expressions
	LITERAL Kind = iota
	IDENTIFIER
	ARRAY_REFERENCE
	FUNCTION_REFERENCE
	INVOCATION
	UNARY_EXPRESSION
	BINARY_EXPRESSION
	PARENTHESIZED_EXPRESSION

	// Statements
	LOCAL_STATEMENT
	SET_STATEMENT
	CALL_STATEMENT
	IF_STATEMENT
	ELSEIF_CLAUSE
	ELSE_CLAUSE
	LOOP_STATEMENT
	EXIT_STATEMENT
	RETURN_STATEMENT
	DEBUG_STATEMENT
	COMMENT

	// Declarations
	TYPE_DECLARATION
	GLOBALS_BLOCK
	GLOBAL_DECLARATION
	NATIVE_DECLARATION
	FUNCTION_DECLARATION

	// Shared parts
	VARIABLE_DECLARATION
	PARAMETER
	FUNCTION_SIGNATURE
	COMPILATION_UNIT
)

var kindNames = [...]string{
	LITERAL:                  "LITERAL",
	IDENTIFIER:               "IDENTIFIER",
	ARRAY_REFERENCE:          "ARRAY_REFERENCE",
	FUNCTION_REFERENCE:       "FUNCTION_REFERENCE",
	INVOCATION:               "INVOCATION",
	UNARY_EXPRESSION:         "UNARY_EXPRESSION",
	BINARY_EXPRESSION:        "BINARY_EXPRESSION",
	PARENTHESIZED_EXPRESSION: "PARENTHESIZED_EXPRESSION",
	LOCAL_STATEMENT:          "LOCAL_STATEMENT",
	SET_STATEMENT:            "SET_STATEMENT",
	CALL_STATEMENT:           "CALL_STATEMENT",
	IF_STATEMENT:             "IF_STATEMENT",
	ELSEIF_CLAUSE:            "ELSEIF_CLAUSE",
	ELSE_CLAUSE:              "ELSE_CLAUSE",
	LOOP_STATEMENT:           "LOOP_STATEMENT",
	EXIT_STATEMENT:           "EXIT_STATEMENT",
	RETURN_STATEMENT:         "RETURN_STATEMENT",
	DEBUG_STATEMENT:          "DEBUG_STATEMENT",
	COMMENT:                  "COMMENT",
	TYPE_DECLARATION:         "TYPE_DECLARATION",
	GLOBALS_BLOCK:            "GLOBALS_BLOCK",
	GLOBAL_DECLARATION:       "GLOBAL_DECLARATION",
	NATIVE_DECLARATION:       "NATIVE_DECLARATION",
	FUNCTION_DECLARATION:     "FUNCTION_DECLARATION",
	VARIABLE_DECLARATION:     "VARIABLE_DECLARATION",
	PARAMETER:                "PARAMETER",
	FUNCTION_SIGNATURE:       "FUNCTION_SIGNATURE",
	COMPILATION_UNIT:         "COMPILATION_UNIT",
}

// String returns string representation of Kind
func (k Kind) String() string {
	if k >= 0 && int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "UNKNOWN"
}

// IsNil reports whether n is nil or a typed nil pointer.
func IsNil(n Node) bool {
	if n == nil {
		return true
	}
	v := reflect.ValueOf(n)
	return v.Kind() == reflect.Pointer && v.IsNil()
}

// nodes collects the non-nil entries of a child list.
func nodes(children ...Node) []Node {
	result := make([]Node, 0, len(children))
	for _, child := range children {
		if !IsNil(child) {
			result = append(result, child)
		}
	}
	return result
}

func appendAll[T Node](dst []Node, src []T) []Node {
	for _, n := range src {
		if !IsNil(n) {
			dst = append(dst, n)
		}
	}
	return dst
}
