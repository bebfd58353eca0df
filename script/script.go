// Package script merges script source files into one war3map script.
// It expands "//! import" lines, keeps or drops "//! if" blocks
// according to build defines, checks the entry points, optionally
// obfuscates the result and renders it again.
package script

import "errors"

// Sentinel errors
var (
	ErrInvalidDirective    = errors.New("invalid directive")
	ErrUnbalancedDirective = errors.New("unbalanced conditional directive")
	ErrImportCycle         = errors.New("import cycle")
	ErrInvalidCondition    = errors.New("invalid condition")
	ErrConditionNotBool    = errors.New("condition is not boolean")
	ErrDuplicateEntryPoint = errors.New("duplicate entry point")
)
