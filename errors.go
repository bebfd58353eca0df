package jasskit

import "errors"

// Common errors used by the build layer and the command line tool
var (
	// ErrConfigValidation is returned when configuration validation fails
	ErrConfigValidation = errors.New("configuration validation failed")
	// ErrNoInputFiles indicates that a command found nothing to process.
	ErrNoInputFiles = errors.New("no input files")
	// ErrUnsupportedFileType is returned for files that are neither scripts nor Markdown.
	ErrUnsupportedFileType = errors.New("unsupported file type")
	// ErrSyntax indicates that a script has syntax errors.
	ErrSyntax = errors.New("script has syntax errors")
	// ErrNotFormatted is returned by format --check when a file would change.
	ErrNotFormatted = errors.New("file is not formatted")
)
