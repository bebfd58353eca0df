package main

import "errors"

// Sentinel errors for command operations
var (
	ErrFormattingErrors = errors.New("some files had formatting errors")
	ErrCheckFailed      = errors.New("check found errors")
	ErrUnknownFormat    = errors.New("unknown report format")
)
