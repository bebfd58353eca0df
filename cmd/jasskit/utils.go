package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/jasskit/jasskit"
	"github.com/jasskit/jasskit/parser"
	"github.com/jasskit/jasskit/syntax"
)

// isScriptFile checks if a file is a JASS script
func isScriptFile(filename string) bool {
	return strings.ToLower(filepath.Ext(filename)) == ".j"
}

// isMarkdownFile checks if a file is a Markdown file
func isMarkdownFile(filename string) bool {
	return strings.ToLower(filepath.Ext(filename)) == ".md"
}

// readInput reads path, or stdin when path is empty or "-".
func (c *Context) readInput(path string) (string, error) {
	if path == "" || path == "-" {
		data, err := io.ReadAll(c.stdin)
		if err != nil {
			return "", fmt.Errorf("failed to read input: %w", err)
		}
		return string(data), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", path, err)
	}

	return string(data), nil
}

// writeOutput writes data to path, or stdout when path is empty.
func (c *Context) writeOutput(path string, data []byte) error {
	if path == "" {
		_, err := c.stdout.Write(data)
		return err
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}

	return nil
}

// parseScript parses src and fails on the first error diagnostic.
func parseScript(name, src string) (*syntax.CompilationUnit, error) {
	unit, diagnostics := parser.ParseString(src)
	for _, d := range diagnostics {
		if d.Severity >= parser.ERROR {
			return nil, fmt.Errorf("%w: %s:%w", jasskit.ErrSyntax, name, d)
		}
	}

	return unit, nil
}
