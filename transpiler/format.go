package transpiler

import (
	"bytes"
	"fmt"
	"go/ast"
	"go/format"
	"go/token"

	"github.com/jasskit/jasskit/syntax"
)

const generatedHeader = "// Code generated by jasskit. DO NOT EDIT.\n"

// Format prints file as gofmt-formatted Go source with one blank line
// between top-level declarations.
func Format(file *ast.File) ([]byte, error) {
	if file == nil {
		panic(fmt.Errorf("%w: file", syntax.ErrNilNode))
	}

	var buf bytes.Buffer
	fset := token.NewFileSet()

	buf.WriteString(generatedHeader)
	fmt.Fprintf(&buf, "\npackage %s\n", file.Name.Name)
	for _, decl := range file.Decls {
		buf.WriteString("\n")
		if err := format.Node(&buf, fset, decl); err != nil {
			return nil, fmt.Errorf("failed to print declaration: %w", err)
		}
		buf.WriteString("\n")
	}

	source, err := format.Source(buf.Bytes())
	if err != nil {
		return nil, fmt.Errorf("failed to format generated code: %w", err)
	}
	return source, nil
}
