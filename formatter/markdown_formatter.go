package formatter

import (
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/text"
)

// MarkdownLanguages are the fence info strings whose blocks get formatted.
var MarkdownLanguages = []string{"jass", "vjass", "j"}

// MarkdownFormatter formats script code blocks within Markdown files
type MarkdownFormatter struct {
	opts Options
	md   goldmark.Markdown
}

// NewMarkdownFormatter creates a new Markdown formatter
func NewMarkdownFormatter(opts Options) *MarkdownFormatter {
	return &MarkdownFormatter{
		opts: opts,
		md:   goldmark.New(goldmark.WithExtensions(extension.GFM)),
	}
}

// Format reformats every top-level fenced block tagged with one of
// MarkdownLanguages. Everything outside those blocks, and blocks that do
// not parse cleanly, are returned byte for byte.
func (f *MarkdownFormatter) Format(markdown []byte) ([]byte, error) {
	doc := f.md.Parser().Parse(text.NewReader(markdown))

	type replacement struct {
		start, stop int
		text        string
	}
	var replacements []replacement

	err := ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		block, ok := n.(*ast.FencedCodeBlock)
		if !ok {
			return ast.WalkContinue, nil
		}
		if block.Parent() != doc || block.Lines().Len() == 0 {
			return ast.WalkSkipChildren, nil
		}
		language := strings.ToLower(string(block.Language(markdown)))
		if !slices.Contains(MarkdownLanguages, language) {
			return ast.WalkSkipChildren, nil
		}

		lines := block.Lines()
		start, stop := lines.At(0).Start, lines.At(lines.Len()-1).Stop
		formatted, err := Format(string(markdown[start:stop]), f.opts)
		if err == nil {
			replacements = append(replacements, replacement{start: start, stop: stop, text: formatted})
		}
		return ast.WalkSkipChildren, nil
	})
	if err != nil {
		return nil, fmt.Errorf("error reading markdown: %w", err)
	}

	var result []byte
	last := 0
	for _, r := range replacements {
		result = append(result, markdown[last:r.start]...)
		result = append(result, r.text...)
		last = r.stop
	}
	return append(result, markdown[last:]...), nil
}

// FormatFromReader formats code blocks from a reader and writes to a writer
func (f *MarkdownFormatter) FormatFromReader(reader io.Reader, writer io.Writer) error {
	input, err := io.ReadAll(reader)
	if err != nil {
		return fmt.Errorf("failed to read input: %w", err)
	}

	formatted, err := f.Format(input)
	if err != nil {
		return fmt.Errorf("failed to format markdown: %w", err)
	}

	_, err = writer.Write(formatted)
	return err
}
