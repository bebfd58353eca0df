package script

import (
	"context"
	"fmt"
	"io/fs"
	"path"
	"slices"
	"strings"

	"github.com/jasskit/jasskit"
	"github.com/jasskit/jasskit/formatter"
	"github.com/jasskit/jasskit/obfuscator"
	"github.com/jasskit/jasskit/parser"
	"github.com/jasskit/jasskit/syntax"
)

// Option configures a Compiler.
type Option func(*Compiler)

// WithSharedMap reuses a rename map from an earlier build.
func WithSharedMap(m *obfuscator.RenameMap) Option {
	return func(c *Compiler) {
		c.shared = m
	}
}

// Compiler builds scripts read from one file system.
type Compiler struct {
	fsys       fs.FS
	config     *jasskit.Config
	conditions *Conditions
	shared     *obfuscator.RenameMap
}

// NewCompiler creates a compiler for the sources in fsys. A nil config
// means jasskit.DefaultConfig().
func NewCompiler(fsys fs.FS, config *jasskit.Config, opts ...Option) (*Compiler, error) {
	if config == nil {
		config = jasskit.DefaultConfig()
	}

	conditions, err := NewConditions(config.Build.Defines)
	if err != nil {
		return nil, err
	}

	c := &Compiler{fsys: fsys, config: config, conditions: conditions}
	for _, opt := range opts {
		opt(c)
	}

	return c, nil
}

// Source is a merged script.
type Source struct {
	Text string
	// Files lists every file that contributed text, entry first.
	Files []string
}

// Result is the outcome of Build. Diagnostics is set even when Build
// fails on syntax errors.
type Result struct {
	Source      string
	Diagnostics []parser.Diagnostic
	RenameMap   *obfuscator.RenameMap
	Manifest    *Manifest
}

// Merge reads entry and expands its directives. Each file is included
// once; importing a file that is still being expanded is an
// ErrImportCycle.
func (c *Compiler) Merge(ctx context.Context, entry string) (*Source, error) {
	m := &merger{ctx: ctx, compiler: c, included: map[string]bool{}}
	if err := m.file(path.Clean(entry), nil); err != nil {
		return nil, err
	}

	return &Source{Text: m.out.String(), Files: m.files}, nil
}

// CompileSimple concatenates files in order, ending each with a line
// break. Directives are left untouched.
func (c *Compiler) CompileSimple(ctx context.Context, files ...string) (string, error) {
	var sb strings.Builder
	for _, name := range files {
		if err := ctx.Err(); err != nil {
			return "", err
		}

		data, err := fs.ReadFile(c.fsys, name)
		if err != nil {
			return "", fmt.Errorf("failed to read %s: %w", name, err)
		}
		sb.Write(data)
		sb.WriteString("\n")
	}

	return sb.String(), nil
}

// Build merges entry, parses it, validates entry points, obfuscates when
// enabled and renders the final script. An empty entry means the
// configured build entry.
func (c *Compiler) Build(ctx context.Context, entry string) (*Result, error) {
	if entry == "" {
		entry = c.config.Build.Entry
	}

	source, err := c.Merge(ctx, entry)
	if err != nil {
		return nil, err
	}

	unit, diagnostics := parser.ParseString(source.Text)
	result := &Result{Diagnostics: diagnostics}
	for _, d := range diagnostics {
		if d.Severity >= parser.ERROR {
			return result, fmt.Errorf("%w: %w", jasskit.ErrSyntax, d)
		}
	}

	if err := ValidateEntryPoints(unit); err != nil {
		return result, err
	}

	if c.config.Obfuscation.Enabled {
		unit, result.RenameMap, err = obfuscator.NewContext(c.config.Obfuscation.Options(c.shared)...).Obfuscate(unit)
		if err != nil {
			return result, err
		}
	}

	opts, err := c.config.Render.Options()
	if err != nil {
		return result, err
	}
	result.Source = formatter.Render(unit, opts)
	result.Manifest = NewManifest(entry, source.Files, result.RenameMap, c.config.Build.Defines)

	return result, nil
}

// ValidateEntryPoints reports a script that declares main or config
// more than once.
func ValidateEntryPoints(unit *syntax.CompilationUnit) error {
	if unit == nil {
		panic(fmt.Errorf("%w: compilation unit", syntax.ErrNilNode))
	}

	counts := map[string]int{}
	for _, fn := range unit.Functions() {
		name := fn.Signature.Name.Name
		if name != "main" && name != "config" {
			continue
		}
		counts[name]++
		if counts[name] == 2 {
			return fmt.Errorf("%w: function %s is declared more than once", ErrDuplicateEntryPoint, name)
		}
	}

	return nil
}

type conditional struct {
	parent   bool
	matched  bool
	elseSeen bool
}

func (c conditional) active() bool {
	return c.parent && c.matched
}

type merger struct {
	ctx      context.Context
	compiler *Compiler
	included map[string]bool
	files    []string
	out      strings.Builder
}

func (m *merger) file(name string, stack []string) error {
	if err := m.ctx.Err(); err != nil {
		return err
	}

	if slices.Contains(stack, name) {
		return fmt.Errorf("%w: %s", ErrImportCycle, strings.Join(append(slices.Clone(stack), name), " -> "))
	}
	if m.included[name] {
		return nil
	}
	m.included[name] = true
	m.files = append(m.files, name)

	data, err := fs.ReadFile(m.compiler.fsys, name)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", name, err)
	}
	stack = append(slices.Clone(stack), name)

	var blocks []conditional
	active := func() bool {
		return len(blocks) == 0 || blocks[len(blocks)-1].active()
	}

	for i, line := range splitLines(string(data)) {
		d, ok, err := ParseDirective(line, i+1)
		if err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
		if !ok {
			if active() {
				m.out.WriteString(line)
			}
			continue
		}

		switch d.Kind {
		case ImportDirective:
			if !active() {
				continue
			}
			target := path.Join(path.Dir(name), d.Argument)
			if !fs.ValidPath(target) {
				return fmt.Errorf("%s: %w at line %d: import outside source directory: %s", name, ErrInvalidDirective, d.Line, d.Argument)
			}
			if err := m.file(target, stack); err != nil {
				return err
			}
			m.ensureNewline()
		case IfDirective:
			block := conditional{parent: active()}
			if block.parent {
				block.matched, err = m.compiler.conditions.Eval(d.Argument)
				if err != nil {
					return fmt.Errorf("%s:%d: %w", name, d.Line, err)
				}
			}
			blocks = append(blocks, block)
		case ElseDirective:
			if len(blocks) == 0 || blocks[len(blocks)-1].elseSeen {
				return fmt.Errorf("%s: %w: unexpected else at line %d", name, ErrUnbalancedDirective, d.Line)
			}
			top := &blocks[len(blocks)-1]
			top.matched = !top.matched
			top.elseSeen = true
		case EndIfDirective:
			if len(blocks) == 0 {
				return fmt.Errorf("%s: %w: unexpected endif at line %d", name, ErrUnbalancedDirective, d.Line)
			}
			blocks = blocks[:len(blocks)-1]
		}
	}

	if len(blocks) > 0 {
		return fmt.Errorf("%s: %w: missing endif", name, ErrUnbalancedDirective)
	}
	m.ensureNewline()

	return nil
}

func (m *merger) ensureNewline() {
	s := m.out.String()
	if s != "" && !strings.HasSuffix(s, "\n") && !strings.HasSuffix(s, "\r") {
		m.out.WriteString("\n")
	}
}

// splitLines splits s after every \n, \r\n or lone \r, keeping the
// terminators.
func splitLines(s string) []string {
	var lines []string
	start := 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '\n':
			lines = append(lines, s[start:i+1])
			start = i + 1
		case '\r':
			if i+1 < len(s) && s[i+1] == '\n' {
				continue
			}
			lines = append(lines, s[start:i+1])
			start = i + 1
		}
	}
	if start < len(s) {
		lines = append(lines, s[start:])
	}
	return lines
}
