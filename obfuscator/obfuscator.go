// Package obfuscator renames user-defined identifiers of a JASS
// compilation unit to short generated names.
package obfuscator

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/jasskit/jasskit/syntax"
	"github.com/jasskit/jasskit/tokenizer"
)

// Sentinel errors
var (
	ErrRenameCollision  = errors.New("rename collision")
	ErrInvalidRenameMap = errors.New("invalid rename map")
)

// CollisionError reports two symbols that ended up with one name.
type CollisionError struct {
	Replacement string
	First       Symbol
	Second      Symbol
}

func (e *CollisionError) Error() string {
	return fmt.Sprintf("%s: %s and %s both renamed to %q", ErrRenameCollision, e.First, e.Second, e.Replacement)
}

func (e *CollisionError) Unwrap() error {
	return ErrRenameCollision
}

// entryPoints are looked up by name by the game engine.
var entryPoints = []string{"main", "config"}

// DefaultDynamicCallers are the natives that call a function given by
// name as their first argument.
var DefaultDynamicCallers = []string{"ExecuteFunc"}

// Option configures a Context.
type Option func(*Context)

// WithReserved adds names that are never renamed nor generated.
func WithReserved(names ...string) Option {
	return func(c *Context) {
		for _, name := range names {
			c.reserved[name] = true
		}
	}
}

// WithSharedMap reuses the unit-level replacements of m. The map is only
// read, so one map can serve several contexts at once.
func WithSharedMap(m *RenameMap) Option {
	return func(c *Context) {
		c.shared = m
	}
}

// WithDynamicCallers replaces the natives whose string literal argument
// names a function. Functions named this way keep their name.
func WithDynamicCallers(names ...string) Option {
	return func(c *Context) {
		c.dynamicCallers = map[string]bool{}
		for _, name := range names {
			c.dynamicCallers[name] = true
		}
	}
}

// WithPrefix prepends prefix to every generated name.
func WithPrefix(prefix string) Option {
	return func(c *Context) {
		c.generator = NewNameGenerator(prefix)
	}
}

// WithMinifyLiterals shortens real literals.
func WithMinifyLiterals(enabled bool) Option {
	return func(c *Context) {
		c.minifyLiterals = enabled
	}
}

// Context carries the name counter between Obfuscate calls, so units
// obfuscated with one Context never share a generated name. A Context
// must not be used from several goroutines; use one Context per
// goroutine instead.
type Context struct {
	generator      *NameGenerator
	reserved       map[string]bool
	shared         *RenameMap
	dynamicCallers map[string]bool
	minifyLiterals bool
}

// NewContext returns a Context configured by opts.
func NewContext(opts ...Option) *Context {
	c := &Context{
		generator:      NewNameGenerator(""),
		reserved:       map[string]bool{},
		dynamicCallers: map[string]bool{},
	}
	for _, name := range entryPoints {
		c.reserved[name] = true
	}
	for _, name := range DefaultDynamicCallers {
		c.dynamicCallers[name] = true
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Obfuscate renames unit with a fresh Context.
func Obfuscate(unit *syntax.CompilationUnit, opts ...Option) (*syntax.CompilationUnit, *RenameMap, error) {
	return NewContext(opts...).Obfuscate(unit)
}

// Obfuscate returns a renamed copy of unit and the names it assigned.
// unit is not modified. Comments are dropped from the copy.
// It panics when unit is nil.
func (c *Context) Obfuscate(unit *syntax.CompilationUnit) (*syntax.CompilationUnit, *RenameMap, error) {
	if unit == nil {
		panic(fmt.Errorf("%w: compilation unit", syntax.ErrNilNode))
	}

	reserved := c.pinnedNames(unit)
	symbols := collectSymbols(unit, reserved, c.shared)
	taken := c.takenNames(symbols, reserved)
	names := NewRenameMap()

	for _, symbol := range symbols.order {
		if symbol.Scope == "" {
			if replacement, ok := c.shared.Lookup("", symbol.Name); ok {
				names.add(symbol, replacement)
				continue
			}
		}
		names.add(symbol, c.generator.Next(func(name string) bool {
			return taken[name]
		}))
	}

	if err := names.Validate(); err != nil {
		return nil, nil, err
	}
	for _, entry := range names.entries {
		if owner, ok := symbols.survivors[entry.Replacement]; ok {
			return nil, nil, &CollisionError{Replacement: entry.Replacement, First: owner, Second: entry.Symbol}
		}
	}

	r := &rewriter{names: names, shared: c.shared, reserved: reserved, minify: c.minifyLiterals}
	return r.unit(unit), names, nil
}

// pinnedNames returns the reserved names plus every function name passed
// as a string literal to a dynamic caller in unit.
func (c *Context) pinnedNames(unit *syntax.CompilationUnit) map[string]bool {
	reserved := make(map[string]bool, len(c.reserved))
	for name := range c.reserved {
		reserved[name] = true
	}
	syntax.Inspect(unit, func(node syntax.Node) bool {
		inv, ok := node.(*syntax.Invocation)
		if !ok || !c.dynamicCallers[inv.Name.Name] || len(inv.Arguments) == 0 {
			return true
		}
		if lit, ok := inv.Arguments[0].(*syntax.Literal); ok && lit.Type == syntax.StringLiteral {
			reserved[lit.Value] = true
		}
		return true
	})
	return reserved
}

// takenNames lists names the generator must not produce.
func (c *Context) takenNames(symbols *symbolTable, reserved map[string]bool) map[string]bool {
	taken := map[string]bool{}
	for _, keyword := range tokenizer.Keywords() {
		taken[keyword] = true
	}
	for _, primitive := range tokenizer.PrimitiveTypes {
		taken[primitive] = true
	}
	for name := range reserved {
		taken[name] = true
	}
	for name := range symbols.survivors {
		taken[name] = true
	}
	for replacement := range c.shared.Replacements() {
		taken[replacement] = true
	}
	return taken
}

// symbolTable holds the renamable declarations of one unit.
type symbolTable struct {
	declared map[Symbol]bool
	order    []Symbol
	// survivors are identifiers that keep their name in the output,
	// keyed by name.
	survivors map[string]Symbol
}

func (s *symbolTable) declare(symbol Symbol, reserved map[string]bool) {
	if reserved[symbol.Name] || s.declared[symbol] {
		return
	}
	s.declared[symbol] = true
	s.order = append(s.order, symbol)
}

// resolve maps a name used in scope to its declaring symbol.
func (s *symbolTable) resolve(scope, name string) (Symbol, bool) {
	if scope != "" {
		local := Symbol{Scope: scope, Name: name}
		if s.declared[local] {
			return local, true
		}
	}
	global := Symbol{Name: name}
	return global, s.declared[global]
}

func collectSymbols(unit *syntax.CompilationUnit, reserved map[string]bool, shared *RenameMap) *symbolTable {
	s := &symbolTable{declared: map[Symbol]bool{}, survivors: map[string]Symbol{}}

	// Unit-level names first, so a function can call a function declared
	// below it.
	for _, decl := range unit.Declarations {
		switch d := decl.(type) {
		case *syntax.TypeDeclaration:
			s.declare(Symbol{Name: d.Name.Name}, reserved)
		case *syntax.Globals:
			for _, member := range d.Members {
				if g, ok := member.(*syntax.Global); ok {
					s.declare(Symbol{Name: g.Variable.Name.Name}, reserved)
				}
			}
		case *syntax.Function:
			s.declare(Symbol{Name: d.Signature.Name.Name}, reserved)
		}
	}

	for _, fn := range unit.Functions() {
		scope := fn.Signature.Name.Name
		for _, param := range fn.Signature.Parameters {
			s.declare(Symbol{Scope: scope, Name: param.Name.Name}, reserved)
		}
		for _, stmt := range fn.Body {
			syntax.Inspect(stmt, func(node syntax.Node) bool {
				if local, ok := node.(*syntax.Local); ok {
					s.declare(Symbol{Scope: scope, Name: local.Variable.Name.Name}, reserved)
				}
				return true
			})
		}
	}

	for _, decl := range unit.Declarations {
		scope := ""
		if fn, ok := decl.(*syntax.Function); ok {
			scope = fn.Signature.Name.Name
		}
		syntax.Inspect(decl, func(node syntax.Node) bool {
			if id, ok := node.(*syntax.Identifier); ok {
				if _, renamed := s.resolve(scope, id.Name); renamed {
					return true
				}
				if _, ok := shared.Lookup("", id.Name); ok && !reserved[id.Name] {
					return true
				}
				s.survivors[id.Name] = Symbol{Scope: scope, Name: id.Name}
			}
			return true
		})
	}
	return s
}

// MinifyReal returns the shortest spelling of a real literal lexeme.
func MinifyReal(lexeme string) string {
	normalized := lexeme
	if strings.HasPrefix(normalized, ".") {
		normalized = "0" + normalized
	}
	if strings.HasSuffix(normalized, ".") {
		normalized += "0"
	}
	d, err := decimal.NewFromString(normalized)
	if err != nil {
		return lexeme
	}

	short := d.String()
	switch {
	case !strings.Contains(short, "."):
		short += "."
	case strings.HasPrefix(short, "0."):
		short = short[1:]
	}
	if len(short) >= len(lexeme) {
		return lexeme
	}
	return short
}
