// Package transpiler converts JASS syntax trees into Go syntax trees.
//
// Every declaration maps to one Go declaration and every statement to
// its direct Go counterpart, in source order. Global initializers that
// are not constants are the exception: they run in GlobalsInitializer.
// Unit-level names are resolved through a SymbolTable built beforehand
// by BuildSymbols; the conversion itself never mutates shared state, so
// one Transpiler can serve several goroutines.
package transpiler

import (
	"errors"
	"fmt"
	"go/ast"
	"go/token"
	"path"
	"strconv"

	"github.com/jasskit/jasskit/syntax"
)

// Sentinel errors
var (
	ErrExitOutsideLoop = errors.New("exitwhen outside of a loop")
	ErrDuplicateSymbol = errors.New("duplicate declaration")
	ErrNoUnits         = errors.New("no compilation unit to transpile")
	ErrDivisionByZero  = errors.New("integer division by zero")
)

const (
	// DefaultRuntimeImport is the package generated code builds on.
	DefaultRuntimeImport = "github.com/jasskit/jasskit/runtime/jassgo"
	// DefaultPackageName is the package clause of generated files.
	DefaultPackageName = "script"
	// GlobalsInitializer is the generated function that assigns globals
	// whose initializer is not a constant. The host calls it after
	// binding natives, before any other generated function.
	GlobalsInitializer = "InitializeGlobals"

	runtimePackage = "jassgo"
)

// Option is a function that configures Transpiler
type Option func(*Transpiler)

// WithPackageName sets the package name for generated code
func WithPackageName(name string) Option {
	return func(t *Transpiler) {
		t.packageName = name
	}
}

// WithRuntimeImport sets the import path of the runtime package
func WithRuntimeImport(importPath string) Option {
	return func(t *Transpiler) {
		t.runtimeImport = importPath
	}
}

// WithDebugStatements keeps debug statements instead of dropping them
func WithDebugStatements(enabled bool) Option {
	return func(t *Transpiler) {
		t.debug = enabled
	}
}

// WithExportedNames turns unit-level names into exported Go names
func WithExportedNames(enabled bool) Option {
	return func(t *Transpiler) {
		t.exported = enabled
	}
}

// Transpiler converts compilation units that share one SymbolTable.
type Transpiler struct {
	symbols       *SymbolTable
	names         map[string]string
	packageName   string
	runtimeImport string
	debug         bool
	exported      bool
}

// New creates a new Transpiler
func New(symbols *SymbolTable, opts ...Option) *Transpiler {
	if symbols == nil {
		symbols = &SymbolTable{symbols: map[string]*Symbol{}}
	}
	t := &Transpiler{
		symbols:       symbols,
		packageName:   DefaultPackageName,
		runtimeImport: DefaultRuntimeImport,
	}
	for _, opt := range opts {
		opt(t)
	}
	t.names = symbols.goNames(t.exported)
	return t
}

// GoName returns the Go identifier chosen for a unit-level JASS name.
func (t *Transpiler) GoName(name string) string {
	if mapped, ok := t.names[name]; ok {
		return mapped
	}
	return goName(name)
}

// File converts unit into a Go file. The runtime package is imported
// only when the generated code refers to it.
func (t *Transpiler) File(unit *syntax.CompilationUnit) (*ast.File, error) {
	if unit == nil {
		panic(fmt.Errorf("%w: compilation unit", syntax.ErrNilNode))
	}

	b := &builder{Transpiler: t}
	var decls []ast.Decl
	initAt := 0
	for _, decl := range unit.Declarations {
		result := syntax.VisitDeclaration[declResult](decl, declarationTranspiler{b})
		if result.err != nil {
			return nil, result.err
		}
		decls = append(decls, result.decls...)
		if _, ok := decl.(*syntax.Globals); ok {
			initAt = len(decls)
		}
	}
	if len(b.globalInits) > 0 {
		initializer := &ast.FuncDecl{
			Name: ast.NewIdent(GlobalsInitializer),
			Type: &ast.FuncType{Params: &ast.FieldList{}},
			Body: &ast.BlockStmt{List: b.globalInits},
		}
		decls = append(decls[:initAt], append([]ast.Decl{initializer}, decls[initAt:]...)...)
	}

	file := &ast.File{Name: ast.NewIdent(t.packageName)}
	if b.usesRuntime {
		spec := &ast.ImportSpec{Path: &ast.BasicLit{Kind: token.STRING, Value: strconv.Quote(t.runtimeImport)}}
		if path.Base(t.runtimeImport) != runtimePackage {
			spec.Name = ast.NewIdent(runtimePackage)
		}
		file.Imports = []*ast.ImportSpec{spec}
		decls = append([]ast.Decl{&ast.GenDecl{Tok: token.IMPORT, Specs: []ast.Spec{spec}}}, decls...)
	}
	file.Decls = decls
	return file, nil
}

// Expression converts a unit-level expression, such as a global
// initializer. It panics when expr is nil.
func (t *Transpiler) Expression(expr syntax.Expression) ast.Expr {
	if syntax.IsNil(expr) {
		panic(fmt.Errorf("%w: expression", syntax.ErrNilNode))
	}
	b := &builder{Transpiler: t}
	return b.expression(expr, newScope("")).expr
}

// Transpile builds symbols from every unit and returns the formatted
// Go source of the last one. Earlier units are libraries, such as
// common.j, whose declarations the last unit may use.
func Transpile(units []*syntax.CompilationUnit, opts ...Option) ([]byte, error) {
	if len(units) == 0 {
		return nil, ErrNoUnits
	}
	symbols, err := BuildSymbols(units...)
	if err != nil {
		return nil, err
	}
	file, err := New(symbols, opts...).File(units[len(units)-1])
	if err != nil {
		return nil, err
	}
	return Format(file)
}

// builder holds the state of one File or Expression call.
type builder struct {
	*Transpiler
	usesRuntime bool
	// globalInits assigns globals in declaration order.
	globalInits []ast.Stmt
}

// runtime returns a selector on the runtime package.
func (b *builder) runtime(name string) ast.Expr {
	b.usesRuntime = true
	return &ast.SelectorExpr{X: ast.NewIdent(runtimePackage), Sel: ast.NewIdent(name)}
}
