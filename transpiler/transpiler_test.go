package transpiler

import (
	"bytes"
	"errors"
	"fmt"
	"go/ast"
	"go/constant"
	"go/format"
	goparser "go/parser"
	"go/token"
	"go/types"
	"testing"

	"github.com/alecthomas/assert/v2"

	"github.com/jasskit/jasskit/parser"
	"github.com/jasskit/jasskit/syntax"
	"github.com/jasskit/jasskit/testhelper"
)

func parse(t *testing.T, src string) *syntax.CompilationUnit {
	t.Helper()
	unit, diagnostics := parser.ParseString(src)
	assert.Equal(t, 0, len(diagnostics), "%v", diagnostics)
	return unit
}

func transpile(t *testing.T, src string, opts ...Option) *ast.File {
	t.Helper()
	unit := parse(t, src)
	symbols, err := BuildSymbols(unit)
	assert.NoError(t, err)
	file, err := New(symbols, opts...).File(unit)
	assert.NoError(t, err)
	return file
}

func nodeString(t *testing.T, node any) string {
	t.Helper()
	var buf bytes.Buffer
	assert.NoError(t, format.Node(&buf, token.NewFileSet(), node))
	return buf.String()
}

func funcDecl(t *testing.T, file *ast.File, name string) *ast.FuncDecl {
	t.Helper()
	for _, decl := range file.Decls {
		if fn, ok := decl.(*ast.FuncDecl); ok && fn.Name.Name == name {
			return fn
		}
	}
	t.Fatalf("function %s not found", name)
	return nil
}

// runtimeImporter serves a declaration-only copy of the jassgo package.
type runtimeImporter struct{}

func (runtimeImporter) Import(path string) (*types.Package, error) {
	if path != DefaultRuntimeImport {
		return nil, fmt.Errorf("unexpected import %q", path)
	}

	pkg := types.NewPackage(DefaultRuntimeImport, runtimePackage)
	scope := pkg.Scope()
	scope.Insert(types.NewConst(token.NoPos, pkg, "ArraySize", types.Typ[types.UntypedInt], constant.MakeInt64(8192)))

	result := types.NewTuple(types.NewVar(token.NoPos, pkg, "", types.Typ[types.Int32]))
	handleID := types.NewFunc(token.NoPos, pkg, "HandleID", types.NewSignatureType(nil, nil, nil, nil, result, false))
	handle := types.NewTypeName(token.NoPos, pkg, "Handle", nil)
	types.NewNamed(handle, types.NewInterfaceType([]*types.Func{handleID}, nil).Complete(), nil)
	scope.Insert(handle)
	scope.Insert(types.NewTypeName(token.NoPos, pkg, "Code", types.NewInterfaceType(nil, nil).Complete()))

	pkg.MarkComplete()
	return pkg, nil
}

// typeCheck formats files as one package and runs the Go type checker
// over it, so generated code that gofmt accepts but the compiler would
// reject fails the test.
func typeCheck(t *testing.T, files ...*ast.File) {
	t.Helper()
	fset := token.NewFileSet()
	var parsed []*ast.File
	var sources [][]byte
	for i, file := range files {
		source, err := Format(file)
		assert.NoError(t, err)
		sources = append(sources, source)
		f, err := goparser.ParseFile(fset, fmt.Sprintf("generated%d.go", i), source, 0)
		assert.NoError(t, err)
		parsed = append(parsed, f)
	}

	conf := types.Config{Importer: runtimeImporter{}}
	_, err := conf.Check("example.com/generated", fset, parsed, nil)
	assert.NoError(t, err, "%s", bytes.Join(sources, []byte("\n")))
}

func recoverError(fn func()) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err, _ = r.(error)
		}
	}()
	fn()
	return nil
}

func TestTranspileIfWithArrayCondition(t *testing.T) {
	file := transpile(t, testhelper.TrimIndent(t, `
		globals
			integer array a
		endglobals
		function check takes nothing returns boolean
			if (a[0] == 1) then
				return true
			endif
			return false
		endfunction
	`))

	fn := funcDecl(t, file, "check")
	ifStmt, ok := fn.Body.List[0].(*ast.IfStmt)
	assert.True(t, ok)

	cond := ifStmt.Cond.(*ast.ParenExpr).X.(*ast.BinaryExpr)
	assert.Equal(t, token.EQL, cond.Op)
	index := cond.X.(*ast.IndexExpr)
	assert.Equal(t, "a", index.X.(*ast.Ident).Name)
	assert.Equal(t, "0", index.Index.(*ast.BasicLit).Value)
	assert.Equal(t, "1", cond.Y.(*ast.BasicLit).Value)

	assert.Equal(t, 1, len(ifStmt.Body.List))
	ret := ifStmt.Body.List[0].(*ast.ReturnStmt)
	assert.Equal(t, "true", ret.Results[0].(*ast.Ident).Name)
	assert.Zero(t, ifStmt.Else)
}

func TestArrayReferenceAccess(t *testing.T) {
	expr, diagnostics := parser.ParseExpression("a[i + 1]")
	assert.Equal(t, 0, len(diagnostics))
	ref := expr.(*syntax.ArrayReference)

	tr := New(nil)
	read, readAccess := tr.ArrayReference(ref)
	write, writeAccess := tr.AssignmentTarget(ref)

	assert.Equal(t, ReadAccess, readAccess)
	assert.Equal(t, WriteTarget, writeAccess)
	assert.Equal(t, read, write)
	assert.Equal(t, "a[i+1]", nodeString(t, read))
	assert.Equal(t, "read", readAccess.String())
	assert.Equal(t, "write", writeAccess.String())
}

func TestArrayElementAsArgumentIsRead(t *testing.T) {
	file := transpile(t, testhelper.TrimIndent(t, `
		globals
			integer array a
		endglobals
		function f takes integer x returns nothing
		endfunction
		function g takes nothing returns nothing
			set a[1] = 2
			call f(a[1])
		endfunction
	`))

	body := funcDecl(t, file, "g").Body.List
	assign := body[0].(*ast.AssignStmt)
	call := body[1].(*ast.ExprStmt).X.(*ast.CallExpr)
	assert.Equal(t, assign.Lhs[0], call.Args[0])
}

func TestNilInputPanics(t *testing.T) {
	tr := New(nil)
	for name, fn := range map[string]func(){
		"expression":      func() { tr.Expression(nil) },
		"typed nil":       func() { tr.Expression((*syntax.Identifier)(nil)) },
		"array reference": func() { tr.ArrayReference(nil) },
		"write target":    func() { tr.AssignmentTarget(nil) },
		"file":            func() { _, _ = tr.File(nil) },
		"symbols":         func() { _, _ = BuildSymbols(nil) },
	} {
		t.Run(name, func(t *testing.T) {
			err := recoverError(fn)
			assert.IsError(t, err, syntax.ErrNilNode)
		})
	}
}

func TestGlobalConversions(t *testing.T) {
	file := transpile(t, testhelper.TrimIndent(t, `
		type unit extends handle
		globals
			integer I = 0
			real R = 0
			string S = null
			unit U = null
			integer H = $FF
			integer X = 0x1F
			integer W = 0xFFFFFFFF
			integer O = 017
			integer C = 'hfoo'
			real F = I
			real G = 2
			real N = -I
			boolean B = not (I == 1 or R < 2)
			boolean E = S == null
			string T = "line\n\"quoted\""
			code K = function main
		endglobals
		function main takes nothing returns nothing
		endfunction
	`))

	values := map[string]string{}
	for _, decl := range file.Decls {
		gen, ok := decl.(*ast.GenDecl)
		if !ok || gen.Tok != token.VAR {
			continue
		}
		for _, spec := range gen.Specs {
			value := spec.(*ast.ValueSpec)
			if len(value.Values) > 0 {
				values[value.Names[0].Name] = nodeString(t, value.Values[0])
			}
		}
	}
	var deferred []string
	for _, stmt := range funcDecl(t, file, GlobalsInitializer).Body.List {
		assign := stmt.(*ast.AssignStmt)
		name := assign.Lhs[0].(*ast.Ident).Name
		deferred = append(deferred, name)
		values[name] = nodeString(t, assign.Rhs[0])
	}
	assert.Equal(t, []string{"F", "N", "B", "E", "K"}, deferred)

	assert.Equal(t, map[string]string{
		"I": "0",
		"R": "0",
		"S": `""`,
		"U": "nil",
		"H": "0xFF",
		"X": "0x1F",
		"W": "-1",
		"O": "017",
		"C": "1751543663",
		"F": "float32(I)",
		"G": "2",
		"N": "float32(-I)",
		"B": "!(I == 1 || R < 2)",
		"E": `S == ""`,
		"T": `"line\n\"quoted\""`,
		"K": "main",
	}, values)
	typeCheck(t, file)
}

func TestTypeMapping(t *testing.T) {
	file := transpile(t, testhelper.TrimIndent(t, `
		type widget extends handle
		type unit extends widget
		native Sample takes integer i, real r, boolean b, string s, handle h, code c, unit u returns real
	`))

	assert.Equal(t, "type widget interface {\n\tjassgo.Handle\n}", nodeString(t, file.Decls[1]))
	assert.Equal(t, "type unit interface {\n\twidget\n}", nodeString(t, file.Decls[2]))
	assert.Equal(t,
		"var Sample func(i int32, r float32, b bool, s string, h jassgo.Handle, c jassgo.Code, u unit) float32",
		nodeString(t, file.Decls[3]))
}

func TestRuntimeImport(t *testing.T) {
	file := transpile(t, "function f takes nothing returns nothing\nendfunction\n")
	assert.Equal(t, 0, len(file.Imports))

	file = transpile(t, "globals\nhandle array H\nendglobals\n")
	assert.Equal(t, 1, len(file.Imports))
	assert.Equal(t, `"github.com/jasskit/jasskit/runtime/jassgo"`, file.Imports[0].Path.Value)
	assert.Zero(t, file.Imports[0].Name)

	file = transpile(t, "globals\nhandle H\nendglobals\n", WithRuntimeImport("example.com/engine/v2"))
	assert.Equal(t, "jassgo", file.Imports[0].Name.Name)
}

func TestFunctionBodies(t *testing.T) {
	file := transpile(t, testhelper.TrimIndent(t, `
		function locals takes nothing returns integer
			local integer unused
			local integer written
			local integer used = 1
			set written = used
			return used
		endfunction
		function missing takes nothing returns string
			call locals()
		endfunction
		function handles takes nothing returns handle
		endfunction
	`))

	body := funcDecl(t, file, "locals").Body.List
	assert.Equal(t, 7, len(body))
	assert.Equal(t, "var unused int32", nodeString(t, body[0]))
	assert.Equal(t, "_ = unused", nodeString(t, body[1]))
	assert.Equal(t, "var written int32", nodeString(t, body[2]))
	assert.Equal(t, "_ = written", nodeString(t, body[3]))
	assert.Equal(t, "var used int32 = 1", nodeString(t, body[4]))

	missing := funcDecl(t, file, "missing").Body.List
	assert.Equal(t, `return ""`, nodeString(t, missing[len(missing)-1]))

	handles := funcDecl(t, file, "handles").Body.List
	assert.Equal(t, "return nil", nodeString(t, handles[0]))
	typeCheck(t, file)
}

func TestNamesAreEscaped(t *testing.T) {
	unit := parse(t, testhelper.TrimIndent(t, `
		globals
			integer len = 0
			integer jassgo = 0
		endglobals
		function go takes integer range returns integer
			local integer select = range + len
			return select
		endfunction
	`))
	symbols, err := BuildSymbols(unit)
	assert.NoError(t, err)
	tr := New(symbols)
	assert.Equal(t, "jassgo_", tr.GoName("jassgo"))

	file, err := tr.File(unit)
	assert.NoError(t, err)
	fn := funcDecl(t, file, "go_")
	assert.Equal(t, "range_", fn.Type.Params.List[0].Names[0].Name)
	assert.Equal(t, "var select_ int32 = range_ + len_", nodeString(t, fn.Body.List[0]))
	typeCheck(t, file)
}

func TestExportedNames(t *testing.T) {
	unit := parse(t, testhelper.TrimIndent(t, `
		globals
			integer udg_hero = 0
			integer UdgHero = 0
		endglobals
		function main takes nothing returns nothing
			set udg_hero = UdgHero
		endfunction
		function BJDebugMsg takes string msg returns nothing
		endfunction
	`))
	symbols, err := BuildSymbols(unit)
	assert.NoError(t, err)

	tr := New(symbols, WithExportedNames(true))
	assert.Equal(t, "UdgHero", tr.GoName("udg_hero"))
	assert.Equal(t, "UdgHero2", tr.GoName("UdgHero"))
	assert.Equal(t, "Main", tr.GoName("main"))
	assert.Equal(t, "BJDebugMsg", tr.GoName("BJDebugMsg"))

	file, err := tr.File(unit)
	assert.NoError(t, err)
	assert.Equal(t, "UdgHero = UdgHero2", nodeString(t, funcDecl(t, file, "Main").Body.List[0]))
	typeCheck(t, file)
}

func TestDebugStatements(t *testing.T) {
	src := "function f takes nothing returns nothing\ndebug call g()\nendfunction\n"

	dropped := transpile(t, src)
	assert.Equal(t, 0, len(funcDecl(t, dropped, "f").Body.List))

	kept := transpile(t, src, WithDebugStatements(true))
	assert.Equal(t, "g()", nodeString(t, funcDecl(t, kept, "f").Body.List[0]))
}

func TestDebugOnlyReads(t *testing.T) {
	src := testhelper.TrimIndent(t, `
		function g takes integer v returns nothing
		endfunction
		function f takes nothing returns nothing
			local integer x = 1
			debug call g(x)
		endfunction
	`)

	dropped := transpile(t, src)
	body := funcDecl(t, dropped, "f").Body.List
	assert.Equal(t, 2, len(body))
	assert.Equal(t, "_ = x", nodeString(t, body[1]))
	typeCheck(t, dropped)

	kept := transpile(t, src, WithDebugStatements(true))
	body = funcDecl(t, kept, "f").Body.List
	assert.Equal(t, 2, len(body))
	assert.Equal(t, "g(x)", nodeString(t, body[1]))
	typeCheck(t, kept)
}

func TestExitOutsideLoop(t *testing.T) {
	unit := parse(t, "function f takes nothing returns nothing\nexitwhen true\nendfunction\n")
	symbols, err := BuildSymbols(unit)
	assert.NoError(t, err)

	_, err = New(symbols).File(unit)
	assert.IsError(t, err, ErrExitOutsideLoop)
}

func TestBuildSymbolsDuplicate(t *testing.T) {
	first := parse(t, "native KillUnit takes nothing returns nothing\n")
	second := parse(t, "function KillUnit takes nothing returns nothing\nendfunction\n")

	_, err := BuildSymbols(first, second)
	assert.IsError(t, err, ErrDuplicateSymbol)

	symbols, err := BuildSymbols(first)
	assert.NoError(t, err)
	symbol, ok := symbols.Lookup("KillUnit")
	assert.True(t, ok)
	assert.Equal(t, NativeSymbol, symbol.Kind)
	assert.Equal(t, 1, len(symbols.Symbols()))
}

func TestTranspile(t *testing.T) {
	library := parse(t, testhelper.TrimIndent(t, `
		type unit extends handle
		native GetUnitX takes unit whichUnit returns real
	`))
	script := parse(t, testhelper.TrimIndent(t, `
		globals
			integer array Scores
		endglobals
		function Score takes unit u, integer i returns real
			local real r = i
			set Scores[i] = Scores[i] + 1
			loop
				exitwhen i > 10
				set i = i + 1
			endloop
			if u == null then
				return 0
			elseif i == 2 then
				return GetUnitX(u)
			endif
			return r * 2
		endfunction
	`))

	source, err := Transpile([]*syntax.CompilationUnit{library, script})
	assert.NoError(t, err)
	assert.Equal(t, testhelper.TrimIndent(t, `
		// Code generated by jasskit. DO NOT EDIT.

		package script

		import "github.com/jasskit/jasskit/runtime/jassgo"

		var Scores [jassgo.ArraySize]int32

		func Score(u unit, i int32) float32 {
			var r float32 = float32(i)
			Scores[i] = Scores[i] + 1
			for {
				if i > 10 {
					break
				}
				i = i + 1
			}
			if u == nil {
				return 0
			} else if i == 2 {
				return GetUnitX(u)
			}
			return r * 2
		}
	`), string(source))

	symbols, err := BuildSymbols(library, script)
	assert.NoError(t, err)
	tr := New(symbols)
	libraryFile, err := tr.File(library)
	assert.NoError(t, err)
	scriptFile, err := tr.File(script)
	assert.NoError(t, err)
	typeCheck(t, libraryFile, scriptFile)

	again, err := Transpile([]*syntax.CompilationUnit{library, script})
	assert.NoError(t, err)
	assert.Equal(t, source, again)

	_, err = Transpile(nil)
	assert.True(t, errors.Is(err, ErrNoUnits))
}

func TestIntegerConstantsWrap(t *testing.T) {
	tests := []struct {
		name     string
		expr     string
		expected string
	}{
		{testhelper.Case(t, "overflowing sum"), "2147483647 + 1", "-2147483648"},
		{testhelper.Case(t, "overflowing product"), "65536 * 65536", "0"},
		{testhelper.Case(t, "negated minimum"), "-(-2147483648)", "-2147483648"},
		{testhelper.Case(t, "truncating division"), "7 / -2", "-3"},
		{testhelper.Case(t, "parenthesized"), "(1 + 2) * 3", "9"},
		{testhelper.Case(t, "raw code"), "'A' + 1", "66"},
		{testhelper.Case(t, "variable operand"), "x + 1", "x + 1"},
		{testhelper.Case(t, "folded parentheses"), "x * (2 + 3)", "x * 5"},
		{testhelper.Case(t, "real operand"), "1.5 + 2", "1.5 + 2"},
		{testhelper.Case(t, "comparison"), "2147483647 + 1 < 0", "-2147483648 < 0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			expr, diagnostics := parser.ParseExpression(tt.expr)
			assert.Equal(t, 0, len(diagnostics))
			assert.Equal(t, tt.expected, nodeString(t, New(nil).Expression(expr)))
		})
	}

	file := transpile(t, testhelper.TrimIndent(t, `
		globals
			integer limit = 2147483647 + 1
		endglobals
		function f takes nothing returns integer
			return 2147483647 + 1
		endfunction
		function g takes integer x returns integer
			return x * 65536 * 65536
		endfunction
	`))
	assert.Equal(t, "return -2147483648", nodeString(t, funcDecl(t, file, "f").Body.List[0]))
	typeCheck(t, file)
}

func TestDivisionByZero(t *testing.T) {
	for _, src := range []string{
		"function f takes integer x returns integer\nreturn x / 0\nendfunction\n",
		"function f takes nothing returns integer\nreturn 1 / (2 - 2)\nendfunction\n",
		"globals\ninteger z = 1 / 0\nendglobals\n",
	} {
		unit := parse(t, src)
		symbols, err := BuildSymbols(unit)
		assert.NoError(t, err)
		_, err = New(symbols).File(unit)
		assert.IsError(t, err, ErrDivisionByZero)
	}
}

func TestGlobalsInitializer(t *testing.T) {
	unit := parse(t, testhelper.TrimIndent(t, `
		type hashtable extends handle
		native GetInt takes nothing returns integer
		native InitHashtable takes nothing returns hashtable
		globals
			integer x = GetInt()
			integer y = x + 1
			integer limit = 10
			hashtable ht = InitHashtable()
		endglobals
		function InitializeGlobals takes nothing returns nothing
			set limit = 20
		endfunction
		function main takes nothing returns nothing
			call InitializeGlobals()
		endfunction
	`))
	symbols, err := BuildSymbols(unit)
	assert.NoError(t, err)
	tr := New(symbols)
	assert.Equal(t, "InitializeGlobals2", tr.GoName("InitializeGlobals"))

	file, err := tr.File(unit)
	assert.NoError(t, err)

	var globals *ast.GenDecl
	initAt := -1
	for i, decl := range file.Decls {
		switch d := decl.(type) {
		case *ast.GenDecl:
			if d.Tok == token.VAR && len(d.Specs) > 1 {
				globals = d
			}
		case *ast.FuncDecl:
			if d.Name.Name == GlobalsInitializer {
				initAt = i
			}
		}
	}
	assert.NotZero(t, globals)
	assert.Equal(t, globals, file.Decls[initAt-1].(*ast.GenDecl))
	for _, spec := range globals.Specs {
		value := spec.(*ast.ValueSpec)
		if value.Names[0].Name == "limit" {
			assert.Equal(t, "10", nodeString(t, value.Values[0]))
		} else {
			assert.Equal(t, 0, len(value.Values))
		}
	}

	var assignments []string
	for _, stmt := range funcDecl(t, file, GlobalsInitializer).Body.List {
		assignments = append(assignments, nodeString(t, stmt))
	}
	assert.Equal(t, []string{"x = GetInt()", "y = x + 1", "ht = InitHashtable()"}, assignments)
	assert.Equal(t, "InitializeGlobals2()", nodeString(t, funcDecl(t, file, "main").Body.List[0]))
	typeCheck(t, file)

	constantOnly := transpile(t, "globals\ninteger a = 1\nendglobals\n")
	for _, decl := range constantOnly.Decls {
		fn, ok := decl.(*ast.FuncDecl)
		assert.False(t, ok && fn.Name.Name == GlobalsInitializer)
	}
}
