package transpiler

import (
	"fmt"
	"go/ast"
	"go/token"

	"github.com/jasskit/jasskit/syntax"
)

type variable struct {
	goName string
	typ    string
	array  bool
}

// scope is the per-function view built before a body is converted.
type scope struct {
	function   string
	returnType string
	variables  map[string]variable
	// reads lists the locals that some expression reads.
	reads map[string]bool
	loops int
	err   error
}

func newScope(function string) *scope {
	return &scope{function: function, variables: map[string]variable{}, reads: map[string]bool{}}
}

func (s *scope) declare(name, typ string, array bool) {
	s.variables[name] = variable{goName: goName(name), typ: typ, array: array}
}

func (s *scope) fail(err error) {
	if s.err == nil {
		s.err = err
	}
}

// collectReads marks every local read inside body. Reads inside debug
// statements only count when those statements are emitted.
func collectReads(fn *syntax.Function, s *scope, debug bool) {
	syntax.Walk(fn, func(node syntax.Node, ancestors []syntax.Node) bool {
		if _, ok := node.(*syntax.Debug); ok {
			return debug
		}
		id, ok := node.(*syntax.Identifier)
		if !ok || len(ancestors) == 0 {
			return true
		}
		if isRead(id, ancestors) {
			s.reads[id.Name] = true
		}
		return true
	})
}

func isRead(id *syntax.Identifier, ancestors []syntax.Node) bool {
	switch parent := ancestors[len(ancestors)-1].(type) {
	case *syntax.VariableDeclaration:
		return parent.Initializer == syntax.Expression(id)
	case *syntax.Set:
		return parent.Target != syntax.Assignable(id)
	case *syntax.Invocation:
		return parent.Name != id
	case *syntax.ArrayReference:
		if parent.Name != id || len(ancestors) < 2 {
			return true
		}
		set, ok := ancestors[len(ancestors)-2].(*syntax.Set)
		return !ok || set.Target != syntax.Assignable(parent)
	case *syntax.Parameter, *syntax.FunctionSignature, *syntax.FunctionReference, *syntax.TypeDeclaration:
		return false
	}
	return true
}

func (b *builder) block(stmts []syntax.Statement, s *scope) *ast.BlockStmt {
	body := &ast.BlockStmt{}
	for _, stmt := range stmts {
		body.List = append(body.List, b.statement(stmt, s)...)
	}
	return body
}

func (b *builder) statement(stmt syntax.Statement, s *scope) []ast.Stmt {
	if syntax.IsNil(stmt) {
		panic(fmt.Errorf("%w: statement", syntax.ErrNilNode))
	}
	return syntax.VisitStatement[[]ast.Stmt](stmt, statementTranspiler{builder: b, scope: s})
}

type statementTranspiler struct {
	*builder
	scope *scope
}

func (st statementTranspiler) expression(expr syntax.Expression) typed {
	return st.builder.expression(expr, st.scope)
}

func (st statementTranspiler) VisitLocal(l *syntax.Local) []ast.Stmt {
	v := l.Variable
	st.scope.declare(v.Name.Name, v.Type.Name, v.Array)
	name := st.scope.variables[v.Name.Name].goName

	spec := &ast.ValueSpec{
		Names: []*ast.Ident{ast.NewIdent(name)},
		Type:  st.variableType(v.Type.Name, v.Array),
	}
	if v.Initializer != nil {
		spec.Values = []ast.Expr{convert(st.expression(v.Initializer), v.Type.Name)}
	}

	stmts := []ast.Stmt{&ast.DeclStmt{Decl: &ast.GenDecl{Tok: token.VAR, Specs: []ast.Spec{spec}}}}
	if !st.scope.reads[v.Name.Name] {
		stmts = append(stmts, &ast.AssignStmt{
			Lhs: []ast.Expr{ast.NewIdent("_")},
			Tok: token.ASSIGN,
			Rhs: []ast.Expr{ast.NewIdent(name)},
		})
	}
	return stmts
}

func (st statementTranspiler) VisitSet(set *syntax.Set) []ast.Stmt {
	var target ast.Expr
	var name string
	switch t := set.Target.(type) {
	case *syntax.Identifier:
		name = t.Name
		target = st.expression(t).expr
	case *syntax.ArrayReference:
		name = t.Name.Name
		target, _ = st.arrayReference(t, st.scope)
	default:
		panic(fmt.Errorf("%w: assignment target", syntax.ErrUnknownNode))
	}
	_, typ, _ := expressionTranspiler{builder: st.builder, scope: st.scope}.resolve(name)

	return []ast.Stmt{&ast.AssignStmt{
		Lhs: []ast.Expr{target},
		Tok: token.ASSIGN,
		Rhs: []ast.Expr{convert(st.expression(set.Value), typ)},
	}}
}

func (st statementTranspiler) VisitCall(c *syntax.Call) []ast.Stmt {
	return []ast.Stmt{&ast.ExprStmt{X: st.expression(c.Invocation).expr}}
}

func (st statementTranspiler) VisitIf(i *syntax.If) []ast.Stmt {
	root := &ast.IfStmt{Cond: st.expression(i.Condition).expr, Body: st.block(i.Body, st.scope)}

	last := root
	for _, elseIf := range i.ElseIfs {
		next := &ast.IfStmt{Cond: st.expression(elseIf.Condition).expr, Body: st.block(elseIf.Body, st.scope)}
		last.Else = next
		last = next
	}
	if i.Else != nil {
		last.Else = st.block(i.Else.Body, st.scope)
	}
	return []ast.Stmt{root}
}

func (st statementTranspiler) VisitLoop(l *syntax.Loop) []ast.Stmt {
	st.scope.loops++
	body := st.block(l.Body, st.scope)
	st.scope.loops--
	return []ast.Stmt{&ast.ForStmt{Body: body}}
}

func (st statementTranspiler) VisitExit(e *syntax.Exit) []ast.Stmt {
	if st.scope.loops == 0 {
		st.scope.fail(fmt.Errorf("%w in function %s", ErrExitOutsideLoop, st.scope.function))
	}
	return []ast.Stmt{&ast.IfStmt{
		Cond: st.expression(e.Condition).expr,
		Body: &ast.BlockStmt{List: []ast.Stmt{&ast.BranchStmt{Tok: token.BREAK}}},
	}}
}

func (st statementTranspiler) VisitReturn(r *syntax.Return) []ast.Stmt {
	ret := &ast.ReturnStmt{}
	if r.Value != nil {
		ret.Results = []ast.Expr{convert(st.expression(r.Value), st.scope.returnType)}
	}
	return []ast.Stmt{ret}
}

func (st statementTranspiler) VisitDebug(d *syntax.Debug) []ast.Stmt {
	if !st.debug {
		return nil
	}
	return st.statement(d.Statement, st.scope)
}

func (st statementTranspiler) VisitComment(*syntax.Comment) []ast.Stmt {
	return nil
}
