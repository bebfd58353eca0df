package obfuscator

import (
	"github.com/jasskit/jasskit/syntax"
)

// rewriter copies a tree while renaming identifiers. scope is the
// original name of the function being copied.
type rewriter struct {
	names    *RenameMap
	shared   *RenameMap
	reserved map[string]bool
	minify   bool
	scope    string
}

func (r *rewriter) rename(name string) string {
	if r.scope != "" {
		if replacement, ok := r.names.Lookup(r.scope, name); ok {
			return replacement
		}
	}
	return r.renameGlobal(name)
}

// renameGlobal skips function scopes; used for type and function names.
func (r *rewriter) renameGlobal(name string) string {
	if replacement, ok := r.names.Lookup("", name); ok {
		return replacement
	}
	if r.reserved[name] {
		return name
	}
	if replacement, ok := r.shared.Lookup("", name); ok {
		return replacement
	}
	return name
}

func (r *rewriter) identifier(id *syntax.Identifier) *syntax.Identifier {
	if id == nil {
		return nil
	}
	return syntax.NewIdentifier(r.rename(id.Name))
}

func (r *rewriter) typeName(id *syntax.Identifier) *syntax.Identifier {
	if id == nil {
		return nil
	}
	return syntax.NewIdentifier(r.renameGlobal(id.Name))
}

func (r *rewriter) unit(unit *syntax.CompilationUnit) *syntax.CompilationUnit {
	result := &syntax.CompilationUnit{}
	for _, decl := range unit.Declarations {
		if copied := syntax.VisitDeclaration[syntax.Declaration](decl, declarationRewriter{r}); copied != nil {
			result.Declarations = append(result.Declarations, copied)
		}
	}
	return result
}

func (r *rewriter) variable(v *syntax.VariableDeclaration) *syntax.VariableDeclaration {
	return &syntax.VariableDeclaration{
		Type:        r.typeName(v.Type),
		Name:        r.identifier(v.Name),
		Array:       v.Array,
		Initializer: r.expression(v.Initializer),
	}
}

func (r *rewriter) signature(sig *syntax.FunctionSignature) *syntax.FunctionSignature {
	result := &syntax.FunctionSignature{
		Name:       syntax.NewIdentifier(r.renameGlobal(sig.Name.Name)),
		ReturnType: r.typeName(sig.ReturnType),
	}
	for _, param := range sig.Parameters {
		result.Parameters = append(result.Parameters, &syntax.Parameter{
			Type: r.typeName(param.Type),
			Name: r.identifier(param.Name),
		})
	}
	return result
}

func (r *rewriter) statements(stmts []syntax.Statement) []syntax.Statement {
	var result []syntax.Statement
	for _, stmt := range stmts {
		if copied := r.statement(stmt); copied != nil {
			result = append(result, copied)
		}
	}
	return result
}

func (r *rewriter) statement(stmt syntax.Statement) syntax.Statement {
	return syntax.VisitStatement[syntax.Statement](stmt, statementRewriter{r})
}

func (r *rewriter) expression(expr syntax.Expression) syntax.Expression {
	if expr == nil {
		return nil
	}
	return syntax.VisitExpression[syntax.Expression](expr, expressionRewriter{r})
}

func (r *rewriter) invocation(inv *syntax.Invocation) *syntax.Invocation {
	result := &syntax.Invocation{Name: syntax.NewIdentifier(r.renameGlobal(inv.Name.Name))}
	for _, arg := range inv.Arguments {
		result.Arguments = append(result.Arguments, r.expression(arg))
	}
	return result
}

type declarationRewriter struct{ *rewriter }

func (d declarationRewriter) VisitTypeDeclaration(t *syntax.TypeDeclaration) syntax.Declaration {
	return &syntax.TypeDeclaration{Name: d.typeName(t.Name), Base: d.typeName(t.Base)}
}

func (d declarationRewriter) VisitGlobals(g *syntax.Globals) syntax.Declaration {
	result := &syntax.Globals{}
	for _, member := range g.Members {
		if global, ok := member.(*syntax.Global); ok {
			result.Members = append(result.Members, &syntax.Global{
				Constant: global.Constant,
				Variable: d.variable(global.Variable),
			})
		}
	}
	return result
}

func (d declarationRewriter) VisitNative(n *syntax.Native) syntax.Declaration {
	return &syntax.Native{Constant: n.Constant, Signature: d.signature(n.Signature)}
}

func (d declarationRewriter) VisitFunction(f *syntax.Function) syntax.Declaration {
	inner := *d.rewriter
	inner.scope = f.Signature.Name.Name
	return &syntax.Function{
		Constant:  f.Constant,
		Signature: inner.signature(f.Signature),
		Body:      inner.statements(f.Body),
	}
}

func (d declarationRewriter) VisitComment(*syntax.Comment) syntax.Declaration {
	return nil
}

type statementRewriter struct{ *rewriter }

func (s statementRewriter) VisitLocal(l *syntax.Local) syntax.Statement {
	return &syntax.Local{Variable: s.variable(l.Variable)}
}

func (s statementRewriter) VisitSet(set *syntax.Set) syntax.Statement {
	var target syntax.Assignable
	switch t := set.Target.(type) {
	case *syntax.Identifier:
		target = s.identifier(t)
	case *syntax.ArrayReference:
		target = &syntax.ArrayReference{Name: s.identifier(t.Name), Index: s.expression(t.Index)}
	}
	return &syntax.Set{Target: target, Value: s.expression(set.Value)}
}

func (s statementRewriter) VisitCall(c *syntax.Call) syntax.Statement {
	return &syntax.Call{Invocation: s.invocation(c.Invocation)}
}

func (s statementRewriter) VisitIf(i *syntax.If) syntax.Statement {
	result := &syntax.If{
		Condition: s.expression(i.Condition),
		Body:      s.statements(i.Body),
	}
	for _, elseIf := range i.ElseIfs {
		result.ElseIfs = append(result.ElseIfs, &syntax.ElseIf{
			Condition: s.expression(elseIf.Condition),
			Body:      s.statements(elseIf.Body),
		})
	}
	if i.Else != nil {
		result.Else = &syntax.Else{Body: s.statements(i.Else.Body)}
	}
	return result
}

func (s statementRewriter) VisitLoop(l *syntax.Loop) syntax.Statement {
	return &syntax.Loop{Body: s.statements(l.Body)}
}

func (s statementRewriter) VisitExit(e *syntax.Exit) syntax.Statement {
	return &syntax.Exit{Condition: s.expression(e.Condition)}
}

func (s statementRewriter) VisitReturn(ret *syntax.Return) syntax.Statement {
	return &syntax.Return{Value: s.expression(ret.Value)}
}

func (s statementRewriter) VisitDebug(d *syntax.Debug) syntax.Statement {
	return &syntax.Debug{Statement: s.statement(d.Statement)}
}

func (s statementRewriter) VisitComment(*syntax.Comment) syntax.Statement {
	return nil
}

type expressionRewriter struct{ *rewriter }

func (e expressionRewriter) VisitLiteral(l *syntax.Literal) syntax.Expression {
	if e.minify && l.Type == syntax.RealLiteral {
		return syntax.NewReal(MinifyReal(l.Value))
	}
	return &syntax.Literal{Type: l.Type, Value: l.Value}
}

func (e expressionRewriter) VisitIdentifier(id *syntax.Identifier) syntax.Expression {
	return e.identifier(id)
}

func (e expressionRewriter) VisitArrayReference(a *syntax.ArrayReference) syntax.Expression {
	return &syntax.ArrayReference{Name: e.identifier(a.Name), Index: e.expression(a.Index)}
}

func (e expressionRewriter) VisitFunctionReference(f *syntax.FunctionReference) syntax.Expression {
	return &syntax.FunctionReference{Name: syntax.NewIdentifier(e.renameGlobal(f.Name.Name))}
}

func (e expressionRewriter) VisitInvocation(inv *syntax.Invocation) syntax.Expression {
	return e.invocation(inv)
}

func (e expressionRewriter) VisitUnary(u *syntax.Unary) syntax.Expression {
	return &syntax.Unary{Operator: u.Operator, Operand: e.expression(u.Operand)}
}

func (e expressionRewriter) VisitBinary(b *syntax.Binary) syntax.Expression {
	return &syntax.Binary{Operator: b.Operator, Left: e.expression(b.Left), Right: e.expression(b.Right)}
}

func (e expressionRewriter) VisitParenthesized(p *syntax.Parenthesized) syntax.Expression {
	return &syntax.Parenthesized{Expression: e.expression(p.Expression)}
}
