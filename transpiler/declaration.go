package transpiler

import (
	"go/ast"
	"go/token"

	"github.com/jasskit/jasskit/syntax"
)

type declResult struct {
	decls []ast.Decl
	err   error
}

func single(decl ast.Decl) declResult {
	return declResult{decls: []ast.Decl{decl}}
}

type declarationTranspiler struct {
	*builder
}

func (d declarationTranspiler) VisitTypeDeclaration(t *syntax.TypeDeclaration) declResult {
	return single(&ast.GenDecl{
		Tok: token.TYPE,
		Specs: []ast.Spec{&ast.TypeSpec{
			Name: ast.NewIdent(d.GoName(t.Name.Name)),
			Type: &ast.InterfaceType{Methods: &ast.FieldList{
				List: []*ast.Field{{Type: d.typeExpr(t.Base.Name)}},
			}},
		}},
	})
}

// VisitGlobals emits one var block per globals block. Constant
// initializers stay in the block; the others become assignments in
// GlobalsInitializer, since they may call natives the host has not
// bound yet when the package is initialized.
func (d declarationTranspiler) VisitGlobals(g *syntax.Globals) declResult {
	decl := &ast.GenDecl{Tok: token.VAR}
	global := newScope("")
	for _, member := range g.Members {
		v, ok := member.(*syntax.Global)
		if !ok {
			continue
		}
		name := d.GoName(v.Variable.Name.Name)
		spec := &ast.ValueSpec{
			Names: []*ast.Ident{ast.NewIdent(name)},
			Type:  d.variableType(v.Variable.Type.Name, v.Variable.Array),
		}
		if initializer := v.Variable.Initializer; initializer != nil {
			value := convert(d.expression(initializer, global), v.Variable.Type.Name)
			if syntax.IsConstant(initializer) {
				spec.Values = []ast.Expr{value}
			} else {
				d.globalInits = append(d.globalInits, &ast.AssignStmt{
					Lhs: []ast.Expr{ast.NewIdent(name)},
					Tok: token.ASSIGN,
					Rhs: []ast.Expr{value},
				})
			}
		}
		decl.Specs = append(decl.Specs, spec)
	}
	if global.err != nil {
		return declResult{err: global.err}
	}
	if len(decl.Specs) == 0 {
		return declResult{}
	}
	return single(decl)
}

// VisitNative declares a function variable the host program assigns.
func (d declarationTranspiler) VisitNative(n *syntax.Native) declResult {
	return single(&ast.GenDecl{
		Tok: token.VAR,
		Specs: []ast.Spec{&ast.ValueSpec{
			Names: []*ast.Ident{ast.NewIdent(d.GoName(n.Signature.Name.Name))},
			Type:  d.funcType(n.Signature, nil),
		}},
	})
}

func (d declarationTranspiler) VisitFunction(f *syntax.Function) declResult {
	s := newScope(f.Signature.Name.Name)
	if f.Signature.ReturnType != nil {
		s.returnType = f.Signature.ReturnType.Name
	}
	collectReads(f, s, d.debug)

	fnType := d.funcType(f.Signature, s)
	fn := &ast.FuncDecl{
		Name: ast.NewIdent(d.GoName(f.Signature.Name.Name)),
		Type: fnType,
		Body: d.block(f.Body, s),
	}
	if s.err != nil {
		return declResult{err: s.err}
	}

	if s.returnType != "" && !endsWithReturn(f.Body) {
		fn.Body.List = append(fn.Body.List, &ast.ReturnStmt{Results: []ast.Expr{zeroValue(s.returnType)}})
	}
	return single(fn)
}

func (d declarationTranspiler) VisitComment(*syntax.Comment) declResult {
	return declResult{}
}

// funcType converts a signature, declaring parameters in s when given.
func (d declarationTranspiler) funcType(sig *syntax.FunctionSignature, s *scope) *ast.FuncType {
	params := &ast.FieldList{}
	for _, param := range sig.Parameters {
		name := goName(param.Name.Name)
		if s != nil {
			s.declare(param.Name.Name, param.Type.Name, false)
		}
		params.List = append(params.List, &ast.Field{
			Names: []*ast.Ident{ast.NewIdent(name)},
			Type:  d.typeExpr(param.Type.Name),
		})
	}

	result := &ast.FuncType{Params: params}
	if sig.ReturnType != nil {
		result.Results = &ast.FieldList{List: []*ast.Field{{Type: d.typeExpr(sig.ReturnType.Name)}}}
	}
	return result
}

func endsWithReturn(body []syntax.Statement) bool {
	for i := len(body) - 1; i >= 0; i-- {
		switch body[i].(type) {
		case *syntax.Comment:
			continue
		case *syntax.Return:
			return true
		}
		return false
	}
	return false
}
