package transpiler

import (
	"go/ast"
	"go/token"
)

// JASS primitive type names.
const (
	integerType = "integer"
	realType    = "real"
	booleanType = "boolean"
	stringType  = "string"
	handleType  = "handle"
	codeType    = "code"

	// nullType marks the null literal until its context is known.
	nullType = "null"
)

var primitiveGoTypes = map[string]string{
	integerType: "int32",
	realType:    "float32",
	booleanType: "bool",
	stringType:  "string",
}

var runtimeGoTypes = map[string]string{
	handleType: "Handle",
	codeType:   "Code",
}

// typeExpr returns the Go type for a JASS type name.
func (b *builder) typeExpr(name string) ast.Expr {
	if goType, ok := primitiveGoTypes[name]; ok {
		return ast.NewIdent(goType)
	}
	if runtimeType, ok := runtimeGoTypes[name]; ok {
		return b.runtime(runtimeType)
	}
	return ast.NewIdent(b.GoName(name))
}

// variableType wraps element types of arrays.
func (b *builder) variableType(name string, array bool) ast.Expr {
	elem := b.typeExpr(name)
	if !array {
		return elem
	}
	return &ast.ArrayType{Len: b.runtime("ArraySize"), Elt: elem}
}

// zeroValue is the value a variable of type name starts with.
func zeroValue(name string) ast.Expr {
	switch name {
	case integerType, realType:
		return &ast.BasicLit{Kind: token.INT, Value: "0"}
	case booleanType:
		return ast.NewIdent("false")
	case stringType:
		return emptyString()
	default:
		return ast.NewIdent("nil")
	}
}

func emptyString() ast.Expr {
	return &ast.BasicLit{Kind: token.STRING, Value: `""`}
}

// convert adapts v to a context expecting target. Integers widen to
// real only through an explicit conversion; untyped Go constants need
// none.
func convert(v typed, target string) ast.Expr {
	switch {
	case v.typ == nullType && target == stringType:
		return emptyString()
	case v.typ == nullType:
		return ast.NewIdent("nil")
	case target == realType && v.typ == integerType && !v.constant:
		return &ast.CallExpr{Fun: ast.NewIdent("float32"), Args: []ast.Expr{v.expr}}
	}
	return v.expr
}
