package transpiler

import (
	"fmt"
	"go/ast"

	"github.com/jasskit/jasskit/syntax"
)

// Access tells whether a converted array element may be assigned to.
type Access int

const (
	// ReadAccess is the default: the element is only read.
	ReadAccess Access = iota
	// WriteTarget marks the left-hand side of an assignment.
	WriteTarget
)

func (a Access) String() string {
	if a == WriteTarget {
		return "write"
	}
	return "read"
}

// ArrayReference converts a[i] as a value. Array elements passed as
// call arguments are values too, since JASS has no references.
func (t *Transpiler) ArrayReference(ref *syntax.ArrayReference) (ast.Expr, Access) {
	b := &builder{Transpiler: t}
	return b.arrayReference(ref, newScope(""))
}

// AssignmentTarget converts a[i] on the left of "set a[i] = x". The
// element expression is identical to the one ArrayReference returns.
func (t *Transpiler) AssignmentTarget(ref *syntax.ArrayReference) (ast.Expr, Access) {
	expr, _ := t.ArrayReference(ref)
	return expr, WriteTarget
}

func (b *builder) arrayReference(ref *syntax.ArrayReference, s *scope) (ast.Expr, Access) {
	if ref == nil {
		panic(fmt.Errorf("%w: array reference", syntax.ErrNilNode))
	}
	index := b.expression(ref.Index, s)
	name, _, _ := expressionTranspiler{builder: b, scope: s}.resolve(ref.Name.Name)
	return &ast.IndexExpr{X: ast.NewIdent(name), Index: index.expr}, ReadAccess
}
