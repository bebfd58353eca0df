package syntax

import "fmt"

// ExpressionVisitor handles every expression variant.
type ExpressionVisitor[R any] interface {
	VisitLiteral(*Literal) R
	VisitIdentifier(*Identifier) R
	VisitArrayReference(*ArrayReference) R
	VisitFunctionReference(*FunctionReference) R
	VisitInvocation(*Invocation) R
	VisitUnary(*Unary) R
	VisitBinary(*Binary) R
	VisitParenthesized(*Parenthesized) R
}

// StatementVisitor handles every statement variant.
type StatementVisitor[R any] interface {
	VisitLocal(*Local) R
	VisitSet(*Set) R
	VisitCall(*Call) R
	VisitIf(*If) R
	VisitLoop(*Loop) R
	VisitExit(*Exit) R
	VisitReturn(*Return) R
	VisitDebug(*Debug) R
	VisitComment(*Comment) R
}

// DeclarationVisitor handles every top-level declaration variant.
type DeclarationVisitor[R any] interface {
	VisitTypeDeclaration(*TypeDeclaration) R
	VisitGlobals(*Globals) R
	VisitNative(*Native) R
	VisitFunction(*Function) R
	VisitComment(*Comment) R
}

// GlobalMemberVisitor handles every globals block member.
type GlobalMemberVisitor[R any] interface {
	VisitGlobal(*Global) R
	VisitComment(*Comment) R
}

// VisitExpression dispatches expr to the matching visitor method.
// It panics on nil, which is a programming error.
func VisitExpression[R any](expr Expression, v ExpressionVisitor[R]) R {
	switch e := expr.(type) {
	case *Literal:
		return v.VisitLiteral(e)
	case *Identifier:
		return v.VisitIdentifier(e)
	case *ArrayReference:
		return v.VisitArrayReference(e)
	case *FunctionReference:
		return v.VisitFunctionReference(e)
	case *Invocation:
		return v.VisitInvocation(e)
	case *Unary:
		return v.VisitUnary(e)
	case *Binary:
		return v.VisitBinary(e)
	case *Parenthesized:
		return v.VisitParenthesized(e)
	}
	panic(dispatchError(expr))
}

// VisitStatement dispatches stmt to the matching visitor method.
func VisitStatement[R any](stmt Statement, v StatementVisitor[R]) R {
	switch s := stmt.(type) {
	case *Local:
		return v.VisitLocal(s)
	case *Set:
		return v.VisitSet(s)
	case *Call:
		return v.VisitCall(s)
	case *If:
		return v.VisitIf(s)
	case *Loop:
		return v.VisitLoop(s)
	case *Exit:
		return v.VisitExit(s)
	case *Return:
		return v.VisitReturn(s)
	case *Debug:
		return v.VisitDebug(s)
	case *Comment:
		return v.VisitComment(s)
	}
	panic(dispatchError(stmt))
}

// VisitDeclaration dispatches decl to the matching visitor method.
func VisitDeclaration[R any](decl Declaration, v DeclarationVisitor[R]) R {
	switch d := decl.(type) {
	case *TypeDeclaration:
		return v.VisitTypeDeclaration(d)
	case *Globals:
		return v.VisitGlobals(d)
	case *Native:
		return v.VisitNative(d)
	case *Function:
		return v.VisitFunction(d)
	case *Comment:
		return v.VisitComment(d)
	}
	panic(dispatchError(decl))
}

// VisitGlobalMember dispatches member to the matching visitor method.
func VisitGlobalMember[R any](member GlobalMember, v GlobalMemberVisitor[R]) R {
	switch m := member.(type) {
	case *Global:
		return v.VisitGlobal(m)
	case *Comment:
		return v.VisitComment(m)
	}
	panic(dispatchError(member))
}

func dispatchError(n Node) error {
	if IsNil(n) {
		return ErrNilNode
	}
	return fmt.Errorf("%w: %T", ErrUnknownNode, n)
}
