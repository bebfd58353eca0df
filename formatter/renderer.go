// Package formatter renders syntax trees back to source text.
package formatter

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/jasskit/jasskit/parser"
	"github.com/jasskit/jasskit/syntax"
)

// Sentinel errors
var (
	ErrInvalidOption = errors.New("invalid formatter option")
	ErrSyntax        = errors.New("source has syntax errors")
)

// Render returns the source text for node. It panics if node is nil.
func Render(node syntax.Node, opts Options) string {
	r := newRenderer(opts)
	r.node(node)
	return r.b.String()
}

// Format parses src and renders it again. Sources with syntax errors are
// not reformatted; the first error is returned wrapped in ErrSyntax.
func Format(src string, opts Options) (string, error) {
	unit, diagnostics := parser.ParseString(src)
	for _, d := range diagnostics {
		if d.Severity >= parser.ERROR {
			return src, fmt.Errorf("%w: %w", ErrSyntax, d)
		}
	}
	return Render(unit, opts), nil
}

// Renderer writes rendered nodes to an io.Writer.
type Renderer struct {
	w    io.Writer
	opts Options
}

// NewRenderer creates a Renderer writing to w.
func NewRenderer(w io.Writer, opts Options) *Renderer {
	return &Renderer{w: w, opts: opts}
}

// Render writes the source text for node.
func (r *Renderer) Render(node syntax.Node) error {
	_, err := io.WriteString(r.w, Render(node, r.opts))
	return err
}

type renderer struct {
	b       strings.Builder
	opts    Options
	unit    string
	newline string
	depth   int
	prefix  string
}

func newRenderer(opts Options) *renderer {
	return &renderer{
		opts:    opts,
		unit:    opts.indentUnit(),
		newline: opts.LineEnding.String(),
	}
}

// line writes one indented line. A pending prefix such as "debug " is
// placed in front of the text.
func (r *renderer) line(parts ...string) {
	for range r.depth {
		r.b.WriteString(r.unit)
	}
	r.b.WriteString(r.prefix)
	r.prefix = ""
	for _, part := range parts {
		r.b.WriteString(part)
	}
	r.b.WriteString(r.newline)
}

func (r *renderer) blank() {
	r.b.WriteString(r.newline)
}

func (r *renderer) node(node syntax.Node) {
	switch n := node.(type) {
	case *syntax.CompilationUnit:
		r.unitNode(n)
	case syntax.Declaration:
		syntax.VisitDeclaration[struct{}](n, r)
	case syntax.Statement:
		syntax.VisitStatement[struct{}](n, r)
	case syntax.GlobalMember:
		syntax.VisitGlobalMember[struct{}](n, r)
	case syntax.Expression:
		r.b.WriteString(r.expr(n))
	case *syntax.VariableDeclaration:
		r.b.WriteString(r.variable(n))
	case *syntax.FunctionSignature:
		r.b.WriteString(r.signature(n))
	case *syntax.Parameter:
		r.b.WriteString(n.Type.Name + " " + n.Name.Name)
	case *syntax.ElseIf:
		r.line("elseif ", r.expr(n.Condition), " then")
		r.block(n.Body)
	case *syntax.Else:
		r.line("else")
		r.block(n.Body)
	default:
		if syntax.IsNil(node) {
			panic(fmt.Errorf("formatter: %w", syntax.ErrNilNode))
		}
		panic(fmt.Errorf("formatter: %w: %T", syntax.ErrUnknownNode, node))
	}
}

func (r *renderer) unitNode(unit *syntax.CompilationUnit) {
	decls := keepComments(r.opts, unit.Declarations)
	for i, decl := range decls {
		if i > 0 && needsBlankLine(decls[i-1], decl) {
			r.blank()
		}
		syntax.VisitDeclaration[struct{}](decl, r)
	}
}

// needsBlankLine separates blocks and runs of one-line declarations.
func needsBlankLine(prev, next syntax.Declaration) bool {
	switch prev.(type) {
	case *syntax.Globals, *syntax.Function:
		return true
	case *syntax.Comment:
		return false
	}
	return prev.Kind() != next.Kind()
}

func keepComments[T syntax.Node](opts Options, list []T) []T {
	if opts.PreserveComments {
		return list
	}
	result := make([]T, 0, len(list))
	for _, n := range list {
		if n.Kind() != syntax.COMMENT {
			result = append(result, n)
		}
	}
	return result
}

func (r *renderer) block(body []syntax.Statement) {
	r.depth++
	for _, stmt := range keepComments(r.opts, body) {
		syntax.VisitStatement[struct{}](stmt, r)
	}
	r.depth--
}

// Declarations

func (r *renderer) VisitTypeDeclaration(d *syntax.TypeDeclaration) struct{} {
	r.line("type ", d.Name.Name, " extends ", d.Base.Name)
	return struct{}{}
}

func (r *renderer) VisitGlobals(d *syntax.Globals) struct{} {
	r.line("globals")
	r.depth++
	for _, member := range keepComments(r.opts, d.Members) {
		syntax.VisitGlobalMember[struct{}](member, r)
	}
	r.depth--
	r.line("endglobals")
	return struct{}{}
}

func (r *renderer) VisitGlobal(g *syntax.Global) struct{} {
	r.line(constantPrefix(g.Constant), r.variable(g.Variable))
	return struct{}{}
}

func (r *renderer) VisitNative(d *syntax.Native) struct{} {
	r.line(constantPrefix(d.Constant), "native ", r.signature(d.Signature))
	return struct{}{}
}

func (r *renderer) VisitFunction(d *syntax.Function) struct{} {
	r.line(constantPrefix(d.Constant), "function ", r.signature(d.Signature))
	r.block(d.Body)
	r.line("endfunction")
	return struct{}{}
}

func (r *renderer) VisitComment(c *syntax.Comment) struct{} {
	r.line(c.Text)
	return struct{}{}
}

func constantPrefix(constant bool) string {
	if constant {
		return "constant "
	}
	return ""
}

func (r *renderer) signature(s *syntax.FunctionSignature) string {
	var b strings.Builder
	b.WriteString(s.Name.Name)
	b.WriteString(" takes ")
	if len(s.Parameters) == 0 {
		b.WriteString("nothing")
	}
	for i, parameter := range s.Parameters {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(parameter.Type.Name)
		b.WriteString(" ")
		b.WriteString(parameter.Name.Name)
	}
	b.WriteString(" returns ")
	if s.ReturnType == nil {
		b.WriteString("nothing")
	} else {
		b.WriteString(s.ReturnType.Name)
	}
	return b.String()
}

// nonNullableTypes cannot hold null, so NullGuards leaves them alone.
var nonNullableTypes = map[string]bool{
	"integer": true,
	"real":    true,
	"boolean": true,
}

func (r *renderer) variable(v *syntax.VariableDeclaration) string {
	var b strings.Builder
	b.WriteString(v.Type.Name)
	if v.Array {
		b.WriteString(" array")
	}
	b.WriteString(" ")
	b.WriteString(v.Name.Name)

	switch {
	case v.Initializer != nil:
		b.WriteString(" = ")
		b.WriteString(r.expr(v.Initializer))
	case r.opts.NullGuards && !v.Array && !nonNullableTypes[v.Type.Name]:
		b.WriteString(" = null")
	}
	return b.String()
}

// Statements

func (r *renderer) VisitLocal(s *syntax.Local) struct{} {
	r.line("local ", r.variable(s.Variable))
	return struct{}{}
}

func (r *renderer) VisitSet(s *syntax.Set) struct{} {
	r.line("set ", r.expr(s.Target), " = ", r.expr(s.Value))
	return struct{}{}
}

func (r *renderer) VisitCall(s *syntax.Call) struct{} {
	r.line("call ", r.expr(s.Invocation))
	return struct{}{}
}

func (r *renderer) VisitIf(s *syntax.If) struct{} {
	r.line("if ", r.expr(s.Condition), " then")
	r.block(s.Body)
	for _, elseIf := range s.ElseIfs {
		r.line("elseif ", r.expr(elseIf.Condition), " then")
		r.block(elseIf.Body)
	}
	if s.Else != nil {
		r.line("else")
		r.block(s.Else.Body)
	}
	r.line("endif")
	return struct{}{}
}

func (r *renderer) VisitLoop(s *syntax.Loop) struct{} {
	r.line("loop")
	r.block(s.Body)
	r.line("endloop")
	return struct{}{}
}

func (r *renderer) VisitExit(s *syntax.Exit) struct{} {
	r.line("exitwhen ", r.expr(s.Condition))
	return struct{}{}
}

func (r *renderer) VisitReturn(s *syntax.Return) struct{} {
	if s.Value == nil {
		r.line("return")
	} else {
		r.line("return ", r.expr(s.Value))
	}
	return struct{}{}
}

func (r *renderer) VisitDebug(s *syntax.Debug) struct{} {
	r.prefix = "debug "
	syntax.VisitStatement[struct{}](s.Statement, r)
	return struct{}{}
}
