package syntax

// TypeDeclaration is "type name extends base".
type TypeDeclaration struct {
	Name *Identifier
	Base *Identifier
}

func (t *TypeDeclaration) Kind() Kind       { return TYPE_DECLARATION }
func (t *TypeDeclaration) Children() []Node { return nodes(t.Name, t.Base) }
func (t *TypeDeclaration) declarationNode() {}

// Globals is a globals ... endglobals block.
type Globals struct {
	Members []GlobalMember
}

func (g *Globals) Kind() Kind       { return GLOBALS_BLOCK }
func (g *Globals) Children() []Node { return appendAll(nil, g.Members) }
func (g *Globals) declarationNode() {}

// Global is one variable inside a globals block.
type Global struct {
	Constant bool
	Variable *VariableDeclaration
}

func (g *Global) Kind() Kind        { return GLOBAL_DECLARATION }
func (g *Global) Children() []Node  { return nodes(g.Variable) }
func (g *Global) globalMemberNode() {}

// Parameter is "type name" in a takes list.
type Parameter struct {
	Type *Identifier
	Name *Identifier
}

func (p *Parameter) Kind() Kind       { return PARAMETER }
func (p *Parameter) Children() []Node { return nodes(p.Type, p.Name) }

// FunctionSignature is "name takes parameters returns type".
// An empty parameter list means "takes nothing"; a nil ReturnType means
// "returns nothing".
type FunctionSignature struct {
	Name       *Identifier
	Parameters []*Parameter
	ReturnType *Identifier
}

func (f *FunctionSignature) Kind() Kind { return FUNCTION_SIGNATURE }
func (f *FunctionSignature) Children() []Node {
	children := appendAll(nodes(f.Name), f.Parameters)
	return append(children, nodes(f.ReturnType)...)
}

// Native declares an engine-provided function.
type Native struct {
	Constant  bool
	Signature *FunctionSignature
}

func (n *Native) Kind() Kind       { return NATIVE_DECLARATION }
func (n *Native) Children() []Node { return nodes(n.Signature) }
func (n *Native) declarationNode() {}

// Function is a user function with a body.
type Function struct {
	Constant  bool
	Signature *FunctionSignature
	Body      []Statement
}

func (f *Function) Kind() Kind { return FUNCTION_DECLARATION }
func (f *Function) Children() []Node {
	return appendAll(nodes(f.Signature), f.Body)
}
func (f *Function) declarationNode() {}

// CompilationUnit is the root of a parsed file.
type CompilationUnit struct {
	Declarations []Declaration
}

func (c *CompilationUnit) Kind() Kind       { return COMPILATION_UNIT }
func (c *CompilationUnit) Children() []Node { return appendAll(nil, c.Declarations) }

// Functions returns the function declarations in source order.
func (c *CompilationUnit) Functions() []*Function {
	var result []*Function
	for _, decl := range c.Declarations {
		if fn, ok := decl.(*Function); ok {
			result = append(result, fn)
		}
	}
	return result
}

// Function returns the first function called name, or nil.
func (c *CompilationUnit) Function(name string) *Function {
	for _, fn := range c.Functions() {
		if fn.Signature.Name.Name == name {
			return fn
		}
	}
	return nil
}
