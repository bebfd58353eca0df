package syntax

// VariableDeclaration is "type [array] name [= initializer]", shared by
// locals and globals. Array variables never carry an initializer.
type VariableDeclaration struct {
	Type        *Identifier
	Name        *Identifier
	Array       bool
	Initializer Expression
}

func (v *VariableDeclaration) Kind() Kind { return VARIABLE_DECLARATION }
func (v *VariableDeclaration) Children() []Node {
	return nodes(v.Type, v.Name, v.Initializer)
}

// Local declares a function-scoped variable.
type Local struct {
	Variable *VariableDeclaration
}

func (l *Local) Kind() Kind       { return LOCAL_STATEMENT }
func (l *Local) Children() []Node { return nodes(l.Variable) }
func (l *Local) statementNode()   {}

// Set assigns Value to a variable or array element.
type Set struct {
	Target Assignable
	Value  Expression
}

func (s *Set) Kind() Kind       { return SET_STATEMENT }
func (s *Set) Children() []Node { return nodes(s.Target, s.Value) }
func (s *Set) statementNode()   {}

// Call invokes a function for its side effects.
type Call struct {
	Invocation *Invocation
}

func (c *Call) Kind() Kind       { return CALL_STATEMENT }
func (c *Call) Children() []Node { return nodes(c.Invocation) }
func (c *Call) statementNode()   {}

// If is if/elseif/else/endif. Else is nil when absent.
type If struct {
	Condition Expression
	Body      []Statement
	ElseIfs   []*ElseIf
	Else      *Else
}

func (i *If) Kind() Kind { return IF_STATEMENT }
func (i *If) Children() []Node {
	children := appendAll(nodes(i.Condition), i.Body)
	children = appendAll(children, i.ElseIfs)
	return append(children, nodes(i.Else)...)
}
func (i *If) statementNode() {}

// ElseIf is one elseif branch of an If.
type ElseIf struct {
	Condition Expression
	Body      []Statement
}

func (e *ElseIf) Kind() Kind       { return ELSEIF_CLAUSE }
func (e *ElseIf) Children() []Node { return appendAll(nodes(e.Condition), e.Body) }

// Else is the trailing else branch of an If.
type Else struct {
	Body []Statement
}

func (e *Else) Kind() Kind       { return ELSE_CLAUSE }
func (e *Else) Children() []Node { return appendAll(nil, e.Body) }

// Loop repeats Body until an exitwhen fires.
type Loop struct {
	Body []Statement
}

func (l *Loop) Kind() Kind       { return LOOP_STATEMENT }
func (l *Loop) Children() []Node { return appendAll(nil, l.Body) }
func (l *Loop) statementNode()   {}

// Exit is "exitwhen condition".
type Exit struct {
	Condition Expression
}

func (e *Exit) Kind() Kind       { return EXIT_STATEMENT }
func (e *Exit) Children() []Node { return nodes(e.Condition) }
func (e *Exit) statementNode()   {}

// Return leaves the function. Value is nil for a bare return.
type Return struct {
	Value Expression
}

func (r *Return) Kind() Kind       { return RETURN_STATEMENT }
func (r *Return) Children() []Node { return nodes(r.Value) }
func (r *Return) statementNode()   {}

// Debug marks a statement that only runs in debug builds.
type Debug struct {
	Statement Statement
}

func (d *Debug) Kind() Kind       { return DEBUG_STATEMENT }
func (d *Debug) Children() []Node { return nodes(d.Statement) }
func (d *Debug) statementNode()   {}

// Comment keeps a source comment, including its // or /* */ delimiters.
// It can stand wherever a statement, declaration or global may appear.
type Comment struct {
	Text string
}

func (c *Comment) Kind() Kind        { return COMMENT }
func (c *Comment) Children() []Node  { return nil }
func (c *Comment) statementNode()    {}
func (c *Comment) declarationNode()  {}
func (c *Comment) globalMemberNode() {}
