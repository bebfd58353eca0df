package syntax

// Equal reports whether a and b have the same structure and values.
// Comment nodes are ignored wherever they appear in a list, so a tree
// compares equal to the same tree rendered without comments.
func Equal(a, b Node) bool {
	if IsNil(a) || IsNil(b) {
		return IsNil(a) && IsNil(b)
	}
	if a.Kind() != b.Kind() {
		return false
	}

	switch x := a.(type) {
	case *Literal:
		y := b.(*Literal)
		return x.Type == y.Type && x.Value == y.Value
	case *Identifier:
		return x.Name == b.(*Identifier).Name
	case *Comment:
		return x.Text == b.(*Comment).Text
	case *Unary:
		if x.Operator != b.(*Unary).Operator {
			return false
		}
	case *Binary:
		if x.Operator != b.(*Binary).Operator {
			return false
		}
	case *VariableDeclaration:
		if x.Array != b.(*VariableDeclaration).Array {
			return false
		}
	case *Global:
		if x.Constant != b.(*Global).Constant {
			return false
		}
	case *Native:
		if x.Constant != b.(*Native).Constant {
			return false
		}
	case *Function:
		if x.Constant != b.(*Function).Constant {
			return false
		}
	}

	return equalChildren(a.Children(), b.Children())
}

func equalChildren(a, b []Node) bool {
	a, b = withoutComments(a), withoutComments(b)
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !Equal(a[i], b[i]) {
			return false
		}
	}
	return true
}

func withoutComments(list []Node) []Node {
	result := list[:0:0]
	for _, n := range list {
		if n.Kind() != COMMENT {
			result = append(result, n)
		}
	}
	return result
}
