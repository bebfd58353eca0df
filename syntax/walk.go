package syntax

// Walk traverses the tree rooted at root depth-first in source order.
// visit receives each node together with its ancestors, outermost first;
// returning false skips the node's children. The ancestors slice is only
// valid during the call.
func Walk(root Node, visit func(node Node, ancestors []Node) bool) {
	var walk func(node Node, ancestors []Node)
	walk = func(node Node, ancestors []Node) {
		if !visit(node, ancestors) {
			return
		}
		ancestors = append(ancestors, node)
		for _, child := range node.Children() {
			walk(child, ancestors)
		}
	}

	if !IsNil(root) {
		walk(root, make([]Node, 0, 16))
	}
}

// Inspect is Walk without ancestors.
func Inspect(root Node, visit func(node Node) bool) {
	Walk(root, func(node Node, _ []Node) bool {
		return visit(node)
	})
}
