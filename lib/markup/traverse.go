package markup

// Control tells Traverse how to continue after visiting a node.
type Control int

const (
	// Continue visits the node's children.
	Continue Control = iota

	// SkipChildren leaves the node's children untouched. Only meaningful
	// when returned from an enter visitor.
	SkipChildren

	// Remove deletes the node from its parent.
	Remove
)

// Visitor is called for each node. The returned node replaces the visited
// one, which lets passes splice new nodes into the tree.
type Visitor func(n Node) (Node, Control)

// Traverse walks the tree depth-first. enter is called before a node's
// children, leave after. Either may be nil. Element attributes are not
// visited. The returned node is the (possibly replaced) root; it is nil when
// the root itself was removed.
func Traverse(root Node, enter, leave Visitor) Node {
	n, _ := walk(root, enter, leave)
	return n
}

func walk(n Node, enter, leave Visitor) (Node, bool) {
	control := Continue
	if enter != nil {
		n, control = enter(n)
		if control == Remove || n == nil {
			return nil, false
		}
	}
	if control != SkipChildren {
		switch node := n.(type) {
		case *Fragment:
			node.Children = walkChildren(node.Children, enter, leave)
		case *Element:
			if node.Content != nil {
				node.Content.Children = walkChildren(node.Content.Children, enter, leave)
			}
		}
	}
	if leave != nil {
		n, control = leave(n)
		if control == Remove || n == nil {
			return nil, false
		}
	}
	return n, true
}

func walkChildren(children []Node, enter, leave Visitor) []Node {
	kept := children[:0]
	for _, child := range children {
		if n, ok := walk(child, enter, leave); ok {
			kept = append(kept, n)
		}
	}
	return kept
}

// Inspect calls fn for every node depth-first until fn returns false.
func Inspect(root Node, fn func(Node) bool) {
	var visit func(Node) bool
	visit = func(n Node) bool {
		if !fn(n) {
			return false
		}
		switch node := n.(type) {
		case *Fragment:
			for _, child := range node.Children {
				if !visit(child) {
					return false
				}
			}
		case *Element:
			for _, child := range node.Children() {
				if !visit(child) {
					return false
				}
			}
		}
		return true
	}
	visit(root)
}
