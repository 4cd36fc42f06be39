package doctree

// WalkStatus controls how Walk proceeds after an Enter call.
type WalkStatus int

const (
	// WalkContinue descends into the node's children and calls Exit
	// afterwards.
	WalkContinue WalkStatus = iota
	// WalkSkipChildren skips the node's subtree. Exit is not called for a
	// skipped node; the skip is a control outcome, not an error.
	WalkSkipChildren
	// WalkStop abandons the walk entirely.
	WalkStop
)

// Visitor receives depth-first traversal callbacks: Enter before a node's
// children, Exit after them.
type Visitor interface {
	Enter(n *Node) (WalkStatus, error)
	Exit(n *Node) error
}

// Walk traverses the tree rooted at n in depth-first pre/post order,
// invoking v.Enter before each node's children and v.Exit after. The walk
// owns traversal; visitors only react.
func Walk(n *Node, v Visitor) error {
	_, err := walk(n, v)
	return err
}

func walk(n *Node, v Visitor) (WalkStatus, error) {
	status, err := v.Enter(n)
	if err != nil || status == WalkStop {
		return WalkStop, err
	}
	if status == WalkSkipChildren {
		return WalkContinue, nil
	}
	for _, c := range n.Children {
		st, err := walk(c, v)
		if err != nil || st == WalkStop {
			return WalkStop, err
		}
	}
	if err := v.Exit(n); err != nil {
		return WalkStop, err
	}
	return WalkContinue, nil
}
