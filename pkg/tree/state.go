package tree

// SetCollapsed folds or unfolds a container. Leaves are left alone.
func SetCollapsed(n *Node, collapsed bool) {
	if n == nil || n.Kind != Container {
		return
	}
	n.Collapsed = collapsed
}

// Toggle flips the collapse state of a container and returns the new state.
func Toggle(n *Node) bool {
	if n == nil || n.Kind != Container {
		return false
	}
	n.Collapsed = !n.Collapsed
	return n.Collapsed
}

// ExpandAll unfolds every container below and including root.
func ExpandAll(root *Node) {
	Walk(root, func(n *Node) bool {
		SetCollapsed(n, false)
		return true
	})
}

// CollapseAll folds every container below and including root.
func CollapseAll(root *Node) {
	Walk(root, func(n *Node) bool {
		SetCollapsed(n, true)
		return true
	})
}

// CarryState copies the collapse state of containers in from onto the
// containers at the same address in to. Addresses missing from from keep
// their built-in default.
func CarryState(from, to *Node) {
	if from == nil || to == nil {
		return
	}
	folded := make(map[string]bool)
	Walk(from, func(n *Node) bool {
		if n.Kind == Container {
			folded[n.Path] = n.Collapsed
		}
		return true
	})
	Walk(to, func(n *Node) bool {
		if n.Kind != Container {
			return true
		}
		if c, ok := folded[n.Path]; ok {
			n.Collapsed = c
		}
		return true
	})
}

// Reveal unfolds every ancestor of n so it becomes visible.
func Reveal(n *Node) {
	for _, p := range n.Ancestors() {
		p.Collapsed = false
	}
}
