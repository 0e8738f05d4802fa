package tree

import "fmt"

// Walk visits nodes in pre-order. Returning false from fn skips the
// children of the visited node.
func Walk(root *Node, fn func(*Node) bool) {
	if root == nil {
		return
	}
	if !fn(root) {
		return
	}
	for _, c := range root.Children {
		Walk(c, fn)
	}
}

// Visible lists the nodes a viewer shows, in order: children of collapsed
// containers are skipped.
func Visible(root *Node) []*Node {
	var out []*Node
	Walk(root, func(n *Node) bool {
		out = append(out, n)
		return !n.Collapsed
	})
	return out
}

// Count returns the total number of nodes below and including root.
func Count(root *Node) int {
	total := 0
	Walk(root, func(*Node) bool {
		total++
		return true
	})
	return total
}

// Index maps addresses to nodes.
type Index struct {
	byPath map[string]*Node
}

// NewIndex indexes every node of root. Colliding addresses keep the first
// node and are reported with ErrAddressCollision; the index stays usable.
func NewIndex(root *Node) (*Index, error) {
	idx := &Index{byPath: make(map[string]*Node)}
	var collisions []string
	Walk(root, func(n *Node) bool {
		if _, dup := idx.byPath[n.Path]; dup {
			collisions = append(collisions, n.Path)
			return true
		}
		idx.byPath[n.Path] = n
		return true
	})
	if len(collisions) > 0 {
		return idx, fmt.Errorf("%w: %d duplicate address(es), first %s", ErrAddressCollision, len(collisions), collisions[0])
	}
	return idx, nil
}

// Len returns the number of indexed addresses.
func (i *Index) Len() int { return len(i.byPath) }

// Find returns the node at path. Non-canonical spellings such as
// $["name"] are accepted.
func (i *Index) Find(path string) (*Node, bool) {
	if n, ok := i.byPath[path]; ok {
		return n, true
	}
	canonical, err := Canonical(path)
	if err != nil {
		return nil, false
	}
	n, ok := i.byPath[canonical]
	return n, ok
}

// Find walks from root following path without building an index.
func Find(root *Node, path string) (*Node, error) {
	segments, err := ParsePath(path)
	if err != nil {
		return nil, err
	}
	cur := root
	for _, seg := range segments {
		next := child(cur, seg)
		if next == nil {
			return nil, fmt.Errorf("no node at %s", path)
		}
		cur = next
	}
	return cur, nil
}

func child(n *Node, seg Segment) *Node {
	if n == nil || n.Kind != Container {
		return nil
	}
	if idx, ok := seg.(ArrayIndex); ok {
		if !n.IsArray() || idx.Index >= len(n.Children) {
			return nil
		}
		return n.Children[idx.Index]
	}
	name, _ := Name(seg)
	if n.IsArray() {
		return nil
	}
	for _, c := range n.Children {
		if k, ok := c.Key.Name(); ok && k == name {
			return c
		}
	}
	return nil
}
