// Package search highlights nodes whose own key or value text contains a
// query and unfolds the containers above them.
package search

import (
	"strings"

	"github.com/oakwood-commons/jvp/pkg/tree"
)

// Search clears the previous result, then marks every node whose key label
// or value text contains query, ignoring case. Collapsed ancestors of a
// match are expanded. An empty query only clears. Callers trim whitespace.
// It returns the number of matching nodes.
func Search(root *tree.Node, query string) int {
	Reset(root)
	if query == "" || root == nil {
		return 0
	}
	needle := strings.ToLower(query)
	count := 0
	tree.Walk(root, func(n *tree.Node) bool {
		m := tree.Match{
			Key:   !n.Key.IsNone() && contains(n.KeyLabel(), needle),
			Value: contains(n.ValueText(), needle),
		}
		if !m.Any() {
			return true
		}
		n.Match = m
		count++
		for _, p := range n.Ancestors() {
			p.Revealed = true
			p.Collapsed = false
		}
		return true
	})
	return count
}

// Reset clears all match and reveal marks. Collapse state is left as is, so
// containers opened by an earlier search stay open.
func Reset(root *tree.Node) {
	tree.Walk(root, func(n *tree.Node) bool {
		n.Match = tree.Match{}
		n.Revealed = false
		return true
	})
}

// Matches returns the matched nodes in pre-order.
func Matches(root *tree.Node) []*tree.Node {
	var out []*tree.Node
	tree.Walk(root, func(n *tree.Node) bool {
		if n.Match.Any() {
			out = append(out, n)
		}
		return true
	})
	return out
}

func contains(text, needle string) bool {
	return strings.Contains(strings.ToLower(text), needle)
}
