package formatter

import (
	"strings"

	"github.com/xlab/treeprint"

	"github.com/oakwood-commons/jvp/pkg/jsonvalue"
	"github.com/oakwood-commons/jvp/pkg/tree"
)

// TreeOptions controls tree output formatting.
type TreeOptions struct {
	// ExpandAll ignores collapse state and prints every node.
	ExpandAll bool
	// MaxDepth limits tree depth (0 = unlimited).
	MaxDepth int
	// Highlight decorates the text of matched nodes. Nil leaves it plain.
	Highlight func(string) string
}

// RenderTree renders the node tree as an ASCII tree. Collapsed containers
// print as a single line with their summary and closing bracket.
func RenderTree(root *tree.Node, opts TreeOptions) string {
	if root == nil {
		return ""
	}
	out := treeprint.NewWithRoot(label(root, opts))
	if !folded(root, opts) {
		addChildren(out, root, opts)
	}
	return out.String()
}

func addChildren(branch treeprint.Tree, n *tree.Node, opts TreeOptions) {
	for _, c := range n.Children {
		if c.Kind == tree.Leaf || folded(c, opts) {
			branch.AddNode(label(c, opts))
			continue
		}
		addChildren(branch.AddBranch(label(c, opts)), c, opts)
	}
}

func folded(n *tree.Node, opts TreeOptions) bool {
	if n.Kind != tree.Container {
		return false
	}
	if opts.MaxDepth > 0 && n.Depth >= opts.MaxDepth {
		return true
	}
	return n.Collapsed && !opts.ExpandAll
}

func label(n *tree.Node, opts TreeOptions) string {
	var b strings.Builder
	if !n.Key.IsNone() {
		b.WriteString(mark(n.KeyLabel(), n.Match.Key, opts))
		b.WriteString(": ")
	}
	text := n.ValueText()
	if n.Kind == tree.Container && folded(n, opts) {
		text += n.Close()
	}
	b.WriteString(mark(text, n.Match.Value, opts))
	return b.String()
}

func mark(s string, matched bool, opts TreeOptions) string {
	if !matched || opts.Highlight == nil {
		return s
	}
	return opts.Highlight(s)
}

// RenderPaths prints one "path<TAB>text" line per node. With onlyMatches set,
// nodes without a search match are skipped.
func RenderPaths(root *tree.Node, onlyMatches bool) string {
	var b strings.Builder
	tree.Walk(root, func(n *tree.Node) bool {
		if onlyMatches && !n.Match.Any() {
			return true
		}
		b.WriteString(n.Path)
		b.WriteByte('\t')
		b.WriteString(n.ValueText())
		b.WriteByte('\n')
		return true
	})
	return b.String()
}

// Pretty returns the two-space indented JSON text of v followed by a newline.
func Pretty(v jsonvalue.Value) (string, error) {
	out, err := jsonvalue.MarshalIndent(v)
	if err != nil {
		return "", err
	}
	return string(out) + "\n", nil
}
