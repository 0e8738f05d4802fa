package ui

import (
	"strings"

	"github.com/oakwood-commons/jvp/pkg/jsonvalue"
	"github.com/oakwood-commons/jvp/pkg/tree"
)

const (
	glyphExpanded = "▼"
	glyphFolded   = "▶"
	indentUnit    = "  "
)

// row is one line of the tree pane: the header of a node or the closing
// bracket of an expanded container.
type row struct {
	node    *tree.Node
	closing bool
}

// buildRows flattens the visible part of the tree.
func buildRows(root *tree.Node) []row {
	var rows []row
	var walk func(n *tree.Node)
	walk = func(n *tree.Node) {
		rows = append(rows, row{node: n})
		if n.Kind != tree.Container || n.Collapsed {
			return
		}
		for _, c := range n.Children {
			walk(c)
		}
		rows = append(rows, row{node: n, closing: true})
	}
	if root != nil {
		walk(root)
	}
	return rows
}

// rowIndex returns the header row of the node at path, or -1.
func rowIndex(rows []row, path string) int {
	for i, r := range rows {
		if !r.closing && r.node.Path == path {
			return i
		}
	}
	return -1
}

// renderRow draws one row without selection styling.
func renderRow(r row, st styles) string {
	n := r.node
	var b strings.Builder
	b.WriteString(strings.Repeat(indentUnit, n.Depth))
	if r.closing {
		b.WriteString(indentUnit)
		b.WriteString(st.bracket.Render(n.Close()))
		return b.String()
	}
	if n.Kind == tree.Container {
		glyph := glyphExpanded
		if n.Collapsed {
			glyph = glyphFolded
		}
		b.WriteString(st.toggle.Render(glyph))
		b.WriteByte(' ')
	} else {
		b.WriteString(indentUnit)
	}
	if !n.Key.IsNone() {
		key := st.key.Render(n.KeyLabel())
		if n.Match.Key {
			key = st.match.Render(n.KeyLabel())
		}
		b.WriteString(key)
		b.WriteString(": ")
	}
	b.WriteString(renderValue(n, st))
	return b.String()
}

func renderValue(n *tree.Node, st styles) string {
	if n.Kind == tree.Container {
		text := st.bracket.Render(n.Open()) + st.summary.Render(n.Summary())
		if n.Match.Value {
			text = st.match.Render(n.Open() + n.Summary())
		}
		if n.Collapsed {
			text += st.bracket.Render(n.Close())
		}
		return text
	}
	text := n.ValueText()
	if n.Match.Value {
		return st.match.Render(text)
	}
	if n.Link {
		return st.link.Render(text)
	}
	switch n.Value.(type) {
	case jsonvalue.String:
		return st.str.Render(text)
	case jsonvalue.Number:
		return st.num.Render(text)
	case jsonvalue.Bool:
		return st.boolean.Render(text)
	default:
		return st.null.Render(text)
	}
}

// plainRow is the row text with no styling at all.
func plainRow(r row) string {
	return renderRow(r, newStyles(Theme{}, true).unstyled())
}

func (s styles) unstyled() styles {
	s.match = s.key
	s.selected = s.key
	return s
}
