package tree

import (
	"fmt"

	"github.com/oakwood-commons/jvp/pkg/jsonvalue"
)

// KeyLabel is the node's displayed key, empty for the root.
func (n *Node) KeyLabel() string { return n.Key.Label() }

// ValueText is the displayed text of a leaf: strings JSON-quoted, other
// scalars as their JSON literal. Containers return their summary.
func (n *Node) ValueText() string {
	switch v := n.Value.(type) {
	case jsonvalue.String:
		return jsonvalue.Quote(string(v))
	case jsonvalue.Number:
		return string(v)
	case jsonvalue.Bool:
		if v {
			return "true"
		}
		return "false"
	case jsonvalue.Null:
		return "null"
	default:
		return n.Open() + n.Summary()
	}
}

// Open returns the opening bracket of a container.
func (n *Node) Open() string {
	if n.Kind != Container {
		return ""
	}
	if n.IsArray() {
		return "["
	}
	return "{"
}

// Close returns the closing bracket of a container.
func (n *Node) Close() string {
	if n.Kind != Container {
		return ""
	}
	if n.IsArray() {
		return "]"
	}
	return "}"
}

// Summary describes a container's size: "1 item", "3 keys".
func (n *Node) Summary() string {
	if n.Kind != Container {
		return ""
	}
	unit := "key"
	if n.IsArray() {
		unit = "item"
	}
	return plural(len(n.Children), unit)
}

func plural(count int, unit string) string {
	if count == 1 {
		return fmt.Sprintf("%d %s", count, unit)
	}
	return fmt.Sprintf("%d %ss", count, unit)
}

// HeaderText is the full single-line text of a node: key label, colon and
// value text.
func (n *Node) HeaderText() string {
	if n.Key.IsNone() {
		return n.ValueText()
	}
	return n.KeyLabel() + ": " + n.ValueText()
}

// URL returns the link target of a link leaf.
func (n *Node) URL() (string, bool) {
	if !n.Link {
		return "", false
	}
	s, ok := n.Value.(jsonvalue.String)
	return string(s), ok
}

// CopyValue is the clipboard payload for a node's value: string leaves copy
// their raw text, other leaves their JSON literal and containers their
// pretty JSON.
func (n *Node) CopyValue() (string, error) {
	switch v := n.Value.(type) {
	case jsonvalue.String:
		return string(v), nil
	case jsonvalue.Array, *jsonvalue.Object:
		out, err := jsonvalue.MarshalIndent(v)
		if err != nil {
			return "", err
		}
		return string(out), nil
	default:
		out, err := jsonvalue.Marshal(v)
		if err != nil {
			return "", err
		}
		return string(out), nil
	}
}

// Materialize rebuilds a JSON value from the node structure alone, using
// child keys and leaf values rather than the container's stored value.
func Materialize(n *Node) jsonvalue.Value {
	if n.Kind == Leaf {
		return n.Value
	}
	if n.IsArray() {
		arr := make(jsonvalue.Array, 0, len(n.Children))
		for _, c := range n.Children {
			arr = append(arr, Materialize(c))
		}
		return arr
	}
	obj := jsonvalue.NewObject(len(n.Children))
	for _, c := range n.Children {
		name, _ := c.Key.Name()
		obj.Set(name, Materialize(c))
	}
	return obj
}
