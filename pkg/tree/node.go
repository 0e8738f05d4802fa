// Package tree turns a JSON value into a tree of addressable nodes that a
// viewer can render, fold and search.
package tree

import (
	"strconv"

	"github.com/oakwood-commons/jvp/pkg/jsonvalue"
)

// Kind separates nodes that hold children from scalar leaves.
type Kind int

const (
	Leaf Kind = iota
	Container
)

func (k Kind) String() string {
	if k == Container {
		return "container"
	}
	return "leaf"
}

type keyKind int

const (
	keyNone keyKind = iota
	keyName
	keyIndex
)

// Key is the property name or array index under which a node sits. The root
// has no key.
type Key struct {
	kind  keyKind
	name  string
	index int
}

// NoKey is the key of the root node.
var NoKey = Key{}

// NameKey returns the key of an object member.
func NameKey(name string) Key { return Key{kind: keyName, name: name} }

// IndexKey returns the key of an array item.
func IndexKey(i int) Key { return Key{kind: keyIndex, index: i} }

// IsNone reports whether the key is absent.
func (k Key) IsNone() bool { return k.kind == keyNone }

// Name returns the property name for object members.
func (k Key) Name() (string, bool) { return k.name, k.kind == keyName }

// Index returns the position for array items.
func (k Key) Index() (int, bool) { return k.index, k.kind == keyIndex }

// Label is the displayed key: the JSON-quoted name for members, the bare
// index for items and empty for the root.
func (k Key) Label() string {
	switch k.kind {
	case keyName:
		return jsonvalue.Quote(k.name)
	case keyIndex:
		return strconv.Itoa(k.index)
	default:
		return ""
	}
}

// Match records which parts of a node's own text matched the last search.
type Match struct {
	Key   bool
	Value bool
}

// Any reports whether either part matched.
func (m Match) Any() bool { return m.Key || m.Value }

// Node is one position in the rendered tree.
type Node struct {
	Value     jsonvalue.Value
	Key       Key
	Path      string
	Depth     int
	Kind      Kind
	Collapsed bool
	Children  []*Node

	// Link marks string leaves that look like http(s) URLs.
	Link bool

	// Match and Revealed are owned by the search package.
	Match    Match
	Revealed bool

	parent *Node
}

// Parent returns the enclosing node, nil for the root.
func (n *Node) Parent() *Node { return n.parent }

// IsContainer reports whether the node wraps an object or array.
func (n *Node) IsContainer() bool { return n.Kind == Container }

// IsArray reports whether the node wraps an array.
func (n *Node) IsArray() bool {
	_, ok := n.Value.(jsonvalue.Array)
	return ok
}

// Count returns the number of children.
func (n *Node) Count() int { return len(n.Children) }

// Ancestors returns the chain from the parent up to the root.
func (n *Node) Ancestors() []*Node {
	var out []*Node
	for p := n.parent; p != nil; p = p.parent {
		out = append(out, p)
	}
	return out
}
