package tree

import (
	"errors"
	"fmt"
	"regexp"

	"github.com/oakwood-commons/jvp/pkg/jsonvalue"
)

var (
	// ErrInvalidValue is returned when the input is not one of the six JSON kinds.
	ErrInvalidValue = errors.New("invalid value")
	// ErrAddressCollision reports two nodes sharing one address.
	ErrAddressCollision = errors.New("address collision")
)

// Containers deeper than CollapseDepth holding more than CollapseCount
// children start collapsed.
const (
	CollapseDepth = 1
	CollapseCount = 10
)

var linkPattern = regexp.MustCompile(`^https?://`)

// BuildRoot builds the tree for a whole document.
func BuildRoot(value jsonvalue.Value) (*Node, error) {
	return Build(value, NoKey, 0, RootPath)
}

// Build materializes value and everything below it. path must be "$" or an
// address produced by ChildPath. Nothing is returned on error.
func Build(value jsonvalue.Value, key Key, depth int, path string) (*Node, error) {
	if depth < 0 {
		return nil, fmt.Errorf("%w: negative depth %d", ErrInvalidPath, depth)
	}
	if _, err := ParsePath(path); err != nil {
		return nil, err
	}
	return build(value, key, depth, path, nil)
}

func build(value jsonvalue.Value, key Key, depth int, path string, parent *Node) (*Node, error) {
	kind, err := jsonvalue.KindOf(value)
	if err != nil {
		return nil, fmt.Errorf("%w at %s: %w", ErrInvalidValue, path, err)
	}
	node := &Node{
		Value:  value,
		Key:    key,
		Path:   path,
		Depth:  depth,
		parent: parent,
	}
	switch kind {
	case jsonvalue.KindArray:
		arr := value.(jsonvalue.Array)
		node.Kind = Container
		node.Children = make([]*Node, 0, len(arr))
		for i, item := range arr {
			k := IndexKey(i)
			child, err := build(item, k, depth+1, ChildPath(path, k), node)
			if err != nil {
				return nil, err
			}
			node.Children = append(node.Children, child)
		}
	case jsonvalue.KindObject:
		obj := value.(*jsonvalue.Object)
		node.Kind = Container
		node.Children = make([]*Node, 0, obj.Len())
		for _, m := range obj.Members {
			k := NameKey(m.Key)
			child, err := build(m.Value, k, depth+1, ChildPath(path, k), node)
			if err != nil {
				return nil, err
			}
			node.Children = append(node.Children, child)
		}
	case jsonvalue.KindString:
		node.Kind = Leaf
		node.Link = linkPattern.MatchString(string(value.(jsonvalue.String)))
	default:
		node.Kind = Leaf
	}
	if node.Kind == Container {
		node.Collapsed = depth > CollapseDepth && len(node.Children) > CollapseCount
	}
	return node, nil
}
