package tree

import (
	"errors"
	"testing"

	"github.com/oakwood-commons/jvp/pkg/jsonvalue"
)

func nestedDoc() jsonvalue.Value {
	return obj(
		"a", obj("b", jsonvalue.Array{jsonvalue.Number("1"), jsonvalue.Number("2")}),
		"c", jsonvalue.Number("1"),
	)
}

func paths(nodes []*Node) []string {
	out := make([]string, len(nodes))
	for i, n := range nodes {
		out[i] = n.Path
	}
	return out
}

func TestExpandCollapseAll(t *testing.T) {
	root := mustBuild(t, nestedDoc())
	if got := Count(root); got != 6 {
		t.Fatalf("Count = %d, want 6", got)
	}

	CollapseAll(root)
	if got := paths(Visible(root)); len(got) != 1 || got[0] != "$" {
		t.Fatalf("visible after CollapseAll = %v", got)
	}

	ExpandAll(root)
	want := []string{"$", "$.a", "$.a.b", "$.a.b[0]", "$.a.b[1]", "$.c"}
	got := paths(Visible(root))
	if len(got) != len(want) {
		t.Fatalf("visible after ExpandAll = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("visible[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestToggle(t *testing.T) {
	root := mustBuild(t, nestedDoc())
	a := root.Children[0]
	if !Toggle(a) || !a.Collapsed {
		t.Fatalf("first toggle should collapse %s", a.Path)
	}
	if Toggle(a) || a.Collapsed {
		t.Fatalf("second toggle should expand %s", a.Path)
	}

	leaf := root.Children[1]
	if Toggle(leaf) || leaf.Collapsed {
		t.Fatalf("leaf %s must never collapse", leaf.Path)
	}
	SetCollapsed(leaf, true)
	if leaf.Collapsed {
		t.Fatalf("SetCollapsed changed leaf %s", leaf.Path)
	}
}

func TestCarryState(t *testing.T) {
	before := mustBuild(t, nestedDoc())
	SetCollapsed(before.Children[0], true)

	after := mustBuild(t, nestedDoc())
	CarryState(before, after)
	if !after.Children[0].Collapsed {
		t.Fatalf("$.a should stay collapsed after carry")
	}
	if after.Children[0].Children[0].Collapsed {
		t.Fatalf("$.a.b should stay expanded after carry")
	}
}

func TestReveal(t *testing.T) {
	root := mustBuild(t, nestedDoc())
	CollapseAll(root)
	target := root.Children[0].Children[0].Children[1]
	Reveal(target)
	for _, p := range target.Ancestors() {
		if p.Collapsed {
			t.Fatalf("ancestor %s still collapsed", p.Path)
		}
	}
	visible := paths(Visible(root))
	found := false
	for _, p := range visible {
		if p == target.Path {
			found = true
		}
	}
	if !found {
		t.Fatalf("%s not visible after Reveal: %v", target.Path, visible)
	}
}

func TestIndexFind(t *testing.T) {
	root := mustBuild(t, nestedDoc())
	idx, err := NewIndex(root)
	if err != nil {
		t.Fatalf("NewIndex: %v", err)
	}
	if idx.Len() != 6 {
		t.Fatalf("Len = %d, want 6", idx.Len())
	}
	n, ok := idx.Find(`$["a"].b[1]`)
	if !ok || n.Path != "$.a.b[1]" {
		t.Fatalf("Find non-canonical spelling = %v, %v", n, ok)
	}
	if _, ok := idx.Find("$.missing"); ok {
		t.Fatalf("Find should miss $.missing")
	}

	n, err = Find(root, "$.a.b[0]")
	if err != nil || n.ValueText() != "1" {
		t.Fatalf("Find = %v, %v", n, err)
	}
	if _, err := Find(root, "$.a.b[5]"); err == nil {
		t.Fatalf("Find out of range should fail")
	}
}

func TestIndexCollision(t *testing.T) {
	root := &Node{Path: "$", Kind: Container, Children: []*Node{
		{Path: "$.a", Kind: Leaf},
		{Path: "$.a", Kind: Leaf},
	}}
	first := root.Children[0]
	idx, err := NewIndex(root)
	if !errors.Is(err, ErrAddressCollision) {
		t.Fatalf("err = %v, want ErrAddressCollision", err)
	}
	if n, ok := idx.Find("$.a"); !ok || n != first {
		t.Fatalf("collision should keep the first node")
	}
}
