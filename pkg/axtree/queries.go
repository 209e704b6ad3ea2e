package axtree

import (
	"github.com/axeline/axeline/pkg/semantic"
)

// maxAncestorHops bounds ancestor-chain walks. A well-formed tree can
// never exceed it; a corrupted parent relation returns empty instead of
// looping.
const maxAncestorHops = 512

// ParentOf returns the parent of the node with the given id, or nil for
// the root and unknown ids.
func (t *Tree) ParentOf(id int) *semantic.Node {
	n, ok := t.byID[id]
	if !ok || n.ParentID == 0 {
		return nil
	}

	return t.byID[n.ParentID]
}

// SiblingsOf returns the other children of the node's parent, in sibling
// order.
func (t *Tree) SiblingsOf(id int) []*semantic.Node {
	parent := t.ParentOf(id)
	if parent == nil {
		return nil
	}

	siblings := make([]*semantic.Node, 0, len(parent.Children)-1)

	for _, child := range parent.Children {
		if child.ID != id {
			siblings = append(siblings, child)
		}
	}

	return siblings
}

// SameLayoutGroup returns all nodes sharing the node's layout group,
// including the node itself. Nodes outside any group yield nil.
func (t *Tree) SameLayoutGroup(id int) []*semantic.Node {
	n, ok := t.byID[id]
	if !ok || n.LayoutGroup == 0 {
		return nil
	}

	return t.collect(func(candidate *semantic.Node) bool {
		return candidate.LayoutGroup == n.LayoutGroup
	})
}

// SameListItemGroup returns all nodes in the node's list-item run,
// including the node itself.
func (t *Tree) SameListItemGroup(id int) []*semantic.Node {
	n, ok := t.byID[id]
	if !ok || n.ListItemGroup == 0 {
		return nil
	}

	return t.collect(func(candidate *semantic.Node) bool {
		return candidate.ListItemGroup == n.ListItemGroup
	})
}

// AreMutuallyExclusive reports whether the two nodes were produced by the
// same unresolved conditional with different branch values and therefore
// can never co-occur at runtime.
func (t *Tree) AreMutuallyExclusive(idA, idB int) bool {
	a, okA := t.byID[idA]
	b, okB := t.byID[idB]

	if !okA || !okB {
		return false
	}

	return a.MutuallyExclusiveWith(b)
}

// Ancestors returns the chain from the node's parent up to the root. The
// walk is hop-bounded; a malformed parent relation yields nil.
func (t *Tree) Ancestors(id int) []*semantic.Node {
	var chain []*semantic.Node

	current, ok := t.byID[id]
	if !ok {
		return nil
	}

	for hops := 0; current.ParentID != 0; hops++ {
		if hops >= maxAncestorHops {
			return nil
		}

		parent, exists := t.byID[current.ParentID]
		if !exists {
			return nil
		}

		chain = append(chain, parent)
		current = parent
	}

	return chain
}

// NextFocus returns the focus node after the given node in traversal
// order, or nil at the end of the focus order.
func (t *Tree) NextFocus(id int) *semantic.Node {
	n, ok := t.byID[id]
	if !ok || n.FocusIndex == nil {
		return nil
	}

	next := *n.FocusIndex + 1
	if next >= len(t.focus) {
		return nil
	}

	return t.focus[next]
}

func (t *Tree) collect(match func(*semantic.Node) bool) []*semantic.Node {
	var out []*semantic.Node

	for _, n := range t.physical {
		if match(n) {
			out = append(out, n)
		}
	}

	return out
}
