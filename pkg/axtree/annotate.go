// Package axtree annotates a semantic tree with stable identifiers and
// traversal orders, and exposes the annotated views rule authors consume:
// the full physical node list, the accessibility-focus view, and
// neighborhood queries.
package axtree

import (
	"github.com/axeline/axeline/pkg/metadata"
	"github.com/axeline/axeline/pkg/semantic"
)

// Tree wraps an annotated semantic root with its derived views.
// AccessibilityFocusNodes is always a subset of PhysicalNodes.
type Tree struct {
	Root *semantic.Node

	physical []*semantic.Node
	focus    []*semantic.Node
	byID     map[int]*semantic.Node
}

// annotator carries the counters for one annotation pass.
type annotator struct {
	nextID        int
	nextPreOrder  int
	nextFocus     int
	nextLayout    int
	nextListGroup int

	physical []*semantic.Node
	focus    []*semantic.Node
	byID     map[int]*semantic.Node
}

// Annotate assigns ids, orders, focus indexes, and grouping identifiers in
// a single deterministic pass. Annotating the same tree again produces
// identical assignments.
func Annotate(root *semantic.Node) *Tree {
	ann := &annotator{byID: make(map[int]*semantic.Node)}

	if root != nil {
		ann.visit(root, 0, 0, 0, false)
	}

	return &Tree{
		Root:     root,
		physical: ann.physical,
		focus:    ann.focus,
		byID:     ann.byID,
	}
}

//nolint:cyclop // Single deterministic pass; splitting obscures the order.
func (ann *annotator) visit(n *semantic.Node, parentID, depth, siblingIdx int, hidden bool) {
	ann.nextID++
	n.ID = ann.nextID
	n.ParentID = parentID
	n.Depth = depth
	n.SiblingIndex = siblingIdx
	n.PreOrderIndex = ann.nextPreOrder
	ann.nextPreOrder++

	// Reset annotation state from any previous pass so re-annotation is
	// idempotent for identical input trees.
	n.FocusIndex = nil
	n.LayoutGroup = 0
	n.ListItemGroup = 0
	n.ListItemPrimary = false

	ann.physical = append(ann.physical, n)
	ann.byID[n.ID] = n

	if !hidden && n.State.Focusable && n.State.Enabled {
		focusIdx := ann.nextFocus
		ann.nextFocus++
		n.FocusIndex = &focusIdx
		ann.focus = append(ann.focus, n)
	}

	// A merging or excluding node hides every descendant from the focus
	// traversal; the flag accumulates with OR down the tree.
	childHidden := hidden || n.Merges || n.Excludes

	// A blocking child shields the siblings behind it (earlier in paint
	// order) from assistive technology.
	lastBlock := -1

	for idx, child := range n.Children {
		if child.Blocks {
			lastBlock = idx
		}
	}

	for idx, child := range n.Children {
		blocked := idx < lastBlock

		ann.visit(child, n.ID, depth+1, idx, childHidden || blocked)
	}

	ann.assignLayoutGroup(n)
	ann.assignListItemGroups(n)
}

// assignLayoutGroup gives the immediate children of container nodes a
// shared group id when there is more than one child.
func (ann *annotator) assignLayoutGroup(n *semantic.Node) {
	if len(n.Children) < 2 {
		return
	}

	container := n.Role == metadata.RoleContainer || n.Role == metadata.RoleList
	if !container {
		return
	}

	ann.nextLayout++

	for _, child := range n.Children {
		child.LayoutGroup = ann.nextLayout
	}
}

// assignListItemGroups groups maximal contiguous runs of list-item-like
// children and marks the first member of each run as primary.
func (ann *annotator) assignListItemGroups(n *semantic.Node) {
	group := 0

	for _, child := range n.Children {
		if !listItemLike(child) {
			group = 0

			continue
		}

		if group == 0 {
			ann.nextListGroup++
			group = ann.nextListGroup
			child.ListItemPrimary = true
		}

		child.ListItemGroup = group
	}
}

func listItemLike(n *semantic.Node) bool {
	return n.SemanticIndex != nil || n.Role == metadata.RoleListItem
}

// PhysicalNodes returns every node in pre-order, including descendants
// hidden from accessibility.
func (t *Tree) PhysicalNodes() []*semantic.Node {
	return t.physical
}

// AccessibilityFocusNodes returns, in traversal order, exactly the nodes
// an assistive-technology focus traversal would stop on.
func (t *Tree) AccessibilityFocusNodes() []*semantic.Node {
	return t.focus
}

// ByID returns the node with the given annotator-assigned id.
func (t *Tree) ByID(id int) (*semantic.Node, bool) {
	n, ok := t.byID[id]

	return n, ok
}
