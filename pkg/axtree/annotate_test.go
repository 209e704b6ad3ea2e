package axtree_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/axeline/axeline/pkg/axtree"
	"github.com/axeline/axeline/pkg/metadata"
	"github.com/axeline/axeline/pkg/semantic"
)

func container(children ...*semantic.Node) *semantic.Node {
	return &semantic.Node{
		WidgetType: "Column",
		Role:       metadata.RoleContainer,
		State:      semantic.InteractionState{Enabled: true},
		Children:   children,
	}
}

func button(label string) *semantic.Node {
	n := &semantic.Node{
		WidgetType: "ElevatedButton",
		Role:       metadata.RoleButton,
		Control:    metadata.ControlButton,
		State:      semantic.InteractionState{Focusable: true, Tappable: true, Enabled: true},
		Merges:     true,
		Guarantee:  semantic.GuaranteeStatic,
	}

	if label != "" {
		n.Label = &label
	}

	return n
}

func text(value string) *semantic.Node {
	return &semantic.Node{
		WidgetType: "Text",
		Role:       metadata.RoleText,
		State:      semantic.InteractionState{Enabled: true},
		Label:      &value,
		Guarantee:  semantic.GuaranteeStatic,
	}
}

func TestAnnotate_PreOrderIsDense(t *testing.T) {
	t.Parallel()

	tree := axtree.Annotate(container(
		button("a"),
		container(text("b"), button("c")),
	))

	physical := tree.PhysicalNodes()
	require.Len(t, physical, 5)

	for i, n := range physical {
		assert.Equal(t, i, n.PreOrderIndex)

		if n.ParentID != 0 {
			parent, ok := tree.ByID(n.ParentID)
			require.True(t, ok)
			assert.Greater(t, n.PreOrderIndex, parent.PreOrderIndex)
		}
	}
}

func TestAnnotate_FocusNodesAreSubsetOfPhysical(t *testing.T) {
	t.Parallel()

	tree := axtree.Annotate(container(
		button("a"),
		container(text("plain"), button("b")),
	))

	byPointer := make(map[*semantic.Node]bool)
	for _, n := range tree.PhysicalNodes() {
		byPointer[n] = true
	}

	for i, n := range tree.AccessibilityFocusNodes() {
		assert.True(t, byPointer[n])
		require.NotNil(t, n.FocusIndex)
		assert.Equal(t, i, *n.FocusIndex)
		assert.True(t, n.State.Focusable)
		assert.True(t, n.State.Enabled)
	}
}

func TestAnnotate_MergeHidesDescendantsFromFocus(t *testing.T) {
	t.Parallel()

	inner := button("hidden")
	merging := button("outer")
	merging.Children = []*semantic.Node{inner}

	tree := axtree.Annotate(container(merging))

	focus := tree.AccessibilityFocusNodes()
	require.Len(t, focus, 1)
	assert.Same(t, merging, focus[0])
	assert.Nil(t, inner.FocusIndex)

	// The hidden node is still physically present.
	assert.Len(t, tree.PhysicalNodes(), 3)
}

func TestAnnotate_ExcludeHidesSubtree(t *testing.T) {
	t.Parallel()

	inner := button("decorative")
	excluding := &semantic.Node{
		WidgetType: "ExcludeSemantics",
		Role:       metadata.RoleContainer,
		Excludes:   true,
		Children:   []*semantic.Node{inner},
	}

	tree := axtree.Annotate(container(excluding, button("real")))

	focus := tree.AccessibilityFocusNodes()
	require.Len(t, focus, 1)
	assert.Equal(t, "real", *focus[0].Label)
}

func TestAnnotate_BlockShieldsEarlierSiblings(t *testing.T) {
	t.Parallel()

	behind := button("behind")
	modal := &semantic.Node{
		WidgetType: "BlockSemantics",
		Role:       metadata.RoleContainer,
		State:      semantic.InteractionState{Enabled: true},
		Blocks:     true,
		Children:   []*semantic.Node{button("dialog")},
	}

	tree := axtree.Annotate(container(behind, modal))

	focus := tree.AccessibilityFocusNodes()
	require.Len(t, focus, 1)
	assert.Equal(t, "dialog", *focus[0].Label)
	assert.Nil(t, behind.FocusIndex)
}

func TestAnnotate_Idempotent(t *testing.T) {
	t.Parallel()

	root := container(
		button("a"),
		container(text("b"), button("c")),
	)

	first := axtree.Annotate(root)

	type snapshot struct {
		id, pre, depth int
		focus          *int
	}

	capture := func(tree *axtree.Tree) []snapshot {
		out := make([]snapshot, 0, len(tree.PhysicalNodes()))

		for _, n := range tree.PhysicalNodes() {
			var focus *int
			if n.FocusIndex != nil {
				v := *n.FocusIndex
				focus = &v
			}

			out = append(out, snapshot{id: n.ID, pre: n.PreOrderIndex, depth: n.Depth, focus: focus})
		}

		return out
	}

	before := capture(first)
	after := capture(axtree.Annotate(root))

	assert.Equal(t, before, after)
}

func TestAnnotate_LayoutGroups(t *testing.T) {
	t.Parallel()

	a, b := button("a"), button("b")
	lone := button("lone")

	tree := axtree.Annotate(container(container(a, b), container(lone)))

	assert.NotZero(t, a.LayoutGroup)
	assert.Equal(t, a.LayoutGroup, b.LayoutGroup)
	assert.Zero(t, lone.LayoutGroup, "single children form no group")

	group := tree.SameLayoutGroup(a.ID)
	assert.Len(t, group, 2)
}

func TestAnnotate_ListItemRuns(t *testing.T) {
	t.Parallel()

	item := func() *semantic.Node {
		return &semantic.Node{
			WidgetType: "ListTile",
			Role:       metadata.RoleListItem,
			State:      semantic.InteractionState{Focusable: true, Tappable: true, Enabled: true},
		}
	}

	first, second, third := item(), item(), item()
	divider := text("---")

	tree := axtree.Annotate(container(first, second, divider, third))

	assert.Equal(t, first.ListItemGroup, second.ListItemGroup)
	assert.NotZero(t, first.ListItemGroup)
	assert.True(t, first.ListItemPrimary)
	assert.False(t, second.ListItemPrimary)

	// The divider breaks the run; the third item starts a new group.
	assert.NotEqual(t, first.ListItemGroup, third.ListItemGroup)
	assert.True(t, third.ListItemPrimary)

	run := tree.SameListItemGroup(first.ID)
	assert.Len(t, run, 2)
}

func TestAnnotate_NilRoot(t *testing.T) {
	t.Parallel()

	tree := axtree.Annotate(nil)

	assert.Empty(t, tree.PhysicalNodes())
	assert.Empty(t, tree.AccessibilityFocusNodes())
}
