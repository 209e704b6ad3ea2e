// Package semantic builds the accessibility IR: a framework-agnostic
// approximation of the tree a runtime accessibility service would expose,
// synthesized statically from a construction tree.
package semantic

import (
	"github.com/axeline/axeline/pkg/metadata"
	"github.com/axeline/axeline/pkg/resolved"
)

// LabelGuarantee is the confidence level that a node has a usable
// accessible label. Values are ordered; merging takes the maximum, which
// makes the fold over children monotone, associative, and idempotent.
type LabelGuarantee int

// LabelGuarantee constants, in increasing confidence order.
const (
	GuaranteeNone LabelGuarantee = iota
	GuaranteeDynamic
	GuaranteeStatic
)

// String returns the guarantee name.
func (g LabelGuarantee) String() string {
	switch g {
	case GuaranteeNone:
		return "none"
	case GuaranteeDynamic:
		return "hasLabelButDynamic"
	case GuaranteeStatic:
		return "hasStaticLabel"
	default:
		return "unknown"
	}
}

// Merge combines two guarantees, keeping the stronger one.
func (g LabelGuarantee) Merge(other LabelGuarantee) LabelGuarantee {
	if other > g {
		return other
	}

	return g
}

// InteractionState holds instance-resolved interaction facts. Unlike the
// capability flags in metadata, these reflect the concrete construction
// site: a button whose press callback is a literal null is not enabled.
type InteractionState struct {
	Focusable     bool
	Tappable      bool
	LongPressable bool
	Adjustable    bool
	Scrollable    bool
	Dismissible   bool
	Enabled       bool

	// Toggled and Checked are nil when the widget has no such state or
	// the value is not statically known.
	Toggled *bool
	Checked *bool
}

// Node is one node of the semantic IR.
type Node struct {
	// WidgetType is the originating widget-type name.
	WidgetType string

	// Pos is the source span of the originating construction site.
	Pos resolved.Span

	Role    metadata.Role
	Control metadata.ControlKind
	State   InteractionState

	// Label is a direct override or property-derived label.
	// ExplicitChildLabel aggregates descendant labels under merge
	// semantics. Tooltip is kept separate so rules can distinguish a
	// labelled control from one that merely has a tooltip.
	Label              *string
	Tooltip            *string
	ExplicitChildLabel *string
	Value              *string

	Guarantee LabelGuarantee
	Source    metadata.LabelSource

	// Inferred marks nodes produced by the narrow heuristic for widgets
	// absent from the metadata table, distinguishing them from exact
	// metadata-derived nodes.
	Inferred bool

	// Boundary flags mirroring the metadata semantics.
	Merges   bool
	Excludes bool
	Blocks   bool

	// SemanticIndex is a statically-resolved index from an index wrapper.
	SemanticIndex *int

	// Branch identity copied through from the construction node.
	BranchGroup int
	BranchValue bool

	Children []*Node

	// Annotation fields, assigned by the tree annotator. Zero until then.
	ID            int
	ParentID      int
	SiblingIndex  int
	Depth         int
	PreOrderIndex int

	// FocusIndex is present only for nodes an accessibility focus
	// traversal would stop on.
	FocusIndex *int

	// LayoutGroup and ListItemGroup are nonzero when the annotator placed
	// the node in a heuristic neighborhood group.
	LayoutGroup     int
	ListItemGroup   int
	ListItemPrimary bool
}

// EffectiveLabel returns the first non-empty of label, tooltip, and
// aggregated child label, or nil when all three are absent.
func (n *Node) EffectiveLabel() *string {
	for _, candidate := range []*string{n.Label, n.Tooltip, n.ExplicitChildLabel} {
		if candidate != nil && *candidate != "" {
			return candidate
		}
	}

	return nil
}

// Interactive reports whether the node exposes any user action.
func (n *Node) Interactive() bool {
	return n.State.Tappable || n.State.LongPressable || n.State.Adjustable ||
		n.Control != metadata.ControlNone && n.Control != ""
}

// MutuallyExclusiveWith reports whether the two nodes were produced by the
// same unresolved conditional with different branch values, meaning they
// can never co-occur at runtime.
func (n *Node) MutuallyExclusiveWith(other *Node) bool {
	if n == nil || other == nil {
		return false
	}

	return n.BranchGroup != 0 &&
		n.BranchGroup == other.BranchGroup &&
		n.BranchValue != other.BranchValue
}

// VisitPreOrder visits the subtree rooted at n in pre-order.
func (n *Node) VisitPreOrder(fn func(*Node)) {
	if n == nil {
		return
	}

	stack := []*Node{n}

	for len(stack) > 0 {
		curr := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		fn(curr)

		for idx := len(curr.Children) - 1; idx >= 0; idx-- {
			stack = append(stack, curr.Children[idx])
		}
	}
}
