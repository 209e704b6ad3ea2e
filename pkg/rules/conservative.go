package rules

import (
	"fmt"

	"github.com/axeline/axeline/pkg/metadata"
	"github.com/axeline/axeline/pkg/semantic"
)

// MissingLabelRule flags interactive focus targets with no label of any
// provenance. It operates on the accessibility-focus view only, so nodes
// labelled by an ancestor merge boundary never reach it; that keeps the
// check conservative by construction.
func MissingLabelRule() *Rule {
	return &Rule{
		Name: "missing-label",
		Doc: "interactive element has no accessible label\n\n" +
			"A control reachable by assistive-technology focus exposes no label, " +
			"tooltip, or merged child label, and no dynamic label was detected.",
		Severity: SeverityError,
		Run: func(pass *Pass) error {
			for _, node := range pass.Tree.AccessibilityFocusNodes() {
				if !needsLabel(node) {
					continue
				}

				if node.EffectiveLabel() == nil && node.Guarantee == semantic.GuaranteeNone {
					pass.Report(node, fmt.Sprintf(
						"%s is focusable but has no accessible label", node.WidgetType))
				}
			}

			return nil
		},
	}
}

func needsLabel(node *semantic.Node) bool {
	if node.Role == metadata.RoleText {
		return false
	}

	return node.Interactive()
}

// DoubleAnnouncementRule flags merge boundaries that supply an explicit
// label while descendant labels still fold in: assistive technology would
// announce both. Wrapping the child in an exclude boundary suppresses the
// fold and the finding.
func DoubleAnnouncementRule() *Rule {
	return &Rule{
		Name: "double-announcement",
		Doc: "explicit label competes with merged descendant labels\n\n" +
			"A semantics boundary overrides the label and also aggregates a " +
			"different label from its descendants.",
		Severity: SeverityWarning,
		Run: func(pass *Pass) error {
			for _, node := range pass.Tree.PhysicalNodes() {
				if !node.Merges || node.Label == nil || node.ExplicitChildLabel == nil {
					continue
				}

				if *node.Label == "" || *node.ExplicitChildLabel == "" {
					continue
				}

				if *node.Label == *node.ExplicitChildLabel {
					continue
				}

				pass.Report(node, fmt.Sprintf(
					"label %q will be announced together with descendant label %q",
					*node.Label, *node.ExplicitChildLabel))
			}

			return nil
		},
	}
}

// RedundantWrappingRule flags a merge boundary whose only child is itself
// a merge boundary contributing nothing of its own. Structural pattern
// checks like this one inspect the physical view, since the inner node is
// hidden from focus traversal.
func RedundantWrappingRule() *Rule {
	return &Rule{
		Name: "redundant-wrapping",
		Doc: "nested merge boundaries are redundant\n\n" +
			"A merge wrapper directly wraps another merging node and adds no " +
			"label or interaction of its own.",
		Severity: SeverityInfo,
		Run: func(pass *Pass) error {
			for _, node := range pass.Tree.PhysicalNodes() {
				if !node.Merges || len(node.Children) != 1 {
					continue
				}

				child := node.Children[0]
				if !child.Merges {
					continue
				}

				if node.Label != nil || node.Tooltip != nil || node.Interactive() {
					continue
				}

				pass.Report(node, fmt.Sprintf(
					"%s wraps %s which already merges its descendants",
					node.WidgetType, child.WidgetType))
			}

			return nil
		},
	}
}
