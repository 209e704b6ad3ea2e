package rules

import (
	"fmt"

	"github.com/axeline/axeline/pkg/axtree"
	"github.com/axeline/axeline/pkg/semantic"
)

// NodeContext is the neighborhood view a heuristic evaluates signals and
// guards against.
type NodeContext struct {
	Tree *axtree.Tree
	Node *semantic.Node
}

// Signal is one boolean fact about a node and its neighborhood. Each true
// signal adds one point of confidence.
type Signal struct {
	Name string
	Fn   func(ctx *NodeContext) bool
}

// Guard is a suppression condition. Any true guard cancels reporting for
// the node regardless of the confidence score.
type Guard struct {
	Name string
	Fn   func(ctx *NodeContext) bool
}

// Heuristic is a tunable rule: its signals, guards, and threshold are
// data, so sensitivity changes without touching control flow.
type Heuristic struct {
	Name     string
	Doc      string
	Severity Severity

	// Applies selects candidate nodes from the focus view; nil means
	// every focus node is a candidate.
	Applies func(ctx *NodeContext) bool

	// Physical switches candidate selection to the physical view for
	// structural heuristics.
	Physical bool

	Signals   []Signal
	Guards    []Guard
	Threshold int

	Message func(node *semantic.Node) string
}

// Rule adapts the heuristic to the common rule contract. The confidence
// of each finding is its signal score.
func (h *Heuristic) Rule() *Rule {
	return &Rule{
		Name:     h.Name,
		Doc:      h.Doc,
		Severity: h.Severity,
		Run: func(pass *Pass) error {
			candidates := pass.Tree.AccessibilityFocusNodes()
			if h.Physical {
				candidates = pass.Tree.PhysicalNodes()
			}

			for _, node := range candidates {
				ctx := &NodeContext{Tree: pass.Tree, Node: node}

				if h.Applies != nil && !h.Applies(ctx) {
					continue
				}

				score := h.score(ctx)
				if score < h.Threshold || h.guarded(ctx) {
					continue
				}

				pass.ReportConfidence(node, h.Message(node), score)
			}

			return nil
		},
	}
}

func (h *Heuristic) score(ctx *NodeContext) int {
	score := 0

	for _, signal := range h.Signals {
		if signal.Fn(ctx) {
			score++
		}
	}

	return score
}

func (h *Heuristic) guarded(ctx *NodeContext) bool {
	for _, guard := range h.Guards {
		if guard.Fn(ctx) {
			return true
		}
	}

	return false
}

// DefaultHeuristics returns the built-in heuristics at their default
// thresholds.
func DefaultHeuristics() []*Heuristic {
	return []*Heuristic{
		UnlabeledInferredControl(),
		MultipleFocusableInMerge(),
		LowConfidenceLabel(),
	}
}

// UnlabeledInferredControl targets widgets the synthesizer classified
// heuristically (absent from the metadata table) that look interactive
// but carry no label evidence anywhere in their neighborhood.
func UnlabeledInferredControl() *Heuristic {
	return &Heuristic{
		Name: "unlabeled-inferred-control",
		Doc: "heuristically-classified control appears to lack a label\n\n" +
			"The widget type is not in the metadata table; its classification " +
			"is inferred, so the finding is scored rather than asserted.",
		Severity: SeverityWarning,
		Applies: func(ctx *NodeContext) bool {
			return ctx.Node.Inferred && ctx.Node.Interactive()
		},
		Signals: []Signal{
			{Name: "no-effective-label", Fn: func(ctx *NodeContext) bool {
				return ctx.Node.EffectiveLabel() == nil
			}},
			{Name: "no-label-guarantee", Fn: func(ctx *NodeContext) bool {
				return ctx.Node.Guarantee == semantic.GuaranteeNone
			}},
			{Name: "no-labeled-layout-neighbor", Fn: noLabeledLayoutNeighbor},
		},
		Guards: []Guard{
			{Name: "dynamic-label-present", Fn: func(ctx *NodeContext) bool {
				return ctx.Node.Guarantee >= semantic.GuaranteeDynamic
			}},
			{Name: "labeled-merging-ancestor", Fn: labeledMergingAncestor},
		},
		Threshold: 3,
		Message: func(node *semantic.Node) string {
			return fmt.Sprintf("%s appears interactive but no label evidence was found nearby", node.WidgetType)
		},
	}
}

// noLabeledLayoutNeighbor reports true when no co-occurring member of the
// node's layout group offers a static label. Mutually exclusive branch
// siblings do not count as neighbors: they are never on screen together.
func noLabeledLayoutNeighbor(ctx *NodeContext) bool {
	for _, neighbor := range ctx.Tree.SameLayoutGroup(ctx.Node.ID) {
		if neighbor.ID == ctx.Node.ID || ctx.Node.MutuallyExclusiveWith(neighbor) {
			continue
		}

		if neighbor.Guarantee == semantic.GuaranteeStatic {
			return false
		}
	}

	return true
}

func labeledMergingAncestor(ctx *NodeContext) bool {
	for _, ancestor := range ctx.Tree.Ancestors(ctx.Node.ID) {
		if ancestor.Merges && ancestor.EffectiveLabel() != nil {
			return true
		}
	}

	return false
}

// MultipleFocusableInMerge flags merge boundaries that collapse more than
// one focusable control into a single announcement. The focusable count
// is branch-aware: alternatives of one unresolved conditional count once,
// because both can never exist simultaneously.
func MultipleFocusableInMerge() *Heuristic {
	return &Heuristic{
		Name: "multiple-focusable-in-merge",
		Doc: "merge boundary hides multiple focusable controls\n\n" +
			"Merging makes descendants unreachable individually; more than one " +
			"focusable descendant means lost functionality.",
		Severity: SeverityWarning,
		Physical: true,
		Applies: func(ctx *NodeContext) bool {
			return ctx.Node.Merges
		},
		Signals: []Signal{
			{Name: "multiple-cooccurring-focusables", Fn: func(ctx *NodeContext) bool {
				return countCooccurringFocusables(ctx.Node) > 1
			}},
		},
		Threshold: 1,
		Message: func(node *semantic.Node) string {
			return fmt.Sprintf("%s merges multiple focusable descendants into one announcement", node.WidgetType)
		},
	}
}

// countCooccurringFocusables counts focusable descendants that can be on
// screen at the same time: each branch group contributes at most once.
func countCooccurringFocusables(node *semantic.Node) int {
	count := 0
	seenGroups := make(map[int]bool)

	var walk func(n *semantic.Node)

	walk = func(n *semantic.Node) {
		if n.Excludes {
			return
		}

		if n.BranchGroup != 0 {
			if seenGroups[n.BranchGroup] {
				return
			}

			seenGroups[n.BranchGroup] = true
		}

		if n.State.Focusable && n.State.Enabled {
			count++
		}

		for _, child := range n.Children {
			walk(child)
		}
	}

	for _, child := range node.Children {
		walk(child)
	}

	return count
}

// LowConfidenceLabel surfaces controls whose only label evidence is
// dynamic: present at runtime, content unknown statically.
func LowConfidenceLabel() *Heuristic {
	return &Heuristic{
		Name: "low-confidence-label",
		Doc: "control label exists but cannot be verified statically\n\n" +
			"Dynamic labels are frequently empty in some program states; worth " +
			"a manual check.",
		Severity: SeverityInfo,
		Applies: func(ctx *NodeContext) bool {
			return ctx.Node.Interactive()
		},
		Signals: []Signal{
			{Name: "dynamic-guarantee", Fn: func(ctx *NodeContext) bool {
				return ctx.Node.Guarantee == semantic.GuaranteeDynamic
			}},
			{Name: "no-static-text", Fn: func(ctx *NodeContext) bool {
				return ctx.Node.EffectiveLabel() == nil
			}},
		},
		Guards: []Guard{
			{Name: "value-present", Fn: func(ctx *NodeContext) bool {
				return ctx.Node.Value != nil
			}},
		},
		Threshold: 2,
		Message: func(node *semantic.Node) string {
			return fmt.Sprintf("%s has a label whose content is only known at runtime", node.WidgetType)
		},
	}
}
