package semantic

import (
	"strconv"
	"strings"

	"github.com/axeline/axeline/pkg/construction"
	"github.com/axeline/axeline/pkg/metadata"
	"github.com/axeline/axeline/pkg/resolved"
)

// disablingCallbacks are the callback arguments whose literal-null value
// marks a control as disabled. The first one present decides.
//
//nolint:gochecknoglobals // Fixed framework argument names.
var disablingCallbacks = []string{"onPressed", "onTap", "onChanged", "onLongPress"}

// weakLabelArgs are argument names the unknown-widget heuristic treats as
// weak label sources.
//
//nolint:gochecknoglobals // Fixed heuristic argument names.
var weakLabelArgs = []string{"label", "text", "tooltip", "title"}

// synthGeneric is the data-driven path for widgets with metadata.
func (s *Synthesizer) synthGeneric(cn *construction.Node) *Node {
	record, known := s.ctx.Table.Lookup(cn.TypeName)
	if !known {
		return s.synthUnknown(cn)
	}

	node := &Node{
		WidgetType: cn.TypeName,
		Role:       record.Role,
		Control:    record.Control,
		State:      stateFromFlags(record.Flags),
		Merges:     record.Merges,
		Excludes:   record.Excludes,
		Blocks:     record.Blocks,
	}

	children, slotNodes := s.synthChildren(cn, record.SlotOrder)
	node.Children = children

	s.resolveSchema(node, cn, record.Schema, slotNodes)
	s.resolveEnabled(node, cn)

	if node.Merges {
		s.foldChildLabels(node)
	}

	if node.Guarantee == GuaranteeNone {
		s.scanDirectTextChildren(node)
	}

	return node
}

// synthUnknown handles widgets absent from the metadata table: first the
// component summarizer, then the narrow callback heuristic, finally an
// un-opinionated container.
func (s *Synthesizer) synthUnknown(cn *construction.Node) *Node {
	summary := s.Summarize(cn.TypeName)
	if summary.Known {
		return s.synthFromSummary(cn, summary)
	}

	children, _ := s.synthChildren(cn, nil)

	node := &Node{
		WidgetType: cn.TypeName,
		Role:       metadata.RoleContainer,
		State:      InteractionState{Enabled: true},
		Children:   children,
		Inferred:   true,
	}

	if s.hasAnyCallback(cn) {
		node.Role = metadata.RoleButton
		node.Control = metadata.ControlButton
		node.State.Focusable = true
		node.State.Tappable = true

		s.applyWeakLabels(node, cn)
		s.resolveEnabled(node, cn)
	}

	if node.Guarantee == GuaranteeNone {
		s.scanDirectTextChildren(node)
	}

	return node
}

func (s *Synthesizer) synthFromSummary(cn *construction.Node, summary *Summary) *Node {
	children, _ := s.synthChildren(cn, nil)

	if summary.Transparent {
		return &Node{
			WidgetType: cn.TypeName,
			Role:       metadata.RoleContainer,
			State:      InteractionState{Enabled: true},
			Children:   children,
		}
	}

	node := &Node{
		WidgetType: cn.TypeName,
		Role:       summary.Role,
		Control:    summary.Control,
		State:      stateFromFlags(summary.Flags),
		Merges:     summary.Merges,
		Excludes:   summary.Excludes,
		Blocks:     summary.Blocks,
		Guarantee:  summary.LabelGuarantee,
		Source:     summary.PrimaryLabelSource,
		Children:   children,
	}

	// Call-site arguments can still refine the component's defaults.
	s.applyWeakLabels(node, cn)
	s.resolveEnabled(node, cn)

	if node.Merges {
		s.foldChildLabels(node)
	}

	return node
}

func (s *Synthesizer) hasAnyCallback(cn *construction.Node) bool {
	for _, name := range disablingCallbacks {
		if cn.NamedArg(name) != nil {
			return true
		}
	}

	return false
}

// applyWeakLabels treats conventional label-ish arguments as weak label
// sources, tagged as heuristic inference rather than exact metadata.
func (s *Synthesizer) applyWeakLabels(node *Node, cn *construction.Node) {
	for _, name := range weakLabelArgs {
		expr := cn.NamedArg(name)
		if expr == nil || resolved.IsNull(s.ctx.Eval, expr) {
			continue
		}

		value := s.ctx.Eval.EvalString(expr)

		switch {
		case value != nil && name == "tooltip":
			node.Tooltip = value
			node.Guarantee = node.Guarantee.Merge(GuaranteeStatic)
		case value != nil:
			node.Label = value
			node.Guarantee = node.Guarantee.Merge(GuaranteeStatic)
		default:
			node.Guarantee = node.Guarantee.Merge(GuaranteeDynamic)
		}

		if node.Source == metadata.LabelSourceNone {
			node.Source = metadata.LabelSourceCustomParameter
		}

		if node.Label != nil || node.Tooltip != nil {
			return
		}
	}
}

func stateFromFlags(flags metadata.InteractionFlags) InteractionState {
	return InteractionState{
		Focusable:     flags.Focusable,
		Tappable:      flags.Tappable,
		LongPressable: flags.LongPressable,
		Adjustable:    flags.Adjustable,
		Scrollable:    flags.Scrollable,
		Dismissible:   flags.Dismissible,
		Enabled:       true,
	}
}

// resolveEnabled computes the instance enabled state. The metadata default
// is enabled; a recognized callback argument overrides it, with an
// explicit null literal disabling and any other value enabling.
func (s *Synthesizer) resolveEnabled(node *Node, cn *construction.Node) {
	for _, name := range disablingCallbacks {
		expr := cn.NamedArg(name)
		if expr == nil {
			continue
		}

		node.State.Enabled = !resolved.IsNull(s.ctx.Eval, expr)

		return
	}
}

// attrResult is the outcome of one schema attribute resolution.
type attrResult struct {
	value     *string
	boolValue *bool
	guarantee LabelGuarantee
	source    metadata.LabelSource
	found     bool
}

// resolveSchema applies the widget's extraction schema in priority order
// for every attribute it declares.
func (s *Synthesizer) resolveSchema(node *Node, cn *construction.Node, schema metadata.Schema, slotNodes map[string]*Node) {
	if label := s.resolveAttr(cn, schema[metadata.AttrLabel], slotNodes); label.found {
		node.Label = label.value
		node.Guarantee = node.Guarantee.Merge(label.guarantee)
		node.Source = label.source
	}

	if tooltip := s.resolveAttr(cn, schema[metadata.AttrTooltip], slotNodes); tooltip.found {
		node.Tooltip = tooltip.value
		node.Guarantee = node.Guarantee.Merge(tooltip.guarantee)

		if node.Source == metadata.LabelSourceNone {
			node.Source = tooltip.source
		}
	}

	if value := s.resolveAttr(cn, schema[metadata.AttrValue], slotNodes); value.found {
		node.Value = value.value
	}

	if toggled := s.resolveAttr(cn, schema[metadata.AttrToggled], slotNodes); toggled.found {
		node.State.Toggled = toggled.boolValue
	}

	if checked := s.resolveAttr(cn, schema[metadata.AttrChecked], slotNodes); checked.found {
		node.State.Checked = checked.boolValue
	}
}

// resolveAttr tries each extraction strategy in order and stops at the
// first success. Failure to resolve is a degraded outcome, not an error.
func (s *Synthesizer) resolveAttr(cn *construction.Node, sources []metadata.Source, slotNodes map[string]*Node) attrResult {
	for _, source := range sources {
		var result attrResult

		switch src := source.(type) {
		case metadata.PropSource:
			result = s.resolveExprAttr(cn.NamedArg(src.Name))
		case metadata.PositionalSource:
			result = s.resolveExprAttr(cn.PositionalArg(src.Index))
		case metadata.SlotSource:
			result = resolveSlotAttr(slotNodes[src.Slot])
		}

		if !result.found {
			continue
		}

		if forced := source.As(); forced != metadata.LabelSourceNone {
			result.source = forced
		}

		return result
	}

	return attrResult{}
}

func (s *Synthesizer) resolveExprAttr(expr resolved.Expr) attrResult {
	if expr == nil || resolved.IsNull(s.ctx.Eval, expr) {
		return attrResult{}
	}

	if value := s.ctx.Eval.EvalString(expr); value != nil {
		return attrResult{
			value:     value,
			boolValue: s.ctx.Eval.EvalBool(expr),
			guarantee: GuaranteeStatic,
			source:    metadata.LabelSourceOther,
			found:     true,
		}
	}

	if value := s.ctx.Eval.EvalBool(expr); value != nil {
		return attrResult{boolValue: value, guarantee: GuaranteeStatic, source: metadata.LabelSourceOther, found: true}
	}

	if value := s.ctx.Eval.EvalInt(expr); value != nil {
		text := strconv.Itoa(*value)

		return attrResult{value: &text, guarantee: GuaranteeStatic, source: metadata.LabelSourceValueToString, found: true}
	}

	// Present but not statically evaluable: the attribute exists, its
	// content is dynamic.
	return attrResult{guarantee: GuaranteeDynamic, source: metadata.LabelSourceOther, found: true}
}

// resolveSlotAttr sources a label from a named-slot child, propagating the
// child's own guarantee rather than inventing a new one.
func resolveSlotAttr(slotNode *Node) attrResult {
	if slotNode == nil {
		return attrResult{}
	}

	label := slotNode.EffectiveLabel()
	if label == nil && slotNode.Guarantee == GuaranteeNone {
		return attrResult{}
	}

	source := slotNode.Source
	if source == metadata.LabelSourceNone {
		source = metadata.LabelSourceTextChild
	}

	return attrResult{value: label, guarantee: slotNode.Guarantee, source: source, found: true}
}

// foldChildLabels aggregates descendant effective labels into the node's
// explicitChildLabel under merge semantics. Excluded subtrees contribute
// nothing, and only the first alternative of each branch group takes part:
// mutually exclusive siblings never co-announce.
func (s *Synthesizer) foldChildLabels(node *Node) {
	var parts []string

	guarantee := node.Guarantee
	seenGroups := make(map[int]bool)

	var walk func(n *Node)

	walk = func(n *Node) {
		if n.Excludes {
			return
		}

		if n.BranchGroup != 0 {
			if seenGroups[n.BranchGroup] {
				return
			}

			seenGroups[n.BranchGroup] = true
		}

		// A descendant with dynamic content raises the guarantee even
		// when it contributes no static text.
		guarantee = guarantee.Merge(n.Guarantee)

		if label := directLabel(n); label != "" {
			parts = append(parts, label)
		}

		for _, child := range n.Children {
			walk(child)
		}
	}

	for _, child := range node.Children {
		walk(child)
	}

	node.Guarantee = guarantee

	if len(parts) == 0 {
		return
	}

	joined := strings.Join(parts, " ")
	node.ExplicitChildLabel = &joined
}

// directLabel returns the node's own label contribution, ignoring any
// aggregation it already performed for its subtree.
func directLabel(n *Node) string {
	if n.Label != nil && *n.Label != "" {
		return *n.Label
	}

	if n.Tooltip != nil && *n.Tooltip != "" {
		return *n.Tooltip
	}

	return ""
}

// scanDirectTextChildren is the conservative single-level fallback: a
// directly nested text-producing child lends its label. Alternatives of an
// unresolved conditional are folded together, taking the strongest
// guarantee either branch offers.
func (s *Synthesizer) scanDirectTextChildren(node *Node) {
	if !node.Interactive() && !node.Merges {
		return
	}

	var label *string

	guarantee := GuaranteeNone

	for _, child := range node.Children {
		if child.Role != metadata.RoleText || child.Excludes {
			continue
		}

		effective := child.EffectiveLabel()
		if effective == nil && child.Guarantee == GuaranteeNone {
			continue
		}

		if label == nil {
			label = effective
		}

		guarantee = guarantee.Merge(child.Guarantee)
	}

	if guarantee == GuaranteeNone {
		return
	}

	node.ExplicitChildLabel = label
	node.Guarantee = node.Guarantee.Merge(guarantee)

	if node.Source == metadata.LabelSourceNone {
		node.Source = metadata.LabelSourceTextChild
	}
}
