package semantic

import (
	"github.com/axeline/axeline/pkg/construction"
	"github.com/axeline/axeline/pkg/metadata"
	"github.com/axeline/axeline/pkg/resolved"
)

// Semantics-boundary wrapper widgets. The set is fixed and closed; every
// other widget goes through the data-driven generic path.
const (
	widgetSemantics        = "Semantics"
	widgetMergeSemantics   = "MergeSemantics"
	widgetExcludeSemantics = "ExcludeSemantics"
	widgetBlockSemantics   = "BlockSemantics"
	widgetIndexedSemantics = "IndexedSemantics"
)

// childSlotName is the conventional single-child slot.
const childSlotName = "child"

// Synthesizer converts construction nodes into semantic nodes. One
// Synthesizer serves one file; the component-summary recursion guard it
// carries is confined to this instance while the summary cache on the
// Context is shared across workers.
type Synthesizer struct {
	ctx        *Context
	builder    *construction.Builder
	inProgress map[string]bool
}

// NewSynthesizer creates a Synthesizer bound to the analysis context.
func NewSynthesizer(ctx *Context) *Synthesizer {
	return &Synthesizer{
		ctx:        ctx,
		builder:    construction.NewBuilder(ctx.Eval),
		inProgress: make(map[string]bool),
	}
}

// Synthesize converts the construction node into a semantic node. It
// returns nil when the node contributes nothing to the accessibility tree
// (for example a merge wrapper with no children).
func (s *Synthesizer) Synthesize(cn *construction.Node) *Node {
	if cn == nil {
		return nil
	}

	var node *Node

	switch cn.TypeName {
	case widgetSemantics:
		node = s.synthSemantics(cn)
	case widgetMergeSemantics:
		node = s.synthMergeSemantics(cn)
	case widgetExcludeSemantics:
		node = s.synthExcludeSemantics(cn)
	case widgetBlockSemantics:
		node = s.synthBlockSemantics(cn)
	case widgetIndexedSemantics:
		node = s.synthIndexedSemantics(cn)
	default:
		node = s.synthGeneric(cn)
	}

	if node == nil {
		return nil
	}

	node.Pos = cn.Pos()
	node.BranchGroup = cn.BranchGroup
	node.BranchValue = cn.BranchValue

	return node
}

// synthChildren synthesizes all children in slot-traversal order followed
// by positional order, dropping nil results. It also returns the first
// synthesized node per named slot for schema-driven slot extraction.
func (s *Synthesizer) synthChildren(cn *construction.Node, slotOrder []string) ([]*Node, map[string]*Node) {
	ordered := cn.AllChildren(slotOrder)
	children := make([]*Node, 0, len(ordered))
	byConstruction := make(map[*construction.Node]*Node, len(ordered))

	for _, child := range ordered {
		synthesized := s.Synthesize(child)
		if synthesized == nil {
			continue
		}

		children = append(children, synthesized)
		byConstruction[child] = synthesized
	}

	firstPerSlot := make(map[string]*Node, len(cn.Slots))

	for slot, slotChildren := range cn.Slots {
		for _, child := range slotChildren {
			if synthesized := byConstruction[child]; synthesized != nil {
				firstPerSlot[slot] = synthesized

				break
			}
		}
	}

	return children, firstPerSlot
}

// synthSemantics handles the label-override wrapper. It inherits the
// single child's interaction semantics, then applies any overrides the
// construction site supplies.
func (s *Synthesizer) synthSemantics(cn *construction.Node) *Node {
	children, _ := s.synthChildren(cn, []string{childSlotName})

	node := &Node{
		WidgetType: cn.TypeName,
		Role:       metadata.RoleContainer,
		State:      InteractionState{Enabled: true},
		Children:   children,
	}

	if len(children) == 1 {
		inheritFromChild(node, children[0])
	}

	s.applySemanticsOverrides(node, cn)

	if node.Merges {
		s.foldChildLabels(node)
	}

	return node
}

func inheritFromChild(node, child *Node) {
	node.Role = child.Role
	node.Control = child.Control
	node.State = child.State
	node.Guarantee = child.Guarantee
	node.Source = child.Source
}

//nolint:cyclop // Flat sequence of independent override checks.
func (s *Synthesizer) applySemanticsOverrides(node *Node, cn *construction.Node) {
	labelSupplied := s.applyStringOverride(cn, "label", &node.Label, &node.Guarantee)
	if labelSupplied {
		node.Source = metadata.LabelSourceSemantics
	}

	s.applyStringOverride(cn, "tooltip", &node.Tooltip, &node.Guarantee)
	s.applyStringOverride(cn, "value", &node.Value, nil)

	if enabled := s.boolArg(cn, "enabled"); enabled != nil {
		node.State.Enabled = *enabled
	}

	if focusable := s.boolArg(cn, "focusable"); focusable != nil {
		node.State.Focusable = *focusable
	}

	if toggled := s.boolArg(cn, "toggled"); toggled != nil {
		node.State.Toggled = toggled
	}

	if checked := s.boolArg(cn, "checked"); checked != nil {
		node.State.Checked = checked
	}

	if isButton := s.boolArg(cn, "button"); isButton != nil && *isButton {
		node.Role = metadata.RoleButton
		node.Control = metadata.ControlButton
	}

	container := s.boolArg(cn, "container")
	if labelSupplied || (container != nil && *container) {
		node.Merges = true
	}

	if excluding := s.boolArg(cn, "excludeSemantics"); excluding != nil && *excluding {
		node.Excludes = true
	}
}

// applyStringOverride resolves a string-valued argument. A statically
// evaluable value is stored and raises the guarantee to static; a present
// but non-constant value raises it to dynamic only. Reports presence.
func (s *Synthesizer) applyStringOverride(cn *construction.Node, name string, target **string, guarantee *LabelGuarantee) bool {
	expr := cn.NamedArg(name)
	if expr == nil || resolved.IsNull(s.ctx.Eval, expr) {
		return false
	}

	value := s.ctx.Eval.EvalString(expr)
	if value != nil {
		*target = value

		if guarantee != nil {
			*guarantee = guarantee.Merge(GuaranteeStatic)
		}

		return true
	}

	if guarantee != nil {
		*guarantee = guarantee.Merge(GuaranteeDynamic)
	}

	return true
}

func (s *Synthesizer) boolArg(cn *construction.Node, name string) *bool {
	expr := cn.NamedArg(name)
	if expr == nil {
		return nil
	}

	return s.ctx.Eval.EvalBool(expr)
}

// synthMergeSemantics forces merge semantics over its child subtree.
// With no children there is nothing to merge and the wrapper vanishes.
func (s *Synthesizer) synthMergeSemantics(cn *construction.Node) *Node {
	children, _ := s.synthChildren(cn, []string{childSlotName})
	if len(children) == 0 {
		return nil
	}

	node := &Node{
		WidgetType: cn.TypeName,
		Role:       metadata.RoleContainer,
		State:      InteractionState{Enabled: true},
		Children:   children,
		Merges:     true,
	}

	if len(children) == 1 {
		inheritFromChild(node, children[0])
	}

	s.foldChildLabels(node)

	return node
}

// synthExcludeSemantics hides its subtree from assistive technology. The
// descendants stay in the physical tree for heuristic neighborhood
// queries but are never focus targets.
func (s *Synthesizer) synthExcludeSemantics(cn *construction.Node) *Node {
	children, _ := s.synthChildren(cn, []string{childSlotName})

	excluding := s.boolArg(cn, "excluding")
	if excluding != nil && !*excluding {
		// Statically disabled exclusion is a plain pass-through.
		return &Node{
			WidgetType: cn.TypeName,
			Role:       metadata.RoleContainer,
			State:      InteractionState{Enabled: true},
			Children:   children,
		}
	}

	return &Node{
		WidgetType: cn.TypeName,
		Role:       metadata.RoleContainer,
		Children:   children,
		Excludes:   true,
	}
}

// synthBlockSemantics marks the subtree as blocking semantics behind it.
// The child's own interaction semantics are untouched.
func (s *Synthesizer) synthBlockSemantics(cn *construction.Node) *Node {
	children, _ := s.synthChildren(cn, []string{childSlotName})

	node := &Node{
		WidgetType: cn.TypeName,
		Role:       metadata.RoleContainer,
		State:      InteractionState{Enabled: true},
		Children:   children,
		Blocks:     true,
	}

	if len(children) == 1 {
		inheritFromChild(node, children[0])
	}

	return node
}

// synthIndexedSemantics attaches a statically-resolved index when the
// argument is a compile-time literal; otherwise the index stays absent.
func (s *Synthesizer) synthIndexedSemantics(cn *construction.Node) *Node {
	children, _ := s.synthChildren(cn, []string{childSlotName})

	node := &Node{
		WidgetType: cn.TypeName,
		Role:       metadata.RoleContainer,
		State:      InteractionState{Enabled: true},
		Children:   children,
	}

	if len(children) == 1 {
		inheritFromChild(node, children[0])
	}

	if expr := cn.NamedArg("index"); expr != nil {
		node.SemanticIndex = s.ctx.Eval.EvalInt(expr)
	}

	return node
}
