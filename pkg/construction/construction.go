// Package construction converts a resolved widget-construction expression
// into a control-flow-aware tree. Conditional constructs whose condition
// cannot be resolved statically contribute both branches, tagged as
// mutually exclusive alternatives, so later passes never treat two UI
// states that cannot co-occur as simultaneously visible siblings.
package construction

import (
	"sort"

	"github.com/axeline/axeline/pkg/resolved"
)

// Kind tags how a construction node entered the tree.
type Kind int

// Kind constants.
const (
	// KindStandard is an unconditionally present construction site.
	KindStandard Kind = iota

	// KindConditionalBranch is one alternative of an unresolved
	// conditional. Nodes sharing a BranchGroup with different
	// BranchValues can never co-occur at runtime.
	KindConditionalBranch
)

// childrenArgName is the conventional list-valued children argument.
const childrenArgName = "children"

// Node is one widget instantiation site in the construction tree.
type Node struct {
	// TypeName is the constructed widget type.
	TypeName string

	// DeclScope is the scope declaring the type, per the resolved input.
	DeclScope string

	// Call is the originating construction expression. Attribute
	// resolution reads named and positional arguments from here.
	Call *resolved.ConstructorCall

	// Slots holds named-slot children. A slot usually carries one child;
	// unresolved conditionals and list-valued slots carry several.
	Slots map[string][]*Node

	// Positional holds list-valued and positional children in source order.
	Positional []*Node

	Kind Kind

	// BranchGroup is nonzero for conditional-branch nodes; nodes with the
	// same group and different values are mutually exclusive.
	BranchGroup int
	BranchValue bool
}

// Pos returns the source span of the construction site.
func (n *Node) Pos() resolved.Span {
	if n.Call == nil {
		return resolved.Span{}
	}

	return n.Call.Pos
}

// NamedArg returns the raw expression of a named argument on the
// originating call, or nil when absent.
func (n *Node) NamedArg(name string) resolved.Expr {
	if n.Call == nil {
		return nil
	}

	return n.Call.NamedArg(name)
}

// PositionalArg returns the raw i-th positional argument, or nil.
func (n *Node) PositionalArg(index int) resolved.Expr {
	if n.Call == nil {
		return nil
	}

	return n.Call.PositionalArg(index)
}

// SlotChildren returns the children recorded for the named slot.
func (n *Node) SlotChildren(slot string) []*Node {
	return n.Slots[slot]
}

// AllChildren returns slot children followed by positional children. Slots
// named in slotOrder come first in that order; any remaining slots follow
// sorted by name, so traversal order is stable across runs.
func (n *Node) AllChildren(slotOrder []string) []*Node {
	out := make([]*Node, 0, len(n.Positional)+len(n.Slots))
	emitted := make(map[string]bool, len(slotOrder))

	for _, slot := range slotOrder {
		out = append(out, n.Slots[slot]...)
		emitted[slot] = true
	}

	leftover := make([]string, 0, len(n.Slots))

	for slot := range n.Slots {
		if !emitted[slot] {
			leftover = append(leftover, slot)
		}
	}

	sort.Strings(leftover)

	for _, slot := range leftover {
		out = append(out, n.Slots[slot]...)
	}

	return append(out, n.Positional...)
}

// Builder builds construction trees from resolved expressions. A Builder
// owns the branch-group counter; one Builder per analyzed function body
// keeps group ids unique within that body.
type Builder struct {
	eval      resolved.Evaluator
	nextGroup int
}

// NewBuilder creates a Builder using the given constant evaluator.
func NewBuilder(eval resolved.Evaluator) *Builder {
	return &Builder{eval: eval}
}

// Build converts expr into a construction tree. It returns nil when the
// expression is not a recognized widget construction; that is a degraded
// outcome, never an error.
func (b *Builder) Build(expr resolved.Expr) *Node {
	switch typed := expr.(type) {
	case *resolved.ConstructorCall:
		return b.buildCall(typed)
	case *resolved.Conditional:
		// A tree has a single root. When the root condition is
		// unresolvable the then-branch is kept; alternatives only make
		// sense inside child lists.
		return b.buildRootConditional(typed)
	default:
		return nil
	}
}

func (b *Builder) buildRootConditional(cond *resolved.Conditional) *Node {
	value := b.eval.EvalBool(cond.Cond)

	switch {
	case value == nil:
		return b.Build(cond.Then)
	case *value:
		return b.Build(cond.Then)
	case cond.Else != nil:
		return b.Build(cond.Else)
	default:
		return nil
	}
}

func (b *Builder) buildCall(call *resolved.ConstructorCall) *Node {
	node := &Node{
		TypeName:  call.TypeName,
		DeclScope: call.DeclScope,
		Call:      call,
		Kind:      KindStandard,
	}

	for _, arg := range call.Args {
		if arg.Name == "" {
			node.Positional = append(node.Positional, b.expand(arg.Value)...)

			continue
		}

		expanded := b.expand(arg.Value)
		if len(expanded) == 0 {
			continue
		}

		if arg.Name == childrenArgName {
			node.Positional = append(node.Positional, expanded...)

			continue
		}

		if node.Slots == nil {
			node.Slots = make(map[string][]*Node)
		}

		node.Slots[arg.Name] = expanded
	}

	return node
}

// expand converts a child-position expression into zero or more
// construction nodes, flattening list literals and splitting unresolved
// conditionals into tagged alternatives.
func (b *Builder) expand(expr resolved.Expr) []*Node {
	switch typed := expr.(type) {
	case *resolved.ConstructorCall:
		child := b.buildCall(typed)

		return []*Node{child}
	case *resolved.ListLit:
		return b.expandList(typed)
	case *resolved.Conditional:
		return b.expandConditional(typed)
	default:
		return nil
	}
}

func (b *Builder) expandList(list *resolved.ListLit) []*Node {
	var out []*Node

	for _, elem := range list.Elems {
		out = append(out, b.expand(elem)...)
	}

	return out
}

func (b *Builder) expandConditional(cond *resolved.Conditional) []*Node {
	value := b.eval.EvalBool(cond.Cond)
	if value != nil {
		return b.expandLiveBranch(cond, *value)
	}

	// Unresolved: both alternatives are built under a fresh group so that
	// downstream consumers can detect their mutual exclusion.
	b.nextGroup++
	group := b.nextGroup

	out := tagBranches(b.expand(cond.Then), group, true)

	if cond.Else != nil {
		out = append(out, tagBranches(b.expand(cond.Else), group, false)...)
	}

	return out
}

func (b *Builder) expandLiveBranch(cond *resolved.Conditional, live bool) []*Node {
	if live {
		return b.expand(cond.Then)
	}

	if cond.Else == nil {
		return nil
	}

	return b.expand(cond.Else)
}

func tagBranches(nodes []*Node, group int, value bool) []*Node {
	for _, node := range nodes {
		node.Kind = KindConditionalBranch
		node.BranchGroup = group
		node.BranchValue = value
	}

	return nodes
}
