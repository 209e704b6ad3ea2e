package semantic

import (
	"github.com/axeline/axeline/pkg/metadata"
	"github.com/axeline/axeline/pkg/resolved"
)

// Summarize computes the behavioral summary of a widget class. Framework
// widgets derive directly from metadata; custom components resolve their
// build bodies, recursively synthesizing when needed. The result for a
// custom class is cached per declaring-scope-qualified name for the whole
// analysis run. Cycles in the component graph degrade to the unknown
// summary instead of recursing forever.
func (s *Synthesizer) Summarize(typeName string) *Summary {
	if record, ok := s.ctx.Table.Lookup(typeName); ok {
		return summaryFromRecord(record)
	}

	key := s.summaryKey(typeName)

	if cached, ok := s.ctx.cachedSummary(key); ok {
		return cached
	}

	if s.inProgress[key] {
		s.ctx.logCycleOnce(key)

		return unknownSummary()
	}

	return s.ctx.storeSummary(key, s.computeSummary(typeName, key))
}

func (s *Synthesizer) summaryKey(typeName string) string {
	if s.ctx.Resolver == nil {
		return typeName
	}

	return s.ctx.Resolver.DeclaringScope(typeName) + "/" + typeName
}

func (s *Synthesizer) computeSummary(typeName, key string) *Summary {
	if s.ctx.Resolver == nil {
		return unknownSummary()
	}

	body := s.ctx.Resolver.BuildBody(typeName)
	if body == nil {
		if s.ctx.Resolver.IsComponentClass(typeName) {
			return transparentSummary()
		}

		return unknownSummary()
	}

	// A body that is a single framework-widget construction borrows that
	// widget's metadata directly, skipping the full pipeline.
	if call, ok := body.(*resolved.ConstructorCall); ok {
		if record, known := s.ctx.Table.Lookup(call.TypeName); known {
			return summaryFromRecord(record)
		}
	}

	s.inProgress[key] = true
	defer delete(s.inProgress, key)

	root := s.Synthesize(s.builder.Build(body))
	if root == nil {
		return unknownSummary()
	}

	return summaryFromNode(root)
}

func summaryFromRecord(record metadata.Record) *Summary {
	return &Summary{
		Role:        record.Role,
		Control:     record.Control,
		Flags:       record.Flags,
		Merges:      record.Merges,
		Excludes:    record.Excludes,
		Blocks:      record.Blocks,
		Transparent: record.IsContainer,
		Known:       true,
	}
}

// summaryFromNode fingerprints a synthesized body. Single-child pure
// container chains collapse to the widget they wrap, so a component whose
// body is Padding(child: button) summarizes as the button.
func summaryFromNode(root *Node) *Summary {
	root = collapseContainers(root)

	transparent := root.Role == metadata.RoleContainer &&
		!root.Interactive() &&
		root.EffectiveLabel() == nil &&
		!root.Merges && !root.Excludes && !root.Blocks

	return &Summary{
		Role:    root.Role,
		Control: root.Control,
		Flags: metadata.InteractionFlags{
			Focusable:     root.State.Focusable,
			Tappable:      root.State.Tappable,
			LongPressable: root.State.LongPressable,
			Adjustable:    root.State.Adjustable,
			Scrollable:    root.State.Scrollable,
			Dismissible:   root.State.Dismissible,
		},
		Merges:             root.Merges,
		Excludes:           root.Excludes,
		Blocks:             root.Blocks,
		LabelGuarantee:     root.Guarantee,
		PrimaryLabelSource: root.Source,
		Transparent:        transparent,
		Known:              true,
	}
}

// collapseChainLimit bounds the container-chain descent.
const collapseChainLimit = 32

func collapseContainers(node *Node) *Node {
	for range collapseChainLimit {
		passThrough := node.Role == metadata.RoleContainer &&
			!node.Interactive() &&
			node.EffectiveLabel() == nil &&
			!node.Merges && !node.Excludes && !node.Blocks &&
			len(node.Children) == 1

		if !passThrough {
			return node
		}

		node = node.Children[0]
	}

	return node
}
