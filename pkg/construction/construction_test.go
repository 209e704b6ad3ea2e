package construction_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/axeline/axeline/pkg/construction"
	"github.com/axeline/axeline/pkg/resolved"
)

func call(typeName string, args ...resolved.Arg) *resolved.ConstructorCall {
	return &resolved.ConstructorCall{TypeName: typeName, DeclScope: "flutter", Args: args}
}

func named(name string, value resolved.Expr) resolved.Arg {
	return resolved.Arg{Name: name, Value: value}
}

func positional(value resolved.Expr) resolved.Arg {
	return resolved.Arg{Value: value}
}

func build(t *testing.T, expr resolved.Expr) *construction.Node {
	t.Helper()

	node := construction.NewBuilder(&resolved.ConstEvaluator{}).Build(expr)
	require.NotNil(t, node)

	return node
}

func TestBuild_SlotsAndChildren(t *testing.T) {
	t.Parallel()

	root := build(t, call("Column",
		named("children", &resolved.ListLit{Elems: []resolved.Expr{
			call("Text", positional(&resolved.StringLit{Value: "a"})),
			call("Tooltip",
				named("message", &resolved.StringLit{Value: "hint"}),
				named("child", call("Icon")),
			),
		}}),
	))

	assert.Equal(t, "Column", root.TypeName)
	require.Len(t, root.Positional, 2)
	assert.Equal(t, "Text", root.Positional[0].TypeName)

	tooltip := root.Positional[1]
	require.Len(t, tooltip.SlotChildren("child"), 1)
	assert.Equal(t, "Icon", tooltip.SlotChildren("child")[0].TypeName)

	// message is a plain argument, not a slot.
	assert.Empty(t, tooltip.SlotChildren("message"))
	assert.NotNil(t, tooltip.NamedArg("message"))
}

func TestBuild_NestedListsFlatten(t *testing.T) {
	t.Parallel()

	root := build(t, call("Row",
		named("children", &resolved.ListLit{Elems: []resolved.Expr{
			call("Text"),
			&resolved.ListLit{Elems: []resolved.Expr{call("Icon"), call("Icon")}},
		}}),
	))

	require.Len(t, root.Positional, 3)

	for _, child := range root.Positional {
		assert.Equal(t, construction.KindStandard, child.Kind)
		assert.Zero(t, child.BranchGroup)
	}
}

func TestBuild_ResolvedConditionalKeepsLiveBranch(t *testing.T) {
	t.Parallel()

	root := build(t, call("Column",
		named("children", &resolved.ListLit{Elems: []resolved.Expr{
			&resolved.Conditional{
				Cond: &resolved.BoolLit{Value: true},
				Then: call("Text"),
				Else: call("Icon"),
			},
			&resolved.Conditional{
				Cond: &resolved.BoolLit{Value: false},
				Then: call("Slider"),
				Else: call("Checkbox"),
			},
		}}),
	))

	require.Len(t, root.Positional, 2)
	assert.Equal(t, "Text", root.Positional[0].TypeName)
	assert.Equal(t, "Checkbox", root.Positional[1].TypeName)
	assert.Equal(t, construction.KindStandard, root.Positional[0].Kind)
}

func TestBuild_UnresolvedConditionalTagsBothBranches(t *testing.T) {
	t.Parallel()

	root := build(t, call("Column",
		named("children", &resolved.ListLit{Elems: []resolved.Expr{
			&resolved.Conditional{
				Cond: &resolved.Opaque{TypeHint: "bool"},
				Then: call("Text"),
				Else: call("Icon"),
			},
		}}),
	))

	require.Len(t, root.Positional, 2)

	then, alt := root.Positional[0], root.Positional[1]
	assert.Equal(t, construction.KindConditionalBranch, then.Kind)
	assert.Equal(t, construction.KindConditionalBranch, alt.Kind)
	assert.Equal(t, then.BranchGroup, alt.BranchGroup)
	assert.NotZero(t, then.BranchGroup)
	assert.True(t, then.BranchValue)
	assert.False(t, alt.BranchValue)
}

func TestBuild_DistinctConditionalsGetDistinctGroups(t *testing.T) {
	t.Parallel()

	root := build(t, call("Column",
		named("children", &resolved.ListLit{Elems: []resolved.Expr{
			&resolved.Conditional{Cond: &resolved.Opaque{}, Then: call("Text")},
			&resolved.Conditional{Cond: &resolved.Opaque{}, Then: call("Icon")},
		}}),
	))

	require.Len(t, root.Positional, 2)
	assert.NotEqual(t, root.Positional[0].BranchGroup, root.Positional[1].BranchGroup)
}

func TestBuild_CollectionIfWithoutElse(t *testing.T) {
	t.Parallel()

	root := build(t, call("Column",
		named("children", &resolved.ListLit{Elems: []resolved.Expr{
			&resolved.Conditional{Cond: &resolved.Opaque{}, Then: call("Text")},
		}}),
	))

	require.Len(t, root.Positional, 1)
	assert.True(t, root.Positional[0].BranchValue)
}

func TestBuild_RootConditionalKeepsThenBranch(t *testing.T) {
	t.Parallel()

	root := build(t, &resolved.Conditional{
		Cond: &resolved.Opaque{},
		Then: call("Scaffold"),
		Else: call("Placeholder"),
	})

	assert.Equal(t, "Scaffold", root.TypeName)
}

func TestBuild_UnrecognizedExpressionDegradesToNil(t *testing.T) {
	t.Parallel()

	builder := construction.NewBuilder(&resolved.ConstEvaluator{})

	assert.Nil(t, builder.Build(&resolved.StringLit{Value: "not a widget"}))
	assert.Nil(t, builder.Build(&resolved.Opaque{}))
}

func TestAllChildren_SlotOrderBeforePositional(t *testing.T) {
	t.Parallel()

	root := build(t, call("ListTile",
		named("trailing", call("Icon")),
		named("title", call("Text")),
		named("leading", call("Checkbox")),
	))

	ordered := root.AllChildren([]string{"leading", "title", "trailing"})
	require.Len(t, ordered, 3)
	assert.Equal(t, "Checkbox", ordered[0].TypeName)
	assert.Equal(t, "Text", ordered[1].TypeName)
	assert.Equal(t, "Icon", ordered[2].TypeName)
}

func TestAllChildren_UnlistedSlotsSortedByName(t *testing.T) {
	t.Parallel()

	root := build(t, call("FancyScaffold",
		named("drawer", call("Icon")),
		named("body", call("Text")),
		named("appBar", call("Checkbox")),
	))

	ordered := root.AllChildren([]string{"body"})
	require.Len(t, ordered, 3)
	assert.Equal(t, "Text", ordered[0].TypeName)
	assert.Equal(t, "Checkbox", ordered[1].TypeName, "remaining slots follow name order")
	assert.Equal(t, "Icon", ordered[2].TypeName)
}

func TestAllChildren_OrderIsStableAcrossRuns(t *testing.T) {
	t.Parallel()

	expr := call("FancyScaffold",
		named("footer", call("Icon")),
		named("header", call("Text")),
	)

	baseline := typeNames(build(t, expr).AllChildren(nil))

	for range 64 {
		assert.Equal(t, baseline, typeNames(build(t, expr).AllChildren(nil)))
	}
}

func typeNames(nodes []*construction.Node) []string {
	names := make([]string, len(nodes))
	for i, node := range nodes {
		names[i] = node.TypeName
	}

	return names
}
