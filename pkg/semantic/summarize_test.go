package semantic_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/axeline/axeline/pkg/metadata"
	"github.com/axeline/axeline/pkg/resolved"
	"github.com/axeline/axeline/pkg/semantic"
)

func newSynthesizer(components map[string]resolved.Component) *semantic.Synthesizer {
	eval := &resolved.ConstEvaluator{}
	doc := &resolved.Document{Components: components}
	ctx := semantic.NewContext(metadata.Default(), eval, doc.Resolver(), nil)

	return semantic.NewSynthesizer(ctx)
}

func TestSummarize_FrameworkWidgetUsesMetadata(t *testing.T) {
	t.Parallel()

	s := newSynthesizer(nil)

	summary := s.Summarize("ElevatedButton")
	require.True(t, summary.Known)
	assert.Equal(t, metadata.RoleButton, summary.Role)
	assert.True(t, summary.Merges)
	assert.True(t, summary.Flags.Focusable)
}

func TestSummarize_SingleCallBodyBorrowsRecord(t *testing.T) {
	t.Parallel()

	s := newSynthesizer(map[string]resolved.Component{
		"AppCheckbox": {
			Scope:       "lib/forms.dart",
			IsComponent: true,
			Body: &resolved.ConstructorCall{
				TypeName:  "Checkbox",
				DeclScope: "flutter",
			},
		},
	})

	summary := s.Summarize("AppCheckbox")
	require.True(t, summary.Known)
	assert.Equal(t, metadata.RoleToggle, summary.Role)
	assert.Equal(t, metadata.ControlCheckbox, summary.Control)
}

func TestSummarize_PipelineBodyDerivesFromTree(t *testing.T) {
	t.Parallel()

	s := newSynthesizer(map[string]resolved.Component{
		"SaveAction": {
			Scope:       "lib/actions.dart",
			IsComponent: true,
			Body: &resolved.ConstructorCall{
				TypeName:  "Padding",
				DeclScope: "flutter",
				Args: []resolved.Arg{
					{Name: "child", Value: &resolved.ConstructorCall{
						TypeName:  "ElevatedButton",
						DeclScope: "flutter",
						Args: []resolved.Arg{
							{Name: "onPressed", Value: &resolved.Closure{}},
							{Name: "child", Value: &resolved.ConstructorCall{
								TypeName: "Text",
								Args:     []resolved.Arg{{Value: &resolved.StringLit{Value: "Save"}}},
							}},
						},
					}},
				},
			},
		},
	})

	summary := s.Summarize("SaveAction")
	require.True(t, summary.Known)
	assert.False(t, summary.Transparent)
	assert.Equal(t, metadata.RoleButton, summary.Role)
	assert.True(t, summary.Flags.Tappable)
	assert.True(t, summary.Merges)
	assert.Equal(t, semantic.GuaranteeStatic, summary.LabelGuarantee)
}

func TestSummarize_ResolvableComponentWithoutBodyIsTransparent(t *testing.T) {
	t.Parallel()

	s := newSynthesizer(map[string]resolved.Component{
		"LazyWidget": {Scope: "lib/lazy.dart", IsComponent: true},
	})

	summary := s.Summarize("LazyWidget")
	require.True(t, summary.Known)
	assert.True(t, summary.Transparent)
}

func TestSummarize_UnresolvableClassDegrades(t *testing.T) {
	t.Parallel()

	s := newSynthesizer(nil)

	summary := s.Summarize("MysteryWidget")
	assert.False(t, summary.Known)
	assert.Equal(t, metadata.RoleNone, summary.Role)
}

func TestSummarize_CyclicComponentGraphTerminates(t *testing.T) {
	t.Parallel()

	s := newSynthesizer(map[string]resolved.Component{
		"Ping": {
			Scope:       "lib/cycle.dart",
			IsComponent: true,
			Body:        &resolved.ConstructorCall{TypeName: "Pong", DeclScope: "lib/cycle.dart"},
		},
		"Pong": {
			Scope:       "lib/cycle.dart",
			IsComponent: true,
			Body:        &resolved.ConstructorCall{TypeName: "Ping", DeclScope: "lib/cycle.dart"},
		},
	})

	summary := s.Summarize("Ping")
	require.NotNil(t, summary)
}

func TestSummarize_CachedAcrossCalls(t *testing.T) {
	t.Parallel()

	s := newSynthesizer(map[string]resolved.Component{
		"AppCheckbox": {
			Scope:       "lib/forms.dart",
			IsComponent: true,
			Body:        &resolved.ConstructorCall{TypeName: "Checkbox", DeclScope: "flutter"},
		},
	})

	first := s.Summarize("AppCheckbox")
	second := s.Summarize("AppCheckbox")
	assert.Equal(t, first, second)
}

func TestSummarize_ObserverSeesMissThenHit(t *testing.T) {
	t.Parallel()

	eval := &resolved.ConstEvaluator{}
	doc := &resolved.Document{Components: map[string]resolved.Component{
		"AppCheckbox": {
			Scope:       "lib/forms.dart",
			IsComponent: true,
			Body:        &resolved.ConstructorCall{TypeName: "Checkbox", DeclScope: "flutter"},
		},
	}}

	ctx := semantic.NewContext(metadata.Default(), eval, doc.Resolver(), nil)

	var lookups []bool

	ctx.SummaryObserver = func(hit bool) { lookups = append(lookups, hit) }

	s := semantic.NewSynthesizer(ctx)
	s.Summarize("AppCheckbox")
	s.Summarize("AppCheckbox")

	assert.Equal(t, []bool{false, true}, lookups)

	// Framework widgets resolve from metadata without touching the cache.
	s.Summarize("ElevatedButton")
	assert.Len(t, lookups, 2)
}

func TestContext_WithFileSharesObserver(t *testing.T) {
	t.Parallel()

	eval := &resolved.ConstEvaluator{}
	doc := &resolved.Document{Components: map[string]resolved.Component{
		"LazyWidget": {Scope: "lib/lazy.dart", IsComponent: true},
	}}

	base := semantic.NewContext(metadata.Default(), eval, nil, nil)

	var lookups []bool

	base.SummaryObserver = func(hit bool) { lookups = append(lookups, hit) }

	derived := base.WithFile(eval, doc.Resolver())
	semantic.NewSynthesizer(derived).Summarize("LazyWidget")

	assert.Equal(t, []bool{false}, lookups)
}
