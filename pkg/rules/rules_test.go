package rules_test

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/axeline/axeline/pkg/axtree"
	"github.com/axeline/axeline/pkg/rules"
)

func TestSeverity_JSONRoundTrip(t *testing.T) {
	t.Parallel()

	tests := []struct {
		severity rules.Severity
		encoded  string
	}{
		{rules.SeverityError, `"error"`},
		{rules.SeverityWarning, `"warning"`},
		{rules.SeverityInfo, `"info"`},
	}

	for _, tc := range tests {
		encoded, err := json.Marshal(tc.severity)
		require.NoError(t, err)
		assert.Equal(t, tc.encoded, string(encoded))

		var decoded rules.Severity

		require.NoError(t, json.Unmarshal(encoded, &decoded))
		assert.Equal(t, tc.severity, decoded)
	}
}

func TestSeverity_UnsetMarshalsAsWarning(t *testing.T) {
	t.Parallel()

	var unset rules.Severity

	encoded, err := json.Marshal(unset)
	require.NoError(t, err)
	assert.Equal(t, `"warning"`, string(encoded))
}

func TestSeverity_UnmarshalUnknown(t *testing.T) {
	t.Parallel()

	var s rules.Severity

	err := json.Unmarshal([]byte(`"fatal"`), &s)
	require.Error(t, err)
	assert.ErrorIs(t, err, rules.ErrUnknownSeverity)
}

func TestRun_FailedRuleDoesNotAbortSiblings(t *testing.T) {
	t.Parallel()

	errBroken := errors.New("broken")

	failing := &rules.Rule{
		Name: "failing",
		Run: func(*rules.Pass) error {
			return errBroken
		},
	}

	tree := axtree.Annotate(column(plainButton()))

	violations, err := rules.Run(tree, []*rules.Rule{failing, rules.MissingLabelRule()})

	require.Error(t, err)
	assert.ErrorIs(t, err, errBroken)
	assert.Len(t, violations, 1, "healthy rules still run")
}

func TestByName(t *testing.T) {
	t.Parallel()

	ruleSet := rules.Default()

	assert.Equal(t, ruleSet, rules.ByName(ruleSet, nil), "empty filter keeps everything")

	filtered := rules.ByName(ruleSet, []string{"missing-label", "low-confidence-label"})
	require.Len(t, filtered, 2)
	assert.Equal(t, "missing-label", filtered[0].Name)
	assert.Equal(t, "low-confidence-label", filtered[1].Name)

	assert.Empty(t, rules.ByName(ruleSet, []string{"no-such-rule"}))
}

func TestDefault_RuleNamesAreUnique(t *testing.T) {
	t.Parallel()

	seen := make(map[string]bool)

	for _, rule := range rules.Default() {
		assert.False(t, seen[rule.Name], "duplicate rule name %s", rule.Name)
		seen[rule.Name] = true
		assert.NotEmpty(t, rule.Doc)
	}

	assert.Len(t, seen, 6)
}
