package commands

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/axeline/axeline/pkg/engine"
	"github.com/axeline/axeline/pkg/resolved"
	"github.com/axeline/axeline/pkg/rules"
)

func sampleResults() []engine.Result {
	return []engine.Result{
		{
			File: "login.dart",
			Violations: []rules.Violation{
				{
					Rule:       "missing-label",
					Severity:   rules.SeverityError,
					NodeID:     4,
					WidgetType: "IconButton",
					Pos:        resolved.Span{File: "login.dart", StartLine: 12, StartCol: 5},
					Message:    "IconButton is focusable but has no accessible label",
					Confidence: 100,
				},
				{
					Rule:       "low-confidence-label",
					Severity:   rules.SeverityInfo,
					NodeID:     7,
					WidgetType: "Slider",
					Pos:        resolved.Span{File: "login.dart", StartLine: 30, StartCol: 9},
					Message:    "Slider has a label whose content is only known at runtime",
					Confidence: 2,
				},
			},
		},
		{File: "clean.dart"},
	}
}

func TestRenderText(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	failed, err := renderResults(&buf, sampleResults(), "text", "warning")
	require.NoError(t, err)
	assert.True(t, failed, "an error-severity finding meets the warning bar")

	out := buf.String()
	assert.Contains(t, out, "login.dart:12:5:")
	assert.Contains(t, out, "IconButton is focusable but has no accessible label")
	assert.Contains(t, out, "(missing-label, confidence 100%)")
	assert.Contains(t, out, "login.dart:30:9:")
}

func TestRenderText_NoViolations(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	failed, err := renderResults(&buf, []engine.Result{{File: "clean.dart"}}, "text", "warning")
	require.NoError(t, err)
	assert.False(t, failed)
	assert.Contains(t, buf.String(), "no violations found")
}

func TestRenderText_FileError(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	results := []engine.Result{{File: "broken.dart", Err: errors.New("input is not a widget construction")}}

	failed, err := renderResults(&buf, results, "text", "warning")
	require.NoError(t, err)
	assert.False(t, failed)
	assert.Contains(t, buf.String(), "broken.dart: input is not a widget construction")
}

func TestRenderJSON(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	failed, err := renderResults(&buf, sampleResults(), "json", "error")
	require.NoError(t, err)
	assert.True(t, failed)

	var reports []fileReportJSON

	require.NoError(t, json.Unmarshal(buf.Bytes(), &reports))
	require.Len(t, reports, 2)

	assert.Equal(t, "login.dart", reports[0].File)
	require.Len(t, reports[0].Violations, 2)
	assert.Equal(t, "missing-label", reports[0].Violations[0].Rule)
	assert.Equal(t, rules.SeverityError, reports[0].Violations[0].Severity)

	assert.Equal(t, "clean.dart", reports[1].File)
	assert.Empty(t, reports[1].Violations)
	assert.Empty(t, reports[1].Error)
}

func TestRenderResults_FailOnThreshold(t *testing.T) {
	t.Parallel()

	infoOnly := []engine.Result{{
		File: "a.dart",
		Violations: []rules.Violation{
			{Rule: "low-confidence-label", Severity: rules.SeverityInfo, Message: "m"},
		},
	}}

	var buf bytes.Buffer

	failed, err := renderResults(&buf, infoOnly, "text", "warning")
	require.NoError(t, err)
	assert.False(t, failed, "info findings stay below the warning bar")

	buf.Reset()

	failed, err = renderResults(&buf, infoOnly, "text", "info")
	require.NoError(t, err)
	assert.True(t, failed)
}

func TestRenderResults_UnsupportedFormat(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	_, err := renderResults(&buf, nil, "xml", "warning")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}
