package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/axeline/axeline/pkg/config"
	"github.com/axeline/axeline/pkg/rules"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "axeline.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	return path
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := config.Load(writeConfig(t, ""))
	require.NoError(t, err)

	assert.Zero(t, cfg.Analysis.Workers)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "text", cfg.Logging.Format)
	assert.Empty(t, cfg.Rules.Enabled)
	assert.Empty(t, cfg.Telemetry.OTLPEndpoint)
	assert.Empty(t, cfg.Telemetry.OTLPHeaders)
	assert.Zero(t, cfg.Telemetry.SampleRatio)
}

func TestLoad_FullFile(t *testing.T) {
	cfg, err := config.Load(writeConfig(t, `
analysis:
  metadata_path: widgets.json
  workers: 4
rules:
  enabled:
    - missing-label
  pack_dir: ./rulepack
  severities:
    missing-label: warning
  thresholds:
    unlabeled-inferred-control: 2
logging:
  level: debug
  format: json
telemetry:
  otlp_endpoint: localhost:4317
  otlp_insecure: true
  otlp_headers: authorization=Bearer token,tenant=dev
  sample_ratio: 0.25
`))
	require.NoError(t, err)

	assert.Equal(t, "widgets.json", cfg.Analysis.MetadataPath)
	assert.Equal(t, 4, cfg.Analysis.Workers)
	assert.Equal(t, []string{"missing-label"}, cfg.Rules.Enabled)
	assert.Equal(t, "./rulepack", cfg.Rules.PackDir)
	assert.Equal(t, "warning", cfg.Rules.Severities["missing-label"])
	assert.Equal(t, 2, cfg.Rules.Thresholds["unlabeled-inferred-control"])
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "json", cfg.Logging.Format)
	assert.Equal(t, "localhost:4317", cfg.Telemetry.OTLPEndpoint)
	assert.True(t, cfg.Telemetry.OTLPInsecure)
	assert.Equal(t, "authorization=Bearer token,tenant=dev", cfg.Telemetry.OTLPHeaders)
	assert.InDelta(t, 0.25, cfg.Telemetry.SampleRatio, 1e-9)
}

func TestLoad_ValidationErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr error
	}{
		{
			name:    "negative workers",
			content: "analysis:\n  workers: -1\n",
			wantErr: config.ErrInvalidWorkers,
		},
		{
			name:    "zero threshold",
			content: "rules:\n  thresholds:\n    low-confidence-label: 0\n",
			wantErr: config.ErrInvalidThreshold,
		},
		{
			name:    "unknown severity",
			content: "rules:\n  severities:\n    missing-label: fatal\n",
			wantErr: config.ErrInvalidSeverity,
		},
		{
			name:    "unknown log level",
			content: "logging:\n  level: verbose\n",
			wantErr: config.ErrInvalidLogLevel,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := config.Load(writeConfig(t, tc.content))
			require.Error(t, err)
			assert.ErrorIs(t, err, tc.wantErr)
		})
	}
}

func TestApplyThresholds(t *testing.T) {
	t.Parallel()

	heuristics := rules.DefaultHeuristics()

	config.ApplyThresholds(config.RulesConfig{Thresholds: map[string]int{
		"unlabeled-inferred-control": 2,
		"no-such-heuristic":          9,
	}}, heuristics)

	byName := make(map[string]int, len(heuristics))
	for _, h := range heuristics {
		byName[h.Name] = h.Threshold
	}

	assert.Equal(t, 2, byName["unlabeled-inferred-control"])
	assert.Equal(t, 1, byName["multiple-focusable-in-merge"], "untouched heuristics keep defaults")
}

func TestApplySeverities(t *testing.T) {
	t.Parallel()

	ruleSet := rules.Conservative()

	config.ApplySeverities(config.RulesConfig{Severities: map[string]string{
		"missing-label": "info",
	}}, ruleSet)

	for _, rule := range ruleSet {
		if rule.Name == "missing-label" {
			assert.Equal(t, rules.SeverityInfo, rule.Severity)
		}
	}
}

func TestSelectRules(t *testing.T) {
	t.Parallel()

	ruleSet := rules.Default()

	assert.Equal(t, ruleSet, config.SelectRules(config.RulesConfig{}, ruleSet))

	selected := config.SelectRules(config.RulesConfig{Enabled: []string{"missing-label"}}, ruleSet)
	require.Len(t, selected, 1)
	assert.Equal(t, "missing-label", selected[0].Name)
}
