package config

import (
	"github.com/axeline/axeline/pkg/rules"
)

// ApplyThresholds overrides heuristic confidence thresholds by rule name.
// Unknown names are ignored; validation already rejected bad values.
func ApplyThresholds(cfg RulesConfig, heuristics []*rules.Heuristic) {
	for _, h := range heuristics {
		if threshold, ok := cfg.Thresholds[h.Name]; ok {
			h.Threshold = threshold
		}
	}
}

// ApplySeverities overrides rule severities by rule name.
func ApplySeverities(cfg RulesConfig, ruleSet []*rules.Rule) {
	for _, rule := range ruleSet {
		if name, ok := cfg.Severities[rule.Name]; ok {
			rule.Severity = parseSeverity(name)
		}
	}
}

// SelectRules filters the rule set down to the enabled list, or returns
// it unchanged when no restriction is configured.
func SelectRules(cfg RulesConfig, ruleSet []*rules.Rule) []*rules.Rule {
	if len(cfg.Enabled) == 0 {
		return ruleSet
	}

	return rules.ByName(ruleSet, cfg.Enabled)
}

func parseSeverity(name string) rules.Severity {
	switch name {
	case "error":
		return rules.SeverityError
	case "info":
		return rules.SeverityInfo
	default:
		return rules.SeverityWarning
	}
}
