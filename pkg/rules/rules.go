// Package rules evaluates accessibility rules against an annotated
// semantic tree. Two strategies share one contract: conservative rules
// are pure functions over statically-resolved facts and must stay near
// zero false positives; heuristic rules score boolean signals against a
// tunable threshold and are suppressed by guards.
package rules

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/axeline/axeline/pkg/axtree"
	"github.com/axeline/axeline/pkg/resolved"
	"github.com/axeline/axeline/pkg/semantic"
)

// Severity indicates the severity level of a violation.
type Severity int

// Severity levels.
const (
	severityUnset Severity = iota
	SeverityError
	SeverityWarning
	SeverityInfo
)

// String returns the severity name.
func (s Severity) String() string {
	switch s {
	case SeverityError:
		return "error"
	case SeverityWarning:
		return "warning"
	case SeverityInfo:
		return "info"
	default:
		return "unknown"
	}
}

// MarshalJSON serializes the severity as a JSON string. The unset zero
// value marshals as "warning".
func (s Severity) MarshalJSON() ([]byte, error) {
	if s == severityUnset {
		return json.Marshal(SeverityWarning.String())
	}

	encoded, err := json.Marshal(s.String())
	if err != nil {
		return nil, fmt.Errorf("marshal severity: %w", err)
	}

	return encoded, nil
}

// ErrUnknownSeverity is returned when decoding an unrecognized severity.
var ErrUnknownSeverity = errors.New("unknown severity")

// UnmarshalJSON deserializes a severity from a JSON string.
func (s *Severity) UnmarshalJSON(data []byte) error {
	var str string

	err := json.Unmarshal(data, &str)
	if err != nil {
		return fmt.Errorf("unmarshal severity: %w", err)
	}

	switch str {
	case "error":
		*s = SeverityError
	case "warning":
		*s = SeverityWarning
	case "info":
		*s = SeverityInfo
	default:
		return fmt.Errorf("%w: %q", ErrUnknownSeverity, str)
	}

	return nil
}

// MaxConfidence is the confidence reported by conservative rules, whose
// findings rest only on literal facts.
const MaxConfidence = 100

// Violation is one rule finding, referencing a node by its annotated id.
type Violation struct {
	Rule       string        `json:"rule"`
	Severity   Severity      `json:"severity"`
	NodeID     int           `json:"node_id"`
	WidgetType string        `json:"widget_type,omitempty"`
	Pos        resolved.Span `json:"pos"`
	Message    string        `json:"message"`
	Confidence int           `json:"confidence"`
}

// Rule defines a single accessibility check.
type Rule struct {
	// Name is a short stable identifier, e.g. "missing-label".
	Name string

	// Doc is a human-readable description. The first line is a summary.
	Doc string

	// Severity is the default severity for this rule's violations.
	Severity Severity

	// Run executes the check, calling pass.Report for each finding.
	Run func(pass *Pass) error
}

// Pass provides context to a running rule.
type Pass struct {
	// Rule is the currently running check.
	Rule *Rule

	// Tree is the annotated tree under analysis.
	Tree *axtree.Tree

	violations []Violation
}

// Report records a violation for the given node at full confidence.
func (p *Pass) Report(node *semantic.Node, message string) {
	p.ReportConfidence(node, message, MaxConfidence)
}

// ReportConfidence records a violation with an explicit confidence score.
func (p *Pass) ReportConfidence(node *semantic.Node, message string, confidence int) {
	p.violations = append(p.violations, Violation{
		Rule:       p.Rule.Name,
		Severity:   p.Rule.Severity,
		NodeID:     node.ID,
		WidgetType: node.WidgetType,
		Pos:        node.Pos,
		Message:    message,
		Confidence: confidence,
	})
}

// Run evaluates the given rules against the tree. A failing rule never
// aborts its siblings; all rule errors are joined and returned alongside
// the violations collected so far.
func Run(tree *axtree.Tree, ruleSet []*Rule) ([]Violation, error) {
	var violations []Violation

	var errs []error

	for _, rule := range ruleSet {
		pass := &Pass{Rule: rule, Tree: tree}

		err := rule.Run(pass)
		if err != nil {
			errs = append(errs, fmt.Errorf("rule %s: %w", rule.Name, err))

			continue
		}

		violations = append(violations, pass.violations...)
	}

	return violations, errors.Join(errs...)
}

// Conservative returns the built-in near-zero-false-positive checks.
func Conservative() []*Rule {
	return []*Rule{
		MissingLabelRule(),
		DoubleAnnouncementRule(),
		RedundantWrappingRule(),
	}
}

// Default returns the built-in rule set: conservative checks plus the
// tunable heuristics at their default thresholds.
func Default() []*Rule {
	ruleSet := Conservative()

	for _, heuristic := range DefaultHeuristics() {
		ruleSet = append(ruleSet, heuristic.Rule())
	}

	return ruleSet
}

// ByName filters ruleSet, keeping rules whose names appear in enabled.
// An empty enabled list keeps everything.
func ByName(ruleSet []*Rule, enabled []string) []*Rule {
	if len(enabled) == 0 {
		return ruleSet
	}

	keep := make(map[string]bool, len(enabled))

	for _, name := range enabled {
		keep[name] = true
	}

	var out []*Rule

	for _, rule := range ruleSet {
		if keep[rule.Name] {
			out = append(out, rule)
		}
	}

	return out
}
