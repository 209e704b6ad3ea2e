package commands

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/fatih/color"

	"github.com/axeline/axeline/pkg/engine"
	"github.com/axeline/axeline/pkg/rules"
)

// ErrUnsupportedFormat indicates an unknown output format name.
var ErrUnsupportedFormat = errors.New("unsupported format")

var (
	errorColor   = color.New(color.FgRed, color.Bold)
	warningColor = color.New(color.FgYellow)
	infoColor    = color.New(color.FgCyan)
	fileColor    = color.New(color.Bold)
)

// renderResults writes all results to w and reports whether any
// violation at or above the failOn severity was found.
func renderResults(w io.Writer, results []engine.Result, format, failOn string) (bool, error) {
	switch format {
	case "json":
		return renderJSON(w, results, failOn)
	case "text":
		return renderText(w, results, failOn)
	}

	return false, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
}

type fileReportJSON struct {
	File       string            `json:"file"`
	Violations []rules.Violation `json:"violations"`
	Error      string            `json:"error,omitempty"`
}

func renderJSON(w io.Writer, results []engine.Result, failOn string) (bool, error) {
	reports := make([]fileReportJSON, 0, len(results))
	failed := false

	for _, res := range results {
		report := fileReportJSON{File: res.File, Violations: res.Violations}
		if res.Err != nil {
			report.Error = res.Err.Error()
		}

		for _, v := range res.Violations {
			if meetsSeverity(v.Severity, failOn) {
				failed = true
			}
		}

		reports = append(reports, report)
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")

	err := enc.Encode(reports)
	if err != nil {
		return false, fmt.Errorf("encode results: %w", err)
	}

	return failed, nil
}

func renderText(w io.Writer, results []engine.Result, failOn string) (bool, error) {
	failed := false
	total := 0

	for _, res := range results {
		if res.Err != nil && len(res.Violations) == 0 {
			fmt.Fprintf(w, "%s: %v\n", fileColor.Sprint(res.File), res.Err)

			continue
		}

		for _, v := range res.Violations {
			total++

			if meetsSeverity(v.Severity, failOn) {
				failed = true
			}

			fmt.Fprintf(w, "%s:%d:%d: %s %s (%s, confidence %d%%)\n",
				fileColor.Sprint(res.File), v.Pos.StartLine, v.Pos.StartCol,
				severityBadge(v.Severity), v.Message, v.Rule, v.Confidence)
		}
	}

	if total == 0 {
		fmt.Fprintln(w, "no violations found")
	}

	return failed, nil
}

func severityBadge(s rules.Severity) string {
	switch s {
	case rules.SeverityError:
		return errorColor.Sprint("error:")
	case rules.SeverityInfo:
		return infoColor.Sprint("info:")
	default:
		return warningColor.Sprint("warning:")
	}
}

// severityRank orders severities for the fail-on comparison.
func severityRank(name string) int {
	switch name {
	case "error":
		return 2
	case "warning":
		return 1
	default:
		return 0
	}
}

func meetsSeverity(s rules.Severity, failOn string) bool {
	return severityRank(s.String()) >= severityRank(failOn)
}
