package observability

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const (
	metricFilesTotal      = "axeline.analysis.files.total"
	metricViolationsTotal = "axeline.analysis.violations.total"
	metricFileDuration    = "axeline.analysis.file.duration.seconds"
	metricSummaryHits     = "axeline.summary.cache.hits.total"
	metricSummaryMisses   = "axeline.summary.cache.misses.total"

	attrRule = "rule"
)

// durationBucketBoundaries covers per-file analysis latencies, which sit
// well under a second for typical screens.
var durationBucketBoundaries = []float64{
	0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5, 10,
}

// AnalysisMetrics holds OTel instruments for analysis-specific metrics.
type AnalysisMetrics struct {
	filesTotal      metric.Int64Counter
	violationsTotal metric.Int64Counter
	fileDuration    metric.Float64Histogram
	summaryHits     metric.Int64Counter
	summaryMisses   metric.Int64Counter
}

// NewAnalysisMetrics creates analysis metric instruments from the given meter.
func NewAnalysisMetrics(mt metric.Meter) (*AnalysisMetrics, error) {
	files, err := mt.Int64Counter(metricFilesTotal,
		metric.WithDescription("Total files analyzed"),
		metric.WithUnit("{file}"),
	)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", metricFilesTotal, err)
	}

	violations, err := mt.Int64Counter(metricViolationsTotal,
		metric.WithDescription("Total violations reported by rule"),
		metric.WithUnit("{violation}"),
	)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", metricViolationsTotal, err)
	}

	fileDur, err := mt.Float64Histogram(metricFileDuration,
		metric.WithDescription("Per-file analysis duration in seconds"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(durationBucketBoundaries...),
	)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", metricFileDuration, err)
	}

	hits, err := mt.Int64Counter(metricSummaryHits,
		metric.WithDescription("Component summary cache hits"),
		metric.WithUnit("{hit}"),
	)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", metricSummaryHits, err)
	}

	misses, err := mt.Int64Counter(metricSummaryMisses,
		metric.WithDescription("Component summary cache misses"),
		metric.WithUnit("{miss}"),
	)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", metricSummaryMisses, err)
	}

	return &AnalysisMetrics{
		filesTotal:      files,
		violationsTotal: violations,
		fileDuration:    fileDur,
		summaryHits:     hits,
		summaryMisses:   misses,
	}, nil
}

// RecordFile records one analyzed file and its wall-clock duration.
func (am *AnalysisMetrics) RecordFile(ctx context.Context, dur time.Duration) {
	am.filesTotal.Add(ctx, 1)
	am.fileDuration.Record(ctx, dur.Seconds())
}

// RecordViolation records one reported violation attributed to its rule.
func (am *AnalysisMetrics) RecordViolation(ctx context.Context, rule string) {
	am.violationsTotal.Add(ctx, 1,
		metric.WithAttributes(attribute.String(attrRule, rule)))
}

// RecordSummaryLookup records a component summary cache hit or miss.
func (am *AnalysisMetrics) RecordSummaryLookup(ctx context.Context, hit bool) {
	if hit {
		am.summaryHits.Add(ctx, 1)

		return
	}

	am.summaryMisses.Add(ctx, 1)
}
