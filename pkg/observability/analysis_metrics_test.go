package observability_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	noopmetric "go.opentelemetry.io/otel/metric/noop"

	"github.com/axeline/axeline/pkg/observability"
)

func TestNewAnalysisMetrics(t *testing.T) {
	t.Parallel()

	meter := noopmetric.NewMeterProvider().Meter("test")

	am, err := observability.NewAnalysisMetrics(meter)
	require.NoError(t, err)
	assert.NotNil(t, am)
}

func TestAnalysisMetrics_RecordingDoesNotPanic(t *testing.T) {
	t.Parallel()

	meter := noopmetric.NewMeterProvider().Meter("test")

	am, err := observability.NewAnalysisMetrics(meter)
	require.NoError(t, err)

	ctx := context.Background()

	am.RecordFile(ctx, 25*time.Millisecond)
	am.RecordViolation(ctx, "missing-label")
	am.RecordSummaryLookup(ctx, true)
	am.RecordSummaryLookup(ctx, false)
}
