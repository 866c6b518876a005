package analyzer

import (
	"github.com/qoslens/qoslens/internal/models"
	"github.com/qoslens/qoslens/internal/stats"
)

const (
	// Below this batch size the trend is always stable.
	trendMinSamples = 5

	latencySlopeThreshold   = 100.0 // ms per sample
	errorRateSlopeThreshold = 0.01  // rate per sample
)

// classifyTrend fits a linear slope to the latency and error-rate series,
// both indexed by sample order rather than wall-clock spacing.
func classifyTrend(s stats.Summary) models.TrendDirection {
	if s.SampleCount < trendMinSamples {
		return models.TrendStable
	}

	latencySlope := stats.Slope(s.Latencies)
	errorSlope := stats.Slope(s.ErrorRates)

	if latencySlope < -latencySlopeThreshold && errorSlope < -errorRateSlopeThreshold {
		return models.TrendImproving
	}
	if latencySlope > latencySlopeThreshold || errorSlope > errorRateSlopeThreshold {
		return models.TrendDeclining
	}
	return models.TrendStable
}
