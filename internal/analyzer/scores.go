package analyzer

import (
	"log/slog"
	"math"

	"github.com/qoslens/qoslens/internal/stats"
)

// Throughput normalization ceilings. Capacity and utilization use different
// constants for what is conceptually the same dimension; both are kept
// as tuned.
const (
	latencyFloorMs        = 5000.0 // latency at which the performance sub-score hits 0
	perfFullThroughputRPS = 1000.0
	errorRateScale        = 2000.0 // 5% error rate maps to 0
	capacityFullRPS       = 500.0
	utilizationFullRPS    = 350.0
	targetUtilizationPct  = 70.0

	neutralScore = 50.0
)

// scoreResult carries a computed score together with a note when the
// computation degraded to a fallback. Notes are logged, never propagated.
type scoreResult struct {
	value float64
	note  string
}

func unwrapScore(name string, r scoreResult) float64 {
	if r.note != "" {
		slog.Debug("score degraded to fallback", slog.String("score", name), slog.String("note", r.note))
	}
	return r.value
}

// performanceScore blends a latency ramp (0 ms -> 100, 5000 ms -> 0) with a
// throughput ramp (1000 rps -> 100), weights 0.6/0.4.
func performanceScore(s stats.Summary) scoreResult {
	latency := clampScore(100 - s.MeanLatencyMs/(latencyFloorMs/100))
	throughput := clampScore(s.MeanThroughputRPS / perfFullThroughputRPS * 100)
	return finishScore(latency*0.6 + throughput*0.4)
}

// reliabilityScore blends an error-rate ramp (5% error -> 0) with raw
// availability percent, weights 0.7/0.3.
func reliabilityScore(s stats.Summary) scoreResult {
	errScore := clampScore(100 - s.MeanErrorRate*errorRateScale)
	return finishScore(errScore*0.7 + clampScore(s.MeanAvailabilityPct)*0.3)
}

// capacityScore blends a throughput ramp (500 rps -> 100) with availability,
// weights 0.6/0.4.
func capacityScore(s stats.Summary) scoreResult {
	throughput := clampScore(s.MeanThroughputRPS / capacityFullRPS * 100)
	return finishScore(throughput*0.6 + clampScore(s.MeanAvailabilityPct)*0.4)
}

// utilizationScore measures distance from the 70% utilization target, where
// 350 rps counts as fully utilized.
func utilizationScore(s stats.Summary) scoreResult {
	utilization := math.Min(100, s.MeanThroughputRPS/utilizationFullRPS*100)
	return finishScore(clampScore(100 - math.Abs(utilization-targetUtilizationPct)))
}

// finishScore clips to [0,100] and substitutes the neutral fallback when the
// arithmetic produced a non-finite value. A missing score must never block
// recommendation generation.
func finishScore(v float64) scoreResult {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return scoreResult{value: neutralScore, note: "non-finite result, substituting neutral score"}
	}
	return scoreResult{value: clampScore(v)}
}

func clampScore(v float64) float64 {
	if math.IsNaN(v) {
		return 0
	}
	return math.Max(0, math.Min(100, v))
}
