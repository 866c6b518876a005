// Package stats turns raw QoS sample batches into the aggregate statistics
// used by every downstream component.
package stats

import (
	"math"
	"sort"

	"github.com/qoslens/qoslens/internal/models"
)

// Summary is the statistics bundle for one tenant's metric batch. Series
// fields are time-ordered by sample timestamp.
type Summary struct {
	SampleCount int

	MeanLatencyMs       float64
	MeanThroughputRPS   float64
	MeanErrorRate       float64
	MeanAvailabilityPct float64
	MeanP95Ms           float64

	P95LatencyMs float64

	Latencies      []float64
	Throughputs    []float64
	ErrorRates     []float64
	Availabilities []float64
}

// Summarize computes the statistics bundle. An empty batch yields a zero
// Summary; consumers are expected to handle that with their documented
// defaults rather than failing.
func Summarize(metrics []models.QoSMetric) Summary {
	if len(metrics) == 0 {
		return Summary{}
	}

	ordered := make([]models.QoSMetric, len(metrics))
	copy(ordered, metrics)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Timestamp.Before(ordered[j].Timestamp)
	})

	s := Summary{
		SampleCount:    len(ordered),
		Latencies:      make([]float64, len(ordered)),
		Throughputs:    make([]float64, len(ordered)),
		ErrorRates:     make([]float64, len(ordered)),
		Availabilities: make([]float64, len(ordered)),
	}

	for i, m := range ordered {
		s.Latencies[i] = m.LatencyMs
		s.Throughputs[i] = m.ThroughputRPS
		s.ErrorRates[i] = m.ErrorRate
		s.Availabilities[i] = m.AvailabilityPct
		s.MeanP95Ms += m.ResponseTimeP95Ms
	}

	s.MeanLatencyMs = Mean(s.Latencies)
	s.MeanThroughputRPS = Mean(s.Throughputs)
	s.MeanErrorRate = Mean(s.ErrorRates)
	s.MeanAvailabilityPct = Mean(s.Availabilities)
	s.MeanP95Ms /= float64(len(ordered))
	s.P95LatencyMs = Percentile(s.Latencies, 95)

	return s
}

// Mean returns the arithmetic mean, or 0 for an empty slice.
func Mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// Percentile returns the p-th percentile using linear interpolation between
// the two nearest ranks. Returns 0 for an empty slice.
func Percentile(values []float64, p float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	if p <= 0 {
		return sorted[0]
	}
	if p >= 100 {
		return sorted[len(sorted)-1]
	}

	rank := (p / 100) * float64(len(sorted)-1)
	lower := int(math.Floor(rank))
	upper := int(math.Ceil(rank))
	if lower == upper {
		return sorted[lower]
	}
	weight := rank - float64(lower)
	return sorted[lower]*(1-weight) + sorted[upper]*weight
}

// Slope fits a first-degree polynomial to values indexed by sample order
// and returns its slope. Fewer than 2 points yield 0.
func Slope(values []float64) float64 {
	n := len(values)
	if n < 2 {
		return 0
	}

	var sumX, sumY, sumXY, sumXX float64
	for i, v := range values {
		x := float64(i)
		sumX += x
		sumY += v
		sumXY += x * v
		sumXX += x * x
	}

	denom := float64(n)*sumXX - sumX*sumX
	if denom == 0 {
		return 0
	}
	return (float64(n)*sumXY - sumX*sumY) / denom
}

// Median returns the middle value of the slice, averaging the two middle
// values for even lengths. Returns 0 for an empty slice.
func Median(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	mid := len(sorted) / 2
	if len(sorted)%2 == 0 {
		return (sorted[mid-1] + sorted[mid]) / 2
	}
	return sorted[mid]
}
