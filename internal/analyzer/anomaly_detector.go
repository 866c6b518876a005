package analyzer

import (
	"math"

	"github.com/qoslens/qoslens/internal/stats"
)

const (
	// Below this batch size the detector always reports no anomaly;
	// insufficient statistical power.
	anomalyMinSamples = 10

	// Modified z-score cutoff. 1.4826 rescales MAD to the standard
	// deviation of a normal distribution.
	madScale  = 1.4826
	madCutoff = 3.5
)

// detectAnomalies flags whether at least one sample in the batch is a
// statistical outlier on any of the four core fields. Median absolute
// deviation keeps the routine fully deterministic; the output is boolean
// only and never identifies the offending sample.
func detectAnomalies(s stats.Summary) bool {
	if s.SampleCount < anomalyMinSamples {
		return false
	}

	series := [][]float64{s.Latencies, s.Throughputs, s.ErrorRates, s.Availabilities}
	for _, values := range series {
		if seriesHasOutlier(values) {
			return true
		}
	}
	return false
}

func seriesHasOutlier(values []float64) bool {
	median := stats.Median(values)

	deviations := make([]float64, len(values))
	for i, v := range values {
		deviations[i] = math.Abs(v - median)
	}
	mad := stats.Median(deviations)
	if mad == 0 {
		// Constant (or near-constant) series carry no outlier signal.
		return false
	}

	for _, v := range values {
		z := math.Abs(v-median) / (mad * madScale)
		if z > madCutoff {
			return true
		}
	}
	return false
}
