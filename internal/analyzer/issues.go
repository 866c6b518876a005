package analyzer

import (
	"fmt"

	"github.com/qoslens/qoslens/internal/stats"
)

// Per-sample critical thresholds.
const (
	criticalAvailabilityPct = 95.0
	criticalErrorRate       = 0.05
	criticalLatencyMs       = 5000.0
	criticalThroughputRPS   = 50.0
)

// Batch-mean opportunity thresholds.
const (
	opportunityLatencyMs     = 2000.0
	opportunityThroughputRPS = 200.0
	opportunityErrorRate     = 0.02
)

// identifyCriticalIssues scans every sample against the critical thresholds.
// Each triggering sample emits one entry; duplicates are expected, this is a
// log rather than a set.
func identifyCriticalIssues(s stats.Summary) []string {
	issues := []string{}
	for i := 0; i < s.SampleCount; i++ {
		if s.Availabilities[i] < criticalAvailabilityPct {
			issues = append(issues, fmt.Sprintf("low availability: %.1f%% below %.0f%% threshold", s.Availabilities[i], criticalAvailabilityPct))
		}
		if s.ErrorRates[i] > criticalErrorRate {
			issues = append(issues, fmt.Sprintf("high error rate: %.1f%% exceeds %.0f%% threshold", s.ErrorRates[i]*100, criticalErrorRate*100))
		}
		if s.Latencies[i] > criticalLatencyMs {
			issues = append(issues, fmt.Sprintf("high latency: %.0f ms exceeds %.0f ms threshold", s.Latencies[i], criticalLatencyMs))
		}
		if s.Throughputs[i] < criticalThroughputRPS {
			issues = append(issues, fmt.Sprintf("low throughput: %.0f rps below %.0f rps threshold", s.Throughputs[i], criticalThroughputRPS))
		}
	}
	return issues
}

// identifyOpportunities checks batch means against softer thresholds.
func identifyOpportunities(s stats.Summary) []string {
	opportunities := []string{}
	if s.MeanLatencyMs > opportunityLatencyMs {
		opportunities = append(opportunities, fmt.Sprintf("response time optimization: mean latency %.0f ms exceeds %.0f ms", s.MeanLatencyMs, opportunityLatencyMs))
	}
	if s.MeanThroughputRPS < opportunityThroughputRPS {
		opportunities = append(opportunities, fmt.Sprintf("capacity scaling: mean throughput %.0f rps below %.0f rps", s.MeanThroughputRPS, opportunityThroughputRPS))
	}
	if s.MeanErrorRate > opportunityErrorRate {
		opportunities = append(opportunities, fmt.Sprintf("error handling improvements: mean error rate %.1f%% exceeds %.0f%%", s.MeanErrorRate*100, opportunityErrorRate*100))
	}
	return opportunities
}
