// Package analyzer computes composite QoS health scores, anomaly and trend
// flags, and issue lists from a tenant's metric batch.
package analyzer

import (
	"log/slog"

	"github.com/qoslens/qoslens/internal/models"
	"github.com/qoslens/qoslens/internal/stats"
	"github.com/qoslens/qoslens/pkg/config"
)

// Analyzer scores metric batches. It is stateless per invocation; the same
// instance may be shared across tenants and goroutines.
type Analyzer struct {
	config *config.Config
}

// New creates a new analyzer instance
func New(cfg *config.Config) *Analyzer {
	return &Analyzer{config: cfg}
}

// Analyze computes the full QoS analysis for one tenant's batch. An empty
// batch yields the documented neutral result (all scores 0, stable trend,
// no anomaly) rather than an error.
func (a *Analyzer) Analyze(tenantID string, metrics []models.QoSMetric) models.QoSAnalysis {
	analysis := models.QoSAnalysis{
		TenantID:       tenantID,
		TrendDirection: models.TrendStable,
		CriticalIssues: []string{},
		Opportunities:  []string{},
	}

	if len(metrics) == 0 {
		slog.Debug("empty metric batch, returning neutral analysis", slog.String("tenant", tenantID))
		return analysis
	}

	summary := stats.Summarize(metrics)
	analysis.SampleCount = summary.SampleCount

	analysis.PerformanceScore = unwrapScore("performance", performanceScore(summary))
	analysis.ReliabilityScore = unwrapScore("reliability", reliabilityScore(summary))
	analysis.CapacityScore = unwrapScore("capacity", capacityScore(summary))
	analysis.UtilizationScore = unwrapScore("utilization", utilizationScore(summary))

	if a.config == nil || a.config.AnomalyDetection {
		analysis.AnomalyDetected = detectAnomalies(summary)
	}
	analysis.TrendDirection = classifyTrend(summary)
	analysis.CriticalIssues = identifyCriticalIssues(summary)
	analysis.Opportunities = identifyOpportunities(summary)

	slog.Debug("analysis complete",
		slog.String("tenant", tenantID),
		slog.Int("samples", analysis.SampleCount),
		slog.Float64("performance", analysis.PerformanceScore),
		slog.Float64("reliability", analysis.ReliabilityScore),
		slog.Bool("anomaly", analysis.AnomalyDetected),
		slog.String("trend", string(analysis.TrendDirection)))

	return analysis
}
