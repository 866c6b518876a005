// Package estimator turns a customer profile plus a QoS metric batch into
// monetary value, ROI, and payback estimates.
package estimator

import (
	"log/slog"
	"math"

	"github.com/qoslens/qoslens/internal/models"
	"github.com/qoslens/qoslens/internal/stats"
)

const (
	manualCostPerWord  = 0.15 // USD
	wordsPerUser       = 100.0
	automatedCostShare = 0.3

	accessibilityImprovement = 0.3
	languageCoverageFactor   = 0.25

	responseTimeWeight   = 0.4
	availabilityWeight   = 0.2
	errorReductionWeight = 0.6

	accuracyWeight     = 0.5
	satisfactionWeight = 0.4
	complianceWeight   = 0.3

	baselineErrorRate       = 0.05
	baselineAvailabilityPct = 95.0
	satisfactionFullRPS     = 100.0

	baseAnnualServiceCost = 5000.0
	costNormalizer        = 10000.0
	reachNormalizer       = 10000.0
	paybackCapMonths      = 60.0

	costWeight       = 0.35
	reachWeight      = 0.25
	efficiencyWeight = 0.25
	qualityWeight    = 0.15
)

// Estimator computes value metrics. Stateless; safe for concurrent use.
type Estimator struct{}

// New creates a new estimator instance
func New() *Estimator {
	return &Estimator{}
}

// Estimate computes the full value picture for one tenant. A nil profile is
// a collaborator contract violation; an empty batch yields zero monetary
// figures with the payback cap and a profile-only confidence score.
func (e *Estimator) Estimate(profile *models.CustomerProfile, metrics []models.QoSMetric) (models.ValueMetrics, error) {
	if profile == nil {
		return models.ValueMetrics{}, models.ErrNilProfile
	}

	summary := stats.Summarize(metrics)

	value := models.ValueMetrics{}
	if summary.SampleCount > 0 {
		value.CostSavings = finishValue("cost_savings", costSavings(profile, summary))
		value.UserReachImpact = userReachImpact(profile, summary)
		value.EfficiencyGains = finishValue("efficiency_gains", efficiencyGains(profile, summary))
		value.QualityImprovements = finishValue("quality_improvements", qualityImprovements(profile, summary))
		value.TotalValueScore = finishValue("total_value_score", totalValueScore(value))
	}

	serviceCost := annualServiceCost(profile)
	value.ROIRatio = finishValue("roi_ratio", roiRatio(value.CostSavings, serviceCost))
	value.PaybackMonths = paybackMonths(value.CostSavings, serviceCost)
	value.ConfidenceScore = confidenceScore(profile, summary.SampleCount)

	slog.Debug("value estimation complete",
		slog.String("tenant", profile.TenantID),
		slog.Int("samples", summary.SampleCount),
		slog.Float64("cost_savings", value.CostSavings),
		slog.Float64("roi", value.ROIRatio))

	return value, nil
}

// costSavings estimates annual savings over fully manual processing,
// assuming 100 processed words per target user per year.
func costSavings(profile *models.CustomerProfile, s stats.Summary) float64 {
	accuracy := 1 - s.MeanErrorRate
	wordsProcessed := float64(profile.TargetUserBase) * wordsPerUser
	manualCost := wordsProcessed * manualCostPerWord
	automatedCost := manualCost * (1 - accuracy) * automatedCostShare
	savings := (manualCost - automatedCost) * sectorMultiplier(costSectorMultipliers, profile.Sector)
	return math.Max(0, savings)
}

// userReachImpact estimates additional users served through availability
// above the 95% baseline and per-language coverage.
func userReachImpact(profile *models.CustomerProfile, s stats.Summary) int64 {
	availabilityImprovement := math.Max(0, s.MeanAvailabilityPct-baselineAvailabilityPct) / 100

	accessibility := int64(float64(profile.TargetUserBase) * accessibilityImprovement * availabilityImprovement)
	languages := int64(float64(profile.TargetUserBase) * float64(len(profile.Languages)) * languageCoverageFactor)

	impact := int64(float64(accessibility+languages) * sectorMultiplier(reachSectorMultipliers, profile.Sector))
	if impact < 0 {
		return 0
	}
	return impact
}

// efficiencyGains scores improvement over the sector benchmark as a percent.
func efficiencyGains(profile *models.CustomerProfile, s stats.Summary) float64 {
	benchmark := benchmarkFor(profile.Sector)

	var score float64
	if benchmark.ResponseTimeMs > 0 {
		responseImprovement := math.Max(0, benchmark.ResponseTimeMs-s.MeanP95Ms) / benchmark.ResponseTimeMs
		score += responseImprovement * responseTimeWeight
	}
	availabilityImprovement := math.Max(0, s.MeanAvailabilityPct-benchmark.AvailabilityPct) / 100
	score += availabilityImprovement * availabilityWeight

	errorReduction := math.Max(0, baselineErrorRate-s.MeanErrorRate) / baselineErrorRate
	score += errorReduction * errorReductionWeight

	return clampPercent(score * sectorMultiplier(efficiencySectorMultipliers, profile.Sector) * 100)
}

// qualityImprovements scores accuracy, reliability, and a throughput-derived
// satisfaction proxy as a percent.
func qualityImprovements(profile *models.CustomerProfile, s stats.Summary) float64 {
	accuracyImprovement := math.Max(0, baselineErrorRate-s.MeanErrorRate) / baselineErrorRate
	reliabilityImprovement := math.Max(0, s.MeanAvailabilityPct-baselineAvailabilityPct) / 100
	satisfactionProxy := math.Min(1, s.MeanThroughputRPS/satisfactionFullRPS)

	score := accuracyImprovement*accuracyWeight +
		reliabilityImprovement*complianceWeight +
		satisfactionProxy*satisfactionWeight

	return clampPercent(score * sectorMultiplier(qualitySectorMultipliers, profile.Sector) * 100)
}

// totalValueScore combines the four components, each normalized to 0..100.
func totalValueScore(v models.ValueMetrics) float64 {
	normalizedCost := math.Min(100, v.CostSavings/costNormalizer)
	normalizedReach := math.Min(100, float64(v.UserReachImpact)/reachNormalizer)

	total := normalizedCost*costWeight +
		normalizedReach*reachWeight +
		v.EfficiencyGains*efficiencyWeight +
		v.QualityImprovements*qualityWeight

	return clampPercent(total)
}

// annualServiceCost estimates what the tenant pays per year, scaled by user
// base size and SLA tier.
func annualServiceCost(profile *models.CustomerProfile) float64 {
	sizeMultiplier := 1.0
	switch {
	case profile.TargetUserBase >= 100000:
		sizeMultiplier = 3.0
	case profile.TargetUserBase >= 10000:
		sizeMultiplier = 2.0
	}
	return baseAnnualServiceCost * sizeMultiplier * slaMultiplier(profile.SLATier)
}

func roiRatio(costSavings, serviceCost float64) float64 {
	if serviceCost <= 0 {
		return 0
	}
	return math.Max(0, costSavings/serviceCost)
}

// paybackMonths reports how long until savings cover the annual service
// cost, capped at 60 months. Non-positive savings report the cap.
func paybackMonths(costSavings, serviceCost float64) float64 {
	if costSavings <= 0 {
		return paybackCapMonths
	}
	return math.Min(paybackCapMonths, serviceCost/costSavings*12)
}

// confidenceScore starts at a base of 70 and adjusts for sample volume,
// profile completeness, and unrecognized sector or use case.
func confidenceScore(profile *models.CustomerProfile, sampleCount int) float64 {
	confidence := 70.0

	switch {
	case sampleCount >= 100:
		confidence += 15
	case sampleCount >= 50:
		confidence += 10
	case sampleCount >= 10:
		confidence += 5
	}

	populated := 0
	if profile.Sector != "" {
		populated++
	}
	if profile.UseCaseCategory != "" {
		populated++
	}
	if profile.TargetUserBase > 0 {
		populated++
	}
	if profile.SLATier != "" {
		populated++
	}
	confidence += float64(populated) / 4 * 10

	if !models.KnownSector(profile.Sector) {
		confidence -= 10
	}
	if !knownUseCases[profile.UseCaseCategory] {
		confidence -= 10
	}

	return clampPercent(confidence)
}

// finishValue substitutes the zero fallback when arithmetic produced a
// non-finite figure, recording the degradation for observability.
func finishValue(name string, v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		slog.Debug("value computation degraded to fallback", slog.String("figure", name))
		return 0
	}
	return v
}

func clampPercent(v float64) float64 {
	if math.IsNaN(v) {
		return 0
	}
	return math.Max(0, math.Min(100, v))
}
