// Package recommender selects, parameterizes, and prioritizes improvement
// recommendations from a QoS analysis and a customer profile.
package recommender

import (
	"fmt"
	"log/slog"
	"math"
	"sort"

	"github.com/qoslens/qoslens/internal/models"
)

// Trigger thresholds per category. A category only produces candidates when
// its score falls below the threshold.
const (
	performanceTrigger = 70.0
	reliabilityTrigger = 80.0
	capacityTrigger    = 75.0
	utilizationTrigger = 60.0 // feature-adoption trigger

	maxRecommendations = 5

	defaultFactor     = 0.5
	defaultConfidence = 50.0
)

var impactScores = map[string]float64{
	"high":   0.8,
	"medium": 0.5,
	"low":    0.2,
}

var idPrefixes = map[models.RecommendationType]string{
	models.RecPerformance: "perf",
	models.RecReliability: "rel",
	models.RecCapacity:    "cap",
	models.RecFeature:     "feat",
}

// Generator produces recommendation batches. The catalog is fixed at
// construction; Generate is a pure function of its arguments.
type Generator struct {
	catalog Catalog
}

// New creates a new generator instance
func New(catalog Catalog) *Generator {
	return &Generator{catalog: catalog}
}

// Generate returns at most 5 recommendations, sorted by priority then
// descending business value. A nil profile is a collaborator contract
// violation; every other degraded input takes a documented default.
func (g *Generator) Generate(analysis models.QoSAnalysis, profile *models.CustomerProfile) ([]models.Recommendation, error) {
	if profile == nil {
		return nil, models.ErrNilProfile
	}

	candidates := []models.Recommendation{}

	triggered := []struct {
		recType models.RecommendationType
		score   float64
		below   float64
	}{
		{models.RecPerformance, analysis.PerformanceScore, performanceTrigger},
		{models.RecReliability, analysis.ReliabilityScore, reliabilityTrigger},
		{models.RecCapacity, analysis.CapacityScore, capacityTrigger},
		{models.RecFeature, analysis.UtilizationScore, utilizationTrigger},
	}

	for _, trigger := range triggered {
		if trigger.score >= trigger.below {
			continue
		}
		candidates = append(candidates, g.instantiate(trigger.recType, trigger.score, analysis, profile)...)
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		ri, rj := models.PriorityRank(candidates[i].Priority), models.PriorityRank(candidates[j].Priority)
		if ri != rj {
			return ri > rj
		}
		return candidates[i].BusinessValue > candidates[j].BusinessValue
	})

	if len(candidates) > maxRecommendations {
		candidates = candidates[:maxRecommendations]
	}

	slog.Debug("recommendations generated",
		slog.String("tenant", analysis.TenantID),
		slog.Int("count", len(candidates)))

	return candidates, nil
}

func (g *Generator) instantiate(recType models.RecommendationType, score float64, analysis models.QoSAnalysis, profile *models.CustomerProfile) []models.Recommendation {
	templates := g.catalog.Templates[recType]
	recs := make([]models.Recommendation, 0, len(templates))

	for i, template := range templates {
		impact := impactFactor(score, template.ExpectedImpact)
		effort := effortFactor(template.Effort)

		recs = append(recs, models.Recommendation{
			ID:               fmt.Sprintf("%s_%s_%d", idPrefixes[recType], analysis.TenantID, i),
			TenantID:         analysis.TenantID,
			Type:             recType,
			Priority:         g.priority(recType, template.ExpectedImpact, profile),
			Title:            template.Title,
			Description:      template.Description,
			ExpectedImpact:   template.ExpectedImpact,
			Effort:           template.Effort,
			ConfidenceScore:  confidence(analysis, profile),
			BusinessValue:    g.businessValue(impact, effort, profile.Sector),
			TechnicalDetails: template.TechnicalDetails,
			SectorContext:    string(profile.Sector),
			UseCaseContext:   profile.UseCaseCategory,
		})
	}
	return recs
}

// priority maps the template's expected impact to a base score, applies the
// sector and use-case multipliers, and re-buckets the result.
func (g *Generator) priority(recType models.RecommendationType, expectedImpact string, profile *models.CustomerProfile) models.Priority {
	var base float64
	switch expectedImpact {
	case "critical":
		base = 100
	case "high":
		base = 75
	case "medium":
		base = 50
	default:
		base = 25
	}

	score := base *
		g.catalog.sectorPriorityMultiplier(profile.Sector, recType) *
		g.catalog.useCasePriorityBoost(profile.UseCaseCategory, recType)

	switch {
	case score >= 100:
		return models.PriorityCritical
	case score >= 75:
		return models.PriorityHigh
	case score >= 50:
		return models.PriorityMedium
	default:
		return models.PriorityLow
	}
}

// impactFactor amplifies the base impact when the triggering score is poor.
func impactFactor(score float64, expectedImpact string) float64 {
	base, ok := impactScores[expectedImpact]
	if !ok {
		base = defaultFactor
	}
	switch {
	case score < 50:
		return base * 1.5
	case score < 75:
		return base * 1.2
	default:
		return base * 0.8
	}
}

func effortFactor(effort string) float64 {
	if v, ok := impactScores[effort]; ok {
		return v
	}
	return defaultFactor
}

// confidence starts at 70, adds 10 when an anomaly gave a clear signal, and
// up to 15 for profile completeness.
func confidence(analysis models.QoSAnalysis, profile *models.CustomerProfile) float64 {
	score := 70.0
	if analysis.AnomalyDetected {
		score += 10
	}

	populated := 0
	if profile.Sector != "" {
		populated++
	}
	if profile.UseCaseCategory != "" {
		populated++
	}
	if profile.SLATier != "" {
		populated++
	}
	score += float64(populated) / 3 * 15

	return math.Max(0, math.Min(100, score))
}

func (g *Generator) businessValue(impact, effort float64, sector models.Sector) float64 {
	value := impact * (1 - effort) * g.catalog.businessValueMultiplier(sector) * 100
	if math.IsNaN(value) {
		return defaultConfidence
	}
	return math.Max(0, math.Min(100, value))
}
