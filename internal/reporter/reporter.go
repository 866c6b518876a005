// Package reporter assembles analysis, value, and recommendation outputs
// into one externally consumable report and writes it out.
package reporter

import (
	"time"

	"github.com/qoslens/qoslens/internal/models"
	"github.com/qoslens/qoslens/pkg/config"
)

const toolName = "qoslens"

// Advisory thresholds derived from the value figures.
const (
	advisoryCostSavings   = 100000.0
	advisoryReachFraction = 0.5
	advisoryEfficiencyPct = 20.0
	advisoryQualityPct    = 30.0
	advisoryROIRatio      = 2.0
	advisoryPaybackMonths = 24.0
)

// Reporter interface for writing reports
type Reporter interface {
	Generate(report *models.Report) error
}

type reporter struct {
	config *config.Config
}

// New creates a new reporter instance
func New(cfg *config.Config) Reporter {
	return &reporter{config: cfg}
}

// Generate writes the JSON report, plus the text rendition when requested.
func (r *reporter) Generate(report *models.Report) error {
	if err := WriteJSON(report, r.config); err != nil {
		return err
	}
	if r.config.Format == config.FormatText {
		if err := WriteText(report, r.config); err != nil {
			return err
		}
	}
	return nil
}

// Build packages the pipeline outputs into one report. Pure aggregation; it
// performs no validation beyond asserting its inputs are non-nil.
func Build(analysis *models.QoSAnalysis, value *models.ValueMetrics, recommendations []models.Recommendation, profile *models.CustomerProfile) (*models.Report, error) {
	if profile == nil {
		return nil, models.ErrNilProfile
	}
	if analysis == nil {
		return nil, models.ErrNilAnalysis
	}
	if value == nil {
		return nil, models.ErrNilValue
	}
	if recommendations == nil {
		return nil, models.ErrNilRecommendations
	}

	return &models.Report{
		Tool: toolName,
		Metadata: models.Metadata{
			GeneratedAt: time.Now().UTC(),
			TenantID:    profile.TenantID,
			SampleCount: analysis.SampleCount,
		},
		Profile:         *profile,
		Analysis:        *analysis,
		Value:           *value,
		Recommendations: recommendations,
		Advisories:      advisories(value, profile),
	}, nil
}

// advisories derives short advisory strings from the value figures.
func advisories(value *models.ValueMetrics, profile *models.CustomerProfile) []string {
	out := []string{}
	if value.CostSavings < advisoryCostSavings {
		out = append(out, "consider upgrading to a higher SLA tier for better cost efficiency")
	}
	if float64(value.UserReachImpact) < float64(profile.TargetUserBase)*advisoryReachFraction {
		out = append(out, "focus on improving service availability to reach more users")
	}
	if value.EfficiencyGains < advisoryEfficiencyPct {
		out = append(out, "optimize service performance to improve efficiency gains")
	}
	if value.QualityImprovements < advisoryQualityPct {
		out = append(out, "implement quality improvement measures for better user satisfaction")
	}
	if value.ROIRatio < advisoryROIRatio {
		out = append(out, "review service utilization to improve ROI")
	}
	if value.PaybackMonths > advisoryPaybackMonths {
		out = append(out, "consider phased implementation to reduce initial investment")
	}
	return out
}
