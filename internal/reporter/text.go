package reporter

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/qoslens/qoslens/internal/models"
	"github.com/qoslens/qoslens/pkg/config"
)

// WriteText writes a human-readable report to report-<tenant>.txt and stdout.
func WriteText(report *models.Report, cfg *config.Config) error {
	return writeText(report, cfg, os.Stdout)
}

func writeText(report *models.Report, cfg *config.Config, out io.Writer) error {
	if report == nil {
		return fmt.Errorf("report is nil")
	}
	if cfg == nil {
		return fmt.Errorf("config is nil")
	}

	if err := os.MkdirAll(cfg.OutputDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	rendered := renderTextReport(report)
	outputPath := filepath.Join(cfg.OutputDir, reportFileName(report, "txt"))

	if err := os.WriteFile(outputPath, []byte(rendered), 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", outputPath, err)
	}

	if _, err := io.WriteString(out, rendered); err != nil {
		return fmt.Errorf("failed to write text report to output: %w", err)
	}

	return nil
}

func renderTextReport(report *models.Report) string {
	var b strings.Builder

	generatedAt := "unknown"
	if !report.Metadata.GeneratedAt.IsZero() {
		generatedAt = report.Metadata.GeneratedAt.UTC().Format(time.RFC3339)
	}

	tenant := report.Metadata.TenantID
	if tenant == "" {
		tenant = "unknown"
	}

	writeSectionHeader(&b, "QoS Value Report")
	fmt.Fprintf(&b, "Tenant: %s\n", tenant)
	if report.Profile.OrganizationName != "" {
		fmt.Fprintf(&b, "Organization: %s\n", report.Profile.OrganizationName)
	}
	if report.Profile.Sector != "" {
		fmt.Fprintf(&b, "Sector: %s\n", report.Profile.Sector)
	}
	fmt.Fprintf(&b, "Generated: %s\n", generatedAt)
	fmt.Fprintf(&b, "Samples analyzed: %d\n", report.Metadata.SampleCount)
	b.WriteString("\n")

	writeSectionHeader(&b, "Health Scores")
	fmt.Fprintf(&b, "Performance:  %5.1f\n", report.Analysis.PerformanceScore)
	fmt.Fprintf(&b, "Reliability:  %5.1f\n", report.Analysis.ReliabilityScore)
	fmt.Fprintf(&b, "Capacity:     %5.1f\n", report.Analysis.CapacityScore)
	fmt.Fprintf(&b, "Utilization:  %5.1f\n", report.Analysis.UtilizationScore)
	fmt.Fprintf(&b, "Trend: %s | Anomaly detected: %v\n", report.Analysis.TrendDirection, report.Analysis.AnomalyDetected)
	b.WriteString("\n")

	if len(report.Analysis.CriticalIssues) > 0 {
		writeSectionHeader(&b, "Critical Issues")
		for _, issue := range report.Analysis.CriticalIssues {
			fmt.Fprintf(&b, "- %s\n", issue)
		}
		b.WriteString("\n")
	}

	if len(report.Analysis.Opportunities) > 0 {
		writeSectionHeader(&b, "Optimization Opportunities")
		for _, opportunity := range report.Analysis.Opportunities {
			fmt.Fprintf(&b, "- %s\n", opportunity)
		}
		b.WriteString("\n")
	}

	writeSectionHeader(&b, "Estimated Value")
	fmt.Fprintf(&b, "Cost savings:        $%.2f/year\n", report.Value.CostSavings)
	fmt.Fprintf(&b, "User reach impact:   %d users\n", report.Value.UserReachImpact)
	fmt.Fprintf(&b, "Efficiency gains:    %.1f%%\n", report.Value.EfficiencyGains)
	fmt.Fprintf(&b, "Quality improvement: %.1f%%\n", report.Value.QualityImprovements)
	fmt.Fprintf(&b, "Total value score:   %.1f/100\n", report.Value.TotalValueScore)
	fmt.Fprintf(&b, "ROI ratio:           %.2f:1\n", report.Value.ROIRatio)
	fmt.Fprintf(&b, "Payback period:      %.1f months\n", report.Value.PaybackMonths)
	fmt.Fprintf(&b, "Confidence:          %.1f%%\n", report.Value.ConfidenceScore)
	b.WriteString("\n")

	writeSectionHeader(&b, "Recommendations")
	if len(report.Recommendations) == 0 {
		b.WriteString("No recommendations; all scores above trigger thresholds.\n")
	} else {
		for i, rec := range report.Recommendations {
			fmt.Fprintf(&b, "%d. [%s] %s (%s)\n", i+1, rec.Priority, rec.Title, rec.Type)
			fmt.Fprintf(&b, "   %s\n", rec.Description)
			fmt.Fprintf(&b, "   impact=%s effort=%s business value=%.1f confidence=%.1f%%\n",
				rec.ExpectedImpact, rec.Effort, rec.BusinessValue, rec.ConfidenceScore)
		}
	}

	if len(report.Advisories) > 0 {
		b.WriteString("\n")
		writeSectionHeader(&b, "Advisories")
		for _, advisory := range report.Advisories {
			fmt.Fprintf(&b, "- %s\n", advisory)
		}
	}

	return b.String()
}

func writeSectionHeader(b *strings.Builder, title string) {
	fmt.Fprintf(b, "%s\n", title)
	fmt.Fprintf(b, "%s\n", strings.Repeat("-", len(title)))
}
