package reporter

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/qoslens/qoslens/internal/models"
	"github.com/qoslens/qoslens/pkg/config"
)

func TestBuildRejectsNilInputs(t *testing.T) {
	analysis := &models.QoSAnalysis{TenantID: "tenant-1"}
	value := &models.ValueMetrics{}
	recs := []models.Recommendation{}
	profile := &models.CustomerProfile{TenantID: "tenant-1"}

	cases := []struct {
		name string
		fn   func() (*models.Report, error)
		want error
	}{
		{
			name: "nil_profile",
			fn:   func() (*models.Report, error) { return Build(analysis, value, recs, nil) },
			want: models.ErrNilProfile,
		},
		{
			name: "nil_analysis",
			fn:   func() (*models.Report, error) { return Build(nil, value, recs, profile) },
			want: models.ErrNilAnalysis,
		},
		{
			name: "nil_value",
			fn:   func() (*models.Report, error) { return Build(analysis, nil, recs, profile) },
			want: models.ErrNilValue,
		},
		{
			name: "nil_recommendations",
			fn:   func() (*models.Report, error) { return Build(analysis, value, nil, profile) },
			want: models.ErrNilRecommendations,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := tc.fn(); !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
		})
	}
}

func TestBuildAssemblesReport(t *testing.T) {
	analysis := &models.QoSAnalysis{TenantID: "tenant-1", PerformanceScore: 65, SampleCount: 12}
	value := &models.ValueMetrics{CostSavings: 250000, UserReachImpact: 900000, EfficiencyGains: 45, QualityImprovements: 55, ROIRatio: 5, PaybackMonths: 3}
	recs := []models.Recommendation{{ID: "perf_tenant-1_0", Title: "Optimize Service Latency"}}
	profile := &models.CustomerProfile{TenantID: "tenant-1", TargetUserBase: 1000000}

	report, err := Build(analysis, value, recs, profile)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	if report.Tool != "qoslens" {
		t.Fatalf("expected tool qoslens, got %s", report.Tool)
	}
	if report.Metadata.TenantID != "tenant-1" || report.Metadata.SampleCount != 12 {
		t.Fatalf("unexpected metadata %+v", report.Metadata)
	}
	if report.Metadata.GeneratedAt.IsZero() {
		t.Fatalf("expected generation timestamp")
	}
	if len(report.Recommendations) != 1 {
		t.Fatalf("expected 1 recommendation, got %d", len(report.Recommendations))
	}
	if len(report.Advisories) != 0 {
		t.Fatalf("expected no advisories for strong value figures, got %v", report.Advisories)
	}
}

func TestBuildAdvisories(t *testing.T) {
	analysis := &models.QoSAnalysis{TenantID: "tenant-1"}
	value := &models.ValueMetrics{
		CostSavings:         5000,
		UserReachImpact:     100,
		EfficiencyGains:     10,
		QualityImprovements: 10,
		ROIRatio:            0.5,
		PaybackMonths:       60,
	}
	profile := &models.CustomerProfile{TenantID: "tenant-1", TargetUserBase: 10000}

	report, err := Build(analysis, value, []models.Recommendation{}, profile)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	if len(report.Advisories) != 6 {
		t.Fatalf("expected all 6 advisories, got %d: %v", len(report.Advisories), report.Advisories)
	}
}

func TestWriteJSON(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.OutputDir = t.TempDir()

	report := &models.Report{
		Tool:            "qoslens",
		Metadata:        models.Metadata{TenantID: "tenant-1"},
		Recommendations: []models.Recommendation{},
	}

	if err := WriteJSON(report, cfg); err != nil {
		t.Fatalf("WriteJSON failed: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(cfg.OutputDir, "report-tenant-1.json"))
	if err != nil {
		t.Fatalf("failed to read report file: %v", err)
	}

	var decoded models.Report
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("report file is not valid JSON: %v", err)
	}
	if decoded.Metadata.TenantID != "tenant-1" {
		t.Fatalf("expected tenant-1 in decoded report, got %s", decoded.Metadata.TenantID)
	}
}

func TestWriteTextRendersSections(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.OutputDir = t.TempDir()

	report := &models.Report{
		Tool: "qoslens",
		Metadata: models.Metadata{
			TenantID:    "tenant-1",
			SampleCount: 2,
		},
		Profile: models.CustomerProfile{
			TenantID:         "tenant-1",
			OrganizationName: "Example Org",
			Sector:           models.SectorHealthcare,
		},
		Analysis: models.QoSAnalysis{
			TenantID:         "tenant-1",
			PerformanceScore: 49,
			TrendDirection:   models.TrendStable,
			CriticalIssues:   []string{"low availability: 80.0% below 95% threshold"},
			Opportunities:    []string{"capacity scaling: mean throughput 175 rps below 200 rps"},
		},
		Value: models.ValueMetrics{CostSavings: 14910, ROIRatio: 2.98},
		Recommendations: []models.Recommendation{
			{
				Priority:       models.PriorityCritical,
				Type:           models.RecReliability,
				Title:          "Improve Service Availability",
				Description:    "Service availability is below SLA requirements",
				ExpectedImpact: "critical",
				Effort:         "high",
			},
		},
		Advisories: []string{"review service utilization to improve ROI"},
	}

	var out bytes.Buffer
	if err := writeText(report, cfg, &out); err != nil {
		t.Fatalf("writeText failed: %v", err)
	}

	rendered := out.String()
	sections := []string{
		"QoS Value Report",
		"Health Scores",
		"Critical Issues",
		"Optimization Opportunities",
		"Estimated Value",
		"Recommendations",
		"Advisories",
		"Improve Service Availability",
		"Example Org",
	}
	for _, section := range sections {
		if !strings.Contains(rendered, section) {
			t.Fatalf("expected rendered report to contain %q:\n%s", section, rendered)
		}
	}

	if _, err := os.Stat(filepath.Join(cfg.OutputDir, "report-tenant-1.txt")); err != nil {
		t.Fatalf("expected text report file: %v", err)
	}
}

func TestWriteTextNilReport(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.OutputDir = t.TempDir()
	if err := writeText(nil, cfg, &bytes.Buffer{}); err == nil {
		t.Fatalf("expected error for nil report")
	}
}
