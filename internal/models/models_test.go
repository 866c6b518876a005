package models

import (
	"encoding/json"
	"strings"
	"testing"
	"time"
)

func TestQoSMetricJSONTags(t *testing.T) {
	cases := []struct {
		name        string
		metric      QoSMetric
		mustContain []string
	}{
		{
			name: "includes_expected_fields",
			metric: QoSMetric{
				TenantID:          "tenant-1",
				ServiceType:       ServiceTranslation,
				Timestamp:         time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
				LatencyMs:         1200,
				ThroughputRPS:     150,
				ErrorRate:         0.01,
				AvailabilityPct:   99.5,
				ResponseTimeP95Ms: 1800,
			},
			mustContain: []string{
				"\"tenant_id\"",
				"\"service_type\"",
				"\"latency_ms\"",
				"\"throughput_rps\"",
				"\"error_rate\"",
				"\"availability_percent\"",
				"\"response_time_p95_ms\"",
			},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			payload, err := json.Marshal(tc.metric)
			if err != nil {
				t.Fatalf("failed to marshal metric: %v", err)
			}
			encoded := string(payload)
			for _, key := range tc.mustContain {
				if !strings.Contains(encoded, key) {
					t.Fatalf("expected JSON to contain %s, got %s", key, encoded)
				}
			}
		})
	}
}

func TestReportJSONTags(t *testing.T) {
	report := Report{
		Tool:    "qoslens",
		Version: "test",
		Metadata: Metadata{
			GeneratedAt: time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
			TenantID:    "tenant-1",
		},
		Profile:         CustomerProfile{TenantID: "tenant-1"},
		Analysis:        QoSAnalysis{TenantID: "tenant-1", TrendDirection: TrendStable},
		Value:           ValueMetrics{},
		Recommendations: []Recommendation{},
	}

	payload, err := json.Marshal(report)
	if err != nil {
		t.Fatalf("failed to marshal report: %v", err)
	}
	encoded := string(payload)
	keys := []string{
		"\"metadata\"",
		"\"customer_profile\"",
		"\"qos_analysis\"",
		"\"value_metrics\"",
		"\"recommendations\"",
	}
	for _, key := range keys {
		if !strings.Contains(encoded, key) {
			t.Fatalf("expected JSON to contain %s, got %s", key, encoded)
		}
	}
	if strings.Contains(encoded, "\"advisories\"") {
		t.Fatalf("expected empty advisories to be omitted, got %s", encoded)
	}
}

func TestKnownSector(t *testing.T) {
	cases := []struct {
		name   string
		sector Sector
		want   bool
	}{
		{name: "government", sector: SectorGovernment, want: true},
		{name: "healthcare", sector: SectorHealthcare, want: true},
		{name: "unknown", sector: Sector("other"), want: false},
		{name: "empty", sector: Sector(""), want: false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := KnownSector(tc.sector); got != tc.want {
				t.Fatalf("expected KnownSector(%q)=%v, got %v", tc.sector, tc.want, got)
			}
		})
	}
}

func TestPriorityRank(t *testing.T) {
	cases := []struct {
		name     string
		priority Priority
		want     int
	}{
		{name: "critical", priority: PriorityCritical, want: 4},
		{name: "high", priority: PriorityHigh, want: 3},
		{name: "medium", priority: PriorityMedium, want: 2},
		{name: "low", priority: PriorityLow, want: 1},
		{name: "unknown", priority: Priority("urgent"), want: 0},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := PriorityRank(tc.priority); got != tc.want {
				t.Fatalf("expected rank %d for %q, got %d", tc.want, tc.priority, got)
			}
		})
	}
}
