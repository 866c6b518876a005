package models

import "time"

// Report is the complete output structure consumed by the reporting layer.
type Report struct {
	Tool            string           `json:"tool"`
	Version         string           `json:"version"`
	Metadata        Metadata         `json:"metadata"`
	Profile         CustomerProfile  `json:"customer_profile"`
	Analysis        QoSAnalysis      `json:"qos_analysis"`
	Value           ValueMetrics     `json:"value_metrics"`
	Recommendations []Recommendation `json:"recommendations"`
	Advisories      []string         `json:"advisories,omitempty"`
}

// Metadata contains report generation info.
type Metadata struct {
	GeneratedAt      time.Time `json:"generated_at"`
	RunID            string    `json:"run_id,omitempty"`
	TenantID         string    `json:"tenant_id"`
	SampleCount      int       `json:"sample_count"`
	LookbackDays     int       `json:"lookback_days,omitempty"`
	AnalysisDuration string    `json:"analysis_duration,omitempty"`
	Version          string    `json:"version"`
}
