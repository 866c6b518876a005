package models

// QoSAnalysis is the derived health picture for one metric batch. It is
// recomputed on every invocation and never persisted by this pipeline.
type QoSAnalysis struct {
	TenantID          string         `json:"tenant_id"`
	PerformanceScore  float64        `json:"performance_score"`
	ReliabilityScore  float64        `json:"reliability_score"`
	CapacityScore     float64        `json:"capacity_score"`
	UtilizationScore  float64        `json:"utilization_score"`
	AnomalyDetected   bool           `json:"anomaly_detected"`
	TrendDirection    TrendDirection `json:"trend_direction"`
	CriticalIssues    []string       `json:"critical_issues"`
	Opportunities     []string       `json:"optimization_opportunities"`
	SampleCount       int            `json:"sample_count"`
}

// ValueMetrics is the monetary value and ROI estimate for one tenant.
type ValueMetrics struct {
	CostSavings         float64 `json:"cost_savings"`
	UserReachImpact     int64   `json:"user_reach_impact"`
	EfficiencyGains     float64 `json:"efficiency_gains"`
	QualityImprovements float64 `json:"quality_improvements"`
	TotalValueScore     float64 `json:"total_value_score"`
	ROIRatio            float64 `json:"roi_ratio"`
	PaybackMonths       float64 `json:"payback_period_months"`
	ConfidenceScore     float64 `json:"confidence_score"`
}

// Recommendation is one actionable improvement candidate. A batch is capped
// at 5 entries and ordered by priority then descending business value.
// External collaborators own persistence and status transitions.
type Recommendation struct {
	ID               string             `json:"id"`
	TenantID         string             `json:"tenant_id"`
	Type             RecommendationType `json:"type"`
	Priority         Priority           `json:"priority"`
	Title            string             `json:"title"`
	Description      string             `json:"description"`
	ExpectedImpact   string             `json:"expected_impact"`
	Effort           string             `json:"implementation_effort"`
	ConfidenceScore  float64            `json:"confidence_score"`
	BusinessValue    float64            `json:"business_value"`
	TechnicalDetails map[string]string  `json:"technical_details,omitempty"`
	SectorContext    string             `json:"sector_context,omitempty"`
	UseCaseContext   string             `json:"use_case_context,omitempty"`
}
