package models

import (
	"errors"
	"time"
)

// ServiceType identifies which API surface a QoS sample was measured against.
type ServiceType string

const (
	ServiceTranslation ServiceType = "translation"
	ServiceTTS         ServiceType = "tts"
	ServiceASR         ServiceType = "asr"
)

// Sector is the customer's industry category, used to weight value and
// priority calculations.
type Sector string

const (
	SectorGovernment Sector = "government"
	SectorHealthcare Sector = "healthcare"
	SectorEducation  Sector = "education"
	SectorPrivate    Sector = "private"
	SectorNGO        Sector = "ngo"
)

// KnownSector reports whether s is one of the enumerated sectors. Unknown
// sectors fall back to private-sector multipliers with a confidence penalty.
func KnownSector(s Sector) bool {
	switch s {
	case SectorGovernment, SectorHealthcare, SectorEducation, SectorPrivate, SectorNGO:
		return true
	}
	return false
}

// SLATier is the customer's contracted service level.
type SLATier string

const (
	TierBasic    SLATier = "basic"
	TierStandard SLATier = "standard"
	TierPremium  SLATier = "premium"
)

// TrendDirection classifies short-term metric movement.
type TrendDirection string

const (
	TrendImproving TrendDirection = "improving"
	TrendStable    TrendDirection = "stable"
	TrendDeclining TrendDirection = "declining"
)

// RecommendationType is the category a recommendation addresses.
type RecommendationType string

const (
	RecPerformance RecommendationType = "performance"
	RecReliability RecommendationType = "reliability"
	RecCapacity    RecommendationType = "capacity"
	RecFeature     RecommendationType = "feature"
)

// Priority buckets for recommendations, ordered critical > high > medium > low.
type Priority string

const (
	PriorityCritical Priority = "critical"
	PriorityHigh     Priority = "high"
	PriorityMedium   Priority = "medium"
	PriorityLow      Priority = "low"
)

// PriorityRank returns a sortable rank for a priority bucket (higher is more
// urgent). Unknown values rank below low.
func PriorityRank(p Priority) int {
	switch p {
	case PriorityCritical:
		return 4
	case PriorityHigh:
		return 3
	case PriorityMedium:
		return 2
	case PriorityLow:
		return 1
	}
	return 0
}

// Sentinel errors for collaborator contract violations. An absent input is a
// caller bug; an empty batch is not.
var (
	ErrNilProfile         = errors.New("customer profile is nil")
	ErrNilAnalysis        = errors.New("qos analysis is nil")
	ErrNilValue           = errors.New("value metrics is nil")
	ErrNilRecommendations = errors.New("recommendations list is nil")
)

// QoSMetric is one immutable observation from the metrics collector.
type QoSMetric struct {
	TenantID          string      `json:"tenant_id"`
	ServiceType       ServiceType `json:"service_type"`
	Timestamp         time.Time   `json:"timestamp"`
	LatencyMs         float64     `json:"latency_ms"`
	ThroughputRPS     float64     `json:"throughput_rps"`
	ErrorRate         float64     `json:"error_rate"`
	AvailabilityPct   float64     `json:"availability_percent"`
	ResponseTimeP95Ms float64     `json:"response_time_p95_ms"`
}

// CustomerProfile is tenant metadata created at onboarding. The pipeline
// only reads it.
type CustomerProfile struct {
	TenantID         string   `json:"tenant_id"`
	OrganizationName string   `json:"organization_name"`
	Sector           Sector   `json:"sector"`
	UseCaseCategory  string   `json:"use_case_category"`
	TargetUserBase   int64    `json:"target_user_base"`
	SLATier          SLATier  `json:"sla_tier"`
	Languages        []string `json:"languages_required"`
	Geography        []string `json:"geographical_coverage,omitempty"`
}
