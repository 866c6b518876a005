package recommender

import "github.com/qoslens/qoslens/internal/models"

// defaultUseCase is the rule set applied when a profile carries an unknown
// or empty use case category.
const defaultUseCase = "business_operations"

// Template is one parameterizable recommendation. ExpectedImpact and Effort
// use the high/medium/low vocabulary (impact also allows critical).
type Template struct {
	Title            string
	Description      string
	ExpectedImpact   string
	Effort           string
	TechnicalDetails map[string]string
}

// Catalog is the immutable rule set the generator works from. It is
// constructed once and injected; the generator never mutates it.
type Catalog struct {
	Templates map[models.RecommendationType][]Template

	// Per-sector priority multipliers keyed by factor name. Only factors
	// whose name matches a recommendation category affect priority.
	SectorPriorityMultipliers map[models.Sector]map[string]float64

	// Per-use-case priority factor lists; a category named in the list
	// gets a 1.5x priority boost.
	UseCasePriorityFactors map[string][]string

	BusinessValueMultipliers map[models.Sector]float64
}

// DefaultCatalog returns the built-in rule set.
func DefaultCatalog() Catalog {
	return Catalog{
		Templates: map[models.RecommendationType][]Template{
			models.RecPerformance: {
				{
					Title:          "Optimize Service Latency",
					Description:    "Service latency is above optimal thresholds, affecting user experience",
					ExpectedImpact: "high",
					Effort:         "medium",
					TechnicalDetails: map[string]string{
						"optimization_type": "latency_reduction",
						"target_latency":    "1000ms",
						"current_latency":   "2000ms",
					},
				},
				{
					Title:          "Improve Throughput Capacity",
					Description:    "Service throughput is below capacity requirements during peak usage",
					ExpectedImpact: "medium",
					Effort:         "high",
					TechnicalDetails: map[string]string{
						"optimization_type":  "capacity_scaling",
						"target_throughput":  "500 RPS",
						"current_throughput": "300 RPS",
					},
				},
			},
			models.RecReliability: {
				{
					Title:          "Reduce Error Rates",
					Description:    "Error rates are above acceptable thresholds, impacting service reliability",
					ExpectedImpact: "high",
					Effort:         "medium",
					TechnicalDetails: map[string]string{
						"optimization_type":  "error_mitigation",
						"target_error_rate":  "0.01",
						"current_error_rate": "0.05",
					},
				},
				{
					Title:          "Improve Service Availability",
					Description:    "Service availability is below SLA requirements",
					ExpectedImpact: "critical",
					Effort:         "high",
					TechnicalDetails: map[string]string{
						"optimization_type":    "availability_improvement",
						"target_availability":  "99.9%",
						"current_availability": "98.5%",
					},
				},
			},
			models.RecCapacity: {
				{
					Title:          "Scale Service Resources",
					Description:    "Service is approaching capacity limits during peak usage",
					ExpectedImpact: "medium",
					Effort:         "high",
					TechnicalDetails: map[string]string{
						"optimization_type":     "resource_scaling",
						"scaling_type":          "horizontal",
						"recommended_instances": "3",
					},
				},
				{
					Title:          "Optimize Resource Utilization",
					Description:    "Resource utilization is below optimal levels, indicating over-provisioning",
					ExpectedImpact: "low",
					Effort:         "low",
					TechnicalDetails: map[string]string{
						"optimization_type":   "resource_optimization",
						"current_utilization": "40%",
						"target_utilization":  "70%",
					},
				},
			},
			models.RecFeature: {
				{
					Title:          "Adopt Advanced Features",
					Description:    "Advanced service features are available but underutilized",
					ExpectedImpact: "medium",
					Effort:         "low",
					TechnicalDetails: map[string]string{
						"optimization_type": "feature_adoption",
						"feature_name":      "batch_processing",
						"current_usage":     "10%",
						"potential_usage":   "80%",
					},
				},
				{
					Title:          "Enable Monitoring Features",
					Description:    "Enhanced monitoring capabilities can improve operational visibility",
					ExpectedImpact: "low",
					Effort:         "low",
					TechnicalDetails: map[string]string{
						"optimization_type": "monitoring_enhancement",
						"feature_name":      "real_time_alerting",
						"current_status":    "disabled",
					},
				},
			},
		},

		SectorPriorityMultipliers: map[models.Sector]map[string]float64{
			models.SectorGovernment: {
				"availability":    2.0,
				"compliance":      1.8,
				"cost_efficiency": 1.5,
				"user_experience": 1.3,
			},
			models.SectorHealthcare: {
				"accuracy":      3.0,
				"reliability":   2.5,
				"response_time": 2.0,
				"availability":  2.0,
			},
			models.SectorEducation: {
				"accessibility":   2.0,
				"content_quality": 1.8,
				"user_experience": 1.5,
				"cost_efficiency": 1.3,
			},
			models.SectorPrivate: {
				"cost_efficiency": 1.8,
				"user_experience": 1.5,
				"reliability":     1.3,
				"scalability":     1.2,
			},
			models.SectorNGO: {
				"cost_efficiency": 2.0,
				"accessibility":   1.8,
				"reliability":     1.5,
				"user_experience": 1.3,
			},
		},

		UseCasePriorityFactors: map[string][]string{
			"citizen_services":      {"availability", "compliance", "user_experience"},
			"patient_communication": {"accuracy", "reliability", "response_time"},
			"content_localization":  {"content_quality", "accessibility", "user_experience"},
			"business_operations":   {"cost_efficiency", "scalability", "reliability"},
			"community_services":    {"accessibility", "cost_efficiency", "reliability"},
		},

		BusinessValueMultipliers: map[models.Sector]float64{
			models.SectorGovernment: 1.5,
			models.SectorHealthcare: 2.0,
			models.SectorEducation:  1.8,
			models.SectorNGO:        1.3,
			models.SectorPrivate:    1.0,
		},
	}
}

func (c Catalog) sectorPriorityMultiplier(sector models.Sector, recType models.RecommendationType) float64 {
	rules, ok := c.SectorPriorityMultipliers[sector]
	if !ok {
		rules = c.SectorPriorityMultipliers[models.SectorPrivate]
	}
	if m, ok := rules[string(recType)]; ok {
		return m
	}
	return 1.0
}

func (c Catalog) useCasePriorityBoost(useCase string, recType models.RecommendationType) float64 {
	factors, ok := c.UseCasePriorityFactors[useCase]
	if !ok {
		factors = c.UseCasePriorityFactors[defaultUseCase]
	}
	for _, factor := range factors {
		if factor == string(recType) {
			return 1.5
		}
	}
	return 1.0
}

func (c Catalog) businessValueMultiplier(sector models.Sector) float64 {
	if m, ok := c.BusinessValueMultipliers[sector]; ok {
		return m
	}
	return c.BusinessValueMultipliers[models.SectorPrivate]
}
