package estimator

import "github.com/qoslens/qoslens/internal/models"

// Sector multiplier tables. Unknown sectors fall back to the private-sector
// baseline of 1.0.
var (
	costSectorMultipliers = map[models.Sector]float64{
		models.SectorGovernment: 1.2,
		models.SectorHealthcare: 1.5,
		models.SectorEducation:  1.1,
		models.SectorPrivate:    1.0,
		models.SectorNGO:        0.8,
	}

	reachSectorMultipliers = map[models.Sector]float64{
		models.SectorGovernment: 1.5,
		models.SectorHealthcare: 1.8,
		models.SectorEducation:  1.3,
		models.SectorPrivate:    1.0,
		models.SectorNGO:        1.4,
	}

	efficiencySectorMultipliers = map[models.Sector]float64{
		models.SectorGovernment: 1.3,
		models.SectorHealthcare: 1.6,
		models.SectorEducation:  1.2,
		models.SectorPrivate:    1.0,
		models.SectorNGO:        1.1,
	}

	qualitySectorMultipliers = map[models.Sector]float64{
		models.SectorGovernment: 1.4,
		models.SectorHealthcare: 1.7,
		models.SectorEducation:  1.3,
		models.SectorPrivate:    1.0,
		models.SectorNGO:        1.2,
	}
)

// SectorBenchmark holds industry reference figures used by the efficiency
// computation.
type SectorBenchmark struct {
	AvailabilityPct float64
	ResponseTimeMs  float64
}

var sectorBenchmarks = map[models.Sector]SectorBenchmark{
	models.SectorGovernment: {AvailabilityPct: 99.2, ResponseTimeMs: 3000},
	models.SectorHealthcare: {AvailabilityPct: 99.8, ResponseTimeMs: 1500},
	models.SectorEducation:  {AvailabilityPct: 98.5, ResponseTimeMs: 2800},
	models.SectorPrivate:    {AvailabilityPct: 99.0, ResponseTimeMs: 2200},
	models.SectorNGO:        {AvailabilityPct: 97.5, ResponseTimeMs: 3500},
}

var slaCostMultipliers = map[models.SLATier]float64{
	models.TierBasic:    1.0,
	models.TierStandard: 1.5,
	models.TierPremium:  2.5,
}

// Use-case categories the model has been calibrated for. Anything else gets
// a confidence penalty but is otherwise processed normally.
var knownUseCases = map[string]bool{
	"citizen_services":      true,
	"patient_communication": true,
	"content_localization":  true,
	"business_operations":   true,
	"community_services":    true,
}

func sectorMultiplier(table map[models.Sector]float64, sector models.Sector) float64 {
	if m, ok := table[sector]; ok {
		return m
	}
	return table[models.SectorPrivate]
}

func benchmarkFor(sector models.Sector) SectorBenchmark {
	if b, ok := sectorBenchmarks[sector]; ok {
		return b
	}
	return sectorBenchmarks[models.SectorPrivate]
}

func slaMultiplier(tier models.SLATier) float64 {
	if m, ok := slaCostMultipliers[tier]; ok {
		return m
	}
	return 1.0
}
