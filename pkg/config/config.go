package config

import "time"

// Output formats accepted by the reporter.
const (
	FormatJSON = "json"
	FormatText = "text"
)

// Config holds all runtime configuration
type Config struct {
	// ClickHouse settings
	ClickHouseDSN  string
	QueryTimeout   time.Duration
	BatchSize      int
	MaxRows        int
	LookbackPeriod time.Duration
	RateLimit      int

	// Postgres settings
	PostgresDSN string

	// Concurrency settings
	Concurrency int

	// Output settings
	OutputDir string
	Format    string

	// Analysis settings
	TenantID         string
	AnomalyDetection bool
	BaselinePath     string
	UpdateBaseline   bool

	// Server settings
	ServerPort int

	// Operational flags
	Verbose bool
	DryRun  bool
}

// DefaultConfig returns sensible defaults
func DefaultConfig() *Config {
	return &Config{
		QueryTimeout:     5 * time.Minute,
		BatchSize:        100000,
		MaxRows:          1000000,
		LookbackPeriod:   30 * 24 * time.Hour, // 30 days
		RateLimit:        10,
		Concurrency:      5,
		OutputDir:        "./report",
		Format:           FormatJSON,
		AnomalyDetection: true,
		ServerPort:       8080,
		Verbose:          false,
		DryRun:           false,
	}
}
