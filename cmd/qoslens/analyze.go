package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/qoslens/qoslens/internal/analyzer"
	"github.com/qoslens/qoslens/internal/baseline"
	"github.com/qoslens/qoslens/internal/collector"
	"github.com/qoslens/qoslens/internal/estimator"
	"github.com/qoslens/qoslens/internal/models"
	"github.com/qoslens/qoslens/internal/profile"
	"github.com/qoslens/qoslens/internal/recommender"
	"github.com/qoslens/qoslens/internal/reporter"
	"github.com/qoslens/qoslens/pkg/config"
	"github.com/spf13/cobra"
)

// NewAnalyzeCmd creates the analyze command
func NewAnalyzeCmd() *cobra.Command {
	cfg := config.DefaultConfig()

	// String variables for custom duration parsing
	var lookbackStr string
	var queryTimeoutStr string
	var configPath string

	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Analyze tenant QoS metrics and generate value reports",
		Long: `Analyze QoS metrics to score service health, detect anomalies
and trends, estimate delivered value, and generate prioritized
recommendations. One report is written per tenant.`,
		PreRunE: func(cmd *cobra.Command, args []string) error {
			if err := applyFileConfig(cmd, cfg, &lookbackStr, &queryTimeoutStr, configPath); err != nil {
				return err
			}

			if cfg.Format != config.FormatJSON && cfg.Format != config.FormatText {
				return fmt.Errorf("invalid --format value: %q (expected json or text)", cfg.Format)
			}

			var err error

			if lookbackStr != "" {
				cfg.LookbackPeriod, err = config.ParseDuration(lookbackStr)
				if err != nil {
					return fmt.Errorf("invalid --lookback duration: %w", err)
				}
			}

			if queryTimeoutStr != "" {
				cfg.QueryTimeout, err = config.ParseDuration(queryTimeoutStr)
				if err != nil {
					return fmt.Errorf("invalid --query-timeout duration: %w", err)
				}
			}

			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAnalyze(cfg)
		},
	}

	// Data source flags
	cmd.Flags().StringVar(&cfg.ClickHouseDSN, "clickhouse-dsn", "", "ClickHouse DSN for qos_metrics")
	cmd.Flags().StringVar(&cfg.PostgresDSN, "postgres-dsn", "", "PostgreSQL DSN for customer profiles")
	cmd.Flags().StringVar(&configPath, "config", "", "Path to config file (default: .qoslens.yaml)")

	cmd.Flags().StringVar(&queryTimeoutStr, "query-timeout", "5m", "Query timeout (e.g., 5m, 10m, 1h)")
	cmd.Flags().IntVar(&cfg.BatchSize, "batch-size", 100000, "Metric batch size per page")
	cmd.Flags().IntVar(&cfg.MaxRows, "max-rows", 1000000, "Max metric rows to process per tenant")
	cmd.Flags().StringVar(&lookbackStr, "lookback", "30d", "Lookback period (e.g., 7d, 30d, 90d, 720h)")
	cmd.Flags().IntVar(&cfg.RateLimit, "rate-limit", 10, "Page fetch rate limit (requests/sec)")

	// Concurrency flags
	cmd.Flags().IntVar(&cfg.Concurrency, "concurrency", 5, "Validation worker pool size")

	// Output flags
	cmd.Flags().StringVar(&cfg.OutputDir, "output", "./report", "Output directory")
	cmd.Flags().StringVar(&cfg.Format, "format", "json", "Output format (json, text)")

	// Analysis flags
	cmd.Flags().StringVar(&cfg.TenantID, "tenant", "", "Tenant to analyze (default: all tenants with a profile)")
	cmd.Flags().BoolVar(&cfg.AnomalyDetection, "anomaly-detection", true, "Enable anomaly detection")
	cmd.Flags().StringVar(&cfg.BaselinePath, "baseline", "", "Baseline file of acknowledged recommendations to suppress")
	cmd.Flags().BoolVar(&cfg.UpdateBaseline, "update-baseline", false, "Record generated recommendations into the baseline file")

	// Operational flags
	cmd.Flags().BoolVar(&cfg.Verbose, "verbose", false, "Verbose logging")
	cmd.Flags().BoolVar(&cfg.DryRun, "dry-run", false, "Dry run mode (don't write output)")

	return cmd
}

// applyFileConfig merges values from a .qoslens.yaml file into cfg.
// Flags set on the command line always win.
func applyFileConfig(cmd *cobra.Command, cfg *config.Config, lookbackStr, queryTimeoutStr *string, configPath string) error {
	var (
		fileCfg *config.FileConfig
		err     error
	)

	if configPath != "" {
		fileCfg, err = config.LoadFile(configPath)
	} else {
		fileCfg, _, err = config.AutoLoadFile()
	}
	if err != nil {
		return err
	}
	if fileCfg == nil {
		return nil
	}

	if !cmd.Flags().Changed("clickhouse-dsn") {
		if endpoint := fileCfg.ClickHouseEndpoint(); endpoint != "" {
			cfg.ClickHouseDSN = endpoint
		}
	}
	if !cmd.Flags().Changed("postgres-dsn") && fileCfg.PostgresDSN != "" {
		cfg.PostgresDSN = fileCfg.PostgresDSN
	}
	if !cmd.Flags().Changed("format") && fileCfg.Format != "" {
		cfg.Format = fileCfg.Format
	}
	if !cmd.Flags().Changed("query-timeout") {
		if timeout := fileCfg.QueryTimeoutValue(); timeout != "" {
			*queryTimeoutStr = timeout
		}
	}
	if !cmd.Flags().Changed("lookback") && fileCfg.Lookback != "" {
		*lookbackStr = fileCfg.Lookback
	}
	if !cmd.Flags().Changed("output") && fileCfg.OutputDir != "" {
		cfg.OutputDir = fileCfg.OutputDir
	}

	return nil
}

// runAnalyze executes the analysis workflow
func runAnalyze(cfg *config.Config) error {
	startTime := time.Now()
	ctx := context.Background()

	if strings.TrimSpace(cfg.ClickHouseDSN) == "" {
		return fmt.Errorf("clickhouse dsn is required")
	}
	if strings.TrimSpace(cfg.PostgresDSN) == "" {
		return fmt.Errorf("postgres dsn is required")
	}

	fmt.Println("🔌 Connecting to ClickHouse...")
	col, err := collector.New(cfg)
	if err != nil {
		return fmt.Errorf("failed to create collector: %w", err)
	}
	defer col.Close()

	fmt.Println("🗄️  Connecting to PostgreSQL...")
	pgStore, err := profile.NewPostgresStore(cfg.PostgresDSN)
	if err != nil {
		return fmt.Errorf("failed to open profile store: %w", err)
	}
	defer pgStore.Close()

	store := profile.NewCachedStore(pgStore, 5*time.Minute)

	if cfg.UpdateBaseline && strings.TrimSpace(cfg.BaselinePath) == "" {
		cfg.BaselinePath = baseline.DefaultPath
	}

	known := baseline.Set{}
	if strings.TrimSpace(cfg.BaselinePath) != "" {
		known, err = baseline.Load(cfg.BaselinePath)
		if err != nil {
			return err
		}
	}
	updated := baseline.Set{}
	baseline.AddAll(updated, baseline.Sorted(known))

	tenants, err := resolveTenants(ctx, cfg, store)
	if err != nil {
		return err
	}

	processed := 0
	for _, tenantID := range tenants {
		fingerprints, err := runTenant(ctx, cfg, col, store, tenantID, startTime, known)
		if err != nil {
			// In batch mode tenants without a stored profile are skipped.
			if errors.Is(err, profile.ErrNotFound) && cfg.TenantID == "" {
				slog.Warn("skipping tenant without profile", slog.String("tenant_id", tenantID))
				continue
			}
			return fmt.Errorf("tenant %s: %w", tenantID, err)
		}
		baseline.AddAll(updated, fingerprints)
		processed++
	}

	if cfg.UpdateBaseline && !cfg.DryRun {
		if err := baseline.Save(cfg.BaselinePath, updated); err != nil {
			return fmt.Errorf("failed to update baseline: %w", err)
		}
		fmt.Printf("📌 Baseline updated: %s\n", cfg.BaselinePath)
	}

	duration := time.Since(startTime)
	fmt.Printf("\n✅ Analyzed %d tenant(s) in %s!\n", processed, duration.Round(time.Second))
	if !cfg.DryRun {
		fmt.Printf("\n📊 View reports:\n")
		fmt.Printf("   qoslens serve %s\n", cfg.OutputDir)
	}

	return nil
}

// resolveTenants returns the tenant set for this run.
func resolveTenants(ctx context.Context, cfg *config.Config, store profile.Store) ([]string, error) {
	if cfg.TenantID != "" {
		return []string{cfg.TenantID}, nil
	}

	fmt.Println("👥 Listing tenants...")
	tenants, err := store.ListTenantIDs(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list tenants: %w", err)
	}
	if len(tenants) == 0 {
		return nil, fmt.Errorf("no customer profiles found")
	}
	return tenants, nil
}

// runTenant runs the full pipeline for one tenant. It returns the
// fingerprints of the generated recommendations for baseline updates.
func runTenant(ctx context.Context, cfg *config.Config, col collector.Collector, store profile.Store, tenantID string, startTime time.Time, known baseline.Set) ([]string, error) {
	fmt.Printf("📊 Collecting metrics for %s...\n", tenantID)
	metrics, err := col.Collect(ctx, tenantID)
	if err != nil {
		return nil, fmt.Errorf("failed to collect metrics: %w", err)
	}

	prof, err := store.Get(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	analysis := analyzer.New(cfg).Analyze(tenantID, metrics)

	value, err := estimator.New().Estimate(prof, metrics)
	if err != nil {
		return nil, fmt.Errorf("failed to estimate value: %w", err)
	}

	recommendations, err := recommender.New(recommender.DefaultCatalog()).Generate(analysis, prof)
	if err != nil {
		return nil, fmt.Errorf("failed to generate recommendations: %w", err)
	}

	report, err := reporter.Build(&analysis, &value, recommendations, prof)
	if err != nil {
		return nil, fmt.Errorf("failed to build report: %w", err)
	}
	stampMetadata(report, cfg, startTime)

	// Fingerprints are collected before suppression so acknowledged
	// recommendations stay in an updated baseline.
	fingerprints := baseline.CollectFingerprints(report)
	if suppressed, remaining := baseline.SuppressKnown(report, known); suppressed > 0 {
		fmt.Printf("✓ %s: %d acknowledged recommendation(s) suppressed, %d remaining\n",
			tenantID, suppressed, remaining)
	}

	fmt.Printf("✓ %s: %d samples, %d critical issues, %d recommendations\n",
		tenantID, analysis.SampleCount, len(analysis.CriticalIssues), len(report.Recommendations))

	if cfg.DryRun {
		fmt.Println("🏃 Dry run mode - skipping output")
		return fingerprints, nil
	}

	if err := reporter.New(cfg).Generate(report); err != nil {
		return nil, fmt.Errorf("failed to write report: %w", err)
	}

	return fingerprints, nil
}

// stampMetadata fills run-level metadata on a built report.
func stampMetadata(report *models.Report, cfg *config.Config, startTime time.Time) {
	report.Version = version
	report.Metadata.RunID = uuid.NewString()
	report.Metadata.LookbackDays = int(cfg.LookbackPeriod.Hours() / 24)
	report.Metadata.AnalysisDuration = time.Since(startTime).Round(time.Millisecond).String()
	report.Metadata.Version = version
}
