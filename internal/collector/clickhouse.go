package collector

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/ClickHouse/clickhouse-go/v2"
	"github.com/qoslens/qoslens/internal/models"
	"github.com/qoslens/qoslens/pkg/config"
)

// ClickHouseClient handles ClickHouse connections and metric queries
type ClickHouseClient struct {
	conn   *sql.DB
	config *config.Config
}

// NewClickHouseClient creates a new ClickHouse client
func NewClickHouseClient(cfg *config.Config) (*ClickHouseClient, error) {
	opts, err := clickhouse.ParseDSN(cfg.ClickHouseDSN)
	if err != nil {
		return nil, fmt.Errorf("failed to parse ClickHouse DSN: %w", err)
	}

	opts.MaxOpenConns = 10
	opts.MaxIdleConns = 5
	opts.ConnMaxLifetime = time.Hour

	opts.ReadTimeout = 10 * time.Minute
	opts.DialTimeout = 30 * time.Second

	// Readonly users reject driver-set query settings such as
	// max_execution_time, so leave them unset.
	opts.Settings = nil

	conn := clickhouse.OpenDB(opts)
	if err := conn.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping ClickHouse: %w", err)
	}

	slog.Debug("connected to ClickHouse", slog.String("addr", opts.Addr[0]))

	return &ClickHouseClient{
		conn:   conn,
		config: cfg,
	}, nil
}

const metricsQuery = `
	SELECT
		tenant_id,
		service_type,
		timestamp,
		latency_ms,
		throughput_rps,
		error_rate,
		availability_percent,
		response_time_p95_ms
	FROM qos_metrics
	WHERE tenant_id = ?
	  AND timestamp >= now() - INTERVAL ? DAY
	ORDER BY timestamp
	LIMIT ? OFFSET ?
`

// FetchMetrics pages through qos_metrics for one tenant and submits
// each scanned row to the validation pool. It returns the number of
// rows scanned.
func (c *ClickHouseClient) FetchMetrics(ctx context.Context, tenantID string, pool *ValidationPool, limiter *RateLimiter) (int, error) {
	lookbackDays := int(c.config.LookbackPeriod.Hours() / 24)
	if lookbackDays < 1 {
		lookbackDays = 1
	}

	ctx, cancel := withFetchDeadline(ctx, c.config.QueryTimeout)
	defer cancel()

	offset := 0
	total := 0

	for {
		if limiter != nil {
			if err := limiter.Wait(ctx); err != nil {
				return total, fmt.Errorf("rate limiter interrupted: %w", err)
			}
		}

		var rows *sql.Rows
		err := runWithRetry(ctx, defaultRetryPolicy(), func() error {
			var queryErr error
			rows, queryErr = c.conn.QueryContext(ctx, metricsQuery, tenantID, lookbackDays, c.config.BatchSize, offset)
			return queryErr
		})
		if err != nil {
			return total, fmt.Errorf("metrics query failed at offset %d: %w", offset, err)
		}

		scanned, err := c.scanBatch(rows, pool)
		rows.Close()

		if err != nil {
			return total, fmt.Errorf("failed to scan batch at offset %d: %w", offset, err)
		}

		if scanned == 0 {
			break
		}

		total += scanned
		slog.Debug("fetched metrics page",
			slog.String("tenant_id", tenantID),
			slog.Int("rows", scanned),
			slog.Int("total", total),
		)

		if total >= c.config.MaxRows {
			slog.Debug("max rows limit reached, stopping collection",
				slog.Int("max_rows", c.config.MaxRows),
			)
			break
		}

		if scanned < c.config.BatchSize {
			break
		}

		offset += c.config.BatchSize
	}

	return total, nil
}

// scanBatch scans one page of rows and submits them for validation.
// It returns the number of rows the page contained.
func (c *ClickHouseClient) scanBatch(rows *sql.Rows, pool *ValidationPool) (int, error) {
	rowCount := 0
	submitted := 0
	skipped := 0

	for rows.Next() {
		rowCount++

		var (
			metric      models.QoSMetric
			serviceType string
		)

		err := rows.Scan(
			&metric.TenantID,
			&serviceType,
			&metric.Timestamp,
			&metric.LatencyMs,
			&metric.ThroughputRPS,
			&metric.ErrorRate,
			&metric.AvailabilityPct,
			&metric.ResponseTimeP95Ms,
		)
		if err != nil {
			skipped++
			if skipped == 1 {
				slog.Warn("failed to scan metric row, check qos_metrics column types",
					slog.Int("row", rowCount),
					slog.String("error", err.Error()),
				)
			}
			continue
		}

		metric.ServiceType = models.ServiceType(serviceType)
		pool.Submit(metric)
		submitted++
	}

	if skipped > 0 {
		slog.Warn("skipped unreadable metric rows",
			slog.Int("skipped", skipped),
			slog.Int("rows", rowCount),
		)
	}

	if err := rows.Err(); err != nil {
		// Keep what was read if the page partially succeeded.
		if submitted > 0 {
			slog.Warn("row iteration error, keeping partial page",
				slog.Int("submitted", submitted),
				slog.String("error", err.Error()),
			)
			return rowCount, nil
		}
		return rowCount, err
	}

	return rowCount, nil
}

// Close closes the ClickHouse connection
func (c *ClickHouseClient) Close() error {
	if c.conn != nil {
		return c.conn.Close()
	}
	return nil
}
