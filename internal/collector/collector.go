package collector

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/qoslens/qoslens/internal/models"
	"github.com/qoslens/qoslens/pkg/config"
)

// Collector retrieves QoS metric batches from ClickHouse
type Collector interface {
	Collect(ctx context.Context, tenantID string) ([]models.QoSMetric, error)
	Close() error
}

// collector implements the Collector interface
type collector struct {
	config  *config.Config
	client  *ClickHouseClient
	limiter *RateLimiter
}

// New creates a new collector instance
func New(cfg *config.Config) (Collector, error) {
	client, err := NewClickHouseClient(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create ClickHouse client: %w", err)
	}

	return &collector{
		config:  cfg,
		client:  client,
		limiter: NewRateLimiter(cfg.RateLimit),
	}, nil
}

// Collect fetches and validates metric rows for one tenant. Rows come
// back ordered by timestamp.
func (c *collector) Collect(ctx context.Context, tenantID string) ([]models.QoSMetric, error) {
	if strings.TrimSpace(tenantID) == "" {
		return nil, fmt.Errorf("tenant id is required")
	}

	// The pool's channels close on Stop, so each run gets a fresh one.
	pool := NewValidationPool(c.config.Concurrency)
	pool.Start(ctx)

	var metrics []models.QoSMetric
	done := make(chan struct{})
	go func() {
		defer close(done)
		for metric := range pool.Results() {
			metrics = append(metrics, metric)
		}
	}()

	scanned, err := c.client.FetchMetrics(ctx, tenantID, pool, c.limiter)
	pool.Stop()
	<-done

	if err != nil {
		return nil, fmt.Errorf("failed to fetch qos metrics: %w", err)
	}

	if dropped := pool.Skipped(); dropped > 0 {
		slog.Warn("dropped invalid metric rows",
			slog.String("tenant_id", tenantID),
			slog.Int64("dropped", dropped),
			slog.Int("scanned", scanned),
		)
	}

	// Workers may reorder rows.
	sort.SliceStable(metrics, func(i, j int) bool {
		return metrics[i].Timestamp.Before(metrics[j].Timestamp)
	})

	return metrics, nil
}

// Close closes the collector and its resources
func (c *collector) Close() error {
	if c.client != nil {
		return c.client.Close()
	}
	return nil
}
