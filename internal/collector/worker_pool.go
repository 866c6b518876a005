package collector

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"sync"
	"sync/atomic"

	"github.com/qoslens/qoslens/internal/models"
)

// ValidationPool filters raw metric rows concurrently before analysis.
// Rows with missing identity or out-of-range readings are dropped.
type ValidationPool struct {
	workers int
	jobs    chan models.QoSMetric
	results chan models.QoSMetric
	skipped atomic.Int64
	wg      sync.WaitGroup
	ctx     context.Context
	cancel  context.CancelFunc
	started bool
	mu      sync.Mutex
}

// NewValidationPool creates a pool with the given worker count.
func NewValidationPool(workers int) *ValidationPool {
	if workers <= 0 {
		workers = 1
	}
	return &ValidationPool{
		workers: workers,
		jobs:    make(chan models.QoSMetric, workers*2),
		results: make(chan models.QoSMetric, workers*2),
	}
}

// Start launches the workers. Calling Start twice is a no-op.
func (p *ValidationPool) Start(ctx context.Context) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.started {
		return
	}

	p.ctx, p.cancel = context.WithCancel(ctx)
	p.started = true

	for i := 0; i < p.workers; i++ {
		p.wg.Add(1)
		go p.worker(i)
	}
}

func (p *ValidationPool) worker(id int) {
	defer func() {
		if r := recover(); r != nil {
			slog.Error("validation worker panic recovered",
				slog.Int("worker_id", id),
				slog.String("panic", fmt.Sprint(r)),
			)
		}
		p.wg.Done()
	}()

	for {
		select {
		case <-p.ctx.Done():
			return
		case metric, ok := <-p.jobs:
			if !ok {
				return
			}

			if !validMetric(metric) {
				p.skipped.Add(1)
				slog.Debug("dropping invalid metric row",
					slog.String("tenant_id", metric.TenantID),
					slog.Time("timestamp", metric.Timestamp),
				)
				continue
			}
			p.results <- metric
		}
	}
}

// Submit queues a metric row for validation.
func (p *ValidationPool) Submit(metric models.QoSMetric) {
	select {
	case <-p.ctx.Done():
		return
	case p.jobs <- metric:
	}
}

// Results returns the channel of rows that passed validation.
func (p *ValidationPool) Results() <-chan models.QoSMetric {
	return p.results
}

// Skipped returns the number of rows dropped so far.
func (p *ValidationPool) Skipped() int64 {
	return p.skipped.Load()
}

// Stop drains the pool and closes the results channel.
func (p *ValidationPool) Stop() {
	p.mu.Lock()
	if !p.started {
		p.mu.Unlock()
		return
	}
	p.mu.Unlock()

	close(p.jobs)
	p.wg.Wait()
	close(p.results)

	if p.cancel != nil {
		p.cancel()
	}

	p.mu.Lock()
	p.started = false
	p.mu.Unlock()
}

// validMetric reports whether a row carries usable readings. Error
// rate is a fraction in [0, 1]; availability is a percentage.
func validMetric(m models.QoSMetric) bool {
	if m.TenantID == "" || m.Timestamp.IsZero() {
		return false
	}
	for _, v := range []float64{
		m.LatencyMs,
		m.ThroughputRPS,
		m.ErrorRate,
		m.AvailabilityPct,
		m.ResponseTimeP95Ms,
	} {
		if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
			return false
		}
	}
	if m.ErrorRate > 1 {
		return false
	}
	if m.AvailabilityPct > 100 {
		return false
	}
	return true
}
