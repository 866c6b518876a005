package collector

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/qoslens/qoslens/pkg/config"
)

type queryCall struct {
	query string
	args  []driver.NamedValue
}

type mockState struct {
	mu             sync.Mutex
	pages          [][][]driver.Value
	columns        []string
	calls          []queryCall
	queryErr       error
	queryErrByCall map[int]error
	rowsErr        map[int]error
}

type mockDriver struct {
	state *mockState
}

func (d *mockDriver) Open(name string) (driver.Conn, error) {
	return &mockConn{state: d.state}, nil
}

type mockConn struct {
	state *mockState
}

func (c *mockConn) Prepare(query string) (driver.Stmt, error) {
	return nil, errors.New("prepare not supported")
}

func (c *mockConn) Close() error {
	return nil
}

func (c *mockConn) Begin() (driver.Tx, error) {
	return nil, errors.New("transactions not supported")
}

func (c *mockConn) QueryContext(ctx context.Context, query string, args []driver.NamedValue) (driver.Rows, error) {
	c.state.mu.Lock()
	defer c.state.mu.Unlock()

	copiedArgs := make([]driver.NamedValue, len(args))
	copy(copiedArgs, args)
	c.state.calls = append(c.state.calls, queryCall{query: query, args: copiedArgs})
	idx := len(c.state.calls) - 1

	if c.state.queryErr != nil {
		return nil, c.state.queryErr
	}
	if err, ok := c.state.queryErrByCall[idx]; ok {
		return nil, err
	}

	if idx >= len(c.state.pages) {
		return &mockRows{columns: c.state.columns, values: nil}, nil
	}

	return &mockRows{
		columns: c.state.columns,
		values:  c.state.pages[idx],
		nextErr: c.state.rowsErr[idx],
	}, nil
}

var _ driver.QueryerContext = (*mockConn)(nil)

var driverCounter uint64

func newMockDB(t *testing.T, state *mockState) *sql.DB {
	t.Helper()
	name := fmt.Sprintf("mockdb-%d", atomic.AddUint64(&driverCounter, 1))
	sql.Register(name, &mockDriver{state: state})
	db, err := sql.Open(name, "")
	if err != nil {
		t.Fatalf("failed to open mock db: %v", err)
	}
	return db
}

type mockRows struct {
	columns []string
	values  [][]driver.Value
	idx     int
	nextErr error
}

func (r *mockRows) Columns() []string {
	return r.columns
}

func (r *mockRows) Close() error {
	return nil
}

func (r *mockRows) Next(dest []driver.Value) error {
	if r.idx >= len(r.values) {
		if r.nextErr != nil {
			err := r.nextErr
			r.nextErr = nil
			return err
		}
		return io.EOF
	}
	copy(dest, r.values[r.idx])
	r.idx++
	return nil
}

func metricColumns() []string {
	return []string{
		"tenant_id",
		"service_type",
		"timestamp",
		"latency_ms",
		"throughput_rps",
		"error_rate",
		"availability_percent",
		"response_time_p95_ms",
	}
}

func metricRow(tenantID string, ts time.Time, latencyMs float64) []driver.Value {
	return []driver.Value{
		tenantID,
		"translation",
		ts,
		latencyMs,
		float64(200),
		float64(0.01),
		float64(99.5),
		latencyMs * 1.5,
	}
}

func fetchCollector(cfg *config.Config, db *sql.DB) *collector {
	return &collector{
		config:  cfg,
		client:  &ClickHouseClient{conn: db, config: cfg},
		limiter: NewRateLimiter(0),
	}
}

func TestCollectPagination(t *testing.T) {
	base := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	row := func(i int) []driver.Value {
		return metricRow("tenant-1", base.Add(time.Duration(i)*time.Minute), 1000)
	}

	cases := []struct {
		name        string
		pages       [][][]driver.Value
		batchSize   int
		maxRows     int
		wantMetrics int
		wantCalls   int
		wantOffsets []int
	}{
		{
			name: "stops_on_short_page",
			pages: [][][]driver.Value{
				{row(0), row(1)},
				{row(2)},
			},
			batchSize:   2,
			maxRows:     100,
			wantMetrics: 3,
			wantCalls:   2,
			wantOffsets: []int{0, 2},
		},
		{
			name: "stops_on_max_rows",
			pages: [][][]driver.Value{
				{row(0), row(1)},
				{row(2), row(3)},
				{row(4)},
			},
			batchSize:   2,
			maxRows:     3,
			wantMetrics: 4,
			wantCalls:   2,
			wantOffsets: []int{0, 2},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			state := &mockState{pages: tc.pages, columns: metricColumns()}
			db := newMockDB(t, state)
			t.Cleanup(func() {
				_ = db.Close()
			})

			cfg := config.DefaultConfig()
			cfg.LookbackPeriod = 48 * time.Hour
			cfg.BatchSize = tc.batchSize
			cfg.MaxRows = tc.maxRows
			cfg.Concurrency = 2

			metrics, err := fetchCollector(cfg, db).Collect(context.Background(), "tenant-1")
			if err != nil {
				t.Fatalf("Collect failed: %v", err)
			}

			if len(metrics) != tc.wantMetrics {
				t.Fatalf("expected %d metrics, got %d", tc.wantMetrics, len(metrics))
			}

			state.mu.Lock()
			calls := append([]queryCall(nil), state.calls...)
			state.mu.Unlock()

			if len(calls) != tc.wantCalls {
				t.Fatalf("expected %d query calls, got %d", tc.wantCalls, len(calls))
			}

			for i, call := range calls {
				if !strings.Contains(call.query, "FROM qos_metrics") {
					t.Fatalf("expected query to target qos_metrics")
				}
				if len(call.args) != 4 {
					t.Fatalf("expected 4 args, got %d", len(call.args))
				}
				if got := call.args[0].Value; got != "tenant-1" {
					t.Fatalf("expected tenant-1 filter, got %v", got)
				}
				if got := toInt(call.args[3].Value); got != tc.wantOffsets[i] {
					t.Fatalf("expected offset %d, got %d", tc.wantOffsets[i], got)
				}
			}
		})
	}
}

func TestCollectOrdersByTimestamp(t *testing.T) {
	base := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	state := &mockState{
		columns: metricColumns(),
		pages: [][][]driver.Value{
			{
				metricRow("tenant-1", base.Add(2*time.Minute), 1000),
				metricRow("tenant-1", base, 1000),
				metricRow("tenant-1", base.Add(time.Minute), 1000),
			},
		},
	}

	db := newMockDB(t, state)
	t.Cleanup(func() {
		_ = db.Close()
	})

	cfg := config.DefaultConfig()
	cfg.Concurrency = 4

	metrics, err := fetchCollector(cfg, db).Collect(context.Background(), "tenant-1")
	if err != nil {
		t.Fatalf("Collect failed: %v", err)
	}
	if len(metrics) != 3 {
		t.Fatalf("expected 3 metrics, got %d", len(metrics))
	}
	for i := 1; i < len(metrics); i++ {
		if metrics[i].Timestamp.Before(metrics[i-1].Timestamp) {
			t.Fatalf("expected metrics ordered by timestamp, got %v", metrics)
		}
	}
}

func TestCollectDropsInvalidRows(t *testing.T) {
	base := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)

	badErrorRate := metricRow("tenant-1", base.Add(time.Minute), 1000)
	badErrorRate[5] = float64(1.5)

	badAvailability := metricRow("tenant-1", base.Add(2*time.Minute), 1000)
	badAvailability[6] = float64(120)

	negativeLatency := metricRow("tenant-1", base.Add(3*time.Minute), -5)

	state := &mockState{
		columns: metricColumns(),
		pages: [][][]driver.Value{
			{
				metricRow("tenant-1", base, 1000),
				badErrorRate,
				badAvailability,
				negativeLatency,
				metricRow("", base.Add(4*time.Minute), 1000),
			},
		},
	}

	db := newMockDB(t, state)
	t.Cleanup(func() {
		_ = db.Close()
	})

	metrics, err := fetchCollector(config.DefaultConfig(), db).Collect(context.Background(), "tenant-1")
	if err != nil {
		t.Fatalf("Collect failed: %v", err)
	}
	if len(metrics) != 1 {
		t.Fatalf("expected 1 valid metric, got %d", len(metrics))
	}
	if metrics[0].TenantID != "tenant-1" || !metrics[0].Timestamp.Equal(base) {
		t.Fatalf("unexpected surviving metric: %+v", metrics[0])
	}
}

func TestCollectRetriesTransientErrors(t *testing.T) {
	base := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	state := &mockState{
		columns: metricColumns(),
		pages: [][][]driver.Value{
			nil, // first call fails before rows are returned
			{metricRow("tenant-1", base, 1000)},
		},
		queryErrByCall: map[int]error{
			0: errors.New("i/o timeout"),
		},
	}

	db := newMockDB(t, state)
	t.Cleanup(func() {
		_ = db.Close()
	})

	cfg := config.DefaultConfig()
	cfg.QueryTimeout = 5 * time.Second

	metrics, err := fetchCollector(cfg, db).Collect(context.Background(), "tenant-1")
	if err != nil {
		t.Fatalf("Collect failed: %v", err)
	}
	if len(metrics) != 1 {
		t.Fatalf("expected 1 metric, got %d", len(metrics))
	}

	state.mu.Lock()
	callCount := len(state.calls)
	state.mu.Unlock()
	if callCount != 2 {
		t.Fatalf("expected 2 query attempts, got %d", callCount)
	}
}

func TestCollectAuthErrorsFailFast(t *testing.T) {
	state := &mockState{
		columns: metricColumns(),
		queryErrByCall: map[int]error{
			0: errors.New("code: 516, message: Authentication failed"),
		},
	}

	db := newMockDB(t, state)
	t.Cleanup(func() {
		_ = db.Close()
	})

	cfg := config.DefaultConfig()
	cfg.QueryTimeout = 5 * time.Second

	_, err := fetchCollector(cfg, db).Collect(context.Background(), "tenant-1")
	if err == nil {
		t.Fatal("expected auth error")
	}
	if !strings.Contains(strings.ToLower(err.Error()), "authentication failed") {
		t.Fatalf("expected auth failure error, got %v", err)
	}

	state.mu.Lock()
	callCount := len(state.calls)
	state.mu.Unlock()
	if callCount != 1 {
		t.Fatalf("expected auth error to fail fast (1 attempt), got %d", callCount)
	}
}

func TestCollectHonorsTotalQueryTimeout(t *testing.T) {
	state := &mockState{
		columns:  metricColumns(),
		queryErr: errors.New("i/o timeout"),
	}

	db := newMockDB(t, state)
	t.Cleanup(func() {
		_ = db.Close()
	})

	cfg := config.DefaultConfig()
	cfg.QueryTimeout = 20 * time.Millisecond

	_, err := fetchCollector(cfg, db).Collect(context.Background(), "tenant-1")
	if err == nil {
		t.Fatal("expected timeout error")
	}
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected timeout error, got %v", err)
	}

	state.mu.Lock()
	callCount := len(state.calls)
	state.mu.Unlock()
	if callCount != 1 {
		t.Fatalf("expected timeout to stop retries after first attempt, got %d calls", callCount)
	}
}

func toInt(value interface{}) int {
	switch v := value.(type) {
	case int:
		return v
	case int64:
		return int(v)
	case int32:
		return int(v)
	case uint64:
		return int(v)
	case uint32:
		return int(v)
	case uint:
		return int(v)
	default:
		return 0
	}
}
