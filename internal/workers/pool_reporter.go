package workers

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"lapor/internal/metrics"
)

// PoolReporter publishes pgx pool statistics on a fixed interval.
type PoolReporter struct {
	pool     *pgxpool.Pool
	metrics  *metrics.Metrics
	interval time.Duration
}

func NewPoolReporter(pool *pgxpool.Pool, m *metrics.Metrics, interval time.Duration) *PoolReporter {
	return &PoolReporter{pool: pool, metrics: m, interval: interval}
}

func (r *PoolReporter) Run(ctx context.Context) {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s := r.pool.Stat()
			r.metrics.RecordDBPoolStats(s.TotalConns(), s.AcquiredConns(), s.IdleConns(), s.EmptyAcquireCount(), s.AcquireDuration())
		}
	}
}
