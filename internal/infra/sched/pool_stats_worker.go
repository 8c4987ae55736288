package sched

import (
	"context"
	"time"

	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/rs/zerolog"

	"tree-service-leads/internal/infra/metrics"
)

// PoolStats is one sample of connection pool counters.
type PoolStats struct {
	Total    int32
	Idle     int32
	InUse    int32
	Max      int32
	Acquires int64
}

// PgxPoolStats samples a pgx pool.
func PgxPoolStats(pool *pgxpool.Pool) func() PoolStats {
	return func() PoolStats {
		s := pool.Stat()
		return PoolStats{
			Total:    s.TotalConns(),
			Idle:     s.IdleConns(),
			InUse:    s.AcquiredConns(),
			Max:      s.MaxConns(),
			Acquires: s.AcquireCount(),
		}
	}
}

// PoolStatsWorker publishes datastore pool gauges on an interval.
type PoolStatsWorker struct {
	interval time.Duration
	sample   func() PoolStats
	log      *zerolog.Logger
}

func NewPoolStatsWorker(interval time.Duration, sample func() PoolStats, logger *zerolog.Logger) *PoolStatsWorker {
	if interval <= 0 {
		interval = 15 * time.Second
	}
	compLog := logger.With().Str("component", "PoolStatsWorker").Logger()
	return &PoolStatsWorker{
		interval: interval,
		sample:   sample,
		log:      &compLog,
	}
}

func (w *PoolStatsWorker) Run(ctx context.Context) error {
	w.log.Info().Dur("interval", w.interval).Msg("Starting pool stats worker")
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	w.publish()
	for {
		select {
		case <-ctx.Done():
			w.log.Info().Msg("Stopping pool stats worker")
			return ctx.Err()
		case <-ticker.C:
			w.publish()
		}
	}
}

func (w *PoolStatsWorker) publish() {
	s := w.sample()
	metrics.SetDBPoolStats(s.Total, s.Idle, s.InUse, s.Max, s.Acquires)
	if s.Max > 0 && s.InUse == s.Max {
		w.log.Warn().Int32("in_use", s.InUse).Msg("datastore pool exhausted")
	}
}
