package bootstrap

import (
	"log/slog"

	"github.com/osse101/cosmetics/internal/config"
	"github.com/osse101/cosmetics/internal/eventlog"
	"github.com/osse101/cosmetics/internal/scheduler"
	"github.com/osse101/cosmetics/internal/worker"
)

// Background owns the worker pool and the scheduler feeding it
type Background struct {
	Pool      *worker.Pool
	Scheduler *scheduler.Scheduler
}

// StartBackground starts the worker pool and schedules event log cleanup
// when retention is enabled.
func StartBackground(cfg *config.Config, events eventlog.Service) *Background {
	pool := worker.NewPool(cfg.WorkerCount, WorkerQueueSize)
	pool.Start()
	sched := scheduler.New(pool)

	if cfg.EventLogRetentionDays > 0 {
		sched.Schedule(cfg.EventLogCleanupInterval, eventlog.NewCleanupJob(events, cfg.EventLogRetentionDays))
		slog.Info(LogMsgCleanupScheduled,
			"interval", cfg.EventLogCleanupInterval,
			"retention_days", cfg.EventLogRetentionDays)
	} else {
		slog.Info(LogMsgCleanupDisabled)
	}

	return &Background{Pool: pool, Scheduler: sched}
}

// Stop halts the scheduler before the pool so no job is enqueued after the
// workers exit.
func (b *Background) Stop() {
	b.Scheduler.Stop()
	b.Pool.Stop()
}
