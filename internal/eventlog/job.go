package eventlog

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/osse101/cosmetics/internal/logger"
	"github.com/osse101/cosmetics/internal/metrics"
)

// CleanupJob prunes event log rows past the retention window. It is
// scheduled on an interval; a tick that lands while a previous run is still
// going is skipped.
type CleanupJob struct {
	service       Service
	retentionDays int
	running       atomic.Bool
}

func NewCleanupJob(service Service, retentionDays int) *CleanupJob {
	return &CleanupJob{
		service:       service,
		retentionDays: retentionDays,
	}
}

// Process implements worker.Job
func (j *CleanupJob) Process(ctx context.Context) error {
	log := logger.FromContext(ctx)
	if !j.running.CompareAndSwap(false, true) {
		log.Debug(LogMsgCleanupJobSkipped, "retention_days", j.retentionDays)
		return nil
	}
	defer j.running.Store(false)

	started := time.Now()
	deleted, err := j.service.CleanupOldEvents(ctx, j.retentionDays)
	if err != nil {
		log.Error(LogMsgCleanupJobFailed, "error", err, "retention_days", j.retentionDays, "elapsed", time.Since(started))
		return err
	}

	metrics.EventLogPruned.Add(float64(deleted))
	if deleted > 0 {
		log.Info(LogMsgCleanupJobCompleted, "deleted_count", deleted, "elapsed", time.Since(started))
	} else {
		log.Debug(LogMsgCleanupJobCompleted, "deleted_count", deleted)
	}
	return nil
}
