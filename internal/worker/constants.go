package worker

import "time"

// Log messages - worker pool
const (
	LogMsgWorkerJobFailed = "Worker job failed"
	LogMsgQueueFull       = "Worker queue full, job dropped"
)

// DefaultJobTimeout bounds a single job run
const DefaultJobTimeout = 5 * time.Minute
