package worker

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osse101/cosmetics/internal/logger"
)

type testJob struct {
	executed *int32
	err      error
	sawID    *atomic.Bool
}

func (j *testJob) Process(ctx context.Context) error {
	atomic.AddInt32(j.executed, 1)
	if j.sawID != nil && logger.GetRequestID(ctx) != "" {
		j.sawID.Store(true)
	}
	if _, ok := ctx.Deadline(); !ok {
		return errors.New("job context has no deadline")
	}
	return j.err
}

func TestPool(t *testing.T) {
	var executed int32
	var sawID atomic.Bool
	pool := NewPool(2, 10)
	pool.Start()

	job := &testJob{executed: &executed, sawID: &sawID}
	require.True(t, pool.Enqueue(job))
	require.True(t, pool.Enqueue(&testJob{executed: &executed, err: errors.New("boom")}))

	assert.Eventually(t, func() bool { return atomic.LoadInt32(&executed) == 2 }, time.Second, 5*time.Millisecond)
	pool.Stop()

	assert.True(t, sawID.Load(), "jobs run with a request id for log correlation")
}

func TestPool_EnqueueFullQueue(t *testing.T) {
	var executed int32
	pool := NewPool(1, 1) // not started, queue holds one job

	assert.True(t, pool.Enqueue(&testJob{executed: &executed}))
	assert.False(t, pool.Enqueue(&testJob{executed: &executed}))
}

func TestPool_EnqueueAfterStop(t *testing.T) {
	var executed int32
	pool := NewPool(1, 1)
	pool.Start()
	pool.Stop()
	pool.Stop()

	assert.False(t, pool.Enqueue(&testJob{executed: &executed}))
	assert.Equal(t, int32(0), atomic.LoadInt32(&executed))
}
