package projection

import (
	"context"
	"sync"
	"time"
)

// defaultResubscribeInterval is used when the configuration does not set one.
const defaultResubscribeInterval = 30 * time.Second

// ResubscribeJob keeps the controller's live snapshot stream alive: on a
// fixed interval it checks whether the stream is still open and reopens it
// when the connection has dropped. The job is idle until Start or Run is
// called, and it implements the workers.Worker contract so the client can
// launch it alongside its other background workers.
type ResubscribeJob struct {
	controller *Controller
	interval   time.Duration

	mu     sync.Mutex
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewResubscribeJob creates a ResubscribeJob that checks the stream every
// interval. A zero or negative interval selects the 30-second default.
func NewResubscribeJob(controller *Controller, interval time.Duration) *ResubscribeJob {
	if interval <= 0 {
		interval = defaultResubscribeInterval
	}
	return &ResubscribeJob{controller: controller, interval: interval}
}

// Start stops any previously running job, then launches a background
// goroutine that checks the stream on the configured interval. The goroutine
// exits when ctx is cancelled or Stop is called.
//
// While no session is attached the check is a no-op, so the job can run for
// the whole process lifetime.
func (j *ResubscribeJob) Start(ctx context.Context) {
	j.Stop()

	j.mu.Lock()
	jobCtx, cancel := context.WithCancel(ctx)
	j.cancel = cancel
	j.wg.Add(1)
	j.mu.Unlock()

	go func() {
		defer j.wg.Done()
		t := time.NewTicker(j.interval)
		defer t.Stop()

		for {
			select {
			case <-jobCtx.Done():
				return
			case <-t.C:
				_ = j.controller.Resubscribe(jobCtx)
			}
		}
	}()
}

// Stop cancels the background goroutine's context and blocks until the
// goroutine has fully exited. Safe to call when the job is not running.
func (j *ResubscribeJob) Stop() {
	j.mu.Lock()
	cancel := j.cancel
	j.cancel = nil
	j.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	j.wg.Wait()
}

// Run implements the workers.Worker contract: it starts the job with the
// background context. The caller remains responsible for Stop.
func (j *ResubscribeJob) Run() {
	j.Start(context.Background())
}
