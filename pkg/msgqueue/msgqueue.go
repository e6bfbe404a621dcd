package msgqueue

import (
	"context"
	"sync"
	"time"

	"github.com/Abraxas-365/activemail/pkg/activemsg"
	"github.com/Abraxas-365/activemail/pkg/errx"
	"github.com/Abraxas-365/activemail/pkg/logx"
)

// JobEnqueuer enqueues send jobs.
type JobEnqueuer interface {
	Enqueue(ctx context.Context, job Job) (string, error)
	EnqueueDelayed(ctx context.Context, job Job, delay time.Duration) (string, error)
}

// JobStatusReader reads job status.
type JobStatusReader interface {
	GetJob(ctx context.Context, jobID string) (*JobInfo, error)
}

// JobProcessor provides backend operations for the worker loop.
type JobProcessor interface {
	// Dequeue returns nil, nil when the timeout expires without a job.
	Dequeue(ctx context.Context, queues []string, timeout time.Duration) (*JobInfo, error)
	Complete(ctx context.Context, jobID string) error
	// Fail records errMsg and reports whether the job has retries left.
	// A non-retryable failure is final regardless of attempts.
	Fail(ctx context.Context, jobID string, errMsg string, retryable bool) (retry bool, err error)
	Retry(ctx context.Context, jobID string, delay time.Duration) error
	PromoteScheduled(ctx context.Context, queues []string) error
}

// Queue combines all backend operations.
type Queue interface {
	JobEnqueuer
	JobStatusReader
	JobProcessor
}

// Client enqueues active messages and sends them from a worker pool.
type Client struct {
	queue    Queue
	registry *activemsg.Registry
	sender   *activemsg.Client
	opts     WorkerOptions
	mu       sync.Mutex
	running  bool
}

// NewClient creates a queue client. Jobs are turned into messages through
// registry and sent with sender.
func NewClient(queue Queue, registry *activemsg.Registry, sender *activemsg.Client, options ...WorkerOption) *Client {
	opts := defaultWorkerOptions()
	for _, o := range options {
		o(&opts)
	}
	return &Client{
		queue:    queue,
		registry: registry,
		sender:   sender,
		opts:     opts,
	}
}

// Enqueue enqueues a job for immediate processing.
func (c *Client) Enqueue(ctx context.Context, job Job) (string, error) {
	job, err := c.prepare(job)
	if err != nil {
		return "", err
	}
	return c.queue.Enqueue(ctx, job)
}

// EnqueueDelayed enqueues a job that becomes available after delay.
func (c *Client) EnqueueDelayed(ctx context.Context, job Job, delay time.Duration) (string, error) {
	job, err := c.prepare(job)
	if err != nil {
		return "", err
	}
	return c.queue.EnqueueDelayed(ctx, job, delay)
}

// GetJob returns the current state of a job.
func (c *Client) GetJob(ctx context.Context, jobID string) (*JobInfo, error) {
	return c.queue.GetJob(ctx, jobID)
}

func (c *Client) prepare(job Job) (Job, error) {
	if job.Message == "" {
		return job, queueErrors.New(ErrInvalidJob).WithDetail("reason", "message name is required")
	}
	if _, err := c.registry.Build(job.Message, job.Params); err != nil {
		return job, err
	}
	if job.Queue == "" {
		job.Queue = c.opts.Queues[0]
	}
	if job.MaxRetries == 0 {
		job.MaxRetries = c.opts.MaxRetries
	}
	return job, nil
}

// Start begins processing jobs. It blocks until ctx is cancelled.
func (c *Client) Start(ctx context.Context) error {
	c.mu.Lock()
	if c.running {
		c.mu.Unlock()
		return queueErrors.New(ErrAlreadyRunning)
	}
	c.running = true
	c.mu.Unlock()

	defer func() {
		c.mu.Lock()
		c.running = false
		c.mu.Unlock()
	}()

	log().Infof("starting %d workers on queues %v", c.opts.Concurrency, c.opts.Queues)

	var wg sync.WaitGroup

	// Scheduler goroutine: promotes delayed and retried jobs to the ready queue.
	wg.Add(1)
	go func() {
		defer wg.Done()
		c.schedulerLoop(ctx)
	}()

	for i := range c.opts.Concurrency {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			c.workerLoop(ctx, id)
		}(i)
	}

	<-ctx.Done()
	log().Info("shutting down workers...")

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		log().Info("all workers stopped")
	case <-time.After(c.opts.ShutdownTimeout):
		log().Warn("shutdown timed out, some messages may not have been sent")
	}

	return nil
}

func (c *Client) schedulerLoop(ctx context.Context) {
	ticker := time.NewTicker(c.opts.PollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := c.queue.PromoteScheduled(ctx, c.opts.Queues); err != nil {
				if ctx.Err() != nil {
					return
				}
				log().WithError(err).Warn("failed to promote scheduled jobs")
			}
		}
	}
}

func (c *Client) workerLoop(ctx context.Context, id int) {
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		job, err := c.queue.Dequeue(ctx, c.opts.Queues, c.opts.DequeueTimeout)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			log().WithError(err).Warnf("worker %d dequeue error", id)
			time.Sleep(c.opts.PollInterval)
			continue
		}
		if job == nil {
			continue
		}

		c.Process(ctx, job)
	}
}

// Process sends one dequeued job and records the outcome. A message that is
// not delivered is retried until MaxRetries; errors caused by the job itself
// (unknown message, bad params, invalid message) fail it at once, and so
// does a veto by the variant or a pre-send hook.
func (c *Client) Process(ctx context.Context, job *JobInfo) {
	entry := log().WithFields(logx.Fields{"job_id": job.ID, "message": job.Message, "attempt": job.Attempts})

	err := c.send(ctx, job)
	if err == nil {
		if err := c.queue.Complete(ctx, job.ID); err != nil {
			entry.WithError(err).Error("failed to mark job as sent")
		}
		return
	}

	entry.WithError(err).Warn("send job failed")

	retryable := !isPermanent(err)
	shouldRetry, failErr := c.queue.Fail(ctx, job.ID, err.Error(), retryable)
	if failErr != nil {
		entry.WithError(failErr).Error("failed to mark job as failed")
		return
	}

	if shouldRetry {
		if retryErr := c.queue.Retry(ctx, job.ID, c.opts.DefaultRetryDelay); retryErr != nil {
			entry.WithError(retryErr).Error("failed to retry job")
		}
	}
}

func (c *Client) send(ctx context.Context, job *JobInfo) error {
	v, err := c.registry.Build(job.Message, job.Params)
	if err != nil {
		return err
	}

	m := c.sender.New(v)
	job.Fields.ApplyTo(m)

	sent, err := m.Send(ctx, activemsg.WithValidation(!job.SkipValidation))
	if err != nil {
		return err
	}
	if m.Vetoed() {
		return queueErrors.New(ErrVetoed).WithDetail("job_id", job.ID)
	}
	if !sent {
		return queueErrors.New(ErrNotSent).WithDetail("job_id", job.ID)
	}
	return nil
}

// isPermanent reports errors that a retry cannot fix.
func isPermanent(err error) bool {
	var e *errx.Error
	if !errx.As(err, &e) {
		return false
	}
	switch e.Type {
	case errx.TypeValidation, errx.TypeNotFound, errx.TypeBusiness:
		return true
	}
	return false
}

func log() *logx.Entry {
	return logx.Component("msgqueue")
}
