package worker

import (
	"context"
	"errors"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/naveensalgaonker/youtubeVideoHelper/internal/models"
	"github.com/naveensalgaonker/youtubeVideoHelper/internal/services"
)

var (
	ErrEmptyInput  = errors.New("no valid URLs submitted")
	ErrJobNotFound = errors.New("job not found")
)

// emptyQueuePause bounds how long the consumer sleeps when it wakes to
// an empty queue, so a missed wakeup can only delay work briefly.
const emptyQueuePause = time.Second

type job struct {
	id    string
	urls  []string
	opts  models.JobOptions
	owner *uuid.UUID

	status     string
	completed  int
	failed     int
	currentURL string
}

// Coordinator owns the job queue and the progress map. Submissions append
// to an unbounded FIFO; a single consumer started by Run drains it. All
// state is in-memory and lost on restart.
type Coordinator struct {
	processor *Processor
	delay     time.Duration

	mu    sync.RWMutex
	queue []*job
	jobs  map[string]*job
	wake  chan struct{}
}

func NewCoordinator(processor *Processor, delay time.Duration) *Coordinator {
	return &Coordinator{
		processor: processor,
		delay:     delay,
		jobs:      make(map[string]*job),
		wake:      make(chan struct{}, 1),
	}
}

// Submit parses a newline-delimited URL list, dedupes it preserving
// first-seen order, and enqueues one job for the batch.
func (c *Coordinator) Submit(rawURLs string, opts models.JobOptions) (*models.SubmitResult, error) {
	var urls []string
	for _, line := range strings.Split(rawURLs, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			urls = append(urls, line)
		}
	}
	return c.SubmitURLs(urls, opts)
}

// SubmitURLs enqueues an already-split URL batch.
func (c *Coordinator) SubmitURLs(urls []string, opts models.JobOptions) (*models.SubmitResult, error) {
	seen := make(map[string]bool, len(urls))
	unique := make([]string, 0, len(urls))
	for _, u := range urls {
		if !seen[u] {
			seen[u] = true
			unique = append(unique, u)
		}
	}
	if len(unique) == 0 {
		return nil, ErrEmptyInput
	}
	if opts.Stage == "" {
		opts.Stage = models.StageFull
	}

	j := &job{
		id:     uuid.New().String(),
		urls:   unique,
		opts:   opts,
		owner:  opts.UserID,
		status: models.JobQueued,
	}

	c.mu.Lock()
	c.queue = append(c.queue, j)
	c.jobs[j.id] = j
	c.mu.Unlock()

	select {
	case c.wake <- struct{}{}:
	default:
	}

	log.Printf("Queued job %s: %d URLs (%d duplicates removed)", j.id, len(unique), len(urls)-len(unique))
	return &models.SubmitResult{
		JobID:             j.id,
		TotalURLs:         len(unique),
		DuplicatesRemoved: len(urls) - len(unique),
	}, nil
}

// Progress returns the snapshot for a job. A non-nil userID enforces
// ownership: polling someone else's job yields a ForbiddenError.
func (c *Coordinator) Progress(jobID string, userID *uuid.UUID) (*models.JobSnapshot, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	j, ok := c.jobs[jobID]
	if !ok {
		return nil, ErrJobNotFound
	}
	if userID != nil && j.owner != nil && *j.owner != *userID {
		return nil, &services.ForbiddenError{Message: "job belongs to another user"}
	}

	snap := &models.JobSnapshot{
		JobID:     j.id,
		Status:    j.status,
		Total:     len(j.urls),
		Completed: j.completed,
		Failed:    j.failed,
		SkipAI:    j.opts.SkipAI,
	}
	if j.currentURL != "" {
		url := j.currentURL
		snap.CurrentURL = &url
	}
	return snap, nil
}

// Run drains the queue until ctx is cancelled. It is the only consumer;
// per-video sequencing is what makes the processing status safe as a
// pseudo-lock.
func (c *Coordinator) Run(ctx context.Context) {
	log.Println("Job worker started")
	for {
		j := c.dequeue()
		if j == nil {
			select {
			case <-ctx.Done():
				log.Println("Job worker stopped")
				return
			case <-c.wake:
			case <-time.After(emptyQueuePause):
			}
			continue
		}
		c.runJob(ctx, j)
	}
}

func (c *Coordinator) dequeue() *job {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.queue) == 0 {
		return nil
	}
	j := c.queue[0]
	c.queue = c.queue[1:]
	return j
}

func (c *Coordinator) runJob(ctx context.Context, j *job) {
	c.mu.Lock()
	j.status = models.JobProcessing
	c.mu.Unlock()

	log.Printf("Processing job %s: %d URLs", j.id, len(j.urls))

	for i, url := range j.urls {
		c.mu.Lock()
		j.currentURL = url
		c.mu.Unlock()

		if err := c.processOne(ctx, url, j.opts); err != nil {
			log.Printf("Job %s: video %d/%d failed: %v", j.id, i+1, len(j.urls), err)
			c.mu.Lock()
			j.failed++
			c.mu.Unlock()
		} else {
			c.mu.Lock()
			j.completed++
			c.mu.Unlock()
		}

		if c.delay > 0 && i < len(j.urls)-1 {
			select {
			case <-ctx.Done():
			case <-time.After(c.delay):
			}
		}
	}

	c.mu.Lock()
	j.status = models.JobCompleted
	j.currentURL = ""
	c.mu.Unlock()

	log.Printf("Job %s completed: %d succeeded, %d failed", j.id, j.completed, j.failed)
}

// processOne isolates a single video so a panic in an adapter or store
// cannot take down the worker loop.
func (c *Coordinator) processOne(ctx context.Context, url string, opts models.JobOptions) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = errors.New("panic during video processing")
			log.Printf("Recovered from panic while processing %s: %v", url, r)
		}
	}()
	return c.processor.ProcessURL(ctx, url, opts)
}
