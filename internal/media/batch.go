package media

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/semaphore"
)

// Pipeline composes the prober, transfer, and recorder into the upload
// pipeline and runs batches of files through it.
type Pipeline struct {
	prober   Prober
	transfer Transfer
	recorder Recorder
	config   PipelineConfig
}

// PipelineConfig configures pipeline behavior
type PipelineConfig struct {
	ConcurrentUploads  int // number of files transferred concurrently (default 4)
	ProgressBufferSize int // buffer size for the progress channel (default 100)
}

// DefaultPipelineConfig returns the default pipeline configuration
func DefaultPipelineConfig() PipelineConfig {
	return PipelineConfig{
		ConcurrentUploads:  4,
		ProgressBufferSize: 100,
	}
}

// Validate validates the pipeline configuration
func (c PipelineConfig) Validate() error {
	if c.ConcurrentUploads < 1 {
		return fmt.Errorf("ConcurrentUploads must be >= 1, got %d", c.ConcurrentUploads)
	}
	if c.ProgressBufferSize < 0 {
		return fmt.Errorf("ProgressBufferSize must be >= 0, got %d", c.ProgressBufferSize)
	}
	return nil
}

// PipelineOption is a functional option for configuring a Pipeline
type PipelineOption func(*Pipeline)

// WithConfig sets the pipeline configuration
func WithConfig(config PipelineConfig) PipelineOption {
	return func(p *Pipeline) {
		p.config = config
	}
}

// WithConcurrentUploads sets the number of concurrent uploads
func WithConcurrentUploads(n int) PipelineOption {
	return func(p *Pipeline) {
		p.config.ConcurrentUploads = n
	}
}

// WithProgressBufferSize sets the progress channel buffer size
func WithProgressBufferSize(size int) PipelineOption {
	return func(p *Pipeline) {
		p.config.ProgressBufferSize = size
	}
}

// NewPipeline creates a new upload pipeline from its collaborators
func NewPipeline(prober Prober, transfer Transfer, recorder Recorder, opts ...PipelineOption) (*Pipeline, error) {
	if prober == nil {
		return nil, fmt.Errorf("prober is required")
	}
	if transfer == nil {
		return nil, fmt.Errorf("transfer is required")
	}
	if recorder == nil {
		return nil, fmt.Errorf("recorder is required")
	}

	p := &Pipeline{
		prober:   prober,
		transfer: transfer,
		recorder: recorder,
		config:   DefaultPipelineConfig(),
	}

	for _, opt := range opts {
		opt(p)
	}

	if err := p.config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid pipeline configuration: %w", err)
	}

	return p, nil
}

// BatchResult aggregates the per-file outcomes of one submitted batch.
// Results preserves the input order regardless of completion order.
type BatchResult struct {
	BatchID    string
	Results    []TaskResult
	Uploaded   int
	Duplicates int
	Failed     int
	Cancelled  int
	Duration   time.Duration
}

// Run executes a batch synchronously and returns the aggregated result.
// Per-file failures never produce an error here; they are reported in the
// result. Cancelling ctx propagates to every still-active task.
func (p *Pipeline) Run(ctx context.Context, files []FileSource, uploaderID, displayName string) (*BatchResult, error) {
	resultCh, progressCh, err := p.RunAsync(ctx, files, uploaderID, displayName)
	if err != nil {
		return nil, err
	}

	go func() {
		for range progressCh {
			// Discard progress updates
		}
	}()

	return <-resultCh, nil
}

// RunAsync executes a batch in the background, returning result and progress
// channels. Both channels are closed when the batch completes.
func (p *Pipeline) RunAsync(ctx context.Context, files []FileSource, uploaderID, displayName string) (<-chan *BatchResult, <-chan Progress, error) {
	resultCh := make(chan *BatchResult, 1)
	progressCh := make(chan Progress, p.config.ProgressBufferSize)

	go p.execute(ctx, files, uploaderID, displayName, resultCh, progressCh)

	return resultCh, progressCh, nil
}

// execute fans the batch out over a bounded worker pool. Each task owns
// exactly one result slot, so aggregation needs no locking beyond the
// WaitGroup barrier.
func (p *Pipeline) execute(ctx context.Context, files []FileSource, uploaderID, displayName string, resultCh chan<- *BatchResult, progressCh chan<- Progress) {
	defer close(resultCh)
	defer close(progressCh)

	startTime := time.Now()

	result := &BatchResult{
		BatchID: uuid.New().String(),
		Results: make([]TaskResult, len(files)),
	}

	sem := semaphore.NewWeighted(int64(p.config.ConcurrentUploads))
	var wg sync.WaitGroup

	for i, file := range files {
		if err := sem.Acquire(ctx, 1); err != nil {
			// Batch cancelled while waiting for a slot; the task never ran.
			result.Results[i] = TaskResult{
				Index:   i,
				File:    file.Name,
				Outcome: OutcomeCancelled,
				Err:     ErrCancelled,
			}
			continue
		}

		wg.Add(1)
		go func(index int, src FileSource) {
			defer wg.Done()
			defer sem.Release(1)

			task := newUploadTask(index, src)
			result.Results[index] = p.runTask(ctx, task, uploaderID, displayName, progressCh)
		}(i, file)
	}

	wg.Wait()

	for _, r := range result.Results {
		switch r.Outcome {
		case OutcomeUploaded:
			result.Uploaded++
		case OutcomeDuplicate:
			result.Duplicates++
		case OutcomeCancelled:
			result.Cancelled++
		default:
			result.Failed++
		}
	}

	result.Duration = time.Since(startTime)
	resultCh <- result
}

// sendProgress safely sends a progress update to the channel
func sendProgress(ch chan<- Progress, p Progress) {
	if ch == nil {
		return
	}

	select {
	case ch <- p:
	default:
		// Channel is full or closed, don't block
		log.Printf("WARNING: Dropped progress event for %s at %.1f%%, channel likely full", p.File, p.Percentage)
	}
}
