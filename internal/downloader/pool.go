package downloader

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"pru/pkg/logger"
	"pru/pkg/metadata"
)

// Job downloads one catalog image.
type Job struct {
	Record   metadata.Metadata
	Filename string
}

// Result reports the outcome of a Job.
type Result struct {
	Job          Job
	Path         string
	MetadataPath string
	Error        error
	Duration     time.Duration
	Size         int
}

// ImageFetcher downloads raw image bytes.
type ImageFetcher interface {
	FetchBytes(ctx context.Context, url string) ([]byte, error)
}

// ImageStorage persists images and their metadata.
type ImageStorage interface {
	SaveImage(r io.Reader, filename string) (string, error)
	SaveMetadata(rec *metadata.Metadata) (string, error)
}

// Options tunes a WorkerPool
type Options struct {
	Workers       int
	WriteMetadata bool
}

// WorkerPool runs downloads on a fixed number of workers. Results arrive
// on a single channel that is closed once Close has been called and every
// submitted job has finished.
type WorkerPool struct {
	opts        Options
	jobQueue    chan Job
	resultQueue chan Result
	wg          sync.WaitGroup
	closeOnce   sync.Once
	fetcher     ImageFetcher
	storage     ImageStorage
	logger      logger.Logger
}

// NewWorkerPool creates a download worker pool
func NewWorkerPool(opts Options, fetcher ImageFetcher, storage ImageStorage, log logger.Logger) *WorkerPool {
	if opts.Workers <= 0 {
		opts.Workers = 1
	}
	if log == nil {
		log = logger.GetLogger()
	}

	return &WorkerPool{
		opts:        opts,
		jobQueue:    make(chan Job, opts.Workers*2),
		resultQueue: make(chan Result, opts.Workers),
		fetcher:     fetcher,
		storage:     storage,
		logger:      log,
	}
}

// Start launches the workers. They stop when ctx is done or the job queue
// is closed and drained.
func (wp *WorkerPool) Start(ctx context.Context) {
	wp.logger.DebugWithFields("starting worker pool", map[string]interface{}{
		"num_workers": wp.opts.Workers,
	})

	for i := 0; i < wp.opts.Workers; i++ {
		wp.wg.Add(1)
		go wp.worker(ctx, i)
	}

	go func() {
		wp.wg.Wait()
		close(wp.resultQueue)
	}()
}

// Close signals that no more jobs will be submitted.
func (wp *WorkerPool) Close() {
	wp.closeOnce.Do(func() { close(wp.jobQueue) })
}

// Submit queues a job, blocking while the queue is full.
func (wp *WorkerPool) Submit(ctx context.Context, job Job) error {
	select {
	case wp.jobQueue <- job:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("worker pool is shutting down: %w", ctx.Err())
	}
}

// Results returns the result channel
func (wp *WorkerPool) Results() <-chan Result {
	return wp.resultQueue
}

// Workers returns the number of workers
func (wp *WorkerPool) Workers() int {
	return wp.opts.Workers
}

func (wp *WorkerPool) worker(ctx context.Context, id int) {
	defer wp.wg.Done()

	for job := range wp.jobQueue {
		result := wp.processJob(ctx, job)

		select {
		case wp.resultQueue <- result:
		case <-ctx.Done():
			return
		}
	}

	wp.logger.DebugWithFields("worker stopping, job queue closed", map[string]interface{}{
		"worker_id": id,
	})
}

func (wp *WorkerPool) processJob(ctx context.Context, job Job) Result {
	start := time.Now()
	result := Result{Job: job}

	if err := ctx.Err(); err != nil {
		result.Error = err
		return result
	}

	data, err := wp.fetcher.FetchBytes(ctx, job.Record.URL)
	if err != nil {
		result.Error = fmt.Errorf("download %s: %w", job.Filename, err)
		result.Duration = time.Since(start)
		return result
	}
	result.Size = len(data)

	result.Path, err = wp.storage.SaveImage(bytes.NewReader(data), job.Filename)
	if err != nil {
		result.Error = fmt.Errorf("save %s: %w", job.Filename, err)
		result.Duration = time.Since(start)
		return result
	}

	if wp.opts.WriteMetadata {
		rec := job.Record
		result.MetadataPath, err = wp.storage.SaveMetadata(&rec)
		if err != nil {
			result.Error = fmt.Errorf("save metadata for %s: %w", job.Filename, err)
		}
	}

	result.Duration = time.Since(start)
	return result
}
