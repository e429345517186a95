package fetch

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"os"

	"pru/internal/downloader"
	"pru/pkg/errors"
	"pru/pkg/logger"
	"pru/pkg/metadata"
	"pru/pkg/remote"
	"pru/pkg/ui"
)

// Store persists downloads and answers the "only new" question.
type Store interface {
	downloader.ImageStorage
	IsDownloaded(filename string) bool
}

// Options tunes a Driver
type Options struct {
	// Workers is the number of concurrent image downloads.
	Workers       int
	WriteMetadata bool
	// ListOut receives the listing in list-only mode. Defaults to stdout.
	ListOut io.Writer
}

// Driver runs fetches against one mission backend.
type Driver struct {
	fetcher remote.Fetcher
	images  downloader.ImageFetcher
	store   Store
	opts    Options
	logger  logger.Logger
}

// NewDriver wires a mission backend to an image downloader and a store.
func NewDriver(fetcher remote.Fetcher, images downloader.ImageFetcher, store Store, opts Options, log logger.Logger) *Driver {
	if opts.Workers <= 0 {
		opts.Workers = 1
	}
	if opts.ListOut == nil {
		opts.ListOut = os.Stdout
	}
	if log == nil {
		log = logger.GetLogger()
	}
	return &Driver{
		fetcher: fetcher,
		images:  images,
		store:   store,
		opts:    opts,
		logger:  log,
	}
}

// PerformFetch runs q to completion. Unknown camera codes fail before any
// request is made. onTotal may be called a second time when client-side
// filtering changes the count. Download failures do not stop the run;
// they are joined and returned once every record has been processed.
func (d *Driver) PerformFetch(ctx context.Context, q remote.Query, onTotal func(int), onProgress func(metadata.Metadata)) error {
	if onTotal == nil {
		onTotal = func(int) {}
	}
	if onProgress == nil {
		onProgress = func(metadata.Metadata) {}
	}

	imap := d.fetcher.InstrumentMap()
	codes := q.Instruments
	if len(codes) == 0 {
		codes = imap.Known()
	}
	cameras, err := imap.Resolve(codes)
	if err != nil {
		return err
	}
	q.Cameras = cameras

	logger.LogQuery(d.logger, d.fetcher.Name(), cameras, q.NumPerPage, q.Page)

	stats, err := d.fetcher.FetchStats(ctx, q)
	if err != nil {
		return err
	}
	expected := stats.Expected(q)
	onTotal(expected)

	records, err := d.fetcher.QueryRemoteImages(ctx, q)
	if err != nil {
		return err
	}
	records = filterByNumber(records, q.FilterNum)
	if len(records) != expected {
		onTotal(len(records))
	}

	d.logger.InfoWithFields("Catalog query complete", map[string]interface{}{
		"mission":       d.fetcher.Name(),
		"total_results": stats.TotalResults,
		"records":       len(records),
	})

	if q.ListOnly {
		return ui.WriteListing(d.opts.ListOut, records)
	}

	var jobs []downloader.Job
	skipped := 0
	queued := make(map[string]struct{}, len(records))
	for _, rec := range records {
		filename := rec.ImageFilename()
		_, dup := queued[filename]
		if dup || (q.OnlyNew && d.store.IsDownloaded(filename)) {
			logger.LogDownload(d.logger, rec.ImageID, filename, true, nil)
			skipped++
			onProgress(rec)
			continue
		}
		queued[filename] = struct{}{}
		jobs = append(jobs, downloader.Job{Record: rec, Filename: filename})
	}

	if len(jobs) == 0 {
		logger.LogFetchSummary(d.logger, len(records), 0, skipped, 0)
		return errors.ErrSkippingFile
	}

	downloaded, failures := d.download(ctx, jobs, onProgress)
	logger.LogFetchSummary(d.logger, len(records), downloaded, skipped, len(failures))

	if err := ctx.Err(); err != nil {
		return err
	}
	return stderrors.Join(failures...)
}

// download runs jobs on the worker pool and reports each result on the
// calling goroutine.
func (d *Driver) download(ctx context.Context, jobs []downloader.Job, onProgress func(metadata.Metadata)) (int, []error) {
	pool := downloader.NewWorkerPool(downloader.Options{
		Workers:       d.opts.Workers,
		WriteMetadata: d.opts.WriteMetadata,
	}, d.images, d.store, d.logger)
	pool.Start(ctx)

	go func() {
		defer pool.Close()
		for _, job := range jobs {
			if err := pool.Submit(ctx, job); err != nil {
				return
			}
		}
	}()

	downloaded := 0
	var failures []error
	for res := range pool.Results() {
		logger.LogDownload(d.logger, res.Job.Record.ImageID, res.Job.Filename, false, res.Error)
		if res.Error != nil {
			failures = append(failures, errors.Remote(fmt.Errorf("%s: %w", res.Job.Record.ImageID, res.Error)))
		} else {
			downloaded++
		}
		onProgress(res.Job.Record)
	}
	return downloaded, failures
}

func filterByNumber(records []metadata.Metadata, num *int) []metadata.Metadata {
	if num == nil {
		return records
	}
	out := make([]metadata.Metadata, 0, len(records))
	for _, rec := range records {
		if int64(rec.Filter) == int64(*num) {
			out = append(out, rec)
		}
	}
	return out
}
