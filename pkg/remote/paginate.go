package remote

import (
	"context"

	"golang.org/x/sync/errgroup"

	"pru/pkg/errors"
	"pru/pkg/metadata"
)

// QueryPages implements QueryRemoteImages for any Pager.
//
// With an explicit page it performs exactly one page fetch. Otherwise it
// sizes the work with a stats call and fetches pages 0..n-1 concurrently,
// at most limit at a time (limit <= 0 means unbounded). The first failing
// page fails the whole call and no partial records are returned. Records
// are concatenated in page completion order; within a page the API order
// is kept.
func QueryPages(ctx context.Context, q Query, p Pager, limit int) ([]metadata.Metadata, error) {
	if q.NumPerPage <= 0 {
		return nil, errors.Programming("num_per_page must be positive, got %d", q.NumPerPage)
	}

	if q.HasPage() {
		return fetchFiltered(ctx, q, p)
	}

	stats, err := p.FetchStats(ctx, q)
	if err != nil {
		return nil, err
	}

	pages := Pages(stats.TotalResults, q.NumPerPage)
	if pages == 0 {
		return []metadata.Metadata{}, nil
	}

	results := make(chan []metadata.Metadata, pages)
	g, gctx := errgroup.WithContext(ctx)
	if limit > 0 {
		g.SetLimit(limit)
	}

	for page := 0; page < pages; page++ {
		page := page
		pq := q.WithPage(page)
		g.Go(func() (err error) {
			defer func() {
				if r := recover(); r != nil {
					err = errors.Programming("page %d task panicked: %v", page, r)
				}
			}()

			records, err := fetchFiltered(gctx, pq, p)
			if err != nil {
				return err
			}
			results <- records
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	close(results)

	merged := make([]metadata.Metadata, 0, stats.TotalResults)
	for records := range results {
		merged = append(merged, records...)
	}
	return merged, nil
}

func fetchFiltered(ctx context.Context, q Query, p Pager) ([]metadata.Metadata, error) {
	records, err := p.FetchPage(ctx, q)
	if err != nil {
		return nil, err
	}
	return FilterBySearch(records, q.Search), nil
}
