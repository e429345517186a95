package remote

import (
	"context"

	"pru/pkg/instruments"
	"pru/pkg/metadata"
)

// Fetcher is implemented once per mission. Implementations are selected at
// startup and must be safe for concurrent use.
type Fetcher interface {
	// Name identifies the mission, e.g. "psyche".
	Name() string
	// FetchStats issues one request for q, ignoring any explicit page, and
	// reports the total result count. Failures are remote errors.
	FetchStats(ctx context.Context, q Query) (Stats, error)
	// QueryRemoteImages returns the records matching q after search
	// filtering. Without an explicit page every page is fetched and the
	// result is in page completion order.
	QueryRemoteImages(ctx context.Context, q Query) ([]metadata.Metadata, error)
	// InstrumentMap returns the mission's camera code table.
	InstrumentMap() instruments.Map
}

// Pager fetches one page of canonical records. FetchPage must honor
// q.Page and must not filter.
type Pager interface {
	FetchStats(ctx context.Context, q Query) (Stats, error)
	FetchPage(ctx context.Context, q Query) ([]metadata.Metadata, error)
}
