// Package psyche implements the catalog backend for the Psyche mission.
package psyche

import (
	"context"
	"net/url"

	"pru/pkg/errors"
	"pru/pkg/instruments"
	"pru/pkg/metadata"
	"pru/pkg/remote"
)

// Transport executes one catalog GET and returns the raw body.
type Transport interface {
	FetchString(ctx context.Context, baseURL string, params url.Values) (string, error)
}

// Fetcher implements remote.Fetcher and remote.Pager for Psyche.
type Fetcher struct {
	baseURL     string
	transport   Transport
	instruments instruments.Map
	maxPages    int
}

var (
	_ remote.Fetcher = (*Fetcher)(nil)
	_ remote.Pager   = (*Fetcher)(nil)
)

// New creates a Psyche backend using transport for every request.
func New(cfg Config, transport Transport) *Fetcher {
	table := cfg.Instruments
	if len(table) == 0 {
		table = DefaultInstruments()
	}
	return &Fetcher{
		baseURL:     cfg.BaseURL,
		transport:   transport,
		instruments: instruments.New(table),
		maxPages:    cfg.MaxConcurrentPages,
	}
}

// Name returns the mission name
func (f *Fetcher) Name() string { return Name }

// InstrumentMap returns the camera code table
func (f *Fetcher) InstrumentMap() instruments.Map { return f.instruments }

// FetchStats requests the first page of q and reports the catalog totals.
func (f *Fetcher) FetchStats(ctx context.Context, q remote.Query) (remote.Stats, error) {
	res, err := f.fetchResults(ctx, q.AllPages())
	if err != nil {
		return remote.Stats{}, err
	}
	return remote.NewStats(int(res.Total), int(res.Page), len(res.Items), q.NumPerPage), nil
}

// FetchPage returns the unfiltered canonical records of page q.Page.
func (f *Fetcher) FetchPage(ctx context.Context, q remote.Query) ([]metadata.Metadata, error) {
	res, err := f.fetchResults(ctx, q)
	if err != nil {
		return nil, err
	}
	return res.Records(), nil
}

// QueryRemoteImages returns the records matching q.
func (f *Fetcher) QueryRemoteImages(ctx context.Context, q remote.Query) ([]metadata.Metadata, error) {
	return remote.QueryPages(ctx, q, f, f.maxPages)
}

func (f *Fetcher) fetchResults(ctx context.Context, q remote.Query) (*APIResults, error) {
	body, err := f.transport.FetchString(ctx, f.baseURL, QueryParams(q))
	if err != nil {
		return nil, errors.Remote(err)
	}

	res, err := ParseResults(body)
	if err != nil {
		return nil, errors.Remote(&errors.Error{
			Type:    errors.ErrorTypeParsing,
			Message: "failed to decode catalog response",
			Err:     err,
		})
	}
	return res, nil
}
