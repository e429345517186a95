// Package remote defines the contract every mission catalog backend
// implements and the page fan-out shared by all of them.
//
// A backend exposes two operations:
//   - FetchStats reports how many results a query matches in total
//   - QueryRemoteImages returns every matching record, or one page of them
//
// Backends that can fetch a single page implement Pager and delegate
// QueryRemoteImages to QueryPages, which sizes the work from a stats call
// and fetches every page concurrently.
//
// Usage:
//
//	stats, err := fetcher.FetchStats(ctx, q)
//	if err != nil {
//	    return err
//	}
//	records, err := fetcher.QueryRemoteImages(ctx, q)
package remote
