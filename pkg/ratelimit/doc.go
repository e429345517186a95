// Package ratelimit paces requests to the catalog and image hosts.
//
// TokenBucket adapts golang.org/x/time/rate to the small Limiter interface
// used by the transport. PerHost keeps an independent bucket per host.
//
// Usage:
//
//	limiter := ratelimit.NewPerHost(ratelimit.Config{RequestsPerSecond: 10, Burst: 5})
//	if err := limiter.Wait(ctx, requestURL); err != nil {
//	    return err
//	}
package ratelimit
