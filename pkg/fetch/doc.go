// Package fetch drives one catalog run from instrument codes to files on
// disk.
//
// A run resolves the requested camera codes, asks the mission backend for
// the expected result count, collects every matching record through the
// page fan-out and then either lists the records or downloads the ones
// the skip policy lets through. Progress is reported through two
// callbacks: onTotal with the expected record count and onProgress once
// per record processed. Both are called from the goroutine running
// PerformFetch, one at a time.
//
// When nothing is left to download PerformFetch returns
// errors.ErrSkippingFile so callers can tell "nothing new" apart from
// success and from failure.
package fetch
