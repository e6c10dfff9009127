// Package shorten defines the data-access boundary of the URL
// shortening service: a short URL maps to exactly one long URL for its
// lifetime, plus a lookup counter that only grows.
//
// Unlike the photoapp client, this boundary absorbs database errors
// into sentinel returns. Callers see "absent or failed", not a raw
// driver error; implementations log the cause.
package shorten

import "context"

// StatsNotFound is returned by Stats when the short URL does not exist
// or the query failed.
const StatsNotFound int64 = -1

type Store interface {
	// Lookup returns the long URL mapped to shortURL and counts the
	// lookup, both inside a single transaction. Returns "" when the
	// key is absent or the transaction failed.
	Lookup(ctx context.Context, shortURL string) string

	// Stats returns how many times shortURL has been looked up, or
	// StatsNotFound when absent or on failure.
	Stats(ctx context.Context, shortURL string) int64

	// Put maps shortURL to longURL with a lookup count of zero.
	// Re-putting an identical mapping succeeds without writing; a
	// short URL already mapped to a different long URL is taken and
	// Put returns false, leaving the row unchanged.
	Put(ctx context.Context, shortURL, longURL string) bool

	// Reset deletes every mapping in one transaction. No partial
	// deletion is ever observable.
	Reset(ctx context.Context) bool

	// Ping reports whether the backing store is reachable. This is
	// the one method that surfaces the error: the health endpoint
	// needs the cause.
	Ping(ctx context.Context) error
}
