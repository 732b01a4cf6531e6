package catalog

import "errors"

// Sentinel errors for the upstream catalog. Callers distinguish terminal
// lookups (ErrNotFound) from transient pressure (ErrRateLimited) with
// errors.Is; anything else is a generic transient failure.
var (
	// ErrNotFound means the series or episode does not exist upstream.
	// Terminal for that call; never retried.
	ErrNotFound = errors.New("catalog: not found")

	// ErrRateLimited means the catalog asked us to back off (HTTP 429).
	// The client retries with a delay before surfacing this.
	ErrRateLimited = errors.New("catalog: rate limited")

	// ErrMalformed means the response arrived but was missing fields we
	// need (e.g. an episode without an air date).
	ErrMalformed = errors.New("catalog: malformed response")
)
