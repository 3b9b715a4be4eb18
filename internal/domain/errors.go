package domain

import "errors"

var (
	// ErrEmptyQuery signals a query that is empty after trimming.
	ErrEmptyQuery = errors.New("empty query")
	// ErrNoMatch signals that every knowledge source was exhausted without a candidate.
	ErrNoMatch = errors.New("no matching disease")
	// ErrNotFound signals a missing resource.
	ErrNotFound = errors.New("not found")
	// ErrStoreUnreachable signals that the primary knowledge store is down.
	ErrStoreUnreachable = errors.New("knowledge store unreachable")

	// ErrProviderAuth signals a provider authentication or configuration failure.
	ErrProviderAuth = errors.New("provider authentication failed")
	// ErrProviderBadRequest signals a malformed request rejected by a provider.
	ErrProviderBadRequest = errors.New("provider rejected request")
	// ErrProviderUnavailable signals a rate-limited or unavailable provider.
	ErrProviderUnavailable = errors.New("provider unavailable")
	// ErrProviderTimeout signals a provider call that exceeded its deadline.
	ErrProviderTimeout = errors.New("provider timed out")
	// ErrVisionNotRunning signals that the vision service is not reachable at all.
	ErrVisionNotRunning = errors.New("vision service not running")
)
