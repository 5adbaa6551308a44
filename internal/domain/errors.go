package domain

import "errors"

var (
	// ErrFetchTransient is returned when a fetch fails in a retryable way (network error, 5xx, 429)
	ErrFetchTransient = errors.New("transient fetch failure")

	// ErrFetchTimeout is returned when a fetch exceeds its deadline
	ErrFetchTimeout = errors.New("fetch timed out")

	// ErrParseFailed is returned when no parsing strategy could extract products from a response
	ErrParseFailed = errors.New("response could not be parsed")

	// ErrSourceExhausted is returned when both the API and scrape tiers failed for a source
	ErrSourceExhausted = errors.New("all source tiers exhausted")

	// ErrInvalidRequest is returned when request parameters are invalid
	ErrInvalidRequest = errors.New("invalid request parameters")

	// ErrItemNotFound is returned when a referenced product is not in the inventory pool
	ErrItemNotFound = errors.New("item not found in inventory")

	// ErrCacheMiss is returned when data is not found in cache
	ErrCacheMiss = errors.New("cache miss")

	// ErrCacheUnavailable is returned when cache service is unavailable
	ErrCacheUnavailable = errors.New("cache service unavailable")
)
