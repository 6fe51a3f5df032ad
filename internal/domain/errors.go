package domain

import "errors"

var (
	// ErrInvalidRequest is returned when request parameters are invalid
	ErrInvalidRequest = errors.New("invalid request parameters")

	// ErrCatalogUnavailable is returned when the product catalog cannot be fetched.
	// It is the only failure that aborts a matching operation.
	ErrCatalogUnavailable = errors.New("product catalog unavailable")

	// ErrStoreFailure is returned when the match store rejects a read or write
	ErrStoreFailure = errors.New("match store operation failed")

	// ErrNotFound is returned when a requested record does not exist
	ErrNotFound = errors.New("not found")
)
