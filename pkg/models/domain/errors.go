package domain

import "errors"

var (
	// ErrValidation marks malformed input. It never reaches the fetcher or the store.
	ErrValidation = errors.New("validation failed")
	// ErrNoData marks a provider response with no observations for the request.
	ErrNoData = errors.New("no data for query")
	// ErrProvider marks a provider that could not be reached or answered with garbage.
	ErrProvider = errors.New("provider request failed")
	// ErrStore marks a storage fault: unreachable database, failed read or write.
	ErrStore = errors.New("store operation failed")
)
