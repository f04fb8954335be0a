package domain

import (
	"errors"
	"fmt"
	"net/http"
)

// Sentinel errors for domain operations
var (
	// ErrNotFound indicates the requested record does not exist remotely or locally
	ErrNotFound = errors.New("record not found")

	// ErrRemoteUnavailable indicates the remote API could not be reached or failed
	ErrRemoteUnavailable = errors.New("remote api is unavailable")

	// ErrStoreUnavailable indicates the persistent cache could not be opened or used
	ErrStoreUnavailable = errors.New("cache store is unavailable")

	// ErrNotCraftable indicates no recipe produces the item
	ErrNotCraftable = errors.New("item has no recipe")

	// ErrUnknownCollection indicates a collection name outside items, recipes and prices
	ErrUnknownCollection = errors.New("unknown collection")

	// ErrNoDetails indicates an item has no type-specific details block
	ErrNoDetails = errors.New("item has no details")
)

// APIError is a non-success HTTP response from the remote API.
type APIError struct {
	Endpoint string
	Status   int
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s: unexpected status code: %d", e.Endpoint, e.Status)
}

// Unwrap maps 404 to ErrNotFound and everything else to ErrRemoteUnavailable.
func (e *APIError) Unwrap() error {
	if e.Status == http.StatusNotFound {
		return ErrNotFound
	}
	return ErrRemoteUnavailable
}
