package models

import "errors"

// Sentinel errors shared across services and handlers. Wrap them with
// fmt.Errorf("...: %w", Err...) and test with errors.Is.
var (
	// ErrValidation means a required field was missing or malformed. It is
	// raised before any persistence attempt.
	ErrValidation = errors.New("validation failed")

	// ErrNotAuthenticated means no owner session was present on the request.
	ErrNotAuthenticated = errors.New("not authenticated")

	// ErrNotFound means the referenced itinerary does not exist in the
	// owner's collection. Records owned by somebody else look the same as
	// missing ones.
	ErrNotFound = errors.New("not found")
)
