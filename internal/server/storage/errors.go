package storage

import "errors"

// Common storage errors
var (
	// ErrShareNotFound indicates that no share matched the criterion
	ErrShareNotFound = errors.New("share not found")

	// ErrUserNotFound indicates that user was not found in storage
	ErrUserNotFound = errors.New("user not found")

	// ErrUserAlreadyExists indicates that user with this username already exists
	ErrUserAlreadyExists = errors.New("user already exists")

	// ErrStoreUnavailable indicates that the backing store cannot be reached
	// (including a bounded operation timeout expiring)
	ErrStoreUnavailable = errors.New("store unavailable")

	// ErrInsertFailed indicates that the store rejected a write
	ErrInsertFailed = errors.New("insert failed")

	// ErrQueryFailed indicates a malformed criterion or underlying store error
	ErrQueryFailed = errors.New("query failed")

	// ErrMalformedRow indicates that a stored row could not be decoded
	// into its model. Schema constraints are not trusted at this layer.
	ErrMalformedRow = errors.New("malformed row")
)
