package errors

import "errors"

// Sentinel errors shared across services.
var (
	// ErrOptimisticLock means the record was modified by another operation
	// since it was read; the caller should refresh and retry.
	ErrOptimisticLock = errors.New("record was modified by another operation")

	// ErrNotFound is returned by services when a requested entity is missing.
	ErrNotFound = errors.New("record not found")

	// ErrForbidden means the caller is authenticated but not allowed to act
	// on the target record.
	ErrForbidden = errors.New("operation not allowed for this user")

	// ErrUnauthenticated means no valid identity accompanied the request.
	ErrUnauthenticated = errors.New("authentication required")
)
