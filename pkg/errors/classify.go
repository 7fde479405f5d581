package errors

import (
	"context"
	"errors"
	"net"

	"gorm.io/gorm"
)

// Category buckets an error for presentation and retry decisions.
type Category string

const (
	CategoryValidation     Category = "VALIDATION"
	CategoryAuthentication Category = "AUTHENTICATION"
	CategoryAuthorization  Category = "AUTHORIZATION"
	CategoryNotFound       Category = "NOT_FOUND"
	CategoryConflict       Category = "CONFLICT"
	CategoryTransport      Category = "TRANSPORT"
	CategoryInternal       Category = "INTERNAL"
)

// Classification is the outcome of Classify.
type Classification struct {
	Category Category
	// ShouldRetry reports whether re-submitting the same request can
	// plausibly succeed. Transport and internal failures are transient;
	// validation, auth and conflict outcomes are not.
	ShouldRetry bool
}

// ValidationError tags an error as a client-input problem.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return e.Field + ": " + e.Message
	}
	return e.Message
}

// NewValidationError builds a field-scoped validation error.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

// Classify maps an arbitrary error to a category plus retry hint.
func Classify(err error) Classification {
	switch {
	case err == nil:
		return Classification{Category: CategoryInternal, ShouldRetry: false}
	case errors.Is(err, ErrOptimisticLock):
		return Classification{Category: CategoryConflict, ShouldRetry: false}
	case errors.Is(err, ErrUnauthenticated):
		return Classification{Category: CategoryAuthentication, ShouldRetry: false}
	case errors.Is(err, ErrForbidden):
		return Classification{Category: CategoryAuthorization, ShouldRetry: false}
	case errors.Is(err, ErrNotFound), errors.Is(err, gorm.ErrRecordNotFound):
		return Classification{Category: CategoryNotFound, ShouldRetry: false}
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		return Classification{Category: CategoryTransport, ShouldRetry: true}
	}

	var vErr *ValidationError
	if errors.As(err, &vErr) {
		return Classification{Category: CategoryValidation, ShouldRetry: false}
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return Classification{Category: CategoryTransport, ShouldRetry: true}
	}

	return Classification{Category: CategoryInternal, ShouldRetry: true}
}
