// Package catalogerrors provides sentinel and custom error types for the application.
package catalogerrors

// ErrNotFound represents a "not found" error.
// Use when a requested resource doesn't exist.
var ErrNotFound = &NotFoundError{}

// NotFoundError is a sentinel error for resources that are not found.
type NotFoundError struct {
	Resource string
	Message  string
}

// NewNotFoundError creates a new NotFoundError with a custom message.
func NewNotFoundError(resource, message string) *NotFoundError {
	return &NotFoundError{
		Resource: resource,
		Message:  message,
	}
}

// Error implements the error interface.
func (e *NotFoundError) Error() string {
	if e.Message != "" {
		return e.Message
	}

	if e.Resource != "" {
		return e.Resource + " not found"
	}

	return "resource not found"
}

// Is implements the error interface for error comparison.
func (e *NotFoundError) Is(target error) bool {
	_, ok := target.(*NotFoundError)

	return ok
}

// ErrValidation represents a validation error.
// Use when client input fails validation.
var ErrValidation = &ValidationError{}

// ValidationError is a sentinel error for validation failures.
type ValidationError struct {
	Field   string
	Message string
}

// NewValidationError creates a new ValidationError with a custom message.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{
		Field:   field,
		Message: message,
	}
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	if e.Message != "" {
		return e.Message
	}

	if e.Field != "" {
		return "validation failed for field: " + e.Field
	}

	return "validation error"
}

// Is implements the error interface for error comparison.
func (e *ValidationError) Is(target error) bool {
	_, ok := target.(*ValidationError)

	return ok
}

// ErrStoreUnavailable is the sentinel for store-unavailable conditions.
// Use when the games store cannot be reached; handlers map it to 503,
// distinct from generic failures.
var ErrStoreUnavailable = &UnavailableError{}

// UnavailableError is a sentinel error for an unreachable backing store.
type UnavailableError struct {
	Message string
}

// NewUnavailableError creates an UnavailableError with a custom message.
func NewUnavailableError(message string) *UnavailableError {
	return &UnavailableError{Message: message}
}

// Error implements the error interface.
func (e *UnavailableError) Error() string {
	if e.Message != "" {
		return e.Message
	}

	return "store unavailable"
}

// Is implements the error interface for error comparison.
func (e *UnavailableError) Is(target error) bool {
	_, ok := target.(*UnavailableError)

	return ok
}

// ErrUpstream is the sentinel for upstream-service failures (embedding or
// statistics/ML service unreachable or non-2xx).
var ErrUpstream = &UpstreamError{}

// UpstreamError is a sentinel error for external collaborator failures.
type UpstreamError struct {
	Service string
	Message string
}

// NewUpstreamError creates an UpstreamError for the named service.
func NewUpstreamError(service, message string) *UpstreamError {
	return &UpstreamError{Service: service, Message: message}
}

// Error implements the error interface.
func (e *UpstreamError) Error() string {
	if e.Message != "" {
		return e.Message
	}

	if e.Service != "" {
		return e.Service + " service failed"
	}

	return "upstream service failed"
}

// Is implements the error interface for error comparison.
func (e *UpstreamError) Is(target error) bool {
	_, ok := target.(*UpstreamError)

	return ok
}
