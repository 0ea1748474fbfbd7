package apiclient

import "errors"

// Kind classifies a failed call
type Kind string

const (
	KindTransport    Kind = "transport"    // Network failure, no usable response
	KindStatus       Kind = "status"       // Non-2xx response
	KindUnauthorized Kind = "unauthorized" // 401 or 403, credential missing or no longer accepted
	KindMalformed    Kind = "malformed"    // 2xx response missing an expected field
)

// Error is the uniform failure shape returned by every call
type Error struct {
	Kind    Kind
	Status  int
	Message string
}

func newError(kind Kind, status int, message string) *Error {
	return &Error{Kind: kind, Status: status, Message: message}
}

// Error implements the error interface
func (e *Error) Error() string {
	return e.Message
}

// IsUnauthorized reports whether err is an unauthorized API error
func IsUnauthorized(err error) bool {
	var apiErr *Error
	return errors.As(err, &apiErr) && apiErr.Kind == KindUnauthorized
}
