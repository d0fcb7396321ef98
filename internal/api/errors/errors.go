package errors

import "net/http"

// ErrorKind represents different types of API errors.
type ErrorKind string

const (
	KindBadRequest          ErrorKind = "bad_request"
	KindServiceUnavailable  ErrorKind = "service_unavailable"
	KindTranscriptionFailed ErrorKind = "transcription_failed"
	KindInternal            ErrorKind = "internal"
)

// APIError is the typed error union returned by the service layer. The
// gateway maps the kind to an HTTP status deterministically.
type APIError struct {
	Kind      ErrorKind `json:"kind"`
	Message   string    `json:"message"`
	RequestID string    `json:"request_id,omitempty"`
}

// Error implements the error interface.
func (e *APIError) Error() string {
	return e.Message
}

// HTTPStatus returns the appropriate HTTP status code for the error kind.
func (e *APIError) HTTPStatus() int {
	switch e.Kind {
	case KindBadRequest:
		return http.StatusBadRequest
	case KindServiceUnavailable:
		return http.StatusServiceUnavailable
	case KindTranscriptionFailed:
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}

// NewBadRequestError creates a bad request error.
func NewBadRequestError(message string) *APIError {
	return &APIError{Kind: KindBadRequest, Message: message}
}

// NewServiceUnavailableError creates a service unavailable error.
func NewServiceUnavailableError(message string) *APIError {
	return &APIError{Kind: KindServiceUnavailable, Message: message}
}

// NewTranscriptionFailedError creates a transcription failed error
// carrying the underlying backend message.
func NewTranscriptionFailedError(message string) *APIError {
	return &APIError{Kind: KindTranscriptionFailed, Message: message}
}

// NewInternalError creates an internal server error.
func NewInternalError(message string) *APIError {
	return &APIError{Kind: KindInternal, Message: message}
}

// FromError converts any error into an APIError, passing typed errors
// through unchanged.
func FromError(err error) *APIError {
	if err == nil {
		return nil
	}
	if apiErr, ok := err.(*APIError); ok {
		return apiErr
	}
	return NewInternalError(err.Error())
}
