package verification

import (
	"errors"
	"net/http"
)

// ErrorKind classifies a verification failure
type ErrorKind string

const (
	// KindInput means the request was empty or malformed; the user must correct it
	KindInput ErrorKind = "input"

	// KindConfiguration means upstream credentials are missing; the operator must fix it
	KindConfiguration ErrorKind = "configuration"

	// KindUpstream means the model provider failed or timed out
	KindUpstream ErrorKind = "upstream"
)

// User-facing messages. Upstream detail is never included.
const (
	MsgContentRequired     = "Content is required"
	MsgURLRequired         = "URL is required"
	MsgInvalidURL          = "Invalid URL format"
	MsgImageRequired       = "Image is required"
	MsgInvalidImage        = "Invalid image data"
	MsgAPIKeyNotConfigured = "API key not configured"
	MsgAINotConfigured     = "AI service not configured"
	MsgVerificationFailed  = "Verification failed"
	MsgImageAnalysisFailed = "Failed to analyze image"
)

// Error is returned by every verification operation. Message is safe to show
// to end users; Err carries the underlying cause for logging.
type Error struct {
	Kind    ErrorKind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// StatusCode maps the error kind to an HTTP status
func (e *Error) StatusCode() int {
	if e.Kind == KindInput {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

func inputError(message string, err error) *Error {
	return &Error{Kind: KindInput, Message: message, Err: err}
}

// AsError extracts a *Error from err, or nil
func AsError(err error) *Error {
	var verr *Error
	if errors.As(err, &verr) {
		return verr
	}
	return nil
}
