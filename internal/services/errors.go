package services

import "errors"

// Sentinel errors for the video processing pipeline.
var (
	// ErrInvalidURL means the input does not resolve to a YouTube video
	// identifier. Never retried, and no video record is created.
	ErrInvalidURL = errors.New("invalid YouTube URL")

	// ErrNoTranscript means no caption track exists in any language.
	ErrNoTranscript = errors.New("no transcript available")

	// ErrLookupFailed covers non-retryable lookup errors such as an
	// unavailable or private video.
	ErrLookupFailed = errors.New("video lookup failed")
)

// TransientError marks a provider failure worth retrying: rate limits
// and transient API faults. Everything else propagates immediately.
type TransientError struct {
	Err error
}

func (e *TransientError) Error() string { return e.Err.Error() }
func (e *TransientError) Unwrap() error { return e.Err }

func Transient(err error) error {
	if err == nil {
		return nil
	}
	return &TransientError{Err: err}
}

func IsTransient(err error) bool {
	var te *TransientError
	return errors.As(err, &te)
}

// Typed service errors mapped to HTTP statuses by the handlers.

type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string { return "validation failed" }

type ConflictError struct {
	Message string
}

func (e *ConflictError) Error() string { return e.Message }

type NotFoundError struct {
	Message string
}

func (e *NotFoundError) Error() string { return e.Message }

type UnauthorizedError struct {
	Message string
}

func (e *UnauthorizedError) Error() string { return e.Message }

type ForbiddenError struct {
	Message string
}

func (e *ForbiddenError) Error() string { return e.Message }

type RateLimitError struct {
	Message string
}

func (e *RateLimitError) Error() string { return e.Message }
