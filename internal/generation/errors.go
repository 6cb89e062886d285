package generation

import "errors"

var (
	// ErrServiceUnavailable indicates the content generation service is
	// unreachable.
	ErrServiceUnavailable = errors.New("generation service unavailable")

	// ErrTimeout indicates the generation request exceeded the configured
	// timeout.
	ErrTimeout = errors.New("generation request timed out")

	// ErrInvalidContent indicates the service responded but the payload
	// could not be used as structured content.
	ErrInvalidContent = errors.New("invalid generated content")

	// ErrRetryExhausted indicates all retry attempts have been exhausted.
	ErrRetryExhausted = errors.New("generation retry attempts exhausted")
)
