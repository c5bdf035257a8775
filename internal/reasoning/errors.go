package reasoning

import "errors"

// Common errors returned by the reasoning boundary.
var (
	// ErrUnavailable is returned for network failures, timeouts, and
	// non-2xx responses from the reasoning service.
	ErrUnavailable = errors.New("reasoning service unavailable")

	// ErrEmptyCompletion is returned when the service responds without
	// any completion content.
	ErrEmptyCompletion = errors.New("empty completion from reasoning service")

	// ErrInvalidPayload is returned when the completion content is not
	// JSON, neither directly nor inside a fenced code block.
	ErrInvalidPayload = errors.New("reasoning completion is not valid JSON")

	// ErrInvalidResponse is returned when a completion parses as JSON
	// but does not match the operation's expected shape.
	ErrInvalidResponse = errors.New("invalid response shape from reasoning service")

	// ErrInvalidConfig is returned when a client is constructed with
	// missing or malformed configuration.
	ErrInvalidConfig = errors.New("invalid reasoning client configuration")
)
