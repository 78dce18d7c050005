package providers

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptyCompletion means the endpoint answered without any choice.
	ErrEmptyCompletion = errors.New("no response choices returned")
	// ErrNoAPIKey means no key was configured for the endpoint.
	ErrNoAPIKey = errors.New("API key not configured")
)

// CompletionError reports a failed chat completion call: network, auth,
// quota or a malformed response.
type CompletionError struct {
	Model      string
	StatusCode int // 0 when no HTTP response was received
	Err        error
}

func (e *CompletionError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("completion (%s): HTTP %d: %s", e.Model, e.StatusCode, friendlyHTTPError(e.StatusCode, e.Err))
	}
	return fmt.Sprintf("completion (%s): %v", e.Model, e.Err)
}

func (e *CompletionError) Unwrap() error {
	return e.Err
}

func friendlyHTTPError(code int, err error) string {
	switch code {
	case 401:
		return "invalid API key"
	case 429:
		return "rate limit exceeded"
	}
	return err.Error()
}
