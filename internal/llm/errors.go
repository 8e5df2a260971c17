package llm

import (
	"errors"
	"fmt"
)

// ErrUnsupported is returned when a provider cannot perform an operation,
// e.g. transcription on a text-only gateway.
var ErrUnsupported = errors.New("operation not supported by provider")

// APICallError represents a failed or empty model call.
type APICallError struct {
	Provider   Provider
	Model      string
	StatusCode int
	Message    string
	Cause      error
}

func (e *APICallError) Error() string {
	prefix := fmt.Sprintf("%s call failed", e.Provider)
	if e.Model != "" {
		prefix = fmt.Sprintf("%s call to %s failed", e.Provider, e.Model)
	}
	if e.StatusCode != 0 {
		prefix = fmt.Sprintf("%s (status %d)", prefix, e.StatusCode)
	}
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", prefix, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", prefix, e.Message)
}

func (e *APICallError) Unwrap() error {
	return e.Cause
}

// ParseError represents a model reply that could not be decoded into the expected shape.
type ParseError struct {
	Message string
	Content string
	Cause   error
}

func (e *ParseError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("malformed model reply: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("malformed model reply: %s", e.Message)
}

func (e *ParseError) Unwrap() error {
	return e.Cause
}

// IsUpstream reports whether err originates from the model provider,
// either as a failed call or as an unusable reply.
func IsUpstream(err error) bool {
	var apiErr *APICallError
	var parseErr *ParseError
	return errors.As(err, &apiErr) || errors.As(err, &parseErr) || errors.Is(err, ErrUnsupported)
}
