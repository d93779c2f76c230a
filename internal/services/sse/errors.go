// File: internal/services/sse/errors.go
package sse

import (
	"errors"
	"fmt"
)

// ErrStop is returned by an event callback to end consumption early. The
// client treats it as a normal close, not a failure.
var ErrStop = errors.New("stop streaming")

type ErrorType string

const (
	ErrTypeConnection ErrorType = "CONNECTION"
	ErrTypeStatus     ErrorType = "STATUS"
)

// StreamError is the typed terminal failure of an event stream.
type StreamError struct {
	Type       ErrorType
	StatusCode int // non-zero only for ErrTypeStatus
	Operation  string
	Message    string
	Cause      error
}

func (e *StreamError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("SSE %s error in %s: %s (caused by: %v)",
			e.Type, e.Operation, e.Message, e.Cause)
	}
	return fmt.Sprintf("SSE %s error in %s: %s", e.Type, e.Operation, e.Message)
}

func NewConnectionError(operation string, cause error) *StreamError {
	return &StreamError{
		Type:      ErrTypeConnection,
		Operation: operation,
		Message:   "connection failed",
		Cause:     cause,
	}
}

func NewStatusError(statusCode int, body string) *StreamError {
	return &StreamError{
		Type:       ErrTypeStatus,
		StatusCode: statusCode,
		Operation:  "open",
		Message:    body,
	}
}
