// File: internal/services/llm/errors.go
package llm

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/lightchat/lightchat/internal/domain"
)

type ErrorType string

const (
	ErrTypeConfig     ErrorType = "CONFIG"
	ErrTypeValidation ErrorType = "VALIDATION"
	ErrTypeProvider   ErrorType = "PROVIDER"
	ErrTypeTransport  ErrorType = "TRANSPORT"
)

// AdapterError is the shared failure shape of both vendor adapters. Reason
// carries the classification that gets persisted on a failed receiving
// message.
type AdapterError struct {
	Type       ErrorType
	Vendor     string
	Operation  string
	StatusCode int
	Reason     domain.FailedReason
	Message    string
	Cause      error
}

func (e *AdapterError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s %s error in %s: %s (caused by: %v)",
			e.Vendor, e.Type, e.Operation, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s %s error in %s: %s", e.Vendor, e.Type, e.Operation, e.Message)
}

func NewConfigError(vendor, msg string) *AdapterError {
	return &AdapterError{
		Type:      ErrTypeConfig,
		Vendor:    vendor,
		Operation: "config",
		Reason:    domain.FailedReasonUnknown,
		Message:   msg,
	}
}

func NewValidationError(vendor, msg string, cause error) *AdapterError {
	return &AdapterError{
		Type:      ErrTypeValidation,
		Vendor:    vendor,
		Operation: "validate",
		Reason:    domain.FailedReasonAuthentication,
		Message:   msg,
		Cause:     cause,
	}
}

func NewProviderError(vendor, operation string, statusCode int, reason domain.FailedReason, msg string, cause error) *AdapterError {
	return &AdapterError{
		Type:       ErrTypeProvider,
		Vendor:     vendor,
		Operation:  operation,
		StatusCode: statusCode,
		Reason:     reason,
		Message:    msg,
		Cause:      cause,
	}
}

func NewTransportError(vendor, operation string, cause error) *AdapterError {
	return &AdapterError{
		Type:      ErrTypeTransport,
		Vendor:    vendor,
		Operation: operation,
		Reason:    domain.FailedReasonNetwork,
		Message:   "transport failure",
		Cause:     cause,
	}
}

// ReasonFromStatus maps an HTTP status code onto the persisted failure
// taxonomy. Vendor-specific overrides (Anthropic's 403) are applied by the
// adapter before calling this.
func ReasonFromStatus(statusCode int) domain.FailedReason {
	switch {
	case statusCode == http.StatusUnauthorized:
		return domain.FailedReasonAuthentication
	case statusCode == http.StatusTooManyRequests:
		return domain.FailedReasonRateLimit
	case statusCode >= 400 && statusCode < 500:
		return domain.FailedReasonClient
	case statusCode >= 500 && statusCode < 600:
		return domain.FailedReasonServer
	default:
		return domain.FailedReasonUnknown
	}
}

// FailedReasonOf extracts the persisted failure classification from an
// adapter error, defaulting to unknown for anything else.
func FailedReasonOf(err error) domain.FailedReason {
	var adapterErr *AdapterError
	if errors.As(err, &adapterErr) && adapterErr.Reason != domain.FailedReasonNone {
		return adapterErr.Reason
	}
	return domain.FailedReasonUnknown
}
