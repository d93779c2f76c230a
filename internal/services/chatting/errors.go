// File: internal/services/chatting/errors.go
package chatting

import "fmt"

type ErrorType string

const (
	ErrTypeConfig     ErrorType = "CONFIG"
	ErrTypeSending    ErrorType = "SENDING"
	ErrTypeValidating ErrorType = "VALIDATING"
	ErrTypeBadURL     ErrorType = "BAD_URL"
	ErrTypeResend     ErrorType = "RESEND"
	ErrTypeStore      ErrorType = "STORE"
	ErrTypeNotFound   ErrorType = "NOT_FOUND"
)

type ChattingError struct {
	Type      ErrorType
	Operation string
	Message   string
	ChatID    uint
	MessageID uint
	Cause     error
}

func (e *ChattingError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("Chatting %s error in %s: %s (caused by: %v)",
			e.Type, e.Operation, e.Message, e.Cause)
	}
	return fmt.Sprintf("Chatting %s error in %s: %s", e.Type, e.Operation, e.Message)
}

// NewConfigError reports a chat whose model resolves to no adapter.
func NewConfigError(model string, chatID uint) *ChattingError {
	return &ChattingError{
		Type:      ErrTypeConfig,
		Operation: "resolve_adapter",
		Message:   fmt.Sprintf("no adapter serves model %q", model),
		ChatID:    chatID,
	}
}

func NewSendingError(operation, msg string, chatID uint, cause error) *ChattingError {
	return &ChattingError{
		Type:      ErrTypeSending,
		Operation: operation,
		Message:   msg,
		ChatID:    chatID,
		Cause:     cause,
	}
}

func NewValidatingError(vendor string, cause error) *ChattingError {
	return &ChattingError{
		Type:      ErrTypeValidating,
		Operation: "validate_config",
		Message:   fmt.Sprintf("%s configuration rejected", vendor),
		Cause:     cause,
	}
}

func NewResendTargetError(messageID uint, msg string) *ChattingError {
	return &ChattingError{
		Type:      ErrTypeResend,
		Operation: "resend",
		Message:   msg,
		MessageID: messageID,
	}
}

func NewStoreError(operation string, chatID uint, cause error) *ChattingError {
	return &ChattingError{
		Type:      ErrTypeStore,
		Operation: operation,
		Message:   "persistence failed",
		ChatID:    chatID,
		Cause:     cause,
	}
}

func NewNotFoundError(operation string, chatID uint, cause error) *ChattingError {
	return &ChattingError{
		Type:      ErrTypeNotFound,
		Operation: operation,
		Message:   "target not found",
		ChatID:    chatID,
		Cause:     cause,
	}
}
