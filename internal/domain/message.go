// File: internal/domain/message.go
package domain

import "time"

// Role tags one side of the conversation.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// FailedReason classifies why a receiving message terminated without content.
type FailedReason string

const (
	FailedReasonNone           FailedReason = ""
	FailedReasonNetwork        FailedReason = "network"
	FailedReasonAuthentication FailedReason = "authentication"
	FailedReasonRateLimit      FailedReason = "rate_limit"
	FailedReasonClient         FailedReason = "client"
	FailedReasonServer         FailedReason = "server"
	FailedReasonUnknown        FailedReason = "unknown"
)

// Message represents a single turn within a chat.
//
// Lifecycle of an assistant message created for a stream: it starts with
// Receiving=true and empty Content; on success it ends with Receiving=false
// and the final text; on failure it ends with Receiving=false, empty Content
// and a FailedReason. A failed message is cleared and retried in place, it
// is never duplicated.
type Message struct {
	ID     uint `gorm:"primarykey"`
	ChatID uint `json:"chat_id" gorm:"not null"` // The ID of the chat this message belongs to

	Role    string `json:"role" gorm:"not null"` // "system", "user" or "assistant"
	Content string `json:"content"`

	// ProcessedContent is the text actually transmitted when present:
	// user input after URL dereferencing and prefixing. Raw Content is
	// kept for display.
	ProcessedContent string `json:"processed_content"`

	Receiving    bool         `json:"receiving"`
	FailedReason FailedReason `json:"failed_reason"`

	CreatedAt time.Time
}

// TextForSending returns the processed content when present, falling back to
// the raw content, falling back to the empty string.
func (m *Message) TextForSending() string {
	if m.ProcessedContent != "" {
		return m.ProcessedContent
	}
	return m.Content
}

// Clear resets a failed receiving message so it can be retried in place.
// Role and CreatedAt are left untouched.
func (m *Message) Clear() {
	m.Content = ""
	m.ProcessedContent = ""
	m.FailedReason = FailedReasonNone
	m.Receiving = true
}
