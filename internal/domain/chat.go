// File: internal/domain/chat.go
package domain

import "time"

// TemperaturePreset selects how adventurous the model should be. The numeric
// value actually sent on the wire is vendor-specific, see the llm package.
type TemperaturePreset string

const (
	TemperatureCreative TemperaturePreset = "creative"
	TemperatureBalanced TemperaturePreset = "balanced"
	TemperaturePrecise  TemperaturePreset = "precise"
)

// Chat represents a single conversation thread and its send configuration.
type Chat struct {
	ID     uint `gorm:"primarykey"`
	UserID uint `gorm:"not null"` // The ID of the user who owns the chat

	Name          string            `json:"name"`
	Model         string            `json:"model" gorm:"not null"` // must resolve to exactly one adapter at send time
	Temperature   TemperaturePreset `json:"temperature"`
	SystemPrompt  string            `json:"system_prompt"`
	MessagePrefix string            `json:"message_prefix"` // prepended to user input before sending

	// HistoryLengthToSend is the number of prior turns to include as
	// context. Zero means the system prompt alone is sent.
	HistoryLengthToSend int `json:"history_length_to_send"`

	AutoCopy bool   `json:"auto_copy"`
	Icon     string `json:"icon"`
	Color    string `json:"color"`

	CreatedAt time.Time
	UpdatedAt time.Time
}
