// File: internal/domain/turn.go
package domain

// Turn is the adapter-facing projection of a Message: role plus the text
// actually sent. Turns are produced fresh per request and never persisted.
type Turn struct {
	Role string
	Text string
}

// TurnFromMessage projects a stored message into a sendable turn.
func TurnFromMessage(m *Message) Turn {
	return Turn{Role: m.Role, Text: m.TextForSending()}
}
