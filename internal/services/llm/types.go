// File: internal/services/llm/types.go
package llm

// Logger defines the logging interface used across llm services
type Logger interface {
	Info(msg string, keysAndValues ...interface{})
	Error(msg string, keysAndValues ...interface{})
	Debug(msg string, keysAndValues ...interface{})
	Warn(msg string, keysAndValues ...interface{})
}

// DeltaMode is the accumulation policy of a streamed fragment. OpenAI-style
// streams send increments that concatenate; Anthropic-style streams send the
// cumulative completion so far, so each event replaces the previous text.
// Mixing the two policies corrupts output, which is why the mode travels
// with every delta instead of being a per-call default.
type DeltaMode int

const (
	DeltaAppend DeltaMode = iota
	DeltaReplace
)

// StreamDelta is one unit of incremental content from a streaming response.
type StreamDelta struct {
	Text string
	Mode DeltaMode
}

// Apply folds the delta into the accumulated text under its own policy.
func (d StreamDelta) Apply(current string) string {
	if d.Mode == DeltaReplace {
		return d.Text
	}
	return current + d.Text
}
