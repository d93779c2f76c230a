// File: internal/services/llm/interface.go
package llm

import (
	"context"

	"github.com/lightchat/lightchat/internal/domain"
)

// ChattingAdapter is the per-vendor implementation of the chat-completion
// capability set. Exactly two variants exist: OpenAIAdapter and
// AnthropicAdapter.
type ChattingAdapter interface {
	// Vendor returns the vendor tag, VendorOpenAI or VendorAnthropic.
	Vendor() string

	// Models lists the model identifiers this adapter serves, in display order.
	Models() []string

	// DefaultModel returns the identifier used when a chat has none.
	DefaultModel() string

	// BuildTurns assembles the bounded context for a request: processed
	// content over raw content, capped by the chat's history length and
	// the model's token budget. The receiving message and everything
	// after it are excluded.
	BuildTurns(chat *domain.Chat, history []domain.Message, receivingID uint) []domain.Turn

	// ValidateConfig issues a minimal probe request and reports whether
	// the configured credentials are usable.
	ValidateConfig(ctx context.Context) error

	// SendBlocking issues a non-streaming completion and returns the
	// final text.
	SendBlocking(ctx context.Context, turns []domain.Turn, model string, temperature domain.TemperaturePreset) (string, error)

	// SendStreaming issues a streaming completion. Deltas are delivered
	// in arrival order, each tagged with its accumulation mode. A non-nil
	// return from onDelta aborts the stream and is returned as-is.
	SendStreaming(ctx context.Context, turns []domain.Turn, model string, temperature domain.TemperaturePreset, onDelta func(StreamDelta) error) error
}
