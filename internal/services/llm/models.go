// File: internal/services/llm/models.go
package llm

import "github.com/lightchat/lightchat/internal/domain"

const (
	VendorOpenAI    = "openai"
	VendorAnthropic = "anthropic"
)

// Known model identifiers, in the order presented to the user.
var openAIModels = []string{
	"gpt-3.5-turbo",
	"gpt-3.5-turbo-16k",
	"gpt-4",
	"gpt-4-32k",
}

var anthropicModels = []string{
	"claude-v1",
	"claude-v1-100k",
	"claude-instant-v1",
	"claude-instant-v1-100k",
	"claude-2",
}

// maxContextTokens is the advertised context window per model. Unlisted
// models fall back to a conservative default.
var maxContextTokens = map[string]int{
	"gpt-3.5-turbo":          4096,
	"gpt-3.5-turbo-16k":      16384,
	"gpt-4":                  8192,
	"gpt-4-32k":              32768,
	"claude-v1":              9000,
	"claude-v1-100k":         100000,
	"claude-instant-v1":      9000,
	"claude-instant-v1-100k": 100000,
	"claude-2":               100000,
}

const (
	defaultContextTokens = 4096

	// responseReserveTokens is held back from the context window so the
	// completion itself has room.
	responseReserveTokens = 1024
)

// contextBudget returns the token budget handed to the assembler for a model.
func contextBudget(model string) int {
	size, ok := maxContextTokens[model]
	if !ok {
		size = defaultContextTokens
	}
	budget := size - responseReserveTokens
	if budget < 1 {
		budget = 1
	}
	return budget
}

// openAITemperature maps a preset onto OpenAI's 0-2 scale.
func openAITemperature(p domain.TemperaturePreset) float32 {
	switch p {
	case domain.TemperatureCreative:
		return 1.2
	case domain.TemperaturePrecise:
		return 0.2
	default:
		return 0.8
	}
}

// anthropicTemperature maps a preset onto Anthropic's 0-1 scale.
func anthropicTemperature(p domain.TemperaturePreset) float64 {
	switch p {
	case domain.TemperatureCreative:
		return 1.0
	case domain.TemperaturePrecise:
		return 0.1
	default:
		return 0.5
	}
}
