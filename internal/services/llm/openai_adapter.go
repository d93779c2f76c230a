// File: internal/services/llm/openai_adapter.go
package llm

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	openai "github.com/sashabaranov/go-openai"

	"github.com/lightchat/lightchat/internal/domain"
)

// OpenAIAdapter speaks the chat-completions protocol: an array of
// {role, content} turns in, streamed deltas that concatenate out.
type OpenAIAdapter struct {
	config    *Config
	client    *openai.Client
	assembler *Assembler
	logger    Logger
}

func NewOpenAIAdapter(config *Config, assembler *Assembler, logger Logger) *OpenAIAdapter {
	clientConfig := openai.DefaultConfig(config.APIKey)
	// Domain may carry its own scheme for local proxies.
	base := config.Domain
	if !strings.Contains(base, "://") {
		base = "https://" + base
	}
	clientConfig.BaseURL = fmt.Sprintf("%s/v1", base)
	return &OpenAIAdapter{
		config:    config,
		client:    openai.NewClientWithConfig(clientConfig),
		assembler: assembler,
		logger:    logger,
	}
}

func (a *OpenAIAdapter) Vendor() string { return VendorOpenAI }

func (a *OpenAIAdapter) Models() []string { return openAIModels }

func (a *OpenAIAdapter) DefaultModel() string { return "gpt-3.5-turbo" }

func (a *OpenAIAdapter) BuildTurns(chat *domain.Chat, history []domain.Message, receivingID uint) []domain.Turn {
	return a.assembler.Assemble(AssembleInput{
		History:      history,
		ReceivingID:  receivingID,
		SystemPrompt: chat.SystemPrompt,
		MaxHistory:   chat.HistoryLengthToSend,
		BudgetTokens: contextBudget(chat.Model),
	})
}

// ValidateConfig issues a minimal one-turn request and treats an empty or
// erroring result as unusable credentials.
func (a *OpenAIAdapter) ValidateConfig(ctx context.Context) error {
	resp, err := a.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: a.DefaultModel(),
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: "Test"},
		},
		Temperature: 1,
		MaxTokens:   16,
	})
	if err != nil {
		return NewValidationError(VendorOpenAI, "credential probe failed", err)
	}
	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		return NewValidationError(VendorOpenAI, "credential probe returned no content", nil)
	}
	return nil
}

func (a *OpenAIAdapter) SendBlocking(ctx context.Context, turns []domain.Turn, model string, temperature domain.TemperaturePreset) (string, error) {
	resp, err := a.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       model,
		Messages:    toOpenAIMessages(turns),
		Temperature: openAITemperature(temperature),
	})
	if err != nil {
		return "", a.wrapError("completion", err)
	}
	if len(resp.Choices) == 0 {
		return "", NewProviderError(VendorOpenAI, "completion", 0,
			domain.FailedReasonUnknown, "response carried no choices", nil)
	}
	return resp.Choices[0].Message.Content, nil
}

func (a *OpenAIAdapter) SendStreaming(ctx context.Context, turns []domain.Turn, model string, temperature domain.TemperaturePreset, onDelta func(StreamDelta) error) error {
	stream, err := a.client.CreateChatCompletionStream(ctx, openai.ChatCompletionRequest{
		Model:       model,
		Messages:    toOpenAIMessages(turns),
		Temperature: openAITemperature(temperature),
	})
	if err != nil {
		return a.wrapError("streaming", err)
	}
	defer stream.Close()

	for {
		response, err := stream.Recv()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return a.wrapError("streaming", err)
		}

		if len(response.Choices) == 0 {
			continue
		}
		delta := response.Choices[0].Delta.Content
		if delta == "" {
			continue
		}
		if cbErr := onDelta(StreamDelta{Text: delta, Mode: DeltaAppend}); cbErr != nil {
			return cbErr
		}
	}
}

// wrapError classifies client errors onto the persisted failure taxonomy.
func (a *OpenAIAdapter) wrapError(operation string, err error) error {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return NewProviderError(VendorOpenAI, operation, apiErr.HTTPStatusCode,
			ReasonFromStatus(apiErr.HTTPStatusCode), apiErr.Message, err)
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return NewProviderError(VendorOpenAI, operation, reqErr.HTTPStatusCode,
			ReasonFromStatus(reqErr.HTTPStatusCode), "request rejected", err)
	}
	return NewTransportError(VendorOpenAI, operation, err)
}

func toOpenAIMessages(turns []domain.Turn) []openai.ChatCompletionMessage {
	messages := make([]openai.ChatCompletionMessage, 0, len(turns))
	for _, t := range turns {
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    t.Role,
			Content: t.Text,
		})
	}
	return messages
}
