// File: internal/services/llm/anthropic_adapter.go
package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/lightchat/lightchat/internal/domain"
	"github.com/lightchat/lightchat/internal/services/sse"
)

const anthropicStopSequence = "\n\nHuman:"

// AnthropicAdapter speaks the legacy text-completion protocol: one
// flattened Human/Assistant prompt string in, cumulative completion
// snapshots out. Each streamed event replaces the accumulated text.
type AnthropicAdapter struct {
	config    *Config
	http      *http.Client
	stream    *sse.Client
	assembler *Assembler
	logger    Logger
}

func NewAnthropicAdapter(config *Config, streamClient *sse.Client, assembler *Assembler, logger Logger) *AnthropicAdapter {
	return &AnthropicAdapter{
		config:    config,
		http:      &http.Client{Timeout: config.Timeout},
		stream:    streamClient,
		assembler: assembler,
		logger:    logger,
	}
}

type anthropicRequest struct {
	Prompt            string   `json:"prompt"`
	Model             string   `json:"model"`
	MaxTokensToSample int      `json:"max_tokens_to_sample"`
	StopSequences     []string `json:"stop_sequences"`
	Temperature       float64  `json:"temperature"`
	Stream            bool     `json:"stream"`
}

type anthropicResponse struct {
	Completion string `json:"completion"`
}

func (a *AnthropicAdapter) Vendor() string { return VendorAnthropic }

func (a *AnthropicAdapter) Models() []string { return anthropicModels }

func (a *AnthropicAdapter) DefaultModel() string { return "claude-v1" }

func (a *AnthropicAdapter) BuildTurns(chat *domain.Chat, history []domain.Message, receivingID uint) []domain.Turn {
	return a.assembler.Assemble(AssembleInput{
		History:      history,
		ReceivingID:  receivingID,
		SystemPrompt: chat.SystemPrompt,
		MaxHistory:   chat.HistoryLengthToSend,
		BudgetTokens: contextBudget(chat.Model),
	})
}

// ValidateConfig sends a fixed two-turn prompt and treats an empty or
// erroring result as unusable credentials.
func (a *AnthropicAdapter) ValidateConfig(ctx context.Context) error {
	turns := []domain.Turn{{Role: domain.RoleUser, Text: "Hello"}}
	text, err := a.SendBlocking(ctx, turns, a.DefaultModel(), domain.TemperatureBalanced)
	if err != nil {
		return NewValidationError(VendorAnthropic, "credential probe failed", err)
	}
	if strings.TrimSpace(text) == "" {
		return NewValidationError(VendorAnthropic, "credential probe returned no content", nil)
	}
	return nil
}

func (a *AnthropicAdapter) SendBlocking(ctx context.Context, turns []domain.Turn, model string, temperature domain.TemperaturePreset) (string, error) {
	body, err := json.Marshal(a.buildRequest(turns, model, temperature, false))
	if err != nil {
		return "", NewTransportError(VendorAnthropic, "completion", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, a.completeURL(), bytes.NewReader(body))
	if err != nil {
		return "", NewTransportError(VendorAnthropic, "completion", err)
	}
	a.setHeaders(httpReq.Header)

	resp, err := a.http.Do(httpReq)
	if err != nil {
		return "", NewTransportError(VendorAnthropic, "completion", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 16*1024))
		return "", NewProviderError(VendorAnthropic, "completion", resp.StatusCode,
			a.reasonFromStatus(resp.StatusCode), strings.TrimSpace(string(respBody)), nil)
	}

	var decoded anthropicResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return "", NewProviderError(VendorAnthropic, "completion", 0,
			domain.FailedReasonUnknown, "undecodable response body", err)
	}
	return decoded.Completion, nil
}

func (a *AnthropicAdapter) SendStreaming(ctx context.Context, turns []domain.Turn, model string, temperature domain.TemperaturePreset, onDelta func(StreamDelta) error) error {
	body, err := json.Marshal(a.buildRequest(turns, model, temperature, true))
	if err != nil {
		return NewTransportError(VendorAnthropic, "streaming", err)
	}

	streamErr := a.stream.Stream(ctx, sse.Request{
		URL:    a.completeURL(),
		Method: http.MethodPost,
		Headers: map[string]string{
			"Content-Type": "application/json",
			"x-api-key":    a.config.APIKey,
		},
		Body: body,
	}, func(event sse.Event) error {
		if event.Data == "[DONE]" {
			return sse.ErrStop
		}
		var decoded anthropicResponse
		if err := json.Unmarshal([]byte(event.Data), &decoded); err != nil {
			// A single corrupt frame is dropped, the stream continues.
			a.logger.Debug("skipping undecodable stream event", "event", event.Name)
			return nil
		}
		return onDelta(StreamDelta{Text: decoded.Completion, Mode: DeltaReplace})
	})

	if streamErr != nil {
		var transportErr *sse.StreamError
		if errors.As(streamErr, &transportErr) {
			if transportErr.Type == sse.ErrTypeStatus {
				return NewProviderError(VendorAnthropic, "streaming", transportErr.StatusCode,
					a.reasonFromStatus(transportErr.StatusCode), transportErr.Message, streamErr)
			}
			return NewTransportError(VendorAnthropic, "streaming", streamErr)
		}
		// The callback's own error, propagated as-is.
		return streamErr
	}
	return nil
}

// reasonFromStatus applies the vendor override: a 403 from this endpoint is
// a proxy/domain misconfiguration signal, not a credential problem.
func (a *AnthropicAdapter) reasonFromStatus(statusCode int) domain.FailedReason {
	if statusCode == http.StatusForbidden {
		return domain.FailedReasonNetwork
	}
	return ReasonFromStatus(statusCode)
}

func (a *AnthropicAdapter) completeURL() string {
	// Domain may carry its own scheme for local proxies.
	if strings.Contains(a.config.Domain, "://") {
		return a.config.Domain + "/v1/complete"
	}
	return fmt.Sprintf("https://%s/v1/complete", a.config.Domain)
}

func (a *AnthropicAdapter) setHeaders(h http.Header) {
	h.Set("Content-Type", "application/json")
	h.Set("x-api-key", a.config.APIKey)
}

func (a *AnthropicAdapter) buildRequest(turns []domain.Turn, model string, temperature domain.TemperaturePreset, stream bool) anthropicRequest {
	return anthropicRequest{
		Prompt:            flattenPrompt(turns),
		Model:             model,
		MaxTokensToSample: a.config.MaxTokensToSample,
		StopSequences:     []string{anthropicStopSequence},
		Temperature:       anthropicTemperature(temperature),
		Stream:            stream,
	}
}

// flattenPrompt concatenates turns as alternating Human/Assistant segments.
// A system turn becomes a synthetic leading exchange the assistant has
// already acknowledged, and the prompt ends with an open Assistant segment
// awaiting the completion.
func flattenPrompt(turns []domain.Turn) string {
	var b strings.Builder
	for _, t := range turns {
		switch t.Role {
		case domain.RoleSystem:
			b.WriteString("\n\nHuman: ")
			b.WriteString(t.Text)
			b.WriteString("\n\nAssistant: OK")
		case domain.RoleAssistant:
			b.WriteString("\n\nAssistant: ")
			b.WriteString(t.Text)
		default:
			b.WriteString("\n\nHuman: ")
			b.WriteString(t.Text)
		}
	}
	b.WriteString("\n\nAssistant: ")
	return b.String()
}
