// File: internal/services/chatting/preprocess.go
package chatting

import (
	"context"
	"net/url"
	"strings"

	"github.com/lightchat/lightchat/internal/domain"
)

// isBareURL reports whether raw input is syntactically a lone http(s) URL.
func isBareURL(input string) bool {
	trimmed := strings.TrimSpace(input)
	if trimmed == "" || strings.ContainsAny(trimmed, " \t\n") {
		return false
	}
	parsed, err := url.Parse(trimmed)
	if err != nil {
		return false
	}
	return (parsed.Scheme == "http" || parsed.Scheme == "https") && parsed.Host != ""
}

// preprocess produces the processed content stored alongside raw input: a
// bare URL is dereferenced into page text (falling back to the raw input
// when the fetch fails), then the chat's message prefix is prepended,
// separated by a blank line. Returns "" when nothing changed, so the raw
// content is transmitted as-is.
func (s *Service) preprocess(ctx context.Context, chat *domain.Chat, input string) string {
	text := input
	if isBareURL(input) {
		fetchCtx, cancel := context.WithTimeout(ctx, s.config.PreprocessTimeout)
		defer cancel()
		fetched, err := s.fetcher.FetchText(fetchCtx, strings.TrimSpace(input))
		if err != nil {
			s.logger.Warn("page fetch failed, sending raw input", "chat_id", chat.ID, "error", err)
		} else {
			text = fetched
		}
	}

	if chat.MessagePrefix != "" {
		text = chat.MessagePrefix + "\n\n" + text
	}

	if text == input {
		return ""
	}
	return text
}
