// File: internal/services/chatting/service.go
package chatting

import (
	"context"

	"github.com/lightchat/lightchat/internal/domain"
	"github.com/lightchat/lightchat/internal/repository/chat"
	"github.com/lightchat/lightchat/internal/repository/message"
	"github.com/lightchat/lightchat/internal/services/llm"
)

// Service is the top-level send/resend orchestrator. It owns the
// receiving-message lifecycle: one placeholder per streaming exchange,
// appended to or replaced delta by delta, finalized or marked failed, and
// retried in place on resend.
type Service struct {
	config      *Config
	registry    *llm.Registry
	chatRepo    chat.ChatRepository
	messageRepo message.MessageRepository
	fetcher     PageFetcher
	logger      Logger
}

func NewService(
	config *Config,
	registry *llm.Registry,
	chatRepo chat.ChatRepository,
	messageRepo message.MessageRepository,
	fetcher PageFetcher,
	logger Logger,
) (*Service, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &Service{
		config:      config,
		registry:    registry,
		chatRepo:    chatRepo,
		messageRepo: messageRepo,
		fetcher:     fetcher,
		logger:      logger,
	}, nil
}

// Models lists every model identifier served by the registered adapters.
func (s *Service) Models() []string {
	return s.registry.Models()
}

// DefaultModel returns the first registered adapter's default model, used
// when a new chat names none.
func (s *Service) DefaultModel() string {
	adapters := s.registry.Adapters()
	if len(adapters) == 0 {
		return ""
	}
	return adapters[0].DefaultModel()
}

// ValidateAdapter probes the named vendor's credentials. Rejections are
// surfaced inline at the settings form and never persisted.
func (s *Service) ValidateAdapter(ctx context.Context, vendor string) error {
	for _, adapter := range s.registry.Adapters() {
		if adapter.Vendor() == vendor {
			if err := adapter.ValidateConfig(ctx); err != nil {
				return NewValidatingError(vendor, err)
			}
			return nil
		}
	}
	return NewValidatingError(vendor, nil)
}

// Send issues a blocking exchange: the user turn is persisted, the vendor
// answers in full, and the assistant turn is persisted. A failure surfaces
// to the caller and leaves no partial assistant message.
func (s *Service) Send(ctx context.Context, chatID uint, input string) (*domain.Message, error) {
	chatRecord, adapter, err := s.resolve(ctx, chatID)
	if err != nil {
		return nil, err
	}

	userMessage := &domain.Message{
		ChatID:           chatID,
		Role:             domain.RoleUser,
		Content:          input,
		ProcessedContent: s.preprocess(ctx, chatRecord, input),
	}
	if _, err := s.messageRepo.Create(ctx, userMessage); err != nil {
		return nil, NewStoreError("create_user_message", chatID, err)
	}

	history, err := s.messageRepo.FindByChatID(ctx, chatID)
	if err != nil {
		return nil, NewStoreError("load_history", chatID, err)
	}
	turns := adapter.BuildTurns(chatRecord, history, 0)

	blockCtx, cancel := context.WithTimeout(ctx, s.config.BlockingTimeout)
	defer cancel()
	text, err := adapter.SendBlocking(blockCtx, turns, chatRecord.Model, chatRecord.Temperature)
	if err != nil {
		s.logger.Error("blocking send failed", "chat_id", chatID, "error", err)
		return nil, NewSendingError("send", "vendor request failed", chatID, err)
	}

	assistantMessage := &domain.Message{
		ChatID:  chatID,
		Role:    domain.RoleAssistant,
		Content: text,
	}
	if _, err := s.messageRepo.Create(ctx, assistantMessage); err != nil {
		return nil, NewStoreError("create_assistant_message", chatID, err)
	}
	_ = s.chatRepo.TouchUpdatedAt(ctx, chatID)

	return assistantMessage, nil
}

// SendWithStream persists the user turn and a receiving placeholder as one
// transactional unit, then streams the response into the placeholder. With
// waitForCompletion false the exchange runs detached and the placeholder is
// returned immediately for optimistic display.
func (s *Service) SendWithStream(ctx context.Context, chatID uint, input string, waitForCompletion bool) (*domain.Message, error) {
	chatRecord, adapter, err := s.resolve(ctx, chatID)
	if err != nil {
		return nil, err
	}

	// Two concurrent streams on one chat are a caller error; the race is
	// deliberately not locked away, only made visible.
	if receiving, err := s.messageRepo.HasReceiving(ctx, chatID); err == nil && receiving {
		s.logger.Warn("starting stream while another response is still receiving", "chat_id", chatID)
	}

	userMessage := &domain.Message{
		ChatID:           chatID,
		Role:             domain.RoleUser,
		Content:          input,
		ProcessedContent: s.preprocess(ctx, chatRecord, input),
	}
	placeholder := &domain.Message{
		ChatID:    chatID,
		Role:      domain.RoleAssistant,
		Receiving: true,
	}
	if err := s.messageRepo.CreateInBatch(ctx, []*domain.Message{userMessage, placeholder}); err != nil {
		return nil, NewStoreError("create_message_pair", chatID, err)
	}

	done := s.spawnStream(chatRecord, adapter, *placeholder)
	if !waitForCompletion {
		return placeholder, nil
	}

	<-done
	final, err := s.messageRepo.FindByID(ctx, placeholder.ID)
	if err != nil {
		return nil, NewStoreError("reload_message", chatID, err)
	}
	return final, nil
}

// ResendWithStream clears a finished assistant message and re-issues the
// same context-assembly and streaming flow, reusing the message identity.
// No duplicate message is ever created.
func (s *Service) ResendWithStream(ctx context.Context, messageID uint, waitForCompletion bool) (*domain.Message, error) {
	target, err := s.messageRepo.FindByID(ctx, messageID)
	if err != nil {
		return nil, NewNotFoundError("resend", 0, err)
	}
	if target.Role != domain.RoleAssistant {
		return nil, NewResendTargetError(messageID, "only assistant messages can be resent")
	}
	if target.ChatID == 0 {
		return nil, NewResendTargetError(messageID, "message belongs to no chat")
	}

	chatRecord, adapter, err := s.resolve(ctx, target.ChatID)
	if err != nil {
		return nil, err
	}

	target.Clear()
	if err := s.messageRepo.Update(ctx, target); err != nil {
		return nil, NewStoreError("clear_message", target.ChatID, err)
	}

	done := s.spawnStream(chatRecord, adapter, *target)
	if !waitForCompletion {
		return target, nil
	}

	<-done
	final, err := s.messageRepo.FindByID(ctx, messageID)
	if err != nil {
		return nil, NewStoreError("reload_message", target.ChatID, err)
	}
	return final, nil
}

// resolve loads the chat and the adapter its model maps to.
func (s *Service) resolve(ctx context.Context, chatID uint) (*domain.Chat, llm.ChattingAdapter, error) {
	chatRecord, err := s.chatRepo.FindByID(ctx, chatID)
	if err != nil {
		return nil, nil, NewNotFoundError("load_chat", chatID, err)
	}
	adapter, ok := s.registry.ForModel(chatRecord.Model)
	if !ok {
		return nil, nil, NewConfigError(chatRecord.Model, chatID)
	}
	return chatRecord, adapter, nil
}
