// File: internal/services/chatting/stream.go
package chatting

import (
	"context"
	"time"

	"github.com/lightchat/lightchat/internal/domain"
	"github.com/lightchat/lightchat/internal/services/llm"
)

const dbSaveTimeout = 5 * time.Second

// spawnStream runs one streaming exchange as a detached task. The task owns
// its copy of the receiving message and its own lifetime: abandoning the
// returned channel does not cancel the exchange, so a response keeps
// arriving and getting persisted after the caller walks away.
func (s *Service) spawnStream(chatRecord *domain.Chat, adapter llm.ChattingAdapter, receiving domain.Message) <-chan struct{} {
	done := make(chan struct{})
	go func() {
		defer close(done)
		s.streamInto(chatRecord, adapter, &receiving)
	}()
	return done
}

// streamInto materializes one streamed response into the receiving message,
// persisting every delta as it is applied so any reader sees a consistent
// snapshot.
func (s *Service) streamInto(chatRecord *domain.Chat, adapter llm.ChattingAdapter, receiving *domain.Message) {
	ctx, cancel := context.WithTimeout(context.Background(), s.config.StreamTimeout)
	defer cancel()

	history, err := s.messageRepo.FindByChatID(ctx, chatRecord.ID)
	if err != nil {
		s.logger.Error("loading history for stream failed", "chat_id", chatRecord.ID, "error", err)
		s.failReceiving(ctx, receiving, domain.FailedReasonUnknown)
		return
	}
	turns := adapter.BuildTurns(chatRecord, history, receiving.ID)

	streamErr := adapter.SendStreaming(ctx, turns, chatRecord.Model, chatRecord.Temperature, func(delta llm.StreamDelta) error {
		receiving.Content = delta.Apply(receiving.Content)
		return s.messageRepo.Update(ctx, receiving)
	})

	if streamErr != nil {
		s.logger.Error("stream failed", "chat_id", chatRecord.ID, "message_id", receiving.ID, "error", streamErr)
		s.failReceiving(ctx, receiving, llm.FailedReasonOf(streamErr))
		return
	}

	receiving.Receiving = false
	if err := s.messageRepo.Update(ctx, receiving); err != nil {
		s.logger.Error("finalizing message failed", "message_id", receiving.ID, "error", err)
		return
	}
	_ = s.chatRepo.TouchUpdatedAt(ctx, chatRecord.ID)

	s.logger.Info("stream completed", "chat_id", chatRecord.ID,
		"message_id", receiving.ID, "content_length", len(receiving.Content))
}

// failReceiving parks the message in its terminal failed state: no content,
// not receiving, reason persisted for inline display and later retry. It
// uses its own context since the stream's one may already be expired.
func (s *Service) failReceiving(_ context.Context, receiving *domain.Message, reason domain.FailedReason) {
	ctx, cancel := context.WithTimeout(context.Background(), dbSaveTimeout)
	defer cancel()

	receiving.Content = ""
	receiving.Receiving = false
	receiving.FailedReason = reason
	if err := s.messageRepo.Update(ctx, receiving); err != nil {
		s.logger.Error("persisting failure state failed", "message_id", receiving.ID, "error", err)
	}
}
