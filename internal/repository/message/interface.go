// File: internal/repository/message/interface.go
package message

import (
	"context"

	"github.com/lightchat/lightchat/internal/domain"
)

type MessageRepository interface {
	Create(ctx context.Context, message *domain.Message) (*domain.Message, error)

	// CreateInBatch persists the given messages in one transaction. The
	// orchestrator uses it to create the outbound user turn and the
	// receiving placeholder as a single unit, so a crash mid-stream
	// leaves a recoverable pair rather than a lost request.
	CreateInBatch(ctx context.Context, messages []*domain.Message) error

	FindByID(ctx context.Context, messageID uint) (*domain.Message, error)
	FindByChatID(ctx context.Context, chatID uint) ([]domain.Message, error)
	Update(ctx context.Context, message *domain.Message) error
	Delete(ctx context.Context, messageID, chatID uint) error
	DeleteByChatID(ctx context.Context, chatID uint) error
	CountByChatID(ctx context.Context, chatID uint) (int64, error)

	// HasReceiving reports whether the chat has a streaming response in
	// flight.
	HasReceiving(ctx context.Context, chatID uint) (bool, error)
}
