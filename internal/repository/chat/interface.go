// File: internal/repository/chat/interface.go
package chat

import (
	"context"

	"github.com/lightchat/lightchat/internal/domain"
)

type ChatRepository interface {
	Create(ctx context.Context, chat *domain.Chat) (*domain.Chat, error)
	FindByID(ctx context.Context, chatID uint) (*domain.Chat, error)
	FindByUserID(ctx context.Context, userID uint) ([]domain.Chat, error)
	Update(ctx context.Context, chat *domain.Chat) error
	Delete(ctx context.Context, chatID uint) error
	TouchUpdatedAt(ctx context.Context, chatID uint) error
}
