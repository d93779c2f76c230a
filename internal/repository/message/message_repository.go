// File: internal/repository/message/message_repository.go
package message

import (
	"context"
	"errors"
	"log"

	"github.com/lightchat/lightchat/internal/domain"
	"gorm.io/gorm"
)

var ErrMessageNotFound = errors.New("message not found")

type gormMessageRepository struct {
	db *gorm.DB
}

func NewMessageRepository(db *gorm.DB) MessageRepository {
	return &gormMessageRepository{db: db}
}

func (r *gormMessageRepository) Create(ctx context.Context, message *domain.Message) (*domain.Message, error) {
	if err := r.validateMessageInput(message); err != nil {
		log.Printf("[MessageRepository] Validation failed: %v", err)
		return nil, err
	}

	if err := r.db.WithContext(ctx).Create(message).Error; err != nil {
		log.Printf("[MessageRepository] Database error during message creation for chat ID %d: %v", message.ChatID, err)
		return nil, errors.New("database error creating message")
	}

	return message, nil
}

func (r *gormMessageRepository) CreateInBatch(ctx context.Context, messages []*domain.Message) error {
	if len(messages) == 0 {
		return errors.New("no messages to create")
	}
	for _, m := range messages {
		if err := r.validateMessageInput(m); err != nil {
			return err
		}
	}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, m := range messages {
			if err := tx.Create(m).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		log.Printf("[MessageRepository] Database error during batch creation for chat ID %d: %v", messages[0].ChatID, err)
		return errors.New("database error creating messages")
	}
	return nil
}

func (r *gormMessageRepository) FindByID(ctx context.Context, messageID uint) (*domain.Message, error) {
	if messageID == 0 {
		return nil, errors.New("invalid message ID")
	}

	var message domain.Message
	err := r.db.WithContext(ctx).First(&message, messageID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrMessageNotFound
	}
	if err != nil {
		log.Printf("[MessageRepository] Database error finding message ID %d: %v", messageID, err)
		return nil, errors.New("database error fetching message")
	}
	return &message, nil
}

// FindByChatID returns the chat's messages in insertion order. Context
// assembly depends on this ordering.
func (r *gormMessageRepository) FindByChatID(ctx context.Context, chatID uint) ([]domain.Message, error) {
	if chatID == 0 {
		return nil, errors.New("invalid chat ID")
	}

	var messages []domain.Message
	err := r.db.WithContext(ctx).
		Where("chat_id = ?", chatID).
		Order("created_at asc, id asc").
		Find(&messages).Error
	if err != nil {
		log.Printf("[MessageRepository] Database error finding messages for chat ID %d: %v", chatID, err)
		return nil, errors.New("database error fetching messages")
	}
	return messages, nil
}

func (r *gormMessageRepository) Update(ctx context.Context, message *domain.Message) error {
	if message.ID == 0 {
		return errors.New("invalid message ID")
	}

	result := r.db.WithContext(ctx).Save(message)
	if result.Error != nil {
		log.Printf("[MessageRepository] Database error updating message ID %d: %v", message.ID, result.Error)
		return errors.New("database error updating message")
	}
	if result.RowsAffected == 0 {
		return ErrMessageNotFound
	}
	return nil
}

func (r *gormMessageRepository) Delete(ctx context.Context, messageID, chatID uint) error {
	if messageID == 0 || chatID == 0 {
		return errors.New("invalid message or chat ID")
	}

	result := r.db.WithContext(ctx).
		Where("id = ? AND chat_id = ?", messageID, chatID).
		Delete(&domain.Message{})
	if result.Error != nil {
		log.Printf("[MessageRepository] Database error deleting message ID %d: %v", messageID, result.Error)
		return errors.New("database error deleting message")
	}
	if result.RowsAffected == 0 {
		return ErrMessageNotFound
	}
	return nil
}

func (r *gormMessageRepository) DeleteByChatID(ctx context.Context, chatID uint) error {
	if chatID == 0 {
		return errors.New("invalid chat ID")
	}

	err := r.db.WithContext(ctx).
		Where("chat_id = ?", chatID).
		Delete(&domain.Message{}).Error
	if err != nil {
		log.Printf("[MessageRepository] Database error deleting messages for chat ID %d: %v", chatID, err)
		return errors.New("database error deleting messages")
	}
	return nil
}

func (r *gormMessageRepository) CountByChatID(ctx context.Context, chatID uint) (int64, error) {
	if chatID == 0 {
		return 0, errors.New("invalid chat ID")
	}

	var count int64
	err := r.db.WithContext(ctx).
		Model(&domain.Message{}).
		Where("chat_id = ?", chatID).
		Count(&count).Error
	if err != nil {
		log.Printf("[MessageRepository] Database error counting messages for chat ID %d: %v", chatID, err)
		return 0, errors.New("database error counting messages")
	}
	return count, nil
}

func (r *gormMessageRepository) HasReceiving(ctx context.Context, chatID uint) (bool, error) {
	if chatID == 0 {
		return false, errors.New("invalid chat ID")
	}

	var count int64
	err := r.db.WithContext(ctx).
		Model(&domain.Message{}).
		Where("chat_id = ? AND receiving = ?", chatID, true).
		Count(&count).Error
	if err != nil {
		log.Printf("[MessageRepository] Database error checking receiving state for chat ID %d: %v", chatID, err)
		return false, errors.New("database error checking receiving state")
	}
	return count > 0, nil
}

func (r *gormMessageRepository) validateMessageInput(message *domain.Message) error {
	if message == nil {
		return errors.New("message cannot be nil")
	}
	if message.ChatID == 0 {
		return errors.New("message must belong to a chat")
	}
	switch message.Role {
	case domain.RoleSystem, domain.RoleUser, domain.RoleAssistant:
	default:
		return errors.New("invalid message role")
	}
	return nil
}
