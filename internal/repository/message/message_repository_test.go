// File: internal/repository/message/message_repository_test.go
package message

import (
	"context"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/lightchat/lightchat/internal/domain"
)

func newTestRepo(t *testing.T) MessageRepository {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.AutoMigrate(&domain.Message{}))
	return NewMessageRepository(db)
}

func TestCreateAndFindByID(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	created, err := repo.Create(ctx, &domain.Message{
		ChatID: 1, Role: domain.RoleUser, Content: "hello",
	})
	require.NoError(t, err)
	require.NotZero(t, created.ID)

	found, err := repo.FindByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "hello", found.Content)
	assert.Equal(t, domain.RoleUser, found.Role)
}

func TestCreateRejectsInvalidInput(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	_, err := repo.Create(ctx, &domain.Message{ChatID: 0, Role: domain.RoleUser})
	assert.Error(t, err)

	_, err = repo.Create(ctx, &domain.Message{ChatID: 1, Role: "moderator"})
	assert.Error(t, err)

	_, err = repo.Create(ctx, nil)
	assert.Error(t, err)
}

func TestFindByChatIDReturnsInsertionOrder(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	for _, content := range []string{"first", "second", "third"} {
		_, err := repo.Create(ctx, &domain.Message{
			ChatID: 1, Role: domain.RoleUser, Content: content,
		})
		require.NoError(t, err)
	}
	_, err := repo.Create(ctx, &domain.Message{
		ChatID: 2, Role: domain.RoleUser, Content: "other chat",
	})
	require.NoError(t, err)

	msgs, err := repo.FindByChatID(ctx, 1)
	require.NoError(t, err)
	require.Len(t, msgs, 3)
	assert.Equal(t, "first", msgs[0].Content)
	assert.Equal(t, "second", msgs[1].Content)
	assert.Equal(t, "third", msgs[2].Content)
}

func TestCreateInBatchIsAtomic(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	pair := []*domain.Message{
		{ChatID: 1, Role: domain.RoleUser, Content: "question"},
		{ChatID: 1, Role: domain.RoleAssistant, Receiving: true},
	}
	require.NoError(t, repo.CreateInBatch(ctx, pair))
	assert.NotZero(t, pair[0].ID)
	assert.NotZero(t, pair[1].ID)

	// Validation failure of any element rejects the whole batch.
	err := repo.CreateInBatch(ctx, []*domain.Message{
		{ChatID: 1, Role: domain.RoleUser, Content: "ok"},
		{ChatID: 0, Role: domain.RoleAssistant},
	})
	require.Error(t, err)

	count, err := repo.CountByChatID(ctx, 1)
	require.NoError(t, err)
	assert.EqualValues(t, 2, count)

	assert.Error(t, repo.CreateInBatch(ctx, nil))
}

func TestHasReceiving(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	receiving, err := repo.HasReceiving(ctx, 1)
	require.NoError(t, err)
	assert.False(t, receiving)

	placeholder, err := repo.Create(ctx, &domain.Message{
		ChatID: 1, Role: domain.RoleAssistant, Receiving: true,
	})
	require.NoError(t, err)

	receiving, err = repo.HasReceiving(ctx, 1)
	require.NoError(t, err)
	assert.True(t, receiving)

	placeholder.Receiving = false
	require.NoError(t, repo.Update(ctx, placeholder))

	receiving, err = repo.HasReceiving(ctx, 1)
	require.NoError(t, err)
	assert.False(t, receiving)
}

func TestUpdatePersistsLifecycleFields(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	msg, err := repo.Create(ctx, &domain.Message{
		ChatID: 1, Role: domain.RoleAssistant, Receiving: true,
	})
	require.NoError(t, err)

	msg.Content = "streamed text"
	msg.Receiving = false
	msg.FailedReason = domain.FailedReasonNone
	require.NoError(t, repo.Update(ctx, msg))

	found, err := repo.FindByID(ctx, msg.ID)
	require.NoError(t, err)
	assert.Equal(t, "streamed text", found.Content)
	assert.False(t, found.Receiving)
}

func TestDeleteScopedToChat(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	msg, err := repo.Create(ctx, &domain.Message{
		ChatID: 1, Role: domain.RoleUser, Content: "hello",
	})
	require.NoError(t, err)

	// Wrong chat scope deletes nothing.
	assert.ErrorIs(t, repo.Delete(ctx, msg.ID, 2), ErrMessageNotFound)

	require.NoError(t, repo.Delete(ctx, msg.ID, 1))
	_, err = repo.FindByID(ctx, msg.ID)
	assert.ErrorIs(t, err, ErrMessageNotFound)
}

func TestDeleteByChatID(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, err := repo.Create(ctx, &domain.Message{
			ChatID: 1, Role: domain.RoleUser, Content: "msg",
		})
		require.NoError(t, err)
	}
	_, err := repo.Create(ctx, &domain.Message{
		ChatID: 2, Role: domain.RoleUser, Content: "kept",
	})
	require.NoError(t, err)

	require.NoError(t, repo.DeleteByChatID(ctx, 1))

	count, err := repo.CountByChatID(ctx, 1)
	require.NoError(t, err)
	assert.Zero(t, count)

	count, err = repo.CountByChatID(ctx, 2)
	require.NoError(t, err)
	assert.EqualValues(t, 1, count)
}

func TestFindByIDNotFound(t *testing.T) {
	repo := newTestRepo(t)

	_, err := repo.FindByID(context.Background(), 42)
	assert.ErrorIs(t, err, ErrMessageNotFound)

	_, err = repo.FindByID(context.Background(), 0)
	assert.Error(t, err)
}
