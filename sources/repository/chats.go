package repository

import (
	"context"
	"time"

	"chatwarden/sources/persistence/entities"
	"chatwarden/sources/platform"
	"chatwarden/sources/tracing"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ChatsRepository struct {
	db *gorm.DB
}

func NewChatsRepository(db *gorm.DB) *ChatsRepository {
	return &ChatsRepository{db: db}
}

func (x *ChatsRepository) UpsertChat(logger *tracing.Logger, ecid int64, title *string, ownerID int64) (*entities.Chat, error) {
	defer tracing.ProfilePoint(logger, "Chats upsert completed", "repository.chats.upsert", tracing.ChatId, ecid)()
	ctx, cancel := platform.ContextTimeoutVal(context.Background(), 20*time.Second)
	defer cancel()

	chat := &entities.Chat{
		ChatID:  ecid,
		Title:   title,
		OwnerID: ownerID,
	}

	err := x.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "chat_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"title"}),
		}).
		Create(chat).Error
	if err != nil {
		logger.E("Failed to upsert chat", tracing.InnerError, err)
		return nil, err
	}

	var stored entities.Chat
	if err := x.db.WithContext(ctx).Where("chat_id = ?", ecid).First(&stored).Error; err != nil {
		logger.E("Failed to get chat", tracing.InnerError, err)
		return nil, err
	}
	return &stored, nil
}
