package repository

import (
	"context"
	"time"

	"chatwarden/sources/persistence/entities"
	"chatwarden/sources/platform"
	"chatwarden/sources/tracing"

	"github.com/lib/pq"
	"gorm.io/gorm"
)

const (
	RightModerate     = "moderate"
	RightManageRights = "manage_rights"
)

type RightsRepository struct {
	db *gorm.DB
}

func NewRightsRepository(db *gorm.DB) *RightsRepository {
	return &RightsRepository{db: db}
}

func (x *RightsRepository) IsUserHasRight(logger *tracing.Logger, user *entities.User, right string) bool {
	for _, r := range user.Rights {
		if r == right {
			return true
		}
	}
	return false
}

func (x *RightsRepository) GrantRight(logger *tracing.Logger, user *entities.User, right string) error {
	defer tracing.ProfilePoint(logger, "Rights grant completed", "repository.rights.grant", tracing.UserId, user.UserID, "right", right)()

	if x.IsUserHasRight(logger, user, right) {
		return nil
	}
	return x.saveRights(logger, user, append(user.Rights, right))
}

func (x *RightsRepository) RevokeRight(logger *tracing.Logger, user *entities.User, right string) error {
	defer tracing.ProfilePoint(logger, "Rights revoke completed", "repository.rights.revoke", tracing.UserId, user.UserID, "right", right)()

	remaining := make(pq.StringArray, 0, len(user.Rights))
	for _, r := range user.Rights {
		if r != right {
			remaining = append(remaining, r)
		}
	}
	return x.saveRights(logger, user, remaining)
}

func (x *RightsRepository) saveRights(logger *tracing.Logger, user *entities.User, rights pq.StringArray) error {
	ctx, cancel := platform.ContextTimeoutVal(context.Background(), 20*time.Second)
	defer cancel()

	err := x.db.WithContext(ctx).
		Model(&entities.User{}).
		Where("user_id = ?", user.UserID).
		Update("rights", rights).Error
	if err != nil {
		logger.E("Failed to save user rights", tracing.InnerError, err)
		return err
	}

	user.Rights = rights
	return nil
}
