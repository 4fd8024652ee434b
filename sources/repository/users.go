package repository

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"chatwarden/sources/moderation"
	"chatwarden/sources/persistence/entities"
	"chatwarden/sources/platform"
	"chatwarden/sources/tracing"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	ErrUserNotFound    = errors.New("user not found")
	ErrInvalidUsername = errors.New("invalid username")
)

type UsersRepository struct {
	db *gorm.DB
}

func NewUsersRepository(db *gorm.DB) *UsersRepository {
	return &UsersRepository{db: db}
}

func (x *UsersRepository) UpsertUser(logger *tracing.Logger, euid int64, uname *string, ufullname *string) (*entities.User, error) {
	defer tracing.ProfilePoint(logger, "Users upsert completed", "repository.users.upsert", tracing.UserId, euid)()
	ctx, cancel := platform.ContextTimeoutVal(context.Background(), 20*time.Second)
	defer cancel()

	user := &entities.User{
		UserID:   euid,
		Username: uname,
		Fullname: ufullname,
		IsActive: platform.BoolPtr(true),
	}

	err := x.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"username", "fullname"}),
		}).
		Create(user).Error
	if err != nil {
		logger.E("Failed to upsert user", tracing.InnerError, err)
		return nil, err
	}

	return x.GetUserByEid(logger, euid)
}

func (x *UsersRepository) GetUserByEid(logger *tracing.Logger, euid int64) (*entities.User, error) {
	defer tracing.ProfilePoint(logger, "Users get by eid completed", "repository.users.get.by.eid", tracing.UserId, euid)()
	ctx, cancel := platform.ContextTimeoutVal(context.Background(), 20*time.Second)
	defer cancel()

	var user entities.User
	err := x.db.WithContext(ctx).Where("user_id = ?", euid).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logger.W("User not found when expected")
			return nil, ErrUserNotFound
		}
		logger.E("Failed to get user", tracing.InnerError, err)
		return nil, err
	}

	return &user, nil
}

func (x *UsersRepository) GetUserByName(logger *tracing.Logger, uname string) (*entities.User, error) {
	defer tracing.ProfilePoint(logger, "Users get by name completed", "repository.users.get.by.name", tracing.UserName, uname)()
	ctx, cancel := platform.ContextTimeoutVal(context.Background(), 20*time.Second)
	defer cancel()

	uname = strings.TrimSpace(strings.TrimPrefix(uname, "@"))
	if uname == "" {
		return nil, ErrInvalidUsername
	}

	var user entities.User
	err := x.db.WithContext(ctx).Where("username = ?", uname).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logger.W("User not found when expected")
			return nil, ErrUserNotFound
		}
		logger.E("Failed to get user", tracing.InnerError, err)
		return nil, err
	}

	return &user, nil
}

func (x *UsersRepository) SetLanguage(logger *tracing.Logger, euid int64, language string) error {
	defer tracing.ProfilePoint(logger, "Users set language completed", "repository.users.set.language", tracing.UserId, euid)()
	ctx, cancel := platform.ContextTimeoutVal(context.Background(), 20*time.Second)
	defer cancel()

	err := x.db.WithContext(ctx).
		Model(&entities.User{}).
		Where("user_id = ?", euid).
		Update("language", language).Error
	if err != nil {
		logger.E("Failed to set user language", tracing.InnerError, err)
		return err
	}
	return nil
}

// ByRef resolves a text-scanned target reference, either an @handle or a
// bare numeric id. Implements moderation.ActorLookup.
func (x *UsersRepository) ByRef(logger *tracing.Logger, ref string) (*moderation.Actor, error) {
	if strings.HasPrefix(ref, "@") {
		user, err := x.GetUserByName(logger, ref)
		if err != nil {
			return nil, err
		}
		return actorOf(user), nil
	}

	euid, err := strconv.ParseInt(ref, 10, 64)
	if err != nil {
		return nil, ErrUserNotFound
	}
	return x.ByID(logger, euid)
}

// ByID resolves a platform user id. Implements moderation.ActorLookup.
func (x *UsersRepository) ByID(logger *tracing.Logger, euid int64) (*moderation.Actor, error) {
	user, err := x.GetUserByEid(logger, euid)
	if err != nil {
		return nil, err
	}
	return actorOf(user), nil
}

func actorOf(user *entities.User) *moderation.Actor {
	actor := &moderation.Actor{
		ID:       user.UserID,
		Username: platform.StringValue(user.Username, ""),
	}
	if actor.Username != "" {
		actor.Link = "@" + actor.Username
	} else {
		actor.Link = fmt.Sprintf("tg://user?id=%d", user.UserID)
	}
	return actor
}
