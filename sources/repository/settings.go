package repository

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"chatwarden/sources/persistence/entities"
	"chatwarden/sources/platform"
	"chatwarden/sources/tracing"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var ErrSettingNotFound = errors.New("setting not found")

// Alias maps live under these keys of the owner's settings mapping.
const (
	StickerAliasKey = "sticker_alias"
	TextAliasKey    = "text_alias"
)

// SettingsRepository is the opaque per-owner key→value mapping behind menus
// and aliases. Values are JSON-encoded per key, so writes stay atomic at
// key granularity and the mapping needs no fixed schema.
type SettingsRepository struct {
	db *gorm.DB
}

func NewSettingsRepository(db *gorm.DB) *SettingsRepository {
	return &SettingsRepository{db: db}
}

func (x *SettingsRepository) GetAll(logger *tracing.Logger, ownerID int64) (map[string]any, error) {
	defer tracing.ProfilePoint(logger, "Settings get all completed", "repository.settings.get.all", tracing.SettingsOwner, ownerID)()
	ctx, cancel := platform.ContextTimeoutVal(context.Background(), 20*time.Second)
	defer cancel()

	var rows []entities.Setting
	if err := x.db.WithContext(ctx).Where("owner_id = ?", ownerID).Find(&rows).Error; err != nil {
		logger.E("Failed to load settings", tracing.InnerError, err)
		return nil, err
	}

	values := make(map[string]any, len(rows))
	for _, row := range rows {
		var value any
		if err := json.Unmarshal([]byte(row.Value), &value); err != nil {
			logger.E("Failed to decode setting value", tracing.SettingsKey, row.Key, tracing.InnerError, err)
			return nil, err
		}
		values[row.Key] = value
	}
	return values, nil
}

func (x *SettingsRepository) Get(logger *tracing.Logger, ownerID int64, key string) (any, error) {
	defer tracing.ProfilePoint(logger, "Settings get completed", "repository.settings.get", tracing.SettingsOwner, ownerID, tracing.SettingsKey, key)()
	ctx, cancel := platform.ContextTimeoutVal(context.Background(), 20*time.Second)
	defer cancel()

	var row entities.Setting
	err := x.db.WithContext(ctx).Where("owner_id = ? AND key = ?", ownerID, key).First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSettingNotFound
		}
		logger.E("Failed to load setting", tracing.InnerError, err)
		return nil, err
	}

	var value any
	if err := json.Unmarshal([]byte(row.Value), &value); err != nil {
		logger.E("Failed to decode setting value", tracing.SettingsKey, key, tracing.InnerError, err)
		return nil, err
	}
	return value, nil
}

func (x *SettingsRepository) Set(logger *tracing.Logger, ownerID int64, key string, value any) error {
	defer tracing.ProfilePoint(logger, "Settings set completed", "repository.settings.set", tracing.SettingsOwner, ownerID, tracing.SettingsKey, key)()
	ctx, cancel := platform.ContextTimeoutVal(context.Background(), 20*time.Second)
	defer cancel()

	encoded, err := json.Marshal(value)
	if err != nil {
		logger.E("Failed to encode setting value", tracing.SettingsKey, key, tracing.InnerError, err)
		return err
	}

	row := &entities.Setting{
		OwnerID:   ownerID,
		Key:       key,
		Value:     string(encoded),
		UpdatedAt: time.Now(),
	}

	err = x.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "owner_id"}, {Name: "key"}},
			DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
		}).
		Create(row).Error
	if err != nil {
		logger.E("Failed to persist setting", tracing.InnerError, err)
		return err
	}

	logger.I("Setting persisted", tracing.SettingsOwner, ownerID, tracing.SettingsKey, key)
	return nil
}

func (x *SettingsRepository) Delete(logger *tracing.Logger, ownerID int64, key string) error {
	defer tracing.ProfilePoint(logger, "Settings delete completed", "repository.settings.delete", tracing.SettingsOwner, ownerID, tracing.SettingsKey, key)()
	ctx, cancel := platform.ContextTimeoutVal(context.Background(), 20*time.Second)
	defer cancel()

	err := x.db.WithContext(ctx).Where("owner_id = ? AND key = ?", ownerID, key).Delete(&entities.Setting{}).Error
	if err != nil {
		logger.E("Failed to delete setting", tracing.InnerError, err)
		return err
	}
	return nil
}

// SetAliasEntry writes one alias into the map stored under mapKey
// ("sticker_alias" or "text_alias").
func (x *SettingsRepository) SetAliasEntry(logger *tracing.Logger, ownerID int64, mapKey, alias, verb string) error {
	mapping, err := x.aliasMap(logger, ownerID, mapKey)
	if err != nil {
		return err
	}
	mapping[alias] = verb
	return x.Set(logger, ownerID, mapKey, mapping)
}

// DeleteAliasEntry removes one alias from the map stored under mapKey.
func (x *SettingsRepository) DeleteAliasEntry(logger *tracing.Logger, ownerID int64, mapKey, alias string) error {
	mapping, err := x.aliasMap(logger, ownerID, mapKey)
	if err != nil {
		return err
	}
	delete(mapping, alias)
	return x.Set(logger, ownerID, mapKey, mapping)
}

// ResolveAlias looks up the verb bound to alias, if any.
func (x *SettingsRepository) ResolveAlias(logger *tracing.Logger, ownerID int64, mapKey, alias string) (string, bool) {
	mapping, err := x.aliasMap(logger, ownerID, mapKey)
	if err != nil {
		return "", false
	}
	verb, ok := mapping[alias].(string)
	return verb, ok
}

func (x *SettingsRepository) aliasMap(logger *tracing.Logger, ownerID int64, mapKey string) (map[string]any, error) {
	value, err := x.Get(logger, ownerID, mapKey)
	if errors.Is(err, ErrSettingNotFound) {
		return map[string]any{}, nil
	}
	if err != nil {
		return nil, err
	}
	mapping, ok := value.(map[string]any)
	if !ok {
		return map[string]any{}, nil
	}
	return mapping, nil
}
