package entities

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

type (
	User struct {
		ID        uuid.UUID      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
		UserID    int64          `gorm:"uniqueIndex;not null" json:"user_id"`
		Username  *string        `gorm:"size:255;index" json:"username"`
		Fullname  *string        `gorm:"size:255" json:"fullname"`
		Rights    pq.StringArray `gorm:"type:text[];not null;default:ARRAY[]::text[]" json:"rights"`
		IsActive  *bool          `gorm:"not null;default:true" json:"is_active"`
		Language  *string        `gorm:"size:8" json:"language"`
		CreatedAt time.Time      `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	}

	Chat struct {
		ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
		ChatID    int64     `gorm:"uniqueIndex;not null" json:"chat_id"`
		Title     *string   `gorm:"size:255" json:"title"`
		OwnerID   int64     `gorm:"not null;default:0" json:"owner_id"`
		CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	}

	// Setting is one key of an owner's settings mapping. The value column
	// holds the JSON encoding of a scalar, list or nested object, so the
	// mapping stays schema-free while writes remain atomic per key.
	Setting struct {
		ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
		OwnerID   int64     `gorm:"not null;uniqueIndex:idx_warden_settings_owner_key" json:"owner_id"`
		Key       string    `gorm:"size:255;not null;uniqueIndex:idx_warden_settings_owner_key" json:"key"`
		Value     string    `gorm:"type:json;not null" json:"value"`
		UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
	}
)

func (User) TableName() string    { return "warden_users" }
func (Chat) TableName() string    { return "warden_chats" }
func (Setting) TableName() string { return "warden_settings" }
