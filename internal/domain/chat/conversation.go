package chat

import (
	"time"

	"github.com/google/uuid"
)

// Conversation ties one user to one character. At most one default
// conversation exists per (user, character); the partial unique index
// below is what makes find-or-create race-tolerant.
type Conversation struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID      uuid.UUID `gorm:"type:uuid;not null;index;uniqueIndex:uniq_default_conversation,where:is_default;column:user_id" json:"user_id"`
	CharacterID uuid.UUID `gorm:"type:uuid;not null;index;uniqueIndex:uniq_default_conversation,where:is_default;column:character_id" json:"character_id"`

	Title      string `gorm:"column:title" json:"title"`
	IsArchived bool   `gorm:"not null;default:false;column:is_archived" json:"is_archived"`
	IsDefault  bool   `gorm:"not null;default:false;column:is_default" json:"is_default"`

	CreatedAt time.Time `gorm:"not null;index" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;index" json:"updated_at"`
}

func (Conversation) TableName() string { return "conversation" }
