package chat

import (
	"time"

	"github.com/google/uuid"
)

// Branch is a named node in a tree rooted at a conversation. ParentID is
// navigational only (nil = root); ownership always runs through
// ConversationID. Parent linkage is a plain optional id, never a pointer
// graph, so cycle validation is a bounded ancestor walk.
type Branch struct {
	ID             uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	ConversationID uuid.UUID  `gorm:"type:uuid;not null;index;column:conversation_id" json:"conversation_id"`
	Name           string     `gorm:"not null;column:name" json:"name"`
	ParentID       *uuid.UUID `gorm:"type:uuid;index;column:parent_id" json:"parent_id,omitempty"`

	CreatedAt time.Time `gorm:"not null;index" json:"created_at"`
}

func (Branch) TableName() string { return "branch" }
