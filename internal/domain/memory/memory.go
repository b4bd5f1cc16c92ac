package memory

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	PriorityHigh   = "high"
	PriorityMedium = "medium"
	PriorityLow    = "low"
)

// ValidPriority reports whether p is one of the three known levels.
func ValidPriority(p string) bool {
	switch strings.ToLower(strings.TrimSpace(p)) {
	case PriorityHigh, PriorityMedium, PriorityLow:
		return true
	}
	return false
}

// Fact is one discrete remembered piece of context about a character.
// Duplicate content is allowed; facts never auto-expire. Ownership runs
// through the character's creator.
type Fact struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	CharacterID uuid.UUID `gorm:"type:uuid;not null;index;column:character_id" json:"character_id"`

	Content  string `gorm:"not null;column:content" json:"content"`
	Priority string `gorm:"not null;default:'medium';column:priority" json:"priority"`

	CreatedAt time.Time `gorm:"not null;index" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

func (Fact) TableName() string { return "memory_fact" }
