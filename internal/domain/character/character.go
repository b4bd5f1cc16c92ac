package character

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Character is the persona definition conversations and memory facts hang
// off. Personality/traits/skills are stored as JSON string lists; the
// response composer reads them, this core only persists them.
type Character struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	CreatorID uuid.UUID `gorm:"type:uuid;not null;index;column:creator_id" json:"creator_id"`

	Name        string `gorm:"not null;column:name" json:"name"`
	Avatar      string `gorm:"column:avatar" json:"avatar"`
	Description string `gorm:"column:description" json:"description"`

	Personality datatypes.JSON `gorm:"column:personality" json:"personality,omitempty"`
	Traits      datatypes.JSON `gorm:"column:traits" json:"traits,omitempty"`
	Skills      datatypes.JSON `gorm:"column:skills" json:"skills,omitempty"`

	IsPublic bool `gorm:"not null;default:true;column:is_public" json:"is_public"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

func (Character) TableName() string { return "character" }
