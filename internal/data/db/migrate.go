package db

import (
	"gorm.io/gorm"

	types "github.com/talekeep/talekeep-backend/internal/domain"
)

func AutoMigrateAll(db *gorm.DB) error {
	return db.AutoMigrate(
		// Identity anchors
		&types.User{},
		&types.Character{},

		// Conversation tree
		&types.Conversation{},
		&types.Branch{},
		&types.Message{},

		// Long-term memory
		&types.MemoryFact{},
	)
}
