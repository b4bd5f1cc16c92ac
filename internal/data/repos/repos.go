package repos

import (
	"gorm.io/gorm"

	"github.com/talekeep/talekeep-backend/internal/data/repos/character"
	"github.com/talekeep/talekeep-backend/internal/data/repos/chat"
	"github.com/talekeep/talekeep-backend/internal/data/repos/memory"
	"github.com/talekeep/talekeep-backend/internal/data/repos/user"
	"github.com/talekeep/talekeep-backend/internal/pkg/logger"
)

type UserRepo = user.UserRepo
type CharacterRepo = character.CharacterRepo

type ConversationRepo = chat.ConversationRepo
type ConversationSummary = chat.ConversationSummary
type BranchRepo = chat.BranchRepo
type MessageRepo = chat.MessageRepo

type MemoryFactRepo = memory.FactRepo
type FactWithCharacter = memory.FactWithCharacter

func NewUserRepo(db *gorm.DB, baseLog *logger.Logger) UserRepo {
	return user.NewUserRepo(db, baseLog)
}
func NewCharacterRepo(db *gorm.DB, baseLog *logger.Logger) CharacterRepo {
	return character.NewCharacterRepo(db, baseLog)
}
func NewConversationRepo(db *gorm.DB, baseLog *logger.Logger) ConversationRepo {
	return chat.NewConversationRepo(db, baseLog)
}
func NewBranchRepo(db *gorm.DB, baseLog *logger.Logger) BranchRepo {
	return chat.NewBranchRepo(db, baseLog)
}
func NewMessageRepo(db *gorm.DB, baseLog *logger.Logger) MessageRepo {
	return chat.NewMessageRepo(db, baseLog)
}
func NewMemoryFactRepo(db *gorm.DB, baseLog *logger.Logger) MemoryFactRepo {
	return memory.NewFactRepo(db, baseLog)
}
