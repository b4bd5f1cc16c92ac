package domain

import (
	"github.com/talekeep/talekeep-backend/internal/domain/character"
	"github.com/talekeep/talekeep-backend/internal/domain/chat"
	"github.com/talekeep/talekeep-backend/internal/domain/memory"
	"github.com/talekeep/talekeep-backend/internal/domain/user"
)

type User = user.User
type Character = character.Character
type Conversation = chat.Conversation
type Branch = chat.Branch
type Message = chat.Message
type MemoryFact = memory.Fact

const (
	SenderUser      = chat.SenderUser
	SenderAssistant = chat.SenderAssistant

	PriorityHigh   = memory.PriorityHigh
	PriorityMedium = memory.PriorityMedium
	PriorityLow    = memory.PriorityLow
)

// ValidPriority reports whether p is one of the three known levels.
var ValidPriority = memory.ValidPriority
