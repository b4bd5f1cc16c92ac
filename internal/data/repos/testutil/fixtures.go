package testutil

import (
	"fmt"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/talekeep/talekeep-backend/internal/domain"
)

// Fixture helpers insert rows directly so repo and service tests do not
// depend on the code paths they exercise. Every row gets fresh uuids, so
// tests can share one database without cleanup.

func SeedUser(t *testing.T, db *gorm.DB) *types.User {
	t.Helper()
	u := &types.User{
		ID:       uuid.New(),
		Email:    fmt.Sprintf("%s@test.local", uuid.NewString()[:8]),
		Username: "tester-" + uuid.NewString()[:8],
	}
	if err := db.Create(u).Error; err != nil {
		t.Fatalf("seed user: %v", err)
	}
	return u
}

func SeedCharacter(t *testing.T, db *gorm.DB, creatorID uuid.UUID) *types.Character {
	t.Helper()
	ch := &types.Character{
		ID:        uuid.New(),
		CreatorID: creatorID,
		Name:      "character-" + uuid.NewString()[:8],
	}
	if err := db.Create(ch).Error; err != nil {
		t.Fatalf("seed character: %v", err)
	}
	return ch
}

func SeedConversation(t *testing.T, db *gorm.DB, userID, characterID uuid.UUID) *types.Conversation {
	t.Helper()
	conv := &types.Conversation{
		ID:          uuid.New(),
		UserID:      userID,
		CharacterID: characterID,
		Title:       "conversation-" + uuid.NewString()[:8],
	}
	if err := db.Create(conv).Error; err != nil {
		t.Fatalf("seed conversation: %v", err)
	}
	return conv
}

func SeedBranch(t *testing.T, db *gorm.DB, conversationID uuid.UUID, parentID *uuid.UUID) *types.Branch {
	t.Helper()
	b := &types.Branch{
		ID:             uuid.New(),
		ConversationID: conversationID,
		Name:           "branch-" + uuid.NewString()[:8],
		ParentID:       parentID,
	}
	if err := db.Create(b).Error; err != nil {
		t.Fatalf("seed branch: %v", err)
	}
	return b
}

func SeedMessage(t *testing.T, db *gorm.DB, conversationID uuid.UUID, branchID *uuid.UUID, seq int64, sender, content string) *types.Message {
	t.Helper()
	m := &types.Message{
		ID:             uuid.New(),
		ConversationID: conversationID,
		BranchID:       branchID,
		Seq:            seq,
		Sender:         sender,
		Content:        content,
	}
	if err := db.Create(m).Error; err != nil {
		t.Fatalf("seed message: %v", err)
	}
	return m
}

func SeedFact(t *testing.T, db *gorm.DB, characterID uuid.UUID, content, priority string) *types.MemoryFact {
	t.Helper()
	f := &types.MemoryFact{
		ID:          uuid.New(),
		CharacterID: characterID,
		Content:     content,
		Priority:    priority,
	}
	if err := db.Create(f).Error; err != nil {
		t.Fatalf("seed fact: %v", err)
	}
	return f
}
