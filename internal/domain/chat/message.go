package chat

import (
	"time"

	"github.com/google/uuid"
)

const (
	SenderUser      = "user"
	SenderAssistant = "assistant"
)

// Message is one turn. BranchID nil means the unbranched root timeline.
// Seq is a monotonic per-branch (or per-root-timeline) sequence allocated
// under the conversation row lock; intra-branch ordering is always by seq,
// never by wall clock, so merges stay deterministic.
type Message struct {
	ID             uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	ConversationID uuid.UUID  `gorm:"type:uuid;not null;index;column:conversation_id" json:"conversation_id"`
	BranchID       *uuid.UUID `gorm:"type:uuid;index:idx_message_branch_seq;column:branch_id" json:"branch_id,omitempty"`
	Seq            int64      `gorm:"not null;index:idx_message_branch_seq;column:seq" json:"seq"`

	Sender  string `gorm:"not null;column:sender" json:"sender"`
	Content string `gorm:"not null;column:content" json:"content"`

	IsVoice  bool   `gorm:"not null;default:false;column:is_voice" json:"is_voice"`
	VoiceURL string `gorm:"column:voice_url" json:"voice_url,omitempty"`

	CreatedAt time.Time `gorm:"not null;index" json:"created_at"`
}

func (Message) TableName() string { return "message" }
