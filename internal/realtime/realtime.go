package realtime

import (
	"time"

	"github.com/google/uuid"
)

const (
	EventBranchCreated = "branch.created"
	EventBranchDeleted = "branch.deleted"
	EventBranchMerged  = "branch.merged"
)

// Event is what the branch manager publishes on create/delete/merge. The
// core holds no connection state; fan-out to clients is an external
// consumer's job.
type Event struct {
	Type           string     `json:"type"`
	UserID         uuid.UUID  `json:"user_id"`
	ConversationID uuid.UUID  `json:"conversation_id"`
	BranchID       uuid.UUID  `json:"branch_id"`
	TargetBranchID *uuid.UUID `json:"target_branch_id,omitempty"`
	At             time.Time  `json:"at"`
}
