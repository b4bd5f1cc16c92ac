package services

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/talekeep/talekeep-backend/internal/pkg/logger"
	"github.com/talekeep/talekeep-backend/internal/realtime"
	"github.com/talekeep/talekeep-backend/internal/realtime/bus"
)

// BranchNotifier fans branch lifecycle events out to the realtime bus.
// Publishing is best-effort and happens after the transaction commits;
// a failed publish never fails the operation.
type BranchNotifier interface {
	BranchCreated(ctx context.Context, userID, conversationID, branchID uuid.UUID)
	BranchDeleted(ctx context.Context, userID, conversationID, branchID uuid.UUID)
	BranchesMerged(ctx context.Context, userID, conversationID, sourceID, targetID uuid.UUID)
}

type branchNotifier struct {
	log *logger.Logger
	bus bus.Bus
}

func NewBranchNotifier(baseLog *logger.Logger, b bus.Bus) BranchNotifier {
	if b == nil {
		b = bus.NewNopBus()
	}
	return &branchNotifier{log: baseLog.With("service", "BranchNotifier"), bus: b}
}

func (n *branchNotifier) publish(ctx context.Context, ev realtime.Event) {
	ev.At = time.Now().UTC()
	if err := n.bus.Publish(ctx, ev); err != nil {
		n.log.Warn("branch event publish failed", "type", ev.Type, "error", err)
	}
}

func (n *branchNotifier) BranchCreated(ctx context.Context, userID, conversationID, branchID uuid.UUID) {
	n.publish(ctx, realtime.Event{
		Type:           realtime.EventBranchCreated,
		UserID:         userID,
		ConversationID: conversationID,
		BranchID:       branchID,
	})
}

func (n *branchNotifier) BranchDeleted(ctx context.Context, userID, conversationID, branchID uuid.UUID) {
	n.publish(ctx, realtime.Event{
		Type:           realtime.EventBranchDeleted,
		UserID:         userID,
		ConversationID: conversationID,
		BranchID:       branchID,
	})
}

func (n *branchNotifier) BranchesMerged(ctx context.Context, userID, conversationID, sourceID, targetID uuid.UUID) {
	n.publish(ctx, realtime.Event{
		Type:           realtime.EventBranchMerged,
		UserID:         userID,
		ConversationID: conversationID,
		BranchID:       sourceID,
		TargetBranchID: &targetID,
	})
}
