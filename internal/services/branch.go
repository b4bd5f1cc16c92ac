package services

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"github.com/talekeep/talekeep-backend/internal/data/repos"
	types "github.com/talekeep/talekeep-backend/internal/domain"
	"github.com/talekeep/talekeep-backend/internal/pkg/apperr"
	"github.com/talekeep/talekeep-backend/internal/pkg/dbctx"
	"github.com/talekeep/talekeep-backend/internal/pkg/logger"
)

// BranchWithMessages is a branch populated with its full ordered message
// list. No pagination; the unbounded result set is an accepted limitation
// of the branch surface.
type BranchWithMessages struct {
	types.Branch
	Messages []*types.Message `json:"messages"`
}

type BranchService interface {
	List(dbc dbctx.Context, userID, conversationID uuid.UUID) ([]*BranchWithMessages, error)
	// Create forks a new branch, optionally seeded with copies of chosen
	// messages drawn from the conversation's whole message pool.
	Create(dbc dbctx.Context, userID, conversationID uuid.UUID, name string, parentID *uuid.UUID, seedMessageIDs []uuid.UUID) (*BranchWithMessages, error)
	Get(dbc dbctx.Context, userID, branchID uuid.UUID) (*BranchWithMessages, error)
	Rename(dbc dbctx.Context, userID, branchID uuid.UUID, name string) (*types.Branch, error)
	Delete(dbc dbctx.Context, userID, branchID uuid.UUID) error
	// Merge copies every source message into target, then removes the
	// source branch and its originals, atomically.
	Merge(dbc dbctx.Context, userID, sourceID, targetID uuid.UUID) error
}

type branchService struct {
	db  *gorm.DB
	log *logger.Logger

	conversations repos.ConversationRepo
	branches      repos.BranchRepo
	messages      repos.MessageRepo
	notify        BranchNotifier
}

func NewBranchService(
	db *gorm.DB,
	baseLog *logger.Logger,
	conversationRepo repos.ConversationRepo,
	branchRepo repos.BranchRepo,
	messageRepo repos.MessageRepo,
	notify BranchNotifier,
) BranchService {
	return &branchService{
		db:            db,
		log:           baseLog.With("service", "BranchService"),
		conversations: conversationRepo,
		branches:      branchRepo,
		messages:      messageRepo,
		notify:        notify,
	}
}

func (s *branchService) resolveOwnedConversation(dbc dbctx.Context, userID, conversationID uuid.UUID) (*types.Conversation, error) {
	if userID == uuid.Nil {
		return nil, apperr.ErrUnauthorized
	}
	if conversationID == uuid.Nil {
		return nil, fmt.Errorf("conversation id: %w", apperr.ErrInvalidArgument)
	}
	conv, err := s.conversations.GetOwned(dbc, conversationID, userID)
	if err != nil {
		return nil, err
	}
	if conv == nil {
		return nil, fmt.Errorf("conversation: %w", apperr.ErrNotFound)
	}
	return conv, nil
}

// resolveOwnedBranch collapses "branch missing" and "branch reachable only
// through someone else's conversation" into one NotFound.
func (s *branchService) resolveOwnedBranch(dbc dbctx.Context, userID, branchID uuid.UUID) (*types.Branch, error) {
	if userID == uuid.Nil {
		return nil, apperr.ErrUnauthorized
	}
	if branchID == uuid.Nil {
		return nil, fmt.Errorf("branch id: %w", apperr.ErrInvalidArgument)
	}
	b, err := s.branches.GetByID(dbc, branchID)
	if err != nil {
		return nil, err
	}
	if b == nil {
		return nil, fmt.Errorf("branch: %w", apperr.ErrNotFound)
	}
	if _, err := s.resolveOwnedConversation(dbc, userID, b.ConversationID); err != nil {
		return nil, fmt.Errorf("branch: %w", apperr.ErrNotFound)
	}
	return b, nil
}

func (s *branchService) List(dbc dbctx.Context, userID, conversationID uuid.UUID) ([]*BranchWithMessages, error) {
	if _, err := s.resolveOwnedConversation(dbc, userID, conversationID); err != nil {
		return nil, err
	}
	rows, err := s.branches.ListByConversation(dbc, conversationID)
	if err != nil {
		return nil, err
	}

	out := make([]*BranchWithMessages, len(rows))
	for i, b := range rows {
		out[i] = &BranchWithMessages{Branch: *b}
	}

	// Message loads fan out across the pool only outside a transaction;
	// a single gorm Tx is not safe for concurrent use.
	if dbc.Tx == nil && len(out) > 1 {
		g, gctx := errgroup.WithContext(dbc.Ctx)
		g.SetLimit(4)
		for _, bw := range out {
			bw := bw
			g.Go(func() error {
				id := bw.ID
				msgs, err := s.messages.ListByBranch(dbctx.Context{Ctx: gctx}, conversationID, &id)
				if err != nil {
					return err
				}
				bw.Messages = msgs
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return nil, err
		}
		return out, nil
	}

	for _, bw := range out {
		id := bw.ID
		msgs, err := s.messages.ListByBranch(dbc, conversationID, &id)
		if err != nil {
			return nil, err
		}
		bw.Messages = msgs
	}
	return out, nil
}

func (s *branchService) Get(dbc dbctx.Context, userID, branchID uuid.UUID) (*BranchWithMessages, error) {
	b, err := s.resolveOwnedBranch(dbc, userID, branchID)
	if err != nil {
		return nil, err
	}
	msgs, err := s.messages.ListByBranch(dbc, b.ConversationID, &b.ID)
	if err != nil {
		return nil, err
	}
	return &BranchWithMessages{Branch: *b, Messages: msgs}, nil
}

func (s *branchService) Create(dbc dbctx.Context, userID, conversationID uuid.UUID, name string, parentID *uuid.UUID, seedMessageIDs []uuid.UUID) (*BranchWithMessages, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("branch name: %w", apperr.ErrInvalidArgument)
	}
	if _, err := s.resolveOwnedConversation(dbc, userID, conversationID); err != nil {
		return nil, err
	}

	transaction := dbc.Tx
	if transaction == nil {
		transaction = s.db
	}

	var created *BranchWithMessages
	err := transaction.WithContext(dbc.Ctx).Transaction(func(txx *gorm.DB) error {
		inner := dbctx.Context{Ctx: dbc.Ctx, Tx: txx}

		if parentID != nil && *parentID != uuid.Nil {
			if err := s.validateParent(inner, conversationID, *parentID); err != nil {
				return err
			}
		} else {
			parentID = nil
		}

		rows, err := s.branches.Create(inner, []*types.Branch{{
			ConversationID: conversationID,
			Name:           name,
			ParentID:       parentID,
		}})
		if err != nil {
			return err
		}
		branch := rows[0]

		var seeded []*types.Message
		if len(seedMessageIDs) > 0 {
			seeded, err = s.copySeedMessages(inner, branch, seedMessageIDs)
			if err != nil {
				return err
			}
		}
		created = &BranchWithMessages{Branch: *branch, Messages: seeded}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.notify.BranchCreated(dbc.Ctx, userID, conversationID, created.ID)
	return created, nil
}

// validateParent rejects dangling and foreign-conversation parents, and
// walks the ancestor chain with a visited set so a corrupted table cannot
// send later tree walks into a loop.
func (s *branchService) validateParent(dbc dbctx.Context, conversationID, parentID uuid.UUID) error {
	seen := map[uuid.UUID]bool{}
	cur := parentID
	for {
		if seen[cur] {
			return fmt.Errorf("parent chain contains a cycle: %w", apperr.ErrInvalidArgument)
		}
		seen[cur] = true

		b, err := s.branches.GetByID(dbc, cur)
		if err != nil {
			return err
		}
		if b == nil || b.ConversationID != conversationID {
			return fmt.Errorf("parent branch: %w", apperr.ErrNotFound)
		}
		if b.ParentID == nil || *b.ParentID == uuid.Nil {
			return nil
		}
		cur = *b.ParentID
	}
}

// copySeedMessages copies the chosen messages, drawn from the whole
// conversation pool, into the new branch. Originals are untouched; copies
// get fresh ids and seq 1..n in the pool's original order.
func (s *branchService) copySeedMessages(dbc dbctx.Context, branch *types.Branch, seedIDs []uuid.UUID) ([]*types.Message, error) {
	want := make(map[uuid.UUID]bool, len(seedIDs))
	for _, id := range seedIDs {
		want[id] = true
	}

	pool, err := s.messages.ListByConversation(dbc, branch.ConversationID)
	if err != nil {
		return nil, err
	}

	var seq int64
	copies := make([]*types.Message, 0, len(seedIDs))
	for _, msg := range pool {
		if !want[msg.ID] {
			continue
		}
		seq++
		copies = append(copies, &types.Message{
			ConversationID: branch.ConversationID,
			BranchID:       &branch.ID,
			Seq:            seq,
			Sender:         msg.Sender,
			Content:        msg.Content,
			IsVoice:        msg.IsVoice,
			VoiceURL:       msg.VoiceURL,
		})
	}
	return s.messages.Create(dbc, copies)
}

func (s *branchService) Rename(dbc dbctx.Context, userID, branchID uuid.UUID, name string) (*types.Branch, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("branch name: %w", apperr.ErrInvalidArgument)
	}
	b, err := s.resolveOwnedBranch(dbc, userID, branchID)
	if err != nil {
		return nil, err
	}
	updated, err := s.branches.UpdateFields(dbc, branchID, map[string]interface{}{"name": name})
	if err != nil {
		return nil, err
	}
	// Zero rows means a concurrent delete or merge won.
	if updated == 0 {
		return nil, fmt.Errorf("branch: %w", apperr.ErrNotFound)
	}
	b.Name = name
	return b, nil
}

func (s *branchService) Delete(dbc dbctx.Context, userID, branchID uuid.UUID) error {
	b, err := s.resolveOwnedBranch(dbc, userID, branchID)
	if err != nil {
		return err
	}

	transaction := dbc.Tx
	if transaction == nil {
		transaction = s.db
	}
	err = transaction.WithContext(dbc.Ctx).Transaction(func(txx *gorm.DB) error {
		inner := dbctx.Context{Ctx: dbc.Ctx, Tx: txx}

		// Re-take under lock: a raced merge may have removed the branch
		// between the ownership check and here.
		locked, err := s.branches.LockByID(inner, branchID)
		if err != nil {
			return err
		}
		if locked == nil {
			return fmt.Errorf("branch: %w", apperr.ErrNotFound)
		}

		if _, err := s.messages.DeleteByBranch(inner, branchID); err != nil {
			return err
		}
		if err := s.branches.ReparentChildren(inner, locked.ConversationID, branchID, locked.ParentID); err != nil {
			return err
		}
		deleted, err := s.branches.DeleteByID(inner, branchID)
		if err != nil {
			return err
		}
		if deleted == 0 {
			return fmt.Errorf("branch: %w", apperr.ErrNotFound)
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.notify.BranchDeleted(dbc.Ctx, userID, b.ConversationID, branchID)
	return nil
}

func (s *branchService) Merge(dbc dbctx.Context, userID, sourceID, targetID uuid.UUID) error {
	if userID == uuid.Nil {
		return apperr.ErrUnauthorized
	}
	if sourceID == uuid.Nil || targetID == uuid.Nil {
		return fmt.Errorf("branch id: %w", apperr.ErrInvalidArgument)
	}
	if sourceID == targetID {
		return fmt.Errorf("source and target are the same branch: %w", apperr.ErrInvalidArgument)
	}

	transaction := dbc.Tx
	if transaction == nil {
		transaction = s.db
	}

	var conversationID uuid.UUID
	err := transaction.WithContext(dbc.Ctx).Transaction(func(txx *gorm.DB) error {
		inner := dbctx.Context{Ctx: dbc.Ctx, Tx: txx}

		// Fixed lock order by id so two opposite-direction merges cannot
		// deadlock.
		first, second := sourceID, targetID
		if second.String() < first.String() {
			first, second = second, first
		}
		lockedFirst, err := s.branches.LockByID(inner, first)
		if err != nil {
			return err
		}
		lockedSecond, err := s.branches.LockByID(inner, second)
		if err != nil {
			return err
		}

		var source, target *types.Branch
		for _, b := range []*types.Branch{lockedFirst, lockedSecond} {
			if b == nil {
				continue
			}
			switch b.ID {
			case sourceID:
				source = b
			case targetID:
				target = b
			}
		}
		if source == nil {
			return fmt.Errorf("source branch: %w", apperr.ErrNotFound)
		}
		if target == nil {
			return fmt.Errorf("target branch: %w", apperr.ErrNotFound)
		}
		if source.ConversationID != target.ConversationID {
			return fmt.Errorf("branches belong to different conversations: %w", apperr.ErrInvalidArgument)
		}
		conversationID = source.ConversationID

		conv, err := s.conversations.GetOwned(inner, conversationID, userID)
		if err != nil {
			return err
		}
		if conv == nil {
			return fmt.Errorf("conversation: %w", apperr.ErrNotFound)
		}

		sourceMsgs, err := s.messages.ListByBranch(inner, conversationID, &source.ID)
		if err != nil {
			return err
		}
		maxSeq, err := s.messages.GetMaxSeq(inner, conversationID, &target.ID)
		if err != nil {
			return err
		}

		// Copy one row at a time in source order so the migrated set
		// keeps its relative ordering after the target's existing tail.
		for _, msg := range sourceMsgs {
			maxSeq++
			if _, err := s.messages.Create(inner, []*types.Message{{
				ConversationID: conversationID,
				BranchID:       &target.ID,
				Seq:            maxSeq,
				Sender:         msg.Sender,
				Content:        msg.Content,
				IsVoice:        msg.IsVoice,
				VoiceURL:       msg.VoiceURL,
			}}); err != nil {
				return err
			}
		}

		if _, err := s.messages.DeleteByBranch(inner, source.ID); err != nil {
			return err
		}
		if err := s.branches.ReparentChildren(inner, conversationID, source.ID, source.ParentID); err != nil {
			return err
		}
		deleted, err := s.branches.DeleteByID(inner, source.ID)
		if err != nil {
			return err
		}
		if deleted == 0 {
			return fmt.Errorf("source branch: %w", apperr.ErrNotFound)
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.notify.BranchesMerged(dbc.Ctx, userID, conversationID, sourceID, targetID)
	return nil
}
