package chat

import (
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/talekeep/talekeep-backend/internal/domain"
	"github.com/talekeep/talekeep-backend/internal/pkg/dbctx"
	"github.com/talekeep/talekeep-backend/internal/pkg/logger"
)

type MessageRepo interface {
	Create(dbc dbctx.Context, rows []*types.Message) ([]*types.Message, error)
	// ListByBranch returns a branch's messages ordered seq ASC. A nil
	// branchID selects the conversation's unbranched root timeline.
	ListByBranch(dbc dbctx.Context, conversationID uuid.UUID, branchID *uuid.UUID) ([]*types.Message, error)
	// ListByConversation returns the conversation's entire message pool
	// across all branches; branch seeding draws from it.
	ListByConversation(dbc dbctx.Context, conversationID uuid.UUID) ([]*types.Message, error)
	GetMaxSeq(dbc dbctx.Context, conversationID uuid.UUID, branchID *uuid.UUID) (int64, error)
	DeleteByBranch(dbc dbctx.Context, branchID uuid.UUID) (int64, error)
	CountByBranch(dbc dbctx.Context, branchID uuid.UUID) (int64, error)
}

type messageRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewMessageRepo(db *gorm.DB, log *logger.Logger) MessageRepo {
	return &messageRepo{db: db, log: log.With("repo", "MessageRepo")}
}

func (r *messageRepo) Create(dbc dbctx.Context, rows []*types.Message) ([]*types.Message, error) {
	if len(rows) == 0 {
		return []*types.Message{}, nil
	}
	txx := dbc.Tx
	if txx == nil {
		txx = r.db
	}
	for _, row := range rows {
		if row.ID == uuid.Nil {
			row.ID = uuid.New()
		}
	}
	if err := txx.WithContext(dbc.Ctx).Create(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *messageRepo) ListByBranch(dbc dbctx.Context, conversationID uuid.UUID, branchID *uuid.UUID) ([]*types.Message, error) {
	if conversationID == uuid.Nil {
		return nil, fmt.Errorf("missing conversation_id")
	}
	txx := dbc.Tx
	if txx == nil {
		txx = r.db
	}
	q := txx.WithContext(dbc.Ctx).
		Model(&types.Message{}).
		Where("conversation_id = ?", conversationID)
	if branchID != nil && *branchID != uuid.Nil {
		q = q.Where("branch_id = ?", *branchID)
	} else {
		q = q.Where("branch_id IS NULL")
	}
	var out []*types.Message
	if err := q.Order("seq ASC, id ASC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *messageRepo) ListByConversation(dbc dbctx.Context, conversationID uuid.UUID) ([]*types.Message, error) {
	if conversationID == uuid.Nil {
		return nil, fmt.Errorf("missing conversation_id")
	}
	txx := dbc.Tx
	if txx == nil {
		txx = r.db
	}
	var out []*types.Message
	if err := txx.WithContext(dbc.Ctx).
		Model(&types.Message{}).
		Where("conversation_id = ?", conversationID).
		Order("seq ASC, id ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *messageRepo) GetMaxSeq(dbc dbctx.Context, conversationID uuid.UUID, branchID *uuid.UUID) (int64, error) {
	if conversationID == uuid.Nil {
		return 0, fmt.Errorf("missing conversation_id")
	}
	txx := dbc.Tx
	if txx == nil {
		txx = r.db
	}
	q := txx.WithContext(dbc.Ctx).
		Model(&types.Message{}).
		Select("COALESCE(MAX(seq), 0)").
		Where("conversation_id = ?", conversationID)
	if branchID != nil && *branchID != uuid.Nil {
		q = q.Where("branch_id = ?", *branchID)
	} else {
		q = q.Where("branch_id IS NULL")
	}
	var maxSeq int64
	if err := q.Scan(&maxSeq).Error; err != nil {
		return 0, err
	}
	return maxSeq, nil
}

func (r *messageRepo) DeleteByBranch(dbc dbctx.Context, branchID uuid.UUID) (int64, error) {
	if branchID == uuid.Nil {
		return 0, fmt.Errorf("missing branch_id")
	}
	txx := dbc.Tx
	if txx == nil {
		txx = r.db
	}
	res := txx.WithContext(dbc.Ctx).
		Where("branch_id = ?", branchID).
		Delete(&types.Message{})
	return res.RowsAffected, res.Error
}

func (r *messageRepo) CountByBranch(dbc dbctx.Context, branchID uuid.UUID) (int64, error) {
	if branchID == uuid.Nil {
		return 0, fmt.Errorf("missing branch_id")
	}
	txx := dbc.Tx
	if txx == nil {
		txx = r.db
	}
	var n int64
	if err := txx.WithContext(dbc.Ctx).
		Model(&types.Message{}).
		Where("branch_id = ?", branchID).
		Count(&n).Error; err != nil {
		return 0, err
	}
	return n, nil
}
