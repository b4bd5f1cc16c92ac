package chat

import (
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	types "github.com/talekeep/talekeep-backend/internal/domain"
	"github.com/talekeep/talekeep-backend/internal/pkg/dbctx"
	"github.com/talekeep/talekeep-backend/internal/pkg/logger"
)

type BranchRepo interface {
	Create(dbc dbctx.Context, rows []*types.Branch) ([]*types.Branch, error)
	GetByID(dbc dbctx.Context, id uuid.UUID) (*types.Branch, error)
	ListByConversation(dbc dbctx.Context, conversationID uuid.UUID) ([]*types.Branch, error)
	// LockByID takes a FOR UPDATE row lock; it is how delete and merge on
	// the same branch serialize so the loser observes the row gone.
	LockByID(dbc dbctx.Context, id uuid.UUID) (*types.Branch, error)
	// UpdateFields reports how many rows matched so callers can turn an
	// update that raced a delete into NotFound.
	UpdateFields(dbc dbctx.Context, id uuid.UUID, updates map[string]interface{}) (int64, error)
	// DeleteByID reports how many rows went away so callers can turn a
	// no-op delete into NotFound.
	DeleteByID(dbc dbctx.Context, id uuid.UUID) (int64, error)
	// ReparentChildren points every child of oldParent at newParent (nil
	// promotes them to roots), keeping the tree connected when a branch
	// is deleted or merged away.
	ReparentChildren(dbc dbctx.Context, conversationID, oldParent uuid.UUID, newParent *uuid.UUID) error
}

type branchRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewBranchRepo(db *gorm.DB, log *logger.Logger) BranchRepo {
	return &branchRepo{db: db, log: log.With("repo", "BranchRepo")}
}

func (r *branchRepo) Create(dbc dbctx.Context, rows []*types.Branch) ([]*types.Branch, error) {
	if len(rows) == 0 {
		return []*types.Branch{}, nil
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

func (r *branchRepo) GetByID(dbc dbctx.Context, id uuid.UUID) (*types.Branch, error) {
	if id == uuid.Nil {
		return nil, fmt.Errorf("missing id")
	}
	txx := dbc.Tx
	if txx == nil {
		txx = r.db
	}
	var out types.Branch
	err := txx.WithContext(dbc.Ctx).
		Model(&types.Branch{}).
		Where("id = ?", id).
		First(&out).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *branchRepo) ListByConversation(dbc dbctx.Context, conversationID uuid.UUID) ([]*types.Branch, error) {
	if conversationID == uuid.Nil {
		return nil, fmt.Errorf("missing conversation_id")
	}
	txx := dbc.Tx
	if txx == nil {
		txx = r.db
	}
	var out []*types.Branch
	if err := txx.WithContext(dbc.Ctx).
		Model(&types.Branch{}).
		Where("conversation_id = ?", conversationID).
		Order("created_at DESC, id DESC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *branchRepo) LockByID(dbc dbctx.Context, id uuid.UUID) (*types.Branch, error) {
	if id == uuid.Nil {
		return nil, fmt.Errorf("missing id")
	}
	if dbc.Tx == nil {
		return nil, fmt.Errorf("LockByID requires dbc.Tx")
	}
	var out types.Branch
	err := dbc.Tx.WithContext(dbc.Ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", id).
		Take(&out).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *branchRepo) UpdateFields(dbc dbctx.Context, id uuid.UUID, updates map[string]interface{}) (int64, error) {
	if id == uuid.Nil {
		return 0, fmt.Errorf("missing id")
	}
	if len(updates) == 0 {
		return 0, nil
	}
	txx := dbc.Tx
	if txx == nil {
		txx = r.db
	}
	res := txx.WithContext(dbc.Ctx).
		Model(&types.Branch{}).
		Where("id = ?", id).
		Updates(updates)
	return res.RowsAffected, res.Error
}

func (r *branchRepo) DeleteByID(dbc dbctx.Context, id uuid.UUID) (int64, error) {
	if id == uuid.Nil {
		return 0, fmt.Errorf("missing id")
	}
	txx := dbc.Tx
	if txx == nil {
		txx = r.db
	}
	res := txx.WithContext(dbc.Ctx).
		Where("id = ?", id).
		Delete(&types.Branch{})
	return res.RowsAffected, res.Error
}

func (r *branchRepo) ReparentChildren(dbc dbctx.Context, conversationID, oldParent uuid.UUID, newParent *uuid.UUID) error {
	if conversationID == uuid.Nil || oldParent == uuid.Nil {
		return fmt.Errorf("missing id")
	}
	txx := dbc.Tx
	if txx == nil {
		txx = r.db
	}
	return txx.WithContext(dbc.Ctx).
		Model(&types.Branch{}).
		Where("conversation_id = ? AND parent_id = ?", conversationID, oldParent).
		Update("parent_id", newParent).Error
}
