package character

import (
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/talekeep/talekeep-backend/internal/domain"
	"github.com/talekeep/talekeep-backend/internal/pkg/dbctx"
	"github.com/talekeep/talekeep-backend/internal/pkg/logger"
)

type CharacterRepo interface {
	Create(dbc dbctx.Context, rows []*types.Character) ([]*types.Character, error)
	GetByID(dbc dbctx.Context, id uuid.UUID) (*types.Character, error)
	// GetOwned returns the character only when it exists AND belongs to
	// userID; nil otherwise. Callers collapse both cases to NotFound.
	GetOwned(dbc dbctx.Context, id uuid.UUID, userID uuid.UUID) (*types.Character, error)
	ListVisible(dbc dbctx.Context, userID uuid.UUID) ([]*types.Character, error)
}

type characterRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewCharacterRepo(db *gorm.DB, log *logger.Logger) CharacterRepo {
	return &characterRepo{db: db, log: log.With("repo", "CharacterRepo")}
}

func (r *characterRepo) Create(dbc dbctx.Context, rows []*types.Character) ([]*types.Character, error) {
	if len(rows) == 0 {
		return []*types.Character{}, nil
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

func (r *characterRepo) GetByID(dbc dbctx.Context, id uuid.UUID) (*types.Character, error) {
	if id == uuid.Nil {
		return nil, fmt.Errorf("missing id")
	}
	txx := dbc.Tx
	if txx == nil {
		txx = r.db
	}
	var out types.Character
	err := txx.WithContext(dbc.Ctx).
		Model(&types.Character{}).
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

func (r *characterRepo) GetOwned(dbc dbctx.Context, id uuid.UUID, userID uuid.UUID) (*types.Character, error) {
	if id == uuid.Nil || userID == uuid.Nil {
		return nil, fmt.Errorf("missing id")
	}
	txx := dbc.Tx
	if txx == nil {
		txx = r.db
	}
	var out types.Character
	err := txx.WithContext(dbc.Ctx).
		Model(&types.Character{}).
		Where("id = ? AND creator_id = ?", id, userID).
		First(&out).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// ListVisible returns the user's own characters plus public ones,
// newest-first.
func (r *characterRepo) ListVisible(dbc dbctx.Context, userID uuid.UUID) ([]*types.Character, error) {
	if userID == uuid.Nil {
		return nil, fmt.Errorf("missing user_id")
	}
	txx := dbc.Tx
	if txx == nil {
		txx = r.db
	}
	var out []*types.Character
	if err := txx.WithContext(dbc.Ctx).
		Model(&types.Character{}).
		Where("creator_id = ? OR is_public = ?", userID, true).
		Order("created_at DESC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}
