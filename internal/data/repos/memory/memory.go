package memory

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/talekeep/talekeep-backend/internal/domain"
	"github.com/talekeep/talekeep-backend/internal/pkg/dbctx"
	"github.com/talekeep/talekeep-backend/internal/pkg/logger"
)

// FactWithCharacter annotates a fact with its character's display name for
// the cross-character list view.
type FactWithCharacter struct {
	ID            uuid.UUID `gorm:"column:id" json:"id"`
	CharacterID   uuid.UUID `gorm:"column:character_id" json:"character_id"`
	CharacterName string    `gorm:"column:character_name" json:"character_name"`
	Content       string    `gorm:"column:content" json:"content"`
	Priority      string    `gorm:"column:priority" json:"priority"`
	CreatedAt     time.Time `gorm:"column:created_at" json:"created_at"`
}

type FactRepo interface {
	Create(dbc dbctx.Context, rows []*types.MemoryFact) ([]*types.MemoryFact, error)
	GetByID(dbc dbctx.Context, id uuid.UUID) (*types.MemoryFact, error)
	// GetOwned resolves the fact only when its character was created by
	// userID; nil covers missing and not-owned alike.
	GetOwned(dbc dbctx.Context, id uuid.UUID, userID uuid.UUID) (*types.MemoryFact, error)
	// ListByCreator returns every fact across all of userID's characters,
	// created_at ASC, with character names attached.
	ListByCreator(dbc dbctx.Context, userID uuid.UUID) ([]FactWithCharacter, error)
	UpdateFields(dbc dbctx.Context, id uuid.UUID, updates map[string]interface{}) error
	DeleteByID(dbc dbctx.Context, id uuid.UUID) (int64, error)
}

type factRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewFactRepo(db *gorm.DB, log *logger.Logger) FactRepo {
	return &factRepo{db: db, log: log.With("repo", "MemoryFactRepo")}
}

func (r *factRepo) Create(dbc dbctx.Context, rows []*types.MemoryFact) ([]*types.MemoryFact, error) {
	if len(rows) == 0 {
		return []*types.MemoryFact{}, nil
	}
	txx := dbc.Tx
	if txx == nil {
		txx = r.db
	}
	for _, row := range rows {
		if row.ID == uuid.Nil {
			row.ID = uuid.New()
		}
		if row.Priority == "" {
			row.Priority = types.PriorityMedium
		}
	}
	if err := txx.WithContext(dbc.Ctx).Create(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *factRepo) GetByID(dbc dbctx.Context, id uuid.UUID) (*types.MemoryFact, error) {
	if id == uuid.Nil {
		return nil, fmt.Errorf("missing id")
	}
	txx := dbc.Tx
	if txx == nil {
		txx = r.db
	}
	var out types.MemoryFact
	err := txx.WithContext(dbc.Ctx).
		Model(&types.MemoryFact{}).
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

func (r *factRepo) GetOwned(dbc dbctx.Context, id uuid.UUID, userID uuid.UUID) (*types.MemoryFact, error) {
	if id == uuid.Nil || userID == uuid.Nil {
		return nil, fmt.Errorf("missing id")
	}
	txx := dbc.Tx
	if txx == nil {
		txx = r.db
	}
	var out types.MemoryFact
	err := txx.WithContext(dbc.Ctx).
		Model(&types.MemoryFact{}).
		Joins(`JOIN character ON character.id = memory_fact.character_id`).
		Where("memory_fact.id = ? AND character.creator_id = ?", id, userID).
		First(&out).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *factRepo) ListByCreator(dbc dbctx.Context, userID uuid.UUID) ([]FactWithCharacter, error) {
	if userID == uuid.Nil {
		return nil, fmt.Errorf("missing user_id")
	}
	txx := dbc.Tx
	if txx == nil {
		txx = r.db
	}
	var out []FactWithCharacter
	if err := txx.WithContext(dbc.Ctx).
		Model(&types.MemoryFact{}).
		Select(`memory_fact.id, memory_fact.character_id, memory_fact.content,
			memory_fact.priority, memory_fact.created_at,
			character.name AS character_name`).
		Joins(`JOIN character ON character.id = memory_fact.character_id`).
		Where("character.creator_id = ?", userID).
		Order("memory_fact.created_at ASC, memory_fact.id ASC").
		Scan(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *factRepo) UpdateFields(dbc dbctx.Context, id uuid.UUID, updates map[string]interface{}) error {
	if id == uuid.Nil {
		return fmt.Errorf("missing id")
	}
	if updates == nil {
		updates = map[string]interface{}{}
	}
	updates["updated_at"] = time.Now().UTC()
	txx := dbc.Tx
	if txx == nil {
		txx = r.db
	}
	return txx.WithContext(dbc.Ctx).
		Model(&types.MemoryFact{}).
		Where("id = ?", id).
		Updates(updates).Error
}

func (r *factRepo) DeleteByID(dbc dbctx.Context, id uuid.UUID) (int64, error) {
	if id == uuid.Nil {
		return 0, fmt.Errorf("missing id")
	}
	txx := dbc.Tx
	if txx == nil {
		txx = r.db
	}
	res := txx.WithContext(dbc.Ctx).
		Where("id = ?", id).
		Delete(&types.MemoryFact{})
	return res.RowsAffected, res.Error
}
