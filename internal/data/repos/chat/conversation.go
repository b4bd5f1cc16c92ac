package chat

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	types "github.com/talekeep/talekeep-backend/internal/domain"
	"github.com/talekeep/talekeep-backend/internal/pkg/dbctx"
	"github.com/talekeep/talekeep-backend/internal/pkg/logger"
)

// ConversationSummary is a conversation row annotated with its character
// for list views.
type ConversationSummary struct {
	ID              uuid.UUID `gorm:"column:id" json:"id"`
	Title           string    `gorm:"column:title" json:"title"`
	IsArchived      bool      `gorm:"column:is_archived" json:"is_archived"`
	CharacterID     uuid.UUID `gorm:"column:character_id" json:"character_id"`
	CharacterName   string    `gorm:"column:character_name" json:"character_name"`
	CharacterAvatar string    `gorm:"column:character_avatar" json:"character_avatar"`
	CreatedAt       time.Time `gorm:"column:created_at" json:"created_at"`
	UpdatedAt       time.Time `gorm:"column:updated_at" json:"updated_at"`
}

type ConversationRepo interface {
	Create(dbc dbctx.Context, rows []*types.Conversation) ([]*types.Conversation, error)
	GetByID(dbc dbctx.Context, id uuid.UUID) (*types.Conversation, error)
	// GetOwned returns nil for both missing and not-owned conversations.
	GetOwned(dbc dbctx.Context, id uuid.UUID, userID uuid.UUID) (*types.Conversation, error)
	ListByUser(dbc dbctx.Context, userID uuid.UUID) ([]ConversationSummary, error)
	// FindOrCreateDefault is an atomic insert-if-absent on the partial
	// unique index (user_id, character_id) WHERE is_default. Concurrent
	// first-contact requests converge on one row.
	FindOrCreateDefault(dbc dbctx.Context, userID, characterID uuid.UUID, title string) (*types.Conversation, error)
	LockByID(dbc dbctx.Context, id uuid.UUID) (*types.Conversation, error)
	Touch(dbc dbctx.Context, id uuid.UUID) error
}

type conversationRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewConversationRepo(db *gorm.DB, log *logger.Logger) ConversationRepo {
	return &conversationRepo{db: db, log: log.With("repo", "ConversationRepo")}
}

func (r *conversationRepo) Create(dbc dbctx.Context, rows []*types.Conversation) ([]*types.Conversation, error) {
	if len(rows) == 0 {
		return []*types.Conversation{}, nil
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

func (r *conversationRepo) GetByID(dbc dbctx.Context, id uuid.UUID) (*types.Conversation, error) {
	if id == uuid.Nil {
		return nil, fmt.Errorf("missing id")
	}
	txx := dbc.Tx
	if txx == nil {
		txx = r.db
	}
	var out types.Conversation
	err := txx.WithContext(dbc.Ctx).
		Model(&types.Conversation{}).
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

func (r *conversationRepo) GetOwned(dbc dbctx.Context, id uuid.UUID, userID uuid.UUID) (*types.Conversation, error) {
	if id == uuid.Nil || userID == uuid.Nil {
		return nil, fmt.Errorf("missing id")
	}
	txx := dbc.Tx
	if txx == nil {
		txx = r.db
	}
	var out types.Conversation
	err := txx.WithContext(dbc.Ctx).
		Model(&types.Conversation{}).
		Where("id = ? AND user_id = ?", id, userID).
		First(&out).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *conversationRepo) ListByUser(dbc dbctx.Context, userID uuid.UUID) ([]ConversationSummary, error) {
	if userID == uuid.Nil {
		return nil, fmt.Errorf("missing user_id")
	}
	txx := dbc.Tx
	if txx == nil {
		txx = r.db
	}
	var out []ConversationSummary
	if err := txx.WithContext(dbc.Ctx).
		Model(&types.Conversation{}).
		Select(`conversation.id, conversation.title, conversation.is_archived,
			conversation.character_id, conversation.created_at, conversation.updated_at,
			character.name AS character_name, character.avatar AS character_avatar`).
		Joins(`JOIN character ON character.id = conversation.character_id`).
		Where("conversation.user_id = ? AND conversation.is_archived = ?", userID, false).
		Order("conversation.updated_at DESC").
		Scan(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *conversationRepo) FindOrCreateDefault(dbc dbctx.Context, userID, characterID uuid.UUID, title string) (*types.Conversation, error) {
	if userID == uuid.Nil || characterID == uuid.Nil {
		return nil, fmt.Errorf("missing id")
	}
	txx := dbc.Tx
	if txx == nil {
		txx = r.db
	}

	fetch := func() (*types.Conversation, error) {
		var out types.Conversation
		err := txx.WithContext(dbc.Ctx).
			Model(&types.Conversation{}).
			Where("user_id = ? AND character_id = ? AND is_default = ?", userID, characterID, true).
			First(&out).Error
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		if err != nil {
			return nil, err
		}
		return &out, nil
	}

	if existing, err := fetch(); err != nil || existing != nil {
		return existing, err
	}

	row := &types.Conversation{
		ID:          uuid.New(),
		UserID:      userID,
		CharacterID: characterID,
		Title:       title,
		IsDefault:   true,
	}
	res := txx.WithContext(dbc.Ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(row)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected > 0 {
		return row, nil
	}

	// Lost the race; another request inserted the default first.
	existing, err := fetch()
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, fmt.Errorf("default conversation vanished after conflict")
	}
	return existing, nil
}

func (r *conversationRepo) LockByID(dbc dbctx.Context, id uuid.UUID) (*types.Conversation, error) {
	if id == uuid.Nil {
		return nil, fmt.Errorf("missing id")
	}
	if dbc.Tx == nil {
		return nil, fmt.Errorf("LockByID requires dbc.Tx")
	}
	var out types.Conversation
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

func (r *conversationRepo) Touch(dbc dbctx.Context, id uuid.UUID) error {
	if id == uuid.Nil {
		return fmt.Errorf("missing id")
	}
	txx := dbc.Tx
	if txx == nil {
		txx = r.db
	}
	return txx.WithContext(dbc.Ctx).
		Model(&types.Conversation{}).
		Where("id = ?", id).
		Update("updated_at", time.Now().UTC()).Error
}
