package services

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/talekeep/talekeep-backend/internal/data/repos"
	types "github.com/talekeep/talekeep-backend/internal/domain"
	"github.com/talekeep/talekeep-backend/internal/pkg/apperr"
	"github.com/talekeep/talekeep-backend/internal/pkg/dbctx"
	"github.com/talekeep/talekeep-backend/internal/pkg/logger"
)

// CharacterInput is the create payload. Personality, Traits and Skills are
// stored as JSON blobs so the profile schema can evolve without migrations.
type CharacterInput struct {
	Name        string
	Avatar      string
	Description string
	Personality map[string]interface{}
	Traits      []string
	Skills      []string
	IsPublic    bool
}

type CharacterService interface {
	Create(dbc dbctx.Context, userID uuid.UUID, in CharacterInput) (*types.Character, error)
	// Get returns a character the caller may see: their own, or any
	// public one.
	Get(dbc dbctx.Context, userID, characterID uuid.UUID) (*types.Character, error)
	List(dbc dbctx.Context, userID uuid.UUID) ([]*types.Character, error)
}

type characterService struct {
	log        *logger.Logger
	characters repos.CharacterRepo
}

func NewCharacterService(baseLog *logger.Logger, characterRepo repos.CharacterRepo) CharacterService {
	return &characterService{
		log:        baseLog.With("service", "CharacterService"),
		characters: characterRepo,
	}
}

func (s *characterService) Create(dbc dbctx.Context, userID uuid.UUID, in CharacterInput) (*types.Character, error) {
	if userID == uuid.Nil {
		return nil, apperr.ErrUnauthorized
	}
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, fmt.Errorf("character name: %w", apperr.ErrInvalidArgument)
	}

	row := &types.Character{
		CreatorID:   userID,
		Name:        name,
		Avatar:      in.Avatar,
		Description: in.Description,
		IsPublic:    in.IsPublic,
	}
	var err error
	if row.Personality, err = marshalJSONField(in.Personality); err != nil {
		return nil, err
	}
	if row.Traits, err = marshalJSONField(in.Traits); err != nil {
		return nil, err
	}
	if row.Skills, err = marshalJSONField(in.Skills); err != nil {
		return nil, err
	}

	rows, err := s.characters.Create(dbc, []*types.Character{row})
	if err != nil {
		return nil, err
	}
	return rows[0], nil
}

func (s *characterService) Get(dbc dbctx.Context, userID, characterID uuid.UUID) (*types.Character, error) {
	if userID == uuid.Nil {
		return nil, apperr.ErrUnauthorized
	}
	if characterID == uuid.Nil {
		return nil, fmt.Errorf("character id: %w", apperr.ErrInvalidArgument)
	}
	ch, err := s.characters.GetByID(dbc, characterID)
	if err != nil {
		return nil, err
	}
	if ch == nil || (!ch.IsPublic && ch.CreatorID != userID) {
		return nil, fmt.Errorf("character: %w", apperr.ErrNotFound)
	}
	return ch, nil
}

func (s *characterService) List(dbc dbctx.Context, userID uuid.UUID) ([]*types.Character, error) {
	if userID == uuid.Nil {
		return nil, apperr.ErrUnauthorized
	}
	return s.characters.ListVisible(dbc, userID)
}

func marshalJSONField(v interface{}) (datatypes.JSON, error) {
	if v == nil {
		return nil, nil
	}
	b, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encode json field: %w", err)
	}
	return datatypes.JSON(b), nil
}
