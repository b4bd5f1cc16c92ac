package services

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/talekeep/talekeep-backend/internal/data/repos"
	types "github.com/talekeep/talekeep-backend/internal/domain"
	"github.com/talekeep/talekeep-backend/internal/pkg/apperr"
	"github.com/talekeep/talekeep-backend/internal/pkg/dbctx"
	"github.com/talekeep/talekeep-backend/internal/pkg/logger"
)

// FactUpdate carries the optional fields of a memory update. Nil means
// "leave unchanged".
type FactUpdate struct {
	Content  *string
	Priority *string
}

type MemoryService interface {
	// List returns every fact attached to characters the caller created,
	// oldest first, each annotated with its character's name.
	List(dbc dbctx.Context, userID uuid.UUID) ([]repos.FactWithCharacter, error)
	Create(dbc dbctx.Context, userID, characterID uuid.UUID, content, priority string) (*types.MemoryFact, error)
	Update(dbc dbctx.Context, userID, factID uuid.UUID, upd FactUpdate) (*types.MemoryFact, error)
	Delete(dbc dbctx.Context, userID, factID uuid.UUID) error
}

type memoryService struct {
	log        *logger.Logger
	characters repos.CharacterRepo
	facts      repos.MemoryFactRepo
}

func NewMemoryService(baseLog *logger.Logger, characterRepo repos.CharacterRepo, factRepo repos.MemoryFactRepo) MemoryService {
	return &memoryService{
		log:        baseLog.With("service", "MemoryService"),
		characters: characterRepo,
		facts:      factRepo,
	}
}

func (s *memoryService) List(dbc dbctx.Context, userID uuid.UUID) ([]repos.FactWithCharacter, error) {
	if userID == uuid.Nil {
		return nil, apperr.ErrUnauthorized
	}
	return s.facts.ListByCreator(dbc, userID)
}

func (s *memoryService) Create(dbc dbctx.Context, userID, characterID uuid.UUID, content, priority string) (*types.MemoryFact, error) {
	if userID == uuid.Nil {
		return nil, apperr.ErrUnauthorized
	}
	if characterID == uuid.Nil {
		return nil, fmt.Errorf("character id: %w", apperr.ErrInvalidArgument)
	}
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, fmt.Errorf("memory content: %w", apperr.ErrInvalidArgument)
	}
	priority = strings.ToLower(strings.TrimSpace(priority))
	if priority == "" {
		priority = types.PriorityMedium
	}
	if !types.ValidPriority(priority) {
		return nil, fmt.Errorf("priority %q: %w", priority, apperr.ErrInvalidArgument)
	}

	// Only a character's creator may attach memories to it. Missing and
	// someone-else's characters look identical to the caller.
	ch, err := s.characters.GetOwned(dbc, characterID, userID)
	if err != nil {
		return nil, err
	}
	if ch == nil {
		return nil, fmt.Errorf("character: %w", apperr.ErrNotFound)
	}

	rows, err := s.facts.Create(dbc, []*types.MemoryFact{{
		CharacterID: characterID,
		Content:     content,
		Priority:    priority,
	}})
	if err != nil {
		return nil, err
	}
	return rows[0], nil
}

func (s *memoryService) Update(dbc dbctx.Context, userID, factID uuid.UUID, upd FactUpdate) (*types.MemoryFact, error) {
	fact, err := s.resolveOwnedFact(dbc, userID, factID)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if upd.Content != nil {
		content := strings.TrimSpace(*upd.Content)
		if content == "" {
			return nil, fmt.Errorf("memory content: %w", apperr.ErrInvalidArgument)
		}
		updates["content"] = content
		fact.Content = content
	}
	if upd.Priority != nil {
		priority := strings.ToLower(strings.TrimSpace(*upd.Priority))
		if !types.ValidPriority(priority) {
			return nil, fmt.Errorf("priority %q: %w", *upd.Priority, apperr.ErrInvalidArgument)
		}
		updates["priority"] = priority
		fact.Priority = priority
	}
	if len(updates) == 0 {
		return fact, nil
	}

	if err := s.facts.UpdateFields(dbc, factID, updates); err != nil {
		return nil, err
	}
	return fact, nil
}

func (s *memoryService) Delete(dbc dbctx.Context, userID, factID uuid.UUID) error {
	if _, err := s.resolveOwnedFact(dbc, userID, factID); err != nil {
		return err
	}
	deleted, err := s.facts.DeleteByID(dbc, factID)
	if err != nil {
		return err
	}
	if deleted == 0 {
		return fmt.Errorf("memory: %w", apperr.ErrNotFound)
	}
	return nil
}

func (s *memoryService) resolveOwnedFact(dbc dbctx.Context, userID, factID uuid.UUID) (*types.MemoryFact, error) {
	if userID == uuid.Nil {
		return nil, apperr.ErrUnauthorized
	}
	if factID == uuid.Nil {
		return nil, fmt.Errorf("memory id: %w", apperr.ErrInvalidArgument)
	}
	fact, err := s.facts.GetOwned(dbc, factID, userID)
	if err != nil {
		return nil, err
	}
	if fact == nil {
		return nil, fmt.Errorf("memory: %w", apperr.ErrNotFound)
	}
	return fact, nil
}
