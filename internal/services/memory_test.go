package services

import (
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/talekeep/talekeep-backend/internal/data/repos"
	"github.com/talekeep/talekeep-backend/internal/data/repos/testutil"
	types "github.com/talekeep/talekeep-backend/internal/domain"
	"github.com/talekeep/talekeep-backend/internal/pkg/apperr"
	"github.com/talekeep/talekeep-backend/internal/pkg/dbctx"
)

// In-memory fakes; the ownership join is modeled by checking the
// character's creator, same contract as the SQL repos.

type fakeCharacterRepo struct {
	chars map[uuid.UUID]*types.Character
}

func (f *fakeCharacterRepo) Create(dbc dbctx.Context, rows []*types.Character) ([]*types.Character, error) {
	for _, ch := range rows {
		if ch.ID == uuid.Nil {
			ch.ID = uuid.New()
		}
		f.chars[ch.ID] = ch
	}
	return rows, nil
}

func (f *fakeCharacterRepo) GetByID(dbc dbctx.Context, id uuid.UUID) (*types.Character, error) {
	return f.chars[id], nil
}

func (f *fakeCharacterRepo) GetOwned(dbc dbctx.Context, id, userID uuid.UUID) (*types.Character, error) {
	ch := f.chars[id]
	if ch == nil || ch.CreatorID != userID {
		return nil, nil
	}
	return ch, nil
}

func (f *fakeCharacterRepo) ListVisible(dbc dbctx.Context, userID uuid.UUID) ([]*types.Character, error) {
	var out []*types.Character
	for _, ch := range f.chars {
		if ch.CreatorID == userID || ch.IsPublic {
			out = append(out, ch)
		}
	}
	return out, nil
}

type fakeFactRepo struct {
	chars *fakeCharacterRepo
	facts map[uuid.UUID]*types.MemoryFact
}

func (f *fakeFactRepo) Create(dbc dbctx.Context, rows []*types.MemoryFact) ([]*types.MemoryFact, error) {
	for _, fact := range rows {
		if fact.ID == uuid.Nil {
			fact.ID = uuid.New()
		}
		if fact.Priority == "" {
			fact.Priority = types.PriorityMedium
		}
		f.facts[fact.ID] = fact
	}
	return rows, nil
}

func (f *fakeFactRepo) GetByID(dbc dbctx.Context, id uuid.UUID) (*types.MemoryFact, error) {
	return f.facts[id], nil
}

func (f *fakeFactRepo) GetOwned(dbc dbctx.Context, id, userID uuid.UUID) (*types.MemoryFact, error) {
	fact := f.facts[id]
	if fact == nil {
		return nil, nil
	}
	ch := f.chars.chars[fact.CharacterID]
	if ch == nil || ch.CreatorID != userID {
		return nil, nil
	}
	return fact, nil
}

func (f *fakeFactRepo) ListByCreator(dbc dbctx.Context, userID uuid.UUID) ([]repos.FactWithCharacter, error) {
	var out []repos.FactWithCharacter
	for _, fact := range f.facts {
		ch := f.chars.chars[fact.CharacterID]
		if ch == nil || ch.CreatorID != userID {
			continue
		}
		out = append(out, repos.FactWithCharacter{
			ID:            fact.ID,
			CharacterID:   fact.CharacterID,
			CharacterName: ch.Name,
			Content:       fact.Content,
			Priority:      fact.Priority,
			CreatedAt:     fact.CreatedAt,
		})
	}
	return out, nil
}

func (f *fakeFactRepo) UpdateFields(dbc dbctx.Context, id uuid.UUID, updates map[string]interface{}) error {
	fact, ok := f.facts[id]
	if !ok {
		return nil
	}
	if v, ok := updates["content"]; ok {
		fact.Content = v.(string)
	}
	if v, ok := updates["priority"]; ok {
		fact.Priority = v.(string)
	}
	return nil
}

func (f *fakeFactRepo) DeleteByID(dbc dbctx.Context, id uuid.UUID) (int64, error) {
	if _, ok := f.facts[id]; !ok {
		return 0, nil
	}
	delete(f.facts, id)
	return 1, nil
}

func newMemoryFixture() (MemoryService, *fakeCharacterRepo, *fakeFactRepo) {
	chars := &fakeCharacterRepo{chars: map[uuid.UUID]*types.Character{}}
	facts := &fakeFactRepo{chars: chars, facts: map[uuid.UUID]*types.MemoryFact{}}
	return NewMemoryService(testutil.Logger(), chars, facts), chars, facts
}

func seedFakeCharacter(chars *fakeCharacterRepo, creatorID uuid.UUID) *types.Character {
	ch := &types.Character{ID: uuid.New(), CreatorID: creatorID, Name: "Mira"}
	chars.chars[ch.ID] = ch
	return ch
}

func TestMemoryCreate_DefaultsPriorityToMedium(t *testing.T) {
	svc, chars, _ := newMemoryFixture()
	owner := uuid.New()
	ch := seedFakeCharacter(chars, owner)

	fact, err := svc.Create(testutil.Ctx(), owner, ch.ID, "likes rainy days", "")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if fact.Priority != types.PriorityMedium {
		t.Fatalf("expected medium priority, got %q", fact.Priority)
	}
}

func TestMemoryCreate_NormalizesAndValidatesPriority(t *testing.T) {
	svc, chars, _ := newMemoryFixture()
	owner := uuid.New()
	ch := seedFakeCharacter(chars, owner)

	fact, err := svc.Create(testutil.Ctx(), owner, ch.ID, "afraid of storms", " HIGH ")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if fact.Priority != types.PriorityHigh {
		t.Fatalf("expected high, got %q", fact.Priority)
	}

	if _, err := svc.Create(testutil.Ctx(), owner, ch.ID, "x", "urgent"); !errors.Is(err, apperr.ErrInvalidArgument) {
		t.Fatalf("expected InvalidArgument for unknown priority, got %v", err)
	}
}

func TestMemoryCreate_OnlyCreatorMayAttach(t *testing.T) {
	svc, chars, _ := newMemoryFixture()
	owner := uuid.New()
	ch := seedFakeCharacter(chars, owner)

	stranger := uuid.New()
	if _, err := svc.Create(testutil.Ctx(), stranger, ch.ID, "secret", ""); !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("expected NotFound for non-creator, got %v", err)
	}
	if _, err := svc.Create(testutil.Ctx(), owner, uuid.New(), "secret", ""); !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("expected NotFound for missing character, got %v", err)
	}
}

func TestMemoryUpdateAndDelete_EnforceOwnership(t *testing.T) {
	svc, chars, facts := newMemoryFixture()
	owner := uuid.New()
	ch := seedFakeCharacter(chars, owner)
	fact := &types.MemoryFact{ID: uuid.New(), CharacterID: ch.ID, Content: "old", Priority: types.PriorityLow}
	facts.facts[fact.ID] = fact

	stranger := uuid.New()
	newContent := "new"
	if _, err := svc.Update(testutil.Ctx(), stranger, fact.ID, FactUpdate{Content: &newContent}); !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("expected NotFound for stranger update, got %v", err)
	}
	if err := svc.Delete(testutil.Ctx(), stranger, fact.ID); !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("expected NotFound for stranger delete, got %v", err)
	}

	updated, err := svc.Update(testutil.Ctx(), owner, fact.ID, FactUpdate{Content: &newContent})
	if err != nil {
		t.Fatalf("owner update: %v", err)
	}
	if updated.Content != "new" || updated.Priority != types.PriorityLow {
		t.Fatalf("unexpected update result: %+v", updated)
	}

	if err := svc.Delete(testutil.Ctx(), owner, fact.ID); err != nil {
		t.Fatalf("owner delete: %v", err)
	}
	if err := svc.Delete(testutil.Ctx(), owner, fact.ID); !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("expected NotFound on second delete, got %v", err)
	}
}

func TestMemoryUpdate_RejectsBlankContentAndBadPriority(t *testing.T) {
	svc, chars, facts := newMemoryFixture()
	owner := uuid.New()
	ch := seedFakeCharacter(chars, owner)
	fact := &types.MemoryFact{ID: uuid.New(), CharacterID: ch.ID, Content: "keep", Priority: types.PriorityMedium}
	facts.facts[fact.ID] = fact

	blank := "   "
	if _, err := svc.Update(testutil.Ctx(), owner, fact.ID, FactUpdate{Content: &blank}); !errors.Is(err, apperr.ErrInvalidArgument) {
		t.Fatalf("expected InvalidArgument for blank content, got %v", err)
	}
	bad := "whenever"
	if _, err := svc.Update(testutil.Ctx(), owner, fact.ID, FactUpdate{Priority: &bad}); !errors.Is(err, apperr.ErrInvalidArgument) {
		t.Fatalf("expected InvalidArgument for bad priority, got %v", err)
	}
}

func TestMemoryList_OnlyCreatorsFacts(t *testing.T) {
	svc, chars, facts := newMemoryFixture()
	owner := uuid.New()
	other := uuid.New()
	mine := seedFakeCharacter(chars, owner)
	theirs := seedFakeCharacter(chars, other)
	f1 := &types.MemoryFact{ID: uuid.New(), CharacterID: mine.ID, Content: "mine", Priority: types.PriorityMedium}
	f2 := &types.MemoryFact{ID: uuid.New(), CharacterID: theirs.ID, Content: "theirs", Priority: types.PriorityMedium}
	facts.facts[f1.ID] = f1
	facts.facts[f2.ID] = f2

	got, err := svc.List(testutil.Ctx(), owner)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(got) != 1 || got[0].Content != "mine" {
		t.Fatalf("expected only the creator's fact, got %d", len(got))
	}
}
