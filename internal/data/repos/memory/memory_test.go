package memory_test

import (
	"testing"

	"github.com/talekeep/talekeep-backend/internal/data/repos"
	"github.com/talekeep/talekeep-backend/internal/data/repos/testutil"
	types "github.com/talekeep/talekeep-backend/internal/domain"
)

func TestFactRepo_GetOwnedRunsThroughCharacterCreator(t *testing.T) {
	db := testutil.DB(t)
	r := repos.NewMemoryFactRepo(db, testutil.Logger())

	owner := testutil.SeedUser(t, db)
	stranger := testutil.SeedUser(t, db)
	ch := testutil.SeedCharacter(t, db, owner.ID)
	fact := testutil.SeedFact(t, db, ch.ID, "remembers the lighthouse", types.PriorityHigh)

	got, err := r.GetOwned(testutil.Ctx(), fact.ID, owner.ID)
	if err != nil {
		t.Fatalf("GetOwned owner: %v", err)
	}
	if got == nil || got.ID != fact.ID {
		t.Fatalf("expected the owner's fact back")
	}

	got, err = r.GetOwned(testutil.Ctx(), fact.ID, stranger.ID)
	if err != nil {
		t.Fatalf("GetOwned stranger: %v", err)
	}
	if got != nil {
		t.Fatalf("expected nil for non-creator")
	}
}

func TestFactRepo_CreateDefaultsPriority(t *testing.T) {
	db := testutil.DB(t)
	r := repos.NewMemoryFactRepo(db, testutil.Logger())

	owner := testutil.SeedUser(t, db)
	ch := testutil.SeedCharacter(t, db, owner.ID)

	rows, err := r.Create(testutil.Ctx(), []*types.MemoryFact{{
		CharacterID: ch.ID,
		Content:     "no priority given",
	}})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if rows[0].Priority != types.PriorityMedium {
		t.Fatalf("expected medium default, got %q", rows[0].Priority)
	}
}

func TestFactRepo_ListByCreatorOldestFirstWithNames(t *testing.T) {
	db := testutil.DB(t)
	r := repos.NewMemoryFactRepo(db, testutil.Logger())

	owner := testutil.SeedUser(t, db)
	ch := testutil.SeedCharacter(t, db, owner.ID)
	first := testutil.SeedFact(t, db, ch.ID, "first", types.PriorityLow)
	second := testutil.SeedFact(t, db, ch.ID, "second", types.PriorityLow)
	// Pin timestamps so the order assertion cannot tie.
	if err := db.Model(&types.MemoryFact{}).Where("id = ?", first.ID).Update("created_at", "2024-01-01T00:00:00Z").Error; err != nil {
		t.Fatalf("pin created_at: %v", err)
	}
	if err := db.Model(&types.MemoryFact{}).Where("id = ?", second.ID).Update("created_at", "2024-01-02T00:00:00Z").Error; err != nil {
		t.Fatalf("pin created_at: %v", err)
	}

	got, err := r.ListByCreator(testutil.Ctx(), owner.ID)
	if err != nil {
		t.Fatalf("ListByCreator: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 facts, got %d", len(got))
	}
	if got[0].ID != first.ID || got[1].ID != second.ID {
		t.Fatalf("expected oldest first")
	}
	if got[0].CharacterName != ch.Name {
		t.Fatalf("expected character name %q, got %q", ch.Name, got[0].CharacterName)
	}
}
