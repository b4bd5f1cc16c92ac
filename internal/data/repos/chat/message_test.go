package chat_test

import (
	"testing"

	"github.com/talekeep/talekeep-backend/internal/data/repos"
	"github.com/talekeep/talekeep-backend/internal/data/repos/testutil"
	types "github.com/talekeep/talekeep-backend/internal/domain"
)

func TestMessageRepo_ListByBranchSeparatesRootAndBranch(t *testing.T) {
	db := testutil.DB(t)
	r := repos.NewMessageRepo(db, testutil.Logger())

	user := testutil.SeedUser(t, db)
	char := testutil.SeedCharacter(t, db, user.ID)
	conv := testutil.SeedConversation(t, db, user.ID, char.ID)
	branch := testutil.SeedBranch(t, db, conv.ID, nil)

	testutil.SeedMessage(t, db, conv.ID, nil, 2, types.SenderAssistant, "root-2")
	testutil.SeedMessage(t, db, conv.ID, nil, 1, types.SenderUser, "root-1")
	testutil.SeedMessage(t, db, conv.ID, &branch.ID, 1, types.SenderUser, "branch-1")

	root, err := r.ListByBranch(testutil.Ctx(), conv.ID, nil)
	if err != nil {
		t.Fatalf("ListByBranch root: %v", err)
	}
	if len(root) != 2 || root[0].Content != "root-1" || root[1].Content != "root-2" {
		t.Fatalf("expected root timeline ordered by seq, got %d", len(root))
	}

	branched, err := r.ListByBranch(testutil.Ctx(), conv.ID, &branch.ID)
	if err != nil {
		t.Fatalf("ListByBranch branch: %v", err)
	}
	if len(branched) != 1 || branched[0].Content != "branch-1" {
		t.Fatalf("expected only the branch message, got %d", len(branched))
	}
}

func TestMessageRepo_GetMaxSeqPerTimeline(t *testing.T) {
	db := testutil.DB(t)
	r := repos.NewMessageRepo(db, testutil.Logger())

	user := testutil.SeedUser(t, db)
	char := testutil.SeedCharacter(t, db, user.ID)
	conv := testutil.SeedConversation(t, db, user.ID, char.ID)
	branch := testutil.SeedBranch(t, db, conv.ID, nil)

	testutil.SeedMessage(t, db, conv.ID, nil, 5, types.SenderUser, "root")
	testutil.SeedMessage(t, db, conv.ID, &branch.ID, 3, types.SenderUser, "branched")

	rootMax, err := r.GetMaxSeq(testutil.Ctx(), conv.ID, nil)
	if err != nil {
		t.Fatalf("GetMaxSeq root: %v", err)
	}
	if rootMax != 5 {
		t.Fatalf("expected root max 5, got %d", rootMax)
	}
	branchMax, err := r.GetMaxSeq(testutil.Ctx(), conv.ID, &branch.ID)
	if err != nil {
		t.Fatalf("GetMaxSeq branch: %v", err)
	}
	if branchMax != 3 {
		t.Fatalf("expected branch max 3, got %d", branchMax)
	}

	empty := testutil.SeedBranch(t, db, conv.ID, nil)
	emptyMax, err := r.GetMaxSeq(testutil.Ctx(), conv.ID, &empty.ID)
	if err != nil {
		t.Fatalf("GetMaxSeq empty: %v", err)
	}
	if emptyMax != 0 {
		t.Fatalf("expected 0 for empty branch, got %d", emptyMax)
	}
}

func TestBranchRepo_ReparentChildren(t *testing.T) {
	db := testutil.DB(t)
	r := repos.NewBranchRepo(db, testutil.Logger())

	user := testutil.SeedUser(t, db)
	char := testutil.SeedCharacter(t, db, user.ID)
	conv := testutil.SeedConversation(t, db, user.ID, char.ID)

	grandparent := testutil.SeedBranch(t, db, conv.ID, nil)
	parent := testutil.SeedBranch(t, db, conv.ID, &grandparent.ID)
	child := testutil.SeedBranch(t, db, conv.ID, &parent.ID)

	if err := r.ReparentChildren(testutil.Ctx(), conv.ID, parent.ID, parent.ParentID); err != nil {
		t.Fatalf("ReparentChildren: %v", err)
	}
	reloaded, err := r.GetByID(testutil.Ctx(), child.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if reloaded.ParentID == nil || *reloaded.ParentID != grandparent.ID {
		t.Fatalf("expected child moved under grandparent")
	}
}

func TestBranchRepo_UpdateFieldsReportsMisses(t *testing.T) {
	db := testutil.DB(t)
	r := repos.NewBranchRepo(db, testutil.Logger())

	user := testutil.SeedUser(t, db)
	char := testutil.SeedCharacter(t, db, user.ID)
	conv := testutil.SeedConversation(t, db, user.ID, char.ID)
	b := testutil.SeedBranch(t, db, conv.ID, nil)

	n, err := r.UpdateFields(testutil.Ctx(), b.ID, map[string]interface{}{"name": "renamed"})
	if err != nil {
		t.Fatalf("UpdateFields: %v", err)
	}
	if n != 1 {
		t.Fatalf("expected 1 row updated, got %d", n)
	}

	if _, err := r.DeleteByID(testutil.Ctx(), b.ID); err != nil {
		t.Fatalf("DeleteByID: %v", err)
	}
	n, err = r.UpdateFields(testutil.Ctx(), b.ID, map[string]interface{}{"name": "ghost"})
	if err != nil {
		t.Fatalf("UpdateFields after delete: %v", err)
	}
	if n != 0 {
		t.Fatalf("expected 0 rows for deleted branch, got %d", n)
	}
}

func TestBranchRepo_DeleteByIDReportsMisses(t *testing.T) {
	db := testutil.DB(t)
	r := repos.NewBranchRepo(db, testutil.Logger())

	user := testutil.SeedUser(t, db)
	char := testutil.SeedCharacter(t, db, user.ID)
	conv := testutil.SeedConversation(t, db, user.ID, char.ID)
	b := testutil.SeedBranch(t, db, conv.ID, nil)

	n, err := r.DeleteByID(testutil.Ctx(), b.ID)
	if err != nil {
		t.Fatalf("DeleteByID: %v", err)
	}
	if n != 1 {
		t.Fatalf("expected 1 row deleted, got %d", n)
	}
	n, err = r.DeleteByID(testutil.Ctx(), b.ID)
	if err != nil {
		t.Fatalf("second DeleteByID: %v", err)
	}
	if n != 0 {
		t.Fatalf("expected 0 rows on repeat delete, got %d", n)
	}
}
