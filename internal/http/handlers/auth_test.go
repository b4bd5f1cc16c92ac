package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	types "github.com/talekeep/talekeep-backend/internal/domain"
	"github.com/talekeep/talekeep-backend/internal/pkg/dbctx"
	"github.com/talekeep/talekeep-backend/internal/services"
)

// fakeUserRepo enforces the same uniqueness the real table does, so the
// mint path cannot get away with colliding placeholder values.
type fakeUserRepo struct {
	byID       map[uuid.UUID]*types.User
	byEmail    map[string]uuid.UUID
	byUsername map[string]uuid.UUID
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{
		byID:       map[uuid.UUID]*types.User{},
		byEmail:    map[string]uuid.UUID{},
		byUsername: map[string]uuid.UUID{},
	}
}

func (f *fakeUserRepo) Create(dbc dbctx.Context, rows []*types.User) ([]*types.User, error) {
	for _, u := range rows {
		if u.ID == uuid.Nil {
			u.ID = uuid.New()
		}
		if _, dup := f.byEmail[u.Email]; dup {
			return nil, fmt.Errorf("duplicate key value violates unique constraint on email")
		}
		if _, dup := f.byUsername[u.Username]; dup {
			return nil, fmt.Errorf("duplicate key value violates unique constraint on username")
		}
		f.byID[u.ID] = u
		f.byEmail[u.Email] = u.ID
		f.byUsername[u.Username] = u.ID
	}
	return rows, nil
}

func (f *fakeUserRepo) GetByIDs(dbc dbctx.Context, ids []uuid.UUID) ([]*types.User, error) {
	var out []*types.User
	for _, id := range ids {
		if u, ok := f.byID[id]; ok {
			out = append(out, u)
		}
	}
	return out, nil
}

func (f *fakeUserRepo) GetByEmail(dbc dbctx.Context, email string) (*types.User, error) {
	id, ok := f.byEmail[email]
	if !ok {
		return nil, nil
	}
	return f.byID[id], nil
}

func newAuthMintRouter(users *fakeUserRepo) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	h := NewAuthHandler(services.NewTokenService(), users)
	r.POST("/api/auth/token", h.MintToken)
	return r
}

func mintOnce(t *testing.T, r *gin.Engine, body string) map[string]any {
	t.Helper()
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/auth/token", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("mint: expected 200, got %d (%s)", w.Code, w.Body.String())
	}
	var out map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode mint response: %v", err)
	}
	return out
}

func TestMintToken_DefaultedFieldsGetUniquePlaceholders(t *testing.T) {
	users := newFakeUserRepo()
	r := newAuthMintRouter(users)

	first := mintOnce(t, r, `{}`)
	second := mintOnce(t, r, `{}`)
	if first["user_id"] == second["user_id"] {
		t.Fatalf("expected distinct users per defaulted mint")
	}
	if len(users.byID) != 2 {
		t.Fatalf("expected 2 user rows, got %d", len(users.byID))
	}
	for _, u := range users.byID {
		if u.Email == "" || u.Username == "" {
			t.Fatalf("placeholder fields must not be blank: %+v", u)
		}
	}
}

func TestMintToken_ReMintForExistingUserDoesNotRecreate(t *testing.T) {
	users := newFakeUserRepo()
	r := newAuthMintRouter(users)

	userID := uuid.New()
	body := fmt.Sprintf(`{"user_id":%q}`, userID)
	mintOnce(t, r, body)
	mintOnce(t, r, body)
	if len(users.byID) != 1 {
		t.Fatalf("expected a single user row, got %d", len(users.byID))
	}
}

func TestMintToken_ExplicitFieldsPassThrough(t *testing.T) {
	users := newFakeUserRepo()
	r := newAuthMintRouter(users)

	mintOnce(t, r, `{"email":"mira@example.com","username":"mira"}`)
	if _, ok := users.byEmail["mira@example.com"]; !ok {
		t.Fatalf("expected explicit email to be stored")
	}
	if _, ok := users.byUsername["mira"]; !ok {
		t.Fatalf("expected explicit username to be stored")
	}
}
