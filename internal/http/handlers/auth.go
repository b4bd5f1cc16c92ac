package handlers

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/talekeep/talekeep-backend/internal/data/repos"
	types "github.com/talekeep/talekeep-backend/internal/domain"
	"github.com/talekeep/talekeep-backend/internal/http/response"
	"github.com/talekeep/talekeep-backend/internal/pkg/dbctx"
	"github.com/talekeep/talekeep-backend/internal/services"
)

// AuthHandler mints trusted dev tokens. Real identity (signup, login,
// oauth) lives in front of this service; the mint endpoint exists so the
// API is exercisable standalone.
type AuthHandler struct {
	tokens services.TokenService
	users  repos.UserRepo
}

func NewAuthHandler(tokens services.TokenService, users repos.UserRepo) *AuthHandler {
	return &AuthHandler{tokens: tokens, users: users}
}

type mintTokenReq struct {
	UserID   *uuid.UUID `json:"user_id"`
	Email    string     `json:"email"`
	Username string     `json:"username"`
	TTLHours int        `json:"ttl_hours"`
}

// POST /api/auth/token
func (h *AuthHandler) MintToken(c *gin.Context) {
	var req mintTokenReq
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	dbc := dbctx.Context{Ctx: c.Request.Context()}

	userID := uuid.New()
	if req.UserID != nil && *req.UserID != uuid.Nil {
		userID = *req.UserID
	}

	// Make sure a user row backs the token so foreign keys hold.
	existing, err := h.users.GetByIDs(dbc, []uuid.UUID{userID})
	if err != nil {
		response.FromError(c, err)
		return
	}
	if len(existing) == 0 {
		// Blank fields get per-user placeholders; email and username
		// carry unique indexes.
		email := strings.TrimSpace(req.Email)
		if email == "" {
			email = fmt.Sprintf("%s@talekeep.local", userID)
		}
		username := strings.TrimSpace(req.Username)
		if username == "" {
			username = "user-" + userID.String()
		}
		if _, err := h.users.Create(dbc, []*types.User{{
			ID:       userID,
			Email:    email,
			Username: username,
		}}); err != nil {
			response.FromError(c, err)
			return
		}
	}

	ttl := 24 * time.Hour
	if req.TTLHours > 0 {
		ttl = time.Duration(req.TTLHours) * time.Hour
	}
	token, err := h.tokens.Mint(userID, ttl)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"token": token, "user_id": userID})
}
