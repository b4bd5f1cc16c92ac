package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/talekeep/talekeep-backend/internal/http/response"
	"github.com/talekeep/talekeep-backend/internal/pkg/dbctx"
	"github.com/talekeep/talekeep-backend/internal/services"
)

type CharacterHandler struct {
	characters services.CharacterService
}

func NewCharacterHandler(characters services.CharacterService) *CharacterHandler {
	return &CharacterHandler{characters: characters}
}

type createCharacterReq struct {
	Name        string                 `json:"name"`
	Avatar      string                 `json:"avatar"`
	Description string                 `json:"description"`
	Personality map[string]interface{} `json:"personality"`
	Traits      []string               `json:"traits"`
	Skills      []string               `json:"skills"`
	IsPublic    bool                   `json:"is_public"`
}

// GET /api/characters
func (h *CharacterHandler) List(c *gin.Context) {
	dbc := dbctx.Context{Ctx: c.Request.Context()}
	chars, err := h.characters.List(dbc, currentUserID(c))
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"characters": chars})
}

// POST /api/characters
func (h *CharacterHandler) Create(c *gin.Context) {
	var req createCharacterReq
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	dbc := dbctx.Context{Ctx: c.Request.Context()}
	char, err := h.characters.Create(dbc, currentUserID(c), services.CharacterInput{
		Name:        req.Name,
		Avatar:      req.Avatar,
		Description: req.Description,
		Personality: req.Personality,
		Traits:      req.Traits,
		Skills:      req.Skills,
		IsPublic:    req.IsPublic,
	})
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.RespondCreated(c, gin.H{"character": char})
}

// GET /api/characters/:id
func (h *CharacterHandler) Get(c *gin.Context) {
	characterID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_character_id", err)
		return
	}
	dbc := dbctx.Context{Ctx: c.Request.Context()}
	char, err := h.characters.Get(dbc, currentUserID(c), characterID)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"character": char})
}
