package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/talekeep/talekeep-backend/internal/http/response"
	"github.com/talekeep/talekeep-backend/internal/pkg/dbctx"
	"github.com/talekeep/talekeep-backend/internal/services"
)

type MemoryHandler struct {
	memories services.MemoryService
}

func NewMemoryHandler(memories services.MemoryService) *MemoryHandler {
	return &MemoryHandler{memories: memories}
}

type createMemoryReq struct {
	CharacterID uuid.UUID `json:"character_id"`
	Content     string    `json:"content"`
	Priority    string    `json:"priority"`
}

type updateMemoryReq struct {
	Content  *string `json:"content"`
	Priority *string `json:"priority"`
}

// GET /api/memories
func (h *MemoryHandler) List(c *gin.Context) {
	dbc := dbctx.Context{Ctx: c.Request.Context()}
	facts, err := h.memories.List(dbc, currentUserID(c))
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"memories": facts})
}

// POST /api/memories
func (h *MemoryHandler) Create(c *gin.Context) {
	var req createMemoryReq
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	dbc := dbctx.Context{Ctx: c.Request.Context()}
	fact, err := h.memories.Create(dbc, currentUserID(c), req.CharacterID, req.Content, req.Priority)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.RespondCreated(c, gin.H{"memory": fact})
}

// PUT /api/memories/:id
func (h *MemoryHandler) Update(c *gin.Context) {
	factID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_memory_id", err)
		return
	}
	var req updateMemoryReq
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	dbc := dbctx.Context{Ctx: c.Request.Context()}
	fact, err := h.memories.Update(dbc, currentUserID(c), factID, services.FactUpdate{
		Content:  req.Content,
		Priority: req.Priority,
	})
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"memory": fact})
}

// DELETE /api/memories/:id
func (h *MemoryHandler) Delete(c *gin.Context) {
	factID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_memory_id", err)
		return
	}
	dbc := dbctx.Context{Ctx: c.Request.Context()}
	if err := h.memories.Delete(dbc, currentUserID(c), factID); err != nil {
		response.FromError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"deleted": true})
}
