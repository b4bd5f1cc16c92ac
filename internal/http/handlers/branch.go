package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/talekeep/talekeep-backend/internal/http/response"
	"github.com/talekeep/talekeep-backend/internal/pkg/dbctx"
	"github.com/talekeep/talekeep-backend/internal/services"
)

type BranchHandler struct {
	branches services.BranchService
}

func NewBranchHandler(branches services.BranchService) *BranchHandler {
	return &BranchHandler{branches: branches}
}

type createBranchReq struct {
	ConversationID uuid.UUID   `json:"conversation_id"`
	Name           string      `json:"name"`
	ParentID       *uuid.UUID  `json:"parent_id"`
	SeedMessageIDs []uuid.UUID `json:"seed_message_ids"`
}

type renameBranchReq struct {
	Name string `json:"name"`
}

type mergeBranchesReq struct {
	SourceBranchID uuid.UUID `json:"source_branch_id"`
	TargetBranchID uuid.UUID `json:"target_branch_id"`
}

// GET /api/chat/branches?conversation_id=
func (h *BranchHandler) List(c *gin.Context) {
	conversationID, err := uuid.Parse(c.Query("conversation_id"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_conversation_id", err)
		return
	}
	dbc := dbctx.Context{Ctx: c.Request.Context()}
	branches, err := h.branches.List(dbc, currentUserID(c), conversationID)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"branches": branches})
}

// POST /api/chat/branches
func (h *BranchHandler) Create(c *gin.Context) {
	var req createBranchReq
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	dbc := dbctx.Context{Ctx: c.Request.Context()}
	branch, err := h.branches.Create(dbc, currentUserID(c), req.ConversationID, req.Name, req.ParentID, req.SeedMessageIDs)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.RespondCreated(c, gin.H{"branch": branch})
}

// GET /api/chat/branches/:id
func (h *BranchHandler) Get(c *gin.Context) {
	branchID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_branch_id", err)
		return
	}
	dbc := dbctx.Context{Ctx: c.Request.Context()}
	branch, err := h.branches.Get(dbc, currentUserID(c), branchID)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"branch": branch})
}

// PUT /api/chat/branches/:id
func (h *BranchHandler) Rename(c *gin.Context) {
	branchID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_branch_id", err)
		return
	}
	var req renameBranchReq
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	dbc := dbctx.Context{Ctx: c.Request.Context()}
	branch, err := h.branches.Rename(dbc, currentUserID(c), branchID, req.Name)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"branch": branch})
}

// DELETE /api/chat/branches/:id
func (h *BranchHandler) Delete(c *gin.Context) {
	branchID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_branch_id", err)
		return
	}
	dbc := dbctx.Context{Ctx: c.Request.Context()}
	if err := h.branches.Delete(dbc, currentUserID(c), branchID); err != nil {
		response.FromError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"deleted": true})
}

// POST /api/chat/branches/merge
func (h *BranchHandler) Merge(c *gin.Context) {
	var req mergeBranchesReq
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	dbc := dbctx.Context{Ctx: c.Request.Context()}
	if err := h.branches.Merge(dbc, currentUserID(c), req.SourceBranchID, req.TargetBranchID); err != nil {
		response.FromError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"merged": true})
}
