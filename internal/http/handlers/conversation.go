package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/talekeep/talekeep-backend/internal/http/response"
	"github.com/talekeep/talekeep-backend/internal/pkg/dbctx"
	"github.com/talekeep/talekeep-backend/internal/services"
)

type ConversationHandler struct {
	conversations services.ConversationService
}

func NewConversationHandler(conversations services.ConversationService) *ConversationHandler {
	return &ConversationHandler{conversations: conversations}
}

type createConversationReq struct {
	CharacterID uuid.UUID `json:"character_id"`
	Title       string    `json:"title"`
}

type defaultConversationReq struct {
	CharacterID uuid.UUID `json:"character_id"`
}

type appendMessageReq struct {
	BranchID *uuid.UUID `json:"branch_id"`
	Sender   string     `json:"sender"`
	Content  string     `json:"content"`
	IsVoice  bool       `json:"is_voice"`
	VoiceURL string     `json:"voice_url"`
}

// GET /api/conversations
func (h *ConversationHandler) List(c *gin.Context) {
	dbc := dbctx.Context{Ctx: c.Request.Context()}
	convs, err := h.conversations.ListConversations(dbc, currentUserID(c))
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"conversations": convs})
}

// POST /api/conversations
func (h *ConversationHandler) Create(c *gin.Context) {
	var req createConversationReq
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	dbc := dbctx.Context{Ctx: c.Request.Context()}
	conv, err := h.conversations.CreateConversation(dbc, currentUserID(c), req.CharacterID, req.Title)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.RespondCreated(c, gin.H{"conversation": conv})
}

// POST /api/conversations/default
func (h *ConversationHandler) FindOrCreateDefault(c *gin.Context) {
	var req defaultConversationReq
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	dbc := dbctx.Context{Ctx: c.Request.Context()}
	conv, err := h.conversations.FindOrCreateDefault(dbc, currentUserID(c), req.CharacterID)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"conversation": conv})
}

// GET /api/conversations/:id/messages?branch_id=
func (h *ConversationHandler) ListMessages(c *gin.Context) {
	conversationID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_conversation_id", err)
		return
	}
	var branchID *uuid.UUID
	if v := strings.TrimSpace(c.Query("branch_id")); v != "" {
		id, err := uuid.Parse(v)
		if err != nil {
			response.RespondError(c, http.StatusBadRequest, "invalid_branch_id", err)
			return
		}
		branchID = &id
	}
	dbc := dbctx.Context{Ctx: c.Request.Context()}
	msgs, err := h.conversations.ListMessages(dbc, currentUserID(c), conversationID, branchID)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"messages": msgs})
}

// POST /api/conversations/:id/messages
func (h *ConversationHandler) AppendMessage(c *gin.Context) {
	conversationID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_conversation_id", err)
		return
	}
	var req appendMessageReq
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	dbc := dbctx.Context{Ctx: c.Request.Context()}
	msg, err := h.conversations.AppendMessage(dbc, currentUserID(c), conversationID, req.BranchID, req.Sender, req.Content, req.IsVoice, req.VoiceURL)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.RespondCreated(c, gin.H{"message": msg})
}
