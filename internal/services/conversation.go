package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/talekeep/talekeep-backend/internal/data/repos"
	types "github.com/talekeep/talekeep-backend/internal/domain"
	"github.com/talekeep/talekeep-backend/internal/pkg/apperr"
	"github.com/talekeep/talekeep-backend/internal/pkg/dbctx"
	"github.com/talekeep/talekeep-backend/internal/pkg/logger"
)

type ConversationService interface {
	// FindOrCreateDefault resolves the single default conversation for
	// (user, character), creating it on first contact. Idempotent under
	// concurrent callers.
	FindOrCreateDefault(dbc dbctx.Context, userID, characterID uuid.UUID) (*types.Conversation, error)
	CreateConversation(dbc dbctx.Context, userID, characterID uuid.UUID, title string) (*types.Conversation, error)
	ListConversations(dbc dbctx.Context, userID uuid.UUID) ([]repos.ConversationSummary, error)

	// AppendMessage is the collaborator API the chat/response layer
	// consumes. A nil branchID appends to the unbranched root timeline.
	AppendMessage(dbc dbctx.Context, userID, conversationID uuid.UUID, branchID *uuid.UUID, sender, content string, isVoice bool, voiceURL string) (*types.Message, error)
	ListMessages(dbc dbctx.Context, userID, conversationID uuid.UUID, branchID *uuid.UUID) ([]*types.Message, error)

	// ResolveOwned returns the conversation when it belongs to userID and
	// apperr.ErrNotFound otherwise (missing and not-owned collapse).
	ResolveOwned(dbc dbctx.Context, userID, conversationID uuid.UUID) (*types.Conversation, error)
}

type conversationService struct {
	db  *gorm.DB
	log *logger.Logger

	conversations repos.ConversationRepo
	characters    repos.CharacterRepo
	messages      repos.MessageRepo
}

func NewConversationService(
	db *gorm.DB,
	baseLog *logger.Logger,
	conversationRepo repos.ConversationRepo,
	characterRepo repos.CharacterRepo,
	messageRepo repos.MessageRepo,
) ConversationService {
	return &conversationService{
		db:            db,
		log:           baseLog.With("service", "ConversationService"),
		conversations: conversationRepo,
		characters:    characterRepo,
		messages:      messageRepo,
	}
}

func (s *conversationService) FindOrCreateDefault(dbc dbctx.Context, userID, characterID uuid.UUID) (*types.Conversation, error) {
	if userID == uuid.Nil {
		return nil, apperr.ErrUnauthorized
	}
	if characterID == uuid.Nil {
		return nil, fmt.Errorf("character id: %w", apperr.ErrInvalidArgument)
	}

	ch, err := s.characters.GetByID(dbc, characterID)
	if err != nil {
		return nil, err
	}
	if ch == nil {
		return nil, fmt.Errorf("character: %w", apperr.ErrNotFound)
	}

	conv, err := s.conversations.FindOrCreateDefault(dbc, userID, characterID, ch.Name)
	if err != nil {
		return nil, err
	}
	return conv, nil
}

func (s *conversationService) CreateConversation(dbc dbctx.Context, userID, characterID uuid.UUID, title string) (*types.Conversation, error) {
	if userID == uuid.Nil {
		return nil, apperr.ErrUnauthorized
	}
	if characterID == uuid.Nil {
		return nil, fmt.Errorf("character id: %w", apperr.ErrInvalidArgument)
	}
	ch, err := s.characters.GetByID(dbc, characterID)
	if err != nil {
		return nil, err
	}
	if ch == nil {
		return nil, fmt.Errorf("character: %w", apperr.ErrNotFound)
	}
	title = strings.TrimSpace(title)
	if title == "" {
		title = ch.Name
	}
	rows, err := s.conversations.Create(dbc, []*types.Conversation{{
		UserID:      userID,
		CharacterID: characterID,
		Title:       title,
	}})
	if err != nil {
		return nil, err
	}
	return rows[0], nil
}

func (s *conversationService) ListConversations(dbc dbctx.Context, userID uuid.UUID) ([]repos.ConversationSummary, error) {
	if userID == uuid.Nil {
		return nil, apperr.ErrUnauthorized
	}
	return s.conversations.ListByUser(dbc, userID)
}

func (s *conversationService) ResolveOwned(dbc dbctx.Context, userID, conversationID uuid.UUID) (*types.Conversation, error) {
	if userID == uuid.Nil {
		return nil, apperr.ErrUnauthorized
	}
	if conversationID == uuid.Nil {
		return nil, fmt.Errorf("conversation id: %w", apperr.ErrInvalidArgument)
	}
	conv, err := s.conversations.GetOwned(dbc, conversationID, userID)
	if err != nil {
		return nil, err
	}
	if conv == nil {
		return nil, fmt.Errorf("conversation: %w", apperr.ErrNotFound)
	}
	return conv, nil
}

func (s *conversationService) AppendMessage(dbc dbctx.Context, userID, conversationID uuid.UUID, branchID *uuid.UUID, sender, content string, isVoice bool, voiceURL string) (*types.Message, error) {
	if userID == uuid.Nil {
		return nil, apperr.ErrUnauthorized
	}
	sender = normalizeSender(sender)
	if sender == "" {
		return nil, fmt.Errorf("sender: %w", apperr.ErrInvalidArgument)
	}
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, fmt.Errorf("content: %w", apperr.ErrInvalidArgument)
	}

	transaction := dbc.Tx
	if transaction == nil {
		transaction = s.db
	}

	var msg *types.Message
	err := transaction.WithContext(dbc.Ctx).Transaction(func(txx *gorm.DB) error {
		inner := dbctx.Context{Ctx: dbc.Ctx, Tx: txx}

		// Lock the conversation row so seq allocation is serial per
		// conversation timeline.
		conv, err := s.conversations.LockByID(inner, conversationID)
		if err != nil {
			return err
		}
		if conv == nil || conv.UserID != userID {
			return fmt.Errorf("conversation: %w", apperr.ErrNotFound)
		}

		if branchID != nil && *branchID != uuid.Nil {
			var b types.Branch
			err := txx.WithContext(dbc.Ctx).
				Model(&types.Branch{}).
				Where("id = ? AND conversation_id = ?", *branchID, conversationID).
				First(&b).Error
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("branch: %w", apperr.ErrNotFound)
			}
			if err != nil {
				return err
			}
		}

		maxSeq, err := s.messages.GetMaxSeq(inner, conversationID, branchID)
		if err != nil {
			return err
		}
		rows, err := s.messages.Create(inner, []*types.Message{{
			ConversationID: conversationID,
			BranchID:       branchID,
			Seq:            maxSeq + 1,
			Sender:         sender,
			Content:        content,
			IsVoice:        isVoice,
			VoiceURL:       voiceURL,
		}})
		if err != nil {
			return err
		}
		msg = rows[0]

		return s.conversations.Touch(inner, conversationID)
	})
	if err != nil {
		return nil, err
	}
	return msg, nil
}

func (s *conversationService) ListMessages(dbc dbctx.Context, userID, conversationID uuid.UUID, branchID *uuid.UUID) ([]*types.Message, error) {
	if _, err := s.ResolveOwned(dbc, userID, conversationID); err != nil {
		return nil, err
	}
	return s.messages.ListByBranch(dbc, conversationID, branchID)
}

func normalizeSender(sender string) string {
	switch strings.ToLower(strings.TrimSpace(sender)) {
	case types.SenderUser:
		return types.SenderUser
	case types.SenderAssistant, "bot", "ai":
		return types.SenderAssistant
	}
	return ""
}
