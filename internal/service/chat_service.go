package service

import (
	"context"

	"housegig/internal/models"
	"housegig/internal/observability"
	"housegig/internal/repository"
)

const maxMessageLen = 2000

type ChatService struct {
	chatRepo repository.ChatRepository
	userRepo repository.UserRepository
}

func NewChatService(chatRepo repository.ChatRepository, userRepo repository.UserRepository) *ChatService {
	return &ChatService{chatRepo: chatRepo, userRepo: userRepo}
}

// GetOrCreateConversation returns the existing conversation with the other
// user or creates one. Calling it repeatedly never produces duplicates.
func (s *ChatService) GetOrCreateConversation(ctx context.Context, userID, otherUserID uint) (*models.Conversation, error) {
	if userID == otherUserID {
		return nil, models.NewValidationError("You cannot message yourself")
	}
	if _, err := s.userRepo.GetProfile(ctx, otherUserID); err != nil {
		return nil, coerce(err, "User not found")
	}

	existing, err := s.chatRepo.FindDirectConversation(ctx, userID, otherUserID)
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	if existing != nil {
		return s.loadConversation(ctx, existing.ID)
	}

	created, err := s.chatRepo.CreateDirectConversation(ctx, userID, otherUserID)
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return s.loadConversation(ctx, created.ID)
}

// GetConversation returns the conversation with messages for a participant.
func (s *ChatService) GetConversation(ctx context.Context, conversationID, userID uint) (*models.Conversation, error) {
	if err := s.requireParticipant(ctx, conversationID, userID); err != nil {
		return nil, err
	}
	return s.loadConversation(ctx, conversationID)
}

// ListConversations returns the user's conversations newest-activity first,
// each with the other participant, the latest message, and the unread count.
func (s *ChatService) ListConversations(ctx context.Context, userID uint) ([]*models.ConversationSummary, error) {
	conversations, err := s.chatRepo.GetUserConversations(ctx, userID)
	if err != nil {
		return nil, models.NewInternalError(err)
	}

	summaries := make([]*models.ConversationSummary, 0, len(conversations))
	for _, conv := range conversations {
		summary := &models.ConversationSummary{Conversation: *conv}

		if summary.OtherUser, err = s.chatRepo.OtherParticipant(ctx, conv.ID, userID); err != nil {
			return nil, models.NewInternalError(err)
		}
		if summary.LastMessage, err = s.chatRepo.LastMessage(ctx, conv.ID); err != nil {
			return nil, models.NewInternalError(err)
		}
		if summary.UnreadCount, err = s.chatRepo.UnreadCount(ctx, conv.ID, userID); err != nil {
			return nil, models.NewInternalError(err)
		}
		summaries = append(summaries, summary)
	}
	return summaries, nil
}

// SendMessage appends a message to a conversation the sender participates in.
func (s *ChatService) SendMessage(ctx context.Context, conversationID, senderID uint, content string) (*models.Message, error) {
	if content == "" {
		return nil, models.NewValidationError("Content is required")
	}
	if len(content) > maxMessageLen {
		return nil, models.NewValidationError("Message too long (max 2000 characters)")
	}
	if err := s.requireParticipant(ctx, conversationID, senderID); err != nil {
		return nil, err
	}

	msg := &models.Message{
		ConversationID: conversationID,
		SenderID:       senderID,
		Content:        content,
	}
	if err := s.chatRepo.CreateMessage(ctx, msg); err != nil {
		return nil, models.NewInternalError(err)
	}

	observability.MessagesSent.Inc()
	return msg, nil
}

// MarkRead advances the caller's unread watermark to now.
func (s *ChatService) MarkRead(ctx context.Context, conversationID, userID uint) error {
	if err := s.requireParticipant(ctx, conversationID, userID); err != nil {
		return err
	}
	if err := s.chatRepo.UpdateLastRead(ctx, conversationID, userID); err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

// LeaveConversation removes the caller from the conversation. The other
// participant keeps the history.
func (s *ChatService) LeaveConversation(ctx context.Context, conversationID, userID uint) error {
	if err := s.requireParticipant(ctx, conversationID, userID); err != nil {
		return err
	}
	if err := s.chatRepo.RemoveParticipant(ctx, conversationID, userID); err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (s *ChatService) requireParticipant(ctx context.Context, conversationID, userID uint) error {
	isMember, err := s.chatRepo.IsParticipant(ctx, conversationID, userID)
	if err != nil {
		return models.NewInternalError(err)
	}
	if !isMember {
		return models.NewForbiddenError("You are not a participant in this conversation")
	}
	return nil
}

func (s *ChatService) loadConversation(ctx context.Context, conversationID uint) (*models.Conversation, error) {
	conv, err := s.chatRepo.GetConversation(ctx, conversationID)
	if err != nil {
		return nil, coerce(err, "Conversation not found")
	}
	return conv, nil
}
