package services

import (
	"context"

	"github.com/danabekov/huddle/internal/models"
	"github.com/danabekov/huddle/internal/repository"
)

// ConversationService handles the private message path. It is independent of
// the event update log: the messages badge is derived from conversation read
// state, not from inbox entries.
type ConversationService struct {
	conversations *repository.ConversationRepository
}

func NewConversationService(conversations *repository.ConversationRepository) *ConversationService {
	return &ConversationService{conversations: conversations}
}

// SendMessage delivers a private message, creating the conversation for the
// pair when it does not exist yet.
func (s *ConversationService) SendMessage(ctx context.Context, senderID, senderName, recipientID, text string) *models.PrivateConversation {
	conversation := s.conversations.GetOrCreate(ctx, senderID, recipientID)
	return s.conversations.AddMessage(ctx, conversation.ID, senderID, senderName, text)
}

// OpenConversation returns the conversation between the two users and marks
// it read for the opener.
func (s *ConversationService) OpenConversation(ctx context.Context, currentUserID, otherUserID string) *models.PrivateConversation {
	conversation := s.conversations.GetOrCreate(ctx, currentUserID, otherUserID)
	s.conversations.MarkRead(ctx, conversation.ID)
	return s.conversations.GetByID(ctx, conversation.ID)
}

// GetConversations lists every conversation with at least one message, most
// recently active first. Legacy chats are folded in first so the list is
// complete on the first open after an upgrade.
func (s *ConversationService) GetConversations(ctx context.Context, currentUserID string) []models.PrivateConversation {
	s.conversations.MigrateLegacyMessages(ctx, currentUserID)
	return s.conversations.GetAllSorted(ctx)
}

// GetUnreadCount is the messages-tab badge.
func (s *ConversationService) GetUnreadCount(ctx context.Context, currentUserID string) int {
	return s.conversations.UnreadCount(ctx, currentUserID)
}

// MigrateLegacyMessages runs the one-time legacy chat migration for the
// current user. Safe to call on every start.
func (s *ConversationService) MigrateLegacyMessages(ctx context.Context, currentUserID string) {
	s.conversations.MigrateLegacyMessages(ctx, currentUserID)
}
