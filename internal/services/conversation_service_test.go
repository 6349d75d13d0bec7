package services

import (
	"context"
	"testing"

	"github.com/danabekov/huddle/internal/repository"
	"github.com/danabekov/huddle/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newConversationService() *ConversationService {
	return NewConversationService(repository.NewConversationRepository(storage.NewMemoryStore()))
}

func TestSendMessageCreatesConversation(t *testing.T) {
	ctx := context.Background()
	service := newConversationService()

	conversation := service.SendMessage(ctx, "u1", "Alice", "u2", "hello")
	require.NotNil(t, conversation)
	assert.Equal(t, repository.ConversationID("u1", "u2"), conversation.ID)
	require.Len(t, conversation.Messages, 1)
	assert.Equal(t, "hello", conversation.Messages[0].Text)

	// the recipient replying lands in the same conversation
	conversation = service.SendMessage(ctx, "u2", "Bob", "u1", "hi")
	require.NotNil(t, conversation)
	assert.Len(t, conversation.Messages, 2)
}

func TestOpenConversationMarksRead(t *testing.T) {
	ctx := context.Background()
	service := newConversationService()

	service.SendMessage(ctx, "u2", "Bob", "u1", "ping")
	assert.Equal(t, 1, service.GetUnreadCount(ctx, "u1"))

	conversation := service.OpenConversation(ctx, "u1", "u2")
	require.NotNil(t, conversation)
	require.NotNil(t, conversation.LastReadAt)

	assert.Equal(t, 0, service.GetUnreadCount(ctx, "u1"))
}

func TestPrivateMessagesStayOffTheInbox(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemoryStore()
	service := NewConversationService(repository.NewConversationRepository(store))
	updates := repository.NewUpdateRepository(store)
	inbox := NewInboxService(updates)

	service.SendMessage(ctx, "u1", "Alice", "u2", "hello")
	service.OpenConversation(ctx, "u2", "u1")

	// the messages badge is read state; the notification badge never moves
	assert.Empty(t, updates.GetAll(ctx))
	assert.Equal(t, 0, inbox.GetUnresolvedCount(ctx))
	assert.Equal(t, 0, service.GetUnreadCount(ctx, "u2"))
}

func TestGetConversationsListsOnlyConversationsWithMessages(t *testing.T) {
	ctx := context.Background()
	service := newConversationService()

	service.SendMessage(ctx, "u1", "Alice", "u2", "first")
	service.SendMessage(ctx, "u1", "Alice", "u3", "second")
	service.OpenConversation(ctx, "u1", "u4") // created empty, never listed

	conversations := service.GetConversations(ctx, "u1")
	require.Len(t, conversations, 2)

	ids := []string{conversations[0].ID, conversations[1].ID}
	assert.ElementsMatch(t, []string{
		repository.ConversationID("u1", "u2"),
		repository.ConversationID("u1", "u3"),
	}, ids)
}
