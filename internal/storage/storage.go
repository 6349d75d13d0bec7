package storage

import "context"

// Store is the durable key-value substrate every collection is persisted
// through. Each logical collection (invites, friend requests, event updates,
// conversations) lives under its own fixed key as one serialized record.
type Store interface {
	// Get returns the raw record for key. The second return is false when no
	// record exists for the key.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	// Put writes the raw record for key, replacing any previous value.
	Put(ctx context.Context, key string, value []byte) error
}

// Fixed collection keys.
const (
	KeyInvites            = "invites"
	KeyFriendRequests     = "friend_requests"
	KeyEventUpdates       = "event_updates"
	KeyConversations      = "private_conversations"
	KeyLegacyChatMessages = "legacy_chat_messages"
)
