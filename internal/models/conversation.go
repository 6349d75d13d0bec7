package models

import "time"

// PrivateConversation holds the full message history between two users. The
// conversation id is derived from the unordered participant pair, so both
// participants always reach the same record.
type PrivateConversation struct {
	ID             string           `json:"id"`
	ParticipantIDs []string         `json:"participant_ids"`
	Messages       []PrivateMessage `json:"messages"`
	CreatedAt      time.Time        `json:"created_at"`
	LastMessageAt  *time.Time       `json:"last_message_at,omitempty"`
	LastReadAt     *time.Time       `json:"last_read_at,omitempty"`
}

// PrivateMessage is immutable once appended; slice order is chronological.
type PrivateMessage struct {
	ID             string    `json:"id"`
	ConversationID string    `json:"conversation_id"`
	SenderID       string    `json:"sender_id"`
	SenderName     string    `json:"sender_name"`
	Text           string    `json:"text"`
	CreatedAt      time.Time `json:"created_at"`
}

// LegacyChatMessage is the pre-conversation per-friend message shape, read
// only by the one-time migration.
type LegacyChatMessage struct {
	Sender string `json:"sender"` // "me" or the friend id
	Text   string `json:"text"`
}
