package repository

import (
	"context"
	"encoding/json"
	"sort"
	"time"

	"github.com/danabekov/huddle/internal/models"
	"github.com/danabekov/huddle/internal/storage"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Spacing used when the legacy migration backfills message timestamps.
const migrationMessageSpacing = 60 * time.Second

// ConversationRepository maintains exactly one private conversation per
// unordered pair of participants.
type ConversationRepository struct {
	store storage.Store
	now   func() time.Time
}

func NewConversationRepository(store storage.Store) *ConversationRepository {
	return &ConversationRepository{
		store: store,
		now:   time.Now,
	}
}

// ConversationID derives the conversation key from the unordered participant
// pair: the lexicographically smaller id first. Both participants always
// reach the same conversation.
func ConversationID(userID1, userID2 string) string {
	if userID1 < userID2 {
		return userID1 + "_" + userID2
	}
	return userID2 + "_" + userID1
}

// OtherParticipant returns the participant that is not the given user.
func OtherParticipant(conversation *models.PrivateConversation, currentUserID string) string {
	for _, id := range conversation.ParticipantIDs {
		if id != currentUserID {
			return id
		}
	}
	return ""
}

// IsUnread reports whether the conversation holds messages the user has not
// seen. A conversation whose last message is the user's own is never unread.
func IsUnread(conversation *models.PrivateConversation, currentUserID string) bool {
	if len(conversation.Messages) == 0 {
		return false
	}
	last := conversation.Messages[len(conversation.Messages)-1]
	if last.SenderID == currentUserID {
		return false
	}
	if conversation.LastReadAt == nil {
		return true
	}
	return last.CreatedAt.After(*conversation.LastReadAt)
}

func (r *ConversationRepository) load(ctx context.Context) map[string]models.PrivateConversation {
	raw, ok, err := r.store.Get(ctx, storage.KeyConversations)
	if err != nil {
		logrus.WithError(err).Warn("Failed to read conversations, using empty collection")
		return map[string]models.PrivateConversation{}
	}
	if !ok {
		return map[string]models.PrivateConversation{}
	}
	var conversations map[string]models.PrivateConversation
	if err := json.Unmarshal(raw, &conversations); err != nil {
		logrus.WithError(err).Warn("Failed to decode conversations, using empty collection")
		return map[string]models.PrivateConversation{}
	}
	if conversations == nil {
		conversations = map[string]models.PrivateConversation{}
	}
	return conversations
}

func (r *ConversationRepository) save(ctx context.Context, conversations map[string]models.PrivateConversation) {
	raw, err := json.Marshal(conversations)
	if err != nil {
		logrus.WithError(err).Warn("Failed to encode conversations, write skipped")
		return
	}
	if err := r.store.Put(ctx, storage.KeyConversations, raw); err != nil {
		logrus.WithError(err).Warn("Failed to persist conversations, write skipped")
	}
}

// GetByID returns the conversation with the given id, or nil.
func (r *ConversationRepository) GetByID(ctx context.Context, conversationID string) *models.PrivateConversation {
	conversations := r.load(ctx)
	if conversation, ok := conversations[conversationID]; ok {
		return &conversation
	}
	return nil
}

// GetOrCreate looks up the conversation for the pair, creating an empty one
// when absent. Safe to call redundantly.
func (r *ConversationRepository) GetOrCreate(ctx context.Context, userID1, userID2 string) *models.PrivateConversation {
	id := ConversationID(userID1, userID2)
	conversations := r.load(ctx)
	if conversation, ok := conversations[id]; ok {
		return &conversation
	}

	conversation := models.PrivateConversation{
		ID:             id,
		ParticipantIDs: []string{userID1, userID2},
		Messages:       []models.PrivateMessage{},
		CreatedAt:      r.now(),
	}
	conversations[id] = conversation
	r.save(ctx, conversations)

	logrus.Infof("Created conversation %s", id)
	return &conversation
}

// AddMessage appends a message to an existing conversation and bumps
// LastMessageAt. Returns nil when the conversation does not exist; callers
// are expected to go through GetOrCreate first.
func (r *ConversationRepository) AddMessage(ctx context.Context, conversationID, senderID, senderName, text string) *models.PrivateConversation {
	conversations := r.load(ctx)
	conversation, ok := conversations[conversationID]
	if !ok {
		logrus.Warnf("Conversation %s not found, message dropped", conversationID)
		return nil
	}

	createdAt := r.now()
	conversation.Messages = append(conversation.Messages, models.PrivateMessage{
		ID:             primitive.NewObjectID().Hex(),
		ConversationID: conversationID,
		SenderID:       senderID,
		SenderName:     senderName,
		Text:           text,
		CreatedAt:      createdAt,
	})
	conversation.LastMessageAt = &createdAt

	conversations[conversationID] = conversation
	r.save(ctx, conversations)
	return &conversation
}

// GetAllSorted returns every conversation holding at least one message,
// most recently active first.
func (r *ConversationRepository) GetAllSorted(ctx context.Context) []models.PrivateConversation {
	var result []models.PrivateConversation
	for _, conversation := range r.load(ctx) {
		if len(conversation.Messages) > 0 {
			result = append(result, conversation)
		}
	}
	sort.SliceStable(result, func(i, j int) bool {
		a, b := result[i].LastMessageAt, result[j].LastMessageAt
		if a == nil || b == nil {
			return b == nil && a != nil
		}
		return a.After(*b)
	})
	return result
}

// MarkRead stamps the conversation's last-read time with now.
func (r *ConversationRepository) MarkRead(ctx context.Context, conversationID string) {
	conversations := r.load(ctx)
	conversation, ok := conversations[conversationID]
	if !ok {
		logrus.Warnf("Conversation %s not found, read mark skipped", conversationID)
		return
	}
	readAt := r.now()
	conversation.LastReadAt = &readAt
	conversations[conversationID] = conversation
	r.save(ctx, conversations)
}

// UnreadCount counts conversations with unseen messages for the user.
func (r *ConversationRepository) UnreadCount(ctx context.Context, currentUserID string) int {
	count := 0
	for _, conversation := range r.load(ctx) {
		if IsUnread(&conversation, currentUserID) {
			count++
		}
	}
	return count
}

// MigrateLegacyMessages converts the old per-friend message arrays into
// conversations. Message timestamps are a best-effort backfill, spaced 60
// seconds apart walking backward from the migration time; they are not
// authoritative history. Pairs that already have a conversation are skipped,
// so the migration can run on every start.
func (r *ConversationRepository) MigrateLegacyMessages(ctx context.Context, currentUserID string) map[string]models.PrivateConversation {
	legacy := r.loadLegacy(ctx)
	conversations := r.load(ctx)
	if len(legacy) == 0 {
		return conversations
	}

	now := r.now()
	migrated := 0
	for friendID, messages := range legacy {
		id := ConversationID(currentUserID, friendID)
		if _, ok := conversations[id]; ok {
			continue
		}
		if len(messages) == 0 {
			continue
		}

		conversation := models.PrivateConversation{
			ID:             id,
			ParticipantIDs: []string{currentUserID, friendID},
			Messages:       make([]models.PrivateMessage, 0, len(messages)),
			CreatedAt:      now,
		}
		for i, legacyMsg := range messages {
			senderID := friendID
			if legacyMsg.Sender == "me" {
				senderID = currentUserID
			}
			createdAt := now.Add(-time.Duration(len(messages)-i) * migrationMessageSpacing)
			conversation.Messages = append(conversation.Messages, models.PrivateMessage{
				ID:             primitive.NewObjectID().Hex(),
				ConversationID: id,
				SenderID:       senderID,
				Text:           legacyMsg.Text,
				CreatedAt:      createdAt,
			})
		}
		last := conversation.Messages[len(conversation.Messages)-1].CreatedAt
		conversation.LastMessageAt = &last
		conversations[id] = conversation
		migrated++
	}

	if migrated > 0 {
		r.save(ctx, conversations)
		logrus.Infof("Migrated %d legacy chats into conversations", migrated)
	}
	return conversations
}

func (r *ConversationRepository) loadLegacy(ctx context.Context) map[string][]models.LegacyChatMessage {
	raw, ok, err := r.store.Get(ctx, storage.KeyLegacyChatMessages)
	if err != nil {
		logrus.WithError(err).Warn("Failed to read legacy chat messages, migration skipped")
		return nil
	}
	if !ok {
		return nil
	}
	var legacy map[string][]models.LegacyChatMessage
	if err := json.Unmarshal(raw, &legacy); err != nil {
		logrus.WithError(err).Warn("Failed to decode legacy chat messages, migration skipped")
		return nil
	}
	return legacy
}
