package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/danabekov/huddle/internal/models"
	"github.com/danabekov/huddle/internal/repository"
	"github.com/danabekov/huddle/internal/services"
	"github.com/danabekov/huddle/pkg/logger"
	"github.com/danabekov/huddle/pkg/middleware"
	"github.com/gorilla/mux"
)

// ConversationHandler manages the private messages surface.
type ConversationHandler struct {
	Service *services.ConversationService
}

func NewConversationHandler(service *services.ConversationService) *ConversationHandler {
	return &ConversationHandler{Service: service}
}

// conversationSummary is what the messages list renders per conversation.
type conversationSummary struct {
	models.PrivateConversation
	OtherParticipantID string `json:"other_participant_id"`
	Unread             bool   `json:"unread"`
}

// GetConversationsHandler lists conversations with messages, most recent
// first, with the unread badge.
func (h *ConversationHandler) GetConversationsHandler(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetUserFromContext(r.Context())
	if claims == nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	conversations := h.Service.GetConversations(r.Context(), claims.UserID)
	summaries := make([]conversationSummary, 0, len(conversations))
	for _, conversation := range conversations {
		summaries = append(summaries, conversationSummary{
			PrivateConversation: conversation,
			OtherParticipantID:  repository.OtherParticipant(&conversation, claims.UserID),
			Unread:              repository.IsUnread(&conversation, claims.UserID),
		})
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"conversations": summaries,
		"unread_count":  h.Service.GetUnreadCount(r.Context(), claims.UserID),
	})
}

// OpenConversationHandler returns the conversation with the given user and
// marks it read.
func (h *ConversationHandler) OpenConversationHandler(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetUserFromContext(r.Context())
	if claims == nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	vars := mux.Vars(r)
	conversation := h.Service.OpenConversation(r.Context(), claims.UserID, vars["userId"])
	if conversation == nil {
		http.Error(w, "Conversation unavailable", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(conversation)
}

// SendMessageHandler appends a message to the conversation with the given
// user.
func (h *ConversationHandler) SendMessageHandler(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetUserFromContext(r.Context())
	if claims == nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var body struct {
		Text string `json:"text"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		logger.Log.Warnf("Failed to decode message body: %v", err)
		return
	}
	defer r.Body.Close()

	vars := mux.Vars(r)
	conversation := h.Service.SendMessage(r.Context(), claims.UserID, claims.UserName, vars["userId"], body.Text)
	if conversation == nil {
		http.Error(w, "Failed to send message", http.StatusInternalServerError)
		logger.Log.Errorf("Message from %s to %s dropped", claims.UserID, vars["userId"])
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(conversation)
}
