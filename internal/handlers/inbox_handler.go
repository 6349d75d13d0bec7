package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/danabekov/huddle/internal/models"
	"github.com/danabekov/huddle/internal/services"
	"github.com/danabekov/huddle/pkg/logger"
	"github.com/gorilla/mux"
)

// InboxHandler exposes the projected inbox and its resolution entry points.
type InboxHandler struct {
	Service *services.InboxService
}

func NewInboxHandler(service *services.InboxService) *InboxHandler {
	return &InboxHandler{Service: service}
}

// inboxEntry is an update decorated with its display timestamp.
type inboxEntry struct {
	models.EventUpdate
	RelativeTime string `json:"relative_time"`
}

// GetInboxHandler returns unresolved updates, most recent first, with the
// badge count.
func (h *InboxHandler) GetInboxHandler(w http.ResponseWriter, r *http.Request) {
	updates := h.Service.GetUnresolvedUpdates(r.Context())

	entries := make([]inboxEntry, 0, len(updates))
	for _, update := range updates {
		entries = append(entries, inboxEntry{
			EventUpdate:  update,
			RelativeTime: h.Service.FormatRelativeTime(update.CreatedAt),
		})
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"updates": entries,
		"count":   len(entries),
	})
}

// GetBadgeCountHandler returns only the badge count.
func (h *InboxHandler) GetBadgeCountHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]int{
		"count": h.Service.GetUnresolvedCount(r.Context()),
	})
}

// ResolveUpdateHandler marks one update consumed.
func (h *InboxHandler) ResolveUpdateHandler(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	h.Service.ResolveUpdate(r.Context(), vars["id"])

	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]string{"message": "Update resolved"})
}

// ViewEventHandler clears the informational updates for an activity the user
// opened. Join requests and chat previews are untouched.
func (h *InboxHandler) ViewEventHandler(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	h.Service.ResolveEventViewed(r.Context(), vars["id"])
	logger.Log.Infof("Resolved informational updates for event %s", vars["id"])

	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]string{"message": "Event updates resolved"})
}

// OpenEventChatHandler clears the chat previews for an activity's chat.
func (h *InboxHandler) OpenEventChatHandler(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	h.Service.ResolveEventChatOpened(r.Context(), vars["id"])

	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]string{"message": "Chat updates resolved"})
}
