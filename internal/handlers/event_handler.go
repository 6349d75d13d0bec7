package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/danabekov/huddle/internal/models"
	"github.com/danabekov/huddle/internal/repository"
	"github.com/danabekov/huddle/pkg/logger"
	"github.com/danabekov/huddle/pkg/middleware"
	"github.com/gorilla/mux"
)

// EventHandler lets activity flows push typed updates onto the log.
type EventHandler struct {
	Updates *repository.UpdateRepository
}

func NewEventHandler(updates *repository.UpdateRepository) *EventHandler {
	return &EventHandler{Updates: updates}
}

// EmitUpdateHandler records an activity-scoped update. Chat messages carry a
// text body; the log keeps only a truncated preview of it.
func (h *EventHandler) EmitUpdateHandler(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetUserFromContext(r.Context())
	if claims == nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var body struct {
		Type    string `json:"type"`
		Message string `json:"message,omitempty"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		logger.Log.Warnf("Failed to decode update body: %v", err)
		return
	}
	defer r.Body.Close()

	vars := mux.Vars(r)
	eventID := vars["id"]
	ctx := r.Context()

	var update models.EventUpdate
	switch body.Type {
	case models.UpdateTypeJoinRequest:
		update = h.Updates.EmitJoinRequest(ctx, eventID, claims.UserID, claims.UserName)
	case models.UpdateTypeJoinApproved:
		update = h.Updates.EmitJoinApproved(ctx, eventID, claims.UserID, claims.UserName)
	case models.UpdateTypeJoinDeclined:
		update = h.Updates.EmitJoinDeclined(ctx, eventID, claims.UserID, claims.UserName)
	case models.UpdateTypeChatMessage:
		update = h.Updates.EmitEventChat(ctx, eventID, claims.UserID, claims.UserName, body.Message)
	case models.UpdateTypeEventEdited:
		update = h.Updates.EmitEventEdited(ctx, eventID, claims.UserID, claims.UserName)
	case models.UpdateTypeEventCancelled:
		update = h.Updates.EmitEventCancelled(ctx, eventID, claims.UserID, claims.UserName)
	case models.UpdateTypeParticipantLeft:
		update = h.Updates.EmitParticipantLeft(ctx, eventID, claims.UserID, claims.UserName)
	default:
		http.Error(w, "Unknown update type", http.StatusBadRequest)
		logger.Log.Warnf("Unknown update type %q for event %s", body.Type, eventID)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(update)
}
