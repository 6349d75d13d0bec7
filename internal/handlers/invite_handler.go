package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/danabekov/huddle/internal/services"
	"github.com/danabekov/huddle/pkg/logger"
	"github.com/danabekov/huddle/pkg/middleware"
	"github.com/gorilla/mux"
)

// InviteHandler manages HTTP endpoints for invite links.
type InviteHandler struct {
	Service *services.InviteService
}

func NewInviteHandler(service *services.InviteService) *InviteHandler {
	return &InviteHandler{Service: service}
}

// CreateInviteHandler issues a new invite and returns it with its link.
func (h *InviteHandler) CreateInviteHandler(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetUserFromContext(r.Context())
	if claims == nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	invite := h.Service.CreateInvite(r.Context(), claims.UserID, claims.UserName)
	if invite == nil {
		http.Error(w, "Failed to create invite", http.StatusInternalServerError)
		logger.Log.Errorf("Invite creation failed for user %s", claims.UserID)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"invite": invite,
		"link":   h.Service.InviteLink(invite.Token),
	})
}

// ValidateInviteHandler checks a token without consuming it.
func (h *InviteHandler) ValidateInviteHandler(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	validation := h.Service.ValidateInvite(r.Context(), vars["token"])

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(validation)
}

// OpenInviteHandler consumes an invite link for the current user.
func (h *InviteHandler) OpenInviteHandler(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetUserFromContext(r.Context())
	if claims == nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	vars := mux.Vars(r)
	validation := h.Service.OpenInvite(r.Context(), vars["token"], claims.UserID, claims.UserName)
	if !validation.Valid {
		logger.Log.Warnf("User %s failed to open invite: %s", claims.UserID, validation.Reason)
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(validation)
}
