package models

import "time"

// Event update types. EventID is an activity id for the activity-scoped
// types and a FriendRequest id for UpdateTypeFriendRequest.
const (
	UpdateTypeChatMessage     = "chat_message"
	UpdateTypeJoinRequest     = "join_request"
	UpdateTypeJoinApproved    = "join_approved"
	UpdateTypeJoinDeclined    = "join_declined"
	UpdateTypeEventEdited     = "event_edited"
	UpdateTypeEventCancelled  = "event_cancelled"
	UpdateTypeParticipantLeft = "participant_left"
	UpdateTypeFriendRequest   = "friend_request"
)

// EventUpdate is one entry of the append-only notification log. Resolved is
// monotonic: once true it never reverts.
type EventUpdate struct {
	ID        string    `json:"id"`
	Type      string    `json:"type"`
	EventID   string    `json:"event_id"`
	ActorID   string    `json:"actor_id,omitempty"`
	ActorName string    `json:"actor_name,omitempty"`
	Message   string    `json:"message,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	Resolved  bool      `json:"resolved"`
}
