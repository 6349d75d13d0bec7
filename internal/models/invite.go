package models

import "time"

const (
	InviteStatusActive  = "active"
	InviteStatusUsed    = "used"
	InviteStatusExpired = "expired"
)

// Invite is a single-use invitation identified externally by its token.
type Invite struct {
	ID           string     `json:"id"`
	Token        string     `json:"token"`
	FromUserID   string     `json:"from_user_id"`
	FromUserName string     `json:"from_user_name"`
	CreatedAt    time.Time  `json:"created_at"`
	Status       string     `json:"status"` // "active", "used", "expired"
	UsedByUserID string     `json:"used_by_user_id,omitempty"`
	UsedAt       *time.Time `json:"used_at,omitempty"`
}

// InviteValidation is the structured outcome of checking a token, so callers
// can branch without exception-style handling.
type InviteValidation struct {
	Valid  bool    `json:"valid"`
	Reason string  `json:"reason,omitempty"`
	Invite *Invite `json:"invite,omitempty"`
}

// Validation failure reasons, checked in this order.
const (
	InviteReasonNoToken     = "no token"
	InviteReasonNotFound    = "not found"
	InviteReasonAlreadyUsed = "already used"
	InviteReasonExpired     = "expired"
)
