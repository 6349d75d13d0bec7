package models

import "time"

const (
	RequestStatusPending  = "pending"
	RequestStatusAccepted = "accepted"
	RequestStatusDeclined = "declined"
)

type FriendRequest struct {
	ID           string    `json:"id"`
	FromUserID   string    `json:"from_user_id"`
	FromUserName string    `json:"from_user_name"`
	ToUserID     string    `json:"to_user_id"`
	ToUserName   string    `json:"to_user_name"`
	Status       string    `json:"status"` // "pending", "accepted", "declined"
	CreatedAt    time.Time `json:"created_at"`
}

// InvolvesPair reports whether the request is between the two given users,
// in either direction.
func (r *FriendRequest) InvolvesPair(userID1, userID2 string) bool {
	return (r.FromUserID == userID1 && r.ToUserID == userID2) ||
		(r.FromUserID == userID2 && r.ToUserID == userID1)
}

// Friend is one entry of the externally supplied friend list.
type Friend struct {
	UserID   string `json:"user_id"`
	UserName string `json:"user_name"`
	Status   string `json:"status"` // "accepted" once the friendship is live
}
