package repository

import (
	"context"
	"encoding/json"
	"time"

	"github.com/danabekov/huddle/internal/models"
	"github.com/danabekov/huddle/internal/storage"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// FriendRepository stores pairwise friend-request records.
type FriendRepository struct {
	store storage.Store
	now   func() time.Time
}

func NewFriendRepository(store storage.Store) *FriendRepository {
	return &FriendRepository{
		store: store,
		now:   time.Now,
	}
}

func (r *FriendRepository) load(ctx context.Context) []models.FriendRequest {
	raw, ok, err := r.store.Get(ctx, storage.KeyFriendRequests)
	if err != nil {
		logrus.WithError(err).Warn("Failed to read friend requests, using empty collection")
		return nil
	}
	if !ok {
		return nil
	}
	var requests []models.FriendRequest
	if err := json.Unmarshal(raw, &requests); err != nil {
		logrus.WithError(err).Warn("Failed to decode friend requests, using empty collection")
		return nil
	}
	return requests
}

func (r *FriendRepository) save(ctx context.Context, requests []models.FriendRequest) {
	raw, err := json.Marshal(requests)
	if err != nil {
		logrus.WithError(err).Warn("Failed to encode friend requests, write skipped")
		return
	}
	if err := r.store.Put(ctx, storage.KeyFriendRequests, raw); err != nil {
		logrus.WithError(err).Warn("Failed to persist friend requests, write skipped")
	}
}

// CreateRequest appends a pending request. When a pending request already
// exists between the pair (in either direction) the existing record is
// returned instead of creating a duplicate.
func (r *FriendRepository) CreateRequest(ctx context.Context, fromUserID, fromUserName, toUserID, toUserName string) *models.FriendRequest {
	if existing := r.FindExistingRequest(ctx, fromUserID, toUserID); existing != nil {
		logrus.Warnf("Pending request already exists between %s and %s", fromUserID, toUserID)
		return existing
	}

	request := models.FriendRequest{
		ID:           primitive.NewObjectID().Hex(),
		FromUserID:   fromUserID,
		FromUserName: fromUserName,
		ToUserID:     toUserID,
		ToUserName:   toUserName,
		Status:       models.RequestStatusPending,
		CreatedAt:    r.now(),
	}

	requests := append(r.load(ctx), request)
	r.save(ctx, requests)

	logrus.Infof("User %s sent a friend request to %s", fromUserID, toUserID)
	return &request
}

// FindExistingRequest returns the first pending request between the two
// users, regardless of who sent it.
func (r *FriendRepository) FindExistingRequest(ctx context.Context, userID1, userID2 string) *models.FriendRequest {
	for _, request := range r.load(ctx) {
		if request.Status == models.RequestStatusPending && request.InvolvesPair(userID1, userID2) {
			found := request
			return &found
		}
	}
	return nil
}

// GetByID returns the request with the given id, or nil.
func (r *FriendRepository) GetByID(ctx context.Context, requestID string) *models.FriendRequest {
	for _, request := range r.load(ctx) {
		if request.ID == requestID {
			found := request
			return &found
		}
	}
	return nil
}

// UpdateStatus applies a terminal transition to a pending request. It refuses
// to change a request that was already accepted or declined and reports
// whether the transition was applied.
func (r *FriendRepository) UpdateStatus(ctx context.Context, requestID, status string) bool {
	if status != models.RequestStatusAccepted && status != models.RequestStatusDeclined {
		logrus.Warnf("Ignoring invalid friend request status %q", status)
		return false
	}

	requests := r.load(ctx)
	for i := range requests {
		if requests[i].ID != requestID {
			continue
		}
		if requests[i].Status != models.RequestStatusPending {
			logrus.Warnf("Friend request %s already %s, transition to %s refused", requestID, requests[i].Status, status)
			return false
		}
		requests[i].Status = status
		r.save(ctx, requests)
		logrus.Infof("Friend request %s marked %s", requestID, status)
		return true
	}

	logrus.Warnf("Friend request %s not found", requestID)
	return false
}

// GetPendingRequestsForUser returns all pending requests addressed to the
// user.
func (r *FriendRepository) GetPendingRequestsForUser(ctx context.Context, userID string) []models.FriendRequest {
	var pending []models.FriendRequest
	for _, request := range r.load(ctx) {
		if request.ToUserID == userID && request.Status == models.RequestStatusPending {
			pending = append(pending, request)
		}
	}
	return pending
}

// AreAlreadyFriends reports whether the supplied friend list (owned by the
// external friend graph) marks userID2 as an accepted friend.
func AreAlreadyFriends(userID1, userID2 string, friends []models.Friend) bool {
	for _, friend := range friends {
		if friend.UserID == userID2 && friend.Status == models.RequestStatusAccepted {
			return true
		}
	}
	return false
}
