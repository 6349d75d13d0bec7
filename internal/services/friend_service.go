package services

import (
	"context"
	"fmt"

	"github.com/danabekov/huddle/internal/models"
	"github.com/danabekov/huddle/internal/repository"
)

// FriendService handles business logic for friend requests and keeps the
// inbox consistent with their lifecycle.
type FriendService struct {
	friends *repository.FriendRepository
	updates *repository.UpdateRepository
}

func NewFriendService(friends *repository.FriendRepository, updates *repository.UpdateRepository) *FriendService {
	return &FriendService{
		friends: friends,
		updates: updates,
	}
}

// SendRequest creates a pending friend request and pushes it onto the
// recipient's inbox.
func (s *FriendService) SendRequest(ctx context.Context, fromUserID, fromUserName, toUserID, toUserName string, friends []models.Friend) (*models.FriendRequest, error) {
	if fromUserID == toUserID {
		return nil, fmt.Errorf("cannot send a friend request to yourself")
	}
	if repository.AreAlreadyFriends(fromUserID, toUserID, friends) {
		return nil, fmt.Errorf("users are already friends")
	}
	if existing := s.friends.FindExistingRequest(ctx, fromUserID, toUserID); existing != nil {
		return nil, fmt.Errorf("a pending request already exists")
	}

	request := s.friends.CreateRequest(ctx, fromUserID, fromUserName, toUserID, toUserName)
	s.updates.EmitFriendRequest(ctx, request.ID, fromUserID, fromUserName)
	return request, nil
}

// RespondToRequest applies the accept/decline decision and resolves the
// matching inbox entry. Friend-request updates resolve only here, never on
// mere viewing.
func (s *FriendService) RespondToRequest(ctx context.Context, requestID string, accept bool) (*models.FriendRequest, error) {
	request := s.friends.GetByID(ctx, requestID)
	if request == nil {
		return nil, fmt.Errorf("could not find request %s", requestID)
	}

	status := models.RequestStatusDeclined
	if accept {
		status = models.RequestStatusAccepted
	}

	if !s.friends.UpdateStatus(ctx, requestID, status) {
		return nil, fmt.Errorf("request already responded to")
	}
	s.updates.ResolveByEventAndType(ctx, requestID, models.UpdateTypeFriendRequest)

	request.Status = status
	return request, nil
}

// GetPendingRequests fetches all pending requests addressed to the user.
func (s *FriendService) GetPendingRequests(ctx context.Context, userID string) []models.FriendRequest {
	return s.friends.GetPendingRequestsForUser(ctx, userID)
}
