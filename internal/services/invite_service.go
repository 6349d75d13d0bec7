package services

import (
	"context"

	"github.com/danabekov/huddle/internal/models"
	"github.com/danabekov/huddle/internal/repository"
	"github.com/sirupsen/logrus"
)

// Reason returned when a user opens their own invite link.
const InviteReasonOwnInvite = "own invite"

// InviteService handles the invite lifecycle and the friend-request policy
// built on top of it.
type InviteService struct {
	invites *repository.InviteRepository
	friends *repository.FriendRepository
	updates *repository.UpdateRepository
	baseURL string
}

func NewInviteService(invites *repository.InviteRepository, friends *repository.FriendRepository, updates *repository.UpdateRepository, baseURL string) *InviteService {
	return &InviteService{
		invites: invites,
		friends: friends,
		updates: updates,
		baseURL: baseURL,
	}
}

// CreateInvite issues a fresh single-use invite for the user.
func (s *InviteService) CreateInvite(ctx context.Context, fromUserID, fromUserName string) *models.Invite {
	return s.invites.CreateInvite(ctx, fromUserID, fromUserName)
}

// InviteLink formats the shareable link for a token.
func (s *InviteService) InviteLink(token string) string {
	return s.baseURL + "/invite/" + token
}

// ValidateInvite checks a token without consuming it.
func (s *InviteService) ValidateInvite(ctx context.Context, token string) models.InviteValidation {
	return s.invites.Validate(ctx, token)
}

// OpenInvite is the full consume flow for an invite link: validate the token,
// reject the inviter's own link, create the friend request from invitee to
// inviter, surface it in the inviter's inbox, then burn the token. The token
// is only marked used after the relationship facts are written.
func (s *InviteService) OpenInvite(ctx context.Context, token, userID, userName string) models.InviteValidation {
	validation := s.invites.Validate(ctx, token)
	if !validation.Valid {
		logrus.Warnf("Invite open failed: %s", validation.Reason)
		return validation
	}

	invite := validation.Invite
	if invite.FromUserID == userID {
		logrus.Warnf("User %s tried to open their own invite", userID)
		return models.InviteValidation{Valid: false, Reason: InviteReasonOwnInvite}
	}

	// A pending request between the pair means the inviter's inbox already
	// has an entry for it; emitting again would double the badge.
	if existing := s.friends.FindExistingRequest(ctx, userID, invite.FromUserID); existing == nil {
		request := s.friends.CreateRequest(ctx, userID, userName, invite.FromUserID, invite.FromUserName)
		s.updates.EmitFriendRequest(ctx, request.ID, userID, userName)
	} else {
		logrus.Infof("Pending request %s already exists between %s and %s, reusing it", existing.ID, userID, invite.FromUserID)
	}
	s.invites.MarkUsed(ctx, token, userID)

	return validation
}

// CanSendRequest decides whether a friend request from the acting user to the
// target is allowed: not to yourself, not to an existing friend, and not when
// a pending request already exists in either direction. Any uncertainty
// resolves to not eligible.
func (s *InviteService) CanSendRequest(ctx context.Context, actingUserID, targetUserID string, friends []models.Friend) bool {
	if targetUserID == "" || targetUserID == actingUserID {
		return false
	}
	if repository.AreAlreadyFriends(actingUserID, targetUserID, friends) {
		return false
	}
	if s.friends.FindExistingRequest(ctx, actingUserID, targetUserID) != nil {
		return false
	}
	return true
}
