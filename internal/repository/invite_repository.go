package repository

import (
	"context"
	"crypto/rand"
	"encoding/json"
	"fmt"
	"time"

	"github.com/danabekov/huddle/internal/models"
	"github.com/danabekov/huddle/internal/storage"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	inviteTokenLength   = 24
	inviteTokenAlphabet = "abcdefghijklmnopqrstuvwxyz0123456789"
)

// InviteRepository is the ledger of single-use invitation tokens.
type InviteRepository struct {
	store storage.Store
	now   func() time.Time
}

func NewInviteRepository(store storage.Store) *InviteRepository {
	return &InviteRepository{
		store: store,
		now:   time.Now,
	}
}

func (r *InviteRepository) load(ctx context.Context) []models.Invite {
	raw, ok, err := r.store.Get(ctx, storage.KeyInvites)
	if err != nil {
		logrus.WithError(err).Warn("Failed to read invites, using empty collection")
		return nil
	}
	if !ok {
		return nil
	}
	var invites []models.Invite
	if err := json.Unmarshal(raw, &invites); err != nil {
		logrus.WithError(err).Warn("Failed to decode invites, using empty collection")
		return nil
	}
	return invites
}

func (r *InviteRepository) save(ctx context.Context, invites []models.Invite) {
	raw, err := json.Marshal(invites)
	if err != nil {
		logrus.WithError(err).Warn("Failed to encode invites, write skipped")
		return
	}
	if err := r.store.Put(ctx, storage.KeyInvites, raw); err != nil {
		logrus.WithError(err).Warn("Failed to persist invites, write skipped")
	}
}

// CreateInvite allocates a fresh id and token and appends an active invite.
// Returns nil when no token could be generated; a predictable token must
// never be issued.
func (r *InviteRepository) CreateInvite(ctx context.Context, fromUserID, fromUserName string) *models.Invite {
	token, err := generateToken()
	if err != nil {
		logrus.WithError(err).Error("Failed to generate invite token, invite not created")
		return nil
	}

	invite := models.Invite{
		ID:           primitive.NewObjectID().Hex(),
		Token:        token,
		FromUserID:   fromUserID,
		FromUserName: fromUserName,
		CreatedAt:    r.now(),
		Status:       models.InviteStatusActive,
	}

	invites := append(r.load(ctx), invite)
	r.save(ctx, invites)

	logrus.Infof("Created invite %s from user %s", invite.ID, fromUserID)
	return &invite
}

// FindByToken returns the invite with the given token, or nil.
func (r *InviteRepository) FindByToken(ctx context.Context, token string) *models.Invite {
	for _, invite := range r.load(ctx) {
		if invite.Token == token {
			found := invite
			return &found
		}
	}
	return nil
}

// Validate checks a token without mutating anything. Failure reasons are
// checked in a fixed order: missing token, unknown token, already used,
// expired.
func (r *InviteRepository) Validate(ctx context.Context, token string) models.InviteValidation {
	if token == "" {
		return models.InviteValidation{Valid: false, Reason: models.InviteReasonNoToken}
	}

	invite := r.FindByToken(ctx, token)
	if invite == nil {
		return models.InviteValidation{Valid: false, Reason: models.InviteReasonNotFound}
	}
	if invite.Status == models.InviteStatusUsed {
		return models.InviteValidation{Valid: false, Reason: models.InviteReasonAlreadyUsed}
	}
	if invite.Status == models.InviteStatusExpired {
		return models.InviteValidation{Valid: false, Reason: models.InviteReasonExpired}
	}

	return models.InviteValidation{Valid: true, Invite: invite}
}

// MarkUsed transitions the matching invite to used, stamping the consumer and
// time. Unknown tokens are ignored; callers surface errors via Validate
// first. A second call never restamps the first consumer.
func (r *InviteRepository) MarkUsed(ctx context.Context, token, usedByUserID string) {
	invites := r.load(ctx)
	for i := range invites {
		if invites[i].Token != token {
			continue
		}
		if invites[i].Status == models.InviteStatusUsed {
			logrus.Warnf("Invite %s already used, keeping original consumer", invites[i].ID)
			return
		}
		usedAt := r.now()
		invites[i].Status = models.InviteStatusUsed
		invites[i].UsedByUserID = usedByUserID
		invites[i].UsedAt = &usedAt
		r.save(ctx, invites)
		logrus.Infof("Invite %s used by user %s", invites[i].ID, usedByUserID)
		return
	}
}

// ExpireOlderThan marks active invites created before the cutoff as expired
// and returns how many were expired.
func (r *InviteRepository) ExpireOlderThan(ctx context.Context, ttl time.Duration) int {
	cutoff := r.now().Add(-ttl)
	invites := r.load(ctx)

	expired := 0
	for i := range invites {
		if invites[i].Status == models.InviteStatusActive && invites[i].CreatedAt.Before(cutoff) {
			invites[i].Status = models.InviteStatusExpired
			expired++
		}
	}
	if expired > 0 {
		r.save(ctx, invites)
	}
	return expired
}

var randRead = rand.Read

func generateToken() (string, error) {
	// Bytes at or above the largest multiple of the alphabet size are
	// rejected to keep every symbol equally likely.
	limit := byte(len(inviteTokenAlphabet) * (256 / len(inviteTokenAlphabet)))

	token := make([]byte, 0, inviteTokenLength)
	buf := make([]byte, inviteTokenLength)
	for len(token) < inviteTokenLength {
		if _, err := randRead(buf); err != nil {
			return "", fmt.Errorf("failed to read random bytes: %v", err)
		}
		for _, b := range buf {
			if b >= limit {
				continue
			}
			token = append(token, inviteTokenAlphabet[int(b)%len(inviteTokenAlphabet)])
			if len(token) == inviteTokenLength {
				break
			}
		}
	}
	return string(token), nil
}
