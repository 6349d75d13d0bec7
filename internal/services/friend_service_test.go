package services

import (
	"context"
	"testing"

	"github.com/danabekov/huddle/internal/models"
	"github.com/danabekov/huddle/internal/repository"
	"github.com/danabekov/huddle/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newFriendService() (*FriendService, *repository.UpdateRepository) {
	store := storage.NewMemoryStore()
	friends := repository.NewFriendRepository(store)
	updates := repository.NewUpdateRepository(store)
	return NewFriendService(friends, updates), updates
}

func TestSendRequestEmitsInboxEntry(t *testing.T) {
	ctx := context.Background()
	service, updates := newFriendService()

	request, err := service.SendRequest(ctx, "u1", "Alice", "u2", "Bob", nil)
	require.NoError(t, err)
	require.NotNil(t, request)

	log := updates.GetAll(ctx)
	require.Len(t, log, 1)
	assert.Equal(t, models.UpdateTypeFriendRequest, log[0].Type)
	assert.Equal(t, request.ID, log[0].EventID)
}

func TestSendRequestGuards(t *testing.T) {
	ctx := context.Background()
	service, updates := newFriendService()

	_, err := service.SendRequest(ctx, "u1", "Alice", "u1", "Alice", nil)
	assert.Error(t, err, "self request")

	friends := []models.Friend{{UserID: "u2", Status: models.RequestStatusAccepted}}
	_, err = service.SendRequest(ctx, "u1", "Alice", "u2", "Bob", friends)
	assert.Error(t, err, "already friends")

	_, err = service.SendRequest(ctx, "u1", "Alice", "u3", "Carol", nil)
	require.NoError(t, err)
	_, err = service.SendRequest(ctx, "u3", "Carol", "u1", "Alice", nil)
	assert.Error(t, err, "pending request in either direction")

	assert.Len(t, updates.GetAll(ctx), 1, "refused sends emit nothing")
}

func TestRespondToRequestResolvesInboxEntry(t *testing.T) {
	ctx := context.Background()
	service, updates := newFriendService()

	request, err := service.SendRequest(ctx, "u1", "Alice", "u2", "Bob", nil)
	require.NoError(t, err)

	responded, err := service.RespondToRequest(ctx, request.ID, true)
	require.NoError(t, err)
	assert.Equal(t, models.RequestStatusAccepted, responded.Status)

	for _, update := range updates.GetAll(ctx) {
		assert.True(t, update.Resolved)
	}
}

func TestRespondToRequestIsOneShot(t *testing.T) {
	ctx := context.Background()
	service, _ := newFriendService()

	request, err := service.SendRequest(ctx, "u1", "Alice", "u2", "Bob", nil)
	require.NoError(t, err)

	_, err = service.RespondToRequest(ctx, request.ID, false)
	require.NoError(t, err)

	_, err = service.RespondToRequest(ctx, request.ID, true)
	assert.Error(t, err)

	declined := service.GetPendingRequests(ctx, "u2")
	assert.Empty(t, declined)
}

func TestRespondToRequestUnknownID(t *testing.T) {
	ctx := context.Background()
	service, _ := newFriendService()

	_, err := service.RespondToRequest(ctx, "missing-id", true)
	assert.Error(t, err)
}
