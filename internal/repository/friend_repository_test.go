package repository

import (
	"context"
	"testing"

	"github.com/danabekov/huddle/internal/models"
	"github.com/danabekov/huddle/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFindExistingRequestIsOrderIndependent(t *testing.T) {
	ctx := context.Background()
	repo := NewFriendRepository(storage.NewMemoryStore())

	created := repo.CreateRequest(ctx, "u1", "Alice", "u2", "Bob")
	require.NotNil(t, created)

	found := repo.FindExistingRequest(ctx, "u2", "u1")
	require.NotNil(t, found)
	assert.Equal(t, created.ID, found.ID)

	found = repo.FindExistingRequest(ctx, "u1", "u2")
	require.NotNil(t, found)
	assert.Equal(t, created.ID, found.ID)
}

func TestCreateRequestReturnsExistingPending(t *testing.T) {
	ctx := context.Background()
	repo := NewFriendRepository(storage.NewMemoryStore())

	first := repo.CreateRequest(ctx, "u1", "Alice", "u2", "Bob")
	reversed := repo.CreateRequest(ctx, "u2", "Bob", "u1", "Alice")

	assert.Equal(t, first.ID, reversed.ID)
	assert.Len(t, repo.load(ctx), 1)
}

func TestCreateRequestAllowsNewPairAfterResolution(t *testing.T) {
	ctx := context.Background()
	repo := NewFriendRepository(storage.NewMemoryStore())

	first := repo.CreateRequest(ctx, "u1", "Alice", "u2", "Bob")
	require.True(t, repo.UpdateStatus(ctx, first.ID, models.RequestStatusDeclined))

	second := repo.CreateRequest(ctx, "u1", "Alice", "u2", "Bob")
	assert.NotEqual(t, first.ID, second.ID)
	assert.Len(t, repo.load(ctx), 2)
}

func TestUpdateStatusIsTerminal(t *testing.T) {
	ctx := context.Background()
	repo := NewFriendRepository(storage.NewMemoryStore())

	request := repo.CreateRequest(ctx, "u1", "Alice", "u2", "Bob")

	require.True(t, repo.UpdateStatus(ctx, request.ID, models.RequestStatusAccepted))
	assert.False(t, repo.UpdateStatus(ctx, request.ID, models.RequestStatusDeclined))
	assert.Equal(t, models.RequestStatusAccepted, repo.GetByID(ctx, request.ID).Status)
}

func TestUpdateStatusRejectsInvalidValues(t *testing.T) {
	ctx := context.Background()
	repo := NewFriendRepository(storage.NewMemoryStore())

	request := repo.CreateRequest(ctx, "u1", "Alice", "u2", "Bob")

	assert.False(t, repo.UpdateStatus(ctx, request.ID, "pending"))
	assert.False(t, repo.UpdateStatus(ctx, request.ID, "banana"))
	assert.False(t, repo.UpdateStatus(ctx, "missing-id", models.RequestStatusAccepted))
	assert.Equal(t, models.RequestStatusPending, repo.GetByID(ctx, request.ID).Status)
}

func TestGetPendingRequestsForUser(t *testing.T) {
	ctx := context.Background()
	repo := NewFriendRepository(storage.NewMemoryStore())

	incoming := repo.CreateRequest(ctx, "u1", "Alice", "u3", "Carol")
	repo.CreateRequest(ctx, "u3", "Carol", "u2", "Bob")
	resolved := repo.CreateRequest(ctx, "u4", "Dave", "u3", "Carol")
	repo.UpdateStatus(ctx, resolved.ID, models.RequestStatusAccepted)

	pending := repo.GetPendingRequestsForUser(ctx, "u3")
	require.Len(t, pending, 1)
	assert.Equal(t, incoming.ID, pending[0].ID)
}

func TestAreAlreadyFriends(t *testing.T) {
	friends := []models.Friend{
		{UserID: "u2", UserName: "Bob", Status: models.RequestStatusAccepted},
		{UserID: "u3", UserName: "Carol", Status: models.RequestStatusPending},
	}

	assert.True(t, AreAlreadyFriends("u1", "u2", friends))
	assert.False(t, AreAlreadyFriends("u1", "u3", friends))
	assert.False(t, AreAlreadyFriends("u1", "u4", friends))
	assert.False(t, AreAlreadyFriends("u1", "u2", nil))
}
