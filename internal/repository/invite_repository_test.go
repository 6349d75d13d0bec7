package repository

import (
	"context"
	"crypto/rand"
	"strings"
	"testing"
	"time"

	"github.com/danabekov/huddle/internal/models"
	"github.com/danabekov/huddle/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInviteLifecycle(t *testing.T) {
	ctx := context.Background()
	repo := NewInviteRepository(storage.NewMemoryStore())

	invite := repo.CreateInvite(ctx, "alice-id", "Alice")
	require.NotNil(t, invite)
	assert.Equal(t, models.InviteStatusActive, invite.Status)
	assert.Equal(t, "alice-id", invite.FromUserID)

	validation := repo.Validate(ctx, invite.Token)
	require.True(t, validation.Valid)
	assert.Equal(t, invite.ID, validation.Invite.ID)

	repo.MarkUsed(ctx, invite.Token, "bob-id")

	validation = repo.Validate(ctx, invite.Token)
	require.False(t, validation.Valid)
	assert.Equal(t, models.InviteReasonAlreadyUsed, validation.Reason)

	used := repo.FindByToken(ctx, invite.Token)
	require.NotNil(t, used)
	assert.Equal(t, "bob-id", used.UsedByUserID)
	require.NotNil(t, used.UsedAt)
}

func TestMarkUsedKeepsFirstConsumer(t *testing.T) {
	ctx := context.Background()
	repo := NewInviteRepository(storage.NewMemoryStore())

	invite := repo.CreateInvite(ctx, "alice-id", "Alice")
	repo.MarkUsed(ctx, invite.Token, "bob-id")

	first := repo.FindByToken(ctx, invite.Token)
	require.NotNil(t, first.UsedAt)
	firstUsedAt := *first.UsedAt

	repo.MarkUsed(ctx, invite.Token, "carol-id")

	second := repo.FindByToken(ctx, invite.Token)
	assert.Equal(t, "bob-id", second.UsedByUserID)
	assert.True(t, second.UsedAt.Equal(firstUsedAt))
}

func TestValidateReasonOrder(t *testing.T) {
	ctx := context.Background()
	repo := NewInviteRepository(storage.NewMemoryStore())

	assert.Equal(t, models.InviteReasonNoToken, repo.Validate(ctx, "").Reason)
	assert.Equal(t, models.InviteReasonNotFound, repo.Validate(ctx, "missing-token").Reason)

	repo.now = func() time.Time { return time.Now().Add(-48 * time.Hour) }
	invite := repo.CreateInvite(ctx, "alice-id", "Alice")
	repo.now = time.Now
	repo.ExpireOlderThan(ctx, 24*time.Hour)

	validation := repo.Validate(ctx, invite.Token)
	require.False(t, validation.Valid)
	assert.Equal(t, models.InviteReasonExpired, validation.Reason)
}

func TestMarkUsedUnknownTokenIsNoop(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemoryStore()
	repo := NewInviteRepository(store)

	repo.CreateInvite(ctx, "alice-id", "Alice")
	repo.MarkUsed(ctx, "no-such-token", "bob-id")

	invites := repo.load(ctx)
	require.Len(t, invites, 1)
	assert.Equal(t, models.InviteStatusActive, invites[0].Status)
}

func TestTokenShape(t *testing.T) {
	ctx := context.Background()
	repo := NewInviteRepository(storage.NewMemoryStore())

	first := repo.CreateInvite(ctx, "alice-id", "Alice")
	second := repo.CreateInvite(ctx, "alice-id", "Alice")

	assert.Len(t, first.Token, inviteTokenLength)
	assert.NotEqual(t, first.Token, second.Token)
	for _, r := range first.Token {
		assert.True(t, strings.ContainsRune(inviteTokenAlphabet, r), "unexpected token symbol %q", r)
	}
}

func TestExpireOlderThanOnlyTouchesStaleActives(t *testing.T) {
	ctx := context.Background()
	repo := NewInviteRepository(storage.NewMemoryStore())

	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	repo.now = func() time.Time { return base.Add(-72 * time.Hour) }
	stale := repo.CreateInvite(ctx, "alice-id", "Alice")
	used := repo.CreateInvite(ctx, "alice-id", "Alice")
	repo.MarkUsed(ctx, used.Token, "bob-id")

	repo.now = func() time.Time { return base }
	fresh := repo.CreateInvite(ctx, "alice-id", "Alice")

	assert.Equal(t, 1, repo.ExpireOlderThan(ctx, 24*time.Hour))
	assert.Equal(t, models.InviteStatusExpired, repo.FindByToken(ctx, stale.Token).Status)
	assert.Equal(t, models.InviteStatusUsed, repo.FindByToken(ctx, used.Token).Status)
	assert.Equal(t, models.InviteStatusActive, repo.FindByToken(ctx, fresh.Token).Status)
}

func TestCreateInviteFailsWithoutEntropy(t *testing.T) {
	ctx := context.Background()
	repo := NewInviteRepository(storage.NewMemoryStore())

	randRead = func([]byte) (int, error) { return 0, assert.AnError }
	defer func() { randRead = rand.Read }()

	assert.Nil(t, repo.CreateInvite(ctx, "alice-id", "Alice"), "a predictable token must never be issued")
	assert.Empty(t, repo.load(ctx))
}

func TestDegradedStorageNeverPanics(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemoryStore()
	store.FailGets = true
	store.FailPuts = true
	repo := NewInviteRepository(store)

	invite := repo.CreateInvite(ctx, "alice-id", "Alice")
	require.NotNil(t, invite)
	assert.Nil(t, repo.FindByToken(ctx, invite.Token))
	assert.Equal(t, models.InviteReasonNotFound, repo.Validate(ctx, invite.Token).Reason)
}
