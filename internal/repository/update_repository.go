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

// Chat previews are truncated before they reach the log so the inbox never
// holds a full message body.
const chatPreviewLimit = 50

// UpdateRepository is the append-only log of notification events. Entries are
// never removed, only flagged resolved.
type UpdateRepository struct {
	store storage.Store
	now   func() time.Time
}

func NewUpdateRepository(store storage.Store) *UpdateRepository {
	return &UpdateRepository{
		store: store,
		now:   time.Now,
	}
}

func (r *UpdateRepository) load(ctx context.Context) []models.EventUpdate {
	raw, ok, err := r.store.Get(ctx, storage.KeyEventUpdates)
	if err != nil {
		logrus.WithError(err).Warn("Failed to read event updates, using empty collection")
		return nil
	}
	if !ok {
		return nil
	}
	var updates []models.EventUpdate
	if err := json.Unmarshal(raw, &updates); err != nil {
		logrus.WithError(err).Warn("Failed to decode event updates, using empty collection")
		return nil
	}
	return updates
}

func (r *UpdateRepository) save(ctx context.Context, updates []models.EventUpdate) {
	raw, err := json.Marshal(updates)
	if err != nil {
		logrus.WithError(err).Warn("Failed to encode event updates, write skipped")
		return
	}
	if err := r.store.Put(ctx, storage.KeyEventUpdates, raw); err != nil {
		logrus.WithError(err).Warn("Failed to persist event updates, write skipped")
	}
}

// UpdateParams carries the caller-supplied fields of a new event update.
type UpdateParams struct {
	Type      string
	EventID   string
	ActorID   string
	ActorName string
	Message   string
}

// CreateUpdate builds an unresolved update, stamping id and creation time.
func (r *UpdateRepository) CreateUpdate(params UpdateParams) models.EventUpdate {
	return models.EventUpdate{
		ID:        primitive.NewObjectID().Hex(),
		Type:      params.Type,
		EventID:   params.EventID,
		ActorID:   params.ActorID,
		ActorName: params.ActorName,
		Message:   params.Message,
		CreatedAt: r.now(),
		Resolved:  false,
	}
}

// AddUpdate appends to the log, persists, and returns the full log.
func (r *UpdateRepository) AddUpdate(ctx context.Context, update models.EventUpdate) []models.EventUpdate {
	updates := append(r.load(ctx), update)
	r.save(ctx, updates)
	return updates
}

// GetAll returns the full log in insertion order.
func (r *UpdateRepository) GetAll(ctx context.Context) []models.EventUpdate {
	return r.load(ctx)
}

// Resolve flips a single update to resolved. Resolving an already-resolved or
// unknown id is a no-op.
func (r *UpdateRepository) Resolve(ctx context.Context, updateID string) {
	updates := r.load(ctx)
	for i := range updates {
		if updates[i].ID == updateID && !updates[i].Resolved {
			updates[i].Resolved = true
			r.save(ctx, updates)
			return
		}
	}
}

// ResolveByEvent flips every unresolved update correlated to the event.
func (r *UpdateRepository) ResolveByEvent(ctx context.Context, eventID string) {
	r.resolveMatching(ctx, func(u *models.EventUpdate) bool {
		return u.EventID == eventID
	})
}

// ResolveByEventAndType flips every unresolved update correlated to the event
// with the given type.
func (r *UpdateRepository) ResolveByEventAndType(ctx context.Context, eventID, updateType string) {
	r.resolveMatching(ctx, func(u *models.EventUpdate) bool {
		return u.EventID == eventID && u.Type == updateType
	})
}

func (r *UpdateRepository) resolveMatching(ctx context.Context, match func(*models.EventUpdate) bool) {
	updates := r.load(ctx)
	changed := false
	for i := range updates {
		if !updates[i].Resolved && match(&updates[i]) {
			updates[i].Resolved = true
			changed = true
		}
	}
	if changed {
		r.save(ctx, updates)
	}
}

// EmitJoinRequest records that actor asked to join the activity.
func (r *UpdateRepository) EmitJoinRequest(ctx context.Context, eventID, actorID, actorName string) models.EventUpdate {
	return r.emit(ctx, UpdateParams{
		Type:      models.UpdateTypeJoinRequest,
		EventID:   eventID,
		ActorID:   actorID,
		ActorName: actorName,
	})
}

// EmitJoinApproved records that the actor's join request was approved.
func (r *UpdateRepository) EmitJoinApproved(ctx context.Context, eventID, actorID, actorName string) models.EventUpdate {
	return r.emit(ctx, UpdateParams{
		Type:      models.UpdateTypeJoinApproved,
		EventID:   eventID,
		ActorID:   actorID,
		ActorName: actorName,
	})
}

// EmitJoinDeclined records that the actor's join request was declined.
func (r *UpdateRepository) EmitJoinDeclined(ctx context.Context, eventID, actorID, actorName string) models.EventUpdate {
	return r.emit(ctx, UpdateParams{
		Type:      models.UpdateTypeJoinDeclined,
		EventID:   eventID,
		ActorID:   actorID,
		ActorName: actorName,
	})
}

// EmitEventChat records a chat message in an activity, storing only a
// truncated preview of the text.
func (r *UpdateRepository) EmitEventChat(ctx context.Context, eventID, actorID, actorName, message string) models.EventUpdate {
	return r.emit(ctx, UpdateParams{
		Type:      models.UpdateTypeChatMessage,
		EventID:   eventID,
		ActorID:   actorID,
		ActorName: actorName,
		Message:   truncatePreview(message),
	})
}

// EmitEventEdited records that the activity's details changed.
func (r *UpdateRepository) EmitEventEdited(ctx context.Context, eventID, actorID, actorName string) models.EventUpdate {
	return r.emit(ctx, UpdateParams{
		Type:      models.UpdateTypeEventEdited,
		EventID:   eventID,
		ActorID:   actorID,
		ActorName: actorName,
	})
}

// EmitEventCancelled records that the activity was cancelled.
func (r *UpdateRepository) EmitEventCancelled(ctx context.Context, eventID, actorID, actorName string) models.EventUpdate {
	return r.emit(ctx, UpdateParams{
		Type:      models.UpdateTypeEventCancelled,
		EventID:   eventID,
		ActorID:   actorID,
		ActorName: actorName,
	})
}

// EmitParticipantLeft records that the actor left the activity.
func (r *UpdateRepository) EmitParticipantLeft(ctx context.Context, eventID, actorID, actorName string) models.EventUpdate {
	return r.emit(ctx, UpdateParams{
		Type:      models.UpdateTypeParticipantLeft,
		EventID:   eventID,
		ActorID:   actorID,
		ActorName: actorName,
	})
}

// EmitFriendRequest records an incoming friend request; eventID is the
// FriendRequest id.
func (r *UpdateRepository) EmitFriendRequest(ctx context.Context, requestID, actorID, actorName string) models.EventUpdate {
	return r.emit(ctx, UpdateParams{
		Type:      models.UpdateTypeFriendRequest,
		EventID:   requestID,
		ActorID:   actorID,
		ActorName: actorName,
	})
}

func (r *UpdateRepository) emit(ctx context.Context, params UpdateParams) models.EventUpdate {
	update := r.CreateUpdate(params)
	r.AddUpdate(ctx, update)
	return update
}

func truncatePreview(message string) string {
	runes := []rune(message)
	if len(runes) <= chatPreviewLimit {
		return message
	}
	return string(runes[:chatPreviewLimit]) + "…"
}
