package services

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/danabekov/huddle/internal/models"
	"github.com/danabekov/huddle/internal/repository"
)

// InboxService projects the append-only update log into the actionable inbox:
// unresolved entries, badge count, and the resolution entry points the UI
// calls when a notification is consumed. It holds no state beyond what it
// reads from the log.
type InboxService struct {
	updates *repository.UpdateRepository
	now     func() time.Time
}

func NewInboxService(updates *repository.UpdateRepository) *InboxService {
	return &InboxService{
		updates: updates,
		now:     time.Now,
	}
}

// GetUnresolvedUpdates returns unresolved updates, most recent first. Entries
// with equal timestamps keep reverse insertion order.
func (s *InboxService) GetUnresolvedUpdates(ctx context.Context) []models.EventUpdate {
	log := s.updates.GetAll(ctx)
	var unresolved []models.EventUpdate
	for i := len(log) - 1; i >= 0; i-- {
		if !log[i].Resolved {
			unresolved = append(unresolved, log[i])
		}
	}
	sort.SliceStable(unresolved, func(i, j int) bool {
		return unresolved[i].CreatedAt.After(unresolved[j].CreatedAt)
	})
	return unresolved
}

// GetUnresolvedCount is the sole source for badge counts. It is recomputed
// from the log on every read so it can never drift from the list.
func (s *InboxService) GetUnresolvedCount(ctx context.Context) int {
	return len(s.GetUnresolvedUpdates(ctx))
}

// ResolveUpdate marks a single update consumed. Unknown or already-resolved
// ids are ignored.
func (s *InboxService) ResolveUpdate(ctx context.Context, updateID string) {
	s.updates.Resolve(ctx, updateID)
}

// ResolveUpdatesByEvent marks every update correlated to the event consumed.
func (s *InboxService) ResolveUpdatesByEvent(ctx context.Context, eventID string) {
	s.updates.ResolveByEvent(ctx, eventID)
}

// ResolveUpdatesByEventAndType marks the event's updates of one type consumed.
func (s *InboxService) ResolveUpdatesByEventAndType(ctx context.Context, eventID, updateType string) {
	s.updates.ResolveByEventAndType(ctx, eventID, updateType)
}

// ResolveEventViewed clears the purely informational updates for an activity
// the user just opened. Join requests stay unresolved until the addressed
// party explicitly accepts or declines, and chat previews stay until the chat
// surface itself is opened.
func (s *InboxService) ResolveEventViewed(ctx context.Context, eventID string) {
	for _, updateType := range []string{
		models.UpdateTypeJoinApproved,
		models.UpdateTypeJoinDeclined,
		models.UpdateTypeEventEdited,
		models.UpdateTypeEventCancelled,
		models.UpdateTypeParticipantLeft,
	} {
		s.updates.ResolveByEventAndType(ctx, eventID, updateType)
	}
}

// ResolveEventChatOpened clears the chat previews for an activity once its
// chat surface is open.
func (s *InboxService) ResolveEventChatOpened(ctx context.Context, eventID string) {
	s.updates.ResolveByEventAndType(ctx, eventID, models.UpdateTypeChatMessage)
}

// FormatRelativeTime renders a timestamp relative to a single "now" read at
// call time: "Just now", minutes, hours, days, then a short absolute date.
func (s *InboxService) FormatRelativeTime(timestamp time.Time) string {
	elapsed := s.now().Sub(timestamp)
	// Backfilled or skewed timestamps can land ahead of the clock; treat
	// them as current rather than rendering negative buckets.
	if elapsed < 0 {
		elapsed = 0
	}

	switch {
	case elapsed < time.Minute:
		return "Just now"
	case elapsed < time.Hour:
		return fmt.Sprintf("%dm ago", int(elapsed/time.Minute))
	case elapsed < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(elapsed/time.Hour))
	case elapsed < 7*24*time.Hour:
		return fmt.Sprintf("%dd ago", int(elapsed/(24*time.Hour)))
	default:
		return timestamp.Format("Jan 2, 2006")
	}
}
