package jobs

import (
	"context"
	"time"

	"github.com/danabekov/huddle/internal/repository"
	"github.com/sirupsen/logrus"
)

// InviteExpirer sweeps active invites past their TTL into the expired state.
type InviteExpirer struct {
	Invites *repository.InviteRepository
	TTL     time.Duration
}

func NewInviteExpirer(invites *repository.InviteRepository, ttl time.Duration) *InviteExpirer {
	return &InviteExpirer{
		Invites: invites,
		TTL:     ttl,
	}
}

// RunSweep expires stale invites and logs how many were affected.
func (e *InviteExpirer) RunSweep(ctx context.Context) {
	expired := e.Invites.ExpireOlderThan(ctx, e.TTL)
	if expired > 0 {
		logrus.Infof("Expired %d stale invites", expired)
	}
}
