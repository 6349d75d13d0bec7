package cron

import (
	"context"

	"github.com/danabekov/huddle/internal/jobs"
	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// StartInviteCronJobs runs the invite expiry sweep hourly.
func StartInviteCronJobs(expirer *jobs.InviteExpirer) {
	c := cron.New()

	if _, err := c.AddFunc("@hourly", func() {
		expirer.RunSweep(context.Background())
	}); err != nil {
		logrus.WithError(err).Error("Failed to schedule invite expiry sweep")
		return
	}

	c.Start()
}
