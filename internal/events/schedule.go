package events

import (
	"context"
	"fmt"
	"time"

	"github.com/go-co-op/gocron"

	"github.com/litescript/nattklar/internal/logging"
)

// DefaultSchedule refreshes events every six hours.
const DefaultSchedule = "0 */6 * * *"

// refreshTimeout bounds one scheduled refresh.
const refreshTimeout = 2 * time.Minute

// Schedule runs r.Refresh on the cron expression until the returned
// scheduler is stopped. Overlapping runs are skipped.
func Schedule(r *Refresher, cronExpr string, logger *logging.Logger) (*gocron.Scheduler, error) {
	if cronExpr == "" {
		cronExpr = DefaultSchedule
	}
	if logger == nil {
		logger = logging.Discard()
	}

	s := gocron.NewScheduler(time.UTC)
	s.SingletonModeAll()

	_, err := s.Cron(cronExpr).Do(func() {
		ctx, cancel := context.WithTimeout(context.Background(), refreshTimeout)
		defer cancel()

		logger.Debug("scheduled event refresh")
		r.Invalidate()
		if _, err := r.Refresh(ctx); err != nil {
			logger.Warn("scheduled event refresh: %v", err)
		}
	})
	if err != nil {
		return nil, fmt.Errorf("schedule event refresh %q: %w", cronExpr, err)
	}

	s.StartAsync()
	return s, nil
}
