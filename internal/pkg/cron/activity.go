package cron

import (
	"context"
	"log/slog"
	"time"

	"github.com/hrsuite/hr-backend-go/internal/domain/attendance"
)

// ActivityJobs holds housekeeping over the raw punch log.
type ActivityJobs struct {
	activityRepo attendance.ActivityRepository
}

func NewActivityJobs(activityRepo attendance.ActivityRepository) *ActivityJobs {
	return &ActivityJobs{activityRepo: activityRepo}
}

func (j *ActivityJobs) RegisterJobs(scheduler *Scheduler) {
	scheduler.AddJob("close_stale_activities", 1*time.Hour, j.CloseStaleActivities)
}

// CloseStaleActivities closes punch rows left open after their day rolled
// over, stamping end-of-day as the clock-out.
func (j *ActivityJobs) CloseStaleActivities(ctx context.Context) error {
	now := time.Now().UTC()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)

	stale, err := j.activityRepo.ListOpenBefore(ctx, today)
	if err != nil {
		return err
	}
	if len(stale) == 0 {
		return nil
	}

	closed := 0
	for _, event := range stale {
		endOfDay := event.AttendanceDate.Add(24*time.Hour - time.Second)
		if err := j.activityRepo.Close(ctx, event.ID, endOfDay); err != nil {
			slog.Warn("Failed to close stale activity", "activity_id", event.ID, "error", err)
			continue
		}
		closed++
	}

	slog.Info("Closed stale activities", "found", len(stale), "closed", closed)
	return nil
}
