package cron

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/xtrack-backend-go/internal/pkg/civil"
)

// AbsenceMarker records absences for a finished day.
type AbsenceMarker interface {
	MarkAbsent(ctx context.Context, date civil.Date) (int64, error)
}

type AttendanceJobs struct {
	marker   AbsenceMarker
	location *time.Location
	now      func() time.Time
}

func NewAttendanceJobs(marker AbsenceMarker, location *time.Location) *AttendanceJobs {
	return &AttendanceJobs{
		marker:   marker,
		location: location,
		now:      time.Now,
	}
}

func (j *AttendanceJobs) RegisterJobs(scheduler *Scheduler, interval time.Duration) {
	scheduler.AddJob("mark_absent_employees", interval, j.MarkAbsentEmployees)
}

// MarkAbsentEmployees closes out yesterday in the configured location.
// Marking is idempotent, so running it every interval is safe.
func (j *AttendanceJobs) MarkAbsentEmployees(ctx context.Context) error {
	yesterday := civil.DateOf(j.now(), j.location).AddDays(-1)

	count, err := j.marker.MarkAbsent(ctx, yesterday)
	if err != nil {
		return fmt.Errorf("failed to mark absences for %s: %w", yesterday, err)
	}

	if count > 0 {
		slog.Info("absent employees marked", "date", yesterday.String(), "count", count)
	}
	return nil
}
