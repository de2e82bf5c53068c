package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"taskhub/internal/repository"
)

// SweepService periodically refreshes stored overdue flags. The flag is
// recomputed on every write touching due date or status, but time alone
// can make an open task overdue with no write in between; the sweep
// closes that window so indexed overdue filters stay honest.
type SweepService struct {
	cron     *cron.Cron
	taskRepo *repository.TaskRepository
	log      *slog.Logger
}

func NewSweepService(taskRepo *repository.TaskRepository, log *slog.Logger, loc *time.Location) *SweepService {
	return &SweepService{
		cron:     cron.New(cron.WithLocation(loc), cron.WithSeconds()),
		taskRepo: taskRepo,
		log:      log,
	}
}

// ScheduleInterval registers the sweep every given duration.
func (s *SweepService) ScheduleInterval(interval time.Duration) (cron.EntryID, error) {
	if interval <= 0 {
		return 0, fmt.Errorf("interval must be positive")
	}
	seconds := int(interval.Seconds())
	if seconds <= 0 {
		seconds = 1
	}
	spec := fmt.Sprintf("@every %ds", seconds)
	return s.cron.AddFunc(spec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if _, err := s.RefreshOverdue(ctx); err != nil {
			s.log.Error("overdue sweep", "error", err)
		}
	})
}

func (s *SweepService) Start() {
	s.cron.Start()
}

func (s *SweepService) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
}

// RefreshOverdue runs one sweep pass and reports how many flags flipped.
func (s *SweepService) RefreshOverdue(ctx context.Context) (int64, error) {
	updated, err := s.taskRepo.RefreshOverdue(ctx, time.Now().UTC())
	if err != nil {
		return 0, err
	}
	if updated > 0 {
		s.log.Info("overdue sweep", "updated", updated)
	}
	return updated, nil
}
