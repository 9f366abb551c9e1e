package sprint

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/tiXor-code/kanban-board/internal/models"
	"gorm.io/gorm"
)

// Rollover closes active sprints whose end date is before today
// (YYYY-MM-DD). It returns how many sprints were closed.
func Rollover(db *gorm.DB, today string) (int64, error) {
	if !models.ValidDate(today) {
		return 0, fmt.Errorf("sprint: %w: rollover date %q", models.ErrInvalid, today)
	}
	result := db.Model(&models.Sprint{}).
		Where("status = ? AND end_date IS NOT NULL AND end_date < ?", models.SprintActive, today).
		Update("status", models.SprintClosed)
	if result.Error != nil {
		return 0, fmt.Errorf("sprint: rollover: %w", result.Error)
	}
	return result.RowsAffected, nil
}

// Scheduler runs Rollover on a cron schedule.
type Scheduler struct {
	getDB func() (*gorm.DB, error)
	cron  *cron.Cron
	now   func() time.Time
}

// NewScheduler parses a standard 5-field cron expression and registers the
// rollover job. getDB is called on every run so the connection can be opened
// lazily. Call Start to begin running it.
func NewScheduler(getDB func() (*gorm.DB, error), schedule string) (*Scheduler, error) {
	s := &Scheduler{getDB: getDB, now: time.Now}
	c := cron.New()
	if _, err := c.AddFunc(schedule, s.run); err != nil {
		return nil, fmt.Errorf("sprint: rollover schedule %q: %w", schedule, err)
	}
	s.cron = c
	return s, nil
}

// Start runs the scheduler in the background.
func (s *Scheduler) Start() { s.cron.Start() }

// Stop halts the scheduler and returns a context that is done once any
// running job finishes.
func (s *Scheduler) Stop() context.Context { return s.cron.Stop() }

// Next reports when the rollover job fires next.
func (s *Scheduler) Next() time.Time {
	entries := s.cron.Entries()
	if len(entries) == 0 {
		return time.Time{}
	}
	return entries[0].Schedule.Next(s.now())
}

func (s *Scheduler) run() {
	db, err := s.getDB()
	if err != nil {
		log.Printf("sprint: rollover skipped: %v", err)
		return
	}
	today := s.now().Format(models.DateLayout)
	n, err := Rollover(db, today)
	if err != nil {
		log.Printf("sprint: rollover error: %v", err)
		return
	}
	if n > 0 {
		log.Printf("sprint: rollover closed %d sprint(s) ending before %s", n, today)
	}
}
