package scheduler

import (
	"log"
	"time"

	"github.com/go-co-op/gocron"

	"github.com/Hiro-Kanda/AeroCast-Engine/internal/session"
)

// Scheduler periodically sweeps expired sessions out of the store. Expiry is
// already enforced lazily on read; the sweep only reclaims memory for
// sessions that are never read again.
type Scheduler struct {
	scheduler *gocron.Scheduler
	sessions  *session.Store
	interval  time.Duration
}

// New creates a Scheduler.
func New(sessions *session.Store, interval time.Duration) *Scheduler {
	s := gocron.NewScheduler(time.UTC)
	return &Scheduler{
		scheduler: s,
		sessions:  sessions,
		interval:  interval,
	}
}

// Start schedules the cleanup job and starts the underlying scheduler.
func (s *Scheduler) Start() error {
	minutes := int(s.interval.Minutes())
	if minutes <= 0 {
		minutes = 10
	}

	_, err := s.scheduler.Every(minutes).Minutes().Do(func() {
		if removed := s.sessions.CleanupExpired(); removed > 0 {
			log.Printf("scheduler: removed %d expired sessions", removed)
		}
	})
	if err != nil {
		return err
	}

	s.scheduler.StartAsync()
	return nil
}

// Stop stops the scheduler and cancels any future jobs.
func (s *Scheduler) Stop() {
	if s.scheduler != nil {
		s.scheduler.Stop()
	}
}
