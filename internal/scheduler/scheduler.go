// Package scheduler runs the background housekeeping jobs: refreshing the
// NI Places access token and pruning expired sessions.
package scheduler

import (
	"context"
	"log"
	"time"

	"github.com/go-co-op/gocron"
)

// Refresher renews a cached credential.
type Refresher interface {
	Refresh(ctx context.Context) (string, error)
}

// Pruner drops expired entries and reports how many it removed.
type Pruner interface {
	Prune() int
}

// Scheduler periodically refreshes the NI token and prunes sessions.
type Scheduler struct {
	scheduler     *gocron.Scheduler
	tokens        Refresher
	sessions      Pruner
	tokenInterval time.Duration
	pruneInterval time.Duration
}

// New creates a new Scheduler. Either job is skipped when its dependency is
// nil.
func New(tokens Refresher, tokenInterval time.Duration, sessions Pruner, pruneInterval time.Duration) *Scheduler {
	s := gocron.NewScheduler(time.UTC)
	return &Scheduler{
		scheduler:     s,
		tokens:        tokens,
		sessions:      sessions,
		tokenInterval: tokenInterval,
		pruneInterval: pruneInterval,
	}
}

func minutesOr(d time.Duration, def int) int {
	if m := int(d.Minutes()); m > 0 {
		return m
	}
	return def
}

// Start schedules the jobs and starts the underlying scheduler. Each job
// runs once immediately.
func (s *Scheduler) Start() error {
	if s.tokens == nil && s.sessions == nil {
		log.Println("scheduler: nothing to schedule")
		return nil
	}

	if s.tokens != nil {
		_, err := s.scheduler.Every(minutesOr(s.tokenInterval, 30)).Minutes().Do(func() {
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()

			if _, err := s.tokens.Refresh(ctx); err != nil {
				log.Printf("scheduler: ni token refresh failed: %v", err)
			}
		})
		if err != nil {
			return err
		}
	}

	if s.sessions != nil {
		_, err := s.scheduler.Every(minutesOr(s.pruneInterval, 10)).Minutes().Do(func() {
			if n := s.sessions.Prune(); n > 0 {
				log.Printf("scheduler: pruned %d expired sessions", n)
			}
		})
		if err != nil {
			return err
		}
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
