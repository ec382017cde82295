// Package scheduler runs periodic sitemap regeneration on gocron.
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/go-co-op/gocron/v2"
	command "github.com/goliatone/go-command"
	"github.com/google/uuid"

	sitemapcmd "github.com/soygarfield/go-editorial/internal/commands/sitemap"
	"github.com/soygarfield/go-editorial/internal/logging"
	"github.com/soygarfield/go-editorial/pkg/interfaces"
)

const sitemapJobName = "sitemap-regenerate"

var ErrInvalidInterval = errors.New("scheduler: interval must be positive")

// Scheduler owns a gocron scheduler. Jobs run in singleton mode, so a slow
// run is never overlapped by the next tick.
type Scheduler struct {
	sched  gocron.Scheduler
	logger interfaces.Logger

	mu     sync.Mutex
	ctx    context.Context
	cancel context.CancelFunc
}

// New creates a stopped scheduler.
func New(logger interfaces.Logger) (*Scheduler, error) {
	sched, err := gocron.NewScheduler()
	if err != nil {
		return nil, fmt.Errorf("scheduler: create: %w", err)
	}
	if logger == nil {
		logger = logging.NoOp()
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Scheduler{sched: sched, logger: logger, ctx: ctx, cancel: cancel}, nil
}

// ScheduleSitemap dispatches a GenerateCommand every interval. When
// immediate is set the first run starts right away.
func (s *Scheduler) ScheduleSitemap(interval time.Duration, immediate bool, handler command.Commander[sitemapcmd.GenerateCommand]) (uuid.UUID, error) {
	if interval <= 0 {
		return uuid.Nil, ErrInvalidInterval
	}
	opts := []gocron.JobOption{
		gocron.WithName(sitemapJobName),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	}
	if immediate {
		opts = append(opts, gocron.WithStartAt(gocron.WithStartImmediately()))
	}

	job, err := s.sched.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(s.runSitemap, handler),
		opts...,
	)
	if err != nil {
		return uuid.Nil, fmt.Errorf("scheduler: create sitemap job: %w", err)
	}
	s.logger.Info("sitemap regeneration scheduled", "interval", interval, "job_id", job.ID())
	return job.ID(), nil
}

func (s *Scheduler) runSitemap(handler command.Commander[sitemapcmd.GenerateCommand]) {
	s.mu.Lock()
	ctx := s.ctx
	s.mu.Unlock()

	msg := sitemapcmd.GenerateCommand{Trigger: sitemapcmd.TriggerSchedule, RequestID: uuid.NewString()}
	if err := handler.Execute(ctx, msg); err != nil {
		s.logger.Warn("scheduled sitemap run failed", "request_id", msg.RequestID, "error", err)
	}
}

// Start begins executing scheduled jobs.
func (s *Scheduler) Start() {
	s.sched.Start()
}

// Shutdown cancels in-flight runs and stops the scheduler.
func (s *Scheduler) Shutdown() error {
	s.mu.Lock()
	s.cancel()
	s.mu.Unlock()
	return s.sched.Shutdown()
}
