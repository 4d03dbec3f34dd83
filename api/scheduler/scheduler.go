package scheduler

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/linesmerrill/dispatch-console/console"
	"github.com/linesmerrill/dispatch-console/countdown"
	"github.com/linesmerrill/dispatch-console/models"
)

// Publisher receives the frames produced on every tick
type Publisher interface {
	Publish(frame models.Frame)
}

// Recorder receives countdown measurements
type Recorder interface {
	ObserveCountdown(key string, remaining time.Duration)
	CountdownExpired(key string)
}

// Scheduler drives the console countdowns once per second
type Scheduler struct {
	cron         *cron.Cron
	Admin        *console.Admin
	Sync         *countdown.Countdown
	SyncInterval time.Duration
	Publisher    Publisher
	Recorder     Recorder
}

// NewScheduler creates a new scheduler instance
func NewScheduler(admin *console.Admin, sync *countdown.Countdown, syncInterval time.Duration, pub Publisher, rec Recorder) *Scheduler {
	return &Scheduler{
		cron:         cron.New(cron.WithLocation(time.UTC)),
		Admin:        admin,
		Sync:         sync,
		SyncInterval: syncInterval,
		Publisher:    pub,
		Recorder:     rec,
	}
}

// Start begins the scheduler with all registered jobs
func (s *Scheduler) Start() {
	_, err := s.cron.AddFunc("@every 1s", func() {
		s.RunTick(context.Background())
	})
	if err != nil {
		zap.S().Errorw("failed to register countdown tick job", "error", err)
	}

	_, err = s.cron.AddFunc("@every 1m", s.Admin.PruneBanner)
	if err != nil {
		zap.S().Errorw("failed to register banner prune job", "error", err)
	}

	s.cron.Start()
	zap.S().Info("Countdown scheduler started")
}

// Stop gracefully stops the scheduler
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	zap.S().Info("Countdown scheduler stopped")
}

// RunTick advances both countdowns, restarts the sync countdown once it has
// cleared and publishes the result
func (s *Scheduler) RunTick(ctx context.Context) {
	s.tick(ctx, s.Admin.Maintenance)
	if s.tick(ctx, s.Sync) == countdown.Uninitialized {
		s.restartSync(ctx)
	}

	if s.Publisher == nil {
		return
	}
	s.Publisher.Publish(models.Frame{
		Type: models.FrameCountdowns,
		Data: []countdown.View{s.Admin.Maintenance.Snapshot(), s.Sync.Snapshot()},
	})
	msg, _ := s.Admin.Banner()
	s.Publisher.Publish(models.Frame{
		Type: models.FrameBanner,
		Data: models.BannerResponse{Message: msg, Maintenance: s.Admin.UpdateBanner()},
	})
}

func (s *Scheduler) tick(ctx context.Context, c *countdown.Countdown) countdown.State {
	before := c.State()
	remaining, _, err := c.Tick(ctx)
	after := c.State()
	if err != nil {
		zap.S().Errorw("failed to clear countdown",
			"key", c.Key(),
			"error", err)
	}

	if before == countdown.Running && after != countdown.Running {
		zap.S().Infow("countdown expired", "key", c.Key())
		if s.Recorder != nil {
			s.Recorder.CountdownExpired(c.Key())
		}
	}
	if before != countdown.Uninitialized && after == countdown.Uninitialized {
		zap.S().Infow("countdown cleared", "key", c.Key())
	}
	if s.Recorder != nil {
		s.Recorder.ObserveCountdown(c.Key(), remaining)
	}
	return after
}

func (s *Scheduler) restartSync(ctx context.Context) {
	target, err := s.Sync.Start(ctx, s.SyncInterval)
	if err != nil {
		zap.S().Errorw("failed to restart sync countdown", "error", err)
		return
	}
	zap.S().Debugw("sync countdown running", "target", target)
}
