package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/orgball2608/insta-downloader/pkg/logger"
)

const cleanupTimeout = 30 * time.Second

// Sweeper periodically runs Cleanup on a Janitor.
type Sweeper struct {
	scheduler gocron.Scheduler
	janitor   Janitor
	logger    logger.Logger
}

func NewSweeper(janitor Janitor, interval time.Duration, log logger.Logger) (*Sweeper, error) {
	if interval <= 0 {
		interval = 5 * time.Minute
	}

	scheduler, err := gocron.NewScheduler(gocron.WithLocation(time.UTC))
	if err != nil {
		return nil, fmt.Errorf("failed to create scheduler: %w", err)
	}

	s := &Sweeper{
		scheduler: scheduler,
		janitor:   janitor,
		logger:    log.WithComponent("CacheSweeper"),
	}

	_, err = scheduler.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(s.Sweep),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to schedule cache cleanup: %w", err)
	}

	return s, nil
}

// Sweep runs a single cleanup pass.
func (s *Sweeper) Sweep() {
	ctx, cancel := context.WithTimeout(context.Background(), cleanupTimeout)
	defer cancel()

	removed, err := s.janitor.Cleanup(ctx)
	if err != nil {
		s.logger.Error("Cache cleanup failed", "error", err)
		return
	}
	if removed > 0 {
		s.logger.Info("Removed expired cache entries", "count", removed)
	}
}

func (s *Sweeper) Start() {
	s.scheduler.Start()
	s.logger.Info("Cache cleanup scheduled")
}

func (s *Sweeper) Stop() error {
	return s.scheduler.Shutdown()
}
