package scheduler

import (
	"errors"

	"github.com/robfig/cron/v3"
	"github.com/sportaccessories/storefront/pkg/logger"
)

var ErrNoSchedule = errors.New("cart sweep schedule is empty")

// OrphanSweeper removes cart lines whose product no longer exists
type OrphanSweeper interface {
	SweepOrphanedItems() (int64, error)
}

// CartSweepScheduler periodically clears cart lines left behind by deleted products
type CartSweepScheduler struct {
	cron     *cron.Cron
	sweeper  OrphanSweeper
	schedule string
}

func NewCartSweepScheduler(sweeper OrphanSweeper, schedule string) *CartSweepScheduler {
	return &CartSweepScheduler{
		cron:     cron.New(),
		sweeper:  sweeper,
		schedule: schedule,
	}
}

// Start registers the sweep and starts the cron loop. schedule accepts standard
// five-field expressions and descriptors such as "@hourly" or "@every 30m".
func (s *CartSweepScheduler) Start() error {
	if s.schedule == "" {
		return ErrNoSchedule
	}

	if _, err := s.cron.AddFunc(s.schedule, s.RunOnce); err != nil {
		logger.Error("Failed to add cron job for cart sweep", err, map[string]interface{}{
			"schedule": s.schedule,
		})
		return err
	}

	s.cron.Start()
	logger.Info("Cart sweep scheduler started", map[string]interface{}{
		"schedule": s.schedule,
	})
	return nil
}

// RunOnce performs a single sweep
func (s *CartSweepScheduler) RunOnce() {
	removed, err := s.sweeper.SweepOrphanedItems()
	if err != nil {
		logger.Error("Scheduled cart sweep failed", err)
		return
	}
	logger.Debug("Scheduled cart sweep finished", map[string]interface{}{
		"removed": removed,
	})
}

// Stop waits for a running sweep to finish
func (s *CartSweepScheduler) Stop() {
	logger.Info("Stopping cart sweep scheduler...")
	<-s.cron.Stop().Done()
	logger.Info("Cart sweep scheduler stopped")
}
