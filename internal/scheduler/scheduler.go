package scheduler

import (
	"context"
	"sync"
	"time"

	"github.com/go-co-op/gocron"
	"go.uber.org/zap"

	"github.com/weatherdeck/weatherdeck/internal/store"
	"github.com/weatherdeck/weatherdeck/internal/weather"
)

// Scheduler periodically pre-warms the snapshot cache for tracked cities so
// dashboard loads hit fresh data.
type Scheduler struct {
	scheduler *gocron.Scheduler
	service   *weather.Service
	store     *store.MemoryStore
	cities    []string
	interval  time.Duration
	timeout   time.Duration
	logger    *zap.Logger
}

// New creates a Scheduler.
func New(cities []string, interval, timeout time.Duration, service *weather.Service, st *store.MemoryStore, logger *zap.Logger) *Scheduler {
	return &Scheduler{
		scheduler: gocron.NewScheduler(time.UTC),
		service:   service,
		store:     st,
		cities:    cities,
		interval:  interval,
		timeout:   timeout,
		logger:    logger,
	}
}

// Start schedules the periodic refresh job and starts the scheduler.
func (s *Scheduler) Start() error {
	if len(s.cities) == 0 {
		s.logger.Info("no tracked cities configured, refresh job disabled")
		return nil
	}

	minutes := int(s.interval.Minutes())
	if minutes <= 0 {
		minutes = 15
	}

	_, err := s.scheduler.Every(minutes).Minutes().Do(s.refreshAll)
	if err != nil {
		return err
	}

	s.scheduler.StartAsync()
	return nil
}

func (s *Scheduler) refreshAll() {
	s.logger.Info("refreshing tracked cities", zap.Int("count", len(s.cities)))

	var wg sync.WaitGroup
	for _, city := range s.cities {
		city := city
		wg.Add(1)
		go func() {
			defer wg.Done()

			ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
			defer cancel()

			snap, err := s.service.FetchSnapshot(ctx, city)
			if err != nil {
				s.logger.Warn("refresh failed", zap.String("city", city), zap.Error(err))
				return
			}
			s.store.Save(city, snap)
		}()
	}
	wg.Wait()
}

// Stop stops the scheduler and cancels any future jobs.
func (s *Scheduler) Stop() {
	if s.scheduler != nil {
		s.scheduler.Stop()
	}
}
