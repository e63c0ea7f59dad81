package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

const jobTimeout = 5 * time.Minute

type Snapshotter interface {
	Snapshot(ctx context.Context) error
}

type Repricer interface {
	RepriceAll(ctx context.Context) ([]PriceChange, error)
}

// Scheduler runs the periodic leaderboard snapshot and reprice jobs in the
// league's time zone
type Scheduler struct {
	cron             *cron.Cron
	snapshots        Snapshotter
	repricer         Repricer
	snapshotSchedule string
	repriceSchedule  string
	logger           *logrus.Logger
	mu               sync.Mutex
	isRunning        bool
}

func NewScheduler(snapshots Snapshotter, repricer Repricer, snapshotSchedule, repriceSchedule string, loc *time.Location, logger *logrus.Logger) *Scheduler {
	if loc == nil {
		loc = time.UTC
	}
	return &Scheduler{
		cron:             cron.New(cron.WithLocation(loc)),
		snapshots:        snapshots,
		repricer:         repricer,
		snapshotSchedule: snapshotSchedule,
		repriceSchedule:  repriceSchedule,
		logger:           logger,
	}
}

// Start registers the jobs and starts the cron runner
func (s *Scheduler) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return fmt.Errorf("scheduler is already running")
	}

	if s.snapshots != nil && s.snapshotSchedule != "" {
		if _, err := s.cron.AddFunc(s.snapshotSchedule, s.RunSnapshot); err != nil {
			return fmt.Errorf("failed to schedule leaderboard snapshots: %w", err)
		}
	}
	if s.repricer != nil && s.repriceSchedule != "" {
		if _, err := s.cron.AddFunc(s.repriceSchedule, s.RunReprice); err != nil {
			return fmt.Errorf("failed to schedule repricing: %w", err)
		}
	}

	s.cron.Start()
	s.isRunning = true

	s.logger.WithFields(logrus.Fields{
		"snapshot_schedule": s.snapshotSchedule,
		"reprice_schedule":  s.repriceSchedule,
	}).Info("Scheduler started")
	return nil
}

// Stop waits for running jobs to finish
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.isRunning {
		return
	}

	ctx := s.cron.Stop()
	<-ctx.Done()

	s.isRunning = false
	s.logger.Info("Scheduler stopped")
}

func (s *Scheduler) RunSnapshot() {
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()

	start := time.Now()
	if err := s.snapshots.Snapshot(ctx); err != nil {
		s.logger.WithError(err).Error("Scheduled leaderboard snapshot failed")
		return
	}
	s.logger.WithField("duration", time.Since(start)).Info("Scheduled leaderboard snapshot finished")
}

func (s *Scheduler) RunReprice() {
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()

	changes, err := s.repricer.RepriceAll(ctx)
	if err != nil {
		s.logger.WithError(err).Error("Scheduled repricing failed")
		return
	}
	s.logger.WithField("golfers", len(changes)).Info("Scheduled repricing finished")
}

// Status returns the scheduler state for the health endpoint
func (s *Scheduler) Status() map[string]interface{} {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries := s.cron.Entries()
	nextRuns := make([]time.Time, 0, len(entries))
	for _, entry := range entries {
		nextRuns = append(nextRuns, entry.Next)
	}

	return map[string]interface{}{
		"is_running": s.isRunning,
		"jobs":       len(entries),
		"next_runs":  nextRuns,
	}
}
