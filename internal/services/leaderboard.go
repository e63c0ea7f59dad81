package services

import (
	"context"
	"errors"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/stitts-dev/fantasy-golf/internal/gameweek"
	"github.com/stitts-dev/fantasy-golf/internal/leaderboard"
)

// LeaderboardService serves leaderboards through the response cache and
// exposes the period pickers
type LeaderboardService struct {
	engine  *leaderboard.Engine
	seasons leaderboard.SeasonProvider
	cache   Cache
	ttl     time.Duration
	now     func() time.Time
	logger  *logrus.Logger
}

func NewLeaderboardService(engine *leaderboard.Engine, seasons leaderboard.SeasonProvider, cache Cache, ttl time.Duration, now func() time.Time, logger *logrus.Logger) *LeaderboardService {
	if now == nil {
		now = time.Now
	}
	return &LeaderboardService{
		engine:  engine,
		seasons: seasons,
		cache:   cache,
		ttl:     ttl,
		now:     now,
		logger:  logger,
	}
}

// Get returns the leaderboard for req, from the cache when a fresh copy
// exists. Requests without a date are cached per league day, so a new
// gameweek or month is never answered from the previous one's entry.
func (s *LeaderboardService) Get(ctx context.Context, req leaderboard.Request) (*leaderboard.Response, error) {
	anchor := "current@" + s.now().Format(gameweek.KeyLayout)
	if req.Anchor != nil {
		anchor = req.Anchor.Format(gameweek.KeyLayout)
	}
	key := LeaderboardCacheKey(string(req.Period), anchor, req.Page, req.PerPage)

	var cached leaderboard.Response
	err := s.cache.Get(ctx, key, &cached)
	if err == nil {
		return &cached, nil
	}
	if !errors.Is(err, ErrCacheMiss) {
		s.logger.WithError(err).Warn("Leaderboard cache unavailable")
	}

	resp, err := s.engine.Build(ctx, req)
	if err != nil {
		return nil, err
	}

	if s.ttl > 0 {
		if err := s.cache.Set(ctx, key, resp, s.ttl); err != nil {
			s.logger.WithError(err).WithField("key", key).Debug("Failed to cache leaderboard")
		}
	}
	return resp, nil
}

// WeekOptions lists the selectable gameweeks of the active season
func (s *LeaderboardService) WeekOptions(ctx context.Context) ([]gameweek.Option, error) {
	season, err := s.seasons.ActiveSeason(ctx)
	if err != nil {
		return nil, err
	}
	if season == nil {
		return gameweek.WeekOptions(nil, s.now()), nil
	}
	start := season.StartDate
	return gameweek.WeekOptions(&start, s.now()), nil
}

// MonthOptions lists the selectable months of the active season
func (s *LeaderboardService) MonthOptions(ctx context.Context) ([]gameweek.Option, error) {
	season, err := s.seasons.ActiveSeason(ctx)
	if err != nil {
		return nil, err
	}
	if season == nil {
		return []gameweek.Option{}, nil
	}
	return gameweek.MonthOptions(season.StartDate, s.now()), nil
}

// Snapshot stores the comparison ranks of every period type
func (s *LeaderboardService) Snapshot(ctx context.Context) error {
	now := s.now()
	var errs []error
	for _, pt := range []gameweek.PeriodType{gameweek.PeriodWeek, gameweek.PeriodMonth, gameweek.PeriodSeason} {
		period, err := s.engine.SnapshotPrevious(ctx, pt, now)
		if err != nil {
			s.logger.WithError(err).WithField("period", pt).Error("Leaderboard snapshot failed")
			errs = append(errs, err)
			continue
		}
		if period == nil {
			s.logger.WithField("period", pt).Debug("Nothing to snapshot")
		}
	}
	return errors.Join(errs...)
}
