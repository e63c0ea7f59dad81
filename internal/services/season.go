package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/stitts-dev/fantasy-golf/internal/leaderboard"
	"github.com/stitts-dev/fantasy-golf/internal/models"
	"github.com/stitts-dev/fantasy-golf/pkg/database"
	"github.com/stitts-dev/fantasy-golf/pkg/utils"
)

// SeasonInput carries the editable fields of a season
type SeasonInput struct {
	Name      string
	StartDate time.Time
	EndDate   time.Time
	IsActive  bool
}

func (in SeasonInput) validate() error {
	if in.Name == "" {
		return utils.NewAppError(utils.ErrCodeValidation, "Season name is required")
	}
	if !in.EndDate.After(in.StartDate) {
		return utils.NewAppError(utils.ErrCodeValidation, "Season end date must be after its start date")
	}
	return nil
}

// activeSeasonEntry is what the cache holds; a nil Season records that no
// season is active
type activeSeasonEntry struct {
	Season *models.Season `json:"season"`
}

// SeasonService owns seasons and the cached active-season pointer. The cache
// is cleared synchronously on every write.
type SeasonService struct {
	db     *database.DB
	cache  Cache
	ttl    time.Duration
	loc    *time.Location
	logger *logrus.Logger
}

func NewSeasonService(db *database.DB, cache Cache, ttl time.Duration, loc *time.Location, logger *logrus.Logger) *SeasonService {
	if loc == nil {
		loc = time.UTC
	}
	return &SeasonService{db: db, cache: cache, ttl: ttl, loc: loc, logger: logger}
}

func (s *SeasonService) List(ctx context.Context) ([]models.Season, error) {
	var seasons []models.Season
	if err := s.db.WithContext(ctx).Order("start_date DESC").Find(&seasons).Error; err != nil {
		return nil, fmt.Errorf("failed to list seasons: %w", err)
	}
	return seasons, nil
}

func (s *SeasonService) Get(ctx context.Context, id uuid.UUID) (*models.Season, error) {
	var season models.Season
	if err := s.db.WithContext(ctx).First(&season, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("season %s: %w", id, utils.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to load season: %w", err)
	}
	return &season, nil
}

func (s *SeasonService) Create(ctx context.Context, in SeasonInput) (*models.Season, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	season := models.Season{
		Name:      in.Name,
		StartDate: in.StartDate.UTC(),
		EndDate:   in.EndDate.UTC(),
		IsActive:  in.IsActive,
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if season.IsActive {
			if err := deactivateSeasons(tx); err != nil {
				return err
			}
		}
		return tx.Create(&season).Error
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create season: %w", err)
	}

	s.invalidate(ctx)
	s.logger.WithFields(logrus.Fields{"season_id": season.ID, "active": season.IsActive}).Info("Season created")
	return &season, nil
}

func (s *SeasonService) Update(ctx context.Context, id uuid.UUID, in SeasonInput) (*models.Season, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	season, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	season.Name = in.Name
	season.StartDate = in.StartDate.UTC()
	season.EndDate = in.EndDate.UTC()
	season.IsActive = in.IsActive

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if season.IsActive {
			if err := deactivateSeasons(tx); err != nil {
				return err
			}
		}
		return tx.Save(season).Error
	})
	if err != nil {
		return nil, fmt.Errorf("failed to update season: %w", err)
	}

	s.invalidate(ctx)
	return season, nil
}

func (s *SeasonService) Delete(ctx context.Context, id uuid.UUID) error {
	result := s.db.WithContext(ctx).Delete(&models.Season{}, "id = ?", id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete season: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("season %s: %w", id, utils.ErrNotFound)
	}

	s.invalidate(ctx)
	s.logger.WithField("season_id", id).Info("Season deleted")
	return nil
}

// Activate makes id the only active season
func (s *SeasonService) Activate(ctx context.Context, id uuid.UUID) (*models.Season, error) {
	season, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := deactivateSeasons(tx); err != nil {
			return err
		}
		return tx.Model(&models.Season{}).Where("id = ?", id).Update("is_active", true).Error
	})
	if err != nil {
		return nil, fmt.Errorf("failed to activate season: %w", err)
	}
	season.IsActive = true

	s.invalidate(ctx)
	s.logger.WithField("season_id", id).Info("Season activated")
	return season, nil
}

// Active returns the active season, or nil when none is. Reads are served
// from the cache for the configured TTL.
func (s *SeasonService) Active(ctx context.Context) (*models.Season, error) {
	var entry activeSeasonEntry
	err := s.cache.Get(ctx, activeSeasonCacheKey, &entry)
	if err == nil {
		return entry.Season, nil
	}
	if !errors.Is(err, ErrCacheMiss) {
		s.logger.WithError(err).Warn("Active season cache unavailable")
	}

	var seasons []models.Season
	if err := s.db.WithContext(ctx).Where("is_active = ?", true).Order("start_date DESC").Limit(1).Find(&seasons).Error; err != nil {
		return nil, fmt.Errorf("failed to load active season: %w", err)
	}
	if len(seasons) > 0 {
		entry.Season = &seasons[0]
	}

	if err := s.cache.Set(ctx, activeSeasonCacheKey, entry, s.ttl); err != nil {
		s.logger.WithError(err).Debug("Failed to cache active season")
	}
	return entry.Season, nil
}

// ActiveSeason adapts Active for the leaderboard engine. Season bounds are
// read as calendar dates in the league's time zone.
func (s *SeasonService) ActiveSeason(ctx context.Context) (*leaderboard.Season, error) {
	season, err := s.Active(ctx)
	if err != nil || season == nil {
		return nil, err
	}
	return &leaderboard.Season{
		ID:        season.ID.String(),
		Name:      season.Name,
		StartDate: s.leagueDate(season.StartDate),
		EndDate:   s.leagueDate(season.EndDate),
	}, nil
}

func (s *SeasonService) leagueDate(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, s.loc)
}

func (s *SeasonService) invalidate(ctx context.Context) {
	if err := s.cache.Delete(ctx, activeSeasonCacheKey); err != nil {
		s.logger.WithError(err).Warn("Failed to invalidate active season cache")
	}
	if err := s.cache.DeletePattern(ctx, leaderboardCachePattern); err != nil {
		s.logger.WithError(err).Warn("Failed to invalidate leaderboard cache")
	}
}

func deactivateSeasons(tx *gorm.DB) error {
	return tx.Model(&models.Season{}).Where("is_active = ?", true).Update("is_active", false).Error
}
