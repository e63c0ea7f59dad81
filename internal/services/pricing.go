package services

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/stitts-dev/fantasy-golf/internal/models"
	"github.com/stitts-dev/fantasy-golf/internal/pricing"
	"github.com/stitts-dev/fantasy-golf/pkg/database"
)

// PriceChange reports one golfer's repricing
type PriceChange struct {
	GolferID   string  `json:"golfer_id"`
	Name       string  `json:"name"`
	OldPrice   int64   `json:"old_price"`
	NewPrice   int64   `json:"new_price"`
	Normalized float64 `json:"normalized"`
}

// PricingService prices golfers from their recent seasons
type PricingService struct {
	db      *database.DB
	seasons int
	logger  *logrus.Logger
}

func NewPricingService(db *database.DB, seasons int, logger *logrus.Logger) *PricingService {
	if seasons < 1 {
		seasons = 1
	}
	return &PricingService{db: db, seasons: seasons, logger: logger}
}

// Preview returns the price a normalized figure maps to
func (s *PricingService) Preview(normalized float64) int64 {
	return pricing.Price(normalized)
}

// Samples builds each golfer's points history over the pricing window. Only
// published and complete tournaments count, and points are taken before the
// tournament multiplier. Golfers without events get an empty sample.
func (s *PricingService) Samples(ctx context.Context) (map[string]pricing.Sample, error) {
	return buildSamples(s.db.WithContext(ctx), s.seasons)
}

func buildSamples(tx *gorm.DB, window int) (map[string]pricing.Sample, error) {
	var golfers []models.Golfer
	if err := tx.Find(&golfers).Error; err != nil {
		return nil, fmt.Errorf("failed to load golfers: %w", err)
	}
	samples := make(map[string]pricing.Sample, len(golfers))
	for _, g := range golfers {
		samples[g.ID.String()] = pricing.Sample{}
	}

	var seasonIDs []string
	err := tx.Model(&models.Season{}).Order("start_date DESC").Limit(window).Pluck("id", &seasonIDs).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load pricing seasons: %w", err)
	}
	if len(seasonIDs) == 0 {
		return samples, nil
	}

	var scores []models.Score
	err = tx.Model(&models.Score{}).
		Joins("JOIN tournaments ON tournaments.id = scores.tournament_id").
		Where("tournaments.season_id IN ? AND tournaments.status IN ? AND scores.participated = ?",
			seasonIDs, []models.TournamentStatus{models.TournamentPublished, models.TournamentComplete}, true).
		Find(&scores).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load pricing scores: %w", err)
	}

	for _, sc := range scores {
		id := sc.GolferID.String()
		sample := samples[id]
		sample.Events++
		sample.Points += float64(sc.BasePoints + sc.BonusPoints)
		samples[id] = sample
	}
	return samples, nil
}

// RepriceAll recomputes and stores every golfer's price
func (s *PricingService) RepriceAll(ctx context.Context) ([]PriceChange, error) {
	var changes []PriceChange

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		samples, err := buildSamples(tx, s.seasons)
		if err != nil {
			return err
		}
		normalized := pricing.NormalizeField(samples)

		var golfers []models.Golfer
		if err := tx.Order("name ASC").Find(&golfers).Error; err != nil {
			return fmt.Errorf("failed to load golfers: %w", err)
		}

		changes = make([]PriceChange, 0, len(golfers))
		for _, g := range golfers {
			n := normalized[g.ID.String()]
			price := pricing.Price(n)
			changes = append(changes, PriceChange{
				GolferID:   g.ID.String(),
				Name:       g.Name,
				OldPrice:   g.Price,
				NewPrice:   price,
				Normalized: n,
			})
			if price == g.Price {
				continue
			}
			if err := tx.Model(&models.Golfer{}).Where("id = ?", g.ID).Update("price", price).Error; err != nil {
				return fmt.Errorf("failed to update price for %s: %w", g.Name, err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	moved := 0
	for _, c := range changes {
		if c.NewPrice != c.OldPrice {
			moved++
		}
	}
	s.logger.WithFields(logrus.Fields{
		"golfers": len(changes),
		"changed": moved,
		"seasons": s.seasons,
	}).Info("Golfers repriced")

	return changes, nil
}
