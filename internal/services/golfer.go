package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/stitts-dev/fantasy-golf/internal/models"
	"github.com/stitts-dev/fantasy-golf/internal/pricing"
	"github.com/stitts-dev/fantasy-golf/pkg/database"
	"github.com/stitts-dev/fantasy-golf/pkg/utils"
)

type GolferFilter struct {
	ActiveOnly bool
	Search     string
}

type GolferInput struct {
	Name     string `json:"name" binding:"required"`
	Price    int64  `json:"price"`
	IsActive *bool  `json:"is_active"`
}

type GolferService struct {
	db     *database.DB
	logger *logrus.Logger
}

func NewGolferService(db *database.DB, logger *logrus.Logger) *GolferService {
	return &GolferService{db: db, logger: logger}
}

// List returns golfers, most expensive first
func (s *GolferService) List(ctx context.Context, filter GolferFilter) ([]models.Golfer, error) {
	query := s.db.WithContext(ctx).Model(&models.Golfer{})
	if filter.ActiveOnly {
		query = query.Where("is_active = ?", true)
	}
	if search := strings.TrimSpace(filter.Search); search != "" {
		query = query.Where("LOWER(name) LIKE ?", "%"+strings.ToLower(search)+"%")
	}

	var golfers []models.Golfer
	if err := query.Order("price DESC").Order("name ASC").Find(&golfers).Error; err != nil {
		return nil, fmt.Errorf("failed to list golfers: %w", err)
	}
	return golfers, nil
}

// Create adds a golfer. Prices are bounded to the market range; a missing
// price starts at the floor.
func (s *GolferService) Create(ctx context.Context, in GolferInput) (*models.Golfer, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, utils.NewAppError(utils.ErrCodeValidation, "Golfer name is required")
	}
	if in.Price != 0 && (in.Price < pricing.MinPrice || in.Price > pricing.MaxPrice || in.Price%pricing.PriceStep != 0) {
		return nil, utils.NewAppError(utils.ErrCodeValidation,
			fmt.Sprintf("Price must be between %s and %s in steps of £0.1M", formatPrice(pricing.MinPrice), formatPrice(pricing.MaxPrice)))
	}

	golfer := models.Golfer{Name: name, Price: in.Price, IsActive: true}
	if in.IsActive != nil {
		golfer.IsActive = *in.IsActive
	}
	if err := s.db.WithContext(ctx).Create(&golfer).Error; err != nil {
		return nil, fmt.Errorf("failed to create golfer: %w", err)
	}

	s.logger.WithFields(logrus.Fields{"golfer_id": golfer.ID, "price": golfer.Price}).Info("Golfer created")
	return &golfer, nil
}
