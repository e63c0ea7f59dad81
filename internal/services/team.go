package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/stitts-dev/fantasy-golf/internal/models"
	"github.com/stitts-dev/fantasy-golf/pkg/database"
	"github.com/stitts-dev/fantasy-golf/pkg/utils"
)

// Member identifies the authenticated user a team is saved for
type Member struct {
	ID       uuid.UUID
	Username string
	Role     string
}

type TeamInput struct {
	GolferIDs []uuid.UUID `json:"golfer_ids" binding:"required"`
	CaptainID *uuid.UUID  `json:"captain_id"`
}

type TeamService struct {
	db        *database.DB
	seasons   *SeasonService
	cache     Cache
	budgetCap int64
	squadSize int
	logger    *logrus.Logger
}

func NewTeamService(db *database.DB, seasons *SeasonService, cache Cache, budgetCap int64, squadSize int, logger *logrus.Logger) *TeamService {
	return &TeamService{
		db:        db,
		seasons:   seasons,
		cache:     cache,
		budgetCap: budgetCap,
		squadSize: squadSize,
		logger:    logger,
	}
}

// GetActiveTeam returns the user's team for the active season
func (s *TeamService) GetActiveTeam(ctx context.Context, userID uuid.UUID) (*models.Team, error) {
	season, err := s.seasons.Active(ctx)
	if err != nil {
		return nil, err
	}
	if season == nil {
		return nil, fmt.Errorf("no active season: %w", utils.ErrNotFound)
	}

	var team models.Team
	err = s.db.WithContext(ctx).
		Where("user_id = ? AND season_id = ? AND is_active = ?", userID, season.ID, true).
		Preload("User").
		First(&team).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("team for user %s: %w", userID, utils.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to load team: %w", err)
	}
	return &team, nil
}

// SaveTeam validates a squad against the league rules and makes it the
// user's active team for the active season, replacing any previous one
func (s *TeamService) SaveTeam(ctx context.Context, member Member, in TeamInput) (*models.Team, error) {
	season, err := s.seasons.Active(ctx)
	if err != nil {
		return nil, err
	}
	if season == nil {
		return nil, utils.NewAppError(utils.ErrCodeValidation, "There is no active season to pick a team for")
	}

	squad, err := s.checkSquad(in)
	if err != nil {
		return nil, err
	}

	var golfers []models.Golfer
	if err := s.db.WithContext(ctx).Where("id IN ?", squad).Find(&golfers).Error; err != nil {
		return nil, fmt.Errorf("failed to load golfers: %w", err)
	}
	if len(golfers) != len(squad) {
		return nil, utils.NewAppError(utils.ErrCodeInvalidTeam, "Team contains unknown golfers")
	}

	var spent int64
	for _, g := range golfers {
		if !g.IsActive {
			return nil, utils.NewAppError(utils.ErrCodeInvalidTeam, fmt.Sprintf("%s is not available for selection", g.Name))
		}
		spent += g.Price
	}
	if spent > s.budgetCap {
		return nil, utils.NewAppError(utils.ErrCodeBudgetExceeded,
			fmt.Sprintf("Team costs %s, over the %s budget", formatPrice(spent), formatPrice(s.budgetCap)))
	}

	ids := make([]string, len(squad))
	for i, id := range squad {
		ids[i] = id.String()
	}
	team := models.Team{
		UserID:     member.ID,
		SeasonID:   season.ID,
		GolferIDs:  ids,
		CaptainID:  in.CaptainID,
		TotalSpent: spent,
		IsActive:   true,
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := upsertUser(tx, member); err != nil {
			return err
		}
		err := tx.Model(&models.Team{}).
			Where("user_id = ? AND season_id = ? AND is_active = ?", member.ID, season.ID, true).
			Update("is_active", false).Error
		if err != nil {
			return fmt.Errorf("failed to retire previous team: %w", err)
		}
		return tx.Create(&team).Error
	})
	if err != nil {
		return nil, fmt.Errorf("failed to save team: %w", err)
	}

	if err := s.cache.DeletePattern(ctx, leaderboardCachePattern); err != nil {
		s.logger.WithError(err).Warn("Failed to invalidate leaderboard cache")
	}

	s.logger.WithFields(logrus.Fields{
		"user_id":     member.ID,
		"season_id":   season.ID,
		"total_spent": spent,
	}).Info("Team saved")
	return &team, nil
}

func (s *TeamService) checkSquad(in TeamInput) ([]uuid.UUID, error) {
	seen := make(map[uuid.UUID]bool, len(in.GolferIDs))
	squad := make([]uuid.UUID, 0, len(in.GolferIDs))
	for _, id := range in.GolferIDs {
		if seen[id] {
			return nil, utils.NewAppError(utils.ErrCodeInvalidTeam, "A golfer can only be picked once")
		}
		seen[id] = true
		squad = append(squad, id)
	}
	if len(squad) != s.squadSize {
		return nil, utils.NewAppError(utils.ErrCodeInvalidTeam,
			fmt.Sprintf("A team needs exactly %d golfers (got %d)", s.squadSize, len(squad)))
	}
	if in.CaptainID != nil && !seen[*in.CaptainID] {
		return nil, utils.NewAppError(utils.ErrCodeInvalidTeam, "The captain must be one of the picked golfers")
	}
	return squad, nil
}

// upsertUser records the authenticated user, refreshing their display name
func upsertUser(tx *gorm.DB, member Member) error {
	role := member.Role
	if role == "" {
		role = models.RoleUser
	}
	user := models.User{ID: member.ID, Username: member.Username, Role: role}
	err := tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{"username", "role", "updated_at"}),
	}).Create(&user).Error
	if err != nil {
		return fmt.Errorf("failed to record user: %w", err)
	}
	return nil
}

// formatPrice renders a price in pounds as £8.5M
func formatPrice(p int64) string {
	return fmt.Sprintf("£%.1fM", float64(p)/1_000_000)
}
