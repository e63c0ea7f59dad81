package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/stitts-dev/fantasy-golf/internal/gameweek"
	"github.com/stitts-dev/fantasy-golf/internal/leaderboard"
	"github.com/stitts-dev/fantasy-golf/internal/models"
	"github.com/stitts-dev/fantasy-golf/pkg/database"
)

// LeaderboardStore reads the leaderboard engine's inputs from the database
// and keeps its rank snapshots
type LeaderboardStore struct {
	db      *database.DB
	seasons leaderboard.SeasonProvider
}

func NewLeaderboardStore(db *database.DB, seasons leaderboard.SeasonProvider) *LeaderboardStore {
	return &LeaderboardStore{db: db, seasons: seasons}
}

var countedStatuses = []models.TournamentStatus{models.TournamentPublished, models.TournamentComplete}

func (s *LeaderboardStore) TournamentsBetween(ctx context.Context, seasonID string, start, end time.Time) ([]leaderboard.Tournament, error) {
	var rows []models.Tournament
	err := s.db.WithContext(ctx).
		Select("id", "start_date", "status").
		Where("season_id = ? AND status IN ?", seasonID, countedStatuses).
		Where("start_date >= ? AND start_date < ?", start.UTC(), end.UTC()).
		Order("start_date ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	out := make([]leaderboard.Tournament, len(rows))
	for i, t := range rows {
		out[i] = leaderboard.Tournament{
			ID:        t.ID.String(),
			StartDate: t.StartDate,
			Status:    leaderboard.TournamentStatus(t.Status),
		}
	}
	return out, nil
}

func (s *LeaderboardStore) ScoresFor(ctx context.Context, tournamentIDs []string) ([]leaderboard.ScoreRow, error) {
	if len(tournamentIDs) == 0 {
		return nil, nil
	}

	var rows []models.Score
	err := s.db.WithContext(ctx).
		Select("tournament_id", "golfer_id", "multiplied_points").
		Where("tournament_id IN ?", tournamentIDs).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	out := make([]leaderboard.ScoreRow, len(rows))
	for i, r := range rows {
		out[i] = leaderboard.ScoreRow{
			TournamentID:     r.TournamentID.String(),
			GolferID:         r.GolferID.String(),
			MultipliedPoints: r.MultipliedPoints,
		}
	}
	return out, nil
}

func (s *LeaderboardStore) ActiveTeams(ctx context.Context, seasonID string) ([]leaderboard.Team, error) {
	var rows []models.Team
	err := s.db.WithContext(ctx).
		Where("season_id = ? AND is_active = ?", seasonID, true).
		Preload("User").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	out := make([]leaderboard.Team, len(rows))
	for i, t := range rows {
		team := leaderboard.Team{
			UserID:    t.UserID.String(),
			GolferIDs: t.GolferIDs,
		}
		if t.User != nil {
			team.Username = t.User.Username
		}
		if t.CaptainID != nil {
			captain := t.CaptainID.String()
			team.CaptainID = &captain
		}
		out[i] = team
	}
	return out, nil
}

func (s *LeaderboardStore) LoadSnapshot(ctx context.Context, periodType gameweek.PeriodType, key string) (map[string]int, bool, error) {
	seasonID, err := s.activeSeasonID(ctx)
	if err != nil || seasonID == uuid.Nil {
		return nil, false, err
	}

	var snapshot models.LeaderboardSnapshot
	err = s.db.WithContext(ctx).
		Where("season_id = ? AND period_type = ? AND period_key = ?", seasonID, string(periodType), key).
		First(&snapshot).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, false, nil
		}
		return nil, false, err
	}

	ranks, err := snapshot.RankMap()
	if err != nil {
		return nil, false, fmt.Errorf("corrupt snapshot %s/%s: %w", periodType, key, err)
	}
	return ranks, true, nil
}

func (s *LeaderboardStore) SaveSnapshot(ctx context.Context, periodType gameweek.PeriodType, key string, ranks map[string]int) error {
	seasonID, err := s.activeSeasonID(ctx)
	if err != nil {
		return err
	}
	if seasonID == uuid.Nil {
		return fmt.Errorf("no active season to snapshot")
	}

	snapshot := models.LeaderboardSnapshot{
		SeasonID:   seasonID,
		PeriodType: string(periodType),
		PeriodKey:  key,
	}
	if err := snapshot.SetRanks(ranks); err != nil {
		return err
	}

	return s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "season_id"}, {Name: "period_type"}, {Name: "period_key"}},
		DoUpdates: clause.AssignmentColumns([]string{"ranks", "updated_at"}),
	}).Create(&snapshot).Error
}

func (s *LeaderboardStore) activeSeasonID(ctx context.Context) (uuid.UUID, error) {
	season, err := s.seasons.ActiveSeason(ctx)
	if err != nil || season == nil {
		return uuid.Nil, err
	}
	return uuid.Parse(season.ID)
}
