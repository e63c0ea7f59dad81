package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/stitts-dev/fantasy-golf/internal/models"
	"github.com/stitts-dev/fantasy-golf/internal/scoring"
	"github.com/stitts-dev/fantasy-golf/pkg/database"
	"github.com/stitts-dev/fantasy-golf/pkg/utils"
)

// ResultsUpdate is broadcast to leaderboard subscribers after results change
type ResultsUpdate struct {
	TournamentID string `json:"tournament_id"`
	SeasonID     string `json:"season_id"`
	Participants int    `json:"participants"`
}

type ScoreService struct {
	db          *database.DB
	cache       Cache
	broadcaster Broadcaster
	logger      *logrus.Logger
}

func NewScoreService(db *database.DB, cache Cache, broadcaster Broadcaster, logger *logrus.Logger) *ScoreService {
	return &ScoreService{db: db, cache: cache, broadcaster: broadcaster, logger: logger}
}

// ListScores returns a tournament's score rows, podium first
func (s *ScoreService) ListScores(ctx context.Context, tournamentID uuid.UUID) ([]models.Score, error) {
	if _, err := getTournament(s.db.WithContext(ctx), tournamentID); err != nil {
		return nil, err
	}

	var scores []models.Score
	err := s.db.WithContext(ctx).
		Where("tournament_id = ?", tournamentID).
		Order("participated DESC").
		Order("CASE WHEN position IS NULL THEN 1 ELSE 0 END, position ASC").
		Order("multiplied_points DESC").
		Find(&scores).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list scores: %w", err)
	}
	return scores, nil
}

// SubmitResults replaces every score row of a tournament. Golfers in the
// field without a result are stored as non-participants. Rows and golfer
// counters are rewritten in one transaction, so a rejected result set leaves
// the tournament untouched.
func (s *ScoreService) SubmitResults(ctx context.Context, tournamentID uuid.UUID, results []scoring.Result) ([]models.Score, error) {
	results, err := normalizeResults(results)
	if err != nil {
		return nil, err
	}

	var (
		tournament *models.Tournament
		rows       []models.Score
	)

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		tournament, err = getTournament(tx, tournamentID)
		if err != nil {
			return err
		}

		if len(tournament.Field) == 0 {
			if err := checkGolfersExist(tx, results); err != nil {
				return err
			}
		}

		rows, _, err = replaceScores(tx, tournament, results)
		return validationAppError(err)
	})
	if err != nil {
		return nil, err
	}

	participants := countParticipants(rows)

	if err := s.cache.DeletePattern(ctx, leaderboardCachePattern); err != nil {
		s.logger.WithError(err).Warn("Failed to invalidate leaderboard cache")
	}
	if s.broadcaster != nil {
		update := ResultsUpdate{
			TournamentID: tournament.ID.String(),
			SeasonID:     tournament.SeasonID.String(),
			Participants: participants,
		}
		if err := s.broadcaster.BroadcastToTopic(TopicLeaderboard, MessageLeaderboardUpdate, update); err != nil {
			s.logger.WithError(err).Warn("Failed to broadcast leaderboard update")
		}
	}

	s.logger.WithFields(logrus.Fields{
		"tournament_id":   tournament.ID,
		"tournament_type": tournament.Type,
		"rows":            len(rows),
		"participants":    participants,
	}).Info("Tournament results stored")

	return rows, nil
}

// replaceScores resolves results against the tournament's current settings,
// rewrites all of its score rows and recounts the counters of every golfer
// that had or now has a row. It returns the stored rows and those golfers.
func replaceScores(tx *gorm.DB, tournament *models.Tournament, results []scoring.Result) ([]models.Score, map[uuid.UUID]bool, error) {
	results = withAbsentees(results, tournament.Field)
	scored, err := scoring.Resolve(tournament.ScoringContext(), results, tournament.Field)
	if err != nil {
		return nil, nil, err
	}

	var previous []uuid.UUID
	if err := tx.Model(&models.Score{}).Where("tournament_id = ?", tournament.ID).Pluck("golfer_id", &previous).Error; err != nil {
		return nil, nil, fmt.Errorf("failed to load previous scores: %w", err)
	}
	if err := tx.Where("tournament_id = ?", tournament.ID).Delete(&models.Score{}).Error; err != nil {
		return nil, nil, fmt.Errorf("failed to clear previous scores: %w", err)
	}

	rows := make([]models.Score, len(scored))
	affected := make(map[uuid.UUID]bool, len(scored)+len(previous))
	for _, id := range previous {
		affected[id] = true
	}
	for i, sc := range scored {
		golferID := uuid.MustParse(sc.GolferID)
		rows[i] = models.NewScore(tournament.ID, golferID, sc)
		affected[golferID] = true
	}
	if err := tx.Create(&rows).Error; err != nil {
		return nil, nil, fmt.Errorf("failed to store scores: %w", err)
	}

	if err := recountGolfers(tx, tournament.SeasonID, affected); err != nil {
		return nil, nil, err
	}
	return rows, affected, nil
}

func countParticipants(rows []models.Score) int {
	n := 0
	for _, row := range rows {
		if row.Participated {
			n++
		}
	}
	return n
}

// storedResults rebuilds the result set behind a tournament's score rows
func storedResults(tx *gorm.DB, tournamentID uuid.UUID) ([]scoring.Result, error) {
	var scores []models.Score
	if err := tx.Where("tournament_id = ?", tournamentID).Find(&scores).Error; err != nil {
		return nil, fmt.Errorf("failed to load scores: %w", err)
	}
	results := make([]scoring.Result, len(scores))
	for i, sc := range scores {
		results[i] = scoring.Result{
			GolferID:     sc.GolferID.String(),
			Participated: sc.Participated,
			Position:     sc.Position,
			RawScore:     sc.RawScore,
		}
	}
	return results, nil
}

// inField drops results for golfers outside a non-empty field
func inField(results []scoring.Result, field []string) []scoring.Result {
	if len(field) == 0 {
		return results
	}
	keep := make(map[string]bool, len(field))
	for _, id := range field {
		keep[id] = true
	}
	out := results[:0]
	for _, r := range results {
		if keep[r.GolferID] {
			out = append(out, r)
		}
	}
	return out
}

// normalizeResults canonicalizes golfer ids so duplicates written in
// different case are caught
func normalizeResults(results []scoring.Result) ([]scoring.Result, error) {
	out := make([]scoring.Result, len(results))
	for i, r := range results {
		id, err := uuid.Parse(strings.TrimSpace(r.GolferID))
		if err != nil {
			return nil, utils.NewAppError(utils.ErrCodeValidation, fmt.Sprintf("Invalid golfer id %q", r.GolferID))
		}
		r.GolferID = id.String()
		out[i] = r
	}
	return out, nil
}

// withAbsentees appends a non-participant row for every field golfer the
// results leave out
func withAbsentees(results []scoring.Result, field []string) []scoring.Result {
	listed := make(map[string]bool, len(results))
	for _, r := range results {
		listed[r.GolferID] = true
	}
	for _, id := range field {
		if !listed[id] {
			results = append(results, scoring.Result{GolferID: id})
			listed[id] = true
		}
	}
	return results
}

func checkGolfersExist(tx *gorm.DB, results []scoring.Result) error {
	ids := make([]string, 0, len(results))
	seen := make(map[string]bool, len(results))
	for _, r := range results {
		if !seen[r.GolferID] {
			seen[r.GolferID] = true
			ids = append(ids, r.GolferID)
		}
	}
	if len(ids) == 0 {
		return nil
	}

	var known []uuid.UUID
	if err := tx.Model(&models.Golfer{}).Where("id IN ?", ids).Pluck("id", &known).Error; err != nil {
		return fmt.Errorf("failed to check golfers: %w", err)
	}
	exists := make(map[string]bool, len(known))
	for _, id := range known {
		exists[id.String()] = true
	}
	for _, id := range ids {
		if !exists[id] {
			return utils.NewAppError(utils.ErrCodeValidation, fmt.Sprintf("Golfer %s does not exist", id))
		}
	}
	return nil
}

// recountGolfers rebuilds the season counters of the given golfers from every
// score row in the season
func recountGolfers(tx *gorm.DB, seasonID uuid.UUID, affected map[uuid.UUID]bool) error {
	if len(affected) == 0 {
		return nil
	}
	ids := make([]uuid.UUID, 0, len(affected))
	for id := range affected {
		ids = append(ids, id)
	}

	var scores []models.Score
	err := tx.Model(&models.Score{}).
		Joins("JOIN tournaments ON tournaments.id = scores.tournament_id").
		Where("tournaments.season_id = ? AND scores.golfer_id IN ?", seasonID, ids).
		Find(&scores).Error
	if err != nil {
		return fmt.Errorf("failed to load season scores: %w", err)
	}

	scored := make([]scoring.Scored, len(scores))
	for i, sc := range scores {
		scored[i] = scoring.Scored{
			Result: scoring.Result{
				GolferID:     sc.GolferID.String(),
				Participated: sc.Participated,
				Position:     sc.Position,
				RawScore:     sc.RawScore,
			},
			Points: scoring.Points{Base: sc.BasePoints, Bonus: sc.BonusPoints, Multiplied: sc.MultipliedPoints},
		}
	}
	tally := scoring.Tally(scored)

	var golfers []models.Golfer
	if err := tx.Where("id IN ?", ids).Find(&golfers).Error; err != nil {
		return fmt.Errorf("failed to load golfers: %w", err)
	}
	for i := range golfers {
		g := &golfers[i]
		g.SetCounters(tally[g.ID.String()])
		err := tx.Model(g).
			Select("times_played", "first_places", "second_places", "third_places", "bonus_hits").
			Updates(g).Error
		if err != nil {
			return fmt.Errorf("failed to update golfer counters: %w", err)
		}
	}
	return nil
}

// validationAppError exposes a scoring validation failure with its message
// unchanged
func validationAppError(err error) error {
	if err == nil {
		return nil
	}
	var ve *scoring.ValidationError
	if errors.As(err, &ve) {
		return utils.NewAppError(utils.ErrCodeValidation, ve.Message, ve.Code)
	}
	return err
}
