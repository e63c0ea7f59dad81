package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/stitts-dev/fantasy-golf/internal/models"
	"github.com/stitts-dev/fantasy-golf/internal/rules"
	"github.com/stitts-dev/fantasy-golf/internal/scoring"
	"github.com/stitts-dev/fantasy-golf/pkg/database"
	"github.com/stitts-dev/fantasy-golf/pkg/utils"
)

// TournamentInput carries the editable fields of a tournament. Format and
// MultiDay are requests; types with a forced format ignore the format.
type TournamentInput struct {
	SeasonID  uuid.UUID
	Name      string
	Type      rules.TournamentType
	Format    *rules.ScoringFormat
	MultiDay  *bool
	StartDate time.Time
	Field     []uuid.UUID
}

type TournamentFilter struct {
	SeasonID *uuid.UUID
	Status   *models.TournamentStatus
}

// TournamentStatusUpdate is broadcast when a tournament changes status
type TournamentStatusUpdate struct {
	TournamentID string                  `json:"tournament_id"`
	Status       models.TournamentStatus `json:"status"`
}

type TournamentService struct {
	db          *database.DB
	cache       Cache
	broadcaster Broadcaster
	logger      *logrus.Logger
}

func NewTournamentService(db *database.DB, cache Cache, broadcaster Broadcaster, logger *logrus.Logger) *TournamentService {
	return &TournamentService{db: db, cache: cache, broadcaster: broadcaster, logger: logger}
}

func (s *TournamentService) List(ctx context.Context, filter TournamentFilter) ([]models.Tournament, error) {
	query := s.db.WithContext(ctx).Model(&models.Tournament{})
	if filter.SeasonID != nil {
		query = query.Where("season_id = ?", *filter.SeasonID)
	}
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}

	var tournaments []models.Tournament
	if err := query.Order("start_date ASC").Find(&tournaments).Error; err != nil {
		return nil, fmt.Errorf("failed to list tournaments: %w", err)
	}
	return tournaments, nil
}

func (s *TournamentService) Get(ctx context.Context, id uuid.UUID) (*models.Tournament, error) {
	return getTournament(s.db.WithContext(ctx), id)
}

func getTournament(tx *gorm.DB, id uuid.UUID) (*models.Tournament, error) {
	var tournament models.Tournament
	if err := tx.First(&tournament, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("tournament %s: %w", id, utils.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to load tournament: %w", err)
	}
	return &tournament, nil
}

// Create stores a draft tournament. Multiplier, format and multi-day flag
// come from the rule table for its type.
func (s *TournamentService) Create(ctx context.Context, in TournamentInput) (*models.Tournament, error) {
	tournament := models.Tournament{Status: models.TournamentDraft}
	if err := s.apply(ctx, &tournament, in); err != nil {
		return nil, err
	}

	if err := s.db.WithContext(ctx).Create(&tournament).Error; err != nil {
		return nil, fmt.Errorf("failed to create tournament: %w", err)
	}

	s.logger.WithFields(logrus.Fields{
		"tournament_id":   tournament.ID,
		"tournament_type": tournament.Type,
		"multiplier":      tournament.Multiplier,
	}).Info("Tournament created")
	return &tournament, nil
}

// Update edits a tournament. Stored results are re-resolved against the new
// type, format and field in the same transaction; rows for golfers dropped
// from the field are removed. An edit the stored results cannot satisfy is
// rejected and nothing changes.
func (s *TournamentService) Update(ctx context.Context, id uuid.UUID, in TournamentInput) (*models.Tournament, error) {
	tournament, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	previousSeason := tournament.SeasonID
	if err := s.apply(ctx, tournament, in); err != nil {
		return nil, err
	}

	var rescored []models.Score
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(tournament).Error; err != nil {
			return fmt.Errorf("failed to update tournament: %w", err)
		}

		results, err := storedResults(tx, tournament.ID)
		if err != nil || len(results) == 0 {
			return err
		}

		rows, affected, err := replaceScores(tx, tournament, inField(results, tournament.Field))
		if err != nil {
			var ve *scoring.ValidationError
			if errors.As(err, &ve) {
				return utils.NewAppError(utils.ErrCodeValidation,
					"The stored results do not fit this change: "+ve.Message, ve.Code)
			}
			return err
		}
		rescored = rows

		if previousSeason != tournament.SeasonID {
			return recountGolfers(tx, previousSeason, affected)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.invalidateLeaderboards(ctx)
	if len(rescored) > 0 {
		s.logger.WithFields(logrus.Fields{
			"tournament_id":   tournament.ID,
			"tournament_type": tournament.Type,
			"multiplier":      tournament.Multiplier,
			"rows":            len(rescored),
		}).Info("Tournament results re-scored after edit")
		if s.broadcaster != nil {
			update := ResultsUpdate{
				TournamentID: tournament.ID.String(),
				SeasonID:     tournament.SeasonID.String(),
				Participants: countParticipants(rescored),
			}
			if err := s.broadcaster.BroadcastToTopic(TopicLeaderboard, MessageLeaderboardUpdate, update); err != nil {
				s.logger.WithError(err).Warn("Failed to broadcast leaderboard update")
			}
		}
	}
	return tournament, nil
}

// SetStatus moves a tournament through draft, published and complete
func (s *TournamentService) SetStatus(ctx context.Context, id uuid.UUID, status models.TournamentStatus) (*models.Tournament, error) {
	tournament, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if tournament.Status == status {
		return tournament, nil
	}
	if !tournament.Status.CanTransition(status) {
		return nil, utils.NewAppError(utils.ErrCodeValidation,
			fmt.Sprintf("Cannot move tournament from %s to %s", tournament.Status, status))
	}

	if err := s.db.WithContext(ctx).Model(tournament).Update("status", status).Error; err != nil {
		return nil, fmt.Errorf("failed to update tournament status: %w", err)
	}
	tournament.Status = status

	s.invalidateLeaderboards(ctx)
	if s.broadcaster != nil {
		update := TournamentStatusUpdate{TournamentID: id.String(), Status: status}
		if err := s.broadcaster.BroadcastToTopic(TopicTournaments, MessageTournamentUpdate, update); err != nil {
			s.logger.WithError(err).Warn("Failed to broadcast tournament update")
		}
	}
	s.logger.WithFields(logrus.Fields{"tournament_id": id, "status": status}).Info("Tournament status changed")
	return tournament, nil
}

func (s *TournamentService) apply(ctx context.Context, t *models.Tournament, in TournamentInput) error {
	if in.Name == "" {
		return utils.NewAppError(utils.ErrCodeValidation, "Tournament name is required")
	}
	if in.StartDate.IsZero() {
		return utils.NewAppError(utils.ErrCodeValidation, "Tournament start date is required")
	}

	format, multiDay, err := rules.ResolveFormat(in.Type, in.Format, in.MultiDay)
	if err != nil {
		return utils.NewAppError(utils.ErrCodeValidation, err.Error())
	}
	cfg, _ := rules.Lookup(in.Type)

	var season models.Season
	if err := s.db.WithContext(ctx).First(&season, "id = ?", in.SeasonID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.NewAppError(utils.ErrCodeValidation, "Season does not exist")
		}
		return fmt.Errorf("failed to load season: %w", err)
	}

	field, err := s.checkField(ctx, in.Field)
	if err != nil {
		return err
	}

	t.SeasonID = in.SeasonID
	t.Name = in.Name
	t.Type = in.Type
	t.ScoringFormat = format
	t.IsMultiDay = multiDay
	t.Multiplier = cfg.Multiplier
	t.StartDate = in.StartDate.UTC()
	t.Field = field
	if err := rules.CheckConfig(t.Type, t.ScoringFormat, t.Multiplier); err != nil {
		return utils.NewAppError(utils.ErrCodeValidation, err.Error())
	}
	return nil
}

// checkField dedupes the field and makes sure every golfer exists
func (s *TournamentService) checkField(ctx context.Context, ids []uuid.UUID) ([]string, error) {
	seen := make(map[uuid.UUID]bool, len(ids))
	unique := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			unique = append(unique, id)
		}
	}
	if len(unique) == 0 {
		return []string{}, nil
	}

	var count int64
	if err := s.db.WithContext(ctx).Model(&models.Golfer{}).Where("id IN ?", unique).Count(&count).Error; err != nil {
		return nil, fmt.Errorf("failed to check tournament field: %w", err)
	}
	if int(count) != len(unique) {
		return nil, utils.NewAppError(utils.ErrCodeValidation, "Tournament field contains unknown golfers")
	}

	out := make([]string, len(unique))
	for i, id := range unique {
		out[i] = id.String()
	}
	return out, nil
}

func (s *TournamentService) invalidateLeaderboards(ctx context.Context) {
	if err := s.cache.DeletePattern(ctx, leaderboardCachePattern); err != nil {
		s.logger.WithError(err).Warn("Failed to invalidate leaderboard cache")
	}
}
