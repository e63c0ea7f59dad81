package services

import (
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/stitts-dev/fantasy-golf/internal/models"
	"github.com/stitts-dev/fantasy-golf/internal/rules"
	"github.com/stitts-dev/fantasy-golf/internal/scoring"
	"github.com/stitts-dev/fantasy-golf/pkg/utils"
)

func (s *ServiceSuite) editTournament(t *models.Tournament, kind rules.TournamentType, field []uuid.UUID) (*models.Tournament, error) {
	return s.tournaments.Update(s.ctx, t.ID, TournamentInput{
		SeasonID:  t.SeasonID,
		Name:      t.Name,
		Type:      kind,
		StartDate: t.StartDate,
		Field:     field,
	})
}

func (s *ServiceSuite) scoresByGolfer(id uuid.UUID) map[uuid.UUID]models.Score {
	rows, err := s.scores.ListScores(s.ctx, id)
	s.Require().NoError(err)
	out := make(map[uuid.UUID]models.Score, len(rows))
	for _, row := range rows {
		out[row.GolferID] = row
	}
	return out
}

func (s *ServiceSuite) TestRetypeRescoresStoredResults() {
	field := s.golferIDs(3)
	t := s.createTournament(rules.TypeWeekendMedal, day(2025, time.March, 15), field)
	_, err := s.scores.SubmitResults(s.ctx, t.ID, []scoring.Result{
		{GolferID: field[0].String(), Participated: true, Position: intPtr(1), RawScore: floatPtr(-2)},
		{GolferID: field[1].String(), Participated: true, RawScore: floatPtr(3)},
	})
	s.Require().NoError(err)
	s.Equal(26, s.scoresByGolfer(t.ID)[field[0]].MultipliedPoints)

	updated, err := s.editTournament(t, rules.TypeClubChampionship, field)
	s.Require().NoError(err)
	s.Equal(5, updated.Multiplier)
	s.True(updated.IsMultiDay)

	rows := s.scoresByGolfer(t.ID)
	s.Require().Len(rows, 3)
	s.Equal(65, rows[field[0]].MultipliedPoints)
	s.Equal(5, rows[field[1]].MultipliedPoints)
	for _, row := range rows {
		s.Equal((row.BasePoints+row.BonusPoints)*updated.Multiplier, row.MultipliedPoints)
	}

	s.broadcaster.AssertCalled(s.T(), "BroadcastToTopic", TopicLeaderboard, MessageLeaderboardUpdate, mock.MatchedBy(func(u ResultsUpdate) bool {
		return u.TournamentID == t.ID.String() && u.Participants == 2
	}))
}

func (s *ServiceSuite) TestShrinkingFieldDropsStaleScores() {
	field := s.golferIDs(3)
	t := s.createTournament(rules.TypeWeekendMedal, day(2025, time.March, 15), field)
	_, err := s.scores.SubmitResults(s.ctx, t.ID, []scoring.Result{
		{GolferID: field[0].String(), Participated: true, Position: intPtr(1), RawScore: floatPtr(-2)},
		{GolferID: field[2].String(), Participated: true, RawScore: floatPtr(5)},
	})
	s.Require().NoError(err)
	s.Equal(1, s.golfer(field[2]).TimesPlayed)

	_, err = s.editTournament(t, rules.TypeWeekendMedal, field[:2])
	s.Require().NoError(err)

	rows := s.scoresByGolfer(t.ID)
	s.Len(rows, 2)
	s.NotContains(rows, field[2])
	s.Equal(0, s.golfer(field[2]).TimesPlayed)
	s.Equal(1, s.golfer(field[0]).FirstPlaces)
}

func (s *ServiceSuite) TestEditRejectedWhenResultsNoLongerFit() {
	field := s.golferIDs(3)
	t := s.createTournament(rules.TypeWeekendMedal, day(2025, time.March, 15), field)
	_, err := s.scores.SubmitResults(s.ctx, t.ID, []scoring.Result{
		{GolferID: field[0].String(), Participated: true, Position: intPtr(1), RawScore: floatPtr(-2)},
		{GolferID: field[1].String(), Participated: true, RawScore: floatPtr(3)},
	})
	s.Require().NoError(err)

	// dropping the winner leaves a podium without a 1st place
	_, err = s.editTournament(t, rules.TypeMajor, field[1:])
	var appErr *utils.AppError
	s.Require().ErrorAs(err, &appErr)
	s.Equal(utils.ErrCodeValidation, appErr.Code)
	s.Equal(scoring.CodeMissingFirst, appErr.Details)

	stored, err := s.tournaments.Get(s.ctx, t.ID)
	s.Require().NoError(err)
	s.Equal(rules.TypeWeekendMedal, stored.Type)
	s.Equal(2, stored.Multiplier)
	s.Len(stored.Field, 3)

	rows := s.scoresByGolfer(t.ID)
	s.Len(rows, 3)
	s.Equal(26, rows[field[0]].MultipliedPoints)
}

func (s *ServiceSuite) TestEditWithoutScoresLeavesNoRows() {
	t := s.createTournament(rules.TypeRollupMedal, day(2025, time.March, 15), s.golferIDs(2))

	updated, err := s.editTournament(t, rules.TypePresidentsCup, s.golferIDs(2))
	s.Require().NoError(err)
	s.Equal(3, updated.Multiplier)
	s.Empty(s.scoresByGolfer(t.ID))
}
