package services

import (
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/stitts-dev/fantasy-golf/internal/models"
	"github.com/stitts-dev/fantasy-golf/internal/rules"
	"github.com/stitts-dev/fantasy-golf/internal/scoring"
	"github.com/stitts-dev/fantasy-golf/pkg/utils"
)

func (s *ServiceSuite) TestSubmitResultsScoresWholeField() {
	field := s.golferIDs(3)
	t := s.createTournament(rules.TypeWeekendMedal, day(2025, time.March, 15), field)

	rows, err := s.scores.SubmitResults(s.ctx, t.ID, []scoring.Result{
		{GolferID: field[0].String(), Participated: true, Position: intPtr(1), RawScore: floatPtr(-2)},
		{GolferID: field[1].String(), Participated: true, RawScore: floatPtr(3)},
	})
	s.Require().NoError(err)
	s.Len(rows, 3)

	byGolfer := map[string]models.Score{}
	stored, err := s.scores.ListScores(s.ctx, t.ID)
	s.Require().NoError(err)
	for _, sc := range stored {
		byGolfer[sc.GolferID.String()] = sc
	}

	winner := byGolfer[field[0].String()]
	s.Equal(10, winner.BasePoints)
	s.Equal(3, winner.BonusPoints)
	s.Equal(26, winner.MultipliedPoints)

	s.Equal(2, byGolfer[field[1].String()].MultipliedPoints)

	absent := byGolfer[field[2].String()]
	s.False(absent.Participated)
	s.Zero(absent.MultipliedPoints)
	s.Nil(absent.Position)

	g := s.golfer(field[0])
	s.Equal(1, g.TimesPlayed)
	s.Equal(1, g.FirstPlaces)
	s.Equal(1, g.BonusHits)
	s.Equal(0, s.golfer(field[2]).TimesPlayed)

	s.broadcaster.AssertCalled(s.T(), "BroadcastToTopic", TopicLeaderboard, MessageLeaderboardUpdate, mock.Anything)
}

func (s *ServiceSuite) TestResubmissionRecountsCounters() {
	field := s.golferIDs(2)
	t := s.createTournament(rules.TypeWeekendMedal, day(2025, time.March, 15), field)

	_, err := s.scores.SubmitResults(s.ctx, t.ID, []scoring.Result{
		{GolferID: field[0].String(), Participated: true, Position: intPtr(1), RawScore: floatPtr(-1)},
	})
	s.Require().NoError(err)
	s.Equal(1, s.golfer(field[0]).FirstPlaces)

	// the first winner is unchecked on the second pass
	_, err = s.scores.SubmitResults(s.ctx, t.ID, []scoring.Result{
		{GolferID: field[1].String(), Participated: true, Position: intPtr(1), RawScore: floatPtr(5)},
	})
	s.Require().NoError(err)

	first := s.golfer(field[0])
	s.Equal(0, first.TimesPlayed)
	s.Equal(0, first.FirstPlaces)
	s.Equal(0, first.BonusHits)

	second := s.golfer(field[1])
	s.Equal(1, second.TimesPlayed)
	s.Equal(1, second.FirstPlaces)
	s.Equal(0, second.BonusHits)

	var count int64
	s.Require().NoError(s.db.Model(&models.Score{}).Where("tournament_id = ?", t.ID).Count(&count).Error)
	s.Equal(int64(2), count)
}

func (s *ServiceSuite) TestRejectedResultsLeaveScoresUntouched() {
	field := s.golferIDs(2)
	t := s.createTournament(rules.TypeRollupStableford, day(2025, time.March, 15), field)

	_, err := s.scores.SubmitResults(s.ctx, t.ID, []scoring.Result{
		{GolferID: field[0].String(), Participated: true, Position: intPtr(1), RawScore: floatPtr(38)},
	})
	s.Require().NoError(err)

	_, err = s.scores.SubmitResults(s.ctx, t.ID, []scoring.Result{
		{GolferID: field[0].String(), Participated: false},
	})
	var appErr *utils.AppError
	s.Require().ErrorAs(err, &appErr)
	s.Equal(utils.ErrCodeValidation, appErr.Code)
	s.Equal("At least one golfer must have participated", appErr.Message)
	s.Equal(scoring.CodeNoParticipants, appErr.Details)

	stored, err := s.scores.ListScores(s.ctx, t.ID)
	s.Require().NoError(err)
	s.Require().Len(stored, 2)
	s.Equal(13, stored[0].MultipliedPoints)
	s.Equal(1, s.golfer(field[0]).FirstPlaces)
}

func (s *ServiceSuite) TestSubmitResultsRejectsOutsiders() {
	t := s.createTournament(rules.TypeWeekendMedal, day(2025, time.March, 15), s.golferIDs(2))

	_, err := s.scores.SubmitResults(s.ctx, t.ID, []scoring.Result{
		{GolferID: s.golfers[5].ID.String(), Participated: true, Position: intPtr(1), RawScore: floatPtr(0)},
	})
	var appErr *utils.AppError
	s.Require().ErrorAs(err, &appErr)
	s.Contains(appErr.Message, "not in the tournament field")

	_, err = s.scores.SubmitResults(s.ctx, t.ID, []scoring.Result{{GolferID: "nobody", Participated: true}})
	s.Require().ErrorAs(err, &appErr)
	s.Contains(appErr.Message, "Invalid golfer id")
}

func (s *ServiceSuite) TestSubmitResultsWithoutFieldChecksGolfersExist() {
	t := s.createTournament(rules.TypeWeekendMedal, day(2025, time.March, 15), nil)

	_, err := s.scores.SubmitResults(s.ctx, t.ID, []scoring.Result{
		{GolferID: s.season.ID.String(), Participated: true, Position: intPtr(1), RawScore: floatPtr(0)},
	})
	var appErr *utils.AppError
	s.Require().ErrorAs(err, &appErr)
	s.Contains(appErr.Message, "does not exist")

	rows, err := s.scores.SubmitResults(s.ctx, t.ID, []scoring.Result{
		{GolferID: s.golfers[0].ID.String(), Participated: true, Position: intPtr(1), RawScore: floatPtr(0)},
	})
	s.Require().NoError(err)
	s.Len(rows, 1)
}

func (s *ServiceSuite) TestSubmitResultsUnknownTournament() {
	_, err := s.scores.SubmitResults(s.ctx, s.season.ID, []scoring.Result{
		{GolferID: s.golfers[0].ID.String(), Participated: true, Position: intPtr(1), RawScore: floatPtr(0)},
	})
	s.ErrorIs(err, utils.ErrNotFound)
}
