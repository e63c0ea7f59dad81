package services

import (
	"time"
	_ "time/tzdata"

	"github.com/stitts-dev/fantasy-golf/internal/models"
	"github.com/stitts-dev/fantasy-golf/internal/rules"
	"github.com/stitts-dev/fantasy-golf/pkg/utils"
)

func (s *ServiceSuite) TestActiveSeasonIsCachedAndInvalidated() {
	active, err := s.seasons.Active(s.ctx)
	s.Require().NoError(err)
	s.Require().NotNil(active)
	s.Equal(s.season.ID, active.ID)

	// a write behind the service's back is not seen until the cache expires
	s.Require().NoError(s.db.Model(&models.Season{}).Where("id = ?", s.season.ID).Update("is_active", false).Error)
	cached, err := s.seasons.Active(s.ctx)
	s.Require().NoError(err)
	s.Require().NotNil(cached)

	next, err := s.seasons.Create(s.ctx, SeasonInput{
		Name:      "Season 2026",
		StartDate: day(2026, time.March, 1),
		EndDate:   day(2027, time.March, 1),
		IsActive:  true,
	})
	s.Require().NoError(err)

	active, err = s.seasons.Active(s.ctx)
	s.Require().NoError(err)
	s.Require().NotNil(active)
	s.Equal(next.ID, active.ID)

	var count int64
	s.Require().NoError(s.db.Model(&models.Season{}).Where("is_active = ?", true).Count(&count).Error)
	s.Equal(int64(1), count)
}

func (s *ServiceSuite) TestActivateSwitchesSeason() {
	other, err := s.seasons.Create(s.ctx, SeasonInput{
		Name:      "Season 2024",
		StartDate: day(2024, time.March, 1),
		EndDate:   day(2025, time.March, 1),
	})
	s.Require().NoError(err)
	s.False(other.IsActive)

	_, err = s.seasons.Activate(s.ctx, other.ID)
	s.Require().NoError(err)

	active, err := s.seasons.ActiveSeason(s.ctx)
	s.Require().NoError(err)
	s.Require().NotNil(active)
	s.Equal(other.ID.String(), active.ID)
	s.Equal(day(2024, time.March, 1), active.StartDate)
}

func (s *ServiceSuite) TestNoActiveSeason() {
	s.Require().NoError(s.seasons.Delete(s.ctx, s.season.ID))

	active, err := s.seasons.ActiveSeason(s.ctx)
	s.Require().NoError(err)
	s.Nil(active)

	err = s.seasons.Delete(s.ctx, s.season.ID)
	s.ErrorIs(err, utils.ErrNotFound)
}

func (s *ServiceSuite) TestSeasonValidation() {
	_, err := s.seasons.Create(s.ctx, SeasonInput{
		Name:      "Backwards",
		StartDate: day(2025, time.March, 1),
		EndDate:   day(2025, time.February, 1),
	})
	var appErr *utils.AppError
	s.Require().ErrorAs(err, &appErr)
	s.Equal(utils.ErrCodeValidation, appErr.Code)
}

func (s *ServiceSuite) TestSeasonDatesInLeagueTimeZone() {
	london, err := time.LoadLocation("Europe/London")
	s.Require().NoError(err)
	svc := NewSeasonService(s.db, NewMemoryCache(), time.Minute, london, s.logger)

	active, err := svc.ActiveSeason(s.ctx)
	s.Require().NoError(err)
	s.Require().NotNil(active)
	s.Equal(time.Date(2025, time.March, 1, 0, 0, 0, 0, london), active.StartDate)
}

func (s *ServiceSuite) TestCreateTournamentUsesRuleTable() {
	major := s.createTournament(rules.TypeMajor, day(2025, time.April, 10), s.golferIDs(3))
	s.Equal(4, major.Multiplier)
	s.Equal(rules.FormatMedal, major.ScoringFormat)
	s.True(major.IsMultiDay)
	s.Equal(models.TournamentDraft, major.Status)
	s.Len(major.Field, 3)

	medal := rules.FormatMedal
	rollup, err := s.tournaments.Create(s.ctx, TournamentInput{
		SeasonID:  s.season.ID,
		Name:      "Rollup",
		Type:      rules.TypeRollupStableford,
		Format:    &medal,
		StartDate: day(2025, time.April, 12),
	})
	s.Require().NoError(err)
	s.Equal(rules.FormatStableford, rollup.ScoringFormat)
	s.Equal(1, rollup.Multiplier)
}

func (s *ServiceSuite) TestCreateTournamentRejectsBadInput() {
	_, err := s.tournaments.Create(s.ctx, TournamentInput{
		SeasonID:  s.season.ID,
		Name:      "Mystery",
		Type:      rules.TournamentType("matchplay"),
		StartDate: day(2025, time.April, 10),
	})
	var appErr *utils.AppError
	s.Require().ErrorAs(err, &appErr)
	s.Equal(utils.ErrCodeValidation, appErr.Code)

	field := append(s.golferIDs(2), s.season.ID)
	_, err = s.tournaments.Create(s.ctx, TournamentInput{
		SeasonID:  s.season.ID,
		Name:      "Ghosts",
		Type:      rules.TypeWeekendMedal,
		StartDate: day(2025, time.April, 10),
		Field:     field,
	})
	s.Require().ErrorAs(err, &appErr)
	s.Contains(appErr.Message, "unknown golfers")
}

func (s *ServiceSuite) TestTournamentStatusTransitions() {
	t := s.createTournament(rules.TypeWeekendMedal, day(2025, time.April, 10), nil)

	_, err := s.tournaments.SetStatus(s.ctx, t.ID, models.TournamentComplete)
	var appErr *utils.AppError
	s.Require().ErrorAs(err, &appErr)

	for _, next := range []models.TournamentStatus{models.TournamentPublished, models.TournamentComplete, models.TournamentPublished} {
		got, err := s.tournaments.SetStatus(s.ctx, t.ID, next)
		s.Require().NoError(err)
		s.Equal(next, got.Status)
	}

	s.broadcaster.AssertCalled(s.T(), "BroadcastToTopic", TopicTournaments, MessageTournamentUpdate,
		TournamentStatusUpdate{TournamentID: t.ID.String(), Status: models.TournamentComplete})

	published := models.TournamentPublished
	list, err := s.tournaments.List(s.ctx, TournamentFilter{SeasonID: &s.season.ID, Status: &published})
	s.Require().NoError(err)
	s.Len(list, 1)
}
