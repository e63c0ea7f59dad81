package services

import (
	"time"

	"github.com/google/uuid"

	"github.com/stitts-dev/fantasy-golf/internal/gameweek"
	"github.com/stitts-dev/fantasy-golf/internal/leaderboard"
	"github.com/stitts-dev/fantasy-golf/internal/models"
	"github.com/stitts-dev/fantasy-golf/internal/rules"
	"github.com/stitts-dev/fantasy-golf/internal/scoring"
)

var leaderboardNow = time.Date(2025, time.March, 19, 12, 0, 0, 0, time.UTC)

// seedLeague plays two gameweeks. Bob leads after the first, Alice's captain
// wins the second.
func (s *ServiceSuite) seedLeague() (alice, bob Member) {
	g := s.golferIDs(7)

	week2 := s.createTournament(rules.TypeRollupMedal, day(2025, time.March, 8), g[:4])
	_, err := s.scores.SubmitResults(s.ctx, week2.ID, []scoring.Result{
		{GolferID: g[3].String(), Participated: true, Position: intPtr(1), RawScore: floatPtr(0)},
		{GolferID: g[0].String(), Participated: true, RawScore: floatPtr(10)},
	})
	s.Require().NoError(err)
	s.publish(week2.ID)

	week3 := s.createTournament(rules.TypeWeekendMedal, day(2025, time.March, 15), g[:4])
	_, err = s.scores.SubmitResults(s.ctx, week3.ID, []scoring.Result{
		{GolferID: g[0].String(), Participated: true, Position: intPtr(1), RawScore: floatPtr(-2)},
		{GolferID: g[1].String(), Participated: true, RawScore: floatPtr(3)},
	})
	s.Require().NoError(err)
	s.publish(week3.ID)

	// drafts never count
	draft := s.createTournament(rules.TypeClubChampionship, day(2025, time.March, 16), g[:4])
	_, err = s.scores.SubmitResults(s.ctx, draft.ID, []scoring.Result{
		{GolferID: g[1].String(), Participated: true, Position: intPtr(1), RawScore: floatPtr(-5)},
	})
	s.Require().NoError(err)

	alice = s.member("alice")
	_, err = s.teams.SaveTeam(s.ctx, alice, TeamInput{GolferIDs: g[:6], CaptainID: &g[0]})
	s.Require().NoError(err)

	bob = s.member("bob")
	_, err = s.teams.SaveTeam(s.ctx, bob, TeamInput{GolferIDs: g[1:7], CaptainID: &g[3]})
	s.Require().NoError(err)
	return alice, bob
}

func (s *ServiceSuite) leaderboardService() (*LeaderboardService, *LeaderboardStore) {
	return s.leaderboardServiceAt(func() time.Time { return leaderboardNow })
}

func (s *ServiceSuite) leaderboardServiceAt(clock func() time.Time) (*LeaderboardService, *LeaderboardStore) {
	store := NewLeaderboardStore(s.db, s.seasons)
	engine := leaderboard.NewEngine(leaderboard.Deps{
		Seasons:     s.seasons,
		Tournaments: store,
		Scores:      store,
		Teams:       store,
		Snapshots:   store,
		Clock:       clock,
	}, s.logger)
	return NewLeaderboardService(engine, s.seasons, s.cache, time.Minute, clock, s.logger), store
}

func byUser(entries []leaderboard.Entry) map[string]leaderboard.Entry {
	out := make(map[string]leaderboard.Entry, len(entries))
	for _, e := range entries {
		out[e.Username] = e
	}
	return out
}

func (s *ServiceSuite) TestWeekLeaderboardFromDatabase() {
	s.seedLeague()
	svc, _ := s.leaderboardService()

	resp, err := svc.Get(s.ctx, leaderboard.Request{Period: gameweek.PeriodWeek})
	s.Require().NoError(err)
	s.Equal("GW 3: 15 Mar - 21 Mar 2025", resp.Period.Label)
	s.True(resp.Period.HasPrevious)
	s.False(resp.Period.HasNext)
	s.Equal(s.season.ID.String(), resp.Meta.SeasonID)

	entries := byUser(resp.Entries)
	s.Require().Len(entries, 2)

	// 26 doubled for the captain plus 2
	s.Equal(54, entries["alice"].Points)
	s.Equal(1, entries["alice"].Rank)
	s.Equal(leaderboard.MovementUp, entries["alice"].Movement)
	s.Require().NotNil(entries["alice"].PreviousRank)
	s.Equal(2, *entries["alice"].PreviousRank)

	s.Equal(2, entries["bob"].Points)
	s.Equal(leaderboard.MovementDown, entries["bob"].Movement)
}

func (s *ServiceSuite) TestSeasonLeaderboardFromDatabase() {
	s.seedLeague()
	svc, _ := s.leaderboardService()

	resp, err := svc.Get(s.ctx, leaderboard.Request{Period: gameweek.PeriodSeason})
	s.Require().NoError(err)
	s.Equal("Season 2025", resp.Period.Label)

	entries := byUser(resp.Entries)
	s.Equal(67, entries["alice"].Points)
	s.Equal(28, entries["bob"].Points)
	s.Equal(leaderboard.MovementUp, entries["alice"].Movement)
}

func (s *ServiceSuite) TestLeaderboardCacheInvalidatedByWrites() {
	_, bob := s.seedLeague()
	svc, _ := s.leaderboardService()

	first, err := svc.Get(s.ctx, leaderboard.Request{Period: gameweek.PeriodWeek})
	s.Require().NoError(err)
	s.Len(first.Entries, 2)

	s.Require().NoError(s.db.Model(&models.Team{}).Where("user_id = ?", bob.ID).Update("is_active", false).Error)
	cached, err := svc.Get(s.ctx, leaderboard.Request{Period: gameweek.PeriodWeek})
	s.Require().NoError(err)
	s.Len(cached.Entries, 2)

	t := s.createTournament(rules.TypeRollupMedal, day(2025, time.March, 18), nil)
	s.publish(t.ID)

	fresh, err := svc.Get(s.ctx, leaderboard.Request{Period: gameweek.PeriodWeek})
	s.Require().NoError(err)
	s.Len(fresh.Entries, 1)
}

func (s *ServiceSuite) TestCurrentLeaderboardRollsOverAtGameweekStart() {
	s.seedLeague()
	now := time.Date(2025, time.March, 21, 23, 59, 0, 0, time.UTC)
	svc, _ := s.leaderboardServiceAt(func() time.Time { return now })

	friday, err := svc.Get(s.ctx, leaderboard.Request{Period: gameweek.PeriodWeek})
	s.Require().NoError(err)
	s.Equal("2025-03-15", friday.Period.Key)

	now = time.Date(2025, time.March, 22, 0, 1, 0, 0, time.UTC)
	saturday, err := svc.Get(s.ctx, leaderboard.Request{Period: gameweek.PeriodWeek})
	s.Require().NoError(err)
	s.Equal("2025-03-22", saturday.Period.Key)
	for _, e := range saturday.Entries {
		s.Zero(e.Points)
	}
}

func (s *ServiceSuite) TestSnapshotsAreScopedToSeason() {
	_, store := s.leaderboardService()
	user := uuid.NewString()

	s.Require().NoError(store.SaveSnapshot(s.ctx, gameweek.PeriodWeek, "2025-03-08", map[string]int{user: 1}))

	overlapping, err := s.seasons.Create(s.ctx, SeasonInput{
		Name:      "Winter League",
		StartDate: day(2025, time.February, 1),
		EndDate:   day(2025, time.June, 1),
		IsActive:  true,
	})
	s.Require().NoError(err)
	s.Require().NoError(store.SaveSnapshot(s.ctx, gameweek.PeriodWeek, "2025-03-08", map[string]int{user: 7}))

	ranks, found, err := store.LoadSnapshot(s.ctx, gameweek.PeriodWeek, "2025-03-08")
	s.Require().NoError(err)
	s.True(found)
	s.Equal(7, ranks[user])

	_, err = s.seasons.Activate(s.ctx, s.season.ID)
	s.Require().NoError(err)
	ranks, found, err = store.LoadSnapshot(s.ctx, gameweek.PeriodWeek, "2025-03-08")
	s.Require().NoError(err)
	s.True(found)
	s.Equal(1, ranks[user])

	var count int64
	s.Require().NoError(s.db.Model(&models.LeaderboardSnapshot{}).Where("season_id IN ?", []uuid.UUID{s.season.ID, overlapping.ID}).Count(&count).Error)
	s.Equal(int64(2), count)
}

func (s *ServiceSuite) TestSnapshotsAreStoredAndRead() {
	alice, bob := s.seedLeague()
	svc, store := s.leaderboardService()

	s.Require().NoError(svc.Snapshot(s.ctx))

	var snapshots []models.LeaderboardSnapshot
	s.Require().NoError(s.db.Order("period_type DESC").Find(&snapshots).Error)
	s.Require().Len(snapshots, 2)
	s.Equal("week", snapshots[0].PeriodType)
	s.Equal("2025-03-08", snapshots[0].PeriodKey)
	s.Equal("season", snapshots[1].PeriodType)
	s.Equal("2025-03-15", snapshots[1].PeriodKey)

	ranks, found, err := store.LoadSnapshot(s.ctx, gameweek.PeriodWeek, "2025-03-08")
	s.Require().NoError(err)
	s.True(found)
	s.Equal(map[string]int{bob.ID.String(): 1, alice.ID.String(): 2}, ranks)

	// a stored snapshot wins over recomputation
	s.Require().NoError(store.SaveSnapshot(s.ctx, gameweek.PeriodWeek, "2025-03-08", map[string]int{alice.ID.String(): 1}))
	resp, err := svc.Get(s.ctx, leaderboard.Request{Period: gameweek.PeriodWeek})
	s.Require().NoError(err)
	entries := byUser(resp.Entries)
	s.Equal(leaderboard.MovementSame, entries["alice"].Movement)
	s.Equal(leaderboard.MovementNew, entries["bob"].Movement)

	_, found, err = store.LoadSnapshot(s.ctx, gameweek.PeriodMonth, "2025-02-01")
	s.Require().NoError(err)
	s.False(found)
}

func (s *ServiceSuite) TestCalendarOptions() {
	svc, _ := s.leaderboardService()

	weeks, err := svc.WeekOptions(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(weeks, 3)
	s.Equal("2025-03-15", weeks[0].Key)
	s.Equal("2025-03-01", weeks[2].Key)

	months, err := svc.MonthOptions(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(months, 1)
	s.Equal("March 2025", months[0].Label)
}

func (s *ServiceSuite) TestLeaderboardWithoutSeason() {
	s.Require().NoError(s.seasons.Delete(s.ctx, s.season.ID))
	svc, store := s.leaderboardService()

	resp, err := svc.Get(s.ctx, leaderboard.Request{Period: gameweek.PeriodWeek})
	s.Require().NoError(err)
	s.Empty(resp.Entries)

	s.Error(store.SaveSnapshot(s.ctx, gameweek.PeriodWeek, "2025-03-08", map[string]int{uuid.NewString(): 1}))
}
