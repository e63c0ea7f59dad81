package services

import (
	"time"

	"github.com/stitts-dev/fantasy-golf/internal/models"
	"github.com/stitts-dev/fantasy-golf/internal/pricing"
	"github.com/stitts-dev/fantasy-golf/internal/rules"
)

func (s *ServiceSuite) storeScore(tournament *models.Tournament, golfer models.Golfer, base, bonus int) {
	score := models.Score{
		TournamentID:     tournament.ID,
		GolferID:         golfer.ID,
		Participated:     true,
		RawScore:         floatPtr(0),
		BasePoints:       base,
		BonusPoints:      bonus,
		MultipliedPoints: (base + bonus) * tournament.Multiplier,
	}
	s.Require().NoError(s.db.Create(&score).Error)
}

func (s *ServiceSuite) TestRepriceAll() {
	star := s.golfers[0]
	for i := 0; i < 5; i++ {
		t := s.createTournament(rules.TypeMajor, day(2025, time.April, 5+7*i), nil)
		s.publish(t.ID)
		s.storeScore(t, star, 10, 3)
	}

	// draft results never move prices
	draft := s.createTournament(rules.TypeClubChampionship, day(2025, time.June, 7), nil)
	s.storeScore(draft, s.golfers[1], 10, 3)

	svc := NewPricingService(s.db, 3, s.logger)
	samples, err := svc.Samples(s.ctx)
	s.Require().NoError(err)
	s.Equal(pricing.Sample{Events: 5, Points: 65}, samples[star.ID.String()])
	s.Equal(pricing.Sample{}, samples[s.golfers[1].ID.String()])

	changes, err := svc.RepriceAll(s.ctx)
	s.Require().NoError(err)
	s.Len(changes, len(s.golfers))

	s.Equal(pricing.MaxPrice, s.golfer(star.ID).Price)

	unknown := s.golfer(s.golfers[1].ID).Price
	s.Equal(unknown, s.golfer(s.golfers[2].ID).Price)
	s.Greater(unknown, pricing.MinPrice)
	s.Less(unknown, pricing.MaxPrice)
	s.Zero(unknown % pricing.PriceStep)
}

func (s *ServiceSuite) TestPricingWindowSkipsOldSeasons() {
	old, err := s.seasons.Create(s.ctx, SeasonInput{
		Name:      "Season 2023",
		StartDate: day(2023, time.March, 1),
		EndDate:   day(2024, time.March, 1),
	})
	s.Require().NoError(err)

	t, err := s.tournaments.Create(s.ctx, TournamentInput{
		SeasonID:  old.ID,
		Name:      "Old Major",
		Type:      rules.TypeMajor,
		StartDate: day(2023, time.June, 1),
	})
	s.Require().NoError(err)
	s.publish(t.ID)
	s.storeScore(t, s.golfers[0], 10, 3)

	samples, err := NewPricingService(s.db, 1, s.logger).Samples(s.ctx)
	s.Require().NoError(err)
	s.Zero(samples[s.golfers[0].ID.String()].Events)

	samples, err = NewPricingService(s.db, 2, s.logger).Samples(s.ctx)
	s.Require().NoError(err)
	s.Equal(1, samples[s.golfers[0].ID.String()].Events)
}

func (s *ServiceSuite) TestPreviewPrice() {
	svc := NewPricingService(s.db, 3, s.logger)
	s.Equal(int64(8_000_000), svc.Preview(0.5))
	s.Equal(pricing.MinPrice, svc.Preview(-1))
}
