package services

import (
	"context"

	"github.com/stitts-dev/fantasy-golf/internal/pricing"
	"github.com/stitts-dev/fantasy-golf/pkg/utils"
)

func (s *ServiceSuite) TestGolferCreateAndSearch() {
	ctx := context.Background()
	service := s.golferSvc

	inactive := false
	g, err := service.Create(ctx, GolferInput{Name: "  Seve Ballesteros ", Price: 12_300_000, IsActive: &inactive})
	s.Require().NoError(err)
	s.Equal("Seve Ballesteros", g.Name)
	s.False(g.IsActive)

	cheap, err := service.Create(ctx, GolferInput{Name: "Club Pro"})
	s.Require().NoError(err)
	s.Equal(pricing.MinPrice, cheap.Price)

	found, err := service.List(ctx, GolferFilter{Search: "seve"})
	s.Require().NoError(err)
	s.Require().Len(found, 1)
	s.Equal(g.ID, found[0].ID)

	active, err := service.List(ctx, GolferFilter{ActiveOnly: true})
	s.Require().NoError(err)
	for _, a := range active {
		s.NotEqual(g.ID, a.ID)
	}

	all, err := service.List(ctx, GolferFilter{})
	s.Require().NoError(err)
	s.Equal(g.ID, all[0].ID, "most expensive first")
}

func (s *ServiceSuite) TestGolferPriceMustBeOnGrid() {
	service := s.golferSvc

	for _, price := range []int64{1_000_000, 20_000_000, 5_050_000} {
		_, err := service.Create(context.Background(), GolferInput{Name: "Bad Price", Price: price})
		var appErr *utils.AppError
		s.Require().ErrorAs(err, &appErr, "price %d", price)
		s.Equal(utils.ErrCodeValidation, appErr.Code)
	}

	_, err := service.Create(context.Background(), GolferInput{Name: " "})
	s.Error(err)
}
