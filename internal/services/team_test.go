package services

import (
	"github.com/google/uuid"

	"github.com/stitts-dev/fantasy-golf/internal/models"
	"github.com/stitts-dev/fantasy-golf/pkg/utils"
)

func (s *ServiceSuite) member(name string) Member {
	return Member{ID: uuid.New(), Username: name, Role: models.RoleUser}
}

func (s *ServiceSuite) TestSaveTeam() {
	alice := s.member("alice")
	squad := s.golferIDs(6)
	captain := squad[2]

	team, err := s.teams.SaveTeam(s.ctx, alice, TeamInput{GolferIDs: squad, CaptainID: &captain})
	s.Require().NoError(err)
	s.Equal(int64(6*3_500_000), team.TotalSpent)
	s.True(team.IsActive)
	s.True(team.HasGolfer(captain.String()))

	got, err := s.teams.GetActiveTeam(s.ctx, alice.ID)
	s.Require().NoError(err)
	s.Equal(team.ID, got.ID)
	s.Require().NotNil(got.User)
	s.Equal("alice", got.User.Username)
}

func (s *ServiceSuite) TestSaveTeamReplacesPreviousTeam() {
	alice := s.member("alice")
	first, err := s.teams.SaveTeam(s.ctx, alice, TeamInput{GolferIDs: s.golferIDs(6)})
	s.Require().NoError(err)

	alice.Username = "alice_g"
	second, err := s.teams.SaveTeam(s.ctx, alice, TeamInput{GolferIDs: s.golferIDs(8)[2:]})
	s.Require().NoError(err)

	var active []models.Team
	s.Require().NoError(s.db.Where("user_id = ? AND is_active = ?", alice.ID, true).Find(&active).Error)
	s.Require().Len(active, 1)
	s.Equal(second.ID, active[0].ID)
	s.NotEqual(first.ID, second.ID)

	var user models.User
	s.Require().NoError(s.db.First(&user, "id = ?", alice.ID).Error)
	s.Equal("alice_g", user.Username)
}

func (s *ServiceSuite) TestSaveTeamRules() {
	outsider := s.golfers[7].ID
	dup := s.golferIDs(6)
	dup[5] = dup[0]

	s.Require().NoError(s.db.Model(&models.Golfer{}).Where("id = ?", s.golfers[5].ID).Update("is_active", false).Error)

	tests := []struct {
		name    string
		input   TeamInput
		code    string
		message string
	}{
		{
			name:    "too few golfers",
			input:   TeamInput{GolferIDs: s.golferIDs(5)},
			code:    utils.ErrCodeInvalidTeam,
			message: "exactly 6 golfers",
		},
		{
			name:    "duplicate golfer",
			input:   TeamInput{GolferIDs: dup},
			code:    utils.ErrCodeInvalidTeam,
			message: "only be picked once",
		},
		{
			name:    "inactive golfer",
			input:   TeamInput{GolferIDs: s.golferIDs(6)},
			code:    utils.ErrCodeInvalidTeam,
			message: "not available",
		},
	}

	for _, tt := range tests {
		s.Run(tt.name, func() {
			_, err := s.teams.SaveTeam(s.ctx, s.member("bob"), tt.input)
			var appErr *utils.AppError
			s.Require().ErrorAs(err, &appErr)
			s.Equal(tt.code, appErr.Code)
			s.Contains(appErr.Message, tt.message)
		})
	}

	squad := append(s.golferIDs(5), s.golfers[6].ID)
	_, err := s.teams.SaveTeam(s.ctx, s.member("carol"), TeamInput{GolferIDs: squad, CaptainID: &outsider})
	var appErr *utils.AppError
	s.Require().ErrorAs(err, &appErr)
	s.Contains(appErr.Message, "captain")
}

func (s *ServiceSuite) TestSaveTeamBudget() {
	s.Require().NoError(s.db.Model(&models.Golfer{}).Where("id IN ?", s.golferIDs(6)).Update("price", 14_500_000).Error)

	tight := NewTeamService(s.db, s.seasons, s.cache, 50_000_000, 6, s.logger)

	team, err := tight.SaveTeam(s.ctx, s.member("dave"), TeamInput{GolferIDs: s.golferIDs(6)})
	s.Nil(team)
	var appErr *utils.AppError
	s.Require().ErrorAs(err, &appErr)
	s.Equal(utils.ErrCodeBudgetExceeded, appErr.Code)
	s.Equal("Team costs £87.0M, over the £50.0M budget", appErr.Message)

	_, err = s.teams.SaveTeam(s.ctx, s.member("erin"), TeamInput{GolferIDs: s.golferIDs(6)})
	s.NoError(err)

	_, err = s.teams.GetActiveTeam(s.ctx, uuid.New())
	s.ErrorIs(err, utils.ErrNotFound)
}
