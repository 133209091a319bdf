package players

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/mcoot/connectfour/internal/model"
	"github.com/mcoot/connectfour/internal/storage/memory"
	"github.com/mcoot/connectfour/internal/testutil"
)

type ServiceSuite struct {
	suite.Suite
	storage *memory.Storage
	service *Service
	ctx     context.Context
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) SetupTest() {
	s.storage = memory.New()
	s.service = New(s.storage, testutil.NopLogger())
	s.ctx = context.Background()
}

func (s *ServiceSuite) TestRegisterTrimsAndZeroesCounters() {
	p, err := s.service.Register(s.ctx, "  Ana ", " 111 ")
	s.Require().NoError(err)
	s.Equal("Ana", p.Name)
	s.Equal(model.PlayerIdentity("111"), p.Identity)

	stored, err := s.service.Get(s.ctx, "Ana")
	s.Require().NoError(err)
	s.Equal(model.PlayerStats{}, stored.Stats())
}

func (s *ServiceSuite) TestRegisterBlankFieldsFailValidation() {
	tests := []struct {
		name, identity, field string
	}{
		{"", "111", "nombre"},
		{"   ", "111", "nombre"},
		{"Ana", "", "identificacion"},
		{"Ana", "\t", "identificacion"},
	}
	for _, tt := range tests {
		_, err := s.service.Register(s.ctx, tt.name, tt.identity)
		var ve *model.ValidationError
		s.Require().ErrorAs(err, &ve)
		s.Equal(tt.field, ve.Field)
	}

	players, err := s.service.Leaderboard(s.ctx)
	s.Require().NoError(err)
	s.Empty(players)
}

func (s *ServiceSuite) TestRegisterSameNameDifferentCaseIsDuplicate() {
	_, err := s.service.Register(s.ctx, "Ana", "111")
	s.Require().NoError(err)

	_, err = s.service.Register(s.ctx, "aNA", "999")
	s.ErrorIs(err, model.ErrDuplicatePlayer)
}

func (s *ServiceSuite) TestRegisterSameIdentityIsDuplicate() {
	_, err := s.service.Register(s.ctx, "Ana", "111")
	s.Require().NoError(err)

	_, err = s.service.Register(s.ctx, "Beto", "111")
	s.ErrorIs(err, model.ErrDuplicatePlayer)
}

func (s *ServiceSuite) TestStats() {
	_, err := s.service.Register(s.ctx, "Ana", "111")
	s.Require().NoError(err)
	_, err = s.service.Register(s.ctx, "Beto", "222")
	s.Require().NoError(err)
	s.Require().NoError(s.storage.ApplyWin(s.ctx, "Ana", "Beto"))

	stats, err := s.service.Stats(s.ctx, "Ana")
	s.Require().NoError(err)
	s.Equal(model.PlayerStats{Score: 1, Wins: 1}, stats)

	_, err = s.service.Stats(s.ctx, "Carla")
	s.ErrorIs(err, model.ErrPlayerNotFound)

	_, err = s.service.Stats(s.ctx, "")
	s.True(model.IsValidation(err))
}

func (s *ServiceSuite) TestLeaderboardOrder() {
	for _, p := range []struct{ name, id string }{{"beto", "2"}, {"Ana", "1"}, {"Carla", "3"}} {
		_, err := s.service.Register(s.ctx, p.name, p.id)
		s.Require().NoError(err)
	}
	s.Require().NoError(s.storage.ApplyWin(s.ctx, "Carla", "Ana"))

	players, err := s.service.Leaderboard(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(players, 3)

	s.Equal("Carla", players[0].Name)
	s.Equal("beto", players[1].Name)
	s.Equal("Ana", players[2].Name)
}
