package usecase_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
	"go.uber.org/zap"

	"github.com/rivr-station-service/internal/domain"
	"github.com/rivr-station-service/internal/usecase"
)

// StationScenarioSuite прогоняет путь пользователя поверх настоящего SQLite хранилища
type StationScenarioSuite struct {
	suite.Suite
	ctx      context.Context
	riverAPI *MockRiverAPIRepository
	stations *usecase.StationDataUseCase
	names    *usecase.DisplayNameUseCase
}

func (s *StationScenarioSuite) SetupTest() {
	s.ctx = context.Background()
	repos := newSQLiteRepos(s.T())
	s.riverAPI = new(MockRiverAPIRepository)
	s.stations = usecase.NewStationDataUseCase(repos.cache, s.riverAPI, nil, zap.NewNop(), 0, true)
	s.names = usecase.NewDisplayNameUseCase(repos.names, zap.NewNop())
}

func (s *StationScenarioSuite) TestCustomNameLifecycle() {
	s.riverAPI.On("FetchStation", mock.Anything, int64(500)).
		Return(&domain.StationAPIData{Name: strPtr("Provo River"), Class: strPtr("II")}, nil).Once()

	first, err := s.stations.FetchStationData(s.ctx, 500)
	s.Require().NoError(err)
	s.Equal(domain.FromNetwork, first.Provenance)
	s.Equal("Provo River", first.APIData.APIName())
	s.Equal("II", *first.APIData.Class)

	second, err := s.stations.FetchStationData(s.ctx, 500)
	s.Require().NoError(err)
	s.Equal(domain.FromCache, second.Provenance)

	name, err := s.names.ResolveDisplayName(s.ctx, 500, first.APIData.APIName(), "")
	s.Require().NoError(err)
	s.Equal("Provo River", name.DisplayName)
	s.False(name.IsCustom)

	_, err = s.names.SetCustomDisplayName(s.ctx, 500, "My Spot")
	s.Require().NoError(err)

	for i := 0; i < 2; i++ {
		name, err = s.names.ResolveDisplayName(s.ctx, 500, "Provo River", "")
		s.Require().NoError(err)
		s.Equal("My Spot", name.DisplayName)
		s.True(name.IsCustom)
	}

	reset, err := s.names.ResetToOriginalName(s.ctx, 500)
	s.Require().NoError(err)
	s.Equal("Provo River", reset.DisplayName)
	s.False(reset.IsCustom)

	s.riverAPI.AssertNumberOfCalls(s.T(), "FetchStation", 1)
}

func TestStationScenarioSuite(t *testing.T) {
	suite.Run(t, new(StationScenarioSuite))
}
