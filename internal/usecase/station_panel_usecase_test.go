package usecase_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/rivr-station-service/internal/domain"
	"github.com/rivr-station-service/internal/pkg/errors"
	"github.com/rivr-station-service/internal/usecase"
)

type panelFixture struct {
	cacheRepo *MockStationCacheRepository
	riverAPI  *MockRiverAPIRepository
	nameRepo  *MockNameRepository
	uc        *usecase.StationPanelUseCase
}

func newPanelFixture() *panelFixture {
	f := &panelFixture{
		cacheRepo: new(MockStationCacheRepository),
		riverAPI:  new(MockRiverAPIRepository),
		nameRepo:  new(MockNameRepository),
	}
	stations := usecase.NewStationDataUseCase(f.cacheRepo, f.riverAPI, nil, zap.NewNop(), 0, false)
	names := usecase.NewDisplayNameUseCase(f.nameRepo, zap.NewNop())
	f.uc = usecase.NewStationPanelUseCase(stations, names, zap.NewNop())
	return f
}

func TestStationPanelUseCase_Load(t *testing.T) {
	ctx := context.Background()
	coords := &domain.Coordinates{Lat: 40.5, Lon: -111.4}

	t.Run("loaded from network", func(t *testing.T) {
		f := newPanelFixture()
		f.cacheRepo.On("Get", ctx, int64(500)).Return(nil, nil)
		f.riverAPI.On("FetchStation", ctx, int64(500)).Return(&domain.StationAPIData{
			Name:       strPtr("Provo River"),
			Class:      strPtr("II"),
			Difficulty: strPtr("moderate"),
		}, nil)
		f.cacheRepo.On("Put", ctx, mock.Anything).Return(nil)
		f.nameRepo.On("GetNameInfo", ctx, int64(500)).Return(nil, nil)
		f.nameRepo.On("PutNameInfo", ctx, mock.Anything).Return(nil)

		view, err := f.uc.Load(ctx, domain.StationRecord{StationID: 500, Coordinates: coords, InlineName: "Creek A"}, false)

		require.NoError(t, err)
		assert.Equal(t, domain.StatusLoaded, view.State.Status)
		assert.Equal(t, domain.FromNetwork, view.State.Provenance)
		assert.Equal(t, "Provo River", view.Name.DisplayName)
		assert.False(t, view.Name.IsCustom)
		assert.Equal(t, "II", *view.Class)
		assert.Equal(t, coords, view.Coordinates)
		assert.Nil(t, view.State.Error)
	})

	t.Run("connectivity failure keeps basic info", func(t *testing.T) {
		f := newPanelFixture()
		f.cacheRepo.On("Get", ctx, int64(7)).Return(nil, nil)
		f.riverAPI.On("FetchStation", ctx, int64(7)).Return(nil, errors.ErrNetworkUnavailable)
		f.nameRepo.On("GetNameInfo", ctx, int64(7)).Return(nil, nil)
		f.nameRepo.On("PutNameInfo", ctx, mock.Anything).Return(nil)

		view, err := f.uc.Load(ctx, domain.StationRecord{StationID: 7, Coordinates: coords, InlineName: "Creek A"}, false)

		require.NoError(t, err)
		assert.Equal(t, int64(7), view.StationID)
		assert.Equal(t, coords, view.Coordinates)
		assert.Equal(t, "Creek A", view.Name.DisplayName)
		require.Equal(t, domain.StatusFailed, view.State.Status)
		assert.Equal(t, "NETWORK_UNAVAILABLE", view.State.Error.Kind)
		assert.Equal(t, domain.BannerConnectivity, view.State.Error.Banner)
		assert.NotEmpty(t, view.State.Error.Suggestion)
		assert.True(t, view.State.Error.Retryable)
	})

	t.Run("server failure uses server banner and fallback name", func(t *testing.T) {
		f := newPanelFixture()
		f.cacheRepo.On("Get", ctx, int64(8)).Return(nil, nil)
		f.riverAPI.On("FetchStation", ctx, int64(8)).Return(nil, errors.ErrServerError.WithDetails(map[string]interface{}{"status": 500}))
		f.nameRepo.On("GetNameInfo", ctx, int64(8)).Return(nil, nil)
		f.nameRepo.On("PutNameInfo", ctx, mock.Anything).Return(nil)

		view, err := f.uc.Load(ctx, domain.StationRecord{StationID: 8}, false)

		require.NoError(t, err)
		assert.Equal(t, "Stream 8", view.Name.DisplayName)
		assert.Equal(t, domain.BannerServer, view.State.Error.Banner)
		assert.Equal(t, "SERVER_ERROR", view.State.Error.Kind)
	})

	t.Run("refresh goes to network and fills coordinates from payload", func(t *testing.T) {
		f := newPanelFixture()
		f.riverAPI.On("FetchStation", ctx, int64(9)).Return(&domain.StationAPIData{
			Name:      strPtr("Nine"),
			Latitude:  floatPtr(10),
			Longitude: floatPtr(20),
		}, nil)
		f.cacheRepo.On("Put", ctx, mock.Anything).Return(nil)
		f.nameRepo.On("GetNameInfo", ctx, int64(9)).Return(nil, nil)
		f.nameRepo.On("PutNameInfo", ctx, mock.Anything).Return(nil)

		view, err := f.uc.Load(ctx, domain.StationRecord{StationID: 9}, true)

		require.NoError(t, err)
		assert.Equal(t, domain.StatusLoaded, view.State.Status)
		assert.Equal(t, &domain.Coordinates{Lat: 10, Lon: 20}, view.Coordinates)
		f.cacheRepo.AssertNotCalled(t, "Get", mock.Anything, mock.Anything)
	})

	t.Run("caller gone discards result", func(t *testing.T) {
		f := newPanelFixture()
		cctx, cancel := context.WithCancel(ctx)
		f.cacheRepo.On("Get", cctx, int64(11)).Return(nil, nil)
		f.riverAPI.On("FetchStation", cctx, int64(11)).
			Run(func(mock.Arguments) { cancel() }).
			Return(&domain.StationAPIData{Name: strPtr("Eleven")}, nil)
		f.cacheRepo.On("Put", cctx, mock.Anything).Return(nil)

		view, err := f.uc.Load(cctx, domain.StationRecord{StationID: 11}, false)

		assert.Nil(t, view)
		assert.ErrorIs(t, err, usecase.ErrCallerGone)
		f.nameRepo.AssertNotCalled(t, "GetNameInfo", mock.Anything, mock.Anything)
	})

	t.Run("invalid input", func(t *testing.T) {
		f := newPanelFixture()

		_, err := f.uc.Load(ctx, domain.StationRecord{StationID: 0}, false)
		assert.ErrorIs(t, err, errors.ErrInvalidStationID)

		_, err = f.uc.Load(ctx, domain.StationRecord{StationID: 1, Coordinates: &domain.Coordinates{Lat: 91}}, false)
		assert.ErrorIs(t, err, errors.ErrInvalidCoordinates)
	})
}
