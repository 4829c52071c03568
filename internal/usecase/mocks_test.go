package usecase_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/rivr-station-service/internal/domain"
	"github.com/rivr-station-service/internal/domain/repository"
	"github.com/rivr-station-service/internal/repository/sqldb"
	"github.com/rivr-station-service/internal/repository/sqldb/testhelpers"
)

// MockStationCacheRepository is a mock of StationCacheRepository
type MockStationCacheRepository struct {
	mock.Mock
}

func (m *MockStationCacheRepository) Get(ctx context.Context, stationID int64) (*domain.CachedStationPayload, error) {
	args := m.Called(ctx, stationID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CachedStationPayload), args.Error(1)
}

func (m *MockStationCacheRepository) Put(ctx context.Context, payload *domain.CachedStationPayload) error {
	args := m.Called(ctx, payload)
	return args.Error(0)
}

func (m *MockStationCacheRepository) Delete(ctx context.Context, stationID int64) error {
	args := m.Called(ctx, stationID)
	return args.Error(0)
}

// MockRiverAPIRepository is a mock of RiverAPIRepository
type MockRiverAPIRepository struct {
	mock.Mock
}

func (m *MockRiverAPIRepository) FetchStation(ctx context.Context, stationID int64) (*domain.StationAPIData, error) {
	args := m.Called(ctx, stationID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.StationAPIData), args.Error(1)
}

// MockNameRepository is a mock of NameRepository
type MockNameRepository struct {
	mock.Mock
}

func (m *MockNameRepository) GetNameInfo(ctx context.Context, stationID int64) (*domain.NameInfo, error) {
	args := m.Called(ctx, stationID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.NameInfo), args.Error(1)
}

func (m *MockNameRepository) PutNameInfo(ctx context.Context, info *domain.NameInfo) error {
	args := m.Called(ctx, info)
	return args.Error(0)
}

// MockFavoriteRepository is a mock of FavoriteRepository
type MockFavoriteRepository struct {
	mock.Mock
}

func (m *MockFavoriteRepository) Upsert(ctx context.Context, fav *domain.FavoriteEntry) error {
	args := m.Called(ctx, fav)
	return args.Error(0)
}

func (m *MockFavoriteRepository) Get(ctx context.Context, userID string, stationID int64) (*domain.FavoriteEntry, error) {
	args := m.Called(ctx, userID, stationID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.FavoriteEntry), args.Error(1)
}

func (m *MockFavoriteRepository) ListByUser(ctx context.Context, userID string) ([]domain.FavoriteEntry, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.FavoriteEntry), args.Error(1)
}

func (m *MockFavoriteRepository) Delete(ctx context.Context, userID string, stationID int64) (bool, error) {
	args := m.Called(ctx, userID, stationID)
	return args.Bool(0), args.Error(1)
}

// MockEventPublisher is a mock of EventPublisher
type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) PublishToStream(ctx context.Context, stream string, data interface{}) error {
	args := m.Called(ctx, stream, data)
	return args.Error(0)
}

// sqliteRepos - настоящие репозитории поверх SQLite в памяти
type sqliteRepos struct {
	cache     repository.StationCacheRepository
	names     repository.NameRepository
	favorites repository.FavoriteRepository
}

func newSQLiteRepos(t *testing.T) sqliteRepos {
	t.Helper()
	tdb := testhelpers.SetupTestDB(t)
	t.Cleanup(tdb.Close)
	require.NoError(t, tdb.Cleanup(context.Background()))

	return sqliteRepos{
		cache:     sqldb.NewStationCacheRepository(tdb.DB),
		names:     sqldb.NewNameRepository(tdb.DB),
		favorites: sqldb.NewFavoriteRepository(tdb.DB),
	}
}

func strPtr(s string) *string { return &s }

func floatPtr(f float64) *float64 { return &f }

func intPtr(i int) *int { return &i }
