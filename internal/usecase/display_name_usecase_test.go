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
	"github.com/rivr-station-service/internal/usecase/dto"
)

func TestDisplayNameUseCase_ResolutionPriority(t *testing.T) {
	ctx := context.Background()
	repos := newSQLiteRepos(t)
	uc := usecase.NewDisplayNameUseCase(repos.names, zap.NewNop())
	const id = int64(12345)

	// первое знакомство записывает имя из API
	_, err := uc.ResolveDisplayName(ctx, id, "Bear Creek", "Creek A")
	require.NoError(t, err)
	_, err = uc.SetCustomDisplayName(ctx, id, "Secret Falls")
	require.NoError(t, err)

	name, err := uc.ResolveDisplayName(ctx, id, "Bear Creek", "Creek A")
	require.NoError(t, err)
	assert.Equal(t, "Secret Falls", name.DisplayName)
	assert.True(t, name.IsCustom)
	assert.Equal(t, dto.NameSourceCustom, name.Source)

	// без пользовательского имени
	_, err = uc.ResetToOriginalName(ctx, id)
	require.NoError(t, err)
	name, err = uc.ResolveDisplayName(ctx, id, "Bear Creek", "Creek A")
	require.NoError(t, err)
	assert.Equal(t, "Bear Creek", name.DisplayName)
	assert.False(t, name.IsCustom)
	assert.Equal(t, dto.NameSourceAPI, name.Source)

	// без имени из API
	name, err = uc.ResolveDisplayName(ctx, id, "", "Creek A")
	require.NoError(t, err)
	assert.Equal(t, "Creek A", name.DisplayName)
	assert.False(t, name.IsCustom)
	assert.Equal(t, dto.NameSourceInline, name.Source)

	// ничего нет
	name, err = uc.ResolveDisplayName(ctx, id, "", "")
	require.NoError(t, err)
	assert.Equal(t, "Stream 12345", name.DisplayName)
	assert.Equal(t, dto.NameSourceFallback, name.Source)
}

func TestDisplayNameUseCase_FirstEncounter(t *testing.T) {
	ctx := context.Background()
	repos := newSQLiteRepos(t)
	uc := usecase.NewDisplayNameUseCase(repos.names, zap.NewNop())

	t.Run("fallback for unknown station", func(t *testing.T) {
		name, err := uc.ResolveDisplayName(ctx, 99, "   ", "  ")
		require.NoError(t, err)
		assert.Equal(t, "Stream 99", name.DisplayName)

		stored, err := repos.names.GetNameInfo(ctx, 99)
		require.NoError(t, err)
		require.NotNil(t, stored)
		assert.Equal(t, "Stream 99", stored.DisplayName)
		assert.Empty(t, stored.OriginalAPIName)
	})

	t.Run("api name is trimmed and recorded", func(t *testing.T) {
		name, err := uc.ResolveDisplayName(ctx, 100, "  Lochsa  ", "")
		require.NoError(t, err)
		assert.Equal(t, "Lochsa", name.DisplayName)
		assert.Equal(t, "Lochsa", name.OriginalAPIName)

		stored, err := repos.names.GetNameInfo(ctx, 100)
		require.NoError(t, err)
		assert.Equal(t, "Lochsa", stored.OriginalAPIName)
		assert.Equal(t, "Lochsa", stored.DisplayName)
	})

	t.Run("inline name seen before api name", func(t *testing.T) {
		name, err := uc.ResolveDisplayName(ctx, 101, "", "Map label")
		require.NoError(t, err)
		assert.Equal(t, "Map label", name.DisplayName)

		// имя из API ещё не редактировалось пользователем, поэтому побеждает
		name, err = uc.ResolveDisplayName(ctx, 101, "Selway", "Map label")
		require.NoError(t, err)
		assert.Equal(t, "Selway", name.DisplayName)
		assert.False(t, name.IsCustom)
	})
}

func TestDisplayNameUseCase_WriteThroughUnderCustomName(t *testing.T) {
	ctx := context.Background()
	repos := newSQLiteRepos(t)
	uc := usecase.NewDisplayNameUseCase(repos.names, zap.NewNop())

	_, err := uc.ResolveDisplayName(ctx, 1, "Bear Creek", "")
	require.NoError(t, err)
	_, err = uc.SetCustomDisplayName(ctx, 1, "Secret Falls")
	require.NoError(t, err)

	name, err := uc.ResolveDisplayName(ctx, 1, "Bear Creek (Upper)", "")
	require.NoError(t, err)
	assert.Equal(t, "Secret Falls", name.DisplayName)
	assert.Equal(t, "Bear Creek (Upper)", name.OriginalAPIName)

	reset, err := uc.ResetToOriginalName(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "Bear Creek (Upper)", reset.DisplayName)
	assert.False(t, reset.IsCustom)
}

func TestDisplayNameUseCase_EditWithoutKnownAPIName(t *testing.T) {
	ctx := context.Background()
	repos := newSQLiteRepos(t)
	uc := usecase.NewDisplayNameUseCase(repos.names, zap.NewNop())

	_, err := uc.SetCustomDisplayName(ctx, 3, "Put-in bridge")
	require.NoError(t, err)

	name, err := uc.ResolveDisplayName(ctx, 3, "", "Map label")
	require.NoError(t, err)
	assert.Equal(t, "Put-in bridge", name.DisplayName)
	assert.Equal(t, dto.NameSourceCustom, name.Source)

	_, err = uc.ResetToOriginalName(ctx, 3)
	assert.ErrorIs(t, err, errors.ErrNoOriginalName)
}

func TestDisplayNameUseCase_SetCustomDisplayName_RejectsBlank(t *testing.T) {
	ctx := context.Background()
	nameRepo := new(MockNameRepository)
	uc := usecase.NewDisplayNameUseCase(nameRepo, zap.NewNop())

	for _, input := range []string{"", "   ", "\t\n"} {
		_, err := uc.SetCustomDisplayName(ctx, 12345, input)
		assert.ErrorIs(t, err, errors.ErrInvalidName, "input %q", input)
	}

	nameRepo.AssertNotCalled(t, "GetNameInfo", mock.Anything, mock.Anything)
	nameRepo.AssertNotCalled(t, "PutNameInfo", mock.Anything, mock.Anything)
}

func TestDisplayNameUseCase_SetCustomDisplayName_Stored(t *testing.T) {
	ctx := context.Background()
	nameRepo := new(MockNameRepository)
	uc := usecase.NewDisplayNameUseCase(nameRepo, zap.NewNop())

	nameRepo.On("GetNameInfo", ctx, int64(5)).Return(&domain.NameInfo{
		StationID: 5, DisplayName: "Bear Creek", OriginalAPIName: "Bear Creek",
	}, nil)
	nameRepo.On("PutNameInfo", ctx, mock.MatchedBy(func(info *domain.NameInfo) bool {
		return info.DisplayName == "My Spot" && info.OriginalAPIName == "Bear Creek" && info.EditedAt != nil
	})).Return(nil).Once()

	name, err := uc.SetCustomDisplayName(ctx, 5, "  My Spot ")

	require.NoError(t, err)
	assert.Equal(t, "My Spot", name.DisplayName)
	assert.True(t, name.IsCustom)
	nameRepo.AssertExpectations(t)
}

func TestDisplayNameUseCase_ResetToOriginalName(t *testing.T) {
	ctx := context.Background()

	t.Run("idempotent", func(t *testing.T) {
		repos := newSQLiteRepos(t)
		uc := usecase.NewDisplayNameUseCase(repos.names, zap.NewNop())

		_, err := uc.ResolveDisplayName(ctx, 8, "Bear Creek", "")
		require.NoError(t, err)
		_, err = uc.SetCustomDisplayName(ctx, 8, "Secret Falls")
		require.NoError(t, err)

		first, err := uc.ResetToOriginalName(ctx, 8)
		require.NoError(t, err)
		second, err := uc.ResetToOriginalName(ctx, 8)
		require.NoError(t, err)

		assert.Equal(t, "Bear Creek", first.DisplayName)
		assert.Equal(t, first.DisplayName, second.DisplayName)
		assert.Nil(t, second.EditedAt)
	})

	t.Run("no original name recorded", func(t *testing.T) {
		nameRepo := new(MockNameRepository)
		uc := usecase.NewDisplayNameUseCase(nameRepo, zap.NewNop())

		nameRepo.On("GetNameInfo", ctx, int64(1)).Return(nil, nil)
		nameRepo.On("GetNameInfo", ctx, int64(2)).Return(&domain.NameInfo{StationID: 2, DisplayName: "Stream 2"}, nil)

		_, err := uc.ResetToOriginalName(ctx, 1)
		assert.ErrorIs(t, err, errors.ErrNoOriginalName)
		_, err = uc.ResetToOriginalName(ctx, 2)
		assert.ErrorIs(t, err, errors.ErrNoOriginalName)
		nameRepo.AssertNotCalled(t, "PutNameInfo", mock.Anything, mock.Anything)
	})

	t.Run("store failure", func(t *testing.T) {
		nameRepo := new(MockNameRepository)
		uc := usecase.NewDisplayNameUseCase(nameRepo, zap.NewNop())
		nameRepo.On("GetNameInfo", ctx, int64(1)).Return(nil, assert.AnError)

		_, err := uc.ResetToOriginalName(ctx, 1)
		assert.ErrorIs(t, err, errors.ErrDatabaseError)
		assert.ErrorIs(t, err, assert.AnError)
	})
}

func TestDisplayNameUseCase_ResolveDisplayName_NoRedundantWrites(t *testing.T) {
	ctx := context.Background()
	nameRepo := new(MockNameRepository)
	uc := usecase.NewDisplayNameUseCase(nameRepo, zap.NewNop())

	nameRepo.On("GetNameInfo", ctx, int64(6)).Return(&domain.NameInfo{
		StationID: 6, DisplayName: "Bear Creek", OriginalAPIName: "Bear Creek",
	}, nil)

	name, err := uc.ResolveDisplayName(ctx, 6, "Bear Creek", "inline")

	require.NoError(t, err)
	assert.Equal(t, "Bear Creek", name.DisplayName)
	nameRepo.AssertNotCalled(t, "PutNameInfo", mock.Anything, mock.Anything)
}

func TestDisplayNameUseCase_ResolveDisplayName_StoreUnavailable(t *testing.T) {
	ctx := context.Background()
	nameRepo := new(MockNameRepository)
	uc := usecase.NewDisplayNameUseCase(nameRepo, zap.NewNop())

	nameRepo.On("GetNameInfo", ctx, int64(6)).Return(nil, assert.AnError)

	name, err := uc.ResolveDisplayName(ctx, 6, "Bear Creek", "")

	require.NoError(t, err)
	assert.Equal(t, "Bear Creek", name.DisplayName)
	nameRepo.AssertNotCalled(t, "PutNameInfo", mock.Anything, mock.Anything)
}

func TestDisplayNameUseCase_GetNameInfo(t *testing.T) {
	ctx := context.Background()
	nameRepo := new(MockNameRepository)
	uc := usecase.NewDisplayNameUseCase(nameRepo, zap.NewNop())

	nameRepo.On("GetNameInfo", ctx, int64(1)).Return(nil, nil)
	nameRepo.On("GetNameInfo", ctx, int64(2)).Return(&domain.NameInfo{
		StationID: 2, DisplayName: "Secret Falls", OriginalAPIName: "Bear Creek",
	}, nil)

	_, err := uc.GetNameInfo(ctx, 1)
	assert.ErrorIs(t, err, errors.ErrNameNotFound)

	info, err := uc.GetNameInfo(ctx, 2)
	require.NoError(t, err)
	assert.True(t, info.IsCustom)

	_, err = uc.GetNameInfo(ctx, 0)
	assert.ErrorIs(t, err, errors.ErrInvalidStationID)
}
