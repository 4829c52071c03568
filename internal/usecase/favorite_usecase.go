package usecase

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/rivr-station-service/internal/domain"
	"github.com/rivr-station-service/internal/domain/repository"
	"github.com/rivr-station-service/internal/pkg/errors"
	"github.com/rivr-station-service/internal/pkg/validator"
	"github.com/rivr-station-service/internal/usecase/dto"
)

// FavoriteUseCase - избранные станции пользователя
type FavoriteUseCase struct {
	favoriteRepo repository.FavoriteRepository
	names        *DisplayNameUseCase
	publisher    repository.EventPublisher
	logger       *zap.Logger
	now          func() time.Time
}

// NewFavoriteUseCase - создание нового FavoriteUseCase.
// publisher может быть nil: тогда прогрев кеша не запрашивается.
func NewFavoriteUseCase(
	favoriteRepo repository.FavoriteRepository,
	names *DisplayNameUseCase,
	publisher repository.EventPublisher,
	logger *zap.Logger,
) *FavoriteUseCase {
	return &FavoriteUseCase{
		favoriteRepo: favoriteRepo,
		names:        names,
		publisher:    publisher,
		logger:       logger,
		now:          time.Now,
	}
}

// AddFavorite - добавление станции в избранное со снимком текущего имени
func (uc *FavoriteUseCase) AddFavorite(ctx context.Context, userID string, req dto.AddFavoriteRequest) (*domain.FavoriteEntry, error) {
	userID, err := normalizeUserID(userID)
	if err != nil {
		return nil, err
	}
	if err := validator.ValidateRequest(req); err != nil {
		return nil, err
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		resolved, err := uc.names.ResolveDisplayName(ctx, req.StationID, req.APIName, req.InlineName)
		if err != nil {
			return nil, err
		}
		name = resolved.DisplayName
	}

	fav := &domain.FavoriteEntry{
		UserID:      userID,
		StationID:   req.StationID,
		Name:        name,
		Description: normalizeOptional(req.Description),
		Color:       normalizeOptional(req.Color),
		ImgNumber:   req.ImgNumber,
		LastUpdated: uc.now().UTC(),
	}

	if err := uc.favoriteRepo.Upsert(ctx, fav); err != nil {
		uc.logger.Error("Failed to add favorite",
			zap.String("user_id", userID),
			zap.Int64("station_id", req.StationID),
			zap.Error(err))
		return nil, errors.ErrDatabaseError.Wrap(err)
	}

	uc.requestPrefetch(ctx, fav)

	return fav, nil
}

// ListFavorites - избранное пользователя, свежие изменения первыми
func (uc *FavoriteUseCase) ListFavorites(ctx context.Context, userID string) ([]domain.FavoriteEntry, error) {
	userID, err := normalizeUserID(userID)
	if err != nil {
		return nil, err
	}

	favorites, err := uc.favoriteRepo.ListByUser(ctx, userID)
	if err != nil {
		uc.logger.Error("Failed to list favorites", zap.String("user_id", userID), zap.Error(err))
		return nil, errors.ErrDatabaseError.Wrap(err)
	}
	return favorites, nil
}

// RenameFavorite - переименование избранной станции
func (uc *FavoriteUseCase) RenameFavorite(ctx context.Context, userID string, stationID int64, name string) (*domain.FavoriteEntry, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, errors.ErrInvalidName
	}
	if err := validator.ValidateRequest(dto.RenameFavoriteRequest{Name: name}); err != nil {
		return nil, err
	}

	return uc.mutate(ctx, userID, stationID, func(fav *domain.FavoriteEntry) {
		fav.Name = name
	})
}

// UpdateFavorite - изменение заметки, цвета и картинки
func (uc *FavoriteUseCase) UpdateFavorite(ctx context.Context, userID string, stationID int64, req dto.UpdateFavoriteRequest) (*domain.FavoriteEntry, error) {
	if err := validator.ValidateRequest(req); err != nil {
		return nil, err
	}

	return uc.mutate(ctx, userID, stationID, func(fav *domain.FavoriteEntry) {
		if req.Description != nil {
			fav.Description = normalizeOptional(req.Description)
		}
		if req.Color != nil {
			fav.Color = normalizeOptional(req.Color)
		}
		if req.ImgNumber != nil {
			fav.ImgNumber = req.ImgNumber
		}
	})
}

// RemoveFavorite - удаление из избранного
func (uc *FavoriteUseCase) RemoveFavorite(ctx context.Context, userID string, stationID int64) error {
	userID, err := normalizeUserID(userID)
	if err != nil {
		return err
	}
	if stationID <= 0 {
		return errors.ErrInvalidStationID
	}

	deleted, err := uc.favoriteRepo.Delete(ctx, userID, stationID)
	if err != nil {
		return errors.ErrDatabaseError.Wrap(err)
	}
	if !deleted {
		return errors.ErrFavoriteNotFound
	}
	return nil
}

func (uc *FavoriteUseCase) mutate(ctx context.Context, userID string, stationID int64, apply func(*domain.FavoriteEntry)) (*domain.FavoriteEntry, error) {
	userID, err := normalizeUserID(userID)
	if err != nil {
		return nil, err
	}
	if stationID <= 0 {
		return nil, errors.ErrInvalidStationID
	}

	fav, err := uc.favoriteRepo.Get(ctx, userID, stationID)
	if err != nil {
		return nil, errors.ErrDatabaseError.Wrap(err)
	}
	if fav == nil {
		return nil, errors.ErrFavoriteNotFound
	}

	apply(fav)
	fav.LastUpdated = uc.now().UTC()

	if err := uc.favoriteRepo.Upsert(ctx, fav); err != nil {
		return nil, errors.ErrDatabaseError.Wrap(err)
	}
	return fav, nil
}

// requestPrefetch просит воркер прогреть кеш; ошибка публикации не критична
func (uc *FavoriteUseCase) requestPrefetch(ctx context.Context, fav *domain.FavoriteEntry) {
	if uc.publisher == nil {
		return
	}

	event := domain.NewStationRefreshEvent(fav.StationID, fav.UserID, domain.RefreshReasonFavoriteAdded)
	if err := uc.publisher.PublishToStream(ctx, domain.StreamStationRefresh, event); err != nil {
		uc.logger.Warn("Failed to request station prefetch",
			zap.Int64("station_id", fav.StationID),
			zap.Error(err))
	}
}

func normalizeUserID(userID string) (string, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return "", errors.ErrInvalidUser
	}
	return userID, nil
}

func normalizeOptional(v *string) *string {
	if v == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*v)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
