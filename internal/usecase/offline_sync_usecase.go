package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/rivr-station-service/internal/domain"
	"github.com/rivr-station-service/internal/domain/repository"
	"github.com/rivr-station-service/internal/pkg/errors"
	"github.com/rivr-station-service/internal/usecase/dto"
)

// OfflineSyncUseCase - прогрев локального хранилища для работы без сети
type OfflineSyncUseCase struct {
	stations     *StationDataUseCase
	favoriteRepo repository.FavoriteRepository
	publisher    repository.EventPublisher
	logger       *zap.Logger
	retryDelay   time.Duration
}

// NewOfflineSyncUseCase - создание нового OfflineSyncUseCase
func NewOfflineSyncUseCase(
	stations *StationDataUseCase,
	favoriteRepo repository.FavoriteRepository,
	publisher repository.EventPublisher,
	logger *zap.Logger,
	retryDelay time.Duration,
) *OfflineSyncUseCase {
	return &OfflineSyncUseCase{
		stations:     stations,
		favoriteRepo: favoriteRepo,
		publisher:    publisher,
		logger:       logger,
		retryDelay:   retryDelay,
	}
}

// RefreshStation обновляет payload из сети. Сетевая ошибка повторяется
// ровно один раз после retryDelay; второй флаг сообщает, был ли повтор.
func (uc *OfflineSyncUseCase) RefreshStation(ctx context.Context, stationID int64) (*dto.StationDataResult, bool, error) {
	result, err := uc.stations.RefreshStationData(ctx, stationID)
	if err == nil || !errors.IsNetwork(err) {
		return result, false, err
	}

	uc.logger.Info("Station refresh failed, retrying once",
		zap.Int64("station_id", stationID),
		zap.Duration("delay", uc.retryDelay),
		zap.Error(err))

	timer := time.NewTimer(uc.retryDelay)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return nil, false, ctx.Err()
	case <-timer.C:
	}

	result, err = uc.stations.RefreshStationData(ctx, stationID)
	return result, true, err
}

// SyncUserFavorites обновляет все избранные станции пользователя по очереди
func (uc *OfflineSyncUseCase) SyncUserFavorites(ctx context.Context, userID string) (*dto.SyncSummary, error) {
	userID, err := normalizeUserID(userID)
	if err != nil {
		return nil, err
	}

	favorites, err := uc.favoriteRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, errors.ErrDatabaseError.Wrap(err)
	}

	summary := &dto.SyncSummary{
		UserID:  userID,
		Total:   len(favorites),
		Results: make([]dto.SyncOutcome, 0, len(favorites)),
	}

	for _, fav := range favorites {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		outcome := dto.SyncOutcome{StationID: fav.StationID}
		_, retried, err := uc.RefreshStation(ctx, fav.StationID)
		outcome.Retried = retried
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return nil, ctxErr
			}
			outcome.ErrorCode = errorCode(err)
			summary.Failed++
		} else {
			outcome.Success = true
			summary.Succeeded++
		}
		summary.Results = append(summary.Results, outcome)
	}

	uc.logger.Info("User favorites synced",
		zap.String("user_id", userID),
		zap.Int("total", summary.Total),
		zap.Int("succeeded", summary.Succeeded),
		zap.Int("failed", summary.Failed))

	return summary, nil
}

// EnqueueUserFavorites ставит прогрев избранного в очередь воркера
func (uc *OfflineSyncUseCase) EnqueueUserFavorites(ctx context.Context, userID string) (*dto.SyncEnqueuedResponse, error) {
	userID, err := normalizeUserID(userID)
	if err != nil {
		return nil, err
	}
	if uc.publisher == nil {
		return nil, errors.ErrInternalServer.WithDetails(map[string]interface{}{
			"reason": "background sync is not configured",
		})
	}

	favorites, err := uc.favoriteRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, errors.ErrDatabaseError.Wrap(err)
	}

	resp := &dto.SyncEnqueuedResponse{
		UserID:     userID,
		RequestIDs: make([]uuid.UUID, 0, len(favorites)),
	}
	for _, fav := range favorites {
		event := domain.NewStationRefreshEvent(fav.StationID, userID, domain.RefreshReasonUserSync)
		if err := uc.publisher.PublishToStream(ctx, domain.StreamStationRefresh, event); err != nil {
			return nil, errors.ErrCacheError.Wrap(err)
		}
		resp.RequestIDs = append(resp.RequestIDs, event.RequestID)
	}
	resp.Enqueued = len(resp.RequestIDs)

	return resp, nil
}

func errorCode(err error) string {
	if appErr, ok := errors.As(err); ok {
		return appErr.Code
	}
	return errors.ErrInternalServer.Code
}
