package usecase

import (
	"context"
	stderrors "errors"
	"strconv"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/rivr-station-service/internal/domain"
	"github.com/rivr-station-service/internal/domain/repository"
	"github.com/rivr-station-service/internal/pkg/errors"
	"github.com/rivr-station-service/internal/pkg/metrics"
	"github.com/rivr-station-service/internal/usecase/dto"
)

// StationDataUseCase - координатор кеша данных станций: локальное хранилище
// в приоритете, удалённый API только при промахе.
type StationDataUseCase struct {
	cacheRepo repository.StationCacheRepository
	riverAPI  repository.RiverAPIRepository
	metrics   *metrics.StationCacheMetrics
	logger    *zap.Logger

	maxAge   time.Duration
	coalesce bool
	inflight singleflight.Group
	now      func() time.Time
}

// NewStationDataUseCase - создание нового StationDataUseCase.
// maxAge == 0 отключает устаревание записей.
func NewStationDataUseCase(
	cacheRepo repository.StationCacheRepository,
	riverAPI repository.RiverAPIRepository,
	m *metrics.StationCacheMetrics,
	logger *zap.Logger,
	maxAge time.Duration,
	coalesce bool,
) *StationDataUseCase {
	if m == nil {
		m = metrics.NewStationCacheMetrics(nil)
	}
	return &StationDataUseCase{
		cacheRepo: cacheRepo,
		riverAPI:  riverAPI,
		metrics:   m,
		logger:    logger,
		maxAge:    maxAge,
		coalesce:  coalesce,
		now:       time.Now,
	}
}

// SetClock подменяет источник времени (тесты)
func (uc *StationDataUseCase) SetClock(now func() time.Time) {
	uc.now = now
}

// FetchStationData - данные станции: из хранилища, если есть, иначе из сети
func (uc *StationDataUseCase) FetchStationData(ctx context.Context, stationID int64) (*dto.StationDataResult, error) {
	if stationID <= 0 {
		return nil, errors.ErrInvalidStationID
	}

	cached := uc.lookup(ctx, stationID)
	if cached != nil && !cached.ExpiredAt(uc.now(), uc.maxAge) {
		uc.metrics.IncHit()
		return dto.NewStationDataResult(cached, domain.FromCache, false), nil
	}

	uc.metrics.IncMiss()
	payload, err := uc.fetchRemote(ctx, stationID)
	if err != nil {
		if cached != nil && errors.IsRemote(err) {
			// Запись устарела, но сеть недоступна: лучше старые данные, чем никаких
			uc.metrics.IncStaleServe()
			uc.logger.Info("Serving stale station payload",
				zap.Int64("station_id", stationID),
				zap.Time("cached_at", cached.CachedAt),
				zap.Error(err))
			return dto.NewStationDataResult(cached, domain.FromCache, true), nil
		}
		return nil, err
	}

	return dto.NewStationDataResult(payload, domain.FromNetwork, false), nil
}

// RefreshStationData - всегда идёт в сеть и перезаписывает хранилище при успехе
func (uc *StationDataUseCase) RefreshStationData(ctx context.Context, stationID int64) (*dto.StationDataResult, error) {
	if stationID <= 0 {
		return nil, errors.ErrInvalidStationID
	}

	payload, err := uc.fetchRemote(ctx, stationID)
	if err != nil {
		return nil, err
	}
	return dto.NewStationDataResult(payload, domain.FromNetwork, false), nil
}

// lookup возвращает пригодную запись или nil. Ошибки чтения и битые записи
// считаются промахом.
func (uc *StationDataUseCase) lookup(ctx context.Context, stationID int64) *domain.CachedStationPayload {
	cached, err := uc.cacheRepo.Get(ctx, stationID)
	if err != nil {
		if stderrors.Is(err, domain.ErrMalformedPayload) {
			uc.logger.Warn("Ignoring malformed cached payload",
				zap.Int64("station_id", stationID),
				zap.Error(err))
		} else {
			uc.logger.Error("Failed to read station cache",
				zap.Int64("station_id", stationID),
				zap.Error(err))
		}
		return nil
	}
	if cached == nil {
		return nil
	}
	if !cached.Valid() || cached.StationID != stationID {
		uc.logger.Warn("Ignoring invalid cached payload", zap.Int64("station_id", stationID))
		return nil
	}
	return cached
}

func (uc *StationDataUseCase) fetchRemote(ctx context.Context, stationID int64) (*domain.CachedStationPayload, error) {
	if !uc.coalesce {
		return uc.fetchAndStore(ctx, stationID)
	}

	// Общий запрос не зависит от отмены первого вызывающего;
	// его длительность ограничена таймаутом HTTP клиента
	shared := context.WithoutCancel(ctx)
	ch := uc.inflight.DoChan(strconv.FormatInt(stationID, 10), func() (interface{}, error) {
		return uc.fetchAndStore(shared, stationID)
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Shared {
			uc.metrics.IncCoalesced()
		}
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(*domain.CachedStationPayload), nil
	}
}

func (uc *StationDataUseCase) fetchAndStore(ctx context.Context, stationID int64) (*domain.CachedStationPayload, error) {
	data, err := uc.riverAPI.FetchStation(ctx, stationID)
	uc.metrics.ObserveFetch(fetchOutcome(err))
	if err != nil {
		uc.logger.Warn("Remote station fetch failed",
			zap.Int64("station_id", stationID),
			zap.Error(err))
		return nil, err
	}

	payload := &domain.CachedStationPayload{
		StationID: stationID,
		APIData:   *data,
		CachedAt:  uc.now().UTC(),
	}

	if err := uc.cacheRepo.Put(ctx, payload); err != nil {
		// Данные уже получены; следующая выборка просто снова пойдёт в сеть
		uc.logger.Error("Failed to persist station payload",
			zap.Int64("station_id", stationID),
			zap.Error(err))
	}

	return payload, nil
}

func fetchOutcome(err error) string {
	switch {
	case err == nil:
		return metrics.OutcomeSuccess
	case stderrors.Is(err, errors.ErrNetworkUnavailable):
		return metrics.OutcomeUnavailable
	case stderrors.Is(err, errors.ErrNetworkTimeout):
		return metrics.OutcomeTimeout
	case stderrors.Is(err, errors.ErrServerError):
		return metrics.OutcomeServerError
	case stderrors.Is(err, errors.ErrParseError):
		return metrics.OutcomeParseError
	default:
		return metrics.OutcomeOther
	}
}
