package prefetch

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/rivr-station-service/internal/domain"
	"github.com/rivr-station-service/internal/domain/repository"
	apperrors "github.com/rivr-station-service/internal/pkg/errors"
	"github.com/rivr-station-service/internal/usecase/dto"
	"github.com/rivr-station-service/internal/worker"
)

const (
	defaultBatchSize    = 20
	defaultClaimMinIdle = time.Minute
	emptyQueueSleep     = 200 * time.Millisecond
	errorSleep          = time.Second
)

// StationRefresher - обновление payload станции с одной повторной попыткой
type StationRefresher interface {
	RefreshStation(ctx context.Context, stationID int64) (*dto.StationDataResult, bool, error)
}

// StationPrefetchWorker читает stream:station:refresh, прогревает кеш
// станций и публикует результаты в stream:station:refreshed
type StationPrefetchWorker struct {
	*worker.BaseWorker
	streamRepo repository.StreamRepository
	refresher  StationRefresher
	batchSize  int

	// сообщения без ack старше claimMinIdle забираются у других consumer'ов
	claimMinIdle time.Duration
	claimCursor  string
}

// NewStationPrefetchWorker создает новый StationPrefetchWorker
func NewStationPrefetchWorker(
	streamRepo repository.StreamRepository,
	refresher StationRefresher,
	consumerGroup string,
	batchSize int,
	claimMinIdle time.Duration,
	logger *zap.Logger,
) *StationPrefetchWorker {
	if batchSize <= 0 {
		batchSize = defaultBatchSize
	}
	if claimMinIdle <= 0 {
		claimMinIdle = defaultClaimMinIdle
	}
	return &StationPrefetchWorker{
		BaseWorker:   worker.NewBaseWorker("station-prefetch", consumerGroup, logger),
		streamRepo:   streamRepo,
		refresher:    refresher,
		batchSize:    batchSize,
		claimMinIdle: claimMinIdle,
		claimCursor:  "0-0",
	}
}

// Start создаёт consumer group и обрабатывает батчи до остановки
func (w *StationPrefetchWorker) Start(ctx context.Context) error {
	logger := w.Logger()
	logger.Info("Starting station prefetch worker",
		zap.String("consumer_group", w.ConsumerGroup()),
		zap.String("consumer_name", w.ConsumerName()),
		zap.Int("batch_size", w.batchSize),
		zap.Duration("claim_min_idle", w.claimMinIdle))

	if err := w.streamRepo.CreateConsumerGroup(ctx, domain.StreamStationRefresh, w.ConsumerGroup()); err != nil {
		logger.Error("Failed to create consumer group", zap.Error(err))
		return fmt.Errorf("failed to create consumer group: %w", err)
	}

	for {
		select {
		case <-w.StopChan():
			logger.Info("Worker stopped")
			return nil
		case <-ctx.Done():
			logger.Info("Context cancelled")
			return ctx.Err()
		default:
		}

		processed, err := w.ProcessBatch(ctx)
		pause := time.Duration(0)
		switch {
		case err != nil:
			logger.Error("Failed to process batch", zap.Error(err))
			pause = errorSleep
		case processed == 0:
			pause = emptyQueueSleep
		}

		if pause > 0 {
			w.Pause(ctx, pause)
		}
	}
}

// ProcessBatch обрабатывает один батч и возвращает число прочитанных сообщений.
// Сначала забираются зависшие pending сообщения, потом читаются новые.
// Битые сообщения подтверждаются сразу. Сообщения, обработку которых прервала
// отмена контекста, не подтверждаются и будут забраны позже.
// Не вызывается конкурентно.
func (w *StationPrefetchWorker) ProcessBatch(ctx context.Context) (int, error) {
	logger := w.Logger()

	messages, err := w.nextBatch(ctx)
	if err != nil {
		return 0, err
	}
	if len(messages) == 0 {
		return 0, nil
	}

	logger.Debug("Processing batch", zap.Int("message_count", len(messages)))

	// одна станция в батче обновляется один раз, ответ получает каждый запрос
	outcomes := make(map[int64]*domain.StationRefreshedEvent)
	ackIDs := make([]string, 0, len(messages))

	for _, msg := range messages {
		event, err := parseMessage(msg)
		if err != nil {
			logger.Warn("Failed to parse message, skipping",
				zap.String("message_id", msg.ID),
				zap.Error(err))
			ackIDs = append(ackIDs, msg.ID)
			continue
		}

		outcome, ok := outcomes[event.StationID]
		if !ok {
			outcome, err = w.refresh(ctx, event.StationID)
			if err != nil {
				// контекст отменён: оставляем сообщение неподтверждённым
				break
			}
			outcomes[event.StationID] = outcome
		}

		done := *outcome
		done.RequestID = event.RequestID
		if err := w.streamRepo.PublishToStream(ctx, domain.StreamStationRefreshed, &done); err != nil {
			logger.Error("Failed to publish refreshed event",
				zap.Int64("station_id", event.StationID),
				zap.Error(err))
		}
		ackIDs = append(ackIDs, msg.ID)
	}

	if len(ackIDs) > 0 {
		if err := w.streamRepo.AckMessages(ctx, domain.StreamStationRefresh, w.ConsumerGroup(), ackIDs); err != nil {
			logger.Error("Failed to ack messages", zap.Error(err))
		}
	}

	logger.Info("Batch processed",
		zap.Int("messages", len(messages)),
		zap.Int("stations", len(outcomes)),
		zap.Int("acked", len(ackIDs)))

	return len(messages), nil
}

func (w *StationPrefetchWorker) nextBatch(ctx context.Context) ([]domain.StreamMessage, error) {
	claimed, next, err := w.streamRepo.ClaimPending(ctx, domain.StreamStationRefresh, w.ConsumerGroup(), w.ConsumerName(), w.claimCursor, w.claimMinIdle, w.batchSize)
	if err != nil {
		return nil, fmt.Errorf("failed to claim pending messages: %w", err)
	}
	w.claimCursor = next
	if len(claimed) > 0 {
		return claimed, nil
	}

	messages, err := w.streamRepo.ConsumeBatch(ctx, domain.StreamStationRefresh, w.ConsumerGroup(), w.ConsumerName(), w.batchSize)
	if err != nil {
		return nil, fmt.Errorf("failed to consume batch: %w", err)
	}
	return messages, nil
}

// refresh возвращает ошибку только при отмене контекста; ошибки сети
// попадают в событие
func (w *StationPrefetchWorker) refresh(ctx context.Context, stationID int64) (*domain.StationRefreshedEvent, error) {
	result, retried, err := w.refresher.RefreshStation(ctx, stationID)
	if ctxErr := ctx.Err(); ctxErr != nil {
		return nil, ctxErr
	}

	outcome := &domain.StationRefreshedEvent{StationID: stationID}
	if err != nil {
		outcome.ErrorCode = apperrors.ErrInternalServer.Code
		if appErr, ok := apperrors.As(err); ok {
			outcome.ErrorCode = appErr.Code
		}
		w.Logger().Warn("Station prefetch failed",
			zap.Int64("station_id", stationID),
			zap.Bool("retried", retried),
			zap.Error(err))
		return outcome, nil
	}

	outcome.Success = true
	outcome.CachedAt = result.CachedAt
	return outcome, nil
}

func parseMessage(msg domain.StreamMessage) (*domain.StationRefreshEvent, error) {
	if msg.Data == "" {
		return nil, errors.New("missing 'data' field")
	}

	var event domain.StationRefreshEvent
	if err := json.Unmarshal([]byte(msg.Data), &event); err != nil {
		return nil, fmt.Errorf("failed to unmarshal event: %w", err)
	}
	if !event.Valid() {
		return nil, fmt.Errorf("invalid refresh event for station %d", event.StationID)
	}

	return &event, nil
}
