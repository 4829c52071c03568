package repository

import (
	"context"
	"time"

	"github.com/rivr-station-service/internal/domain"
)

// StreamRepository - интерфейс для работы с Redis Streams
type StreamRepository interface {
	// ConsumeBatch читает до count сообщений без долгой блокировки
	ConsumeBatch(ctx context.Context, stream, group, consumer string, count int) ([]domain.StreamMessage, error)

	// ClaimPending переназначает consumer'у сообщения без ack старше minIdle.
	// start - курсор обхода pending списка, возвращается следующий курсор.
	ClaimPending(ctx context.Context, stream, group, consumer, start string, minIdle time.Duration, count int) ([]domain.StreamMessage, string, error)

	// AckMessages подтверждает обработку сообщений
	AckMessages(ctx context.Context, stream, group string, messageIDs []string) error

	// CreateConsumerGroup создаёт consumer group
	CreateConsumerGroup(ctx context.Context, stream, group string) error

	// PublishToStream публикует сообщение в стрим
	PublishToStream(ctx context.Context, stream string, data interface{}) error
}

// EventPublisher - узкий интерфейс для публикации событий из use case
type EventPublisher interface {
	PublishToStream(ctx context.Context, stream string, data interface{}) error
}
