package rabbitmq

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/firs-iln/gkh-bot/internal/contextkeys"
	"github.com/firs-iln/gkh-bot/internal/core/domain"
	"github.com/firs-iln/gkh-bot/internal/core/port"
	"github.com/firs-iln/gkh-bot/pkg/rabbitmq/rabbitmq_producer"
)

// CollectionEventsPublisher - реализация порта CollectionEventsPort для RabbitMQ
type CollectionEventsPublisher struct {
	producer   *rabbitmq_producer.Publisher
	routingKey string
}

// NewCollectionEventsPublisher - конструктор
func NewCollectionEventsPublisher(producer *rabbitmq_producer.Publisher, routingKey string) (*CollectionEventsPublisher, error) {
	if producer == nil {
		return nil, fmt.Errorf("rabbitmq adapter: producer cannot be nil")
	}
	if routingKey == "" {
		return nil, fmt.Errorf("rabbitmq adapter: routingKey cannot be empty")
	}
	return &CollectionEventsPublisher{
		producer:   producer,
		routingKey: routingKey,
	}, nil
}

func (a *CollectionEventsPublisher) Publish(ctx context.Context, event domain.CollectionEvent) error {
	logger := contextkeys.LoggerFromContext(ctx)
	adapterLogger := logger.WithFields(port.Fields{
		"component":   "CollectionEventsPublisher",
		"routing_key": a.routingKey,
		"kind":        event.Kind,
	})

	body, err := json.Marshal(event)
	if err != nil {
		adapterLogger.Error("Failed to marshal collection event", err, nil)
		return fmt.Errorf("failed to marshal collection event: %w", err)
	}

	msg := amqp.Publishing{
		ContentType:  "application/json",
		Body:         body,
		DeliveryMode: amqp.Persistent, // Для сохранения сообщений при перезапуске брокера
		Timestamp:    time.Now(),
		Headers:      make(amqp.Table),
	}

	if traceID := contextkeys.TraceIDFromContext(ctx); traceID != "" {
		msg.Headers["x-trace-id"] = traceID
	}

	publishCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	err = a.producer.Publish(publishCtx, a.routingKey, msg)
	if err != nil {
		adapterLogger.Error("Failed to publish collection event", err, nil)
		return fmt.Errorf("rabbitmq adapter: failed to publish %s event: %w", event.Kind, err)
	}

	adapterLogger.Debug("Published collection event", port.Fields{"building_id": event.BuildingID})
	return nil
}
