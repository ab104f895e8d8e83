package broker

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"stocktrack/internal/models"

	"github.com/segmentio/kafka-go"
)

// Publisher is the subset of publishing used by the services and the
// low-stock monitor.
type Publisher interface {
	PublishLowStockRaised(ctx context.Context, event *models.LowStockRaisedEvent) error
	PublishLowStockCleared(ctx context.Context, event *models.LowStockClearedEvent) error
	PublishSaleRecorded(ctx context.Context, event *models.SaleRecordedEvent) error
	PublishProductDeleted(ctx context.Context, event *models.ProductDeletedEvent) error
}

// EventPublisher publishes stock domain events to Kafka
type EventPublisher struct {
	producer *Producer
}

// NewEventPublisher creates a new event publisher
func NewEventPublisher(producer *Producer) *EventPublisher {
	return &EventPublisher{producer: producer}
}

// PublishLowStockRaised publishes a LowStockRaised event
func (ep *EventPublisher) PublishLowStockRaised(ctx context.Context, event *models.LowStockRaisedEvent) error {
	key := fmt.Sprintf("product-%d", event.ProductID)
	return ep.producer.PublishEvent(ctx, key, event)
}

// PublishLowStockCleared publishes a LowStockCleared event
func (ep *EventPublisher) PublishLowStockCleared(ctx context.Context, event *models.LowStockClearedEvent) error {
	key := fmt.Sprintf("product-%d", event.ProductID)
	return ep.producer.PublishEvent(ctx, key, event)
}

// PublishSaleRecorded publishes a SaleRecorded event
func (ep *EventPublisher) PublishSaleRecorded(ctx context.Context, event *models.SaleRecordedEvent) error {
	key := fmt.Sprintf("product-%d", event.ProductID)
	return ep.producer.PublishEvent(ctx, key, event)
}

// PublishProductDeleted publishes a ProductDeleted event
func (ep *EventPublisher) PublishProductDeleted(ctx context.Context, event *models.ProductDeletedEvent) error {
	key := fmt.Sprintf("product-%d", event.ProductID)
	return ep.producer.PublishEvent(ctx, key, event)
}

// EventHandler routes incoming stock events to registered callbacks
type EventHandler struct {
	onLowStockRaised  func(context.Context, *models.LowStockRaisedEvent) error
	onLowStockCleared func(context.Context, *models.LowStockClearedEvent) error
	onSaleRecorded    func(context.Context, *models.SaleRecordedEvent) error
}

// NewEventHandler creates a new event handler
func NewEventHandler() *EventHandler {
	return &EventHandler{}
}

// OnLowStockRaised registers a handler for LowStockRaised events
func (eh *EventHandler) OnLowStockRaised(handler func(context.Context, *models.LowStockRaisedEvent) error) {
	eh.onLowStockRaised = handler
}

// OnLowStockCleared registers a handler for LowStockCleared events
func (eh *EventHandler) OnLowStockCleared(handler func(context.Context, *models.LowStockClearedEvent) error) {
	eh.onLowStockCleared = handler
}

// OnSaleRecorded registers a handler for SaleRecorded events
func (eh *EventHandler) OnSaleRecorded(handler func(context.Context, *models.SaleRecordedEvent) error) {
	eh.onSaleRecorded = handler
}

// HandleMessage routes messages to appropriate handlers
func (eh *EventHandler) HandleMessage(ctx context.Context, msg kafka.Message) error {
	var baseEvent models.BaseEvent
	if err := json.Unmarshal(msg.Value, &baseEvent); err != nil {
		return fmt.Errorf("failed to unmarshal base event: %w", err)
	}

	switch baseEvent.EventType {
	case models.EventTypeLowStockRaised:
		if eh.onLowStockRaised != nil {
			var event models.LowStockRaisedEvent
			if err := json.Unmarshal(msg.Value, &event); err != nil {
				return fmt.Errorf("failed to unmarshal LowStockRaised event: %w", err)
			}
			return eh.onLowStockRaised(ctx, &event)
		}

	case models.EventTypeLowStockCleared:
		if eh.onLowStockCleared != nil {
			var event models.LowStockClearedEvent
			if err := json.Unmarshal(msg.Value, &event); err != nil {
				return fmt.Errorf("failed to unmarshal LowStockCleared event: %w", err)
			}
			return eh.onLowStockCleared(ctx, &event)
		}

	case models.EventTypeSaleRecorded:
		if eh.onSaleRecorded != nil {
			var event models.SaleRecordedEvent
			if err := json.Unmarshal(msg.Value, &event); err != nil {
				return fmt.Errorf("failed to unmarshal SaleRecorded event: %w", err)
			}
			return eh.onSaleRecorded(ctx, &event)
		}

	default:
		log.Printf("Unhandled event type: %s", baseEvent.EventType)
	}

	return nil
}
