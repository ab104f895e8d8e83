package worker

import (
	"context"
	"log"

	"stocktrack/internal/broker"
	"stocktrack/internal/models"

	"go.uber.org/zap"
)

// NotificationWorker consumes stock events and forwards them to the
// notification surface. Today that surface is the structured log the admin
// shell tails; the handler wiring is the extension point for anything else.
type NotificationWorker struct {
	consumer     *broker.Consumer
	eventHandler *broker.EventHandler
}

// NewNotificationWorker creates a new notification worker
func NewNotificationWorker(consumer *broker.Consumer, logger *zap.Logger) *NotificationWorker {
	eventHandler := broker.NewEventHandler()

	eventHandler.OnLowStockRaised(func(ctx context.Context, event *models.LowStockRaisedEvent) error {
		logger.Warn("Low stock notification",
			zap.Int64("product_id", event.ProductID),
			zap.String("name", event.ProductName),
			zap.Int("quantity", event.Quantity),
			zap.Int("threshold", event.Threshold))
		return nil
	})

	eventHandler.OnLowStockCleared(func(ctx context.Context, event *models.LowStockClearedEvent) error {
		logger.Info("Low stock notification cleared",
			zap.Int64("product_id", event.ProductID))
		return nil
	})

	eventHandler.OnSaleRecorded(func(ctx context.Context, event *models.SaleRecordedEvent) error {
		logger.Info("Sale notification",
			zap.Int64("sale_id", event.SaleID),
			zap.String("name", event.ProductName),
			zap.Int("quantity", event.Quantity),
			zap.Float64("total_price", event.TotalPrice))
		return nil
	})

	return &NotificationWorker{
		consumer:     consumer,
		eventHandler: eventHandler,
	}
}

// Start starts the worker
func (w *NotificationWorker) Start(ctx context.Context) error {
	log.Println("Starting notification worker...")
	return w.consumer.StartConsuming(ctx, w.eventHandler.HandleMessage)
}

// Stop stops the worker
func (w *NotificationWorker) Stop() error {
	log.Println("Stopping notification worker...")
	return w.consumer.Close()
}
