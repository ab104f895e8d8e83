package broker

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"stocktrack/internal/models"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func message(t *testing.T, event interface{}) kafka.Message {
	t.Helper()
	data, err := json.Marshal(event)
	require.NoError(t, err)
	return kafka.Message{Value: data}
}

func TestHandleMessageRoutesLowStockRaised(t *testing.T) {
	eh := NewEventHandler()

	var got *models.LowStockRaisedEvent
	eh.OnLowStockRaised(func(ctx context.Context, e *models.LowStockRaisedEvent) error {
		got = e
		return nil
	})

	event := &models.LowStockRaisedEvent{
		BaseEvent: models.BaseEvent{
			EventID:   "e1",
			EventType: models.EventTypeLowStockRaised,
			Timestamp: time.Now(),
		},
		ProductID:   42,
		ProductName: "Widget",
		Quantity:    2,
		Threshold:   3,
	}

	require.NoError(t, eh.HandleMessage(context.Background(), message(t, event)))
	require.NotNil(t, got)
	assert.Equal(t, int64(42), got.ProductID)
	assert.Equal(t, 2, got.Quantity)
}

func TestHandleMessageRoutesSaleRecorded(t *testing.T) {
	eh := NewEventHandler()

	var got *models.SaleRecordedEvent
	eh.OnSaleRecorded(func(ctx context.Context, e *models.SaleRecordedEvent) error {
		got = e
		return nil
	})

	event := &models.SaleRecordedEvent{
		BaseEvent: models.BaseEvent{
			EventID:   "e2",
			EventType: models.EventTypeSaleRecorded,
			Timestamp: time.Now(),
		},
		SaleID:     7,
		ProductID:  42,
		Quantity:   3,
		TotalPrice: 29.97,
	}

	require.NoError(t, eh.HandleMessage(context.Background(), message(t, event)))
	require.NotNil(t, got)
	assert.Equal(t, int64(7), got.SaleID)
}

func TestHandleMessageIgnoresUnknownType(t *testing.T) {
	eh := NewEventHandler()
	eh.OnLowStockRaised(func(ctx context.Context, e *models.LowStockRaisedEvent) error {
		t.Fatal("handler should not fire for unknown event type")
		return nil
	})

	event := models.BaseEvent{EventID: "e3", EventType: "SOMETHING_ELSE"}
	assert.NoError(t, eh.HandleMessage(context.Background(), message(t, event)))
}

func TestHandleMessageRejectsMalformedPayload(t *testing.T) {
	eh := NewEventHandler()
	err := eh.HandleMessage(context.Background(), kafka.Message{Value: []byte("{not json")})
	assert.Error(t, err)
}
