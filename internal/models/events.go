package models

import "time"

// Event types
const (
	EventTypeLowStockRaised  = "LOW_STOCK_RAISED"
	EventTypeLowStockCleared = "LOW_STOCK_CLEARED"
	EventTypeSaleRecorded    = "SALE_RECORDED"
	EventTypeProductDeleted  = "PRODUCT_DELETED"
)

// BaseEvent contains common fields for all events
type BaseEvent struct {
	EventID   string    `json:"event_id"`
	EventType string    `json:"event_type"`
	Timestamp time.Time `json:"timestamp"`
}

// LowStockRaisedEvent published when a product crosses into low stock.
// Emitted at most once per transition; re-emitted only after the product
// recovers above the threshold and drops again.
type LowStockRaisedEvent struct {
	BaseEvent
	ProductID   int64  `json:"product_id"`
	ProductName string `json:"product_name"`
	Quantity    int    `json:"quantity"`
	Threshold   int    `json:"threshold"`
}

// LowStockClearedEvent published when a flagged product recovers above the
// threshold or no longer exists.
type LowStockClearedEvent struct {
	BaseEvent
	ProductID int64 `json:"product_id"`
}

// SaleRecordedEvent published after a purchase commits.
type SaleRecordedEvent struct {
	BaseEvent
	SaleID      int64   `json:"sale_id"`
	ProductID   int64   `json:"product_id"`
	ProductName string  `json:"product_name"`
	Quantity    int     `json:"quantity"`
	TotalPrice  float64 `json:"total_price"`
}

// ProductDeletedEvent published when an admin deletes a product, after its
// sale history has been purged.
type ProductDeletedEvent struct {
	BaseEvent
	ProductID int64 `json:"product_id"`
}
