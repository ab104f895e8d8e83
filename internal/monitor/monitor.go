package monitor

import (
	"context"
	"sort"
	"sync"
	"time"

	"stocktrack/internal/broker"
	"stocktrack/internal/models"
	"stocktrack/internal/util"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ProductLister provides the product quantities the monitor polls.
// Satisfied by the store.
type ProductLister interface {
	ListProducts(ctx context.Context) ([]models.Product, error)
}

// Monitor polls product quantities and raises one alert per product each
// time it crosses into low stock. The notified set lives on the monitor
// instance, not in a process-wide global, and is discarded with it when the
// owning session ends. The monitor holds no other memory of history: every
// tick is a pure diff of polled state against the notified set.
type Monitor struct {
	lister    ProductLister
	events    broker.Publisher
	threshold int
	interval  time.Duration
	logger    *zap.Logger

	mu       sync.Mutex
	notified map[int64]models.LowStockAlert
}

// New creates a low-stock monitor
func New(lister ProductLister, events broker.Publisher, threshold int, interval time.Duration) *Monitor {
	return &Monitor{
		lister:    lister,
		events:    events,
		threshold: threshold,
		interval:  interval,
		logger:    util.GetLogger(),
		notified:  make(map[int64]models.LowStockAlert),
	}
}

// Run polls until ctx is cancelled. Cancel the context to stop the monitor
// with its owning session.
func (m *Monitor) Run(ctx context.Context) error {
	m.logger.Info("Low-stock monitor started",
		zap.Int("threshold", m.threshold),
		zap.Duration("interval", m.interval))

	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			m.logger.Info("Low-stock monitor stopped")
			return ctx.Err()
		case <-ticker.C:
			if err := m.poll(ctx); err != nil {
				util.MonitorTickErrors.Inc()
				m.logger.Error("Low-stock poll failed", zap.Error(err))
			}
		}
	}
}

// poll diffs current under-threshold products against the notified set,
// raising an alert for each new entry and clearing every id that recovered
// or disappeared.
func (m *Monitor) poll(ctx context.Context) error {
	util.MonitorTicksTotal.Inc()

	products, err := m.lister.ListProducts(ctx)
	if err != nil {
		return err
	}

	currentLow := make(map[int64]models.Product)
	for _, p := range products {
		if p.Quantity <= m.threshold {
			currentLow[p.ID] = p
		}
	}

	m.mu.Lock()
	var raised []models.LowStockAlert
	var cleared []int64

	for id, p := range currentLow {
		if _, ok := m.notified[id]; ok {
			continue
		}
		alert := models.LowStockAlert{
			ProductID:   p.ID,
			ProductName: p.Name,
			Quantity:    p.Quantity,
			RaisedAt:    time.Now(),
		}
		m.notified[id] = alert
		raised = append(raised, alert)
	}

	for id := range m.notified {
		if _, ok := currentLow[id]; !ok {
			delete(m.notified, id)
			cleared = append(cleared, id)
		}
	}
	m.mu.Unlock()

	for _, alert := range raised {
		util.LowStockAlertsRaisedTotal.Inc()
		m.logger.Warn("Low stock",
			zap.Int64("product_id", alert.ProductID),
			zap.String("name", alert.ProductName),
			zap.Int("quantity", alert.Quantity))

		event := &models.LowStockRaisedEvent{
			BaseEvent: models.BaseEvent{
				EventID:   uuid.New().String(),
				EventType: models.EventTypeLowStockRaised,
				Timestamp: time.Now(),
			},
			ProductID:   alert.ProductID,
			ProductName: alert.ProductName,
			Quantity:    alert.Quantity,
			Threshold:   m.threshold,
		}
		if err := m.events.PublishLowStockRaised(ctx, event); err != nil {
			m.logger.Error("Failed to publish LowStockRaised event", zap.Error(err))
		}
	}

	for _, id := range cleared {
		util.LowStockAlertsClearedTotal.Inc()
		m.logger.Info("Low stock cleared", zap.Int64("product_id", id))

		event := &models.LowStockClearedEvent{
			BaseEvent: models.BaseEvent{
				EventID:   uuid.New().String(),
				EventType: models.EventTypeLowStockCleared,
				Timestamp: time.Now(),
			},
			ProductID: id,
		}
		if err := m.events.PublishLowStockCleared(ctx, event); err != nil {
			m.logger.Error("Failed to publish LowStockCleared event", zap.Error(err))
		}
	}

	return nil
}

// Forget drops any alert state for a product, without emitting a cleared
// event. Called when the product is deleted.
func (m *Monitor) Forget(productID int64) {
	m.mu.Lock()
	delete(m.notified, productID)
	m.mu.Unlock()
}

// ActiveAlerts returns the alerts currently displayed, ordered by product id
func (m *Monitor) ActiveAlerts() []models.LowStockAlert {
	m.mu.Lock()
	alerts := make([]models.LowStockAlert, 0, len(m.notified))
	for _, a := range m.notified {
		alerts = append(alerts, a)
	}
	m.mu.Unlock()

	sort.Slice(alerts, func(i, j int) bool { return alerts[i].ProductID < alerts[j].ProductID })
	return alerts
}
