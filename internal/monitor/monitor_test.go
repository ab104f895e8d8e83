package monitor

import (
	"context"
	"testing"
	"time"

	"stocktrack/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeLister struct {
	products []models.Product
	err      error
}

func (f *fakeLister) ListProducts(ctx context.Context) ([]models.Product, error) {
	return f.products, f.err
}

func (f *fakeLister) setQuantity(id int64, qty int) {
	for i := range f.products {
		if f.products[i].ID == id {
			f.products[i].Quantity = qty
		}
	}
}

type capturingPublisher struct {
	raised  []*models.LowStockRaisedEvent
	cleared []*models.LowStockClearedEvent
}

func (p *capturingPublisher) PublishLowStockRaised(ctx context.Context, e *models.LowStockRaisedEvent) error {
	p.raised = append(p.raised, e)
	return nil
}

func (p *capturingPublisher) PublishLowStockCleared(ctx context.Context, e *models.LowStockClearedEvent) error {
	p.cleared = append(p.cleared, e)
	return nil
}

func (p *capturingPublisher) PublishSaleRecorded(ctx context.Context, e *models.SaleRecordedEvent) error {
	return nil
}

func (p *capturingPublisher) PublishProductDeleted(ctx context.Context, e *models.ProductDeletedEvent) error {
	return nil
}

func newTestMonitor(lister *fakeLister) (*Monitor, *capturingPublisher) {
	pub := &capturingPublisher{}
	return New(lister, pub, 3, time.Second), pub
}

func TestAlertRaisedOncePerTransition(t *testing.T) {
	lister := &fakeLister{products: []models.Product{
		{ID: 1, Name: "Widget", Quantity: 5},
	}}
	m, pub := newTestMonitor(lister)
	ctx := context.Background()

	require.NoError(t, m.poll(ctx))
	assert.Empty(t, pub.raised)
	assert.Empty(t, m.ActiveAlerts())

	// 5 -> 2 crosses the threshold: exactly one alert
	lister.setQuantity(1, 2)
	require.NoError(t, m.poll(ctx))
	require.Len(t, pub.raised, 1)
	assert.Equal(t, int64(1), pub.raised[0].ProductID)
	assert.Equal(t, "Widget", pub.raised[0].ProductName)
	assert.Equal(t, 2, pub.raised[0].Quantity)

	// stays low: no further alerts
	require.NoError(t, m.poll(ctx))
	require.NoError(t, m.poll(ctx))
	assert.Len(t, pub.raised, 1)

	alerts := m.ActiveAlerts()
	require.Len(t, alerts, 1)
	assert.Equal(t, int64(1), alerts[0].ProductID)
}

func TestAlertClearsOnRecovery(t *testing.T) {
	lister := &fakeLister{products: []models.Product{
		{ID: 1, Name: "Widget", Quantity: 2},
	}}
	m, pub := newTestMonitor(lister)
	ctx := context.Background()

	require.NoError(t, m.poll(ctx))
	require.Len(t, pub.raised, 1)

	// recovery above the threshold clears the alert
	lister.setQuantity(1, 4)
	require.NoError(t, m.poll(ctx))
	require.Len(t, pub.cleared, 1)
	assert.Equal(t, int64(1), pub.cleared[0].ProductID)
	assert.Empty(t, m.ActiveAlerts())

	// dropping again raises a fresh alert
	lister.setQuantity(1, 1)
	require.NoError(t, m.poll(ctx))
	assert.Len(t, pub.raised, 2)
}

func TestAlertClearsWhenProductDisappears(t *testing.T) {
	lister := &fakeLister{products: []models.Product{
		{ID: 1, Name: "Widget", Quantity: 1},
		{ID: 2, Name: "Gadget", Quantity: 2},
	}}
	m, pub := newTestMonitor(lister)
	ctx := context.Background()

	require.NoError(t, m.poll(ctx))
	require.Len(t, pub.raised, 2)

	lister.products = lister.products[1:] // product 1 deleted elsewhere
	require.NoError(t, m.poll(ctx))
	require.Len(t, pub.cleared, 1)
	assert.Equal(t, int64(1), pub.cleared[0].ProductID)

	alerts := m.ActiveAlerts()
	require.Len(t, alerts, 1)
	assert.Equal(t, int64(2), alerts[0].ProductID)
}

func TestBoundaryQuantityIsLow(t *testing.T) {
	// quantity equal to the threshold counts as low
	lister := &fakeLister{products: []models.Product{
		{ID: 1, Name: "Widget", Quantity: 3},
	}}
	m, pub := newTestMonitor(lister)

	require.NoError(t, m.poll(context.Background()))
	assert.Len(t, pub.raised, 1)
}

func TestForgetDropsStateWithoutClearedEvent(t *testing.T) {
	lister := &fakeLister{products: []models.Product{
		{ID: 1, Name: "Widget", Quantity: 1},
	}}
	m, pub := newTestMonitor(lister)
	ctx := context.Background()

	require.NoError(t, m.poll(ctx))
	require.Len(t, pub.raised, 1)

	m.Forget(1)
	assert.Empty(t, m.ActiveAlerts())
	assert.Empty(t, pub.cleared)

	// the product is gone from the store too, so the next poll stays quiet
	lister.products = nil
	require.NoError(t, m.poll(ctx))
	assert.Len(t, pub.raised, 1)
	assert.Empty(t, pub.cleared)
}

func TestActiveAlertsOrderedByProductID(t *testing.T) {
	lister := &fakeLister{products: []models.Product{
		{ID: 9, Name: "C", Quantity: 1},
		{ID: 2, Name: "A", Quantity: 0},
		{ID: 5, Name: "B", Quantity: 3},
	}}
	m, _ := newTestMonitor(lister)

	require.NoError(t, m.poll(context.Background()))

	alerts := m.ActiveAlerts()
	require.Len(t, alerts, 3)
	assert.Equal(t, int64(2), alerts[0].ProductID)
	assert.Equal(t, int64(5), alerts[1].ProductID)
	assert.Equal(t, int64(9), alerts[2].ProductID)
}

func TestRunStopsOnCancel(t *testing.T) {
	lister := &fakeLister{}
	m, _ := newTestMonitor(lister)
	m.interval = 10 * time.Millisecond

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- m.Run(ctx) }()

	time.Sleep(30 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(time.Second):
		t.Fatal("monitor did not stop after cancel")
	}
}
