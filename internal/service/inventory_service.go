package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"stocktrack/internal/broker"
	"stocktrack/internal/models"
	"stocktrack/internal/redisclient"
	"stocktrack/internal/store"
	"stocktrack/internal/util"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// AlertForgetter drops any low-stock notification state held for a product.
// Satisfied by the low-stock monitor.
type AlertForgetter interface {
	Forget(productID int64)
}

// InventoryService is the stock-mutation engine
type InventoryService struct {
	store     *store.Store
	cache     *redisclient.Client
	events    broker.Publisher
	forgetter AlertForgetter
	logger    *zap.Logger
}

// NewInventoryService creates a new inventory service
func NewInventoryService(store *store.Store, cache *redisclient.Client, events broker.Publisher) *InventoryService {
	return &InventoryService{
		store:  store,
		cache:  cache,
		events: events,
		logger: util.GetLogger(),
	}
}

// SetAlertForgetter wires the low-stock monitor in. The monitor is built
// after the services, so this cannot be a constructor argument.
func (is *InventoryService) SetAlertForgetter(f AlertForgetter) {
	is.forgetter = f
}

// AddProduct inserts a new catalog row. Duplicate names are allowed; the
// generated id is the only identity.
func (is *InventoryService) AddProduct(ctx context.Context, name string, price float64, quantity int) (*models.Product, error) {
	ctx, span := util.StartSpan(ctx, "InventoryService.AddProduct")
	defer span.End()

	if name == "" {
		return nil, fmt.Errorf("%w: product name cannot be empty", ErrValidation)
	}
	if price < 0 {
		return nil, fmt.Errorf("%w: price cannot be negative", ErrValidation)
	}
	if quantity < 0 {
		return nil, fmt.Errorf("%w: quantity cannot be negative", ErrValidation)
	}

	id, err := is.store.InsertProduct(ctx, name, price, quantity)
	if err != nil {
		return nil, fmt.Errorf("failed to add product: %w", err)
	}

	is.invalidateCatalog(ctx)
	util.ProductsCreatedTotal.Inc()
	is.logger.Info("Product added",
		zap.Int64("product_id", id),
		zap.String("name", name),
		zap.Int("quantity", quantity))

	return &models.Product{ID: id, Name: name, Price: price, Quantity: quantity}, nil
}

// IncreaseStock adds amount to a product's quantity. Non-positive amounts
// are rejected; the decrement path is reserved for purchases.
func (is *InventoryService) IncreaseStock(ctx context.Context, productID int64, amount int) error {
	ctx, span := util.StartSpan(ctx, "InventoryService.IncreaseStock")
	defer span.End()

	if amount <= 0 {
		return fmt.Errorf("%w: amount must be positive", ErrValidation)
	}

	if err := is.store.IncreaseStock(ctx, productID, amount); err != nil {
		if errors.Is(err, store.ErrProductNotFound) {
			return fmt.Errorf("%w: product %d", ErrNotFound, productID)
		}
		return fmt.Errorf("failed to increase stock: %w", err)
	}

	is.invalidateCatalog(ctx)
	is.logger.Info("Stock increased",
		zap.Int64("product_id", productID),
		zap.Int("amount", amount))
	return nil
}

// Purchase decrements stock and appends a sale record in one transaction.
// On insufficient stock or unknown id, stock is unchanged and no sale row
// exists.
func (is *InventoryService) Purchase(ctx context.Context, productID int64, quantity int) (*models.Sale, error) {
	ctx, span := util.StartSpan(ctx, "InventoryService.Purchase")
	defer span.End()

	start := time.Now()
	defer func() {
		util.PurchaseLatency.Observe(time.Since(start).Seconds())
	}()

	if quantity <= 0 {
		util.PurchasesFailedTotal.WithLabelValues("validation").Inc()
		return nil, fmt.Errorf("%w: quantity must be positive", ErrValidation)
	}

	sale, productName, err := is.store.PurchaseTx(ctx, productID, quantity)
	if err != nil {
		switch {
		case errors.Is(err, store.ErrProductNotFound):
			util.PurchasesFailedTotal.WithLabelValues("not_found").Inc()
			return nil, fmt.Errorf("%w: product %d", ErrNotFound, productID)
		case errors.Is(err, store.ErrInsufficientStock):
			util.PurchasesFailedTotal.WithLabelValues("insufficient_stock").Inc()
			return nil, ErrInsufficientStock
		default:
			util.PurchasesFailedTotal.WithLabelValues("db_error").Inc()
			return nil, fmt.Errorf("purchase failed: %w", err)
		}
	}

	is.invalidateCatalog(ctx)
	util.PurchasesTotal.Inc()
	is.logger.Info("Purchase completed",
		zap.Int64("sale_id", sale.ID),
		zap.Int64("product_id", productID),
		zap.Int("quantity", quantity),
		zap.Float64("total_price", sale.TotalPrice))

	event := &models.SaleRecordedEvent{
		BaseEvent: models.BaseEvent{
			EventID:   uuid.New().String(),
			EventType: models.EventTypeSaleRecorded,
			Timestamp: time.Now(),
		},
		SaleID:      sale.ID,
		ProductID:   productID,
		ProductName: productName,
		Quantity:    quantity,
		TotalPrice:  sale.TotalPrice,
	}
	if err := is.events.PublishSaleRecorded(ctx, event); err != nil {
		is.logger.Error("Failed to publish SaleRecorded event", zap.Error(err))
	}

	return sale, nil
}

// DeleteProduct removes a product, its entire sale history and any pending
// low-stock notification state. Deleting an unknown id is a no-op.
func (is *InventoryService) DeleteProduct(ctx context.Context, productID int64) error {
	ctx, span := util.StartSpan(ctx, "InventoryService.DeleteProduct")
	defer span.End()

	deleted, err := is.store.DeleteProductTx(ctx, productID)
	if err != nil {
		return fmt.Errorf("failed to delete product: %w", err)
	}
	if !deleted {
		is.logger.Debug("Delete of unknown product ignored", zap.Int64("product_id", productID))
		return nil
	}

	if is.forgetter != nil {
		is.forgetter.Forget(productID)
	}

	is.invalidateCatalog(ctx)
	util.ProductsDeletedTotal.Inc()
	is.logger.Info("Product deleted", zap.Int64("product_id", productID))

	event := &models.ProductDeletedEvent{
		BaseEvent: models.BaseEvent{
			EventID:   uuid.New().String(),
			EventType: models.EventTypeProductDeleted,
			Timestamp: time.Now(),
		},
		ProductID: productID,
	}
	if err := is.events.PublishProductDeleted(ctx, event); err != nil {
		is.logger.Error("Failed to publish ProductDeleted event", zap.Error(err))
	}

	return nil
}

// ListProducts returns the full catalog, served from cache when warm
func (is *InventoryService) ListProducts(ctx context.Context) ([]models.Product, error) {
	return is.listCatalog(ctx, false)
}

// AvailableProducts returns products with stock on hand
func (is *InventoryService) AvailableProducts(ctx context.Context) ([]models.Product, error) {
	return is.listCatalog(ctx, true)
}

func (is *InventoryService) listCatalog(ctx context.Context, availableOnly bool) ([]models.Product, error) {
	if is.cache != nil {
		cached, err := is.cache.GetCatalog(ctx, availableOnly)
		if err != nil {
			is.logger.Warn("Catalog cache read failed, falling back to DB", zap.Error(err))
		} else if cached != nil {
			return cached, nil
		}
	}

	var products []models.Product
	var err error
	if availableOnly {
		products, err = is.store.AvailableProducts(ctx)
	} else {
		products, err = is.store.ListProducts(ctx)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}

	if is.cache != nil {
		if err := is.cache.SetCatalog(ctx, availableOnly, products); err != nil {
			is.logger.Warn("Catalog cache write failed", zap.Error(err))
		}
	}

	return products, nil
}

// SalesTrends aggregates units sold per product, best sellers first
func (is *InventoryService) SalesTrends(ctx context.Context) ([]models.SalesTrend, error) {
	ctx, span := util.StartSpan(ctx, "InventoryService.SalesTrends")
	defer span.End()

	trends, err := is.store.SalesTrends(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate sales trends: %w", err)
	}
	return trends, nil
}

func (is *InventoryService) invalidateCatalog(ctx context.Context) {
	if is.cache == nil {
		return
	}
	if err := is.cache.InvalidateCatalog(ctx); err != nil {
		is.logger.Warn("Catalog cache invalidation failed", zap.Error(err))
	}
}
