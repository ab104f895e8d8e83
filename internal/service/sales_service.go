package service

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"

	"stocktrack/internal/models"
	"stocktrack/internal/store"
	"stocktrack/internal/util"

	"go.uber.org/zap"
)

// csvHeader is the fixed header row of the sales export
var csvHeader = []string{"Sale ID", "Product Name", "Quantity Sold", "Sale Date"}

// SalesService manages the append-only sales journal
type SalesService struct {
	store  *store.Store
	logger *zap.Logger
}

// NewSalesService creates a new sales service
func NewSalesService(store *store.Store) *SalesService {
	return &SalesService{
		store:  store,
		logger: util.GetLogger(),
	}
}

// ListSales returns the sales log joined with product names, newest first
func (ss *SalesService) ListSales(ctx context.Context) ([]models.SaleRecord, error) {
	ctx, span := util.StartSpan(ctx, "SalesService.ListSales")
	defer span.End()

	records, err := ss.store.ListSales(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list sales: %w", err)
	}
	return records, nil
}

// DeleteSale removes a single sale record. Unrecoverable.
func (ss *SalesService) DeleteSale(ctx context.Context, saleID int64) error {
	ctx, span := util.StartSpan(ctx, "SalesService.DeleteSale")
	defer span.End()

	if err := ss.store.DeleteSale(ctx, saleID); err != nil {
		if errors.Is(err, store.ErrSaleNotFound) {
			return fmt.Errorf("%w: sale %d", ErrNotFound, saleID)
		}
		return fmt.Errorf("failed to delete sale: %w", err)
	}

	util.SalesDeletedTotal.Inc()
	ss.logger.Info("Sale deleted", zap.Int64("sale_id", saleID))
	return nil
}

// ClearAllSales removes the entire sales log. Unrecoverable.
func (ss *SalesService) ClearAllSales(ctx context.Context) error {
	ctx, span := util.StartSpan(ctx, "SalesService.ClearAllSales")
	defer span.End()

	deleted, err := ss.store.ClearSales(ctx)
	if err != nil {
		return fmt.Errorf("failed to clear sales: %w", err)
	}

	ss.logger.Info("Sales log cleared", zap.Int64("deleted", deleted))
	return nil
}

// WriteCSV writes the given sale records as comma-separated text with a
// fixed header row. It is a pure projection of records already in memory;
// callers wanting a fresh snapshot list sales first.
func WriteCSV(w io.Writer, records []models.SaleRecord) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(csvHeader); err != nil {
		return fmt.Errorf("failed to write csv header: %w", err)
	}

	for _, r := range records {
		row := []string{
			strconv.FormatInt(r.SaleID, 10),
			r.ProductName,
			strconv.Itoa(r.QuantitySold),
			r.SaleDate.Format("2006-01-02"),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("failed to write csv row: %w", err)
		}
	}

	cw.Flush()
	return cw.Error()
}
