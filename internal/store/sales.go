package store

import (
	"context"
	"errors"
	"fmt"

	"stocktrack/internal/models"
)

var ErrSaleNotFound = errors.New("sale not found")

// ListSales retrieves the sales log joined with product names, newest first
func (s *Store) ListSales(ctx context.Context) ([]models.SaleRecord, error) {
	var records []models.SaleRecord
	err := s.db.SelectContext(ctx, &records,
		`SELECT s.sale_id, p.name, s.quantity_sold, s.sale_date
		 FROM sales s JOIN products p ON s.product_id = p.product_id
		 ORDER BY s.sale_date DESC`)
	return records, err
}

// DeleteSale removes a single sale record
func (s *Store) DeleteSale(ctx context.Context, saleID int64) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM sales WHERE sale_id = $1", saleID)
	if err != nil {
		return fmt.Errorf("failed to delete sale: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrSaleNotFound
	}
	return nil
}

// ClearSales removes every sale record and returns how many were deleted
func (s *Store) ClearSales(ctx context.Context) (int64, error) {
	res, err := s.db.ExecContext(ctx, "DELETE FROM sales")
	if err != nil {
		return 0, fmt.Errorf("failed to clear sales: %w", err)
	}
	return res.RowsAffected()
}
