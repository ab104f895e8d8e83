package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"stocktrack/internal/models"
)

// Sentinel errors for conditional updates. Callers translate these into the
// user-facing error taxonomy.
var (
	ErrProductNotFound   = errors.New("product not found")
	ErrInsufficientStock = errors.New("insufficient stock")
)

// ListProducts retrieves the full catalog ordered by name
func (s *Store) ListProducts(ctx context.Context) ([]models.Product, error) {
	var products []models.Product
	err := s.db.SelectContext(ctx, &products,
		"SELECT product_id, name, price, quantity FROM products ORDER BY name")
	return products, err
}

// AvailableProducts retrieves products with stock on hand
func (s *Store) AvailableProducts(ctx context.Context) ([]models.Product, error) {
	var products []models.Product
	err := s.db.SelectContext(ctx, &products,
		"SELECT product_id, name, price, quantity FROM products WHERE quantity > 0 ORDER BY name")
	return products, err
}

// GetProductByID retrieves a product by ID
func (s *Store) GetProductByID(ctx context.Context, id int64) (*models.Product, error) {
	var product models.Product
	err := s.db.GetContext(ctx, &product,
		"SELECT product_id, name, price, quantity FROM products WHERE product_id = $1", id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrProductNotFound
	}
	if err != nil {
		return nil, err
	}
	return &product, nil
}

// InsertProduct inserts a new product and returns its generated ID.
// Duplicate names are permitted.
func (s *Store) InsertProduct(ctx context.Context, name string, price float64, quantity int) (int64, error) {
	var id int64
	err := s.db.GetContext(ctx, &id,
		"INSERT INTO products (name, price, quantity) VALUES ($1, $2, $3) RETURNING product_id",
		name, price, quantity)
	if err != nil {
		return 0, fmt.Errorf("failed to insert product: %w", err)
	}
	return id, nil
}

// IncreaseStock adds amount to a product's quantity in a single update.
// Returns ErrProductNotFound if no row was affected.
func (s *Store) IncreaseStock(ctx context.Context, id int64, amount int) error {
	res, err := s.db.ExecContext(ctx,
		"UPDATE products SET quantity = quantity + $1 WHERE product_id = $2", amount, id)
	if err != nil {
		return fmt.Errorf("failed to increase stock: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrProductNotFound
	}
	return nil
}

// PurchaseTx decrements stock and records the sale in one transaction.
// The decrement is a single conditional update guarded by
// quantity >= requested, so stock can never go negative even under
// concurrent purchasers. The sale row snapshots the price read inside the
// same transaction. On failure no sale row is created and stock is
// unchanged.
func (s *Store) PurchaseTx(ctx context.Context, productID int64, quantity int) (*models.Sale, string, error) {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, "", fmt.Errorf("failed to begin purchase tx: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		"UPDATE products SET quantity = quantity - $1 WHERE product_id = $2 AND quantity >= $1",
		quantity, productID)
	if err != nil {
		return nil, "", fmt.Errorf("failed to decrement stock: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return nil, "", err
	}
	if affected == 0 {
		var exists bool
		if err := tx.GetContext(ctx, &exists,
			"SELECT EXISTS(SELECT 1 FROM products WHERE product_id = $1)", productID); err != nil {
			return nil, "", err
		}
		if !exists {
			return nil, "", ErrProductNotFound
		}
		return nil, "", ErrInsufficientStock
	}

	var product models.Product
	if err := tx.GetContext(ctx, &product,
		"SELECT product_id, name, price, quantity FROM products WHERE product_id = $1", productID); err != nil {
		return nil, "", fmt.Errorf("failed to read product for sale: %w", err)
	}

	sale := &models.Sale{
		ProductID:    productID,
		QuantitySold: quantity,
		TotalPrice:   product.Price * float64(quantity),
	}
	if err := tx.GetContext(ctx, sale,
		`INSERT INTO sales (product_id, quantity_sold, sale_date, total_price)
		 VALUES ($1, $2, NOW(), $3)
		 RETURNING sale_id, product_id, quantity_sold, sale_date, total_price`,
		productID, quantity, sale.TotalPrice); err != nil {
		return nil, "", fmt.Errorf("failed to record sale: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, "", fmt.Errorf("failed to commit purchase: %w", err)
	}

	return sale, product.Name, nil
}

// DeleteProductTx deletes a product and all sales referencing it in one
// transaction. Returns false if the product did not exist; that is not an
// error.
func (s *Store) DeleteProductTx(ctx context.Context, productID int64) (bool, error) {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("failed to begin delete tx: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		"DELETE FROM sales WHERE product_id = $1", productID); err != nil {
		return false, fmt.Errorf("failed to delete sale history: %w", err)
	}

	res, err := tx.ExecContext(ctx,
		"DELETE FROM products WHERE product_id = $1", productID)
	if err != nil {
		return false, fmt.Errorf("failed to delete product: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return false, err
	}

	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("failed to commit delete: %w", err)
	}

	return affected > 0, nil
}

// SalesTrends aggregates total units sold per product, best sellers first
func (s *Store) SalesTrends(ctx context.Context) ([]models.SalesTrend, error) {
	var trends []models.SalesTrend
	err := s.db.SelectContext(ctx, &trends,
		`SELECT p.name, SUM(s.quantity_sold) AS total_sold
		 FROM sales s JOIN products p ON s.product_id = p.product_id
		 GROUP BY p.name
		 ORDER BY total_sold DESC`)
	return trends, err
}
