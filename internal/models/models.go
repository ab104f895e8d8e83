package models

import "time"

// User represents an account row. Users are created at registration and
// never mutated or deleted afterwards.
type User struct {
	Username     string `db:"username" json:"username"`
	PasswordHash string `db:"password" json:"-"`
	Role         string `db:"role" json:"role"`
}

// User roles
const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

// ValidRole reports whether role is one of the two supported roles.
func ValidRole(role string) bool {
	return role == RoleAdmin || role == RoleUser
}

// Product represents a product in the catalog together with its stock level.
type Product struct {
	ID       int64   `db:"product_id" json:"product_id"`
	Name     string  `db:"name" json:"name"`
	Price    float64 `db:"price" json:"price"`
	Quantity int     `db:"quantity" json:"quantity"`
}

// Sale is an immutable record of one purchase. Price is snapshotted at sale
// time, never re-derived from the product row.
type Sale struct {
	ID           int64     `db:"sale_id" json:"sale_id"`
	ProductID    int64     `db:"product_id" json:"product_id"`
	QuantitySold int       `db:"quantity_sold" json:"quantity_sold"`
	SaleDate     time.Time `db:"sale_date" json:"sale_date"`
	TotalPrice   float64   `db:"total_price" json:"total_price"`
}

// SaleRecord is a sale joined with its product name, as shown in the sales
// log and exported to CSV.
type SaleRecord struct {
	SaleID       int64     `db:"sale_id" json:"sale_id"`
	ProductName  string    `db:"name" json:"product_name"`
	QuantitySold int       `db:"quantity_sold" json:"quantity_sold"`
	SaleDate     time.Time `db:"sale_date" json:"sale_date"`
}

// SalesTrend aggregates total units sold per product, descending.
type SalesTrend struct {
	ProductName string `db:"name" json:"product_name"`
	TotalSold   int    `db:"total_sold" json:"total_sold"`
}

// LowStockAlert describes a product currently at or below the low-stock
// threshold.
type LowStockAlert struct {
	ProductID   int64     `json:"product_id"`
	ProductName string    `json:"product_name"`
	Quantity    int       `json:"quantity"`
	RaisedAt    time.Time `json:"raised_at"`
}

// Credentials is the result of a successful login. No session token is
// issued; the caller holds username and role for the lifetime of its session.
type Credentials struct {
	Username string `json:"username"`
	Role     string `json:"role"`
}
